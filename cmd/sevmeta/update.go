package main

import (
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/sevmeta/sevmeta/merge"
)

func update(cfg *UpdateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Update.Parse(cc, args)
	if err != nil {
		cfg.Update.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: update requires a superevent name", cli.ErrUsage)
	}
	sname := args[0]
	lib, err := cfg.lib()
	if err != nil {
		return err
	}
	md, err := lib.LoadOrCreate(sname)
	if err != nil {
		return err
	}
	mode := merge.Additive
	if cfg.Removal {
		mode = merge.Removal
	}
	for _, arg := range args[1:] {
		u, err := readDoc(arg)
		if err != nil {
			return err
		}
		warns, err := md.Update(u, mode)
		if err != nil {
			return fmt.Errorf("error applying %s: %w", arg, err)
		}
		for _, w := range warns {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
	}
	return md.Write(cfg.Message)
}
