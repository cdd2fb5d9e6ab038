package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func index(cfg *IndexConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Index.Parse(cc, args)
	if err != nil {
		cfg.Index.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: index takes no arguments", cli.ErrUsage)
	}
	lib, err := cfg.lib()
	if err != nil {
		return err
	}
	entries, err := lib.WriteIndex(cfg.Message)
	if err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "indexed %d superevents\n", len(entries))
	return nil
}
