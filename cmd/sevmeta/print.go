package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/sevmeta/sevmeta/encode"
)

func printDoc(cfg *PrintConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Print.Parse(cc, args)
	if err != nil {
		cfg.Print.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: print requires one superevent name", cli.ErrUsage)
	}
	lib, err := cfg.lib()
	if err != nil {
		return err
	}
	md, err := lib.Load(args[0])
	if err != nil {
		return err
	}
	return encode.Encode(md.Doc(), cc.Out, cfg.encOpts(cc.Out)...)
}
