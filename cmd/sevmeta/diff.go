package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/sevmeta/sevmeta/encode"
	"github.com/sevmeta/sevmeta/ir"
	"github.com/sevmeta/sevmeta/libdiff"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires two document files", cli.ErrUsage)
	}
	before, err := readDoc(args[0])
	if err != nil {
		return err
	}
	after, err := readDoc(args[1])
	if err != nil {
		return err
	}
	res := ir.Object()
	if add := libdiff.Diff(before, after); add != nil {
		res.Set("Additions", add)
	}
	if rem := libdiff.Removals(before, after); rem != nil {
		res.Set("Removals", rem)
	}
	if len(res.Fields) == 0 {
		return nil
	}
	return encode.Encode(res, cc.Out, cfg.encOpts(cc.Out)...)
}
