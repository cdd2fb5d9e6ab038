package main

import (
	"fmt"
	"path/filepath"

	"github.com/scott-cotton/cli"

	"github.com/sevmeta/sevmeta/schema"
)

func validate(cfg *ValidateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Validate.Parse(cc, args)
	if err != nil {
		cfg.Validate.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	// with no arguments, validate every document in the library
	if len(args) == 0 {
		lib, err := cfg.lib()
		if err != nil {
			return err
		}
		entries, err := lib.Scan()
		if err != nil {
			return err
		}
		for _, e := range entries {
			args = append(args, filepath.Join(cfg.libPath(), e.Path))
		}
		if len(args) == 0 {
			fmt.Fprintln(cc.Out, "library has no documents")
			return nil
		}
	}
	failed := false
	for _, arg := range args {
		doc, err := readDoc(arg)
		if err != nil {
			return err
		}
		sch, err := schema.Get(schema.VersionOf(doc))
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		if err := sch.Validate(doc); err != nil {
			failed = true
			fmt.Fprintf(cc.Out, "%s: %v\n", arg, err)
			continue
		}
		fmt.Fprintf(cc.Out, "%s: ok (%s)\n", arg, sch.Version)
	}
	if failed {
		return cli.ExitCodeErr(1)
	}
	return nil
}
