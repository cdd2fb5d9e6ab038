package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/sevmeta/sevmeta/library"
)

func initLib(cfg *InitConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Init.Parse(cc, args)
	if err != nil {
		cfg.Init.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: init requires a library path", cli.ErrUsage)
	}
	libCfg := &library.Config{
		Library: library.LibraryConfig{Name: cfg.Name, Include: cfg.Include},
		User:    library.UserConfig{Name: cfg.User, Email: cfg.Email},
	}
	l, err := library.Init(args[0], libCfg, library.WithLogger(cfg.logger()))
	if err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "initialized library %q at %s\n", l.Name(), args[0])
	return nil
}
