package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/sevmeta/sevmeta/gitmerge"
	"github.com/sevmeta/sevmeta/ir"
	"github.com/sevmeta/sevmeta/schema"
)

func gitMerge(cfg *GitMergeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.GitMerge.Parse(cc, args)
	if err != nil {
		cfg.GitMerge.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 3 {
		return fmt.Errorf("%w: git-merge requires ancestor, ours, theirs paths", cli.ErrUsage)
	}
	var opts []gitmerge.Opt
	if !cfg.NoValidate {
		opts = append(opts, gitmerge.WithValidate(validateDoc))
	}
	err = gitmerge.RunFiles(args[0], args[1], args[2], opts...)
	if err == nil {
		return nil
	}
	conflict := &gitmerge.ConflictError{}
	if errors.As(err, &conflict) {
		fmt.Fprintf(os.Stderr, "%v\n", conflict)
		return cli.ExitCodeErr(1)
	}
	return err
}

func validateDoc(doc *ir.Node) error {
	sch, err := schema.Get(schema.VersionOf(doc))
	if err != nil {
		return err
	}
	return sch.Validate(doc)
}
