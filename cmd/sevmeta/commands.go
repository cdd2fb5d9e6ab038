package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "sevmeta").
		WithSynopsis("sevmeta [opts] command [opts]").
		WithDescription("sevmeta manages superevent metadata in git backed libraries.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return sevMain(cfg, cc, args)
		}).
		WithSubs(
			UpdateCommand(cfg),
			PrintCommand(cfg),
			DiffCommand(cfg),
			ValidateCommand(cfg),
			InitCommand(cfg),
			IndexCommand(cfg),
			GitMergeCommand(cfg))
}

func sevMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func UpdateCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &UpdateConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("update").
		WithAliases("u", "up").
		WithSynopsis("update [-removal] [-m message] <sname> [update-files]").
		WithDescription("Apply update documents to a superevent and commit the result").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return update(cfg, cc, args)
		})
	cfg.Update = cmd
	return cmd
}

func PrintCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PrintConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("print").
		WithAliases("p", "pr").
		WithSynopsis("print <sname>").
		WithDescription("Print a superevent's metadata document").
		WithRun(func(cc *cli.Context, args []string) error {
			return printDoc(cfg, cc, args)
		})
	cfg.Print = cmd
	return cmd
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("diff").
		WithAliases("d").
		WithSynopsis("diff <before-file> <after-file>").
		WithDescription("Show the update documents transforming one document into another").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}

func ValidateCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ValidateConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("validate").
		WithAliases("val").
		WithSynopsis("validate [files]").
		WithDescription("Validate documents against their declared schema versions").
		WithRun(func(cc *cli.Context, args []string) error {
			return validate(cfg, cc, args)
		})
	cfg.Validate = cmd
	return cmd
}

func InitCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &InitConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("init").
		WithSynopsis("init [-name name] [-include rule] [-user name] [-email addr] <path>").
		WithDescription("Create a new metadata library").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return initLib(cfg, cc, args)
		})
	cfg.Init = cmd
	return cmd
}

func IndexCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &IndexConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("index").
		WithSynopsis("index [-m message]").
		WithDescription("Rebuild the library index and commit it when changed").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return index(cfg, cc, args)
		})
	cfg.Index = cmd
	return cmd
}

func GitMergeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GitMergeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("git-merge").
		WithSynopsis("git-merge <ancestor> <ours> <theirs>").
		WithDescription("Three way merge driver for git, writes the merged document to the ours path").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return gitMerge(cfg, cc, args)
		})
	cfg.GitMerge = cmd
	return cmd
}
