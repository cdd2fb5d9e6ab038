package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"go.uber.org/zap"

	"github.com/sevmeta/sevmeta/encode"
	"github.com/sevmeta/sevmeta/format"
	"github.com/sevmeta/sevmeta/ir"
	"github.com/sevmeta/sevmeta/library"
	"github.com/sevmeta/sevmeta/parse"
)

type MainConfig struct {
	Library string `cli:"name=library aliases=l desc='path to the metadata library (default .)'"`
	Color   bool   `cli:"name=color desc='encode output with color'"`
	J       bool   `cli:"name=j aliases=json desc='output in json'"`
	Y       bool   `cli:"name=y aliases=yaml desc='output in yaml'"`
	Verbose bool   `cli:"name=v aliases=verbose desc='verbose logging'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func (cfg *MainConfig) libPath() string {
	if cfg.Library == "" {
		return "."
	}
	return cfg.Library
}

func (cfg *MainConfig) lib() (*library.Library, error) {
	return library.Open(cfg.libPath(), library.WithLogger(cfg.logger()))
}

func (cfg *MainConfig) logger() *zap.Logger {
	if !cfg.Verbose {
		return zap.NewNop()
	}
	zc := zap.NewDevelopmentConfig()
	log, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func (cfg *MainConfig) outFormat() format.Format {
	if cfg.Y {
		return format.YAMLFormat
	}
	return format.JSONFormat
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeFormat(cfg.outFormat()),
	}
	if cfg.Color {
		res = append(res, encode.EncodeColors(encode.NewColors()))
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

// readDoc reads an update or document argument, "-" meaning stdin.
func readDoc(arg string) (*ir.Node, error) {
	var rd io.Reader
	if arg == "-" {
		rd = os.Stdin
	} else {
		f, err := os.Open(arg)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		rd = f
	}
	d, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	y, err := parse.Parse(d)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", arg, err)
	}
	return y, nil
}

type UpdateConfig struct {
	*MainConfig

	Removal bool   `cli:"name=removal aliases=r desc='apply the update in removal mode'"`
	Message string `cli:"name=m aliases=message desc='commit message (default generated)'"`

	Update *cli.Command
}

type PrintConfig struct {
	*MainConfig

	Print *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Diff *cli.Command
}

type ValidateConfig struct {
	*MainConfig

	Validate *cli.Command
}

type InitConfig struct {
	*MainConfig

	Name    string `cli:"name=name desc='library name'"`
	Include string `cli:"name=include desc='index include rule expression'"`
	User    string `cli:"name=user desc='commit author name'"`
	Email   string `cli:"name=email desc='commit author email'"`

	Init *cli.Command
}

type IndexConfig struct {
	*MainConfig

	Message string `cli:"name=m aliases=message desc='commit message'"`

	Index *cli.Command
}

type GitMergeConfig struct {
	*MainConfig

	NoValidate bool `cli:"name=no-validate desc='skip schema validation of the merge result'"`

	GitMerge *cli.Command
}
