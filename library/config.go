package library

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// ConfigFile is the library configuration file at the repository root.
const ConfigFile = "sevmeta.toml"

type Config struct {
	Library LibraryConfig `toml:"library"`
	User    UserConfig    `toml:"user"`
}

type LibraryConfig struct {
	Name string `toml:"name"`
	// Include is an expression over a superevent's identity fields
	// deciding whether it belongs in the library index, e.g.
	// `Sname startsWith "S23" and "EM_READY" in Labels`. Empty
	// includes everything.
	Include string `toml:"include"`
}

type UserConfig struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

func defaultConfig() *Config {
	return &Config{
		User: UserConfig{Name: "sevmeta", Email: "sevmeta@localhost"},
	}
}

func readConfig(fs billy.Filesystem) (*Config, error) {
	cfg := defaultConfig()
	d, err := util.ReadFile(fs, ConfigFile)
	if err != nil {
		// a library without a config file uses the defaults
		return cfg, nil
	}
	if err := toml.Unmarshal(d, cfg); err != nil {
		return nil, fmt.Errorf("reading %s: %w", ConfigFile, err)
	}
	if cfg.User.Name == "" {
		cfg.User.Name = "sevmeta"
	}
	if cfg.User.Email == "" {
		cfg.User.Email = "sevmeta@localhost"
	}
	return cfg, nil
}

// includeEnv is the evaluation environment of the include expression.
type includeEnv struct {
	Sname       string   `expr:"Sname"`
	Labels      []string `expr:"Labels"`
	Instruments []string `expr:"Instruments"`
}

func compileInclude(src string) (*vm.Program, error) {
	if src == "" {
		return nil, nil
	}
	prog, err := expr.Compile(src, expr.Env(includeEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("library include rule: %w", err)
	}
	return prog, nil
}
