// Package maincmd implements the rustcript CLI command object, invoked
// by cmd/rustcript's thin main.go. It resolves a script's imports,
// parses it, configures an Interpreter per the sandbox/limit flags, and
// runs it to completion (spec §6).
package maincmd

import (
	"context"
	"fmt"
	"os"

	env "github.com/caarlos0/env/v6"
	"github.com/mna/mainer"
	"gopkg.in/yaml.v3"

	rustcript "github.com/mna/rustcript"
	"github.com/mna/rustcript/lang/machine"
)

const binName = "rustcript"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <path>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <path>
       %[1]s -h|--help
       %[1]s -v|--version

Interpreter for the %[1]s embeddable scripting language.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --limit N                  Instruction budget; a non-zero N
                                  overrides RUSTCRIPT_MAX_OPS and the
                                  config file (0 is the same as not
                                  setting the flag).
       --unlimited                Run with no instruction budget,
                                  overriding every other limit setting.
       --sandbox PATH             Directory all io paths must resolve
                                  under.
       --allow-read               Grant the io module read permission.
       --allow-write              Grant the io module write permission.
       --allow-delete             Grant the io module delete permission.
       --allow-exec               Enable the exec statement and os.exec.
       --unsafe-no-sandbox        Disable path containment (permissions
                                  are still enforced).
       --config PATH              YAML file supplying defaults for the
                                  flags above.
       --dump-program             Print the parsed program's flat
                                  statement list with jump targets
                                  instead of running it.

More information on the %[1]s repository:
       https://github.com/mna/rustcript
`, binName)
)

// envConfig is populated from the environment in run, after flags are
// parsed; run then lets the config file and a non-zero --limit (or
// --unlimited) take precedence over it.
type envConfig struct {
	MaxOps int64 `env:"RUSTCRIPT_MAX_OPS" envDefault:"0"`
}

// fileConfig is the optional --config YAML document.
type fileConfig struct {
	Sandbox   string `yaml:"sandbox"`
	Limit     *int64 `yaml:"limit"`
	Read      bool   `yaml:"allow_read"`
	Write     bool   `yaml:"allow_write"`
	Delete    bool   `yaml:"allow_delete"`
	Exec      bool   `yaml:"allow_exec"`
	NoSandbox bool   `yaml:"unsafe_no_sandbox"`
}

type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	Limit           int64  `flag:"limit"`
	Unlimited       bool   `flag:"unlimited"`
	Sandbox         string `flag:"sandbox"`
	AllowRead       bool   `flag:"allow-read"`
	AllowWrite      bool   `flag:"allow-write"`
	AllowDelete     bool   `flag:"allow-delete"`
	AllowExec       bool   `flag:"allow-exec"`
	UnsafeNoSandbox bool   `flag:"unsafe-no-sandbox"`
	ConfigPath      string `flag:"config"`
	DumpProgram     bool   `flag:"dump-program"`

	args []string
}

func (c *Cmd) SetArgs(args []string) { c.args = args }

func (c *Cmd) SetFlags(map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) != 1 {
		return fmt.Errorf("exactly one script path must be provided")
	}
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: "RUSTCRIPT_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.run(ctx, stdio); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return mainer.Failure
	}
	return mainer.Success
}

func (c *Cmd) run(_ context.Context, stdio mainer.Stdio) error {
	var envCfg envConfig
	if err := env.Parse(&envCfg); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}

	var fileCfg fileConfig
	if c.ConfigPath != "" {
		b, err := os.ReadFile(c.ConfigPath)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(b, &fileCfg); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	limit := envCfg.MaxOps
	if fileCfg.Limit != nil {
		limit = *fileCfg.Limit
	}
	if c.Limit != 0 {
		limit = c.Limit
	}
	if c.Unlimited {
		limit = 0
	}

	sandboxRoot := fileCfg.Sandbox
	if c.Sandbox != "" {
		sandboxRoot = c.Sandbox
	}

	cfg := rustcript.Config{
		Limit:           limit,
		SandboxRoot:     sandboxRoot,
		UnsafeNoSandbox: c.UnsafeNoSandbox || fileCfg.NoSandbox,
		Permissions: machine.Permissions{
			Read:   c.AllowRead || fileCfg.Read,
			Write:  c.AllowWrite || fileCfg.Write,
			Delete: c.AllowDelete || fileCfg.Delete,
		},
		EnableExec: c.AllowExec || fileCfg.Exec,
		Handler:    &stdioHandler{stdio: stdio},
	}

	script, err := rustcript.Construct(c.args[0], cfg)
	if err != nil {
		return err
	}

	if c.DumpProgram {
		fmt.Fprint(stdio.Stdout, script.Disassemble())
		return nil
	}

	return script.Run(cfg)
}
