// Package rustcript is the embeddable scripting-engine entry point (spec
// §6): resolve a script's imports, parse the unified source, and run it
// against a configured Interpreter. Host applications needing finer
// control over any one phase can use lang/parser and lang/machine
// directly; Construct/Script wire them together the way a typical
// embedder would.
package rustcript

import (
	"os"

	"github.com/mna/rustcript/lang/ast"
	"github.com/mna/rustcript/lang/machine"
	"github.com/mna/rustcript/lang/parser"
)

// Config collects every knob an embedder sets before running a script
// (spec §6's "Construction parameters").
type Config struct {
	// Limit is the instruction budget; 0 means unlimited (spec §4.9).
	Limit int64

	// SandboxRoot, if set, is the directory all io paths must resolve
	// under. UnsafeNoSandbox disables containment while Permissions are
	// still enforced.
	SandboxRoot     string
	UnsafeNoSandbox bool
	Permissions     machine.Permissions
	EnableExec      bool

	// Handler receives on_print/on_input/on_command callbacks. With a nil
	// Handler, print output is discarded, while input and exec statements
	// fail with an InternalError (exec fails with a SecurityError first
	// when EnableExec is off).
	Handler machine.ScriptHandler

	// Globals are injected into the script's global scope before Run,
	// the embedding API's "inject globals" step.
	Globals map[string]machine.Value

	// Loader reads a script's source given its path. Defaults to
	// os.ReadFile wrapped as a parser.Loader.
	Loader parser.Loader
}

// Script is a resolved and parsed program, ready to be run repeatedly
// (each Run call gets its own fresh Interpreter state) without re-paying
// the resolve/parse cost.
type Script struct {
	prog *ast.Program
}

func defaultLoader(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Construct resolves rootPath's imports and parses the result into a
// reusable Script (spec §4.3 + §2's component pipeline, stages 1–2).
func Construct(rootPath string, cfg Config) (*Script, error) {
	load := cfg.Loader
	if load == nil {
		load = defaultLoader
	}
	source, lines, err := parser.Resolve(rootPath, load)
	if err != nil {
		return nil, err
	}
	prog, err := parser.Parse(source, lines)
	if err != nil {
		return nil, err
	}
	return &Script{prog: prog}, nil
}

// Run builds a fresh Interpreter for s configured per cfg, injects
// cfg.Globals, and executes the script to completion (spec §6's "Run").
func (s *Script) Run(cfg Config) error {
	ip := machine.New(s.prog)
	ip.SetLimit(cfg.Limit)
	ip.SetSandboxRoot(cfg.SandboxRoot)
	ip.SetUnsafeNoSandbox(cfg.UnsafeNoSandbox)
	ip.SetPermissions(cfg.Permissions)
	ip.SetExecEnabled(cfg.EnableExec)
	ip.SetHandler(cfg.Handler)
	for name, v := range cfg.Globals {
		ip.InjectGlobal(name, v)
	}
	return ip.Run()
}

// Disassemble renders s's flat statement list with jump-map annotations,
// the jump-map interpreter's equivalent of the teacher's bytecode
// disassembler (spec §9's debugging aids, supplemented per SPEC_FULL.md
// §12).
func (s *Script) Disassemble() string { return s.prog.Disassemble() }
