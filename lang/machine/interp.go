// Package machine additionally implements (in the files below) the
// runtime half of the engine: scope frames, the call stack, the
// statement dispatcher, the access-chain engine, the standard library,
// and sandbox/limit enforcement (spec §4.4–§4.9) — grounded on the
// teacher's lang/machine/{frame,thread,machine}.go split, generalized
// from a bytecode VM to a walker over the flat ast.Program statement
// list and jump map.
package machine

import (
	"github.com/mna/rustcript/lang/ast"
)

// ScriptHandler is the host-callback contract of spec §6: `on_print`,
// `on_input`, and `on_command`.
type ScriptHandler interface {
	OnPrint(text string)
	OnInput(prompt string) (string, error)
	// OnCommand handles an `exec` statement. handled reports whether the
	// host recognized the command; if false, the interpreter raises an
	// InternalError rather than silently continuing.
	OnCommand(name string, args []string) (handled bool, err error)
}

// Permissions gates the io module's filesystem operations (spec §4.9).
type Permissions struct {
	Read, Write, Delete bool
}

// callEntry is one call-stack record: where to resume, and how deep the
// frame stack should be on return (spec §3's call_stack).
type callEntry struct {
	returnPC     int
	frameDepth   int
	functionName string
}

// catchEntry is an installed try/catch handler (spec §4.5). depth is the
// call-stack depth (len(Interpreter.calls)) at the moment the owning
// `try` statement was dispatched, used to decide which nesting level of
// execution is responsible for handling a given error (see
// Interpreter.handleError in dispatch.go).
type catchEntry struct {
	catchPC int
	depth   int
}

// Interpreter owns a parsed Program, the global and frame scopes, the
// call stack, the cumulative instruction counter, and the sandbox
// configuration — every piece of mutable state a running script can
// touch (spec §3's Lifecycles paragraph).
type Interpreter struct {
	Program *ast.Program

	globals    *HashMap
	frames     []*HashMap
	calls      []callEntry
	catches    []catchEntry
	loops      []loopFrame
	matchStack []Value

	pc            int
	counter       int64
	limit         int64 // 0 = unlimited
	pendingResult Value // the most recently returned call's result, consumed by callFunction

	sandboxRoot string // as given to SetSandboxRoot (canonicalized in resolvePath), "" = no sandbox
	unsafeMode  bool
	perms       Permissions
	enableExec  bool

	handler ScriptHandler
	rng     randSource

	// funcValues memoizes the *Function wrapper handed out for a given
	// function-table entry, so two lookups of the same name compare equal
	// by identity (ops.go's Function equality is pointer comparison).
	funcValues map[string]*Function
}

// New constructs an Interpreter for prog. Configure it further with
// SetLimit/SetSandboxRoot/SetPermissions/SetHandler before calling Run.
func New(prog *ast.Program) *Interpreter {
	return &Interpreter{
		Program: prog,
		globals: NewHashMap(16),
		limit:   0,
		rng:     newRandSource(),
	}
}

// SetLimit sets the instruction budget; 0 means unlimited (spec §4.9).
func (ip *Interpreter) SetLimit(n int64) { ip.limit = n }

// SetSandboxRoot sets the directory all io paths must resolve under.
func (ip *Interpreter) SetSandboxRoot(root string) { ip.sandboxRoot = root }

// SetUnsafeNoSandbox disables path containment while still enforcing
// Permissions (spec §4.9).
func (ip *Interpreter) SetUnsafeNoSandbox(v bool) { ip.unsafeMode = v }

// SetPermissions sets the io module's read/write/delete bits.
func (ip *Interpreter) SetPermissions(p Permissions) { ip.perms = p }

// SetExecEnabled gates os.exec and the `exec` statement.
func (ip *Interpreter) SetExecEnabled(v bool) { ip.enableExec = v }

// SetHandler installs the host's script-handler callbacks.
func (ip *Interpreter) SetHandler(h ScriptHandler) { ip.handler = h }

// InjectGlobal writes a named global of any Value variant, including
// UserData (spec §6's "Inject globals").
func (ip *Interpreter) InjectGlobal(name string, v Value) {
	ip.globals.SetKey(name, v)
}

// Global reads back a named global, for host code inspecting results
// after Run returns.
func (ip *Interpreter) Global(name string) (Value, bool) {
	return ip.globals.Get(name)
}
