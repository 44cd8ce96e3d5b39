package machine

import "sync"

// HostObject is the contract a Go type implements to be exposed into a
// script as UserData (spec §4.6): field read/write and method dispatch
// are all delegated to the host, letting the embedder project arbitrary
// Go state into the value model without rustcript knowing its shape.
type HostObject interface {
	// TypeName is reported by Type() and in TypeError messages, e.g.
	// "connection" or "widget".
	TypeName() string
	// Get reads a field. It returns a NameError-flavored *EvalError if name
	// is not a recognized field.
	Get(name string) (Value, error)
	// Set writes a field. Implementations that expose no writable fields
	// should return a SecurityError or TypeError, at the host's discretion.
	Set(name string, v Value) error
	// Call invokes a method by name with positional arguments.
	Call(method string, args []Value) (Value, error)
}

// UserData wraps a HostObject as a Value, implementing the get/set/call
// capability bridge described in spec §4.6. Every UserData carries its own
// mutex: scripts run on a single goroutine, but a HostObject may be shared
// with host-side goroutines outside the interpreter (e.g. a connection
// pool), so method dispatch takes the lock for the duration of the call.
type UserData struct {
	mu   sync.Mutex
	impl HostObject
}

var (
	_ Value       = (*UserData)(nil)
	_ HasAttrs    = (*UserData)(nil)
	_ HasSetField = (*UserData)(nil)
)

// NewUserData wraps impl as a script-visible value.
func NewUserData(impl HostObject) *UserData {
	return &UserData{impl: impl}
}

func (u *UserData) String() string { return "<" + u.impl.TypeName() + ">" }
func (u *UserData) Type() string   { return u.impl.TypeName() }
func (u *UserData) Truth() bool    { return true }

func (u *UserData) Attr(name string) (Value, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.impl.Get(name)
}

func (u *UserData) SetField(name string, v Value) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.impl.Set(name, v)
}

// CallMethod invokes a `.method(args)` access-chain segment. It is
// distinct from the Callable interface (which models a bare `value(args)`
// call on a non-UserData value) because a method call always carries a
// name alongside the argument list.
func (u *UserData) CallMethod(method string, args []Value) (Value, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.impl.Call(method, args)
}

// Unwrap returns the underlying HostObject, for host code that received a
// Value back from the interpreter (e.g. a function return value) and
// needs to recover its original Go type via a type assertion on the
// HostObject interface.
func (u *UserData) Unwrap() HostObject { return u.impl }
