package machine

import (
	"strconv"
	"strings"

	"github.com/mna/rustcript/lang/ast"
)

// loopFrame is the iteration state of one active for/foreach activation,
// pushed when the loop opener is first reached and popped when its range
// or iterator is exhausted (spec §4.5). While and Loop carry no such
// state: While re-evaluates its condition on every jump-back, and Loop is
// unconditional, so only Break/the body decide when it ends.
type loopFrame struct {
	opener  int
	loopVar string
	cur, end int64
	elemVar string
	it      Iterator
}

// Run executes the program from its current position (index 0 on a fresh
// Interpreter) to completion, dispatching the flat statement list against
// its jump map (spec §4.5). A non-nil, non-caught error aborts the run.
func (ip *Interpreter) Run() error {
	for ip.pc < len(ip.Program.Statements) {
		if err := ip.step(); err != nil {
			if !ip.handleError(err, 0) {
				return err
			}
		}
	}
	return nil
}

// handleError consults the active catch stack for an entry installed at
// or after floorDepth (i.e. within the current function-call invocation,
// not an ancestor caller's). It reports whether the error was consumed;
// when true, ip.pc now points at the matching catch block and execution
// should continue looping at the caller.
func (ip *Interpreter) handleError(err error, floorDepth int) bool {
	ee := AsEvalError(err)
	if !ee.Catchable() {
		return false
	}
	if len(ip.catches) == 0 {
		return false
	}
	top := ip.catches[len(ip.catches)-1]
	if top.depth < floorDepth {
		return false
	}
	ip.catches = ip.catches[:len(ip.catches)-1]
	ip.frames = ip.frames[:min(len(ip.frames), top.depth)]
	ip.calls = ip.calls[:min(len(ip.calls), top.depth)]
	ip.globals.SetKey("LAST_ERROR", String(ee.Error()))
	ip.pc = top.catchPC
	return true
}

// step executes exactly the statement at ip.pc, advancing ip.pc according
// to that statement's own control-flow rule, and increments the
// instruction counter (spec §4.9). It returns a non-nil error for any
// failing operation; the caller (Run or callFunction) decides whether a
// try/catch may intercept it.
func (ip *Interpreter) step() error {
	ip.counter++
	if ip.limit > 0 && ip.counter > ip.limit {
		return &EvalError{Kind: KindLimit, Message: "instruction limit exceeded"}
	}

	idx := ip.pc
	s := &ip.Program.Statements[idx]
	err := ip.dispatch(s, idx)
	if err != nil {
		if ee, ok := err.(*EvalError); ok {
			return ee.WithPosition(s.Path, s.Line)
		}
		return err
	}
	return nil
}

func (ip *Interpreter) dispatch(s *ast.Statement, idx int) error {
	switch s.Kind {
	case ast.Assign:
		v, err := ip.evalExpr(s.Expr)
		if err != nil {
			return err
		}
		if err := ip.writeChain(s.Dest, s.VarKind, v); err != nil {
			return err
		}
		ip.pc = idx + 1

	case ast.CompoundAssign:
		cur, err := ip.readChain(s.Dest)
		if err != nil {
			return err
		}
		rhs, err := ip.evalExpr(s.Expr)
		if err != nil {
			return err
		}
		result, err := Binary(s.CompoundOp, cur, rhs)
		if err != nil {
			return err
		}
		if err := ip.writeChain(s.Dest, "", result); err != nil {
			return err
		}
		ip.pc = idx + 1

	case ast.Print:
		v, err := ip.evalExpr(s.Expr)
		if err != nil {
			return err
		}
		if ip.handler != nil {
			ip.handler.OnPrint(Stringify(v))
		}
		ip.pc = idx + 1

	case ast.Input:
		prompt := ""
		if s.Expr != nil {
			p, err := ip.evalExpr(s.Expr)
			if err != nil {
				return err
			}
			prompt = Stringify(p)
		}
		if ip.handler == nil {
			return &EvalError{Kind: KindInternal, Message: "input statement requires a script handler"}
		}
		text, err := ip.handler.OnInput(prompt)
		if err != nil {
			return &EvalError{Kind: KindIO, Message: err.Error()}
		}
		if err := ip.writeChain(s.Dest, "", inferInputValue(text)); err != nil {
			return err
		}
		ip.pc = idx + 1

	case ast.Exec:
		v, err := ip.evalExpr(s.Expr)
		if err != nil {
			return err
		}
		if !ip.enableExec {
			return &EvalError{Kind: KindSecurity, Message: "exec is disabled"}
		}
		if ip.handler == nil {
			return &EvalError{Kind: KindInternal, Message: "exec statement requires a script handler"}
		}
		fields := strings.Fields(Stringify(v))
		if len(fields) == 0 {
			return &EvalError{Kind: KindIO, Message: "empty exec command"}
		}
		handled, err := ip.handler.OnCommand(fields[0], fields[1:])
		if err != nil {
			return &EvalError{Kind: KindIO, Message: err.Error()}
		}
		if !handled {
			return &EvalError{Kind: KindInternal, Message: "unhandled exec command: " + fields[0]}
		}
		ip.pc = idx + 1

	case ast.Method:
		if _, err := ip.evalExpr(s.Expr); err != nil {
			return err
		}
		ip.pc = idx + 1

	case ast.If, ast.ElseIf:
		cond, err := ip.evalExpr(s.Cond)
		if err != nil {
			return err
		}
		if cond.Truth() {
			ip.pc = idx + 1
		} else {
			ip.pc = ip.Program.ChainNext[idx]
		}

	case ast.Else:
		ip.pc = idx + 1

	case ast.While:
		cond, err := ip.evalExpr(s.Cond)
		if err != nil {
			return err
		}
		if cond.Truth() {
			ip.pc = idx + 1
		} else {
			ip.pc = ip.Program.JumpMap[idx] + 1
		}

	case ast.Loop:
		ip.pc = idx + 1

	case ast.For:
		return ip.dispatchFor(s, idx)

	case ast.Foreach:
		return ip.dispatchForeach(s, idx)

	case ast.Break:
		if n := len(ip.loops); n > 0 && ip.loops[n-1].opener == s.TargetOpener {
			ip.loops = ip.loops[:n-1]
		}
		// Drop the handlers of try blocks inside the loop being left.
		end := ip.Program.JumpMap[s.TargetOpener]
		for n := len(ip.catches); n > 0; n-- {
			c := ip.catches[n-1]
			if c.depth != len(ip.calls) || c.catchPC <= s.TargetOpener || c.catchPC >= end {
				break
			}
			ip.catches = ip.catches[:n-1]
		}
		ip.pc = end + 1

	case ast.Match:
		subj, err := ip.evalExpr(s.Cond)
		if err != nil {
			return err
		}
		ip.matchStack = append(ip.matchStack, subj)
		ip.pc = idx + 1

	case ast.Case:
		if len(ip.matchStack) == 0 {
			return &EvalError{Kind: KindInternal, Message: "case outside match"}
		}
		subj := ip.matchStack[len(ip.matchStack)-1]
		val, err := ip.evalExpr(s.Cond)
		if err != nil {
			return err
		}
		eq, err := compareEq(subj, val)
		if err != nil {
			return err
		}
		if eq {
			ip.pc = idx + 1
		} else {
			ip.pc = ip.Program.ChainNext[idx]
		}

	case ast.Default:
		ip.pc = idx + 1

	case ast.Try:
		catchPC := ip.Program.ChainNext[idx]
		ip.catches = append(ip.catches, catchEntry{catchPC: catchPC, depth: len(ip.calls)})
		ip.pc = idx + 1

	case ast.Catch:
		ip.pc = idx + 1

	case ast.Close:
		ip.dispatchClose(s, idx)

	case ast.FunctionDef:
		ip.pc = ip.Program.JumpMap[idx] + 1

	case ast.Return:
		var v Value = Null
		if s.HasValue {
			var err error
			v, err = ip.evalExpr(s.Expr)
			if err != nil {
				return err
			}
		}
		return ip.doReturn(v)

	case ast.Label:
		ip.pc = idx + 1

	case ast.CallSub:
		target, ok := ip.resolveLabel(s.Name)
		if !ok {
			return &EvalError{Kind: KindName, Message: "label '" + s.Name + "' is not defined"}
		}
		beforeDepth := len(ip.frames)
		ip.frames = append(ip.frames, NewHashMap(0))
		ip.calls = append(ip.calls, callEntry{returnPC: idx + 1, frameDepth: beforeDepth, functionName: s.Name})
		ip.pc = target

	case ast.Goto:
		if len(ip.calls) > 0 {
			return &EvalError{Kind: KindInternal, Message: "'goto' is not allowed inside a function or subroutine"}
		}
		target, ok := ip.resolveLabel(s.Name)
		if !ok {
			return &EvalError{Kind: KindName, Message: "label '" + s.Name + "' is not defined"}
		}
		ip.pc = target

	case ast.ModuleOpen:
		ip.pc = idx + 1

	default:
		return &EvalError{Kind: KindInternal, Message: "unhandled statement kind"}
	}
	return nil
}

func (ip *Interpreter) dispatchClose(s *ast.Statement, idx int) {
	owner := &ip.Program.Statements[s.OwnerOpener]
	switch owner.Kind {
	case ast.While, ast.For, ast.Foreach, ast.Loop:
		ip.pc = s.OwnerOpener
	case ast.FunctionDef:
		ip.doReturn(Null)
	case ast.Try:
		if n := len(ip.catches); n > 0 {
			ip.catches = ip.catches[:n-1]
		}
		ip.pc = ip.Program.ChainEnd(s.OwnerOpener) + 1
	case ast.If, ast.ElseIf, ast.Else, ast.Case, ast.Default, ast.Catch:
		ip.pc = ip.Program.ChainEnd(s.OwnerOpener) + 1
	case ast.Match:
		if n := len(ip.matchStack); n > 0 {
			ip.matchStack = ip.matchStack[:n-1]
		}
		ip.pc = idx + 1
	default:
		ip.pc = idx + 1
	}
}

func (ip *Interpreter) dispatchFor(s *ast.Statement, idx int) error {
	var lf *loopFrame
	if n := len(ip.loops); n > 0 && ip.loops[n-1].opener == idx {
		lf = &ip.loops[n-1]
		lf.cur++
	} else {
		startV, err := ip.evalExpr(s.RangeStart)
		if err != nil {
			return err
		}
		endV, err := ip.evalExpr(s.RangeEnd)
		if err != nil {
			return err
		}
		startI, ok := startV.(Int)
		if !ok {
			return typeError("for range start must be an integer, got %s", startV.Type())
		}
		endI, ok := endV.(Int)
		if !ok {
			return typeError("for range end must be an integer, got %s", endV.Type())
		}
		ip.loops = append(ip.loops, loopFrame{opener: idx, loopVar: s.LoopVar, cur: int64(startI), end: int64(endI)})
		lf = &ip.loops[len(ip.loops)-1]
	}
	// Range is half-open: END is excluded, so the loop runs for exactly
	// max(0, end-start) iterations.
	if lf.cur >= lf.end {
		ip.loops = ip.loops[:len(ip.loops)-1]
		ip.pc = ip.Program.JumpMap[idx] + 1
		return nil
	}
	ip.assignVar(lf.loopVar, Int(lf.cur))
	ip.pc = idx + 1
	return nil
}

func (ip *Interpreter) dispatchForeach(s *ast.Statement, idx int) error {
	var lf *loopFrame
	if n := len(ip.loops); n > 0 && ip.loops[n-1].opener == idx {
		lf = &ip.loops[n-1]
	} else {
		coll, err := ip.evalExpr(s.IterVal)
		if err != nil {
			return err
		}
		iterable, ok := coll.(Iterable)
		if !ok {
			return typeError("value of type %s is not iterable", coll.Type())
		}
		ip.loops = append(ip.loops, loopFrame{opener: idx, elemVar: s.ElemVar, it: iterable.Iterate()})
		lf = &ip.loops[len(ip.loops)-1]
	}
	var elem Value
	if !lf.it.Next(&elem) {
		ip.loops = ip.loops[:len(ip.loops)-1]
		ip.pc = ip.Program.JumpMap[idx] + 1
		return nil
	}
	ip.assignVar(lf.elemVar, elem)
	ip.pc = idx + 1
	return nil
}

// doReturn pops the current call and its frame, drops the handlers of
// any try blocks the call left open, stashes v as the pending call result
// consumed by callFunction, and resumes at the caller's recorded return
// point.
func (ip *Interpreter) doReturn(v Value) error {
	if len(ip.calls) == 0 {
		return &EvalError{Kind: KindInternal, Message: "return outside function or subroutine"}
	}
	top := ip.calls[len(ip.calls)-1]
	ip.calls = ip.calls[:len(ip.calls)-1]
	ip.frames = ip.frames[:top.frameDepth]
	for n := len(ip.catches); n > 0 && ip.catches[n-1].depth > len(ip.calls); n-- {
		ip.catches = ip.catches[:n-1]
	}
	ip.pendingResult = v
	ip.pc = top.returnPC
	return nil
}

// resolveLabel looks up a label, first namespace-qualified then bare,
// mirroring resolveFunction.
func (ip *Interpreter) resolveLabel(name string) (int, bool) {
	if ns := ip.namespace(); ns != "" {
		if idx, ok := ip.Program.Labels[ns+"."+name]; ok {
			return idx, true
		}
	}
	if idx, ok := ip.Program.Labels[name]; ok {
		return idx, true
	}
	return 0, false
}

// callFunction invokes fn with args as a nested statement-dispatch loop
// (spec §4.5): a function call reached from within expression evaluation
// cannot simply reassign the outer pc, since the Go call stack is already
// inside evalExpr, so it runs its own copy of the step loop, bounded by
// call-stack depth rather than by a fixed pc range (a Return may itself
// be reached via several nested jumps).
func (ip *Interpreter) callFunction(fn *ast.FunctionInfo, args []Value) (Value, error) {
	savedPC := ip.pc

	frame := NewHashMap(len(fn.Params))
	for i, pname := range fn.Params {
		var av Value = Null
		if i < len(args) {
			av = args[i]
		}
		frame.SetKey(pname, av)
	}
	beforeDepth := len(ip.frames)
	ip.frames = append(ip.frames, frame)
	ip.calls = append(ip.calls, callEntry{returnPC: -1, frameDepth: beforeDepth, functionName: fn.Name})
	targetDepth := len(ip.calls) - 1

	ip.pc = fn.BodyStart
	ip.pendingResult = Null

	for len(ip.calls) > targetDepth {
		if err := ip.step(); err != nil {
			// A catch installed at or before targetDepth lives in the caller's
			// own context (its try lexically wraps this very call), not inside
			// fn's body — decline it here so the caller's own handleError call
			// gets the chance, per handleError's doc. Only catches installed
			// after our own call entry was pushed (depth > targetDepth) belong
			// to fn and are claimed by this loop.
			if ip.handleError(err, targetDepth+1) {
				continue
			}
			// Unwind this invocation's own frame/call before propagating, since
			// no catch inside fn's own body claimed the error.
			if len(ip.calls) > targetDepth {
				ip.calls = ip.calls[:targetDepth]
			}
			ip.frames = ip.frames[:beforeDepth]
			ip.pc = savedPC
			return nil, err
		}
	}

	result := ip.pendingResult
	ip.pc = savedPC
	return result, nil
}

// inferInputValue implements the `input` statement's type inference:
// Int, then Float, then Bool, then String, in that order (spec §9 Open
// Question decision, see DESIGN.md).
func inferInputValue(text string) Value {
	if i, err := strconv.ParseInt(text, 10, 32); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return Float(f)
	}
	switch text {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	return String(text)
}
