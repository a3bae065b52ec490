package nvvm

import (
	"github.com/gogpu/nvptx/ir"
	"github.com/gogpu/nvptx/target"
)

// DirectCallee resolves a call to the directly-called function,
// stripping pointer casts around the callee operand. ok is false for
// indirect calls and for references that do not resolve.
func DirectCallee(m *ir.Module, call *ir.CallInst) (ir.FunctionHandle, bool) {
	op := call.Callee
	for {
		bc, ok := op.(ir.BitcastOperand)
		if !ok {
			break
		}
		op = bc.Inner
	}
	fo, ok := op.(ir.FunctionOperand)
	if !ok {
		return 0, false
	}
	if _, ok := m.Function(fo.Func); !ok {
		return 0, false
	}
	return fo.Func, true
}

// CallEmitsNoReturn reports whether the call site should be lowered
// with the .noreturn directive: the target supports it, the call is
// marked no-return, and it produces no value.
func CallEmitsNoReturn(tm target.Machine, call *ir.CallInst) bool {
	if !tm.HasNoReturn() {
		return false
	}
	return call.NoReturn && call.Result == nil
}

// FuncEmitsNoReturn is the declaration-side analog of CallEmitsNoReturn.
// Kernel entry points never lower with .noreturn, even when declared
// no-return.
func (c *Cache) FuncEmitsNoReturn(tm target.Machine, m *ir.Module, f ir.FunctionHandle) (bool, error) {
	if !tm.HasNoReturn() {
		return false, nil
	}
	fn, ok := m.Function(f)
	if !ok || !fn.NoReturn || fn.Result != nil {
		return false, nil
	}
	kernel, err := c.IsKernel(m, f)
	if err != nil {
		return false, err
	}
	return !kernel, nil
}
