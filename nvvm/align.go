package nvvm

import "github.com/gogpu/nvptx/ir"

// FuncAlign returns the alignment in bytes for one position of a
// function signature: index 0 is the return value, index 1+N is
// parameter N. The first-class stack-alignment attribute wins; failing
// that, the legacy "align" annotation list is searched. Each legacy
// value packs the position in the bits above 16 and the alignment in
// the low 16 bits.
func (c *Cache) FuncAlign(m *ir.Module, f ir.FunctionHandle, index uint32) (uint32, bool, error) {
	if fn, ok := m.Function(f); ok {
		if a, ok := fn.Attrs.StackAlign(index); ok {
			return a, true, nil
		}
	}
	vs, ok, err := c.FindAll(m, ir.FuncRef(f), "align")
	if err != nil || !ok {
		return 0, false, err
	}
	for _, v := range vs {
		if v>>16 == index {
			return v & 0xFFFF, true, nil
		}
	}
	return 0, false, nil
}

// CallAlign is the call-site analog of FuncAlign. The legacy channel is
// the call's "callalign" metadata node, whose integer operands use the
// same packing and are sorted by position, so the scan stops once past
// the requested index. Operands of other kinds are ignored.
func CallAlign(call *ir.CallInst, index uint32) (uint32, bool) {
	if a, ok := call.Attrs.StackAlign(index); ok {
		return a, true
	}
	for _, op := range call.Metadata["callalign"] {
		iv, ok := op.(ir.IntOperand)
		if !ok {
			continue
		}
		v := uint64(iv)
		if v>>16 == uint64(index) {
			return uint32(v & 0xFFFF), true
		}
		if v>>16 > uint64(index) {
			return 0, false
		}
	}
	return 0, false
}
