package nvvm

import (
	"fmt"
	"slices"

	"github.com/gogpu/nvptx/ir"
)

// flag reports a boolean-style property. Present means the value must
// be 1; any other value is corrupt producer output.
func (c *Cache) flag(m *ir.Module, gv ir.GlobalRef, prop string) (bool, error) {
	v, ok, err := c.FindOne(m, gv, prop)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if v != 1 {
		return false, &MalformedError{
			Module:  m.Name,
			Entry:   -1,
			Message: fmt.Sprintf("unexpected value %d for %q annotation", v, prop),
		}
	}
	return true, nil
}

// argListed reports whether the argument's ordinal position appears in
// the value list of prop on its owning function.
func (c *Cache) argListed(m *ir.Module, arg ir.ArgRef, prop string) (bool, error) {
	vs, ok, err := c.FindAll(m, ir.FuncRef(arg.Func), prop)
	if err != nil || !ok {
		return false, err
	}
	return slices.Contains(vs, arg.Index), nil
}

// IsTexture reports whether the global is a texture reference.
func (c *Cache) IsTexture(m *ir.Module, gv ir.GlobalRef) (bool, error) {
	return c.flag(m, gv, "texture")
}

// IsSurface reports whether the global is a surface reference.
func (c *Cache) IsSurface(m *ir.Module, gv ir.GlobalRef) (bool, error) {
	return c.flag(m, gv, "surface")
}

// IsManaged reports whether the global is a managed (unified memory)
// variable.
func (c *Cache) IsManaged(m *ir.Module, gv ir.GlobalRef) (bool, error) {
	return c.flag(m, gv, "managed")
}

// IsSampler reports whether v is a sampler: either a global sampler
// symbol, or a function argument whose ordinal appears in the owning
// function's "sampler" list.
func (c *Cache) IsSampler(m *ir.Module, v ir.Ref) (bool, error) {
	switch r := v.(type) {
	case ir.GlobalRef:
		return c.flag(m, r, "sampler")
	case ir.ArgRef:
		return c.argListed(m, r, "sampler")
	}
	return false, nil
}

// IsImageReadOnly reports whether the argument is a read-only image.
func (c *Cache) IsImageReadOnly(m *ir.Module, arg ir.ArgRef) (bool, error) {
	return c.argListed(m, arg, "rdoimage")
}

// IsImageWriteOnly reports whether the argument is a write-only image.
func (c *Cache) IsImageWriteOnly(m *ir.Module, arg ir.ArgRef) (bool, error) {
	return c.argListed(m, arg, "wroimage")
}

// IsImageReadWrite reports whether the argument is a read-write image.
func (c *Cache) IsImageReadWrite(m *ir.Module, arg ir.ArgRef) (bool, error) {
	return c.argListed(m, arg, "rdwrimage")
}

// IsImage reports whether the argument is an image of any access kind.
func (c *Cache) IsImage(m *ir.Module, arg ir.ArgRef) (bool, error) {
	if ro, err := c.IsImageReadOnly(m, arg); err != nil || ro {
		return ro, err
	}
	if wo, err := c.IsImageWriteOnly(m, arg); err != nil || wo {
		return wo, err
	}
	return c.IsImageReadWrite(m, arg)
}

// IsKernel reports whether the function is a grid-launchable kernel
// entry point. A "kernel" annotation decides when present; otherwise
// the declared calling convention does.
func (c *Cache) IsKernel(m *ir.Module, f ir.FunctionHandle) (bool, error) {
	v, ok, err := c.FindOne(m, ir.FuncRef(f), "kernel")
	if err != nil {
		return false, err
	}
	if !ok {
		fn, ok := m.Function(f)
		return ok && fn.CallingConv == ir.CallConvPTXKernel, nil
	}
	return v == 1, nil
}

// Kernels returns the handles of every kernel function in the module,
// in declaration order.
func (c *Cache) Kernels(m *ir.Module) ([]ir.FunctionHandle, error) {
	var out []ir.FunctionHandle
	for i := range m.Functions {
		h := ir.FunctionHandle(i)
		kernel, err := c.IsKernel(m, h)
		if err != nil {
			return nil, err
		}
		if kernel {
			out = append(out, h)
		}
	}
	return out, nil
}

// MaxNTIDX returns the declared upper bound on thread-block dimension x.
func (c *Cache) MaxNTIDX(m *ir.Module, f ir.FunctionHandle) (uint32, bool, error) {
	return c.FindOne(m, ir.FuncRef(f), "maxntidx")
}

// MaxNTIDY returns the declared upper bound on thread-block dimension y.
func (c *Cache) MaxNTIDY(m *ir.Module, f ir.FunctionHandle) (uint32, bool, error) {
	return c.FindOne(m, ir.FuncRef(f), "maxntidy")
}

// MaxNTIDZ returns the declared upper bound on thread-block dimension z.
func (c *Cache) MaxNTIDZ(m *ir.Module, f ir.FunctionHandle) (uint32, bool, error) {
	return c.FindOne(m, ir.FuncRef(f), "maxntidz")
}

// ReqNTIDX returns the required thread-block dimension x.
func (c *Cache) ReqNTIDX(m *ir.Module, f ir.FunctionHandle) (uint32, bool, error) {
	return c.FindOne(m, ir.FuncRef(f), "reqntidx")
}

// ReqNTIDY returns the required thread-block dimension y.
func (c *Cache) ReqNTIDY(m *ir.Module, f ir.FunctionHandle) (uint32, bool, error) {
	return c.FindOne(m, ir.FuncRef(f), "reqntidy")
}

// ReqNTIDZ returns the required thread-block dimension z.
func (c *Cache) ReqNTIDZ(m *ir.Module, f ir.FunctionHandle) (uint32, bool, error) {
	return c.FindOne(m, ir.FuncRef(f), "reqntidz")
}

// MaxClusterRank returns the declared upper bound on cluster rank.
func (c *Cache) MaxClusterRank(m *ir.Module, f ir.FunctionHandle) (uint32, bool, error) {
	return c.FindOne(m, ir.FuncRef(f), "maxclusterrank")
}

// MinCTAPerSM returns the declared minimum resident CTAs per
// multiprocessor.
func (c *Cache) MinCTAPerSM(m *ir.Module, f ir.FunctionHandle) (uint32, bool, error) {
	return c.FindOne(m, ir.FuncRef(f), "minctasm")
}

// MaxNReg returns the declared per-thread register budget.
func (c *Cache) MaxNReg(m *ir.Module, f ir.FunctionHandle) (uint32, bool, error) {
	return c.FindOne(m, ir.FuncRef(f), "maxnreg")
}

// ReqNTID returns the required thread-block shape. Dimensions without a
// declared value default to 1. ok is false when no dimension is
// declared at all.
func (c *Cache) ReqNTID(m *ir.Module, f ir.FunctionHandle) ([3]uint32, bool, error) {
	return c.ntid(m, f, "reqntid")
}

// MaxNTID returns the thread-block shape upper bound, with the same
// defaulting as ReqNTID.
func (c *Cache) MaxNTID(m *ir.Module, f ir.FunctionHandle) ([3]uint32, bool, error) {
	return c.ntid(m, f, "maxntid")
}

func (c *Cache) ntid(m *ir.Module, f ir.FunctionHandle, prefix string) ([3]uint32, bool, error) {
	dims := [3]uint32{1, 1, 1}
	declared := false
	for i, axis := range [3]string{"x", "y", "z"} {
		v, ok, err := c.FindOne(m, ir.FuncRef(f), prefix+axis)
		if err != nil {
			return dims, false, err
		}
		if ok {
			dims[i] = v
			declared = true
		}
	}
	return dims, declared, nil
}

// TextureName returns the declared name of a texture symbol.
func TextureName(m *ir.Module, gv ir.GlobalRef) (string, error) {
	return symbolName(m, gv, "texture")
}

// SurfaceName returns the declared name of a surface symbol.
func SurfaceName(m *ir.Module, gv ir.GlobalRef) (string, error) {
	return symbolName(m, gv, "surface")
}

// SamplerName returns the declared name of a sampler symbol.
func SamplerName(m *ir.Module, gv ir.GlobalRef) (string, error) {
	return symbolName(m, gv, "sampler")
}

func symbolName(m *ir.Module, gv ir.GlobalRef, kind string) (string, error) {
	name, ok := m.SymbolName(gv)
	if !ok {
		return "", fmt.Errorf("%s symbol: %w", kind, ErrUnknownSymbol)
	}
	if name == "" {
		return "", fmt.Errorf("%s symbol: %w", kind, ErrAnonymous)
	}
	return name, nil
}
