package nvvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/nvptx/ir"
)

func TestIsTextureIsSurface(t *testing.T) {
	m := ir.NewModule("test")
	tex0 := m.AddGlobal(ir.GlobalVariable{Name: "tex0", Space: ir.SpaceGlobal})
	annotate(m, ir.VarRef(tex0), ir.Property{Name: "texture", Value: 1})

	c := NewCache()

	isTex, err := c.IsTexture(m, ir.VarRef(tex0))
	require.NoError(t, err)
	assert.True(t, isTex)

	isSurf, err := c.IsSurface(m, ir.VarRef(tex0))
	require.NoError(t, err)
	assert.False(t, isSurf)
}

func TestFlagValueMustBeOne(t *testing.T) {
	m := ir.NewModule("bad")
	g := m.AddGlobal(ir.GlobalVariable{Name: "tex0"})
	annotate(m, ir.VarRef(g), ir.Property{Name: "texture", Value: 2})

	c := NewCache()
	_, err := c.IsTexture(m, ir.VarRef(g))
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Error(), "texture")
}

func TestIsManaged(t *testing.T) {
	m := ir.NewModule("test")
	managed := m.AddGlobal(ir.GlobalVariable{Name: "buf", Space: ir.SpaceGlobal})
	plain := m.AddGlobal(ir.GlobalVariable{Name: "other", Space: ir.SpaceGlobal})
	annotate(m, ir.VarRef(managed), ir.Property{Name: "managed", Value: 1})

	c := NewCache()
	got, err := c.IsManaged(m, ir.VarRef(managed))
	require.NoError(t, err)
	assert.True(t, got)

	got, err = c.IsManaged(m, ir.VarRef(plain))
	require.NoError(t, err)
	assert.False(t, got)
}

func TestIsSamplerGlobal(t *testing.T) {
	m := ir.NewModule("test")
	samp := m.AddGlobal(ir.GlobalVariable{Name: "samp0"})
	annotate(m, ir.VarRef(samp), ir.Property{Name: "sampler", Value: 1})

	c := NewCache()
	got, err := c.IsSampler(m, ir.VarRef(samp))
	require.NoError(t, err)
	assert.True(t, got)
}

func TestIsSamplerArgument(t *testing.T) {
	m := ir.NewModule("test")
	f := m.AddFunction(ir.Function{
		Name:      "g",
		Arguments: []ir.FunctionArgument{{Name: "a"}, {Name: "s"}},
	})
	annotate(m, ir.FuncRef(f), ir.Property{Name: "sampler", Value: 1})

	c := NewCache()
	got, err := c.IsSampler(m, ir.ArgRef{Func: f, Index: 1})
	require.NoError(t, err)
	assert.True(t, got)

	got, err = c.IsSampler(m, ir.ArgRef{Func: f, Index: 0})
	require.NoError(t, err)
	assert.False(t, got)
}

func TestImageQueries(t *testing.T) {
	m := ir.NewModule("test")
	f := m.AddFunction(ir.Function{
		Name:      "g",
		Arguments: []ir.FunctionArgument{{}, {}, {}},
	})
	annotate(m, ir.FuncRef(f),
		ir.Property{Name: "rdoimage", Value: 0},
		ir.Property{Name: "rdoimage", Value: 2},
		ir.Property{Name: "wroimage", Value: 1},
	)

	c := NewCache()
	arg2 := ir.ArgRef{Func: f, Index: 2}

	ro, err := c.IsImageReadOnly(m, arg2)
	require.NoError(t, err)
	assert.True(t, ro)

	wo, err := c.IsImageWriteOnly(m, arg2)
	require.NoError(t, err)
	assert.False(t, wo)

	rw, err := c.IsImageReadWrite(m, arg2)
	require.NoError(t, err)
	assert.False(t, rw)

	img, err := c.IsImage(m, arg2)
	require.NoError(t, err)
	assert.True(t, img)

	img, err = c.IsImage(m, ir.ArgRef{Func: f, Index: 1})
	require.NoError(t, err)
	assert.True(t, img, "write-only images count as images")
}

func TestIsKernelFromAnnotation(t *testing.T) {
	m := ir.NewModule("test")
	kern := m.AddFunction(ir.Function{Name: "kern"})
	offKern := m.AddFunction(ir.Function{Name: "off", CallingConv: ir.CallConvPTXKernel})
	annotate(m, ir.FuncRef(kern), ir.Property{Name: "kernel", Value: 1})
	// An explicit 0 overrides the calling convention.
	annotate(m, ir.FuncRef(offKern), ir.Property{Name: "kernel", Value: 0})

	c := NewCache()
	got, err := c.IsKernel(m, kern)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = c.IsKernel(m, offKern)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestIsKernelCallingConvFallback(t *testing.T) {
	m := ir.NewModule("test")
	kern := m.AddFunction(ir.Function{Name: "kern", CallingConv: ir.CallConvPTXKernel})
	dev := m.AddFunction(ir.Function{Name: "helper", CallingConv: ir.CallConvPTXDevice})

	c := NewCache()
	got, err := c.IsKernel(m, kern)
	require.NoError(t, err)
	assert.True(t, got, "no annotation: calling convention decides")

	got, err = c.IsKernel(m, dev)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestKernels(t *testing.T) {
	m := ir.NewModule("test")
	a := m.AddFunction(ir.Function{Name: "a", CallingConv: ir.CallConvPTXKernel})
	m.AddFunction(ir.Function{Name: "b"})
	cFn := m.AddFunction(ir.Function{Name: "c"})
	annotate(m, ir.FuncRef(cFn), ir.Property{Name: "kernel", Value: 1})

	cache := NewCache()
	got, err := cache.Kernels(m)
	require.NoError(t, err)
	assert.Equal(t, []ir.FunctionHandle{a, cFn}, got)
}

func TestLaunchBoundAccessors(t *testing.T) {
	m := ir.NewModule("test")
	f := m.AddFunction(ir.Function{Name: "f"})
	annotate(m, ir.FuncRef(f),
		ir.Property{Name: "reqntidx", Value: 16},
		ir.Property{Name: "reqntidx", Value: 32}, // duplicate key: first wins
		ir.Property{Name: "maxntidy", Value: 8},
		ir.Property{Name: "maxclusterrank", Value: 4},
		ir.Property{Name: "minctasm", Value: 2},
		ir.Property{Name: "maxnreg", Value: 64},
	)

	c := NewCache()

	v, ok, err := c.ReqNTIDX(m, f)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint32(16), v)

	_, ok, err = c.ReqNTIDY(m, f)
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err = c.MaxNTIDY(m, f)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint32(8), v)

	v, ok, err = c.MaxClusterRank(m, f)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint32(4), v)

	v, ok, err = c.MinCTAPerSM(m, f)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint32(2), v)

	v, ok, err = c.MaxNReg(m, f)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint32(64), v)
}

func TestNTIDShapes(t *testing.T) {
	m := ir.NewModule("test")
	f := m.AddFunction(ir.Function{Name: "f"})
	bare := m.AddFunction(ir.Function{Name: "bare"})
	annotate(m, ir.FuncRef(f),
		ir.Property{Name: "reqntidx", Value: 16},
		ir.Property{Name: "reqntidz", Value: 4},
		ir.Property{Name: "maxntidx", Value: 256},
	)

	c := NewCache()

	dims, ok, err := c.ReqNTID(m, f)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, [3]uint32{16, 1, 4}, dims, "missing dimensions default to 1")

	dims, ok, err = c.MaxNTID(m, f)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, [3]uint32{256, 1, 1}, dims)

	_, ok, err = c.ReqNTID(m, bare)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSymbolNames(t *testing.T) {
	m := ir.NewModule("test")
	tex := m.AddGlobal(ir.GlobalVariable{Name: "tex0"})
	anon := m.AddGlobal(ir.GlobalVariable{})

	name, err := TextureName(m, ir.VarRef(tex))
	require.NoError(t, err)
	assert.Equal(t, "tex0", name)

	name, err = SurfaceName(m, ir.VarRef(tex))
	require.NoError(t, err)
	assert.Equal(t, "tex0", name)

	_, err = SamplerName(m, ir.VarRef(anon))
	assert.ErrorIs(t, err, ErrAnonymous)

	_, err = TextureName(m, ir.GlobalRef{Kind: ir.GlobalVar, Index: 99})
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestQueriesAreIdempotent(t *testing.T) {
	m := ir.NewModule("test")
	tex := m.AddGlobal(ir.GlobalVariable{Name: "tex0"})
	kern := m.AddFunction(ir.Function{Name: "kern", CallingConv: ir.CallConvPTXKernel})
	annotate(m, ir.VarRef(tex), ir.Property{Name: "texture", Value: 1})
	annotate(m, ir.FuncRef(kern), ir.Property{Name: "reqntidx", Value: 16})

	c := NewCache()
	for i := 0; i < 2; i++ {
		isTex, err := c.IsTexture(m, ir.VarRef(tex))
		require.NoError(t, err)
		assert.True(t, isTex)

		isKern, err := c.IsKernel(m, kern)
		require.NoError(t, err)
		assert.True(t, isKern)

		x, ok, err := c.ReqNTIDX(m, kern)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, uint32(16), x)
	}
}
