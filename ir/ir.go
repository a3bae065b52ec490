package ir

import "sync/atomic"

// ModuleID identifies a compilation unit for the lifetime of the process.
// IDs are assigned by NewModule and never reused.
type ModuleID uint64

var nextModuleID atomic.Uint64

// Module represents one compilation unit: the globals, functions, and
// metadata being compiled together.
type Module struct {
	// Name is the unit's source identifier, for diagnostics only.
	Name string

	// Types holds type definitions referenced by handle
	Types []Type

	// Globals holds module-scope variables
	Globals []GlobalVariable

	// Functions holds function declarations
	Functions []Function

	id    ModuleID
	named map[string][]MetadataNode
}

// NewModule creates an empty module with a fresh, process-unique ID.
// Modules must be created through NewModule; a zero Module has no valid
// identity.
func NewModule(name string) *Module {
	return &Module{
		Name: name,
		id:   ModuleID(nextModuleID.Add(1)),
	}
}

// ID returns the module's stable identity.
func (m *Module) ID() ModuleID {
	return m.id
}

// Handle types for referencing IR objects
type (
	TypeHandle           uint32
	FunctionHandle       uint32
	GlobalVariableHandle uint32
)

// AddType appends a type definition and returns its handle.
func (m *Module) AddType(t Type) TypeHandle {
	m.Types = append(m.Types, t)
	return TypeHandle(len(m.Types) - 1)
}

// AddGlobal appends a global variable and returns its handle.
func (m *Module) AddGlobal(g GlobalVariable) GlobalVariableHandle {
	m.Globals = append(m.Globals, g)
	return GlobalVariableHandle(len(m.Globals) - 1)
}

// AddFunction appends a function and returns its handle.
func (m *Module) AddFunction(f Function) FunctionHandle {
	m.Functions = append(m.Functions, f)
	return FunctionHandle(len(m.Functions) - 1)
}

// Function resolves a function handle.
func (m *Module) Function(h FunctionHandle) (*Function, bool) {
	if int(h) >= len(m.Functions) {
		return nil, false
	}
	return &m.Functions[h], true
}

// Global resolves a global-variable handle.
func (m *Module) Global(h GlobalVariableHandle) (*GlobalVariable, bool) {
	if int(h) >= len(m.Globals) {
		return nil, false
	}
	return &m.Globals[h], true
}

// Ref identifies an entity that can carry annotations: a global symbol
// or a function argument.
type Ref interface {
	ref()
}

// GlobalKind discriminates the two kinds of global symbol.
type GlobalKind uint8

const (
	GlobalFunc GlobalKind = iota
	GlobalVar
)

// GlobalRef names a global symbol (function or variable) within a module.
// GlobalRef is comparable and is used as a map key by the annotation cache.
type GlobalRef struct {
	Kind  GlobalKind
	Index uint32
}

func (GlobalRef) ref() {}

// FuncRef returns the GlobalRef for a function handle.
func FuncRef(h FunctionHandle) GlobalRef {
	return GlobalRef{Kind: GlobalFunc, Index: uint32(h)}
}

// VarRef returns the GlobalRef for a global-variable handle.
func VarRef(h GlobalVariableHandle) GlobalRef {
	return GlobalRef{Kind: GlobalVar, Index: uint32(h)}
}

// ArgRef names a function argument by its ordinal position.
type ArgRef struct {
	Func  FunctionHandle
	Index uint32
}

func (ArgRef) ref() {}

// SymbolName returns the declared name of the referenced global symbol.
// The second result is false if the reference does not resolve.
func (m *Module) SymbolName(r GlobalRef) (string, bool) {
	switch r.Kind {
	case GlobalFunc:
		if f, ok := m.Function(FunctionHandle(r.Index)); ok {
			return f.Name, true
		}
	case GlobalVar:
		if g, ok := m.Global(GlobalVariableHandle(r.Index)); ok {
			return g.Name, true
		}
	}
	return "", false
}

// GlobalVariable represents a module-scope variable.
type GlobalVariable struct {
	Name  string
	Type  TypeHandle
	Space AddressSpace
}

// AddressSpace represents NVPTX memory address spaces.
type AddressSpace uint8

const (
	SpaceGeneric AddressSpace = iota
	SpaceGlobal
	SpaceShared
	SpaceConst
	SpaceLocal
	SpaceParam
)

// Function represents a function declaration.
type Function struct {
	Name        string
	CallingConv CallingConv
	Arguments   []FunctionArgument
	Result      *FunctionResult // nil for void functions
	Attrs       AttributeList
	NoReturn    bool
}

// FunctionArgument represents a function argument.
type FunctionArgument struct {
	Name string
	Type TypeHandle
}

// FunctionResult represents a function return type.
type FunctionResult struct {
	Type TypeHandle
}

// CallingConv represents a declared calling convention.
type CallingConv uint8

const (
	// CallConvC is the default convention.
	CallConvC CallingConv = iota
	// CallConvPTXKernel marks a grid-launchable kernel entry point.
	CallConvPTXKernel
	// CallConvPTXDevice marks a device-side function.
	CallConvPTXDevice
)

// AttributeSet holds the first-class typed attributes for one position
// of a function or call signature.
type AttributeSet struct {
	// StackAlign is the stack alignment in bytes, 0 if unset.
	StackAlign uint32
}

// AttributeList holds attribute sets by position: index 0 is the return
// value, index 1+N is parameter N.
type AttributeList []AttributeSet

// StackAlign returns the stack alignment attribute at the given position.
func (l AttributeList) StackAlign(index uint32) (uint32, bool) {
	if int(index) >= len(l) || l[index].StackAlign == 0 {
		return 0, false
	}
	return l[index].StackAlign, true
}

// CallInst represents a call instruction.
type CallInst struct {
	// Callee is the called operand, possibly wrapped in pointer casts.
	Callee Operand

	// Result is the produced value's type, nil for void calls.
	Result *FunctionResult

	Attrs    AttributeList
	NoReturn bool

	// Metadata holds nodes attached to the instruction, keyed by name
	// (e.g. the legacy "callalign" list).
	Metadata map[string]MetadataNode
}

// Operand represents a callee operand.
type Operand interface {
	operand()
}

// FunctionOperand is a direct reference to a function.
type FunctionOperand struct {
	Func FunctionHandle
}

func (FunctionOperand) operand() {}

// BitcastOperand wraps another operand in a pointer cast.
type BitcastOperand struct {
	Inner Operand
}

func (BitcastOperand) operand() {}

// UnknownOperand is a callee that cannot be resolved statically, such as
// a function pointer loaded at run time.
type UnknownOperand struct{}

func (UnknownOperand) operand() {}
