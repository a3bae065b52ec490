package ir

// Type represents a type definition.
type Type struct {
	Name  string
	Inner TypeInner
}

// TypeInner represents the inner type kind.
type TypeInner interface {
	typeInner()
}

// ScalarType represents scalar types.
type ScalarType struct {
	Kind  ScalarKind
	Width uint8 // in bytes
}

func (ScalarType) typeInner() {}

// ScalarKind represents scalar type kinds.
type ScalarKind uint8

const (
	ScalarSint  ScalarKind = iota // Signed integer
	ScalarUint                    // Unsigned integer
	ScalarFloat                   // Floating point
	ScalarPred                    // Predicate (boolean)
)

// VectorType represents short vector types such as v2f16.
type VectorType struct {
	Size   uint8
	Scalar ScalarType
}

func (VectorType) typeInner() {}

// ArrayType represents array types.
type ArrayType struct {
	Base TypeHandle
	Size uint32 // 0 for unsized arrays
}

func (ArrayType) typeInner() {}

// PointerType represents pointers into an address space.
type PointerType struct {
	Base  TypeHandle
	Space AddressSpace
}

func (PointerType) typeInner() {}

// ImageType represents image and texture reference types.
type ImageType struct {
	Dim     ImageDimension
	Arrayed bool
}

func (ImageType) typeInner() {}

// ImageDimension represents image dimensions.
type ImageDimension uint8

const (
	Dim1D ImageDimension = iota
	Dim2D
	Dim3D
	DimCube
)

// SamplerType represents sampler reference types.
type SamplerType struct{}

func (SamplerType) typeInner() {}
