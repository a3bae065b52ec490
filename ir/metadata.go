package ir

// MetadataNode is one entry in a named metadata list: an ordered sequence
// of loosely-typed operands.
type MetadataNode []MetadataOperand

// MetadataOperand represents a single metadata operand.
type MetadataOperand interface {
	metadataOperand()
}

// GlobalOperand references a global symbol.
type GlobalOperand struct {
	Ref GlobalRef
}

func (GlobalOperand) metadataOperand() {}

// StringOperand is a metadata string.
type StringOperand string

func (StringOperand) metadataOperand() {}

// IntOperand is an integer constant operand.
type IntOperand uint64

func (IntOperand) metadataOperand() {}

// NullOperand is a reference whose target no longer exists, typically
// left behind when dead-code elimination removes the referenced symbol.
type NullOperand struct{}

func (NullOperand) metadataOperand() {}

// AddNamedMetadata appends a node to the named metadata list, creating
// the list on first use.
func (m *Module) AddNamedMetadata(name string, node MetadataNode) {
	if m.named == nil {
		m.named = make(map[string][]MetadataNode)
	}
	m.named[name] = append(m.named[name], node)
}

// NamedMetadata returns the nodes of the named metadata list, in insertion
// order, or nil if the list does not exist.
func (m *Module) NamedMetadata(name string) []MetadataNode {
	return m.named[name]
}

// Property is one name/value pair of an annotation entry.
type Property struct {
	Name  string
	Value uint64
}

// Annotation builds a well-formed annotation node: the target reference
// followed by alternating property-name and value operands.
func Annotation(target GlobalRef, props ...Property) MetadataNode {
	node := make(MetadataNode, 0, 1+2*len(props))
	node = append(node, GlobalOperand{Ref: target})
	for _, p := range props {
		node = append(node, StringOperand(p.Name), IntOperand(p.Value))
	}
	return node
}
