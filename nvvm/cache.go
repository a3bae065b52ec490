package nvvm

import (
	"fmt"
	"sync"

	"fortio.org/safecast"

	"github.com/gogpu/nvptx/ir"
)

// AnnotationsName is the named metadata list carrying NVVM annotations.
const AnnotationsName = "nvvm.annotations"

// propertyMap is one symbol's record: property name to its values, in
// encounter order, duplicates preserved.
type propertyMap map[string][]uint32

// Cache maps (module, symbol, property) to annotation values, populating
// records lazily from each module's annotation list.
//
// A Cache is safe for concurrent use. See the package documentation for
// the invalidation obligation and locking trade-off.
type Cache struct {
	mu    sync.Mutex
	units map[ir.ModuleID]map[ir.GlobalRef]propertyMap
	scans uint64 // population passes over an annotation list
}

// NewCache creates an empty annotation cache.
func NewCache() *Cache {
	return &Cache{
		units: make(map[ir.ModuleID]map[ir.GlobalRef]propertyMap),
	}
}

// Invalidate drops every cached record for the module. It is a no-op if
// nothing is cached. This is the only invalidation path: the owner of a
// module must call it before mutating the module's annotations or
// destroying the module.
func (c *Cache) Invalidate(m *ir.Module) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.units, m.ID())
}

// FindOne returns the first value recorded for prop on the symbol. The
// second result is false if the symbol has no such property.
func (c *Cache) FindOne(m *ir.Module, gv ir.GlobalRef, prop string) (uint32, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	props, err := c.record(m, gv)
	if err != nil {
		return 0, false, err
	}
	vs := props[prop]
	if len(vs) == 0 {
		return 0, false, nil
	}
	return vs[0], true, nil
}

// FindAll returns every value recorded for prop on the symbol, in
// encounter order. The second result is false if the symbol has no such
// property.
func (c *Cache) FindAll(m *ir.Module, gv ir.GlobalRef, prop string) ([]uint32, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	props, err := c.record(m, gv)
	if err != nil {
		return nil, false, err
	}
	vs := props[prop]
	if len(vs) == 0 {
		return nil, false, nil
	}
	return append([]uint32(nil), vs...), true, nil
}

// record returns the symbol's property record, populating it on first
// access. Caller must hold mu. A symbol with no annotations gets no
// cache entry, so a later query for it scans again.
func (c *Cache) record(m *ir.Module, gv ir.GlobalRef) (propertyMap, error) {
	if props, ok := c.units[m.ID()][gv]; ok {
		return props, nil
	}
	props, err := c.populate(m, gv)
	if err != nil {
		return nil, err
	}
	if len(props) == 0 {
		return nil, nil
	}
	unit := c.units[m.ID()]
	if unit == nil {
		unit = make(map[ir.GlobalRef]propertyMap)
		c.units[m.ID()] = unit
	}
	unit[gv] = props
	return props, nil
}

// populate scans the module's annotation list once, folding every entry
// targeting gv into one record. Caller must hold mu.
func (c *Cache) populate(m *ir.Module, gv ir.GlobalRef) (propertyMap, error) {
	c.scans++
	var props propertyMap
	for i, node := range m.NamedMetadata(AnnotationsName) {
		if len(node) == 0 {
			continue
		}
		// Operand 0 is the target. Null or non-global targets are
		// entries whose symbol was dropped, typically by DCE.
		target, ok := node[0].(ir.GlobalOperand)
		if !ok || target.Ref != gv {
			continue
		}
		if len(node)%2 == 0 {
			return nil, &MalformedError{
				Module:  m.Name,
				Entry:   i,
				Message: "unpaired property operands",
			}
		}
		if props == nil {
			props = make(propertyMap)
		}
		for j := 1; j < len(node); j += 2 {
			name, ok := node[j].(ir.StringOperand)
			if !ok {
				return nil, &MalformedError{
					Module:  m.Name,
					Entry:   i,
					Message: fmt.Sprintf("operand %d: property name is not a string", j),
				}
			}
			iv, ok := node[j+1].(ir.IntOperand)
			if !ok {
				return nil, &MalformedError{
					Module:  m.Name,
					Entry:   i,
					Message: fmt.Sprintf("operand %d: property value is not an integer", j+1),
				}
			}
			v, err := safecast.Conv[uint32](uint64(iv))
			if err != nil {
				return nil, &MalformedError{
					Module:  m.Name,
					Entry:   i,
					Message: fmt.Sprintf("property %q: value %d does not fit the target word", string(name), uint64(iv)),
				}
			}
			props[string(name)] = append(props[string(name)], v)
		}
	}
	return props, nil
}
