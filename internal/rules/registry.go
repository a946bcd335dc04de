// internal/rules/registry.go
package rules

import (
	"fmt"
	"sort"
	"sync"

	"github.com/solatis/chancekeeper/internal/types"
)

/*
 * Node factory registry.
 *
 * Decoding a property consults two tables in order:
 *   1. keyed: property name -> factory ("and", "more_than", extensions)
 *   2. shapes: value shape (bool, integer, float) -> default leaf factory
 * A property matching neither is ErrUnsupportedCondition.
 *
 * Registration is first-write-wins: a second registration for the same key or
 * shape is ignored and reported as false. Replacing an entry requires Clear
 * (or Reset) first.
 *
 * Locking: Decode holds the read lock only for the table lookup and releases
 * it before calling the factory, so container factories may recurse into
 * Decode freely.
 *
 * The process-wide registry returned by Default is populated with the
 * built-ins on first use, guarded by sync.Once.
 */

// Factory builds a node from a JSON property. Container factories decode
// their children through r.
type Factory func(r *Registry, p Property) (Node, error)

// Registry maps JSON keys and value shapes to node factories.
type Registry struct {
	mu     sync.RWMutex
	keyed  map[string]Factory
	shapes map[Shape]Factory
}

// NewRegistry returns an empty registry. Call RegisterBuiltins to populate it
// with the standard node types.
func NewRegistry() *Registry {
	return &Registry{
		keyed:  make(map[string]Factory),
		shapes: make(map[Shape]Factory),
	}
}

// RegisterKeyed registers f for properties named key.
// Returns false if key is empty, f is nil, or key is already registered.
func (r *Registry) RegisterKeyed(key string, f Factory) bool {
	if key == "" || f == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.keyed[key]; exists {
		return false
	}
	r.keyed[key] = f
	return true
}

// RegisterShape registers f for unkeyed properties whose value has shape s.
// Returns false if s is ShapeUnknown, f is nil, or s is already registered.
func (r *Registry) RegisterShape(s Shape, f Factory) bool {
	if s == ShapeUnknown || f == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.shapes[s]; exists {
		return false
	}
	r.shapes[s] = f
	return true
}

// Clear removes every registration.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keyed = make(map[string]Factory)
	r.shapes = make(map[Shape]Factory)
}

// Reset clears the registry and registers the built-ins again.
func (r *Registry) Reset() {
	r.Clear()
	RegisterBuiltins(r)
}

// Keys returns the registered wrapper keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.keyed))
	for k := range r.keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Decode builds the node described by p.
func (r *Registry) Decode(p Property) (Node, error) {
	r.mu.RLock()
	f, ok := r.keyed[p.Name]
	if !ok {
		if s := ShapeOf(p.Value); s != ShapeUnknown {
			f, ok = r.shapes[s]
		}
	}
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q with %s value", types.ErrUnsupportedCondition, p.Name, kindOf(p.Value))
	}
	return f(r, p)
}

// Unmarshal decodes JSON text holding a single-property object into a node.
func (r *Registry) Unmarshal(data []byte) (Node, error) {
	obj, err := ParseObject(data)
	if err != nil {
		return nil, err
	}
	if len(obj) != 1 {
		return nil, fmt.Errorf("%w: node must be an object with exactly one property, got %d", types.ErrStructural, len(obj))
	}
	n, err := r.Decode(obj[0])
	if err != nil {
		return nil, err
	}
	if d := Depth(n); d > types.MaxTreeDepth {
		return nil, fmt.Errorf("%w: depth %d, limit %d", types.ErrTreeTooDeep, d, types.MaxTreeDepth)
	}
	return n, nil
}

// RegisterBuiltins registers the standard containers, operators and default
// leaves. Entries already present are kept.
func RegisterBuiltins(r *Registry) {
	r.RegisterKeyed(KeyAnd, decodeAnd)
	r.RegisterKeyed(KeyOr, decodeOr)
	r.RegisterKeyed(KeyNot, decodeNot)
	r.RegisterKeyed(KeyMoreThan, decodeMoreThan)
	r.RegisterKeyed(KeyLessThan, decodeLessThan)
	r.RegisterShape(ShapeBool, decodeBoolEquals)
	r.RegisterShape(ShapeInt, decodeApproxEquals)
	r.RegisterShape(ShapeFloat, decodeApproxEquals)
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry, populating it with the built-ins
// on first call.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		RegisterBuiltins(defaultRegistry)
	})
	return defaultRegistry
}

// RegisterKeyed registers f on the default registry.
func RegisterKeyed(key string, f Factory) bool {
	return Default().RegisterKeyed(key, f)
}

// RegisterShape registers f on the default registry.
func RegisterShape(s Shape, f Factory) bool {
	return Default().RegisterShape(s, f)
}

// Clear empties the default registry.
func Clear() {
	Default().Clear()
}

// Reset restores the default registry to the built-ins only.
func Reset() {
	Default().Reset()
}

// UnmarshalNode decodes a single node with the default registry.
func UnmarshalNode(data []byte) (Node, error) {
	return Default().Unmarshal(data)
}

// MarshalNode encodes n as a single-property JSON object.
func MarshalNode(n Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil node", types.ErrSerialization)
	}
	p, err := n.Encode()
	if err != nil {
		return nil, err
	}
	return encodeJSON(Object{p})
}
