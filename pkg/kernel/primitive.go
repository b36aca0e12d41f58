package kernel

import (
	"errors"
	"fmt"
	"sync"
)

// Cube is the name of the unit cube primitive every voxel instances.
const Cube = "cube"

// ErrUnknownPrimitive is returned for names a provider does not supply.
var ErrUnknownPrimitive = errors.New("kernel: unknown primitive")

// Primitive is a shared mesh asset. Voxels reference it by name and never
// own or mutate it.
type Primitive struct {
	Name string
	Mesh *Mesh
}

// Provider supplies primitives by name.
type Provider interface {
	Primitive(name string) (*Primitive, error)
}

// Library builds primitives with a kernel on first request and caches them.
// It is safe for concurrent use.
type Library struct {
	kernel Kernel

	mu    sync.Mutex
	cache map[string]*Primitive
}

// NewLibrary returns a Library backed by k.
func NewLibrary(k Kernel) *Library {
	return &Library{kernel: k, cache: make(map[string]*Primitive)}
}

// Primitive implements Provider.
func (l *Library) Primitive(name string) (*Primitive, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if p, ok := l.cache[name]; ok {
		return p, nil
	}

	var solid Solid
	switch name {
	case Cube:
		// Unit cube centered on the origin, matching voxel grid coordinates.
		solid = l.kernel.Translate(l.kernel.Box(1, 1, 1), -0.5, -0.5, -0.5)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPrimitive, name)
	}

	mesh, err := l.kernel.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("kernel: tessellating %q: %w", name, err)
	}
	if mesh.IsEmpty() {
		return nil, fmt.Errorf("kernel: primitive %q tessellated to an empty mesh", name)
	}
	mesh.PartName = name

	p := &Primitive{Name: name, Mesh: mesh}
	l.cache[name] = p
	return p, nil
}
