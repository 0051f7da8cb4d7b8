package object

import (
	"errors"
	"fmt"
)

// ErrDuplicateIdentity is returned when an ID is registered twice.
var ErrDuplicateIdentity = errors.New("duplicate object identity")

// Registry owns every live falling object.
//
// Objects are kept in registration order for deterministic iteration and
// indexed by ID for lookups from collision handling.
type Registry struct {
	fallSpeed float64
	destroyY  float64

	objects []*FallingObject
	index   map[ID]*FallingObject
}

// NewRegistry creates an empty registry. Objects fall at fallSpeed units per
// second and are culled once they drop below destroyY.
func NewRegistry(fallSpeed, destroyY float64) *Registry {
	return &Registry{
		fallSpeed: fallSpeed,
		destroyY:  destroyY,
		index:     make(map[ID]*FallingObject),
	}
}

// Register adds a newly spawned object.
func (r *Registry) Register(obj *FallingObject) error {
	if _, exists := r.index[obj.ID]; exists {
		return fmt.Errorf("register %s: %w", obj.ID, ErrDuplicateIdentity)
	}
	r.objects = append(r.objects, obj)
	r.index[obj.ID] = obj
	return nil
}

// Advance moves every object down by fallSpeed*dt and removes the ones that
// crossed destroyY. Culled objects are returned in registration order.
// A non-positive dt is a no-op.
func (r *Registry) Advance(dt float64) []FallingObject {
	if dt <= 0 {
		return nil
	}

	var culled []FallingObject
	kept := r.objects[:0] // reuse backing array
	for _, obj := range r.objects {
		obj.Y -= r.fallSpeed * dt
		if obj.Y < r.destroyY {
			delete(r.index, obj.ID)
			culled = append(culled, *obj)
			continue
		}
		kept = append(kept, obj)
	}
	clear(r.objects[len(kept):])
	r.objects = kept

	return culled
}

// Lookup returns the live object with the given ID.
func (r *Registry) Lookup(id ID) (*FallingObject, bool) {
	obj, ok := r.index[id]
	return obj, ok
}

// Remove drops an object without culling it. It reports whether it was tracked.
func (r *Registry) Remove(id ID) bool {
	if _, ok := r.index[id]; !ok {
		return false
	}
	delete(r.index, id)
	for i, obj := range r.objects {
		if obj.ID == id {
			copy(r.objects[i:], r.objects[i+1:])
			r.objects[len(r.objects)-1] = nil
			r.objects = r.objects[:len(r.objects)-1]
			break
		}
	}
	return true
}

// Clear removes everything and returns the IDs that were live.
func (r *Registry) Clear() []ID {
	ids := make([]ID, len(r.objects))
	for i, obj := range r.objects {
		ids[i] = obj.ID
	}
	clear(r.objects)
	r.objects = r.objects[:0]
	clear(r.index)
	return ids
}

// Len returns the number of live objects.
func (r *Registry) Len() int {
	return len(r.objects)
}

// Snapshot copies the live objects in registration order.
func (r *Registry) Snapshot() []FallingObject {
	out := make([]FallingObject, len(r.objects))
	for i, obj := range r.objects {
		out[i] = *obj
	}
	return out
}
