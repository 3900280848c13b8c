package model

import "github.com/aidanlsb/resqpack/internal/schema"

// Graph is the owning collection of top-level objects. Objects are kept in
// insertion order and indexed by identifier; duplicate identifiers are kept
// so that lookups can report them.
type Graph struct {
	objects []*Object
	members map[*Object]struct{}
	byID    map[string][]*Object
}

// NewGraph creates a graph holding objs.
func NewGraph(objs ...*Object) *Graph {
	g := &Graph{
		members: make(map[*Object]struct{}),
		byID:    make(map[string][]*Object),
	}
	for _, o := range objs {
		g.Add(o)
	}
	return g
}

// Add appends a top-level object. Adding the same object twice is a no-op.
func (g *Graph) Add(o *Object) {
	if o == nil || g.Contains(o) {
		return
	}
	g.objects = append(g.objects, o)
	g.members[o] = struct{}{}
	id := o.ID()
	g.byID[id] = append(g.byID[id], o)
}

// Objects returns the top-level objects in insertion order.
func (g *Graph) Objects() []*Object {
	if g == nil {
		return nil
	}
	return g.objects
}

// Len returns the number of top-level objects.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.objects)
}

// Contains reports whether o itself (not an equal copy) is a member.
func (g *Graph) Contains(o *Object) bool {
	if g == nil {
		return false
	}
	_, ok := g.members[o]
	return ok
}

// Lookup returns every top-level object carrying id.
func (g *Graph) Lookup(id string) []*Object {
	if g == nil {
		return nil
	}
	return g.byID[id]
}

// Find returns the object carrying id when exactly one does.
func (g *Graph) Find(id string) *Object {
	matches := g.Lookup(id)
	if len(matches) != 1 {
		return nil
	}
	return matches[0]
}

// OfType returns the top-level objects whose type derives from t.
func (g *Graph) OfType(t *schema.ComplexType) []*Object {
	var out []*Object
	for _, o := range g.Objects() {
		if t == nil || o.Type.DerivesFrom(t) {
			out = append(out, o)
		}
	}
	return out
}

// Duplicates returns the identifiers held by more than one object.
func (g *Graph) Duplicates() []string {
	var out []string
	seen := make(map[string]bool)
	for _, o := range g.Objects() {
		id := o.ID()
		if !seen[id] && len(g.byID[id]) > 1 {
			out = append(out, id)
		}
		seen[id] = true
	}
	return out
}

// Equal reports whether g and other hold structurally equal objects in the
// same order. Links are compared by target identifier: a member object held
// in a field and a reference naming that member's identifier are equal.
func (g *Graph) Equal(other *Graph) bool {
	if g.Len() != other.Len() {
		return false
	}
	for i, o := range g.Objects() {
		if !objectsEqual(g, o, other, other.Objects()[i]) {
			return false
		}
	}
	return true
}

func objectsEqual(ga *Graph, a *Object, gb *Graph, b *Object) bool {
	if a.Type != b.Type || len(a.slots) != len(b.slots) {
		return false
	}
	for i := range a.slots {
		va, vb := a.slots[i].Values, b.slots[i].Values
		if len(va) != len(vb) {
			return false
		}
		for j := range va {
			if !valuesEqual(ga, va[j], gb, vb[j]) {
				return false
			}
		}
	}
	return true
}

func valuesEqual(ga *Graph, a Value, gb *Graph, b Value) bool {
	la, aLink := linkID(ga, a)
	lb, bLink := linkID(gb, b)
	if aLink || bLink {
		return aLink && bLink && la == lb
	}
	switch x := a.(type) {
	case Scalar:
		y, ok := b.(Scalar)
		return ok && x.Type == y.Type && x.Text == y.Text
	case Enum:
		y, ok := b.(Enum)
		return ok && x.Type == y.Type && x.Symbol == y.Symbol
	case *Object:
		y, ok := b.(*Object)
		return ok && objectsEqual(ga, x, gb, y)
	}
	return false
}

func linkID(g *Graph, v Value) (string, bool) {
	switch x := v.(type) {
	case *Reference:
		if x.Target != nil {
			return x.Target.ID(), true
		}
		return x.UUID, true
	case *Object:
		if g.Contains(x) {
			return x.ID(), true
		}
	}
	return "", false
}
