// Package resolver links symbolic references to the top-level objects they
// name. It runs as a second pass after every part of a container has been
// decoded, so references may point forwards or backwards.
package resolver

import (
	"github.com/aidanlsb/resqpack/internal/check"
	"github.com/aidanlsb/resqpack/internal/model"
	"github.com/aidanlsb/resqpack/internal/schema"
)

// Resolver resolves identifiers against a graph's index.
type Resolver struct {
	graph *model.Graph
}

// New creates a Resolver over g.
func New(g *model.Graph) *Resolver {
	return &Resolver{graph: g}
}

// ResolveResult represents the result of an identifier lookup.
type ResolveResult struct {
	// Target is the single object carrying the identifier, or nil.
	Target *model.Object

	// Ambiguous is true if the identifier is carried by several objects.
	Ambiguous bool

	// Matches contains all objects carrying the identifier.
	Matches []*model.Object

	// Error message if resolution failed.
	Error string
}

// Lookup resolves one identifier.
func (r *Resolver) Lookup(id string) ResolveResult {
	matches := r.graph.Lookup(id)
	switch len(matches) {
	case 0:
		return ResolveResult{Error: "reference not found"}
	case 1:
		return ResolveResult{Target: matches[0], Matches: matches}
	default:
		return ResolveResult{
			Ambiguous: true,
			Matches:   matches,
			Error:     "ambiguous reference, multiple objects share the identifier",
		}
	}
}

// Exists reports whether exactly one object carries id.
func (r *Resolver) Exists(id string) bool {
	return r.graph.Find(id) != nil
}

// Resolve links every unresolved reference held by the graph's objects or
// their nested objects. Already resolved references are left alone, so a
// second call reports nothing new. Issues carry the owning part and the
// field path of the reference.
func (r *Resolver) Resolve() check.Issues {
	var issues check.Issues
	for _, o := range r.graph.Objects() {
		part := o.BaseName()
		issues = append(issues, r.resolveObject(o, o.Type.Name()).InPart(part)...)
	}
	return issues
}

func (r *Resolver) resolveObject(o *model.Object, path string) check.Issues {
	var issues check.Issues
	for _, slot := range o.Slots() {
		fpath := path + "/" + slot.Field.Name
		for _, v := range slot.Values {
			switch x := v.(type) {
			case *model.Reference:
				if x.Resolved() {
					continue
				}
				if issue, ok := r.link(x, slot.Field, fpath); !ok {
					issues = append(issues, issue)
				}
			case *model.Object:
				// Members of the graph are resolved on their own.
				if r.graph.Contains(x) {
					continue
				}
				issues = append(issues, r.resolveObject(x, fpath)...)
			}
		}
	}
	return issues
}

func (r *Resolver) link(ref *model.Reference, f schema.Field, path string) (check.Issue, bool) {
	res := r.Lookup(ref.UUID)
	switch {
	case res.Target != nil:
		ref.Target = res.Target
		return check.Issue{}, true
	case res.Ambiguous:
		return check.Errorf(check.KindDuplicateIdentifier, path,
			"%s: %d objects carry identifier %s", f.Name, len(res.Matches), ref.UUID), false
	default:
		return check.Errorf(check.KindDanglingReference, path,
			"%s: no object with identifier %s", f.Name, ref.UUID), false
	}
}

// Resolve is a convenience for New(g).Resolve().
func Resolve(g *model.Graph) check.Issues {
	return New(g).Resolve()
}

// References returns every reference held by o or its nested objects, in
// field order.
func References(o *model.Object) []*model.Reference {
	var out []*model.Reference
	o.Walk(func(_ *model.Object, _ schema.Field, v model.Value) bool {
		if ref, ok := v.(*model.Reference); ok {
			out = append(out, ref)
		}
		return true
	})
	return out
}
