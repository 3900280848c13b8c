package model

import "strings"

// Reference is a symbolic, identifier-based link to a top-level object.
// Target is nil until a resolution pass links it; once set it is a
// non-owning handle into the graph that owns the target.
type Reference struct {
	UUID        string
	Title       string
	ContentType string

	Target *Object
}

func (*Reference) isValue() {}

// RefTo creates a resolved reference to a top-level object. The title is the
// object's citation title.
func RefTo(o *Object) *Reference {
	return &Reference{
		UUID:        o.ID(),
		Title:       o.Title(),
		ContentType: o.ContentType(),
		Target:      o,
	}
}

// Resolved reports whether the reference is linked to its target.
func (r *Reference) Resolved() bool {
	return r.Target != nil
}

// TypeName returns the target's type name, from the target when resolved or
// from the "type=obj_<Name>" parameter of the content type otherwise.
func (r *Reference) TypeName() string {
	if r.Target != nil {
		return r.Target.Type.Name()
	}
	for _, param := range strings.Split(r.ContentType, ";") {
		param = strings.TrimSpace(param)
		if v, ok := strings.CutPrefix(param, "type="); ok {
			if i := strings.LastIndex(v, "."); i >= 0 {
				v = v[i+1:]
			}
			return strings.TrimPrefix(v, "obj_")
		}
	}
	return ""
}

// BaseName returns the part name the reference points at.
func (r *Reference) BaseName() string {
	if r.Target != nil {
		return r.Target.BaseName()
	}
	return BaseName(r.TypeName(), r.UUID)
}
