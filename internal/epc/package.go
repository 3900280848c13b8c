// Package epc writes and reads EPC containers: one XML part per top-level
// object, a content-type manifest, per-part relationship listings and a
// core-properties document, stored as a directory tree or a zip archive.
// Bulk arrays live in a payload file next to the container.
package epc

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/aidanlsb/resqpack/internal/catalog"
	"github.com/aidanlsb/resqpack/internal/model"
	"github.com/aidanlsb/resqpack/internal/payload"
	"github.com/aidanlsb/resqpack/internal/schema"
)

var (
	// ErrExists is returned when a directory container already exists.
	ErrExists = errors.New("container already exists")
	// ErrNotFound is returned when a container path does not exist.
	ErrNotFound = errors.New("container not found")
	// ErrNoParts is returned when no part of a container could be read.
	ErrNoParts = errors.New("container has no readable parts")
	// ErrManifest is returned when the content-type manifest is missing or
	// cannot be parsed.
	ErrManifest = errors.New("invalid content-type manifest")
	// ErrDuplicate is returned when two objects share an identifier.
	ErrDuplicate = errors.New("duplicate identifier")
	// ErrNotMember is returned for objects that are not part of the package.
	ErrNotMember = errors.New("object is not part of the package")
	// ErrNoPayload is returned for external parts without a payload path.
	ErrNoPayload = errors.New("external part has no payload path")
)

// Package is a set of top-level objects plus the packaging state needed to
// write them: payload paths of external parts and datasets to materialize.
type Package struct {
	graph    *model.Graph
	payloads map[*model.Object]string
	datasets map[*model.Object][]payload.Dataset

	location string
	medium   Medium
	core     CoreProperties
}

// New creates a package holding objs.
func New(objs ...*model.Object) *Package {
	return FromGraph(model.NewGraph(objs...))
}

// FromGraph creates a package over an existing graph.
func FromGraph(g *model.Graph) *Package {
	return &Package{
		graph:    g,
		payloads: make(map[*model.Object]string),
		datasets: make(map[*model.Object][]payload.Dataset),
	}
}

// Graph returns the package's object graph.
func (p *Package) Graph() *model.Graph {
	return p.graph
}

// Add appends top-level objects.
func (p *Package) Add(objs ...*model.Object) {
	for _, o := range objs {
		p.graph.Add(o)
	}
}

// Objects returns the objects whose type derives from t, or all objects
// when t is nil.
func (p *Package) Objects(t *schema.ComplexType) []*model.Object {
	return p.graph.OfType(t)
}

// Find returns the object carrying id, or nil when none or several do.
func (p *Package) Find(id string) *model.Object {
	return p.graph.Find(id)
}

// Location returns the path the package was read from or last written to.
func (p *Package) Location() string {
	return p.location
}

// Medium returns the medium the package was read from or last written to.
func (p *Package) Medium() Medium {
	return p.medium
}

// CoreProperties returns the core properties read with the package.
func (p *Package) CoreProperties() CoreProperties {
	return p.core
}

// IsExternalPart reports whether o stands for a payload file.
func IsExternalPart(o *model.Object) bool {
	return o.Type.DerivesFrom(catalog.EpcExternalPartReference)
}

// SetPayloadPath records the payload path of an external part, relative to
// the container's directory.
func (p *Package) SetPayloadPath(proxy *model.Object, rel string) error {
	if !p.graph.Contains(proxy) {
		return ErrNotMember
	}
	if !IsExternalPart(proxy) {
		return fmt.Errorf("%s is not an external part", proxy.Type.Name())
	}
	p.payloads[proxy] = rel
	return nil
}

// PayloadPath returns the recorded payload path of an external part.
func (p *Package) PayloadPath(proxy *model.Object) (string, bool) {
	rel, ok := p.payloads[proxy]
	return rel, ok
}

// PayloadLocation returns the full path of an external part's payload:
// the recorded path joined to the container's directory.
func (p *Package) PayloadLocation(proxy *model.Object) (string, error) {
	rel, ok := p.payloads[proxy]
	if !ok {
		return "", ErrNoPayload
	}
	if filepath.IsAbs(rel) {
		return rel, nil
	}
	return filepath.Join(filepath.Dir(p.location), filepath.FromSlash(rel)), nil
}

// Rebase rewrites relative payload paths so that they name the same files
// once the package is written to dst.
func (p *Package) Rebase(dst string) error {
	if p.location == "" {
		return nil
	}
	dir, err := filepath.Abs(filepath.Dir(dst))
	if err != nil {
		return err
	}
	for proxy, rel := range p.payloads {
		if filepath.IsAbs(rel) {
			continue
		}
		loc, err := filepath.Abs(filepath.Join(filepath.Dir(p.location), filepath.FromSlash(rel)))
		if err != nil {
			return err
		}
		moved, err := filepath.Rel(dir, loc)
		if err != nil {
			return fmt.Errorf("rebase payload of %s: %w", proxy.BaseName(), err)
		}
		p.payloads[proxy] = filepath.ToSlash(moved)
	}
	return nil
}

// Attach queues datasets to be materialized into proxy's payload when the
// package is written.
func (p *Package) Attach(proxy *model.Object, data ...payload.Dataset) error {
	if !p.graph.Contains(proxy) {
		return ErrNotMember
	}
	if !IsExternalPart(proxy) {
		return fmt.Errorf("%s is not an external part", proxy.Type.Name())
	}
	p.datasets[proxy] = append(p.datasets[proxy], data...)
	return nil
}

// DefaultPayloadPath returns the conventional payload file name of a
// container: its stem with the payload extension.
func DefaultPayloadPath(container string) string {
	base := filepath.Base(container)
	return strings.TrimSuffix(base, filepath.Ext(base)) + payload.Extension
}

// RelationshipID returns the relationship identifier for a target object
// identifier. XML identifiers may not start with a digit.
func RelationshipID(targetID string) string {
	return "_" + targetID
}

// Relationships returns the relationship listing of o. An external part has
// one external relationship to its payload. Other objects have one
// relationship per distinct top-level object they refer to or hold,
// searching nested objects but not the referenced objects themselves.
func (p *Package) Relationships(o *model.Object) ([]Relationship, error) {
	if IsExternalPart(o) {
		rel, ok := p.payloads[o]
		if !ok {
			return nil, fmt.Errorf("%s: %w", o.BaseName(), ErrNoPayload)
		}
		return []Relationship{{
			ID:         RelationshipID(o.ID()),
			Target:     filepath.ToSlash(rel),
			TargetMode: TargetModeExternal,
			Type:       RelExternalResource,
		}}, nil
	}

	var rels []Relationship
	seen := make(map[string]bool)
	add := func(id, target string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		rels = append(rels, Relationship{
			ID:     RelationshipID(id),
			Target: target,
			Type:   RelDestinationObject,
		})
	}
	o.Walk(func(_ *model.Object, _ schema.Field, v model.Value) bool {
		switch x := v.(type) {
		case *model.Reference:
			if len(p.graph.Lookup(x.UUID)) > 0 {
				add(x.UUID, x.BaseName())
			}
		case *model.Object:
			if p.graph.Contains(x) {
				add(x.ID(), x.BaseName())
				return false
			}
		}
		return true
	})
	return rels, nil
}

// ContentTypes returns the manifest: defaults for relationship listings and
// XML, plus one override per object part.
func (p *Package) ContentTypes() ContentTypes {
	ct := ContentTypes{
		Defaults: []Default{
			{Extension: "rels", ContentType: RelsContentType},
			{Extension: "xml", ContentType: XMLContentType},
		},
	}
	for _, o := range p.graph.Objects() {
		ct.Overrides = append(ct.Overrides, Override{
			PartName:    "/" + o.BaseName(),
			ContentType: o.ContentType(),
		})
	}
	return ct
}

// Option configures Write and Read.
type Option func(*options)

type options struct {
	medium    Medium
	overwrite bool
	creator   string
	title     string
	created   time.Time
	store     payload.Store
	registry  *schema.Registry
	logger    *slog.Logger
}

func newOptions(opts []Option) *options {
	o := &options{
		medium:   Archive,
		creator:  DefaultCreator,
		store:    payload.Files{},
		registry: catalog.Registry(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// DefaultCreator is the core-properties creator written by default.
const DefaultCreator = "NR ResQml from NetCDF"

// WithMedium selects the container medium for Write.
func WithMedium(m Medium) Option {
	return func(o *options) { o.medium = m }
}

// WithOverwrite lets Write replace an existing directory container.
// Archives are always replaced.
func WithOverwrite(overwrite bool) Option {
	return func(o *options) { o.overwrite = overwrite }
}

// WithCreator sets the core-properties creator.
func WithCreator(creator string) Option {
	return func(o *options) {
		if creator != "" {
			o.creator = creator
		}
	}
}

// WithTitle sets the core-properties title.
func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

// WithCreated sets the core-properties creation time. The default is the
// time of writing.
func WithCreated(t time.Time) Option {
	return func(o *options) { o.created = t }
}

// WithStore sets the payload store used to materialize attached datasets.
func WithStore(s payload.Store) Option {
	return func(o *options) { o.store = s }
}

// WithRegistry sets the type registry used to encode and decode parts.
func WithRegistry(r *schema.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
