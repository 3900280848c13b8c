// Package catalog declares the compiled-in schema modules: XML Schema
// built-ins, Energistics common types, the RESQML 2 subset used for grids and
// properties, and the packaging documents (content types, relationships,
// core properties).
package catalog

import (
	"sync"

	"github.com/aidanlsb/resqpack/internal/schema"
)

var (
	registryOnce sync.Once
	registry     *schema.Registry
)

// Registry returns the process-wide registry of every catalogue module.
// It is built on first use.
func Registry() *schema.Registry {
	registryOnce.Do(func() {
		registry = NewRegistry()
	})
	return registry
}

// Modules returns the catalogue modules in registration order.
func Modules() []*schema.Module {
	return []*schema.Module{
		xsdModule,
		emlModule,
		resqmlModule,
		dctermsModule,
		coreModule,
		contentTypesModule,
		relationshipsModule,
	}
}

// NewRegistry builds a fresh registry holding the catalogue followed by
// extra. Registration order is the lookup tie-break order.
func NewRegistry(extra ...*schema.Module) *schema.Registry {
	r := schema.NewRegistry().MustRegister(Modules()...).MustRegister(extra...)
	if err := r.SetReferenceType(DataObjectReference); err != nil {
		panic(err)
	}
	return r
}
