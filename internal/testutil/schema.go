package testutil

import (
	"sync"

	"github.com/aidanlsb/resqpack/internal/catalog"
	"github.com/aidanlsb/resqpack/internal/schema"
)

// TestNamespace holds the fixture types.
var TestNamespace = schema.Namespace{Prefix: "t", URI: "urn:resqpack:test"}

// Fixture types. A refers to B, B owns a C, and Drawing holds several
// concrete Shapes through fields declared as the abstract Shape.
var (
	C = &schema.ComplexType{
		TypeName: "C",
		NS:       TestNamespace,
		Own: []schema.Field{
			schema.Elem("Value", catalog.Integer),
		},
	}

	B = &schema.ComplexType{
		TypeName: "B",
		NS:       TestNamespace,
		Own: []schema.Field{
			schema.Attr("uuid", catalog.UuidString),
			schema.Elem("Nested", C),
		},
	}

	A = &schema.ComplexType{
		TypeName: "A",
		NS:       TestNamespace,
		Own: []schema.Field{
			schema.Attr("uuid", catalog.UuidString),
			schema.OptionalAttr("label", catalog.String),
			schema.Ref("Partner", B),
		},
	}

	Shape = &schema.ComplexType{TypeName: "Shape", NS: TestNamespace, Abstract: true}

	Circle = &schema.ComplexType{
		TypeName: "Circle",
		NS:       TestNamespace,
		Base:     Shape,
		Own: []schema.Field{
			schema.Elem("Radius", catalog.Double),
		},
	}

	Square = &schema.ComplexType{
		TypeName: "Square",
		NS:       TestNamespace,
		Base:     Shape,
		Own: []schema.Field{
			schema.Elem("Side", catalog.Double),
		},
	}

	Drawing = &schema.ComplexType{
		TypeName: "Drawing",
		NS:       TestNamespace,
		Own: []schema.Field{
			schema.Attr("uuid", catalog.UuidString),
			schema.Elem("Background", Shape),
			schema.Elem("Foreground", Shape),
			schema.Repeated("Extra", Shape),
			schema.OptionalElem("Origin", catalog.Point3d),
		},
	}
)

// TestModule registers the fixture types.
var TestModule = schema.Declare(&schema.Module{
	Name:        "test",
	Namespace:   TestNamespace,
	ContentType: "application/x-test+xml;type=%s",
	Types:       []schema.Type{C, B, A, Shape, Circle, Square, Drawing},
})

var (
	registryOnce sync.Once
	registry     *schema.Registry
)

// Registry returns the catalogue registry extended with TestModule.
func Registry() *schema.Registry {
	registryOnce.Do(func() {
		registry = catalog.NewRegistry(TestModule)
	})
	return registry
}
