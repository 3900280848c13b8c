package catalog

import "github.com/aidanlsb/resqpack/internal/schema"

var (
	KDirection = &schema.EnumType{TypeName: "KDirection", NS: ResqmlNamespace, Symbols: []string{"up", "down"}}

	IndexableElements = &schema.EnumType{TypeName: "IndexableElements", NS: ResqmlNamespace, Symbols: []string{"cells"}}

	AbstractGridGeometry = &schema.ComplexType{
		TypeName: "AbstractGridGeometry",
		NS:       ResqmlNamespace,
		Base:     PointGeometry,
		Abstract: true,
	}

	AbstractColumnLayerGridGeometry = &schema.ComplexType{
		TypeName: "AbstractColumnLayerGridGeometry",
		NS:       ResqmlNamespace,
		Base:     AbstractGridGeometry,
		Abstract: true,
		Own: []schema.Field{
			schema.Elem("KDirection", KDirection),
		},
	}

	IjkGridGeometry = &schema.ComplexType{
		TypeName: "IjkGridGeometry",
		NS:       ResqmlNamespace,
		Base:     AbstractColumnLayerGridGeometry,
		Own: []schema.Field{
			schema.Elem("GridIsRightHanded", Boolean),
		},
	}

	AbstractRepresentation = &schema.ComplexType{
		TypeName: "AbstractRepresentation",
		NS:       ResqmlNamespace,
		Base:     AbstractResqmlDataObject,
		Abstract: true,
		Own: []schema.Field{
			schema.Elem("Geometry", AbstractGeometry),
		},
	}

	AbstractGridRepresentation = &schema.ComplexType{
		TypeName: "AbstractGridRepresentation",
		NS:       ResqmlNamespace,
		Base:     AbstractRepresentation,
		Abstract: true,
	}

	AbstractColumnLayerGridRepresentation = &schema.ComplexType{
		TypeName: "AbstractColumnLayerGridRepresentation",
		NS:       ResqmlNamespace,
		Base:     AbstractGridRepresentation,
		Abstract: true,
		Own: []schema.Field{
			schema.Elem("Nk", PositiveInteger),
		},
	}

	IjkGridRepresentation = &schema.ComplexType{
		TypeName: "IjkGridRepresentation",
		NS:       ResqmlNamespace,
		Base:     AbstractColumnLayerGridRepresentation,
		Own: []schema.Field{
			schema.Elem("Ni", PositiveInteger),
			schema.Elem("Nj", PositiveInteger),
		},
	}
)

var representationTypes = []schema.Type{
	KDirection,
	IndexableElements,
	AbstractGridGeometry,
	AbstractColumnLayerGridGeometry,
	IjkGridGeometry,
	AbstractRepresentation,
	AbstractGridRepresentation,
	AbstractColumnLayerGridRepresentation,
	IjkGridRepresentation,
}
