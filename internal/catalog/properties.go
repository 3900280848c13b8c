package catalog

import "github.com/aidanlsb/resqpack/internal/schema"

var (
	ResqmlUom = &schema.EnumType{TypeName: "ResqmlUom", NS: ResqmlNamespace, Symbols: []string{"m", "Euc", "mD"}}

	ResqmlPropertyKind = &schema.EnumType{
		TypeName: "ResqmlPropertyKind",
		NS:       ResqmlNamespace,
		Symbols: []string{
			"discrete", "porosity", "permeability_rock", "permeability_length",
			"permeability_thickness", "volume_per_volume", "categorical",
		},
	}

	PatchOfValues = &schema.ComplexType{
		TypeName: "PatchOfValues",
		NS:       ResqmlNamespace,
		Own: []schema.Field{
			schema.Elem("RepresentationPatchIndex", Integer),
			schema.Elem("Values", AbstractValueArray),
		},
	}

	AbstractPropertyKind = &schema.ComplexType{TypeName: "AbstractPropertyKind", NS: ResqmlNamespace, Abstract: true}

	PropertyKind = &schema.ComplexType{
		TypeName: "PropertyKind",
		NS:       ResqmlNamespace,
		Base:     AbstractResqmlDataObject,
		Own: []schema.Field{
			schema.Elem("NamingSystem", String),
			schema.Elem("IsAbstract", Boolean),
			schema.Elem("Representative_uom", ResqmlUom),
			schema.Elem("ParentPropertyKind", AbstractPropertyKind),
		},
	}

	LocalPropertyKind = &schema.ComplexType{
		TypeName: "LocalPropertyKind",
		NS:       ResqmlNamespace,
		Base:     AbstractPropertyKind,
		Own: []schema.Field{
			schema.Ref("LocalPropertyKind", PropertyKind),
		},
	}

	StandardPropertyKind = &schema.ComplexType{
		TypeName: "StandardPropertyKind",
		NS:       ResqmlNamespace,
		Base:     AbstractPropertyKind,
		Own: []schema.Field{
			schema.Elem("Kind", ResqmlPropertyKind),
		},
	}

	StringLookup = &schema.ComplexType{
		TypeName: "StringLookup",
		NS:       ResqmlNamespace,
		Own: []schema.Field{
			schema.Elem("Key", Integer),
			schema.Elem("Value", String),
		},
	}

	AbstractPropertyLookup = &schema.ComplexType{
		TypeName: "AbstractPropertyLookup",
		NS:       ResqmlNamespace,
		Base:     AbstractResqmlDataObject,
		Abstract: true,
	}

	StringTableLookup = &schema.ComplexType{
		TypeName: "StringTableLookup",
		NS:       ResqmlNamespace,
		Base:     AbstractPropertyLookup,
		Own: []schema.Field{
			schema.Repeated("Value", StringLookup),
		},
	}

	AbstractProperty = &schema.ComplexType{
		TypeName: "AbstractProperty",
		NS:       ResqmlNamespace,
		Base:     AbstractResqmlDataObject,
		Abstract: true,
		Own: []schema.Field{
			schema.Elem("IndexableElement", IndexableElements),
			schema.Elem("Count", PositiveInteger),
			schema.OptionalElem("RealizationIndex", NonNegativeInteger),
			schema.OptionalElem("TimeStep", NonNegativeInteger),
			schema.Ref("SupportingRepresentation", AbstractRepresentation),
			schema.Elem("PropertyKind", AbstractPropertyKind),
		},
	}

	AbstractValuesProperty = &schema.ComplexType{
		TypeName: "AbstractValuesProperty",
		NS:       ResqmlNamespace,
		Base:     AbstractProperty,
		Abstract: true,
		Own: []schema.Field{
			schema.Elem("PatchOfValues", PatchOfValues),
		},
	}

	// Lookup is an element field: a lookup stored as its own part is
	// written by reference, otherwise inline.
	CategoricalProperty = &schema.ComplexType{
		TypeName: "CategoricalProperty",
		NS:       ResqmlNamespace,
		Base:     AbstractValuesProperty,
		Own: []schema.Field{
			schema.Elem("Lookup", AbstractPropertyLookup),
		},
	}

	ContinuousProperty = &schema.ComplexType{
		TypeName: "ContinuousProperty",
		NS:       ResqmlNamespace,
		Base:     AbstractValuesProperty,
		Own: []schema.Field{
			schema.Elem("MinimumValue", Double),
			schema.Elem("Uom", ResqmlUom),
			schema.Elem("MaximumValue", Double),
		},
	}
)

var propertyTypes = []schema.Type{
	ResqmlUom,
	ResqmlPropertyKind,
	PatchOfValues,
	AbstractPropertyKind,
	PropertyKind,
	LocalPropertyKind,
	StandardPropertyKind,
	StringLookup,
	AbstractPropertyLookup,
	StringTableLookup,
	AbstractProperty,
	AbstractValuesProperty,
	CategoricalProperty,
	ContinuousProperty,
}
