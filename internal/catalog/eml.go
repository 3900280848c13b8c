package catalog

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/aidanlsb/resqpack/internal/schema"
)

// EMLNamespace is the Energistics common namespace.
var EMLNamespace = schema.Namespace{Prefix: "eml", URI: "http://www.energistics.org/energyml/data/commonv2"}

// Simple types.
var (
	DescriptionString = &schema.SimpleType{TypeName: "DescriptionString", NS: EMLNamespace, Base: String, Lexical: schema.LexicalString}

	NameString = &schema.SimpleType{TypeName: "NameString", NS: EMLNamespace, Base: String, Lexical: schema.LexicalString}

	UuidString = &schema.SimpleType{
		TypeName: "UuidString",
		NS:       EMLNamespace,
		Base:     String,
		Lexical:  schema.LexicalString,
		Check: func(text string) error {
			if _, err := uuid.Parse(text); err != nil || len(text) != 36 {
				return fmt.Errorf("invalid uuid %q", text)
			}
			return nil
		},
	}
)

// Enumerations.
var (
	AxisOrder2d = &schema.EnumType{
		TypeName: "AxisOrder2d",
		NS:       EMLNamespace,
		Symbols: []string{
			"easting_northing", "northing_easting", "westing_southing",
			"southing_westing", "northing_westing", "westing_northing",
		},
	}

	LengthUom = &schema.EnumType{TypeName: "LengthUom", NS: EMLNamespace, Symbols: []string{"m"}}

	TimeUom = &schema.EnumType{TypeName: "TimeUom", NS: EMLNamespace, Symbols: []string{"ms"}}
)

// Complex types.
var (
	DataObjectReference = &schema.ComplexType{
		TypeName: "DataObjectReference",
		NS:       EMLNamespace,
		Own: []schema.Field{
			schema.Elem("ContentType", String),
			schema.Elem("Title", DescriptionString),
			schema.Elem("UUID", UuidString),
			schema.OptionalElem("UuidAuthority", String),
			schema.OptionalElem("VersionString", NameString),
		},
	}

	Citation = &schema.ComplexType{
		TypeName: "Citation",
		NS:       EMLNamespace,
		Own: []schema.Field{
			schema.Elem("Title", DescriptionString),
			schema.Elem("Originator", NameString),
			schema.Elem("Format", DescriptionString),
			schema.Elem("Creation", DateTime),
		},
	}

	AbstractObject = &schema.ComplexType{
		TypeName: "AbstractObject",
		NS:       EMLNamespace,
		Abstract: true,
		Own: []schema.Field{
			schema.Attr("schemaVersion", String),
			schema.Attr("uuid", UuidString),
			schema.OptionalElem("Citation", Citation),
		},
	}

	AbstractCitedDataObject = &schema.ComplexType{
		TypeName: "AbstractCitedDataObject",
		NS:       EMLNamespace,
		Base:     AbstractObject,
		Abstract: true,
		Own: []schema.Field{
			schema.Elem("Citation", Citation),
		},
	}

	EpcExternalPartReference = &schema.ComplexType{
		TypeName: "EpcExternalPartReference",
		NS:       EMLNamespace,
		Base:     AbstractCitedDataObject,
		Own: []schema.Field{
			schema.Elem("MimeType", String),
		},
	}

	Hdf5Dataset = &schema.ComplexType{
		TypeName: "Hdf5Dataset",
		NS:       EMLNamespace,
		Own: []schema.Field{
			schema.Elem("PathInHdfFile", String),
			schema.Ref("HdfProxy", EpcExternalPartReference),
		},
	}

	AbstractVerticalCrs = &schema.ComplexType{TypeName: "AbstractVerticalCrs", NS: EMLNamespace, Abstract: true}

	AbstractProjectedCrs = &schema.ComplexType{TypeName: "AbstractProjectedCrs", NS: EMLNamespace, Abstract: true}

	VerticalUnknownCrs = &schema.ComplexType{
		TypeName: "VerticalUnknownCrs",
		NS:       EMLNamespace,
		Base:     AbstractVerticalCrs,
		Own: []schema.Field{
			schema.Elem("Unknown", String),
		},
	}

	ProjectedCrsEpsgCode = &schema.ComplexType{
		TypeName: "ProjectedCrsEpsgCode",
		NS:       EMLNamespace,
		Base:     AbstractProjectedCrs,
		Own: []schema.Field{
			schema.Elem("EpsgCode", PositiveInteger),
		},
	}

	ProjectedUnknownCrs = &schema.ComplexType{
		TypeName: "ProjectedUnknownCrs",
		NS:       EMLNamespace,
		Base:     AbstractProjectedCrs,
		Own: []schema.Field{
			schema.Elem("Unknown", String),
		},
	}

	VerticalCrsEpsgCode = &schema.ComplexType{
		TypeName: "VerticalCrsEpsgCode",
		NS:       EMLNamespace,
		Base:     AbstractVerticalCrs,
		Own: []schema.Field{
			schema.Elem("EpsgCode", PositiveInteger),
		},
	}
)

var emlModule = schema.Declare(&schema.Module{
	Name:        "eml",
	Namespace:   EMLNamespace,
	ContentType: "application/x-eml+xml;version=2.0;type=%s",
	Types: []schema.Type{
		DescriptionString,
		NameString,
		UuidString,
		AxisOrder2d,
		LengthUom,
		TimeUom,
		DataObjectReference,
		Citation,
		AbstractObject,
		AbstractCitedDataObject,
		EpcExternalPartReference,
		Hdf5Dataset,
		AbstractVerticalCrs,
		AbstractProjectedCrs,
		VerticalUnknownCrs,
		ProjectedCrsEpsgCode,
		ProjectedUnknownCrs,
		VerticalCrsEpsgCode,
	},
})
