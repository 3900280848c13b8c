package catalog

import "github.com/aidanlsb/resqpack/internal/schema"

// ResqmlNamespace is the RESQML 2 namespace.
var ResqmlNamespace = schema.Namespace{Prefix: "resqml2", URI: "http://www.energistics.org/energyml/data/resqmlv2"}

// Common data objects.
var (
	AbstractResqmlDataObject = &schema.ComplexType{
		TypeName:   "AbstractResqmlDataObject",
		NS:         ResqmlNamespace,
		Base:       AbstractCitedDataObject,
		Abstract:   true,
		Namespaces: []schema.Namespace{EMLNamespace},
	}

	AbstractLocal3dCrs = &schema.ComplexType{
		TypeName: "AbstractLocal3dCrs",
		NS:       ResqmlNamespace,
		Base:     AbstractResqmlDataObject,
		Abstract: true,
		Own: []schema.Field{
			schema.Elem("ArealRotation", Double),
			schema.Elem("ProjectedAxisOrder", AxisOrder2d),
			schema.Elem("ProjectedUom", LengthUom),
			schema.Elem("VerticalUom", LengthUom),
			schema.Elem("XOffset", Double),
			schema.Elem("YOffset", Double),
			schema.Elem("ZIncreasingDownward", Boolean),
			schema.Elem("ZOffset", Double),
			schema.Elem("VerticalCrs", AbstractVerticalCrs),
			schema.Elem("ProjectedCrs", AbstractProjectedCrs),
		},
	}

	LocalDepth3dCrs = &schema.ComplexType{
		TypeName: "LocalDepth3dCrs",
		NS:       ResqmlNamespace,
		Base:     AbstractLocal3dCrs,
	}

	LocalTime3dCrs = &schema.ComplexType{
		TypeName: "LocalTime3dCrs",
		NS:       ResqmlNamespace,
		Base:     AbstractLocal3dCrs,
		Own: []schema.Field{
			schema.Elem("TimeUom", TimeUom),
		},
	}
)

// Geometry and value arrays.
var (
	Point3d = &schema.ComplexType{
		TypeName: "Point3d",
		NS:       ResqmlNamespace,
		Own: []schema.Field{
			schema.Elem("Coordinate1", Double),
			schema.Elem("Coordinate2", Double),
			schema.Elem("Coordinate3", Double),
		},
	}

	Point3dOffset = &schema.ComplexType{
		TypeName: "Point3dOffset",
		NS:       ResqmlNamespace,
		Own: []schema.Field{
			schema.Elem("Offset", Point3d),
		},
	}

	AbstractValueArray = &schema.ComplexType{TypeName: "AbstractValueArray", NS: ResqmlNamespace, Abstract: true}

	AbstractIntegerArray = &schema.ComplexType{
		TypeName: "AbstractIntegerArray",
		NS:       ResqmlNamespace,
		Base:     AbstractValueArray,
		Abstract: true,
	}

	IntegerHdf5Array = &schema.ComplexType{
		TypeName: "IntegerHdf5Array",
		NS:       ResqmlNamespace,
		Base:     AbstractIntegerArray,
		Own: []schema.Field{
			schema.Elem("Values", Hdf5Dataset),
			schema.Elem("NullValue", Integer),
		},
	}

	AbstractDoubleArray = &schema.ComplexType{
		TypeName: "AbstractDoubleArray",
		NS:       ResqmlNamespace,
		Base:     AbstractValueArray,
		Abstract: true,
	}

	DoubleHdf5Array = &schema.ComplexType{
		TypeName: "DoubleHdf5Array",
		NS:       ResqmlNamespace,
		Base:     AbstractDoubleArray,
		Own: []schema.Field{
			schema.Elem("Values", Hdf5Dataset),
		},
	}

	AbstractPoint3dArray = &schema.ComplexType{TypeName: "AbstractPoint3dArray", NS: ResqmlNamespace, Abstract: true}

	Point3dLatticeArray = &schema.ComplexType{
		TypeName: "Point3dLatticeArray",
		NS:       ResqmlNamespace,
		Base:     AbstractPoint3dArray,
		Own: []schema.Field{
			schema.OptionalElem("AllDimensionsAreOrthogonal", Boolean),
			schema.Elem("Origin", Point3d),
			schema.Elem("Offset", Point3dOffset),
		},
	}

	Point3dHdf5Array = &schema.ComplexType{
		TypeName: "Point3dHdf5Array",
		NS:       ResqmlNamespace,
		Base:     AbstractPoint3dArray,
		Own: []schema.Field{
			schema.Elem("Coordinates", Hdf5Dataset),
		},
	}

	AbstractParametricLineArray = &schema.ComplexType{TypeName: "AbstractParametricLineArray", NS: ResqmlNamespace, Abstract: true}

	ParametricLineArray = &schema.ComplexType{
		TypeName: "ParametricLineArray",
		NS:       ResqmlNamespace,
		Base:     AbstractParametricLineArray,
		Own: []schema.Field{
			schema.Elem("ControlPointParameters", AbstractDoubleArray),
			schema.Elem("ControlPoints", AbstractPoint3dArray),
		},
	}

	Point3dParametricArray = &schema.ComplexType{
		TypeName: "Point3dParametricArray",
		NS:       ResqmlNamespace,
		Base:     AbstractPoint3dArray,
		Own: []schema.Field{
			schema.Elem("Parameters", AbstractValueArray),
			schema.Elem("ParametricLines", AbstractParametricLineArray),
		},
	}

	AbstractGeometry = &schema.ComplexType{
		TypeName: "AbstractGeometry",
		NS:       ResqmlNamespace,
		Abstract: true,
		Own: []schema.Field{
			schema.Ref("LocalCrs", AbstractLocal3dCrs),
		},
	}

	PointGeometry = &schema.ComplexType{
		TypeName: "PointGeometry",
		NS:       ResqmlNamespace,
		Base:     AbstractGeometry,
		Own: []schema.Field{
			schema.Elem("Points", AbstractPoint3dArray),
		},
	}
)

var resqmlModule = &schema.Module{
	Name:        "resqml2",
	Namespace:   ResqmlNamespace,
	ContentType: "application/x-resqml+xml;version=2.0.1;type=%s",
}

func init() {
	resqmlModule.Types = []schema.Type{
		// common
		AbstractResqmlDataObject,
		AbstractLocal3dCrs,
		LocalDepth3dCrs,
		LocalTime3dCrs,
		// geometry
		Point3d,
		Point3dOffset,
		AbstractValueArray,
		AbstractIntegerArray,
		IntegerHdf5Array,
		AbstractDoubleArray,
		DoubleHdf5Array,
		AbstractPoint3dArray,
		Point3dLatticeArray,
		Point3dHdf5Array,
		AbstractParametricLineArray,
		ParametricLineArray,
		Point3dParametricArray,
		AbstractGeometry,
		PointGeometry,
	}
	resqmlModule.Types = append(resqmlModule.Types, representationTypes...)
	resqmlModule.Types = append(resqmlModule.Types, propertyTypes...)
	schema.Declare(resqmlModule)
}
