package catalog

import (
	"errors"
	"strconv"

	"github.com/aidanlsb/resqpack/internal/schema"
)

// XSDNamespace holds the XML Schema built-in simple types.
var XSDNamespace = schema.Namespace{Prefix: "xsd", URI: "http://www.w3.org/2001/XMLSchema"}

var (
	String = &schema.SimpleType{TypeName: "string", NS: XSDNamespace, Lexical: schema.LexicalString}

	Integer = &schema.SimpleType{TypeName: "integer", NS: XSDNamespace, Lexical: schema.LexicalInteger}

	NonNegativeInteger = &schema.SimpleType{
		TypeName: "nonNegativeInteger",
		NS:       XSDNamespace,
		Base:     Integer,
		Lexical:  schema.LexicalInteger,
		Check: func(text string) error {
			if n, _ := strconv.ParseInt(text, 10, 64); n < 0 {
				return errors.New("must not be negative")
			}
			return nil
		},
	}

	PositiveInteger = &schema.SimpleType{
		TypeName: "positiveInteger",
		NS:       XSDNamespace,
		Base:     Integer,
		Lexical:  schema.LexicalInteger,
		Check: func(text string) error {
			if n, _ := strconv.ParseInt(text, 10, 64); n <= 0 {
				return errors.New("must be positive")
			}
			return nil
		},
	}

	Double = &schema.SimpleType{TypeName: "double", NS: XSDNamespace, Lexical: schema.LexicalDouble}

	Boolean = &schema.SimpleType{TypeName: "boolean", NS: XSDNamespace, Lexical: schema.LexicalBoolean}

	DateTime = &schema.SimpleType{TypeName: "dateTime", NS: XSDNamespace, Lexical: schema.LexicalDateTime}
)

var xsdModule = schema.Declare(&schema.Module{
	Name:      "xsd",
	Namespace: XSDNamespace,
	Types: []schema.Type{
		String,
		Integer,
		NonNegativeInteger,
		PositiveInteger,
		Double,
		Boolean,
		DateTime,
	},
})
