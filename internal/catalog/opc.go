package catalog

import "github.com/aidanlsb/resqpack/internal/schema"

// Open Packaging Conventions namespaces. Content types and relationships use
// a default (unprefixed) namespace on their document roots.
var (
	ContentTypesNamespace   = schema.Namespace{URI: "http://schemas.openxmlformats.org/package/2006/content-types"}
	RelationshipsNamespace  = schema.Namespace{URI: "http://schemas.openxmlformats.org/package/2006/relationships"}
	CorePropertiesNamespace = schema.Namespace{Prefix: "cp", URI: "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"}
	DCNamespace             = schema.Namespace{Prefix: "dc", URI: "http://purl.org/dc/elements/1.1/"}
	DCTermsNamespace        = schema.Namespace{Prefix: "dcterms", URI: "http://purl.org/dc/terms/"}
)

// Content types ([Content_Types].xml).
var (
	Default = &schema.ComplexType{
		TypeName: "Default",
		NS:       ContentTypesNamespace,
		Own: []schema.Field{
			schema.Attr("ContentType", String),
			schema.Attr("Extension", String),
		},
	}

	Override = &schema.ComplexType{
		TypeName: "Override",
		NS:       ContentTypesNamespace,
		Own: []schema.Field{
			schema.Attr("ContentType", String),
			schema.Attr("PartName", String),
		},
	}

	Types = &schema.ComplexType{
		TypeName: "Types",
		NS:       ContentTypesNamespace,
		Own: []schema.Field{
			schema.Repeated("Default", Default),
			schema.Repeated("Override", Override),
		},
	}
)

// Relationships (_rels/*.rels).
var (
	TargetMode = &schema.EnumType{TypeName: "TargetMode", NS: RelationshipsNamespace, Symbols: []string{"External", "Internal"}}

	Relationship = &schema.ComplexType{
		TypeName: "Relationship",
		NS:       RelationshipsNamespace,
		Own: []schema.Field{
			schema.Attr("Id", String),
			schema.Attr("Target", String),
			schema.OptionalAttr("TargetMode", TargetMode),
			schema.Attr("Type", String),
		},
	}

	Relationships = &schema.ComplexType{
		TypeName: "Relationships",
		NS:       RelationshipsNamespace,
		Own: []schema.Field{
			schema.Repeated("Relationship", Relationship),
		},
	}
)

// Core properties (docProps/core.xml).
var (
	W3CDTF = &schema.SimpleType{TypeName: "W3CDTF", NS: DCTermsNamespace, Base: DateTime, Lexical: schema.LexicalDateTime}

	CoreProperties = &schema.ComplexType{
		TypeName:   "coreProperties",
		NS:         CorePropertiesNamespace,
		Namespaces: []schema.Namespace{DCNamespace, DCTermsNamespace},
		Own: []schema.Field{
			schema.Elem("created", W3CDTF).WithPrefix(DCTermsNamespace.Prefix),
			schema.Elem("creator", String).WithPrefix(DCNamespace.Prefix),
			schema.OptionalElem("title", String).WithPrefix(DCNamespace.Prefix),
		},
	}
)

var (
	dctermsModule = schema.Declare(&schema.Module{Name: "dcterms", Namespace: DCTermsNamespace, Types: []schema.Type{W3CDTF}})

	coreModule = schema.Declare(&schema.Module{Name: "core-properties", Namespace: CorePropertiesNamespace, Types: []schema.Type{CoreProperties}})

	contentTypesModule = schema.Declare(&schema.Module{
		Name:      "content-types",
		Namespace: ContentTypesNamespace,
		Types:     []schema.Type{Default, Override, Types},
	})

	relationshipsModule = schema.Declare(&schema.Module{
		Name:      "relationships",
		Namespace: RelationshipsNamespace,
		Types:     []schema.Type{TargetMode, Relationship, Relationships},
	})
)
