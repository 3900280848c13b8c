package epc

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/aidanlsb/resqpack/internal/catalog"
	"github.com/aidanlsb/resqpack/internal/check"
	"github.com/aidanlsb/resqpack/internal/codec"
	"github.com/aidanlsb/resqpack/internal/model"
	"github.com/aidanlsb/resqpack/internal/schema"
)

// Fixed part names.
const (
	ContentTypesPart   = "[Content_Types].xml"
	RootRelsPart       = "_rels/.rels"
	CorePropertiesPart = "docProps/core.xml"
	relsDir            = "_rels/"
	relsExt            = ".rels"
)

// Relationship types.
const (
	RelDestinationObject = "http://schemas.energistics.org/package/2012/relationships/externalPartProxyToMl"
	RelExternalResource  = "http://schemas.energistics.org/package/2012/relationships/externalResource"
	RelCoreProperties    = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
)

// Default content types.
const (
	RelsContentType = "application/vnd.openxmlformats-package.relationships+xml"
	XMLContentType  = "application/xml"
)

// TargetModeExternal marks relationships whose target is outside the package.
const TargetModeExternal = "External"

// Relationship is one entry of a part's relationship listing.
type Relationship struct {
	ID         string `json:"id" yaml:"id"`
	Target     string `json:"target" yaml:"target"`
	TargetMode string `json:"target_mode,omitempty" yaml:"target_mode,omitempty"`
	Type       string `json:"type" yaml:"type"`
}

// External reports whether the target lies outside the package.
func (r Relationship) External() bool {
	return r.TargetMode == TargetModeExternal
}

// Default maps a file extension to a content type.
type Default struct {
	Extension   string
	ContentType string
}

// Override assigns a content type to one part.
type Override struct {
	PartName    string
	ContentType string
}

// ContentTypes is the package manifest.
type ContentTypes struct {
	Defaults  []Default
	Overrides []Override
}

// Override returns the override for a part name, with or without the
// leading slash.
func (ct ContentTypes) Override(part string) (Override, bool) {
	for _, o := range ct.Overrides {
		if o.PartName == part || o.PartName == "/"+part {
			return o, true
		}
	}
	return Override{}, false
}

// CoreProperties is the package metadata document.
type CoreProperties struct {
	Created time.Time
	Creator string
	Title   string
}

// RelsPart returns the relationship listing part name of a part.
func RelsPart(part string) string {
	return relsDir + part + relsExt
}

func relationshipsObject(rels []Relationship) *model.Object {
	list := model.New(catalog.Relationships)
	for _, r := range rels {
		o := model.New(catalog.Relationship).
			Set("Id", model.Text(catalog.String, r.ID)).
			Set("Target", model.Text(catalog.String, r.Target)).
			Set("Type", model.Text(catalog.String, r.Type))
		if r.TargetMode != "" {
			o.Set("TargetMode", model.Symbol(catalog.TargetMode, r.TargetMode))
		}
		list.Append("Relationship", o)
	}
	return list
}

func contentTypesObject(ct ContentTypes) *model.Object {
	types := model.New(catalog.Types)
	for _, d := range ct.Defaults {
		types.Append("Default", model.New(catalog.Default).
			Set("ContentType", model.Text(catalog.String, d.ContentType)).
			Set("Extension", model.Text(catalog.String, d.Extension)))
	}
	for _, o := range ct.Overrides {
		types.Append("Override", model.New(catalog.Override).
			Set("ContentType", model.Text(catalog.String, o.ContentType)).
			Set("PartName", model.Text(catalog.String, o.PartName)))
	}
	return types
}

func corePropertiesObject(cp CoreProperties) *model.Object {
	core := model.New(catalog.CoreProperties).
		Set("created", model.Time(catalog.W3CDTF, cp.Created)).
		Set("creator", model.Text(catalog.String, cp.Creator))
	if cp.Title != "" {
		core.Set("title", model.Text(catalog.String, cp.Title))
	}
	return core
}

// opcDocument renders a packaging object. Packaging documents carry no type
// annotations; readers derive their types from the root tag.
func opcDocument(reg *schema.Registry, obj *model.Object) (*etree.Document, error) {
	return codec.NewEncoder(reg, codec.WithoutTypeAnnotations()).EncodeDocument(obj, nil)
}

func decodeOPC(reg *schema.Registry, doc *etree.Document, t *schema.ComplexType) (*model.Object, check.Issues, error) {
	root := doc.Root()
	if root == nil {
		return nil, nil, fmt.Errorf("document has no root element")
	}
	if root.Tag != t.Name() {
		return nil, nil, fmt.Errorf("root element %s, want %s", root.FullTag(), t.Name())
	}
	obj, issues := codec.NewDecoder(reg).DecodeAs(root, t)
	if obj == nil {
		return nil, issues, fmt.Errorf("cannot decode %s", t.Name())
	}
	return obj, issues, nil
}

func parseRelationships(reg *schema.Registry, doc *etree.Document) ([]Relationship, check.Issues, error) {
	obj, issues, err := decodeOPC(reg, doc, catalog.Relationships)
	if err != nil {
		return nil, issues, err
	}
	entries, bad := entries(obj, "Relationship")
	issues = append(issues, bad...)
	var rels []Relationship
	for _, o := range entries {
		rels = append(rels, Relationship{
			ID:         o.Text("Id"),
			Target:     o.Text("Target"),
			TargetMode: o.Text("TargetMode"),
			Type:       o.Text("Type"),
		})
	}
	return rels, issues, nil
}

func parseContentTypes(reg *schema.Registry, doc *etree.Document) (ContentTypes, check.Issues, error) {
	obj, issues, err := decodeOPC(reg, doc, catalog.Types)
	if err != nil {
		return ContentTypes{}, issues, err
	}
	var ct ContentTypes
	defaults, bad := entries(obj, "Default")
	issues = append(issues, bad...)
	for _, o := range defaults {
		ct.Defaults = append(ct.Defaults, Default{Extension: o.Text("Extension"), ContentType: o.Text("ContentType")})
	}
	overrides, bad := entries(obj, "Override")
	issues = append(issues, bad...)
	for _, o := range overrides {
		ct.Overrides = append(ct.Overrides, Override{PartName: o.Text("PartName"), ContentType: o.Text("ContentType")})
	}
	return ct, issues, nil
}

// entries returns the nested objects of a repeated OPC field. Values that
// decoded to anything else, such as a reference, are reported and dropped.
func entries(obj *model.Object, field string) ([]*model.Object, check.Issues) {
	var out []*model.Object
	var issues check.Issues
	for i, v := range obj.Values(field) {
		o, ok := v.(*model.Object)
		if !ok {
			issues = append(issues, check.Errorf(check.KindInvalidValue,
				fmt.Sprintf("%s/%s[%d]", obj.Type.Name(), field, i), "expected a %s entry, got %T", field, v))
			continue
		}
		out = append(out, o)
	}
	return out, issues
}

func parseCoreProperties(reg *schema.Registry, doc *etree.Document) (CoreProperties, check.Issues, error) {
	obj, issues, err := decodeOPC(reg, doc, catalog.CoreProperties)
	if err != nil {
		return CoreProperties{}, issues, err
	}
	cp := CoreProperties{Creator: obj.Text("creator"), Title: obj.Text("title")}
	if s, ok := obj.Value("created").(model.Scalar); ok {
		cp.Created, _ = s.Time()
	}
	return cp, issues, nil
}
