package epc

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/beevik/etree"

	"github.com/aidanlsb/resqpack/internal/check"
	"github.com/aidanlsb/resqpack/internal/codec"
	"github.com/aidanlsb/resqpack/internal/model"
	"github.com/aidanlsb/resqpack/internal/resolver"
)

const (
	partPrefix = "obj_"
	partExt    = ".xml"
)

// IsObjectPart reports whether name is a top-level object part.
func IsObjectPart(name string) bool {
	return !strings.Contains(name, "/") &&
		strings.HasPrefix(name, partPrefix) &&
		strings.HasSuffix(name, partExt)
}

// Read loads the container at path, which may be a directory or a zip
// archive. Unreadable parts are reported and skipped; references are
// resolved once over every part that could be read. Read fails only when the
// container is missing, the manifest cannot be read, or no part was
// readable.
func Read(containerPath string, opts ...Option) (*Package, check.Issues, error) {
	o := newOptions(opts)

	src, medium, err := openSource(containerPath)
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()
	log := o.logger.With(slog.String("path", containerPath), slog.String("medium", medium.String()))

	var issues check.Issues

	manifestDoc, err := readDocument(src, ContentTypesPart)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}
	manifest, manifestIssues, err := parseContentTypes(o.registry, manifestDoc)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}
	issues = append(issues, manifestIssues.InPart(ContentTypesPart)...)

	dec := codec.NewDecoder(o.registry)
	g := model.NewGraph()
	var parts []string
	for _, name := range src.Names() {
		if !IsObjectPart(name) {
			continue
		}
		doc, err := readDocument(src, name)
		if err != nil {
			issues = append(issues, unreadable(name, err))
			log.Warn("skipped part", slog.String("part", name), slog.String("error", err.Error()))
			continue
		}
		obj, partIssues := dec.Decode(doc.Root())
		issues = append(issues, partIssues.InPart(name)...)
		if obj == nil {
			log.Warn("skipped part", slog.String("part", name))
			continue
		}
		if !obj.Type.Identified() || obj.ID() == "" {
			issues = append(issues, unreadable(name, fmt.Errorf("root %s carries no identifier", obj.Type.Name())))
			log.Warn("skipped part", slog.String("part", name))
			continue
		}
		g.Add(obj)
		parts = append(parts, name)
	}
	if g.Len() == 0 {
		return nil, issues, fmt.Errorf("%w: %s", ErrNoParts, containerPath)
	}
	log.Debug("decoded parts", slog.Int("count", g.Len()))

	issues = append(issues, compareManifest(manifest, g, parts, src.Names())...)
	issues = append(issues, resolver.Resolve(g)...)

	p := FromGraph(g)
	p.location = containerPath
	p.medium = medium

	for _, proxy := range g.Objects() {
		if !IsExternalPart(proxy) {
			continue
		}
		rel, relIssues := payloadTarget(o, src, proxy)
		issues = append(issues, relIssues...)
		if rel == "" {
			rel = DefaultPayloadPath(containerPath)
		}
		p.payloads[proxy] = rel
	}

	if doc, err := readDocument(src, CorePropertiesPart); err == nil {
		core, coreIssues, err := parseCoreProperties(o.registry, doc)
		if err != nil {
			issues = append(issues, warnUnreadable(CorePropertiesPart, err))
		} else {
			p.core = core
			issues = append(issues, coreIssues.InPart(CorePropertiesPart)...)
		}
	}

	log.Info("read container", slog.Int("count", g.Len()), slog.Int("issues", len(issues)))
	return p, issues, nil
}

func openSource(containerPath string) (source, Medium, error) {
	st, err := os.Stat(containerPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, fmt.Errorf("%w: %s: %w", ErrNotFound, containerPath, err)
	}
	if err != nil {
		return nil, 0, err
	}
	if st.IsDir() {
		src, err := openDir(containerPath)
		if err != nil {
			return nil, 0, err
		}
		return src, Directory, nil
	}
	src, err := openZip(containerPath)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s is not a container archive: %v", ErrManifest, containerPath, err)
	}
	return src, Archive, nil
}

func readDocument(src source, name string) (*etree.Document, error) {
	rc, err := src.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(rc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("parse %s: no root element", name)
	}
	return doc, nil
}

func unreadable(part string, err error) check.Issue {
	i := check.Errorf(check.KindPartUnreadable, "", "%v", err)
	i.Part = part
	return i
}

func warnUnreadable(part string, err error) check.Issue {
	i := check.Warnf(check.KindPartUnreadable, "", "%v", err)
	i.Part = part
	return i
}

// compareManifest reports parts the manifest does not list, overrides naming
// missing parts, and content types that disagree with the decoded type.
func compareManifest(ct ContentTypes, g *model.Graph, parts, names []string) check.Issues {
	var issues check.Issues
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}

	for i, obj := range g.Objects() {
		part := parts[i]
		ov, ok := ct.Override(part)
		if !ok {
			issues = append(issues, mismatch(part, "part is not listed in the manifest"))
			continue
		}
		if want := obj.ContentType(); ov.ContentType != want {
			issues = append(issues, mismatch(part, "manifest content type %q, decoded %q", ov.ContentType, want))
		}
	}
	for _, ov := range ct.Overrides {
		name := strings.TrimPrefix(ov.PartName, "/")
		if !present[name] {
			issues = append(issues, mismatch(ContentTypesPart, "override names missing part %s", ov.PartName))
		}
	}
	return issues
}

func mismatch(part, format string, args ...interface{}) check.Issue {
	i := check.Warnf(check.KindManifestMismatch, "", format, args...)
	i.Part = part
	return i
}

// payloadTarget returns the external resource target recorded in an
// external part's relationship listing.
func payloadTarget(o *options, src source, proxy *model.Object) (string, check.Issues) {
	name := RelsPart(proxy.BaseName())
	doc, err := readDocument(src, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", check.Issues{warnUnreadable(name, err)}
	}
	rels, issues, err := parseRelationships(o.registry, doc)
	if err != nil {
		return "", append(issues.InPart(name), warnUnreadable(name, err))
	}
	for _, r := range rels {
		if r.Type == RelExternalResource && r.Target != "" {
			return path.Clean(r.Target), issues.InPart(name)
		}
	}
	return "", issues.InPart(name)
}

// Parts returns the object part names of the package in write order.
func (p *Package) Parts() []string {
	out := make([]string, 0, p.graph.Len())
	for _, o := range p.graph.Objects() {
		out = append(out, o.BaseName())
	}
	return out
}
