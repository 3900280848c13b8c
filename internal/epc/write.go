package epc

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/beevik/etree"
	"github.com/klauspost/compress/zip"

	"github.com/aidanlsb/resqpack/internal/atomicfile"
	"github.com/aidanlsb/resqpack/internal/codec"
)

// Write stores the package at path. External parts without a recorded
// payload path get the container's default payload path, and attached
// datasets are materialized next to the container.
func (p *Package) Write(path string, opts ...Option) error {
	o := newOptions(opts)
	log := o.logger.With(slog.String("path", path), slog.String("medium", o.medium.String()))

	if err := p.validate(); err != nil {
		return err
	}
	for _, proxy := range p.graph.Objects() {
		if IsExternalPart(proxy) {
			if _, ok := p.payloads[proxy]; !ok {
				p.payloads[proxy] = DefaultPayloadPath(path)
			}
		}
	}

	created := o.created
	if created.IsZero() {
		created = time.Now().UTC()
	}
	core := CoreProperties{Created: created, Creator: o.creator, Title: o.title}

	var err error
	switch o.medium {
	case Directory:
		err = p.writeDirectory(path, o, core)
	case Archive:
		err = atomicfile.Write(path, 0o644, func(w io.Writer) error {
			zw := zip.NewWriter(w)
			if err := p.writeParts(zipSink{zw: zw}, o, core); err != nil {
				return err
			}
			return zw.Close()
		})
	default:
		err = fmt.Errorf("unknown medium %d", o.medium)
	}
	if err != nil {
		return err
	}

	p.location = path
	p.medium = o.medium
	p.core = core
	log.Info("wrote container", slog.Int("count", p.graph.Len()))

	return p.materialize(o, log)
}

const coreRelationshipID = "rId1"

func (p *Package) validate() error {
	if p.graph.Len() == 0 {
		return ErrNoParts
	}
	for _, obj := range p.graph.Objects() {
		if obj.ID() == "" {
			return fmt.Errorf("%s: %w", obj.Type.Name(), codec.ErrNotIdentified)
		}
	}
	if dups := p.graph.Duplicates(); len(dups) > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicate, dups[0])
	}
	return nil
}

func (p *Package) writeDirectory(path string, o *options, core CoreProperties) error {
	st, err := os.Stat(path)
	switch {
	case err == nil && !o.overwrite:
		return fmt.Errorf("%w: %s", ErrExists, path)
	case err == nil:
		if !st.IsDir() {
			return fmt.Errorf("%w: %s is not a directory", ErrExists, path)
		}
		if _, err := os.Stat(filepath.Join(path, ContentTypesPart)); err != nil {
			return fmt.Errorf("%w: %s is not a container", ErrExists, path)
		}
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("remove existing container: %w", err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create container directory: %w", err)
	}
	return p.writeParts(dirSink{root: path}, o, core)
}

func (p *Package) writeParts(s sink, o *options, core CoreProperties) error {
	enc := codec.NewEncoder(o.registry)

	for _, obj := range p.graph.Objects() {
		doc, err := enc.EncodeDocument(obj, p.graph)
		if err != nil {
			return fmt.Errorf("encode %s: %w", obj.BaseName(), err)
		}
		if err := putDocument(s, obj.BaseName(), doc); err != nil {
			return err
		}
		o.logger.Debug("wrote part", slog.String("part", obj.BaseName()))
	}

	for _, obj := range p.graph.Objects() {
		rels, err := p.Relationships(obj)
		if err != nil {
			return err
		}
		doc, err := opcDocument(o.registry, relationshipsObject(rels))
		if err != nil {
			return fmt.Errorf("encode relationships of %s: %w", obj.BaseName(), err)
		}
		if err := putDocument(s, RelsPart(obj.BaseName()), doc); err != nil {
			return err
		}
	}

	doc, err := opcDocument(o.registry, contentTypesObject(p.ContentTypes()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrManifest, err)
	}
	if err := putDocument(s, ContentTypesPart, doc); err != nil {
		return err
	}

	doc, err = opcDocument(o.registry, relationshipsObject([]Relationship{{
		ID:     coreRelationshipID,
		Target: CorePropertiesPart,
		Type:   RelCoreProperties,
	}}))
	if err != nil {
		return err
	}
	if err := putDocument(s, RootRelsPart, doc); err != nil {
		return err
	}

	doc, err = opcDocument(o.registry, corePropertiesObject(core))
	if err != nil {
		return fmt.Errorf("encode core properties: %w", err)
	}
	return putDocument(s, CorePropertiesPart, doc)
}

func putDocument(s sink, name string, doc *etree.Document) error {
	err := s.Put(name, func(w io.Writer) error {
		_, err := doc.WriteTo(w)
		return err
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (p *Package) materialize(o *options, log *slog.Logger) error {
	for _, proxy := range p.graph.Objects() {
		data := p.datasets[proxy]
		if len(data) == 0 {
			continue
		}
		loc, err := p.PayloadLocation(proxy)
		if err != nil {
			return err
		}
		if err := o.store.Materialize(loc, data...); err != nil {
			return fmt.Errorf("materialize payload %s: %w", loc, err)
		}
		log.Info("wrote payload", slog.String("part", proxy.BaseName()), slog.Int("count", len(data)))
	}
	return nil
}
