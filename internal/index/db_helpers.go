package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/aidanlsb/resqpack/internal/check"
	"github.com/aidanlsb/resqpack/internal/epc"
	"github.com/aidanlsb/resqpack/internal/model"
	"github.com/aidanlsb/resqpack/internal/schema"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

var catalogueTables = []string{"parts", "relationships", "refs", "issues"}

func clearTables(ctx context.Context, e execer) error {
	for _, table := range catalogueTables {
		if _, err := e.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return nil
}

func indexParts(ctx context.Context, e execer, p *epc.Package, now int64) error {
	for _, o := range p.Graph().Objects() {
		_, err := e.ExecContext(ctx,
			`INSERT OR REPLACE INTO parts (part, uuid, type, title, content_type, indexed_at) VALUES (?, ?, ?, ?, ?, ?)`,
			o.BaseName(), o.ID(), o.Type.Name(), nullIfEmpty(o.Title()), o.ContentType(), now)
		if err != nil {
			return fmt.Errorf("index part %s: %w", o.BaseName(), err)
		}
	}
	return nil
}

func indexRelationships(ctx context.Context, e execer, p *epc.Package) error {
	for _, o := range p.Graph().Objects() {
		rels, err := p.Relationships(o)
		if err != nil {
			return err
		}
		for _, r := range rels {
			_, err := e.ExecContext(ctx,
				`INSERT OR REPLACE INTO relationships (source_part, rel_id, target, target_mode, type) VALUES (?, ?, ?, ?, ?)`,
				o.BaseName(), r.ID, r.Target, nullIfEmpty(r.TargetMode), r.Type)
			if err != nil {
				return fmt.Errorf("index relationship %s of %s: %w", r.ID, o.BaseName(), err)
			}
		}
	}
	return nil
}

func indexRefs(ctx context.Context, e execer, p *epc.Package) error {
	g := p.Graph()
	for _, o := range g.Objects() {
		var err error
		o.Walk(func(owner *model.Object, f schema.Field, v model.Value) bool {
			if err != nil {
				return false
			}
			var targetID, title string
			switch x := v.(type) {
			case *model.Reference:
				targetID, title = x.UUID, x.Title
			case *model.Object:
				if !g.Contains(x) {
					return true
				}
				targetID, title = x.ID(), x.Title()
			default:
				return true
			}
			var targetPart any
			if t := g.Find(targetID); t != nil {
				targetPart = t.BaseName()
			}
			_, err = e.ExecContext(ctx,
				`INSERT INTO refs (source_part, field_path, target_uuid, target_part, title) VALUES (?, ?, ?, ?, ?)`,
				o.BaseName(), owner.Type.Name()+"/"+f.Name, targetID, targetPart, nullIfEmpty(title))
			return false
		})
		if err != nil {
			return fmt.Errorf("index references of %s: %w", o.BaseName(), err)
		}
	}
	return nil
}

func indexIssues(ctx context.Context, e execer, issues check.Issues) error {
	for _, i := range issues {
		_, err := e.ExecContext(ctx,
			`INSERT INTO issues (level, kind, part, path, message) VALUES (?, ?, ?, ?, ?)`,
			i.Level.String(), string(i.Kind), nullIfEmpty(i.Part), nullIfEmpty(i.Path), i.Message)
		if err != nil {
			return fmt.Errorf("index issue: %w", err)
		}
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// inClause returns "?, ?, ?" for items and the items as arguments. No items
// yields "NULL", so that IN (NULL) matches nothing.
func inClause(items []string) (string, []any) {
	if len(items) == 0 {
		return "NULL", nil
	}
	args := make([]any, len(items))
	for i, item := range items {
		args[i] = item
	}
	return strings.TrimSuffix(strings.Repeat("?, ", len(items)), ", "), args
}

// queryAll runs query and scans every row.
func queryAll[T any](ctx context.Context, db *sql.DB, scan func(*sql.Rows) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
