package index

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aidanlsb/resqpack/internal/check"
)

// PartResult is one indexed part.
type PartResult struct {
	Part        string `json:"part"`
	UUID        string `json:"uuid"`
	Type        string `json:"type"`
	Title       string `json:"title,omitempty"`
	ContentType string `json:"content_type"`
}

// RefResult is one indexed reference.
type RefResult struct {
	SourcePart string `json:"source_part"`
	FieldPath  string `json:"field_path"`
	TargetUUID string `json:"target_uuid"`
	TargetPart string `json:"target_part,omitempty"`
	Title      string `json:"title,omitempty"`
}

const partColumns = "part, uuid, type, COALESCE(title, ''), content_type"

func scanPart(rows *sql.Rows) (PartResult, error) {
	var r PartResult
	err := rows.Scan(&r.Part, &r.UUID, &r.Type, &r.Title, &r.ContentType)
	return r, err
}

const refColumns = "source_part, field_path, target_uuid, COALESCE(target_part, ''), COALESCE(title, '')"

func scanRef(rows *sql.Rows) (RefResult, error) {
	var r RefResult
	err := rows.Scan(&r.SourcePart, &r.FieldPath, &r.TargetUUID, &r.TargetPart, &r.Title)
	return r, err
}

// Parts returns the indexed parts whose type is one of types, or every part
// when types is empty. Parts are ordered by name.
func (d *Database) Parts(ctx context.Context, types ...string) ([]PartResult, error) {
	query := "SELECT " + partColumns + " FROM parts"
	var args []any
	if len(types) > 0 {
		var ph string
		ph, args = inClause(types)
		query += " WHERE type IN (" + ph + ")"
	}
	return queryAll(ctx, d.db, scanPart, query+" ORDER BY part", args...)
}

// Part returns the part carrying uuid.
func (d *Database) Part(ctx context.Context, uuid string) (*PartResult, error) {
	parts, err := queryAll(ctx, d.db, scanPart, "SELECT "+partColumns+" FROM parts WHERE uuid = ?", uuid)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, ErrPartNotFound
	}
	return &parts[0], nil
}

// Backlinks returns the references naming uuid.
func (d *Database) Backlinks(ctx context.Context, uuid string) ([]RefResult, error) {
	return queryAll(ctx, d.db, scanRef,
		"SELECT "+refColumns+" FROM refs WHERE target_uuid = ? ORDER BY source_part, field_path", uuid)
}

// Dangling returns the references whose target is not in the container.
func (d *Database) Dangling(ctx context.Context) ([]RefResult, error) {
	return queryAll(ctx, d.db, scanRef,
		"SELECT "+refColumns+" FROM refs WHERE target_part IS NULL ORDER BY source_part, field_path")
}

// Issues returns the stored diagnostics, restricted to kinds when given.
func (d *Database) Issues(ctx context.Context, kinds ...check.Kind) (check.Issues, error) {
	query := "SELECT level, kind, COALESCE(part, ''), COALESCE(path, ''), message FROM issues"
	var args []any
	if len(kinds) > 0 {
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = string(k)
		}
		var ph string
		ph, args = inClause(names)
		query += " WHERE kind IN (" + ph + ")"
	}
	return queryAll(ctx, d.db, scanIssue, query+" ORDER BY id", args...)
}

func scanIssue(rows *sql.Rows) (check.Issue, error) {
	var i check.Issue
	var level, kind string
	if err := rows.Scan(&level, &kind, &i.Part, &i.Path, &i.Message); err != nil {
		return i, err
	}
	i.Kind = check.Kind(kind)
	if level == check.LevelWarning.String() {
		i.Level = check.LevelWarning
	}
	return i, nil
}

// Container returns the container location recorded by the last
// IndexPackage, or "".
func (d *Database) Container(ctx context.Context) (string, error) {
	var loc string
	err := d.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = 'container'").Scan(&loc)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return loc, err
}
