package index

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/resqpack/internal/catalog"
	"github.com/aidanlsb/resqpack/internal/check"
	"github.com/aidanlsb/resqpack/internal/epc"
	"github.com/aidanlsb/resqpack/internal/model"
	"github.com/aidanlsb/resqpack/internal/testutil"
)

func gridPackage(t *testing.T) (testutil.Grid, *epc.Package) {
	t.Helper()
	g, err := testutil.NewGrid()
	require.NoError(t, err)
	p := epc.FromGraph(g.Graph)
	require.NoError(t, p.SetPayloadPath(g.Proxy, "grid.h5"))
	return g, p
}

func TestIndexPackage(t *testing.T) {
	ctx := context.Background()
	db, err := OpenInMemory(ctx)
	require.NoError(t, err)
	defer db.Close()

	g, p := gridPackage(t)
	require.NoError(t, db.IndexPackage(ctx, p, nil))

	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Stats{Parts: 4, Relationships: 4, Refs: 3}, stats)

	t.Run("parts by type", func(t *testing.T) {
		parts, err := db.Parts(ctx, catalog.ContinuousProperty.Name(), catalog.LocalDepth3dCrs.Name())
		require.NoError(t, err)
		require.Len(t, parts, 2)
		var ids []string
		for _, part := range parts {
			ids = append(ids, part.UUID)
		}
		assert.ElementsMatch(t, []string{g.Property.ID(), g.Crs.ID()}, ids)

		all, err := db.Parts(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("part lookup", func(t *testing.T) {
		part, err := db.Part(ctx, g.Grid.ID())
		require.NoError(t, err)
		assert.Equal(t, g.Grid.BaseName(), part.Part)
		assert.Equal(t, "Test grid", part.Title)
		assert.Equal(t, g.Grid.ContentType(), part.ContentType)

		_, err = db.Part(ctx, "missing")
		assert.True(t, errors.Is(err, ErrPartNotFound))
	})

	t.Run("backlinks", func(t *testing.T) {
		refs, err := db.Backlinks(ctx, g.Grid.ID())
		require.NoError(t, err)
		require.Len(t, refs, 1)
		assert.Equal(t, g.Property.BaseName(), refs[0].SourcePart)
		assert.Equal(t, "ContinuousProperty/SupportingRepresentation", refs[0].FieldPath)
		assert.Equal(t, g.Grid.BaseName(), refs[0].TargetPart)

		refs, err = db.Backlinks(ctx, g.Proxy.ID())
		require.NoError(t, err)
		require.Len(t, refs, 1)
		assert.Equal(t, "Hdf5Dataset/HdfProxy", refs[0].FieldPath)
	})

	t.Run("reindex replaces rows", func(t *testing.T) {
		require.NoError(t, db.IndexPackage(ctx, p, nil))
		stats, err := db.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.Parts)
		assert.Equal(t, 3, stats.Refs)
	})
}

func TestIndexDanglingAndIssues(t *testing.T) {
	ctx := context.Background()
	db, err := OpenInMemory(ctx)
	require.NoError(t, err)
	defer db.Close()

	a := model.New(testutil.A).
		Set("uuid", model.Text(catalog.UuidString, testutil.IDA)).
		Set("Partner", &model.Reference{UUID: testutil.IDB, Title: "gone"})
	issues := check.Issues{
		check.Errorf(check.KindDanglingReference, "A/Partner", "Partner: no object with identifier %s", testutil.IDB),
		check.Warnf(check.KindUnexpectedNode, "A/Extra", "unexpected element Extra"),
	}.InPart(a.BaseName())

	require.NoError(t, db.IndexPackage(ctx, epc.New(a), issues))

	dangling, err := db.Dangling(ctx)
	require.NoError(t, err)
	require.Len(t, dangling, 1)
	assert.Equal(t, testutil.IDB, dangling[0].TargetUUID)
	assert.Empty(t, dangling[0].TargetPart)
	assert.Equal(t, "gone", dangling[0].Title)

	stored, err := db.Issues(ctx)
	require.NoError(t, err)
	assert.Equal(t, issues, stored)

	warnings, err := db.Issues(ctx, check.KindUnexpectedNode)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, check.LevelWarning, warnings[0].Level)
}

func TestRebuild(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "grid.epc.index.db")
	_, p := gridPackage(t)

	db, stats, err := Rebuild(ctx, path, p, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Parts)
	require.NoError(t, db.Close())

	db, stats, err = Rebuild(ctx, path, epc.New(testutil.NewABC(1).B), nil)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, 1, stats.Parts)
}

func TestRebuildLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.index.db")
	lock, err := acquireIndexLock(path)
	require.NoError(t, err)
	defer lock.Release()

	_, p := gridPackage(t)
	_, _, err = Rebuild(context.Background(), path, p, nil)
	assert.True(t, errors.Is(err, ErrIndexLocked))
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "model.epc.index.db"), DefaultPath(filepath.Join("data", "model.epc")))
	assert.Equal(t, filepath.Join("data", "model.index.db"), DefaultPath(filepath.Join("data", "model")+string(filepath.Separator)))
}

func TestInClause(t *testing.T) {
	ph, args := inClause([]string{"a", "b", "c"})
	assert.Equal(t, "?, ?, ?", ph)
	assert.Equal(t, []any{"a", "b", "c"}, args)

	ph, args = inClause(nil)
	assert.Equal(t, "NULL", ph)
	assert.Nil(t, args)
}
