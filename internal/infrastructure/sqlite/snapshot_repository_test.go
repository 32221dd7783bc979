package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/hanzoai/design-registry/internal/domain/registry"
)

var testStyles = []string{"vega", "hanzo"}

func testIndex(t *testing.T) *registry.Index {
	t.Helper()
	idx, err := registry.NewIndexBuilder(testStyles).
		AddProvider(registry.Registry{Name: "radix", Base: "radix", Items: []registry.Item{
			{Name: "utils", Type: registry.TypeLib},
			{Name: "button", Type: registry.TypeUI, Dependencies: []string{"radix-ui"}, RegistryDependencies: []string{"utils"}},
		}}).
		AddProvider(registry.Registry{Name: "base", Base: "base", Items: []registry.Item{
			{Name: "utils", Type: registry.TypeLib},
			{Name: "button", Type: registry.TypeUI, Dependencies: []string{"@base-ui-components/react"}},
		}}).
		AddExtension(registry.Registry{Name: "ai", Items: []registry.Item{
			{Name: "ai-chat", Type: registry.TypeAI, RegistryDependencies: []string{"button"}},
		}}).
		Build()
	require.NoError(t, err)
	return idx
}

// setupTestRepo opens a fresh database that is closed when the test ends.
func setupTestRepo(t *testing.T) *SnapshotRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db.SnapshotRepository()
}

func TestSnapshotRepository_Save(t *testing.T) {
	repo := setupTestRepo(t)
	idx := testIndex(t)

	snap, err := repo.Save(t.Context(), idx)
	require.NoError(t, err)
	require.Positive(t, snap.ID)
	require.Equal(t, idx.ID(), snap.IndexID)
	require.Equal(t, 4, snap.Styles)
	require.Equal(t, 12, snap.Items, "3 items in each of 4 styles")
	require.Zero(t, snap.Collisions)
	require.WithinDuration(t, idx.BuiltAt(), snap.BuiltAt, time.Second)

	found, err := repo.Find(t.Context(), idx.ID())
	require.NoError(t, err)
	require.Equal(t, snap, found)
}

func TestSnapshotRepository_SaveIsIdempotent(t *testing.T) {
	repo := setupTestRepo(t)
	idx := testIndex(t)

	first, err := repo.Save(t.Context(), idx)
	require.NoError(t, err)
	second, err := repo.Save(t.Context(), idx)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	all, err := repo.List(t.Context(), 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestSnapshotRepository_Items(t *testing.T) {
	repo := setupTestRepo(t)
	idx := testIndex(t)
	_, err := repo.Save(t.Context(), idx)
	require.NoError(t, err)

	for _, style := range idx.Styles() {
		items, err := repo.Items(t.Context(), idx.ID(), style)
		require.NoError(t, err)
		require.Equal(t, idx.Items(style), items, style)
	}

	items, err := repo.Items(t.Context(), idx.ID(), "ark-vega")
	require.NoError(t, err)
	require.Empty(t, items)

	_, err = repo.Items(t.Context(), "missing", "radix-vega")
	require.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestSnapshotRepository_Item(t *testing.T) {
	repo := setupTestRepo(t)
	idx := testIndex(t)
	_, err := repo.Save(t.Context(), idx)
	require.NoError(t, err)

	it, source, err := repo.Item(t.Context(), idx.ID(), "base-hanzo", "button")
	require.NoError(t, err)
	require.Equal(t, "base", source)
	require.Equal(t, []string{"@base-ui-components/react"}, it.Dependencies)

	_, source, err = repo.Item(t.Context(), idx.ID(), "radix-vega", "ai-chat")
	require.NoError(t, err)
	require.Equal(t, "ai", source)

	_, _, err = repo.Item(t.Context(), idx.ID(), "radix-vega", "nope")
	require.ErrorIs(t, err, registry.ErrItemNotFound)
}

func TestSnapshotRepository_LatestListPrune(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Latest(t.Context())
	require.ErrorIs(t, err, ErrSnapshotNotFound)

	var ids []string
	for range 3 {
		idx := testIndex(t)
		_, err := repo.Save(t.Context(), idx)
		require.NoError(t, err)
		ids = append(ids, idx.ID())
	}

	latest, err := repo.Latest(t.Context())
	require.NoError(t, err)
	require.Equal(t, ids[2], latest.IndexID)

	two, err := repo.List(t.Context(), 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	require.Equal(t, ids[2], two[0].IndexID)
	require.Equal(t, ids[1], two[1].IndexID)

	removed, err := repo.Prune(t.Context(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(2), removed)

	_, err = repo.Find(t.Context(), ids[0])
	require.ErrorIs(t, err, ErrSnapshotNotFound)

	// Item rows go with their snapshot.
	var orphans int
	err = repo.db.QueryRow(
		`SELECT COUNT(*) FROM snapshot_items WHERE snapshot_id NOT IN (SELECT id FROM snapshots)`,
	).Scan(&orphans)
	require.NoError(t, err)
	require.Zero(t, orphans)
}

func TestSnapshotRepository_RoundTripProperty(t *testing.T) {
	repo := setupTestRepo(t)

	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z][a-z0-9]{0,6}`).Filter(func(s string) bool { return s != registry.ReservedItemName }), 1, 6, rapid.ID[string]).Draw(rt, "names")
		reg := registry.Registry{Name: "radix", Base: "radix"}
		for _, n := range names {
			reg.Items = append(reg.Items, registry.Item{
				Name:         n,
				Type:         rapid.SampledFrom([]registry.ItemType{registry.TypeUI, registry.TypeHook, registry.TypeBlock}).Draw(rt, "type"),
				Dependencies: rapid.SliceOfN(rapid.StringMatching(`[a-z]{2,8}`), 1, 3).Draw(rt, "deps"),
			})
		}
		idx, err := registry.NewIndexBuilder(testStyles).AddProvider(reg).Build()
		if err != nil {
			rt.Fatalf("build: %v", err)
		}

		if _, err := repo.Save(t.Context(), idx); err != nil {
			rt.Fatalf("save: %v", err)
		}
		got, err := repo.Items(t.Context(), idx.ID(), "radix-hanzo")
		if err != nil {
			rt.Fatalf("items: %v", err)
		}
		require.Equal(rt, idx.Items("radix-hanzo"), got)
	})
}
