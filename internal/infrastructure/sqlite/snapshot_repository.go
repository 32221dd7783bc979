package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hanzoai/design-registry/internal/domain/registry"
	"github.com/hanzoai/design-registry/internal/log"
)

// ErrSnapshotNotFound is returned when no snapshot matches a lookup.
var ErrSnapshotNotFound = errors.New("snapshot not found")

const snapshotColumns = `id, index_id, built_at, created_at, style_count, item_count, collision_count`

// SnapshotRepository persists index builds and reads them back per style.
type SnapshotRepository struct {
	db *sql.DB
}

func newSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func scanSnapshot(scanner interface{ Scan(...any) error }) (*SnapshotModel, error) {
	var m SnapshotModel
	err := scanner.Scan(&m.ID, &m.IndexID, &m.BuiltAt, &m.CreatedAt, &m.StyleCount, &m.ItemCount, &m.CollisionCount)
	return &m, err
}

// Save writes every style bucket of idx in one transaction. Saving an index
// that is already stored returns the existing snapshot.
func (r *SnapshotRepository) Save(ctx context.Context, idx *registry.Index) (*Snapshot, error) {
	if existing, err := r.Find(ctx, idx.ID()); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrSnapshotNotFound) {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	model := &SnapshotModel{
		IndexID:        idx.ID(),
		BuiltAt:        idx.BuiltAt().Unix(),
		CreatedAt:      time.Now().Unix(),
		StyleCount:     len(idx.Styles()),
		CollisionCount: len(idx.Collisions()),
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (index_id, built_at, created_at, style_count, item_count, collision_count)
		 VALUES (?, ?, ?, ?, 0, ?)`,
		model.IndexID, model.BuiltAt, model.CreatedAt, model.StyleCount, model.CollisionCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}
	if model.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO snapshot_items (snapshot_id, style, name, type, source, position, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, style := range idx.Styles() {
		for pos, it := range idx.Items(style) {
			source, _ := idx.Source(it.Name, style)
			im, err := toItemModel(model.ID, style, source, pos, it)
			if err != nil {
				return nil, fmt.Errorf("failed to encode %s in %s: %w", it.Name, style, err)
			}
			if _, err := stmt.ExecContext(ctx, im.SnapshotID, im.Style, im.Name, im.Type, im.Source, im.Position, im.Data); err != nil {
				return nil, fmt.Errorf("failed to insert %s in %s: %w", it.Name, style, err)
			}
			model.ItemCount++
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE snapshots SET item_count = ? WHERE id = ?`, model.ItemCount, model.ID); err != nil {
		return nil, fmt.Errorf("failed to update snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	log.Info(log.CatDB, "Saved snapshot", "index", model.IndexID, "styles", model.StyleCount, "items", model.ItemCount)
	return model.toSnapshot(), nil
}

// Find returns the snapshot of the index with the given id.
func (r *SnapshotRepository) Find(ctx context.Context, indexID string) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots WHERE index_id = ?`, indexID)
	m, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, indexID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find snapshot: %w", err)
	}
	return m.toSnapshot(), nil
}

// Latest returns the most recently saved snapshot.
func (r *SnapshotRepository) Latest(ctx context.Context) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots ORDER BY id DESC LIMIT 1`)
	m, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest snapshot: %w", err)
	}
	return m.toSnapshot(), nil
}

// List returns snapshots newest first. A limit of zero returns all of them.
func (r *SnapshotRepository) List(ctx context.Context, limit int) ([]*Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Snapshot
	for rows.Next() {
		m, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		out = append(out, m.toSnapshot())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot rows: %w", err)
	}
	return out, nil
}

// Items returns the items of style in a snapshot, in index order.
func (r *SnapshotRepository) Items(ctx context.Context, indexID, style string) ([]registry.Item, error) {
	snap, err := r.Find(ctx, indexID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT snapshot_id, style, name, type, source, position, data
		 FROM snapshot_items WHERE snapshot_id = ? AND style = ? ORDER BY position`,
		snap.ID, style)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []registry.Item{}
	for rows.Next() {
		var m ItemModel
		if err := rows.Scan(&m.SnapshotID, &m.Style, &m.Name, &m.Type, &m.Source, &m.Position, &m.Data); err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		it, err := m.toItem()
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s in %s: %w", m.Name, m.Style, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}
	return items, nil
}

// Item returns one item of a snapshot and the registry it came from.
func (r *SnapshotRepository) Item(ctx context.Context, indexID, style, name string) (registry.Item, string, error) {
	var m ItemModel
	err := r.db.QueryRowContext(ctx,
		`SELECT i.name, i.source, i.data
		 FROM snapshot_items i JOIN snapshots s ON s.id = i.snapshot_id
		 WHERE s.index_id = ? AND i.style = ? AND i.name = ?`,
		indexID, style, name,
	).Scan(&m.Name, &m.Source, &m.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return registry.Item{}, "", fmt.Errorf("%w: %s in %s", registry.ErrItemNotFound, name, style)
	}
	if err != nil {
		return registry.Item{}, "", fmt.Errorf("failed to find item: %w", err)
	}
	it, err := m.toItem()
	if err != nil {
		return registry.Item{}, "", fmt.Errorf("failed to decode %s in %s: %w", name, style, err)
	}
	return it, m.Source, nil
}

// Prune deletes all but the newest keep snapshots and returns how many
// were removed.
func (r *SnapshotRepository) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)`,
		keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		log.Info(log.CatDB, "Pruned snapshots", "removed", n, "kept", keep)
	}
	return n, nil
}
