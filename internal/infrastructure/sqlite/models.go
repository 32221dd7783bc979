package sqlite

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/hanzoai/design-registry/internal/domain/registry"
)

// Snapshot describes one persisted index build.
type Snapshot struct {
	ID         int64
	IndexID    string
	BuiltAt    time.Time
	CreatedAt  time.Time
	Styles     int
	Items      int
	Collisions int
}

// SnapshotModel is the row of the snapshots table. Times are Unix seconds.
type SnapshotModel struct {
	ID             int64
	IndexID        string
	BuiltAt        int64
	CreatedAt      int64
	StyleCount     int
	ItemCount      int
	CollisionCount int
}

func (m *SnapshotModel) toSnapshot() *Snapshot {
	return &Snapshot{
		ID:         m.ID,
		IndexID:    m.IndexID,
		BuiltAt:    time.Unix(m.BuiltAt, 0),
		CreatedAt:  time.Unix(m.CreatedAt, 0),
		Styles:     m.StyleCount,
		Items:      m.ItemCount,
		Collisions: m.CollisionCount,
	}
}

// ItemModel is the row of the snapshot_items table. Data holds the item
// encoded as JSON.
type ItemModel struct {
	SnapshotID int64
	Style      string
	Name       string
	Type       string
	Source     string
	Position   int
	Data       string
}

func toItemModel(snapshotID int64, style, source string, position int, it registry.Item) (*ItemModel, error) {
	data, err := json.Marshal(it)
	if err != nil {
		return nil, err
	}
	return &ItemModel{
		SnapshotID: snapshotID,
		Style:      style,
		Name:       it.Name,
		Type:       string(it.Type),
		Source:     source,
		Position:   position,
		Data:       string(data),
	}, nil
}

func (m *ItemModel) toItem() (registry.Item, error) {
	var it registry.Item
	err := json.Unmarshal([]byte(m.Data), &it)
	return it, err
}
