package out

import (
	"context"

	"exlog/internal/modules/exercise/domain"
)

// KVStore holds the snapshot. Get returns apperrors.ErrNotFound for an
// absent key; Delete of an absent key is not an error.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type Renderer interface {
	RenderRecord(record *domain.Record)
	PlaceMarker(record *domain.Record)
	ClearForm()
	FocusOn(coords domain.Coordinates, zoom int)
	Reload()
}

type Notifier interface {
	Alert(message string)
}

type LocationProvider interface {
	CurrentPosition(ctx context.Context) (domain.Coordinates, error)
}

type JournalExporter interface {
	Export(ctx context.Context, dir string, records []*domain.Record) ([]string, error)
}
