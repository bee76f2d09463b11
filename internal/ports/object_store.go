package ports

import (
	"context"

	"github.com/google/uuid"
)

// ObjectStore is the binary blob store keyed by an opaque UUID.
// Objects are immutable once written.
type ObjectStore interface {
	Store(ctx context.Context, data []byte, filename, contentType string) (uuid.UUID, error)
	Fetch(ctx context.Context, id uuid.UUID) (data []byte, contentType string, err error)
}
