// internal/files/service.go
package files

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/commercekit/catalog-backend/internal/models"
)

// ErrFileExpired is returned when a signed upload is touched after its
// expiry, before it was linked.
var ErrFileExpired = errors.New("signed upload has expired")

type CreateSignedURLInput struct {
	DirectoryName string
	FileName      string
	Meta          map[string]interface{}
}

// SignedURL is an issued upload slot: a pending file record plus the
// URL the caller must PUT the bytes to.
type SignedURL struct {
	FileID    uuid.UUID `json:"file_id"`
	PutURL    string    `json:"put_url"`
	Type      string    `json:"type"`
	Size      int64     `json:"size"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LinkFileInput struct {
	FileID uuid.UUID
	Size   int64
	Type   string
}

// Service is the file storage boundary: signed-URL issuance, lookup,
// linking after upload, deletion.
type Service interface {
	CreateSignedURL(ctx context.Context, input CreateSignedURLInput) (*SignedURL, error)
	FindFile(ctx context.Context, fileID uuid.UUID) (*models.File, error)
	LinkFile(ctx context.Context, input LinkFileInput) (*models.File, error)
	Delete(ctx context.Context, fileID uuid.UUID) error
}
