// internal/models/media.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Media links an uploaded file to a product with manual ordering.
type Media struct {
	BaseModel
	ProductID uuid.UUID      `json:"product_id" gorm:"type:uuid;not null;index"`
	FileID    uuid.UUID      `json:"file_id" gorm:"type:uuid;not null;index"`
	SortKey   int            `json:"sort_key" gorm:"not null;default:0"`
	Tags      pq.StringArray `json:"tags" gorm:"type:text[]"`

	File  *File       `json:"file,omitempty" gorm:"foreignKey:FileID"`
	Texts []MediaText `json:"texts,omitempty" gorm:"foreignKey:MediaID"`
}

type MediaText struct {
	BaseModel
	MediaID  uuid.UUID `json:"media_id" gorm:"type:uuid;not null;uniqueIndex:idx_media_texts_locale"`
	Locale   string    `json:"locale" gorm:"size:10;not null;uniqueIndex:idx_media_texts_locale"`
	Title    string    `json:"title" gorm:"size:255"`
	Subtitle string    `json:"subtitle" gorm:"size:255"`
}

// File is the record behind a signed upload. ExpiresAt is set while the
// upload is pending and cleared when the file is linked.
type File struct {
	BaseModel
	Path      string     `json:"path" gorm:"size:512;not null"`
	Name      string     `json:"name" gorm:"size:255;not null"`
	Size      int64      `json:"size"`
	Type      string     `json:"type" gorm:"size:100"`
	Meta      JSONB      `json:"meta" gorm:"type:jsonb"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" gorm:"index"`
}
