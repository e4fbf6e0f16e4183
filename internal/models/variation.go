// internal/models/variation.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Variation is owned by exactly one configurable product. Key is unique
// within the owning product; Options keeps insertion order.
type Variation struct {
	BaseModel
	ProductID uuid.UUID      `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_variations_product_key"`
	Key       string         `json:"key" gorm:"size:100;not null;uniqueIndex:idx_variations_product_key"`
	Type      VariationType  `json:"type" gorm:"type:varchar(20);not null"`
	Options   pq.StringArray `json:"options" gorm:"type:text[]"`

	Texts []VariationText `json:"texts,omitempty" gorm:"foreignKey:VariationID"`
}

// VariationText carries localized content either for the variation
// itself (OptionValue empty) or for one of its option values.
type VariationText struct {
	BaseModel
	VariationID uuid.UUID `json:"variation_id" gorm:"type:uuid;not null;uniqueIndex:idx_variation_texts_scope"`
	Locale      string    `json:"locale" gorm:"size:10;not null;uniqueIndex:idx_variation_texts_scope"`
	OptionValue string    `json:"option_value" gorm:"size:100;uniqueIndex:idx_variation_texts_scope"`
	Title       string    `json:"title" gorm:"size:255"`
	Subtitle    string    `json:"subtitle" gorm:"size:255"`
}

// Assignment binds one variation vector to one concrete product under a
// proxy. Vector is the normalized key→option mapping; its uniqueness per
// proxy is enforced by the store.
type Assignment struct {
	BaseModel
	ProductID         uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	AssignedProductID uuid.UUID `json:"assigned_product_id" gorm:"type:uuid;not null;index"`
	Vector            JSONB     `json:"vector" gorm:"type:jsonb;not null"`
}

// BundleItem is one (product, quantity) line in a bundle's ordered
// composition. Position is assigned by append order.
type BundleItem struct {
	BaseModel
	ProductID         uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	AssignedProductID uuid.UUID `json:"assigned_product_id" gorm:"type:uuid;not null"`
	Quantity          int       `json:"quantity" gorm:"not null;default:1"`
	Position          int       `json:"position" gorm:"not null"`
	Configuration     JSONB     `json:"configuration" gorm:"type:jsonb"`
}
