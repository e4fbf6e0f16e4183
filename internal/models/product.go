// internal/models/product.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is the flat persisted record for every product type. Which
// payload columns are meaningful is decided by Type; the catalog
// processor gates every payload mutation on it.
type Product struct {
	BaseModel
	Type         ProductType    `json:"type" gorm:"type:varchar(30);not null;index"`
	Status       ProductStatus  `json:"status" gorm:"type:varchar(20);default:'DRAFT';index"`
	Sequence     int            `json:"sequence" gorm:"default:0;index"`
	Tags         pq.StringArray `json:"tags" gorm:"type:text[]"`
	Meta         JSONB          `json:"meta" gorm:"type:jsonb"`
	Warehousing  *Warehousing   `json:"warehousing,omitempty" gorm:"embedded;embeddedPrefix:warehousing_"`
	Supply       *Supply        `json:"supply,omitempty" gorm:"embedded;embeddedPrefix:supply_"`
	Plan         JSONB          `json:"plan,omitempty" gorm:"type:jsonb"`
	Tokenization JSONB          `json:"tokenization,omitempty" gorm:"type:jsonb"`
	Commerce     PriceTiers     `json:"commerce,omitempty" gorm:"type:jsonb"`
	PublishedAt  *time.Time     `json:"published_at,omitempty"`

	// Relationships
	Texts       []ProductText `json:"texts,omitempty" gorm:"foreignKey:ProductID"`
	Variations  []Variation   `json:"variations,omitempty" gorm:"foreignKey:ProductID"`
	Assignments []Assignment  `json:"assignments,omitempty" gorm:"foreignKey:ProductID"`
	BundleItems []BundleItem  `json:"bundle_items,omitempty" gorm:"foreignKey:ProductID"`
	Media       []Media       `json:"media,omitempty" gorm:"foreignKey:ProductID"`
}

type Warehousing struct {
	SKU      string `json:"sku" gorm:"size:100;index"`
	BaseUnit string `json:"base_unit" gorm:"size:50"`
}

type Supply struct {
	WeightInGram int `json:"weight_in_gram"`
	HeightInMM   int `json:"height_in_mm"`
	LengthInMM   int `json:"length_in_mm"`
	WidthInMM    int `json:"width_in_mm"`
}

// PriceTier is one commerce pricing entry scoped by currency and country.
type PriceTier struct {
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currency_code"`
	CountryCode  string `json:"country_code"`
	IsTaxable    bool   `json:"is_taxable"`
	IsNetPrice   bool   `json:"is_net_price"`
	MaxQuantity  int    `json:"max_quantity"`
}

// PriceTiers is stored as a jsonb column.
type PriceTiers []PriceTier

func (p PriceTiers) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *PriceTiers) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, p)
}

type ProductText struct {
	BaseModel
	ProductID   uuid.UUID      `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_texts_locale"`
	Locale      string         `json:"locale" gorm:"size:10;not null;uniqueIndex:idx_product_texts_locale"`
	Slug        string         `json:"slug" gorm:"size:255;index"`
	Title       string         `json:"title" gorm:"size:255"`
	Subtitle    string         `json:"subtitle" gorm:"size:255"`
	Description string         `json:"description" gorm:"type:text"`
	Vendor      string         `json:"vendor" gorm:"size:255"`
	Brand       string         `json:"brand" gorm:"size:255"`
	Labels      pq.StringArray `json:"labels" gorm:"type:text[]"`
}

type Review struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID `json:"author_id" gorm:"type:uuid;not null;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Title     string    `json:"title" gorm:"size:255"`
	Review    string    `json:"review" gorm:"type:text"`
}
