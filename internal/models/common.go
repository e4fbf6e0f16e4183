// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type ProductType string

const (
	ProductTypeSimple       ProductType = "SIMPLE_PRODUCT"
	ProductTypeConfigurable ProductType = "CONFIGURABLE_PRODUCT"
	ProductTypeBundle       ProductType = "BUNDLE_PRODUCT"
	ProductTypePlan         ProductType = "PLAN_PRODUCT"
	ProductTypeTokenized    ProductType = "TOKENIZED_PRODUCT"
)

type ProductStatus string

const (
	ProductStatusDraft  ProductStatus = "DRAFT"
	ProductStatusActive ProductStatus = "ACTIVE"
)

type VariationType string

const (
	VariationTypeSwitch       VariationType = "SWITCH"
	VariationTypeSingleChoice VariationType = "SINGLE_CHOICE"
	VariationTypeMultiChoice  VariationType = "MULTI_CHOICE"
)

type StatusAction string

const (
	StatusActionPublish   StatusAction = "PUBLISH"
	StatusActionUnpublish StatusAction = "UNPUBLISH"
)
