// internal/catalog/errors.go
package catalog

import (
	"errors"
	"fmt"

	"github.com/commercekit/catalog-backend/internal/models"
)

// Sentinel errors shared between the processor and store implementations.
var (
	ErrAssignmentExists = errors.New("assignment already exists")
	ErrIndexOutOfRange  = errors.New("bundle item index out of range")
	ErrUnknownOperation = errors.New("unknown operation")
)

// ProductNotFoundError carries the lookup that found nothing.
type ProductNotFoundError struct {
	ProductID string
	Slug      string
	SKU       string
}

func (e *ProductNotFoundError) Error() string {
	switch {
	case e.ProductID != "":
		return fmt.Sprintf("product not found: id=%s", e.ProductID)
	case e.Slug != "":
		return fmt.Sprintf("product not found: slug=%s", e.Slug)
	case e.SKU != "":
		return fmt.Sprintf("product not found: sku=%s", e.SKU)
	}
	return "product not found"
}

type VariationNotFoundError struct {
	VariationID string
}

func (e *VariationNotFoundError) Error() string {
	return fmt.Sprintf("product variation not found: id=%s", e.VariationID)
}

type MediaNotFoundError struct {
	MediaID string
}

func (e *MediaNotFoundError) Error() string {
	return fmt.Sprintf("product media not found: id=%s", e.MediaID)
}

// WrongTypeError reports a type-gated operation applied to a product of
// another type.
type WrongTypeError struct {
	ProductID string
	Received  models.ProductType
	Required  models.ProductType
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("product %s has wrong type: received=%s required=%s",
		e.ProductID, e.Received, e.Required)
}

// WrongStatusError reports a refused status transition or a payload
// mutation attempted outside the status that allows it.
type WrongStatusError struct {
	ProductID string
	Status    models.ProductStatus
}

func (e *WrongStatusError) Error() string {
	return fmt.Sprintf("product %s has wrong status: %s", e.ProductID, e.Status)
}

// ValidationError is the generic invalid-input error: an assignment
// vector outside the variation matrix, an ambiguous lookup, a bad index.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// ConflictError reports a store-level uniqueness refusal.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

// UploadFailedError reports an HTTP failure while streaming bytes to a
// signed upload URL.
type UploadFailedError struct {
	URL        string
	StatusCode int
	Reason     string
}

func (e *UploadFailedError) Error() string {
	return fmt.Sprintf("upload to %s failed: status=%d reason=%s", e.URL, e.StatusCode, e.Reason)
}

// ExpiredUploadError reports a signed upload that expired before it
// could be linked.
type ExpiredUploadError struct {
	FileID string
}

func (e *ExpiredUploadError) Error() string {
	return fmt.Sprintf("upload %s expired before linking", e.FileID)
}
