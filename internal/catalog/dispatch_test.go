// internal/catalog/dispatch_test.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/catalog-backend/internal/models"
)

// Every listed operation must be handled by the dispatch switch; an
// unhandled one would fall through to ErrUnknownOperation.
func TestDispatchCoversAllOperations(t *testing.T) {
	processor, _, _ := newTestProcessor()
	ctx := context.Background()

	for _, op := range AllOperations {
		_, err := processor.Dispatch(ctx, CallContext{}, op, nil)
		assert.False(t, errors.Is(err, ErrUnknownOperation), "operation %s is not dispatched", op)
	}
}

func TestDispatchUnknownOperation(t *testing.T) {
	processor, _, _ := newTestProcessor()

	_, err := processor.Dispatch(context.Background(), CallContext{}, Operation("FROBNICATE"), nil)

	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestDispatchInvalidPayload(t *testing.T) {
	processor, _, _ := newTestProcessor()

	_, err := processor.Dispatch(context.Background(), CallContext{}, OpCreate, json.RawMessage(`{`))

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestDispatchCreateAndGet(t *testing.T) {
	processor, _, _ := newTestProcessor()
	ctx := context.Background()

	created, err := processor.Dispatch(ctx, CallContext{}, OpCreate, json.RawMessage(`{
		"type": "SIMPLE_PRODUCT",
		"tags": ["apparel"],
		"texts": [{"locale": "en", "slug": "plain-shirt", "title": "Plain Shirt"}]
	}`))
	require.NoError(t, err)
	product, ok := created.(*models.Product)
	require.True(t, ok)
	assert.Equal(t, models.ProductStatusDraft, product.Status)

	fetched, err := processor.Dispatch(ctx, CallContext{}, OpGet,
		json.RawMessage(fmt.Sprintf(`{"product_id": %q}`, product.ID)))
	require.NoError(t, err)
	assert.Equal(t, product.ID, fetched.(*models.Product).ID)

	bySlug, err := processor.Dispatch(ctx, CallContext{}, OpGet, json.RawMessage(`{"slug": "plain-shirt"}`))
	require.NoError(t, err)
	assert.Equal(t, product.ID, bySlug.(*models.Product).ID)
}

func TestDispatchRemoveRequiresProductID(t *testing.T) {
	processor, _, _ := newTestProcessor()

	_, err := processor.Dispatch(context.Background(), CallContext{}, OpRemove, json.RawMessage(`{}`))

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestDispatchUpdateStatus(t *testing.T) {
	processor, store, _ := newTestProcessor()
	ctx := context.Background()

	product := &models.Product{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Type:      models.ProductTypeSimple,
		Status:    models.ProductStatusDraft,
		Commerce:  models.PriceTiers{{Amount: 1000, CurrencyCode: "CHF"}},
	}
	require.NoError(t, store.CreateProduct(ctx, product))
	_, err := store.UpsertProductTexts(ctx, product.ID, []TextInput{{Locale: "en", Title: "Shirt"}})
	require.NoError(t, err)

	result, err := processor.Dispatch(ctx, CallContext{}, OpUpdateStatus,
		json.RawMessage(fmt.Sprintf(`{"product_id": %q, "action": "PUBLISH"}`, product.ID)))
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusActive, result.(*models.Product).Status)
}

func TestDispatchCount(t *testing.T) {
	processor, store, _ := newTestProcessor()
	ctx := context.Background()

	require.NoError(t, store.CreateProduct(ctx, &models.Product{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Type:      models.ProductTypeSimple,
		Status:    models.ProductStatusActive,
	}))

	count, err := processor.Dispatch(ctx, CallContext{}, OpCount, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.(int64))
}
