// internal/handlers/catalog.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/commercekit/catalog-backend/internal/catalog"
	"github.com/commercekit/catalog-backend/internal/config"
	"github.com/commercekit/catalog-backend/internal/utils"
)

// CatalogHandler exposes the command processor over HTTP: one generic
// dispatch endpoint plus a few REST-style conveniences.
type CatalogHandler struct {
	processor *catalog.Processor
	cfg       *config.Config
}

func NewCatalogHandler(processor *catalog.Processor, cfg *config.Config) *CatalogHandler {
	return &CatalogHandler{processor: processor, cfg: cfg}
}

// POST /catalog/ops/:operation
func (h *CatalogHandler) DispatchOperation(c *gin.Context) {
	op := catalog.Operation(strings.ToUpper(c.Param("operation")))

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequestResponse(c, "failed to read request body", nil)
		return
	}

	result, err := h.processor.Dispatch(c.Request.Context(), h.callContext(c), op, json.RawMessage(payload))
	if err != nil {
		h.writeError(c, err)
		return
	}
	utils.SuccessResponse(c, result)
}

// GET /catalog/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	includeDrafts, _ := strconv.ParseBool(c.DefaultQuery("include_drafts", "false"))

	req := catalog.ListProductsRequest{
		Limit:         limit,
		Offset:        offset,
		QueryString:   c.Query("query"),
		IncludeDrafts: includeDrafts,
	}
	if tags := c.Query("tags"); tags != "" {
		req.Tags = strings.Split(tags, ",")
	}
	if slugs := c.Query("slugs"); slugs != "" {
		req.Slugs = strings.Split(slugs, ",")
	}

	products, err := h.processor.ListProducts(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	utils.SuccessResponse(c, products)
}

// GET /catalog/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	query := catalog.ProductQuery{}
	if id, err := uuid.Parse(c.Param("id")); err == nil {
		query.ProductID = &id
	} else {
		query.Slug = c.Param("id")
	}

	product, err := h.processor.GetProduct(c.Request.Context(), query)
	if err != nil {
		h.writeError(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}

func (h *CatalogHandler) callContext(c *gin.Context) catalog.CallContext {
	call := catalog.CallContext{
		Locale:       c.GetHeader("Accept-Language"),
		CountryCode:  strings.ToUpper(c.DefaultQuery("country", h.cfg.Pricing.DefaultCountry)),
		CurrencyCode: strings.ToUpper(c.DefaultQuery("currency", h.cfg.Pricing.DefaultCurrency)),
	}
	if username := c.GetString("username"); username != "" {
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(username))
		call.UserID = &id
	}
	return call
}

// writeError maps the processor's error taxonomy to HTTP statuses so a
// caller can act on the structured payload.
func (h *CatalogHandler) writeError(c *gin.Context, err error) {
	var (
		productNotFound   *catalog.ProductNotFoundError
		variationNotFound *catalog.VariationNotFoundError
		mediaNotFound     *catalog.MediaNotFoundError
		wrongType         *catalog.WrongTypeError
		wrongStatus       *catalog.WrongStatusError
		validation        *catalog.ValidationError
		conflict          *catalog.ConflictError
		uploadFailed      *catalog.UploadFailedError
		expiredUpload     *catalog.ExpiredUploadError
	)

	switch {
	case errors.As(err, &productNotFound),
		errors.As(err, &variationNotFound),
		errors.As(err, &mediaNotFound):
		utils.NotFoundResponse(c, err.Error())
	case errors.As(err, &wrongType):
		utils.ErrorResponse(c, 422, "WRONG_TYPE", err.Error(), gin.H{
			"product_id": wrongType.ProductID,
			"received":   wrongType.Received,
			"required":   wrongType.Required,
		})
	case errors.As(err, &wrongStatus):
		utils.ErrorResponse(c, 422, "WRONG_STATUS", err.Error(), gin.H{
			"product_id": wrongStatus.ProductID,
			"status":     wrongStatus.Status,
		})
	case errors.As(err, &validation):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.As(err, &conflict):
		utils.ConflictResponse(c, err.Error())
	case errors.As(err, &uploadFailed):
		utils.ErrorResponse(c, 502, "UPLOAD_FAILED", err.Error(), gin.H{
			"status_code": uploadFailed.StatusCode,
			"reason":      uploadFailed.Reason,
		})
	case errors.As(err, &expiredUpload):
		utils.ErrorResponse(c, 410, "UPLOAD_EXPIRED", err.Error(), nil)
	case errors.Is(err, catalog.ErrUnknownOperation):
		utils.NotFoundResponse(c, err.Error())
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
