// internal/catalog/media_ops.go
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/commercekit/catalog-backend/internal/files"
	"github.com/commercekit/catalog-backend/internal/models"
	"github.com/commercekit/catalog-backend/internal/utils"
)

const mediaDirectory = "product-media"

type AddMediaRequest struct {
	ProductID uuid.UUID              `json:"product_id" validate:"required"`
	MediaURL  string                 `json:"media_url" validate:"required,url"`
	FileName  string                 `json:"file_name,omitempty"`
	Tags      []string               `json:"tags,omitempty"`
	Meta      map[string]interface{} `json:"meta,omitempty"`
}

type GetMediaRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Tags      []string  `json:"tags,omitempty"`
	Limit     int       `json:"limit,omitempty" validate:"omitempty,min=1,max=200"`
	Offset    int       `json:"offset,omitempty" validate:"omitempty,min=0"`
}

// AddMedia runs the three-step upload choreography: issue a signed
// upload URL, stream the source URL's bytes to it, then link the file
// and attach it as media. The choreography is not transactional; a
// failure after the signed URL is issued leaves a pending upload that
// the file service expires on its own.
func (p *Processor) AddMedia(ctx context.Context, req AddMediaRequest) (*models.Media, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	product, err := p.loadProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = fileNameFromURL(req.MediaURL)
	}

	signed, err := p.files.CreateSignedURL(ctx, files.CreateSignedURLInput{
		DirectoryName: mediaDirectory,
		FileName:      fileName,
		Meta:          req.Meta,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create signed upload URL: %w", err)
	}

	size, contentType, err := p.uploadFromURL(ctx, req.MediaURL, signed.PutURL)
	if err != nil {
		return nil, err
	}

	file, err := p.files.LinkFile(ctx, files.LinkFileInput{
		FileID: signed.FileID,
		Size:   size,
		Type:   contentType,
	})
	if err != nil {
		if errors.Is(err, files.ErrFileExpired) {
			return nil, &ExpiredUploadError{FileID: signed.FileID.String()}
		}
		return nil, fmt.Errorf("failed to link uploaded file %s: %w", signed.FileID, err)
	}

	existing, err := p.store.ListMedia(ctx, product.ID, nil, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list media of product %s: %w", product.ID, err)
	}

	media := &models.Media{
		ProductID: product.ID,
		FileID:    file.ID,
		SortKey:   len(existing),
		Tags:      req.Tags,
	}
	if err := p.store.CreateMedia(ctx, media); err != nil {
		return nil, fmt.Errorf("failed to attach media to product %s: %w", product.ID, err)
	}
	media.File = file

	p.log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"media_id":   media.ID,
		"file_id":    file.ID,
		"size":       size,
	}).Info("media added")

	return media, nil
}

// RemoveMedia deletes the media record and the underlying file.
func (p *Processor) RemoveMedia(ctx context.Context, mediaID uuid.UUID) error {
	media, err := p.loadMedia(ctx, mediaID)
	if err != nil {
		return err
	}

	if err := p.store.DeleteMedia(ctx, mediaID); err != nil {
		return fmt.Errorf("failed to remove media %s: %w", mediaID, err)
	}
	if err := p.files.Delete(ctx, media.FileID); err != nil {
		return fmt.Errorf("failed to delete file %s of media %s: %w", media.FileID, mediaID, err)
	}
	return nil
}

// ReorderMedia applies the whole sort-key batch atomically; the store
// rejects the batch as a unit if any entry is unknown.
func (p *Processor) ReorderMedia(ctx context.Context, updates []SortKeyUpdate) ([]models.Media, error) {
	if len(updates) == 0 {
		return nil, &ValidationError{Reason: "reorder batch is empty"}
	}
	for _, update := range updates {
		if err := utils.ValidateStruct(update); err != nil {
			return nil, &ValidationError{Reason: err.Error()}
		}
	}

	reordered, err := p.store.UpdateManualOrder(ctx, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to reorder media: %w", err)
	}
	return reordered, nil
}

func (p *Processor) GetMedia(ctx context.Context, req GetMediaRequest) ([]models.Media, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if _, err := p.loadProductByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}
	return p.store.ListMedia(ctx, req.ProductID, req.Tags, limit, req.Offset)
}

func (p *Processor) UpdateMediaTexts(ctx context.Context, mediaID uuid.UUID, texts []TextInput) ([]models.MediaText, error) {
	for _, text := range texts {
		if err := utils.ValidateStruct(text); err != nil {
			return nil, &ValidationError{Reason: err.Error()}
		}
	}
	if _, err := p.loadMedia(ctx, mediaID); err != nil {
		return nil, err
	}

	updated, err := p.store.UpsertMediaTexts(ctx, mediaID, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to update texts on media %s: %w", mediaID, err)
	}
	return updated, nil
}

func (p *Processor) GetMediaTexts(ctx context.Context, mediaID uuid.UUID) ([]models.MediaText, error) {
	if _, err := p.loadMedia(ctx, mediaID); err != nil {
		return nil, err
	}
	return p.store.GetMediaTexts(ctx, mediaID)
}

// uploadFromURL streams the source URL's bytes to the signed PUT URL
// and returns the uploaded size and content type. Signed PUT URLs need
// a declared length, so a source that does not announce one is buffered
// first.
func (p *Processor) uploadFromURL(ctx context.Context, sourceURL, putURL string) (int64, string, error) {
	getReq, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return 0, "", &UploadFailedError{URL: sourceURL, Reason: err.Error()}
	}
	resp, err := p.httpClient.Do(getReq)
	if err != nil {
		return 0, "", &UploadFailedError{URL: sourceURL, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, "", &UploadFailedError{URL: sourceURL, StatusCode: resp.StatusCode, Reason: resp.Status}
	}
	contentType := resp.Header.Get("Content-Type")

	var body io.Reader = resp.Body
	size := resp.ContentLength
	if size < 0 {
		buffered, err := io.ReadAll(resp.Body)
		if err != nil {
			return 0, "", &UploadFailedError{URL: sourceURL, Reason: err.Error()}
		}
		body = bytes.NewReader(buffered)
		size = int64(len(buffered))
	}

	putReq, err := http.NewRequestWithContext(ctx, http.MethodPut, putURL, body)
	if err != nil {
		return 0, "", &UploadFailedError{URL: putURL, Reason: err.Error()}
	}
	putReq.ContentLength = size
	if contentType != "" {
		putReq.Header.Set("Content-Type", contentType)
	}

	putResp, err := p.httpClient.Do(putReq)
	if err != nil {
		return 0, "", &UploadFailedError{URL: putURL, Reason: err.Error()}
	}
	defer putResp.Body.Close()

	if putResp.StatusCode < 200 || putResp.StatusCode > 299 {
		return 0, "", &UploadFailedError{URL: putURL, StatusCode: putResp.StatusCode, Reason: putResp.Status}
	}

	return size, contentType, nil
}

func (p *Processor) loadMedia(ctx context.Context, mediaID uuid.UUID) (*models.Media, error) {
	media, err := p.store.FindMedia(ctx, mediaID)
	if err != nil {
		return nil, fmt.Errorf("media lookup failed: %w", err)
	}
	if media == nil {
		return nil, &MediaNotFoundError{MediaID: mediaID.String()}
	}
	return media, nil
}

func fileNameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || path.Base(parsed.Path) == "/" || path.Base(parsed.Path) == "." {
		return "upload"
	}
	return path.Base(parsed.Path)
}
