// internal/catalog/testsupport_test.go
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/commercekit/catalog-backend/internal/files"
	"github.com/commercekit/catalog-backend/internal/models"
	"github.com/commercekit/catalog-backend/internal/pricing"
)

// memStore is an in-memory Store for processor tests. It mirrors the
// observable contract of the SQL store: (nil, nil) on missing records,
// ErrAssignmentExists on duplicate vectors, ErrIndexOutOfRange on bad
// bundle indexes, dense bundle positions after removal.
type memStore struct {
	productOrder []uuid.UUID
	products     map[uuid.UUID]*models.Product
	productTexts map[uuid.UUID][]models.ProductText

	variationOrder []uuid.UUID
	variations     map[uuid.UUID]*models.Variation
	variationTexts map[uuid.UUID][]models.VariationText

	assignments map[uuid.UUID][]models.Assignment
	bundles     map[uuid.UUID][]models.BundleItem

	mediaOrder []uuid.UUID
	media      map[uuid.UUID]*models.Media
	mediaTexts map[uuid.UUID][]models.MediaText

	reviews map[uuid.UUID][]models.Review
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		products:       map[uuid.UUID]*models.Product{},
		productTexts:   map[uuid.UUID][]models.ProductText{},
		variations:     map[uuid.UUID]*models.Variation{},
		variationTexts: map[uuid.UUID][]models.VariationText{},
		assignments:    map[uuid.UUID][]models.Assignment{},
		bundles:        map[uuid.UUID][]models.BundleItem{},
		media:          map[uuid.UUID]*models.Media{},
		mediaTexts:     map[uuid.UUID][]models.MediaText{},
		reviews:        map[uuid.UUID][]models.Review{},
	}
}

func (s *memStore) FindProduct(_ context.Context, query ProductQuery) (*models.Product, error) {
	if query.ProductID != nil {
		if product, ok := s.products[*query.ProductID]; ok {
			return product, nil
		}
		return nil, nil
	}
	if query.Slug != "" {
		for productID, texts := range s.productTexts {
			for _, text := range texts {
				if text.Slug == query.Slug {
					return s.products[productID], nil
				}
			}
		}
		return nil, nil
	}
	if query.SKU != "" {
		for _, productID := range s.productOrder {
			product := s.products[productID]
			if product.Warehousing != nil && product.Warehousing.SKU == query.SKU {
				return product, nil
			}
		}
	}
	return nil, nil
}

func (s *memStore) FindProducts(_ context.Context, opts ListOptions) ([]models.Product, error) {
	matched := s.filterProducts(opts)
	if opts.Offset > len(matched) {
		return []models.Product{}, nil
	}
	matched = matched[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

func (s *memStore) CountProducts(_ context.Context, opts ListOptions) (int64, error) {
	return int64(len(s.filterProducts(opts))), nil
}

func (s *memStore) filterProducts(opts ListOptions) []models.Product {
	matched := []models.Product{}
	for _, productID := range s.productOrder {
		product := s.products[productID]
		if !opts.IncludeDrafts && product.Status != models.ProductStatusActive {
			continue
		}
		if len(opts.Tags) > 0 && !tagsOverlap(product.Tags, opts.Tags) {
			continue
		}
		if len(opts.Slugs) > 0 && !s.hasAnySlug(productID, opts.Slugs) {
			continue
		}
		if opts.QueryString != "" && !s.textsContain(productID, opts.QueryString) {
			continue
		}
		matched = append(matched, *product)
	}
	return matched
}

func (s *memStore) hasAnySlug(productID uuid.UUID, slugs []string) bool {
	for _, text := range s.productTexts[productID] {
		for _, slug := range slugs {
			if text.Slug == slug {
				return true
			}
		}
	}
	return false
}

func (s *memStore) textsContain(productID uuid.UUID, query string) bool {
	needle := strings.ToLower(query)
	for _, text := range s.productTexts[productID] {
		for _, field := range []string{text.Title, text.Subtitle, text.Description} {
			if strings.Contains(strings.ToLower(field), needle) {
				return true
			}
		}
	}
	return false
}

func (s *memStore) CreateProduct(_ context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = time.Now()
	s.products[product.ID] = product
	s.productOrder = append(s.productOrder, product.ID)
	return nil
}

func (s *memStore) UpdateProduct(_ context.Context, productID uuid.UUID, updates map[string]interface{}) (*models.Product, error) {
	product, ok := s.products[productID]
	if !ok {
		return nil, fmt.Errorf("product %s not found", productID)
	}
	for key, value := range updates {
		switch key {
		case "warehousing":
			w := value.(models.Warehousing)
			product.Warehousing = &w
		case "supply":
			v := value.(models.Supply)
			product.Supply = &v
		case "plan":
			product.Plan = value.(models.JSONB)
		case "tokenization":
			product.Tokenization = value.(models.JSONB)
		case "meta":
			product.Meta = value.(models.JSONB)
		case "tags":
			product.Tags = pq.StringArray(value.([]string))
		case "sequence":
			product.Sequence = value.(int)
		case "commerce":
			product.Commerce = value.(models.PriceTiers)
		}
	}
	product.UpdatedAt = time.Now()
	return product, nil
}

func (s *memStore) DeleteProduct(_ context.Context, productID uuid.UUID) error {
	delete(s.products, productID)
	delete(s.productTexts, productID)
	delete(s.assignments, productID)
	delete(s.bundles, productID)
	for i, id := range s.productOrder {
		if id == productID {
			s.productOrder = append(s.productOrder[:i], s.productOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memStore) Publish(_ context.Context, product *models.Product) (bool, error) {
	stored := s.products[product.ID]
	if stored.Status != models.ProductStatusDraft {
		return false, nil
	}
	titled := false
	for _, text := range s.productTexts[product.ID] {
		if text.Title != "" {
			titled = true
			break
		}
	}
	if !titled || len(stored.Commerce) == 0 {
		return false, nil
	}
	now := time.Now()
	stored.Status = models.ProductStatusActive
	stored.PublishedAt = &now
	return true, nil
}

func (s *memStore) Unpublish(_ context.Context, product *models.Product) (bool, error) {
	stored := s.products[product.ID]
	if stored.Status != models.ProductStatusActive {
		return false, nil
	}
	stored.Status = models.ProductStatusDraft
	stored.PublishedAt = nil
	return true, nil
}

func (s *memStore) UpsertProductTexts(_ context.Context, productID uuid.UUID, texts []TextInput) ([]models.ProductText, error) {
	for _, input := range texts {
		updated := false
		for i, existing := range s.productTexts[productID] {
			if existing.Locale == input.Locale {
				s.productTexts[productID][i] = applyProductText(existing, input)
				updated = true
				break
			}
		}
		if !updated {
			text := applyProductText(models.ProductText{
				BaseModel: models.BaseModel{ID: uuid.New()},
				ProductID: productID,
				Locale:    input.Locale,
			}, input)
			s.productTexts[productID] = append(s.productTexts[productID], text)
		}
	}
	return s.productTexts[productID], nil
}

func applyProductText(text models.ProductText, input TextInput) models.ProductText {
	if input.Slug != "" {
		text.Slug = input.Slug
	}
	if input.Title != "" {
		text.Title = input.Title
	}
	if input.Subtitle != "" {
		text.Subtitle = input.Subtitle
	}
	if input.Description != "" {
		text.Description = input.Description
	}
	if input.Vendor != "" {
		text.Vendor = input.Vendor
	}
	if input.Brand != "" {
		text.Brand = input.Brand
	}
	if len(input.Labels) > 0 {
		text.Labels = input.Labels
	}
	return text
}

func (s *memStore) GetProductTexts(_ context.Context, productID uuid.UUID) ([]models.ProductText, error) {
	return s.productTexts[productID], nil
}

func (s *memStore) FindVariation(_ context.Context, variationID uuid.UUID) (*models.Variation, error) {
	if variation, ok := s.variations[variationID]; ok {
		return variation, nil
	}
	return nil, nil
}

func (s *memStore) FindVariations(_ context.Context, productID uuid.UUID) ([]models.Variation, error) {
	variations := []models.Variation{}
	for _, variationID := range s.variationOrder {
		variation, ok := s.variations[variationID]
		if ok && variation.ProductID == productID {
			variations = append(variations, *variation)
		}
	}
	return variations, nil
}

func (s *memStore) CreateVariation(_ context.Context, variation *models.Variation) error {
	if variation.ID == uuid.Nil {
		variation.ID = uuid.New()
	}
	s.variations[variation.ID] = variation
	s.variationOrder = append(s.variationOrder, variation.ID)
	return nil
}

func (s *memStore) DeleteVariation(_ context.Context, variationID uuid.UUID) error {
	delete(s.variations, variationID)
	delete(s.variationTexts, variationID)
	for i, id := range s.variationOrder {
		if id == variationID {
			s.variationOrder = append(s.variationOrder[:i], s.variationOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memStore) AddVariationOption(_ context.Context, variationID uuid.UUID, value string) (*models.Variation, error) {
	variation := s.variations[variationID]
	for _, option := range variation.Options {
		if option == value {
			return variation, nil
		}
	}
	variation.Options = append(variation.Options, value)
	return variation, nil
}

func (s *memStore) RemoveVariationOption(_ context.Context, variationID uuid.UUID, value string) (*models.Variation, error) {
	variation := s.variations[variationID]
	options := pq.StringArray{}
	for _, option := range variation.Options {
		if option != value {
			options = append(options, option)
		}
	}
	variation.Options = options
	return variation, nil
}

func (s *memStore) UpsertVariationTexts(_ context.Context, variationID uuid.UUID, optionValue string, texts []TextInput) ([]models.VariationText, error) {
	for _, input := range texts {
		updated := false
		for i, existing := range s.variationTexts[variationID] {
			if existing.Locale == input.Locale && existing.OptionValue == optionValue {
				s.variationTexts[variationID][i].Title = input.Title
				s.variationTexts[variationID][i].Subtitle = input.Subtitle
				updated = true
				break
			}
		}
		if !updated {
			s.variationTexts[variationID] = append(s.variationTexts[variationID], models.VariationText{
				BaseModel:   models.BaseModel{ID: uuid.New()},
				VariationID: variationID,
				Locale:      input.Locale,
				OptionValue: optionValue,
				Title:       input.Title,
				Subtitle:    input.Subtitle,
			})
		}
	}
	return s.scopedVariationTexts(variationID, optionValue), nil
}

func (s *memStore) GetVariationTexts(_ context.Context, variationID uuid.UUID, optionValue string) ([]models.VariationText, error) {
	return s.scopedVariationTexts(variationID, optionValue), nil
}

func (s *memStore) scopedVariationTexts(variationID uuid.UUID, optionValue string) []models.VariationText {
	scoped := []models.VariationText{}
	for _, text := range s.variationTexts[variationID] {
		if text.OptionValue == optionValue {
			scoped = append(scoped, text)
		}
	}
	return scoped
}

func (s *memStore) AddProxyAssignment(_ context.Context, proxyID, assignedProductID uuid.UUID, vector Vector) (*models.Assignment, error) {
	for _, existing := range s.assignments[proxyID] {
		if jsonbVectorEqual(existing.Vector, vector) {
			return nil, ErrAssignmentExists
		}
	}
	assignment := models.Assignment{
		BaseModel:         models.BaseModel{ID: uuid.New()},
		ProductID:         proxyID,
		AssignedProductID: assignedProductID,
		Vector:            vectorAsJSONB(vector),
	}
	s.assignments[proxyID] = append(s.assignments[proxyID], assignment)
	return &assignment, nil
}

func (s *memStore) RemoveAssignment(_ context.Context, proxyID uuid.UUID, vector Vector) error {
	remaining := []models.Assignment{}
	for _, assignment := range s.assignments[proxyID] {
		if !jsonbVectorEqual(assignment.Vector, vector) {
			remaining = append(remaining, assignment)
		}
	}
	s.assignments[proxyID] = remaining
	return nil
}

func (s *memStore) ProxyAssignments(_ context.Context, proxyID uuid.UUID) ([]models.Assignment, error) {
	return s.assignments[proxyID], nil
}

func (s *memStore) ProxyProducts(_ context.Context, proxyID uuid.UUID, vector Vector, includeInactive bool) ([]models.Product, error) {
	matched := []models.Product{}
	for _, assignment := range s.assignments[proxyID] {
		if !jsonbVectorMatches(assignment.Vector, vector) {
			continue
		}
		product, ok := s.products[assignment.AssignedProductID]
		if !ok {
			continue
		}
		if !includeInactive && product.Status != models.ProductStatusActive {
			continue
		}
		matched = append(matched, *product)
	}
	return matched, nil
}

func (s *memStore) ProxyIDsFor(_ context.Context, assignedProductID uuid.UUID) ([]uuid.UUID, error) {
	seen := map[uuid.UUID]bool{}
	proxyIDs := []uuid.UUID{}
	for proxyID, assignments := range s.assignments {
		for _, assignment := range assignments {
			if assignment.AssignedProductID == assignedProductID && !seen[proxyID] {
				seen[proxyID] = true
				proxyIDs = append(proxyIDs, proxyID)
			}
		}
	}
	return proxyIDs, nil
}

func (s *memStore) AddBundleItem(_ context.Context, item *models.BundleItem) (*models.BundleItem, error) {
	item.ID = uuid.New()
	item.Position = len(s.bundles[item.ProductID])
	s.bundles[item.ProductID] = append(s.bundles[item.ProductID], *item)
	return item, nil
}

func (s *memStore) RemoveBundleItem(_ context.Context, bundleID uuid.UUID, index int) error {
	items := s.bundles[bundleID]
	if index >= len(items) {
		return ErrIndexOutOfRange
	}
	items = append(items[:index], items[index+1:]...)
	for i := range items {
		items[i].Position = i
	}
	s.bundles[bundleID] = items
	return nil
}

func (s *memStore) GetBundleItems(_ context.Context, bundleID uuid.UUID) ([]models.BundleItem, error) {
	return s.bundles[bundleID], nil
}

func (s *memStore) CreateMedia(_ context.Context, media *models.Media) error {
	if media.ID == uuid.Nil {
		media.ID = uuid.New()
	}
	s.media[media.ID] = media
	s.mediaOrder = append(s.mediaOrder, media.ID)
	return nil
}

func (s *memStore) FindMedia(_ context.Context, mediaID uuid.UUID) (*models.Media, error) {
	if media, ok := s.media[mediaID]; ok {
		return media, nil
	}
	return nil, nil
}

func (s *memStore) ListMedia(_ context.Context, productID uuid.UUID, tags []string, limit, offset int) ([]models.Media, error) {
	matched := []models.Media{}
	for _, mediaID := range s.mediaOrder {
		media, ok := s.media[mediaID]
		if !ok || media.ProductID != productID {
			continue
		}
		if len(tags) > 0 && !tagsOverlap(media.Tags, tags) {
			continue
		}
		matched = append(matched, *media)
	}
	if offset > len(matched) {
		return []models.Media{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *memStore) DeleteMedia(_ context.Context, mediaID uuid.UUID) error {
	delete(s.media, mediaID)
	delete(s.mediaTexts, mediaID)
	for i, id := range s.mediaOrder {
		if id == mediaID {
			s.mediaOrder = append(s.mediaOrder[:i], s.mediaOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memStore) UpdateManualOrder(_ context.Context, updates []SortKeyUpdate) ([]models.Media, error) {
	for _, update := range updates {
		if _, ok := s.media[update.MediaID]; !ok {
			return nil, fmt.Errorf("media %s not found", update.MediaID)
		}
	}
	reordered := []models.Media{}
	for _, update := range updates {
		media := s.media[update.MediaID]
		media.SortKey = update.SortKey
		reordered = append(reordered, *media)
	}
	return reordered, nil
}

func (s *memStore) UpsertMediaTexts(_ context.Context, mediaID uuid.UUID, texts []TextInput) ([]models.MediaText, error) {
	for _, input := range texts {
		updated := false
		for i, existing := range s.mediaTexts[mediaID] {
			if existing.Locale == input.Locale {
				s.mediaTexts[mediaID][i].Title = input.Title
				s.mediaTexts[mediaID][i].Subtitle = input.Subtitle
				updated = true
				break
			}
		}
		if !updated {
			s.mediaTexts[mediaID] = append(s.mediaTexts[mediaID], models.MediaText{
				BaseModel: models.BaseModel{ID: uuid.New()},
				MediaID:   mediaID,
				Locale:    input.Locale,
				Title:     input.Title,
				Subtitle:  input.Subtitle,
			})
		}
	}
	return s.mediaTexts[mediaID], nil
}

func (s *memStore) GetMediaTexts(_ context.Context, mediaID uuid.UUID) ([]models.MediaText, error) {
	return s.mediaTexts[mediaID], nil
}

func (s *memStore) ListReviews(_ context.Context, productID uuid.UUID, opts ReviewListOptions) ([]models.Review, error) {
	reviews := s.reviews[productID]
	if opts.Offset > len(reviews) {
		return []models.Review{}, nil
	}
	reviews = reviews[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(reviews) {
		reviews = reviews[:opts.Limit]
	}
	return reviews, nil
}

func (s *memStore) CountReviews(_ context.Context, productID uuid.UUID, _ ReviewListOptions) (int64, error) {
	return int64(len(s.reviews[productID])), nil
}

func tagsOverlap(have pq.StringArray, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func vectorAsJSONB(vector Vector) models.JSONB {
	out := models.JSONB{}
	for key, value := range vector {
		out[key] = value
	}
	return out
}

func jsonbVectorEqual(stored models.JSONB, vector Vector) bool {
	if len(stored) != len(vector) {
		return false
	}
	return jsonbVectorMatches(stored, vector)
}

// jsonbVectorMatches reports whether every entry of the partial vector
// is present in the stored one; an empty vector matches everything.
func jsonbVectorMatches(stored models.JSONB, vector Vector) bool {
	for key, value := range vector {
		storedValue, ok := stored[key]
		if !ok || storedValue != value {
			return false
		}
	}
	return true
}

// memFiles is an in-memory file service. PutURL is handed out verbatim
// so tests can point uploads at an httptest server.
type memFiles struct {
	putURL  string
	expired bool
	files   map[uuid.UUID]*models.File
	linked  []files.LinkFileInput
	deleted []uuid.UUID
	issued  int
}

var _ files.Service = (*memFiles)(nil)

func newMemFiles() *memFiles {
	return &memFiles{files: map[uuid.UUID]*models.File{}}
}

func (f *memFiles) CreateSignedURL(_ context.Context, input files.CreateSignedURLInput) (*files.SignedURL, error) {
	fileID := uuid.New()
	expiresAt := time.Now().Add(time.Hour)
	f.files[fileID] = &models.File{
		BaseModel: models.BaseModel{ID: fileID},
		Path:      input.DirectoryName + "/" + input.FileName,
		Name:      input.FileName,
		Meta:      models.JSONB(input.Meta),
		ExpiresAt: &expiresAt,
	}
	f.issued++
	return &files.SignedURL{FileID: fileID, PutURL: f.putURL, ExpiresAt: expiresAt}, nil
}

func (f *memFiles) FindFile(_ context.Context, fileID uuid.UUID) (*models.File, error) {
	return f.files[fileID], nil
}

func (f *memFiles) LinkFile(_ context.Context, input files.LinkFileInput) (*models.File, error) {
	if f.expired {
		return nil, files.ErrFileExpired
	}
	file, ok := f.files[input.FileID]
	if !ok {
		return nil, fmt.Errorf("file %s not found", input.FileID)
	}
	file.Size = input.Size
	file.Type = input.Type
	file.ExpiresAt = nil
	f.linked = append(f.linked, input)
	return file, nil
}

func (f *memFiles) Delete(_ context.Context, fileID uuid.UUID) error {
	delete(f.files, fileID)
	f.deleted = append(f.deleted, fileID)
	return nil
}

func newTestProcessor() (*Processor, *memStore, *memFiles) {
	store := newMemStore()
	fileService := newMemFiles()
	processor := NewProcessor(store, pricing.NewTierEngine(nil), fileService)
	return processor, store, fileService
}
