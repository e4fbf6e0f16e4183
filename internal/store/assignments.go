// internal/store/assignments.go
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/commercekit/catalog-backend/internal/catalog"
	"github.com/commercekit/catalog-backend/internal/models"
)

func (s *Store) AddProxyAssignment(ctx context.Context, proxyID, assignedProductID uuid.UUID, vector catalog.Vector) (*models.Assignment, error) {
	existing, err := s.ProxyAssignments(ctx, proxyID)
	if err != nil {
		return nil, err
	}
	for _, assignment := range existing {
		if vectorEqualsJSONB(vector, assignment.Vector) {
			return nil, catalog.ErrAssignmentExists
		}
	}

	assignment := &models.Assignment{
		ProductID:         proxyID,
		AssignedProductID: assignedProductID,
		Vector:            vectorToJSONB(vector),
	}
	if err := s.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return assignment, nil
}

// RemoveAssignment deletes the assignment matching the vector exactly;
// removing an absent vector is a no-op.
func (s *Store) RemoveAssignment(ctx context.Context, proxyID uuid.UUID, vector catalog.Vector) error {
	existing, err := s.ProxyAssignments(ctx, proxyID)
	if err != nil {
		return err
	}
	for _, assignment := range existing {
		if vectorEqualsJSONB(vector, assignment.Vector) {
			if err := s.db.WithContext(ctx).Delete(&assignment).Error; err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			return nil
		}
	}
	return nil
}

func (s *Store) ProxyAssignments(ctx context.Context, proxyID uuid.UUID) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := s.db.WithContext(ctx).
		Where("product_id = ?", proxyID).
		Order("created_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return assignments, nil
}

func (s *Store) ProxyProducts(ctx context.Context, proxyID uuid.UUID, vector catalog.Vector, includeInactive bool) ([]models.Product, error) {
	assignments, err := s.ProxyAssignments(ctx, proxyID)
	if err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, 0, len(assignments))
	for _, assignment := range assignments {
		if vectorMatchesJSONB(vector, assignment.Vector) {
			productIDs = append(productIDs, assignment.AssignedProductID)
		}
	}
	if len(productIDs) == 0 {
		return []models.Product{}, nil
	}

	query := s.db.WithContext(ctx).Where("id IN ?", productIDs)
	if !includeInactive {
		query = query.Where("status = ?", models.ProductStatusActive)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return products, nil
}

func (s *Store) ProxyIDsFor(ctx context.Context, assignedProductID uuid.UUID) ([]uuid.UUID, error) {
	var proxyIDs []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&models.Assignment{}).
		Distinct("product_id").
		Where("assigned_product_id = ?", assignedProductID).
		Pluck("product_id", &proxyIDs).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return proxyIDs, nil
}

func vectorToJSONB(vector catalog.Vector) models.JSONB {
	out := make(models.JSONB, len(vector))
	for key, value := range vector {
		out[key] = value
	}
	return out
}

// vectorEqualsJSONB reports an exact key-set and value match.
func vectorEqualsJSONB(vector catalog.Vector, stored models.JSONB) bool {
	if len(vector) != len(stored) {
		return false
	}
	return vectorMatchesJSONB(vector, stored)
}

// vectorMatchesJSONB reports a subset match: every key of the filter
// vector is present with the same value. An empty filter matches all.
func vectorMatchesJSONB(vector catalog.Vector, stored models.JSONB) bool {
	for key, value := range vector {
		storedValue, ok := stored[key].(string)
		if !ok || storedValue != value {
			return false
		}
	}
	return true
}
