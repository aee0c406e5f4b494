package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/digitech/seogen/internal/domain"
	"gorm.io/gorm"
)

// ErrSourceUnavailable wraps enumeration failures against the backing store.
// Callers treat it as fatal for the whole run.
var ErrSourceUnavailable = errors.New("product source unavailable")

// ErrProductNotFound indicates a write targeted an id that no longer exists.
var ErrProductNotFound = errors.New("product not found")

// Filter narrows product enumeration. Skip and Limit apply after the
// category filter and processed-id exclusion, over the id-ascending order,
// so the same filter against the same ledger always selects the same set.
type Filter struct {
	Category string
	Skip     int
	Limit    int
}

// ProductRepository handles catalog product data operations.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new ProductRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *ProductRepository: repository instance bound to db.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListEligible enumerates products matching the filter in product_id
// ascending order, excluding already-completed ids.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - f: category/skip/limit filter.
//   - exclude: ids to omit (the ledger's processed set).
// Returns:
//   - []domain.Product: matching products in stable order.
//   - error: wraps ErrSourceUnavailable if the query fails.
func (r *ProductRepository) ListEligible(ctx context.Context, f Filter, exclude []string) ([]domain.Product, error) {
	query := r.db.WithContext(ctx).Model(&domain.Product{})
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if len(exclude) > 0 {
		query = query.Where("product_id NOT IN ?", exclude)
	}
	query = query.Order("product_id ASC")
	if f.Skip > 0 {
		query = query.Offset(f.Skip)
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}

	var products []domain.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return products, nil
}

// UpdateGenerated writes all three generated fields for one product as a
// single update, so a record is never left partially rewritten.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: product to update.
//   - fields: validated generated content.
// Returns:
//   - error: non-nil if the update fails or the product is gone.
func (r *ProductRepository) UpdateGenerated(ctx context.Context, id string, fields domain.GeneratedFields) error {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("product_id = ?", id).
		Updates(map[string]interface{}{
			"seo_name":         fields.Title,
			"description":      fields.Description,
			"meta_description": fields.MetaDescription,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return nil
}

// Count returns the number of products, optionally narrowed by category.
func (r *ProductRepository) Count(ctx context.Context, category string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Product{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return count, nil
}
