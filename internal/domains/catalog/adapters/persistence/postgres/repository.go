package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/martagenovese/poldo/internal/domains/catalog/domain"
	"github.com/martagenovese/poldo/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists catalog products in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// productRecord maps the product aggregate to a relational table.
type productRecord struct {
	ID           int64          `gorm:"primaryKey;column:id"`
	Name         string         `gorm:"column:name;type:varchar(100);uniqueIndex"`
	Price        float64        `gorm:"column:price;type:numeric(5,2)"`
	Description  string         `gorm:"column:description;type:varchar(100)"`
	Availability int32          `gorm:"column:availability"`
	Active       bool           `gorm:"column:active;index"`
	Temporary    bool           `gorm:"column:temporary"`
	OwnerID      int64          `gorm:"column:owner_id;index"`
	Tags         pq.StringArray `gorm:"column:tags;type:text[]"`
	Ingredients  pq.StringArray `gorm:"column:ingredients;type:text[]"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;index"`
}

func (productRecord) TableName() string { return "products" }

// Save inserts or updates a product.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := toRecord(product)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":         record.Name,
				"price":        record.Price,
				"description":  record.Description,
				"availability": record.Availability,
				"active":       record.Active,
				"temporary":    record.Temporary,
				"owner_id":     record.OwnerID,
				"tags":         record.Tags,
				"ingredients":  record.Ingredients,
				"updated_at":   gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicate
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context, activeOnly bool) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("id ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var records []productRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

// Reserve decrements availability with a conditional update so concurrent
// reservations cannot oversell; the affected-row count decides the outcome.
func (r *Repository) Reserve(ctx context.Context, id int64, quantity int32) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&productRecord{}).
		Where("id = ? AND active = ? AND availability >= ?", id, true, quantity).
		Updates(map[string]any{
			"availability": gorm.Expr("availability - ?", quantity),
			"updated_at":   gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ports.ErrNotFound
		}
		return ports.ErrInsufficient
	}
	return nil
}

func (r *Repository) Release(ctx context.Context, id int64, quantity int32) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&productRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"availability": gorm.Expr("availability + ?", quantity),
			"updated_at":   gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:           product.ID,
		Name:         product.Name,
		Price:        product.Price,
		Description:  product.Description,
		Availability: product.Availability,
		Active:       product.Active,
		Temporary:    product.Temporary,
		OwnerID:      product.OwnerID,
		Tags:         pq.StringArray(product.Tags),
		Ingredients:  pq.StringArray(product.Ingredients),
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:           r.ID,
		Name:         r.Name,
		Price:        r.Price,
		Description:  r.Description,
		Availability: r.Availability,
		Active:       r.Active,
		Temporary:    r.Temporary,
		OwnerID:      r.OwnerID,
		Tags:         []string(r.Tags),
		Ingredients:  []string(r.Ingredients),
		LastUpdate:   r.UpdatedAt,
	}
}
