package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/martagenovese/poldo/internal/domains/orders/domain"
	"github.com/martagenovese/poldo/internal/domains/orders/ports"
	"github.com/martagenovese/poldo/internal/shared/retry"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and their lines in PostgreSQL using GORM.
//
// Uniqueness of the active order per (shift, kind, party) rides on the
// nullable dedupe_key column: it is populated while the order is active and
// cleared on cancellation, so cancelled orders never collide with new ones.
type Repository struct {
	db      *gorm.DB
	backoff time.Duration
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db, backoff: retry.DefaultBackoff}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{}, &lineRecord{})
	}
	return repo
}

type orderRecord struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Kind         string    `gorm:"column:kind;type:varchar(16);index:idx_orders_shift"`
	Party        string    `gorm:"column:party;type:varchar(64)"`
	ShiftDate    time.Time `gorm:"column:shift_date;type:date;index:idx_orders_shift"`
	ShiftN       int       `gorm:"column:shift_n;index:idx_orders_shift"`
	ClassOrderID *int64    `gorm:"column:class_order_id;index"`
	Status       string    `gorm:"column:status;type:varchar(16)"`
	DedupeKey    *string   `gorm:"column:dedupe_key;type:varchar(128);uniqueIndex"`
	LastUpdate   time.Time `gorm:"column:last_update"`
}

func (orderRecord) TableName() string { return "orders" }

type lineRecord struct {
	ID        int64 `gorm:"primaryKey;autoIncrement;column:id"`
	OrderID   int64 `gorm:"column:order_id;index"`
	ProductID int64 `gorm:"column:product_id"`
	Quantity  int32 `gorm:"column:quantity"`
	Prepared  bool  `gorm:"column:prepared"`
}

func (lineRecord) TableName() string { return "order_lines" }

// Create inserts a draft order with its lines. A live dedupe key collision
// maps to ports.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	key := dedupeKey(order)
	record.DedupeKey = &key
	err := r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			for i := range order.Lines {
				line := lineRecord{
					OrderID:   record.ID,
					ProductID: order.Lines[i].ProductID,
					Quantity:  order.Lines[i].Quantity,
					Prepared:  order.Lines[i].Prepared,
				}
				if err := tx.Create(&line).Error; err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicate
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order and its lines.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var lines []lineRecord
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", id).Order("id").Find(&lines).Error; err != nil {
		return nil, err
	}
	return record.toDomain(lines), nil
}

// List returns orders matching the filter, lines included.
func (r *Repository) List(ctx context.Context, filter ports.Filter) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&orderRecord{})
	if filter.ShiftDate != nil {
		query = query.Where("shift_date = ?", *filter.ShiftDate)
	}
	if filter.ShiftN != nil {
		query = query.Where("shift_n = ?", *filter.ShiftN)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", string(filter.Kind))
	}
	if filter.Party != "" {
		query = query.Where("party = ?", filter.Party)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	var records []orderRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(records))
	for i := range records {
		ids = append(ids, records[i].ID)
	}
	var lines []lineRecord
	if err := r.db.WithContext(ctx).
		Where("order_id IN ?", ids).Order("id").Find(&lines).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[int64][]lineRecord, len(records))
	for _, line := range lines {
		byOrder[line.OrderID] = append(byOrder[line.OrderID], line)
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain(byOrder[records[i].ID]))
	}
	return orders, nil
}

// Transition flips the status with a conditional update so concurrent
// transitions cannot both win. RowsAffected decides the outcome.
func (r *Repository) Transition(ctx context.Context, id int64, from, to domain.Status, now time.Time) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	err := r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			updates := map[string]any{
				"status":      string(to),
				"last_update": now,
			}
			if to == domain.StatusCancelled {
				updates["dedupe_key"] = nil
			}
			result := tx.Model(&orderRecord{}).
				Where("id = ? AND status = ?", id, string(from)).
				Updates(updates)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				var count int64
				if err := tx.Model(&orderRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return ports.ErrNotFound
				}
				return ports.ErrConflict
			}
			if to == domain.StatusPrepared {
				if err := tx.Model(&lineRecord{}).
					Where("order_id = ?", id).
					Update("prepared", true).Error; err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// AddLine inserts a line while the parent order is still a draft. The parent
// row is locked for the duration of the transaction so a concurrent
// confirmation cannot slip between the check and the insert.
func (r *Repository) AddLine(ctx context.Context, orderID int64, line domain.Line, now time.Time) (*domain.Line, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := lineRecord{
		OrderID:   orderID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		Prepared:  line.Prepared,
	}
	err := r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			status, err := lockOrderStatus(tx, orderID)
			if err != nil {
				return err
			}
			if status != string(domain.StatusDraft) {
				return ports.ErrConflict
			}
			record.ID = 0
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			return tx.Model(&orderRecord{}).
				Where("id = ?", orderID).
				Update("last_update", now).Error
		})
	})
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// RemoveLine deletes a line while the parent order is still a draft.
func (r *Repository) RemoveLine(ctx context.Context, orderID, lineID int64, now time.Time) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			status, err := lockOrderStatus(tx, orderID)
			if err != nil {
				return err
			}
			if status != string(domain.StatusDraft) {
				return ports.ErrConflict
			}
			result := tx.Where("id = ? AND order_id = ?", lineID, orderID).Delete(&lineRecord{})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ports.ErrNotFound
			}
			return tx.Model(&orderRecord{}).
				Where("id = ?", orderID).
				Update("last_update", now).Error
		})
	})
}

// MarkLinePrepared flags one line prepared. A repeated call finds zero
// unprepared rows and falls through to a no-op.
func (r *Repository) MarkLinePrepared(ctx context.Context, lineID int64, now time.Time) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&lineRecord{}).
				Where("id = ? AND prepared = ?", lineID, false).
				Update("prepared", true)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				var count int64
				if err := tx.Model(&lineRecord{}).Where("id = ?", lineID).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return ports.ErrNotFound
				}
				return nil
			}
			return tx.Model(&orderRecord{}).
				Where("id = (?)", tx.Model(&lineRecord{}).Select("order_id").Where("id = ?", lineID)).
				Update("last_update", now).Error
		})
	})
}

// AttachStudentOrders links student orders to a class order in one update.
func (r *Repository) AttachStudentOrders(ctx context.Context, classOrderID int64, studentOrderIDs []int64, now time.Time) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.withRetry(ctx, func() error {
		result := r.db.WithContext(ctx).Model(&orderRecord{}).
			Where("id IN ?", studentOrderIDs).
			Updates(map[string]any{
				"class_order_id": classOrderID,
				"last_update":    now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(studentOrderIDs)) {
			return ports.ErrNotFound
		}
		return nil
	})
}

func lockOrderStatus(tx *gorm.DB, orderID int64) (string, error) {
	var record orderRecord
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "status").
		First(&record, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ports.ErrNotFound
		}
		return "", err
	}
	return record.Status, nil
}

func (r *Repository) withRetry(ctx context.Context, fn func() error) error {
	return retry.Do(ctx, r.backoff, retry.Transient, fn)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func dedupeKey(order *domain.Order) string {
	return fmt.Sprintf("%s/%d/%s/%s",
		order.ShiftDate.Format("2006-01-02"), order.ShiftN, order.Kind, order.Party)
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:           order.ID,
		Kind:         string(order.Kind),
		Party:        order.Party,
		ShiftDate:    order.ShiftDate,
		ShiftN:       order.ShiftN,
		ClassOrderID: order.ClassOrderID,
		Status:       string(order.Status),
		LastUpdate:   order.LastUpdate,
	}
}

func (r orderRecord) toDomain(lines []lineRecord) *domain.Order {
	order := &domain.Order{
		ID:           r.ID,
		Kind:         domain.Kind(r.Kind),
		Party:        r.Party,
		ShiftDate:    time.Date(r.ShiftDate.Year(), r.ShiftDate.Month(), r.ShiftDate.Day(), 0, 0, 0, 0, time.UTC),
		ShiftN:       r.ShiftN,
		ClassOrderID: r.ClassOrderID,
		Status:       domain.Status(r.Status),
		LastUpdate:   r.LastUpdate,
	}
	for i := range lines {
		order.Lines = append(order.Lines, *lines[i].toDomain())
	}
	return order
}

func (l lineRecord) toDomain() *domain.Line {
	return &domain.Line{
		ID:        l.ID,
		OrderID:   l.OrderID,
		ProductID: l.ProductID,
		Quantity:  l.Quantity,
		Prepared:  l.Prepared,
	}
}
