package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/martagenovese/poldo/internal/domains/shifts/domain"
	"github.com/martagenovese/poldo/internal/domains/shifts/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists shifts in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// shiftRecord maps the shift aggregate to a relational table.
type shiftRecord struct {
	Date        time.Time `gorm:"primaryKey;column:shift_date;type:date"`
	N           int       `gorm:"primaryKey;column:n"`
	OrderOpen   string    `gorm:"column:order_open;type:varchar(5)"`
	OrderClose  string    `gorm:"column:order_close;type:varchar(5)"`
	PickupOpen  string    `gorm:"column:pickup_open;type:varchar(5)"`
	PickupClose string    `gorm:"column:pickup_close;type:varchar(5)"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (shiftRecord) TableName() string { return "shifts" }

func (r *Repository) Create(ctx context.Context, shift *domain.Shift) (*domain.Shift, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := toRecord(shift)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicate
		}
		return nil, err
	}
	return record.toDomain()
}

func (r *Repository) Get(ctx context.Context, date time.Time, n int) (*domain.Shift, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record shiftRecord
	err := r.db.WithContext(ctx).
		First(&record, "shift_date = ? AND n = ?", domain.DateOf(date), n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain()
}

func (r *Repository) ListByDate(ctx context.Context, date time.Time) ([]*domain.Shift, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []shiftRecord
	err := r.db.WithContext(ctx).
		Where("shift_date = ?", domain.DateOf(date)).
		Order("n ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	shifts := make([]*domain.Shift, 0, len(records))
	for i := range records {
		shift, err := records[i].toDomain()
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, nil
}

func (r *Repository) Update(ctx context.Context, shift *domain.Shift) (*domain.Shift, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := toRecord(shift)
	result := r.db.WithContext(ctx).
		Model(&shiftRecord{}).
		Where("shift_date = ? AND n = ?", record.Date, record.N).
		Updates(map[string]any{
			"order_open":   record.OrderOpen,
			"order_close":  record.OrderClose,
			"pickup_open":  record.PickupOpen,
			"pickup_close": record.PickupClose,
			"updated_at":   gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.Get(ctx, shift.Date, shift.N)
}

func (r *Repository) Delete(ctx context.Context, date time.Time, n int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Where("shift_date = ? AND n = ?", domain.DateOf(date), n).
		Delete(&shiftRecord{})
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
		return errors.New("postgres shift repository not configured")
	}
	return nil
}

func toRecord(shift *domain.Shift) shiftRecord {
	return shiftRecord{
		Date:        domain.DateOf(shift.Date),
		N:           shift.N,
		OrderOpen:   shift.Order.From.String(),
		OrderClose:  shift.Order.To.String(),
		PickupOpen:  shift.Pickup.From.String(),
		PickupClose: shift.Pickup.To.String(),
	}
}

func (r shiftRecord) toDomain() (*domain.Shift, error) {
	orderOpen, err := domain.ParseTimeOfDay(r.OrderOpen)
	if err != nil {
		return nil, err
	}
	orderClose, err := domain.ParseTimeOfDay(r.OrderClose)
	if err != nil {
		return nil, err
	}
	pickupOpen, err := domain.ParseTimeOfDay(r.PickupOpen)
	if err != nil {
		return nil, err
	}
	pickupClose, err := domain.ParseTimeOfDay(r.PickupClose)
	if err != nil {
		return nil, err
	}
	return &domain.Shift{
		Date:   domain.DateOf(r.Date),
		N:      r.N,
		Order:  domain.Window{From: orderOpen, To: orderClose},
		Pickup: domain.Window{From: pickupOpen, To: pickupClose},
	}, nil
}
