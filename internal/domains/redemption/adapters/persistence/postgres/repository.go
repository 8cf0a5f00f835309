package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/martagenovese/poldo/internal/domains/redemption/domain"
	"github.com/martagenovese/poldo/internal/domains/redemption/ports"
	"github.com/martagenovese/poldo/internal/shared/retry"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists pickup tokens in PostgreSQL using GORM.
//
// The one-live-token-per-order invariant rides on the nullable order_key
// column: populated while the token is unredeemed, cleared by redemption.
// Redemption itself is a conditional update on redeemed = false, so of any
// set of concurrent attempts exactly one sees RowsAffected = 1.
type Repository struct {
	db      *gorm.DB
	backoff time.Duration
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db, backoff: retry.DefaultBackoff}
	if db != nil {
		_ = db.AutoMigrate(&tokenRecord{})
	}
	return repo
}

type tokenRecord struct {
	Value      string     `gorm:"primaryKey;column:value;type:char(32)"`
	OrderID    int64      `gorm:"column:order_id;index"`
	OrderKey   *int64     `gorm:"column:order_key;uniqueIndex"`
	Issuer     string     `gorm:"column:issuer;type:varchar(100)"`
	Redeemed   bool       `gorm:"column:redeemed"`
	Redeemer   string     `gorm:"column:redeemer;type:varchar(100)"`
	IssuedAt   time.Time  `gorm:"column:issued_at"`
	RedeemedAt *time.Time `gorm:"column:redeemed_at"`
}

func (tokenRecord) TableName() string { return "qr_codes" }

// Create inserts a freshly minted token. A live token for the same order
// collides on order_key and maps to ports.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, token *domain.Token) (*domain.Token, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if token == nil {
		return nil, errors.New("token is nil")
	}
	record := toRecord(token)
	orderID := token.OrderID
	record.OrderKey = &orderID
	err := r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Create(&record).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicate
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByValue fetches a token by its 32-char value.
func (r *Repository) GetByValue(ctx context.Context, value string) (*domain.Token, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record tokenRecord
	if err := r.db.WithContext(ctx).First(&record, "value = ?", value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByOrder fetches the most recently issued token for an order.
func (r *Repository) GetByOrder(ctx context.Context, orderID int64) (*domain.Token, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record tokenRecord
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("issued_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Redeem flips redeemed with a conditional update. RowsAffected decides the
// winner; losers are told the token was already redeemed.
func (r *Repository) Redeem(ctx context.Context, value, redeemer string, now time.Time) (*domain.Token, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	err := r.withRetry(ctx, func() error {
		result := r.db.WithContext(ctx).Model(&tokenRecord{}).
			Where("value = ? AND redeemed = ?", value, false).
			Updates(map[string]any{
				"redeemed":    true,
				"redeemer":    redeemer,
				"redeemed_at": now,
				"order_key":   nil,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := r.db.WithContext(ctx).Model(&tokenRecord{}).
				Where("value = ?", value).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ports.ErrNotFound
			}
			return domain.ErrAlreadyRedeemed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByValue(ctx, value)
}

func (r *Repository) withRetry(ctx context.Context, fn func() error) error {
	return retry.Do(ctx, r.backoff, retry.Transient, fn)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres token repository not configured")
	}
	return nil
}

func toRecord(token *domain.Token) tokenRecord {
	return tokenRecord{
		Value:      token.Value,
		OrderID:    token.OrderID,
		Issuer:     token.Issuer,
		Redeemed:   token.Redeemed,
		Redeemer:   token.Redeemer,
		IssuedAt:   token.IssuedAt,
		RedeemedAt: token.RedeemedAt,
	}
}

func (t tokenRecord) toDomain() *domain.Token {
	return &domain.Token{
		Value:      t.Value,
		OrderID:    t.OrderID,
		Issuer:     t.Issuer,
		Redeemed:   t.Redeemed,
		Redeemer:   t.Redeemer,
		IssuedAt:   t.IssuedAt,
		RedeemedAt: t.RedeemedAt,
	}
}
