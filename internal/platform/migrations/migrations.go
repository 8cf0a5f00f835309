package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&shiftRecord{},
		&productRecord{},
		&orderRecord{},
		&lineRecord{},
		&tokenRecord{},
	)
}

// Shift schema mirrors the shifts Postgres adapter.
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

// Product schema mirrors the catalog Postgres adapter.
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

// Order schema mirrors the orders Postgres adapter.
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

// Token schema mirrors the redemption Postgres adapter.
type tokenRecord struct {
	Value      string     `gorm:"primaryKey;column:value;type:char(32)"`
	OrderID    int64      `gorm:"column:order_id;index"`
	OrderKey   *int64     `gorm:"column:order_key;uniqueIndex"`
	Redeemed   bool       `gorm:"column:redeemed"`
	IssuedAt   time.Time  `gorm:"column:issued_at"`
	RedeemedAt *time.Time `gorm:"column:redeemed_at"`
}

func (tokenRecord) TableName() string { return "qr_codes" }
