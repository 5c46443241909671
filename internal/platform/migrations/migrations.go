package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&orderItemRecord{},
		&ratingRecord{},
		&idempotencyRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID              string    `gorm:"primaryKey;column:id;size:36"`
	OrderNumber     string    `gorm:"column:order_number;size:32;uniqueIndex"`
	OwnerID         string    `gorm:"column:owner_id;size:64;index:idx_orders_owner_status"`
	CustomerName    string    `gorm:"column:customer_name"`
	CustomerEmail   string    `gorm:"column:customer_email"`
	CustomerPhone   string    `gorm:"column:customer_phone"`
	ShippingAddress string    `gorm:"column:shipping_address"`
	ShippingCity    string    `gorm:"column:shipping_city"`
	ShippingState   string    `gorm:"column:shipping_state"`
	ShippingZip     string    `gorm:"column:shipping_zip"`
	ShippingCountry string    `gorm:"column:shipping_country"`
	ShippingMethod  string    `gorm:"column:shipping_method;size:64"`
	PaymentMethod   string    `gorm:"column:payment_method;size:32"`
	Subtotal        int64     `gorm:"column:subtotal"`
	ShippingCost    int64     `gorm:"column:shipping_cost"`
	Total           int64     `gorm:"column:total"`
	Status          string    `gorm:"column:status;type:varchar(32);index:idx_orders_owner_status"`
	TrackingNumber  string    `gorm:"column:tracking_number"`
	TrackingURL     string    `gorm:"column:tracking_url"`
	Comments        string    `gorm:"column:comments"`
	CreatedAt       time.Time `gorm:"column:created_at;index"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Order item schema mirrors the orders Postgres adapter.
type orderItemRecord struct {
	ID        int64  `gorm:"primaryKey;autoIncrement;column:id"`
	OrderID   string `gorm:"column:order_id;size:36;index"`
	ProductID int64  `gorm:"column:product_id"`
	Name      string `gorm:"column:name"`
	UnitPrice int64  `gorm:"column:unit_price"`
	Quantity  int    `gorm:"column:quantity"`
	Position  int    `gorm:"column:position"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Rating schema mirrors the ratings Postgres adapter.
type ratingRecord struct {
	ProductID int64     `gorm:"primaryKey;column:product_id"`
	OrderID   string    `gorm:"primaryKey;column:order_id;size:36"`
	UserID    string    `gorm:"primaryKey;column:user_id;size:64"`
	Stars     int       `gorm:"column:stars"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ratingRecord) TableName() string { return "product_ratings" }

// Idempotency schema mirrors the order idempotency store.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;size:36"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }
