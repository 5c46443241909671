package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/bapesu/storefront-api/internal/domains/orders/domain"
	"github.com/bapesu/storefront-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. The item snapshots
// live in a child table and are written in the same transaction as the order.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{}, &orderItemRecord{})
	}
	return repo
}

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

// Create inserts the order and its item snapshots atomically.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record, items := toRecord(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			return tx.Create(&items).Error
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ports.ErrDuplicateOrderNumber
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order with its items by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
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
	items, err := r.loadItems(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	return record.toDomain(items[id]), nil
}

// Update rewrites the order row and replaces its item snapshots.
func (r *Repository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record, items := toRecord(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&orderRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
			"customer_name":    record.CustomerName,
			"customer_email":   record.CustomerEmail,
			"customer_phone":   record.CustomerPhone,
			"shipping_address": record.ShippingAddress,
			"shipping_city":    record.ShippingCity,
			"shipping_state":   record.ShippingState,
			"shipping_zip":     record.ShippingZip,
			"shipping_country": record.ShippingCountry,
			"status":           record.Status,
			"tracking_number":  record.TrackingNumber,
			"tracking_url":     record.TrackingURL,
			"comments":         record.Comments,
			"updated_at":       record.UpdatedAt,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		if err := tx.Where("order_id = ?", record.ID).Delete(&orderItemRecord{}).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			return tx.Create(&items).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// Delete removes the order and its item snapshots.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&orderItemRecord{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&orderRecord{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
}

// List returns one page of orders matching the filters, newest first.
func (r *Repository) List(ctx context.Context, query ports.ListQuery) ([]*domain.Order, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	scope := r.db.WithContext(ctx).Model(&orderRecord{})
	if query.OwnerID != "" {
		scope = scope.Where("owner_id = ?", query.OwnerID)
	}
	if query.Status != nil {
		scope = scope.Where("status = ?", string(*query.Status))
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + search + "%"
		scope = scope.Where(
			"order_number ILIKE ? OR customer_name ILIKE ? OR customer_email ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []orderRecord
	if err := scope.
		Order("created_at DESC").
		Offset(query.Offset()).
		Limit(query.Limit()).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	ids := make([]string, 0, len(records))
	for i := range records {
		ids = append(ids, records[i].ID)
	}
	itemsByOrder, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain(itemsByOrder[records[i].ID]))
	}
	return orders, total, nil
}

func (r *Repository) loadItems(ctx context.Context, orderIDs []string) (map[string][]orderItemRecord, error) {
	byOrder := map[string][]orderItemRecord{}
	if len(orderIDs) == 0 {
		return byOrder, nil
	}
	var records []orderItemRecord
	if err := r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("position ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	for _, record := range records {
		byOrder[record.OrderID] = append(byOrder[record.OrderID], record)
	}
	return byOrder, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func toRecord(order *domain.Order) (orderRecord, []orderItemRecord) {
	record := orderRecord{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		OwnerID:         order.OwnerID,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		CustomerPhone:   order.CustomerPhone,
		ShippingAddress: order.ShippingAddress,
		ShippingCity:    order.ShippingCity,
		ShippingState:   order.ShippingState,
		ShippingZip:     order.ShippingZip,
		ShippingCountry: order.ShippingCountry,
		ShippingMethod:  order.ShippingMethod,
		PaymentMethod:   order.PaymentMethod,
		Subtotal:        order.Subtotal,
		ShippingCost:    order.ShippingCost,
		Total:           order.Total,
		Status:          string(order.Status),
		TrackingNumber:  order.TrackingNumber,
		TrackingURL:     order.TrackingURL,
		Comments:        order.Comments,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	items := make([]orderItemRecord, 0, len(order.Items))
	for i, item := range order.Items {
		items = append(items, orderItemRecord{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Position:  i,
		})
	}
	return record, items
}

func (r orderRecord) toDomain(items []orderItemRecord) *domain.Order {
	order := &domain.Order{
		ID:              r.ID,
		OrderNumber:     r.OrderNumber,
		OwnerID:         r.OwnerID,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		ShippingAddress: r.ShippingAddress,
		ShippingCity:    r.ShippingCity,
		ShippingState:   r.ShippingState,
		ShippingZip:     r.ShippingZip,
		ShippingCountry: r.ShippingCountry,
		ShippingMethod:  r.ShippingMethod,
		PaymentMethod:   r.PaymentMethod,
		Subtotal:        r.Subtotal,
		ShippingCost:    r.ShippingCost,
		Total:           r.Total,
		Status:          domain.Status(r.Status),
		TrackingNumber:  r.TrackingNumber,
		TrackingURL:     r.TrackingURL,
		Comments:        r.Comments,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	for _, item := range items {
		order.Items = append(order.Items, domain.Item{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return order
}
