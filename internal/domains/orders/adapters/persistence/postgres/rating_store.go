package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bapesu/storefront-api/internal/domains/orders/domain"
	"github.com/bapesu/storefront-api/internal/domains/orders/ports"
)

var _ ports.RatingStore = (*RatingStore)(nil)

// RatingStore persists product ratings in PostgreSQL. The composite primary
// key makes a repeat rating an update rather than a second row.
type RatingStore struct {
	db *gorm.DB
}

// NewRatingStore wires a PostgreSQL-backed rating store.
func NewRatingStore(db *gorm.DB) *RatingStore {
	store := &RatingStore{db: db}
	if db != nil {
		_ = db.AutoMigrate(&ratingRecord{})
	}
	return store
}

type ratingRecord struct {
	ProductID int64     `gorm:"primaryKey;column:product_id"`
	OrderID   string    `gorm:"primaryKey;column:order_id;size:36"`
	UserID    string    `gorm:"primaryKey;column:user_id;size:64"`
	Stars     int       `gorm:"column:stars"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ratingRecord) TableName() string { return "product_ratings" }

// Upsert inserts the rating or overwrites the stars of an existing one.
func (s *RatingStore) Upsert(ctx context.Context, rating domain.Rating) (*domain.Rating, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	record := ratingRecord{
		ProductID: rating.ProductID,
		OrderID:   rating.OrderID,
		UserID:    rating.UserID,
		Stars:     rating.Stars,
		CreatedAt: rating.UpdatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}, {Name: "order_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"stars":      record.Stars,
				"updated_at": record.UpdatedAt,
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	var stored ratingRecord
	if err := s.db.WithContext(ctx).
		First(&stored, "product_id = ? AND order_id = ? AND user_id = ?", rating.ProductID, rating.OrderID, rating.UserID).Error; err != nil {
		return nil, err
	}
	return stored.toDomain(), nil
}

// ListByOrder returns the caller's ratings for one order.
func (s *RatingStore) ListByOrder(ctx context.Context, orderID, userID string) ([]domain.Rating, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var records []ratingRecord
	if err := s.db.WithContext(ctx).
		Where("order_id = ? AND user_id = ?", orderID, userID).
		Order("product_id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	ratings := make([]domain.Rating, 0, len(records))
	for i := range records {
		ratings = append(ratings, *records[i].toDomain())
	}
	return ratings, nil
}

func (s *RatingStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres rating store not configured")
	}
	return nil
}

func (r ratingRecord) toDomain() *domain.Rating {
	return &domain.Rating{
		ProductID: r.ProductID,
		OrderID:   r.OrderID,
		UserID:    r.UserID,
		Stars:     r.Stars,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
