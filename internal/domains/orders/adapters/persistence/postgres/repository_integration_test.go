//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bapesu/storefront-api/internal/domains/orders/domain"
	"github.com/bapesu/storefront-api/internal/domains/orders/ports"
	"github.com/bapesu/storefront-api/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("storefront_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func sampleOrder(id, orderNumber string) *domain.Order {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Order{
		ID:            id,
		OrderNumber:   orderNumber,
		OwnerID:       "user-1",
		CustomerName:  "Ana Gomez",
		CustomerEmail: "ana@example.com",
		Items: []domain.Item{
			{ProductID: 1, Name: "Collar artesanal", UnitPrice: 10000, Quantity: 2},
			{ProductID: 2, Name: "Pulsera", UnitPrice: 5000, Quantity: 1},
		},
		Subtotal:     25000,
		ShippingCost: 10000,
		Total:        35000,
		Status:       domain.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestRepository_CreateAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order := sampleOrder("ord-1", "ORD-20260830-AAAAAA")
	saved, err := repo.Create(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, order.ID, saved.ID)

	fetched, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, fetched.OrderNumber)
	require.Len(t, fetched.Items, 2)
	assert.Equal(t, int64(10000), fetched.Items[0].UnitPrice)
}

func TestRepository_DuplicateOrderNumber(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, sampleOrder("ord-1", "ORD-20260830-AAAAAA"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, sampleOrder("ord-2", "ORD-20260830-AAAAAA"))
	assert.ErrorIs(t, err, ports.ErrDuplicateOrderNumber)
}

func TestRepository_UpdateReplacesItems(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order := sampleOrder("ord-1", "ORD-20260830-AAAAAA")
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	order.Status = domain.StatusConfirmed
	order.Comments = "confirmado"
	updated, err := repo.Update(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)

	fetched, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmado", fetched.Comments)
	assert.Len(t, fetched.Items, 2)
}

func TestRepository_ListFilters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	first := sampleOrder("ord-1", "ORD-20260830-AAAAAA")
	_, err := repo.Create(ctx, first)
	require.NoError(t, err)

	second := sampleOrder("ord-2", "ORD-20260830-BBBBBB")
	second.OwnerID = "user-2"
	second.CustomerName = "Benito Perez"
	second.Status = domain.StatusCancelled
	_, err = repo.Create(ctx, second)
	require.NoError(t, err)

	orders, total, err := repo.List(ctx, ports.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, orders, 2)

	orders, total, err = repo.List(ctx, ports.ListQuery{OwnerID: "user-2"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, "ord-2", orders[0].ID)

	status := domain.StatusCancelled
	_, total, err = repo.List(ctx, ports.ListQuery{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = repo.List(ctx, ports.ListQuery{Search: "benito"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestRepository_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order := sampleOrder("ord-1", "ORD-20260830-AAAAAA")
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, order.ID))

	_, err = repo.GetByID(ctx, order.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, order.ID), ports.ErrNotFound)
}

func TestRatingStore_Upsert(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	store := NewRatingStore(db)
	ctx := context.Background()

	rating := domain.Rating{ProductID: 1, OrderID: "ord-1", UserID: "user-1", Stars: 3, UpdatedAt: time.Now()}
	saved, err := store.Upsert(ctx, rating)
	require.NoError(t, err)
	assert.Equal(t, 3, saved.Stars)

	rating.Stars = 5
	updated, err := store.Upsert(ctx, rating)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Stars)

	list, err := store.ListByOrder(ctx, "ord-1", "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].Stars)
}

func TestIdempotencyStore_SaveAndPurge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db, time.Hour)
	ctx := context.Background()

	record := ports.IdempotencyRecord{Key: "key-1", RequestHash: "hash-1", OrderID: "ord-1"}
	_, err := store.Save(ctx, record)
	require.NoError(t, err)

	fetched, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, "ord-1", fetched.OrderID)

	// Replaying the identical record succeeds; a different payload conflicts.
	_, err = store.Save(ctx, record)
	require.NoError(t, err)
	record.RequestHash = "hash-2"
	_, err = store.Save(ctx, record)
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)

	require.NoError(t, store.PurgeExpired(ctx))
	fetched, err = store.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.NotNil(t, fetched)
}

func TestRepository_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
