package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storefront-orders/db/dbtest"
	"storefront-orders/models"
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCatalogRepositoryFindProductVariants(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t).Sugar()
	repo := NewCatalogRepository(dbtest.NewPrimary(t), logger)

	require.NoError(t, repo.SaveProduct(ctx, &models.Product{
		ID: "W-7841", Code: "W-7841", Name: "Cuaderno",
		Tiers: models.TierPrices{Unit: money("2.00"), Wholesale: money("1.80"), Bulk: money("1.50")},
	}))
	require.NoError(t, repo.SaveProduct(ctx, &models.Product{
		ID: "88001", Code: "AB12", Name: "Lapiz",
		Tiers: models.TierPrices{Unit: money("0.50")},
	}))

	for _, ref := range []string{"W-7841", "w-7841", "W7841", "w7841"} {
		p, err := repo.FindProduct(ctx, ref)
		require.NoError(t, err, ref)
		assert.Equal(t, "W-7841", p.ID, ref)
		assert.Equal(t, models.ProductResolved, p.Kind)
		assert.Equal(t, "1.80", p.Tiers.Wholesale.StringFixed(2))
	}

	p, err := repo.FindProduct(ctx, "ab-12")
	require.NoError(t, err)
	assert.Equal(t, "88001", p.ID)

	_, err = repo.FindProduct(ctx, "Z-1")
	assert.ErrorIs(t, err, ErrProductNotFound)
	_, err = repo.FindProduct(ctx, "")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestFileCatalogRepository(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileCatalogRepositoryFromEntries([]models.CatalogFileEntry{
		{ProductID: "W-7841", Name: "Cuaderno", UnitPrice: money("2.00"), WholesalePrice: money("1.80"), BulkPrice: money("1.50")},
		{ProductID: "10", Code: "XY9", Name: "Borrador", UnitPrice: money("0.25")},
	}, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)

	p, err := repo.FindProduct(ctx, "w7841")
	require.NoError(t, err)
	assert.Equal(t, "W-7841", p.Code)
	assert.Equal(t, "1.50", p.Tiers.Bulk.StringFixed(2))

	p, err = repo.FindProduct(ctx, "xy-9")
	require.NoError(t, err)
	assert.Equal(t, "10", p.ID)

	_, err = repo.FindProduct(ctx, "nope")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = NewFileCatalogRepositoryFromEntries([]models.CatalogFileEntry{{Name: "sin id"}}, zaptest.NewLogger(t).Sugar())
	assert.Error(t, err)
}

func TestCartRepositoryReplacesWholeCart(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(dbtest.NewPrimary(t), zaptest.NewLogger(t).Sugar())

	items, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, repo.Save(ctx, "u1", []models.CartItem{
		{ProductID: "A", Code: "A", Name: "Uno", UnitPrice: money("1.80"), Quantity: 5},
		{ProductID: "B", Code: "B", Name: "Producto B", UnitPrice: money("1.20"), Quantity: 1, Placeholder: true},
	}))
	require.NoError(t, repo.Save(ctx, "u2", []models.CartItem{
		{ProductID: "C", Code: "C", Name: "Otro", UnitPrice: money("3"), Quantity: 2},
	}))

	items, err = repo.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].ProductID)
	assert.Equal(t, "1.80", items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, 5, items[0].Quantity)
	assert.True(t, items[1].Placeholder)

	require.NoError(t, repo.Save(ctx, "u1", []models.CartItem{
		{ProductID: "B", Code: "B", Name: "Producto B", UnitPrice: money("1.20"), Quantity: 3},
	}))
	items, err = repo.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	require.NoError(t, repo.Clear(ctx, "u1"))
	items, err = repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)

	other, err := repo.Load(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func sampleOrder(id string) *models.Order {
	return &models.Order{
		OrderID:  id,
		UserID:   "0991234567",
		Subtotal: money("9.00"),
		Shipping: money("8.00"),
		Total:    money("17.00"),
		Status:   models.OrderStatusPending,
		CustomerInfo: models.CustomerInfo{
			Cedula: "0991234567", Nombres: "Ana", Direccion: "Calle 1", Provincia: "Guayas", Ciudad: "Guayaquil", Whatsapp: "099",
		},
		Items: []models.OrderItem{
			{LineNo: 1, ProductID: "W-7841", Code: "W-7841", Name: "Cuaderno", UnitPrice: money("1.80"), Quantity: 5, LineTotal: money("9.00")},
		},
	}
}

func TestOrderRepositoryCommitAndRollback(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(dbtest.NewPrimary(t), zaptest.NewLogger(t).Sugar())

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.InsertOrder(ctx, sampleOrder("ORD_000234567_20260115_103005")))
	require.NoError(t, tx.Rollback())

	_, err = repo.GetByID(ctx, "ORD_000234567_20260115_103005")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	tx, err = repo.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.InsertOrder(ctx, sampleOrder("ORD_000234567_20260115_103006")))
	require.NoError(t, tx.Commit())
	assert.NoError(t, tx.Rollback())

	order, err := repo.GetByID(ctx, "ORD_000234567_20260115_103006")
	require.NoError(t, err)
	assert.Equal(t, "17.00", order.Total.StringFixed(2))
	assert.Equal(t, "Guayaquil", order.CustomerInfo.Ciudad)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "9.00", order.Items[0].LineTotal.StringFixed(2))
	assert.NotEmpty(t, order.CreatedAt)

	orders, err := repo.ListByUser(ctx, "0991234567")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestUnifiedOrderRepositoryUpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewUnifiedOrderRepository(dbtest.NewSecondary(t), zaptest.NewLogger(t).Sugar())

	record := &models.UnifiedOrder{
		OrderID:     "ORD_000234567_20260115_103005",
		UserID:      "0991234567",
		Source:      models.UnifiedOrderSourcePWA,
		Comprobante: "001-002-000234567",
		Items:       []models.UnifiedOrderItem{{Code: "W-7841", Name: "CUADERNO", Quantity: 5, Price: 1.8, Subtotal: 9}},
		Subtotal:    money("9.00"),
		Shipping:    money("8.00"),
		Total:       money("17.00"),
		Status:      models.OrderStatusPending,
	}
	require.NoError(t, repo.Upsert(ctx, record))
	require.NoError(t, repo.Upsert(ctx, record))

	list, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)

	stored, err := repo.GetByID(ctx, record.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "17.00", stored.Total.StringFixed(2))
	assert.Equal(t, "001-002-000234567", stored.Comprobante)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 5, stored.Items[0].Quantity)
	assert.InDelta(t, 1.8, stored.Items[0].Price, 0.0001)

	require.NoError(t, repo.Delete(ctx, record.OrderID))
	require.NoError(t, repo.Delete(ctx, record.OrderID))
	_, err = repo.GetByID(ctx, record.OrderID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
