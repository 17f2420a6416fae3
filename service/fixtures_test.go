package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"storefront-orders/db/dbtest"
	"storefront-orders/models"
	"storefront-orders/repository"
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func price(f float64) *float64 { return &f }

func testCatalog(t *testing.T, logger *zap.SugaredLogger) repository.CatalogRepositoryInterface {
	catalog, err := repository.NewFileCatalogRepositoryFromEntries([]models.CatalogFileEntry{
		{ProductID: "W-7841", Name: "Cuaderno universitario", UnitPrice: money("2.00"), WholesalePrice: money("1.80"), BulkPrice: money("1.50")},
		{ProductID: "U-100", Name: "Lapicero azul", UnitPrice: money("0.50"), BulkPrice: money("0.35")},
		{ProductID: "S-1", Name: "Regla", UnitPrice: money("0.90")},
	}, logger)
	require.NoError(t, err)
	return catalog
}

func validCustomer() models.CustomerInfo {
	return models.CustomerInfo{
		Cedula:    "0991234567",
		Nombres:   "Ana Torres",
		Direccion: "Av. 9 de Octubre 100",
		Provincia: "Guayas",
		Ciudad:    "Guayaquil",
		Whatsapp:  "0991234567",
	}
}

// checkoutFixture wires the services against in-memory primary and secondary stores
type checkoutFixture struct {
	primary   *sql.DB
	secondary *sql.DB
	carts     *repository.CartRepository
	orders    *repository.OrderRepository
	replicas  *repository.UnifiedOrderRepository
	cart      *CartService
	logger    *zap.SugaredLogger
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	logger := zaptest.NewLogger(t).Sugar()
	primary := dbtest.NewPrimary(t)
	secondary := dbtest.NewSecondary(t)

	carts := repository.NewCartRepository(primary, logger)
	return &checkoutFixture{
		primary:   primary,
		secondary: secondary,
		carts:     carts,
		orders:    repository.NewOrderRepository(primary, logger),
		replicas:  repository.NewUnifiedOrderRepository(secondary, logger),
		cart:      NewCartService(testCatalog(t, logger), carts, logger),
		logger:    logger,
	}
}

func (f *checkoutFixture) checkout(replicas repository.UnifiedOrderRepositoryInterface, receipts ReceiptPublisher) *CheckoutService {
	return NewCheckoutService(f.carts, f.orders, replicas, receipts, CheckoutConfig{
		SourceTag:   "ORD",
		Shipping:    money("8.00"),
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
	}, f.logger)
}

func count(t *testing.T, conn *sql.DB, table string) int {
	var n int
	require.NoError(t, conn.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

// flakyReplicas fails the first failures upserts and then delegates
type flakyReplicas struct {
	repository.UnifiedOrderRepositoryInterface
	mu       sync.Mutex
	failures int
	attempts int
	deleted  []string
}

var errSecondaryDown = errors.New("secondary store unavailable")

func (r *flakyReplicas) Upsert(ctx context.Context, order *models.UnifiedOrder) error {
	r.mu.Lock()
	r.attempts++
	fail := r.attempts <= r.failures
	r.mu.Unlock()
	if fail {
		return errSecondaryDown
	}
	return r.UnifiedOrderRepositoryInterface.Upsert(ctx, order)
}

func (r *flakyReplicas) Delete(ctx context.Context, orderID string) error {
	r.mu.Lock()
	r.deleted = append(r.deleted, orderID)
	r.mu.Unlock()
	return r.UnifiedOrderRepositoryInterface.Delete(ctx, orderID)
}

// brokenCommitOrders writes through a real transaction but fails on commit
type brokenCommitOrders struct {
	repository.OrderRepositoryInterface
	failInsert bool
}

func (o *brokenCommitOrders) Begin(ctx context.Context) (repository.OrderTx, error) {
	tx, err := o.OrderRepositoryInterface.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &brokenCommitTx{OrderTx: tx, failInsert: o.failInsert}, nil
}

type brokenCommitTx struct {
	repository.OrderTx
	failInsert bool
}

func (tx *brokenCommitTx) InsertOrder(ctx context.Context, order *models.Order) error {
	if tx.failInsert {
		return errors.New("primary store rejected insert")
	}
	return tx.OrderTx.InsertOrder(ctx, order)
}

func (tx *brokenCommitTx) Commit() error {
	tx.OrderTx.Rollback()
	return errors.New("connection lost during commit")
}

// stickyCart refuses to be cleared
type stickyCart struct {
	repository.CartRepositoryInterface
}

func (c *stickyCart) Clear(ctx context.Context, userID string) error {
	return errors.New("cart store read-only")
}

type recordingReceipts struct {
	mu     sync.Mutex
	orders []string
}

func (r *recordingReceipts) Publish(order *models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, order.OrderID)
}

// lostAckReplicas stores the record and then reports a failure
type lostAckReplicas struct {
	repository.UnifiedOrderRepositoryInterface
	attempts int
}

func (r *lostAckReplicas) Upsert(ctx context.Context, order *models.UnifiedOrder) error {
	r.attempts++
	if err := r.UnifiedOrderRepositoryInterface.Upsert(ctx, order); err != nil {
		return err
	}
	return errors.New("i/o timeout reading ack")
}

// racingCart adds a line right after the checkout has read the cart
type racingCart struct {
	repository.CartRepositoryInterface
	extra models.CartItem
	done  bool
}

func (c *racingCart) Load(ctx context.Context, userID string) ([]models.CartItem, error) {
	items, err := c.CartRepositoryInterface.Load(ctx, userID)
	if err != nil || c.done {
		return items, err
	}
	c.done = true
	updated := append(append([]models.CartItem{}, items...), c.extra)
	if err := c.CartRepositoryInterface.Save(ctx, userID, updated); err != nil {
		return nil, err
	}
	return items, nil
}
