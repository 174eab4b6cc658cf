package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarwah/shopline-api/internal/models"
	"github.com/tmarwah/shopline-api/internal/repository"
	apperrors "github.com/tmarwah/shopline-api/pkg/errors"
	"github.com/tmarwah/shopline-api/pkg/logger"
)

// fakeOrderStore is an in-memory OrderStore. UpdateAtomic mutates a copy
// so a rejected mutation leaves the stored order untouched, matching the
// transactional repository.
type fakeOrderStore struct {
	orders     map[string]*models.Order
	outbox     []*models.OutboxMessage
	lastFilter repository.OrderFilter
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]*models.Order)}
}

func (f *fakeOrderStore) Create(ctx context.Context, order *models.Order, msg *models.OutboxMessage) error {
	f.orders[order.ID] = cloneOrder(order)
	if msg != nil {
		f.outbox = append(f.outbox, msg)
	}
	return nil
}

func (f *fakeOrderStore) UpdateAtomic(ctx context.Context, id string, mutate func(order *models.Order) (*models.OutboxMessage, error)) (*models.Order, error) {
	stored, ok := f.orders[id]

	if !ok {
		return nil, repository.ErrNotFound
	}

	working := cloneOrder(stored)
	msg, err := mutate(working)

	if err != nil {
		return nil, err
	}

	f.orders[id] = working
	if msg != nil {
		f.outbox = append(f.outbox, msg)
	}
	return cloneOrder(working), nil
}

func (f *fakeOrderStore) GetByID(ctx context.Context, id string) (*models.Order, error) {
	order, ok := f.orders[id]

	if !ok {
		return nil, repository.ErrNotFound
	}

	return cloneOrder(order), nil
}

func (f *fakeOrderStore) List(ctx context.Context, filter repository.OrderFilter) ([]*models.Order, error) {
	f.lastFilter = filter
	return nil, nil
}

func (f *fakeOrderStore) Search(ctx context.Context, query string) ([]*models.Order, error) {
	return nil, nil
}

func (f *fakeOrderStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{"total": int64(len(f.orders))}, nil
}

func cloneOrder(o *models.Order) *models.Order {
	c := *o
	c.Items = append([]models.OrderItem(nil), o.Items...)
	return &c
}

type fakeCatalog struct {
	products map[string]*models.Product
}

func (f *fakeCatalog) GetByID(ctx context.Context, id string) (*models.Product, error) {
	product, ok := f.products[id]

	if !ok {
		return nil, repository.ErrNotFound
	}

	return product, nil
}

func newTestService() (*OrderService, *fakeOrderStore, *fakeCatalog) {
	store := newFakeOrderStore()
	catalog := &fakeCatalog{products: map[string]*models.Product{
		"prd-1": {ID: "prd-1", Name: "Wireless Headphones", ImageURL: "https://img/1", Price: decimal.RequireFromString("10.00")},
		"prd-2": {ID: "prd-2", Name: "Smart Watch", ImageURL: "https://img/2", Price: decimal.RequireFromString("5.00")},
	}}

	svc := NewOrderService(store, catalog, logger.NewLogger("error"))
	return svc, store, catalog
}

func draftWith(items ...models.OrderDraftItem) *models.OrderDraft {
	return &models.OrderDraft{
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		CustomerPhone:   "555-0101",
		ShippingAddress: "1 Main St",
		Items:           items,
	}
}

func TestCreateOrderComputesTotalAndDefaults(t *testing.T) {
	svc, store, _ := newTestService()

	order, err := svc.CreateOrder(context.Background(), draftWith(
		models.OrderDraftItem{ProductID: "prd-1", Quantity: 2},
		models.OrderDraftItem{ProductID: "prd-2", Quantity: 1},
	))
	require.NoError(t, err)

	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("25.00")),
		"total = %s", order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, models.PaymentMethodCOD, order.PaymentMethod)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Wireless Headphones", order.Items[0].ProductName)
	assert.True(t, order.Items[0].Price.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, order.Items[0].Subtotal().Equal(decimal.RequireFromString("20.00")))

	// order + items persisted atomically with the created event
	require.Len(t, store.outbox, 1)
	assert.Equal(t, models.EventOrderCreated, store.outbox[0].EventType)
	assert.Equal(t, order.ID, store.outbox[0].AggregateID)
}

func TestCreateOrderKeepsCallerPaymentFields(t *testing.T) {
	svc, _, _ := newTestService()

	draft := draftWith(models.OrderDraftItem{ProductID: "prd-1", Quantity: 1})
	draft.PaymentMethod = models.PaymentMethodUPI
	draft.PaymentStatus = models.PaymentStatusCompleted

	order, err := svc.CreateOrder(context.Background(), draft)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentMethodUPI, order.PaymentMethod)
	assert.Equal(t, models.PaymentStatusCompleted, order.PaymentStatus)
}

func TestCreateOrderUnknownProductPersistsNothing(t *testing.T) {
	svc, store, _ := newTestService()

	_, err := svc.CreateOrder(context.Background(), draftWith(
		models.OrderDraftItem{ProductID: "prd-1", Quantity: 1},
		models.OrderDraftItem{ProductID: "prd-missing", Quantity: 1},
	))

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, store.orders)
	assert.Empty(t, store.outbox)
}

func TestCreateOrderRejectsEmptyAndNonPositiveLines(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateOrder(context.Background(), draftWith())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.CreateOrder(context.Background(), draftWith(
		models.OrderDraftItem{ProductID: "prd-1", Quantity: 0},
	))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateOrderFreezesPriceAgainstCatalogChanges(t *testing.T) {
	svc, store, catalog := newTestService()

	order, err := svc.CreateOrder(context.Background(), draftWith(
		models.OrderDraftItem{ProductID: "prd-1", Quantity: 1},
	))
	require.NoError(t, err)

	catalog.products["prd-1"].Price = decimal.RequireFromString("999.99")

	persisted, err := store.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, persisted.Items[0].Price.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, persisted.TotalAmount.Equal(decimal.RequireFromString("10.00")))
}

func createOrderInStatus(t *testing.T, svc *OrderService, target models.OrderStatus) *models.Order {
	t.Helper()

	order, err := svc.CreateOrder(context.Background(), draftWith(
		models.OrderDraftItem{ProductID: "prd-1", Quantity: 1},
	))
	require.NoError(t, err)

	path := map[models.OrderStatus][]models.OrderStatus{
		models.OrderStatusPending:   {},
		models.OrderStatusConfirmed: {models.OrderStatusConfirmed},
		models.OrderStatusShipped:   {models.OrderStatusConfirmed, models.OrderStatusShipped},
		models.OrderStatusDelivered: {models.OrderStatusConfirmed, models.OrderStatusShipped, models.OrderStatusDelivered},
		models.OrderStatusCancelled: {models.OrderStatusCancelled},
	}

	for _, step := range path[target] {
		order, err = svc.UpdateOrderStatus(context.Background(), order.ID, step)
		require.NoError(t, err)
	}

	return order
}

func TestUpdateStatusFollowsStateMachine(t *testing.T) {
	svc, _, _ := newTestService()
	order := createOrderInStatus(t, svc, models.OrderStatusPending)

	updated, err := svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, updated.Status)

	// skipping straight to DELIVERED is not an edge
	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusDelivered)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestCancelledOrderIsTerminal(t *testing.T) {
	svc, store, _ := newTestService()
	order := createOrderInStatus(t, svc, models.OrderStatusPending)

	_, err := svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusCancelled)
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	persisted, err := store.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, persisted.Status)
}

func TestDeliveredDateSetExactlyOnce(t *testing.T) {
	svc, store, _ := newTestService()
	order := createOrderInStatus(t, svc, models.OrderStatusShipped)

	delivered, err := svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	require.NotNil(t, delivered.DeliveredDate)
	firstDeliveredDate := *delivered.DeliveredDate

	// DELIVERED is terminal: no self-loop, and the date stays put
	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusDelivered)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	persisted, err := store.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, persisted.DeliveredDate)
	assert.Equal(t, firstDeliveredDate, *persisted.DeliveredDate)
}

func TestUnrecognizedStatusStringsHaveNoEdges(t *testing.T) {
	svc, store, _ := newTestService()
	order := createOrderInStatus(t, svc, models.OrderStatusPending)

	// unrecognized target
	_, err := svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatus("TYPO"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "from PENDING to TYPO")

	persisted, err := store.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, persisted.Status)

	// unrecognized current status (e.g. hand-edited row) is terminal
	store.orders[order.ID].Status = models.OrderStatus("LIMBO")

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, models.OrderStatus("LIMBO"), store.orders[order.ID].Status)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.UpdateOrderStatus(context.Background(), "ord-missing", models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdatePaymentStatusIsUnconstrained(t *testing.T) {
	svc, store, _ := newTestService()
	order := createOrderInStatus(t, svc, models.OrderStatusPending)

	// any overwrite is allowed, in any direction
	for _, ps := range []models.PaymentStatus{
		models.PaymentStatusCompleted,
		models.PaymentStatusRefunded,
		models.PaymentStatusPending,
		models.PaymentStatusFailed,
	} {
		updated, err := svc.UpdatePaymentStatus(context.Background(), order.ID, ps)
		require.NoError(t, err)
		assert.Equal(t, ps, updated.PaymentStatus)
	}

	assert.Equal(t, models.EventPaymentStatusChanged, store.outbox[len(store.outbox)-1].EventType)

	_, err := svc.UpdatePaymentStatus(context.Background(), "ord-missing", models.PaymentStatusCompleted)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateTrackingPreservesEstimatedDateWhenAbsent(t *testing.T) {
	svc, _, _ := newTestService()
	order := createOrderInStatus(t, svc, models.OrderStatusPending)

	estimate := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

	updated, err := svc.UpdateTracking(context.Background(), order.ID, "TRK-001", &estimate)
	require.NoError(t, err)
	require.NotNil(t, updated.TrackingNumber)
	assert.Equal(t, "TRK-001", *updated.TrackingNumber)
	require.NotNil(t, updated.EstimatedDeliveryDate)
	assert.Equal(t, estimate, *updated.EstimatedDeliveryDate)

	// absent estimate: tracking number overwritten, estimate untouched
	updated, err = svc.UpdateTracking(context.Background(), order.ID, "TRK-002", nil)
	require.NoError(t, err)
	assert.Equal(t, "TRK-002", *updated.TrackingNumber)
	require.NotNil(t, updated.EstimatedDeliveryDate)
	assert.Equal(t, estimate, *updated.EstimatedDeliveryDate)

	later := estimate.AddDate(0, 0, 3)
	updated, err = svc.UpdateTracking(context.Background(), order.ID, "TRK-002", &later)
	require.NoError(t, err)
	assert.Equal(t, later, *updated.EstimatedDeliveryDate)
}

func TestLastUpdatedAdvancesOnEveryMutation(t *testing.T) {
	svc, _, _ := newTestService()

	current := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return current }

	order := createOrderInStatus(t, svc, models.OrderStatusPending)
	assert.Equal(t, current, order.LastUpdated)

	current = current.Add(time.Hour)
	updated, err := svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, current, updated.LastUpdated)

	current = current.Add(time.Hour)
	updated, err = svc.UpdatePaymentStatus(context.Background(), order.ID, models.PaymentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, current, updated.LastUpdated)
}

func TestProjectionIsPure(t *testing.T) {
	svc, store, _ := newTestService()
	order := createOrderInStatus(t, svc, models.OrderStatusPending)

	persisted, err := store.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	before := cloneOrder(persisted)

	first := ProjectOrder(persisted)
	second := ProjectOrder(persisted)

	assert.Equal(t, first, second)
	assert.Equal(t, before, persisted)

	require.Len(t, first.Items, 1)
	assert.Equal(t, "prd-1", first.Items[0].ProductID)
	assert.Equal(t, "Wireless Headphones", first.Items[0].ProductName)
	assert.Equal(t, "https://img/1", first.Items[0].ProductImageURL)
	assert.True(t, first.Items[0].Subtotal.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, first.TotalAmount.Equal(persisted.TotalAmount))
}

func TestListOrdersFilterPrecedence(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	// email+status wins over everything else
	_, err := svc.ListOrders(ctx, "jane@example.com", models.OrderStatusPending, &from, &to)
	require.NoError(t, err)
	assert.Equal(t, repository.OrderFilter{Email: "jane@example.com", Status: models.OrderStatusPending}, store.lastFilter)

	_, err = svc.ListOrders(ctx, "jane@example.com", "", &from, &to)
	require.NoError(t, err)
	assert.Equal(t, repository.OrderFilter{Email: "jane@example.com"}, store.lastFilter)

	_, err = svc.ListOrders(ctx, "", models.OrderStatusShipped, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, repository.OrderFilter{Status: models.OrderStatusShipped}, store.lastFilter)

	// date range requires both bounds
	_, err = svc.ListOrders(ctx, "", "", &from, nil)
	require.NoError(t, err)
	assert.Equal(t, repository.OrderFilter{}, store.lastFilter)

	_, err = svc.ListOrders(ctx, "", "", &from, &to)
	require.NoError(t, err)
	assert.Equal(t, repository.OrderFilter{DateFrom: &from, DateTo: &to}, store.lastFilter)
}

func TestStatusChangeEventCarriesOldAndNewStatus(t *testing.T) {
	svc, store, _ := newTestService()
	order := createOrderInStatus(t, svc, models.OrderStatusPending)

	_, err := svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusConfirmed)
	require.NoError(t, err)

	last := store.outbox[len(store.outbox)-1]
	assert.Equal(t, models.EventOrderStatusChanged, last.EventType)
	assert.Contains(t, string(last.Payload), `"old_status":"PENDING"`)
	assert.Contains(t, string(last.Payload), `"new_status":"CONFIRMED"`)
}
