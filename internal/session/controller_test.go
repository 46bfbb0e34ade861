package session

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/bozowang/fdsell/internal/catalog"
	"github.com/bozowang/fdsell/internal/domain"
	"github.com/bozowang/fdsell/internal/gateway"
	"github.com/bozowang/fdsell/internal/order"
	"github.com/bozowang/fdsell/internal/supplier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSupplier struct {
	restaurants []domain.Restaurant
	menus       map[string][]domain.MenuItem
	listErr     error
	menuErr     error
	confirm     *supplier.Confirmation
}

func (s *stubSupplier) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.restaurants, nil
}

func (s *stubSupplier) ListMenu(ctx context.Context, restaurantName string) ([]domain.MenuItem, error) {
	if s.menuErr != nil {
		return nil, s.menuErr
	}
	items, ok := s.menus[restaurantName]
	if !ok || len(items) == 0 {
		return nil, supplier.ErrEmptyResult
	}
	return items, nil
}

func (s *stubSupplier) ConfirmOrder(ctx context.Context, details domain.OrderDetails, items []domain.CartItem) supplier.Confirmation {
	if s.confirm != nil {
		return *s.confirm
	}
	return supplier.FallbackConfirmation(time.Now())
}

type stubGateway struct {
	result gateway.Result
	err    error
	calls  int
}

func (g *stubGateway) SaveOrder(ctx context.Context, o *domain.ConfirmedOrder) (gateway.Result, error) {
	g.calls++
	return g.result, g.err
}

func fixtureSupplier() *stubSupplier {
	return &stubSupplier{
		restaurants: []domain.Restaurant{
			{ID: "r1", Name: "鼎泰豐", Category: "中式料理", Rating: 4.8},
			{ID: "r2", Name: "春水堂", Category: "茶飲", Rating: 4.5},
		},
		menus: map[string][]domain.MenuItem{
			"鼎泰豐": {
				{ID: "m1", Name: "炒飯", Price: 120, RestaurantName: "鼎泰豐"},
				{ID: "m2", Name: "小籠包", Price: 220, RestaurantName: "鼎泰豐"},
			},
		},
	}
}

func newTestController(sup supplier.Supplier, gw gateway.Gateway) *Controller {
	logger := zap.NewNop().Sugar()
	cat := catalog.NewService(sup, nil, logger)
	checkout := order.NewCheckoutService(sup, gw, nil, logger, 30)

	return NewController(cat, checkout, logger)
}

func loadedSession(t *testing.T, c *Controller) *Session {
	t.Helper()

	s := newSession("test-session", time.Now)
	c.LoadRestaurants(context.Background(), s)
	require.NotEmpty(t, s.Snapshot().Restaurants)

	return s
}

func checkoutDetails() domain.OrderDetails {
	return domain.OrderDetails{
		CustomerName:    "王小明",
		CustomerPhone:   "0912345678",
		DeliveryAddress: "台北市信義區松壽路1號",
		PaymentMethod:   domain.PaymentCash,
	}
}

// drives a session to the checkout screen with 2x 炒飯 in the cart
func sessionAtCheckout(t *testing.T, c *Controller) *Session {
	t.Helper()

	s := loadedSession(t, c)
	ctx := context.Background()

	require.NoError(t, c.SelectRestaurant(ctx, s, "r1"))
	require.NoError(t, c.AddItem(s, "m1"))
	require.NoError(t, c.AddItem(s, "m1"))
	require.NoError(t, c.Navigate(s, ScreenCart))
	require.NoError(t, c.Navigate(s, ScreenCheckout))

	return s
}

func TestController_InitialScreenIsRestaurants(t *testing.T) {
	s := newSession("x", time.Now)

	assert.Equal(t, ScreenRestaurants, s.Snapshot().Screen)
}

func TestController_LoadRestaurantsFaultLeavesListingEmptyWithNotification(t *testing.T) {
	sup := fixtureSupplier()
	sup.listErr = supplier.ErrUnavailable
	c := newTestController(sup, &stubGateway{})

	s := newSession("x", time.Now)
	c.LoadRestaurants(context.Background(), s)

	snapshot := s.Snapshot()
	assert.Empty(t, snapshot.Restaurants)
	require.NotNil(t, snapshot.Notification)
	assert.Equal(t, "error", string(snapshot.Notification.Kind))
}

func TestController_SelectRestaurantEntersMenu(t *testing.T) {
	c := newTestController(fixtureSupplier(), &stubGateway{})
	s := loadedSession(t, c)

	require.NoError(t, c.SelectRestaurant(context.Background(), s, "r1"))

	snapshot := s.Snapshot()
	assert.Equal(t, ScreenMenu, snapshot.Screen)
	require.NotNil(t, snapshot.SelectedRestaurant)
	assert.Equal(t, "鼎泰豐", snapshot.SelectedRestaurant.Name)
	assert.Len(t, snapshot.Menu, 2)
}

func TestController_SelectRestaurantUnknownID(t *testing.T) {
	c := newTestController(fixtureSupplier(), &stubGateway{})
	s := loadedSession(t, c)

	err := c.SelectRestaurant(context.Background(), s, "missing")
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
	assert.Equal(t, ScreenRestaurants, s.Snapshot().Screen)
}

func TestController_EmptyMenuStillEntersMenuScreen(t *testing.T) {
	// r2 has no menu: navigation proceeds, an error notification is emitted,
	// and the previous restaurant's menu is not shown
	c := newTestController(fixtureSupplier(), &stubGateway{})
	s := loadedSession(t, c)
	ctx := context.Background()

	require.NoError(t, c.SelectRestaurant(ctx, s, "r1"))
	require.NotEmpty(t, s.Snapshot().Menu)

	require.NoError(t, c.SelectRestaurant(ctx, s, "r2"))

	snapshot := s.Snapshot()
	assert.Equal(t, ScreenMenu, snapshot.Screen)
	assert.Empty(t, snapshot.Menu)
	require.NotNil(t, snapshot.Notification)
	assert.Contains(t, snapshot.Notification.Message, "春水堂")
}

func TestController_NavigateBackToMenuWithoutSelectionFallsBackToRestaurants(t *testing.T) {
	c := newTestController(fixtureSupplier(), &stubGateway{})
	s := loadedSession(t, c)

	require.NoError(t, c.Navigate(s, ScreenCart))
	require.NoError(t, c.Navigate(s, ScreenMenu))

	assert.Equal(t, ScreenRestaurants, s.Snapshot().Screen)
}

func TestController_NavigateToCheckoutOnlyFromCart(t *testing.T) {
	c := newTestController(fixtureSupplier(), &stubGateway{})
	s := loadedSession(t, c)

	err := c.Navigate(s, ScreenCheckout)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	require.NoError(t, c.Navigate(s, ScreenCart))
	require.NoError(t, c.Navigate(s, ScreenCheckout))
	assert.Equal(t, ScreenCheckout, s.Snapshot().Screen)
}

func TestController_ConfirmationIsNotANavigationTarget(t *testing.T) {
	c := newTestController(fixtureSupplier(), &stubGateway{})
	s := loadedSession(t, c)

	err := c.Navigate(s, ScreenConfirmation)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestController_NavigateToRestaurantsClearsSelection(t *testing.T) {
	c := newTestController(fixtureSupplier(), &stubGateway{})
	s := loadedSession(t, c)

	require.NoError(t, c.SelectRestaurant(context.Background(), s, "r1"))
	require.NoError(t, c.Navigate(s, ScreenRestaurants))

	assert.Nil(t, s.Snapshot().SelectedRestaurant)
}

// blockingSupplier parks ListMenu until released so a command can be applied
// while the fetch is still in flight.
type blockingSupplier struct {
	*stubSupplier
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSupplier) ListMenu(ctx context.Context, restaurantName string) ([]domain.MenuItem, error) {
	b.entered <- struct{}{}
	<-b.release
	return b.stubSupplier.ListMenu(ctx, restaurantName)
}

func TestController_NavigateAwayDiscardsInFlightMenuFetch(t *testing.T) {
	sup := &blockingSupplier{
		stubSupplier: fixtureSupplier(),
		entered:      make(chan struct{}),
		release:      make(chan struct{}),
	}
	c := newTestController(sup, &stubGateway{})
	s := loadedSession(t, c)

	done := make(chan error, 1)
	go func() {
		done <- c.SelectRestaurant(context.Background(), s, "r1")
	}()

	<-sup.entered
	require.NoError(t, c.Navigate(s, ScreenRestaurants))
	close(sup.release)
	require.NoError(t, <-done)

	// the deselected restaurant's menu must not reappear
	snapshot := s.Snapshot()
	assert.Equal(t, ScreenRestaurants, snapshot.Screen)
	assert.Nil(t, snapshot.SelectedRestaurant)
	assert.Empty(t, snapshot.Menu)
}

func TestController_NewerSelectionWinsOverSlowFetch(t *testing.T) {
	sup := &blockingSupplier{
		stubSupplier: fixtureSupplier(),
		entered:      make(chan struct{}),
		release:      make(chan struct{}),
	}
	c := newTestController(sup, &stubGateway{})
	s := loadedSession(t, c)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		done <- c.SelectRestaurant(ctx, s, "r1")
	}()

	<-sup.entered

	second := make(chan error, 1)
	go func() {
		second <- c.SelectRestaurant(ctx, s, "r2")
	}()

	<-sup.entered
	sup.release <- struct{}{}
	sup.release <- struct{}{}
	require.NoError(t, <-done)
	require.NoError(t, <-second)

	// r2 has no menu: the stale r1 completion must not fill it in
	snapshot := s.Snapshot()
	require.NotNil(t, snapshot.SelectedRestaurant)
	assert.Equal(t, "春水堂", snapshot.SelectedRestaurant.Name)
	assert.Empty(t, snapshot.Menu)
}

func TestController_AddItemEmitsNotification(t *testing.T) {
	c := newTestController(fixtureSupplier(), &stubGateway{})
	s := loadedSession(t, c)

	require.NoError(t, c.SelectRestaurant(context.Background(), s, "r1"))
	require.NoError(t, c.AddItem(s, "m1"))

	snapshot := s.Snapshot()
	assert.Equal(t, 1, snapshot.CartItemCount)
	require.NotNil(t, snapshot.Notification)
	assert.Contains(t, snapshot.Notification.Message, "炒飯")
	assert.Equal(t, "success", string(snapshot.Notification.Kind))
}

func TestController_AddUnknownItem(t *testing.T) {
	c := newTestController(fixtureSupplier(), &stubGateway{})
	s := loadedSession(t, c)

	require.NoError(t, c.SelectRestaurant(context.Background(), s, "r1"))

	err := c.AddItem(s, "missing")
	assert.ErrorIs(t, err, ErrMenuItemNotFound)
	assert.Equal(t, 0, s.Snapshot().CartItemCount)
}

func TestController_RemoveAbsentItemEmitsNoNotification(t *testing.T) {
	c := newTestController(fixtureSupplier(), &stubGateway{})
	s := loadedSession(t, c)

	c.RemoveItem(s, "missing")

	snapshot := s.Snapshot()
	assert.Equal(t, 0, snapshot.CartItemCount)
	assert.Nil(t, snapshot.Notification)
}

func TestController_CheckoutSuccess(t *testing.T) {
	gw := &stubGateway{result: gateway.Result{Success: true, Message: "訂單已儲存"}}
	c := newTestController(fixtureSupplier(), gw)
	s := sessionAtCheckout(t, c)

	require.NoError(t, c.Checkout(context.Background(), s, checkoutDetails()))

	snapshot := s.Snapshot()
	assert.Equal(t, ScreenConfirmation, snapshot.Screen)
	assert.Empty(t, snapshot.Cart)
	require.NotNil(t, snapshot.ConfirmedOrder)
	assert.InDelta(t, 240, snapshot.ConfirmedOrder.Subtotal, 0.001)
	assert.InDelta(t, 270, snapshot.ConfirmedOrder.Total, 0.001)
	require.NotNil(t, snapshot.Notification)
	assert.Equal(t, "訂單成功送出！", snapshot.Notification.Message)
}

func TestController_CheckoutGatewayFailureKeepsCartAndScreen(t *testing.T) {
	gw := &stubGateway{result: gateway.Result{Success: false, Message: "試算表已滿"}}
	c := newTestController(fixtureSupplier(), gw)
	s := sessionAtCheckout(t, c)

	err := c.Checkout(context.Background(), s, checkoutDetails())
	assert.ErrorIs(t, err, ErrCheckoutRejected)

	snapshot := s.Snapshot()
	assert.Equal(t, ScreenCheckout, snapshot.Screen)
	assert.NotEmpty(t, snapshot.Cart)
	assert.Nil(t, snapshot.ConfirmedOrder)
	require.NotNil(t, snapshot.Notification)
	assert.Contains(t, snapshot.Notification.Message, "試算表已滿")
}

func TestController_CheckoutTransportFaultGetsGenericMessage(t *testing.T) {
	gw := &stubGateway{err: errors.New("connection refused")}
	c := newTestController(fixtureSupplier(), gw)
	s := sessionAtCheckout(t, c)

	err := c.Checkout(context.Background(), s, checkoutDetails())
	assert.ErrorIs(t, err, ErrCheckoutRejected)

	snapshot := s.Snapshot()
	require.NotNil(t, snapshot.Notification)
	assert.NotContains(t, snapshot.Notification.Message, "connection refused")
}

func TestController_CheckoutRetrySucceedsAfterFailure(t *testing.T) {
	gw := &stubGateway{err: errors.New("temporary outage")}
	c := newTestController(fixtureSupplier(), gw)
	s := sessionAtCheckout(t, c)
	ctx := context.Background()

	require.Error(t, c.Checkout(ctx, s, checkoutDetails()))

	gw.err = nil
	gw.result = gateway.Result{Success: true}

	require.NoError(t, c.Checkout(ctx, s, checkoutDetails()))
	assert.Equal(t, ScreenConfirmation, s.Snapshot().Screen)
	assert.Equal(t, 2, gw.calls)
}

func TestController_CheckoutWithSupplierFaultUsesFallbackConfirmation(t *testing.T) {
	sup := fixtureSupplier()
	gw := &stubGateway{result: gateway.Result{Success: true}}
	c := newTestController(sup, gw)
	s := sessionAtCheckout(t, c)

	require.NoError(t, c.Checkout(context.Background(), s, checkoutDetails()))

	confirmed := s.Snapshot().ConfirmedOrder
	require.NotNil(t, confirmed)
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{6}$`), confirmed.OrderNumber)
	assert.NotEmpty(t, confirmed.EstimatedDeliveryTime)
}

func TestController_NewOrderResetsToRestaurants(t *testing.T) {
	gw := &stubGateway{result: gateway.Result{Success: true}}
	c := newTestController(fixtureSupplier(), gw)
	s := sessionAtCheckout(t, c)

	require.NoError(t, c.Checkout(context.Background(), s, checkoutDetails()))
	require.NoError(t, c.NewOrder(s))

	snapshot := s.Snapshot()
	assert.Equal(t, ScreenRestaurants, snapshot.Screen)
	assert.Nil(t, snapshot.SelectedRestaurant)
	assert.Empty(t, snapshot.Menu)
	assert.Nil(t, snapshot.ConfirmedOrder)
	// restaurant listing survives the reset
	assert.NotEmpty(t, snapshot.Restaurants)
}

func TestController_NewOrderOnlyFromConfirmation(t *testing.T) {
	c := newTestController(fixtureSupplier(), &stubGateway{})
	s := loadedSession(t, c)

	err := c.NewOrder(s)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestController_SetQuantityZeroRemovesAndNotifies(t *testing.T) {
	c := newTestController(fixtureSupplier(), &stubGateway{})
	s := loadedSession(t, c)

	require.NoError(t, c.SelectRestaurant(context.Background(), s, "r1"))
	require.NoError(t, c.AddItem(s, "m1"))

	c.SetQuantity(s, "m1", 0)

	snapshot := s.Snapshot()
	assert.Empty(t, snapshot.Cart)
	require.NotNil(t, snapshot.Notification)
	assert.Contains(t, snapshot.Notification.Message, "移除")
}

func TestController_DismissNotificationIsIdempotent(t *testing.T) {
	c := newTestController(fixtureSupplier(), &stubGateway{})
	s := loadedSession(t, c)

	require.NoError(t, c.SelectRestaurant(context.Background(), s, "r1"))
	require.NoError(t, c.AddItem(s, "m1"))
	require.NotNil(t, s.Snapshot().Notification)

	c.DismissNotification(s)
	assert.Nil(t, s.Snapshot().Notification)

	c.DismissNotification(s)
	assert.Nil(t, s.Snapshot().Notification)
}
