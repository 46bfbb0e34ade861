package catalog

import (
	"context"
	"testing"

	"github.com/bozowang/fdsell/internal/domain"
	"github.com/bozowang/fdsell/internal/supplier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSupplier struct {
	mock.Mock
}

func (m *mockSupplier) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Restaurant), args.Error(1)
}

func (m *mockSupplier) ListMenu(ctx context.Context, restaurantName string) ([]domain.MenuItem, error) {
	args := m.Called(ctx, restaurantName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MenuItem), args.Error(1)
}

func (m *mockSupplier) ConfirmOrder(ctx context.Context, details domain.OrderDetails, items []domain.CartItem) supplier.Confirmation {
	args := m.Called(ctx, details, items)
	return args.Get(0).(supplier.Confirmation)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetRestaurants(ctx context.Context) ([]domain.Restaurant, bool) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]domain.Restaurant), args.Bool(1)
}

func (m *mockCache) SetRestaurants(ctx context.Context, restaurants []domain.Restaurant) error {
	return m.Called(ctx, restaurants).Error(0)
}

func (m *mockCache) GetMenu(ctx context.Context, restaurantName string) ([]domain.MenuItem, bool) {
	args := m.Called(ctx, restaurantName)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]domain.MenuItem), args.Bool(1)
}

func (m *mockCache) SetMenu(ctx context.Context, restaurantName string, items []domain.MenuItem) error {
	return m.Called(ctx, restaurantName, items).Error(0)
}

func TestService_RestaurantsCacheHitSkipsSupplier(t *testing.T) {
	sup := new(mockSupplier)
	cache := new(mockCache)
	svc := NewService(sup, cache, zap.NewNop().Sugar())

	ctx := context.Background()
	cached := []domain.Restaurant{{ID: "r1", Name: "鼎泰豐"}}
	cache.On("GetRestaurants", ctx).Return(cached, true).Once()

	restaurants, err := svc.Restaurants(ctx)
	require.NoError(t, err)
	assert.Equal(t, cached, restaurants)
	sup.AssertNotCalled(t, "ListRestaurants", mock.Anything)
}

func TestService_RestaurantsCacheMissFillsCache(t *testing.T) {
	sup := new(mockSupplier)
	cache := new(mockCache)
	svc := NewService(sup, cache, zap.NewNop().Sugar())

	ctx := context.Background()
	fresh := []domain.Restaurant{{ID: "r1", Name: "鼎泰豐"}}
	cache.On("GetRestaurants", ctx).Return(nil, false).Once()
	sup.On("ListRestaurants", ctx).Return(fresh, nil).Once()
	cache.On("SetRestaurants", ctx, fresh).Return(nil).Once()

	restaurants, err := svc.Restaurants(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh, restaurants)
	cache.AssertExpectations(t)
}

func TestService_RestaurantsSupplierFaultSurfacesTypedError(t *testing.T) {
	sup := new(mockSupplier)
	svc := NewService(sup, nil, zap.NewNop().Sugar())

	ctx := context.Background()
	sup.On("ListRestaurants", ctx).Return(nil, supplier.ErrUnavailable).Once()

	restaurants, err := svc.Restaurants(ctx)
	assert.ErrorIs(t, err, supplier.ErrUnavailable)
	assert.Empty(t, restaurants)
}

func TestService_MenuCacheFaultDegradesToSupplier(t *testing.T) {
	sup := new(mockSupplier)
	cache := new(mockCache)
	svc := NewService(sup, cache, zap.NewNop().Sugar())

	ctx := context.Background()
	items := []domain.MenuItem{{ID: "m1", Name: "小籠包", Price: 220, RestaurantName: "鼎泰豐"}}
	cache.On("GetMenu", ctx, "鼎泰豐").Return(nil, false).Once()
	sup.On("ListMenu", ctx, "鼎泰豐").Return(items, nil).Once()
	cache.On("SetMenu", ctx, "鼎泰豐", items).Return(assert.AnError).Once()

	got, err := svc.Menu(ctx, "鼎泰豐")
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestService_MenuEmptyResultSurfaced(t *testing.T) {
	sup := new(mockSupplier)
	svc := NewService(sup, nil, zap.NewNop().Sugar())

	ctx := context.Background()
	sup.On("ListMenu", ctx, "鼎泰豐").Return(nil, supplier.ErrEmptyResult).Once()

	got, err := svc.Menu(ctx, "鼎泰豐")
	assert.ErrorIs(t, err, supplier.ErrEmptyResult)
	assert.Empty(t, got)
}
