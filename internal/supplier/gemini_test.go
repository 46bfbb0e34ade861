package supplier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/bozowang/fdsell/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func modelResponse(t *testing.T, payload any) string {
	t.Helper()

	text, err := json.Marshal(payload)
	require.NoError(t, err)

	body, err := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": string(text)}}}},
		},
	})
	require.NoError(t, err)

	return string(body)
}

func newTestSupplier(t *testing.T, handler http.HandlerFunc) *GeminiSupplier {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s, err := NewGeminiSupplier(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}, zap.NewNop().Sugar())
	require.NoError(t, err)

	return s
}

func TestNewGeminiSupplier_MissingAPIKey(t *testing.T) {
	_, err := NewGeminiSupplier(Config{}, zap.NewNop().Sugar())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestListRestaurants_Success(t *testing.T) {
	s := newTestSupplier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(modelResponse(t, []domain.Restaurant{
			{ID: "r1", Name: "鼎泰豐", Category: "中式料理", Rating: 4.8, Reviews: 1200, DeliveryTime: "20-30 分鐘", MinOrder: 300},
		})))
	})

	restaurants, err := s.ListRestaurants(context.Background())
	require.NoError(t, err)
	require.Len(t, restaurants, 1)
	assert.Equal(t, "鼎泰豐", restaurants[0].Name)
}

func TestListRestaurants_EmptyResultIsTypedError(t *testing.T) {
	s := newTestSupplier(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(modelResponse(t, []domain.Restaurant{})))
	})

	_, err := s.ListRestaurants(context.Background())
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestListRestaurants_ServerFaultIsTypedError(t *testing.T) {
	s := newTestSupplier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := s.ListRestaurants(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestListMenu_AttachesRestaurantName(t *testing.T) {
	s := newTestSupplier(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(modelResponse(t, []domain.MenuItem{
			{ID: "m1", Name: "小籠包", Price: 220},
			{ID: "m2", Name: "蛋炒飯", Price: 180},
		})))
	})

	items, err := s.ListMenu(context.Background(), "鼎泰豐")
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, "鼎泰豐", item.RestaurantName)
	}
}

func TestConfirmOrder_UsesModelConfirmation(t *testing.T) {
	s := newTestSupplier(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(modelResponse(t, Confirmation{
			OrderNumber:           "A1B2C3D4",
			EstimatedDeliveryTime: "35 分鐘",
		})))
	})

	confirmation := s.ConfirmOrder(context.Background(), domain.OrderDetails{CustomerName: "王小明"}, nil)
	assert.Equal(t, "A1B2C3D4", confirmation.OrderNumber)
	assert.Equal(t, "35 分鐘", confirmation.EstimatedDeliveryTime)
}

func TestConfirmOrder_FaultFallsBackLocally(t *testing.T) {
	s := newTestSupplier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	s.now = func() time.Time { return time.UnixMilli(1714567890123) }

	confirmation := s.ConfirmOrder(context.Background(), domain.OrderDetails{CustomerName: "王小明"}, []domain.CartItem{
		{MenuItem: domain.MenuItem{ID: "m1", Name: "小籠包", Price: 220}, Quantity: 2},
	})

	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{6}$`), confirmation.OrderNumber)
	assert.Equal(t, "ORD-890123", confirmation.OrderNumber)
	assert.NotEmpty(t, confirmation.EstimatedDeliveryTime)
}

func TestFallbackConfirmation_Deterministic(t *testing.T) {
	confirmation := FallbackConfirmation(time.UnixMilli(1714567890123))

	assert.Equal(t, "ORD-890123", confirmation.OrderNumber)
	assert.Equal(t, "30-45 分鐘", confirmation.EstimatedDeliveryTime)
}
