package supplier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bozowang/fdsell/internal/domain"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type GeminiSupplier struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	logger  *zap.SugaredLogger
	now     func() time.Time
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

func NewGeminiSupplier(cfg Config, logger *zap.SugaredLogger) (*GeminiSupplier, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &GeminiSupplier{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		logger:  logger,
		now:     time.Now,
	}, nil
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiSupplier) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	prompt := "List 12 popular and diverse food delivery restaurants in Taipei, Taiwan. " +
		"Provide a variety of cuisine types. For each restaurant, include a unique id, name, " +
		"category, a realistic rating between 3.5 and 5.0, number of reviews, estimated delivery time, " +
		"minimum order value in TWD, and a relevant image URL. " +
		`Respond with a JSON array of objects with keys: id, name, category, rating, reviews, deliveryTime, minOrder, image.`

	var restaurants []domain.Restaurant
	if err := g.generate(ctx, prompt, &restaurants); err != nil {
		return nil, err
	}

	if len(restaurants) == 0 {
		return nil, ErrEmptyResult
	}

	return restaurants, nil
}

func (g *GeminiSupplier) ListMenu(ctx context.Context, restaurantName string) ([]domain.MenuItem, error) {
	prompt := fmt.Sprintf("Generate a realistic menu with 8-12 items for a restaurant in Taiwan called %q. "+
		"For each menu item, provide a unique id, its name, and price in TWD. "+
		"Respond with a JSON array of objects with keys: id, name, price.", restaurantName)

	var items []domain.MenuItem
	if err := g.generate(ctx, prompt, &items); err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, ErrEmptyResult
	}

	// the model does not know which restaurant it generated for
	for i := range items {
		items[i].RestaurantName = restaurantName
	}

	return items, nil
}

func (g *GeminiSupplier) ConfirmOrder(ctx context.Context, details domain.OrderDetails, items []domain.CartItem) Confirmation {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, fmt.Sprintf("%s (x%d)", item.Name, item.Quantity))
	}

	prompt := fmt.Sprintf("A customer named %s has placed a food delivery order for these items: %s. "+
		"The delivery address is %s. Please generate a unique 8-character alphanumeric order number "+
		"and estimate the delivery time, assuming delivery takes between 25 to 50 minutes. "+
		"Respond with a JSON object with keys: orderNumber, estimatedDeliveryTime.",
		details.CustomerName, strings.Join(names, ", "), details.DeliveryAddress)

	var confirmation Confirmation
	if err := g.generate(ctx, prompt, &confirmation); err != nil {
		g.logger.Warnw("order confirmation fell back to local generation", "error", err)
		return FallbackConfirmation(g.now())
	}

	if confirmation.OrderNumber == "" || confirmation.EstimatedDeliveryTime == "" {
		return FallbackConfirmation(g.now())
	}

	return confirmation
}

// generate issues one generateContent call and decodes the model's JSON text
// into out. All faults collapse to ErrUnavailable or ErrEmptyResult.
func (g *GeminiSupplier) generate(ctx context.Context, prompt string, out any) error {
	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return fmt.Errorf("%w: marshal request: %v", ErrUnavailable, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return ErrEmptyResult
	}

	text := strings.TrimSpace(decoded.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return ErrEmptyResult
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%w: unmarshal model output: %v", ErrUnavailable, err)
	}

	return nil
}
