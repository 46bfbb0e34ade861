package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/bozowang/fdsell/internal/catalog"
	"github.com/bozowang/fdsell/internal/domain"
	"github.com/bozowang/fdsell/internal/order"
	"go.uber.org/zap"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found in current listing")
	ErrMenuItemNotFound   = errors.New("menu item not found in current menu")
	ErrIllegalTransition  = errors.New("illegal screen transition")
	ErrCheckoutRejected   = errors.New("checkout rejected")
)

// Controller applies commands to sessions. It owns every legal transition of
// the order lifecycle; handlers never mutate session fields directly.
type Controller struct {
	catalog  *catalog.Service
	checkout *order.CheckoutService
	logger   *zap.SugaredLogger
}

func NewController(cat *catalog.Service, checkout *order.CheckoutService, logger *zap.SugaredLogger) *Controller {
	return &Controller{
		catalog:  cat,
		checkout: checkout,
		logger:   logger,
	}
}

// LoadRestaurants populates the session's listing. An empty or failed load
// leaves the listing empty and surfaces an error notification; it never fails
// the caller.
func (c *Controller) LoadRestaurants(ctx context.Context, s *Session) {
	restaurants, err := c.catalog.Restaurants(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil || len(restaurants) == 0 {
		s.notifications.Error("無法載入餐廳列表，請稍後再試。")
		return
	}

	s.restaurants = restaurants
}

// SelectRestaurant enters the Menu screen and loads the restaurant's menu.
// The previous menu is cleared before the fetch so stale items are never shown
// under the new restaurant, and the fetch carries a sequence token: a
// completion that lost the race to a newer selection is discarded.
func (c *Controller) SelectRestaurant(ctx context.Context, s *Session, restaurantID string) error {
	s.mu.Lock()

	var selected *domain.Restaurant
	for i := range s.restaurants {
		if s.restaurants[i].ID == restaurantID {
			restaurant := s.restaurants[i]
			selected = &restaurant
			break
		}
	}

	if selected == nil {
		s.mu.Unlock()
		return ErrRestaurantNotFound
	}

	s.selected = selected
	s.screen = ScreenMenu
	s.menu = nil
	s.menuFetchSeq++
	seq := s.menuFetchSeq
	name := selected.Name
	s.mu.Unlock()

	items, err := c.catalog.Menu(ctx, name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.menuFetchSeq {
		// a newer selection superseded this fetch
		c.logger.Debugw("discarding stale menu fetch", "session_id", s.ID, "restaurant", name)
		return nil
	}

	if err != nil || len(items) == 0 {
		s.notifications.Error(fmt.Sprintf("無法載入 %s 的菜單。", name))
		return nil
	}

	s.menu = items

	return nil
}

// Navigate applies an explicit screen change request. Confirmation is never a
// legal target; it is only entered through a successful checkout.
func (c *Controller) Navigate(s *Session, target Screen) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch target {
	case ScreenRestaurants:
		s.screen = ScreenRestaurants
		s.selected = nil
		s.menu = nil
		// invalidate any in-flight menu fetch for the abandoned selection
		s.menuFetchSeq++
	case ScreenMenu:
		// back from cart without a selected restaurant falls through to the
		// listing instead of failing
		if s.selected == nil {
			s.screen = ScreenRestaurants
		} else {
			s.screen = ScreenMenu
		}
	case ScreenCart:
		s.screen = ScreenCart
	case ScreenCheckout:
		if s.screen != ScreenCart {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.screen, target)
		}
		s.screen = ScreenCheckout
	default:
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.screen, target)
	}

	return nil
}

// AddItem puts one unit of a menu item into the cart and confirms it with a
// notification naming the item.
func (c *Controller) AddItem(s *Session, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var item *domain.MenuItem
	for i := range s.menu {
		if s.menu[i].ID == itemID {
			item = &s.menu[i]
			break
		}
	}

	if item == nil {
		return ErrMenuItemNotFound
	}

	s.ledger.Add(*item)
	s.notifications.Success(fmt.Sprintf("已將「%s」加入購物車！", item.Name))

	return nil
}

// SetQuantity updates a cart entry's quantity; zero or less removes it.
func (c *Controller) SetQuantity(s *Session, itemID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		if removed, existed := s.ledger.Remove(itemID); existed {
			s.notifications.Success(fmt.Sprintf("已從購物車移除「%s」。", removed.Name))
		}
		return
	}

	s.ledger.SetQuantity(itemID, quantity)
}

// RemoveItem deletes a cart entry. Absent IDs change nothing and emit no
// notification.
func (c *Controller) RemoveItem(s *Session, itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if removed, existed := s.ledger.Remove(itemID); existed {
		s.notifications.Success(fmt.Sprintf("已從購物車移除「%s」。", removed.Name))
	}
}

// Checkout submits the order. On success the cart is cleared and the session
// advances to Confirmation; on any failure the session stays on Checkout with
// the cart untouched so the customer can retry.
func (c *Controller) Checkout(ctx context.Context, s *Session, details domain.OrderDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen != ScreenCheckout {
		return fmt.Errorf("%w: checkout from %s", ErrIllegalTransition, s.screen)
	}

	confirmed, err := c.checkout.Submit(ctx, details, s.ledger.Items())
	if err != nil {
		s.notifications.Error(checkoutFailureMessage(err))
		return fmt.Errorf("%w: %s", ErrCheckoutRejected, err)
	}

	s.confirmed = confirmed
	s.ledger.Clear()
	s.screen = ScreenConfirmation
	s.notifications.Success("訂單成功送出！")

	return nil
}

// checkoutFailureMessage maps an internal failure to the customer-facing
// string. Gateway rejections carry a displayable message; everything else gets
// the generic fallback.
func checkoutFailureMessage(err error) string {
	var saveErr *order.SaveError
	if errors.As(err, &saveErr) {
		return fmt.Sprintf("訂單提交失敗：%s", saveErr.Message)
	}

	if errors.Is(err, order.ErrEmptyCart) {
		return "購物車是空的，無法提交訂單。"
	}

	return "訂單提交失敗：發生未知錯誤，無法提交訂單。"
}

// NewOrder resets a confirmed session back to the restaurant listing.
func (c *Controller) NewOrder(s *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen != ScreenConfirmation {
		return fmt.Errorf("%w: new order from %s", ErrIllegalTransition, s.screen)
	}

	s.confirmed = nil
	s.selected = nil
	s.menu = nil
	s.menuFetchSeq++
	s.screen = ScreenRestaurants

	return nil
}

// DismissNotification clears the active notification; dismissing twice has no
// additional effect.
func (c *Controller) DismissNotification(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications.Dismiss()
}
