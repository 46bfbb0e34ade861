package session

import (
	"sync"
	"time"

	"github.com/bozowang/fdsell/internal/cart"
	"github.com/bozowang/fdsell/internal/domain"
	"github.com/bozowang/fdsell/internal/notify"
)

// Session owns one customer's order lifecycle: the visible screen, the loaded
// catalog, the cart ledger and, after a successful checkout, the confirmed
// order. All mutation goes through Controller commands; handlers only ever see
// read-only snapshots.
type Session struct {
	ID string

	mu            sync.Mutex
	screen        Screen
	restaurants   []domain.Restaurant
	selected      *domain.Restaurant
	menu          []domain.MenuItem
	menuFetchSeq  uint64
	ledger        *cart.Ledger
	notifications *notify.Channel
	confirmed     *domain.ConfirmedOrder
	lastActive    time.Time
}

func newSession(id string, now func() time.Time) *Session {
	return &Session{
		ID:            id,
		screen:        ScreenRestaurants,
		ledger:        cart.NewLedger(),
		notifications: notify.NewChannel(now),
		lastActive:    now(),
	}
}

// Snapshot is the read-only projection handlers serialize to the client.
type Snapshot struct {
	SessionID          string                 `json:"sessionId"`
	Screen             Screen                 `json:"screen"`
	Restaurants        []domain.Restaurant    `json:"restaurants"`
	SelectedRestaurant *domain.Restaurant     `json:"selectedRestaurant,omitempty"`
	Menu               []domain.MenuItem      `json:"menu"`
	Cart               []domain.CartItem      `json:"cart"`
	CartItemCount      int                    `json:"cartItemCount"`
	CartSubtotal       float64                `json:"cartSubtotal"`
	ConfirmedOrder     *domain.ConfirmedOrder `json:"confirmedOrder,omitempty"`
	Notification       *notify.Notification   `json:"notification,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	var selected *domain.Restaurant
	if s.selected != nil {
		restaurant := *s.selected
		selected = &restaurant
	}

	var confirmed *domain.ConfirmedOrder
	if s.confirmed != nil {
		order := *s.confirmed
		confirmed = &order
	}

	restaurants := make([]domain.Restaurant, len(s.restaurants))
	copy(restaurants, s.restaurants)

	menu := make([]domain.MenuItem, len(s.menu))
	copy(menu, s.menu)

	return Snapshot{
		SessionID:          s.ID,
		Screen:             s.screen,
		Restaurants:        restaurants,
		SelectedRestaurant: selected,
		Menu:               menu,
		Cart:               s.ledger.Items(),
		CartItemCount:      s.ledger.ItemCount(),
		CartSubtotal:       s.ledger.Subtotal(),
		ConfirmedOrder:     confirmed,
		Notification:       s.notifications.Active(),
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastActive = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return now.Sub(s.lastActive)
}
