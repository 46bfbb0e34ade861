package cart

import "github.com/bozowang/fdsell/internal/domain"

// Ledger is the cart's item-to-quantity mapping. Uniqueness is enforced on the
// item ID; insertion order is preserved for display only. All operations are
// synchronous, callers serialize access.
type Ledger struct {
	items []domain.CartItem
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Add increments the quantity of an existing entry by 1, or appends a new
// entry with quantity 1. It always succeeds.
func (l *Ledger) Add(item domain.MenuItem) {
	for i := range l.items {
		if l.items[i].ID == item.ID {
			l.items[i].Quantity++
			return
		}
	}

	l.items = append(l.items, domain.CartItem{MenuItem: item, Quantity: 1})
}

// SetQuantity replaces an entry's quantity. A quantity <= 0 removes the entry.
// Absent IDs are a no-op.
func (l *Ledger) SetQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		l.Remove(itemID)
		return
	}

	for i := range l.items {
		if l.items[i].ID == itemID {
			l.items[i].Quantity = quantity
			return
		}
	}
}

// Remove deletes the entry if present and reports the removed item so the
// caller can name it in a notification.
func (l *Ledger) Remove(itemID string) (domain.CartItem, bool) {
	for i := range l.items {
		if l.items[i].ID == itemID {
			removed := l.items[i]
			l.items = append(l.items[:i], l.items[i+1:]...)
			return removed, true
		}
	}

	return domain.CartItem{}, false
}

// ItemCount is the sum of all quantities, used for display badges.
func (l *Ledger) ItemCount() int {
	count := 0
	for i := range l.items {
		count += l.items[i].Quantity
	}

	return count
}

// Subtotal is the sum of price times quantity over all entries.
func (l *Ledger) Subtotal() float64 {
	sum := 0.0
	for i := range l.items {
		sum += l.items[i].Price * float64(l.items[i].Quantity)
	}

	return sum
}

func (l *Ledger) IsEmpty() bool {
	return len(l.items) == 0
}

// Items returns a copy of the entries in insertion order.
func (l *Ledger) Items() []domain.CartItem {
	items := make([]domain.CartItem, len(l.items))
	copy(items, l.items)
	return items
}

func (l *Ledger) Clear() {
	l.items = nil
}
