package session

// Screen is the storefront's visible view. The zero value is not valid; new
// sessions start on ScreenRestaurants.
type Screen string

const (
	ScreenRestaurants  Screen = "restaurants"
	ScreenMenu         Screen = "menu"
	ScreenCart         Screen = "cart"
	ScreenCheckout     Screen = "checkout"
	ScreenConfirmation Screen = "confirmation"
)

func ParseScreen(s string) (Screen, bool) {
	switch Screen(s) {
	case ScreenRestaurants, ScreenMenu, ScreenCart, ScreenCheckout, ScreenConfirmation:
		return Screen(s), true
	}

	return "", false
}
