package domain

// Restaurant is one entry of the browsable storefront listing. Instances are
// immutable once loaded and live until a fresh list is fetched.
type Restaurant struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Rating       float64 `json:"rating"`
	Reviews      int     `json:"reviews"`
	DeliveryTime string  `json:"deliveryTime"`
	MinOrder     int     `json:"minOrder"`
	Image        string  `json:"image"`
}

// MenuItem belongs to exactly one restaurant; its ID is unique within that
// restaurant's menu.
type MenuItem struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	RestaurantName string  `json:"restaurantName"`
}
