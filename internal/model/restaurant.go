package model

// Restaurant is the normalized view of a restaurant as the rest of the
// application consumes it.  Wire rows carry snake_case columns and a
// nullable cuisine reference; the mapper flattens them into this shape.
//
// Fields:
//  ID           – primary key identifier (uuid string).
//  Name         – display name.
//  Description  – optional marketing text ("" when absent).
//  Cuisine      – cuisine name resolved from the cuisines reference ("" when absent).
//  Image        – image URL ("" when absent).
//  Rating       – average rating, 0 when the backend has none.
//  PriceRange   – price band label such as "€€€" ("" when absent).
//  Address      – street address.
//  Phone        – contact phone ("" when absent).
//  OpeningHours – "HH:MM-HH:MM" working window applied to every weekday.
type Restaurant struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Cuisine      string  `json:"cuisine"`
	Image        string  `json:"image"`
	Rating       float64 `json:"rating"`
	PriceRange   string  `json:"priceRange"`
	Address      string  `json:"address"`
	Phone        string  `json:"phone"`
	OpeningHours string  `json:"openingHours"`
}
