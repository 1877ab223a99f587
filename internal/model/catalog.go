package model

// Catalog is the salon's service menu as shown on the public site and
// edited from the admin panel.  Categories are ordered by Order; the
// services inside a category keep their stored position.
type Catalog struct {
	Categories []Category `json:"categories"`
	FAQ        []FAQ      `json:"faq"`
}

// Category groups services (e.g. oil massages, thai massages).
type Category struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Order    int       `json:"order"`
	Services []Service `json:"services"`
}

// Service is one bookable treatment.  Each variant is a duration the
// salon offers it for, with its own price.
type Service struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Image    *string   `json:"image,omitempty"`
	Variants []Variant `json:"variants"`
}

// Variant prices a service for one duration.  Prices are whole forints.
type Variant struct {
	DurationMin int `json:"durationMin"`
	PriceHUF    int `json:"priceHUF"`
}

// FAQ is a question/answer pair displayed under the catalog.
type FAQ struct {
	Q string `json:"q"`
	A string `json:"a"`
}
