package domain

import "time"

// Product is a catalog entry. Price is stored in minor currency units.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Brand       string    `json:"brand,omitempty"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price"`
	Images      []string  `json:"images"`
	Stock       int       `json:"stock"`
	Rating      int       `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductCard is the projection returned by slug resolution. It carries only
// the fields a storefront card needs.
type ProductCard struct {
	ID     string   `json:"id"`
	Slug   string   `json:"slug"`
	Title  string   `json:"title"`
	Price  int64    `json:"price"`
	Images []string `json:"images"`
	Stock  int      `json:"stock"`
}

// Card projects the full product onto its card shape.
func (p *Product) Card() *ProductCard {
	return &ProductCard{
		ID:     p.ID,
		Slug:   p.Slug,
		Title:  p.Title,
		Price:  p.Price,
		Images: p.Images,
		Stock:  p.Stock,
	}
}

// InStock reports whether the product can currently be ordered.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
