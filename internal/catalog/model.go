package catalog

// StockStatus mirrors the commerce API's stock vocabulary.
type StockStatus string

const (
	StockInStock    StockStatus = "instock"
	StockOutOfStock StockStatus = "outofstock"
	StockBackorder  StockStatus = "onbackorder"
)

func (s StockStatus) IsValid() bool {
	switch s {
	case StockInStock, StockOutOfStock, StockBackorder:
		return true
	}
	return false
}

// Variation is a purchasable size of a variable product with its own price.
type Variation struct {
	ID         int64  `json:"id"`
	Label      string `json:"label"`
	PriceCents int64  `json:"price_cents"`
}

// Product is the storefront's read-only catalog record. Carts snapshot the
// fields they need at add time, so later catalog changes never rewrite a cart.
type Product struct {
	ID                int64       `gorm:"primaryKey" json:"id"`
	Slug              string      `gorm:"uniqueIndex" json:"slug"`
	Name              string      `json:"name"`
	Tagline           string      `json:"tagline"`
	Description       string      `json:"description"`
	PriceCents        int64       `json:"price_cents"`
	RegularPriceCents *int64      `json:"regular_price_cents,omitempty"`
	StockStatus       StockStatus `json:"stock_status"`
	Collection        string      `gorm:"index" json:"collection"`
	Tags              []string    `gorm:"serializer:json" json:"tags"`
	Images            []string    `gorm:"serializer:json" json:"images"`
	Featured          bool        `json:"featured"`
	Bestseller        bool        `json:"bestseller"`
	OnSale            bool        `json:"on_sale"`
	ScentNotes        string      `json:"scent_notes"`
	WeightGrams       int         `json:"weight_grams"`
	BurnTimeHours     int         `json:"burn_time_hours"`
	Variations        []Variation `gorm:"serializer:json" json:"variations,omitempty"`
}

// Variation returns the variation with the given id, or nil.
func (p Product) Variation(id int64) *Variation {
	for i := range p.Variations {
		if p.Variations[i].ID == id {
			return &p.Variations[i]
		}
	}
	return nil
}

// UnitPriceCents resolves the price for a line: the variation price when one
// is selected, else the product price.
func (p Product) UnitPriceCents(variationID int64) int64 {
	if variationID != 0 {
		if v := p.Variation(variationID); v != nil {
			return v.PriceCents
		}
	}
	return p.PriceCents
}
