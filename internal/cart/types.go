package cart

// docVersion guards the persisted line-list shape. Unreadable or mismatched
// documents rehydrate as an empty cart.
const docVersion = 1

// Line is a single cart entry. Identity is (ProductID, VariationID).
type Line struct {
	ProductID      int64  `json:"product_id"`
	VariationID    int64  `json:"variation_id,omitempty"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Image          string `json:"image,omitempty"`
	VariationLabel string `json:"variation_label,omitempty"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
}

// TotalCents is the extended line price.
func (l Line) TotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// Cart is the session view returned by every operation.
type Cart struct {
	Lines         []Line `json:"lines"`
	IsOpen        bool   `json:"is_open"`
	ItemCount     int    `json:"item_count"`
	SubtotalCents int64  `json:"subtotal_cents"`
}

// AddItemInput carries an add request from the API layer.
type AddItemInput struct {
	ProductID   int64 `json:"product_id" validate:"required,gt=0"`
	VariationID int64 `json:"variation_id" validate:"gte=0"`
	Quantity    int   `json:"quantity" validate:"required,gte=1"`
}

type document struct {
	Version int    `json:"version"`
	Lines   []Line `json:"lines"`
}

func sameLine(l Line, productID, variationID int64) bool {
	return l.ProductID == productID && l.VariationID == variationID
}
