package woocommerce

// Wire shapes for the commerce REST API. Money fields arrive as strings.

type ProductImage struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type MetaEntry struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type Product struct {
	ID               int64          `json:"id"`
	Name             string         `json:"name"`
	Slug             string         `json:"slug"`
	Price            string         `json:"price"`
	RegularPrice     string         `json:"regular_price"`
	SalePrice        string         `json:"sale_price"`
	OnSale           bool           `json:"on_sale"`
	Featured         bool           `json:"featured"`
	StockStatus      string         `json:"stock_status"`
	ShortDescription string         `json:"short_description"`
	Description      string         `json:"description"`
	Weight           string         `json:"weight"`
	Images           []ProductImage `json:"images"`
	Categories       []Category     `json:"categories"`
	Tags             []Tag          `json:"tags"`
	MetaData         []MetaEntry    `json:"meta_data"`
}

type Coupon struct {
	ID            int64   `json:"id"`
	Code          string  `json:"code"`
	Amount        string  `json:"amount"`
	DiscountType  string  `json:"discount_type"`
	Status        string  `json:"status"`
	UsageLimit    *int    `json:"usage_limit"`
	UsageCount    int     `json:"usage_count"`
	DateExpires   *string `json:"date_expires"`
	MinimumAmount string  `json:"minimum_amount"`
	MaximumAmount string  `json:"maximum_amount"`
}

type OrderAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

type OrderLineItem struct {
	ProductID   int64 `json:"product_id"`
	VariationID int64 `json:"variation_id,omitempty"`
	Quantity    int   `json:"quantity"`
}

type CouponLine struct {
	Code string `json:"code"`
}

type OrderCreateRequest struct {
	PaymentMethod      string          `json:"payment_method"`
	PaymentMethodTitle string          `json:"payment_method_title"`
	SetPaid            bool            `json:"set_paid"`
	Billing            OrderAddress    `json:"billing"`
	Shipping           OrderAddress    `json:"shipping"`
	LineItems          []OrderLineItem `json:"line_items"`
	CouponLines        []CouponLine    `json:"coupon_lines,omitempty"`
}

type Order struct {
	ID       int64  `json:"id"`
	Status   string `json:"status"`
	Currency string `json:"currency"`
	Total    string `json:"total"`
}
