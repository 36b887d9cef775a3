package shopify

// Wire types for the subset of the Admin REST API the tools read. Fields that
// may be null upstream decode to their zero value.

type Variant struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	Price             string `json:"price"`
	SKU               string `json:"sku"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

type Image struct {
	ID       int64  `json:"id"`
	Src      string `json:"src"`
	Position int    `json:"position"`
}

type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	BodyHTML    string    `json:"body_html"`
	ProductType string    `json:"product_type"`
	Vendor      string    `json:"vendor"`
	Tags        string    `json:"tags"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
	Variants    []Variant `json:"variants"`
	Images      []Image   `json:"images"`
}

type Address struct {
	Name     string `json:"name"`
	Address1 string `json:"address1"`
	City     string `json:"city"`
	Province string `json:"province"`
	Country  string `json:"country"`
	Zip      string `json:"zip"`
}

type Customer struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	OrdersCount int       `json:"orders_count"`
	TotalSpent  string    `json:"total_spent"`
	CreatedAt   string    `json:"created_at"`
	Addresses   []Address `json:"addresses"`
}

type LineItem struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	SKU       string `json:"sku"`
	ProductID int64  `json:"product_id"`
	VariantID int64  `json:"variant_id"`
}

type Order struct {
	ID                int64      `json:"id"`
	OrderNumber       int64      `json:"order_number"`
	Email             string     `json:"email"`
	CreatedAt         string     `json:"created_at"`
	TotalPrice        string     `json:"total_price"`
	SubtotalPrice     string     `json:"subtotal_price"`
	TotalTax          string     `json:"total_tax"`
	Currency          string     `json:"currency"`
	FinancialStatus   string     `json:"financial_status"`
	FulfillmentStatus string     `json:"fulfillment_status"`
	Customer          *Customer  `json:"customer"`
	ShippingAddress   *Address   `json:"shipping_address"`
	LineItems         []LineItem `json:"line_items"`
}

type Shop struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Domain        string `json:"domain"`
	Province      string `json:"province"`
	Country       string `json:"country"`
	Address1      string `json:"address1"`
	Zip           string `json:"zip"`
	City          string `json:"city"`
	Phone         string `json:"phone"`
	CreatedAt     string `json:"created_at"`
	ShopOwner     string `json:"shop_owner"`
	PlanName      string `json:"plan_name"`
	HasStorefront bool   `json:"has_storefront"`
	MoneyFormat   string `json:"money_format"`
	WeightUnit    string `json:"weight_unit"`
	PrimaryLocale string `json:"primary_locale"`
	CountryName   string `json:"country_name"`
	Currency      string `json:"currency"`
	Timezone      string `json:"timezone"`
}
