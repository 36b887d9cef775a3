package tools

import "shopifymcp/pkg/shopify"

// Response records. Field names follow the shape assistants were given
// before: Shopify's snake_case with body_html surfaced as description.

type VariantRecord struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	Price             string `json:"price"`
	SKU               string `json:"sku"`
	InventoryQuantity *int   `json:"inventory_quantity,omitempty"`
}

type ImageRecord struct {
	ID       int64  `json:"id,omitempty"`
	Src      string `json:"src"`
	Position int    `json:"position,omitempty"`
}

type ProductRecord struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ProductType string          `json:"product_type"`
	Vendor      string          `json:"vendor"`
	Tags        string          `json:"tags"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
	Variants    []VariantRecord `json:"variants"`
	Images      []ImageRecord   `json:"images"`
}

// SearchHit is a lighter product: no timestamps or stock, first image only.
type SearchHit struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ProductType string          `json:"product_type"`
	Vendor      string          `json:"vendor"`
	Tags        string          `json:"tags"`
	Variants    []VariantRecord `json:"variants"`
	Image       *ImageRecord    `json:"image,omitempty"`
}

type AddressRecord struct {
	Name     string `json:"name,omitempty"`
	Address1 string `json:"address1"`
	City     string `json:"city"`
	Province string `json:"province"`
	Country  string `json:"country"`
	Zip      string `json:"zip"`
}

type CustomerRecord struct {
	ID          int64           `json:"id"`
	Email       string          `json:"email"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	OrdersCount int             `json:"orders_count"`
	TotalSpent  string          `json:"total_spent"`
	CreatedAt   string          `json:"created_at"`
	Addresses   []AddressRecord `json:"addresses"`
}

type OrderCustomer struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LineItemRecord struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	SKU       string `json:"sku"`
	ProductID int64  `json:"product_id"`
	VariantID int64  `json:"variant_id"`
}

type OrderRecord struct {
	ID                int64            `json:"id"`
	OrderNumber       int64            `json:"order_number"`
	Email             string           `json:"email"`
	CreatedAt         string           `json:"created_at"`
	TotalPrice        string           `json:"total_price"`
	SubtotalPrice     string           `json:"subtotal_price"`
	TotalTax          string           `json:"total_tax"`
	Currency          string           `json:"currency"`
	FinancialStatus   string           `json:"financial_status"`
	FulfillmentStatus string           `json:"fulfillment_status"`
	Customer          *OrderCustomer   `json:"customer"`
	ShippingAddress   *AddressRecord   `json:"shipping_address"`
	LineItems         []LineItemRecord `json:"line_items"`
}

type StoreInfo struct {
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

func productRecord(p shopify.Product) ProductRecord {
	r := ProductRecord{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.BodyHTML,
		ProductType: p.ProductType,
		Vendor:      p.Vendor,
		Tags:        p.Tags,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Variants:    make([]VariantRecord, 0, len(p.Variants)),
		Images:      make([]ImageRecord, 0, len(p.Images)),
	}
	for _, v := range p.Variants {
		qty := v.InventoryQuantity
		r.Variants = append(r.Variants, VariantRecord{ID: v.ID, Title: v.Title, Price: v.Price, SKU: v.SKU, InventoryQuantity: &qty})
	}
	for _, img := range p.Images {
		r.Images = append(r.Images, ImageRecord{ID: img.ID, Src: img.Src, Position: img.Position})
	}
	return r
}

func searchHit(p shopify.Product) SearchHit {
	h := SearchHit{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.BodyHTML,
		ProductType: p.ProductType,
		Vendor:      p.Vendor,
		Tags:        p.Tags,
		Variants:    make([]VariantRecord, 0, len(p.Variants)),
	}
	for _, v := range p.Variants {
		h.Variants = append(h.Variants, VariantRecord{ID: v.ID, Title: v.Title, Price: v.Price, SKU: v.SKU})
	}
	if len(p.Images) > 0 {
		h.Image = &ImageRecord{Src: p.Images[0].Src}
	}
	return h
}

func customerRecord(c shopify.Customer) CustomerRecord {
	r := CustomerRecord{
		ID:          c.ID,
		Email:       c.Email,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		OrdersCount: c.OrdersCount,
		TotalSpent:  c.TotalSpent,
		CreatedAt:   c.CreatedAt,
		Addresses:   make([]AddressRecord, 0, len(c.Addresses)),
	}
	for _, a := range c.Addresses {
		r.Addresses = append(r.Addresses, AddressRecord{Address1: a.Address1, City: a.City, Province: a.Province, Country: a.Country, Zip: a.Zip})
	}
	return r
}

func orderRecord(o shopify.Order) OrderRecord {
	r := OrderRecord{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		Email:             o.Email,
		CreatedAt:         o.CreatedAt,
		TotalPrice:        o.TotalPrice,
		SubtotalPrice:     o.SubtotalPrice,
		TotalTax:          o.TotalTax,
		Currency:          o.Currency,
		FinancialStatus:   o.FinancialStatus,
		FulfillmentStatus: o.FulfillmentStatus,
		LineItems:         make([]LineItemRecord, 0, len(o.LineItems)),
	}
	if c := o.Customer; c != nil {
		r.Customer = &OrderCustomer{ID: c.ID, Email: c.Email, FirstName: c.FirstName, LastName: c.LastName}
	}
	if a := o.ShippingAddress; a != nil {
		r.ShippingAddress = &AddressRecord{Name: a.Name, Address1: a.Address1, City: a.City, Province: a.Province, Country: a.Country, Zip: a.Zip}
	}
	for _, li := range o.LineItems {
		r.LineItems = append(r.LineItems, LineItemRecord{
			ID: li.ID, Title: li.Title, Quantity: li.Quantity, Price: li.Price,
			SKU: li.SKU, ProductID: li.ProductID, VariantID: li.VariantID,
		})
	}
	return r
}

func storeInfo(s shopify.Shop) StoreInfo {
	return StoreInfo{
		ID: s.ID, Name: s.Name, Email: s.Email, Domain: s.Domain,
		Province: s.Province, Country: s.Country, Address1: s.Address1, Zip: s.Zip,
		City: s.City, Phone: s.Phone, CreatedAt: s.CreatedAt, ShopOwner: s.ShopOwner,
		PlanName: s.PlanName, HasStorefront: s.HasStorefront, MoneyFormat: s.MoneyFormat,
		WeightUnit: s.WeightUnit, PrimaryLocale: s.PrimaryLocale, CountryName: s.CountryName,
		Currency: s.Currency, Timezone: s.Timezone,
	}
}
