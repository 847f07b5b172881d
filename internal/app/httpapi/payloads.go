package httpapi

import (
	"time"

	"github.com/optilens/backoffice/internal/app/domain/catalog"
	"github.com/optilens/backoffice/internal/app/domain/order"
	"github.com/optilens/backoffice/internal/app/domain/retailer"
)

// Wire representations of the domain records. Kept separate from the domain
// structs so the JSON surface can stay stable while the models evolve.

type brandPayload struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func brandJSON(b catalog.Brand) brandPayload {
	return brandPayload{ID: b.ID, Name: b.Name, CreatedAt: b.CreatedAt}
}

type productPayload struct {
	ID              int64     `json:"id"`
	BrandID         int64     `json:"brandId"`
	Name            string    `json:"name"`
	OptionType      string    `json:"optionType"`
	RefractiveIndex string    `json:"refractiveIndex"`
	SellingPrice    int64     `json:"sellingPrice"`
	PurchasePrice   int64     `json:"purchasePrice"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func productJSON(p catalog.Product) productPayload {
	return productPayload{
		ID:              p.ID,
		BrandID:         p.BrandID,
		Name:            p.Name,
		OptionType:      p.OptionType,
		RefractiveIndex: p.RefractiveIndex,
		SellingPrice:    p.SellingPrice,
		PurchasePrice:   p.PurchasePrice,
		Active:          p.Active,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

type variantPayload struct {
	ID              int64  `json:"id"`
	ProductID       int64  `json:"productId"`
	Sph             string `json:"sph"`
	Cyl             string `json:"cyl"`
	PriceAdjustment int    `json:"priceAdjustment"`
	Stock           int    `json:"stock"`
	Active          bool   `json:"active"`
}

func variantJSON(v catalog.Variant) variantPayload {
	return variantPayload{
		ID:              v.ID,
		ProductID:       v.ProductID,
		Sph:             v.Sph,
		Cyl:             v.Cyl,
		PriceAdjustment: v.PriceAdjustment,
		Stock:           v.Stock,
		Active:          v.Active,
	}
}

type storePayload struct {
	ID                int64     `json:"id"`
	Code              string    `json:"code"`
	Name              string    `json:"name"`
	Phone             string    `json:"phone"`
	OutstandingAmount int64     `json:"outstandingAmount"`
	PaymentTermDays   int       `json:"paymentTermDays"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"createdAt"`
}

func storeJSON(st retailer.Store) storePayload {
	return storePayload{
		ID:                st.ID,
		Code:              st.Code,
		Name:              st.Name,
		Phone:             st.Phone,
		OutstandingAmount: st.OutstandingAmount,
		PaymentTermDays:   st.PaymentTermDays,
		Active:            st.Active,
		CreatedAt:         st.CreatedAt,
	}
}

type lineItemPayload struct {
	ID        string `json:"id"`
	ProductID int64  `json:"productId"`
	Sph       string `json:"sph"`
	Cyl       string `json:"cyl"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

type orderPayload struct {
	ID          int64             `json:"id"`
	StoreID     int64             `json:"storeId"`
	OrderType   string            `json:"orderType"`
	Memo        string            `json:"memo"`
	Items       []lineItemPayload `json:"items"`
	TotalAmount int64             `json:"totalAmount"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func orderJSON(o order.Order) orderPayload {
	items := make([]lineItemPayload, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, lineItemPayload{
			ID:        it.ID,
			ProductID: it.ProductID,
			Sph:       it.Sph,
			Cyl:       it.Cyl,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return orderPayload{
		ID:          o.ID,
		StoreID:     o.StoreID,
		OrderType:   o.OrderType,
		Memo:        o.Memo,
		Items:       items,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
	}
}
