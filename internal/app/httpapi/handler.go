package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	app "github.com/optilens/backoffice/internal/app"
	"github.com/optilens/backoffice/internal/app/domain/catalog"
	"github.com/optilens/backoffice/internal/app/domain/diopter"
	"github.com/optilens/backoffice/internal/app/domain/order"
	"github.com/optilens/backoffice/internal/app/metrics"
	"github.com/optilens/backoffice/internal/app/services/variants"
	"github.com/optilens/backoffice/internal/app/storage"
)

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app *app.Application
}

// NewHandler returns the router exposing the core REST API.
func NewHandler(application *app.Application) http.Handler {
	h := &handler{app: application}
	r := mux.NewRouter()

	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/brands", h.createBrand).Methods(http.MethodPost)
	r.HandleFunc("/brands", h.listBrands).Methods(http.MethodGet)

	r.HandleFunc("/products", h.createProduct).Methods(http.MethodPost)
	r.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", h.getProduct).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", h.updateProduct).Methods(http.MethodPut)
	r.HandleFunc("/products/{id}/variants", h.listVariants).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}/variants/bulk", h.bulkCreateVariants).Methods(http.MethodPost)
	r.HandleFunc("/products/{id}/variants/bulk", h.bulkUpdateVariants).Methods(http.MethodPut)
	r.HandleFunc("/products/{id}/variants/reconcile", h.reconcileVariants).Methods(http.MethodPost)

	r.HandleFunc("/stores", h.createStore).Methods(http.MethodPost)
	r.HandleFunc("/stores", h.listStores).Methods(http.MethodGet)
	r.HandleFunc("/stores/{id}", h.getStore).Methods(http.MethodGet)

	r.HandleFunc("/orders", h.submitOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders", h.listOrders).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", h.getOrder).Methods(http.MethodGet)

	return r
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- brands -----------------------------------------------------------------

func (h *handler) createBrand(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	brand, err := h.app.Catalog.CreateBrand(r.Context(), payload.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, brandJSON(brand))
}

func (h *handler) listBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.app.Catalog.ListBrands(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]brandPayload, 0, len(brands))
	for _, b := range brands {
		out = append(out, brandJSON(b))
	}
	writeJSON(w, http.StatusOK, out)
}

// --- products ---------------------------------------------------------------

func (h *handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		BrandID         int64  `json:"brandId"`
		Name            string `json:"name"`
		OptionType      string `json:"optionType"`
		RefractiveIndex string `json:"refractiveIndex"`
		SellingPrice    int64  `json:"sellingPrice"`
		PurchasePrice   int64  `json:"purchasePrice"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := h.app.Catalog.CreateProduct(r.Context(), catalog.Product{
		BrandID:         payload.BrandID,
		Name:            payload.Name,
		OptionType:      payload.OptionType,
		RefractiveIndex: payload.RefractiveIndex,
		SellingPrice:    payload.SellingPrice,
		PurchasePrice:   payload.PurchasePrice,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, productJSON(created))
}

func (h *handler) listProducts(w http.ResponseWriter, r *http.Request) {
	var brandID int64
	if raw := r.URL.Query().Get("brandId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid brandId %q", raw))
			return
		}
		brandID = parsed
	}

	products, err := h.app.Catalog.ListProducts(r.Context(), brandID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]productPayload, 0, len(products))
	for _, p := range products {
		out = append(out, productJSON(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.app.Catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, productJSON(p))
}

func (h *handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload struct {
		Name            string `json:"name"`
		RefractiveIndex string `json:"refractiveIndex"`
		SellingPrice    int64  `json:"sellingPrice"`
		PurchasePrice   int64  `json:"purchasePrice"`
		Active          bool   `json:"active"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := h.app.Catalog.UpdateProduct(r.Context(), catalog.Product{
		ID:              id,
		Name:            payload.Name,
		RefractiveIndex: payload.RefractiveIndex,
		SellingPrice:    payload.SellingPrice,
		PurchasePrice:   payload.PurchasePrice,
		Active:          payload.Active,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, sql.ErrNoRows) || strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, productJSON(updated))
}

// --- variants ---------------------------------------------------------------

func (h *handler) listVariants(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	list, err := h.app.Variants.List(r.Context(), id)
	if err != nil {
		writeError(w, variantStatus(err), err)
		return
	}
	out := make([]variantPayload, 0, len(list))
	for _, v := range list {
		out = append(out, variantJSON(v))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) bulkCreateVariants(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload struct {
		Creates []struct {
			Sph             string `json:"sph"`
			Cyl             string `json:"cyl"`
			PriceAdjustment int    `json:"priceAdjustment"`
		} `json:"creates"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cells := make([]variants.CellPrice, 0, len(payload.Creates))
	for _, c := range payload.Creates {
		cells = append(cells, variants.CellPrice{Sph: c.Sph, Cyl: c.Cyl, PriceAdjustment: c.PriceAdjustment})
	}

	created, err := h.app.Variants.BulkCreate(r.Context(), id, cells)
	if err != nil {
		writeError(w, variantStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"created": created})
}

func (h *handler) bulkUpdateVariants(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload struct {
		Updates []struct {
			ID              int64 `json:"id"`
			PriceAdjustment int   `json:"priceAdjustment"`
		} `json:"updates"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updates := make([]storage.PriceUpdate, 0, len(payload.Updates))
	for _, u := range payload.Updates {
		updates = append(updates, storage.PriceUpdate{VariantID: u.ID, PriceAdjustment: u.PriceAdjustment})
	}

	updated, err := h.app.Variants.BulkUpdate(r.Context(), id, updates)
	if err != nil {
		writeError(w, variantStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

func (h *handler) reconcileVariants(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload struct {
		Cells []struct {
			Sph             string `json:"sph"`
			Cyl             string `json:"cyl"`
			PriceAdjustment int    `json:"priceAdjustment"`
		} `json:"cells"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	selected := make(map[diopter.Key]int, len(payload.Cells))
	for _, c := range payload.Cells {
		key, err := diopter.ParseKey(c.Sph, c.Cyl)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("cell %s,%s: %w", c.Sph, c.Cyl, err))
			return
		}
		selected[key] = c.PriceAdjustment
	}

	result, err := h.app.Variants.Reconcile(r.Context(), id, selected)
	if err != nil {
		writeError(w, variantStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"created":   result.Created,
		"updated":   result.Updated,
		"unchanged": result.Unchanged,
	})
}

// --- stores -----------------------------------------------------------------

func (h *handler) createStore(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Code            string `json:"code"`
		Name            string `json:"name"`
		Phone           string `json:"phone"`
		PaymentTermDays int    `json:"paymentTermDays"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := h.app.Retail.Create(r.Context(), payload.Code, payload.Name, payload.Phone, payload.PaymentTermDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, storeJSON(created))
}

func (h *handler) listStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.app.Retail.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]storePayload, 0, len(stores))
	for _, st := range stores {
		out = append(out, storeJSON(st))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) getStore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	st, err := h.app.Retail.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, storeJSON(st))
}

// --- orders -----------------------------------------------------------------

func (h *handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		StoreID   int64  `json:"storeId"`
		OrderType string `json:"orderType"`
		Memo      string `json:"memo"`
		Items     []struct {
			ProductID int64  `json:"productId"`
			Sph       string `json:"sph"`
			Cyl       string `json:"cyl"`
			Quantity  int    `json:"quantity"`
			UnitPrice int64  `json:"unitPrice"`
		} `json:"items"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	items := make([]order.LineItem, 0, len(payload.Items))
	for _, it := range payload.Items {
		key, err := diopter.ParseKey(it.Sph, it.Cyl)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("item %s,%s: %w", it.Sph, it.Cyl, err))
			return
		}
		items = append(items, order.LineItem{
			ProductID: it.ProductID,
			Sph:       key.Sph,
			Cyl:       key.Cyl,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	created, err := h.app.Orders.Submit(r.Context(), payload.StoreID, payload.OrderType, payload.Memo, items)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, orderJSON(created))
}

func (h *handler) listOrders(w http.ResponseWriter, r *http.Request) {
	var storeID int64
	if raw := r.URL.Query().Get("storeId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid storeId %q", raw))
			return
		}
		storeID = parsed
	}

	orders, err := h.app.Orders.List(r.Context(), storeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]orderPayload, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderJSON(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	o, err := h.app.Orders.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, orderJSON(o))
}

// --- helpers ----------------------------------------------------------------

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid id %q", raw))
		return 0, false
	}
	return id, true
}

func variantStatus(err error) int {
	switch {
	case errors.Is(err, variants.ErrNotDiopter):
		return http.StatusUnprocessableEntity
	case strings.Contains(err.Error(), "not found"):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
