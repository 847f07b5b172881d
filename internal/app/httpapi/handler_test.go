package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	app "github.com/optilens/backoffice/internal/app"
)

func TestHandlerLifecycle(t *testing.T) {
	application, err := app.New(app.Stores{}, nil)
	if err != nil {
		t.Fatalf("new application: %v", err)
	}

	if err := application.Start(context.Background()); err != nil {
		t.Fatalf("start application: %v", err)
	}
	defer application.Stop(context.Background())

	handler := NewHandler(application)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, jsonRequest(http.MethodPost, "/brands", marshal(map[string]any{"name": "Chemi"})))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 create brand, got %d: %s", resp.Code, resp.Body.String())
	}
	var brand map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &brand); err != nil {
		t.Fatalf("unmarshal brand: %v", err)
	}
	brandID := int64(brand["id"].(float64))

	productBody := marshal(map[string]any{
		"brandId":         brandID,
		"name":            "Perfect UV 1.60",
		"optionType":      "diopter",
		"refractiveIndex": "1.60",
		"sellingPrice":    12000,
		"purchasePrice":   8000,
	})
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, jsonRequest(http.MethodPost, "/products", productBody))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 create product, got %d: %s", resp.Code, resp.Body.String())
	}
	var product map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &product); err != nil {
		t.Fatalf("unmarshal product: %v", err)
	}
	productID := int64(product["id"].(float64))

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, jsonRequest(http.MethodGet, fmt.Sprintf("/products?brandId=%d", brandID), nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 list products, got %d", resp.Code)
	}

	bulkBody := marshal(map[string]any{
		"creates": []map[string]any{
			{"sph": "-0.25", "cyl": "0.00", "priceAdjustment": 0},
			{"sph": "-0.50", "cyl": "-0.25", "priceAdjustment": 1500},
		},
	})
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, jsonRequest(http.MethodPost, fmt.Sprintf("/products/%d/variants/bulk", productID), bulkBody))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 bulk create, got %d: %s", resp.Code, resp.Body.String())
	}
	var bulk map[string]int
	if err := json.Unmarshal(resp.Body.Bytes(), &bulk); err != nil {
		t.Fatalf("unmarshal bulk result: %v", err)
	}
	if bulk["created"] != 2 {
		t.Fatalf("expected 2 created, got %d", bulk["created"])
	}

	reconcileBody := marshal(map[string]any{
		"cells": []map[string]any{
			{"sph": "-0.25", "cyl": "0.00", "priceAdjustment": 0},
			{"sph": "-0.50", "cyl": "-0.25", "priceAdjustment": 2000},
			{"sph": "-0.75", "cyl": "0.00", "priceAdjustment": 500},
		},
	})
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, jsonRequest(http.MethodPost, fmt.Sprintf("/products/%d/variants/reconcile", productID), reconcileBody))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 reconcile, got %d: %s", resp.Code, resp.Body.String())
	}
	var rec map[string]int
	if err := json.Unmarshal(resp.Body.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal reconcile result: %v", err)
	}
	if rec["created"] != 1 || rec["updated"] != 1 || rec["unchanged"] != 1 {
		t.Fatalf("unexpected reconcile counts: %v", rec)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, jsonRequest(http.MethodGet, fmt.Sprintf("/products/%d/variants", productID), nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 list variants, got %d", resp.Code)
	}
	var list []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal variants: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(list))
	}

	storeBody := marshal(map[string]any{
		"code":            "S001",
		"name":            "Vision Optics",
		"phone":           "02-555-0101",
		"paymentTermDays": 30,
	})
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, jsonRequest(http.MethodPost, "/stores", storeBody))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 create store, got %d: %s", resp.Code, resp.Body.String())
	}
	var store map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &store); err != nil {
		t.Fatalf("unmarshal store: %v", err)
	}
	storeID := int64(store["id"].(float64))

	orderBody := marshal(map[string]any{
		"storeId":   storeID,
		"orderType": "urgent",
		"memo":      "deliver friday",
		"items": []map[string]any{
			{"productId": productID, "sph": "-0.5", "cyl": "-0.25", "quantity": 2, "unitPrice": 13500},
			{"productId": productID, "sph": "-0.25", "cyl": "0", "quantity": 1, "unitPrice": 12000},
		},
	})
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, jsonRequest(http.MethodPost, "/orders", orderBody))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 submit order, got %d: %s", resp.Code, resp.Body.String())
	}
	var created map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal order: %v", err)
	}
	if created["totalAmount"].(float64) != 39000 {
		t.Fatalf("unexpected total: %v", created["totalAmount"])
	}
	items := created["items"].([]any)
	first := items[0].(map[string]any)
	if first["sph"] != "-0.50" || first["cyl"] != "-0.25" {
		t.Fatalf("item keys not normalised: %v", first)
	}
	orderID := int64(created["id"].(float64))

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, jsonRequest(http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 get order, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, jsonRequest(http.MethodGet, fmt.Sprintf("/orders?storeId=%d", storeID), nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 list orders, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 metrics, got %d", resp.Code)
	}
	if resp.Body.Len() == 0 {
		t.Fatalf("expected metrics output to be non-empty")
	}
}

func TestHandlerErrors(t *testing.T) {
	application, err := app.New(app.Stores{}, nil)
	if err != nil {
		t.Fatalf("new application: %v", err)
	}
	handler := NewHandler(application)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, jsonRequest(http.MethodGet, "/products/abc", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid id, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, jsonRequest(http.MethodGet, "/products/999", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 missing product, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, jsonRequest(http.MethodPost, "/brands", marshal(map[string]any{"name": "", "extra": true})))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 unknown field, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, jsonRequest(http.MethodGet, "/products/999/variants", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 variants of missing product, got %d", resp.Code)
	}

	// Single-vision products have no diopter grid.
	brandResp := httptest.NewRecorder()
	handler.ServeHTTP(brandResp, jsonRequest(http.MethodPost, "/brands", marshal(map[string]any{"name": "Essilor"})))
	var brand map[string]any
	if err := json.Unmarshal(brandResp.Body.Bytes(), &brand); err != nil {
		t.Fatalf("unmarshal brand: %v", err)
	}
	productResp := httptest.NewRecorder()
	handler.ServeHTTP(productResp, jsonRequest(http.MethodPost, "/products", marshal(map[string]any{
		"brandId":      int64(brand["id"].(float64)),
		"name":         "Crizal Single",
		"optionType":   "single",
		"sellingPrice": 30000,
	})))
	if productResp.Code != http.StatusCreated {
		t.Fatalf("expected 201 create product, got %d: %s", productResp.Code, productResp.Body.String())
	}
	var product map[string]any
	if err := json.Unmarshal(productResp.Body.Bytes(), &product); err != nil {
		t.Fatalf("unmarshal product: %v", err)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, jsonRequest(http.MethodPost, fmt.Sprintf("/products/%d/variants/bulk", int64(product["id"].(float64))), marshal(map[string]any{
		"creates": []map[string]any{{"sph": "-0.25", "cyl": "0.00", "priceAdjustment": 0}},
	})))
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for single-vision product, got %d", resp.Code)
	}
}

func marshal(v any) *bytes.Buffer {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bytes.NewBuffer(data)
}

func jsonRequest(method, target string, body *bytes.Buffer) *http.Request {
	if body == nil {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}
