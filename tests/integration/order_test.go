//go:build integration

package integration

import (
	"math"
	"net/http"
	"regexp"
	"testing"
)

var orderIDPattern = regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{8}$`)

func placeOrder(t *testing.T, token string) orderResponse {
	t.Helper()

	resp := do(t, http.MethodPost, "/api/orders/", token, map[string]any{
		"payment_method":   "cod",
		"shipping_address": "123 Farm Road",
		"items": []map[string]any{
			{"product_id": "pork-belly", "quantity": 2},
			{"product_id": "squash", "quantity": 1},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create order: expected 201, got %d", resp.StatusCode)
	}
	return decodeJSON[orderResponse](t, resp)
}

func TestCreateOrder(t *testing.T) {
	token, userID := registerAndLogin(t, "shopper", "shopper@example.com", "longenough")

	o := placeOrder(t, token)

	if !orderIDPattern.MatchString(o.ID) {
		t.Errorf("order id %q does not match pattern", o.ID)
	}
	if o.UserID != userID {
		t.Errorf("order user: got %q, want %q", o.UserID, userID)
	}
	if o.Status != "pending" {
		t.Errorf("status: got %q, want pending", o.Status)
	}
	if o.DeliveryMethod != "delivery" {
		t.Errorf("delivery method should default to delivery, got %q", o.DeliveryMethod)
	}
	// 2 x 320.00 + 1 x 45.00
	if math.Abs(o.Total-685.0) > 0.001 {
		t.Errorf("total: got %v, want 685.00", o.Total)
	}
	if len(o.Items) != 2 {
		t.Fatalf("items: got %d, want 2", len(o.Items))
	}
	if o.Items[0].Product == nil || o.Items[0].Product.Name != "Pork Belly" {
		t.Errorf("first item product snapshot missing or wrong: %+v", o.Items[0].Product)
	}
}

func TestCreateOrder_PriceSnapshotSurvivesCatalogChange(t *testing.T) {
	admin := adminToken(t)
	token, _ := registerAndLogin(t, "snap", "snap@example.com", "longenough")

	o := placeOrder(t, token)
	originalTotal := o.Total

	// Raise the catalog price after the order exists.
	resp := do(t, http.MethodPut, "/api/products/squash/", admin, map[string]any{
		"name":     "Squash",
		"category": "vegetable",
		"price":    "99.00",
		"stock":    30,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reprice: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	defer func() {
		resp := do(t, http.MethodPut, "/api/products/squash/", admin, map[string]any{
			"name": "Squash", "category": "vegetable", "price": "45.00", "stock": 30,
		})
		resp.Body.Close()
	}()

	resp = do(t, http.MethodGet, "/api/orders/"+o.ID+"/", token, nil)
	got := decodeJSON[orderResponse](t, resp)
	if math.Abs(got.Total-originalTotal) > 0.001 {
		t.Errorf("total changed after catalog reprice: got %v, want %v", got.Total, originalTotal)
	}
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	token, _ := registerAndLogin(t, "ghost", "ghost@example.com", "longenough")

	resp := do(t, http.MethodPost, "/api/orders/", token, map[string]any{
		"payment_method":   "gcash",
		"shipping_address": "123 Farm Road",
		"items":            []map[string]any{{"product_id": "no-such-product", "quantity": 1}},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCreateOrder_Unauthenticated(t *testing.T) {
	resp := do(t, http.MethodPost, "/api/orders/", "", map[string]any{
		"payment_method":   "cod",
		"shipping_address": "123 Farm Road",
		"items":            []map[string]any{{"product_id": "squash", "quantity": 1}},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestOrderVisibility(t *testing.T) {
	ownerToken, ownerID := registerAndLogin(t, "owner", "owner@example.com", "longenough")
	strangerToken, _ := registerAndLogin(t, "nosy", "nosy@example.com", "longenough")
	admin := adminToken(t)

	o := placeOrder(t, ownerToken)

	resp := do(t, http.MethodGet, "/api/orders/"+o.ID+"/", ownerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner read: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = do(t, http.MethodGet, "/api/orders/"+o.ID+"/", strangerToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("stranger read: expected 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = do(t, http.MethodGet, "/api/orders/"+o.ID+"/", admin, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin read: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = do(t, http.MethodGet, "/api/orders/user/"+ownerID+"/", strangerToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("stranger list: expected 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = do(t, http.MethodGet, "/api/users/orders/", ownerToken, nil)
	orders := decodeJSON[[]orderResponse](t, resp)
	if len(orders) == 0 {
		t.Fatal("owner should see their own orders")
	}
}

func TestListOrders_NewestFirst(t *testing.T) {
	token, _ := registerAndLogin(t, "repeat", "repeat@example.com", "longenough")

	first := placeOrder(t, token)
	second := placeOrder(t, token)

	resp := do(t, http.MethodGet, "/api/users/orders/", token, nil)
	orders := decodeJSON[[]orderResponse](t, resp)
	if len(orders) != 2 {
		t.Fatalf("orders: got %d, want 2", len(orders))
	}
	if orders[0].ID != second.ID || orders[1].ID != first.ID {
		t.Errorf("expected newest first: got [%s, %s], want [%s, %s]",
			orders[0].ID, orders[1].ID, second.ID, first.ID)
	}
	if orders[1].CreatedAt.After(orders[0].CreatedAt) {
		t.Errorf("created_at not descending: %v before %v",
			orders[0].CreatedAt, orders[1].CreatedAt)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	ownerToken, _ := registerAndLogin(t, "statuser", "statuser@example.com", "longenough")
	admin := adminToken(t)

	o := placeOrder(t, ownerToken)

	resp := do(t, http.MethodPut, "/api/orders/"+o.ID+"/status/", ownerToken, map[string]string{"status": "paid"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("owner update: expected 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = do(t, http.MethodPut, "/api/orders/"+o.ID+"/status/", admin, map[string]string{"status": "delivered"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad literal: expected 400, got %d", resp.StatusCode)
	}
	errBody := decodeJSON[errorResponse](t, resp)
	if errBody.Kind != "validation" {
		t.Errorf("kind: got %q, want validation", errBody.Kind)
	}

	resp = do(t, http.MethodPut, "/api/orders/"+o.ID+"/status/", admin, map[string]string{"status": "paid"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin update: expected 200, got %d", resp.StatusCode)
	}
	updated := decodeJSON[orderResponse](t, resp)
	if updated.Status != "paid" {
		t.Errorf("status: got %q, want paid", updated.Status)
	}
}
