//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 6 {
		t.Fatalf("expected 6 seeded products, got %d", len(products))
	}
}

func TestListProducts_CategoryFilter(t *testing.T) {
	resp := doGet(t, "/api/products/?category=meat")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) == 0 {
		t.Fatal("expected at least one meat product")
	}
	for _, p := range products {
		if p.Category != "meat" {
			t.Errorf("product %s has category %q, want meat", p.ID, p.Category)
		}
	}
}

func TestListProducts_Search(t *testing.T) {
	resp := doGet(t, "/api/products/?q=squash")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 1 {
		t.Fatalf("expected 1 match for squash, got %d", len(products))
	}
	if products[0].Name != "Squash" {
		t.Errorf("got %q", products[0].Name)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	resp := doGet(t, "/api/products/no-such-product/")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestProductLifecycle_Admin(t *testing.T) {
	admin := adminToken(t)

	resp := do(t, http.MethodPost, "/api/products/", admin, map[string]any{
		"name":        "Okra",
		"category":    "vegetable",
		"price":       "40.00",
		"description": "Fresh okra, sold per bundle.",
		"stock":       10,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	created := decodeJSON[productResponse](t, resp)

	resp = do(t, http.MethodPut, "/api/products/"+created.ID+"/", admin, map[string]any{
		"name":     "Okra",
		"category": "vegetable",
		"price":    "42.00",
		"stock":    8,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = do(t, http.MethodDelete, "/api/products/"+created.ID+"/", admin, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doGet(t, "/api/products/"+created.ID+"/")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("after delete: expected 404, got %d", resp.StatusCode)
	}
}

func TestProductMutation_ForbiddenForBuyers(t *testing.T) {
	token, _ := registerAndLogin(t, "buyer1", "buyer1@example.com", "longenough")

	resp := do(t, http.MethodPost, "/api/products/", token, map[string]any{
		"name":     "Contraband",
		"category": "meat",
		"price":    "1.00",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}
