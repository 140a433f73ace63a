package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"cozy-corner-api/config"
	"cozy-corner-api/models"

	"github.com/gin-gonic/gin"
)

type menuResponse struct {
	Count int               `json:"count"`
	Menu  []models.MenuItem `json:"menu"`
}

func getMenu(t *testing.T, r *gin.Engine, query string) menuResponse {
	t.Helper()
	w := doJSON(t, r, http.MethodGet, "/api/menu"+query, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/menu%s: status %d, body %s", query, w.Code, w.Body.String())
	}
	var resp menuResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode menu: %v", err)
	}
	return resp
}

func seedStandardMenu(t *testing.T) {
	seedMenuItem(t, "Margherita", "12.50", models.CategoryPizza, func(m *models.MenuItem) {
		m.Description = "Classic tomato and mozzarella"
		m.IsVegetarian = true
	})
	seedMenuItem(t, "Diavola", "14.00", models.CategoryPizza, func(m *models.MenuItem) {
		m.Description = "Spicy salami"
		m.IsSpicy = true
	})
	seedMenuItem(t, "Tiramisu", "6.00", models.CategoryDessert, func(m *models.MenuItem) {
		m.Description = "Espresso-soaked ladyfingers"
		m.IsVegetarian = true
	})
	seedMenuItem(t, "Old Burger", "9.00", models.CategoryBurger, func(m *models.MenuItem) {
		m.IsAvailable = false
	})
}

func TestMenuScopedToAvailableItems(t *testing.T) {
	r := setupTest(t)
	seedStandardMenu(t)

	resp := getMenu(t, r, "")
	if resp.Count != 3 {
		t.Fatalf("count = %d, want 3 (unavailable item hidden)", resp.Count)
	}
	for _, item := range resp.Menu {
		if !item.IsAvailable {
			t.Fatalf("unavailable item %q leaked into public menu", item.Name)
		}
	}
}

func TestMenuFilters(t *testing.T) {
	r := setupTest(t)
	seedStandardMenu(t)

	if resp := getMenu(t, r, "?category=pizza"); resp.Count != 2 {
		t.Fatalf("category=pizza count = %d, want 2", resp.Count)
	}
	if resp := getMenu(t, r, "?vegetarian=true"); resp.Count != 2 {
		t.Fatalf("vegetarian count = %d, want 2", resp.Count)
	}
	if resp := getMenu(t, r, "?spicy=true"); resp.Count != 1 {
		t.Fatalf("spicy count = %d, want 1", resp.Count)
	}
	if resp := getMenu(t, r, "?min_price=10&max_price=13"); resp.Count != 1 || resp.Menu[0].Name != "Margherita" {
		t.Fatalf("price range gave %d items, want only Margherita", resp.Count)
	}

	w := doJSON(t, r, http.MethodGet, "/api/menu?category=SUSHI", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown category: status %d, want 400", w.Code)
	}
}

func TestMenuSearchIsCaseInsensitiveOverNameAndDescription(t *testing.T) {
	r := setupTest(t)
	seedStandardMenu(t)

	if resp := getMenu(t, r, "?search=MARGH"); resp.Count != 1 {
		t.Fatalf("search=MARGH count = %d, want 1", resp.Count)
	}
	// "salami" only appears in the Diavola description
	if resp := getMenu(t, r, "?search=Salami"); resp.Count != 1 || resp.Menu[0].Name != "Diavola" {
		t.Fatalf("description search gave %d items, want Diavola", resp.Count)
	}
	if resp := getMenu(t, r, "?search=nosuchdish"); resp.Count != 0 {
		t.Fatalf("search miss count = %d, want 0", resp.Count)
	}
}

func TestUnavailableItemNotFoundPublicly(t *testing.T) {
	r := setupTest(t)
	seedStandardMenu(t)

	var hidden models.MenuItem
	config.DB.Where("name = ?", "Old Burger").First(&hidden)
	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/menu/%d", hidden.ID), "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("hidden item fetch: status %d, want 404", w.Code)
	}
}

func TestAdminMenuManagement(t *testing.T) {
	r := setupTest(t)
	adminToken := registerUser(t, r, "Ann Admin", "admin@cozy.test", models.RoleAdmin)
	customerToken := registerUser(t, r, "Carl Customer", "carl@cozy.test", models.RoleCustomer)
	seedStandardMenu(t)

	// Admin sees everything, including hidden items
	w := doJSON(t, r, http.MethodGet, "/api/admin/menu", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin list: status %d", w.Code)
	}
	var resp menuResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 4 {
		t.Fatalf("admin count = %d, want 4", resp.Count)
	}

	// Role gate
	if w := doJSON(t, r, http.MethodGet, "/api/admin/menu", customerToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("customer on admin route: status %d, want 403", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/admin/menu", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous on admin route: status %d, want 401", w.Code)
	}

	// Create with validation
	w = doJSON(t, r, http.MethodPost, "/api/admin/menu", adminToken, gin.H{
		"name": "Lemonade", "price": "3.50", "category": "BEVERAGE",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create item: status %d, body %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPost, "/api/admin/menu", adminToken, gin.H{
		"name": "Mystery", "price": "3.50", "category": "SUSHI",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("create with bad category: status %d, want 400", w.Code)
	}

	// Soft delete: the row survives, the public menu hides it
	var tiramisu models.MenuItem
	config.DB.Where("name = ?", "Tiramisu").First(&tiramisu)
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/menu/%d", tiramisu.ID), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete item: status %d", w.Code)
	}
	config.DB.First(&tiramisu, tiramisu.ID)
	if tiramisu.IsAvailable {
		t.Fatal("soft delete did not clear IsAvailable")
	}
	if resp := getMenu(t, r, "?search=tiramisu"); resp.Count != 0 {
		t.Fatalf("soft-deleted item still public, count = %d", resp.Count)
	}
}

func TestDeactivatedAccountCannotLogin(t *testing.T) {
	r := setupTest(t)
	adminToken := registerUser(t, r, "Ann Admin", "admin@cozy.test", models.RoleAdmin)
	registerUser(t, r, "Carl Customer", "carl@cozy.test", models.RoleCustomer)

	var customer models.User
	config.DB.Where("email = ?", "carl@cozy.test").First(&customer)
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/deactivate", customer.ID), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("deactivate: status %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "carl@cozy.test", "password": "secret123",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("login deactivated account: status %d, want 401", w.Code)
	}
}
