package handlers

import (
	"net/http"
	"strings"

	"cozy-corner-api/config"
	"cozy-corner-api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ── Public menu queries (all scoped to available items) ─────────────────────

// ListMenu returns available menu items with optional filters:
// category, search (name/description substring), price range, dietary.
func ListMenu(c *gin.Context) {
	query := config.DB.Where("is_available = ?", true)

	if category := c.Query("category"); category != "" {
		cat := models.Category(strings.ToUpper(category))
		if !models.ValidCategory(cat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category: " + category})
			return
		}
		query = query.Where("category = ?", cat)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	// decimal columns are stored as text in sqlite, compare numerically
	if minPrice := c.Query("min_price"); minPrice != "" {
		if v, err := decimal.NewFromString(minPrice); err == nil {
			query = query.Where("CAST(price AS REAL) >= ?", v.InexactFloat64())
		}
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if v, err := decimal.NewFromString(maxPrice); err == nil {
			query = query.Where("CAST(price AS REAL) <= ?", v.InexactFloat64())
		}
	}
	if c.Query("vegetarian") == "true" {
		query = query.Where("is_vegetarian = ?", true)
	}
	if c.Query("spicy") == "true" {
		query = query.Where("is_spicy = ?", true)
	}

	var items []models.MenuItem
	query.Order("category, name").Find(&items)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu": items})
}

// GetMenuItem returns a single available item
func GetMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("id")).Error; err != nil || !item.IsAvailable {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// ── Admin menu management ───────────────────────────────────────────────────

type CreateMenuItemRequest struct {
	Name            string          `json:"name" binding:"required"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price" binding:"required"`
	Category        models.Category `json:"category" binding:"required"`
	ImageURL        string          `json:"image_url"`
	PreparationTime int             `json:"preparation_time_minutes"`
	IsVegetarian    bool            `json:"is_vegetarian"`
	IsSpicy         bool            `json:"is_spicy"`
	Calories        int             `json:"calories"`
}

// AdminListMenu returns every item, including ones taken off the menu
func AdminListMenu(c *gin.Context) {
	var items []models.MenuItem
	config.DB.Order("category, name").Find(&items)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu": items})
}

// AddMenuItem adds a new item to the menu
func AddMenuItem(c *gin.Context) {
	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category: " + string(req.Category)})
		return
	}
	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
		return
	}

	item := models.MenuItem{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Category:        req.Category,
		ImageURL:        req.ImageURL,
		PreparationTime: req.PreparationTime,
		IsVegetarian:    req.IsVegetarian,
		IsSpicy:         req.IsSpicy,
		Calories:        req.Calories,
		IsAvailable:     true,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add menu item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
}

// UpdateMenuItem updates an item; only known fields are applied
func UpdateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	allowed := map[string]bool{
		"name": true, "description": true, "price": true, "category": true,
		"image_url": true, "is_available": true, "preparation_time": true,
		"is_vegetarian": true, "is_spicy": true, "calories": true,
	}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	if cat, ok := update["category"].(string); ok && !models.ValidCategory(models.Category(cat)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category: " + cat})
		return
	}
	config.DB.Model(&item).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

// DeleteMenuItem takes an item off the menu. Items are never removed
// from the table: past order lines still reference them.
func DeleteMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	config.DB.Model(&item).Update("is_available", false)
	c.JSON(http.StatusOK, gin.H{"message": "Menu item removed from menu", "item_id": item.ID})
}
