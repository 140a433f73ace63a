package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the closed set of menu sections
type Category string

const (
	CategoryPizza     Category = "PIZZA"
	CategoryBurger    Category = "BURGER"
	CategoryPasta     Category = "PASTA"
	CategorySalad     Category = "SALAD"
	CategoryAppetizer Category = "APPETIZER"
	CategoryDessert   Category = "DESSERT"
	CategoryBeverage  Category = "BEVERAGE"
	CategorySides     Category = "SIDES"
)

// ValidCategory reports whether c is one of the known menu sections.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryPizza, CategoryBurger, CategoryPasta, CategorySalad,
		CategoryAppetizer, CategoryDessert, CategoryBeverage, CategorySides:
		return true
	}
	return false
}

// MenuItem is never hard-deleted; taking it off the menu flips IsAvailable.
type MenuItem struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Name            string          `json:"name" gorm:"not null"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Category        Category        `json:"category" gorm:"not null"`
	ImageURL        string          `json:"image_url"`
	IsAvailable     bool            `json:"is_available" gorm:"default:true"`
	PreparationTime int             `json:"preparation_time_minutes"`
	IsVegetarian    bool            `json:"is_vegetarian" gorm:"default:false"`
	IsSpicy         bool            `json:"is_spicy" gorm:"default:false"`
	Calories        int             `json:"calories"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
