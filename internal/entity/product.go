package entity

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/shopspring/decimal"
)

type CategoryEnum string

const (
	MobileAccessories CategoryEnum = "Mobile Accessories"
	Gems              CategoryEnum = "Gems"
	Jewelry           CategoryEnum = "Jewelry"
	Electronics       CategoryEnum = "Electronics"
	Other             CategoryEnum = "Other"
)

// ValidCategories is the closed set of catalog categories.
var ValidCategories = map[CategoryEnum]bool{
	MobileAccessories: true,
	Gems:              true,
	Jewelry:           true,
	Electronics:       true,
	Other:             true,
}

func IsValidCategory(c CategoryEnum) bool {
	_, ok := ValidCategories[c]
	return ok
}

func (c CategoryEnum) String() string {
	if IsValidCategory(c) {
		return string(c)
	}
	return string(Other)
}

// Product represents a row of the products collection.
type Product struct {
	Id        int          `db:"id" json:"id"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt sql.NullTime `db:"updated_at" json:"updatedAt"`
	ProductInsert
}

type ProductInsert struct {
	Name        string          `db:"name" json:"name" valid:"required"`
	Description string          `db:"description" json:"description" valid:"required"`
	Category    CategoryEnum    `db:"category" json:"category" valid:"required"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Stock       int             `db:"stock" json:"stock"`

	// main image
	ImageURL  string `db:"image_url" json:"imageUrl"`
	ImagePath string `db:"image_path" json:"imagePath"`

	// optional second image
	ImageURL2  string `db:"image_url_2" json:"imageUrl2"`
	ImagePath2 string `db:"image_path_2" json:"imagePath2"`
}

func (pi *ProductInsert) PriceDecimal() decimal.Decimal {
	return pi.Price.Round(2)
}

// Validate enforces the write-side invariants: required fields, closed
// category set, non-negative price and stock.
func (pi *ProductInsert) Validate() error {
	if _, err := govalidator.ValidateStruct(pi); err != nil {
		return err
	}
	if !IsValidCategory(pi.Category) {
		return fmt.Errorf("unknown category [%s]", pi.Category)
	}
	if pi.Price.IsNegative() {
		return fmt.Errorf("price must be 0 or more")
	}
	if pi.Stock < 0 {
		return fmt.Errorf("stock must be 0 or more")
	}
	return nil
}
