package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

// Banner represents a row of the banners collection, displayed by the
// storefront carousel in created-at descending order.
type Banner struct {
	Id        int       `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	BannerInsert
}

type BannerInsert struct {
	Title     string `db:"title" json:"title" valid:"required"`
	Subtitle  string `db:"subtitle" json:"subtitle" valid:"required"`
	Discount  string `db:"discount" json:"discount"`
	ImageURL  string `db:"image_url" json:"imageUrl"`
	ImagePath string `db:"image_path" json:"imagePath"`
}

func (bi *BannerInsert) Validate() error {
	if _, err := govalidator.ValidateStruct(bi); err != nil {
		return err
	}
	if strings.TrimSpace(bi.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(bi.Subtitle) == "" {
		return fmt.Errorf("subtitle is required")
	}
	return nil
}
