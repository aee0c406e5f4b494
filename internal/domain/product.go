package domain

import "time"

// Product represents a catalog record whose derived text fields are
// synthesized and written back. The engine only reads display attributes
// and conditionally overwrites SEOName, Description and MetaDescription.
type Product struct {
	ProductID       string    `gorm:"type:text;primaryKey" json:"product_id"`
	Name            string    `gorm:"type:text;not null" json:"name"`
	SEOName         string    `gorm:"column:seo_name;type:text" json:"seo_name,omitempty"`
	Description     string    `gorm:"type:text" json:"description,omitempty"`
	MetaDescription string    `gorm:"type:text" json:"meta_description,omitempty"`
	Category        string    `gorm:"type:text;index:idx_products_category" json:"category"`
	Brand           string    `gorm:"type:text" json:"brand,omitempty"`
	Price           int       `gorm:"default:0" json:"price"`
	Stock           int       `gorm:"default:0" json:"stock"`
	IsAvailable     bool      `gorm:"default:true" json:"is_available"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns the database table name for Product.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Product) TableName() string {
	return "products"
}

// GeneratedFields holds the three derived attributes written back to one
// product. All three are applied in a single atomic update or not at all.
type GeneratedFields struct {
	Title           string
	Description     string
	MetaDescription string
}
