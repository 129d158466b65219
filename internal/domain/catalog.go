package domain

import "time"

type Category struct {
	ID          int64     `json:"id,string" form:"id"`
	Name        string    `gorm:"index;size:128" json:"name" form:"name"`
	Description string    `gorm:"size:1024" json:"description" form:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Category) TableName() string {
	return "shop_category"
}

// Product is a catalog item with a finite stock count.
// Stock is mutated only through the ordering store's conditional decrement.
type Product struct {
	ID          int64     `json:"id,string" form:"id"`
	Name        string    `gorm:"index;size:200" json:"name" form:"name"`
	Description string    `gorm:"size:2048" json:"description" form:"description"`
	Price       float64   `json:"price" form:"price"`
	Stock       int       `json:"stock" form:"stock"`
	CategoryId  int64     `gorm:"index" json:"category_id,string" form:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "shop_product"
}
