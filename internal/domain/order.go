package domain

import "time"

// Order status values. CANCELLED is terminal.
const (
	OrderStatusCreated   = "CREATED"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// OrderStatusValues lists every recognized status, used to reject
// unknown status strings at the API boundary.
var OrderStatusValues = []string{
	OrderStatusCreated,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

type Order struct {
	ID          int64       `json:"id,string" form:"id"`
	UserID      int64       `gorm:"index" json:"user_id,string" form:"user_id"`
	TotalAmount float64     `json:"total_amount" form:"total_amount"`
	Status      string      `gorm:"index;size:16" json:"status" form:"status"`
	Items       []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "shop_order"
}

// OrderItem records the quantity and the unit price snapshot taken at
// placement time. UnitPrice is never re-read from the catalog.
type OrderItem struct {
	ID        int64   `json:"id,string" form:"id"`
	OrderID   int64   `gorm:"index" json:"order_id,string" form:"order_id"`
	ProductID int64   `gorm:"index" json:"product_id,string" form:"product_id"`
	Quantity  int     `json:"quantity" form:"quantity"`
	UnitPrice float64 `json:"unit_price" form:"unit_price"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "shop_order_item"
}
