package ordering

import "github.com/Tanmay-Anand/secure-e-commerce/internal/domain"

// Event bus topics published by the order workflow.
const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status.changed"
)

type OrderCreatedEvent struct {
	Order    *domain.Order
	Username string
}

type OrderStatusChangedEvent struct {
	OrderID    int64
	UserID     int64
	FromStatus string
	ToStatus   string
}
