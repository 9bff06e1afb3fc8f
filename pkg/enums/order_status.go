package enums

import "fmt"

// OrderStatus is the fulfillment state a sales export reports per line item.
// Only the listed states are retained by the normalizer; anything else is
// treated as noise and dropped.
type OrderStatus string

const (
	OrderStatusShipped          OrderStatus = "Shipped"
	OrderStatusShippedDelivered OrderStatus = "Shipped - Delivered to Buyer"
	OrderStatusCompleted        OrderStatus = "Completed"
	OrderStatusPending          OrderStatus = "Pending"
	OrderStatusCancelled        OrderStatus = "Cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusShipped,
	OrderStatusShippedDelivered,
	OrderStatusCompleted,
	OrderStatusPending,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
