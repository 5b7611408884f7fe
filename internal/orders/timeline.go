package orders

import (
	"time"

	"github.com/jabirmahmud0/techhive-client/pkg/types"
)

// Stage is one step of the fulfillment timeline.
type Stage struct {
	Name      string
	Completed bool
	At        time.Time
}

// Timeline stage names in fulfillment order.
const (
	StagePlaced    = "Order Placed"
	StagePayment   = "Payment Confirmed"
	StageShipped   = "Order Shipped"
	StageDelivered = "Order Delivered"
)

// Timeline derives the four-stage fulfillment view from an order record.
// Placement is always complete. Payment completes on the paid flag.
// The backend models shipping and delivery as a single delivered flag, so
// the shipped stage completes together with delivery and carries no
// timestamp of its own.
func Timeline(order types.Order) []Stage {
	placed := Stage{Name: StagePlaced, Completed: true, At: order.CreatedAt}

	payment := Stage{Name: StagePayment, At: order.CreatedAt}
	if order.IsPaid {
		payment.Completed = true
		if order.PaidAt != nil {
			payment.At = *order.PaidAt
		}
	}

	shipped := Stage{Name: StageShipped, Completed: order.IsDelivered}

	delivered := Stage{Name: StageDelivered, At: order.CreatedAt}
	if order.IsDelivered {
		delivered.Completed = true
		if order.DeliveredAt != nil {
			delivered.At = *order.DeliveredAt
		}
	}

	return []Stage{placed, payment, shipped, delivered}
}
