package order

import (
	"time"

	"github.com/gofrs/uuid"
)

type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusOutForDelivery Status = "out-for-delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

// ValidStatus reports whether s is a member of the status enum.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// PaymentMethodCOD is the only supported payment method.
const PaymentMethodCOD = "cod"

// Item is a line-item snapshot, decoupled from live catalog state so later
// product edits do not alter historical orders.
type Item struct {
	ID           uuid.UUID `json:"id" db:"id"`
	OrderID      uuid.UUID `json:"order_id" db:"order_id"`
	ProductID    uuid.UUID `json:"product_id" db:"product_id"`
	Name         string    `json:"name" db:"name"`
	PricePerUnit float64   `json:"price" db:"price_per_unit"`
	Quantity     int       `json:"quantity" db:"quantity"`
	Image        string    `json:"image" db:"image"`
}

// Address is the delivery address snapshot captured at checkout.
type Address struct {
	Street  string `json:"street" db:"street"`
	City    string `json:"city" db:"city"`
	State   string `json:"state" db:"state"`
	Pincode string `json:"pincode" db:"pincode"`
}

// OwnerSummary is attached to orders in admin listings.
type OwnerSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type Order struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	UserID        uuid.UUID     `json:"user_id" db:"user_id"`
	Items         []Item        `json:"items" db:"-"`
	TotalAmount   float64       `json:"total_amount" db:"total_amount"`
	Address       Address       `json:"delivery_address"`
	Status        Status        `json:"status" db:"status"`
	PaymentMethod string        `json:"payment_method" db:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	Owner         *OwnerSummary `json:"user,omitempty" db:"-"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}
