package orders

import (
	"time"

	"github.com/casatienda/storefront-backend/pkg/db/models"
	"github.com/casatienda/storefront-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItemInput references one product the customer wants to buy.
// Each cart entry becomes its own line item with quantity 1; repeating a
// product id yields repeated line items.
type CartItemInput struct {
	ProductID uuid.UUID
}

// CustomerInput is the checkout contact snapshot stored on the order.
// Name, email, and phone are all required; they are captured verbatim and
// never re-validated against the buyer's stored profile.
type CustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address *string
}

// SubmitOrderInput carries everything the coordinator needs to submit a cart.
type SubmitOrderInput struct {
	UserID   uuid.UUID
	Customer CustomerInput
	Items    []CartItemInput
}

// SubmitOrderResult is returned once the transaction commits.
type SubmitOrderResult struct {
	OrderID     uuid.UUID       `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// OrderItemDTO is the transport shape for one frozen line item.
type OrderItemDTO struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// OrderDTO is the transport shape for a submitted order.
type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"user_id"`
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerPhone   *string           `json:"customer_phone,omitempty"`
	ShippingAddress *string           `json:"shipping_address,omitempty"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	Status          enums.OrderStatus `json:"status"`
	Items           []OrderItemDTO    `json:"items"`
	CreatedAt       time.Time         `json:"created_at"`
}

// FromModel maps a persisted order to its transport shape.
func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return &OrderDTO{
		ID:              o.ID,
		UserID:          o.UserID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		ShippingAddress: o.ShippingAddress,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		Items:           items,
		CreatedAt:       o.CreatedAt,
	}
}

// FromModels maps a slice of orders preserving order.
func FromModels(items []models.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *FromModel(&items[i]))
	}
	return dtos
}
