// Package checkout drives the two-state checkout flow: editing shipping and
// payment details, then a confirmed receipt. The transition happens only when
// the order is actually created; every failure leaves the flow on the form
// with the cart intact.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sokophones/storefront/internal/cart"
	"github.com/sokophones/storefront/internal/models"
	"github.com/sokophones/storefront/internal/store"
)

type State int

const (
	StateForm State = iota
	StateReceipt
)

const DefaultPaymentMethod = "mpesa"

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrAlreadyPlaced = errors.New("order already placed")
	ErrMissingFields = errors.New("missing required fields")
)

// OrderPlacer is the seam between the flow and the order service.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req store.CreateOrderRequest) (*models.Order, error)
}

type FormData struct {
	FullName      string
	Email         string
	Phone         string
	Address       string
	PaymentMethod string
}

// Validate runs the local required-field checks and returns the names of
// missing fields. Email is optional.
func (f FormData) Validate() []string {
	var missing []string
	if strings.TrimSpace(f.FullName) == "" {
		missing = append(missing, "full name")
	}
	if strings.TrimSpace(f.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(f.Address) == "" {
		missing = append(missing, "address")
	}
	return missing
}

type Flow struct {
	state   State
	cart    *cart.Store
	orders  OrderPlacer
	Form    FormData
	receipt *models.Order
}

func NewFlow(c *cart.Store, orders OrderPlacer) *Flow {
	return &Flow{
		state:  StateForm,
		cart:   c,
		orders: orders,
		Form:   FormData{PaymentMethod: DefaultPaymentMethod},
	}
}

func (f *Flow) State() State {
	return f.state
}

// Receipt returns the confirmed order once the flow has reached StateReceipt.
func (f *Flow) Receipt() *models.Order {
	return f.receipt
}

// PlaceOrder validates the form, builds an order request from the current
// cart snapshot, and submits it. Success clears the cart and moves the flow
// to the receipt; any failure keeps the flow on the form and returns the
// error for the caller to surface.
func (f *Flow) PlaceOrder(ctx context.Context) (*models.Order, error) {
	if f.state != StateForm {
		return nil, ErrAlreadyPlaced
	}

	if missing := f.Form.Validate(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}

	items := f.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	req := store.CreateOrderRequest{
		CustomerName:    strings.TrimSpace(f.Form.FullName),
		CustomerEmail:   strings.TrimSpace(f.Form.Email),
		CustomerPhone:   strings.TrimSpace(f.Form.Phone),
		ShippingAddress: strings.TrimSpace(f.Form.Address),
		PaymentMethod:   f.Form.PaymentMethod,
	}
	if req.CustomerEmail == "" {
		req.CustomerEmail = synthesizeEmail(req.CustomerPhone)
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = DefaultPaymentMethod
	}

	for _, item := range items {
		req.Items = append(req.Items, store.OrderItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := f.orders.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := f.cart.Clear(); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	f.receipt = order
	f.state = StateReceipt
	return order, nil
}

// synthesizeEmail derives a placeholder address from the phone number when
// the customer leaves email blank.
func synthesizeEmail(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	if digits == "" {
		digits = "guest"
	}
	return digits + "@guest.sokophones.co.ke"
}
