package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokophones/storefront/internal/cart"
	"github.com/sokophones/storefront/internal/models"
	"github.com/sokophones/storefront/internal/store"
)

type fakePlacer struct {
	lastReq store.CreateOrderRequest
	order   *models.Order
	err     error
	calls   int
}

func (f *fakePlacer) CreateOrder(ctx context.Context, req store.CreateOrderRequest) (*models.Order, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

func cartWith(t *testing.T, items ...models.CartItem) *cart.Store {
	t.Helper()
	c, err := cart.New(nil)
	require.NoError(t, err)
	for _, item := range items {
		require.NoError(t, c.Add(item, item.Quantity))
	}
	return c
}

func line(id int64, name string, price int64, qty int) models.CartItem {
	return models.CartItem{
		ProductID: id,
		Name:      name,
		UnitPrice: decimal.NewFromInt(price),
		Quantity:  qty,
	}
}

func validForm() FormData {
	return FormData{
		FullName:      "Achieng Odhiambo",
		Email:         "achieng@example.com",
		Phone:         "+254 712 345678",
		Address:       "Moi Avenue, Nairobi",
		PaymentMethod: "mpesa",
	}
}

func TestValidateReportsMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		form    FormData
		missing []string
	}{
		{"all present", validForm(), nil},
		{"empty form", FormData{}, []string{"full name", "phone", "address"}},
		{"whitespace only", FormData{FullName: "  ", Phone: "\t", Address: "x"}, []string{"full name", "phone"}},
		{"email optional", FormData{FullName: "A", Phone: "1", Address: "B"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.missing, tt.form.Validate())
		})
	}
}

func TestPlaceOrderValidationFailureStaysOnForm(t *testing.T) {
	placer := &fakePlacer{}
	flow := NewFlow(cartWith(t, line(1, "iPhone 17 Pro Max", 129900, 1)), placer)
	flow.Form = FormData{Email: "only@example.com"}

	_, err := flow.PlaceOrder(context.Background())
	require.ErrorIs(t, err, ErrMissingFields)
	assert.Equal(t, StateForm, flow.State())
	assert.Zero(t, placer.calls, "no network call before validation passes")
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	placer := &fakePlacer{}
	flow := NewFlow(cartWith(t), placer)
	flow.Form = validForm()

	_, err := flow.PlaceOrder(context.Background())
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, StateForm, flow.State())
	assert.Zero(t, placer.calls)
}

func TestPlaceOrderSuccessClearsCartAndTransitions(t *testing.T) {
	receipt := &models.Order{ID: 7, OrderNumber: "ORD-x", Status: models.OrderStatusPending}
	placer := &fakePlacer{order: receipt}

	c := cartWith(t,
		line(1, "iPhone 17 Pro Max", 129900, 2),
		line(2, "Galaxy S24 Ultra", 119900, 1),
	)
	flow := NewFlow(c, placer)
	flow.Form = validForm()

	order, err := flow.PlaceOrder(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateReceipt, flow.State())
	assert.Same(t, receipt, order)
	assert.Same(t, receipt, flow.Receipt())
	assert.Equal(t, 0, c.Len(), "cart clears on successful placement")

	require.Len(t, placer.lastReq.Items, 2)
	assert.Equal(t, store.OrderItemRequest{ProductID: 1, Quantity: 2}, placer.lastReq.Items[0])
	assert.Equal(t, store.OrderItemRequest{ProductID: 2, Quantity: 1}, placer.lastReq.Items[1])
}

func TestPlaceOrderFailureKeepsCart(t *testing.T) {
	placer := &fakePlacer{err: errors.New("backend rejected insert")}
	c := cartWith(t, line(1, "iPhone 17 Pro Max", 129900, 1))
	flow := NewFlow(c, placer)
	flow.Form = validForm()

	_, err := flow.PlaceOrder(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateForm, flow.State())
	assert.Nil(t, flow.Receipt())
	assert.Equal(t, 1, c.Len(), "failed placement must not lose the cart")
}

func TestPlaceOrderSynthesizesEmailFromPhone(t *testing.T) {
	placer := &fakePlacer{order: &models.Order{ID: 1}}
	flow := NewFlow(cartWith(t, line(1, "iPhone 17 Air", 99999, 1)), placer)
	flow.Form = validForm()
	flow.Form.Email = ""

	_, err := flow.PlaceOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "254712345678@guest.sokophones.co.ke", placer.lastReq.CustomerEmail)
}

func TestPlaceOrderDefaultsPaymentMethod(t *testing.T) {
	placer := &fakePlacer{order: &models.Order{ID: 1}}
	flow := NewFlow(cartWith(t, line(1, "iPhone 17 Air", 99999, 1)), placer)
	flow.Form = validForm()
	flow.Form.PaymentMethod = ""

	_, err := flow.PlaceOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultPaymentMethod, placer.lastReq.PaymentMethod)
}

func TestPlaceOrderTwiceRejected(t *testing.T) {
	placer := &fakePlacer{order: &models.Order{ID: 1}}
	flow := NewFlow(cartWith(t, line(1, "iPhone 17 Air", 99999, 1)), placer)
	flow.Form = validForm()

	_, err := flow.PlaceOrder(context.Background())
	require.NoError(t, err)

	_, err = flow.PlaceOrder(context.Background())
	require.ErrorIs(t, err, ErrAlreadyPlaced)
	assert.Equal(t, 1, placer.calls)
}
