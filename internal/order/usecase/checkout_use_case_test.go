package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"restopos/internal/cart"
	"restopos/internal/domain"
	"restopos/internal/dto"
	apperrors "restopos/internal/errors"
)

type mockOrderCreator struct {
	CreateOrderFunc func(ctx context.Context, in dto.CreateOrderRequest) (domain.Order, error)
	calls           int
}

func (m *mockOrderCreator) CreateOrder(ctx context.Context, in dto.CreateOrderRequest) (domain.Order, error) {
	m.calls++
	return m.CreateOrderFunc(ctx, in)
}

type mockTablePrompter struct {
	prompts int
}

func (m *mockTablePrompter) PromptTable() {
	m.prompts++
}

var nasiGoreng = domain.MenuItem{ID: 7, Name: "Nasi goreng", Price: decimal.NewFromInt(50000)}

func cartWith(fns ...func(cart.Cart) cart.Cart) *cart.Store {
	s := cart.NewStore()
	for _, fn := range fns {
		s.Dispatch(fn)
	}
	return s
}

func addTwo(c cart.Cart) cart.Cart {
	return c.AddItem(nasiGoreng).AddItem(nasiGoreng)
}

func withTable(id int64) func(cart.Cart) cart.Cart {
	return func(c cart.Cart) cart.Cart {
		return c.SetCustomerInfo(cart.CustomerInfo{TableID: &id})
	}
}

func TestCheckout_EmptyCartMakesNoRequest(t *testing.T) {
	creator := &mockOrderCreator{}
	uc := NewCheckoutUseCase(creator, cart.NewStore(), &mockTablePrompter{}, zap.NewNop())

	_, err := uc.Checkout(context.Background(), Payment{Method: domain.PaymentCash, Paid: decimal.NewFromInt(1000)})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "items", ve.Details[0].Field)
	assert.Zero(t, creator.calls)
}

func TestCheckout_DineInWithoutTablePromptsAndRefuses(t *testing.T) {
	creator := &mockOrderCreator{}
	prompter := &mockTablePrompter{}
	store := cartWith(addTwo)
	uc := NewCheckoutUseCase(creator, store, prompter, zap.NewNop())

	_, err := uc.Checkout(context.Background(), Payment{Method: domain.PaymentCard})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "table_id", ve.Details[0].Field)
	assert.Equal(t, 1, prompter.prompts)
	assert.Zero(t, creator.calls)
	assert.Equal(t, 2, store.Snapshot().ItemCount())
}

func TestCheckout_CashBelowTotalIsRefused(t *testing.T) {
	creator := &mockOrderCreator{}
	uc := NewCheckoutUseCase(creator, cartWith(addTwo, withTable(3)), nil, zap.NewNop())

	_, err := uc.Checkout(context.Background(), Payment{Method: domain.PaymentCash, Paid: decimal.NewFromInt(100000)})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "paid_amount", ve.Details[0].Field)
	assert.Zero(t, creator.calls)
}

func TestCheckout_UnknownPaymentMethod(t *testing.T) {
	creator := &mockOrderCreator{}
	uc := NewCheckoutUseCase(creator, cartWith(addTwo, withTable(3)), nil, zap.NewNop())

	_, err := uc.Checkout(context.Background(), Payment{Method: "voucher"})

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
	assert.Zero(t, creator.calls)
}

func TestCheckout_SuccessClearsCartAndReturnsChange(t *testing.T) {
	var sent dto.CreateOrderRequest
	creator := &mockOrderCreator{
		CreateOrderFunc: func(ctx context.Context, in dto.CreateOrderRequest) (domain.Order, error) {
			sent = in
			return domain.Order{ID: 41, OrderNumber: "ORD-0041", Status: domain.OrderStatusPending}, nil
		},
	}
	store := cartWith(addTwo, withTable(3), func(c cart.Cart) cart.Cart {
		return c.SetLineNotes(nasiGoreng.ID, "no egg")
	})
	uc := NewCheckoutUseCase(creator, store, nil, zap.NewNop())

	res, err := uc.Checkout(context.Background(), Payment{Method: domain.PaymentCash, Paid: decimal.NewFromInt(120000)})
	require.NoError(t, err)

	assert.Equal(t, int64(41), res.Order.ID)
	assert.True(t, res.Change.Equal(decimal.NewFromInt(10000)), res.Change.String())
	assert.True(t, store.Snapshot().IsEmpty())

	assert.Equal(t, "dine_in", sent.OrderType)
	require.NotNil(t, sent.TableID)
	assert.Equal(t, int64(3), *sent.TableID)
	assert.Equal(t, "cash", sent.PaymentMethod)
	require.Len(t, sent.Items, 1)
	assert.Equal(t, dto.CreateOrderItemRequest{MenuItemID: 7, Quantity: 2, Notes: "no egg"}, sent.Items[0])
}

func TestCheckout_CardIsChargedPayableTotal(t *testing.T) {
	var sent dto.CreateOrderRequest
	creator := &mockOrderCreator{
		CreateOrderFunc: func(ctx context.Context, in dto.CreateOrderRequest) (domain.Order, error) {
			sent = in
			return domain.Order{ID: 1}, nil
		},
	}
	store := cartWith(addTwo, func(c cart.Cart) cart.Cart { return c.SetOrderType(domain.OrderTypeTakeaway) })
	uc := NewCheckoutUseCase(creator, store, nil, zap.NewNop())

	res, err := uc.Checkout(context.Background(), Payment{Method: domain.PaymentQRIS})
	require.NoError(t, err)

	assert.True(t, sent.PaidAmount.Equal(decimal.NewFromInt(110000)), sent.PaidAmount.String())
	assert.Nil(t, sent.TableID)
	assert.True(t, res.Change.IsZero())
}

func TestCheckout_FailureKeepsCart(t *testing.T) {
	creator := &mockOrderCreator{
		CreateOrderFunc: func(ctx context.Context, in dto.CreateOrderRequest) (domain.Order, error) {
			return domain.Order{}, apperrors.NewAPIError(422, "menu item 7 is not available")
		},
	}
	store := cartWith(addTwo, withTable(3))
	before := store.Snapshot()
	uc := NewCheckoutUseCase(creator, store, nil, zap.NewNop())

	_, err := uc.Checkout(context.Background(), Payment{Method: domain.PaymentCard})
	require.Error(t, err)

	assert.Equal(t, "menu item 7 is not available", apperrors.UserMessage(err))
	assert.Equal(t, before, store.Snapshot())
}

func TestCheckout_RefusesWhileInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	creator := &mockOrderCreator{
		CreateOrderFunc: func(ctx context.Context, in dto.CreateOrderRequest) (domain.Order, error) {
			close(entered)
			<-release
			return domain.Order{ID: 9}, nil
		},
	}
	uc := NewCheckoutUseCase(creator, cartWith(addTwo, withTable(3)), nil, zap.NewNop())

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = uc.Checkout(context.Background(), Payment{Method: domain.PaymentCard})
	}()

	<-entered
	_, err := uc.Checkout(context.Background(), Payment{Method: domain.PaymentCard})
	_, isConflict := apperrors.IsConflictError(err)
	assert.True(t, isConflict)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, 1, creator.calls)
}

func TestCheckout_GuardReleasedAfterFailure(t *testing.T) {
	attempts := 0
	creator := &mockOrderCreator{
		CreateOrderFunc: func(ctx context.Context, in dto.CreateOrderRequest) (domain.Order, error) {
			attempts++
			if attempts == 1 {
				return domain.Order{}, apperrors.NewNetworkError(errors.New("dial tcp: refused"))
			}
			return domain.Order{ID: 2}, nil
		},
	}
	uc := NewCheckoutUseCase(creator, cartWith(addTwo, withTable(3)), nil, zap.NewNop())

	_, err := uc.Checkout(context.Background(), Payment{Method: domain.PaymentCard})
	assert.Equal(t, apperrors.ConnectionMessage, apperrors.UserMessage(err))

	res, err := uc.Checkout(context.Background(), Payment{Method: domain.PaymentCard})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Order.ID)
}
