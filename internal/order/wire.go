package order

import (
	"go.uber.org/zap"

	"restopos/internal/api"
	"restopos/internal/cart"
	"restopos/internal/order/usecase"
)

type Module struct {
	Checkout     *usecase.CheckoutUseCase
	UpdateStatus *usecase.UpdateStatusUseCase
}

func NewModule(client *api.Client, carts *cart.Store, prompter usecase.TablePrompter, logger *zap.Logger) *Module {
	return &Module{
		Checkout:     usecase.NewCheckoutUseCase(client, carts, prompter, logger),
		UpdateStatus: usecase.NewUpdateStatusUseCase(client, logger),
	}
}
