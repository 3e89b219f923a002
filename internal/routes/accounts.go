package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/account_ledger/internal/ledger"
)

// RegisterAccountRoutes wires the account ledger endpoints. /all is registered
// before /:accountNumber so it is not captured as an account number.
func RegisterAccountRoutes(r fiber.Router, h *ledger.Handler) {
	group := r.Group("/account")
	group.Post("/create", h.Create)
	group.Get("/all", h.List)
	group.Get("/:accountNumber", h.Get)
	group.Put("/deposit/:accountNumber/:amount", h.Deposit)
	group.Put("/withdraw/:accountNumber/:amount", h.Withdraw)
	group.Delete("/delete/:accountNumber", h.Close)
}
