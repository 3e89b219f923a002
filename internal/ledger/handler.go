package ledger

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ClosedMessage is the plain-text body returned after a successful close.
const ClosedMessage = "Account closed successfully"

// Handler exposes account HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an account HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	HolderName *string `json:"accountHolderName"`
	Balance    *Amount `json:"accountBalance"`
}

type accountResponse struct {
	AccountNumber int64   `json:"accountNumber"`
	HolderName    *string `json:"accountHolderName"`
	Balance       *Amount `json:"accountBalance"`
}

func toResponse(a Account) accountResponse {
	resp := accountResponse{AccountNumber: a.ID, HolderName: a.HolderName}
	if a.Balance != nil {
		b := Amount(*a.Balance)
		resp.Balance = &b
	}
	return resp
}

// Create opens a new account.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	var balance *float64
	if req.Balance != nil {
		b := float64(*req.Balance)
		balance = &b
	}
	account, err := h.service.CreateAccount(c.UserContext(), req.HolderName, balance)
	if err != nil {
		return toFiberError(err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(account))
}

// Get returns a single account.
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := accountNumberParam(c)
	if err != nil {
		return err
	}
	account, err := h.service.GetAccountDetails(c.UserContext(), id)
	if err != nil {
		return toFiberError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(account))
}

// List returns every account.
func (h *Handler) List(c *fiber.Ctx) error {
	accounts, err := h.service.GetAllAccounts(c.UserContext())
	if err != nil {
		return toFiberError(err)
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toResponse(a))
	}
	return c.Status(http.StatusOK).JSON(out)
}

// Deposit credits the amount from the path to the account.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	id, amount, err := adjustParams(c)
	if err != nil {
		return err
	}
	account, err := h.service.DepositAmount(c.UserContext(), id, amount)
	if err != nil {
		return toFiberError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(account))
}

// Withdraw debits the amount from the path from the account.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	id, amount, err := adjustParams(c)
	if err != nil {
		return err
	}
	account, err := h.service.WithdrawAmount(c.UserContext(), id, amount)
	if err != nil {
		return toFiberError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(account))
}

// Close deletes the account.
func (h *Handler) Close(c *fiber.Ctx) error {
	id, err := accountNumberParam(c)
	if err != nil {
		return err
	}
	if err := h.service.CloseAccount(c.UserContext(), id); err != nil {
		return toFiberError(err)
	}
	return c.Status(http.StatusOK).SendString(ClosedMessage)
}

func accountNumberParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("accountNumber"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid account number")
	}
	return id, nil
}

func adjustParams(c *fiber.Ctx) (int64, float64, error) {
	id, err := accountNumberParam(c)
	if err != nil {
		return 0, 0, err
	}
	amount, err := strconv.ParseFloat(c.Params("amount"), 64)
	if err != nil {
		return 0, 0, fiber.NewError(http.StatusBadRequest, "invalid amount")
	}
	return id, amount, nil
}

func toFiberError(err error) error {
	switch {
	case errors.Is(err, ErrAccountNotFound):
		return fiber.NewError(http.StatusNotFound, ErrAccountNotFound.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
