package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorlink/tutorlink-api/internal/dto"
	"github.com/tutorlink/tutorlink-api/internal/service"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
	"github.com/tutorlink/tutorlink-api/pkg/response"
)

// WalletHandler exposes the internal credit ledger.
type WalletHandler struct {
	service *service.WalletService
}

// NewWalletHandler creates a new handler.
func NewWalletHandler(svc *service.WalletService) *WalletHandler {
	return &WalletHandler{service: svc}
}

// Balance godoc
// @Summary Wallet balance
// @Tags Wallet
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /wallet [get]
func (h *WalletHandler) Balance(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	wallet, err := h.service.Balance(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, wallet, nil)
}

// TopUp godoc
// @Summary Top up wallet
// @Tags Wallet
// @Accept json
// @Produce json
// @Param payload body dto.TopUpRequest true "Amount"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /wallet/topup [post]
func (h *WalletHandler) TopUp(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid top-up payload"))
		return
	}

	wallet, err := h.service.TopUp(c.Request.Context(), claims.UserID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, wallet, nil)
}

// Transactions godoc
// @Summary Wallet ledger
// @Tags Wallet
// @Produce json
// @Param limit query int false "Max entries"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /wallet/transactions [get]
func (h *WalletHandler) Transactions(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.TransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}

	list, err := h.service.Transactions(c.Request.Context(), claims.UserID, req.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, list, nil)
}
