package server

import (
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/0xPexy/privatepay-backend/internal/store"
	"github.com/0xPexy/privatepay-backend/internal/wallet"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type linkHandler struct {
	repo   *store.Repository
	events Publisher
	now    func() time.Time
	logger zerolog.Logger
}

func newLinkHandler(repo *store.Repository, events Publisher, logger zerolog.Logger) *linkHandler {
	return &linkHandler{repo: repo, events: events, now: time.Now, logger: logger}
}

type createLinkRequest struct {
	CreatorAddress   string  `json:"creator_address" binding:"required"`
	RecipientAddress *string `json:"recipient_address"`
	Amount           *string `json:"amount"`
	Description      *string `json:"description"`
	ExpiresInHours   *int64  `json:"expires_in_hours"`
	MaxClaims        *int64  `json:"max_claims"`
}

type claimLinkRequest struct {
	PayerAddress string `json:"payer_address" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
	TxHash       string `json:"tx_hash" binding:"required"`
}

// LinkView is a stored link plus its lifecycle state at read time.
type LinkView struct {
	store.PaymentLink
	Status store.LinkStatus `json:"status"`
}

func (h *linkHandler) view(link store.PaymentLink) LinkView {
	return LinkView{PaymentLink: link, Status: link.StatusAt(h.now().UnixMilli())}
}

func (h *linkHandler) Create(c *gin.Context) {
	var req createLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeAPIError(c, http.StatusBadRequest, "creator_address is required")
		return
	}
	creator, err := wallet.ParseAddress(req.CreatorAddress)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if req.RecipientAddress != nil && strings.TrimSpace(*req.RecipientAddress) != "" {
		if _, err := wallet.ParseAddress(*req.RecipientAddress); err != nil {
			writeError(c, h.logger, err)
			return
		}
	}
	if req.MaxClaims != nil && *req.MaxClaims < 0 {
		writeAPIError(c, http.StatusBadRequest, "max_claims must be zero (unlimited) or positive")
		return
	}
	if req.ExpiresInHours != nil && (*req.ExpiresInHours < 0 || *req.ExpiresInHours > store.MaxExpiresInHours) {
		writeAPIError(c, http.StatusBadRequest, fmt.Sprintf("expires_in_hours must be between 0 and %d", store.MaxExpiresInHours))
		return
	}

	link, err := h.repo.CreatePaymentLink(c.Request.Context(), store.NewPaymentLink{
		CreatorAddress:   creator.Hex(),
		RecipientAddress: req.RecipientAddress,
		Amount:           req.Amount,
		Description:      req.Description,
		ExpiresInHours:   req.ExpiresInHours,
		MaxClaims:        req.MaxClaims,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	v := h.view(*link)
	h.publish(EventPaymentLinkCreated, v)
	c.JSON(http.StatusCreated, gin.H{"success": true, "link": v})
}

func (h *linkHandler) Get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if !store.ValidLinkID(id) {
		writeError(c, h.logger, store.ErrNotFound)
		return
	}
	link, err := h.repo.GetPaymentLink(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "link": h.view(*link)})
}

func (h *linkHandler) ListByUser(c *gin.Context) {
	creator, err := wallet.ParseAddress(c.Param("address"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	links, err := h.repo.ListUserPaymentLinks(c.Request.Context(), creator.Hex(), limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	views := make([]LinkView, 0, len(links))
	for _, l := range links {
		views = append(views, h.view(l))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "links": views})
}

func (h *linkHandler) Claim(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if !store.ValidLinkID(id) {
		writeError(c, h.logger, store.ErrNotFound)
		return
	}
	var req claimLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeAPIError(c, http.StatusBadRequest, "payer_address, amount and tx_hash are required")
		return
	}
	payer, err := wallet.ParseAddress(req.PayerAddress)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if raw, err := hexutil.Decode(strings.TrimSpace(req.TxHash)); err != nil || len(raw) != 32 {
		writeAPIError(c, http.StatusBadRequest, "tx_hash must be a 32-byte hex string")
		return
	}
	amount := strings.TrimSpace(req.Amount)
	if v, ok := new(big.Int).SetString(amount, 10); !ok || v.Sign() < 0 {
		writeAPIError(c, http.StatusBadRequest, "amount must be an integer in base units")
		return
	}

	claim, err := h.repo.ClaimPaymentLink(c.Request.Context(), store.ClaimInput{
		LinkID:       id,
		PayerAddress: payer.Hex(),
		Amount:       amount,
		TxHash:       req.TxHash,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.publish(EventPaymentLinkClaimed, claim)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment claim recorded", "claim": claim})
}

func (h *linkHandler) Claims(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if !store.ValidLinkID(id) {
		writeError(c, h.logger, store.ErrNotFound)
		return
	}
	if _, err := h.repo.GetPaymentLink(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	claims, err := h.repo.ListLinkClaims(c.Request.Context(), id, limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "claims": claims})
}

func (h *linkHandler) publish(kind string, data any) {
	if h.events != nil {
		h.events.Publish(kind, data)
	}
}
