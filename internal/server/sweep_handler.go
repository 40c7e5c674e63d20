package server

import (
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/0xPexy/privatepay-backend/internal/store"
	"github.com/0xPexy/privatepay-backend/internal/wallet"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Publisher receives ledger events for live subscribers.
type Publisher interface {
	Publish(kind string, data any)
}

type sweepHandler struct {
	repo   *store.Repository
	events Publisher
	logger zerolog.Logger
}

func newSweepHandler(repo *store.Repository, events Publisher, logger zerolog.Logger) *sweepHandler {
	return &sweepHandler{repo: repo, events: events, logger: logger}
}

type autoSweepRequest struct {
	Address string `json:"address" binding:"required"`
	Owner   string `json:"owner"`
	Salt    string `json:"salt"`
}

type recordSweepRequest struct {
	TxHash    string `json:"tx_hash" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	Recipient string `json:"recipient" binding:"required"`
}

func (h *sweepHandler) Enable(c *gin.Context) {
	var req autoSweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeAPIError(c, http.StatusBadRequest, "address, owner and salt are required")
		return
	}
	address, err := wallet.ParseAddress(req.Address)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	owner, err := wallet.ParseAddress(req.Owner)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	salt, err := wallet.ParseSalt(req.Salt)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	addr := store.NormalizeAddress(address.Hex())
	own := store.NormalizeAddress(owner.Hex())
	created, err := h.repo.EnableAutoSweep(c.Request.Context(), addr, own, salt.Hex())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	msg := "Wallet already registered for auto-sweep"
	if created {
		msg = "Auto-sweep enabled"
		h.publish(EventAutoSweepEnabled, gin.H{"address": addr, "owner": own})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg, "address": addr, "owner": own})
}

// Disable removes a registration. Unknown addresses succeed as a no-op.
func (h *sweepHandler) Disable(c *gin.Context) {
	var req autoSweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeAPIError(c, http.StatusBadRequest, "address is required")
		return
	}
	address, err := wallet.ParseAddress(req.Address)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	addr := store.NormalizeAddress(address.Hex())
	removed, err := h.repo.DisableAutoSweep(c.Request.Context(), addr)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if removed {
		h.publish(EventAutoSweepDisabled, gin.H{"address": addr})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Auto-sweep disabled", "address": addr})
}

func (h *sweepHandler) History(c *gin.Context) {
	address, err := wallet.ParseAddress(c.Param("address"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	history, err := h.repo.ListSweepHistory(c.Request.Context(), address.Hex(), limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "history": history})
}

// RecordSweep appends a sweep reported by the executor that sent it.
func (h *sweepHandler) RecordSweep(c *gin.Context) {
	address, err := wallet.ParseAddress(c.Param("address"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	var req recordSweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeAPIError(c, http.StatusBadRequest, "tx_hash, amount and recipient are required")
		return
	}
	recipient, err := wallet.ParseAddress(req.Recipient)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if _, ok := new(big.Int).SetString(strings.TrimSpace(req.Amount), 10); !ok {
		writeAPIError(c, http.StatusBadRequest, "amount must be an integer in base units")
		return
	}
	rec, err := h.repo.RecordSweep(c.Request.Context(), address.Hex(), req.TxHash, req.Amount, recipient.Hex())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.publish(EventSweepRecorded, rec)
	c.JSON(http.StatusCreated, gin.H{"success": true, "record": rec})
}

func (h *sweepHandler) OwnerWallets(c *gin.Context) {
	owner, err := wallet.ParseAddress(c.Param("owner"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	wallets, err := h.repo.ListOwnerWallets(c.Request.Context(), owner.Hex(), limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "wallets": wallets})
}

func (h *sweepHandler) Stats(c *gin.Context) {
	stats, err := h.repo.Stats(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"total_wallets": stats.TotalWallets,
		"total_sweeps":  stats.TotalSweeps,
	})
}

func (h *sweepHandler) publish(kind string, data any) {
	if h.events != nil {
		h.events.Publish(kind, data)
	}
}

// parseLimit reads an optional ?limit=; the store clamps it to its maximum.
func parseLimit(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return 0, true
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		writeAPIError(c, http.StatusBadRequest, "invalid limit")
		return 0, false
	}
	return val, true
}
