package server

import (
	"context"
	"math/big"
	"net/http"
	"strings"

	"github.com/0xPexy/privatepay-backend/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// BalanceSource reads the native balance of an account.
type BalanceSource interface {
	Balance(ctx context.Context, account common.Address) (*big.Int, error)
}

type walletHandler struct {
	resolver wallet.AddressComputer
	balances BalanceSource
	chainID  uint64
	logger   zerolog.Logger
}

func newWalletHandler(resolver wallet.AddressComputer, balances BalanceSource, chainID uint64, logger zerolog.Logger) *walletHandler {
	return &walletHandler{resolver: resolver, balances: balances, chainID: chainID, logger: logger}
}

type computeAddressRequest struct {
	Owner string `json:"owner" binding:"required"`
	Salt  string `json:"salt"`
}

type ComputeAddressResponse struct {
	WalletAddress    string `json:"wallet_address"`
	Salt             string `json:"salt"`
	Owner            string `json:"owner"`
	DeployerContract string `json:"deployer_contract"`
	ChainID          uint64 `json:"chain_id"`
}

type BalanceResponse struct {
	Address    string `json:"address"`
	Balance    string `json:"balance"`
	BalanceEth string `json:"balance_eth"`
	HasFunds   bool   `json:"has_funds"`
}

type USDCBalanceResponse struct {
	Address     string `json:"address"`
	Balance     string `json:"balance"`
	BalanceUSDC string `json:"balance_usdc"`
	HasFunds    bool   `json:"has_funds"`
}

// ComputeAddress asks the factory for the counterfactual wallet of an owner.
// A fresh salt is drawn when the caller omits one.
func (h *walletHandler) ComputeAddress(c *gin.Context) {
	var req computeAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeAPIError(c, http.StatusBadRequest, "owner is required")
		return
	}
	owner, err := wallet.ParseAddress(req.Owner)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	var salt wallet.Salt
	if strings.TrimSpace(req.Salt) == "" {
		if salt, err = wallet.GenerateSalt(); err != nil {
			writeError(c, h.logger, err)
			return
		}
	} else if salt, err = wallet.ParseSalt(req.Salt); err != nil {
		writeError(c, h.logger, err)
		return
	}

	addr, err := h.resolver.Compute(c.Request.Context(), owner, salt)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ComputeAddressResponse{
		WalletAddress:    addr.Hex(),
		Salt:             salt.Hex(),
		Owner:            owner.Hex(),
		DeployerContract: h.resolver.Factory().Hex(),
		ChainID:          h.chainID,
	})
}

func (h *walletHandler) Balance(c *gin.Context) {
	account, err := wallet.ParseAddress(c.Param("address"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	bal, err := h.balances.Balance(c.Request.Context(), account)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, BalanceResponse{
		Address:    account.Hex(),
		Balance:    bal.String(),
		BalanceEth: wallet.FormatUnits(bal, wallet.EtherDecimals),
		HasFunds:   bal.Sign() > 0,
	})
}

// BalanceUSDC is a placeholder until token balances are read on chain.
func (h *walletHandler) BalanceUSDC(c *gin.Context) {
	account, err := wallet.ParseAddress(c.Param("address"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, USDCBalanceResponse{
		Address:     account.Hex(),
		Balance:     "0",
		BalanceUSDC: wallet.FormatUnitsFixed(new(big.Int), wallet.USDCDecimals),
		HasFunds:    false,
	})
}
