package server

import (
	"time"

	"github.com/0xPexy/privatepay-backend/internal/config"
	"github.com/0xPexy/privatepay-backend/internal/store"
	"github.com/0xPexy/privatepay-backend/internal/wallet"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Deps struct {
	Config   config.Config
	Logger   zerolog.Logger
	Resolver wallet.AddressComputer
	Balances BalanceSource
	Repo     *store.Repository
	Hub      *EventHub
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(requestIDMiddleware())
	r.Use(requestLogger(d.Logger))
	r.Use(gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if origins := d.Config.Server.AllowOrigins; len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", healthHandler(d.Config.Server))

	walletH := newWalletHandler(d.Resolver, d.Balances, d.Config.Chain.ChainID, d.Logger)
	sweepH := newSweepHandler(d.Repo, d.Hub, d.Logger)
	linkH := newLinkHandler(d.Repo, d.Hub, d.Logger)

	api := r.Group("/api")
	{
		api.GET("/events", d.Hub.ServeWS)

		api.POST("/compute-address", walletH.ComputeAddress)
		api.GET("/balance/:address", walletH.Balance)
		api.GET("/balance-usdc/:address", walletH.BalanceUSDC)

		api.POST("/enable-auto-sweep", sweepH.Enable)
		api.POST("/disable-auto-sweep", sweepH.Disable)
		api.GET("/sweep-history/:address", sweepH.History)
		api.POST("/sweep-history/:address", sweepH.RecordSweep)
		api.GET("/auto-sweep/owner/:owner", sweepH.OwnerWallets)
		api.GET("/auto-sweep/stats", sweepH.Stats)

		api.POST("/payment-links", linkH.Create)
		api.GET("/payment-links/user/:address", linkH.ListByUser)
		api.GET("/payment-links/:id", linkH.Get)
		api.POST("/payment-links/:id/claim", linkH.Claim)
		api.GET("/payment-links/:id/claims", linkH.Claims)
	}

	return r
}
