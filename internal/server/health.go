package server

import (
	"net/http"

	"github.com/0xPexy/privatepay-backend/internal/config"
	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func healthHandler(cfg config.ServerConfig) gin.HandlerFunc {
	resp := HealthResponse{Status: "healthy", Service: cfg.ServiceName, Version: cfg.Version}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, resp)
	}
}
