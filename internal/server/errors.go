package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/0xPexy/privatepay-backend/internal/store"
	"github.com/0xPexy/privatepay-backend/internal/wallet"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// statusClientClosedRequest marks requests abandoned by the caller.
const statusClientClosedRequest = 499

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeAPIError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Error: msg})
}

// errorStatus maps domain errors to an HTTP status and a client-facing message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, "request cancelled"
	case errors.Is(err, wallet.ErrInvalidSalt):
		return http.StatusBadRequest, "salt must be 0x-prefixed hex encoding exactly 32 bytes"
	case errors.Is(err, wallet.ErrInvalidAddress):
		return http.StatusBadRequest, "invalid address"
	case errors.Is(err, store.ErrInvalidInput):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "Payment link not found"
	case errors.Is(err, store.ErrLinkExhausted):
		return http.StatusConflict, "Payment link has reached its claim limit"
	case errors.Is(err, store.ErrLinkExpired):
		return http.StatusConflict, "Payment link has expired"
	case errors.Is(err, store.ErrLinkInactive):
		return http.StatusConflict, "Payment link is not active"
	case errors.Is(err, wallet.ErrTimeout), errors.Is(err, store.ErrTimeout):
		return http.StatusGatewayTimeout, "upstream timed out"
	case errors.Is(err, wallet.ErrCallFailed), errors.Is(err, wallet.ErrDecodeResult):
		return http.StatusInternalServerError, "chain call failed"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// writeError logs server-side failures and writes the mapped response.
func writeError(c *gin.Context, log zerolog.Logger, err error) {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Str("request_id", requestID(c)).Msg("request failed")
	}
	writeAPIError(c, status, msg)
}
