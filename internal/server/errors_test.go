package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/0xPexy/privatepay-backend/internal/store"
	"github.com/0xPexy/privatepay-backend/internal/wallet"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: bad", wallet.ErrInvalidSalt), http.StatusBadRequest},
		{store.ErrNotFound, http.StatusNotFound},
		{store.ErrLinkExpired, http.StatusConflict},
		{fmt.Errorf("get: %w", store.ErrTimeout), http.StatusGatewayTimeout},
		{fmt.Errorf("eth_call: %w", context.Canceled), statusClientClosedRequest},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, msg := errorStatus(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.NotEmpty(t, msg)
	}
}

func TestCancelledRequestIsNotLoggedAsFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/compute-address", nil)

	writeError(c, logger, context.Canceled)
	assert.Equal(t, statusClientClosedRequest, w.Code)
	assert.Zero(t, buf.Len())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/compute-address", nil)

	writeError(c, logger, fmt.Errorf("%w: connection refused", wallet.ErrCallFailed))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "request failed")
}

func TestComputeAddressCancelledByClient(t *testing.T) {
	s := newTestServer(t, fakeResolver{err: context.Canceled}, nil)
	w := s.do(t, http.MethodPost, "/api/compute-address", gin.H{"owner": ownerHex, "salt": saltHex})
	assert.Equal(t, statusClientClosedRequest, w.Code)
}
