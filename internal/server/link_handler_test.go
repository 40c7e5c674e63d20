package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/0xPexy/privatepay-backend/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	creatorHex  = "0x00000000000000000000000000000000000000c1"
	badPayerHex = "0x00000000000000000000000000000000000000p1"
	txHashHex   = "0x5555555555555555555555555555555555555555555555555555555555555555"
)

type linkResponse struct {
	Success bool     `json:"success"`
	Link    LinkView `json:"link"`
}

func claimBody() gin.H {
	return gin.H{"payer_address": sweepWallet, "amount": "1000000", "tx_hash": txHashHex}
}

func createLink(t *testing.T, s *testServer, body gin.H) LinkView {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/payment-links", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[linkResponse](t, w)
	require.True(t, resp.Success)
	return resp.Link
}

func TestCreateAndGetPaymentLink(t *testing.T) {
	s := newTestServer(t, nil, nil)

	link := createLink(t, s, gin.H{
		"creator_address":  creatorHex,
		"amount":           "1000000",
		"description":      "lunch",
		"expires_in_hours": 24,
	})
	assert.True(t, store.ValidLinkID(link.ID))
	assert.Equal(t, creatorHex, link.CreatorAddress)
	assert.Equal(t, int64(1), link.MaxClaims)
	assert.Zero(t, link.ClaimCount)
	assert.True(t, link.IsActive)
	assert.Equal(t, store.LinkActive, link.Status)
	require.NotNil(t, link.ExpiresAt)
	assert.Equal(t, link.CreatedAt+24*3_600_000, *link.ExpiresAt)

	w := s.do(t, http.MethodGet, "/api/payment-links/"+link.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[linkResponse](t, w).Link
	assert.Equal(t, link, got)
	assert.Contains(t, w.Body.String(), `"creatorAddress"`)
	assert.Contains(t, w.Body.String(), `"claimCount"`)
}

func TestCreatePaymentLinkValidation(t *testing.T) {
	s := newTestServer(t, nil, nil)
	for name, body := range map[string]gin.H{
		"missing creator":   {"amount": "1"},
		"bad creator":       {"creator_address": "bob"},
		"bad recipient":     {"creator_address": creatorHex, "recipient_address": "0x12"},
		"negative claims":   {"creator_address": creatorHex, "max_claims": -1},
		"negative hours":    {"creator_address": creatorHex, "expires_in_hours": -2},
		"non-integer hours": {"creator_address": creatorHex, "expires_in_hours": "soon"},
		"overflowing hours": {"creator_address": creatorHex, "expires_in_hours": int64(1) << 50},
		"hours past cap":    {"creator_address": creatorHex, "expires_in_hours": store.MaxExpiresInHours + 1},
	} {
		t.Run(name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/payment-links", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestGetPaymentLinkNotFound(t *testing.T) {
	s := newTestServer(t, nil, nil)

	for _, id := range []string{"abcd1234", "NOT-AN-ID"} {
		w := s.do(t, http.MethodGet, "/api/payment-links/"+id, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Payment link not found", decode[ErrorResponse](t, w).Error)
	}
}

func TestClaimPaymentLinkUntilExhausted(t *testing.T) {
	s := newTestServer(t, nil, nil)
	link := createLink(t, s, gin.H{"creator_address": creatorHex, "max_claims": 2})

	for i := 0; i < 2; i++ {
		w := s.do(t, http.MethodPost, "/api/payment-links/"+link.ID+"/claim", claimBody())
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.True(t, decode[messageResponse](t, w).Success)
	}

	w := s.do(t, http.MethodPost, "/api/payment-links/"+link.ID+"/claim", claimBody())
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Payment link has reached its claim limit", decode[ErrorResponse](t, w).Error)

	got := decode[linkResponse](t, s.do(t, http.MethodGet, "/api/payment-links/"+link.ID, nil)).Link
	assert.Equal(t, int64(2), got.ClaimCount)
	assert.Equal(t, store.LinkExhausted, got.Status)

	w = s.do(t, http.MethodGet, "/api/payment-links/"+link.ID+"/claims", nil)
	require.Equal(t, http.StatusOK, w.Code)
	claims := decode[struct {
		Claims []store.PaymentClaim `json:"claims"`
	}](t, w).Claims
	require.Len(t, claims, 2)
	assert.Equal(t, sweepWallet, claims[0].PayerAddress)
	assert.Equal(t, txHashHex, claims[0].TxHash)
}

func TestClaimExpiredPaymentLink(t *testing.T) {
	s := newTestServer(t, nil, nil)
	link := createLink(t, s, gin.H{"creator_address": creatorHex, "expires_in_hours": 0, "max_claims": 5})
	assert.Equal(t, store.LinkExpired, link.Status)

	w := s.do(t, http.MethodPost, "/api/payment-links/"+link.ID+"/claim", claimBody())
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Payment link has expired", decode[ErrorResponse](t, w).Error)
}

func TestClaimPaymentLinkErrors(t *testing.T) {
	s := newTestServer(t, nil, nil)
	link := createLink(t, s, gin.H{"creator_address": creatorHex})

	w := s.do(t, http.MethodPost, "/api/payment-links/zzzzzzzz/claim", claimBody())
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/payment-links/"+link.ID+"/claim", gin.H{"payer_address": badPayerHex, "amount": "1", "tx_hash": txHashHex})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/payment-links/"+link.ID+"/claim", gin.H{"payer_address": sweepWallet, "amount": "1", "tx_hash": "0x1234"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for name, amount := range map[string]any{"missing": nil, "blank": " ", "decimal": "1.5", "negative": "-1", "word": "ten"} {
		body := gin.H{"payer_address": sweepWallet, "tx_hash": txHashHex}
		if amount != nil {
			body["amount"] = amount
		}
		w = s.do(t, http.MethodPost, "/api/payment-links/"+link.ID+"/claim", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "amount %s", name)
	}

	got := decode[linkResponse](t, s.do(t, http.MethodGet, "/api/payment-links/"+link.ID, nil)).Link
	assert.Zero(t, got.ClaimCount)
}

func TestListUserPaymentLinks(t *testing.T) {
	s := newTestServer(t, nil, nil)
	createLink(t, s, gin.H{"creator_address": creatorHex, "description": "one"})
	createLink(t, s, gin.H{"creator_address": creatorHex, "description": "two"})
	createLink(t, s, gin.H{"creator_address": sweepWallet})

	w := s.do(t, http.MethodGet, "/api/payment-links/user/"+strings.ToUpper(creatorHex[2:]), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	links := decode[struct {
		Links []LinkView `json:"links"`
	}](t, w).Links
	require.Len(t, links, 2)
	for _, l := range links {
		assert.Equal(t, creatorHex, l.CreatorAddress)
		assert.Equal(t, store.LinkActive, l.Status)
	}
	assert.GreaterOrEqual(t, links[0].CreatedAt, links[1].CreatedAt)
}

func TestEventsStreamLinkActivity(t *testing.T) {
	s := newTestServer(t, nil, nil)
	srv := httptest.NewServer(s.engine)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/events", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return s.hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	link := createLink(t, s, gin.H{"creator_address": creatorHex})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev struct {
		Type string   `json:"type"`
		Data LinkView `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, EventPaymentLinkCreated, ev.Type)
	assert.Equal(t, link.ID, ev.Data.ID)
}
