package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donation-core/internal/model"
	"donation-core/internal/service/custody"
	"donation-core/pkg/config"
	"donation-core/pkg/errno"
)

func TestDonateURI_MemoRoundTrip(t *testing.T) {
	raw := DonateURI("https://donate.example/pay", "donations.core", model.CampaignTarget("water-2024"))
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "donations.core", u.Query().Get("receiver"))

	intent, err := custody.ParseMemo(u.Query().Get("memo"))
	require.NoError(t, err)
	assert.Equal(t, model.TargetCampaign, intent.TargetKind)
	assert.Equal(t, "water-2024", *intent.CampaignID)
	assert.Nil(t, intent.EventID)
	assert.NotEmpty(t, intent.DonationID)
}

func TestRequireOperator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(Services{Custody: config.CustodyConfig{SystemAccount: "donations.core", Operators: []string{"ops.near"}}})

	tests := []struct {
		caller string
		ok     bool
		code   int
	}{
		{"", false, errno.ErrUnauthorized.Code},
		{"alice", false, errno.ErrCallerNotOperator.Code},
		{"ops.near", true, 0},
		{"donations.core", true, 0},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.caller != "" {
			c.Request.Header.Set(CallerHeader, " "+tt.caller+" ")
		}

		caller, ok := h.requireOperator(c)
		assert.Equal(t, tt.ok, ok, tt.caller)
		if ok {
			assert.Equal(t, tt.caller, caller)
			assert.Zero(t, w.Body.Len())
		} else {
			assert.True(t, strings.Contains(w.Body.String(), `"code":`), w.Body.String())
		}
	}
}
