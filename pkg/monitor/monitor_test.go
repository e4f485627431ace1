package monitor

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()
	assert.NotNil(t, Business)

	RecordVote("done")
	assert.Equal(t, 1.0, testutil.ToFloat64(Business.VotesTotal.WithLabelValues("done")))
}

func TestPrometheusMiddleware(t *testing.T) {
	Init()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(PrometheusMiddleware())
	r.GET("/ping/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/7", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/ping/:id", "204")))
}
