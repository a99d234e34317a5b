package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PriceBoard/internal/model"
)

func TestMetrics_PublishAndFailures(t *testing.T) {
	m := NewMetrics()
	sel := model.Selection{
		Range:  model.RangeSpec{ID: "1w", LookbackDays: 7},
		Series: make(model.Series, 8),
		Stats:  model.PriceStats{CurrentPrice: 64000, PercentChange: 1.5},
	}
	require.NoError(t, m.Publish(sel))
	require.NoError(t, m.Publish(sel))
	m.RecordSelectionFailure("unknown", "unknown_range")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.selectionsTotal.WithLabelValues("1w", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.selectionsTotal.WithLabelValues("unknown", "unknown_range")))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.seriesPoints))
	assert.Equal(t, 64000.0, testutil.ToFloat64(m.currentPrice))

	n, err := testutil.GatherAndCount(m.Gatherer(), "priceboard_range_selections_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "one series per range/outcome pair")
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()
	m.RegisterGaugeFunc("priceboard_test_gauge", "test gauge", func() float64 { return 7 })

	r := gin.New()
	r.Use(m.MetricsMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `priceboard_http_requests_total{endpoint="/ping",method="GET",status="200"} 1`), body)
	assert.Contains(t, body, "priceboard_test_gauge 7")
}
