package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gabrieldeltasollutions/aws-office/internal/entities"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type statsFunc func(ctx context.Context) (entities.Stats, error)

func (f statsFunc) Stats(ctx context.Context) (entities.Stats, error) { return f(ctx) }

func TestHTTPMiddlewareCountsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewHTTP(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/licenses/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/licenses/"+id, nil))
		require.NoError(t, err)
		resp.Body.Close()
	}

	got := testutil.ToFloat64(m.requestTotal.With(prometheus.Labels{
		"method": http.MethodGet, "route": "/api/licenses/:id", "status": "404",
	}))
	require.Equal(t, float64(3), got)
}

func TestNewHTTPRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewHTTP(reg)
	require.NoError(t, err)
	_, err = NewHTTP(reg)
	require.Error(t, err)
}

func TestSeatsCollector(t *testing.T) {
	src := statsFunc(func(context.Context) (entities.Stats, error) {
		return entities.Stats{TotalLicenses: 2, TotalUsers: 3, AvailableSlots: 5, UsagePercentage: 38}, nil
	})
	c := NewSeats(zap.NewNop().Sugar(), src, time.Second)

	expected := `
# HELP license_seats_available_slots Free seats across all licenses
# TYPE license_seats_available_slots gauge
license_seats_available_slots 5
# HELP license_seats_licenses Number of licenses
# TYPE license_seats_licenses gauge
license_seats_licenses 2
# HELP license_seats_users Number of assigned users
# TYPE license_seats_users gauge
license_seats_users 3
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"license_seats_available_slots", "license_seats_licenses", "license_seats_users"))
}

func TestSeatsCollectorReportsDown(t *testing.T) {
	src := statsFunc(func(context.Context) (entities.Stats, error) {
		return entities.Stats{}, errors.New("storage down")
	})
	c := NewSeats(zap.NewNop().Sugar(), src, time.Second)

	require.Equal(t, 1, testutil.CollectAndCount(c))
	expected := `
# HELP license_seats_stats_up Whether the last stats read succeeded
# TYPE license_seats_stats_up gauge
license_seats_stats_up 0
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "license_seats_stats_up"))
}
