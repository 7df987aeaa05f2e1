//go:build nominatim

package nominatim

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/solar-estimator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Nominatim API. Keep runs infrequent; the usage
// policy allows at most one request per second.
// Run with: go test -tags=nominatim ./internal/adapter/nominatim/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	return NewClient(
		"https://nominatim.openstreetmap.org",
		"solar-estimator-smoke-test/1.0",
		10*time.Second,
		testMetrics(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestSmoke_Resolve(t *testing.T) {
	c := smokeClient(t)

	coords, err := c.Resolve(context.Background(), "Accra, Ghana")
	require.NoError(t, err)

	assert.InDelta(t, 5.56, coords.Lat, 0.5, "lat should be near Accra")
	assert.InDelta(t, -0.20, coords.Lon, 0.5, "lon should be near Accra")
}

func TestSmoke_Resolve_Nonsense(t *testing.T) {
	c := smokeClient(t)

	_, err := c.Resolve(context.Background(), "xq9zzplacethatdoesnotexist")
	require.ErrorIs(t, err, domain.ErrLocationNotFound)
}
