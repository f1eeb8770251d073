package observability

import (
	"bytes"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.Disabled, ParseLevel("off"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("bogus"))
}

func TestNewLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("method", "GET").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"shown"`)
	assert.Contains(t, out, `"method":"GET"`)
	assert.Contains(t, out, `"time"`)
}

func TestMetrics_Observe(t *testing.T) {
	m := NewMetrics()

	m.Observe("GET", OutcomeOK, 120*time.Millisecond)
	m.Observe("GET", OutcomeOK, 80*time.Millisecond)
	m.Observe("HEAD", OutcomeValidation, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ExecutionsTotal.WithLabelValues("GET", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExecutionsTotal.WithLabelValues("HEAD", OutcomeValidation)))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.Len(t, families, 2)
}
