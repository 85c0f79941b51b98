package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvDurationOrDefault(t *testing.T) {
	t.Setenv("TEST_HTTP_CACHE_TTL", "250ms")
	assert.Equal(t, 250*time.Millisecond, GetEnvDurationOrDefault("TEST_HTTP_CACHE_TTL", 5*time.Second))

	t.Setenv("TEST_HTTP_CACHE_TTL", "not-a-duration")
	assert.Equal(t, 5*time.Second, GetEnvDurationOrDefault("TEST_HTTP_CACHE_TTL", 5*time.Second))

	assert.Equal(t, 2*time.Second, GetEnvDurationOrDefault("TEST_HTTP_CACHE_TTL_UNSET", 2*time.Second))
}

func TestGetEnvStringOrDefaultTrimsAndFallsBack(t *testing.T) {
	t.Setenv("TEST_BASE_URL", "  /api  ")
	assert.Equal(t, "/api", GetEnvStringOrDefault("TEST_BASE_URL", "fallback"))

	t.Setenv("TEST_BASE_URL", "   ")
	assert.Equal(t, "fallback", GetEnvStringOrDefault("TEST_BASE_URL", "fallback"))
}
