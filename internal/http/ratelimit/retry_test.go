package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableStatus(t *testing.T) {
	assert.True(t, IsRetryableStatus(429))
	assert.True(t, IsRetryableStatus(500))
	assert.True(t, IsRetryableStatus(503))
	assert.False(t, IsRetryableStatus(400))
	assert.False(t, IsRetryableStatus(404))
	assert.False(t, IsRetryableStatus(200))
}

func TestCalculateBackoff(t *testing.T) {
	cfg := Config{InitialBackoffMs: 100, MaxBackoffMs: 1000}

	for attempt := 0; attempt < 6; attempt++ {
		d := CalculateBackoff(attempt, cfg)
		base := time.Duration(float64(100*(int(1)<<attempt))) * time.Millisecond
		if base > time.Second {
			base = time.Second
		}
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, base+base/4)
	}
}

func TestCalculateRateLimitBackoffRetryAfter(t *testing.T) {
	cfg := Config{InitialBackoffMs: 100, MaxBackoffMs: 1000}

	assert.Equal(t, 7*time.Second, CalculateRateLimitBackoff(0, cfg, "7"))

	d := CalculateRateLimitBackoff(1, cfg, "")
	assert.GreaterOrEqual(t, d, 300*time.Millisecond)
	assert.LessOrEqual(t, d, 375*time.Millisecond)
}

func TestFetchRetryErrorMessage(t *testing.T) {
	err := &FetchRetryError{URL: "https://feeds.example/vpg.xml", Attempts: 4, LastStatus: 503}
	assert.Equal(t, "failed to fetch https://feeds.example/vpg.xml after 4 attempts (HTTP 503)", err.Error())
}
