package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PASS_THRESHOLD", "")
	t.Setenv("JWT_EXPIRY_HOURS", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg := Load()

	assert.Equal(t, 60.0, cfg.PassThreshold)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiry)
	assert.Nil(t, cfg.AllowedOrigins)
	assert.False(t, cfg.AutoMigrate)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PASS_THRESHOLD", "50.5")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("TOP_PERFORMERS", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test ,,http://b.test ")

	cfg := Load()

	assert.Equal(t, 50.5, cfg.PassThreshold)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 5, cfg.TopPerformers)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "session:42", CacheKey.UserSessionKey(42))
	assert.Equal(t, "exam:7:results", CacheKey.ExamResultsChannel(7))
}
