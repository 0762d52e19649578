package util

import (
	"testing"
	"time"

	"recipeshare_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{
		BaseModel: model.BaseModel{ID: 42},
		Email:     "li@example.com",
	}

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "li@example.com", claims.Email)
}

func TestParseJWTWrongSecret(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 1}}

	token, err := GenerateJWT(user, "secret-a", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret-b")
	assert.Error(t, err)
}

func TestParseJWTExpired(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 1}}

	token, err := GenerateJWT(user, "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "test-secret")
	assert.Error(t, err)
}

func TestParseTimestamp(t *testing.T) {
	// 毫秒时间戳
	got, err := ParseTimestamp("1756600000000")
	require.NoError(t, err)
	assert.Equal(t, time.UnixMilli(1756600000000), got)

	// RFC3339
	got, err = ParseTimestamp("2026-08-31T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2026, got.Year())

	_, err = ParseTimestamp("not-a-time")
	assert.Error(t, err)
}

func TestParseDefaults(t *testing.T) {
	assert.Equal(t, uint(3), ParseUintDefault("3", 1))
	assert.Equal(t, uint(1), ParseUintDefault("", 1))
	assert.Equal(t, uint(1), ParseUintDefault("abc", 1))

	assert.Equal(t, 20, ParseIntDefault("20", 10))
	assert.Equal(t, 10, ParseIntDefault("", 10))
	assert.Equal(t, 10, ParseIntDefault("x", 10))
}
