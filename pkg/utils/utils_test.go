package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 15.000", FormatRupiah(15000))
	assert.Equal(t, "Rp 0", FormatRupiah(0))
	assert.Equal(t, "Rp 1.250.000", FormatRupiah(1250000))
	assert.Equal(t, "-Rp 5.000", FormatRupiah(-5000))
}

func TestFormatTanggal(t *testing.T) {
	ts := time.Date(2026, time.October, 15, 14, 5, 0, 0, time.UTC)
	assert.Equal(t, "Kamis, 15 Oktober 2026 14.05", FormatTanggal(ts))
}

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-untuk-test")

	token, err := GenerateToken(42, RolePartner)
	require.NoError(t, err)

	id, role, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
	assert.Equal(t, RolePartner, role)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, err := GenerateToken(1, RoleAdmin)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-b")
	_, _, err = ParseToken(token)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	assert.True(t, PasswordTooShort("12345"))
	assert.False(t, PasswordTooShort("123456"))

	hash, err := HashPassword("rahasia123")
	require.NoError(t, err)
	assert.True(t, CheckPassword("rahasia123", hash))
	assert.False(t, CheckPassword("salah", hash))
	assert.False(t, CheckPassword("rahasia123", ""))
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("17")
	assert.True(t, ok)
	assert.Equal(t, uint64(17), id)

	_, ok = ParseID("abc")
	assert.False(t, ok)
	_, ok = ParseID("0")
	assert.False(t, ok)
}
