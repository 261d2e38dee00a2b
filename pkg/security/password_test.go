package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"letters and digits", "abc123", false},
		{"letters only", "abcdef", true},
		{"digits only", "123456", true},
		{"too short", "ab1", true},
		{"empty", "", true},
		{"longer mixed", "Str0ngP4ss", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHashVerifyRoundtrip(t *testing.T) {
	h := NewPBKDF2Hasher()

	digest, err := h.Hash("abc123")
	require.NoError(t, err)

	// salt:hash hex layout
	parts := strings.Split(digest, ":")
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], 32)
	assert.Len(t, parts[1], 128)

	assert.True(t, h.Verify("abc123", digest))
	assert.False(t, h.Verify("abc124", digest))
}

func TestHashUsesFreshSalt(t *testing.T) {
	h := NewPBKDF2Hasher()

	d1, err := h.Hash("abc123")
	require.NoError(t, err)
	d2, err := h.Hash("abc123")
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2)
	assert.True(t, h.Verify("abc123", d1))
	assert.True(t, h.Verify("abc123", d2))
}

func TestVerifyMalformedDigest(t *testing.T) {
	h := NewPBKDF2Hasher()
	assert.False(t, h.Verify("abc123", "not-a-digest"))
	assert.False(t, h.Verify("abc123", ""))
}
