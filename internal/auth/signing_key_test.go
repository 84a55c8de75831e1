package auth

import (
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSigningKey(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr error
	}{
		{name: "empty", secret: "", wantErr: ErrSecretMissing},
		{name: "blank", secret: "   \t\n", wantErr: ErrSecretMissing},
		{name: "twenty chars", secret: strings.Repeat("a", 20), wantErr: ErrSecretTooShort},
		{name: "short after trim", secret: "  " + strings.Repeat("a", 31) + "  ", wantErr: ErrSecretTooShort},
		{name: "exactly 32", secret: strings.Repeat("a", 32)},
		{name: "36 chars", secret: testSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildSigningKey(tt.secret)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSigningKeyIsDigestOfTrimmedSecret(t *testing.T) {
	padded, err := BuildSigningKey("  " + testSecret + "\n")
	require.NoError(t, err)
	plain, err := BuildSigningKey(testSecret)
	require.NoError(t, err)

	want := sha256.Sum256([]byte(testSecret))
	assert.Equal(t, want[:], plain.bytes())
	assert.Equal(t, plain.bytes(), padded.bytes())
}

func TestSigningKeyBytesIsCopy(t *testing.T) {
	key, err := BuildSigningKey(testSecret)
	require.NoError(t, err)
	b := key.bytes()
	b[0] ^= 0xff
	assert.NotEqual(t, b, key.bytes())
}
