package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) *SecretKey {
	t.Helper()
	t.Setenv("SMARTCRM_SECRET_KEY", "unit-test-master-key")
	key, err := NewSecretKey()
	require.NoError(t, err)
	return key
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := testKey(t)

	enc, err := key.Encrypt("sk-test-1234abcd")
	require.NoError(t, err)
	assert.NotEqual(t, "sk-test-1234abcd", enc)
	assert.Contains(t, enc, encPrefix)

	dec, err := key.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, "sk-test-1234abcd", dec)
}

func TestEncrypt_EmptyIsEmpty(t *testing.T) {
	key := testKey(t)

	enc, err := key.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, enc)
}

func TestDecrypt_PassthroughForPlaintext(t *testing.T) {
	key := testKey(t)

	// Values without the enc: prefix are returned unchanged (legacy/plain)
	dec, err := key.Decrypt("plain-value")
	require.NoError(t, err)
	assert.Equal(t, "plain-value", dec)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "****", MaskSecret("abc"))
	assert.Equal(t, "****abcd", MaskSecret("sk-test-abcd"))
}
