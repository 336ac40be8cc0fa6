package line

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignRoundTrip(t *testing.T) {
	body := []byte(`{"events":[]}`)
	sig := Sign("secret", body)

	require.NoError(t, VerifySignature("secret", body, sig))
	assert.ErrorIs(t, VerifySignature("other", body, sig), ErrSignatureInvalid)
	assert.ErrorIs(t, VerifySignature("secret", body, ""), ErrSignatureInvalid)
}

func TestSingleByteMutationInvalidatesSignature(t *testing.T) {
	body := []byte(`{"events":[{"type":"message","message":{"type":"text","text":"hi"}}]}`)
	sig := Sign("secret", body)

	for i := range body {
		mutated := append([]byte(nil), body...)
		mutated[i] ^= 0x01
		err := VerifySignature("secret", mutated, sig)
		if !errors.Is(err, ErrSignatureInvalid) {
			t.Fatalf("mutation at byte %d accepted", i)
		}
	}
}

func TestSignKnownVector(t *testing.T) {
	// echo -n 'body' | openssl dgst -sha256 -hmac key -binary | base64
	assert.Equal(t, "UVquEztDXUAAlWcx9orlz164XU8NxqVG0r/NNZXsGuE=", Sign("key", []byte("body")))
}
