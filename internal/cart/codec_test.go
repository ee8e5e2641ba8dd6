package cart

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret")

	c := New("acme", "USD")
	c.Add(uuid.New(), "Mug", 12.50, 2)

	value, err := codec.Encode(c)
	require.NoError(t, err)

	got, err := codec.Decode(value)
	require.NoError(t, err)
	assert.Equal(t, c.TenantSlug, got.TenantSlug)
	assert.Equal(t, c.Items, got.Items)
}

func TestCodecRejectsTamperedBody(t *testing.T) {
	codec := NewCodec("test-secret")

	c := New("acme", "USD")
	c.Add(uuid.New(), "Mug", 12.50, 1)

	value, err := codec.Encode(c)
	require.NoError(t, err)

	// Flip a byte in the payload while keeping the original signature. A
	// client editing its snapshot price must not survive decoding.
	body, sig, _ := strings.Cut(value, ".")
	tampered := body[:len(body)-1] + "A" + "." + sig
	if tampered == value {
		tampered = body[:len(body)-1] + "B" + "." + sig
	}

	_, err = codec.Decode(tampered)
	assert.Error(t, err)
}

func TestCodecRejectsWrongSecret(t *testing.T) {
	c := New("acme", "USD")
	c.Add(uuid.New(), "Mug", 12.50, 1)

	value, err := NewCodec("secret-a").Encode(c)
	require.NoError(t, err)

	_, err = NewCodec("secret-b").Decode(value)
	assert.Error(t, err)
}

func TestCodecRejectsMalformedValue(t *testing.T) {
	codec := NewCodec("test-secret")

	for _, v := range []string{"", "no-separator", "a.b.c"} {
		_, err := codec.Decode(v)
		assert.Error(t, err, v)
	}
}
