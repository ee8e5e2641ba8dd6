package cart

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Codec serializes a cart into a tamper-evident cookie value:
// base64(json) + "." + base64(hmac-sha256). The cart lives client-side, so
// the signature is what keeps snapshot prices honest between requests.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

func (c *Codec) Encode(cart *Cart) (string, error) {
	payload, err := json.Marshal(cart)
	if err != nil {
		return "", fmt.Errorf("marshal cart: %w", err)
	}
	body := base64.RawURLEncoding.EncodeToString(payload)
	return body + "." + c.sign(body), nil
}

func (c *Codec) Decode(value string) (*Cart, error) {
	body, sig, ok := strings.Cut(value, ".")
	if !ok {
		return nil, fmt.Errorf("malformed cart cookie")
	}
	if !hmac.Equal([]byte(c.sign(body)), []byte(sig)) {
		return nil, fmt.Errorf("cart cookie signature mismatch")
	}

	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("decode cart body: %w", err)
	}

	var cart Cart
	if err := json.Unmarshal(payload, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return &cart, nil
}

func (c *Codec) sign(body string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
