package videoquiz

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/gorilla/securecookie"
)

// Codec turns a quiz into an opaque token that can travel in a hidden form
// field and back again. Nothing is stored on the server.
type Codec interface {
	Encode(quiz Quiz) (string, error)
	Decode(token string) (Quiz, error)
}

// PlainCodec encodes the quiz as base64 (standard alphabet, padded) JSON.
// It is neither signed nor encrypted, so a client can read and edit the
// quiz including its answers, and can resubmit the same token any number
// of times.
type PlainCodec struct{}

// Encode serializes the quiz
func (PlainCodec) Encode(quiz Quiz) (string, error) {
	data, err := json.Marshal(quiz)
	if err != nil {
		return "", fmt.Errorf("failed to marshal quiz: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode reverses Encode. Malformed input yields ErrToken.
func (PlainCodec) Decode(token string) (Quiz, error) {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrToken, err)
	}
	quiz, err := ParseQuestions(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrToken, err)
	}
	return quiz, nil
}

const signedTokenName = "quiz"

// SignedCodec authenticates the token with an HMAC so edits made by the
// client are rejected. It still has no expiry and no replay protection.
type SignedCodec struct {
	sc *securecookie.SecureCookie
}

// NewSignedCodec creates a codec keyed by hashKey
func NewSignedCodec(hashKey []byte) *SignedCodec {
	sc := securecookie.New(hashKey, nil)
	sc.SetSerializer(securecookie.JSONEncoder{})
	// quizzes are larger than cookies ever are; the token lives in a form
	sc.MaxLength(0)
	sc.MaxAge(0)
	return &SignedCodec{sc: sc}
}

// Encode serializes and signs the quiz
func (c *SignedCodec) Encode(quiz Quiz) (string, error) {
	token, err := c.sc.Encode(signedTokenName, quiz)
	if err != nil {
		return "", fmt.Errorf("failed to encode quiz token: %w", err)
	}
	return token, nil
}

// Decode verifies and deserializes the token
func (c *SignedCodec) Decode(token string) (Quiz, error) {
	var quiz Quiz
	if err := c.sc.Decode(signedTokenName, token, &quiz); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrToken, err)
	}
	return quiz, nil
}

// NewCodec picks the signed codec when a key is configured
func NewCodec(key string) Codec {
	if key == "" {
		return PlainCodec{}
	}
	return NewSignedCodec([]byte(key))
}
