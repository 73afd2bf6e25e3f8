package loader

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

// IsJWT detects if input looks like a JWT token.
// A valid JWT has exactly 3 dot-separated parts where the first two
// are valid base64url-encoded JSON objects.
func IsJWT(input string) bool {
	input = trimBearer(input)

	parts := strings.Split(input, ".")
	if len(parts) != 3 {
		return false
	}

	for _, part := range parts {
		if len(part) == 0 {
			return false
		}
	}

	// header and payload are base64url JSON objects
	for i := 0; i < 2; i++ {
		decoded, err := base64.RawURLEncoding.DecodeString(parts[i])
		if err != nil {
			return false
		}
		if v, err := jsonvalue.Parse(decoded); err != nil || v.Kind() != jsonvalue.KindObject {
			return false
		}
	}

	_, err := base64.RawURLEncoding.DecodeString(parts[2])
	return err == nil
}

// DecodeJWT splits a JWT into an object with "header", "payload" and
// "signature" members. Header and payload keep their claim order.
func DecodeJWT(input string) (jsonvalue.Value, error) {
	input = trimBearer(input)

	parts := strings.Split(input, ".")
	if len(parts) != 3 {
		return jsonvalue.Value{}, fmt.Errorf("invalid JWT: expected 3 parts, got %d", len(parts))
	}

	header, err := decodeJWTPart(parts[0])
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("invalid JWT header: %w", err)
	}
	payload, err := decodeJWTPart(parts[1])
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("invalid JWT payload: %w", err)
	}

	// the signature is binary, so it stays base64url
	return jsonvalue.Object(
		jsonvalue.Member{Key: "header", Value: header},
		jsonvalue.Member{Key: "payload", Value: payload},
		jsonvalue.Member{Key: "signature", Value: jsonvalue.String(parts[2])},
	), nil
}

func decodeJWTPart(part string) (jsonvalue.Value, error) {
	raw, err := base64.RawURLEncoding.DecodeString(part)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	v, err := jsonvalue.Parse(raw)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	if v.Kind() != jsonvalue.KindObject {
		return jsonvalue.Value{}, fmt.Errorf("expected a JSON object, got %s", v.Kind())
	}
	return v, nil
}

func trimBearer(input string) string {
	input = strings.TrimSpace(input)
	return strings.TrimSpace(strings.TrimPrefix(input, "Bearer "))
}
