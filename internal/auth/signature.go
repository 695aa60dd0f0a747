package auth

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"gateway/internal/infra"
)

// signedFieldNames are the request fields that participate in the signed
// payload. The prompt and the signature itself are deliberately excluded.
var signedFieldNames = []string{"userId", "agentId", "time", "nonce", "origin", "sessionId"}

// Verifier validates that a request was produced by the trusted embedding
// platform. The canonical payload it reconstructs must match the platform's
// signer byte for byte: only the six signed fields, keys sorted ascending,
// no whitespace around separators, and a numeric time coerced to its string
// form before signing.
type Verifier struct {
	secret string
	logger *infra.Logger
}

// NewVerifier returns a Verifier bound to the shared agent secret.
func NewVerifier(secret string, logger *infra.Logger) *Verifier {
	if logger == nil {
		discard := infra.Logger(zerolog.New(io.Discard))
		logger = &discard
	}
	return &Verifier{secret: secret, logger: logger}
}

// Verify checks the hex HMAC-SHA256 signature carried in fields["signature"]
// against the canonical payload built from the remaining fields. It reports
// false on a missing signature, a missing secret, or any canonicalization
// failure; it never returns an error, so the caller cannot distinguish a
// forged request from a key-management fault.
func (v *Verifier) Verify(fields map[string]any) bool {
	if v == nil || v.secret == "" {
		if v != nil {
			v.logger.Warn().Msg("auth: verifier has no shared secret")
		}
		return false
	}
	received, ok := fields["signature"].(string)
	if !ok || received == "" {
		v.logger.Warn().Msg("auth: request carried no signature")
		return false
	}

	payload, err := CanonicalPayload(fields)
	if err != nil {
		v.logger.Error().Err(err).Msg("auth: canonicalization failed")
		return false
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(payload))
	expected := hex.EncodeToString(mac.Sum(nil))

	valid := hmac.Equal([]byte(received), []byte(expected))
	if !valid {
		v.logger.Warn().Str("payload", payload).Msg("auth: signature mismatch")
	}
	return valid
}

// CanonicalPayload builds the exact byte string the platform signs. Fields
// absent from the request are omitted rather than serialized as null.
func CanonicalPayload(fields map[string]any) (string, error) {
	picked := make(map[string]any, len(signedFieldNames))
	for _, name := range signedFieldNames {
		value, ok := fields[name]
		if !ok || value == nil {
			continue
		}
		if name == "time" {
			value = stringifyTime(value)
		}
		picked[name] = value
	}

	keys := make([]string, 0, len(picked))
	for k := range picked {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONValue(&buf, k); err != nil {
			return "", err
		}
		buf.WriteByte(':')
		if err := writeJSONValue(&buf, picked[k]); err != nil {
			return "", err
		}
	}
	buf.WriteByte('}')
	return buf.String(), nil
}

// stringifyTime mirrors the platform signer, which casts a numeric time to a
// string before serializing. Decoding request bodies with json.Number keeps
// the original decimal literal intact, so "1700000000" survives unchanged.
func stringifyTime(value any) any {
	switch t := value.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	default:
		return value
	}
}

// writeJSONValue serializes one value without the HTML escaping that
// encoding/json applies by default; the platform signer does not escape
// <, > or & inside origins.
func writeJSONValue(buf *bytes.Buffer, value any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("auth: encode payload value: %w", err)
	}
	// Encode terminates with a newline that must not reach the signed bytes.
	b := buf.Bytes()
	if n := len(b); n > 0 && b[n-1] == '\n' {
		buf.Truncate(n - 1)
	}
	return nil
}

// Sign computes the signature the platform would produce for the given
// fields. It exists for tests and local tooling; the gateway itself only
// ever verifies.
func Sign(fields map[string]any, secret string) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", fmt.Errorf("auth: secret is required")
	}
	payload, err := CanonicalPayload(fields)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil)), nil
}
