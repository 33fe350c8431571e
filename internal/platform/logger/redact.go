package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/yungbote/learnhub-backend/internal/platform/envutil"
)

const redacted = "[REDACTED]"

// Field names containing any of these are never logged in clear.
var secretMarkers = []string{
	"token", "authorization", "password", "secret", "cookie",
	"api_key", "apikey", "email", "refresh", "verification_code",
}

// Field names containing any of these are replaced by a short salted hash so
// entries about one user still correlate.
var hashedMarkers = []string{"user_id", "author_id", "follower_id", "followee_id"}

type redactor struct {
	enabled bool
	salt    string
}

func redactorFromEnv() *redactor {
	return &redactor{
		enabled: envutil.Bool("LOG_REDACTION_ENABLED", true),
		salt:    envutil.String("LOG_HASH_SALT", ""),
	}
}

// fields rewrites a key/value list. A trailing key without a value passes
// through unchanged.
func (r *redactor) fields(kv []interface{}) []interface{} {
	if r == nil || !r.enabled || len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, len(kv))
	copy(out, kv)
	for i := 0; i+1 < len(out); i += 2 {
		name := stringify(out[i])
		out[i] = name
		out[i+1] = r.value(strings.ToLower(name), out[i+1])
	}
	return out
}

func (r *redactor) value(name string, v interface{}) interface{} {
	switch {
	case containsAny(name, secretMarkers):
		return redacted
	case containsAny(name, hashedMarkers):
		return r.hash(v)
	}
	switch t := v.(type) {
	case string:
		if isJWT(t) {
			return redacted
		}
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, inner := range t {
			m[k] = r.value(strings.ToLower(k), inner)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, inner := range t {
			s[i] = r.value("", inner)
		}
		return s
	}
	return v
}

func (r *redactor) hash(v interface{}) string {
	raw := stringify(v)
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(r.salt + raw))
	return "hash:" + hex.EncodeToString(sum[:])[:12]
}

func containsAny(name string, markers []string) bool {
	if name == "" {
		return false
	}
	for _, m := range markers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// isJWT matches three dot-separated segments with non-trivial header and payload.
func isJWT(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
