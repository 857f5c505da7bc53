package dokploy

import (
	"encoding/json"
	"strings"
)

// Redacted replaces sensitive values in logged request bodies.
const Redacted = "[REDACTED]"

var sensitiveKeyParts = []string{"password", "token", "key", "secret"}

// RedactJSON returns body with the value of every sensitive key replaced by
// Redacted, at any depth. A key is sensitive when its lowercase form contains
// password, token, key or secret. Bodies that are not JSON are fully redacted.
func RedactJSON(body []byte) string {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return Redacted
	}
	out, err := json.Marshal(redactValue(v))
	if err != nil {
		return Redacted
	}
	return string(out)
}

func redactValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if isSensitiveKey(k) {
				t[k] = Redacted
				continue
			}
			t[k] = redactValue(val)
		}
		return t
	case []any:
		for i := range t {
			t[i] = redactValue(t[i])
		}
		return t
	default:
		return v
	}
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, part := range sensitiveKeyParts {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}
