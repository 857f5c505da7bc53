package deployment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/artpar/dokploy-deploy/internal/core/domain"
)

// =============================================================================
// Environment Variables
// =============================================================================

// BuildEnvironment renders the environment variable blob saved on the
// application as newline-separated KEY=VALUE lines.
//
// Precedence:
//  1. env-from-json: a JSON object, rendered in source order
//  2. env: a pre-formatted string, used verbatim
//  3. env-file: variables already loaded from the file (fileVars), sorted by key
//  4. "" when none is supplied
//
// Malformed JSON is a *domain.ConfigurationError; it never falls through to
// the next source.
func BuildEnvironment(in domain.Inputs, fileVars map[string]string) (string, error) {
	if in.EnvFromJSON != nil && *in.EnvFromJSON != "" {
		return renderJSONEnv(*in.EnvFromJSON)
	}
	if in.Env != nil && *in.Env != "" {
		return *in.Env, nil
	}
	if len(fileVars) > 0 {
		return RenderEnvVars(fileVars), nil
	}
	return "", nil
}

// RenderEnvVars renders a variable map as KEY=VALUE lines sorted by key.
func RenderEnvVars(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=" + vars[k]
	}
	return strings.Join(lines, "\n")
}

// renderJSONEnv walks the object token by token so key order is preserved.
// String values are written unquoted; other values keep their JSON text.
// A repeated key keeps its first position and takes its last value.
func renderJSONEnv(raw string) (string, error) {
	fail := func(err error) (string, error) {
		return "", domain.NewConfigurationError("env-from-json",
			fmt.Sprintf("failed to parse env-from-json: %v", err), domain.ErrMalformedEnv)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fail(err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fail(errors.New("expected a JSON object"))
	}

	var keys []string
	values := map[string]string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fail(err)
		}
		key := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fail(err)
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = renderJSONValue(value)
	}

	if _, err := dec.Token(); err != nil {
		return fail(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fail(errors.New("unexpected data after JSON object"))
	}

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=" + values[k]
	}
	return strings.Join(lines, "\n"), nil
}

func renderJSONValue(value json.RawMessage) string {
	if len(value) > 0 && value[0] == '"' {
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			return s
		}
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, value); err != nil {
		return string(value)
	}
	return compact.String()
}
