package backend

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// decodeList accepts a bare array, {"data":[...]} or {"<resource>":[...]}.
func decodeList(data []byte, resource string, out any) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return json.Unmarshal([]byte("[]"), out)
	}
	if data[0] == '[' {
		return errors.Wrap(json.Unmarshal(data, out), "decode list")
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil {
		return errors.Wrap(err, "decode envelope")
	}
	keys := []string{"data", resource, strings.ReplaceAll(resource, "-", "_")}
	for _, k := range keys {
		if raw, ok := env[k]; ok && isArray(raw) {
			return errors.Wrapf(json.Unmarshal(raw, out), "decode envelope %q", k)
		}
	}
	// Some endpoints nest a paginated object under data.
	if raw, ok := env["data"]; ok && len(raw) > 0 && raw[0] == '{' {
		return decodeList(raw, resource, out)
	}
	var found json.RawMessage
	for _, raw := range env {
		if isArray(raw) {
			if found != nil {
				return errors.Errorf("ambiguous envelope for %s", resource)
			}
			found = raw
		}
	}
	if found == nil {
		return errors.Errorf("no list in response for %s", resource)
	}
	return errors.Wrap(json.Unmarshal(found, out), "decode envelope")
}

// decodeOne accepts an object or {"data":{...}}.
func decodeOne(data []byte, out any) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if data[0] == '{' {
		if err := json.Unmarshal(data, &env); err == nil && len(env.Data) > 0 && env.Data[0] == '{' {
			data = env.Data
		}
	}
	return errors.Wrap(json.Unmarshal(data, out), "decode response")
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}
