package imagegen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnrecognizedOutput is returned when the prediction output shape does not
// match any recognized variant. It is a hard failure: the caller must not
// fall back to stringly coercion.
var ErrUnrecognizedOutput = errors.New("unrecognized image prediction output shape")

// NormalizeOutput maps the API's heterogeneous prediction output to a
// single URL string. Recognized variants, checked in order:
//
//	DirectURL      "https://..."
//	URLArray       ["https://...", ...] (first element)
//	URLObjectField {"url": ...} | {"href": ...} | {"output": ...}
//
// Everything else is ErrUnrecognizedOutput.
func NormalizeOutput(output json.RawMessage) (string, error) {
	if len(output) == 0 {
		return "", fmt.Errorf("%w: empty output", ErrUnrecognizedOutput)
	}

	// DirectURL
	var direct string
	if err := json.Unmarshal(output, &direct); err == nil {
		return validateURL(direct)
	}

	// URLArray
	var array []json.RawMessage
	if err := json.Unmarshal(output, &array); err == nil {
		if len(array) == 0 {
			return "", fmt.Errorf("%w: empty array", ErrUnrecognizedOutput)
		}
		var first string
		if err := json.Unmarshal(array[0], &first); err != nil {
			return "", fmt.Errorf("%w: array of non-strings", ErrUnrecognizedOutput)
		}
		return validateURL(first)
	}

	// URLObjectField
	var object map[string]json.RawMessage
	if err := json.Unmarshal(output, &object); err == nil {
		for _, field := range []string{"url", "href", "output"} {
			raw, ok := object[field]
			if !ok {
				continue
			}
			var value string
			if err := json.Unmarshal(raw, &value); err == nil {
				return validateURL(value)
			}
		}
		return "", fmt.Errorf("%w: object without url/href/output field", ErrUnrecognizedOutput)
	}

	return "", ErrUnrecognizedOutput
}

func validateURL(candidate string) (string, error) {
	candidate = strings.TrimSpace(candidate)
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		return "", fmt.Errorf("%w: %q is not an http(s) URL", ErrUnrecognizedOutput, candidate)
	}
	return candidate, nil
}
