package imagegen

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOutput(t *testing.T) {
	cases := []struct {
		name   string
		output string
		want   string
	}{
		{"direct url", `"https://img.example/a.webp"`, "https://img.example/a.webp"},
		{"url array", `["https://img.example/a.webp", "https://img.example/b.webp"]`, "https://img.example/a.webp"},
		{"object url field", `{"url": "https://img.example/a.webp"}`, "https://img.example/a.webp"},
		{"object href field", `{"href": "https://img.example/a.webp"}`, "https://img.example/a.webp"},
		{"object output field", `{"output": "https://img.example/a.webp"}`, "https://img.example/a.webp"},
		{"padded url", `"  https://img.example/a.webp "`, "https://img.example/a.webp"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeOutput(json.RawMessage(tc.output))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeOutputUnrecognized(t *testing.T) {
	cases := []struct {
		name   string
		output string
	}{
		{"empty", ``},
		{"null", `null`},
		{"number", `42`},
		{"empty array", `[]`},
		{"array of numbers", `[1, 2]`},
		{"object without url field", `{"image": "https://img.example/a.webp"}`},
		{"not a url", `"data:image/webp;base64,AAAA"`},
		{"relative path", `"/images/a.webp"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizeOutput(json.RawMessage(tc.output))
			require.ErrorIs(t, err, ErrUnrecognizedOutput, "output %q must be a hard failure", tc.output)
		})
	}
}
