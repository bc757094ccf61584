package requestlog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePassesThroughPlainValues(t *testing.T) {
	in := map[string]interface{}{
		"model":   "gpt-4",
		"n":       float64(3),
		"nested":  map[string]interface{}{"ok": true},
		"list":    []interface{}{"a", "b"},
		"missing": nil,
	}
	assert.Equal(t, in, Sanitize(in))
}

func TestSanitizeReplacesStreamLikeValues(t *testing.T) {
	reader := bytes.NewBufferString("leaked body")
	in := map[string]interface{}{
		"body": reader,
	}
	out := Sanitize(in).(map[string]interface{})
	assert.Equal(t, sentinel, out["body"])
}

func TestSanitizeWalksNestedStructures(t *testing.T) {
	reader := bytes.NewBufferString("leaked")
	in := []interface{}{
		map[string]interface{}{"conn": reader},
		"plain",
	}
	out := Sanitize(in).([]interface{})
	nested := out[0].(map[string]interface{})
	assert.Equal(t, sentinel, nested["conn"])
	assert.Equal(t, "plain", out[1])
}
