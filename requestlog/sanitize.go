package requestlog

import (
	"io"
	"net"
)

const sentinel = "[Stream/Socket Data]"

// Sanitize walks a decoded JSON value (the native Go representation of the
// spec's Null|Bool|Number|String|Array|Object variant: nil, bool, float64,
// string, []interface{}, map[string]interface{}) and replaces any value that
// exposes a live stream or socket handle with the sentinel string. Captured
// bodies normally reach the trace as already-decoded plain values, so this
// is a defensive pass rather than something expected to ever trigger.
func Sanitize(v interface{}) interface{} {
	switch val := v.(type) {
	case io.Reader, io.Writer, io.Closer, net.Conn:
		return sentinel
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, e := range val {
			out[k] = Sanitize(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = Sanitize(e)
		}
		return out
	default:
		return v
	}
}
