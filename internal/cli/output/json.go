package output

import (
	"encoding/json"
	"io"
	"reflect"
)

// JSONFormatter writes indented JSON. Stored values are shown as typed, so
// HTML characters are left unescaped.
type JSONFormatter struct{}

// Format writes data followed by a newline. A nil slice is written as an
// empty array, so an empty result is still a list for jq and friends.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	if v := reflect.ValueOf(data); v.Kind() == reflect.Slice && v.IsNil() {
		data = []any{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(data)
}
