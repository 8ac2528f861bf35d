package formatter

import (
	"encoding/json"
	"io"
)

// BuildJSON serializes v to JSON; unencodable values yield "null"
func BuildJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return b
}

// WriteJSON streams v as JSON to w
func WriteJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}
