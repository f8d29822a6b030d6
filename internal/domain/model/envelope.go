package model

// Envelope is the uniform result of every downstream call. Content holds the
// decoded JSON body (maps, slices, primitives) when the collaborator responds
// with JSON, otherwise the raw body string. It is never persisted.
type Envelope struct {
	StatusCode int               `json:"status_code"`
	Content    interface{}       `json:"content"`
	Headers    map[string]string `json:"headers"`
}

// ContentID extracts a positive integer "id" field from JSON content.
// The second return value reports whether such an id was present.
func (e *Envelope) ContentID() (int64, bool) {
	body, ok := e.Content.(map[string]interface{})
	if !ok {
		return 0, false
	}

	// encoding/json decodes numbers as float64
	switch v := body["id"].(type) {
	case float64:
		if v > 0 {
			return int64(v), true
		}
	case int64:
		if v > 0 {
			return v, true
		}
	}
	return 0, false
}
