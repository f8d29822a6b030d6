package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/garrywilliams/cake/internal/domain/model"
)

func TestEnvelope_ContentID(t *testing.T) {
	tests := []struct {
		name    string
		content interface{}
		want    int64
		ok      bool
	}{
		{
			name:    "decoded JSON number",
			content: map[string]interface{}{"id": float64(7)},
			want:    7,
			ok:      true,
		},
		{
			name:    "int64 id",
			content: map[string]interface{}{"id": int64(42)},
			want:    42,
			ok:      true,
		},
		{
			name:    "zero id",
			content: map[string]interface{}{"id": float64(0)},
			ok:      false,
		},
		{
			name:    "negative id",
			content: map[string]interface{}{"id": float64(-3)},
			ok:      false,
		},
		{
			name:    "id of the wrong type",
			content: map[string]interface{}{"id": "7"},
			ok:      false,
		},
		{
			name:    "no id field",
			content: map[string]interface{}{"detail": "Not found."},
			ok:      false,
		},
		{
			name:    "non-object content",
			content: []interface{}{map[string]interface{}{"id": float64(7)}},
			ok:      false,
		},
		{
			name:    "string content",
			content: "plain text body",
			ok:      false,
		},
		{
			name: "nil content",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope := &model.Envelope{StatusCode: 200, Content: tt.content}

			id, ok := envelope.ContentID()

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, id)
		})
	}
}
