package book

import (
	"encoding/base64"
	"fmt"

	"github.com/segmentio/encoding/json"
)

// CursorData represents the data encoded in a cursor
type CursorData struct {
	AfterID int64 `json:"after_id,omitempty"`
}

// EncodeCursor encodes cursor data to a base64 string
func EncodeCursor(data CursorData) string {
	if data.AfterID == 0 {
		return ""
	}
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(jsonBytes)
}

// DecodeCursor decodes a base64 cursor string to CursorData
func DecodeCursor(cursor string) (CursorData, error) {
	if cursor == "" {
		return CursorData{}, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return CursorData{}, fmt.Errorf("decode cursor: %w", err)
	}

	var data CursorData
	if err := json.Unmarshal(decoded, &data); err != nil {
		return CursorData{}, fmt.Errorf("decode cursor: %w", err)
	}
	if data.AfterID < 0 {
		return CursorData{}, fmt.Errorf("decode cursor: negative id %d", data.AfterID)
	}
	return data, nil
}
