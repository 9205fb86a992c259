package testutils

import (
	"encoding/json"
	"io"
	"strings"
)

// GenerateOverBytesUnderRunes генерирует строку, длина которой в рунах будет всегда меньше длины в байтах.
func GenerateOverBytesUnderRunes(count int) string {
	symbol := "😁" // 4 байта, 1 руна
	return strings.Repeat(symbol, count)
}

// DecodeJSON читает тело ответа в map.
func DecodeJSON(body io.Reader) (map[string]any, error) {
	var out map[string]any
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return out, nil
}
