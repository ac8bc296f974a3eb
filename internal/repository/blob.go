package repository

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/linskybing/rfp-portal/internal/domain/submission"
)

var errEmptyBlob = errors.New("empty blob")

// encodeBlob serializes a nested value into a text field; the store has no
// nested column type.
func encodeBlob(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}

// decodeBlob parses a text field into out. Older rows hold the JSON text
// encoded a second time as a JSON string, so a string result is parsed again.
func decodeBlob(raw any, out any) error {
	var data []byte
	switch v := raw.(type) {
	case nil:
		return errEmptyBlob
	case string:
		if strings.TrimSpace(v) == "" {
			return errEmptyBlob
		}
		data = []byte(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return err
		}
		data = encoded
	}

	var first any
	if err := json.Unmarshal(data, &first); err != nil {
		return err
	}
	if inner, ok := first.(string); ok {
		data = []byte(inner)
	}
	return json.Unmarshal(data, out)
}

// decodeIntegrationScores never fails; malformed input yields an empty map.
func decodeIntegrationScores(raw any) map[string]int {
	scores := map[string]int{}
	var parsed map[string]any
	if err := decodeBlob(raw, &parsed); err != nil {
		return scores
	}
	for name, value := range parsed {
		switch v := value.(type) {
		case float64:
			scores[name] = int(math.Round(v))
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				scores[name] = n
			}
		}
	}
	return scores
}

// decodeReferences never fails; malformed input yields no references.
func decodeReferences(raw any) []submission.Reference {
	var refs []submission.Reference
	if err := decodeBlob(raw, &refs); err != nil || refs == nil {
		return []submission.Reference{}
	}
	return refs
}
