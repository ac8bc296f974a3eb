// Package recordstore is a uniform fetch/create/update/delete layer over named
// collections of loosely-typed records, modelled on hosted spreadsheet stores.
//
// Each record carries an opaque id and a flat field map. Link fields hold the
// ids of related records in another collection as an array, by convention with
// a single element. Filtering by link field is not guaranteed to work on every
// backend, so callers that need "records owned by X" must re-filter client-side.
package recordstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("record not found")

// Store is implemented by every record backend.
type Store interface {
	Find(ctx context.Context, collection, id string) (Record, error)
	List(ctx context.Context, collection string, q Query) ([]Record, error)
	Create(ctx context.Context, collection string, fields Fields) (Record, error)
	Update(ctx context.Context, collection, id string, fields Fields) (Record, error)
	Destroy(ctx context.Context, collection, id string) error
}

// Condition is an equality test on a scalar field.
type Condition struct {
	Field string
	Value any
}

// Query bounds a List call. MaxRecords of zero fetches the whole collection.
// Results are ordered most recently modified first.
type Query struct {
	Where      []Condition
	IDs        []string
	MaxRecords int
}

type Record struct {
	ID          string    `json:"id"`
	CreatedTime time.Time `json:"createdTime"`
	Fields      Fields    `json:"fields"`
}

// Fields is the flat field map of a record. Accessors tolerate both native Go
// values and the shapes produced by JSON decoding.
type Fields map[string]any

func (f Fields) String(name string) string {
	switch v := f[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (f Fields) Bool(name string) bool {
	switch v := f[name].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	case float64:
		return v != 0
	case int:
		return v != 0
	}
	return false
}

func (f Fields) Float(name string) float64 {
	switch v := f[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		n, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n
	}
	return 0
}

// Time returns nil when the field is absent or unparseable.
func (f Fields) Time(name string) *time.Time {
	switch v := f[name].(type) {
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return &v
	case *time.Time:
		return v
	case string:
		if v == "" {
			return nil
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return &t
			}
		}
	}
	return nil
}

// Links returns the record ids held by a link field.
func (f Fields) Links(name string) []string {
	switch v := f[name].(type) {
	case []string:
		return v
	case []any:
		ids := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				ids = append(ids, s)
			}
		}
		return ids
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

// FirstLink is the conventional single id of a link field.
func (f Fields) FirstLink(name string) string {
	links := f.Links(name)
	if len(links) == 0 {
		return ""
	}
	return links[0]
}

// HasLink reports whether id is one of the link field's values.
func (f Fields) HasLink(name, id string) bool {
	if id == "" {
		return false
	}
	for _, link := range f.Links(name) {
		if link == id {
			return true
		}
	}
	return false
}

// Link builds a link field value pointing at id.
func Link(id string) []string {
	return []string{id}
}

func newRecordID() string {
	return "rec" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
}

func matches(fields Fields, where []Condition) bool {
	for _, cond := range where {
		if fmt.Sprint(fields[cond.Field]) != fmt.Sprint(cond.Value) {
			return false
		}
	}
	return true
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
