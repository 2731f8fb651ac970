package model

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// IDField is the key a document identifier is exposed under.
const IDField = "id"

// Fields is the caller-defined body of a document.
type Fields map[string]any

// Clone returns a shallow copy of f. A nil receiver yields an empty map.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for key, value := range f {
		out[key] = value
	}
	return out
}

// Merge returns a copy of f with every top-level key of patch applied.
// Nested objects are replaced, not merged.
func (f Fields) Merge(patch Fields) Fields {
	out := f.Clone()
	for key, value := range patch {
		out[key] = value
	}
	return out
}

// Document is one stored record together with its store-assigned identifier.
type Document struct {
	ID     string
	Fields Fields
}

// MarshalJSON flattens the document into a single object with the
// identifier under "id". The store identifier always wins over an "id"
// key inside the fields.
func (d Document) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(d.Fields)+1)
	for key, value := range d.Fields {
		flat[key] = value
	}
	flat[IDField] = d.ID
	return json.Marshal(flat)
}

// UnmarshalJSON is the inverse of MarshalJSON: "id" becomes the ID and is
// removed from Fields.
func (d *Document) UnmarshalJSON(data []byte) error {
	var flat Fields
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	if id, ok := flat[IDField].(string); ok {
		d.ID = id
	}
	delete(flat, IDField)
	d.Fields = flat
	return nil
}

// SortDocuments orders docs by field in the given direction and drops
// documents that do not carry the field at all, matching how document
// stores evaluate an order-by on a single field. Ties keep identifier order.
func SortDocuments(docs []Document, field string, order SortOrder) []Document {
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if _, ok := doc.Fields[field]; ok {
			out = append(out, doc)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		cmp := CompareValues(out[i].Fields[field], out[j].Fields[field])
		if cmp == 0 {
			cmp = strings.Compare(out[i].ID, out[j].ID)
		}
		if order == Descending {
			return cmp > 0
		}
		return cmp < 0
	})

	return out
}

// value type ranks, lowest first: null, booleans, numbers, timestamps,
// strings, arrays, objects.
const (
	rankNull = iota
	rankBool
	rankNumber
	rankTimestamp
	rankString
	rankArray
	rankObject
)

// CompareValues orders two JSON-ish values the way a document store orders
// mixed-type fields: first by type rank, then by value. Strings holding an
// RFC 3339 timestamp are compared as timestamps, since that is how stored
// server timestamps come back from JSON-encoding stores.
func CompareValues(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return compareInts(ra, rb)
	}

	switch ra {
	case rankNull:
		return 0
	case rankBool:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	case rankNumber:
		return compareFloats(toFloat(a), toFloat(b))
	case rankTimestamp:
		ta, _ := AsTime(a)
		tb, _ := AsTime(b)
		return ta.Compare(tb)
	case rankString:
		return strings.Compare(a.(string), b.(string))
	case rankArray:
		aa, ba := a.([]any), b.([]any)
		for i := 0; i < len(aa) && i < len(ba); i++ {
			if cmp := CompareValues(aa[i], ba[i]); cmp != 0 {
				return cmp
			}
		}
		return compareInts(len(aa), len(ba))
	default:
		// Objects have no meaningful order here; fall back to their encoding.
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

// AsTime extracts a timestamp from a time.Time or an RFC 3339 string.
func AsTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}

func rank(v any) int {
	switch t := v.(type) {
	case nil:
		return rankNull
	case bool:
		return rankBool
	case float64, float32, int, int32, int64, json.Number:
		return rankNumber
	case time.Time, *time.Time:
		return rankTimestamp
	case string:
		if _, ok := AsTime(t); ok {
			return rankTimestamp
		}
		return rankString
	case []any:
		return rankArray
	default:
		return rankObject
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

func compareFloats(a, b float64) int {
	// NaN sorts before every other number.
	switch {
	case math.IsNaN(a) && math.IsNaN(b):
		return 0
	case math.IsNaN(a):
		return -1
	case math.IsNaN(b):
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
