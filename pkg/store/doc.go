package store

import (
	"strings"
	"time"
)

// Doc is an entity-shaped record. Values are strings, bools, int64, float64,
// time.Time, nil, Doc, []Doc or []string.
type Doc map[string]interface{}

func (d Doc) Key() string {
	s, _ := d[FieldID].(string)
	return s
}

// Get resolves a dotted path such as "owner.id".
func (d Doc) Get(path string) (interface{}, bool) {
	var cur interface{} = d
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(Doc)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func (d Doc) String(field string) string {
	v, _ := d.Get(field)
	s, _ := v.(string)
	return s
}

func (d Doc) Bool(field string) bool {
	v, _ := d.Get(field)
	b, _ := v.(bool)
	return b
}

func (d Doc) Int64(field string) int64 {
	v, _ := d.Get(field)
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func (d Doc) Time(field string) time.Time {
	v, _ := d.Get(field)
	t, _ := v.(time.Time)
	return t
}

func (d Doc) Docs(field string) []Doc {
	v, _ := d.Get(field)
	docs, _ := v.([]Doc)
	return docs
}

func (d Doc) Strings(field string) []string {
	v, _ := d.Get(field)
	ss, _ := v.([]string)
	return ss
}

// Ref returns the key a reference field points at. The field may still hold
// the raw key or may already have been replaced by the joined document.
// present is false when the field is missing, nil, or a join found nothing.
func (d Doc) Ref(field string) (key string, present bool) {
	v, ok := d.Get(field)
	if !ok {
		return "", false
	}
	switch r := v.(type) {
	case string:
		return r, r != ""
	case Doc:
		if r == nil {
			return "", false
		}
		k := r.Key()
		return k, k != ""
	}
	return "", false
}

// Clone copies d deeply enough that the copy can be mutated freely.
func (d Doc) Clone() Doc {
	if d == nil {
		return nil
	}
	out := make(Doc, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case Doc:
		return t.Clone()
	case []Doc:
		docs := make([]Doc, len(t))
		for i := range t {
			docs[i] = t[i].Clone()
		}
		return docs
	case []string:
		return append([]string(nil), t...)
	}
	return v
}

// Compare orders two field values of the same kind; nil sorts first.
func Compare(a, b interface{}) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	switch x := a.(type) {
	case time.Time:
		y, _ := b.(time.Time)
		return x.Compare(y)
	case string:
		y, _ := b.(string)
		return strings.Compare(x, y)
	case bool:
		y, _ := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	}
	fx, okx := toFloat(a)
	fy, oky := toFloat(b)
	if okx && oky {
		switch {
		case fx < fy:
			return -1
		case fx > fy:
			return 1
		}
	}
	return 0
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Less reports whether a sorts before b under keys.
func Less(a, b Doc, keys []SortKey) bool {
	for _, k := range keys {
		av, _ := a.Get(k.Field)
		bv, _ := b.Get(k.Field)
		c := Compare(av, bv)
		if c == 0 {
			continue
		}
		if k.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}
