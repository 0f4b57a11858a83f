package pipeline

import (
	"github.com/samber/lo"

	"vidtube.com/pkg/store"
)

// Deriver computes a field from a record and the viewer. Derived values are
// never written back to the store.
type Deriver func(doc store.Doc, env Env) interface{}

// Size counts the records joined under field.
func Size(field string) Deriver {
	return func(doc store.Doc, _ Env) interface{} {
		return int64(len(doc.Docs(field)))
	}
}

// ViewerIn reports whether any record joined under field references the
// viewer through keyPath. Anonymous viewers are never present.
func ViewerIn(field, keyPath string) Deriver {
	return func(doc store.Doc, env Env) interface{} {
		if env.Viewer == "" {
			return false
		}
		return lo.ContainsBy(doc.Docs(field), func(d store.Doc) bool {
			key, ok := d.Ref(keyPath)
			return ok && key == env.Viewer
		})
	}
}

// Contains reports whether the key list at field holds value.
func Contains(field, value string) Deriver {
	return func(doc store.Doc, _ Env) interface{} {
		return lo.Contains(doc.Strings(field), value)
	}
}

// IndexIn is the position of the record's field value within keys; records
// whose value is absent from keys sort last.
func IndexIn(field string, keys []string) Deriver {
	pos := make(map[string]int64, len(keys))
	for i, k := range keys {
		if _, seen := pos[k]; !seen {
			pos[k] = int64(i)
		}
	}
	return func(doc store.Doc, _ Env) interface{} {
		if i, ok := pos[doc.String(field)]; ok {
			return i
		}
		return int64(len(keys))
	}
}

// Ref exposes the key behind a reference field, joined or not.
func Ref(field string) Deriver {
	return func(doc store.Doc, _ Env) interface{} {
		key, ok := doc.Ref(field)
		if !ok {
			return nil
		}
		return key
	}
}
