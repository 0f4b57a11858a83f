package database

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"vidtube.com/cmd/model"
	"vidtube.com/pkg/store"
)

// Embedded lists are JSON columns. The decoder for each column decides the
// in-memory shape the view engine expects.
var jsonDecoders = map[string]func([]byte) (interface{}, error){
	"watch_history": decodeHistory,
	"videos":        decodeKeys,
}

func decodeHistory(raw []byte) (interface{}, error) {
	var entries []model.WatchEntry
	if len(raw) > 0 {
		if err := sonic.Unmarshal(raw, &entries); err != nil {
			return nil, errors.Wrap(err, "decode watch history")
		}
	}
	docs := make([]store.Doc, len(entries))
	for i, e := range entries {
		docs[i] = store.Doc{"video": e.Video, "watched_at": e.WatchedAt}
	}
	return docs, nil
}

func decodeKeys(raw []byte) (interface{}, error) {
	keys := []string{}
	if len(raw) > 0 {
		if err := sonic.Unmarshal(raw, &keys); err != nil {
			return nil, errors.Wrap(err, "decode key list")
		}
	}
	return keys, nil
}

func encodeJSON(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case []store.Doc:
		entries := make([]model.WatchEntry, len(t))
		for i, d := range t {
			entries[i] = model.WatchEntry{Video: d.String("video"), WatchedAt: d.Time("watched_at")}
		}
		v = entries
	case nil:
		return "[]", nil
	}
	raw, err := sonic.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode json column")
	}
	return string(raw), nil
}

// decode turns a scanned row into a Doc: text comes back as []byte,
// booleans as integers and JSON columns as text.
func (t *table) decode(row map[string]interface{}) (store.Doc, error) {
	d := make(store.Doc, len(row))
	for k, v := range row {
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		col := t.columns[k]
		switch {
		case col.json:
			var raw []byte
			if s, ok := v.(string); ok {
				raw = []byte(s)
			}
			dec := jsonDecoders[k]
			if dec == nil {
				d[k] = v
				continue
			}
			out, err := dec(raw)
			if err != nil {
				return nil, errors.WithMessagef(err, "%s.%s", t.name, k)
			}
			v = out
		case col.bool:
			v = truthy(v)
		}
		if p, ok := v.(*time.Time); ok {
			if p == nil {
				v = nil
			} else {
				v = *p
			}
		}
		d[k] = v
	}
	return d, nil
}

func truthy(v interface{}) bool {
	switch n := v.(type) {
	case bool:
		return n
	case int64:
		return n != 0
	case int32:
		return n != 0
	case int8:
		return n != 0
	case uint8:
		return n != 0
	case int:
		return n != 0
	case string:
		return n == "1" || n == "true"
	}
	return false
}

// encode prepares a Doc for an INSERT or UPDATE, rejecting unknown columns.
func (t *table) encode(d store.Doc) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(d))
	for k, v := range d {
		col, ok := t.columns[k]
		if !ok {
			return nil, errors.Errorf("%s has no column %q", t.name, k)
		}
		if col.json {
			enc, err := encodeJSON(v)
			if err != nil {
				return nil, err
			}
			v = enc
		}
		out[k] = v
	}
	return out, nil
}
