package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube.com/pkg/store"
)

func videos() *table {
	return &table{name: "videos", columns: map[string]column{
		"id": {}, "owner": {}, "is_public": {bool: true}, "is_nsfw": {bool: true}, "parent_comment": {},
	}}
}

func TestWhere(t *testing.T) {
	tests := []struct {
		name string
		f    store.Filter
		sql  string
		args []interface{}
	}{
		{"empty", nil, "1 = 1", nil},
		{"eq", store.Where(store.Eq("owner", "u1")), "`owner` = ?", []interface{}{"u1"}},
		{"is null", store.Where(store.Eq("parent_comment", nil)), "`parent_comment` IS NULL", nil},
		{"ne null", store.Where(store.Ne("parent_comment", nil)), "`parent_comment` IS NOT NULL", nil},
		{"ne", store.Where(store.Ne("id", "v1")), "(`id` <> ? OR `id` IS NULL)", []interface{}{"v1"}},
		{"empty in", store.Where(store.In("id", nil)), "1 = 0", nil},
		{"in", store.Where(store.In("id", []string{"a", "b"})), "`id` IN ?", []interface{}{[]string{"a", "b"}}},
		{
			"visibility",
			store.Where(store.Eq("is_nsfw", false), store.Or(
				store.Where(store.Eq("is_public", true)),
				store.Where(store.Eq("owner", "u1")),
			)),
			"`is_nsfw` = ? AND ((`is_public` = ?) OR (`owner` = ?))",
			[]interface{}{false, true, "u1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := videos().where(tt.f)
			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestWhereRejectsUnknownColumns(t *testing.T) {
	_, _, err := videos().where(store.Where(store.Eq("1=1; drop table videos", 1)))
	assert.Error(t, err)
}

func TestDecodeRow(t *testing.T) {
	users := &table{name: "users", columns: map[string]column{
		"username": {}, "upload_terms_accepted": {bool: true}, "watch_history": {json: true},
	}}
	d, err := users.decode(map[string]interface{}{
		"username":              []byte("ann"),
		"upload_terms_accepted": int64(1),
		"watch_history":         []byte(`[{"video":"v1","watched_at":"2024-01-02T03:04:05Z"}]`),
	})
	require.NoError(t, err)
	assert.Equal(t, "ann", d["username"])
	assert.Equal(t, true, d["upload_terms_accepted"])
	hist := d.Docs("watch_history")
	require.Len(t, hist, 1)
	assert.Equal(t, "v1", hist[0]["video"])
	assert.True(t, hist[0].Time("watched_at").Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))

	playlists := &table{name: "playlists", columns: map[string]column{"videos": {json: true}}}
	d, err = playlists.decode(map[string]interface{}{"videos": nil})
	require.NoError(t, err)
	assert.Equal(t, []string{}, d["videos"])
}

func TestEncodeJSONColumns(t *testing.T) {
	users := &table{name: "users", columns: map[string]column{"watch_history": {json: true}}}
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	row, err := users.encode(store.Doc{"watch_history": []store.Doc{{"video": "v1", "watched_at": at}}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"video":"v1","watched_at":"2024-01-02T03:04:05Z"}]`, row["watch_history"].(string))

	_, err = users.encode(store.Doc{"nope": 1})
	assert.Error(t, err)
}
