package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilterMatch(t *testing.T) {
	doc := Doc{
		"id":             "c1",
		"video":          "v1",
		"parent_comment": nil,
		"is_public":      true,
		"owner":          Doc{"id": "u1", "username": "alice"},
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty matches", Where(), true},
		{"equality", Where(Eq("video", "v1")), true},
		{"equality miss", Where(Eq("video", "v2")), false},
		{"null equality", Where(Eq("parent_comment", nil)), true},
		{"missing field equals nil", Where(Eq("tweet", nil)), true},
		{"not equal", Where(Ne("id", "c2")), true},
		{"bool", Where(Eq("is_public", true)), true},
		{"bool is not string", Where(Eq("is_public", "true")), false},
		{"in", Where(In("video", []string{"v0", "v1"})), true},
		{"in miss", Where(In("video", []string{"v0"})), false},
		{"joined reference compares by key", Where(Eq("owner", "u1")), true},
		{"or", Where(Or(Where(Eq("video", "x")), Where(Eq("owner", "u1")))), true},
		{"and", Where(Eq("video", "v1"), Eq("id", "nope")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(doc))
		})
	}
}

func TestLessAndRef(t *testing.T) {
	now := time.Now()
	a := Doc{"created_at": now, "views": int64(3)}
	b := Doc{"created_at": now.Add(time.Second), "views": int64(3)}

	assert.True(t, Less(a, b, []SortKey{{Field: "created_at"}}))
	assert.True(t, Less(b, a, []SortKey{{Field: "created_at", Desc: true}}))
	assert.False(t, Less(a, b, []SortKey{{Field: "views"}}))

	key, ok := Doc{"owner": "u1"}.Ref("owner")
	assert.True(t, ok)
	assert.Equal(t, "u1", key)

	_, ok = Doc{"owner": Doc(nil)}.Ref("owner")
	assert.False(t, ok)
	_, ok = Doc{"owner": nil}.Ref("owner")
	assert.False(t, ok)
}
