package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vidtube.com/pkg/pipeline"
	"vidtube.com/pkg/store"
)

func video(owner string, public, nsfw bool) store.Doc {
	return store.Doc{"id": "v", "owner": owner, "is_public": public, "is_nsfw": nsfw}
}

func TestVideoRule(t *testing.T) {
	tests := []struct {
		name   string
		doc    store.Doc
		viewer string
		want   bool
	}{
		{"public anonymous", video("u1", true, false), "", true},
		{"private anonymous", video("u1", false, false), "", false},
		{"private stranger", video("u1", false, false), "u2", false},
		{"private owner", video("u1", false, false), "u1", true},
		{"nsfw owner", video("u1", true, true), "u1", false},
		{"joined owner", store.Doc{"owner": store.Doc{"id": "u1"}, "is_public": false, "is_nsfw": false}, "u1", true},
		{"missing owner", store.Doc{"owner": nil, "is_public": true, "is_nsfw": false}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Video.Visible(tt.doc, tt.viewer))
		})
	}
}

// The pushed-down filter must agree with the predicate on plain records.
func TestFilterAgreesWithPredicate(t *testing.T) {
	docs := []store.Doc{
		video("u1", true, false),
		video("u1", false, false),
		video("u1", true, true),
		video("u2", false, false),
		{"owner": "u1", "visibility": Public},
		{"owner": "u1", "visibility": Private},
		{"owner": "u2", "visibility": Private},
	}
	for _, rule := range []pipeline.Rule{Video, Playlist} {
		for _, viewer := range []string{"", "u1", "u2"} {
			f := rule.Filter(viewer)
			for _, d := range docs {
				if _, isVideo := d["is_public"]; isVideo != (rule == Video) {
					continue
				}
				assert.Equal(t, rule.Visible(d, viewer), f.Match(d), "viewer=%q doc=%v", viewer, d)
			}
		}
	}
}

func TestPlaylistRule(t *testing.T) {
	assert.True(t, Playlist.Visible(store.Doc{"owner": "u1", "visibility": Public}, ""))
	assert.False(t, Playlist.Visible(store.Doc{"owner": "u1", "visibility": Private}, ""))
	assert.False(t, Playlist.Visible(store.Doc{"owner": "u1", "visibility": Private}, "u2"))
	assert.True(t, Playlist.Visible(store.Doc{"owner": "u1", "visibility": Private}, "u1"))
}
