package paginate

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/pipeline"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/store/memstore"
)

func TestNewPageMetadata(t *testing.T) {
	p := NewPage(nil, 25, Request{Page: 2, Limit: 10})
	assert.EqualValues(t, 3, p.TotalPages)
	assert.EqualValues(t, 11, p.PagingCounter)
	assert.True(t, p.HasPrevPage)
	assert.True(t, p.HasNextPage)
	require.NotNil(t, p.PrevPage)
	require.NotNil(t, p.NextPage)
	assert.EqualValues(t, 1, *p.PrevPage)
	assert.EqualValues(t, 3, *p.NextPage)
	assert.NotNil(t, p.Docs)

	last := NewPage(nil, 25, Request{Page: 3, Limit: 10})
	assert.False(t, last.HasNextPage)
	assert.Nil(t, last.NextPage)

	first := NewPage(nil, 0, Request{Page: 1, Limit: 10})
	assert.False(t, first.HasPrevPage)
	assert.Nil(t, first.PrevPage)
	assert.EqualValues(t, 0, first.TotalPages)
}

func TestNewRequest(t *testing.T) {
	r, err := NewRequest(0, 0, 15)
	require.NoError(t, err)
	assert.Equal(t, Request{Page: 1, Limit: 15}, r)

	for _, bad := range [][2]int64{{-1, 10}, {1, -3}, {1, 101}} {
		_, err := NewRequest(bad[0], bad[1], 10)
		assert.ErrorIs(t, err, errno.ParamErr, "page=%d limit=%d", bad[0], bad[1])
	}
}

func TestCollectionPagesSumToTotal(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	for i := 0; i < 23; i++ {
		require.NoError(t, s.Insert(ctx, store.Videos, store.Doc{
			"id":        fmt.Sprintf("v%02d", i),
			"is_public": i%4 != 0,
		}))
	}
	x := pipeline.NewExecutor(s)
	p := pipeline.Pipeline{From: store.Videos, Stages: []pipeline.Stage{
		pipeline.Match{Filter: store.Where(store.Eq("is_public", true))},
		pipeline.Sort{Keys: []store.SortKey{{Field: "id"}}},
	}}

	var seen []string
	for page := int64(1); ; page++ {
		pg, err := Collection(ctx, x, p, pipeline.Env{}, Request{Page: page, Limit: 5})
		require.NoError(t, err)
		assert.EqualValues(t, 17, pg.TotalDocs)
		assert.EqualValues(t, 4, pg.TotalPages)
		for _, d := range pg.Docs {
			seen = append(seen, d.Key())
		}
		if !pg.HasNextPage {
			break
		}
	}
	assert.Len(t, seen, 17)
	assert.IsIncreasing(t, seen)
}

func TestEmbeddedSlicesBeforeExpanding(t *testing.T) {
	entries := []store.Doc{{"video": "a"}, {"video": "b"}, {"video": "c"}, {"video": "d"}, {"video": "e"}}
	var expanded []string
	expand := func(_ context.Context, in []store.Doc) ([]store.Doc, error) {
		out := []store.Doc{}
		for _, e := range in {
			expanded = append(expanded, e.String("video"))
			if e.String("video") != "d" {
				out = append(out, e)
			}
		}
		return out, nil
	}

	pg, err := Embedded(context.Background(), entries, Request{Page: 2, Limit: 2}, expand)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, expanded)
	assert.Len(t, pg.Docs, 1)
	assert.EqualValues(t, 5, pg.TotalDocs)
	assert.EqualValues(t, 3, pg.TotalPages)
}
