// Package search keeps videos in an Elasticsearch index and answers text
// queries with video keys ranked by relevance.
package search

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/olivere/elastic/v7"
	"github.com/pkg/errors"

	"vidtube.com/pkg/store"
)

const mapping = `{
	"mappings": {
		"properties": {
			"title":       {"type": "text"},
			"description": {"type": "text"},
			"owner":       {"type": "keyword"},
			"created_at":  {"type": "date"}
		}
	}
}`

type Index struct {
	client *elastic.Client
	name   string
}

func New(ctx context.Context, addr, name string) (*Index, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(addr),
		elastic.SetSniff(false),
		elastic.SetHealthcheckInterval(30*time.Second),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "connect elasticsearch %s", addr)
	}
	idx := &Index{client: client, name: name}
	if err = idx.ensure(ctx); err != nil {
		return nil, err
	}
	hlog.Infof("elasticsearch index %s ready", name)
	return idx, nil
}

func (idx *Index) ensure(ctx context.Context) error {
	exists, err := idx.client.IndexExists(idx.name).Do(ctx)
	if err != nil {
		return errors.Wrap(err, "check index")
	}
	if exists {
		return nil
	}
	_, err = idx.client.CreateIndex(idx.name).BodyString(mapping).Do(ctx)
	return errors.Wrap(err, "create index")
}

// Search runs a fuzzy multi-field match and returns the matching keys, best
// match first.
func (idx *Index) Search(ctx context.Context, text string, fields []string, limit int) ([]string, error) {
	query := elastic.NewMultiMatchQuery(text, fields...).
		Type("best_fields").
		Fuzziness("AUTO")
	res, err := idx.client.Search(idx.name).
		Query(query).
		FetchSource(false).
		Size(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "search videos")
	}
	keys := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		keys = append(keys, hit.Id)
	}
	return keys, nil
}

// Suggest completes a partly typed title.
func (idx *Index) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	res, err := idx.client.Search(idx.name).
		Query(elastic.NewMatchPhrasePrefixQuery("title", prefix)).
		FetchSourceContext(elastic.NewFetchSourceContext(true).Include("title")).
		Size(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "suggest titles")
	}
	titles := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var src struct {
			Title string `json:"title"`
		}
		if err := sonic.Unmarshal(hit.Source, &src); err != nil {
			continue
		}
		titles = append(titles, src.Title)
	}
	return titles, nil
}

// IndexVideo adds or replaces the searchable fields of v.
func (idx *Index) IndexVideo(ctx context.Context, v store.Doc) error {
	_, err := idx.client.Index().
		Index(idx.name).
		Id(v.Key()).
		BodyJson(Source(v)).
		Do(ctx)
	return errors.Wrapf(err, "index video %s", v.Key())
}

// DeleteVideo removes a video; one that was never indexed is not an error.
func (idx *Index) DeleteVideo(ctx context.Context, key string) error {
	_, err := idx.client.Delete().Index(idx.name).Id(key).Do(ctx)
	if err != nil && !elastic.IsNotFound(err) {
		return errors.Wrapf(err, "delete video %s", key)
	}
	return nil
}

func (idx *Index) Stop() {
	idx.client.Stop()
}

// Source is the indexed form of a video.
func Source(v store.Doc) map[string]interface{} {
	owner, _ := v.Ref("owner")
	src := map[string]interface{}{
		"title":       v.String("title"),
		"description": v.String("description"),
		"owner":       owner,
	}
	if t := v.Time(store.FieldCreatedAt); !t.IsZero() {
		src["created_at"] = t
	}
	return src
}
