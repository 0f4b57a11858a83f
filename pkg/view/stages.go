package view

import (
	"vidtube.com/pkg/pipeline"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/visibility"
)

// Reaction kinds.
const (
	Like    = "like"
	Dislike = "dislike"
)

var (
	newestFirst = pipeline.Sort{Keys: []store.SortKey{{Field: store.FieldCreatedAt, Desc: true}}}
	oldestFirst = pipeline.Sort{Keys: []store.SortKey{{Field: store.FieldCreatedAt}}}

	publicUser = pipeline.Project{Include: []string{"username", "fullname", "avatar"}}
)

// withOwner replaces the owner key by the owner's public profile.
func withOwner(required bool) pipeline.LookupOne {
	return pipeline.LookupOne{
		From:         store.Users,
		LocalField:   "owner",
		ForeignField: store.FieldID,
		As:           "owner",
		Pipeline:     []pipeline.Stage{publicUser},
		Required:     required,
	}
}

// visibleVideos is the sub-pipeline for any nested video list: owner joined,
// orphans and hidden videos dropped.
var visibleVideos = []pipeline.Stage{
	pipeline.Guard{Rule: visibility.Video},
	withOwner(true),
}

// reactionCounts derives totalLikesCount, totalDislikesCount, isLiked and
// isDisliked for records that reactions reference through targetField.
func reactionCounts(targetField string) []pipeline.Stage {
	byKind := func(kind, as string) pipeline.Lookup {
		return pipeline.Lookup{
			From:         store.Reactions,
			LocalField:   store.FieldID,
			ForeignField: targetField,
			As:           as,
			Pipeline: []pipeline.Stage{
				pipeline.Match{Filter: store.Where(store.Eq("kind", kind))},
				pipeline.Project{Include: []string{"actor"}},
			},
		}
	}
	return []pipeline.Stage{
		byKind(Like, "likes"),
		byKind(Dislike, "dislikes"),
		pipeline.AddFields{Fields: []pipeline.Field{
			{Name: "totalLikesCount", Fn: pipeline.Size("likes")},
			{Name: "totalDislikesCount", Fn: pipeline.Size("dislikes")},
			{Name: "isLiked", Fn: pipeline.ViewerIn("likes", "actor")},
			{Name: "isDisliked", Fn: pipeline.ViewerIn("dislikes", "actor")},
		}},
		pipeline.Project{Exclude: []string{"likes", "dislikes"}},
	}
}

// channelStats derives subscriberCount and isSubscribed on a user record.
func channelStats() []pipeline.Stage {
	return []pipeline.Stage{
		pipeline.Lookup{
			From:         store.Subscriptions,
			LocalField:   store.FieldID,
			ForeignField: "channel",
			As:           "subscribers",
			Pipeline:     []pipeline.Stage{pipeline.Project{Include: []string{"subscriber"}}},
		},
		pipeline.AddFields{Fields: []pipeline.Field{
			{Name: "subscriberCount", Fn: pipeline.Size("subscribers")},
			{Name: "isSubscribed", Fn: pipeline.ViewerIn("subscribers", "subscriber")},
		}},
	}
}

func stages(parts ...interface{}) []pipeline.Stage {
	var out []pipeline.Stage
	for _, p := range parts {
		switch s := p.(type) {
		case pipeline.Stage:
			out = append(out, s)
		case []pipeline.Stage:
			out = append(out, s...)
		}
	}
	return out
}
