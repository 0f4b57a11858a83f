package model

import "vidtube.com/pkg/store"

// Tables maps every store collection to the model that defines its schema.
var Tables = map[store.Collection]interface{}{
	store.Users:         &User{},
	store.Videos:        &Video{},
	store.Comments:      &Comment{},
	store.Reactions:     &Reaction{},
	store.Subscriptions: &Subscription{},
	store.Playlists:     &Playlist{},
	store.Tweets:        &Tweet{},
}
