package constants

import "time"

const (
	DataFormate = "2006-01-02 15:04:05"

	DefaultPage         = 1
	DefaultLimit        = 10
	DefaultCommentLimit = 15
	MaxLimit            = 100

	IdentityKey = "user_id"

	MaxCommentLength = 500
	MaxTweetLength   = 280

	ResetTokenTTL = 15 * time.Minute

	TopSearchCapacity = 10000
	SearchSeedLimit   = 200
	SuggestionLimit   = 20

	WatchHistoryCapacity = 1000

	VideoBucket   = "video"
	PictureBucket = "picture"
)
