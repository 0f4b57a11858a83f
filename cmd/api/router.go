package main

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	interaction "vidtube.com/cmd/api/handlers/interaction"
	relation "vidtube.com/cmd/api/handlers/relation"
	user "vidtube.com/cmd/api/handlers/user"
	video "vidtube.com/cmd/api/handlers/video"
	"vidtube.com/cmd/api/router/authfunc"
	"vidtube.com/pkg/middleware"
)

func register(r *server.Hertz) {
	r.GET("/healthcheck", healthcheck)
	r.GET("/metrics", adaptor.HertzHandler(promhttp.Handler()))

	auth := authfunc.Auth()
	maybe := authfunc.MaybeAuth()
	limit := middleware.Limit(middleware.WriteResource, authfunc.Throttled)
	// 写操作: 先鉴权再限流
	write := with(auth, limit)

	v1 := r.Group("/api/v1")

	// 用户
	users := v1.Group("/users")
	users.POST("/register", limit, user.Register)
	users.POST("/login", limit, user.LoginUser)
	users.POST("/refresh-token", limit, user.RefreshSession)
	users.POST("/logout", with(write, user.LogoutUser)...)
	users.GET("/current-user", with(auth, user.GetUserProfile)...)
	users.PATCH("/update-account", with(write, user.UpdateProfile)...)
	users.PATCH("/upload-terms", with(write, user.ToggleUploadTerms)...)
	users.PATCH("/avatar", with(write, user.UpdateAvatar)...)
	users.PATCH("/cover-image", with(write, user.UpdateCover)...)
	users.DELETE("/cover-image", with(write, user.DeleteCover)...)
	users.GET("/c/:username", with(maybe, user.ChannelProfile)...)
	users.GET("/history", with(auth, user.WatchHistory)...)
	users.DELETE("/history", with(write, user.ClearWatchHistory)...)
	users.POST("/change-password", with(write, user.UpdatePassword)...)
	users.POST("/forgot-password", limit, user.ForgotPassword)
	users.POST("/reset-password/:token", limit, user.ResetPassword)

	// 视频
	videos := v1.Group("/videos")
	videos.GET("", with(maybe, video.ListVideos)...)
	videos.POST("", with(write, video.PublishVideo)...)
	videos.GET("/suggestions/:videoId", with(maybe, video.VideoSuggestions)...)
	videos.GET("/likes/:videoId", with(maybe, video.VideoLikeData)...)
	videos.POST("/view/:videoId", with(maybe, limit, user.RecordView)...)
	videos.PATCH("/playlists/:videoId", with(write, video.UpdateVideoPlaylists)...)
	videos.GET("/playlists/:videoId", with(auth, video.PlaylistOptions)...)
	videos.GET("/:videoId", with(maybe, video.GetVideo)...)
	videos.PATCH("/:videoId", with(write, video.UpdateVideo)...)
	videos.DELETE("/:videoId", with(write, video.DeleteVideo)...)

	// 搜索
	search := v1.Group("/search")
	search.GET("/suggestions", video.SearchSuggestions)
	search.GET("/top", video.TopSearches)

	// 播放列表
	playlists := v1.Group("/playlists")
	playlists.POST("", with(write, video.CreatePlaylist)...)
	playlists.GET("/user/:userId", with(maybe, video.ListPlaylists)...)
	playlists.GET("/:playlistId", with(maybe, video.GetPlaylist)...)
	playlists.PATCH("/:playlistId", with(write, video.UpdatePlaylist)...)
	playlists.DELETE("/:playlistId", with(write, video.DeletePlaylist)...)

	// 评论
	comments := v1.Group("/comments")
	comments.GET("/:videoId", with(maybe, interaction.ListComment)...)
	comments.POST("/:videoId", with(write, interaction.CreateComment)...)
	comments.PATCH("/c/:commentId", with(write, interaction.UpdateComment)...)
	comments.DELETE("/c/:commentId", with(write, interaction.DeleteComment)...)

	// 点赞
	likes := v1.Group("/likes")
	likes.GET("/videos", with(auth, interaction.LikedVideos)...)
	likes.GET("/tweets", with(auth, interaction.LikedTweets)...)
	likes.PUT("/:targetKind/:targetId", with(write, interaction.LikeAction)...)

	// 订阅
	subscriptions := v1.Group("/subscriptions")
	subscriptions.POST("/c/:channelId", with(write, relation.ToggleSubscription)...)
	subscriptions.GET("/c/:channelId", with(maybe, relation.ChannelSubscribers)...)
	subscriptions.GET("/u/:subscriberId", with(maybe, relation.SubscribedChannels)...)

	// 动态
	tweets := v1.Group("/tweets")
	tweets.POST("", with(write, interaction.CreateTweet)...)
	tweets.GET("/user/:userId", with(maybe, interaction.UserTweets)...)
	tweets.PATCH("/:tweetId", with(write, interaction.UpdateTweet)...)
	tweets.DELETE("/:tweetId", with(write, interaction.DeleteTweet)...)
}

func healthcheck(ctx context.Context, c *app.RequestContext) {
	h := utils.H{"status": "ok", "time": time.Now().Unix()}
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		h["cpuPercent"] = pct[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		h["memoryPercent"] = vm.UsedPercent
	}
	c.JSON(consts.StatusOK, h)
}

// with returns mw followed by h in a fresh slice.
func with(mw []app.HandlerFunc, h ...app.HandlerFunc) []app.HandlerFunc {
	out := make([]app.HandlerFunc, 0, len(mw)+len(h))
	return append(append(out, mw...), h...)
}
