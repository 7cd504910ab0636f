package handler

import (
	"koya/config"
	"koya/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handlers struct {
	Restaurant   *RestaurantHandler
	Review       *ReviewHandler
	Comment      *CommentHandler
	User         *UserHandler
	Notification *NotificationHandler
	Upload       *UploadHandler
}

// NewHandlers wires every service onto db and files.
func NewHandlers(db *gorm.DB, files service.FileStorage, cfg *config.Config) *Handlers {
	reviewSvc := service.NewReviewService(db)

	return &Handlers{
		Restaurant: NewRestaurantHandler(
			service.NewRestaurantService(db),
			service.NewRestaurantRelationService(db),
			reviewSvc,
		),
		Review: NewReviewHandler(
			reviewSvc,
			service.NewLikeService(db),
			service.NewBookmarkService(db),
		),
		Comment: NewCommentHandler(service.NewCommentService(db)),
		User: NewUserHandler(
			service.NewUserService(db),
			service.NewFollowService(db),
		),
		Notification: NewNotificationHandler(service.NewNotificationService(db)),
		Upload: NewUploadHandler(
			service.NewUploadService(db, files, cfg.Uploads.AppID),
			cfg.Cron.Secret,
			cfg.Cron.MediaRetention,
			cfg.IsProduction(),
		),
	}
}

// RegisterRoutes mounts the cron endpoint and the authenticated /api/v1 group.
// Middlewares in apiMiddleware run before every /api/v1 handler.
func RegisterRoutes(r *gin.Engine, h *Handlers, apiMiddleware ...gin.HandlerFunc) {
	r.GET("/api/cron/clear-uploads", h.Upload.ClearUploads)

	api := r.Group("/api/v1")
	api.Use(apiMiddleware...)
	{
		// restaurants
		api.GET("/restaurants/search", h.Restaurant.SearchRestaurants)
		api.GET("/restaurants/slug/:slug", h.Restaurant.GetRestaurantBySlug)
		api.POST("/restaurants", h.Restaurant.CreateRestaurant)
		api.GET("/restaurants/:id", h.Restaurant.GetRestaurantInfo)
		api.GET("/restaurants/:id/reviews", h.Restaurant.GetRestaurantReviews)
		api.POST("/restaurants/:id/bookmark", h.Restaurant.ToggleRelation(service.RelationBookmark))
		api.POST("/restaurants/:id/favorite", h.Restaurant.ToggleRelation(service.RelationFavorite))
		api.POST("/restaurants/:id/visited", h.Restaurant.ToggleRelation(service.RelationVisited))
		api.GET("/restaurants/:id/bookmarks/list", h.Restaurant.ListRelationUsers(service.RelationBookmark))
		api.GET("/restaurants/:id/favorites/list", h.Restaurant.ListRelationUsers(service.RelationFavorite))
		api.GET("/restaurants/:id/visited/list", h.Restaurant.ListRelationUsers(service.RelationVisited))

		// reviews
		api.POST("/posts", h.Review.CreateReview)
		api.GET("/posts/following", h.Review.GetFollowingFeed)
		api.GET("/posts/bookmarked", h.Review.GetBookmarkedReviews)
		api.GET("/posts/:id", h.Review.GetReview)
		api.DELETE("/posts/:id", h.Review.DeleteReview)
		api.GET("/posts/:id/likes", h.Review.GetLikes)
		api.POST("/posts/:id/likes", h.Review.Like)
		api.DELETE("/posts/:id/likes", h.Review.Unlike)
		api.POST("/posts/:id/likes/toggle", h.Review.ToggleLike)
		api.GET("/posts/:id/bookmark", h.Review.GetBookmark)
		api.POST("/posts/:id/bookmark", h.Review.Bookmark)
		api.DELETE("/posts/:id/bookmark", h.Review.RemoveBookmark)

		// comments
		api.GET("/posts/:id/comments", h.Comment.GetComments)
		api.POST("/posts/:id/comments", h.Comment.SubmitComment)
		api.DELETE("/comments/:id", h.Comment.DeleteComment)

		// users
		api.GET("/users/username/:username", h.User.GetUserByUsername)
		api.PATCH("/users/me", h.User.UpdateProfile)
		api.GET("/users/:id/followers", h.User.GetFollowerInfo)
		api.POST("/users/:id/followers", h.User.Follow)
		api.DELETE("/users/:id/followers", h.User.Unfollow)
		api.GET("/users/:id/followers/list", h.User.GetFollowers)
		api.GET("/users/:id/following/list", h.User.GetFollowing)
		api.GET("/users/:id/posts", h.Review.GetUserReviews)

		// notifications
		api.GET("/notifications", h.Notification.GetNotifications)
		api.GET("/notifications/unread-count", h.Notification.GetUnreadCount)
		api.PATCH("/notifications/mark-as-read", h.Notification.MarkAllAsRead)

		// uploads
		api.POST("/uploads/attachment", h.Upload.CompleteAttachment)
		api.POST("/uploads/avatar", h.Upload.CompleteAvatar)
	}
}
