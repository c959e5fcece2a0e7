package main

import (
	"fmt"
	"log"
	"net/http"

	"readmates/backend/internal/auth"
	"readmates/backend/internal/config"
	"readmates/backend/internal/database"
	"readmates/backend/internal/events"
	"readmates/backend/internal/handler"
	"readmates/backend/internal/hub"
	"readmates/backend/internal/notification"
	"readmates/backend/internal/shelf"
	"readmates/backend/internal/social"
	"readmates/backend/internal/stats"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	// Swagger imports
	_ "readmates/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Readmates API
// @version         1.0
// @description     This is the API for the Readmates social reading service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Wire the event bus: subscriber registration order is dispatch order,
	// so shelves are provisioned before statistics recompute, and derived
	// state is updated before notifications go out.
	bus := events.NewBus()
	liveHub := hub.NewHub()

	shelfService := shelf.NewService(database.DB, bus, logger)
	shelfService.Register(bus)

	statsEngine := stats.NewEngine(database.DB, logger)
	statsEngine.Register(bus)

	dispatcher := notification.NewDispatcher(database.DB, liveHub, logger)
	dispatcher.Register(bus)

	socialService := social.NewService(database.DB, bus, logger)

	handler.Init(bus, liveHub, socialService, shelfService, statsEngine, dispatcher, logger)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// Public profile; relationship flags appear for authenticated viewers
		apiV1.GET("/users/:id", auth.OptionalAuthMiddleware(), handler.GetUserProfile)

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.GET("/me/stats", handler.GetMyStatistics)

			userRoutes.POST("/:id/friend-request", handler.SendFriendRequest)
			userRoutes.POST("/:id/follow", handler.FollowUser)
			userRoutes.DELETE("/:id/follow", handler.UnfollowUser)
		}

		// Friendship routes (protected)
		requestRoutes := apiV1.Group("/friend-requests")
		requestRoutes.Use(auth.AuthMiddleware())
		{
			requestRoutes.GET("", handler.ListFriendRequests)
			requestRoutes.POST("/:id/accept", handler.AcceptFriendRequest)
			requestRoutes.POST("/:id/reject", handler.RejectFriendRequest)
			requestRoutes.POST("/:id/cancel", handler.CancelFriendRequest)
		}

		friendRoutes := apiV1.Group("/friends")
		friendRoutes.Use(auth.AuthMiddleware())
		{
			friendRoutes.GET("", handler.ListFriends)
			friendRoutes.GET("/:id", handler.AreFriends)
			friendRoutes.DELETE("/:id", handler.Unfriend)
		}

		followRoutes := apiV1.Group("/follows")
		followRoutes.Use(auth.AuthMiddleware())
		{
			followRoutes.GET("/following", handler.ListFollowing)
			followRoutes.GET("/followers", handler.ListFollowers)
		}

		// Shelf routes (protected)
		shelfRoutes := apiV1.Group("/shelves")
		shelfRoutes.Use(auth.AuthMiddleware())
		{
			shelfRoutes.GET("", handler.ListShelves)
			shelfRoutes.POST("", handler.CreateShelf)
			shelfRoutes.PUT("/:id", handler.RenameShelf)
			shelfRoutes.DELETE("/:id", handler.DeleteShelf)
			shelfRoutes.GET("/:id/books", handler.ListShelfBooks)
			shelfRoutes.POST("/:id/books", handler.AddBookToShelf)
			shelfRoutes.DELETE("/:id/books/:bookID", handler.RemoveBookFromShelf)
		}

		// Review routes (protected): collaborator glue feeding the
		// notification dispatcher.
		reviewRoutes := apiV1.Group("/reviews")
		reviewRoutes.Use(auth.AuthMiddleware())
		{
			reviewRoutes.POST("", handler.CreateReview)
			reviewRoutes.POST("/:id/like", handler.LikeReview)
			reviewRoutes.POST("/:id/comment", handler.CommentReview)
		}

		// Notification routes (protected)
		notificationRoutes := apiV1.Group("/notifications")
		notificationRoutes.Use(auth.AuthMiddleware())
		{
			notificationRoutes.GET("", handler.ListNotifications)
			notificationRoutes.POST("/:id/read", handler.MarkNotificationRead)
		}

		// Live stream (protected)
		wsRoutes := apiV1.Group("/ws")
		wsRoutes.Use(auth.AuthMiddleware())
		{
			wsRoutes.GET("/notifications", handler.StreamNotifications)
		}

		// Admin routes (protected by auth and admin check): catalog seed
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			adminRoutes.POST("/genres", handler.CreateGenre)
			adminRoutes.POST("/books", handler.CreateBook)
		}
	}

	fmt.Printf("Server is running on %s\n", config.AppConfig.ListenAddr)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(config.AppConfig.ListenAddr))
}
