package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mygamelist/backend/internal/auth"
	"mygamelist/backend/internal/config"
	"mygamelist/backend/internal/database"
	"mygamelist/backend/internal/handler"
	"mygamelist/backend/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "mygamelist/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           myGameList API
// @version         1.0
// @description     This is the API for the myGameList game catalog.
// @host            localhost:3000
// @BasePath        /
// @securityDefinitions.apiKey CookieAuth
// @in cookie
// @name token
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	ctx := context.Background()

	// Connect to the database
	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Client().Disconnect(ctx)

	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Optional Redis-backed token denylist; without it logout is
	// client-side only and tokens stay valid until expiry.
	var denylist *auth.Denylist
	if cfg.RedisAddr != "" {
		denylist, err = auth.NewDenylist(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
	} else {
		log.Println("REDIS_ADDR not set, logout will not revoke tokens server-side")
	}

	users := store.NewUserStore(db)
	games := store.NewGameStore(db)
	gameUsers := store.NewGameUserStore(db)

	secret := []byte(cfg.JWTSecret)
	userHandler := handler.NewUserHandler(users, gameUsers, secret, denylist)
	gameHandler := handler.NewGameHandler(games)
	gameUserHandler := handler.NewGameUserHandler(gameUsers, games)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	authRequired := auth.Middleware(secret, denylist)

	// User routes
	userRoutes := router.Group("/user")
	{
		userRoutes.POST("/signup", userHandler.Signup)
		userRoutes.POST("/login", userHandler.Login)
		userRoutes.POST("/logout", authRequired, userHandler.Logout)
		userRoutes.GET("/profile", authRequired, userHandler.Profile)
		userRoutes.GET("", authRequired, auth.AdminOnly(), userHandler.ListUsers)
		userRoutes.GET("/:id", authRequired, auth.SelfOrAdmin(), userHandler.GetUserByID)
		userRoutes.PUT("/:id", authRequired, auth.SelfOrAdmin(), userHandler.UpdateUser)
		userRoutes.DELETE("/:id", authRequired, auth.SelfOrAdmin(), userHandler.DeleteUser)
	}

	// Game catalog routes (reads are public, mutations are admin-only)
	gameRoutes := router.Group("/games")
	{
		gameRoutes.GET("", gameHandler.ListGames)
		gameRoutes.GET("/search", gameHandler.SearchGames)
		gameRoutes.GET("/top-games", gameHandler.TopGames)
		gameRoutes.GET("/filters", gameHandler.ListFilters)
		gameRoutes.GET("/:id", gameHandler.GetGameByID)
		gameRoutes.POST("", authRequired, auth.AdminOnly(), gameHandler.CreateGame)
		gameRoutes.PUT("/:id", authRequired, auth.AdminOnly(), gameHandler.UpdateGame)
		gameRoutes.DELETE("/:id", authRequired, auth.AdminOnly(), gameHandler.DeleteGame)
	}

	// User library routes (protected)
	gameUserRoutes := router.Group("/games-user")
	gameUserRoutes.Use(authRequired)
	{
		gameUserRoutes.GET("", gameUserHandler.ListMine)
		gameUserRoutes.POST("", gameUserHandler.CreateGameUser)
		gameUserRoutes.GET("/:id", gameUserHandler.GetGameUserByID)
		gameUserRoutes.PUT("/:id", gameUserHandler.UpdateGameUser)
		gameUserRoutes.DELETE("/:id", gameUserHandler.DeleteGameUser)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		fmt.Printf("Server is running on :%s\n", cfg.Port)
		fmt.Printf("Swagger UI is available at http://localhost:%s/swagger/index.html\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for an interrupt and drain in-flight requests before exiting.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
