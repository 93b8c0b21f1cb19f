package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/repairtrack/backend/internal/config"
	"github.com/repairtrack/backend/internal/database"
	"github.com/repairtrack/backend/internal/handlers"
	"github.com/repairtrack/backend/internal/logging"
	"github.com/repairtrack/backend/internal/middleware"
	"github.com/repairtrack/backend/internal/models"
	"github.com/repairtrack/backend/internal/permissions"
	"github.com/repairtrack/backend/internal/repository"
	"github.com/repairtrack/backend/internal/services"
	"github.com/repairtrack/backend/internal/token"
)

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := "*"
		if corsOrigin := os.Getenv("CORS_ORIGIN"); corsOrigin != "" {
			origin = corsOrigin
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		// Running purely from environment variables is fine.
		logging.GetLogger().Info("No .env file found, using environment variables")
	}

	cfg := config.Load()
	logging.Initialize(cfg.LogLevel)
	log := logging.GetLogger()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	db := database.GetDB()

	codec := token.NewCodec([]byte(cfg.JWTSecret))
	hasher := services.BcryptHasher{}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	banRepo := repository.NewBanRepository(db)

	authService := services.NewAuthService(userRepo, codec, hasher)
	taskService := services.NewTaskService(taskRepo)
	userService := services.NewUserService(userRepo, hasher)

	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService)

	locationHandler := handlers.NewLookupHandler(
		repository.NewLookupRepository[models.Location](db),
		"Location", false,
		func(name, _ string) *models.Location { return &models.Location{Name: name} },
		func(e *models.Location, name, _ *string) {
			if name != nil {
				e.Name = *name
			}
		},
	)
	deviceTypeHandler := handlers.NewLookupHandler(
		repository.NewLookupRepository[models.DeviceType](db),
		"Device type", false,
		func(name, _ string) *models.DeviceType { return &models.DeviceType{Name: name} },
		func(e *models.DeviceType, name, _ *string) {
			if name != nil {
				e.Name = *name
			}
		},
	)
	problemTypeHandler := handlers.NewLookupHandler(
		repository.NewLookupRepository[models.ProblemType](db),
		"Problem type", false,
		func(name, _ string) *models.ProblemType { return &models.ProblemType{Name: name} },
		func(e *models.ProblemType, name, _ *string) {
			if name != nil {
				e.Name = *name
			}
		},
	)
	statusHandler := handlers.NewLookupHandler(
		repository.NewLookupRepository[models.Status](db, models.DefaultStatusID),
		"Status", true,
		func(name, color string) *models.Status { return &models.Status{Name: name, Color: color} },
		func(e *models.Status, name, color *string) {
			if name != nil {
				e.Name = *name
			}
			if color != nil {
				e.Color = *color
			}
		},
	)
	tagHandler := handlers.NewLookupHandler(
		repository.NewLookupRepository[models.Tag](db),
		"Tag", true,
		func(name, color string) *models.Tag { return &models.Tag{Name: name, Color: color} },
		func(e *models.Tag, name, color *string) {
			if name != nil {
				e.Name = *name
			}
			if color != nil {
				e.Color = *color
			}
		},
	)

	r := gin.Default()
	r.Use(corsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			// The ban gate guards login only; it must not block token
			// refresh for already authenticated clients.
			auth.POST("/login", middleware.IPBanGate(banRepo), authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(codec))
		tasks.Use(middleware.RequirePermission(userRepo, permissions.PermTasks))
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/archive", taskHandler.ArchiveTask)
			tasks.POST("/:id/restore", taskHandler.RestoreTask)
		}

		registerLookupRoutes(api.Group("/locations"), locationHandler, codec, userRepo, permissions.PermLocations)
		registerLookupRoutes(api.Group("/device-types"), deviceTypeHandler, codec, userRepo, permissions.PermDeviceTypes)
		registerLookupRoutes(api.Group("/problem-types"), problemTypeHandler, codec, userRepo, permissions.PermProblemTypes)
		registerLookupRoutes(api.Group("/statuses"), statusHandler, codec, userRepo, permissions.PermStatuses)
		registerLookupRoutes(api.Group("/tags"), tagHandler, codec, userRepo, permissions.PermTags)

		users := api.Group("/users")
		users.Use(middleware.RequireAuth(codec))
		users.Use(middleware.RequirePermission(userRepo, permissions.PermUsers))
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PATCH("/:id", userHandler.UpdateUser)
			users.PATCH("/:id/password", userHandler.ChangePassword)
			users.DELETE("/:id", userHandler.DeleteUser)
		}
	}

	log.Infof("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// registerLookupRoutes wires the shared lookup CRUD contract. List
// additionally accepts the tasks permission: ticket-authoring UIs need to
// read every lookup table.
func registerLookupRoutes[T any](
	rg *gin.RouterGroup,
	h *handlers.LookupHandler[T],
	codec *token.Codec,
	userRepo repository.UserRepository,
	perm permissions.Permission,
) {
	rg.Use(middleware.RequireAuth(codec))

	rg.POST("", middleware.RequirePermission(userRepo, perm), h.Create)
	rg.GET("", middleware.RequirePermission(userRepo, perm, permissions.PermTasks), h.List)
	rg.GET("/:id", middleware.RequirePermission(userRepo, perm), h.Get)
	rg.PATCH("/:id", middleware.RequirePermission(userRepo, perm), h.Update)
	rg.DELETE("/:id", middleware.RequirePermission(userRepo, perm), h.Delete)
}
