package v1

import (
	"devtasker/internal/api/v1/handlers"
	"devtasker/internal/config"
	"devtasker/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/websocket/v2"
)

// NewApp builds the fiber application with middleware and every route mounted.
func NewApp(deps *config.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "devtasker",
		ErrorHandler: middleware.HandleError,
	})

	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.Config.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	if deps.Config.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        deps.Config.RateLimitMax,
			Expiration: deps.Config.RateLimitWindow,
		}))
	}

	RegisterRoutes(app, deps)
	return app
}

// RegisterRoutes mounts the API. Authentication is attached per route so that
// unknown paths still answer 404 instead of 401.
func RegisterRoutes(app *fiber.App, deps *config.Dependencies) {
	h := handlers.New(deps.Service, deps.Hub, deps.Ping)
	auth := middleware.UseToken(deps.Service)

	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	// Auth
	api.Post("/register", h.Register)
	api.Post("/login", h.Login)
	api.Post("/logout", auth, h.Logout)
	api.Get("/me", auth, h.Me)

	// Projects
	api.Post("/projects", auth, h.CreateProject)
	api.Get("/projects", auth, h.ListProjects)
	api.Get("/projects/:id/developers", auth, h.ListDevelopers)
	api.Post("/projects/:id/members", auth, h.AddMember)
	api.Get("/projects/:id/tasks", auth, h.ListProjectTasks)
	api.Post("/projects/:id/tasks", auth, h.CreateTask)
	api.Post("/projects/:id/my-tasks", auth, h.CreatePersonalTask)
	api.Get("/projects/:id/metrics", auth, h.Metrics)

	// Tasks
	api.Put("/tasks/:id", auth, h.UpdateTask)
	api.Get("/my-tasks", auth, h.ListMine)
	api.Put("/my-tasks/:id/status", auth, h.UpdateStatus)

	// Comments
	api.Post("/my-tasks/:id/comments", auth, h.AddComment)
	api.Delete("/my-comments/:id", auth, h.DeleteComment)

	// Tags
	api.Get("/tags/lookup", auth, h.LookupTags)
	api.Get("/tags", auth, h.ListTags)
	api.Post("/tags", auth, h.CreateTag)
	api.Put("/tags/:id", auth, h.UpdateTag)
	api.Delete("/tags/:id", auth, h.DeleteTag)

	// Live feed
	app.Get("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	}, auth, websocket.New(h.LiveFeed))
}
