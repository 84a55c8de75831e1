package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/library-service/internal/api/http/handlers"
	"github.com/spec-kit/library-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Books          *handlers.BooksHandler
	Reviews        *handlers.ReviewsHandler
	Library        *handlers.LibraryHandler
	Users          *handlers.UsersHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	Policy         *auth.Policy
	// AuthRateLimit guards register, login and refresh. Nil disables it.
	AuthRateLimit fiber.Handler
	// UploadsDir is served read-only at /uploads when set.
	UploadsDir string
}

// RegisterRoutes wires HTTP routes. Every API route is guarded by its
// declared operation; Guard panics for an undeclared one.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	guard := cfg.Policy.Guard
	limit := cfg.AuthRateLimit
	if limit == nil {
		limit = func(c *fiber.Ctx) error { return c.Next() }
	}

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.UploadsDir != "" {
		app.Static("/uploads", cfg.UploadsDir, fiber.Static{Browse: false})
	}

	// Identity is resolved for everything below; the filter never rejects.
	app.Use(cfg.AuthMiddleware.Handle)

	app.Get("/metrics", guard(auth.OpAdminMetrics), cfg.Admin.Metrics)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", limit, guard(auth.OpAuthRegister), cfg.Auth.Register)
	authGroup.Post("/login", limit, guard(auth.OpAuthLogin), cfg.Auth.Login)
	authGroup.Post("/refresh", limit, guard(auth.OpAuthRefresh), cfg.Auth.Refresh)
	authGroup.Post("/reset", guard(auth.OpAuthReset), cfg.Auth.Reset)

	books := api.Group("/books")
	books.Get("/", guard(auth.OpBooksList), cfg.Books.List)
	books.Get("/search", guard(auth.OpBooksSearch), cfg.Books.Search)
	books.Get("/sorted", guard(auth.OpBooksSorted), cfg.Books.Sorted)
	books.Get("/top", guard(auth.OpBooksTop), cfg.Books.Top)
	books.Get("/genre", guard(auth.OpBooksGenre), cfg.Books.ByGenre)
	books.Get("/:id", guard(auth.OpBooksGet), cfg.Books.Get)
	books.Post("/", guard(auth.OpBooksCreate), cfg.Books.Create)
	books.Put("/:id", guard(auth.OpBooksUpdate), cfg.Books.Update)
	books.Delete("/:id", guard(auth.OpBooksDelete), cfg.Books.Delete)
	books.Post("/:id/cover", guard(auth.OpBooksCover), cfg.Books.UploadCover)
	books.Post("/:id/pdf", guard(auth.OpBooksPDF), cfg.Books.UploadPDF)

	reviews := api.Group("/reviews")
	reviews.Get("/:bookId", guard(auth.OpReviewsList), cfg.Reviews.List)
	reviews.Post("/:bookId", guard(auth.OpReviewsAdd), cfg.Reviews.Add)
	reviews.Put("/:bookId", guard(auth.OpReviewsUpdate), cfg.Reviews.Update)
	reviews.Delete("/:bookId", guard(auth.OpReviewsDelete), cfg.Reviews.Delete)

	api.Get("/favorites", guard(auth.OpFavoritesList), cfg.Library.Favorites)
	api.Post("/favorites", guard(auth.OpFavoritesAdd), cfg.Library.AddFavorite)
	api.Delete("/favorites", guard(auth.OpFavoritesRemove), cfg.Library.RemoveFavorite)
	api.Get("/history", guard(auth.OpHistoryList), cfg.Library.History)

	users := api.Group("/users")
	users.Get("/me", guard(auth.OpUsersMe), cfg.Users.Me)
	users.Post("/update", guard(auth.OpUsersUpdate), cfg.Users.Update)
	users.Delete("/delete", guard(auth.OpUsersDelete), cfg.Users.Delete)

	admin := api.Group("/admin")
	admin.Get("/stats", guard(auth.OpAdminStats), cfg.Admin.Stats)
	admin.Get("/stats/extended", guard(auth.OpAdminStatsExtended), cfg.Admin.StatsExtended)
}
