package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicolebling/CupCircle-sub000/internal/config"
	"github.com/nicolebling/CupCircle-sub000/internal/events"
	"github.com/nicolebling/CupCircle-sub000/internal/handlers"
	"github.com/nicolebling/CupCircle-sub000/internal/middleware"
	"github.com/nicolebling/CupCircle-sub000/internal/repository"
	"github.com/nicolebling/CupCircle-sub000/internal/services"
	matchws "github.com/nicolebling/CupCircle-sub000/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	profileRepo := repository.NewProfileRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	matchRepo := repository.NewMatchRepository(db)

	bus := events.NewBus()
	eventCh, _ := bus.Subscribe(64)
	hub := matchws.NewHub()
	go hub.Run(eventCh)

	availabilityService := services.NewAvailabilityService(availabilityRepo)
	matchingService := services.NewMatchingService(matchRepo, availabilityRepo, profileRepo)
	matchService := services.NewMatchService(matchRepo, bus)

	profileHandler := handlers.NewProfileHandler(profileRepo)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	matchingHandler := handlers.NewMatchingHandler(matchingService, profileRepo)
	matchHandler := handlers.NewMatchHandler(matchService)
	notificationHandler := handlers.NewNotificationHandler(hub, cfg.JWTSecret)

	api := app.Group("/api")
	protected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	profile := protected.Group("/profile")
	profile.Get("", profileHandler.GetProfile)
	profile.Post("/onboarding", profileHandler.Onboarding)
	profile.Put("", profileHandler.UpdateProfile)

	availability := protected.Group("/availability")
	availability.Get("", availabilityHandler.ListSlots)
	availability.Post("", availabilityHandler.CreateSlot)
	availability.Delete("/:id", availabilityHandler.DeleteSlot)

	matching := protected.Group("/matching")
	matching.Get("/candidates", matchingHandler.GetCandidates)

	matches := protected.Group("/matches")
	matches.Post("", matchHandler.CreateMatch)
	matches.Get("", matchHandler.ListMatches)
	matches.Put("/:id/status", matchHandler.UpdateStatus)

	api.Use("/v1/ws", notificationHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(notificationHandler.HandleWebSocket))
}
