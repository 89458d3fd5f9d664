package servers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"

	"github.com/civicissues/user-management/app_config"
	"github.com/civicissues/user-management/entities"
	"github.com/civicissues/user-management/graceful_shutdown"
	"github.com/civicissues/user-management/repositories"
	"github.com/civicissues/user-management/servers/middleware"
	"github.com/civicissues/user-management/services"
)

type HttpHandler struct {
	ac          *app_config.AppConfig
	auth        *services.AuthService
	points      *services.PointsService
	leaderboard *services.LeaderboardService
	users       repositories.UserRepository
}

func NewFiberApp(ac *app_config.AppConfig, auth *services.AuthService, points *services.PointsService, leaderboard *services.LeaderboardService, users repositories.UserRepository) *fiber.App {
	h := &HttpHandler{
		ac:          ac,
		auth:        auth,
		points:      points,
		leaderboard: leaderboard,
		users:       users,
	}

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins:     ac.CorsOrigins,
		AllowCredentials: true,
	}))
	app.Use(middleware.MetricsMiddleware())

	app.Get("/", h.Root)
	app.Get("/health/live", h.LivenessCheck)
	app.Get("/health/ready", h.ReadinessCheck)
	app.Get("/db-check", h.DbCheck)
	app.Get("/metrics", h.Metrics)

	app.Post("/api/v1/register", h.Register)
	app.Post("/api/v1/login", h.Login)
	app.Get("/api/v1/profile/me", h.GetProfile, middleware.AuthMiddleware(auth))
	app.Get("/api/v1/leaderboard", h.GetLeaderboard)

	app.Post("/internal/events", h.ProcessEvent)

	return app
}

func RunHttpServer(ac *app_config.AppConfig, auth *services.AuthService, points *services.PointsService, leaderboard *services.LeaderboardService, users repositories.UserRepository) {
	app := NewFiberApp(ac, auth, points, leaderboard, users)

	graceful_shutdown.AddInputShutdownFunc(func() {
		if err := app.Shutdown(); err != nil {
			slog.Error(err.Error())
		}
	})

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", ac.HttpPort)); err != nil {
			panic(err)
		}
	}()
}

func (h *HttpHandler) Root(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Civic User Management Service is running."})
}

func (h *HttpHandler) LivenessCheck(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

func (h *HttpHandler) ReadinessCheck(c fiber.Ctx) error {
	if err := h.users.Ping(); err != nil {
		c.Status(fiber.StatusServiceUnavailable)
		return c.JSON(fiber.Map{"detail": fmt.Sprintf("Database not ready: %s", err)})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

func (h *HttpHandler) DbCheck(c fiber.Ctx) error {
	tables, err := h.users.ListTables()
	if err != nil {
		return c.JSON(fiber.Map{"status": "error", "details": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "connected", "tables": tables})
}

func (h *HttpHandler) Metrics(c fiber.Ctx) error {
	var buf bytes.Buffer
	metrics.WritePrometheus(&buf, true)
	c.Set(fiber.HeaderContentType, "text/plain; version=0.0.4; charset=utf-8")
	return c.Send(buf.Bytes())
}

func (h *HttpHandler) Register(c fiber.Ctx) error {
	req := &entities.RegisterRequest{}
	if err := json.Unmarshal(c.Body(), req); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	if detail := validateRegister(req); detail != "" {
		c.Status(fiber.StatusUnprocessableEntity)
		return c.JSON(fiber.Map{"detail": detail})
	}

	resp, err := h.auth.Register(req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.Status(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{"detail": "Email already registered"})
		}
		slog.Error(err.Error())
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	c.Status(fiber.StatusCreated)
	return c.JSON(resp)
}

func (h *HttpHandler) Login(c fiber.Ctx) error {
	req := &entities.LoginRequest{}
	if err := json.Unmarshal(c.Body(), req); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	if req.Email == "" || req.Password == "" {
		c.Status(fiber.StatusUnprocessableEntity)
		return c.JSON(fiber.Map{"detail": "Email and password are required"})
	}

	resp, err := h.auth.Login(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.Status(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{"detail": "Invalid credentials"})
		}
		slog.Error(err.Error())
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(resp)
}

func (h *HttpHandler) GetProfile(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(&entities.ProfileResponse{
		UserID:          user.UserID,
		Name:            user.Name,
		Email:           user.Email,
		TotalPoints:     user.TotalPoints,
		SpendablePoints: user.SpendablePoints,
	})
}

func (h *HttpHandler) GetLeaderboard(c fiber.Ctx) error {
	entries, err := h.leaderboard.Top(h.ac.LeaderboardSize)
	if err != nil {
		slog.Error(err.Error())
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(&entities.LeaderboardResponse{Leaderboard: entries})
}

func (h *HttpHandler) ProcessEvent(c fiber.Ctx) error {
	event := &entities.PointsEvent{}
	if err := json.Unmarshal(c.Body(), event); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	result, err := h.points.HandleEvent(event)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownEventType):
			c.Status(fiber.StatusUnprocessableEntity)
			return c.JSON(fiber.Map{"detail": fmt.Sprintf("Unknown event type: %s", event.EventType)})
		case errors.Is(err, services.ErrUserNotFound):
			c.Status(fiber.StatusNotFound)
			return c.JSON(fiber.Map{"detail": "User not found"})
		default:
			slog.Error(err.Error())
			return c.SendStatus(fiber.StatusInternalServerError)
		}
	}
	return c.JSON(result)
}

func validateRegister(req *entities.RegisterRequest) string {
	if strings.TrimSpace(req.Name) == "" {
		return "Name is required"
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return "A valid email is required"
	}
	if req.Password == "" {
		return "Password is required"
	}
	return ""
}
