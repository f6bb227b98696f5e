package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"room-planner/internal/planner/assets"
	"room-planner/internal/planner/blueprint"
	"room-planner/internal/planner/editor"
	"room-planner/internal/planner/store"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/hashicorp/go-hclog"
)

// ============================================================
// Planner Handler
// ============================================================

type Handler struct {
	repo     *store.Repository
	files    *store.FileStorage
	sessions *editor.Registry
	assets   assets.Provider
	options  editor.Options

	validate *validator.Validate
	log      hclog.Logger
}

func New(repo *store.Repository, files *store.FileStorage, sessions *editor.Registry, provider assets.Provider, opts editor.Options, logger hclog.Logger) *Handler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Handler{
		repo:     repo,
		files:    files,
		sessions: sessions,
		assets:   provider,
		options:  opts,
		validate: validator.New(),
		log:      logger.Named("http"),
	}
}

// Register вешает маршруты планировщика на router.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/health/live", h.Live)
	r.Get("/health/ready", h.Ready)

	r.Get("/blueprints", h.ListBlueprints)
	r.Post("/blueprints", h.CreateBlueprint)
	r.Get("/blueprints/:id", h.GetBlueprint)
	r.Put("/blueprints/:id", h.UploadBlueprint)
	r.Delete("/blueprints/:id", h.DeleteBlueprint)
	r.Get("/blueprints/:id/rooms", h.GetRooms)
	r.Get("/blueprints/:id/svg", h.GetSVG)
	r.Post("/blueprints/:id/import-svg", h.ImportSVG)

	r.Get("/furniture", h.ListFurniture)
	r.Post("/furniture", h.CreateFurniture)
	r.Get("/furniture/:id", h.GetFurniture)
	r.Post("/furniture/:id/model", h.UploadModel)
	r.Get("/furniture/:id/model", h.GetModel)

	r.Post("/sessions", h.OpenSession)
	r.Get("/sessions/:id", h.GetSession)
	r.Post("/sessions/:id/mode", h.SetMode)
	r.Post("/sessions/:id/pointer", h.Pointer)
	r.Post("/sessions/:id/items", h.AddItem)
	r.Post("/sessions/:id/viewport", h.Viewport)
	r.Post("/sessions/:id/save", h.SaveSession)
	r.Delete("/sessions/:id", h.CloseSession)
}

// ============================================================
// Health
// ============================================================

func (h *Handler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

func (h *Handler) Ready(c fiber.Ctx) error {
	if err := h.repo.Ping(c.Context()); err != nil {
		h.log.Warn("database is not ready", "error", err)
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

// ============================================================
// Helpers
// ============================================================

var (
	errEmptyBody   = errors.New("empty body")
	errInvalidJSON = errors.New("invalid json")
)

// bind разбирает JSON-тело в dst и проверяет теги validate.
func (h *Handler) bind(c fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return errInvalidJSON
	}
	return h.validate.Struct(dst)
}

func badRequest(c fiber.Ctx, err error) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

// fail переводит ошибку хранилища или редактора в HTTP-ответ.
func (h *Handler) fail(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, editor.ErrSessionNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, blueprint.ErrUnknownCorner),
		errors.Is(err, blueprint.ErrDuplicateCorner),
		errors.Is(err, editor.ErrBadEvent),
		errors.Is(err, editor.ErrBadCamera),
		errors.Is(err, assets.ErrEmptyModel):
		return badRequest(c, err)
	case errors.Is(err, assets.ErrNoModel), errors.Is(err, assets.ErrModelTooLarge):
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	default:
		h.log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}

// userID владелец планов; шлюз передаёт его заголовком.
func userID(c fiber.Ctx) string {
	if id := c.Get("X-User-ID"); id != "" {
		return id
	}
	return c.Query("userId")
}
