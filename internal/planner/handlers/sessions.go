package handlers

import (
	"net/http"

	"room-planner/internal/planner/editor"
	"room-planner/internal/planner/models"
	"room-planner/internal/planner/planar"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Editor sessions
// ============================================================

type openSessionRequest struct {
	BlueprintID string `json:"blueprintId" validate:"required"`
}

type modeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=move draw delete"`
}

type pointerRequest struct {
	Events []models.PointerEvent `json:"events" validate:"required,min=1,dive"`
}

// addItemRequest позиция в см, поворот вокруг вертикали в радианах.
type addItemRequest struct {
	FurnitureID string  `json:"furnitureId" validate:"required"`
	PosX        float64 `json:"posX"`
	PosY        float64 `json:"posY"`
	PosZ        float64 `json:"posZ"`
	Rot         float64 `json:"rot"`
}

type viewportRequest struct {
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
	Camera string  `json:"camera" validate:"omitempty,oneof=orthographic perspective"`
}

// OpenSession загружает сохранённый план в новую сессию редактора.
func (h *Handler) OpenSession(c fiber.Ctx) error {
	var req openSessionRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(c, err)
	}

	cb, err := h.repo.GetBlueprint(c.Context(), req.BlueprintID)
	if err != nil {
		return h.fail(c, err)
	}

	s := editor.NewSession(h.assets, h.options, h.log)
	if err := s.Load(c.Context(), *cb); err != nil {
		s.Close()
		return h.fail(c, err)
	}

	id := h.sessions.Open(s)
	h.log.Info("session opened", "session", id, "blueprint", cb.ID)
	return c.Status(http.StatusCreated).JSON(s.Info(id))
}

func (h *Handler) GetSession(c fiber.Ctx) error {
	id := c.Params("id")
	var info models.SessionInfo
	err := h.sessions.With(id, func(s *editor.Session) error {
		info = s.Info(id)
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(info)
}

func (h *Handler) SetMode(c fiber.Ctx) error {
	var req modeRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(c, err)
	}
	mode, err := planar.ParseMode(req.Mode)
	if err != nil {
		return badRequest(c, err)
	}

	id := c.Params("id")
	var info models.SessionInfo
	err = h.sessions.With(id, func(s *editor.Session) error {
		s.SetMode(mode)
		info = s.Info(id)
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(info)
}

// Pointer применяет пачку событий указателя по порядку. Ошибка в середине
// пачки оставляет уже применённые события в силе.
func (h *Handler) Pointer(c fiber.Ctx) error {
	var req pointerRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(c, err)
	}

	id := c.Params("id")
	var info models.SessionInfo
	err := h.sessions.With(id, func(s *editor.Session) error {
		for _, ev := range req.Events {
			if err := s.Apply(ev); err != nil {
				return err
			}
		}
		info = s.Info(id)
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(info)
}

// AddItem ставит предмет каталога в сцену сессии и выделяет его.
// Пока модель грузится, в сцене стоит заглушка.
func (h *Handler) AddItem(c fiber.Ctx) error {
	var req addItemRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(c, err)
	}

	f, err := h.repo.GetFurniture(c.Context(), req.FurnitureID)
	if err != nil {
		return h.fail(c, err)
	}

	id := c.Params("id")
	var info models.SessionInfo
	err = h.sessions.With(id, func(s *editor.Session) error {
		pos := v3.Vec{X: req.PosX, Y: req.PosY, Z: req.PosZ}
		if _, err := s.AddFurniture(c.Context(), f, pos, req.Rot); err != nil {
			return err
		}
		info = s.Info(id)
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(info)
}

// Viewport задаёт размер холстов и, если указана, проекцию сцены.
func (h *Handler) Viewport(c fiber.Ctx) error {
	var req viewportRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(c, err)
	}

	id := c.Params("id")
	var info models.SessionInfo
	err := h.sessions.With(id, func(s *editor.Session) error {
		if req.Camera != "" {
			kind, err := editor.ParseCameraKind(req.Camera)
			if err != nil {
				return err
			}
			s.UseCamera(kind)
		}
		s.Resize(req.Width, req.Height)
		info = s.Info(id)
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(info)
}

// SaveSession пишет текущее состояние сессии в хранилище.
func (h *Handler) SaveSession(c fiber.Ctx) error {
	id := c.Params("id")
	var (
		blueprintID string
		save        models.BlueprintSave
	)
	err := h.sessions.With(id, func(s *editor.Session) error {
		blueprintID = s.BlueprintID()
		save = s.Save()
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.repo.SaveBlueprint(c.Context(), blueprintID, save); err != nil {
		return h.fail(c, err)
	}
	h.log.Info("session saved", "session", id, "blueprint", blueprintID, "corners", len(save.Corners), "items", len(save.Items))
	return c.JSON(save)
}

func (h *Handler) CloseSession(c fiber.Ctx) error {
	if err := h.sessions.Close(c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
