package handlers

import (
	"io"
	"net/http"

	"room-planner/internal/planner/assets"
	"room-planner/internal/planner/models"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Furniture catalog
// ============================================================

// forgetter кэш моделей, который надо сбросить после загрузки новой модели.
type forgetter interface {
	Forget(furnitureID string)
}

func (h *Handler) ListFurniture(c fiber.Ctx) error {
	list, err := h.repo.ListFurniture(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) CreateFurniture(c fiber.Ctx) error {
	var req models.Furniture
	if err := h.bind(c, &req); err != nil {
		return badRequest(c, err)
	}
	if req.ItemType == 0 {
		req.ItemType = models.FloorItem
	}

	f, err := h.repo.CreateFurniture(c.Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	h.log.Info("furniture created", "furniture", f.ID, "name", f.Name, "type", f.ItemType)
	return c.Status(http.StatusCreated).JSON(f)
}

func (h *Handler) GetFurniture(c fiber.Ctx) error {
	f, err := h.repo.GetFurniture(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(f)
}

// ============================================================
// Models
// ============================================================

// UploadModel принимает OBJ сырым телом или multipart-полем "file".
func (h *Handler) UploadModel(c fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.repo.GetFurniture(c.Context(), id); err != nil {
		return h.fail(c, err)
	}

	data, err := modelBody(c)
	if err != nil {
		return badRequest(c, err)
	}
	size, err := assets.MeasureOBJ(data)
	if err != nil {
		return badRequest(c, err)
	}

	if err := h.files.SaveModel(id, data); err != nil {
		return h.fail(c, err)
	}
	objectURL := "/furniture/" + id + "/model"
	if err := h.repo.SetObjectURL(c.Context(), id, objectURL); err != nil {
		return h.fail(c, err)
	}
	if cache, ok := h.assets.(forgetter); ok {
		cache.Forget(id)
	}

	h.log.Info("model uploaded", "furniture", id, "bytes", len(data))
	return c.JSON(fiber.Map{
		"objectUrl": objectURL,
		"size":      fiber.Map{"x": size.X, "y": size.Y, "z": size.Z},
	})
}

func (h *Handler) GetModel(c fiber.Ctx) error {
	data, err := h.files.ReadModel(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	c.Set("Content-Type", "model/obj")
	return c.Send(data)
}

func modelBody(c fiber.Ctx) ([]byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		if len(c.Body()) == 0 {
			return nil, errEmptyBody
		}
		return c.Body(), nil
	}

	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
