package handlers

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"room-planner/internal/planner/blueprint"
	"room-planner/internal/planner/editor"
	"room-planner/internal/planner/importer"
	"room-planner/internal/planner/models"
	"room-planner/internal/planner/planar"

	"github.com/gofiber/fiber/v3"
	"github.com/jbeda/geom"
)

// ============================================================
// Blueprint CRUD
// ============================================================

func (h *Handler) ListBlueprints(c fiber.Ctx) error {
	list, err := h.repo.ListBlueprints(c.Context(), userID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) CreateBlueprint(c fiber.Ctx) error {
	var req models.BlueprintSave
	if err := h.bind(c, &req); err != nil {
		return badRequest(c, err)
	}
	if _, err := h.build(req.Corners, loads(req.Walls)); err != nil {
		return h.fail(c, err)
	}

	summary, err := h.repo.CreateBlueprint(c.Context(), userID(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	h.log.Info("blueprint created", "blueprint", summary.ID, "corners", len(req.Corners), "walls", len(req.Walls))
	return c.Status(http.StatusCreated).JSON(summary)
}

func (h *Handler) GetBlueprint(c fiber.Ctx) error {
	cb, err := h.repo.GetBlueprint(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(cb)
}

func (h *Handler) UploadBlueprint(c fiber.Ctx) error {
	var req models.BlueprintSave
	if err := h.bind(c, &req); err != nil {
		return badRequest(c, err)
	}
	if _, err := h.build(req.Corners, loads(req.Walls)); err != nil {
		return h.fail(c, err)
	}

	id := c.Params("id")
	if err := h.repo.SaveBlueprint(c.Context(), id, req); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *Handler) DeleteBlueprint(c fiber.Ctx) error {
	if err := h.repo.DeleteBlueprint(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// Analysis
// ============================================================

// GetRooms строит граф сохранённого плана и возвращает найденные комнаты.
func (h *Handler) GetRooms(c fiber.Ctx) error {
	cb, err := h.repo.GetBlueprint(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	bp, err := h.build(cb.Corners, cb.Walls)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(editor.RoomInfos(bp))
}

func (h *Handler) GetSVG(c fiber.Ctx) error {
	cb, err := h.repo.GetBlueprint(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	bp, err := h.build(cb.Corners, cb.Walls)
	if err != nil {
		return h.fail(c, err)
	}

	margin, err := floatQuery(c, "margin", 50)
	if err != nil {
		return badRequest(c, err)
	}
	svg, err := planar.ExportSVG(bp, margin, planar.DefaultStyle())
	if err != nil {
		return h.fail(c, err)
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// ============================================================
// SVG import
// ============================================================

type importResponse struct {
	importer.Result
	Rooms []models.RoomInfo `json:"rooms"`
}

// ImportSVG добавляет стены из размеченного SVG к сохранённому плану.
// Query: scale, offsetX, offsetY.
func (h *Handler) ImportSVG(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return badRequest(c, errEmptyBody)
	}

	opts := importer.DefaultOptions()
	var err error
	if opts.Scale, err = floatQuery(c, "scale", 1); err != nil {
		return badRequest(c, err)
	}
	var offset geom.Coord
	if offset.X, err = floatQuery(c, "offsetX", 0); err != nil {
		return badRequest(c, err)
	}
	if offset.Y, err = floatQuery(c, "offsetY", 0); err != nil {
		return badRequest(c, err)
	}
	opts.Offset = offset

	id := c.Params("id")
	cb, err := h.repo.GetBlueprint(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	bp, err := h.build(cb.Corners, cb.Walls)
	if err != nil {
		return h.fail(c, err)
	}

	res, err := importer.New(bp, opts, h.log).Import(bytes.NewReader(c.Body()))
	if err != nil {
		return badRequest(c, err)
	}

	corners, walls := bp.Export()
	save := models.BlueprintSave{
		ID:      cb.ID,
		Name:    cb.Name,
		Corners: corners,
		Walls:   walls,
		Items:   make([]models.ItemSave, 0, len(cb.Items)),
	}
	for _, it := range cb.Items {
		save.Items = append(save.Items, it.ItemSave)
	}
	if err := h.repo.SaveBlueprint(c.Context(), id, save); err != nil {
		return h.fail(c, err)
	}

	h.log.Info("svg imported", "blueprint", id, "walls", res.Walls, "ignored", res.Ignored, "skipped", len(res.Skipped))
	return c.JSON(importResponse{Result: res, Rooms: editor.RoomInfos(bp)})
}

// ============================================================
// Helpers
// ============================================================

// build собирает граф во временном плане; так проверяются ссылки стен на углы.
func (h *Handler) build(corners []models.CornerSave, walls []models.WallLoad) (*blueprint.Blueprint, error) {
	bp := blueprint.New(h.options.Blueprint, h.log)
	if err := bp.Import(corners, walls); err != nil {
		return nil, err
	}
	return bp, nil
}

func loads(walls []models.WallSave) []models.WallLoad {
	out := make([]models.WallLoad, len(walls))
	for i, w := range walls {
		out[i] = models.WallLoad{StartCornerID: w.StartCornerID, EndCornerID: w.EndCornerID}
	}
	return out
}

func floatQuery(c fiber.Ctx, key string, def float64) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", key, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("query %s: %q is not a finite number", key, raw)
	}
	return v, nil
}
