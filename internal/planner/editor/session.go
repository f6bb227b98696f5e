package editor

import (
	"context"
	"fmt"
	"math"

	"room-planner/internal/common/config"
	"room-planner/internal/planner/assets"
	"room-planner/internal/planner/blueprint"
	"room-planner/internal/planner/models"
	"room-planner/internal/planner/planar"
	"room-planner/internal/planner/scene"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/hashicorp/go-hclog"
)

// ============================================================
// Options
// ============================================================

type Options struct {
	Blueprint blueprint.Options
	Planar    planar.Options
}

func DefaultOptions() Options {
	return Options{
		Blueprint: blueprint.DefaultOptions(),
		Planar:    planar.DefaultOptions(),
	}
}

// OptionsFromSettings переносит настройки из YAML в параметры сессии.
func OptionsFromSettings(s *config.Settings) Options {
	if s == nil {
		return DefaultOptions()
	}
	return Options{
		Blueprint: blueprint.Options{
			CornerTolerance: s.Blueprint.CornerTolerance,
			HoverTolerance:  s.Blueprint.HoverTolerance,
			WallThickness:   s.Blueprint.WallThickness,
			WallHeight:      s.Blueprint.WallHeight,
		},
		Planar: planar.Options{
			SnapTolerance: s.Planar.SnapTolerance,
			CmPerPixel:    s.Planar.CmPerPixel,
			Width:         s.Planar.Width,
			Height:        s.Planar.Height,
		},
	}
}

// ============================================================
// Camera
// ============================================================

// CameraKind проекция 3D-сцены сессии.
type CameraKind string

const (
	CameraOrthographic CameraKind = "orthographic"
	CameraPerspective  CameraKind = "perspective"
)

// perspectiveFovY угол обзора перспективной камеры, градусы.
const perspectiveFovY = 45

func ParseCameraKind(s string) (CameraKind, error) {
	switch k := CameraKind(s); k {
	case CameraOrthographic, CameraPerspective:
		return k, nil
	}
	return "", fmt.Errorf("camera %q: %w", s, ErrBadCamera)
}

// ============================================================
// Session
// ============================================================

// Session один открытый план: граф, сцена, оба контроллера и построитель мешей.
// Не потокобезопасна; Registry сериализует доступ.
type Session struct {
	blueprintID string
	name        string

	bp        *blueprint.Blueprint
	scene     *scene.Scene
	plan      *planar.Controller
	sceneCtrl *scene.Controller
	builder   *scene.Builder
	camera    CameraKind

	assets  assets.Provider
	catalog map[string]models.Furniture
	log     hclog.Logger
}

func NewSession(provider assets.Provider, opts Options, logger hclog.Logger) *Session {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	log := logger.Named("editor")

	bp := blueprint.New(opts.Blueprint, log)
	sc := scene.New(log)
	plan := planar.NewController(bp, opts.Planar, log)

	s := &Session{
		bp:      bp,
		scene:   sc,
		plan:    plan,
		builder: scene.NewBuilder(bp, log),
		camera:  CameraOrthographic,
		assets:  provider,
		catalog: make(map[string]models.Furniture),
		log:     log,
	}
	s.sceneCtrl = scene.NewController(sc, s.newCamera(), log)
	return s
}

// Close отписывает контроллер и построитель от событий плана.
func (s *Session) Close() {
	s.plan.Close()
	s.builder.Close()
}

func (s *Session) BlueprintID() string                { return s.blueprintID }
func (s *Session) Name() string                       { return s.name }
func (s *Session) Blueprint() *blueprint.Blueprint    { return s.bp }
func (s *Session) Scene() *scene.Scene                { return s.scene }
func (s *Session) Planar() *planar.Controller         { return s.plan }
func (s *Session) SceneController() *scene.Controller { return s.sceneCtrl }
func (s *Session) Builder() *scene.Builder            { return s.builder }
func (s *Session) CameraKind() CameraKind             { return s.camera }
func (s *Session) Furniture(id string) (models.Furniture, bool) {
	f, ok := s.catalog[id]
	return f, ok
}

// ============================================================
// Load / Save
// ============================================================

// Load заменяет содержимое сессии планом из хранилища. Ошибка графа
// оставляет сессию как была; предметы, модели которых не загрузились,
// пропускаются с предупреждением.
func (s *Session) Load(ctx context.Context, cb models.CompleteBlueprint) error {
	if err := s.bp.Import(cb.Corners, cb.Walls); err != nil {
		return fmt.Errorf("load blueprint %s: %w", cb.ID, err)
	}
	s.blueprintID = cb.ID
	s.name = cb.Name

	s.sceneCtrl.Select(nil)
	s.scene.Clear()
	s.catalog = make(map[string]models.Furniture, len(cb.Furniture))
	for _, f := range cb.Furniture {
		s.catalog[f.ID] = f
	}

	for _, item := range cb.Items {
		f, ok := s.catalog[item.FurnitureID]
		if !ok {
			s.log.Warn("item references unknown furniture", "item", item.ID, "furniture", item.FurnitureID)
			continue
		}
		pos := v3.Vec{X: item.PosX, Y: item.PosY, Z: item.PosZ}
		if _, err := s.PlaceFurniture(ctx, f, pos, item.Rot); err != nil {
			s.log.Warn("item skipped", "item", item.ID, "error", err)
		}
	}

	s.plan.ResetOrigin()
	s.fitCamera()
	s.log.Info("blueprint loaded", "blueprint", cb.ID, "corners", len(cb.Corners), "items", len(s.scene.Items()))
	return nil
}

// Save снимок плана для хранилища. Заглушки и неудачные загрузки не сохраняются.
func (s *Session) Save() models.BlueprintSave {
	corners, walls := s.bp.Export()
	out := models.BlueprintSave{
		ID:      s.blueprintID,
		Name:    s.name,
		Corners: corners,
		Walls:   walls,
		Items:   []models.ItemSave{},
	}
	for _, it := range s.scene.Items() {
		if it.Placeholder() || it.Errored() {
			continue
		}
		p := it.Position()
		out.Items = append(out.Items, models.ItemSave{
			FurnitureID: it.Furniture().ID,
			PosX:        p.X,
			PosY:        p.Y,
			PosZ:        p.Z,
			Rot:         it.Rotation(),
		})
	}
	return out
}

// ============================================================
// Furniture placement
// ============================================================

// PlaceFurniture ставит заглушку, грузит модель и заменяет заглушку предметом,
// отмасштабированным до размеров каталога. При ошибке заглушка помечается
// и убирается со сцены.
func (s *Session) PlaceFurniture(ctx context.Context, f models.Furniture, pos v3.Vec, rotation float64) (*scene.Item, error) {
	placeholder := scene.NewPlaceholder(f, pos, rotation)
	s.scene.AddItem(placeholder)

	model, err := s.assets.Load(ctx, f)
	if err != nil {
		placeholder.SetError()
		s.scene.RemoveItem(placeholder)
		return nil, fmt.Errorf("place %s: %w", f.ID, err)
	}

	item := scene.NewItem(f, model.Size, pos, rotation, model.Scale(f))
	s.scene.RemoveItem(placeholder)
	s.scene.AddItem(item)
	s.catalog[f.ID] = f
	return item, nil
}

// AddFurniture размещает предмет, выбранный пользователем, и выделяет его.
func (s *Session) AddFurniture(ctx context.Context, f models.Furniture, pos v3.Vec, rotation float64) (*scene.Item, error) {
	item, err := s.PlaceFurniture(ctx, f, pos, rotation)
	if err != nil {
		return nil, err
	}
	s.sceneCtrl.Select(item)
	s.log.Debug("furniture added", "furniture", f.ID, "x", pos.X, "z", pos.Z)
	return item, nil
}

// ============================================================
// Viewport & camera
// ============================================================

// newCamera камера над центром плана под размер холста 2D-редактора.
func (s *Session) newCamera() scene.Camera {
	vp := s.plan.Viewport()
	c := s.bp.Center()
	center := v3.Vec{X: c.X, Z: c.Y}

	if s.camera == CameraPerspective {
		size := s.bp.Size()
		dist := math.Max(size.X, size.Y)*1.5 + 500
		pos := v3.Vec{X: center.X, Y: dist, Z: center.Z + dist}
		return scene.NewPerspectiveCamera(pos, center, perspectiveFovY, vp.Width, vp.Height)
	}
	return scene.NewOrthographicCamera(center, vp.CmPerPixel(), vp.Width, vp.Height)
}

// fitCamera ставит камеру выбранного типа на текущий план и
// пересчитывает видимость сторон стен.
func (s *Session) fitCamera() {
	camera := s.newCamera()
	s.sceneCtrl.SetCamera(camera)
	s.builder.UpdateVisibility(camera.Position())
}

// UseCamera переключает проекцию сцены и ставит камеру на план.
func (s *Session) UseCamera(kind CameraKind) {
	s.camera = kind
	s.fitCamera()
}

// Resize пересчитывает проекции обоих холстов под новый размер.
func (s *Session) Resize(width, height float64) {
	s.plan.Resize(width, height)
	s.sceneCtrl.Camera().Resize(width, height)
}

// ============================================================
// Pointer input
// ============================================================

// SetMode переключает режим 2D-редактора. Режим удаления сцены следует за ним.
func (s *Session) SetMode(mode planar.Mode) {
	s.plan.SetMode(mode)
	s.sceneCtrl.SetDeleteMode(mode == planar.ModeDelete)
}

// Apply передаёт событие указателя нужному контроллеру.
func (s *Session) Apply(ev models.PointerEvent) error {
	if ev.Surface == "scene" {
		switch ev.Kind {
		case "down":
			s.sceneCtrl.PointerMove(ev.X, ev.Y)
			s.sceneCtrl.PointerDown()
		case "move":
			s.sceneCtrl.PointerMove(ev.X, ev.Y)
		case "up":
			s.sceneCtrl.PointerUp()
		default:
			return fmt.Errorf("pointer kind %q: %w", ev.Kind, ErrBadEvent)
		}
		return nil
	}

	switch ev.Kind {
	case "down":
		s.plan.PointerMove(ev.X, ev.Y)
		s.plan.PointerDown()
	case "move":
		s.plan.PointerMove(ev.X, ev.Y)
	case "up":
		s.plan.PointerUp()
	default:
		return fmt.Errorf("pointer kind %q: %w", ev.Kind, ErrBadEvent)
	}
	return nil
}

// ============================================================
// Views
// ============================================================

func (s *Session) Rooms() []models.RoomInfo {
	return RoomInfos(s.bp)
}

// RoomInfos комнаты плана в формате API.
func RoomInfos(bp *blueprint.Blueprint) []models.RoomInfo {
	rooms := bp.Rooms()
	out := make([]models.RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		info := models.RoomInfo{
			UUID:         r.UUID(),
			CornerIDs:    r.CornerIDs(),
			Area:         r.Area(),
			InteriorArea: r.InteriorArea(),
		}
		for _, p := range r.InteriorCorners() {
			info.InteriorCorners = append(info.InteriorCorners, models.Point{X: p.X, Y: p.Y})
		}
		if tex, ok := r.Texture(); ok {
			info.Texture = tex
		}
		out = append(out, info)
	}
	return out
}

func (s *Session) Info(id string) models.SessionInfo {
	return models.SessionInfo{
		ID:          id,
		BlueprintID: s.blueprintID,
		Mode:        s.plan.Mode().String(),
		SceneState:  s.sceneCtrl.State().String(),
		Camera:      string(s.camera),
		Rooms:       s.Rooms(),
		Items:       len(s.scene.Items()),
	}
}
