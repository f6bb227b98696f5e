package blueprint

import (
	"errors"
	"fmt"

	"room-planner/internal/planner/models"
)

// ============================================================
// Persistence
// ============================================================

var (
	ErrUnknownCorner   = errors.New("unknown corner")
	ErrDuplicateCorner = errors.New("duplicate corner id")
)

// Export вершины и стены в формате сохранения.
func (bp *Blueprint) Export() ([]models.CornerSave, []models.WallSave) {
	corners := make([]models.CornerSave, len(bp.corners))
	for i, c := range bp.corners {
		corners[i] = models.CornerSave{ID: c.id, X: c.pos.X, Y: c.pos.Y}
	}

	walls := make([]models.WallSave, len(bp.walls))
	for i, w := range bp.walls {
		walls[i] = models.WallSave{StartCornerID: w.start.id, EndCornerID: w.end.id}
	}
	return corners, walls
}

// Import заменяет граф загруженным. При ошибке текущий граф не меняется.
// Вершины восстанавливаются точно, без слияния; Update выполняется один раз в конце.
func (bp *Blueprint) Import(corners []models.CornerSave, walls []models.WallLoad) error {
	ids := make(map[string]bool, len(corners))
	for _, c := range corners {
		if c.ID == "" {
			return fmt.Errorf("corner without id: %w", ErrUnknownCorner)
		}
		if ids[c.ID] {
			return fmt.Errorf("corner %s: %w", c.ID, ErrDuplicateCorner)
		}
		ids[c.ID] = true
	}
	for _, w := range walls {
		if !ids[w.StartCornerID] {
			return fmt.Errorf("wall %s start %q: %w", w.ID, w.StartCornerID, ErrUnknownCorner)
		}
		if !ids[w.EndCornerID] {
			return fmt.Errorf("wall %s end %q: %w", w.ID, w.EndCornerID, ErrUnknownCorner)
		}
	}

	bp.Reset()

	byID := make(map[string]*Corner, len(corners))
	for _, c := range corners {
		byID[c.ID] = bp.NewCorner(c.X, c.Y, c.ID)
	}
	for _, w := range walls {
		if w.StartCornerID == w.EndCornerID {
			bp.log.Warn("skip self-loop wall", "wall", w.ID, "corner", w.StartCornerID)
			continue
		}
		bp.addWall(byID[w.StartCornerID], byID[w.EndCornerID], w.ID)
	}

	// вершины без стен не нужны
	for _, c := range bp.Corners() {
		if len(c.wallStarts) == 0 && len(c.wallEnds) == 0 {
			c.remove()
		}
	}

	bp.Update()
	return nil
}
