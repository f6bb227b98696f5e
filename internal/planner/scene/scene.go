package scene

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/hashicorp/go-hclog"
)

// Hit результат трассировки луча по предметам.
type Hit struct {
	Item     *Item
	Part     Part
	Point    v3.Vec
	Distance float64
}

// Scene набор размещённых предметов и плоскость пола.
type Scene struct {
	items  []*Item
	ground GroundPlane
	log    hclog.Logger
}

func New(logger hclog.Logger) *Scene {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Scene{
		ground: GroundPlane{Size: DefaultGroundSize},
		log:    logger.Named("scene"),
	}
}

func (s *Scene) Ground() GroundPlane { return s.ground }

func (s *Scene) Items() []*Item { return append([]*Item(nil), s.items...) }

func (s *Scene) Item(id string) *Item {
	for _, it := range s.items {
		if it.id == id {
			return it
		}
	}
	return nil
}

func (s *Scene) AddItem(it *Item) {
	s.items = append(s.items, it)
	s.log.Debug("item added", "item", it.id, "furniture", it.furniture.ID)
}

// RemoveItem убирает предмет; false, если его не было в сцене.
func (s *Scene) RemoveItem(it *Item) bool {
	for i, other := range s.items {
		if other == it {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			s.log.Debug("item removed", "item", it.id)
			return true
		}
	}
	return false
}

func (s *Scene) Clear() {
	s.items = nil
}

// Pick ближайший предмет на слое мебели. Кольцо выбранного предмета
// тоже попадает в этот слой.
func (s *Scene) Pick(r Ray) (Hit, bool) {
	best := Hit{Distance: math.Inf(1)}
	for _, it := range s.items {
		t, part, ok := it.intersect(r, LayerFurniture)
		if ok && t < best.Distance {
			best = Hit{Item: it, Part: part, Point: r.At(t), Distance: t}
		}
	}
	return best, best.Item != nil
}

// GroundHit точка пересечения луча с полом.
func (s *Scene) GroundHit(r Ray) (v3.Vec, bool) {
	return s.ground.Intersect(r)
}
