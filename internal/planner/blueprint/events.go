package blueprint

// ============================================================
// Event Bus
// ============================================================

type EventKind int

const (
	EventCornerRemoved EventKind = iota
	EventCornerMoved
	EventWallRemoved
	EventWallMoved
	EventRoomsUpdated
)

func (k EventKind) String() string {
	switch k {
	case EventCornerRemoved:
		return "corner_removed"
	case EventCornerMoved:
		return "corner_moved"
	case EventWallRemoved:
		return "wall_removed"
	case EventWallMoved:
		return "wall_moved"
	case EventRoomsUpdated:
		return "rooms_updated"
	default:
		return "unknown"
	}
}

// Event уведомление об изменении графа. Corner/Wall заполнены только для
// событий, относящихся к конкретному элементу.
type Event struct {
	Kind   EventKind
	Corner *Corner
	Wall   *Wall
}

type Handler func(Event)

type subscription struct {
	id      int
	kind    EventKind
	handler Handler
}

// Bus синхронная рассылка событий в порядке подписки.
type Bus struct {
	subs   []subscription
	nextID int
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe регистрирует обработчик и возвращает функцию отписки.
func (b *Bus) Subscribe(kind EventKind, h Handler) func() {
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, kind: kind, handler: h})

	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

func (b *Bus) Publish(ev Event) {
	// копия: обработчик может отписаться во время рассылки
	subs := append([]subscription(nil), b.subs...)
	for _, s := range subs {
		if s.kind == ev.Kind {
			s.handler(ev)
		}
	}
}
