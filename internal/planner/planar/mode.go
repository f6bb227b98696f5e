package planar

import "fmt"

// Mode режим 2D-редактора, выбирается интерфейсом явно.
type Mode int

const (
	ModeMove Mode = iota
	ModeDraw
	ModeDelete
)

func (m Mode) String() string {
	switch m {
	case ModeMove:
		return "move"
	case ModeDraw:
		return "draw"
	case ModeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ParseMode разбирает имя режима из запроса.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "move":
		return ModeMove, nil
	case "draw":
		return ModeDraw, nil
	case "delete":
		return ModeDelete, nil
	default:
		return ModeMove, fmt.Errorf("unknown mode %q", s)
	}
}
