package logging

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// New логгер процесса. Неизвестный уровень понимается как info.
func New(name, level string, json bool) hclog.Logger {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      lvl,
		Output:     os.Stderr,
		JSONFormat: json,
	})
}
