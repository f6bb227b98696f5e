package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

// ============================================================
// Editor settings
// ============================================================

// Settings настройки редактора из YAML. Отсутствующие ключи сохраняют значения по умолчанию.
type Settings struct {
	Blueprint BlueprintSettings `yaml:"blueprint"`
	Planar    PlanarSettings    `yaml:"planar"`
}

type BlueprintSettings struct {
	CornerTolerance float64 `yaml:"cornerTolerance" validate:"gt=0"`
	HoverTolerance  float64 `yaml:"hoverTolerance" validate:"gt=0"`
	WallThickness   float64 `yaml:"wallThickness" validate:"gt=0"`
	WallHeight      float64 `yaml:"wallHeight" validate:"gt=0"`
}

type PlanarSettings struct {
	SnapTolerance float64 `yaml:"snapTolerance" validate:"gte=0"`
	CmPerPixel    float64 `yaml:"cmPerPixel" validate:"gt=0"`
	Width         float64 `yaml:"width" validate:"gt=0"`
	Height        float64 `yaml:"height" validate:"gt=0"`
}

func DefaultSettings() *Settings {
	return &Settings{
		Blueprint: BlueprintSettings{
			CornerTolerance: 20,
			HoverTolerance:  20,
			WallThickness:   10,
			WallHeight:      250,
		},
		Planar: PlanarSettings{
			SnapTolerance: 25,
			CmPerPixel:    30.48 / 15,
			Width:         800,
			Height:        600,
		},
	}
}

// LoadSettings читает файл настроек; пустой путь или отсутствующий файл дают значения по умолчанию.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		return DefaultSettings(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	return ParseSettings(data)
}

func ParseSettings(data []byte) (*Settings, error) {
	s := DefaultSettings()
	dec := yaml.NewDecoder(bytes.NewReader(data), yaml.Validator(validator.New()), yaml.DisallowUnknownField())
	if err := dec.Decode(s); err != nil {
		if errors.Is(err, io.EOF) {
			return s, nil
		}
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}
