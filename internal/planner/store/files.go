package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ============================================================
// File Storage
// ============================================================

// FileStorage файлы моделей мебели: <root>/furniture/<id>/model.obj.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) FurnitureDir(furnitureID string) string {
	return filepath.Join(s.root, "furniture", furnitureID)
}

func (s *FileStorage) ModelPath(furnitureID string) string {
	return filepath.Join(s.FurnitureDir(furnitureID), "model.obj")
}

func (s *FileStorage) EnsureFurnitureDir(furnitureID string) error {
	if err := os.MkdirAll(s.FurnitureDir(furnitureID), 0o755); err != nil {
		return fmt.Errorf("mkdir furniture dir: %w", err)
	}
	return nil
}

func (s *FileStorage) SaveModel(furnitureID string, data []byte) error {
	if err := checkID(furnitureID); err != nil {
		return err
	}
	if err := s.EnsureFurnitureDir(furnitureID); err != nil {
		return err
	}
	if err := os.WriteFile(s.ModelPath(furnitureID), data, 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

func (s *FileStorage) ReadModel(furnitureID string) ([]byte, error) {
	if err := checkID(furnitureID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.ModelPath(furnitureID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("model %s: %w", furnitureID, ErrNotFound)
		}
		return nil, fmt.Errorf("read model: %w", err)
	}
	return data, nil
}

// checkID не даёт id выйти за пределы каталога хранилища.
func checkID(id string) error {
	if id == "" || id == "." || id == ".." || filepath.Base(id) != id {
		return fmt.Errorf("invalid furniture id %q", id)
	}
	return nil
}
