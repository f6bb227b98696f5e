package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"room-planner/internal/planner/models"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/singleflight"
)

var ErrNoModel = errors.New("furniture has no model")

// ============================================================
// Model
// ============================================================

// Model загруженная модель предмета. Size: габариты в координатах модели.
type Model struct {
	FurnitureID string
	Size        v3.Vec
	Data        []byte
}

// Scale коэффициенты, приводящие модель к размерам из каталога.
// Нулевые габариты модели дают множитель 1 по этой оси.
func (m *Model) Scale(f models.Furniture) v3.Vec {
	ratio := func(want, have float64) float64 {
		if have <= 0 || want <= 0 {
			return 1
		}
		return want / have
	}
	return v3.Vec{
		X: ratio(f.SizeX, m.Size.X),
		Y: ratio(f.SizeY, m.Size.Y),
		Z: ratio(f.SizeZ, m.Size.Z),
	}
}

// Provider источник моделей мебели.
type Provider interface {
	Load(ctx context.Context, furniture models.Furniture) (*Model, error)
}

// ProviderFunc адаптер обычной функции к Provider.
type ProviderFunc func(ctx context.Context, furniture models.Furniture) (*Model, error)

func (f ProviderFunc) Load(ctx context.Context, furniture models.Furniture) (*Model, error) {
	return f(ctx, furniture)
}

// ============================================================
// File provider
// ============================================================

// FileProvider читает модели с диска; путь строит PathFunc по id позиции каталога.
type FileProvider struct {
	path func(furnitureID string) string
}

func NewFileProvider(path func(furnitureID string) string) *FileProvider {
	return &FileProvider{path: path}
}

func (p *FileProvider) Load(ctx context.Context, furniture models.Furniture) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.path(furniture.ID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("furniture %s: %w", furniture.ID, ErrNoModel)
		}
		return nil, fmt.Errorf("read model: %w", err)
	}
	return decode(furniture.ID, data)
}

func decode(furnitureID string, data []byte) (*Model, error) {
	size, err := MeasureOBJ(data)
	if err != nil {
		return nil, fmt.Errorf("furniture %s: %w", furnitureID, err)
	}
	return &Model{FurnitureID: furnitureID, Size: size, Data: data}, nil
}

// ============================================================
// Cache
// ============================================================

// CachedProvider запоминает успешно загруженные модели. Параллельные запросы
// одной позиции разделяют одну загрузку.
type CachedProvider struct {
	next  Provider
	log   hclog.Logger
	group singleflight.Group

	mu     sync.RWMutex
	models map[string]*Model
}

func NewCachedProvider(next Provider, logger hclog.Logger) *CachedProvider {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &CachedProvider{
		next:   next,
		log:    logger.Named("assets"),
		models: make(map[string]*Model),
	}
}

func (p *CachedProvider) Load(ctx context.Context, furniture models.Furniture) (*Model, error) {
	p.mu.RLock()
	m, ok := p.models[furniture.ID]
	p.mu.RUnlock()
	if ok {
		return m, nil
	}

	v, err, shared := p.group.Do(furniture.ID, func() (any, error) {
		m, err := p.next.Load(ctx, furniture)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.models[furniture.ID] = m
		p.mu.Unlock()
		return m, nil
	})
	if err != nil {
		p.log.Warn("model load failed", "furniture", furniture.ID, "error", err)
		return nil, err
	}
	p.log.Debug("model loaded", "furniture", furniture.ID, "shared", shared)
	return v.(*Model), nil
}

// Forget выбрасывает модель из кэша, например после загрузки нового файла.
func (p *CachedProvider) Forget(furnitureID string) {
	p.mu.Lock()
	delete(p.models, furnitureID)
	p.mu.Unlock()
}

func (p *CachedProvider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.models)
}
