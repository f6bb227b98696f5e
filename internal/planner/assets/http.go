package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"room-planner/internal/planner/models"
)

// ============================================================
// HTTP provider
// ============================================================

// DefaultMaxModelSize предел скачиваемой модели по умолчанию.
const DefaultMaxModelSize = 64 << 20

var ErrModelTooLarge = errors.New("model exceeds size limit")

// HTTPProvider скачивает модели по ObjectURL позиции каталога.
// Относительные адреса разрешаются от baseURL.
type HTTPProvider struct {
	base    *url.URL
	client  *http.Client
	maxSize int64
}

// NewHTTPProvider maxSize <= 0 означает DefaultMaxModelSize.
func NewHTTPProvider(baseURL string, client *http.Client, maxSize int64) (*HTTPProvider, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxModelSize
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse assets url: %w", err)
	}
	return &HTTPProvider{base: base, client: client, maxSize: maxSize}, nil
}

func (p *HTTPProvider) resolve(objectURL string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(objectURL))
	if err != nil {
		return "", fmt.Errorf("parse object url: %w", err)
	}
	return p.base.ResolveReference(ref).String(), nil
}

func (p *HTTPProvider) Load(ctx context.Context, furniture models.Furniture) (*Model, error) {
	if furniture.ObjectURL == "" {
		return nil, fmt.Errorf("furniture %s: %w", furniture.ID, ErrNoModel)
	}
	target, err := p.resolve(furniture.ObjectURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("furniture %s: %w", furniture.ID, ErrNoModel)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch model: upstream status %d", resp.StatusCode)
	}

	if resp.ContentLength > p.maxSize {
		return nil, fmt.Errorf("furniture %s: %w", furniture.ID, ErrModelTooLarge)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, p.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	if int64(len(data)) > p.maxSize {
		return nil, fmt.Errorf("furniture %s: %w", furniture.ID, ErrModelTooLarge)
	}
	return decode(furniture.ID, data)
}
