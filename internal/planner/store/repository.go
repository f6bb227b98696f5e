package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"room-planner/internal/planner/models"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

var ErrNotFound = errors.New("not found")

//go:embed migrations/*.sql
var migrations embed.FS

// ============================================================
// Repository
// ============================================================

type Repository struct {
	db      *sql.DB
	dialect Dialect
	log     hclog.Logger
	now     func() time.Time
}

func New(db *sql.DB, dialect Dialect, logger hclog.Logger) *Repository {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Repository{
		db:      db,
		dialect: dialect,
		log:     logger.Named("store"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Init применяет встроенные миграции.
func (r *Repository) Init(ctx context.Context) error {
	if err := r.runMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) timestamp() string {
	return r.now().Format(time.RFC3339)
}

// querier общий интерфейс *sql.DB и *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *Repository) exec(ctx context.Context, q querier, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, r.dialect.rebind(query), args...)
}

func (r *Repository) query(ctx context.Context, q querier, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, r.dialect.rebind(query), args...)
}

func (r *Repository) queryRow(ctx context.Context, q querier, query string, args ...any) *sql.Row {
	return q.QueryRowContext(ctx, r.dialect.rebind(query), args...)
}

// withTx выполняет fn в транзакции; ошибка fn откатывает все изменения.
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.log.Warn("rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ============================================================
// Blueprints
// ============================================================

// ListBlueprints сводки планов пользователя; при пустом userID все планы.
func (r *Repository) ListBlueprints(ctx context.Context, userID string) ([]models.BlueprintSummary, error) {
	query := `
        SELECT id, user_id, name, created_at, modified_at
        FROM blueprints`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.query(ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list blueprints: %w", err)
	}
	defer rows.Close()

	out := []models.BlueprintSummary{}
	for rows.Next() {
		var s models.BlueprintSummary
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.CreatedAt, &s.ModifiedAt); err != nil {
			return nil, fmt.Errorf("scan blueprint: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateBlueprint сохраняет новый план. Пустой id заменяется новым uuid.
func (r *Repository) CreateBlueprint(ctx context.Context, userID string, save models.BlueprintSave) (models.BlueprintSummary, error) {
	if save.ID == "" {
		save.ID = uuid.NewString()
	}
	now := r.timestamp()
	summary := models.BlueprintSummary{ID: save.ID, UserID: userID, Name: save.Name, CreatedAt: now, ModifiedAt: now}

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := r.exec(ctx, tx, `
            INSERT INTO blueprints (id, user_id, name, created_at, modified_at)
            VALUES (?, ?, ?, ?, ?)
        `, summary.ID, summary.UserID, summary.Name, summary.CreatedAt, summary.ModifiedAt); err != nil {
			return fmt.Errorf("insert blueprint: %w", err)
		}
		return r.writeContent(ctx, tx, save)
	})
	if err != nil {
		return models.BlueprintSummary{}, err
	}
	r.log.Debug("blueprint created", "blueprint", summary.ID)
	return summary, nil
}

// SaveBlueprint заменяет содержимое существующего плана.
func (r *Repository) SaveBlueprint(ctx context.Context, id string, save models.BlueprintSave) error {
	save.ID = id
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := r.queryRow(ctx, tx, `SELECT COUNT(*) FROM blueprints WHERE id = ?`, id).Scan(&n); err != nil {
			return fmt.Errorf("check blueprint: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("blueprint %s: %w", id, ErrNotFound)
		}

		if _, err := r.exec(ctx, tx, `
            UPDATE blueprints SET name = ?, modified_at = ? WHERE id = ?
        `, save.Name, r.timestamp(), id); err != nil {
			return fmt.Errorf("update blueprint: %w", err)
		}

		if err := r.deleteContent(ctx, tx, id); err != nil {
			return err
		}
		return r.writeContent(ctx, tx, save)
	})
}

func (r *Repository) DeleteBlueprint(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := r.deleteContent(ctx, tx, id); err != nil {
			return err
		}
		res, err := r.exec(ctx, tx, `DELETE FROM blueprints WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete blueprint: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("blueprint %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (r *Repository) deleteContent(ctx context.Context, tx *sql.Tx, id string) error {
	for _, table := range []string{"corners", "walls", "items"} {
		if _, err := r.exec(ctx, tx, `DELETE FROM `+table+` WHERE blueprint_id = ?`, id); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func (r *Repository) writeContent(ctx context.Context, tx *sql.Tx, save models.BlueprintSave) error {
	for i, c := range save.Corners {
		if _, err := r.exec(ctx, tx, `
            INSERT INTO corners (blueprint_id, id, x, y, ord) VALUES (?, ?, ?, ?, ?)
        `, save.ID, c.ID, c.X, c.Y, i); err != nil {
			return fmt.Errorf("insert corner %s: %w", c.ID, err)
		}
	}
	for i, w := range save.Walls {
		if _, err := r.exec(ctx, tx, `
            INSERT INTO walls (blueprint_id, id, start_corner_id, end_corner_id, ord) VALUES (?, ?, ?, ?, ?)
        `, save.ID, uuid.NewString(), w.StartCornerID, w.EndCornerID, i); err != nil {
			return fmt.Errorf("insert wall: %w", err)
		}
	}
	for i, it := range save.Items {
		if _, err := r.exec(ctx, tx, `
            INSERT INTO items (blueprint_id, id, furniture_id, pos_x, pos_y, pos_z, rot, ord)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        `, save.ID, uuid.NewString(), it.FurnitureID, it.PosX, it.PosY, it.PosZ, it.Rot, i); err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
	}
	return nil
}

// GetBlueprint план целиком вместе с позициями каталога, на которые ссылаются предметы.
func (r *Repository) GetBlueprint(ctx context.Context, id string) (*models.CompleteBlueprint, error) {
	cb := &models.CompleteBlueprint{
		Corners:   []models.CornerSave{},
		Walls:     []models.WallLoad{},
		Items:     []models.ItemLoad{},
		Furniture: []models.Furniture{},
	}

	row := r.queryRow(ctx, r.db, `
        SELECT id, user_id, name, created_at, modified_at FROM blueprints WHERE id = ?
    `, id)
	s := &cb.BlueprintSummary
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.CreatedAt, &s.ModifiedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("blueprint %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get blueprint: %w", err)
	}

	if err := r.loadCorners(ctx, cb); err != nil {
		return nil, err
	}
	if err := r.loadWalls(ctx, cb); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, cb); err != nil {
		return nil, err
	}
	if err := r.loadItemFurniture(ctx, cb); err != nil {
		return nil, err
	}
	return cb, nil
}

func (r *Repository) loadCorners(ctx context.Context, cb *models.CompleteBlueprint) error {
	rows, err := r.query(ctx, r.db, `
        SELECT id, x, y FROM corners WHERE blueprint_id = ? ORDER BY ord
    `, cb.ID)
	if err != nil {
		return fmt.Errorf("load corners: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.CornerSave
		if err := rows.Scan(&c.ID, &c.X, &c.Y); err != nil {
			return fmt.Errorf("scan corner: %w", err)
		}
		cb.Corners = append(cb.Corners, c)
	}
	return rows.Err()
}

func (r *Repository) loadWalls(ctx context.Context, cb *models.CompleteBlueprint) error {
	rows, err := r.query(ctx, r.db, `
        SELECT id, start_corner_id, end_corner_id FROM walls WHERE blueprint_id = ? ORDER BY ord
    `, cb.ID)
	if err != nil {
		return fmt.Errorf("load walls: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var w models.WallLoad
		if err := rows.Scan(&w.ID, &w.StartCornerID, &w.EndCornerID); err != nil {
			return fmt.Errorf("scan wall: %w", err)
		}
		cb.Walls = append(cb.Walls, w)
	}
	return rows.Err()
}

func (r *Repository) loadItems(ctx context.Context, cb *models.CompleteBlueprint) error {
	rows, err := r.query(ctx, r.db, `
        SELECT id, furniture_id, pos_x, pos_y, pos_z, rot FROM items WHERE blueprint_id = ? ORDER BY ord
    `, cb.ID)
	if err != nil {
		return fmt.Errorf("load items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it models.ItemLoad
		if err := rows.Scan(&it.ID, &it.FurnitureID, &it.PosX, &it.PosY, &it.PosZ, &it.Rot); err != nil {
			return fmt.Errorf("scan item: %w", err)
		}
		cb.Items = append(cb.Items, it)
	}
	return rows.Err()
}

func (r *Repository) loadItemFurniture(ctx context.Context, cb *models.CompleteBlueprint) error {
	rows, err := r.query(ctx, r.db, `
        SELECT `+furnitureColumns+` FROM furniture
        WHERE id IN (SELECT furniture_id FROM items WHERE blueprint_id = ?)
        ORDER BY id
    `, cb.ID)
	if err != nil {
		return fmt.Errorf("load furniture: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		f, err := scanFurniture(rows)
		if err != nil {
			return err
		}
		cb.Furniture = append(cb.Furniture, f)
	}
	return rows.Err()
}

// ============================================================
// Furniture catalog
// ============================================================

const furnitureColumns = `id, name, size_x, size_y, size_z, category_id, item_type, object_url, thumbnail_url, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanFurniture(s scanner) (models.Furniture, error) {
	var f models.Furniture
	var itemType int
	if err := s.Scan(&f.ID, &f.Name, &f.SizeX, &f.SizeY, &f.SizeZ, &f.CategoryID, &itemType, &f.ObjectURL, &f.ThumbnailURL, &f.CreatedAt); err != nil {
		return models.Furniture{}, err
	}
	f.ItemType = models.ItemType(itemType)
	return f, nil
}

func (r *Repository) CreateFurniture(ctx context.Context, f models.Furniture) (models.Furniture, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.CreatedAt = r.timestamp()

	_, err := r.exec(ctx, r.db, `
        INSERT INTO furniture (`+furnitureColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, f.ID, f.Name, f.SizeX, f.SizeY, f.SizeZ, f.CategoryID, int(f.ItemType), f.ObjectURL, f.ThumbnailURL, f.CreatedAt)
	if err != nil {
		return models.Furniture{}, fmt.Errorf("insert furniture: %w", err)
	}
	return f, nil
}

func (r *Repository) GetFurniture(ctx context.Context, id string) (models.Furniture, error) {
	row := r.queryRow(ctx, r.db, `SELECT `+furnitureColumns+` FROM furniture WHERE id = ?`, id)
	f, err := scanFurniture(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Furniture{}, fmt.Errorf("furniture %s: %w", id, ErrNotFound)
		}
		return models.Furniture{}, fmt.Errorf("get furniture: %w", err)
	}
	return f, nil
}

func (r *Repository) ListFurniture(ctx context.Context) ([]models.Furniture, error) {
	rows, err := r.query(ctx, r.db, `SELECT `+furnitureColumns+` FROM furniture ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list furniture: %w", err)
	}
	defer rows.Close()

	out := []models.Furniture{}
	for rows.Next() {
		f, err := scanFurniture(rows)
		if err != nil {
			return nil, fmt.Errorf("scan furniture: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// SetObjectURL обновляет адрес модели после загрузки файла.
func (r *Repository) SetObjectURL(ctx context.Context, id, objectURL string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := r.queryRow(ctx, tx, `SELECT COUNT(*) FROM furniture WHERE id = ?`, id).Scan(&n); err != nil {
			return fmt.Errorf("check furniture: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("furniture %s: %w", id, ErrNotFound)
		}
		if _, err := r.exec(ctx, tx, `UPDATE furniture SET object_url = ? WHERE id = ?`, objectURL, id); err != nil {
			return fmt.Errorf("update furniture: %w", err)
		}
		return nil
	})
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context) error {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	for _, e := range entries {
		data, err := migrations.ReadFile("migrations/" + e.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", e.Name(), err)
		}
		// по одному оператору: mysql без multiStatements не принимает пакет
		for _, stmt := range strings.Split(string(data), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := r.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply migration %s: %w", e.Name(), err)
			}
		}
		r.log.Debug("migration applied", "file", e.Name())
	}
	return nil
}
