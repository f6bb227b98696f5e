package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"room-planner/internal/planner/assets"
	"room-planner/internal/planner/editor"
	"room-planner/internal/planner/models"
	"room-planner/internal/planner/store"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cubeOBJ = "# cube\nv 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 1\nf 1 2 3\n"

type testEnv struct {
	app      *fiber.App
	repo     *store.Repository
	sessions *editor.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, dialect, err := store.Open(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := store.New(db, dialect, nil)
	require.NoError(t, repo.Init(context.Background()))

	files := store.NewFileStorage(t.TempDir())
	provider := assets.NewCachedProvider(assets.NewFileProvider(files.ModelPath), nil)
	sessions := editor.NewRegistry(nil)

	app := fiber.New()
	New(repo, files, sessions, provider, editor.DefaultOptions(), nil).Register(app)
	return &testEnv{app: app, repo: repo, sessions: sessions}
}

// do шлёт запрос; body string уходит как есть, остальное кодируется в JSON.
func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var r io.Reader
	contentType := "application/json"
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
		contentType = "text/plain"
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-ID", "user-1")
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func square() models.BlueprintSave {
	return models.BlueprintSave{
		Name: "Studio",
		Corners: []models.CornerSave{
			{ID: "a", X: 0, Y: 0},
			{ID: "b", X: 400, Y: 0},
			{ID: "c", X: 400, Y: 300},
			{ID: "d", X: 0, Y: 300},
		},
		Walls: []models.WallSave{
			{StartCornerID: "a", EndCornerID: "b"},
			{StartCornerID: "b", EndCornerID: "c"},
			{StartCornerID: "c", EndCornerID: "d"},
			{StartCornerID: "d", EndCornerID: "a"},
		},
		Items: []models.ItemSave{},
	}
}

func (e *testEnv) createBlueprint(t *testing.T, save models.BlueprintSave) models.BlueprintSummary {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/blueprints", save)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var summary models.BlueprintSummary
	decode(t, resp, &summary)
	return summary
}

// ============================================================
// Health
// ============================================================

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	var body map[string]string
	resp := env.do(t, http.MethodGet, "/health/live", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "alive", body["status"])

	resp = env.do(t, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "ready", body["status"])
}

// ============================================================
// Blueprints
// ============================================================

func TestBlueprintLifecycle(t *testing.T) {
	env := newTestEnv(t)
	summary := env.createBlueprint(t, square())
	assert.NotEmpty(t, summary.ID)
	assert.Equal(t, "user-1", summary.UserID)
	assert.Equal(t, "Studio", summary.Name)

	var list []models.BlueprintSummary
	decode(t, env.do(t, http.MethodGet, "/blueprints", nil), &list)
	require.Len(t, list, 1)
	assert.Equal(t, summary.ID, list[0].ID)

	var cb models.CompleteBlueprint
	decode(t, env.do(t, http.MethodGet, "/blueprints/"+summary.ID, nil), &cb)
	assert.Len(t, cb.Corners, 4)
	assert.Len(t, cb.Walls, 4)

	var rooms []models.RoomInfo
	decode(t, env.do(t, http.MethodGet, "/blueprints/"+summary.ID+"/rooms", nil), &rooms)
	require.Len(t, rooms, 1)
	assert.InDelta(t, 120000, rooms[0].Area, 1e-6)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, rooms[0].CornerIDs)

	resp := env.do(t, http.MethodGet, "/blueprints/"+summary.ID+"/svg", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	svg, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	update := square()
	update.Walls = update.Walls[:3]
	resp = env.do(t, http.MethodPut, "/blueprints/"+summary.ID, update)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	decode(t, env.do(t, http.MethodGet, "/blueprints/"+summary.ID+"/rooms", nil), &rooms)
	assert.Empty(t, rooms)

	resp = env.do(t, http.MethodDelete, "/blueprints/"+summary.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = env.do(t, http.MethodGet, "/blueprints/"+summary.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBlueprintValidation(t *testing.T) {
	env := newTestEnv(t)

	unknown := square()
	unknown.Walls = append(unknown.Walls, models.WallSave{StartCornerID: "a", EndCornerID: "zzz"})
	selfLoop := square()
	selfLoop.Walls = append(selfLoop.Walls, models.WallSave{StartCornerID: "a", EndCornerID: "a"})
	duplicate := square()
	duplicate.Corners = append(duplicate.Corners, models.CornerSave{ID: "a", X: 1, Y: 1})

	tests := []struct {
		name string
		body any
		want string
	}{
		{"empty body", "", "empty body"},
		{"invalid json", "{", "invalid json"},
		{"unknown corner", unknown, "unknown corner"},
		{"self loop", selfLoop, "nefield"},
		{"duplicate corner", duplicate, "duplicate corner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/blueprints", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var body map[string]string
			decode(t, resp, &body)
			assert.Contains(t, body["error"], tt.want)
		})
	}

	resp := env.do(t, http.MethodPut, "/blueprints/missing", square())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestImportSVG(t *testing.T) {
	env := newTestEnv(t)
	summary := env.createBlueprint(t, models.BlueprintSave{Name: "Imported"})

	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="400" height="300">
  <rect id="Wall_top" x="0" y="0" width="400" height="10"/>
  <rect id="Wall_right" x="390" y="0" width="10" height="300"/>
  <g id="south">
    <rect id="Hui_Wall_bottom" x="0" y="290" width="400" height="10"/>
  </g>
  <path id="Wall_left" d="M0 0 h10 v300 h-10 Z"/>
  <rect id="Door_1" x="100" y="0" width="80" height="10"/>
  <rect id="Kitchen_room" x="10" y="10" width="380" height="280"/>
</svg>`
	resp := env.do(t, http.MethodPost, "/blueprints/"+summary.ID+"/import-svg", svg)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res importResponse
	decode(t, resp, &res)
	assert.Equal(t, 4, res.Walls)
	assert.Equal(t, 2, res.Ignored)
	require.Len(t, res.Rooms, 1)

	var cb models.CompleteBlueprint
	decode(t, env.do(t, http.MethodGet, "/blueprints/"+summary.ID, nil), &cb)
	assert.Len(t, cb.Walls, 4)
	assert.Len(t, cb.Corners, 4)
	assert.Equal(t, "Imported", cb.Name)

	for _, query := range []string{"scale=x", "scale=NaN", "scale=Inf", "offsetX=-Inf", "offsetY=nan"} {
		resp = env.do(t, http.MethodPost, "/blueprints/"+summary.ID+"/import-svg?"+query, svg)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
	}
	decode(t, env.do(t, http.MethodGet, "/blueprints/"+summary.ID, nil), &cb)
	assert.Len(t, cb.Corners, 4)
	resp = env.do(t, http.MethodPost, "/blueprints/"+summary.ID+"/import-svg", "<svg><rect")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ============================================================
// Furniture
// ============================================================

func (e *testEnv) createFurniture(t *testing.T, f models.Furniture) models.Furniture {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/furniture", f)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out models.Furniture
	decode(t, resp, &out)
	return out
}

func TestFurnitureCatalog(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/furniture", models.Furniture{Name: "Broken"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	chair := env.createFurniture(t, models.Furniture{Name: "Chair", SizeX: 50, SizeY: 90, SizeZ: 50})
	assert.NotEmpty(t, chair.ID)
	assert.Equal(t, models.FloorItem, chair.ItemType)

	var list []models.Furniture
	decode(t, env.do(t, http.MethodGet, "/furniture", nil), &list)
	require.Len(t, list, 1)

	var got models.Furniture
	decode(t, env.do(t, http.MethodGet, "/furniture/"+chair.ID, nil), &got)
	assert.Equal(t, "Chair", got.Name)

	resp = env.do(t, http.MethodGet, "/furniture/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestModelUpload(t *testing.T) {
	env := newTestEnv(t)
	chair := env.createFurniture(t, models.Furniture{Name: "Chair", SizeX: 50, SizeY: 90, SizeZ: 50})

	resp := env.do(t, http.MethodPost, "/furniture/"+chair.ID+"/model", cubeOBJ)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		ObjectURL string             `json:"objectUrl"`
		Size      map[string]float64 `json:"size"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "/furniture/"+chair.ID+"/model", body.ObjectURL)
	assert.Equal(t, map[string]float64{"x": 1, "y": 1, "z": 1}, body.Size)

	var got models.Furniture
	decode(t, env.do(t, http.MethodGet, "/furniture/"+chair.ID, nil), &got)
	assert.Equal(t, body.ObjectURL, got.ObjectURL)

	resp = env.do(t, http.MethodGet, "/furniture/"+chair.ID+"/model", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, cubeOBJ, string(data))

	resp = env.do(t, http.MethodPost, "/furniture/"+chair.ID+"/model", "hello")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = env.do(t, http.MethodPost, "/furniture/missing/model", cubeOBJ)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestModelUploadMultipart(t *testing.T) {
	env := newTestEnv(t)
	table := env.createFurniture(t, models.Furniture{Name: "Table", SizeX: 120, SizeY: 75, SizeZ: 80})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "table.obj")
	require.NoError(t, err)
	_, err = part.Write([]byte("v 0 0 0\nv 2 3 4\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/furniture/"+table.ID+"/model", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Size map[string]float64 `json:"size"`
	}
	decode(t, resp, &body)
	assert.Equal(t, map[string]float64{"x": 2, "y": 3, "z": 4}, body.Size)
}

// ============================================================
// Sessions
// ============================================================

func TestSessionFlow(t *testing.T) {
	env := newTestEnv(t)

	bed := env.createFurniture(t, models.Furniture{Name: "Bed", SizeX: 200, SizeY: 50, SizeZ: 160})
	resp := env.do(t, http.MethodPost, "/furniture/"+bed.ID+"/model", cubeOBJ)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	save := square()
	save.Items = []models.ItemSave{{FurnitureID: bed.ID, PosX: 200, PosZ: 150}}
	summary := env.createBlueprint(t, save)

	resp = env.do(t, http.MethodPost, "/sessions", openSessionRequest{BlueprintID: summary.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var info models.SessionInfo
	decode(t, resp, &info)
	assert.Equal(t, summary.ID, info.BlueprintID)
	assert.Equal(t, "move", info.Mode)
	assert.Equal(t, 1, info.Items)
	assert.Len(t, info.Rooms, 1)
	assert.Equal(t, 1, env.sessions.Len())

	sessionPath := "/sessions/" + info.ID
	decode(t, env.do(t, http.MethodPost, sessionPath+"/mode", modeRequest{Mode: "delete"}), &info)
	assert.Equal(t, "delete", info.Mode)

	// камера сцены смотрит сверху в центр плана, кровать стоит там же
	events := pointerRequest{Events: []models.PointerEvent{
		{Kind: "down", X: 400, Y: 300, Surface: "scene"},
		{Kind: "up", Surface: "scene"},
	}}
	decode(t, env.do(t, http.MethodPost, sessionPath+"/pointer", events), &info)
	assert.Equal(t, 0, info.Items)

	var saved models.BlueprintSave
	decode(t, env.do(t, http.MethodPost, sessionPath+"/save", nil), &saved)
	assert.Empty(t, saved.Items)
	assert.Len(t, saved.Corners, 4)

	var cb models.CompleteBlueprint
	decode(t, env.do(t, http.MethodGet, "/blueprints/"+summary.ID, nil), &cb)
	assert.Empty(t, cb.Items)
	assert.Len(t, cb.Walls, 4)

	resp = env.do(t, http.MethodDelete, sessionPath, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = env.do(t, http.MethodGet, sessionPath, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 0, env.sessions.Len())
}

func TestSessionAddItem(t *testing.T) {
	env := newTestEnv(t)

	bed := env.createFurniture(t, models.Furniture{Name: "Bed", SizeX: 200, SizeY: 50, SizeZ: 160})
	resp := env.do(t, http.MethodPost, "/furniture/"+bed.ID+"/model", cubeOBJ)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bare := env.createFurniture(t, models.Furniture{Name: "Chair", SizeX: 50, SizeY: 90, SizeZ: 50})

	summary := env.createBlueprint(t, square())
	resp = env.do(t, http.MethodPost, "/sessions", openSessionRequest{BlueprintID: summary.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var info models.SessionInfo
	decode(t, resp, &info)
	assert.Equal(t, 0, info.Items)
	sessionPath := "/sessions/" + info.ID

	resp = env.do(t, http.MethodPost, sessionPath+"/items", addItemRequest{FurnitureID: bed.ID, PosX: 200, PosZ: 150, Rot: 1.5})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &info)
	assert.Equal(t, 1, info.Items)
	assert.Equal(t, "selected", info.SceneState)

	// без модели заглушка убирается, сцена не меняется
	resp = env.do(t, http.MethodPost, sessionPath+"/items", addItemRequest{FurnitureID: bare.ID})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp = env.do(t, http.MethodPost, sessionPath+"/items", addItemRequest{FurnitureID: "missing"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = env.do(t, http.MethodPost, sessionPath+"/items", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = env.do(t, http.MethodPost, "/sessions/missing/items", addItemRequest{FurnitureID: bed.ID})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var saved models.BlueprintSave
	decode(t, env.do(t, http.MethodPost, sessionPath+"/save", nil), &saved)
	assert.Len(t, saved.Corners, 4)
	assert.Len(t, saved.Walls, 4)
	require.Len(t, saved.Items, 1)
	assert.Equal(t, bed.ID, saved.Items[0].FurnitureID)
	assert.Equal(t, 200.0, saved.Items[0].PosX)
	assert.Equal(t, 150.0, saved.Items[0].PosZ)
	assert.Equal(t, 1.5, saved.Items[0].Rot)

	resp = env.do(t, http.MethodPost, "/sessions", openSessionRequest{BlueprintID: summary.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &info)
	assert.Equal(t, 1, info.Items)
	assert.Len(t, info.Rooms, 1)
}

func TestSessionViewport(t *testing.T) {
	env := newTestEnv(t)
	summary := env.createBlueprint(t, square())

	resp := env.do(t, http.MethodPost, "/sessions", openSessionRequest{BlueprintID: summary.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var info models.SessionInfo
	decode(t, resp, &info)
	assert.Equal(t, "orthographic", info.Camera)
	sessionPath := "/sessions/" + info.ID

	decode(t, env.do(t, http.MethodPost, sessionPath+"/viewport", viewportRequest{Width: 1024, Height: 768, Camera: "perspective"}), &info)
	assert.Equal(t, "perspective", info.Camera)

	decode(t, env.do(t, http.MethodPost, sessionPath+"/viewport", viewportRequest{Width: 640, Height: 480}), &info)
	assert.Equal(t, "perspective", info.Camera)

	require.NoError(t, env.sessions.With(info.ID, func(s *editor.Session) error {
		assert.Equal(t, 640.0, s.Planar().Viewport().Width)
		return nil
	}))

	resp = env.do(t, http.MethodPost, sessionPath+"/viewport", viewportRequest{Width: 0, Height: 480})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = env.do(t, http.MethodPost, sessionPath+"/viewport", viewportRequest{Width: 640, Height: 480, Camera: "fisheye"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionErrors(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/sessions", openSessionRequest{BlueprintID: "missing"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = env.do(t, http.MethodPost, "/sessions", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	summary := env.createBlueprint(t, square())
	resp = env.do(t, http.MethodPost, "/sessions", openSessionRequest{BlueprintID: summary.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var info models.SessionInfo
	decode(t, resp, &info)
	sessionPath := "/sessions/" + info.ID

	resp = env.do(t, http.MethodPost, sessionPath+"/mode", modeRequest{Mode: "fly"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = env.do(t, http.MethodPost, sessionPath+"/pointer", pointerRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = env.do(t, http.MethodPost, sessionPath+"/pointer", pointerRequest{Events: []models.PointerEvent{{Kind: "hover"}}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = env.do(t, http.MethodPost, "/sessions/missing/pointer", pointerRequest{Events: []models.PointerEvent{{Kind: "move"}}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = env.do(t, http.MethodPost, "/sessions/missing/save", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
