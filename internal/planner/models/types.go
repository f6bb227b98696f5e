package models

// ============================================================
// Blueprint save payload
// ============================================================

// BlueprintSave снимок плана, который ядро отдаёт на сохранение.
type BlueprintSave struct {
	ID      string       `json:"id"`
	Name    string       `json:"name" validate:"max=200"`
	Corners []CornerSave `json:"corners" validate:"dive"`
	Walls   []WallSave   `json:"walls" validate:"dive"`
	Items   []ItemSave   `json:"items" validate:"dive"`
}

type CornerSave struct {
	ID string  `json:"id" validate:"required"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type WallSave struct {
	StartCornerID string `json:"startCornerId" validate:"required,nefield=EndCornerID"`
	EndCornerID   string `json:"endCornerId" validate:"required"`
}

type ItemSave struct {
	FurnitureID string  `json:"furnitureId" validate:"required"`
	PosX        float64 `json:"posX"`
	PosY        float64 `json:"posY"`
	PosZ        float64 `json:"posZ"`
	Rot         float64 `json:"rot"`
}

// ============================================================
// Complete blueprint (load input)
// ============================================================

type BlueprintSummary struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	CreatedAt  string `json:"createAt"`
	ModifiedAt string `json:"modifiedAt"`
}

// CompleteBlueprint план вместе с используемыми позициями каталога.
type CompleteBlueprint struct {
	BlueprintSummary
	Corners   []CornerSave `json:"corners"`
	Walls     []WallLoad   `json:"walls"`
	Items     []ItemLoad   `json:"items"`
	Furniture []Furniture  `json:"furniture"`
}

type WallLoad struct {
	ID            string `json:"id"`
	StartCornerID string `json:"startCornerId"`
	EndCornerID   string `json:"endCornerId"`
}

type ItemLoad struct {
	ID string `json:"id"`
	ItemSave
}

// ============================================================
// Furniture catalog
// ============================================================

// ItemType способ размещения предмета.
type ItemType int

const (
	FloorItem       ItemType = 1
	WallItem        ItemType = 2
	InWallItem      ItemType = 3
	InWallFloorItem ItemType = 7
	OnFloorItem     ItemType = 8
	WallFloorItem   ItemType = 9
)

func (t ItemType) String() string {
	switch t {
	case FloorItem:
		return "floor"
	case WallItem:
		return "wall"
	case InWallItem:
		return "in_wall"
	case InWallFloorItem:
		return "in_wall_floor"
	case OnFloorItem:
		return "on_floor"
	case WallFloorItem:
		return "wall_floor"
	default:
		return "unknown"
	}
}

// Furniture позиция каталога; размеры в сантиметрах.
type Furniture struct {
	ID           string   `json:"id"`
	Name         string   `json:"name" validate:"required,max=200"`
	SizeX        float64  `json:"sizeX" validate:"gt=0"`
	SizeY        float64  `json:"sizeY" validate:"gt=0"`
	SizeZ        float64  `json:"sizeZ" validate:"gt=0"`
	CategoryID   string   `json:"categoryId"`
	ItemType     ItemType `json:"itemType" validate:"oneof=0 1 2 3 7 8 9"`
	ObjectURL    string   `json:"objectUrl"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	CreatedAt    string   `json:"createdAt"`
}

// ============================================================
// Room analysis
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RoomInfo результат поиска комнат для API.
type RoomInfo struct {
	UUID            string   `json:"uuid"`
	CornerIDs       []string `json:"cornerIds"`
	Area            float64  `json:"area"`
	InteriorArea    float64  `json:"interiorArea"`
	InteriorCorners []Point  `json:"interiorCorners"`
	Texture         string   `json:"texture,omitempty"`
}

// ============================================================
// Editor sessions
// ============================================================

// PointerEvent событие указателя для удалённой сессии; координаты в пикселях холста.
type PointerEvent struct {
	Kind    string  `json:"kind" validate:"required,oneof=down move up"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Surface string  `json:"surface" validate:"omitempty,oneof=plan scene"`
}

type SessionInfo struct {
	ID          string     `json:"id"`
	BlueprintID string     `json:"blueprintId"`
	Mode        string     `json:"mode"`
	SceneState  string     `json:"sceneState"`
	Camera      string     `json:"camera"`
	Rooms       []RoomInfo `json:"rooms"`
	Items       int        `json:"items"`
}
