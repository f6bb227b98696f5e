package geometry

import (
	"sort"
	"strings"

	"github.com/jbeda/geom"
)

// ============================================================
// Room discovery
// ============================================================

// Graph входные данные поиска комнат: вершины и их соседи в порядке обхода стен.
type Graph struct {
	IDs       []string
	Positions []geom.Coord
	Adjacent  [][]int
}

type walkStep struct {
	vertex int
	path   []int
}

// FindRooms находит минимальные замкнутые контуры графа с обходом против часовой стрелки.
// Каждый контур задан индексами вершин Graph.
func FindRooms(g Graph) [][]int {
	var loops [][]int
	for first := range g.IDs {
		for _, second := range g.Adjacent[first] {
			loops = append(loops, g.tightestCycle(first, second))
		}
	}

	var rooms [][]int
	seen := make(map[string]bool)
	for _, loop := range loops {
		if len(loop) < 3 {
			continue
		}
		key := g.canonicalKey(loop)
		if seen[key] {
			continue
		}
		seen[key] = true

		if IsClockwise(g.points(loop)) {
			continue
		}
		rooms = append(rooms, loop)
	}
	return rooms
}

// tightestCycle обход в глубину от ребра first→second; на каждом шаге первыми
// пробуются соседи с наименьшим углом поворота (при равенстве с меньшим id).
func (g Graph) tightestCycle(first, second int) []int {
	visited := map[int]bool{first: true}
	stack := []walkStep{{vertex: second, path: []int{first}}}

	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		current := next.vertex
		visited[current] = true

		if current == first {
			return next.path
		}

		var candidates []int
		for _, v := range g.Adjacent[current] {
			closes := v == first && current != second
			if visited[v] && !closes {
				continue
			}
			candidates = append(candidates, v)
		}

		path := make([]int, len(next.path), len(next.path)+1)
		copy(path, next.path)
		path = append(path, current)

		previous := next.path[len(next.path)-1]
		g.sortByTurn(previous, current, candidates)

		// LIFO: наименьший угол должен оказаться на вершине стека
		for i := len(candidates) - 1; i >= 0; i-- {
			stack = append(stack, walkStep{vertex: candidates[i], path: path})
		}
	}
	return nil
}

func (g Graph) sortByTurn(previous, current int, candidates []int) {
	if len(candidates) < 2 {
		return
	}

	back := g.Positions[previous].Minus(g.Positions[current])
	theta := make(map[int]float64, len(candidates))
	for _, c := range candidates {
		theta[c] = Angle2Pi(back, g.Positions[c].Minus(g.Positions[current]))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if theta[a] != theta[b] {
			return theta[a] < theta[b]
		}
		return g.IDs[a] < g.IDs[b]
	})
}

// canonicalKey ключ контура, одинаковый для всех его циклических сдвигов.
func (g Graph) canonicalKey(loop []int) string {
	start := 0
	for i := range loop {
		if g.IDs[loop[i]] < g.IDs[loop[start]] {
			start = i
		}
	}

	ids := make([]string, 0, len(loop))
	for i := range loop {
		ids = append(ids, g.IDs[loop[(start+i)%len(loop)]])
	}
	return strings.Join(ids, "-")
}

func (g Graph) points(loop []int) []geom.Coord {
	out := make([]geom.Coord, len(loop))
	for i, v := range loop {
		out[i] = g.Positions[v]
	}
	return out
}
