// Package world generates random battlefields. The field is partitioned
// with a BSP tree; every partition line is a wall with a gap, so all open
// tiles stay connected.
package world

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/grid"
	"github.com/samdwyer/gridtactics/internal/telemetry"
)

const (
	// Default field dimensions
	DefaultWidth  = 14
	DefaultHeight = 9

	// BSP parameters
	minLeafSize = 3 // Minimum region dimension
	edgeColumns = 2 // Columns on each side kept open for deployment
)

// RandomLayoutID is the battle id that selects a generated field.
const RandomLayoutID = "random"

// Field is a generated battlefield.
type Field struct {
	Width   int
	Height  int
	Walls   []grid.Position
	Regions []Region

	rng      *rand.Rand
	wall     map[grid.Position]bool
	reserved map[grid.Position]bool
}

// NewField creates an open field.
func NewField(width, height int, rng *rand.Rand) *Field {
	return &Field{
		Width:    width,
		Height:   height,
		rng:      rng,
		wall:     make(map[grid.Position]bool),
		reserved: make(map[grid.Position]bool),
	}
}

// Generate partitions the middle of the field with walls.
func (f *Field) Generate(ctx context.Context) {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "field.generate")
	defer span.End()

	startTime := time.Now()

	root := &bspNode{
		x:      edgeColumns,
		y:      0,
		width:  f.Width - 2*edgeColumns,
		height: f.Height,
	}
	f.splitNode(root)

	f.Walls = f.Walls[:0]
	for p := range f.wall {
		f.Walls = append(f.Walls, p)
	}
	slices.SortFunc(f.Walls, func(a, b grid.Position) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})

	// Record telemetry
	span.SetAttributes(
		attribute.Int("field.width", f.Width),
		attribute.Int("field.height", f.Height),
		attribute.Int("field.regions", len(f.Regions)),
		attribute.Int("field.walls", len(f.Walls)),
		attribute.Int64("field.generation_ms", time.Since(startTime).Milliseconds()),
	)
}

// IsWall reports whether a tile is a wall.
func (f *Field) IsWall(p grid.Position) bool {
	return f.wall[p]
}

// bspNode represents a node in the BSP tree.
type bspNode struct {
	x, y          int
	width, height int
}

// splitNode recursively splits a BSP node with a wall line.
func (f *Field) splitNode(node *bspNode) {
	canSplitV := node.width >= minLeafSize*2+1
	canSplitH := node.height >= minLeafSize*2+1

	var vertical bool
	switch {
	case canSplitV && canSplitH:
		vertical = node.width > node.height || (node.width == node.height && f.rng.Intn(2) == 0)
	case canSplitV:
		vertical = true
	case canSplitH:
		vertical = false
	default:
		f.Regions = append(f.Regions, Region{X: node.x, Y: node.y, Width: node.width, Height: node.height})
		return
	}

	var left, right *bspNode
	if vertical {
		pos := minLeafSize + f.rng.Intn(node.width-2*minLeafSize)
		line := make([]grid.Position, node.height)
		for i := range line {
			line[i] = grid.Position{X: node.x + pos, Y: node.y + i}
		}
		f.drawLine(line, grid.Vec{X: 1})
		left = &bspNode{x: node.x, y: node.y, width: pos, height: node.height}
		right = &bspNode{x: node.x + pos + 1, y: node.y, width: node.width - pos - 1, height: node.height}
	} else {
		pos := minLeafSize + f.rng.Intn(node.height-2*minLeafSize)
		line := make([]grid.Position, node.width)
		for i := range line {
			line[i] = grid.Position{X: node.x + i, Y: node.y + pos}
		}
		f.drawLine(line, grid.Vec{Y: 1})
		left = &bspNode{x: node.x, y: node.y, width: node.width, height: pos}
		right = &bspNode{x: node.x, y: node.y + pos + 1, width: node.width, height: node.height - pos - 1}
	}

	f.splitNode(left)
	f.splitNode(right)
}

// drawLine walls a partition line, leaving one random gap. The tiles on
// both sides of the gap are reserved so later lines cannot seal it.
func (f *Field) drawLine(line []grid.Position, across grid.Vec) {
	gap := line[f.rng.Intn(len(line))]
	f.reserved[gap] = true
	f.reserved[gap.Add(across)] = true
	f.reserved[gap.Add(across.Scale(-1))] = true

	for _, p := range line {
		if !f.reserved[p] {
			f.wall[p] = true
		}
	}
}

// Layout turns the field into a battle layout with the players deployed on
// the left edge and random enemies on the right edge.
func (f *Field) Layout(players []string, enemies int) (*gamedata.BattleDef, error) {
	if len(players) > f.Height || enemies > f.Height {
		return nil, fmt.Errorf("field height %d cannot deploy %d players and %d enemies", f.Height, len(players), enemies)
	}
	def := &gamedata.BattleDef{
		ID:     RandomLayoutID,
		Name:   "Random Field",
		Width:  f.Width,
		Height: f.Height,
	}
	for _, w := range f.Walls {
		def.Walls = append(def.Walls, gamedata.PointDef{X: w.X, Y: w.Y})
	}
	for i, y := range deployRows(len(players), f.Height) {
		def.Placements = append(def.Placements, gamedata.PlacementDef{Unit: players[i], X: 0, Y: y})
	}
	for _, y := range deployRows(enemies, f.Height) {
		def.Placements = append(def.Placements, gamedata.PlacementDef{Unit: gamedata.RandomEnemyID, X: f.Width - 1, Y: y})
	}
	return def, nil
}

// deployRows spreads n units evenly down a column.
func deployRows(n, height int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = (2*i + 1) * height / (2 * n)
	}
	return rows
}

// Generate builds a random battle layout from a seed.
func Generate(ctx context.Context, seed int64, players []string, enemies int) (*gamedata.BattleDef, error) {
	f := NewField(DefaultWidth, DefaultHeight, rand.New(rand.NewSource(seed)))
	f.Generate(ctx)
	return f.Layout(players, enemies)
}
