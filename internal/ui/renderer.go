package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/gridtactics/internal/battle"
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/grid"
	"github.com/samdwyer/gridtactics/internal/unit"
)

// Highlight marks a tile the player may choose.
type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightMove
	HighlightTarget
)

// View is the input state drawn on top of the battle.
type View struct {
	Cursor     grid.Position
	Selected   entity.ID
	Highlights map[grid.Position]Highlight
	Mode       string
	Message    string
}

// Board layout, in terminal cells.
const (
	boardLeft = 1
	boardTop  = 1
	cellWidth = 2
	logLines  = 6
)

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws the battlefield, the status panel and the battle log.
func (r *Renderer) Render(b *battle.Battle, v View) {
	r.screen.Clear()

	g := b.Grid()
	w, h := g.Size()
	r.drawBoard(b, v)

	panelX := boardLeft + w*cellWidth + 3
	r.drawPanel(b, v, panelX, boardTop)
	r.drawLog(b, v, boardTop+h+1)

	r.screen.Show()
}

// CellOf returns the screen cell where a tile is drawn.
func CellOf(p grid.Position) (x, y int) {
	return boardLeft + p.X*cellWidth, boardTop + p.Y
}

func (r *Renderer) drawBoard(b *battle.Battle, v View) {
	g := b.Grid()
	w, h := g.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := grid.Position{X: x, Y: y}
			tile := g.Tile(p)
			style := r.getTileStyle(tile)
			switch v.Highlights[p] {
			case HighlightMove:
				style = style.Background(tcell.ColorNavy)
			case HighlightTarget:
				style = style.Background(tcell.ColorMaroon)
			}
			cx, cy := CellOf(p)
			r.screen.SetContent(cx, cy, tile.Rune(), style)
		}
	}

	for _, u := range b.Units() {
		pos, ok := b.PositionOf(u.ID)
		if !ok {
			continue
		}
		style := tcell.StyleDefault.Foreground(u.Color).Bold(u.ID == v.Selected)
		if u.Critical() {
			style = style.Blink(true)
		}
		if v.Highlights[pos] == HighlightTarget {
			style = style.Background(tcell.ColorMaroon)
		}
		cx, cy := CellOf(pos)
		r.screen.SetContent(cx, cy, u.Glyph, style)
	}

	fx := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	for _, vis := range b.Animator().Visuals() {
		cx, cy := CellOf(vis.Position)
		r.screen.SetContent(cx+1, cy, '*', fx)
	}
	for _, p := range b.Projectiles().InFlight() {
		tile := grid.FromWorld(p.Start.Lerp(p.End, p.T))
		if !g.InBounds(tile) {
			continue
		}
		cx, cy := CellOf(tile)
		r.screen.SetContent(cx+1, cy, '~', fx)
	}

	cx, cy := CellOf(v.Cursor)
	r.screen.SetContent(cx-1, cy, '[', tcell.StyleDefault.Foreground(tcell.ColorYellow))
	r.screen.SetContent(cx+1, cy, ']', tcell.StyleDefault.Foreground(tcell.ColorYellow))
}

// getTileStyle returns the appropriate style for a tile type.
func (r *Renderer) getTileStyle(tile grid.Tile) tcell.Style {
	switch tile {
	case grid.TileWall:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case grid.TileFloor:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	default:
		return tcell.StyleDefault
	}
}

func (r *Renderer) drawPanel(b *battle.Battle, v View, x, y int) {
	title := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	text := tcell.StyleDefault.Foreground(tcell.ColorSilver)

	p, turn := b.Phase()
	header := fmt.Sprintf("Turn %d  %s phase", turn, p)
	if b.Outcome() != battle.Ongoing {
		header = strings.ToUpper(b.Outcome().String())
	}
	r.screen.SetString(x, y, header, title)
	y += 2

	for _, u := range b.Units() {
		style := tcell.StyleDefault.Foreground(u.Color)
		marker := " "
		if u.ID == v.Selected {
			marker = ">"
		}
		line := fmt.Sprintf("%s%c %-12s %3d/%-3d %s", marker, u.Glyph, u.Name, u.Health().Int(), u.MaxHealth().Int(), statusLine(u))
		r.screen.SetString(x, y, line, style)
		y++
	}
	y++

	if sel, ok := b.Unit(v.Selected); ok {
		r.screen.SetString(x, y, fmt.Sprintf("%s  MOV %d  AP %d", sel.Name, sel.Resources.MovementLeft, sel.Resources.ActionLeft), title)
		y++
		for i, id := range sel.Skills {
			s, ok := b.Skills().Lookup(id)
			if !ok {
				continue
			}
			r.screen.SetString(x, y, fmt.Sprintf("%d %s (range %d, %d AP)", i+1, s.Name, s.Targeting.Range, s.APCost), text)
			y++
		}
		y++
	}

	if v.Mode != "" {
		r.screen.SetString(x, y, "mode: "+v.Mode, text)
		y++
	}
	r.screen.SetString(x, y, "tab select  arrows cursor  m move  1-9 skill", text)
	r.screen.SetString(x, y+1, "enter confirm  w wait  esc cancel  q quit", text)
}

func statusLine(u *unit.Unit) string {
	var parts []string
	for _, s := range u.Effects.Statuses() {
		parts = append(parts, string(s))
	}
	if u.Resources.Waited {
		parts = append(parts, "done")
	}
	return strings.Join(parts, ",")
}

func (r *Renderer) drawLog(b *battle.Battle, v View, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	msgs := b.Messages()
	if len(msgs) > logLines {
		msgs = msgs[len(msgs)-logLines:]
	}
	for i, m := range msgs {
		r.RenderMessage(m, y+i)
	}
	if v.Message != "" {
		r.screen.SetString(boardLeft, y+logLines, v.Message, style.Foreground(tcell.ColorYellow))
	}
}

// RenderMessage displays a message at the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	r.screen.SetString(boardLeft, y, msg, style)
}
