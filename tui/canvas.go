/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package tui renders the game in a terminal with tcell. Playfield
// coordinates are pixels; every terminal cell stands for CellWidth by
// CellHeight of them.
package tui

import (
	"strings"

	"github.com/Seednode/slicebox/ninja"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const (
	CellWidth  = 10
	CellHeight = 20
)

// canvas is the part of tcell.Screen the renderers draw on.
type canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

var (
	styleBase   = tcell.StyleDefault
	styleTitle  = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorYellow)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTrail  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleBar    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleHeart  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleAccent = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorFuchsia)
)

// fieldSize is the playfield in pixels for a w×h cell screen.
func fieldSize(w, h int) (float64, float64) {
	return float64(w * CellWidth), float64(h * CellHeight)
}

// toField maps a cell to the pixel at its center.
func toField(x, y int) ninja.Point {
	return ninja.Point{
		X: float64(x*CellWidth + CellWidth/2),
		Y: float64(y*CellHeight + CellHeight/2),
	}
}

// toCell maps a pixel to its cell.
func toCell(x, y float64) (int, int) {
	return int(x) / CellWidth, int(y) / CellHeight
}

func wipe(c canvas) {
	w, h := c.Size()
	for y := range h {
		for x := range w {
			c.SetContent(x, y, ' ', nil, styleBase)
		}
	}
}

// text draws s starting at (x, y), clipped to the canvas, and returns the
// column after the last rune.
func text(c canvas, x, y int, style tcell.Style, s string) int {
	w, h := c.Size()
	if y < 0 || y >= h {
		return x
	}
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x >= 0 && x+rw <= w {
			c.SetContent(x, y, r, nil, style)
		}
		x += rw
	}
	return x
}

// centered draws s centered on column cx.
func centered(c canvas, cx, y int, style tcell.Style, s string) {
	text(c, cx-runewidth.StringWidth(s)/2, y, style, s)
}

// block draws a multi-line string centered horizontally, starting at row y,
// and returns the row after it.
func block(c canvas, y int, style tcell.Style, s string) int {
	w, _ := c.Size()
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		centered(c, w/2, y, style, line)
		y++
	}
	return y
}

// bar renders a horizontal bar of width cells filled to frac.
func bar(c canvas, x, y, width int, frac float64, style tcell.Style) {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac*float64(width) + 0.5)
	for i := range width {
		r := '░'
		if i < filled {
			r = '█'
		}
		c.SetContent(x+i, y, r, nil, style)
	}
}

func hearts(lives int) string {
	if lives <= 0 {
		return ""
	}
	return strings.Repeat("♥", lives)
}

func colorStyle(hex string) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.GetColor(hex))
}
