/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package tui

import (
	"fmt"

	"github.com/Seednode/slicebox/ninja"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// drawField renders particles, the blade and the words of sim.
func drawField(c canvas, sim *ninja.Sim) {
	for _, p := range sim.Particles {
		x, y := toCell(p.X, p.Y)
		r := '·'
		if p.Life > 0.5 {
			r = '*'
		}
		text(c, x, y, colorStyle(p.Color), string(r))
	}

	for _, pt := range sim.Path.Points() {
		x, y := toCell(pt.X, pt.Y)
		text(c, x, y, styleTrail, "█")
	}

	for _, e := range sim.Entities {
		if e.Scale <= 0 {
			continue
		}
		x, y := toCell(e.X, e.Y)
		centered(c, x, y, wordStyle(sim.Policy, e), e.Text)
	}
}

func wordStyle(p ninja.Policy, e *ninja.WordEntity) tcell.Style {
	style := tcell.StyleDefault.Bold(true)
	if e.Category == ninja.Bad {
		return style.Foreground(tcell.GetColor(p.BadColor))
	}
	return style.Foreground(tcell.GetColor(p.GoodColor))
}

// drawHUD renders score, high score and lives on the top row.
func drawHUD(c canvas, r *ninja.Round) {
	w, _ := c.Size()

	x := text(c, 1, 0, styleTitle, fmt.Sprintf("SCORE %d", r.Score()))
	if r.HighScore() > 0 {
		text(c, x+3, 0, styleDim, fmt.Sprintf("BEST %d", r.HighScore()))
	}

	lives := hearts(r.Lives())
	text(c, w-1-runewidth.StringWidth(lives), 0, styleHeart, lives)
}

// drawRound renders a whole round, including the menu and game-over
// overlays. banner and hint replace the game-over lines when set.
func drawRound(c canvas, r *ninja.Round, banner, hint string) {
	w, h := c.Size()

	drawField(c, r.Sim)
	drawHUD(c, r)

	switch r.State() {
	case ninja.Menu:
		centered(c, w/2, h/2-2, styleAccent, "SLICE THE BAD BEHAVIOR")
		centered(c, w/2, h/2, styleBase, "Swipe through red words, spare the green ones.")
		centered(c, w/2, h/2+2, styleDim, "[space] start   [esc] quit")

	case ninja.GameOver:
		if banner == "" {
			banner = "GAME OVER"
		}
		if hint == "" {
			hint = "[space] play again   [esc] quit"
		}
		centered(c, w/2, h/2-2, styleAccent, banner)
		centered(c, w/2, h/2, styleBase, fmt.Sprintf("Final score: %d", r.Score()))
		centered(c, w/2, h/2+2, styleDim, hint)
	}
}
