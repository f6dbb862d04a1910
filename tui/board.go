/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package tui

import (
	"fmt"
	"strings"

	"github.com/Seednode/slicebox/protocol"
	"github.com/skip2/go-qrcode"
)

const (
	liveRows   = 7
	podiumRows = 3
)

// QRBlock renders data as a terminal QR code made of half-block runes.
func QRBlock(data string) (string, error) {
	qr, err := qrcode.New(data, qrcode.Medium)
	if err != nil {
		return "", err
	}
	return qr.ToSmallString(false), nil
}

// drawLobby shows how to join and who already has.
func drawLobby(c canvas, st protocol.GameState, joinURL, qr string) {
	w, _ := c.Size()

	y := 1
	centered(c, w/2, y, styleTitle, "SLICEBOX")
	y += 2

	if qr != "" {
		y = block(c, y, styleBase, qr)
	}
	centered(c, w/2, y, styleAccent, spaced(st.PIN))
	y++
	centered(c, w/2, y, styleDim, "ROOM PIN")
	y++
	if joinURL != "" {
		centered(c, w/2, y, styleDim, joinURL)
		y++
	}
	y++

	centered(c, w/2, y, styleBase, fmt.Sprintf("%d ninjas ready", len(st.Players)))
	y += 2

	names := make([]string, 0, len(st.Players))
	for _, p := range st.Players {
		names = append(names, p.Name)
	}
	for _, line := range wrap(names, w-4) {
		centered(c, w/2, y, styleBase, line)
		y++
	}

	hint := "[s] start   [q] quit"
	if len(st.Players) == 0 {
		hint = "waiting for players   [q] quit"
	}
	_, h := c.Size()
	centered(c, w/2, h-1, styleDim, hint)
}

// drawLive shows the top players with bars relative to the leader.
func drawLive(c canvas, st protocol.GameState) {
	w, h := c.Size()

	text(c, 2, 1, styleTitle, "LIVE RANKINGS")
	text(c, w-len(st.PIN)-2, 1, styleDim, st.PIN)

	top := protocol.Leaderboard(st.Players, liveRows)
	lead := 1
	if len(top) > 0 && top[0].Score > 0 {
		lead = top[0].Score
	}

	barWidth := max(w-40, 10)
	for i, p := range top {
		y := 3 + i*2
		text(c, 2, y, styleAccent, fmt.Sprintf("%d", i+1))
		text(c, 5, y, styleBase, truncate(p.Name, 16))
		bar(c, 22, y, barWidth, float64(p.Score)/float64(lead), styleBar)
		text(c, 23+barWidth, y, styleTitle, fmt.Sprintf("%d", p.Score))
		text(c, 30+barWidth, y, styleHeart, hearts(p.Lives))
	}

	centered(c, w/2, h-1, styleDim, "[e] end game   [q] quit")
}

// drawPodium shows the top three with the winner in the middle.
func drawPodium(c canvas, st protocol.GameState) {
	w, h := c.Size()

	centered(c, w/2, 1, styleTitle, "PODIUM")

	top := protocol.Leaderboard(st.Players, podiumRows)
	if len(top) == 0 {
		centered(c, w/2, h/2, styleDim, "nobody played")
		centered(c, w/2, h-1, styleDim, "[q] quit")
		return
	}

	// Second left, first center, third right; taller columns rank higher.
	slots := []struct {
		rank, dx, height int
	}{
		{2, -18, 6},
		{1, 0, 9},
		{3, 18, 4},
	}

	base := h - 4
	for _, s := range slots {
		if s.rank > len(top) {
			continue
		}
		p := top[s.rank-1]
		cx := w/2 + s.dx

		for y := base - s.height + 1; y <= base; y++ {
			text(c, cx-5, y, styleBar, strings.Repeat("█", 11))
		}
		centered(c, cx, base-s.height/2, styleAccent.Reverse(true), fmt.Sprintf(" %d ", s.rank))
		centered(c, cx, base-s.height-1, styleTitle, fmt.Sprintf("%d", p.Score))
		centered(c, cx, base-s.height-2, styleBase, truncate(p.Name, 14))
		if s.rank == 1 {
			centered(c, cx, base-s.height-3, styleTitle, "♛")
		}
	}

	centered(c, w/2, h-1, styleDim, "[q] quit")
}

// spaced puts a space between digits so the PIN reads well from afar.
func spaced(pin string) string {
	return strings.Join(strings.Split(pin, ""), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// wrap packs names into lines no wider than width.
func wrap(names []string, width int) []string {
	var lines []string
	var cur string
	for _, n := range names {
		n = truncate(n, 20)
		switch {
		case cur == "":
			cur = n
		case len([]rune(cur))+3+len([]rune(n)) <= width:
			cur += " · " + n
		default:
			lines = append(lines, cur)
			cur = n
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
