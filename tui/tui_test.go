/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package tui

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/Seednode/slicebox/ninja"
	"github.com/Seednode/slicebox/protocol"
	"github.com/gdamore/tcell/v2"
)

// grid is an in-memory canvas.
type grid struct {
	w, h  int
	cells [][]rune
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([][]rune, h)}
	for y := range g.cells {
		g.cells[y] = []rune(strings.Repeat(" ", w))
	}
	return g
}

func (g *grid) SetContent(x, y int, r rune, _ []rune, _ tcell.Style) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y][x] = r
}

func (g *grid) Size() (int, int) { return g.w, g.h }

func (g *grid) row(y int) string { return string(g.cells[y]) }

func (g *grid) String() string {
	lines := make([]string, g.h)
	for y := range g.h {
		lines[y] = g.row(y)
	}
	return strings.Join(lines, "\n")
}

func (g *grid) contains(s string) bool { return strings.Contains(g.String(), s) }

func (g *grid) find(s string) (int, int, bool) {
	for y := range g.h {
		if x := strings.Index(g.row(y), s); x >= 0 {
			return len([]rune(g.row(y)[:x])), y, true
		}
	}
	return 0, 0, false
}

func TestCoordinateMapping(t *testing.T) {
	w, h := fieldSize(80, 24)
	if w != 800 || h != 480 {
		t.Fatalf("fieldSize = %v×%v", w, h)
	}

	p := toField(3, 2)
	if p.X != 35 || p.Y != 50 {
		t.Fatalf("toField(3, 2) = %+v", p)
	}
	if x, y := toCell(p.X, p.Y); x != 3 || y != 2 {
		t.Fatalf("toCell(toField(3, 2)) = %d, %d", x, y)
	}
}

func TestTextClips(t *testing.T) {
	g := newGrid(5, 1)
	end := text(g, 3, 0, styleBase, "abcd")
	if g.row(0) != "   ab" {
		t.Fatalf("row = %q", g.row(0))
	}
	if end != 7 {
		t.Fatalf("end = %d, want 7", end)
	}
	text(g, 0, 3, styleBase, "off screen")
}

func TestBar(t *testing.T) {
	g := newGrid(10, 1)
	bar(g, 0, 0, 10, 0.5, styleBar)
	if g.row(0) != "█████░░░░░" {
		t.Fatalf("bar = %q", g.row(0))
	}
	bar(g, 0, 0, 10, 7, styleBar)
	if g.row(0) != strings.Repeat("█", 10) {
		t.Fatalf("overfull bar = %q", g.row(0))
	}
}

func TestDrawFieldPlacesWords(t *testing.T) {
	sim := ninja.NewSim(ninja.ArcadePolicy(), 800, 480, rand.New(rand.NewPCG(1, 2)))
	e := sim.SpawnAt(ninja.Bad, "Toxic", 400, 400, 0)
	e.Y = 200

	g := newGrid(80, 24)
	drawField(g, sim)

	x, y, ok := g.find("Toxic")
	if !ok {
		t.Fatalf("word not drawn:\n%s", g)
	}
	if y != 10 || x != 40-len("Toxic")/2 {
		t.Fatalf("word at %d,%d", x, y)
	}
}

func TestDrawRoundOverlays(t *testing.T) {
	r := ninja.NewRound(ninja.ArcadePolicy(), 800, 480, rand.New(rand.NewPCG(1, 2)), nil)

	g := newGrid(80, 24)
	drawRound(g, r, "", "")
	if !g.contains("SLICE THE BAD BEHAVIOR") {
		t.Fatalf("menu overlay missing:\n%s", g)
	}

	r.Start()
	g = newGrid(80, 24)
	drawRound(g, r, "", "")
	if !g.contains("SCORE 0") || !g.contains("♥♥♥") {
		t.Fatalf("hud missing:\n%s", g)
	}

	r.Finish()
	g = newGrid(80, 24)
	drawRound(g, r, "OUT OF LIVES", "wait")
	if !g.contains("OUT OF LIVES") || !g.contains("Final score: 0") || !g.contains("wait") {
		t.Fatalf("game over overlay missing:\n%s", g)
	}
}

func roster() protocol.GameState {
	st := protocol.NewGameState("482913")
	st.Players = []protocol.Player{
		{ID: "a", Name: "Ana", Score: 20, Lives: 3},
		{ID: "b", Name: "Ben", Score: 50, Lives: 1},
		{ID: "c", Name: "Chi", Score: 10, Lives: 2},
		{ID: "d", Name: "Dan", Score: 0, Lives: 0},
	}
	return st
}

func TestDrawLobby(t *testing.T) {
	st := roster()
	g := newGrid(80, 40)

	drawHost(g, st, "http://example/ninja/482913", "", "", time.Now())

	for _, want := range []string{"4 8 2 9 1 3", "4 ninjas ready", "Ana · Ben · Chi · Dan", "[s] start"} {
		if !g.contains(want) {
			t.Errorf("lobby missing %q:\n%s", want, g)
		}
	}
}

func TestDrawLiveOrdersByScore(t *testing.T) {
	st := roster()
	st.Phase = protocol.Playing
	start := time.UnixMilli(1_700_000_000_000)
	ms := start.UnixMilli()
	st.StartTime = &ms

	g := newGrid(80, 24)
	drawHost(g, st, "", "", "", start.Add(75*time.Second))

	_, ben, _ := g.find("Ben")
	_, ana, _ := g.find("Ana")
	_, chi, _ := g.find("Chi")
	if !(ben < ana && ana < chi) {
		t.Fatalf("rows ben=%d ana=%d chi=%d:\n%s", ben, ana, chi, g)
	}
	if !g.contains("1:15") {
		t.Errorf("clock missing:\n%s", g)
	}
}

func TestDrawLiveCapsRows(t *testing.T) {
	st := protocol.NewGameState("482913")
	st.Phase = protocol.Playing
	for i := range 10 {
		st.Players = append(st.Players, protocol.Player{ID: string(rune('a' + i)), Name: "P" + string(rune('A'+i)), Score: 100 - i})
	}

	g := newGrid(80, 30)
	drawLive(g, st)

	if !g.contains("PG") || g.contains("PH") {
		t.Fatalf("expected exactly the top 7:\n%s", g)
	}
}

func TestDrawPodium(t *testing.T) {
	st := roster()
	st.Phase = protocol.Finished

	g := newGrid(80, 24)
	drawHost(g, st, "", "", "", time.Now())

	bx, by, ok := g.find("Ben")
	if !ok {
		t.Fatalf("winner missing:\n%s", g)
	}
	ax, ay, _ := g.find("Ana")
	cx, cy, _ := g.find("Chi")
	if !(ax < bx && bx < cx) {
		t.Errorf("podium columns a=%d b=%d c=%d", ax, bx, cx)
	}
	if !(by < ay && ay < cy) {
		t.Errorf("podium heights a=%d b=%d c=%d", ay, by, cy)
	}
	if g.contains("Dan") {
		t.Error("fourth place on the podium")
	}
}

func TestDrawStudent(t *testing.T) {
	r := ninja.NewRound(ninja.StudentPolicy(nil), 800, 480, rand.New(rand.NewPCG(1, 2)), nil)
	st := roster()
	me := st.Players[0]

	g := newGrid(80, 24)
	drawStudent(g, st, me, r)
	if !g.contains("Waiting for the host") || !g.contains("4 players") {
		t.Fatalf("lobby:\n%s", g)
	}

	st.Phase = protocol.Finished
	g = newGrid(80, 24)
	drawStudent(g, st, me, r)
	if !g.contains("ROUND OVER") {
		t.Fatalf("finished:\n%s", g)
	}
}

func TestQRBlock(t *testing.T) {
	qr, err := QRBlock("http://example/ninja/482913")
	if err != nil {
		t.Fatalf("QRBlock: %v", err)
	}
	if lines := strings.Count(qr, "\n"); lines < 10 {
		t.Fatalf("qr has %d lines", lines)
	}
}

func TestClock(t *testing.T) {
	for d, want := range map[time.Duration]string{
		0:                "0:00",
		-time.Second:     "0:00",
		59 * time.Second: "0:59",
		10 * time.Minute: "10:00",
	} {
		if got := clock(d); got != want {
			t.Errorf("clock(%v) = %q, want %q", d, got, want)
		}
	}
}

func TestWrap(t *testing.T) {
	got := wrap([]string{"Ana", "Ben", "Chi"}, 9)
	if len(got) != 2 || got[0] != "Ana · Ben" || got[1] != "Chi" {
		t.Fatalf("wrap = %q", got)
	}
}
