package hud

import (
	"bufio"
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BridgeSim/internal/game"
)

func newTestTerminal(t *testing.T) (*Terminal, *int) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	quits := 0
	return NewTerminal(screen, func() { quits++ }), &quits
}

func TestTerminalRendersStatus(t *testing.T) {
	term, _ := newTestTerminal(t)
	ship := game.NewShip()
	ship.Boosters.Output = 0.5
	term.Render(42, 16*time.Millisecond, ship.Snapshot(), game.AlertYellow)

	status, _, _, _, _ := term.Snapshot()
	require.Len(t, status, 4)
	assert.Contains(t, status[0], "FRAME 42")
	assert.Contains(t, status[0], "ALERT YELLOW")
	assert.Contains(t, status[1], "HULL 100")
	assert.Contains(t, status[1], "BOOST  50%")
}

func TestTerminalLogPane(t *testing.T) {
	term, _ := newTestTerminal(t)
	_, err := fmt.Fprint(term, "first\nsec")
	require.NoError(t, err)
	_, logs, _, _, _ := term.Snapshot()
	assert.Equal(t, []string{"first"}, logs)

	_, _ = fmt.Fprint(term, "ond\n")
	_, logs, _, _, _ = term.Snapshot()
	assert.Equal(t, []string{"first", "second"}, logs)

	for i := 0; i < logPaneLines+10; i++ {
		_, _ = fmt.Fprintf(term, "line %d\n", i)
	}
	_, logs, _, _, _ = term.Snapshot()
	assert.Len(t, logs, logPaneLines)
	assert.Equal(t, fmt.Sprintf("line %d", logPaneLines+9), logs[len(logs)-1])
}

func TestTerminalPresentation(t *testing.T) {
	term, _ := newTestTerminal(t)
	term.FlashViewscreen(game.AlertRed)
	_, _, _, _, border := term.Snapshot()
	assert.Equal(t, game.AlertRed, border)

	term.SetViewscreenBorder(game.AlertNone)
	_, _, _, _, border = term.Snapshot()
	assert.Equal(t, game.AlertNone, border)

	term.ShowGuideModal([]game.HelpEntry{{Command: "fire", Arguments: "<fore|aft>"}})
	assert.Len(t, term.Guide(), 1)
	term.handleKey(tcell.KeyEscape, 0)
	assert.Empty(t, term.Guide())

	term.ShowGameOverBanner(false)
	_, _, banner, _, _ := term.Snapshot()
	assert.Equal(t, "SHIP DESTROYED", banner)
	term.ShowGameOverBanner(true)
	_, _, banner, _, _ = term.Snapshot()
	assert.Equal(t, "MISSION COMPLETE", banner)
}

func TestTerminalInputLine(t *testing.T) {
	term, quits := newTestTerminal(t)
	for _, r := range "thrusx" {
		term.handleKey(tcell.KeyRune, r)
	}
	term.handleKey(tcell.KeyBackspace2, 0)
	for _, r := range "t 1" {
		term.handleKey(tcell.KeyRune, r)
	}
	_, _, _, line, _ := term.Snapshot()
	assert.Equal(t, "thrust 1", line)

	term.handleKey(tcell.KeyEnter, 0)
	sc := bufio.NewScanner(term.Input())
	require.True(t, sc.Scan())
	assert.Equal(t, "thrust 1", sc.Text())

	_, _, _, line, _ = term.Snapshot()
	assert.Empty(t, line)

	term.handleKey(tcell.KeyCtrlC, 0)
	assert.Equal(t, 1, *quits)

	term.input.close()
	assert.False(t, sc.Scan())
}

func TestInputBacklogDropsWhenFull(t *testing.T) {
	r := newInputReader()
	for i := 0; i < inputBacklog; i++ {
		require.True(t, r.submit("x"))
	}
	assert.False(t, r.submit("overflow"))
	r.close()
	assert.False(t, r.submit("closed"))
}

func TestLogViewReportsEveryN(t *testing.T) {
	var buf bytes.Buffer
	v := NewLogView(zerolog.New(&buf), 10)
	ship := game.NewShip().Snapshot()
	for f := uint64(1); f <= 30; f++ {
		v.Render(f, time.Millisecond, ship, game.AlertNone)
	}
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte(`"message":"status"`)))

	buf.Reset()
	v.ShowGameOverBanner(true)
	assert.Contains(t, buf.String(), "MISSION COMPLETE")
}

type countingHUD struct{ frames []uint64 }

func (c *countingHUD) Render(frame uint64, _ time.Duration, _ game.ShipView, _ game.AlertLevel) {
	c.frames = append(c.frames, frame)
}

func TestFanoutDeliversToAll(t *testing.T) {
	a, b := &countingHUD{}, &countingHUD{}
	f := Fanout{a, nil, b}
	f.Render(7, 0, game.ShipView{}, game.AlertNone)
	assert.Equal(t, []uint64{7}, a.frames)
	assert.Equal(t, []uint64{7}, b.frames)
}
