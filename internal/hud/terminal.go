// Package hud holds the bridge's HUD and presentation surfaces: a tcell
// terminal, a headless zerolog reporter and a fan-out over both.
package hud

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"BridgeSim/internal/game"
)

const (
	logPaneLines = 200
	flashFrames  = 6
	inputBacklog = 16
)

// inputReader turns submitted lines into an io.Reader for the console.
type inputReader struct {
	ch   chan []byte
	buf  []byte
	once sync.Once
}

func newInputReader() *inputReader {
	return &inputReader{ch: make(chan []byte, inputBacklog)}
}

func (r *inputReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		b, ok := <-r.ch
		if !ok {
			return 0, io.EOF
		}
		r.buf = b
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

// submit queues a line without blocking the UI. It reports false when the
// backlog is full or the reader is closed.
func (r *inputReader) submit(line string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case r.ch <- []byte(line + "\n"):
		return true
	default:
		return false
	}
}

func (r *inputReader) close() { r.once.Do(func() { close(r.ch) }) }

// Terminal draws the HUD, viewscreen border, guide and log pane onto a
// tcell screen and collects console input from the keyboard.
type Terminal struct {
	screen tcell.Screen
	input  *inputReader
	quit   func()

	mu      sync.Mutex
	status  []string
	logs    []string
	partial string
	border  game.AlertLevel
	flash   int
	flashOn game.AlertLevel
	banner  string
	modal   []game.HelpEntry
	line    []rune
}

// NewTerminal wraps an initialised screen. quit is called on Ctrl-C.
func NewTerminal(screen tcell.Screen, quit func()) *Terminal {
	return &Terminal{screen: screen, input: newInputReader(), quit: quit}
}

// Input is the console's line source.
func (t *Terminal) Input() io.Reader { return t.input }

// Render implements game.HUD.
func (t *Terminal) Render(frame uint64, dt time.Duration, ship game.ShipView, alert game.AlertLevel) {
	t.mu.Lock()
	t.status = statusLines(frame, dt, ship, alert)
	if t.flash > 0 {
		t.flash--
	}
	t.mu.Unlock()
	t.draw()
}

func statusLines(frame uint64, dt time.Duration, ship game.ShipView, alert game.AlertLevel) []string {
	fps := 0.0
	if dt > 0 {
		fps = float64(time.Second) / float64(dt)
	}
	return []string{
		fmt.Sprintf("FRAME %-8d FPS %-5.0f ALERT %s", frame, fps, strings.ToUpper(alert.String())),
		fmt.Sprintf("HULL %3.0f  SIF %3.0f/%-3.0f  BOOST %3.0f%%", ship.Hull, ship.SIF.Strength, ship.SIF.Max, ship.Boosters.Output*100),
		fmt.Sprintf("POS %7.1f %7.1f %7.1f  SPD %5.1f", ship.Position.X, ship.Position.Y, ship.Position.Z, ship.Speed()),
		fmt.Sprintf("FORE %+5.2f %+5.2f  AFT %+5.2f %+5.2f",
			ship.Fore.Rotation.X, ship.Fore.Rotation.Y, ship.Aft.Rotation.X, ship.Aft.Rotation.Y),
	}
}

func (t *Terminal) SetViewscreenBorder(level game.AlertLevel) {
	t.mu.Lock()
	t.border = level
	t.flash = 0
	t.mu.Unlock()
}

func (t *Terminal) FlashViewscreen(level game.AlertLevel) {
	t.mu.Lock()
	t.border = level
	t.flashOn = level
	t.flash = flashFrames
	t.mu.Unlock()
}

func (t *Terminal) ShowGuideModal(entries []game.HelpEntry) {
	t.mu.Lock()
	t.modal = append([]game.HelpEntry(nil), entries...)
	t.mu.Unlock()
	t.draw()
}

func (t *Terminal) ShowGameOverBanner(victory bool) {
	t.mu.Lock()
	if victory {
		t.banner = "MISSION COMPLETE"
	} else {
		t.banner = "SHIP DESTROYED"
	}
	t.mu.Unlock()
	t.draw()
}

// Write appends to the log pane. Partial lines are held until a newline.
func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	text := t.partial + string(p)
	parts := strings.Split(text, "\n")
	t.partial = parts[len(parts)-1]
	for _, l := range parts[:len(parts)-1] {
		t.logs = append(t.logs, strings.TrimRight(l, "\r"))
	}
	if over := len(t.logs) - logPaneLines; over > 0 {
		t.logs = append(t.logs[:0], t.logs[over:]...)
	}
	t.mu.Unlock()
	return len(p), nil
}

// Start polls keyboard events until ctx ends, then restores the terminal.
func (t *Terminal) Start(ctx context.Context) {
	events := make(chan tcell.Event)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		defer t.input.close()
		defer t.screen.Fini()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				switch ev := ev.(type) {
				case *tcell.EventKey:
					t.handleKey(ev.Key(), ev.Rune())
				case *tcell.EventResize:
					t.screen.Sync()
				}
				t.draw()
			}
		}
	}()
}

func (t *Terminal) handleKey(key tcell.Key, r rune) {
	switch key {
	case tcell.KeyCtrlC:
		if t.quit != nil {
			t.quit()
		}
	case tcell.KeyEscape:
		t.mu.Lock()
		t.modal = nil
		t.mu.Unlock()
	case tcell.KeyEnter:
		t.mu.Lock()
		line := string(t.line)
		t.line = t.line[:0]
		t.mu.Unlock()
		if !t.input.submit(line) {
			fmt.Fprintf(t, "input dropped: %s\n", line)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		t.mu.Lock()
		if n := len(t.line); n > 0 {
			t.line = t.line[:n-1]
		}
		t.mu.Unlock()
	case tcell.KeyRune:
		t.mu.Lock()
		t.line = append(t.line, r)
		t.mu.Unlock()
	}
}

var borderStyle = map[game.AlertLevel]tcell.Style{
	game.AlertNone:   tcell.StyleDefault.Foreground(tcell.ColorGray),
	game.AlertYellow: tcell.StyleDefault.Foreground(tcell.ColorYellow),
	game.AlertRed:    tcell.StyleDefault.Foreground(tcell.ColorRed),
}

func (t *Terminal) draw() {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.screen
	w, h := s.Size()
	if w < 4 || h < 4 {
		return
	}
	s.Clear()

	style := borderStyle[t.border]
	if t.flash > 0 && t.flash%2 == 0 {
		style = borderStyle[t.flashOn].Reverse(true)
	}
	for x := 0; x < w; x++ {
		s.SetContent(x, 0, '═', nil, style)
		s.SetContent(x, h-1, '═', nil, style)
	}
	for y := 1; y < h-1; y++ {
		s.SetContent(0, y, '║', nil, style)
		s.SetContent(w-1, y, '║', nil, style)
	}

	row := 1
	for _, l := range t.status {
		putStr(s, 2, row, w-4, l, tcell.StyleDefault)
		row++
	}
	row++

	if t.banner != "" {
		putStr(s, (w-len(t.banner))/2, row, w-4, t.banner, tcell.StyleDefault.Bold(true).Reverse(true))
		row += 2
	}

	if len(t.modal) > 0 {
		putStr(s, 2, row, w-4, "GUIDE (esc to close)", tcell.StyleDefault.Bold(true))
		row++
		for _, e := range t.modal {
			if row >= h-3 {
				break
			}
			putStr(s, 2, row, w-4, fmt.Sprintf("%-8s %-22s %s", e.Command, e.Arguments, e.Description), tcell.StyleDefault)
			row++
		}
		row++
	}

	logRows := h - 3 - row
	if logRows > 0 {
		start := len(t.logs) - logRows
		if start < 0 {
			start = 0
		}
		for _, l := range t.logs[start:] {
			putStr(s, 2, row, w-4, l, tcell.StyleDefault.Dim(true))
			row++
		}
	}

	putStr(s, 2, h-2, w-4, "> "+string(t.line), tcell.StyleDefault)
	s.Show()
}

func putStr(s tcell.Screen, x, y, max int, text string, style tcell.Style) {
	if x < 1 {
		x = 1
	}
	i := 0
	for _, r := range text {
		if i >= max {
			return
		}
		s.SetContent(x+i, y, r, nil, style)
		i++
	}
}

// Snapshot returns the status, log pane, banner and input line for inspection.
func (t *Terminal) Snapshot() (status, logs []string, banner, line string, border game.AlertLevel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.status...), append([]string(nil), t.logs...), t.banner, string(t.line), t.border
}

// Guide returns the entries currently shown in the guide modal.
func (t *Terminal) Guide() []game.HelpEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]game.HelpEntry(nil), t.modal...)
}
