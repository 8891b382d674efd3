// Package console is the bridge's command line: a registry of commands and
// a REPL that feeds them to the game loop.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"BridgeSim/internal/game"
)

const prompt = "> "

type Options struct {
	In     io.Reader
	Out    io.Writer
	Quit   func()
	Logger *zerolog.Logger
}

// Console implements game.Console. Commands that touch game state are
// posted to the loop goroutine.
type Console struct {
	in   io.Reader
	out  io.Writer
	outM sync.Mutex
	reg  *Registry
	game *game.Game
	log  zerolog.Logger
}

func New(opts Options) *Console {
	c := &Console{in: opts.In, out: opts.Out, reg: NewRegistry()}
	if c.out == nil {
		c.out = io.Discard
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	c.log = logger.With().Str("component", "console").Logger()

	for _, cmd := range DefaultCommands(opts.Quit, c.reg.Help, c.ShowHelp) {
		if err := c.reg.Register(cmd); err != nil {
			c.log.Error().Err(err).Msg("command skipped")
		}
	}
	return c
}

// Bind attaches the game commands act on.
func (c *Console) Bind(g *game.Game) { c.game = g }

// Help is the help data for game.Options.
func (c *Console) Help() []game.HelpEntry { return c.reg.Help() }

func (c *Console) ShowHelp(command, arguments, description string) {
	c.printf("%-8s %-22s %s\n", command, arguments, description)
}

func (c *Console) printf(format string, args ...any) {
	c.outM.Lock()
	defer c.outM.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// Exec parses one input line and dispatches it. Blank lines are ignored.
func (c *Console) Exec(line string) error { return c.exec(line, false) }

// ExecRemote is Exec for lines from network viewers. Local commands act on
// the process itself and are refused.
func (c *Console) ExecRemote(line string) error { return c.exec(line, true) }

func (c *Console) exec(line string, remote bool) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, ok := c.reg.Lookup(fields[0])
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}
	if remote && cmd.Local {
		c.log.Warn().Str("command", cmd.Name).Msg("remote command refused")
		return fmt.Errorf("%w: %s", ErrLocalOnly, cmd.Name)
	}
	act, err := cmd.Parse(fields[1:])
	if err != nil {
		return err
	}
	if cmd.Local {
		if msg := act(nil); msg != "" {
			c.printf("%s\n", msg)
		}
		return nil
	}
	if c.game == nil {
		return fmt.Errorf("%s: no game bound", cmd.Name)
	}
	c.log.Debug().Str("command", cmd.Name).Strs("args", fields[1:]).Msg("posted")
	c.game.Post(func(g *game.Game) {
		if msg := act(g); msg != "" {
			c.printf("%s\n", msg)
		}
	})
	return nil
}

// REPL reads commands until the input ends or ctx is cancelled.
func (c *Console) REPL(ctx context.Context) error {
	if c.in == nil {
		<-ctx.Done()
		return nil
	}
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(c.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	c.printf("%s", prompt)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case line := <-lines:
			if err := c.Exec(line); err != nil {
				c.printf("%v\n", err)
			}
			if ctx.Err() != nil {
				return nil
			}
			c.printf("%s", prompt)
		}
	}
}
