package console

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"BridgeSim/internal/game"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
	ErrLocalOnly      = errors.New("command only available on the local console")
)

// Action runs on the loop goroutine. A non-empty result is echoed to the console.
type Action func(g *game.Game) string

// Command is one console verb with its help entry.
type Command struct {
	Name        string
	Arguments   string
	Description string
	// Local commands run on the caller's goroutine and receive a nil game.
	// Network viewers cannot run them.
	Local bool
	Parse func(args []string) (Action, error)
}

func (c Command) usage() error {
	return fmt.Errorf("%w: %s %s", ErrUsage, c.Name, c.Arguments)
}

type Registry struct {
	byName map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Command)}
}

func (r *Registry) Register(c Command) error {
	name := strings.ToLower(strings.TrimSpace(c.Name))
	if name == "" || c.Parse == nil {
		return fmt.Errorf("register %q: name and parser required", c.Name)
	}
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("register %q: already registered", name)
	}
	c.Name = name
	r.byName[name] = c
	return nil
}

func (r *Registry) Lookup(name string) (Command, bool) {
	c, ok := r.byName[strings.ToLower(name)]
	return c, ok
}

// Help returns one entry per command, sorted by name.
func (r *Registry) Help() []game.HelpEntry {
	out := make([]game.HelpEntry, 0, len(r.byName))
	for _, c := range r.byName {
		out = append(out, game.HelpEntry{Command: c.Name, Arguments: c.Arguments, Description: c.Description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Command < out[j].Command })
	return out
}

func parseMount(s string) (string, bool) {
	switch strings.ToLower(s) {
	case game.MountFore:
		return game.MountFore, true
	case game.MountAft:
		return game.MountAft, true
	}
	return "", false
}

func parseFloats(args []string) ([]float64, bool) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// DefaultCommands is the bridge command set. quit ends the session; help
// prints to out.
func DefaultCommands(quit func(), help func() []game.HelpEntry, show func(cmd, args, desc string)) []Command {
	var cmds []Command

	alert := Command{Name: "alert", Arguments: "<none|yellow|red>", Description: "Set the ship's alert level."}
	alert.Parse = func(args []string) (Action, error) {
		if len(args) != 1 {
			return nil, alert.usage()
		}
		level, err := game.ParseAlertLevel(args[0])
		if err != nil {
			return nil, err
		}
		return func(g *game.Game) string {
			g.SetAlert(level)
			return "alert " + level.String()
		}, nil
	}
	cmds = append(cmds, alert)

	aim := Command{Name: "aim", Arguments: "<fore|aft> <dx> <dy>", Description: "Slew a cannon by the given angles in radians."}
	aim.Parse = func(args []string) (Action, error) {
		if len(args) != 3 {
			return nil, aim.usage()
		}
		mount, ok := parseMount(args[0])
		v, okf := parseFloats(args[1:])
		if !ok || !okf {
			return nil, aim.usage()
		}
		return func(g *game.Game) string {
			c := g.Ship().Cannon(mount)
			if c == nil {
				return "no cannon on " + mount
			}
			c.RotationDelta.X += v[0]
			c.RotationDelta.Y += v[1]
			return ""
		}, nil
	}
	cmds = append(cmds, aim)

	fire := Command{Name: "fire", Arguments: "<fore|aft> [power]", Description: "Fire a cannon."}
	fire.Parse = func(args []string) (Action, error) {
		if len(args) < 1 || len(args) > 2 {
			return nil, fire.usage()
		}
		mount, ok := parseMount(args[0])
		if !ok {
			return nil, fire.usage()
		}
		power := 1.0
		if len(args) == 2 {
			v, okf := parseFloats(args[1:])
			if !okf || v[0] <= 0 {
				return nil, fire.usage()
			}
			power = v[0]
		}
		return func(g *game.Game) string {
			if c := g.Ship().Cannon(mount); c != nil {
				c.Power = power
			}
			return ""
		}, nil
	}
	cmds = append(cmds, fire)

	thrust := Command{Name: "thrust", Arguments: "<0..1>", Description: "Set booster throttle."}
	thrust.Parse = func(args []string) (Action, error) {
		if len(args) != 1 {
			return nil, thrust.usage()
		}
		v, ok := parseFloats(args)
		if !ok || v[0] < 0 || v[0] > 1 {
			return nil, thrust.usage()
		}
		return func(g *game.Game) string {
			g.Ship().Boosters.Throttle = v[0]
			return ""
		}, nil
	}
	cmds = append(cmds, thrust)

	turn := Command{Name: "turn", Arguments: "<x> <y>", Description: "Set the ship's pitch and yaw rate in radians per frame."}
	turn.Parse = func(args []string) (Action, error) {
		if len(args) != 2 {
			return nil, turn.usage()
		}
		v, ok := parseFloats(args)
		if !ok {
			return nil, turn.usage()
		}
		return func(g *game.Game) string {
			s := g.Ship()
			s.AngularVelocity.X = v[0]
			s.AngularVelocity.Y = v[1]
			return ""
		}, nil
	}
	cmds = append(cmds, turn)

	drone := Command{Name: "drone", Description: "Spawn a target drone ahead of the ship."}
	drone.Parse = func(args []string) (Action, error) {
		if len(args) != 0 {
			return nil, drone.usage()
		}
		return func(g *game.Game) string {
			d := g.SpawnTargetDrone()
			return fmt.Sprintf("drone %d launched", d.ID)
		}, nil
	}
	cmds = append(cmds, drone)

	guide := Command{Name: "guide", Arguments: "[console|modal]", Description: "Show the command guide."}
	guide.Parse = func(args []string) (Action, error) {
		if len(args) > 1 {
			return nil, guide.usage()
		}
		var raw string
		if len(args) == 1 {
			raw = args[0]
		}
		target, err := game.ParseGuideTarget(raw)
		if err != nil {
			return nil, err
		}
		return func(g *game.Game) string {
			g.Guide(target)
			return ""
		}, nil
	}
	cmds = append(cmds, guide)

	status := Command{Name: "status", Description: "Report ship status."}
	status.Parse = func([]string) (Action, error) {
		return func(g *game.Game) string {
			v := g.Ship().Snapshot()
			return fmt.Sprintf("frame %d stardate %.1f fps %.0f | hull %.0f sif %.0f/%.0f | speed %.1f output %.2f | alert %s | behaviors %d",
				g.FrameNumber(), g.Stardate(), g.FPS(), v.Hull, v.SIF.Strength, v.SIF.Max,
				v.Speed(), v.Boosters.Output, g.Alert(), g.Behaviors())
		}, nil
	}
	cmds = append(cmds, status)

	cmds = append(cmds,
		Command{
			Name: "version", Description: "Print the simulator version.", Local: true,
			Parse: func([]string) (Action, error) {
				return func(*game.Game) string { return "BridgeSim " + game.Version }, nil
			},
		},
		Command{
			Name: "help", Description: "List console commands.", Local: true,
			Parse: func([]string) (Action, error) {
				return func(*game.Game) string {
					for _, e := range help() {
						show(e.Command, e.Arguments, e.Description)
					}
					return ""
				}, nil
			},
		},
		Command{
			Name: "quit", Description: "Leave the bridge.", Local: true,
			Parse: func([]string) (Action, error) {
				return func(*game.Game) string {
					if quit != nil {
						quit()
					}
					return "bye"
				}, nil
			},
		},
	)
	return cmds
}
