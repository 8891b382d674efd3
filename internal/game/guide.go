package game

import (
	"fmt"
	"sort"
	"strings"
)

// HelpEntry documents one console command.
type HelpEntry struct {
	Command     string
	Arguments   string
	Description string
}

type GuideTarget int

const (
	GuideConsole GuideTarget = iota
	GuideModal
)

func ParseGuideTarget(s string) (GuideTarget, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "console":
		return GuideConsole, nil
	case "modal":
		return GuideModal, nil
	}
	return GuideConsole, fmt.Errorf("unknown guide target %q", s)
}

// SetHelp replaces the guide entries. Entries are kept sorted by command.
func (g *Game) SetHelp(entries []HelpEntry) {
	help := make([]HelpEntry, 0, len(entries))
	for _, e := range entries {
		e.Command = strings.Join(strings.Fields(e.Command), "")
		if e.Command == "" {
			continue
		}
		help = append(help, e)
	}
	sort.SliceStable(help, func(i, j int) bool { return help[i].Command < help[j].Command })
	g.help = help
}

func (g *Game) Help() []HelpEntry {
	return append([]HelpEntry(nil), g.help...)
}

// Guide shows the help entries on the console or in the guide dialog.
func (g *Game) Guide(target GuideTarget) {
	switch target {
	case GuideConsole:
		for _, e := range g.help {
			g.console.ShowHelp(e.Command, e.Arguments, e.Description)
		}
	case GuideModal:
		g.presentation.ShowGuideModal(g.Help())
	}
}
