// Package panel holds the view state of the control panel page: which
// navigation panel is shown, the network interface rows and the disk picker.
package panel

import (
	"fmt"

	"github.com/primal-host/zpanel/internal/config"
)

// Link is one navigation entry and the panel it shows.
type Link struct {
	PanelID string
	Label   string
	Active  bool
}

// Nav tracks the active link/panel pair. Exactly one pair is active at any
// time.
type Nav struct {
	links  []Link
	active int
}

// NewNav creates a Nav over panels with the first one active.
func NewNav(panels []config.PanelConfig) (*Nav, error) {
	if len(panels) == 0 {
		return nil, fmt.Errorf("nav: no panels")
	}
	n := &Nav{links: make([]Link, 0, len(panels))}
	for _, p := range panels {
		label := p.Label
		if label == "" {
			label = p.ID
		}
		n.links = append(n.links, Link{PanelID: p.ID, Label: label})
	}
	n.links[0].Active = true
	return n, nil
}

// Activate deactivates the current pair and activates the one for panelID.
// Activating the active panel keeps it active. An unknown panel leaves the
// state as it was.
func (n *Nav) Activate(panelID string) error {
	for i, l := range n.links {
		if l.PanelID != panelID {
			continue
		}
		n.links[n.active].Active = false
		n.links[i].Active = true
		n.active = i
		return nil
	}
	return fmt.Errorf("nav: unknown panel %q", panelID)
}

// Active returns the id of the active panel.
func (n *Nav) Active() string {
	return n.links[n.active].PanelID
}

// Links returns a copy of the navigation entries in order.
func (n *Nav) Links() []Link {
	return append([]Link(nil), n.links...)
}
