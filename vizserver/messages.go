package vizserver

import (
	"encoding/json"

	"github.com/pthm-cable/contagion/agents"
	"github.com/pthm-cable/contagion/components"
	"github.com/pthm-cable/contagion/universe"
)

// ArenaInfo is sent once to every watcher on connect.
type ArenaInfo struct {
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Zone   *ZoneInfo `json:"zone,omitempty"`
}

// ZoneInfo mirrors universe.Zone.
type ZoneInfo struct {
	X1 float64 `json:"x1"`
	X2 float64 `json:"x2"`
}

// ArenaInfoFrom describes the geometry of u.
func ArenaInfoFrom(u *universe.Universe) ArenaInfo {
	info := ArenaInfo{Width: u.Width(), Height: u.Height()}
	if z, ok := u.Zone(); ok {
		info.Zone = &ZoneInfo{X1: z.X1, X2: z.X2}
	}
	return info
}

// Agent is one human as drawn by the viewer.
type Agent struct {
	X float64           `json:"x"`
	Y float64           `json:"y"`
	R float64           `json:"r"`
	H components.Health `json:"h"`
}

// Counts is the health census of a frame.
type Counts struct {
	Susceptible int `json:"susceptible"`
	Infected    int `json:"infected"`
	Removed     int `json:"removed"`
	Died        int `json:"died"`
}

// Frame is a copy of the population after a tick.
type Frame struct {
	Tick   uint64  `json:"tick"`
	Agents []Agent `json:"agents"`
	Counts Counts  `json:"counts"`
}

// FrameFrom copies the current state of u into a Frame.
func FrameFrom(u *universe.Universe) Frame {
	c := u.Counts()
	f := Frame{
		Tick:   u.Ticks(),
		Agents: make([]Agent, 0, u.Len()),
		Counts: Counts{
			Susceptible: c.Susceptible,
			Infected:    c.Infected,
			Removed:     c.Removed,
			Died:        c.Died,
		},
	}
	u.Each(func(_ int, h agents.Human) {
		f.Agents = append(f.Agents, Agent{X: h.Pos.X, Y: h.Pos.Y, R: h.Thickness, H: h.Health})
	})
	return f
}

// envelope tags every message with its type.
type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	msgInit  = "init"
	msgFrame = "frame"
)

func encode(kind string, data any) ([]byte, error) {
	return json.Marshal(envelope{Type: kind, Data: data})
}
