package scene

import (
	"fmt"
	"math"

	"github.com/zeu5/objnav-rl/types"
)

// Placement puts an object on a grid cell
type Placement struct {
	ID types.ObjectID
	I  int
	J  int
	// Size is the apparent area of the object seen from one grid step away
	Size float64
}

// GridConfig describes a synthetic rectangular floor plan
type GridConfig struct {
	Name   string
	Room   string
	Height int
	Width  int
	// GridSize is the length of one MoveAhead, in meters
	GridSize float64
	// VisibilityDistance is how far an object in the field of view counts as visible
	VisibilityDistance float64
	// FieldOfView in degrees
	FieldOfView float64
	Objects     []Placement
}

func DefaultGridConfig(name, room string, height, width int, objects ...Placement) GridConfig {
	return GridConfig{
		Name:               name,
		Room:               room,
		Height:             height,
		Width:              width,
		GridSize:           0.25,
		VisibilityDistance: 1.5,
		FieldOfView:        90,
		Objects:            objects,
	}
}

var (
	rotations = []int{0, 90, 180, 270}
	horizons  = []int{0, 30}
)

// GridKey is the fingerprint of a grid pose: x|z|rotation|horizon
func GridKey(i, j, rotation, horizon int, gridSize float64) string {
	return fmt.Sprintf("%.2f|%.2f|%d|%d", float64(j)*gridSize, float64(i)*gridSize, rotation, horizon)
}

// Generate builds the scene graph of a grid floor plan.
// Cells holding an object block MoveAhead. Rotation 0 faces increasing I, 90 increasing J.
func Generate(c GridConfig) *Scene {
	occupied := make(map[[2]int]bool)
	objects := make([]types.ObjectID, 0, len(c.Objects))
	for _, p := range c.Objects {
		occupied[[2]int{p.I, p.J}] = true
		objects = append(objects, p.ID)
	}

	s := &Scene{
		Name:    c.Name,
		Room:    c.Room,
		Objects: objects,
		States:  make(map[string]*State),
	}
	for i := 0; i < c.Height; i++ {
		for j := 0; j < c.Width; j++ {
			if occupied[[2]int{i, j}] {
				continue
			}
			for _, rot := range rotations {
				for _, hor := range horizons {
					s.States[GridKey(i, j, rot, hor, c.GridSize)] = c.state(i, j, rot, hor, occupied)
				}
			}
		}
	}
	return s
}

func (c GridConfig) state(i, j, rot, hor int, occupied map[[2]int]bool) *State {
	st := &State{
		Transitions: make(map[types.Action]string),
		Objects:     make(map[types.ObjectID]Observation),
	}
	di, dj := heading(rot)
	ni, nj := i+di, j+dj
	if ni >= 0 && ni < c.Height && nj >= 0 && nj < c.Width && !occupied[[2]int{ni, nj}] {
		st.Transitions[types.MoveAhead] = GridKey(ni, nj, rot, hor, c.GridSize)
	}
	st.Transitions[types.RotateLeft] = GridKey(i, j, (rot+270)%360, hor, c.GridSize)
	st.Transitions[types.RotateRight] = GridKey(i, j, (rot+90)%360, hor, c.GridSize)
	if hor == 30 {
		st.Transitions[types.LookUp] = GridKey(i, j, rot, 0, c.GridSize)
	} else {
		st.Transitions[types.LookDown] = GridKey(i, j, rot, 30, c.GridSize)
	}

	for _, p := range c.Objects {
		dz := float64(p.I-i) * c.GridSize
		dx := float64(p.J-j) * c.GridSize
		dist := math.Hypot(dx, dz)
		bearing := math.Atan2(dx, dz) * 180 / math.Pi
		inView := math.Abs(angleDiff(bearing, float64(rot))) <= c.FieldOfView/2+1e-9
		obs := Observation{Distance: dist}
		if inView {
			steps := math.Max(dist/c.GridSize, 1)
			obs.BBoxSize = math.Min(p.Size/(steps*steps), 1)
			obs.Visible = dist <= c.VisibilityDistance
		}
		st.Objects[p.ID] = obs
	}
	return st
}

func heading(rot int) (int, int) {
	switch rot {
	case 0:
		return 1, 0
	case 90:
		return 0, 1
	case 180:
		return -1, 0
	default:
		return 0, -1
	}
}

// angleDiff returns a-b normalized to [-180, 180)
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}
