package geometry

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Sides is a set of cube faces. Bit positions are part of the mesh cache
// addressing, so the values must never be reordered.
type Sides uint8

const (
	North  Sides = 1 << iota // -z
	South                    // +z
	East                     // +x
	West                     // -x
	Top                      // +y
	Bottom                   // -y

	None Sides = 0
	All        = North | South | East | West | Top | Bottom
)

// SideOrder is the iteration order used whenever sides are walked one by one.
var SideOrder = [6]Sides{North, South, East, West, Top, Bottom}

var sideNames = map[string]Sides{
	"north":  North,
	"south":  South,
	"east":   East,
	"west":   West,
	"top":    Top,
	"bottom": Bottom,
}

// ParseSide maps a model side name to its flag.
func ParseSide(name string) (Sides, bool) {
	s, ok := sideNames[name]
	return s, ok
}

// Has reports whether every side in o is also in s.
func (s Sides) Has(o Sides) bool {
	return s&o == o
}

// Any reports whether s and o share at least one side.
func (s Sides) Any(o Sides) bool {
	return s&o != 0
}

// Opposite mirrors every side in the set (north <-> south, ...).
func (s Sides) Opposite() Sides {
	var out Sides
	if s&North != 0 {
		out |= South
	}
	if s&South != 0 {
		out |= North
	}
	if s&East != 0 {
		out |= West
	}
	if s&West != 0 {
		out |= East
	}
	if s&Top != 0 {
		out |= Bottom
	}
	if s&Bottom != 0 {
		out |= Top
	}
	return out
}

// Offset returns the unit step towards a single side. Sets with more
// than one side return the zero step.
func (s Sides) Offset() (dx, dy, dz int) {
	switch s {
	case North:
		return 0, 0, -1
	case South:
		return 0, 0, 1
	case East:
		return 1, 0, 0
	case West:
		return -1, 0, 0
	case Top:
		return 0, 1, 0
	case Bottom:
		return 0, -1, 0
	}
	return 0, 0, 0
}

// Normal is Offset as a vector.
func (s Sides) Normal() mgl32.Vec3 {
	dx, dy, dz := s.Offset()
	return mgl32.Vec3{float32(dx), float32(dy), float32(dz)}
}

func (s Sides) String() string {
	switch s {
	case None:
		return "none"
	case All:
		return "all"
	}
	names := [6]string{"north", "south", "east", "west", "top", "bottom"}
	parts := make([]string, 0, 6)
	for i, side := range SideOrder {
		if s&side != 0 {
			parts = append(parts, names[i])
		}
	}
	return strings.Join(parts, "|")
}
