// Package camera provides the five-axis camera rig used by the map viewport.
package camera

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/mapview/pkg/math"
)

// Axis identifies one of the five camera controls.
type Axis uint8

const (
	PanX Axis = iota
	PanY
	Zoom
	Rotate
	Tilt

	axisCount
)

// Center is the neutral value of every normalised axis.
const Center = 50.0

// MinDistance keeps the eye off the look-at point when zoom reaches zero.
const MinDistance = 1.0

// FieldOfView is the vertical field of view in degrees.
const FieldOfView = 60.0

var axisNames = [axisCount]string{"pan_x", "pan_y", "zoom", "rotate", "tilt"}

// Axes lists every axis in slider order.
var Axes = [axisCount]Axis{PanX, PanY, Zoom, Rotate, Tilt}

// String returns the axis name used in config and wire messages.
func (a Axis) String() string {
	if a < axisCount {
		return axisNames[a]
	}
	return fmt.Sprintf("axis(%d)", uint8(a))
}

// ParseAxis maps a name back to its axis.
func ParseAxis(name string) (Axis, error) {
	for i, n := range axisNames {
		if n == name {
			return Axis(i), nil
		}
	}
	return 0, fmt.Errorf("unknown camera axis %q", name)
}

// State is the derived camera pose. Rotate and Tilt are in degrees.
type State struct {
	PanX   float64
	PanY   float64
	Zoom   float64
	Rotate float64
	Tilt   float64
}

// Rig stores the normalised [0,100] axis values and derives the pose from
// them, so a terrain size change re-scales pan and zoom without touching the
// user's slider positions.
type Rig struct {
	values  [axisCount]float64
	maxSize float64
}

// NewRig creates a rig with every axis centred.
func NewRig(maxSize int) *Rig {
	r := &Rig{maxSize: float64(maxSize)}
	r.Reset()
	return r
}

func defaults() [axisCount]float64 {
	return [axisCount]float64{Center, Center, Center, Center, Center}
}

// Reset returns all five axes to the centre in one assignment.
func (r *Rig) Reset() {
	r.values = defaults()
}

// IsDefault reports whether every axis sits at the centre.
func (r *Rig) IsDefault() bool {
	return r.values == defaults()
}

// Set stores a normalised value, clamped to [0,100].
// Returns false when the stored value did not change.
func (r *Rig) Set(axis Axis, v float64) bool {
	if axis >= axisCount || gomath.IsNaN(v) {
		return false
	}
	v = min(max(v, 0), 100)
	if r.values[axis] == v {
		return false
	}
	r.values[axis] = v
	return true
}

// Value returns the normalised value of an axis.
func (r *Rig) Value(axis Axis) float64 {
	if axis >= axisCount {
		return 0
	}
	return r.values[axis]
}

// Values returns all normalised values in axis order.
func (r *Rig) Values() [5]float64 {
	return r.values
}

// SetMaxSize updates the terrain size the pan and zoom ranges scale with.
func (r *Rig) SetMaxSize(px int) {
	r.maxSize = float64(px)
}

// MaxSize returns the current terrain size.
func (r *Rig) MaxSize() int {
	return int(r.maxSize)
}

// State derives the camera scalars from the normalised values.
func (r *Rig) State() State {
	v := r.values
	return State{
		PanX:   r.maxSize * (v[PanX] - 50) / 100,
		PanY:   r.maxSize * (50 - v[PanY]) / 100,
		Zoom:   r.maxSize * (100 - v[Zoom]) / 100,
		Rotate: 180 * (v[Rotate] - 50) / 50,
		Tilt:   1.79 * (v[Tilt] - 50),
	}
}

// Eye returns the camera position relative to the terrain centre.
// The terrain lies in the XY plane with heights towards -Z; the untilted
// camera looks straight down +Z.
func (r *Rig) Eye() math.Vec3 {
	s := r.State()
	d := max(s.Zoom, MinDistance)
	t := float64(math.Radians(float32(s.Tilt)))
	return math.Vec3{
		X: 0,
		Y: float32(-d * gomath.Sin(t)),
		Z: float32(-d * gomath.Cos(t)),
	}
}

// View returns the view matrix: pan · look-at · rotation about the terrain normal.
func (r *Rig) View() math.Mat4 {
	s := r.State()
	up := math.Vec3{X: 0, Y: -1, Z: 0}
	look := math.LookAt(r.Eye(), math.Vec3{}, up)
	pan := math.Translate(float32(s.PanX), float32(s.PanY), 0)
	spin := math.RotateZ(math.Radians(float32(s.Rotate)))
	return pan.Mul(look).Mul(spin)
}

// Projection returns the perspective projection for the given aspect ratio.
func (r *Rig) Projection(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	near := float32(max(r.maxSize/1000, 0.01))
	far := float32(max(4*r.maxSize, 1))
	return math.Perspective(math.Radians(FieldOfView), aspect, near, far)
}

// ViewProjection returns Projection · View.
func (r *Rig) ViewProjection(aspect float32) math.Mat4 {
	return r.Projection(aspect).Mul(r.View())
}
