// Package uictl holds small control interfaces shared between state owners
// and the widgets that render them.
package uictl

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

// Knob is a simple on/off toggle control.
type Knob interface {
	Read() bool
	On()
	Off()
	Toggle()
}

// Dial is a control that can read some value.
type Dial[N Number] interface {
	Read() N
}

// CappedDial is a Dial with a maximum cap value.
type CappedDial[N Number] interface {
	Dial[N]
	Cap() (num, max N)
}

// Stepper is a CappedDial that can be moved one notch at a time. CanPrev and
// CanNext report whether a move is currently allowed.
type Stepper[N Number] interface {
	CappedDial[N]
	CanPrev() bool
	CanNext() bool
}

// Position renders a capped dial as "num/max".
func Position[N Number](d CappedDial[N]) string {
	num, maxVal := d.Cap()
	return fmt.Sprintf("%v/%v", num, maxVal)
}
