package joymouse

// Axis indices in joydev numbering.
const (
	AxisLeftX  uint8 = 0
	AxisLeftY  uint8 = 1
	AxisRightX uint8 = 2
	AxisRightY uint8 = 3
)

type Stick struct {
	X int16
	Y int16
}

// AxisState keeps the last reported value of every stick axis. Values stay
// put until the next report for the same axis, so a stick held still keeps
// driving output every frame.
type AxisState struct {
	left  Stick
	right Stick
}

// Update stores value for index and reports whether the index is a stick axis.
func (a *AxisState) Update(index uint8, value int16) bool {
	switch index {
	case AxisLeftX:
		a.left.X = value
	case AxisLeftY:
		a.left.Y = value
	case AxisRightX:
		a.right.X = value
	case AxisRightY:
		a.right.Y = value
	default:
		return false
	}
	return true
}

func (a *AxisState) Snapshot() (left, right Stick) {
	return a.left, a.right
}
