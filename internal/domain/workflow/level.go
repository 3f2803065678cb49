package workflow

import "strconv"

// Level is the position of the current pointer into the approver chain.
// LevelFinal is the sentinel meaning no approver action is pending.
type Level int

const (
	LevelFinal Level = 0
	Level1     Level = 1
	Level2     Level = 2
	Level3     Level = 3
)

// MaxLevel is the number of approver slots in a chain.
const MaxLevel = 3

// IsValid returns true for levels 1..3 and the Final sentinel
func (l Level) IsValid() bool {
	return l == LevelFinal || (l >= Level1 && l <= Level3)
}

// IsFinal returns true when the level is the Final sentinel
func (l Level) IsFinal() bool {
	return l == LevelFinal
}

// String returns "Final" for the sentinel and the decimal digit otherwise
func (l Level) String() string {
	if l == LevelFinal {
		return "Final"
	}
	return strconv.Itoa(int(l))
}

// Display returns the persisted textual form of the level
func (l Level) Display() string {
	return l.String()
}
