package config

// Board variants. The input slots map to fixed GPIOs per board; the table
// is injected at startup rather than scattered through the code.
const (
	BoardPi     = "pi"      // full board with camera and modem headers
	BoardPiLite = "pi-lite" // headless variant, different free pins
)

var boardPins = map[string][SlotCount]int{
	BoardPi:     {26, 16, 20, 21},
	BoardPiLite: {5, 6, 13, 19},
}

// DefaultPins returns the default input pins (BCM numbering) for a board
// variant. Unknown boards get the full-board mapping.
func DefaultPins(board string) [SlotCount]int {
	if pins, ok := boardPins[board]; ok {
		return pins
	}
	return boardPins[BoardPi]
}
