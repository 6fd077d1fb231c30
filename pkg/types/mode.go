package types

// Mode selects the display vocabulary of the counter. It never changes
// numeric behavior.
type Mode string

// Counter modes. Tasbih is the primary mode, mantra the secondary one.
const (
	ModeTasbih Mode = "tasbih"
	ModeMantra Mode = "mantra"
)

// validModes is the set of recognized mode values.
var validModes = map[Mode]bool{
	ModeTasbih: true,
	ModeMantra: true,
}

// Valid reports whether m is a recognized mode.
func (m Mode) Valid() bool {
	return validModes[m]
}

// ParseMode converts user input into a Mode.
// Returns ErrInvalidMode if the value is not recognized.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", ErrInvalidMode
	}
	return m, nil
}

// Label returns the counter heading shown for the mode.
func (m Mode) Label() string {
	if m == ModeMantra {
		return "Mantra Count"
	}
	return "Tasbih Count"
}

// Other returns the opposite mode.
func (m Mode) Other() Mode {
	if m == ModeMantra {
		return ModeTasbih
	}
	return ModeMantra
}
