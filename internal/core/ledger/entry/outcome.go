package entry

import "fmt"

// Outcome is the resolution state of a market. It is a closed set: a market
// is either unresolved or resolved to exactly one of its two options.
type Outcome uint8

const (
	OutcomeUnresolved Outcome = iota
	OutcomeOptionA
	OutcomeOptionB
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnresolved:
		return "Unresolved"
	case OutcomeOptionA:
		return "OptionA"
	case OutcomeOptionB:
		return "OptionB"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// Valid reports whether o is one of the declared variants.
func (o Outcome) Valid() bool {
	return o <= OutcomeOptionB
}
