package entity

import "fmt"

// DefaultModifierTag is the tag a modifier targets when none is set.
const DefaultModifierTag = "math"

// ModifierType identifies what a modifier does.
type ModifierType string

const (
	ModifierHP                 ModifierType = "HP"
	ModifierHardcore           ModifierType = "HARDCORE"
	ModifierGambling           ModifierType = "GAMBLING"
	ModifierNoGambling         ModifierType = "NO_GAMBLING"
	ModifierGamechanger        ModifierType = "GAMECHANGER"
	ModifierEquivalentExchange ModifierType = "EQUIVALENT_EXCHANGE"
)

// ModifierTypes lists every modifier type in draw order.
var ModifierTypes = []ModifierType{
	ModifierHP,
	ModifierHardcore,
	ModifierGambling,
	ModifierNoGambling,
	ModifierGamechanger,
	ModifierEquivalentExchange,
}

// Valid reports whether t is one of the known modifier types.
func (t ModifierType) Valid() bool {
	switch t {
	case ModifierHP, ModifierHardcore, ModifierGambling, ModifierNoGambling,
		ModifierGamechanger, ModifierEquivalentExchange:
		return true
	default:
		return false
	}
}

// Modifier is a persistent reward altering a tag's stats or the player's HP.
type Modifier struct {
	Type        ModifierType
	Tag         string // Target tag; empty means DefaultModifierTag
	Description string
}

// TargetTag returns the tag the modifier applies to.
func (m Modifier) TargetTag() string {
	if m.Tag == "" {
		return DefaultModifierTag
	}
	return m.Tag
}

// DescribeModifier returns the human-readable text for a modifier type
// bound to a tag. The same (type, tag) always yields the same text.
func DescribeModifier(t ModifierType, tag string) string {
	if tag == "" {
		tag = DefaultModifierTag
	}
	switch t {
	case ModifierHP:
		return "Recover +1 HP"
	case ModifierHardcore:
		return fmt.Sprintf("Hardcore: %s Diff+0.5", tag)
	case ModifierGambling:
		return fmt.Sprintf("Gambling: %s Var x1.5", tag)
	case ModifierNoGambling:
		return fmt.Sprintf("Stable: %s Var x0.75", tag)
	case ModifierGamechanger:
		return fmt.Sprintf("Gamechanger: %s Chance++", tag)
	case ModifierEquivalentExchange:
		return fmt.Sprintf("Exchange: %s Diff-1 (-1 HP)", tag)
	default:
		return "Unknown modifier"
	}
}
