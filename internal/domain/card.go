package domain

import "errors"

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardKindInvalid is returned when a card's kind is not a known value.
	ErrCardKindInvalid = errors.New("card kind must be Opening or Tactic")

	// ErrCardPositionEmpty is returned when a card has no position.
	ErrCardPositionEmpty = errors.New("card position cannot be empty")
)

// CardKind classifies a card by the kind of training material it carries.
type CardKind string

// Valid card kinds. The PascalCase values match the scheduler wire contract.
const (
	CardKindOpening CardKind = "Opening"
	CardKindTactic  CardKind = "Tactic"
)

// Valid reports whether the kind is one of the known card kinds.
func (k CardKind) Valid() bool {
	switch k {
	case CardKindOpening, CardKindTactic:
		return true
	default:
		return false
	}
}

// Card is an atomic reviewable unit sourced from the external scheduling
// engine. Cards are immutable values; the orchestration layer never edits
// them, it only hands them to clients and refers back to them by ID.
type Card struct {
	CardID      string   `json:"card_id"`
	Kind        CardKind `json:"kind"`
	PositionFEN string   `json:"position_fen"`
	Prompt      string   `json:"prompt"`

	// ExpectedMovesUCI is the expected best-move sequence in UCI notation.
	ExpectedMovesUCI []string `json:"expected_moves_uci,omitempty"`

	// PVUCI is the principal variation used for teaching overlays.
	PVUCI []string `json:"pv_uci,omitempty"`

	// Meta carries optional metadata consumed by downstream clients.
	Meta map[string]interface{} `json:"meta,omitempty"`
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.CardID == "" {
		return ErrCardIDEmpty
	}

	if !c.Kind.Valid() {
		return ErrCardKindInvalid
	}

	if c.PositionFEN == "" {
		return ErrCardPositionEmpty
	}

	return nil
}
