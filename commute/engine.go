package commute

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/riverlane/h2-compilation/circuit"
)

// NegationMode selects how the engine complements a multi-clause
// Clifford guard when a commutation has to branch. Complementing each
// clause independently is only exact for single-clause guards, so the
// plain rule is not offered for larger ones.
type NegationMode int

const (
	// NegationDeMorgan expands the complement of a k-clause guard into
	// k disjoint branches, so a branching collision yields up to k+1
	// replacement instructions; branches ruled out by the rewritten
	// instruction's own guard are dropped. Exact for every k and
	// identical to the single-bit complement for k == 1.
	NegationDeMorgan NegationMode = iota
	// NegationStrict rejects any branching collision whose Clifford
	// guard has more than one clause.
	NegationStrict
)

func ParseNegationMode(s string) (NegationMode, error) {
	switch s {
	case "demorgan":
		return NegationDeMorgan, nil
	case "strict":
		return NegationStrict, nil
	default:
		return NegationDeMorgan, fmt.Errorf("%q is not a negation mode", s)
	}
}

// ErrInstructionBudget is returned when branching grows the circuit past
// the engine's instruction ceiling. Each branching collision can double
// the tail, so growth is exponential in the number of conditioned
// Cliffords that fail the subset test; the ceiling is the caller's
// backpressure against that.
var ErrInstructionBudget = fmt.Errorf("instruction budget exhausted")

const DefaultMaxInstructions = 1 << 20

// Engine rewrites a circuit so that no Clifford rotation remains: every
// rotation with 2 <= |angle| <= 4 is commuted through the instructions
// after it and dropped, leaving only T-like rotations and measurements
// with phases and guards updated.
type Engine struct {
	// MaxInstructions caps the working sequence length. Zero means
	// DefaultMaxInstructions.
	MaxInstructions int
	Negation        NegationMode
}

func NewEngine() *Engine {
	return &Engine{MaxInstructions: DefaultMaxInstructions}
}

// CommuteCliffordsToEnd returns an equivalent circuit with every
// Clifford rotation eliminated. The input sequence is deep-copied and
// never mutated. On any error no partial circuit is returned.
//
// The scan runs from the last instruction to the first. Commuting a
// Clifford only rewrites the instructions after it and never creates a
// new Clifford (replacement angles keep their magnitude), so each
// Clifford is pushed through an already fully resolved tail exactly
// once and the loop does at most one sweep per initial Clifford.
func (e *Engine) CommuteCliffordsToEnd(ctx context.Context, circ circuit.Circuit) (circuit.Circuit, error) {
	if err := circ.Validate(); err != nil {
		return nil, err
	}
	budget := e.MaxInstructions
	if budget <= 0 {
		budget = DefaultMaxInstructions
	}
	out := circ.Clone()
	initial := out.CliffordCount()
	for i := len(out) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !out[i].IsClifford() {
			continue
		}
		clifford := out[i]
		zap.L().Debug(fmt.Sprintf("commuting clifford at index %d through %d instructions: %s",
			i, len(out)-i-1, circuit.FormatInstruction(clifford)))

		// Rebuild the tail as a fresh sequence instead of deleting and
		// reinserting at shifting positions.
		tail := make(circuit.Circuit, 0, len(out)-i-1)
		for _, second := range out[i+1:] {
			updates, err := e.commuted(clifford, second)
			if err != nil {
				return nil, err
			}
			for _, u := range updates {
				tail = append(tail, circuit.Instruction{
					Kind:       second.Kind,
					Angle:      second.Angle * u.phase,
					Paulis:     u.paulis,
					Target:     second.Target,
					Conditions: second.Conditions.Merge(u.conditions),
				})
			}
		}
		out = append(out[:i], tail...)
		if len(out) > budget {
			return nil, fmt.Errorf("%w: %d instructions exceed the ceiling of %d",
				ErrInstructionBudget, len(out), budget)
		}
	}
	zap.L().Debug(fmt.Sprintf("eliminated %d clifford rotations, %d instructions remain",
		initial, len(out)))
	return out, nil
}
