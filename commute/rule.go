package commute

import (
	"fmt"

	"github.com/riverlane/h2-compilation/circuit"
	"github.com/riverlane/h2-compilation/pauli"
)

// update is one replacement for the instruction a Clifford is commuted
// through: the sign picked up by its angle, its new Pauli product, and
// the guard clauses to add.
type update struct {
	phase      int
	paulis     pauli.Product
	conditions circuit.Conditions
}

// unchanged leaves the second instruction as it was.
func unchanged(second circuit.Instruction) []update {
	return []update{{phase: 1, paulis: second.Paulis, conditions: circuit.Conditions{}}}
}

// commuted works out the replacements for second when the Clifford
// first is commuted through it, following the commutation rules of
// Litinski, "A Game of Surface Codes" (Figure 4), extended with
// classical guards. The Clifford itself is invariant and is dropped by
// the caller.
//
// Zero-entry and single-entry Clifford guards follow the plain rule. A
// multi-entry guard that has to branch is handled per the engine's
// NegationMode: either the complement of the conjunction is expanded
// into disjoint branches, or the collision is rejected.
func (e *Engine) commuted(first, second circuit.Instruction) ([]update, error) {
	if first.Conditions.Contradicts(second.Conditions) {
		// The guards are mutually exclusive: the Clifford can never
		// have fired in a run where second fires.
		return unchanged(second), nil
	}

	commute := true
	phase := 1
	if first.Angle < 0 {
		phase = -1
	}
	commutedPaulis := make(pauli.Product, 0, len(second.Paulis))
	for q := range second.Paulis {
		rule := pauli.Conjugate(first.Paulis[q], second.Paulis[q])
		if !rule.Commutes {
			commute = !commute
		}
		phase *= rule.Phase
		commutedPaulis = append(commutedPaulis, rule.Result)
	}
	if commute {
		// An even number of positions anticommute, so the joint
		// operators commute and nothing changes.
		return unchanged(second), nil
	}

	// An order-2 Pauli (|angle| == 2) only flips the sign of second;
	// a quarter rotation also changes its basis.
	activePhase := phase
	activePaulis := commutedPaulis
	if abs(first.Angle) == 2 {
		activePhase = -1
		activePaulis = second.Paulis
	}

	if len(first.Conditions) == 0 || first.Conditions.SubsetOf(second.Conditions) {
		// The Clifford fires whenever second does, so the update is
		// deterministic.
		return []update{{phase: activePhase, paulis: activePaulis, conditions: circuit.Conditions{}}}, nil
	}

	// second may fire in runs where the Clifford did or did not: both
	// possibilities become separate guarded instructions.
	if e.Negation == NegationStrict && len(first.Conditions) > 1 {
		return nil, fmt.Errorf(
			"cannot commute through a %d-clause Clifford guard %s in strict negation mode",
			len(first.Conditions), first.Conditions)
	}
	updates := []update{{phase: activePhase, paulis: activePaulis, conditions: first.Conditions.Clone()}}
	for _, miss := range first.Conditions.NegateBranches() {
		// A branch ruled out by second's own guard describes runs where
		// second never fires; emitting it would activate the instruction
		// in runs where the original circuit does nothing.
		if miss.Contradicts(second.Conditions) {
			continue
		}
		updates = append(updates, update{phase: 1, paulis: second.Paulis, conditions: miss})
	}
	return updates, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
