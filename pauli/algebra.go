package pauli

// Rule describes what happens to the second operator of an ordered pair
// when the first is commuted through it. The replacement operator is
// i*a*b, so for the pair (X, Z) the Z becomes +Y, while for (X, Y) the
// Y becomes -Z. Commuting pairs leave the second operator unchanged
// with phase +1.
type Rule struct {
	Commutes bool
	Phase    int
	Result   Label
}

// conjugationTable fixes the full single-qubit Pauli algebra: I commutes
// with everything, equal non-identity Paulis commute, and distinct
// non-identity Paulis anticommute and multiply to the third Pauli up to
// a sign set by the cyclic order X -> Y -> Z -> X. All 16 ordered pairs
// are defined; there are no error cases.
var conjugationTable = [4][4]Rule{
	I: {
		I: {Commutes: true, Phase: 1, Result: I},
		X: {Commutes: true, Phase: 1, Result: X},
		Y: {Commutes: true, Phase: 1, Result: Y},
		Z: {Commutes: true, Phase: 1, Result: Z},
	},
	X: {
		I: {Commutes: true, Phase: 1, Result: X},
		X: {Commutes: true, Phase: 1, Result: X},
		Y: {Commutes: false, Phase: -1, Result: Z},
		Z: {Commutes: false, Phase: 1, Result: Y},
	},
	Y: {
		I: {Commutes: true, Phase: 1, Result: Y},
		X: {Commutes: false, Phase: 1, Result: Z},
		Y: {Commutes: true, Phase: 1, Result: Y},
		Z: {Commutes: false, Phase: -1, Result: X},
	},
	Z: {
		I: {Commutes: true, Phase: 1, Result: Z},
		X: {Commutes: false, Phase: -1, Result: Y},
		Y: {Commutes: false, Phase: 1, Result: X},
		Z: {Commutes: true, Phase: 1, Result: Z},
	},
}

// Conjugate returns the commutation rule for the ordered pair (a, b),
// i.e. the effect on b of commuting a through it.
func Conjugate(a, b Label) Rule {
	return conjugationTable[a][b]
}
