//go:build unit
// +build unit

package qasm

import (
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"

	"github.com/riverlane/h2-compilation/circuit"
	"github.com/riverlane/h2-compilation/pauli"
)

func TestParseBitFormat(t *testing.T) {
	format, err := ParseBitFormat("textbook")
	assert.Nil(t, err)
	assert.Equal(t, Textbook, format)

	format, err = ParseBitFormat("iterative")
	assert.Nil(t, err)
	assert.Equal(t, Iterative, format)

	_, err = ParseBitFormat("binary")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "not a bit format")
}

func TestTranslateSingleQubitGates(t *testing.T) {
	input := heredoc.Doc(`
		OPENQASM 2.0;
		include "qelib1.inc";
		qreg q[2];
		creg c[2];
		x q[0];
		z q[1];
		s q[0];
		sdg q[0];
		t q[1];
		tdg q[1];
	`)
	translator := &Translator{}
	circ, err := translator.Translate(strings.NewReader(input))
	assert.Nil(t, err)
	assert.Equal(t, 6, len(circ))
	assert.Equal(t, 2, circ.NumQubits())

	wantAngles := []int{2, 2, 4, -4, 8, -8}
	wantPaulis := []pauli.Product{
		{pauli.X, pauli.I},
		{pauli.I, pauli.Z},
		{pauli.Z, pauli.I},
		{pauli.Z, pauli.I},
		{pauli.I, pauli.Z},
		{pauli.I, pauli.Z},
	}
	for i, ins := range circ {
		assert.Equal(t, circuit.Rotate, ins.Kind)
		assert.Equal(t, wantAngles[i], ins.Angle, "instruction %d", i)
		assert.True(t, ins.Paulis.Equal(wantPaulis[i]), "instruction %d: %s", i, ins.Paulis)
		assert.Equal(t, circuit.NoTarget, ins.Target)
		assert.Equal(t, 0, len(ins.Conditions))
	}
}

func TestTranslateHadamardDecomposition(t *testing.T) {
	input := heredoc.Doc(`
		qreg q[1];
		h q[0];
	`)
	translator := &Translator{}
	circ, err := translator.Translate(strings.NewReader(input))
	assert.Nil(t, err)
	assert.Equal(t, 3, len(circ))

	wantBases := []pauli.Label{pauli.X, pauli.Z, pauli.X}
	for i, ins := range circ {
		assert.Equal(t, 4, ins.Angle)
		assert.Equal(t, wantBases[i], ins.Paulis[0], "instruction %d", i)
	}
}

func TestTranslateCXDecomposition(t *testing.T) {
	input := heredoc.Doc(`
		qreg q[3];
		cx q[0], q[2];
	`)
	translator := &Translator{}
	circ, err := translator.Translate(strings.NewReader(input))
	assert.Nil(t, err)
	assert.Equal(t, 3, len(circ))

	assert.Equal(t, 4, circ[0].Angle)
	assert.True(t, circ[0].Paulis.Equal(pauli.Product{pauli.Z, pauli.I, pauli.X}))
	assert.Equal(t, -4, circ[1].Angle)
	assert.True(t, circ[1].Paulis.Equal(pauli.Product{pauli.Z, pauli.I, pauli.I}))
	assert.Equal(t, -4, circ[2].Angle)
	assert.True(t, circ[2].Paulis.Equal(pauli.Product{pauli.I, pauli.I, pauli.X}))
}

func TestTranslateGuardedGate(t *testing.T) {
	input := heredoc.Doc(`
		qreg q[1];
		creg c0[1];
		if (c0==1) x q[0];
		if (c2 == 0) h q[0];
	`)
	translator := &Translator{}
	circ, err := translator.Translate(strings.NewReader(input))
	assert.Nil(t, err)
	assert.Equal(t, 4, len(circ))

	assert.Equal(t, circuit.Conditions{0: 1}, circ[0].Conditions)
	// The guard is carried onto every rotation of a decomposed gate,
	// and each carries its own copy.
	for _, ins := range circ[1:] {
		assert.Equal(t, circuit.Conditions{2: 0}, ins.Conditions)
	}
	circ[1].Conditions[2] = 1
	assert.Equal(t, circuit.Conditions{2: 0}, circ[2].Conditions)
}

func TestTranslateMeasureTextbook(t *testing.T) {
	input := heredoc.Doc(`
		qreg q[2];
		creg c[2];
		measure q[1] -> c[1];
	`)
	translator := &Translator{Format: Textbook}
	circ, err := translator.Translate(strings.NewReader(input))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(circ))
	assert.Equal(t, circuit.Measure, circ[0].Kind)
	assert.Equal(t, 1, circ[0].Angle)
	assert.True(t, circ[0].Paulis.Equal(pauli.Product{pauli.I, pauli.Z}))
	assert.Equal(t, 1, circ[0].Target)
}

func TestTranslateMeasureIterative(t *testing.T) {
	// Iterative phase estimation measures into single-bit registers,
	// so the register number carries the bit index.
	input := heredoc.Doc(`
		qreg q[1];
		creg c3[1];
		measure q[0] -> c3[0];
	`)
	translator := &Translator{Format: Iterative}
	circ, err := translator.Translate(strings.NewReader(input))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(circ))
	assert.Equal(t, 3, circ[0].Target)
}

func TestTranslateSkipsCommentsAndBarriers(t *testing.T) {
	input := heredoc.Doc(`
		// leading comment
		qreg q[1];
		barrier q;
		x q[0]; // trailing comment

	`)
	translator := &Translator{}
	circ, err := translator.Translate(strings.NewReader(input))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(circ))
	assert.Equal(t, 2, circ[0].Angle)
}

func TestTranslateErrors(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantErrorMsg string
	}{
		{
			name:         "gate before qreg",
			input:        "x q[0];\n",
			wantErrorMsg: "before qreg declaration",
		},
		{
			name:         "unsupported gate",
			input:        "qreg q[1];\nccx q[0], q[0], q[0];\n",
			wantErrorMsg: "unsupported statement",
		},
		{
			name:         "malformed if",
			input:        "qreg q[1];\nif c0==1 x q[0];\n",
			wantErrorMsg: "malformed if",
		},
		{
			name:         "if value out of range",
			input:        "qreg q[1];\nif (c0==2) x q[0];\n",
			wantErrorMsg: "not 0 or 1",
		},
		{
			name:         "cx with one operand",
			input:        "qreg q[2];\ncx q[0];\n",
			wantErrorMsg: "cx needs two operands",
		},
		{
			name:         "malformed measure",
			input:        "qreg q[1];\nmeasure q[0];\n",
			wantErrorMsg: "malformed measure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			translator := &Translator{}
			_, err := translator.Translate(strings.NewReader(tt.input))
			assert.NotNil(t, err)
			assert.Contains(t, err.Error(), tt.wantErrorMsg)
		})
	}
}

func TestTranslateFeedsEngineDirectly(t *testing.T) {
	// The translated stream validates as a circuit, so it can go
	// straight into the commutation engine.
	input := heredoc.Doc(`
		qreg q[2];
		creg c[2];
		h q[0];
		cx q[0], q[1];
		t q[1];
		measure q[0] -> c[0];
		measure q[1] -> c[1];
	`)
	translator := &Translator{}
	circ, err := translator.Translate(strings.NewReader(input))
	assert.Nil(t, err)
	// h contributes 3 rotations, cx contributes 3, plus t and the two
	// measurements.
	assert.Nil(t, circ.Validate())
	assert.Equal(t, 9, len(circ))
	assert.Equal(t, 6, circ.CliffordCount())
}
