//go:build unit
// +build unit

package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/riverlane/h2-compilation/pauli"
)

func TestIsClifford(t *testing.T) {
	tests := []struct {
		name string
		ins  Instruction
		want bool
	}{
		{name: "pi/2 rotation", ins: Instruction{Kind: Rotate, Angle: 2}, want: true},
		{name: "negative pi/4 rotation", ins: Instruction{Kind: Rotate, Angle: -4}, want: true},
		{name: "pi/3 rotation", ins: Instruction{Kind: Rotate, Angle: 3}, want: true},
		{name: "pi/8 rotation", ins: Instruction{Kind: Rotate, Angle: 8}, want: false},
		{name: "negative pi/8 rotation", ins: Instruction{Kind: Rotate, Angle: -8}, want: false},
		{name: "measurement", ins: Instruction{Kind: Measure, Angle: 2}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ins.IsClifford())
		})
	}
}

func TestInstructionValidate(t *testing.T) {
	tests := []struct {
		name         string
		ins          Instruction
		numQubits    int
		wantErrorMsg string
	}{
		{
			name:      "valid rotation",
			ins:       Instruction{Kind: Rotate, Angle: 8, Paulis: pauli.Product{pauli.Z}, Target: NoTarget},
			numQubits: 1,
		},
		{
			name: "valid measurement",
			ins: Instruction{
				Kind: Measure, Angle: 1,
				Paulis: pauli.Product{pauli.I, pauli.Z}, Target: 0,
			},
			numQubits: 2,
		},
		{
			name:         "zero angle",
			ins:          Instruction{Kind: Rotate, Angle: 0, Paulis: pauli.Product{pauli.Z}, Target: NoTarget},
			numQubits:    1,
			wantErrorMsg: "out of domain",
		},
		{
			name:         "unit angle",
			ins:          Instruction{Kind: Rotate, Angle: -1, Paulis: pauli.Product{pauli.Z}, Target: NoTarget},
			numQubits:    1,
			wantErrorMsg: "out of domain",
		},
		{
			name: "weight two measurement",
			ins: Instruction{
				Kind: Measure, Angle: 1,
				Paulis: pauli.Product{pauli.Z, pauli.Z}, Target: 0,
			},
			numQubits:    2,
			wantErrorMsg: "exactly one non-identity Pauli",
		},
		{
			name: "measurement without target",
			ins: Instruction{
				Kind: Measure, Angle: 1,
				Paulis: pauli.Product{pauli.Z}, Target: NoTarget,
			},
			numQubits:    1,
			wantErrorMsg: "target bit -1 is negative",
		},
		{
			name:         "ragged product",
			ins:          Instruction{Kind: Rotate, Angle: 8, Paulis: pauli.Product{pauli.Z}, Target: NoTarget},
			numQubits:    3,
			wantErrorMsg: "1 labels, circuit has 3 qubits",
		},
		{
			name: "bad condition value",
			ins: Instruction{
				Kind: Rotate, Angle: 8, Paulis: pauli.Product{pauli.Z},
				Target: NoTarget, Conditions: Conditions{0: 2},
			},
			numQubits:    1,
			wantErrorMsg: "not 0 or 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ins.Validate(tt.numQubits)
			if tt.wantErrorMsg == "" {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
				assert.Contains(t, err.Error(), tt.wantErrorMsg)
			}
		})
	}
}

func TestCircuitValidateAggregates(t *testing.T) {
	circ := Circuit{
		{Kind: Rotate, Angle: 0, Paulis: pauli.Product{pauli.Z}, Target: NoTarget},
		{Kind: Rotate, Angle: 8, Paulis: pauli.Product{pauli.Z, pauli.X}, Target: NoTarget},
	}
	err := circ.Validate()
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "instruction 0")
	assert.Contains(t, err.Error(), "instruction 1")
}

func TestCircuitClone(t *testing.T) {
	circ := Circuit{{
		Kind: Rotate, Angle: 8,
		Paulis:     pauli.Product{pauli.X},
		Target:     NoTarget,
		Conditions: Conditions{0: 1},
	}}
	cloned := circ.Clone()
	cloned[0].Paulis[0] = pauli.Z
	cloned[0].Conditions[0] = 0
	assert.Equal(t, pauli.X, circ[0].Paulis[0])
	assert.Equal(t, uint8(1), circ[0].Conditions[0])
}

func TestCliffordCount(t *testing.T) {
	circ := Circuit{
		{Kind: Rotate, Angle: 4, Paulis: pauli.Product{pauli.X}, Target: NoTarget},
		{Kind: Rotate, Angle: 8, Paulis: pauli.Product{pauli.Z}, Target: NoTarget},
		{Kind: Measure, Angle: 1, Paulis: pauli.Product{pauli.Z}, Target: 0},
	}
	assert.Equal(t, 1, circ.CliffordCount())
}
