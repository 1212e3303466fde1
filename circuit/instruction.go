package circuit

import (
	"fmt"

	"github.com/mohae/deepcopy"
	"go.uber.org/multierr"

	"github.com/riverlane/h2-compilation/pauli"
)

type Kind uint8

const (
	// Rotate is a rotation by pi/Angle about the joint Pauli operator.
	Rotate Kind = iota
	// Measure reads out a single-qubit Pauli into a classical bit.
	Measure
)

func (k Kind) String() string {
	switch k {
	case Rotate:
		return "rotate"
	case Measure:
		return "measure"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "rotate":
		return Rotate, nil
	case "measure":
		return Measure, nil
	default:
		return Rotate, fmt.Errorf("%q is not an instruction kind", s)
	}
}

// NoTarget marks the classical-target field of instructions that do not
// write a measurement result.
const NoTarget = -1

// Instruction is one Pauli-product rotation or measurement.
//
// For a Rotate the rotation angle is pi/Angle, with the sign of Angle
// encoding the direction. A measurement parses its absent angle field as
// 1, matching the upstream writer which leaves it empty.
type Instruction struct {
	Kind       Kind
	Angle      int
	Paulis     pauli.Product
	Target     int
	Conditions Conditions
}

// IsClifford reports whether the instruction is a cheap rotation that
// the engine must eliminate: a pi/2 Pauli rotation or a pi/4 S-like
// rotation, i.e. 2 <= |Angle| <= 4. Rotations with |Angle| > 4 are
// expensive T-like rotations and survive commutation.
func (in Instruction) IsClifford() bool {
	abs := in.Angle
	if abs < 0 {
		abs = -abs
	}
	return in.Kind == Rotate && 2 <= abs && abs <= 4
}

// Validate checks the instruction against the defined domain. numQubits
// below zero skips the length check.
func (in Instruction) Validate(numQubits int) error {
	var err error
	if in.Kind != Rotate && in.Kind != Measure {
		err = multierr.Append(err, fmt.Errorf("unknown instruction kind %d", in.Kind))
	}
	if in.Kind == Rotate {
		abs := in.Angle
		if abs < 0 {
			abs = -abs
		}
		if abs < 2 {
			err = multierr.Append(err, fmt.Errorf("rotation angle divisor %d is out of domain", in.Angle))
		}
	}
	if in.Kind == Measure {
		if in.Paulis.Weight() != 1 {
			err = multierr.Append(err, fmt.Errorf(
				"measurement must name exactly one non-identity Pauli, got weight %d", in.Paulis.Weight()))
		}
		if in.Target < 0 {
			err = multierr.Append(err, fmt.Errorf("measurement target bit %d is negative", in.Target))
		}
	}
	if numQubits >= 0 && len(in.Paulis) != numQubits {
		err = multierr.Append(err, fmt.Errorf(
			"Pauli product has %d labels, circuit has %d qubits", len(in.Paulis), numQubits))
	}
	for bit, value := range in.Conditions {
		if bit < 0 {
			err = multierr.Append(err, fmt.Errorf("condition bit index %d is negative", bit))
		}
		if value > 1 {
			err = multierr.Append(err, fmt.Errorf("condition value %d for bit %d is not 0 or 1", value, bit))
		}
	}
	return err
}

// Circuit is an ordered instruction sequence. Insertion order is
// execution order: later instructions may be conditioned on classical
// bits written by earlier measurements.
type Circuit []Instruction

// NumQubits is the Pauli-product length of the first instruction, the
// qubit count shared by every instruction of a valid circuit.
func (c Circuit) NumQubits() int {
	if len(c) == 0 {
		return 0
	}
	return len(c[0].Paulis)
}

// Validate checks every instruction, aggregating failures.
func (c Circuit) Validate() error {
	var err error
	n := c.NumQubits()
	for i, in := range c {
		if insErr := in.Validate(n); insErr != nil {
			err = multierr.Append(err, fmt.Errorf("instruction %d: %w", i, insErr))
		}
	}
	return err
}

// Clone deep-copies the circuit so a rewrite cannot alias the caller's
// products or condition maps.
func (c Circuit) Clone() Circuit {
	if c == nil {
		return nil
	}
	return deepcopy.Copy(c).(Circuit)
}

// CliffordCount is the number of rotations the engine will eliminate.
func (c Circuit) CliffordCount() int {
	count := 0
	for _, in := range c {
		if in.IsClifford() {
			count++
		}
	}
	return count
}
