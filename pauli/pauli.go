package pauli

import (
	"fmt"
	"strings"
)

// Label is a single-qubit Pauli operator.
type Label uint8

const (
	I Label = iota
	X
	Y
	Z
)

func (l Label) String() string {
	switch l {
	case I:
		return "i"
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	default:
		return fmt.Sprintf("Label(%d)", uint8(l))
	}
}

func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "i":
		return I, nil
	case "x":
		return X, nil
	case "y":
		return Y, nil
	case "z":
		return Z, nil
	default:
		return I, fmt.Errorf("%q is not a Pauli label", s)
	}
}

// Product is a joint Pauli operator, one label per qubit. The length is
// the qubit count of the circuit and must be the same for every
// instruction of a run.
type Product []Label

// Identity returns the weight-0 product on numQubits qubits.
func Identity(numQubits int) Product {
	return make(Product, numQubits)
}

func ParseProduct(fields []string) (Product, error) {
	p := make(Product, 0, len(fields))
	for i, f := range fields {
		l, err := ParseLabel(f)
		if err != nil {
			return nil, fmt.Errorf("qubit %d: %w", i, err)
		}
		p = append(p, l)
	}
	return p, nil
}

func (p Product) String() string {
	parts := make([]string, len(p))
	for i, l := range p {
		parts[i] = l.String()
	}
	return strings.Join(parts, ",")
}

// Weight is the number of non-identity labels.
func (p Product) Weight() int {
	w := 0
	for _, l := range p {
		if l != I {
			w++
		}
	}
	return w
}

func (p Product) Equal(other Product) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

func (p Product) Clone() Product {
	c := make(Product, len(p))
	copy(c, p)
	return c
}
