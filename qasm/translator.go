package qasm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"github.com/riverlane/h2-compilation/circuit"
	"github.com/riverlane/h2-compilation/pauli"
)

// BitFormat says how a measurement's classical target index is read
// from the QASM operand. Textbook circuits measure into one register,
// so the element index of c[n] is the bit. Iterative phase estimation
// measures into many single-bit registers c0[0], c1[0], ... because
// QASM cannot condition on a register element, so the register number
// is the bit. The format is an explicit setting, never inferred from
// file names or ambient state.
type BitFormat int

const (
	Textbook BitFormat = iota
	Iterative
)

func ParseBitFormat(s string) (BitFormat, error) {
	switch s {
	case "textbook":
		return Textbook, nil
	case "iterative":
		return Iterative, nil
	default:
		return Textbook, fmt.Errorf("%q is not a bit format", s)
	}
}

// Translator turns a line-oriented QASM 2 gate stream into the Pauli
// product rotation sequence the commutation engine consumes.
//
// Supported statements: qreg, creg, x, z, s, sdg, h, t, tdg, cx,
// measure, and an if (reg==v) guard on any gate. Hadamard decomposes
// into three pi/4 rotations (X, Z, X); CX into a joint pi/4 ZX rotation
// followed by -pi/4 Z and -pi/4 X rotations.
type Translator struct {
	Format BitFormat
}

func (t *Translator) Translate(r io.Reader) (circuit.Circuit, error) {
	var circ circuit.Circuit
	numQubits := -1
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ";"))
		if line == "" {
			continue
		}
		head := strings.Fields(line)[0]
		switch {
		case head == "OPENQASM" || strings.HasPrefix(head, "include") || head == "creg" || head == "barrier":
			continue
		case head == "qreg":
			n, err := parseIndex(strings.Fields(line)[1], false)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: qreg size", lineNo)
			}
			numQubits = n
			continue
		}
		if numQubits < 0 {
			return nil, fmt.Errorf("line %d: statement %q before qreg declaration", lineNo, line)
		}
		condition := circuit.Conditions{}
		if strings.HasPrefix(line, "if") {
			var err error
			condition, line, err = t.parseGuard(line)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
		}
		ins, err := t.parseGate(numQubits, line, condition)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		circ = append(circ, ins...)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read qasm stream")
	}
	return circ, nil
}

// parseGuard splits `if (c0==1) <gate>` into the guard and the gate.
func (t *Translator) parseGuard(line string) (circuit.Conditions, string, error) {
	open := strings.Index(line, "(")
	closeIdx := strings.Index(line, ")")
	if open < 0 || closeIdx < open {
		return nil, "", fmt.Errorf("malformed if statement %q", line)
	}
	parts := strings.Split(line[open+1:closeIdx], "==")
	if len(parts) != 2 {
		return nil, "", fmt.Errorf("malformed if condition in %q", line)
	}
	bit, err := parseIndex(strings.TrimSpace(parts[0]), false)
	if err != nil {
		return nil, "", errors.Wrap(err, "if condition bit")
	}
	value, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || value < 0 || value > 1 {
		return nil, "", fmt.Errorf("if condition value in %q is not 0 or 1", line)
	}
	return circuit.Conditions{bit: uint8(value)}, strings.TrimSpace(line[closeIdx+1:]), nil
}

func (t *Translator) parseGate(numQubits int, line string, condition circuit.Conditions) (circuit.Circuit, error) {
	fields := strings.Fields(line)
	gate := fields[0]
	if gate == "measure" {
		return t.parseMeasure(numQubits, line, condition)
	}
	operands := strings.Split(strings.Join(fields[1:], ""), ",")
	index, err := parseIndex(operands[0], false)
	if err != nil {
		return nil, errors.Wrapf(err, "%s operand", gate)
	}
	switch gate {
	case "x":
		return circuit.Circuit{rotation(numQubits, 2, condition, qubitBasis{index, pauli.X})}, nil
	case "z":
		return circuit.Circuit{rotation(numQubits, 2, condition, qubitBasis{index, pauli.Z})}, nil
	case "s":
		return circuit.Circuit{rotation(numQubits, 4, condition, qubitBasis{index, pauli.Z})}, nil
	case "sdg":
		return circuit.Circuit{rotation(numQubits, -4, condition, qubitBasis{index, pauli.Z})}, nil
	case "t":
		return circuit.Circuit{rotation(numQubits, 8, condition, qubitBasis{index, pauli.Z})}, nil
	case "tdg":
		return circuit.Circuit{rotation(numQubits, -8, condition, qubitBasis{index, pauli.Z})}, nil
	case "h":
		// Hadamard as three pi/4 rotations, X then Z then X.
		return circuit.Circuit{
			rotation(numQubits, 4, condition, qubitBasis{index, pauli.X}),
			rotation(numQubits, 4, condition, qubitBasis{index, pauli.Z}),
			rotation(numQubits, 4, condition, qubitBasis{index, pauli.X}),
		}, nil
	case "cx":
		if len(operands) != 2 {
			return nil, fmt.Errorf("cx needs two operands, got %q", line)
		}
		target, err := parseIndex(operands[1], false)
		if err != nil {
			return nil, errors.Wrap(err, "cx target operand")
		}
		// CX as a joint pi/4 ZX rotation and -pi/4 rotations on each leg.
		return circuit.Circuit{
			rotation(numQubits, 4, condition,
				qubitBasis{index, pauli.Z}, qubitBasis{target, pauli.X}),
			rotation(numQubits, -4, condition, qubitBasis{index, pauli.Z}),
			rotation(numQubits, -4, condition, qubitBasis{target, pauli.X}),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported statement %q", line)
	}
}

func (t *Translator) parseMeasure(numQubits int, line string, condition circuit.Conditions) (circuit.Circuit, error) {
	parts := strings.Split(strings.TrimPrefix(line, "measure"), "->")
	if len(parts) != 2 {
		return nil, fmt.Errorf("malformed measure statement %q", line)
	}
	qubit, err := parseIndex(strings.TrimSpace(parts[0]), false)
	if err != nil {
		return nil, errors.Wrap(err, "measure qubit operand")
	}
	target, err := parseIndex(strings.TrimSpace(parts[1]), t.Format == Iterative)
	if err != nil {
		return nil, errors.Wrap(err, "measure classical operand")
	}
	paulis := pauli.Identity(numQubits)
	paulis[qubit] = pauli.Z
	return circuit.Circuit{{
		Kind:       circuit.Measure,
		Angle:      1,
		Paulis:     paulis,
		Target:     target,
		Conditions: condition,
	}}, nil
}

type qubitBasis struct {
	index int
	basis pauli.Label
}

func rotation(numQubits, angle int, condition circuit.Conditions, bases ...qubitBasis) circuit.Instruction {
	paulis := pauli.Identity(numQubits)
	for _, b := range bases {
		paulis[b.index] = b.basis
	}
	return circuit.Instruction{
		Kind:       circuit.Rotate,
		Angle:      angle,
		Paulis:     paulis,
		Target:     circuit.NoTarget,
		Conditions: condition.Clone(),
	}
}

// parseIndex reads the index of a register operand. Operands are
// written q[i] or cn[i]; the bracketed element index i is wanted except
// for the classical operand of a measurement in iterative format, where
// the register number n is the bit.
func parseIndex(s string, registerNumber bool) (int, error) {
	if open := strings.Index(s, "["); open >= 0 {
		if registerNumber {
			return strconv.Atoi(s[1:open])
		}
		closeIdx := strings.Index(s, "]")
		if closeIdx < open {
			return 0, fmt.Errorf("unbalanced brackets in operand %q", s)
		}
		return strconv.Atoi(s[open+1 : closeIdx])
	}
	if len(s) < 2 {
		return 0, fmt.Errorf("operand %q has no index", s)
	}
	return strconv.Atoi(s[1:])
}
