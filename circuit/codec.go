package circuit

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"github.com/riverlane/h2-compilation/pauli"
)

// The wire format is one instruction per line:
//
//	rotate,<angle>,<label per qubit>,<empty target>,<condition clauses>
//	measure,,<label per qubit>,<target bit>,<condition clauses>
//
// Labels are lowercase i/x/y/z, one field per qubit. The angle field of
// a measurement is empty and parses as 1. An empty condition field is
// the unconditional guard.

// ParseCircuit reads the full instruction sequence. Any malformed line
// aborts the parse; no partial circuit is returned.
func ParseCircuit(r io.Reader) (Circuit, error) {
	var circ Circuit
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		in, err := parseInstructionLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		circ = append(circ, in)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read instruction stream")
	}
	if err := circ.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate instruction stream")
	}
	return circ, nil
}

func parseInstructionLine(line string) (Instruction, error) {
	terms := strings.Split(line, ",")
	if len(terms) < 5 {
		return Instruction{}, fmt.Errorf("expected at least 5 fields, got %d", len(terms))
	}
	kind, err := ParseKind(terms[0])
	if err != nil {
		return Instruction{}, err
	}
	angle := 1
	if terms[1] != "" {
		angle, err = strconv.Atoi(terms[1])
		if err != nil {
			return Instruction{}, fmt.Errorf("bad angle field %q: %w", terms[1], err)
		}
	}
	paulis, err := pauli.ParseProduct(terms[2 : len(terms)-2])
	if err != nil {
		return Instruction{}, err
	}
	target := NoTarget
	if terms[len(terms)-2] != "" {
		target, err = strconv.Atoi(terms[len(terms)-2])
		if err != nil {
			return Instruction{}, fmt.Errorf("bad target field %q: %w", terms[len(terms)-2], err)
		}
	}
	conditions, err := ParseConditions(terms[len(terms)-1])
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{
		Kind:       kind,
		Angle:      angle,
		Paulis:     paulis,
		Target:     target,
		Conditions: conditions,
	}, nil
}

// WriteCircuit serializes the sequence in wire form.
func WriteCircuit(w io.Writer, circ Circuit) error {
	bw := bufio.NewWriter(w)
	for i, in := range circ {
		if _, err := bw.WriteString(FormatInstruction(in) + "\n"); err != nil {
			return errors.Wrapf(err, "write instruction %d", i)
		}
	}
	return bw.Flush()
}

// FormatInstruction writes one wire line. The angle field is always
// written: a measurement commuted through a pi/2 rotation picks up a -1
// sign, which records that the negated operator is measured.
func FormatInstruction(in Instruction) string {
	angle := strconv.Itoa(in.Angle)
	target := ""
	if in.Target != NoTarget {
		target = strconv.Itoa(in.Target)
	}
	return fmt.Sprintf("%s,%s,%s,%s,%s", in.Kind, angle, in.Paulis, target, in.Conditions)
}
