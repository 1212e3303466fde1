package lattice

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/go-faster/errors"
)

// Translator rewrites a QASM gate stream into lattice-surgery
// operations: non-Clifford gates become magic-state consumption by
// joint measurement, CX becomes the auxiliary-mediated ZZ/XX
// measurement pattern, and classically conditioned corrections are
// appended after each pattern. The output stays line-oriented eqasm.
//
// An auxiliary patch and the result registers it needs are declared
// right after the qubit register. A Z immediately followed by T or Tdg
// on the same qubit is fused into a single magic-state pattern with the
// corrections folded in.
type Translator struct{}

func (t *Translator) Translate(r io.Reader, w io.Writer) error {
	lines, err := readLines(r)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	emit := func(out ...string) {
		for _, line := range out {
			bw.WriteString(line + "\n")
		}
	}
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		fields := strings.Fields(line)
		if len(fields) == 0 {
			emit(line)
			continue
		}
		switch fields[0] {
		case "qreg":
			emit(line,
				"qreg auxiliary[1];",
				"creg zz_result[1];",
				"creg xx_result[1];",
				"creg auxiliary_result[1];")
		case "z":
			qubit := operand(fields[1])
			if next, ok := peekGate(lines, i+1, qubit); ok && next == "tdg" {
				// Z;Tdg pair equals Tdg up to a correction swap.
				i++
				emit(magicPattern(qubit,
					fmt.Sprintf("if (zz_result == 0) s %s;", qubit),
					fmt.Sprintf("if (zz_result == 1) z %s;", qubit))...)
			} else if ok && next == "t" {
				i++
				emit(magicPattern(qubit,
					fmt.Sprintf("if (zz_result == 1) sdg %s;", qubit),
					fmt.Sprintf("if (zz_result == 0) z %s;", qubit))...)
			} else {
				emit(line)
			}
		case "cx":
			ops := strings.Split(strings.Join(fields[1:], ""), ",")
			if len(ops) != 2 {
				return fmt.Errorf("cx needs two operands, got %q", line)
			}
			control := strings.TrimSuffix(ops[0], ";")
			target := strings.TrimSuffix(ops[1], ";")
			emit(
				"prep_x auxiliary[0];",
				fmt.Sprintf("joint_measure z*%s z*auxiliary[0] -> zz_result[0];", control),
				fmt.Sprintf("joint_measure x*%s x*auxiliary[0] -> xx_result[0];", target),
				"measure auxiliary[0] -> auxiliary_result[0];",
				fmt.Sprintf("if (xx_result==1) z %s;", control),
				fmt.Sprintf("if (zz_result==1) x %s;", target),
				fmt.Sprintf("if (auxiliary_result==1) x %s;", target),
				"if (auxiliary_result==1) x auxiliary[0];")
		case "s":
			qubit := operand(fields[1])
			emit(yStatePattern(qubit,
				fmt.Sprintf("if (zz_result == 1) z %s;", qubit))...)
		case "sdg":
			qubit := operand(fields[1])
			emit(yStatePattern(qubit,
				fmt.Sprintf("if (zz_result == 0) z %s;", qubit))...)
		case "t":
			qubit := operand(fields[1])
			emit(magicPattern(qubit,
				fmt.Sprintf("if (zz_result == 1) s %s;", qubit))...)
		case "tdg":
			qubit := operand(fields[1])
			emit(magicPattern(qubit,
				fmt.Sprintf("if (zz_result == 0) sdg %s;", qubit))...)
		default:
			emit(line)
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "write lattice operations")
	}
	return nil
}

// magicPattern consumes a T magic state against qubit and applies the
// given zz corrections plus the standard auxiliary corrections.
func magicPattern(qubit string, zzCorrections ...string) []string {
	out := []string{
		"prep_t auxiliary[0];",
		fmt.Sprintf("joint_measure z*%s z*auxiliary[0] -> zz_result[0];", qubit),
		"measure_x auxiliary[0] -> auxiliary_result[0];",
	}
	out = append(out, zzCorrections...)
	out = append(out,
		fmt.Sprintf("if (auxiliary_result == 1) z %s;", qubit),
		"if (auxiliary_result == 1) x auxiliary[0];")
	return out
}

// yStatePattern consumes a Y eigenstate for S-like gates.
func yStatePattern(qubit string, zzCorrections ...string) []string {
	out := []string{
		"prep_y auxiliary[0];",
		fmt.Sprintf("joint_measure z*%s z*auxiliary[0] -> zz_result[0];", qubit),
		"measure_x auxiliary[0] -> auxiliary_result[0];",
	}
	out = append(out, zzCorrections...)
	out = append(out,
		fmt.Sprintf("if (auxiliary_result == 1) z %s;", qubit),
		"if (auxiliary_result == 1) x auxiliary[0];")
	return out
}

// peekGate returns the gate name of the next line when it acts on
// qubit, and whether such a line exists.
func peekGate(lines []string, i int, qubit string) (string, bool) {
	if i >= len(lines) {
		return "", false
	}
	fields := strings.Fields(lines[i])
	if len(fields) < 2 || operand(fields[1]) != qubit {
		return "", false
	}
	return fields[0], true
}

func operand(s string) string {
	return strings.TrimSuffix(s, ";")
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read qasm stream")
	}
	return lines, nil
}
