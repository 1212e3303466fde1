//go:build unit
// +build unit

package lattice

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func TestTranslateGolden(t *testing.T) {
	input, err := os.Open("testdata/cx_and_magic.qasm")
	assert.Nil(t, err)
	defer input.Close()

	var buf bytes.Buffer
	translator := &Translator{}
	assert.Nil(t, translator.Translate(input, &buf))

	g := goldie.New(t)
	g.Assert(t, "cx_and_magic", buf.Bytes())
}

func TestTranslateInjectsAuxiliaryRegisters(t *testing.T) {
	input := heredoc.Doc(`
		qreg q[3];
		creg c[3];
	`)
	var buf bytes.Buffer
	translator := &Translator{}
	assert.Nil(t, translator.Translate(strings.NewReader(input), &buf))
	assert.Equal(t, heredoc.Doc(`
		qreg q[3];
		qreg auxiliary[1];
		creg zz_result[1];
		creg xx_result[1];
		creg auxiliary_result[1];
		creg c[3];
	`), buf.String())
}

func TestTranslateFusesZWithFollowingT(t *testing.T) {
	input := "qreg q[1];\nz q[0];\nt q[0];\n"
	var buf bytes.Buffer
	translator := &Translator{}
	assert.Nil(t, translator.Translate(strings.NewReader(input), &buf))

	out := buf.String()
	// One fused magic-state pattern, with the swapped corrections.
	assert.Equal(t, 1, strings.Count(out, "prep_t auxiliary[0];"))
	assert.Contains(t, out, "if (zz_result == 1) sdg q[0];")
	assert.Contains(t, out, "if (zz_result == 0) z q[0];")
	assert.NotContains(t, out, "\nz q[0];\n")
}

func TestTranslateKeepsZBeforeOtherQubit(t *testing.T) {
	// The fusion only fires when the T acts on the same qubit.
	input := "qreg q[2];\nz q[0];\nt q[1];\n"
	var buf bytes.Buffer
	translator := &Translator{}
	assert.Nil(t, translator.Translate(strings.NewReader(input), &buf))

	out := buf.String()
	assert.Contains(t, out, "\nz q[0];\n")
	assert.Equal(t, 1, strings.Count(out, "prep_t auxiliary[0];"))
	assert.Contains(t, out, "if (zz_result == 1) s q[1];")
}

func TestTranslateCXOperandError(t *testing.T) {
	input := "qreg q[2];\ncx q[0];\n"
	var buf bytes.Buffer
	translator := &Translator{}
	err := translator.Translate(strings.NewReader(input), &buf)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "cx needs two operands")
}
