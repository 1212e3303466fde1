package circuit

import (
	"fmt"
	"sort"
	"strings"
)

// Conditions guards an instruction on prior measurement outcomes. Keys
// are classical-bit indexes, values the required bit value. The guard is
// the AND of the clauses; an empty set means unconditional.
type Conditions map[int]uint8

// ParseConditions parses the wire form, a series of clauses such as
// (0==0)&&(1==0)&&(2==1). The empty string is the unconditional guard.
func ParseConditions(s string) (Conditions, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Conditions{}, nil
	}
	conds := Conditions{}
	for _, clause := range strings.Split(s, "&&") {
		if !strings.HasPrefix(clause, "(") || !strings.HasSuffix(clause, ")") {
			return nil, fmt.Errorf("condition clause %q is not parenthesized", clause)
		}
		body := clause[1 : len(clause)-1]
		parts := strings.Split(body, "==")
		if len(parts) != 2 {
			return nil, fmt.Errorf("condition clause %q is not an equality test", clause)
		}
		var bit int
		var value uint8
		if _, err := fmt.Sscanf(parts[0], "%d", &bit); err != nil {
			return nil, fmt.Errorf("bad bit index in clause %q: %w", clause, err)
		}
		if _, err := fmt.Sscanf(parts[1], "%d", &value); err != nil {
			return nil, fmt.Errorf("bad bit value in clause %q: %w", clause, err)
		}
		if bit < 0 {
			return nil, fmt.Errorf("negative bit index in clause %q", clause)
		}
		if value > 1 {
			return nil, fmt.Errorf("bit value in clause %q is not 0 or 1", clause)
		}
		conds[bit] = value
	}
	return conds, nil
}

// String writes the wire form with clauses sorted by bit index, so
// serialization is deterministic.
func (c Conditions) String() string {
	if len(c) == 0 {
		return ""
	}
	bits := make([]int, 0, len(c))
	for bit := range c {
		bits = append(bits, bit)
	}
	sort.Ints(bits)
	clauses := make([]string, 0, len(bits))
	for _, bit := range bits {
		clauses = append(clauses, fmt.Sprintf("(%d==%d)", bit, c[bit]))
	}
	return strings.Join(clauses, "&&")
}

// Contradicts reports whether some bit is required to hold different
// values by c and other, making the two guards mutually exclusive.
func (c Conditions) Contradicts(other Conditions) bool {
	for bit, value := range c {
		if otherValue, ok := other[bit]; ok && otherValue != value {
			return true
		}
	}
	return false
}

// SubsetOf reports whether every clause of c also appears in other, i.e.
// other implies c.
func (c Conditions) SubsetOf(other Conditions) bool {
	for bit, value := range c {
		if otherValue, ok := other[bit]; !ok || otherValue != value {
			return false
		}
	}
	return true
}

// Negate complements every clause independently. For a single-clause
// guard this is the exact complement. For multi-clause guards it is NOT:
// it encodes "every bit differs" rather than "some bit differs"; use
// NegateBranches for an exact complement of a conjunction.
func (c Conditions) Negate() Conditions {
	negated := make(Conditions, len(c))
	for bit, value := range c {
		negated[bit] = 1 - value
	}
	return negated
}

// NegateBranches materializes the exact complement of the conjunction as
// disjoint alternatives: for clauses c1..ck (in bit order) the branches
// are ¬c1, c1∧¬c2, ..., c1∧...∧c(k-1)∧¬ck. The branches are mutually
// exclusive and jointly exhaustive over the guard's complement, and for
// k == 1 the result is the single per-bit complement.
func (c Conditions) NegateBranches() []Conditions {
	bits := make([]int, 0, len(c))
	for bit := range c {
		bits = append(bits, bit)
	}
	sort.Ints(bits)
	branches := make([]Conditions, 0, len(bits))
	for i, bit := range bits {
		branch := make(Conditions, i+1)
		for _, held := range bits[:i] {
			branch[held] = c[held]
		}
		branch[bit] = 1 - c[bit]
		branches = append(branches, branch)
	}
	return branches
}

// Merge returns the union of c and extra, with extra overriding on key
// collision.
func (c Conditions) Merge(extra Conditions) Conditions {
	merged := make(Conditions, len(c)+len(extra))
	for bit, value := range c {
		merged[bit] = value
	}
	for bit, value := range extra {
		merged[bit] = value
	}
	return merged
}

func (c Conditions) Clone() Conditions {
	cloned := make(Conditions, len(c))
	for bit, value := range c {
		cloned[bit] = value
	}
	return cloned
}
