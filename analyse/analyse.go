package analyse

import (
	"fmt"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"github.com/riverlane/h2-compilation/circuit"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

// BranchCount is the instruction census of one classical branch: how
// many rotations and measurements are active when that condition set
// holds. An instruction is active in a branch when its own guard is a
// subset of the branch's condition set.
type BranchCount struct {
	Conditions   string `json:"conditions"`
	Rotations    int    `json:"rotations"`
	Measurements int    `json:"measurements"`
}

// Branches reports, for each distinct condition set in the circuit, the
// number of operations applied when it holds. Branches are sorted by
// their serialized condition set, unconditional first.
func Branches(circ circuit.Circuit) []BranchCount {
	distinct := map[string]circuit.Conditions{}
	for _, in := range circ {
		distinct[in.Conditions.String()] = in.Conditions
	}
	keys := make([]string, 0, len(distinct))
	for key := range distinct {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	counts := make([]BranchCount, 0, len(keys))
	for _, key := range keys {
		branch := distinct[key]
		count := BranchCount{Conditions: key}
		for _, in := range circ {
			if !in.Conditions.SubsetOf(branch) {
				continue
			}
			switch in.Kind {
			case circuit.Rotate:
				count.Rotations++
			case circuit.Measure:
				count.Measurements++
			}
		}
		counts = append(counts, count)
	}
	return counts
}

// ProductCount is the number of times one Pauli product appears.
type ProductCount struct {
	Product string `json:"product"`
	Count   int    `json:"count"`
}

// Products reports Pauli-product frequencies, most common first, ties
// by product for a stable order.
func Products(circ circuit.Circuit) []ProductCount {
	byProduct := map[string]int{}
	for _, in := range circ {
		byProduct[in.Paulis.String()]++
	}
	counts := make([]ProductCount, 0, len(byProduct))
	for product, count := range byProduct {
		counts = append(counts, ProductCount{Product: product, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Product < counts[j].Product
	})
	return counts
}

// Report is the full analysis of a commuted circuit.
type Report struct {
	Instructions int            `json:"instructions"`
	Qubits       int            `json:"qubits"`
	Cliffords    int            `json:"cliffords"`
	Branches     []BranchCount  `json:"branches"`
	Products     []ProductCount `json:"products"`
}

func NewReport(circ circuit.Circuit) *Report {
	return &Report{
		Instructions: len(circ),
		Qubits:       circ.NumQubits(),
		Cliffords:    circ.CliffordCount(),
		Branches:     Branches(circ),
		Products:     Products(circ),
	}
}

// PrettyJSON renders the report for the CLI.
func (r *Report) PrettyJSON() ([]byte, error) {
	raw, err := jsonIter.Marshal(r)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to marshal analysis report/reason:%s", err))
		return nil, err
	}
	return pretty.Pretty(raw), nil
}
