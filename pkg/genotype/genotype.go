// Package genotype models the cell architecture discovered by an architecture search and parses
// its textual encoding:
//
//	Genotype(normal=[[('sep_conv_3x3', 0), ('sep_conv_3x3', 1)], ...], normal_concat=range(2, 6),
//	         reduce=[[('max_pool_3x3', 0), ('max_pool_3x3', 1)], ...], reduce_concat=range(2, 6))
package genotype

import (
	"fmt"
	"strings"

	"github.com/KunlinY/darts/pkg/check"
)

// Operation names of the DARTS search space.
const (
	MaxPool3x3  = "max_pool_3x3"
	AvgPool3x3  = "avg_pool_3x3"
	SkipConnect = "skip_connect"
	SepConv3x3  = "sep_conv_3x3"
	SepConv5x5  = "sep_conv_5x5"
	DilConv3x3  = "dil_conv_3x3"
	DilConv5x5  = "dil_conv_5x5"
	None        = "none"
)

// Primitives lists every operation an edge may carry.
var Primitives = []string{
	MaxPool3x3,
	AvgPool3x3,
	SkipConnect,
	SepConv3x3,
	SepConv5x5,
	DilConv3x3,
	DilConv5x5,
	None,
}

// cellInputs is the number of inputs every cell receives from the two preceding cells.
const cellInputs = 2

// Edge is one operation applied to an earlier state of the cell. Inputs 0 and 1 are the outputs
// of the two preceding cells; input k+2 is the k-th intermediate node.
type Edge struct {
	Op    string `json:"op"`
	Input int    `json:"input"`
}

// Node is an intermediate node of a cell; its value is the sum of its edges.
type Node []Edge

// Genotype is a discovered architecture: the normal and reduction cells and the states each of
// them concatenates into its output.
type Genotype struct {
	Normal       []Node `json:"normal"`
	NormalConcat []int  `json:"normal_concat"`
	Reduce       []Node `json:"reduce"`
	ReduceConcat []int  `json:"reduce_concat"`
}

// Validate implements the check.Validatable interface.
func (g Genotype) Validate() []error {
	var errs []error
	errs = append(errs, validateCell("normal", g.Normal, g.NormalConcat)...)
	errs = append(errs, validateCell("reduce", g.Reduce, g.ReduceConcat)...)
	return errs
}

func validateCell(name string, nodes []Node, concat []int) []error {
	if len(nodes) == 0 {
		return []error{check.True(false, "%s cell has no nodes", name)}
	}

	var errs []error
	for k, node := range nodes {
		errs = append(errs, check.True(len(node) > 0, "%s node %d has no edges", name, k))
		for _, edge := range node {
			errs = append(errs,
				check.In(edge.Op, Primitives, "%s node %d: unknown operation", name, k),
				check.GreaterThanOrEqualTo(edge.Input, 0, "%s node %d: edge input", name, k),
				check.LessThan(edge.Input, k+cellInputs, "%s node %d: edge input", name, k),
			)
		}
	}
	// Only the first out-of-range state is reported per cell.
	for _, state := range concat {
		low := check.GreaterThanOrEqualTo(state, cellInputs, "%s_concat: state", name)
		high := check.LessThan(state, len(nodes)+cellInputs, "%s_concat: state", name)
		if low != nil || high != nil {
			errs = append(errs, low, high)
			break
		}
	}
	return errs
}

// String renders the genotype in the encoding accepted by Parse.
func (g Genotype) String() string {
	return fmt.Sprintf("Genotype(normal=%s, normal_concat=%s, reduce=%s, reduce_concat=%s)",
		formatCell(g.Normal), formatConcat(g.NormalConcat),
		formatCell(g.Reduce), formatConcat(g.ReduceConcat))
}

func formatCell(nodes []Node) string {
	rendered := make([]string, 0, len(nodes))
	for _, node := range nodes {
		edges := make([]string, 0, len(node))
		for _, edge := range node {
			edges = append(edges, fmt.Sprintf("('%s', %d)", edge.Op, edge.Input))
		}
		rendered = append(rendered, "["+strings.Join(edges, ", ")+"]")
	}
	return "[" + strings.Join(rendered, ", ") + "]"
}

// formatConcat prints any contiguous list as a range, so [2] renders as range(2, 3).
func formatConcat(concat []int) string {
	contiguous := len(concat) > 0
	for i := 1; i < len(concat); i++ {
		if concat[i] != concat[i-1]+1 {
			contiguous = false
			break
		}
	}
	if contiguous {
		return fmt.Sprintf("range(%d, %d)", concat[0], concat[len(concat)-1]+1)
	}

	states := make([]string, 0, len(concat))
	for _, state := range concat {
		states = append(states, fmt.Sprint(state))
	}
	return "[" + strings.Join(states, ", ") + "]"
}
