package main

import (
	"sort"

	"github.com/gitrdm/clingcon-go/pkg/clingcon"
)

// scenarioFunc builds one scenario's variables/constraints on b and
// returns the name->Variable mapping the CLI prints in namesInOrder's order.
type scenarioFunc func(b *clingcon.Builder) map[string]clingcon.Variable

var scenarioOrder = []string{"send-more-money", "n-queens"}

var scenarios = map[string]scenarioFunc{
	"send-more-money": sendMoreMoney,
	"n-queens":        nQueens8,
}

func scenarioNames() []string { return scenarioOrder }

// namesInOrder returns names's keys ordered to match each scenario's
// natural variable order (alphabetical fallback keeps the CLI's output
// deterministic without threading an explicit order through the map).
func namesInOrder(names map[string]clingcon.Variable) []string {
	order := []string{"S", "E", "N", "D", "M", "O", "R", "Y"}
	var out []string
	seen := make(map[string]bool)
	for _, n := range order {
		if _, ok := names[n]; ok {
			out = append(out, n)
			seen[n] = true
		}
	}
	var rest []string
	for n := range names {
		if !seen[n] {
			rest = append(rest, n)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// sendMoreMoney builds the classic SEND+MORE=MONEY cryptarithmetic
// puzzle: eight distinct digits, S and M nonzero, SEND+MORE=MONEY.
func sendMoreMoney(b *clingcon.Builder) map[string]clingcon.Variable {
	leading := clingcon.NewDomainRange(1, 9)
	digit := clingcon.NewDomainRange(0, 9)

	s := b.NewVar(leading.Clone())
	e := b.NewVar(digit.Clone())
	n := b.NewVar(digit.Clone())
	d := b.NewVar(digit.Clone())
	m := b.NewVar(leading.Clone())
	o := b.NewVar(digit.Clone())
	r := b.NewVar(digit.Clone())
	y := b.NewVar(digit.Clone())

	b.NewDistinctFact(s, e, n, d, m, o, r, y)

	// 1000S + 91E - 90N + D - 9000M - 900O + 10R - Y = 0
	b.NewFact(clingcon.EQ, 0,
		clingcon.Term{Coeff: 1000, View: s},
		clingcon.Term{Coeff: 91, View: e},
		clingcon.Term{Coeff: -90, View: n},
		clingcon.Term{Coeff: 1, View: d},
		clingcon.Term{Coeff: -9000, View: m},
		clingcon.Term{Coeff: -900, View: o},
		clingcon.Term{Coeff: 10, View: r},
		clingcon.Term{Coeff: -1, View: y},
	)

	return map[string]clingcon.Variable{
		"S": s.V, "E": e.V, "N": n.V, "D": d.V,
		"M": m.V, "O": o.V, "R": r.V, "Y": y.V,
	}
}

// nQueens8 builds the N-Queens placement problem for n=8, at a
// CLI-friendly size: queens q_0..q_{n-1}, one per column, rows
// all-distinct and both diagonals disjoint.
func nQueens8(b *clingcon.Builder) map[string]clingcon.Variable {
	const n = 8
	rows := clingcon.NewDomainRange(1, n)

	views := make([]clingcon.View, n)
	names := make(map[string]clingcon.Variable, n)
	for i := 0; i < n; i++ {
		v := b.NewVar(rows.Clone())
		views[i] = v
		names[queenName(i)] = v.V
	}

	b.NewDistinctFact(views...)

	upDiag := make([]clingcon.View, n)
	downDiag := make([]clingcon.View, n)
	for i := 0; i < n; i++ {
		upDiag[i] = views[i].Plus(int32(i))
		downDiag[i] = views[i].Plus(int32(-i))
	}
	b.NewDisjointFact(upDiag...)
	b.NewDisjointFact(downDiag...)

	return names
}

func queenName(i int) string {
	return string(rune('A' + i))
}
