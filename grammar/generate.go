package grammar

import "math/rand"

// RandomSource abstracts the source of randomness.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// RandSource wraps math/rand.
type RandSource struct {
	*rand.Rand
}

// NewRandSource creates a seeded RandSource.
func NewRandSource(seed int64) *RandSource {
	return &RandSource{rand.New(rand.NewSource(seed))}
}

// ByteSource uses a byte slice as a source of randomness, which lets a
// native-fuzzing corpus entry drive generation deterministically. Once the
// data runs out every draw is zero, so generation falls back to minimal
// derivations and still terminates.
type ByteSource struct {
	data []byte
	pos  int
}

// NewByteSource creates a ByteSource over data.
func NewByteSource(data []byte) *ByteSource {
	return &ByteSource{data: data}
}

func (s *ByteSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	if s.pos >= len(s.data) {
		return 0
	}
	v := int(s.data[s.pos])
	s.pos++
	return v % n
}

func (s *ByteSource) Float64() float64 {
	if s.pos >= len(s.data) {
		return 0.0
	}
	v := int(s.data[s.pos])
	s.pos++
	return float64(v) / 255.0
}

// Generate derives a random string from the grammar under the given budget,
// roughly one unit per produced character. Alternation picks uniformly among
// options whose minimal derivation fits the remaining budget, falling back
// to the cheapest options when none fit; repetition counts are drawn in
// proportion to the remaining budget; recursion strictly reduces the budget.
// Budget 0 yields a minimal derivation. Generate never fails on a compiled
// grammar.
func (g *Grammar) Generate(src RandomSource, budget int) *AST {
	if budget < 0 {
		budget = 0
	}
	ast, _ := g.derive(g.root, src, budget)
	return ast
}

// Mutate regenerates one uniformly chosen subtree of the derivation from its
// own grammar node, leaving all sibling and ancestor structure untouched.
// The replacement budget is drawn around the subtree's current size, so the
// mutation may shrink or locally grow the input. The tree is modified in
// place; the rendered result is still a member of the grammar's language.
func (g *Grammar) Mutate(a *AST, src RandomSource) {
	spots := a.positions(nil)
	target := spots[src.Intn(len(spots))]
	budget := src.Intn(2*target.size() + 2)
	repl, _ := g.derive(target.Node, src, budget)
	*target = *repl
}

// derive builds a derivation of n and reports its cost: one unit per
// terminal plus one per rule recursion.
func (g *Grammar) derive(n Node, src RandomSource, budget int) (*AST, int) {
	switch n := n.(type) {
	case *literalNode:
		return &AST{Node: n, Text: string(n.ch)}, 1
	case *classNode:
		ch := n.chars[src.Intn(len(n.chars))]
		return &AST{Node: n, Text: string(ch)}, 1
	case *concatNode:
		kids := make([]*AST, 0, len(n.items))
		spent := 0
		for i, item := range n.items {
			// Reserve the minimal cost of the items still to come.
			reserve := 0
			for _, rest := range n.items[i+1:] {
				reserve += g.nodeMinCost(rest)
			}
			avail := budget - spent - reserve
			if avail < 0 {
				avail = 0
			}
			kid, c := g.derive(item, src, avail)
			kids = append(kids, kid)
			spent += c
		}
		return &AST{Node: n, Kids: kids}, spent
	case *altNode:
		idx := g.chooseOption(n, src, budget)
		kid, c := g.derive(n.options[idx], src, budget)
		return &AST{Node: n, Choice: idx, Kids: []*AST{kid}}, c
	case *repeatNode:
		count := g.chooseCount(n, src, budget)
		kids := make([]*AST, 0, count)
		spent := 0
		for i := 0; i < count; i++ {
			share := (budget - spent) / (count - i)
			if share < 0 {
				share = 0
			}
			kid, c := g.derive(n.item, src, share)
			kids = append(kids, kid)
			spent += c
		}
		return &AST{Node: n, Kids: kids}, spent
	case *recurseNode:
		kid, c := g.derive(g.table.rules[n.rule], src, budget-1)
		return &AST{Node: n, Kids: []*AST{kid}}, c + 1
	default:
		return &AST{Node: n}, 0
	}
}

// chooseOption picks an alternative. Options that fit the budget are chosen
// uniformly; when none fit, the choice is uniform over the cheapest options,
// which keeps the derivation minimal and finite.
func (g *Grammar) chooseOption(n *altNode, src RandomSource, budget int) int {
	fitting := make([]int, 0, len(n.options))
	cheapest := make([]int, 0, len(n.options))
	best := infinity
	for i, opt := range n.options {
		m := g.nodeMinCost(opt)
		if m <= budget {
			fitting = append(fitting, i)
		}
		if m < best {
			best = m
			cheapest = cheapest[:0]
		}
		if m == best {
			cheapest = append(cheapest, i)
		}
	}
	if len(fitting) > 0 {
		return fitting[src.Intn(len(fitting))]
	}
	return cheapest[src.Intn(len(cheapest))]
}

// chooseCount picks a repetition count in [min, max] proportional to the
// budget left after the mandatory copies: the extra copies are a fraction
// of the headroom drawn from Float64.
func (g *Grammar) chooseCount(n *repeatNode, src RandomSource, budget int) int {
	count := n.min
	if n.max != Unbounded && n.max == n.min {
		return count
	}
	itemMin := g.nodeMinCost(n.item)
	if itemMin < 1 {
		itemMin = 1
	}
	headroom := (budget - n.min*itemMin) / itemMin
	if headroom <= 0 {
		return count
	}
	extra := int(src.Float64() * float64(headroom))
	if extra > headroom {
		extra = headroom
	}
	if n.max != Unbounded && count+extra > n.max {
		extra = n.max - count
	}
	return count + extra
}

func (g *Grammar) nodeMinCost(n Node) int {
	if m, ok := g.min[n]; ok {
		return m
	}
	return nodeMin(n, g.ruleMin)
}
