// Package grammar provides a composable, immutable description of a
// context-free language and a derivation-tree generator/mutator over it.
// Grammars are built from pure constructors (Literal, CharClass, Concat,
// Alt, Repeat) plus named recursive rules held in a Table, then compiled
// into a Grammar that can be shared read-only across fuzzing workers.
package grammar

import (
	"fmt"
	"math"

	"github.com/mcncl/jsonfuzz/internal/errors"
)

// Unbounded marks a repetition with no upper limit.
const Unbounded = -1

// infinity is the minimal-cost sentinel for rules that cannot terminate.
const infinity = math.MaxInt / 4

// Node is a single grammar construct. Nodes are immutable once built and
// may be shared between grammars and goroutines.
type Node interface {
	node()
}

type literalNode struct {
	ch rune
}

type classNode struct {
	pattern string
	chars   []rune
	err     error
}

type concatNode struct {
	items []Node
}

type altNode struct {
	options []Node
}

type repeatNode struct {
	item Node
	min  int
	max  int
}

type recurseNode struct {
	rule RuleRef
}

func (*literalNode) node() {}
func (*classNode) node()   {}
func (*concatNode) node()  {}
func (*altNode) node()     {}
func (*repeatNode) node()  {}
func (*recurseNode) node() {}

// Literal matches exactly one character.
func Literal(ch rune) Node {
	return &literalNode{ch: ch}
}

// Text matches an exact string, as a concatenation of literals.
func Text(s string) Node {
	runes := []rune(s)
	items := make([]Node, len(runes))
	for i, ch := range runes {
		items[i] = Literal(ch)
	}
	return &concatNode{items: items}
}

// CharClass matches one character from a bracket class pattern such as
// "[a-zA-Z0-9_]". A malformed pattern is reported when the grammar is
// compiled, not here.
func CharClass(pattern string) Node {
	chars, err := parseClass(pattern)
	return &classNode{pattern: pattern, chars: chars, err: err}
}

// Concat matches each item in order.
func Concat(items ...Node) Node {
	return &concatNode{items: items}
}

// Alt matches exactly one of the given options.
func Alt(options ...Node) Node {
	return &altNode{options: options}
}

// Repeat matches between min and max copies of item. Pass Unbounded as max
// for no upper limit; generation still terminates because repetition counts
// are drawn from the remaining budget.
func Repeat(item Node, min, max int) Node {
	return &repeatNode{item: item, min: min, max: max}
}

// Blank derives only the empty string.
func Blank() Node {
	return &repeatNode{item: Literal(' '), min: 0, max: 0}
}

// RuleRef is an opaque handle to a named rule in a Table.
type RuleRef int

// Table holds the bodies of named recursive rules. Self-reference is
// resolved through deferred binding: a rule builder receives a placeholder
// reference to itself and the real body is patched in once built.
type Table struct {
	rules []Node
}

// NewTable creates an empty rule table.
func NewTable() *Table {
	return &Table{}
}

// Recursive registers a new rule. The builder is handed a placeholder node
// referring to the rule being defined, so the body may mention itself (or
// rules defined later) before it exists.
func (t *Table) Recursive(build func(self Node) Node) Node {
	ref := RuleRef(len(t.rules))
	t.rules = append(t.rules, nil)
	self := &recurseNode{rule: ref}
	t.rules[ref] = build(self)
	return self
}

// Grammar is a compiled, validated grammar. It is immutable and safe for
// concurrent use; each worker supplies its own RandomSource.
type Grammar struct {
	root    Node
	table   *Table
	ruleMin []int
	min     map[Node]int
}

// Compile finalizes the table and validates the grammar rooted at root.
// It rejects malformed character classes, malformed repetition bounds, and
// recursive rules with no reachable non-recursive alternative; allowing the
// latter would make generation non-terminating, so it is a build-time error.
func (t *Table) Compile(root Node) (*Grammar, error) {
	if root == nil {
		return nil, errors.NewGrammarError("grammar root is nil", nil)
	}
	nodes := t.collectNodes(root)
	for _, n := range nodes {
		switch n := n.(type) {
		case *classNode:
			if n.err != nil {
				return nil, errors.NewGrammarError(fmt.Sprintf("pattern %q", n.pattern), n.err)
			}
		case *repeatNode:
			if n.min < 0 || (n.max != Unbounded && n.max < n.min) {
				return nil, errors.NewGrammarError(
					fmt.Sprintf("repetition bounds [%d, %d] are invalid", n.min, n.max), nil)
			}
		case *altNode:
			if len(n.options) == 0 {
				return nil, errors.NewGrammarError("alternation has no options", nil)
			}
		case *recurseNode:
			if int(n.rule) >= len(t.rules) || t.rules[n.rule] == nil {
				return nil, errors.NewGrammarError(
					fmt.Sprintf("rule %d is not defined", n.rule), nil)
			}
		}
	}

	// Fixed point over the rule table: a rule's minimal derivation cost only
	// becomes finite once some alternative bottoms out without recursion.
	ruleMin := make([]int, len(t.rules))
	for i := range ruleMin {
		ruleMin[i] = infinity
	}
	for changed := true; changed; {
		changed = false
		for i, body := range t.rules {
			if body == nil {
				continue
			}
			if m := nodeMin(body, ruleMin); m < ruleMin[i] {
				ruleMin[i] = m
				changed = true
			}
		}
	}
	for i, m := range ruleMin {
		if t.rules[i] != nil && m >= infinity {
			return nil, errors.NewGrammarError(
				fmt.Sprintf("rule %d", i), errors.ErrNoBaseCase)
		}
	}
	if nodeMin(root, ruleMin) >= infinity {
		return nil, errors.NewGrammarError("grammar root", errors.ErrNoBaseCase)
	}

	g := &Grammar{root: root, table: t, ruleMin: ruleMin, min: make(map[Node]int, len(nodes))}
	for _, n := range nodes {
		g.min[n] = nodeMin(n, ruleMin)
	}
	return g, nil
}

// MustCompile is Compile for statically known-good grammars.
func (t *Table) MustCompile(root Node) *Grammar {
	g, err := t.Compile(root)
	if err != nil {
		panic(err)
	}
	return g
}

// collectNodes gathers every node reachable from root or any rule body.
func (t *Table) collectNodes(root Node) []Node {
	seen := make(map[Node]bool)
	var out []Node
	var walk func(n Node)
	walk = func(n Node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		out = append(out, n)
		switch n := n.(type) {
		case *concatNode:
			for _, item := range n.items {
				walk(item)
			}
		case *altNode:
			for _, opt := range n.options {
				walk(opt)
			}
		case *repeatNode:
			walk(n.item)
		case *recurseNode:
			if int(n.rule) < len(t.rules) {
				walk(t.rules[n.rule])
			}
		}
	}
	walk(root)
	for _, body := range t.rules {
		walk(body)
	}
	return out
}

// nodeMin is the cost of the smallest derivation of n, counting one unit
// per terminal and one per rule recursion. The extra unit on recursion makes
// any self-cycling alternative strictly costlier than the base case it
// competes with, which is what lets minimal-mode generation terminate.
func nodeMin(n Node, ruleMin []int) int {
	switch n := n.(type) {
	case *literalNode, *classNode:
		return 1
	case *concatNode:
		sum := 0
		for _, item := range n.items {
			sum += nodeMin(item, ruleMin)
			if sum >= infinity {
				return infinity
			}
		}
		return sum
	case *altNode:
		best := infinity
		for _, opt := range n.options {
			if m := nodeMin(opt, ruleMin); m < best {
				best = m
			}
		}
		return best
	case *repeatNode:
		if n.min == 0 {
			return 0
		}
		m := nodeMin(n.item, ruleMin)
		if m >= infinity || (m > 0 && n.min > infinity/m) {
			return infinity
		}
		return n.min * m
	case *recurseNode:
		if int(n.rule) >= len(ruleMin) {
			return infinity
		}
		if ruleMin[n.rule] >= infinity {
			return infinity
		}
		return 1 + ruleMin[n.rule]
	default:
		return infinity
	}
}

// parseClass expands a bracket pattern like "[a-z0-9_]" into its characters.
func parseClass(pattern string) ([]rune, error) {
	runes := []rune(pattern)
	if len(runes) < 3 || runes[0] != '[' || runes[len(runes)-1] != ']' {
		return nil, errors.ErrBadCharClass
	}
	body := runes[1 : len(runes)-1]
	var chars []rune
	for i := 0; i < len(body); {
		if i+2 < len(body) && body[i+1] == '-' {
			lo, hi := body[i], body[i+2]
			if hi < lo {
				return nil, errors.ErrBadCharClass
			}
			for ch := lo; ch <= hi; ch++ {
				chars = append(chars, ch)
			}
			i += 3
		} else {
			chars = append(chars, body[i])
			i++
		}
	}
	if len(chars) == 0 {
		return nil, errors.ErrBadCharClass
	}
	return chars, nil
}
