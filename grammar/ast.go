package grammar

import "strings"

// AST is a derivation tree: one node per grammar construct that was
// exercised to produce a string. It records the alternative chosen for Alt
// nodes, the matched text for terminals, and the child derivations for
// everything else. An AST is owned by the caller that generated it and is
// never shared between trials.
type AST struct {
	// Node is the grammar construct this subtree derives.
	Node Node
	// Choice is the option index taken, for Alt nodes.
	Choice int
	// Text is the matched text, for terminal nodes.
	Text string
	// Kids are the sub-derivations, in derivation order. Its length is the
	// repetition count for Repeat nodes.
	Kids []*AST
}

// Render concatenates the terminal text of the derivation in order. The
// result is always a member of the language of the originating grammar;
// no text is emitted that a terminal did not produce.
func (a *AST) Render() string {
	var sb strings.Builder
	a.render(&sb)
	return sb.String()
}

func (a *AST) render(sb *strings.Builder) {
	if len(a.Kids) == 0 {
		sb.WriteString(a.Text)
		return
	}
	for _, kid := range a.Kids {
		kid.render(sb)
	}
}

// size counts the terminals in the derivation. It is the budget a fresh
// generation of the same subtree would roughly need.
func (a *AST) size() int {
	if len(a.Kids) == 0 {
		if a.Text == "" {
			return 0
		}
		return 1
	}
	n := 0
	for _, kid := range a.Kids {
		n += kid.size()
	}
	return n
}

// positions appends every subtree of a, including a itself.
func (a *AST) positions(out []*AST) []*AST {
	out = append(out, a)
	for _, kid := range a.Kids {
		out = kid.positions(out)
	}
	return out
}
