package grammar

// JSONGrammar builds a grammar for a conservative subset of JSON. It is an
// under-approximation on purpose: every producible string is accepted by a
// standards-conformant JSON parser, but not every valid JSON document can be
// produced. Numbers start with a nonzero digit, carry at most 33 integer
// digits, an optional fraction, and an optional one-or-two digit signed
// exponent, so no target parser rejects them as out of range. Strings stay
// within [a-zA-Z0-9_], so no escape sequence is ever needed. Arrays and
// objects are never empty and never carry a trailing comma.
func JSONGrammar() *Grammar {
	t := NewTable()
	root := t.Recursive(func(json Node) Node {
		member := func() Node {
			return Concat(jsonString(), Literal(':'), json)
		}
		return Alt(
			Text("null"),
			Alt(Text("true"), Text("false")),
			number(),
			jsonString(),
			Concat(
				Literal('['),
				Repeat(Concat(json, Literal(',')), 0, Unbounded),
				// no trailing comma before the closing bracket
				json,
				Literal(']'),
			),
			Concat(
				Literal('{'),
				Repeat(Concat(member(), Literal(',')), 0, Unbounded),
				member(),
				Literal('}'),
			),
		)
	})
	return t.MustCompile(root)
}

// jsonString is a quoted, possibly empty alphanumeric/underscore string. The
// class excludes quote and backslash, which sidesteps escape handling.
func jsonString() Node {
	return Concat(
		Literal('"'),
		Repeat(CharClass("[a-zA-Z0-9_]"), 0, Unbounded),
		Literal('"'),
	)
}

func number() Node {
	return Concat(digits(), fraction(), exponent())
}

// digits is a nonzero digit followed by up to 32 more; wider numbers make
// some deserializers refuse the value.
func digits() Node {
	return Concat(CharClass("[1-9]"), Repeat(CharClass("[0-9]"), 0, 32))
}

func fraction() Node {
	return Alt(
		Blank(),
		Concat(Literal('.'), digits()),
	)
}

// exponent keeps at most two digits so the scaled value stays within what
// language-provided number types can hold.
func exponent() Node {
	return Alt(
		Blank(),
		Concat(Literal('E'), sign(), CharClass("[1-9]"), Repeat(CharClass("[0-9]"), 0, 1)),
		Concat(Literal('e'), sign(), CharClass("[1-9]"), Repeat(CharClass("[0-9]"), 0, 1)),
	)
}

func sign() Node {
	return Alt(Blank(), Literal('+'), Literal('-'))
}
