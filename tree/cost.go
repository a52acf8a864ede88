package tree

import "unicode/utf8"

// numberWidth is the fixed payload width charged for a Number, matching the
// 8-byte integer the target deserializer stores.
const numberWidth = 8

// Cost assigns a monotone complexity score to a value: one unit per node,
// plus the payload width for numbers and one unit per character of string
// and key payloads. Inserting any element, entry, or character strictly
// increases the cost, which is what makes it usable for bounding mutation
// growth and for preferring the structurally smallest failing input.
func Cost(v Value) uint64 {
	switch v.Kind {
	case Null, Bool:
		return 1
	case Number:
		return 1 + numberWidth
	case String:
		return 1 + uint64(utf8.RuneCountInString(v.Str))
	case Array:
		c := uint64(1)
		for _, item := range v.Items {
			c += Cost(item)
		}
		return c
	case Object:
		c := uint64(1)
		for _, m := range v.Members {
			c += uint64(utf8.RuneCountInString(m.Key)) + Cost(m.Value)
		}
		return c
	default:
		return 1
	}
}
