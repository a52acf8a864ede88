package tree

import "math/rand"

// DefaultMaxCost bounds mutated values when the caller does not supply a
// budget of its own.
const DefaultMaxCost = 256

// Mutator applies random structural mutations to a Value. Mutation strength
// is bounded: growth operations only run inside the cost headroom left under
// the configured maximum, so repeated mutation cannot grow an input
// indefinitely.
type Mutator struct {
	rnd     *rand.Rand
	maxCost uint64
}

// NewMutator creates a seeded Mutator with the given cost bound; a zero
// bound selects DefaultMaxCost.
func NewMutator(seed int64, maxCost uint64) *Mutator {
	if maxCost == 0 {
		maxCost = DefaultMaxCost
	}
	return &Mutator{
		rnd:     rand.New(rand.NewSource(seed)),
		maxCost: maxCost,
	}
}

// mutateFunc is one per-variant mutator. Every entry receives the whole
// Mutator, so container variants recurse into whole-tree mutation rather
// than a private child strategy.
type mutateFunc func(m *Mutator, v *Value, headroom uint64)

// mutators dispatches on the value's tag. The table is filled in init
// because the container entries recurse back through mutateValue.
var mutators [Object + 1]mutateFunc

func init() {
	mutators = [Object + 1]mutateFunc{
		Null:   mutateNull,
		Bool:   mutateBool,
		Number: mutateNumber,
		String: mutateString,
		Array:  mutateArray,
		Object: mutateObject,
	}
}

// Mutate mutates v in place. The output is always a structurally valid
// value over the same variant vocabulary, and its cost stays within the
// mutator's bound whenever the input's did.
func (m *Mutator) Mutate(v *Value) {
	var headroom uint64
	if c := Cost(*v); c < m.maxCost {
		headroom = m.maxCost - c
	}
	m.mutateValue(v, headroom)
}

func (m *Mutator) mutateValue(v *Value, headroom uint64) {
	mutators[v.Kind](m, v, headroom)
}

func mutateNull(m *Mutator, v *Value, headroom uint64) {
	// Null has no payload to perturb; switch the variant instead.
	budget := headroom + 1
	if budget > 16 {
		budget = 16
	}
	*v = m.Generate(budget)
}

func mutateBool(m *Mutator, v *Value, _ uint64) {
	v.Bool = !v.Bool
}

func mutateNumber(m *Mutator, v *Value, _ uint64) {
	switch m.rnd.Intn(4) {
	case 0:
		v.Num++
	case 1:
		v.Num--
	case 2:
		v.Num ^= 1 << uint(m.rnd.Intn(64))
	default:
		v.Num = m.rnd.Uint64()
	}
}

func mutateString(m *Mutator, v *Value, headroom uint64) {
	runes := []rune(v.Str)
	op := m.rnd.Intn(3)
	switch {
	case op == 0 && headroom > 0:
		idx := m.rnd.Intn(len(runes) + 1)
		runes = append(runes[:idx], append([]rune{m.randomRune()}, runes[idx:]...)...)
	case op == 1 && len(runes) > 0:
		idx := m.rnd.Intn(len(runes))
		runes = append(runes[:idx], runes[idx+1:]...)
	case len(runes) > 0:
		runes[m.rnd.Intn(len(runes))] = m.randomRune()
	}
	v.Str = string(runes)
}

func mutateArray(m *Mutator, v *Value, headroom uint64) {
	switch {
	case headroom >= 1 && (len(v.Items) == 0 || m.rnd.Intn(4) == 0):
		item := m.Generate(m.growBudget(headroom))
		idx := m.rnd.Intn(len(v.Items) + 1)
		v.Items = append(v.Items[:idx], append([]Value{item}, v.Items[idx:]...)...)
	case len(v.Items) > 0 && m.rnd.Intn(4) == 0:
		idx := m.rnd.Intn(len(v.Items))
		v.Items = append(v.Items[:idx], v.Items[idx+1:]...)
	case len(v.Items) > 0:
		m.mutateValue(&v.Items[m.rnd.Intn(len(v.Items))], headroom)
	}
}

func mutateObject(m *Mutator, v *Value, headroom uint64) {
	switch {
	case headroom >= 1 && (len(v.Members) == 0 || m.rnd.Intn(4) == 0):
		budget := m.growBudget(headroom)
		key := m.randomKey(budget)
		value := m.Generate(budget - uint64(len(key)))
		idx := m.rnd.Intn(len(v.Members) + 1)
		entry := Member{Key: key, Value: value}
		v.Members = append(v.Members[:idx], append([]Member{entry}, v.Members[idx:]...)...)
	case len(v.Members) > 0 && m.rnd.Intn(4) == 0:
		idx := m.rnd.Intn(len(v.Members))
		v.Members = append(v.Members[:idx], v.Members[idx+1:]...)
	case len(v.Members) > 0:
		entry := &v.Members[m.rnd.Intn(len(v.Members))]
		if m.rnd.Intn(4) == 0 {
			key := StringValue(entry.Key)
			mutateString(m, &key, headroom)
			entry.Key = key.Str
		} else {
			m.mutateValue(&entry.Value, headroom)
		}
	}
}

// Generate builds a fresh random value whose cost never exceeds the budget
// (a zero or one budget yields Null, the cheapest value).
func (m *Mutator) Generate(budget uint64) Value {
	if budget <= 1 {
		return NullValue()
	}
	switch m.rnd.Intn(6) {
	case 0:
		return NullValue()
	case 1:
		return BoolValue(m.rnd.Intn(2) == 1)
	case 2:
		if budget >= 1+numberWidth {
			return NumberValue(m.rnd.Uint64())
		}
		return BoolValue(m.rnd.Intn(2) == 1)
	case 3:
		return StringValue(m.randomText(budget - 1))
	case 4:
		if budget < 3 {
			return NullValue()
		}
		count := 1 + m.rnd.Intn(m.containerFan(budget))
		share := (budget - 1) / uint64(count)
		items := make([]Value, count)
		for i := range items {
			items[i] = m.Generate(share)
		}
		return ArrayValue(items...)
	default:
		if budget < 3 {
			return NullValue()
		}
		count := 1 + m.rnd.Intn(m.containerFan(budget))
		share := (budget - 1) / uint64(count)
		members := make([]Member, count)
		for i := range members {
			key := m.randomKey(share)
			members[i] = Member{Key: key, Value: m.Generate(share - uint64(len(key)))}
		}
		return ObjectValue(members...)
	}
}

// containerFan caps the element count so every child still gets a share of
// at least two cost units.
func (m *Mutator) containerFan(budget uint64) int {
	fan := int((budget - 1) / 2)
	if fan > 3 {
		fan = 3
	}
	if fan < 1 {
		fan = 1
	}
	return fan
}

// growBudget picks a small budget for a freshly inserted element, never
// exceeding the available headroom.
func (m *Mutator) growBudget(headroom uint64) uint64 {
	limit := headroom
	if limit > 16 {
		limit = 16
	}
	return 1 + uint64(m.rnd.Intn(int(limit)))
}

func (m *Mutator) randomRune() rune {
	return rune(32 + m.rnd.Intn(95))
}

// randomText builds a string of at most maxLen printable characters.
func (m *Mutator) randomText(maxLen uint64) string {
	if maxLen > 8 {
		maxLen = 8
	}
	n := m.rnd.Intn(int(maxLen) + 1)
	runes := make([]rune, n)
	for i := range runes {
		runes[i] = m.randomRune()
	}
	return string(runes)
}

// randomKey builds a short alphanumeric object key, leaving at least two
// cost units of the share for the entry's value.
func (m *Mutator) randomKey(share uint64) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789_"
	maxLen := uint64(4)
	if share > 2 && share-2 < maxLen {
		maxLen = share - 2
	} else if share <= 2 {
		maxLen = 0
	}
	n := 0
	if maxLen > 0 {
		n = m.rnd.Intn(int(maxLen) + 1)
	}
	key := make([]byte, n)
	for i := range key {
		key[i] = alphabet[m.rnd.Intn(len(alphabet))]
	}
	return string(key)
}
