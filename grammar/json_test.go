package grammar

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var jsonBudgets = []int{0, 1, 2, 4, 8, 16, 64, 256}

func TestJSONGrammar_Compiles(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { JSONGrammar() })
}

func TestJSONGrammar_AlwaysValidJSON(t *testing.T) {
	t.Parallel()

	g := JSONGrammar()
	for seed := int64(0); seed < 50; seed++ {
		src := NewRandSource(seed)
		for _, budget := range jsonBudgets {
			doc := g.Generate(src, budget).Render()
			require.True(t, json.Valid([]byte(doc)), "seed %d budget %d produced %q", seed, budget, doc)
			require.True(t, gjson.Valid(doc), "seed %d budget %d produced %q", seed, budget, doc)
		}
	}
}

func TestJSONGrammar_MinimalDerivation(t *testing.T) {
	t.Parallel()

	// with no budget the cheapest alternative is a single nonzero digit
	g := JSONGrammar()
	for seed := int64(0); seed < 20; seed++ {
		doc := g.Generate(NewRandSource(seed), 0).Render()
		assert.Regexp(t, `^[1-9]$`, doc)
	}
}

func TestJSONGrammar_MutationStaysValid(t *testing.T) {
	t.Parallel()

	g := JSONGrammar()
	src := NewRandSource(17)
	ast := g.Generate(src, 128)
	for i := 0; i < 500; i++ {
		g.Mutate(ast, src)
		doc := ast.Render()
		require.True(t, json.Valid([]byte(doc)), "mutation %d produced %q", i, doc)
	}
}

func TestJSONGrammar_NoTrailingComma(t *testing.T) {
	t.Parallel()

	g := JSONGrammar()
	src := NewRandSource(23)
	for i := 0; i < 200; i++ {
		doc := g.Generate(src, 64).Render()
		assert.NotContains(t, doc, ",]", "document %q", doc)
		assert.NotContains(t, doc, ",}", "document %q", doc)
	}
}

func TestJSONGrammar_NumbersStayNarrow(t *testing.T) {
	t.Parallel()

	// every produced number must unmarshal without error into float64
	g := JSONGrammar()
	src := NewRandSource(31)
	for i := 0; i < 200; i++ {
		doc := g.Generate(src, 64).Render()
		var v interface{}
		require.NoError(t, json.Unmarshal([]byte(doc), &v), "document %q", doc)
	}
}

func FuzzJSONGrammar_Generate(f *testing.F) {
	f.Add([]byte{1, 2, 3}, 16)
	f.Add([]byte{}, 0)
	f.Add([]byte{255, 0, 255, 0, 128, 7}, 200)

	g := JSONGrammar()
	f.Fuzz(func(t *testing.T, data []byte, budget int) {
		if budget < 0 || budget > 1<<12 {
			t.Skip()
		}
		doc := g.Generate(NewByteSource(data), budget).Render()
		if !json.Valid([]byte(doc)) {
			t.Fatalf("generated invalid JSON %q from %v", doc, data)
		}
	})
}

func FuzzJSONGrammar_Mutate(f *testing.F) {
	f.Add([]byte{9, 8, 7, 6, 5, 4, 3, 2, 1})

	g := JSONGrammar()
	f.Fuzz(func(t *testing.T, data []byte) {
		src := NewByteSource(data)
		ast := g.Generate(src, 64)
		for i := 0; i < 8; i++ {
			g.Mutate(ast, src)
			doc := ast.Render()
			if !json.Valid([]byte(doc)) {
				t.Fatalf("mutation produced invalid JSON %q from %v", doc, data)
			}
		}
	})
}
