package core_test

import (
	"slices"
	"testing"

	. "github.com/onsi/gomega"
	"pgregory.net/rapid"

	"github.com/toejough/impstub/internal/core"
)

func TestEncodeArgs_CyclesTerminate(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	list := []any{nil}
	list[0] = list

	table := map[string]any{}
	table["self"] = table

	listKey, _ := core.EncodeArgs([]any{list})
	tableKey, _ := core.EncodeArgs([]any{table})

	g.Expect(listKey).To(ContainSubstring("<cycle>"))
	g.Expect(tableKey).To(ContainSubstring("<cycle>"))
}

func TestEncodeArgs_DistinguishesNilAndEmptySlices(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	nilKey, _ := core.EncodeArgs([]any{[]int(nil)})
	emptyKey, _ := core.EncodeArgs([]any{[]int{}})

	g.Expect(nilKey).NotTo(Equal(emptyKey))
}

func TestEncodeArgs_FlagsTopLevelMatchers(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, plain := core.EncodeArgs([]any{1, "a", []any{lowercase{}}})
	_, marked := core.EncodeArgs([]any{1, lowercase{}})

	g.Expect(plain).To(BeFalse(), "nested matchers are plain values")
	g.Expect(marked).To(BeTrue())
}

func TestEncodeArgs_MatchersEncodeThroughPointers(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	first, _ := core.EncodeArgs([]any{&predicate{accept: isOdd}})
	second, _ := core.EncodeArgs([]any{&predicate{accept: isOdd}})

	g.Expect(first).To(Equal(second), "markers built from one function share a key")

	above := func(limit int) func(any) bool {
		return func(actual any) bool {
			number, ok := actual.(int)

			return ok && number > limit
		}
	}

	aboveOne := above(1)
	closureA, _ := core.EncodeArgs([]any{&predicate{accept: aboveOne}})
	closureAgain, _ := core.EncodeArgs([]any{&predicate{accept: aboveOne}})
	closureB, _ := core.EncodeArgs([]any{&predicate{accept: above(2)}})

	g.Expect(closureA).To(Equal(closureAgain))
	g.Expect(closureA).NotTo(Equal(closureB), "closures over different values differ")
}

func TestEncodeArgs_PointersAreIdentities(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	type point struct{ X, Y int }

	left := &point{1, 2}
	right := &point{1, 2}

	leftKey, _ := core.EncodeArgs([]any{left})
	again, _ := core.EncodeArgs([]any{left})
	rightKey, _ := core.EncodeArgs([]any{right})

	g.Expect(leftKey).To(Equal(again))
	g.Expect(leftKey).NotTo(Equal(rightKey))

	byValue, _ := core.EncodeArgs([]any{*left})
	byValueAgain, _ := core.EncodeArgs([]any{*right})

	g.Expect(byValue).To(Equal(byValueAgain), "structs compare by value")
}

func TestEncodeArgs_ScalarsAreTypeQualified(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	intKey, _ := core.EncodeArgs([]any{5})
	int64Key, _ := core.EncodeArgs([]any{int64(5)})
	stringKey, _ := core.EncodeArgs([]any{"5"})

	g.Expect(intKey).To(Equal("(int(5))"))
	g.Expect(int64Key).To(Equal("(int64(5))"))
	g.Expect(stringKey).To(Equal(`(string("5"))`))
}

func TestEncodeArgs_SignatureKeyerSuppliesKey(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	first, marked := core.EncodeArgs([]any{&keyed{key: "k"}})
	second, _ := core.EncodeArgs([]any{&keyed{key: "k", calls: 9}})

	g.Expect(marked).To(BeTrue())
	g.Expect(first).To(Equal(second), "state outside the key does not matter")
	g.Expect(first).To(ContainSubstring(`"k"`))
}

// TestEncodeArgs_MapOrderIndependent verifies that map encoding does not depend on insertion order.
func TestEncodeArgs_MapOrderIndependent(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		entries := rapid.MapOf(rapid.String(), rapid.Int()).Draw(rt, "entries")

		keys := make([]string, 0, len(entries))
		for key := range entries {
			keys = append(keys, key)
		}

		shuffled := rapid.Permutation(keys).Draw(rt, "order")

		forward := make(map[string]int, len(keys))
		for _, key := range keys {
			forward[key] = entries[key]
		}

		backward := make(map[string]int, len(keys))
		for _, key := range shuffled {
			backward[key] = entries[key]
		}

		forwardKey, _ := core.EncodeArgs([]any{forward})
		backwardKey, _ := core.EncodeArgs([]any{backward})

		if forwardKey != backwardKey {
			rt.Fatalf("keys differ:\n%s\n%s", forwardKey, backwardKey)
		}
	})
}

// TestEncodeArgs_Deterministic verifies that encoding equal values always gives equal keys.
func TestEncodeArgs_Deterministic(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		numbers := rapid.SliceOf(rapid.Int()).Draw(rt, "numbers")
		text := rapid.String().Draw(rt, "text")
		flag := rapid.Bool().Draw(rt, "flag")

		first, _ := core.EncodeArgs([]any{numbers, text, flag})
		second, _ := core.EncodeArgs([]any{slices.Clone(numbers), text, flag})

		if first != second {
			rt.Fatalf("keys differ:\n%s\n%s", first, second)
		}
	})
}
