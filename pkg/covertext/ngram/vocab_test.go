package ngram

import "testing"

func TestAssignVocabOrdering(t *testing.T) {
	counts := map[string]int64{
		"good":    3,
		"grandma": 3,
		"i":       2,
		"oats":    1,
	}

	v := AssignVocab(counts)

	if v.Len() != 4 {
		t.Fatalf("Expected 4 words, got %d", v.Len())
	}

	// Descending frequency, ties lexicographic
	expected := []string{"good", "grandma", "i", "oats"}
	for i, want := range expected {
		if v.Word(i) != want {
			t.Errorf("Id %d: got %q, want %q", i, v.Word(i), want)
		}
	}
}

func TestAssignVocabDenseIDs(t *testing.T) {
	counts := map[string]int64{"a": 5, "b": 3, "c": 3, "d": 1}
	v := AssignVocab(counts)

	seen := make(map[int]bool)
	for _, w := range v.Words() {
		id, ok := v.ID(w)
		if !ok {
			t.Fatalf("Word %q has no id", w)
		}
		if id < 0 || id >= v.Len() {
			t.Errorf("Id %d for %q out of range [0,%d)", id, w, v.Len())
		}
		if seen[id] {
			t.Errorf("Duplicate id %d", id)
		}
		seen[id] = true
	}

	// Id 0 must be a word of maximal frequency
	if counts[v.Word(0)] != 5 {
		t.Errorf("Id 0 word %q should have the highest count", v.Word(0))
	}
}

func TestAssignVocabDeterministic(t *testing.T) {
	counts := map[string]int64{"x": 1, "y": 1, "z": 1, "w": 1}

	first := AssignVocab(counts)
	for i := 0; i < 10; i++ {
		again := AssignVocab(counts)
		for id := 0; id < first.Len(); id++ {
			if first.Word(id) != again.Word(id) {
				t.Fatalf("Assignment not deterministic: id %d was %q, now %q", id, first.Word(id), again.Word(id))
			}
		}
	}
}

func TestAssignVocabEmpty(t *testing.T) {
	v := AssignVocab(map[string]int64{})
	if v.Len() != 0 {
		t.Errorf("Empty counts should give empty vocab, got %d", v.Len())
	}
	if _, ok := v.ID("anything"); ok {
		t.Error("Empty vocab should not resolve any word")
	}
}
