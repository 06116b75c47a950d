package beam

import (
	"testing"

	"github.com/cognicore/covertext/pkg/covertext/model"
)

// chainModel links i -> am -> good via bigrams and (i, am) -> good via
// a trigram. vocab: 0=good 1=am 2=i 3=apples 4=my
func chainModel() *model.Model {
	vocab := []string{"good", "am", "i", "apples", "my"}
	bigram := map[int]map[byte]model.Bucket{
		2: {'a': {1}},
		1: {'g': {0}},
	}
	trigram := map[model.Context]map[byte]model.Bucket{
		{W1: 2, W2: 1}: {'g': {0}},
	}
	return model.New(vocab, bigram, trigram)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	enc := NewEncoder(chainModel(), 5)

	// Secret "IAG" targets i-a-g, covered by the i -> am -> good chain
	result := enc.Encode("IAG")
	if result.Truncated() {
		t.Fatalf("Unexpected dead end after %d chars", result.Consumed)
	}
	if result.Sentence != "I am good." {
		t.Errorf("Expected %q, got %q", "I am good.", result.Sentence)
	}
	if got := Decode(result.Sentence); got != "iag" {
		t.Errorf("Decode: got %q, want %q", got, "iag")
	}
}

func TestEncodeTargetFiltering(t *testing.T) {
	if got := Target("I! a@m   g-o#od 42"); got != "iamgood" {
		t.Errorf("Target: got %q, want %q", got, "iamgood")
	}
	if got := Target("...123..."); got != "" {
		t.Errorf("Target of letter-free input should be empty, got %q", got)
	}
	// Accented letters fall outside the cover alphabet
	if got := Target("Café"); got != "caf" {
		t.Errorf("Target: got %q, want %q", got, "caf")
	}
}

func TestEncodeEmptyMessage(t *testing.T) {
	enc := NewEncoder(chainModel(), 5)

	result := enc.Encode("42 !!!")
	if result.Sentence != "" {
		t.Errorf("Letter-free secret should encode to empty sentence, got %q", result.Sentence)
	}
	if result.Truncated() {
		t.Error("Empty target is a no-op, not a truncation")
	}
}

func TestEncodeEmptyModelDeadEndsImmediately(t *testing.T) {
	enc := NewEncoder(model.Empty(), 5)

	result := enc.Encode("hi")
	if result.Sentence != "" {
		t.Errorf("Expected empty sentence, got %q", result.Sentence)
	}
	if result.Consumed != 0 {
		t.Errorf("Expected 0 consumed, got %d", result.Consumed)
	}
	if !result.Truncated() {
		t.Error("Encoding against an empty model must report truncation")
	}
}

func TestEncodePrefixOnDeadEnd(t *testing.T) {
	// No vocabulary word starts with 'z', so "iz" dead-ends at step 1
	enc := NewEncoder(chainModel(), 5)

	result := enc.Encode("iz")
	if !result.Truncated() {
		t.Fatal("Expected a dead end")
	}
	if result.Consumed != 1 {
		t.Errorf("Expected 1 consumed character, got %d", result.Consumed)
	}

	decoded := Decode(result.Sentence)
	if decoded != result.Target[:result.Consumed] {
		t.Errorf("Decoded %q is not the consumed prefix %q", decoded, result.Target[:result.Consumed])
	}
}

func TestEncodeFallbackPenalty(t *testing.T) {
	// "ia" has a model-backed chain; "im" forces a fallback ('m' has a
	// word but no transition reaches it)
	enc := NewEncoder(chainModel(), 5)

	backed := enc.Encode("ia")
	if backed.Truncated() {
		t.Fatal("Model-backed encode should not dead-end")
	}
	if backed.Score <= fallbackPenalty {
		t.Errorf("Model-backed score %f should beat the fallback penalty", backed.Score)
	}

	forced := enc.Encode("im")
	if forced.Truncated() {
		t.Fatal("Fallback pool should rescue the 'm' step")
	}
	if forced.Score > fallbackPenalty {
		t.Errorf("Fallback encode score %f should carry the penalty", forced.Score)
	}
	if Decode(forced.Sentence) != "im" {
		t.Errorf("Fallback encode still round-trips: got %q", Decode(forced.Sentence))
	}
}

func TestEncodeDeterministic(t *testing.T) {
	enc := NewEncoder(chainModel(), 3)

	first := enc.Encode("iag")
	for i := 0; i < 5; i++ {
		again := enc.Encode("iag")
		if again.Sentence != first.Sentence || again.Score != first.Score {
			t.Fatalf("Encode not reproducible: %q (%f) vs %q (%f)",
				first.Sentence, first.Score, again.Sentence, again.Score)
		}
	}
}

func TestEncodeWiderBeamNeverScoresWorse(t *testing.T) {
	m := chainModel()

	prev := NewEncoder(m, 1).Encode("iag")
	for _, width := range []int{2, 3, 5, 10, 50} {
		result := NewEncoder(m, width).Encode("iag")
		if result.Consumed < prev.Consumed {
			t.Errorf("Width %d consumed %d < %d", width, result.Consumed, prev.Consumed)
		}
		if result.Consumed == prev.Consumed && result.Score < prev.Score {
			t.Errorf("Width %d score %f worse than narrower beam's %f", width, result.Score, prev.Score)
		}
		prev = result
	}
}

func TestEncodeTrigramPreferredOverBigram(t *testing.T) {
	// The trigram and bigram tables disagree on the best 'g' word
	// after "am"; the trigram candidate must win.
	vocab := []string{"great", "good", "am", "i"}
	bigram := map[int]map[byte]model.Bucket{
		3: {'a': {2}},
		2: {'g': {0, 1}}, // bigram ranks "great" first
	}
	trigram := map[model.Context]map[byte]model.Bucket{
		{W1: 3, W2: 2}: {'g': {1}}, // trigram knows only "good"
	}
	enc := NewEncoder(model.New(vocab, bigram, trigram), 5)

	result := enc.Encode("iag")
	if result.Sentence != "I am good." {
		t.Errorf("Trigram candidates take precedence: got %q", result.Sentence)
	}
}

func TestEncodeRendering(t *testing.T) {
	enc := NewEncoder(chainModel(), 5)

	result := enc.Encode("i")
	if result.Sentence != "I." {
		t.Errorf("Single word renders capitalized with period: got %q", result.Sentence)
	}
}
