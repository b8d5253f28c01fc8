package simulator

import (
	"fmt"
	"testing"
)

func TestNormalize(t *testing.T) {
	got := normalize("  What's the EMI,   for ₹5,000?! ")
	if want := "what s the emi for 5 000?"; got != want {
		t.Fatalf("normalize() = %q, want %q", got, want)
	}
}

func TestTopicTags_WordStart(t *testing.T) {
	if tags := topicTags(normalize("What premium do I pay?")); len(tags) != 0 {
		t.Errorf("premium should not carry the emi tag, got %v", tags)
	}
	tags := topicTags(normalize("Show me the EMI and documents"))
	for _, want := range []string{"emi", "document"} {
		if _, ok := tags[want]; !ok {
			t.Errorf("missing tag %q in %v", want, tags)
		}
	}
}

func TestRepetitionMemory_Seen(t *testing.T) {
	mem := newRepetitionMemory([]string{"What documents should I bring?", "Okay thanks"})

	if !mem.seen("okay, THANKS") {
		t.Errorf("expected exact normalized match")
	}
	if !mem.seen("Which document list is shortest?") {
		t.Errorf("expected topic overlap on document")
	}
	if mem.seen("How long is the approval?") {
		t.Errorf("unrelated question should be fresh")
	}
	if mem.seen("") || mem.seen("!!!") {
		t.Errorf("empty candidates are never repeats")
	}
}

func TestRepetitionMemory_Depth(t *testing.T) {
	var msgs []string
	for i := 0; i < memoryDepth+2; i++ {
		msgs = append(msgs, fmt.Sprintf("message number %d", i))
	}
	mem := newRepetitionMemory(msgs)
	if len(mem) != memoryDepth {
		t.Fatalf("expected %d entries got %d", memoryDepth, len(mem))
	}
	if mem.seen(msgs[0]) {
		t.Fatalf("oldest message should have been forgotten")
	}
	if !mem.seen(msgs[len(msgs)-1]) {
		t.Fatalf("newest message should be remembered")
	}
}
