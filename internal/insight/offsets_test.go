package insight

import "testing"

func TestOffsetReconstructor_DuplicateMentions(t *testing.T) {
	r := NewOffsetReconstructor("cat dog cat")

	if got := r.Locate("cat"); got != 0 {
		t.Errorf("Expected first 'cat' at 0, got %d", got)
	}
	if got := r.Locate("cat"); got != 8 {
		t.Errorf("Expected second 'cat' at 8, got %d", got)
	}
}

func TestOffsetReconstructor_CursorAdvancesPastMatch(t *testing.T) {
	r := NewOffsetReconstructor("alpha beta gamma")

	if got := r.Locate("alpha"); got != 0 {
		t.Errorf("Expected 'alpha' at 0, got %d", got)
	}
	if got := r.Locate("beta"); got != 6 {
		t.Errorf("Expected 'beta' at 6, got %d", got)
	}
	if got := r.Locate("gamma"); got != 11 {
		t.Errorf("Expected 'gamma' at 11, got %d", got)
	}
}

func TestOffsetReconstructor_NotFoundFallsBackToCursor(t *testing.T) {
	r := NewOffsetReconstructor("cat dog")

	if got := r.Locate("dog"); got != 4 {
		t.Fatalf("Expected 'dog' at 4, got %d", got)
	}
	// The detector normalized the text; fall back to the cursor, no advance.
	if got := r.Locate("CAT"); got != 7 {
		t.Errorf("Expected fallback to cursor 7, got %d", got)
	}
	if got := r.Locate("MISSING"); got != 7 {
		t.Errorf("Expected cursor unchanged after fallback, got %d", got)
	}
}

func TestOffsetReconstructor_SearchStartsAtCursor(t *testing.T) {
	// An annotation earlier in the blob than the cursor is not re-matched.
	r := NewOffsetReconstructor("dog cat dog")

	if got := r.Locate("cat"); got != 4 {
		t.Fatalf("Expected 'cat' at 4, got %d", got)
	}
	if got := r.Locate("dog"); got != 8 {
		t.Errorf("Expected the second 'dog' at 8, got %d", got)
	}
}
