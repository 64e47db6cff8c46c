package validation

import "testing"

func TestIsValidIdentifier(t *testing.T) {
	ok := []string{"a", "A", "_a", "a1", "a_b2", "snake_case_123", "sine_wave"}
	bad := []string{"", "1a", "a-b", "a b", "a;b", "a\"b", "a.b", "a/b", "a--", "select", "from", "order", "table", "group", "user", "returning"}

	for _, s := range ok {
		if !IsValidIdentifier(s) {
			t.Fatalf("expected valid: %q", s)
		}
	}
	for _, s := range bad {
		if IsValidIdentifier(s) {
			t.Fatalf("expected invalid: %q", s)
		}
	}
}

func TestIsValidMode(t *testing.T) {
	if !IsValidMode("create_if_missing") || !IsValidMode("truncate_then_insert") || !IsValidMode("append_only") {
		t.Fatal("expected valid table modes")
	}
	if IsValidMode("") || IsValidMode("create") || IsValidMode("foo") {
		t.Fatal("expected invalid mode")
	}
}
