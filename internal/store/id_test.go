package store

import "testing"

func TestNewID(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		id := NewID()
		if !IsValidID(id) {
			t.Fatalf("generated invalid id %q", id)
		}
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestIsValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{id: "6f1c2d9e-3a4b-4c5d-8e7f-0a1b2c3d4e5f", want: true},
		{id: "", want: false},
		{id: "gr-ab12", want: false},
		{id: "6f1c2d9e3a4b4c5d8e7f0a1b2c3d4e5f", want: false},
		{id: "{6f1c2d9e-3a4b-4c5d-8e7f-0a1b2c3d4e5f}", want: false},
	}
	for _, tc := range tests {
		if got := IsValidID(tc.id); got != tc.want {
			t.Fatalf("IsValidID(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}
