package id

import (
	"strings"
	"testing"
)

func TestUUIDGenerator(t *testing.T) {
	gen := NewUUIDGenerator()

	t.Run("Generate", func(t *testing.T) {
		id := gen.Generate()
		if len(id) != 36 {
			t.Errorf("expected UUID length 36, got %d", len(id))
		}

		// Check format: xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx
		parts := strings.Split(id, "-")
		if len(parts) != 5 {
			t.Errorf("expected 5 parts, got %d", len(parts))
		}

		// Check version (4)
		if id[14] != '4' {
			t.Errorf("expected version 4, got %c", id[14])
		}

		// Check variant
		variant := id[19]
		if variant != '8' && variant != '9' && variant != 'a' && variant != 'b' {
			t.Errorf("expected variant 8/9/a/b, got %c", variant)
		}
	})

	t.Run("GenerateN", func(t *testing.T) {
		ids := gen.GenerateN(10)
		if len(ids) != 10 {
			t.Errorf("expected 10 IDs, got %d", len(ids))
		}

		// Check uniqueness
		seen := make(map[string]bool)
		for _, id := range ids {
			if seen[id] {
				t.Errorf("duplicate ID: %s", id)
			}
			seen[id] = true
		}
	})

	t.Run("IsValidUUID", func(t *testing.T) {
		validUUID := "550e8400-e29b-41d4-a716-446655440000"
		if !IsValidUUID(validUUID) {
			t.Errorf("expected %s to be valid", validUUID)
		}

		invalidUUIDs := []string{
			"",
			"invalid",
			"550e8400-e29b-41d4-a716",
			"550e8400-e29b-41d4-a716-44665544000g",
		}
		for _, invalid := range invalidUUIDs {
			if IsValidUUID(invalid) {
				t.Errorf("expected %s to be invalid", invalid)
			}
		}
	})
}

func TestNewUUID(t *testing.T) {
	id := NewUUID()
	if !IsValidUUID(id) {
		t.Errorf("NewUUID returned invalid UUID: %s", id)
	}
}

func BenchmarkUUID(b *testing.B) {
	gen := NewUUIDGenerator()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gen.Generate()
	}
}
