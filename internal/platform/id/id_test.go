package id_test

import (
	"testing"

	"github.com/google/uuid"

	"exlog/internal/platform/id"
)

func TestUUIDGeneratesDistinctParseableIDs(t *testing.T) {
	t.Parallel()
	gen := id.UUID{}
	seen := map[string]struct{}{}
	for i := 0; i < 500; i++ {
		v := gen.New()
		if _, err := uuid.Parse(v); err != nil {
			t.Fatalf("id %q is not a uuid: %v", v, err)
		}
		if _, dup := seen[v]; dup {
			t.Fatalf("duplicate id %q after %d draws", v, i)
		}
		seen[v] = struct{}{}
	}
}
