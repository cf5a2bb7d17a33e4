package randomname_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tenantkit/pkg/randomname"
)

func TestIdentifier(t *testing.T) {
	t.Parallel()

	for range 200 {
		name := randomname.Identifier()
		assert.Regexp(t, `^[A-Za-z0-9]+-[A-Za-z0-9]+-[A-Za-z0-9]+$`, name)
		assert.NotContains(t, name, " ")
	}
}

func TestSimple(t *testing.T) {
	t.Parallel()

	assert.Regexp(t, `^[a-z]+-[a-z]+$`, randomname.Simple())
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("custom separator and lowercase", func(t *testing.T) {
		t.Parallel()

		name := randomname.Generate(&randomname.Options{
			Pattern:   []randomname.WordType{randomname.FirstName, randomname.JobArea},
			Separator: "_",
			Lowercase: true,
		})
		assert.Regexp(t, `^[a-z0-9]+_[a-z0-9]+$`, name)
	})

	t.Run("custom words are folded", func(t *testing.T) {
		t.Parallel()

		custom := randomname.WordType(100)
		name := randomname.Generate(&randomname.Options{
			Pattern: []randomname.WordType{custom, custom},
			Words:   map[randomname.WordType][]string{custom: {"São Tomé"}},
		})
		assert.Equal(t, "SaoTome-SaoTome", name)
	})

	t.Run("validator accepts first match", func(t *testing.T) {
		t.Parallel()

		var seen []string
		name := randomname.Generate(&randomname.Options{
			Validator: func(s string) bool {
				seen = append(seen, s)
				return len(seen) == 3
			},
		})
		assert.Len(t, seen, 3)
		assert.Equal(t, seen[2], name)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		t.Parallel()

		calls := 0
		name := randomname.Generate(&randomname.Options{
			Validator: func(string) bool {
				calls++
				return false
			},
		})
		assert.NotEmpty(t, name)
		assert.Equal(t, randomname.MaxAttempts, calls)
	})
}

func BenchmarkIdentifier(b *testing.B) {
	for range b.N {
		randomname.Identifier()
	}
}
