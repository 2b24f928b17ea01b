package emailparser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juandaherrera/finmail/internal/htmlutil"
	"github.com/juandaherrera/finmail/internal/models"
)

type stubParser struct {
	name    string
	matches bool
}

func (s *stubParser) Name() string { return s.name }

func (s *stubParser) Matches(sender, subject string, doc *htmlutil.Document) bool {
	return s.matches
}

func (s *stubParser) Parse(sender, subject string, doc *htmlutil.Document, receivedAt *time.Time) (models.Transaction, error) {
	return models.Transaction{Pocket: s.name}, nil
}

func TestDetectReturnsFirstMatch(t *testing.T) {
	first := &stubParser{name: "first", matches: true}
	second := &stubParser{name: "second", matches: true}
	registry := NewRegistry(first, second)

	doc := htmlutil.Parse("<p>body</p>")

	// Both predicates are true; registration order decides, every time.
	for i := 0; i < 10; i++ {
		got, ok := registry.Detect("a@b.com", "subject", doc)
		require.True(t, ok)
		assert.Equal(t, "first", got.Name())
	}
}

func TestDetectSkipsNonMatching(t *testing.T) {
	first := &stubParser{name: "first", matches: false}
	second := &stubParser{name: "second", matches: true}
	registry := NewRegistry(first, second)

	got, ok := registry.Detect("a@b.com", "subject", htmlutil.Parse(""))
	require.True(t, ok)
	assert.Equal(t, "second", got.Name())
}

func TestDetectNoMatch(t *testing.T) {
	registry := NewRegistry(&stubParser{name: "only"})

	got, ok := registry.Detect("a@b.com", "subject", htmlutil.Parse(""))
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestNames(t *testing.T) {
	registry := NewRegistry(&stubParser{name: "one"}, &stubParser{name: "two"})
	assert.Equal(t, []string{"one", "two"}, registry.Names())
}
