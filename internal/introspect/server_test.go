package introspect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elm-pair/elm-pair/internal/kb"
	"github.com/elm-pair/elm-pair/internal/syntax"
)

func TestFormatResolution(t *testing.T) {
	cases := []struct {
		name string
		res  kb.Resolution
		want string
	}{
		{
			name: "unique",
			res:  kb.Resolution{Status: kb.ResolvedUnique, Module: "Dict"},
			want: "Dict.get",
		},
		{
			name: "ambiguous",
			res:  kb.Resolution{Status: kb.ResolvedAmbiguous, Candidates: []string{"Dict", "Set"}},
			want: "ambiguous: Dict, Set",
		},
		{
			name: "unresolved",
			res:  kb.Resolution{Status: kb.ResolvedUnresolved},
			want: "unresolved",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, formatResolution(c.res, "get"))
		})
	}
}

func TestFormatUsagesEmpty(t *testing.T) {
	assert.Equal(t, "no usages found", formatUsages(nil))
}

func TestFormatUsagesListsEveryOccurrence(t *testing.T) {
	occs := []kb.Occurrence{
		{Kind: kb.OccurrenceDefinition, Position: kb.Position{File: syntax.FileID(1), StartByte: 10, EndByte: 13}},
		{Kind: kb.OccurrenceUse, Position: kb.Position{File: syntax.FileID(2), StartByte: 40, EndByte: 43}},
	}
	got := formatUsages(occs)
	assert.Contains(t, got, "file 1, bytes [10:13), kind 0")
	assert.Contains(t, got, "file 2, bytes [40:43), kind 1")
}

func TestFormatSessionsEmpty(t *testing.T) {
	assert.Equal(t, "no sessions", formatSessions(nil))
}

func TestFormatSessionsJoinsEntries(t *testing.T) {
	got := formatSessions([]string{"session 1 (editor 0)", "session 2 (editor 1)"})
	assert.Equal(t, "session 1 (editor 0)\nsession 2 (editor 1)", got)
}

type fakeSessionLister struct{ sessions []string }

func (f fakeSessionLister) ActiveSessions() []string { return f.sessions }

func TestNewRegistersWithoutPanicking(t *testing.T) {
	store := kb.New()
	hot := kb.NewHotSwap(store)
	srv := New(hot, fakeSessionLister{sessions: []string{"session 1 (editor 0)"}})
	assert.NotNil(t, srv)
}

func TestNewAcceptsNilSessionLister(t *testing.T) {
	store := kb.New()
	hot := kb.NewHotSwap(store)
	srv := New(hot, nil)
	assert.NotNil(t, srv)
}
