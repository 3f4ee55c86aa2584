// Package gate decides whether a candidate refactor keeps a project
// compiling before it is ever shown to an editor. It stages the refactor's
// edits as a virtual post-refactor view of the project, materializes that
// view into a scratch directory, and shells out to the real elm compiler.
package gate

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/elm-pair/elm-pair/internal/refactor"
	"github.com/elm-pair/elm-pair/internal/rope"
	"github.com/elm-pair/elm-pair/internal/syntax"
)

// Diagnostic is a single elm make report entry surfaced when a Check rejects
// a candidate.
type Diagnostic struct {
	File    string
	Line    int
	Column  int
	Message string
}

// Result is the outcome of gating a candidate refactor.
type Result struct {
	Accepted    bool
	Diagnostics []Diagnostic
}

// Sources supplies the live in-memory content for files a refactor touches,
// keyed by absolute path. Any file the refactor edits that isn't present
// here is read from disk instead.
type Sources map[string][]byte

// Gate owns one project's compilation-checking pipeline. Exactly one Check
// per project root runs at a time — concurrent callers for the same root
// collapse onto the in-flight call via singleflight, the same "only the
// latest pending refactor is gated" rule the compilation thread needs
// (spec.md §5): a second caller doesn't pay for a redundant compile, it
// just receives the first one's answer.
type Gate struct {
	projectRoot string
	elmBinary   string
	timeout     time.Duration

	sf singleflight.Group
}

// New returns a Gate for a project rooted at projectRoot. elmBinary is
// typically "elm" and is resolved through $PATH at Check time; a missing
// binary is reported as an error, never a panic, matching the teacher's
// detectGitInfo tolerance for a missing git binary.
func New(projectRoot, elmBinary string, timeout time.Duration) *Gate {
	if elmBinary == "" {
		elmBinary = "elm"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Gate{projectRoot: projectRoot, elmBinary: elmBinary, timeout: timeout}
}

// PathForFile resolves a syntax.FileID to its absolute path.
type PathForFile func(syntax.FileID) string

// Check applies rf's edits over a virtual copy of the project and asks the
// real elm compiler whether the result still compiles. A syntax-only
// pre-check short-circuits the compiler subprocess entirely when a staged
// file still has an unresolved parse error — there is no point paying for
// `elm make` on text that can't parse.
func (g *Gate) Check(ctx context.Context, rf *refactor.Refactor, sources Sources, pathForFile PathForFile) (*Result, error) {
	v, err, _ := g.sf.Do(g.projectRoot, func() (interface{}, error) {
		return g.check(ctx, rf, sources, pathForFile)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

func (g *Gate) check(ctx context.Context, rf *refactor.Refactor, sources Sources, pathForFile PathForFile) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	edited := make(map[string][]byte, len(sources))
	for path, content := range sources {
		edited[path] = append([]byte(nil), content...)
	}

	byPath := map[string][]refactor.TextEdit{}
	for _, e := range rf.Edits {
		p := pathForFile(e.File)
		byPath[p] = append(byPath[p], e)
	}

	for path, edits := range byPath {
		content, ok := edited[path]
		if !ok {
			raw, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("gate: read %s: %w", path, err)
			}
			content = raw
		}
		spliced, err := applyEdits(content, edits)
		if err != nil {
			return nil, fmt.Errorf("gate: stage %s: %w", path, err)
		}
		if hasSyntaxError(spliced) {
			return &Result{
				Accepted:    false,
				Diagnostics: []Diagnostic{{File: path, Message: "candidate edit leaves a syntax error, discarding before invoking the compiler"}},
			}, nil
		}
		edited[path] = spliced
	}

	stageDir, err := materialize(g.projectRoot, edited)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(stageDir)

	return g.compile(ctx, stageDir)
}

// applyEdits splices every edit for one file into its content. Edits are
// applied back-to-front by byte offset so an earlier edit's splice never
// invalidates a later one's offsets — recognizers never emit overlapping
// edits within a single file (§8's compile-preservation invariant assumes
// disjoint ranges), so order among equal-priority edits doesn't matter.
func applyEdits(content []byte, edits []refactor.TextEdit) ([]byte, error) {
	sorted := append([]refactor.TextEdit(nil), edits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartByte > sorted[j].StartByte })

	buf := rope.New(content)
	for _, e := range sorted {
		if _, err := buf.Splice(e.StartByte, e.EndByte, []byte(e.ReplacementText)); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
