package session

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"sync"
	"unicode/utf8"

	"github.com/elm-pair/elm-pair/internal/gate"
	"github.com/elm-pair/elm-pair/internal/kb"
	"github.com/elm-pair/elm-pair/internal/refactor"
	"github.com/elm-pair/elm-pair/internal/syntax"
)

// Session owns one editor connection: its open files, the shared project
// knowledge base it reads and writes, and the socket-write mutex that keeps
// outgoing frames from interleaving. Per §9's "no global state" rule, every
// piece of mutable state reachable from a connection hangs off this struct.
type Session struct {
	id       int
	conn     net.Conn
	editorID EditorID
	store    *kb.HotSwap
	gate     *gate.Gate

	mu      sync.Mutex
	files   map[syntax.FileID]*syntax.OpenFile
	nextRev uint64

	writeMu sync.Mutex
}

// New wraps an accepted connection as a Session, reading the handshake
// before returning.
func New(id int, conn net.Conn, store *kb.HotSwap, g *gate.Gate) (*Session, error) {
	editorID, err := ReadHandshake(conn)
	if err != nil {
		return nil, err
	}
	return &Session{
		id:       id,
		conn:     conn,
		editorID: editorID,
		store:    store,
		gate:     g,
		files:    make(map[syntax.FileID]*syntax.OpenFile),
	}, nil
}

// Serve reads frames until the connection closes or a framing error occurs,
// per §7's rule that a malformed frame ends only this session, never the
// daemon.
func (s *Session) Serve(ctx context.Context) {
	defer s.conn.Close()
	r := bufio.NewReader(s.conn)

	log.Printf("session %d: editor %d connected", s.id, s.editorID)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frame, err := ReadClientFrame(r)
		if err != nil {
			log.Printf("session %d: closing on framing error: %v", s.id, err)
			return
		}

		if err := s.handle(ctx, frame); err != nil {
			log.Printf("session %d: file %d: %v", s.id, frame.FileID, err)
		}
	}
}

func (s *Session) handle(ctx context.Context, frame *ClientFrame) error {
	switch frame.Kind {
	case MsgNewFile:
		return s.handleNewFile(frame.FileID, frame.NewFile)
	case MsgChange:
		return s.handleChange(ctx, frame.FileID, frame.Change)
	default:
		return fmt.Errorf("unhandled msg-type %d", frame.Kind)
	}
}

func (s *Session) handleNewFile(fileID int32, body *NewFileBody) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := syntax.FileID(fileID)
	f, err := syntax.Open(id, body.Path, body.Content)
	if err != nil {
		return fmt.Errorf("open %s: %w", body.Path, err)
	}
	s.files[id] = f

	root := f.File.Tree.RootNode()
	return s.store.Current().UpdateFile(id, body.Path, root, body.Content)
}

// handleChange applies one edit to its file, runs the recognizer dispatch,
// and — when a refactor is recognized — gates it against the real compiler
// before ever writing anything back to the editor. This mirrors the three
// logical stages of §5 inline within a single goroutine per connection; the
// daemon's Server multiplexes many such goroutines, each independent, with
// no shared mutable state beyond the HotSwap-guarded store and the gate's
// own per-project singleflight.
func (s *Session) handleChange(ctx context.Context, fileID int32, body *ChangeBody) error {
	s.mu.Lock()
	id := syntax.FileID(fileID)
	f, ok := s.files[id]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("change for unknown file %d", fileID)
	}

	startByte, err := f.Buffer.LineColToByteOffset(uint32(body.StartLine), uint32(body.StartCol))
	if err != nil {
		return fmt.Errorf("resolve start position: %w", err)
	}
	endByte, err := f.Buffer.LineColToByteOffset(uint32(body.EndLine), uint32(body.EndCol))
	if err != nil {
		return fmt.Errorf("resolve end position: %w", err)
	}

	s.mu.Lock()
	treeEdit, err := f.ApplyEdit(startByte, endByte, body.Text)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("apply edit: %w", err)
	}
	if treeEdit == nil {
		return nil
	}

	f.File.DoNotRefactor = !body.AllowRefactor

	root := f.File.Tree.RootNode()
	if err := s.store.Current().UpdateFile(id, f.File.Path, root, f.Buffer.Bytes()); err != nil {
		return fmt.Errorf("update knowledge base: %w", err)
	}

	if f.File.DoNotRefactor {
		// Undo/redo origin: KB already reflects the edit, but §9's
		// undo-safety property forbids firing any recognizer on it.
		return nil
	}

	rf, matched, err := refactor.Dispatch(*treeEdit, s.store.Current())
	if err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	if !matched || rf == nil || len(rf.Edits) == 0 {
		return nil
	}

	result, err := s.gate.Check(ctx, rf, s.liveSources(), s.pathForFile)
	if err != nil {
		return fmt.Errorf("gate: %w", err)
	}
	if !result.Accepted {
		return nil
	}

	return s.emit(rf)
}

// liveSources hands the gate every open file's current in-memory content so
// it stages edits against what the editor actually has, not the possibly
// stale copy on disk.
func (s *Session) liveSources() gate.Sources {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(gate.Sources, len(s.files))
	for _, f := range s.files {
		out[f.File.Path] = f.Buffer.Bytes()
	}
	return out
}

func (s *Session) pathForFile(id syntax.FileID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.files[id]; ok {
		return f.File.Path
	}
	return ""
}

// emit applies a gated refactor's edits to every affected open buffer and
// writes the corresponding CmdRefactor frame back to the editor. Only files
// this session has open are covered: an edit for any other file is
// skipped, and a FilesToOpen entry is sent in a CmdOpenFiles frame (ahead
// of the CmdRefactor frame) only when the session already knows its path.
func (s *Session) emit(rf *refactor.Refactor) error {
	s.mu.Lock()
	var wireEdits []WireEdit
	var toOpen []string
	for _, e := range rf.Edits {
		f, ok := s.files[e.File]
		if !ok {
			continue
		}
		startLine, startCol := byteOffsetToLineCol(f.Buffer.Bytes(), e.StartByte)
		endLine, endCol := byteOffsetToLineCol(f.Buffer.Bytes(), e.EndByte)
		wireEdits = append(wireEdits, WireEdit{
			Path:      f.File.Path,
			StartLine: startLine,
			StartCol:  startCol,
			EndLine:   endLine,
			EndCol:    endCol,
			NewText:   []byte(e.ReplacementText),
		})
	}
	for _, id := range rf.FilesToOpen {
		if f, ok := s.files[id]; ok {
			toOpen = append(toOpen, f.File.Path)
		}
	}
	s.mu.Unlock()

	if len(toOpen) > 0 {
		if err := s.writeFrame(&ServerFrame{Kind: CmdOpenFiles, OpenPaths: toOpen}); err != nil {
			return err
		}
	}
	if len(wireEdits) == 0 {
		return nil
	}
	return s.writeFrame(&ServerFrame{Kind: CmdRefactor, RefactorEdits: wireEdits})
}

func (s *Session) writeFrame(f *ServerFrame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return WriteServerFrame(s.conn, f)
}

// byteOffsetToLineCol converts a byte offset back into zero-indexed
// (line, column) in UTF-8 code points, the inverse of
// rope.Buffer.LineColToByteOffset, for encoding outgoing edits.
func byteOffsetToLineCol(data []byte, offset uint32) (line, col int32) {
	for i := uint32(0); i < offset && int(i) < len(data); {
		if data[i] == '\n' {
			line++
			col = 0
			i++
			continue
		}
		_, size := utf8.DecodeRune(data[i:])
		if size == 0 {
			size = 1
		}
		i += uint32(size)
		col++
	}
	return line, col
}
