// Package session implements the editor-driver wire protocol and the
// per-connection state machine that turns incoming byte-level edits into
// knowledge-base updates, recognized refactors, and outgoing edit frames.
package session

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// EditorID identifies which editor extension opened a connection, sent as
// the very first four bytes of a session.
type EditorID int32

const (
	EditorVSCode EditorID = 0
	EditorNeovim EditorID = 1
)

// ClientMsgKind is the one-byte discriminant on every editor->daemon frame.
type ClientMsgKind uint8

const (
	MsgNewFile ClientMsgKind = 0
	MsgChange  ClientMsgKind = 1
)

// ServerCmdKind is the one-byte discriminant on every daemon->editor frame.
type ServerCmdKind uint8

const (
	CmdRefactor  ServerCmdKind = 0
	CmdOpenFiles ServerCmdKind = 1
	CmdShowFile  ServerCmdKind = 2
)

// NewFileBody is msg-type 0's payload: the editor announcing a file it has
// open, with its current full content.
type NewFileBody struct {
	Path    string
	Content []byte
}

// ChangeBody is msg-type 1's payload: a single byte-level edit, expressed
// in zero-indexed, half-open line/column coordinates. AllowRefactor is
// false when the editor tags the edit as an undo/redo origin (§9's
// undo-safety rule); absence of the flag on the wire is impossible here —
// ReadClientFrame always reads it — the "treat absence as do-refactor" rule
// lives in the caller that constructs frames for editors (e.g. Neovim's)
// that never send one, by defaulting AllowRefactor to true before encoding.
type ChangeBody struct {
	AllowRefactor bool
	StartLine     int32
	StartCol      int32
	EndLine       int32
	EndCol        int32
	Text          []byte
}

// ClientFrame is one fully decoded editor->daemon message.
type ClientFrame struct {
	FileID  int32
	Kind    ClientMsgKind
	NewFile *NewFileBody
	Change  *ChangeBody
}

// WireEdit is one file's worth of replacement text within a CmdRefactor
// frame, in the same line/column coordinates the editor sent edits in.
type WireEdit struct {
	Path      string
	StartLine int32
	StartCol  int32
	EndLine   int32
	EndCol    int32
	NewText   []byte
}

// ServerFrame is one fully encoded daemon->editor message.
type ServerFrame struct {
	Kind          ServerCmdKind
	RefactorEdits []WireEdit // CmdRefactor
	OpenPaths     []string   // CmdOpenFiles
	ShowPath      string     // CmdShowFile
}

// ReadHandshake reads the 4-byte editor id that must be the first thing a
// session sends.
func ReadHandshake(r io.Reader) (EditorID, error) {
	var id int32
	if err := binary.Read(r, binary.BigEndian, &id); err != nil {
		return 0, fmt.Errorf("session: read handshake: %w", err)
	}
	return EditorID(id), nil
}

// ReadClientFrame decodes a single editor->daemon frame per §6.2:
// file-id:i32 | msg-type:u8 | body.
func ReadClientFrame(r *bufio.Reader) (*ClientFrame, error) {
	fileID, err := readI32(r)
	if err != nil {
		return nil, err
	}
	kindByte, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("session: read msg-type: %w", err)
	}

	frame := &ClientFrame{FileID: fileID, Kind: ClientMsgKind(kindByte)}
	switch frame.Kind {
	case MsgNewFile:
		path, err := readString(r)
		if err != nil {
			return nil, err
		}
		content, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		frame.NewFile = &NewFileBody{Path: path, Content: content}

	case MsgChange:
		allowByte, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("session: read allow-refactor: %w", err)
		}
		startLine, err := readI32(r)
		if err != nil {
			return nil, err
		}
		startCol, err := readI32(r)
		if err != nil {
			return nil, err
		}
		endLine, err := readI32(r)
		if err != nil {
			return nil, err
		}
		endCol, err := readI32(r)
		if err != nil {
			return nil, err
		}
		text, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		frame.Change = &ChangeBody{
			AllowRefactor: allowByte != 0,
			StartLine:     startLine,
			StartCol:      startCol,
			EndLine:       endLine,
			EndCol:        endCol,
			Text:          text,
		}

	default:
		return nil, fmt.Errorf("session: unknown msg-type %d", kindByte)
	}

	return frame, nil
}

// WriteServerFrame encodes and writes a single daemon->editor frame per
// §6.2: cmd:u8 | body. Callers serialize writes themselves (the session's
// socket-write mutex) — this function does one Write call's worth of work
// but does not itself lock anything.
func WriteServerFrame(w io.Writer, f *ServerFrame) error {
	buf := newEncoder()
	buf.u8(uint8(f.Kind))

	switch f.Kind {
	case CmdRefactor:
		buf.i32(int32(len(f.RefactorEdits)))
		for _, e := range f.RefactorEdits {
			buf.str(e.Path)
			buf.i32(e.StartLine)
			buf.i32(e.StartCol)
			buf.i32(e.EndLine)
			buf.i32(e.EndCol)
			buf.bytes(e.NewText)
		}
	case CmdOpenFiles:
		buf.i32(int32(len(f.OpenPaths)))
		for _, p := range f.OpenPaths {
			buf.str(p)
		}
	case CmdShowFile:
		buf.str(f.ShowPath)
	default:
		return fmt.Errorf("session: unknown cmd %d", f.Kind)
	}

	_, err := w.Write(buf.b)
	return err
}

func readI32(r io.Reader) (int32, error) {
	var v int32
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, fmt.Errorf("session: read i32: %w", err)
	}
	return v, nil
}

func readString(r *bufio.Reader) (string, error) {
	b, err := readBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readBytes(r *bufio.Reader) ([]byte, error) {
	n, err := readI32(r)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("session: negative length %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("session: read %d bytes: %w", n, err)
	}
	return buf, nil
}

// encoder accumulates a single outgoing frame's bytes before one Write call.
type encoder struct{ b []byte }

func newEncoder() *encoder { return &encoder{} }

func (e *encoder) u8(v uint8) { e.b = append(e.b, v) }

func (e *encoder) i32(v int32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	e.b = append(e.b, tmp[:]...)
}

func (e *encoder) bytes(v []byte) {
	e.i32(int32(len(v)))
	e.b = append(e.b, v...)
}

func (e *encoder) str(v string) {
	e.bytes([]byte(v))
}
