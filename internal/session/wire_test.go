package session

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHandshake(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0, 0, 0, 1})
	id, err := ReadHandshake(buf)
	require.NoError(t, err)
	assert.Equal(t, EditorNeovim, id)
}

func TestRoundTripNewFileFrame(t *testing.T) {
	var wire bytes.Buffer
	enc := newEncoder()
	enc.i32(7) // file-id
	enc.u8(uint8(MsgNewFile))
	enc.str("src/Main.elm")
	enc.bytes([]byte("module Main exposing (foo)\n"))
	wire.Write(enc.b)

	frame, err := ReadClientFrame(bufio.NewReader(&wire))
	require.NoError(t, err)
	assert.Equal(t, int32(7), frame.FileID)
	assert.Equal(t, MsgNewFile, frame.Kind)
	require.NotNil(t, frame.NewFile)
	assert.Equal(t, "src/Main.elm", frame.NewFile.Path)
	assert.Equal(t, "module Main exposing (foo)\n", string(frame.NewFile.Content))
}

func TestRoundTripChangeFrame(t *testing.T) {
	var wire bytes.Buffer
	enc := newEncoder()
	enc.i32(7)
	enc.u8(uint8(MsgChange))
	enc.u8(1) // allow-refactor
	enc.i32(3)
	enc.i32(5)
	enc.i32(3)
	enc.i32(8)
	enc.bytes([]byte("inc"))
	wire.Write(enc.b)

	frame, err := ReadClientFrame(bufio.NewReader(&wire))
	require.NoError(t, err)
	require.NotNil(t, frame.Change)
	assert.True(t, frame.Change.AllowRefactor)
	assert.Equal(t, int32(3), frame.Change.StartLine)
	assert.Equal(t, int32(5), frame.Change.StartCol)
	assert.Equal(t, int32(3), frame.Change.EndLine)
	assert.Equal(t, int32(8), frame.Change.EndCol)
	assert.Equal(t, "inc", string(frame.Change.Text))
}

func TestWriteServerFrameRefactor(t *testing.T) {
	var wire bytes.Buffer
	err := WriteServerFrame(&wire, &ServerFrame{
		Kind: CmdRefactor,
		RefactorEdits: []WireEdit{
			{Path: "src/Main.elm", StartLine: 1, StartCol: 0, EndLine: 1, EndCol: 9, NewText: []byte("inc")},
		},
	})
	require.NoError(t, err)

	r := bufio.NewReader(&wire)
	kindByte, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, uint8(CmdRefactor), kindByte)

	count, err := readI32(r)
	require.NoError(t, err)
	assert.Equal(t, int32(1), count)

	path, err := readString(r)
	require.NoError(t, err)
	assert.Equal(t, "src/Main.elm", path)
}

func TestReadClientFrameRejectsUnknownMsgType(t *testing.T) {
	var wire bytes.Buffer
	enc := newEncoder()
	enc.i32(1)
	enc.u8(255)
	wire.Write(enc.b)

	_, err := ReadClientFrame(bufio.NewReader(&wire))
	assert.Error(t, err)
}
