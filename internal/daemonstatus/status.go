// Package daemonstatus maintains a small memory-mapped status block per
// running daemon so external tooling (the `elm-pair list`/`clean`
// subcommands, health checks) can inspect a live daemon without connecting
// to its editor-protocol socket.
package daemonstatus

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	blockSize = 4096 // 1 page
	magic     = 0x454C4D50 // 'ELMP'
)

// block is the memory-mapped layout; it must keep a stable size across
// versions since a running daemon and a concurrently invoked `elm-pair
// list` read the same bytes without coordinating on a schema.
type block struct {
	Magic      uint32
	Version    uint32
	PID        uint64
	Generation uint64 // bumped once per change the file watcher applies; atomic
	SocketPath [512]byte
	ProjectRoot [512]byte
	Padding    [blockSize - 4 - 4 - 8 - 8 - 512 - 512]byte
}

// Status manages one daemon's memory-mapped status file.
type Status struct {
	path string
	file *os.File
	data []byte
	ptr  *block
}

// Open creates (or re-initializes) a status file at path, recording the
// daemon's PID, socket path, and project root.
func Open(path, socketPath, projectRoot string) (*Status, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("daemonstatus: mkdir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("daemonstatus: open %s: %w", path, err)
	}

	if err := f.Truncate(blockSize); err != nil {
		f.Close()
		return nil, fmt.Errorf("daemonstatus: truncate: %w", err)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, blockSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("daemonstatus: mmap: %w", err)
	}

	ptr := (*block)(unsafe.Pointer(&data[0]))
	ptr.Magic = magic
	ptr.Version = 1
	ptr.PID = uint64(os.Getpid())
	putString(ptr.SocketPath[:], socketPath)
	putString(ptr.ProjectRoot[:], projectRoot)

	return &Status{path: path, file: f, data: data, ptr: ptr}, nil
}

// BumpGeneration records that another change has been applied, so a reader
// can tell the daemon is alive and making progress. The daemon calls it for
// each filesystem change or rescan its watch loop applies; edits arriving
// over editor sessions do not bump it.
func (s *Status) BumpGeneration() {
	atomic.AddUint64(&s.ptr.Generation, 1)
}

// Close unmaps and closes the status file. The file itself is left behind
// for `elm-pair clean` to remove once the PID it names is no longer alive.
func (s *Status) Close() error {
	if err := unix.Munmap(s.data); err != nil {
		return err
	}
	return s.file.Close()
}

// Read opens an existing status file read-only and decodes it, for use by
// `elm-pair list`/`clean` rather than the owning daemon.
func Read(path string) (pid int, socketPath, projectRoot string, generation uint64, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, "", "", 0, fmt.Errorf("daemonstatus: read %s: %w", path, err)
	}
	if len(data) < blockSize {
		return 0, "", "", 0, fmt.Errorf("daemonstatus: %s truncated", path)
	}
	ptr := (*block)(unsafe.Pointer(&data[0]))
	if ptr.Magic != magic {
		return 0, "", "", 0, fmt.Errorf("daemonstatus: %s has bad magic %x", path, ptr.Magic)
	}
	return int(ptr.PID), getString(ptr.SocketPath[:]), getString(ptr.ProjectRoot[:]), ptr.Generation, nil
}

func putString(dst []byte, s string) {
	n := copy(dst, s)
	if n < len(dst) {
		dst[n] = 0
	}
}

// IsProcessRunning reports whether pid is alive, the same signal-0 probe
// the teacher's agent-mount mode uses to tell a stale mount from a live one.
func IsProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

func getString(src []byte) string {
	for i, b := range src {
		if b == 0 {
			return string(src[:i])
		}
	}
	return string(src)
}
