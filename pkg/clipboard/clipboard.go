// Package clipboard moves bundle text in and out of the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	sysclip "github.com/atotto/clipboard"
)

// ErrEmpty is returned by Memory.ReadText before anything was written.
var ErrEmpty = errors.New("clipboard is empty")

// Clipboard reads and writes plain text.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// AccessError wraps a failure to reach the clipboard. It is always fatal.
type AccessError struct {
	Op  string // "read" or "write".
	Err error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("clipboard %s: %v", e.Op, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// System is the OS clipboard (pbcopy/pbpaste, xclip, xsel, wl-clipboard or
// the Windows API, whichever is available).
type System struct{}

// NewSystem returns the OS clipboard. It fails when no clipboard utility is available.
func NewSystem() (System, error) {
	if sysclip.Unsupported {
		return System{}, &AccessError{Op: "open", Err: errors.New("no clipboard utility found (install xclip, xsel or wl-clipboard)")}
	}
	return System{}, nil
}

func (System) ReadText() (string, error) {
	text, err := sysclip.ReadAll()
	if err != nil {
		return "", &AccessError{Op: "read", Err: err}
	}
	return text, nil
}

func (System) WriteText(text string) error {
	if err := sysclip.WriteAll(text); err != nil {
		return &AccessError{Op: "write", Err: err}
	}
	return nil
}

// Memory is an in-process clipboard.
type Memory struct {
	mu   sync.Mutex
	text string
	set  bool
}

func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return "", &AccessError{Op: "read", Err: ErrEmpty}
	}
	return m.text, nil
}

func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text, m.set = text, true
	return nil
}

// Stream adapts a reader and a writer to the Clipboard interface so a bundle
// can be piped through stdin and stdout instead.
type Stream struct {
	In  io.Reader
	Out io.Writer
}

func (s Stream) ReadText() (string, error) {
	if s.In == nil {
		return "", &AccessError{Op: "read", Err: errors.New("no input stream")}
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, s.In); err != nil {
		return "", &AccessError{Op: "read", Err: err}
	}
	return sb.String(), nil
}

func (s Stream) WriteText(text string) error {
	if s.Out == nil {
		return &AccessError{Op: "write", Err: errors.New("no output stream")}
	}
	if _, err := io.WriteString(s.Out, text); err != nil {
		return &AccessError{Op: "write", Err: err}
	}
	return nil
}
