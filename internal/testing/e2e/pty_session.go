// Package e2e drives the built CLI inside a pseudo-terminal, so tests
// exercise the raw keyboard path and the alternate-screen renderer the
// way a real terminal would.
package e2e

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"

	"github.com/logflix/logflix/internal/core/sanitize"
)

// TUITestConfig describes the process to run under a PTY.
type TUITestConfig struct {
	Command string
	Args    []string
	WorkDir string
	Env     []string

	// Terminal geometry; zero values default to 24x80.
	Rows uint16
	Cols uint16

	// Timeout bounds the whole session.
	Timeout time.Duration
}

// TUITestSession is one CLI process attached to a PTY, with its output
// captured continuously.
type TUITestSession struct {
	cmd    *exec.Cmd
	ptmx   *os.File
	cancel context.CancelFunc

	outputMu sync.RWMutex
	output   bytes.Buffer
}

// NewTUITestSession starts the process under a PTY of the configured size.
func NewTUITestSession(config *TUITestConfig) (*TUITestSession, error) {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Rows == 0 {
		config.Rows = 24
	}
	if config.Cols == 0 {
		config.Cols = 80
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)

	cmd := exec.CommandContext(ctx, config.Command, config.Args...)
	if config.WorkDir != "" {
		cmd.Dir = config.WorkDir
	}
	if len(config.Env) > 0 {
		cmd.Env = append(os.Environ(), config.Env...)
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: config.Rows,
		Cols: config.Cols,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	session := &TUITestSession{
		cmd:    cmd,
		ptmx:   ptmx,
		cancel: cancel,
	}
	go session.captureOutput()

	return session, nil
}

// captureOutput drains the PTY into the buffer until the process ends.
func (s *TUITestSession) captureOutput() {
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			s.outputMu.Lock()
			s.output.Write(buf[:n])
			s.outputMu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// SendKey writes one raw byte to the process, as if a key was pressed.
func (s *TUITestSession) SendKey(key byte) error {
	_, err := s.ptmx.Write([]byte{key})
	return err
}

// SendString writes a byte sequence, for multi-byte keys like arrows.
func (s *TUITestSession) SendString(str string) error {
	_, err := s.ptmx.Write([]byte(str))
	return err
}

// GetOutput returns everything the process has written so far, raw.
func (s *TUITestSession) GetOutput() string {
	s.outputMu.RLock()
	defer s.outputMu.RUnlock()
	return s.output.String()
}

// GetCleanOutput returns the captured output with escape sequences
// stripped, one reuse of the player's own sanitizer.
func (s *TUITestSession) GetCleanOutput() string {
	return sanitize.Strip(s.GetOutput())
}

// ContainsText reports whether text has appeared in the clean output.
func (s *TUITestSession) ContainsText(text string) bool {
	return strings.Contains(s.GetCleanOutput(), text)
}

// WaitForText polls until text appears in the clean output or the
// timeout passes.
func (s *TUITestSession) WaitForText(text string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.ContainsText(text) {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for text: %s", text)
}

// AssertNoText errors when text has already appeared in the output.
func (s *TUITestSession) AssertNoText(text string) error {
	if s.ContainsText(text) {
		return fmt.Errorf("unexpected text found: %s", text)
	}
	return nil
}

// ClearOutput resets the capture buffer, useful between interactions.
func (s *TUITestSession) ClearOutput() {
	s.outputMu.Lock()
	defer s.outputMu.Unlock()
	s.output.Reset()
}

// Stop asks the process to quit with ESC, waits briefly, then tears the
// session down. The returned error is the process exit status.
func (s *TUITestSession) Stop() error {
	_ = s.SendKey(27)
	time.Sleep(100 * time.Millisecond)

	s.cancel()
	if s.ptmx != nil {
		s.ptmx.Close()
	}
	return s.cmd.Wait()
}

// ForceStop kills the process without a quit key, for deferred cleanup.
func (s *TUITestSession) ForceStop() error {
	s.cancel()
	if s.ptmx != nil {
		s.ptmx.Close()
	}
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	return s.cmd.Wait()
}
