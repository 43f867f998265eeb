package interaction

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/logflix/logflix/internal/core/model"
)

// KeyboardReader handles keyboard input in raw mode
type KeyboardReader struct {
	oldState *unix.Termios
	input    chan model.KeyEvent
	stop     chan struct{}
}

// NewKeyboardReader creates a new keyboard reader
func NewKeyboardReader() (*KeyboardReader, error) {
	kr := &KeyboardReader{
		input: make(chan model.KeyEvent, 10),
		stop:  make(chan struct{}),
	}

	// Set terminal to raw mode
	if err := kr.enableRawMode(); err != nil {
		return nil, err
	}

	// Start reading keyboard input
	go kr.readInput()

	return kr, nil
}

// readInput reads keyboard input in a goroutine
func (kr *KeyboardReader) readInput() {
	buf := make([]byte, 3)

	for {
		select {
		case <-kr.stop:
			return
		default:
			n, err := os.Stdin.Read(buf)
			if err != nil {
				continue
			}

			if n == 0 {
				continue
			}

			// Parse the input
			event := kr.parseInput(buf[:n])
			if event != nil {
				select {
				case kr.input <- *event:
				case <-kr.stop:
					return
				}
			}
		}
	}
}

// parseInput parses raw keyboard input
func (kr *KeyboardReader) parseInput(buf []byte) *model.KeyEvent {
	if len(buf) == 0 {
		return nil
	}

	// Handle Ctrl+C
	if buf[0] == 3 {
		return &model.KeyEvent{Key: 3, Type: model.KeyInterrupt}
	}

	// Handle Enter
	if buf[0] == '\r' || buf[0] == '\n' {
		return &model.KeyEvent{Key: rune(buf[0]), Type: model.KeyEnter}
	}

	// Handle escape sequences
	if buf[0] == 27 { // ESC
		if len(buf) == 1 {
			return &model.KeyEvent{Key: 27, Type: model.KeyEscape}
		}
		if len(buf) >= 3 && buf[1] == '[' {
			switch buf[2] {
			case 'A':
				return &model.KeyEvent{Type: model.KeyArrowUp}
			case 'B':
				return &model.KeyEvent{Type: model.KeyArrowDown}
			case 'C':
				return &model.KeyEvent{Type: model.KeyArrowRight}
			case 'D':
				return &model.KeyEvent{Type: model.KeyArrowLeft}
			}
		}
		return nil
	}

	// Handle regular characters
	return &model.KeyEvent{Key: rune(buf[0]), Type: model.KeyChar}
}

// Events returns the keyboard event channel
func (kr *KeyboardReader) Events() <-chan model.KeyEvent {
	return kr.input
}

// Close stops the keyboard reader and restores terminal
func (kr *KeyboardReader) Close() error {
	close(kr.stop)
	return kr.disableRawMode()
}
