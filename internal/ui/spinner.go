package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a message on stderr while a container or payload is
// written. Outside a terminal it prints the message once.
type Spinner struct {
	message string
	out     io.Writer
	tty     bool

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewSpinner returns a stopped spinner for message.
func NewSpinner(message string) *Spinner {
	fd := os.Stderr.Fd()
	return newSpinner(message, os.Stderr, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

func newSpinner(message string, out io.Writer, tty bool) *Spinner {
	return &Spinner{message: message, out: out, tty: tty, stop: make(chan struct{}), done: make(chan struct{})}
}

// Start begins the animation.
func (s *Spinner) Start() {
	if !s.tty {
		fmt.Fprintf(s.out, "%s...\n", s.message)
		close(s.done)
		return
	}
	go func() {
		defer close(s.done)
		tick := time.NewTicker(spinnerInterval)
		defer tick.Stop()
		for frame := 0; ; frame++ {
			fmt.Fprintf(s.out, "\r%s %s", Bold.Render(spinnerFrames[frame%len(spinnerFrames)]), s.message)
			select {
			case <-s.stop:
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-tick.C:
			}
		}
	}()
}

// Stop ends the animation and clears the line. It may be called more than
// once, and only after Start.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}
