package formatter

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

const spinnerRate = 80 * time.Millisecond

// Spinner animates a waiting label with the seconds spent so far, e.g.
// while a chat reply or an AI estimate is pending.
type Spinner struct {
	w     io.Writer
	label string
	now   func() time.Time

	once sync.Once
	quit chan struct{}
	done chan struct{}
}

func NewSpinner(w io.Writer, label string) *Spinner {
	return &Spinner{
		w:     w,
		label: label,
		now:   time.Now,
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Frame renders one animation step.
func (s *Spinner) Frame(i int, waited time.Duration) string {
	frame := string(spinnerFrames[i%len(spinnerFrames)])
	line := fmt.Sprintf("\r  %s %s", StylePurple.Render(frame), Dim(s.label))
	if waited >= time.Second {
		line += Dim(fmt.Sprintf(" %ds", int(waited/time.Second)))
	}
	return line
}

func (s *Spinner) Start() {
	start := s.now()
	go func() {
		defer close(s.done)
		t := time.NewTicker(spinnerRate)
		defer t.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.quit:
				fmt.Fprint(s.w, "\r\033[K")
				return
			case <-t.C:
				fmt.Fprint(s.w, s.Frame(i, s.now().Sub(start)))
			}
		}
	}()
}

// Stop clears the line and waits for the animation to exit. Repeated
// calls are no-ops.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.quit)
		<-s.done
	})
}

// StartSpinner starts a spinner and returns its Stop.
func StartSpinner(w io.Writer, label string) func() {
	s := NewSpinner(w, label)
	s.Start()
	return s.Stop
}
