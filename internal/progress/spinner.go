package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

const spinnerInterval = 100 * time.Millisecond

// Reporter shows an animated spinner with a done/total counter on a
// terminal. On any other writer it stays silent until Success or Fail.
// Update is safe for concurrent use.
type Reporter struct {
	w       io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols

	mu      sync.Mutex
	label   string
	spinner *spinner.Spinner
}

// NewReporter creates a Reporter writing to w with the given capabilities.
func NewReporter(w io.Writer, caps TerminalCapabilities) *Reporter {
	return &Reporter{w: w, caps: caps, symbols: SelectSymbols(caps)}
}

// Start begins reporting a step named label.
func (r *Reporter) Start(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.label = label
	if !r.caps.IsTTY || r.spinner != nil {
		return
	}
	s := spinner.New(spinner.CharSets[r.symbols.SpinnerSet], spinnerInterval, spinner.WithWriter(r.w))
	s.Suffix = " " + label
	s.Start()
	r.spinner = s
}

// Update reports done of total items. It matches changelog.ProgressFunc.
func (r *Reporter) Update(done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.spinner == nil {
		return
	}
	r.spinner.Lock()
	r.spinner.Suffix = fmt.Sprintf(" %s (%d/%d)", r.label, done, total)
	r.spinner.Unlock()
}

// Success stops the spinner and prints msg with a checkmark.
func (r *Reporter) Success(msg string) {
	r.finish(r.symbols.Checkmark, msg)
}

// Fail stops the spinner and prints msg with a failure marker.
func (r *Reporter) Fail(msg string) {
	r.finish(r.symbols.Failure, msg)
}

// Stop halts the spinner without printing anything.
func (r *Reporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Reporter) finish(symbol, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	fmt.Fprintf(r.w, "%s %s\n", symbol, msg)
}

func (r *Reporter) stopLocked() {
	if r.spinner != nil {
		r.spinner.Stop()
		r.spinner = nil
	}
}
