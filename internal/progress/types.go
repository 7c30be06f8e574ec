// Package progress reports long-running work on the terminal. It detects
// what the terminal supports and drives a spinner while commits are read.
package progress

// TerminalCapabilities describes the output stream a Reporter writes to.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	// Width is 0 when unknown.
	Width int
}

// ProgressSymbols are the status markers matching the terminal's character set.
type ProgressSymbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int
}
