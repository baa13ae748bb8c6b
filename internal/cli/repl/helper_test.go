package repl

import "io"

// newBlockingReader returns a reader whose Read blocks until the returned
// close function is called.
func newBlockingReader() (io.Reader, func()) {
	pr, pw := io.Pipe()
	return pr, func() { pw.Close() }
}
