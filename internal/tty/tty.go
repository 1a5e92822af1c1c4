// Package tty decides whether releasewarrior may prompt the operator.
package tty

import "os"

// IsTTY returns true if the given file is a TTY.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// IsInteractive returns true if both stdin and stderr are TTYs.
// The prerequisite form draws on stderr so stdout stays parseable.
func IsInteractive() bool {
	return IsTTY(os.Stdin) && IsTTY(os.Stderr)
}
