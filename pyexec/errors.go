package pyexec

import "fmt"

// ExecError reports a non-recoverable script failure. Stderr carries the
// interpreter's captured error stream.
type ExecError struct {
	Path   string
	Stderr string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("script %s failed:\n%s", e.Path, e.Stderr)
}

// InstallError reports a package installer failure while recovering from a
// missing module.
type InstallError struct {
	Module string
	Stderr string
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("failed to install %q:\n%s", e.Module, e.Stderr)
}

// WriteError reports a failure persisting the source artifact. Write
// failures are fatal to the operation.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write artifact %s: %v", e.Path, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}
