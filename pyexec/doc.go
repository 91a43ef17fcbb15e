// Package pyexec runs externally supplied Python source as an isolated
// child process and recovers from exactly one class of failure: an
// unresolved import. When the interpreter's error stream matches the
// CPython "No module named '...'" message, the missing module is installed
// with pip, the script is retried exactly once, and the module is
// optionally uninstalled again after a successful retry.
//
// The loop persists the source to a file under a working root, executes it
// with the configured interpreter, and fully captures stdout and stderr;
// there is no streaming of subprocess output. Package install and
// uninstall mutate the shared Python environment and are therefore guarded
// by a process-wide mutex.
//
//	runner := pyexec.NewRunner()
//	outcome, err := runner.Run(ctx, source, "fizzbuzz.py", pyexec.RunOptions{
//	    CleanupArtifact: true,
//	    CleanupModule:   true,
//	})
//
// Only the single known error-message shape is recognized. Other failure
// wordings, including other import-style failures, are treated as
// non-recoverable and surface with the captured stderr.
package pyexec
