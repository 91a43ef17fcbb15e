package pyexec

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// execResult holds the fully captured output of one child process.
type execResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// commandRunner abstracts process invocation so the loop's state machine
// can be tested without a Python interpreter.
type commandRunner interface {
	run(ctx context.Context, name string, args ...string) (*execResult, error)
}

// osRunner executes commands with os/exec. The child runs with a filtered
// environment: variables with secret-looking suffixes are withheld from
// generated code.
type osRunner struct{}

func (osRunner) run(ctx context.Context, name string, args ...string) (*execResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = filterEnvironment()
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &execResult{stdout: stdout.String(), stderr: stderr.String()}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			res.exitCode = exitErr.ExitCode()
			return res, nil
		}
		return nil, err
	}
	return res, nil
}

// sensitiveEnvPatterns are case-insensitive suffixes for environment
// variables that are withheld from the child process.
var sensitiveEnvPatterns = []string{
	"_API_KEY",
	"_SECRET",
	"_TOKEN",
	"_PASSWORD",
	"_CREDENTIAL",
}

// safeEnvVars are always included regardless of filtering.
var safeEnvVars = map[string]bool{
	"PATH": true, "HOME": true, "USER": true, "SHELL": true,
	"LANG": true, "TERM": true, "TMPDIR": true,
	"PYTHONPATH": true, "VIRTUAL_ENV": true, "PYENV_ROOT": true,
	"XDG_CONFIG_HOME": true, "XDG_DATA_HOME": true, "XDG_CACHE_HOME": true,
}

func isSensitiveEnvVar(name string) bool {
	upper := strings.ToUpper(name)
	for _, pattern := range sensitiveEnvPatterns {
		if strings.HasSuffix(upper, pattern) {
			return true
		}
	}
	return false
}

// filterEnvironment returns the process environment minus sensitive
// variables.
func filterEnvironment() []string {
	var filtered []string
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		name := parts[0]
		if safeEnvVars[name] || !isSensitiveEnvVar(name) {
			filtered = append(filtered, env)
		}
	}
	return filtered
}

// EnvPython overrides interpreter discovery when set.
const EnvPython = "PYFORGE_PYTHON"

// DefaultPython locates the Python interpreter: the PYFORGE_PYTHON
// environment variable when set, otherwise python3 then python on PATH.
func DefaultPython() string {
	if p := os.Getenv(EnvPython); p != "" {
		return p
	}
	if p, err := exec.LookPath("python3"); err == nil {
		return p
	}
	if p, err := exec.LookPath("python"); err == nil {
		return p
	}
	return "python3"
}
