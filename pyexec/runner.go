package pyexec

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/rs/zerolog"
)

// missingModuleRE is the single recognized shape of an unresolved-import
// failure, matching CPython's ModuleNotFoundError message. It is brittle by
// nature; failures with any other wording are non-recoverable.
var missingModuleRE = regexp.MustCompile(`No module named '([^']+)'`)

// installMu serializes pip install/uninstall across the process. The
// Python environment's package set is an environment-wide critical
// section: concurrent mutation is never safe.
var installMu sync.Mutex

// Outcome is the result of one Run invocation. The loop may execute the
// script twice internally (original attempt, retry after a dependency
// install) but only the final outcome is returned.
type Outcome struct {
	Stdout        string `json:"stdout"`
	Succeeded     bool   `json:"succeeded"`
	MissingModule string `json:"missing_module,omitempty"`
	ErrorDetail   string `json:"error_detail,omitempty"`
}

// RunOptions control per-invocation cleanup behavior.
type RunOptions struct {
	// CleanupArtifact deletes the persisted source file on any terminal
	// state. Deletion failure is logged, not fatal.
	CleanupArtifact bool

	// CleanupModule uninstalls an auto-installed module after a successful
	// retry. Best effort; failure is logged, not fatal.
	CleanupModule bool
}

// Runner executes Python source with self-healing for missing modules.
type Runner struct {
	python  string
	workDir string
	log     zerolog.Logger
	cmd     commandRunner
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithPython sets the interpreter executable.
func WithPython(path string) RunnerOption {
	return func(r *Runner) { r.python = path }
}

// WithWorkDir sets the working root under which artifacts are persisted.
func WithWorkDir(dir string) RunnerOption {
	return func(r *Runner) { r.workDir = dir }
}

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) RunnerOption {
	return func(r *Runner) { r.log = log }
}

// NewRunner creates a Runner. Defaults: interpreter from DefaultPython,
// working root from the current directory, logging disabled.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		python: DefaultPython(),
		log:    zerolog.Nop(),
		cmd:    osRunner{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.workDir == "" {
		r.workDir, _ = os.Getwd()
	}
	return r
}

// Run persists source under the working root as fileName (overwriting any
// existing file), executes it, and applies the single-retry recovery for a
// missing module. It returns the final Outcome; on a Failed outcome the
// error is an *ExecError or *InstallError carrying the captured stderr.
func (r *Runner) Run(ctx context.Context, source, fileName string, opts RunOptions) (*Outcome, error) {
	path := filepath.Join(r.workDir, fileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &WriteError{Path: path, Cause: err}
	}
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		return nil, &WriteError{Path: path, Cause: err}
	}
	r.log.Debug().Str("path", path).Msg("artifact written")

	if opts.CleanupArtifact {
		defer func() {
			if err := os.Remove(path); err != nil {
				r.log.Warn().Err(err).Str("path", path).Msg("could not delete artifact")
			} else {
				r.log.Debug().Str("path", path).Msg("artifact deleted")
			}
		}()
	}

	res, err := r.cmd.run(ctx, r.python, path)
	if err != nil {
		return nil, err
	}
	if res.exitCode == 0 {
		r.log.Info().Str("path", path).Msg("script executed successfully")
		return &Outcome{Stdout: res.stdout, Succeeded: true}, nil
	}

	module := extractMissingModule(res.stderr)
	if module == "" {
		return &Outcome{ErrorDetail: res.stderr}, &ExecError{Path: path, Stderr: res.stderr}
	}

	// One dependency install per invocation. The whole recovery sequence
	// holds the install lock: the package set must not be mutated by two
	// loops at once.
	installMu.Lock()
	defer installMu.Unlock()

	r.log.Info().Str("module", module).Msg("missing module, installing")
	install, err := r.cmd.run(ctx, r.python, "-m", "pip", "install", module)
	if err != nil {
		return nil, err
	}
	if install.exitCode != 0 {
		return &Outcome{MissingModule: module, ErrorDetail: install.stderr},
			&InstallError{Module: module, Stderr: install.stderr}
	}

	r.log.Info().Str("module", module).Msg("module installed, re-running script")
	retry, err := r.cmd.run(ctx, r.python, path)
	if err != nil {
		return nil, err
	}
	if retry.exitCode != 0 {
		// A second missing module (or anything else) is terminal; never a
		// second install.
		return &Outcome{MissingModule: module, ErrorDetail: retry.stderr},
			&ExecError{Path: path, Stderr: retry.stderr}
	}

	if opts.CleanupModule {
		r.log.Info().Str("module", module).Msg("uninstalling module")
		uninstall, err := r.cmd.run(ctx, r.python, "-m", "pip", "uninstall", "-y", module)
		if err != nil || uninstall.exitCode != 0 {
			r.log.Warn().Str("module", module).Msg("failed to uninstall module")
		}
	}

	return &Outcome{Stdout: retry.stdout, Succeeded: true, MissingModule: module}, nil
}

// extractMissingModule pulls the module name out of a ModuleNotFoundError
// stderr, or returns "" when the message does not match.
func extractMissingModule(stderr string) string {
	m := missingModuleRE.FindStringSubmatch(stderr)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
