// Package codegen turns natural-language task descriptions into runnable
// Python programs: it prompts a chat-completion provider for code, strips
// markdown fences, derives a file name, and hands the source to pyexec for
// execution with missing-module recovery.
package codegen

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pyforge-dev/pyforge/llm"
	"github.com/pyforge-dev/pyforge/pyexec"
)

const codePromptTemplate = `You are an expert Python developer. Write complete, runnable Python 3 code for the following task. Respond with only the code, no explanations and no markdown fences.

Task: %s`

const fileNamePromptTemplate = `Based on the provided Python code description, generate a meaningful and contextually appropriate file name that ends with '.py'. The file name should reflect the primary functionality of the code. Respond with the file name only. Here is the input: %s`

// File-name generation uses a short, slightly creative completion.
const (
	fileNameMaxTokens   = 50
	fileNameTemperature = 0.7
)

// Options control what happens with generated code.
type Options struct {
	// WriteFile persists the generated source; disabling it also disables
	// Run.
	WriteFile bool

	// Run executes the persisted source through pyexec.
	Run bool

	// CleanupModule uninstalls an auto-installed dependency after a
	// successful run.
	CleanupModule bool

	// CleanupFile deletes the persisted source after execution.
	CleanupFile bool
}

// DefaultOptions enables file writing, execution, and both cleanups.
func DefaultOptions() Options {
	return Options{WriteFile: true, Run: true, CleanupModule: true, CleanupFile: true}
}

// Generator wires a completion client to the execution loop.
type Generator struct {
	client *llm.Client
	runner *pyexec.Runner
	log    zerolog.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) GeneratorOption {
	return func(g *Generator) { g.log = log }
}

// New creates a Generator backed by the given client and runner.
func New(client *llm.Client, runner *pyexec.Runner, opts ...GeneratorOption) *Generator {
	g := &Generator{client: client, runner: runner, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces Python code for the task described by promptInput and,
// when opts.Run is set, executes it through the self-healing loop. It
// returns the execution stdout when non-empty, otherwise the generated
// code itself.
func (g *Generator) Generate(ctx context.Context, promptInput string, opts Options) (string, error) {
	if !opts.WriteFile {
		opts.Run = false
	}

	prompt := fmt.Sprintf(codePromptTemplate, promptInput)
	g.log.Info().Msg("generating code from prompt")
	raw, err := g.client.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	code := StripFences(raw)
	g.log.Info().Int("bytes", len(code)).Msg("code generation completed")

	if !opts.Run {
		return code, nil
	}

	fileName := g.fileName(ctx, prompt)
	g.log.Info().Str("file", fileName).Msg("running generated script")
	outcome, err := g.runner.Run(ctx, code, fileName, pyexec.RunOptions{
		CleanupArtifact: opts.CleanupFile,
		CleanupModule:   opts.CleanupModule,
	})
	if err != nil {
		return "", err
	}
	if outcome.Stdout != "" {
		return outcome.Stdout, nil
	}
	return code, nil
}

// GenerateStream produces the code completion as a stream of text deltas
// for interactive display. The stream is not executed.
func (g *Generator) GenerateStream(ctx context.Context, promptInput string) (<-chan llm.StreamEvent, error) {
	return g.client.Stream(ctx, fmt.Sprintf(codePromptTemplate, promptInput))
}

// fileName asks the model for a script name and falls back to a generated
// one when the answer is unusable.
func (g *Generator) fileName(ctx context.Context, prompt string) string {
	maxTokens := fileNameMaxTokens
	temperature := fileNameTemperature
	resp, err := g.client.CompleteRequest(ctx, llm.Request{
		Prompt:      fmt.Sprintf(fileNamePromptTemplate, prompt),
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err == nil {
		if name := SanitizeFileName(resp.Text); name != "" {
			return name
		}
	}
	name := "script_" + uuid.New().String()[:8] + ".py"
	g.log.Debug().Str("file", name).Msg("fell back to generated file name")
	return name
}
