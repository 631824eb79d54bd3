// Package shell provides the shell executor adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/heifsys/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
// Output of commands run without explicit writers is forwarded to logger line by line.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the command with the specified environment.
// The environment is cmd.Environ (or the process environment when nil)
// with cmd.Env applied on top.
func (e *Executor) Execute(ctx context.Context, cmd *domain.Command, stdout, stderr io.Writer) error {
	if len(cmd.Args) == 0 {
		return zerr.Wrap(domain.ErrEmptyCommand, "nothing to execute")
	}

	name := cmd.Args[0]
	args := cmd.Args[1:]

	base := cmd.Environ
	if base == nil {
		base = os.Environ()
	}
	cmdEnv := resolveEnvironment(base, cmd.Env)

	// Resolve the executable using the command's own PATH.
	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, args...) //nolint:gosec // commands come from the manifest
	if len(c.Args) > 0 {
		c.Args[0] = name
	}
	c.Dir = cmd.Dir
	c.Env = cmdEnv

	if stdout == nil {
		w := &logWriter{logger: e.logger, level: domain.LogLevelInfo}
		defer w.Flush()
		stdout = w
	}
	if stderr == nil {
		w := &logWriter{logger: e.logger, level: domain.LogLevelError}
		defer w.Flush()
		stderr = w
	}
	c.Stdout = stdout
	c.Stderr = stderr

	if err := c.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		wrapped := zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
		return zerr.With(wrapped, "command", name)
	}

	return nil
}

// logWriter forwards complete lines to the logger.
type logWriter struct {
	logger ports.Logger
	level  domain.LogLevel
	mu     sync.Mutex
	buf    bytes.Buffer
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Partial line; keep it for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(strings.TrimSuffix(line, "\n"))
	}
	return len(p), nil
}

// Flush emits any buffered partial line.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *logWriter) emit(line string) {
	if w.logger == nil {
		return
	}
	if w.level == domain.LogLevelError {
		w.logger.Warn(line)
		return
	}
	w.logger.Info(line)
}

// resolveEnvironment applies overrides to base. Base entries keep their order,
// new keys are appended sorted.
func resolveEnvironment(base []string, overrides map[string]string) []string {
	result := make([]string, 0, len(base)+len(overrides))
	applied := make(map[string]bool, len(overrides))
	for _, entry := range base {
		k, _, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if v, override := overrides[k]; override {
			if !applied[k] {
				result = append(result, k+"="+v)
				applied[k] = true
			}
			continue
		}
		result = append(result, entry)
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		if !applied[k] {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		result = append(result, k+"="+overrides[k])
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
