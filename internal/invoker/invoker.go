package invoker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/apparentlymart/go-shquot/shquot"
	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/afero"

	"github.com/egoavara/plughub/internal/project"
)

// DefaultGracePeriod is how long a cancelled plugin may take to exit after
// the interrupt before it is killed
const DefaultGracePeriod = 10 * time.Second

// Outcome is the result of a plugin process that ran
type Outcome struct {
	ExitCode int
}

// Success reports whether the plugin exited with code 0
func (o Outcome) Success() bool {
	return o.ExitCode == 0
}

// Invoker launches plugins of one project
type Invoker struct {
	Project *project.Project

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger hclog.Logger
	// BaseEnv is the environment plugins inherit; nil means os.Environ()
	BaseEnv []string
	// LookPath resolves bare executable names; nil means exec.LookPath
	LookPath func(file string) (string, error)
	// GracePeriod defaults to DefaultGracePeriod
	GracePeriod time.Duration
}

// New creates an invoker for proj wired to the process' standard streams
func New(proj *project.Project, logger hclog.Logger) *Invoker {
	return &Invoker{
		Project: proj,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Logger:  logger,
	}
}

// Invoke runs plugin with args appended verbatim to its command and waits for
// it to exit. A plugin exiting non-zero is reported in the Outcome, not as an
// error. If the process can not be started the error is an *ExecutionError
// and the Outcome carries exit code -1.
func (inv *Invoker) Invoke(ctx context.Context, plugin project.InstalledPlugin, args []string) (Outcome, error) {
	failed := Outcome{ExitCode: -1}
	logger := inv.logger()

	argv, err := inv.command(plugin)
	if err != nil {
		return failed, &ExecutionError{Plugin: plugin.ID(), Err: err}
	}
	argv = append(argv, args...)

	env, err := inv.environ(plugin)
	if err != nil {
		return failed, &ExecutionError{Plugin: plugin.ID(), Err: err}
	}

	cmdline := shquot.POSIXShell(argv)
	logger.Debug("invoking plugin", "plugin", plugin.ID(), "command", cmdline, "dir", inv.Project.Root)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = inv.Project.Root
	cmd.Env = env
	cmd.Stdin = inv.Stdin
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr
	cmd.Cancel = func() error {
		logger.Debug("interrupting plugin", "plugin", plugin.ID())
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = inv.gracePeriod()
	setProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		return failed, &ExecutionError{Plugin: plugin.ID(), Command: cmdline, Err: err}
	}

	err = cmd.Wait()
	if cmd.ProcessState == nil {
		return failed, &ExecutionError{Plugin: plugin.ID(), Command: cmdline, Err: err}
	}

	// after cancellation Wait reports the context error instead of the exit status
	if err != nil && ctx.Err() == nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			logger.Warn("plugin finished with error", "plugin", plugin.ID(), "error", err)
		}
	}

	code := exitCode(cmd.ProcessState)
	logger.Debug("plugin exited", "plugin", plugin.ID(), "code", code)
	return Outcome{ExitCode: code}, nil
}

// command returns the argv of plugin with the executable resolved to a path
func (inv *Invoker) command(plugin project.InstalledPlugin) ([]string, error) {
	var argv []string
	if plugin.Command != "" {
		words, err := shellwords.Parse(plugin.Command)
		if err != nil {
			return nil, fmt.Errorf("invalid command %q: %w", plugin.Command, err)
		}
		if len(words) == 0 {
			return nil, fmt.Errorf("command of %s is empty", plugin.ID())
		}
		argv = words
	} else {
		argv = []string{plugin.ExecutableName()}
	}

	path, err := inv.resolve(plugin, argv[0])
	if err != nil {
		return nil, err
	}
	argv[0] = path
	return argv, nil
}

// resolve finds exe: paths are taken relative to the project root, bare
// names are looked up in the plugin's venv and then on PATH
func (inv *Invoker) resolve(plugin project.InstalledPlugin, exe string) (string, error) {
	if filepath.IsAbs(exe) {
		return exe, nil
	}
	if filepath.Base(exe) != exe {
		return filepath.Join(inv.Project.Root, exe), nil
	}

	venv := filepath.Join(inv.Project.PluginDir(plugin.Type, plugin.Name), "venv", "bin", exe)
	if ok, _ := afero.Exists(inv.Project.Fs(), venv); ok {
		return venv, nil
	}

	lookPath := inv.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	return lookPath(exe)
}

func (inv *Invoker) environ(plugin project.InstalledPlugin) ([]string, error) {
	base := inv.BaseEnv
	if base == nil {
		base = os.Environ()
	}

	env := newEnvironment(base)
	env.apply(inv.Project.Env())

	layer, err := pluginLayer(inv.Project.Root, plugin)
	if err != nil {
		return nil, err
	}
	env.apply(layer)
	return env.list(), nil
}

func (inv *Invoker) logger() hclog.Logger {
	if inv.Logger == nil {
		return hclog.NewNullLogger()
	}
	return inv.Logger
}

func (inv *Invoker) gracePeriod() time.Duration {
	if inv.GracePeriod > 0 {
		return inv.GracePeriod
	}
	return DefaultGracePeriod
}
