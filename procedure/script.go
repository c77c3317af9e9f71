package procedure

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/mrdunski/subscription-updater/logger"
	"github.com/mrdunski/subscription-updater/model"
	"github.com/sirupsen/logrus"
)

const maxLogLine = 1024 * 1024

type ScriptConfig struct {
	UpdateCommand      string   `help:"Executable of the update procedure." env:"UPDATE_COMMAND" default:"python3" group:"Procedure"`
	UpdateArgs         []string `name:"update-arg" help:"Arguments for the update procedure." env:"UPDATE_ARGS" default:"scripts/update_subscriptions.py" sep:"none" group:"Procedure"`
	BlockedUsersSecret string   `help:"Blocked users handed to the update procedure." env:"BLOCKED_USERS" optional:"" group:"Procedure"`
}

func (c ScriptConfig) Script(dir string) Script {
	return Script{
		Command: c.UpdateCommand,
		Args:    c.UpdateArgs,
		Dir:     dir,
	}
}

// Script runs the update procedure as a child process in Dir.
type Script struct {
	Command string
	Args    []string
	Dir     string
}

func (s Script) String() string {
	return strings.Join(append([]string{s.Command}, s.Args...), " ")
}

func (s Script) Run(ctx context.Context, env model.UpdateEnv) error {
	log := logger.WithComponent("procedure").WithField("command", s.String())

	cmd := exec.CommandContext(ctx, s.Command, s.Args...)
	cmd.Dir = s.Dir
	cmd.Env = append(os.Environ(), Environ(env)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}

	log.WithField("fast", env.FastMode).Info("Running update procedure")
	if err := cmd.Start(); err != nil {
		return &ExitError{Command: s.String(), ExitCode: -1, Err: err}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go forward(&wg, stdout, log.WithField("stream", "stdout"), logrus.InfoLevel)
	go forward(&wg, stderr, log.WithField("stream", "stderr"), logrus.WarnLevel)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &ExitError{Command: s.String(), ExitCode: code, Err: err}
	}

	log.Debug("Update procedure finished")
	return nil
}

// forward logs r line by line and keeps draining it after a failed scan, so
// the child never blocks on a full pipe.
func forward(wg *sync.WaitGroup, r io.Reader, log *logrus.Entry, level logrus.Level) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLogLine)
	for scanner.Scan() {
		log.Log(level, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		log.WithError(err).Warn("Stopped logging procedure output")
	}
	_, _ = io.Copy(io.Discard, r)
}
