package core

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"

	"github.com/fatih/color"
)

var interruptColor = color.New(color.FgRed, color.Bold)

// watchSignals intercepts SIGINT for the lifetime of the shell. CTRL-C must
// only ever affect the in-flight child process, never the shell itself.
func (s *Shell) watchSignals() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)

	go func() {
		for range sigs {
			s.interrupt()
		}
	}()
}

// interrupt stops the in-flight child, if any. With nothing running the
// signal is absorbed; readline handles CTRL-C at the prompt itself.
func (s *Shell) interrupt() {
	s.mu.Lock()
	child := s.child
	s.mu.Unlock()

	if child == nil || child.Process == nil {
		return
	}

	fmt.Fprintln(s.Stderr(), interruptColor.Sprint("CTRL-C: stopping the active command"))
	_ = child.Process.Kill()
}

func (s *Shell) setChild(cmd *exec.Cmd) {
	s.mu.Lock()
	s.child = cmd
	s.mu.Unlock()
}

// runExternal resolves argv[0] on the PATH and runs it as a child process
// inheriting the shell's standard streams, blocking until it exits.
func (s *Shell) runExternal(argv []string) int {
	execPath, err := exec.LookPath(argv[0])
	if err != nil {
		fmt.Fprintf(s.Stderr(), "%s: command not found\n", argv[0])
		return 127
	}

	cmd := exec.Command(execPath, argv[1:]...)
	cmd.Stdin = s.Stdin()
	cmd.Stdout = s.Stdout()
	cmd.Stderr = s.Stderr()

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(s.Stderr(), "%s: %v\n", argv[0], err)
		return 126
	}

	s.setChild(cmd)
	defer s.setChild(nil)

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(s.Stderr(), "%s: %v\n", argv[0], err)
		return 126
	}

	return 0
}
