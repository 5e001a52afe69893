package core

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"os/user"
	"strconv"
	"strings"
	"sync"

	"github.com/abiosoft/readline"
	"github.com/anmitsu/go-shlex"
	"github.com/fatih/color"
	"github.com/gish-shell/gish/core/config"
)

// DefaultPrompt is used when the configured prompt is empty.
const DefaultPrompt = `-> `

var (
	motdColor   = color.New(color.FgCyan, color.Bold)
	logoutColor = color.New(color.FgCyan)
)

// Shell is a single interactive read-eval loop. Lines are tokenized and
// dispatched to a builtin or spawned as a child process with the shell's
// standard streams; the loop blocks until the child exits.
type Shell struct {
	Config   *config.Configuration
	Readline *readline.Instance

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	mu    sync.Mutex
	child *exec.Cmd // in-flight external command, nil at the prompt

	quit       bool
	exitCode   int
	lastStatus int
}

func NewShell(configuration *config.Configuration) (*Shell, error) {
	applyColorMode(configuration.Color)

	shell := &Shell{
		Config: configuration,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	if err := shell.initReadline(); err != nil {
		return nil, err
	}

	shell.watchSignals()

	return shell, nil
}

// initReadline builds the line editor over the shell's own streams so the
// loop can be driven from any reader.
func (s *Shell) initReadline() error {
	cfg := &readline.Config{
		Prompt: DefaultPrompt,
		Stdin:  readline.NewCancelableStdin(s.Stdin()),
		Stdout: s.Stdout(),
		Stderr: s.Stderr(),

		DisableAutoSaveHistory: true,
	}

	if err := cfg.Init(); err != nil {
		return err
	}

	readline, err := readline.NewEx(cfg)
	if err != nil {
		return err
	}

	s.Readline = readline
	return nil
}

// Stdin is the reader inherited by child processes.
func (s *Shell) Stdin() io.Reader {
	if s.stdin != nil {
		return s.stdin
	}
	return os.Stdin
}

func (s *Shell) Stdout() io.Writer {
	if s.stdout != nil {
		return s.stdout
	}
	return os.Stdout
}

func (s *Shell) Stderr() io.Writer {
	if s.stderr != nil {
		return s.stderr
	}
	return os.Stderr
}

// Prompt renders the configured prompt. \u expands to the user, \h to the
// hostname, \w to the working directory and \$ to # for root, $ otherwise.
func (s *Shell) Prompt() string {
	prompt := s.Config.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	if strings.Contains(prompt, `\u`) {
		username := os.Getenv("USER")
		if u, err := user.Current(); err == nil {
			username = u.Username
		}
		prompt = strings.ReplaceAll(prompt, `\u`, username)
	}

	if strings.Contains(prompt, `\h`) {
		host, _ := os.Hostname()
		prompt = strings.ReplaceAll(prompt, `\h`, host)
	}

	if strings.Contains(prompt, `\w`) {
		pwd, err := os.Getwd()
		if err != nil || pwd == "" {
			pwd = os.Getenv("PWD")
		}
		// Leave the escape visible rather than rendering an empty path.
		if pwd != "" {
			if home, err := os.UserHomeDir(); err == nil && home != "" && strings.HasPrefix(pwd, home) {
				pwd = "~" + strings.TrimPrefix(pwd, home)
			}
			prompt = strings.ReplaceAll(prompt, `\w`, pwd)
		}
	}

	if os.Geteuid() == 0 {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return prompt
}

// Run reads and dispatches lines until exit or end of input. The returned
// status is the one given to the exit builtin, 0 for CTRL-D.
func (s *Shell) Run() int {
	defer s.Readline.Close()

	if motd := s.Config.Motd; motd != "" {
		fmt.Fprintln(s.Stdout(), motdColor.Sprint(motd))
	}

	for !s.quit {
		s.Readline.SetPrompt(s.Prompt())
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			// CTRL-D at the prompt.
			fmt.Fprintln(s.Stdout(), logoutColor.Sprint("logout"))
			return 0

		case err == readline.ErrInterrupt:
			continue // CTRL-C with a partial line, drop it.

		case err != nil:
			log.Printf("readline: %v", err)
			continue

		case strings.TrimSpace(line) == "":
			continue
		}

		s.Dispatch(line)
	}

	return s.exitCode
}

// Dispatch tokenizes one line and runs it, returning its exit status.
func (s *Shell) Dispatch(line string) int {
	tokens, err := shlex.Split(line, true)
	if err != nil {
		fmt.Fprintln(s.Stderr(), "gish: syntax error: unexpected end of line")
		s.lastStatus = 2
		return s.lastStatus
	}
	if len(tokens) == 0 {
		return 0
	}

	for i, tok := range tokens {
		tokens[i] = os.Expand(tok, s.expandVar)
	}

	if builtin, ok := AllBuiltins[tokens[0]]; ok {
		s.lastStatus = builtin.Main(s, tokens)
		return s.lastStatus
	}

	s.lastStatus = s.runExternal(tokens)
	return s.lastStatus
}

// expandVar resolves $NAME references from the environment; $? is the
// status of the last dispatched command.
func (s *Shell) expandVar(name string) string {
	if name == "?" {
		return strconv.Itoa(s.lastStatus)
	}
	return os.Getenv(name)
}

func applyColorMode(mode string) {
	switch mode {
	case config.ColorAlways:
		color.NoColor = false
	case config.ColorNever:
		color.NoColor = true
	}
	// ColorAuto keeps the library's terminal detection.
}
