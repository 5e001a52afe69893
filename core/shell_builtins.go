package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pborman/getopt/v2"
)

// Version of the shell, reported by the help builtin.
const Version = "0.2.0"

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

func Help(s *Shell, args []string) int {
	w := s.Stdout()
	fmt.Fprintf(w, "gish version %s\n", Version)
	fmt.Fprintln(w, "These commands are implemented by the shell itself; anything else runs")
	fmt.Fprintln(w, "as an external program with the shell's standard streams.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Builtins:")

	var builtins []string
	for k := range AllBuiltins {
		builtins = append(builtins, k)
	}
	sort.Strings(builtins)

	for _, name := range builtins {
		fmt.Fprintf(w, "  %s\n", name)
	}

	return 0
}

// Exit quits the shell, optionally with a numeric status.
func Exit(s *Shell, args []string) int {
	code := 0
	switch len(args) {
	case 1:
	case 2:
		n, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(s.Stderr(), "%s: %s: numeric argument required\n", args[0], args[1])
			return 2
		}
		code = n
	default:
		fmt.Fprintf(s.Stderr(), "%s: too many arguments\n", args[0])
		return 1
	}

	s.quit = true
	s.exitCode = code
	return code
}

// Cd is the cd shell builtin
func Cd(s *Shell, args []string) int {
	switch len(args) {
	case 1:
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(s.Stderr(), "%s: %v\n", args[0], err)
			return 1
		}
		args = append(args, home)
		fallthrough
	case 2:
		if err := os.Chdir(args[1]); err != nil {
			fmt.Fprintf(s.Stderr(), "%s: %v\n", args[0], err)
			return 1
		}
	default:
		fmt.Fprintf(s.Stderr(), "%s: too many arguments\n", args[0])
		return 1
	}
	return 0
}

func Pwd(s *Shell, args []string) int {
	opts := getopt.New()
	opts.Bool('L', "print the logical working directory")
	physical := opts.Bool('P', "print the physical directory, all symlinks resolved")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.Stderr()
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "usage: pwd [-LP]")
		fmt.Fprintln(w, "Print the current working directory.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		if err != nil {
			return 1
		}
		return 0
	}

	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(s.Stderr(), "%s: %v\n", args[0], err)
		return 1
	}
	if *physical {
		if resolved, err := filepath.EvalSymlinks(wd); err == nil {
			wd = resolved
		}
	}

	fmt.Fprintln(s.Stdout(), wd)
	return 0
}

func init() {
	AllBuiltins["help"] = ShellBuiltinFunc(Help)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["pwd"] = ShellBuiltinFunc(Pwd)
}
