package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelp(t *testing.T) {
	s, stdout, _ := newTestShell(t)

	status := Help(s, []string{"help"})
	assert.Equal(t, 0, status)

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)
	g.Assert(t, "help", stdout.Bytes())
}

func TestExit(t *testing.T) {
	cases := []struct {
		name       string
		args       []string
		wantStatus int
		wantQuit   bool
		wantCode   int
		wantStderr string
	}{
		{"plain", []string{"exit"}, 0, true, 0, ""},
		{"numeric", []string{"exit", "3"}, 3, true, 3, ""},
		{"non-numeric", []string{"exit", "nope"}, 2, false, 0, "numeric argument required"},
		{"too many args", []string{"exit", "1", "2"}, 1, false, 0, "too many arguments"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, _, stderr := newTestShell(t)

			status := Exit(s, tc.args)

			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantQuit, s.quit)
			if tc.wantQuit {
				assert.Equal(t, tc.wantCode, s.exitCode)
			}
			if tc.wantStderr != "" {
				assert.Contains(t, stderr.String(), tc.wantStderr)
			}
		})
	}
}

func TestCd(t *testing.T) {
	origWd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origWd) })

	t.Run("to directory", func(t *testing.T) {
		s, _, _ := newTestShell(t)
		dest := t.TempDir()

		status := Cd(s, []string{"cd", dest})

		assert.Equal(t, 0, status)
		wd, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, mustEvalSymlinks(t, dest), mustEvalSymlinks(t, wd))
	})

	t.Run("no args goes home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		s, _, _ := newTestShell(t)
		status := Cd(s, []string{"cd"})

		assert.Equal(t, 0, status)
		wd, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, mustEvalSymlinks(t, home), mustEvalSymlinks(t, wd))
	})

	t.Run("missing directory", func(t *testing.T) {
		s, _, stderr := newTestShell(t)

		status := Cd(s, []string{"cd", filepath.Join(t.TempDir(), "nope")})

		assert.Equal(t, 1, status)
		assert.Contains(t, stderr.String(), "cd:")
	})

	t.Run("too many args", func(t *testing.T) {
		s, _, stderr := newTestShell(t)

		status := Cd(s, []string{"cd", "a", "b"})

		assert.Equal(t, 1, status)
		assert.Contains(t, stderr.String(), "too many arguments")
	})
}

func TestPwd(t *testing.T) {
	t.Run("prints working directory", func(t *testing.T) {
		s, stdout, _ := newTestShell(t)

		status := Pwd(s, []string{"pwd"})

		assert.Equal(t, 0, status)
		wd, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, wd+"\n", stdout.String())
	})

	t.Run("physical resolves symlinks", func(t *testing.T) {
		origWd, err := os.Getwd()
		require.NoError(t, err)
		t.Cleanup(func() { _ = os.Chdir(origWd) })

		base := t.TempDir()
		target := filepath.Join(base, "real")
		link := filepath.Join(base, "link")
		require.NoError(t, os.Mkdir(target, 0755))
		require.NoError(t, os.Symlink(target, link))
		require.NoError(t, os.Chdir(link))

		s, stdout, _ := newTestShell(t)
		status := Pwd(s, []string{"pwd", "-P"})

		assert.Equal(t, 0, status)
		assert.Equal(t, mustEvalSymlinks(t, target)+"\n", stdout.String())
	})

	t.Run("help flag", func(t *testing.T) {
		s, _, stderr := newTestShell(t)

		status := Pwd(s, []string{"pwd", "--help"})

		assert.Equal(t, 0, status)
		assert.Contains(t, stderr.String(), "usage: pwd")
	})
}

func mustEvalSymlinks(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}
