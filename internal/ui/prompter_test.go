package ui

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/uberfile/internal/errors"
	"github.com/dpshade/uberfile/internal/logging"
	"github.com/dpshade/uberfile/internal/models"
	"github.com/dpshade/uberfile/internal/netif"
)

// script answers successive programs with canned key presses
type script struct {
	t     *testing.T
	steps [][]tea.Msg
	ran   []tea.Model
}

func (s *script) run(m tea.Model) (tea.Model, error) {
	require.Less(s.t, len(s.ran), len(s.steps), "unexpected extra program %T", m)
	final, _ := feed(m, s.steps[len(s.ran)]...)
	s.ran = append(s.ran, final)
	return final, nil
}

func newScripted(t *testing.T, steps ...[]tea.Msg) (*Prompter, *script) {
	s := &script{t: t, steps: steps}
	p := NewPrompter(logging.Discard(),
		WithRunner(s.run),
		WithInterfaces(func() ([]netif.Interface, error) {
			return []netif.Interface{
				{Name: "eth0", Address: "192.168.56.10"},
				{Name: "tun0", Address: "10.10.14.2"},
			}, nil
		}),
	)
	return p, s
}

func keys(msgs ...tea.Msg) []tea.Msg { return msgs }

func TestSelectOS(t *testing.T) {
	p, _ := newScripted(t, keys(keyDown, keyEnter))
	got, err := p.SelectOS()
	require.NoError(t, err)
	assert.Equal(t, models.Linux, got)
}

func TestSelectProtocol(t *testing.T) {
	p, s := newScripted(t, keys(keyDown, keyEnter))
	got, err := p.SelectProtocol()
	require.NoError(t, err)
	assert.Equal(t, models.ProtocolHTTPS, got)
	assert.Len(t, s.ran[0].(*Menu).options, len(models.TemplateProtocols))
}

func TestSelectPort(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		p, _ := newScripted(t, keys(keyEnter))
		got, err := p.SelectPort(models.ProtocolSMB)
		require.NoError(t, err)
		assert.Equal(t, "445", got)
	})

	t.Run("custom", func(t *testing.T) {
		p, _ := newScripted(t,
			keys(keyDown, keyEnter),
			keys(typed("8080"), keyEnter),
		)
		got, err := p.SelectPort(models.ProtocolHTTP)
		require.NoError(t, err)
		assert.Equal(t, "8080", got)
	})

	t.Run("custom kept as typed", func(t *testing.T) {
		p, _ := newScripted(t,
			keys(keyDown, keyEnter),
			keys(typed("08080"), keyEnter),
		)
		got, err := p.SelectPort(models.ProtocolHTTP)
		require.NoError(t, err)
		assert.Equal(t, "08080", got)
	})
}

func TestSelectInterface(t *testing.T) {
	t.Run("listed", func(t *testing.T) {
		p, s := newScripted(t, keys(keyDown, keyEnter))
		got, err := p.SelectInterface()
		require.NoError(t, err)
		assert.Equal(t, "10.10.14.2", got)

		labels := optionLabels(s.ran[0].(*Menu))
		assert.Equal(t, []string{"eth0 (192.168.56.10)", "tun0 (10.10.14.2)", "Custom"}, labels)
	})

	t.Run("discovery failure leaves custom", func(t *testing.T) {
		s := &script{t: t, steps: [][]tea.Msg{
			keys(keyEnter),
			keys(typed("attacker.local"), keyEnter),
		}}
		p := NewPrompter(logging.Discard(), WithRunner(s.run), WithInterfaces(func() ([]netif.Interface, error) {
			return nil, assert.AnError
		}))
		got, err := p.SelectInterface()
		require.NoError(t, err)
		assert.Equal(t, "attacker.local", got)
	})

	t.Run("custom address kept as typed", func(t *testing.T) {
		p, _ := newScripted(t,
			keys(keyDown, keyDown, keyEnter),
			keys(typed("fe80::1%eth0"), keyEnter),
		)
		got, err := p.SelectInterface()
		require.NoError(t, err)
		assert.Equal(t, "fe80::1%eth0", got)
	})
}

func TestSelectCommandTypeSorts(t *testing.T) {
	p, s := newScripted(t, keys(keyEnter))
	got, err := p.SelectCommandType([]string{"wget", "curl", "python"})
	require.NoError(t, err)
	assert.Equal(t, "curl", got)
	assert.Equal(t, []string{"curl", "python", "wget"}, optionLabels(s.ran[0].(*Menu)))
}

func fileFixture(t *testing.T) (dir, resources string) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "payload.sh"), []byte("#!/bin/sh\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "inner.txt"), []byte("x"), 0o644))

	resources = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(resources, "windows"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(resources, "windows", "nc.exe"), []byte("MZ"), 0o644))
	return dir, resources
}

func TestSelectFile(t *testing.T) {
	dir, resources := fileFixture(t)

	newFilePrompter := func(t *testing.T, steps ...[]tea.Msg) (*Prompter, *script) {
		s := &script{t: t, steps: steps}
		return NewPrompter(logging.Discard(), WithRunner(s.run), WithResourceDirs([]string{resources})), s
	}

	t.Run("plain entry", func(t *testing.T) {
		p, s := newFilePrompter(t, keys(keyDown, keyDown, keyEnter))
		got, err := p.SelectFile(dir)
		require.NoError(t, err)
		assert.Equal(t, "payload.sh", got)
		assert.Equal(t, []string{"search " + resources, "search all (" + dir + ")", "payload.sh"}, optionLabels(s.ran[0].(*Menu)))
	})

	t.Run("resource search returns a full path", func(t *testing.T) {
		p, _ := newFilePrompter(t,
			keys(keyEnter),
			keys(typed("nc"), keyEnter),
		)
		got, err := p.SelectFile(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(resources, "windows", "nc.exe"), got)
	})

	t.Run("current dir search stays relative", func(t *testing.T) {
		p, _ := newFilePrompter(t,
			keys(keyDown, keyEnter),
			keys(typed("inner"), keyEnter),
		)
		got, err := p.SelectFile(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("sub", "inner.txt"), got)
	})

	t.Run("leaving the finder returns to the list", func(t *testing.T) {
		p, s := newFilePrompter(t,
			keys(keyEnter),
			keys(keyEsc),
			keys(keyUp, keyEnter),
		)
		got, err := p.SelectFile(dir)
		require.NoError(t, err)
		assert.Equal(t, "payload.sh", got)
		assert.Len(t, s.ran, 3)
	})
}

func TestSelectOutputFile(t *testing.T) {
	p, _ := newScripted(t, keys(keyDown, keyEnter))
	got, err := p.SelectOutputFile("nc.exe", models.Windows)
	require.NoError(t, err)
	assert.Equal(t, `C:\Windows\Temp\nc.exe`, got)

	p, _ = newScripted(t, keys(keyEnter))
	got, err = p.SelectOutputFile("linpeas.sh", models.Linux)
	require.NoError(t, err)
	assert.Equal(t, "linpeas.sh", got)

	p, _ = newScripted(t, keys(keyUp, keyEnter), keys(keyEnter))
	got, err = p.SelectOutputFile("linpeas.sh", models.Linux)
	require.NoError(t, err)
	assert.Equal(t, "linpeas.sh", got, "an empty custom answer falls back to the base name")
}

func TestAbortedSelection(t *testing.T) {
	p, _ := newScripted(t, keys(keyEsc))
	_, err := p.SelectOS()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAborted))
	assert.True(t, stderrors.Is(err, ErrAborted))
	assert.Contains(t, err.Error(), "cancelled")
}

func TestRunnerFailureIsInternal(t *testing.T) {
	p := NewPrompter(logging.Discard(), WithRunner(func(tea.Model) (tea.Model, error) {
		return nil, assert.AnError
	}))
	_, err := p.SelectProtocol()
	assert.True(t, errors.HasCode(err, errors.ErrCodeInternalError))
}

func TestWalkFiles(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.txt", "a/c.bin", ".git/config", "a/.hidden"} {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}

	files, err := WalkFiles(root, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/.hidden", "a/c.bin", "b.txt"}, files)

	limited, err := WalkFiles(root, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = WalkFiles(filepath.Join(root, "missing"), 0)
	assert.Error(t, err)
}

func TestFinderFilters(t *testing.T) {
	f := NewFinder("search", []string{"linux/linpeas.sh", "windows/nc.exe", "windows/winPEASx64.exe"})
	assert.Len(t, f.Matches(), 3)

	feed(f, typed("nc"))
	assert.Equal(t, []string{"windows/nc.exe"}, f.Matches())

	feed(f, typed("zzz"))
	assert.Empty(t, f.Matches())
	_, cmd := feed(f, keyEnter)
	assert.Nil(t, cmd, "enter without matches does nothing")

	f = NewFinder("search", []string{"a", "b"})
	feed(f, keyDown, keyEnter)
	got, ok := f.Selected()
	assert.True(t, ok)
	assert.Equal(t, "b", got)
}

func optionLabels(m *Menu) []string {
	labels := make([]string, len(m.options))
	for i, o := range m.options {
		labels[i] = o.Label
	}
	return labels
}
