package ui

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/dpshade/uberfile/internal/errors"
	"github.com/dpshade/uberfile/internal/models"
	"github.com/dpshade/uberfile/internal/netif"
)

// ErrAborted is the cause of every OPERATION_ABORTED error returned by the Prompter
var ErrAborted = stderrors.New("aborted by operator")

const (
	customLabel = "Custom"
	customValue = "\x00custom"
)

// Runner runs a bubbletea model to completion and returns its final state
type Runner func(m tea.Model) (tea.Model, error)

// ProgramRunner runs models as bubbletea programs on the given terminal
func ProgramRunner(in io.Reader, out io.Writer) Runner {
	return func(m tea.Model) (tea.Model, error) {
		return tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out)).Run()
	}
}

// Prompter collects missing session options through terminal menus
type Prompter struct {
	run          Runner
	interfaces   func() ([]netif.Interface, error)
	resourceDirs []string
	walkLimit    int
	log          logrus.FieldLogger
}

// PrompterOption customises a Prompter
type PrompterOption func(*Prompter)

// WithRunner replaces the bubbletea program runner
func WithRunner(run Runner) PrompterOption {
	return func(p *Prompter) { p.run = run }
}

// WithInterfaces replaces the network interface source
func WithInterfaces(fn func() ([]netif.Interface, error)) PrompterOption {
	return func(p *Prompter) { p.interfaces = fn }
}

// WithResourceDirs sets the directories offered as search entries by SelectFile
func WithResourceDirs(dirs []string) PrompterOption {
	return func(p *Prompter) { p.resourceDirs = dirs }
}

// WithWalkLimit caps the number of files a search entry collects
func WithWalkLimit(limit int) PrompterOption {
	return func(p *Prompter) { p.walkLimit = limit }
}

// NewPrompter creates a Prompter running real bubbletea programs on
// stdin/stderr over the local network interfaces
func NewPrompter(log logrus.FieldLogger, opts ...PrompterOption) *Prompter {
	p := &Prompter{
		run:        ProgramRunner(os.Stdin, os.Stderr),
		interfaces: netif.IPv4,
		walkLimit:  DefaultWalkLimit,
		log:        log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SelectOS asks for the target operating system
func (p *Prompter) SelectOS() (models.OperatingSystem, error) {
	options := make([]Option, len(models.OperatingSystems))
	for i, target := range models.OperatingSystems {
		options[i] = Option{Label: string(target), Value: string(target)}
	}
	choice, err := p.choose("What operating system is the target running?", options)
	if err != nil {
		return "", err
	}
	return models.OperatingSystem(choice.Value), nil
}

// SelectProtocol offers the protocols that have command templates
func (p *Prompter) SelectProtocol() (models.Protocol, error) {
	options := make([]Option, len(models.TemplateProtocols))
	for i, proto := range models.TemplateProtocols {
		options[i] = Option{Label: string(proto), Value: string(proto)}
	}
	choice, err := p.choose("Which protocol do you want to use?", options)
	if err != nil {
		return "", err
	}
	return models.Protocol(choice.Value), nil
}

// SelectPort offers the protocol's default port or a custom value. The
// custom value is returned as typed.
func (p *Prompter) SelectPort(protocol models.Protocol) (string, error) {
	title := fmt.Sprintf("Port for %s?", protocol)
	port := protocol.DefaultPort()
	return p.chooseOrCustom(title, []Option{
		{Label: fmt.Sprintf("Default (%s)", port), Value: port},
	}, port, nil)
}

// SelectInterface offers the non-loopback IPv4 interfaces. A discovery
// failure only leaves the Custom entry.
func (p *Prompter) SelectInterface() (string, error) {
	var options []Option
	ifaces, err := p.interfaces()
	if err != nil {
		p.log.WithError(err).Warn("Could not list network interfaces")
	}
	for _, iface := range ifaces {
		options = append(options, Option{Label: iface.String(), Value: iface.Address})
	}
	return p.chooseOrCustom("Interface/address serving the files?", options, "", nil)
}

// SelectCommandType lists candidates in sorted order
func (p *Prompter) SelectCommandType(candidates []string) (string, error) {
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	options := make([]Option, len(sorted))
	for i, c := range sorted {
		options[i] = Option{Label: c, Value: c}
	}
	choice, err := p.choose("What type of command do you want?", options)
	if err != nil {
		return "", err
	}
	return choice.Value, nil
}

// SelectFile lists the regular files of dir after one search entry per
// resource directory and one for dir itself. Plain entries come back as
// names relative to dir, resource dir picks as full paths. Leaving a
// finder returns to the list.
func (p *Prompter) SelectFile(dir string) (string, error) {
	const searchPrefix = "\x00search:"

	var options []Option
	for _, root := range p.resourceDirs {
		options = append(options, Option{Label: "search " + root, Value: searchPrefix + root})
	}
	options = append(options, Option{Label: "search all (" + dir + ")", Value: searchPrefix})
	options = append(options, regularFiles(dir)...)

	for {
		choice, err := p.choose("Which file do you want the target to download?", options)
		if err != nil {
			return "", err
		}
		root, search := strings.CutPrefix(choice.Value, searchPrefix)
		if !search {
			return choice.Value, nil
		}

		walkRoot := root
		if walkRoot == "" {
			walkRoot = dir
		}
		picked, ok, err := p.find(walkRoot)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		if root == "" {
			return filepath.FromSlash(picked), nil
		}
		return filepath.Join(root, filepath.FromSlash(picked)), nil
	}
}

// SelectOutputFile offers base, base in the target's temp directory, or a
// custom name defaulting to base
func (p *Prompter) SelectOutputFile(base string, target models.OperatingSystem) (string, error) {
	temp := target.TempPath(base)
	return p.chooseOrCustom("Filename to write on the target machine?", []Option{
		{Label: fmt.Sprintf("Same filename (%s)", base), Value: base},
		{Label: fmt.Sprintf("Same filename in temp (%s)", temp), Value: temp},
	}, base, nil)
}

// find runs the fuzzy finder over root. ok is false when the operator backs out.
func (p *Prompter) find(root string) (string, bool, error) {
	files, err := WalkFiles(root, p.walkLimit)
	if err != nil {
		p.log.WithError(err).Warnf("Cannot search %s", root)
	}

	final, err := p.run(NewFinder("Search "+root, files))
	if err != nil {
		return "", false, errors.Wrap(err, errors.ErrCodeInternalError, "file finder failed")
	}
	finder, _ := final.(*Finder)
	if finder == nil || finder.Aborted() {
		return "", false, nil
	}
	picked, ok := finder.Selected()
	return picked, ok, nil
}

func (p *Prompter) choose(title string, options []Option) (Option, error) {
	final, err := p.run(NewMenu(title, options))
	if err != nil {
		return Option{}, errors.Wrap(err, errors.ErrCodeInternalError, "menu failed")
	}
	menu, _ := final.(*Menu)
	if menu == nil {
		return Option{}, aborted(title)
	}
	choice, ok := menu.Selected()
	if !ok {
		return Option{}, aborted(title)
	}
	return choice, nil
}

// chooseOrCustom appends a Custom entry that opens a text prompt
func (p *Prompter) chooseOrCustom(title string, options []Option, def string, validate func(string) error) (string, error) {
	options = append(options, Option{Label: customLabel, Value: customValue})
	choice, err := p.choose(title, options)
	if err != nil {
		return "", err
	}
	if choice.Value != customValue {
		return choice.Value, nil
	}
	return p.ask(title, def, validate)
}

func (p *Prompter) ask(title, def string, validate func(string) error) (string, error) {
	final, err := p.run(NewPrompt(title, def, validate))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternalError, "prompt failed")
	}
	prompt, _ := final.(*Prompt)
	if prompt == nil {
		return "", aborted(title)
	}
	value, ok := prompt.Value()
	if !ok {
		return "", aborted(title)
	}
	return value, nil
}

func aborted(title string) error {
	return errors.AbortedError(fmt.Sprintf("%q", title)).WithCause(ErrAborted)
}

// regularFiles lists the regular files directly in dir, sorted
func regularFiles(dir string) []Option {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var options []Option
	for _, e := range entries {
		info, err := os.Stat(filepath.Join(dir, e.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		options = append(options, Option{Label: e.Name(), Value: e.Name()})
	}
	return options
}
