// Package service runs one uberfile session: it fills the options the
// operator did not pass on the command line, renders the matching command
// templates, shows and copies them, then serves the file.
package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dpshade/uberfile/internal/errors"
	"github.com/dpshade/uberfile/internal/models"
	"github.com/dpshade/uberfile/internal/registry"
	"github.com/dpshade/uberfile/internal/renderer"
	"github.com/dpshade/uberfile/internal/server"
	"github.com/dpshade/uberfile/internal/ui"
)

// Collector asks the operator for the options missing from the command line
type Collector interface {
	SelectOS() (models.OperatingSystem, error)
	SelectProtocol() (models.Protocol, error)
	SelectPort(protocol models.Protocol) (string, error)
	SelectInterface() (string, error)
	SelectCommandType(candidates []string) (string, error)
	SelectFile(dir string) (string, error)
	SelectOutputFile(base string, target models.OperatingSystem) (string, error)
}

// FileServer serves a file until the context is cancelled
type FileServer interface {
	Serve(ctx context.Context, cfg server.Config) error
}

// Copier puts the first command on the clipboard
type Copier interface {
	CopyWithFallback(text string) (string, error)
}

// Options are the session values, empty fields are asked for
type Options struct {
	LHost       string
	LPort       string
	TargetOS    models.OperatingSystem
	Protocol    models.Protocol
	CommandType string
	InputFolder string
	InputFile   string
	OutputFile  string
	NoServe     bool
}

// Session is the outcome of a completed run
type Session struct {
	Options     Options
	Context     models.Context
	InputPath   string
	Chmod       bool
	Commands    []renderer.Rendered
	CommandLine string
}

// Deps wires a Service
type Deps struct {
	Registry  *registry.Registry
	Collector Collector
	Server    FileServer
	Clipboard Copier
	Out       io.Writer
	Log       logrus.FieldLogger
	// Program is the name shown in the reproducing command line
	Program string
}

// Service provides the session workflow
type Service struct {
	registry  *registry.Registry
	collector Collector
	server    FileServer
	clipboard Copier
	out       io.Writer
	log       logrus.FieldLogger
	program   string
}

// NewService creates a new service instance
func NewService(deps Deps) *Service {
	s := &Service{
		registry:  deps.Registry,
		collector: deps.Collector,
		server:    deps.Server,
		clipboard: deps.Clipboard,
		out:       deps.Out,
		log:       deps.Log,
		program:   deps.Program,
	}
	if s.registry == nil {
		s.registry = registry.Default()
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.program == "" {
		s.program = "uberfile"
	}
	return s
}

// Run completes opts, prints and copies the commands and, unless NoServe is
// set, serves the input file until ctx is cancelled
func (s *Service) Run(ctx context.Context, opts Options) (*Session, error) {
	opts, err := s.complete(opts)
	if err != nil {
		return nil, err
	}

	session, err := s.render(opts)
	if err != nil {
		return nil, err
	}

	ui.DisplayCommands(s.out, session.Commands, session.CommandLine)
	s.copyFirst(session.Commands)

	if opts.NoServe {
		return session, nil
	}

	err = s.server.Serve(ctx, server.Config{
		Host:      opts.LHost,
		Port:      opts.LPort,
		Directory: filepath.Dir(session.InputPath),
		InputFile: filepath.Base(session.InputPath),
		Protocol:  opts.Protocol,
	})
	return session, err
}

// complete asks for every missing option in a fixed order: OS, host,
// protocol, port, command type, input file, output file
func (s *Service) complete(opts Options) (Options, error) {
	var err error

	if opts.TargetOS == "" {
		if err := s.needCollector("target OS"); err != nil {
			return opts, err
		}
		if opts.TargetOS, err = s.collector.SelectOS(); err != nil {
			return opts, err
		}
	}
	if !opts.TargetOS.Valid() {
		return opts, errors.InvalidOperatingSystemError(string(opts.TargetOS))
	}

	if opts.LHost == "" {
		if err := s.needCollector("lhost"); err != nil {
			return opts, err
		}
		if opts.LHost, err = s.collector.SelectInterface(); err != nil {
			return opts, err
		}
	}

	if opts.Protocol == "" {
		if err := s.needCollector("protocol"); err != nil {
			return opts, err
		}
		if opts.Protocol, err = s.collector.SelectProtocol(); err != nil {
			return opts, err
		}
	}
	if !opts.Protocol.Templated() {
		return opts, errors.UnsupportedProtocolError(string(opts.Protocol))
	}

	if opts.LPort == "" {
		if err := s.needCollector("lport"); err != nil {
			return opts, err
		}
		if opts.LPort, err = s.collector.SelectPort(opts.Protocol); err != nil {
			return opts, err
		}
	}

	if opts.CommandType == "" {
		candidates, err := s.registry.Candidates(opts.TargetOS, opts.Protocol)
		if err != nil {
			return opts, err
		}
		if err := s.needCollector("command"); err != nil {
			return opts, err
		}
		if opts.CommandType, err = s.collector.SelectCommandType(candidates); err != nil {
			return opts, err
		}
	}

	if opts.InputFolder == "" {
		if opts.InputFolder, err = os.Getwd(); err != nil {
			return opts, errors.Wrap(err, errors.ErrCodeInternalError, "cannot determine the current directory")
		}
	}
	if opts.InputFile == "" {
		if err := s.needCollector("input file"); err != nil {
			return opts, err
		}
		if opts.InputFile, err = s.collector.SelectFile(opts.InputFolder); err != nil {
			return opts, err
		}
	}

	if opts.OutputFile == "" {
		if err := s.needCollector("output file"); err != nil {
			return opts, err
		}
		base := filepath.Base(opts.InputFile)
		if opts.OutputFile, err = s.collector.SelectOutputFile(base, opts.TargetOS); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func (s *Service) needCollector(what string) error {
	if s.collector == nil {
		return errors.InvalidInputError(fmt.Sprintf("%s is required", what))
	}
	return nil
}

// render builds the context and turns the matching templates into commands
func (s *Service) render(opts Options) (*Session, error) {
	templates, err := s.registry.Lookup(opts.TargetOS, opts.CommandType, opts.Protocol)
	if err != nil {
		return nil, err
	}

	inputPath := ResolveInput(opts.InputFolder, opts.InputFile)
	base := filepath.Base(inputPath)
	ctx := models.Context{
		LHost:      opts.LHost,
		LPort:      opts.LPort,
		InputFile:  base,
		OutputFile: opts.OutputFile,
		Protocol:   opts.Protocol,
	}

	chmod := opts.TargetOS == models.Linux && executable(inputPath)
	commands := renderer.NewRenderer(ctx).WithChmod(chmod).RenderAll(templates)
	for i := range commands {
		commands[i].Command = strings.TrimRight(commands[i].Command, " \t\r\n")
	}

	s.log.WithFields(logrus.Fields{
		"os":       opts.TargetOS,
		"command":  opts.CommandType,
		"protocol": opts.Protocol,
		"count":    len(commands),
		"chmod":    chmod,
	}).Debug("Rendered commands")

	return &Session{
		Options:     opts,
		Context:     ctx,
		InputPath:   inputPath,
		Chmod:       chmod,
		Commands:    commands,
		CommandLine: s.commandLine(opts, inputPath),
	}, nil
}

// copyFirst puts the first command on the clipboard. Failing is only a warning.
func (s *Service) copyFirst(commands []renderer.Rendered) {
	if s.clipboard == nil || len(commands) == 0 {
		return
	}
	msg, err := s.clipboard.CopyWithFallback(commands[0].Command)
	if err != nil {
		s.log.WithError(err).Warn("Could not copy the first command to the clipboard")
		return
	}
	ui.Notice(s.out, msg, "success")
}

// List prints the command types of every operating system
func (s *Service) List(w io.Writer) {
	ui.PrintListing(w, s.registry.Listing())
}

// Catalog prints every template with its notes and protocols
func (s *Service) Catalog(w io.Writer, wordWrap int) error {
	return ui.RenderCatalog(w, s.registry, wordWrap)
}

// Serve starts a file server without rendering any command
func (s *Service) Serve(ctx context.Context, cfg server.Config) error {
	return s.server.Serve(ctx, cfg)
}

// executable applies the chmod heuristic to an existing regular file
func executable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return renderer.LooksExecutable(renderer.PeekHeader(path), filepath.Base(path))
}

// ResolveInput joins a relative input file with the input folder
func ResolveInput(folder, file string) string {
	if filepath.IsAbs(file) || folder == "" {
		return filepath.Clean(file)
	}
	return filepath.Join(folder, file)
}

func (s *Service) commandLine(opts Options, inputPath string) string {
	args := []string{
		s.program,
		"--lhost", opts.LHost,
		"--lport", opts.LPort,
		"--target-os", string(opts.TargetOS),
		"--command", opts.CommandType,
		"--input-file", inputPath,
		"--output-file", opts.OutputFile,
		"--protocol", string(opts.Protocol),
	}
	if opts.NoServe {
		args = append(args, "--no-serve")
	}
	for i, a := range args {
		args[i] = shellQuote(a)
	}
	return strings.Join(args, " ")
}

// shellQuote single-quotes a for POSIX shells when it holds anything but
// plain path characters
func shellQuote(a string) string {
	if a != "" && strings.Trim(a, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_./:@%+=,") == "" {
		return a
	}
	return "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
}
