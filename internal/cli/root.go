// Package cli wires the uberfile command line: cobra commands, viper
// configuration, the logrus logger and the session service.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dpshade/uberfile/internal/clipboard"
	"github.com/dpshade/uberfile/internal/config"
	"github.com/dpshade/uberfile/internal/errors"
	"github.com/dpshade/uberfile/internal/logging"
	"github.com/dpshade/uberfile/internal/models"
	"github.com/dpshade/uberfile/internal/registry"
	"github.com/dpshade/uberfile/internal/server"
	"github.com/dpshade/uberfile/internal/service"
	"github.com/dpshade/uberfile/internal/ui"
	"github.com/dpshade/uberfile/internal/validation"
)

var version = "0.1.0"

const catalogWidth = 100

// Streams are the terminal the commands talk to
type Streams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// app holds what PersistentPreRunE prepares for the commands
type app struct {
	streams    Streams
	configPath string
	logLevel   string

	loader *config.Loader
	cfg    *config.Config
	log    *logrus.Logger
}

type rootOptions struct {
	lhost       string
	lport       string
	targetOS    string
	command     string
	inputFolder string
	inputFile   string
	outputFile  string
	protocol    string
	list        bool
	catalog     bool
	noServe     bool
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	streams := Streams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
	return Run(ctx, streams, os.Args[1:])
}

// Run executes args against a fresh command tree
func Run(ctx context.Context, streams Streams, args []string) int {
	a := &app{streams: streams}
	cmd := newRootCmd(a)
	cmd.SetArgs(normalizeArgs(args))
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.ErrOut)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	log := a.log
	if log == nil {
		log, _ = logging.New(config.LogConfig{Level: "info"}, streams.ErrOut)
	}
	handler := errors.NewCLIErrorHandler(log, log.IsLevelEnabled(logrus.DebugLevel))
	return errors.ExitCode(handler.HandleError(err))
}

func newRootCmd(a *app) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "uberfile",
		Short: "Generate file download commands for a target and serve the file",
		Long: `uberfile builds one-line commands that make a remote Windows or Linux
machine download a file, copies the first one to the clipboard and starts a
matching local server (HTTP, HTTPS, FTP, SMB or SCP instructions).

Options that are not given on the command line are asked for interactively.`,
		Example: `  uberfile
  uberfile -t linux -p HTTP -lh 10.10.14.2 -lp 8000 -d curl -f linpeas.sh -o /tmp/linpeas.sh
  uberfile --list
  uberfile serve -p WEBDAV -f nc.exe -lp 8080`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSession(cmd.Context(), opts)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, err.Error())
	})

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&a.configPath, "config", "", "configuration file (default ~/.config/uberfile/config.yaml)")
	persistent.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	flags := cmd.Flags()
	flags.StringVar(&opts.lhost, "lhost", "", "server address (-lh)")
	flags.StringVar(&opts.lport, "lport", "", "server port (-lp)")
	flags.StringVarP(&opts.targetOS, "target-os", "t", "", "target machine operating system: windows or linux")
	flags.StringVarP(&opts.command, "command", "d", "", "command type, see --list")
	flags.StringVarP(&opts.inputFolder, "input-folder", "D", "", "folder where the file is located (default current directory)")
	flags.StringVarP(&opts.inputFile, "input-file", "f", "", "file to be downloaded, relative to the input folder or a full path")
	flags.StringVarP(&opts.outputFile, "output-file", "o", "", "file to write on the target machine")
	flags.StringVarP(&opts.protocol, "protocol", "p", "", "transfer protocol: HTTP, HTTPS, FTP, SMB or SCP")
	flags.BoolVarP(&opts.list, "list", "l", false, "print all the command types uberfile can generate")
	flags.BoolVar(&opts.catalog, "catalog", false, "print every command template with its notes and protocols")
	flags.BoolVar(&opts.noServe, "no-serve", false, "print and copy the commands without starting a server")

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	return cmd
}

// init loads the configuration and builds the logger
func (a *app) init(cmd *cobra.Command) error {
	loader, err := config.NewLoader(a.configPath)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "cannot locate the configuration directory")
	}
	if flag := cmd.Root().PersistentFlags().Lookup("log-level"); flag != nil && flag.Changed {
		if err := loader.BindFlag("log.level", flag); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, err.Error())
		}
	}

	cfg, err := loader.Load()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, err.Error())
	}
	log, err := logging.New(cfg.Log, a.streams.ErrOut)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, err.Error())
	}

	a.loader, a.cfg, a.log = loader, cfg, log
	log.WithField("config", loader.Path()).Debug("Configuration loaded")
	return nil
}

func (a *app) runSession(ctx context.Context, opts *rootOptions) error {
	if opts.list {
		a.service(nil).List(a.streams.Out)
		return nil
	}
	if opts.catalog {
		return a.service(nil).Catalog(a.streams.Out, catalogWidth)
	}

	sessionOpts, err := a.sessionOptions(opts)
	if err != nil {
		return err
	}

	prompter := ui.NewPrompter(
		logging.Component(a.log, "ui"),
		ui.WithRunner(ui.ProgramRunner(a.streams.In, a.streams.ErrOut)),
		ui.WithResourceDirs(a.cfg.ResourceDirs),
	)
	_, err = a.service(prompter).Run(ctx, sessionOpts)
	return err
}

// sessionOptions validates the flag values and converts them
func (a *app) sessionOptions(opts *rootOptions) (service.Options, error) {
	result := validation.NewValidator().Validate("session_options", map[string]interface{}{
		"lhost":        opts.lhost,
		"lport":        opts.lport,
		"target_os":    opts.targetOS,
		"protocol":     opts.protocol,
		"command":      opts.command,
		"input_folder": opts.inputFolder,
		"input_file":   opts.inputFile,
		"output_file":  opts.outputFile,
	})
	if !result.Valid {
		return service.Options{}, result.ToAppError()
	}
	data := result.GetValidatedData()

	return service.Options{
		LHost:       stringValue(data, "lhost"),
		LPort:       stringValue(data, "lport"),
		TargetOS:    models.OperatingSystem(stringValue(data, "target_os")),
		Protocol:    models.Protocol(stringValue(data, "protocol")),
		CommandType: stringValue(data, "command"),
		InputFolder: stringValue(data, "input_folder"),
		InputFile:   stringValue(data, "input_file"),
		OutputFile:  stringValue(data, "output_file"),
		NoServe:     opts.noServe,
	}, nil
}

// service builds the session service. collector may be nil for the
// commands that never ask anything.
func (a *app) service(collector service.Collector) *service.Service {
	deps := service.Deps{
		Registry:  registry.Default(),
		Server:    a.fileServer(),
		Clipboard: clipboard.New(a.terminal()),
		Out:       a.streams.Out,
		Log:       logging.Component(a.log, "session"),
		Program:   filepath.Base(os.Args[0]),
	}
	if collector != nil {
		deps.Collector = collector
	}
	return service.NewService(deps)
}

func (a *app) fileServer() *server.FileServer {
	log := logging.Component(a.log, "server")
	return server.New(server.Options{
		Log:   log,
		Certs: server.NewCertStore(a.cfg.TLS, log),
		SMB:   server.NewSMBOptions(a.cfg.SMB),
		Out:   a.streams.Out,
	})
}

// terminal returns the stream OSC 52 sequences can be written to, if any
func (a *app) terminal() io.Writer {
	f, ok := a.streams.ErrOut.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return nil
	}
	return f
}

func stringValue(data map[string]interface{}, key string) string {
	s, _ := data[key].(string)
	return s
}
