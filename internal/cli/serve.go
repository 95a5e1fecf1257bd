package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dpshade/uberfile/internal/models"
	"github.com/dpshade/uberfile/internal/server"
	"github.com/dpshade/uberfile/internal/service"
	"github.com/dpshade/uberfile/internal/validation"
)

type serveOptions struct {
	lhost       string
	lport       string
	protocol    string
	inputFolder string
	inputFile   string
	username    string
	password    string
}

func newServeCmd(a *app) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a file without generating commands",
		Long: `Start one of the file servers directly. Besides the template protocols,
serve accepts FTPS, WEBDAV and WEBDAVS.`,
		Example: `  uberfile serve -p HTTPS -f linpeas.sh
  uberfile serve -p WEBDAV -D /opt/resources/windows -f nc.exe -lp 8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			return a.service(nil).Serve(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.lhost, "lhost", "0.0.0.0", "address to listen on (-lh)")
	flags.StringVar(&opts.lport, "lport", "", "port to listen on, default depends on the protocol (-lp)")
	flags.StringVarP(&opts.protocol, "protocol", "p", "", "HTTP, HTTPS, FTP, FTPS, SMB, SCP, WEBDAV or WEBDAVS")
	flags.StringVarP(&opts.inputFolder, "input-folder", "D", "", "folder where the file is located (default current directory)")
	flags.StringVarP(&opts.inputFile, "input-file", "f", "", "file to serve")
	flags.StringVar(&opts.username, "username", "", "FTP login (default anonymous)")
	flags.StringVar(&opts.password, "password", "", "FTP password")
	_ = cmd.MarkFlagRequired("protocol")
	_ = cmd.MarkFlagRequired("input-file")

	return cmd
}

// config validates the flags into a server configuration
func (o *serveOptions) config() (server.Config, error) {
	result := validation.NewValidator().Validate("serve_options", map[string]interface{}{
		"lhost":        o.lhost,
		"lport":        o.lport,
		"protocol":     o.protocol,
		"input_folder": o.inputFolder,
		"input_file":   o.inputFile,
	})
	if !result.Valid {
		return server.Config{}, result.ToAppError()
	}
	data := result.GetValidatedData()

	protocol := models.Protocol(stringValue(data, "protocol"))
	port := stringValue(data, "lport")
	if port == "" {
		port = protocol.DefaultPort()
	}

	path := service.ResolveInput(stringValue(data, "input_folder"), stringValue(data, "input_file"))
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return server.Config{
		Host:      stringValue(data, "lhost"),
		Port:      port,
		Directory: filepath.Dir(path),
		InputFile: filepath.Base(path),
		Protocol:  protocol,
		Username:  o.username,
		Password:  o.password,
	}, nil
}
