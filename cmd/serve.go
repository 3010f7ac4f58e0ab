package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/venkatarajeshjakka/notes/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s", "start"},
	Short:   "Start the development server",
	Long: `Serve the site from memory with live reload. Changes to notes, static
files, stylesheets or the config file rebuild the site; a failed rebuild
keeps serving the last good site with the error on top.

Examples:
  notes serve                     # http://localhost:3000/notes/
  notes serve --port 8080         # Use a different port
  notes serve --no-watch          # Build once, never rebuild`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	servePort    int
	serveHost    string
	serveNoWatch bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (default is server.port)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "host to bind (default is server.host)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "disable rebuilding on file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}

	srv := server.New(cfg, logger, server.Options{
		Root:       projectRoot(),
		ConfigFile: viper.ConfigFileUsed(),
		Reload:     reloadConfig,
		Watch:      cfg.Server.Watch && !serveNoWatch,
	})
	return srv.Serve(cmd.Context())
}
