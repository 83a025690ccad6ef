package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/juridico/internal/pipeline"
	"github.com/ppiankov/juridico/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serve exposes upload, review, export and keyword management over HTTP.

Endpoints:
  GET    /healthz
  GET    /api/documents            ?type=&limit=
  GET    /api/documents/extensions
  GET    /api/documents/export     spreadsheet of persisted records
  POST   /api/documents/upload     one file, single publication
  POST   /api/documents/upload-multiple  one record per file
  POST   /api/documents/process-export   segmented spreadsheet, not stored
  GET    /api/documents/{id}
  PUT    /api/documents/{id}
  DELETE /api/documents/{id}
  GET    /api/keywords             ?all=true
  POST   /api/keywords
  DELETE /api/keywords/{id}`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	a, err := buildApp(ctx, cfg, pipeline.Options{})
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Fprintf(os.Stderr, "✓ Listening on %s (store: %s)\n", cfg.Server.Addr, cfg.Store.Driver)
	srv := server.New(cfg.Server, a.pipeline, a.store, a.logger)
	return srv.ListenAndServe(ctx)
}
