package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/advait-mulye/medner/internal/tui"
	"github.com/advait-mulye/medner/internal/ui"
)

var tuiLogFile string

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the terminal UI",
	Long: `Run a full-screen terminal UI with the same controls as the browser:

  ctrl+j / ctrl+s  analyze (ctrl+enter in the browser)
  ctrl+k           clear
  ctrl+l           load a sample text
  ctrl+e           export results to export.dir
  esc / enter      close an error
  tab              switch focus between input and results

Logs would corrupt the screen, so they are discarded unless --log-file is set.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "append logs to this file")
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if tuiLogFile != "" {
		f, err := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}
	defer log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	return tui.Run(ctx, newClient(cfg),
		ui.WithValidator(validatorFor(cfg)),
		ui.WithScrollDelay(cfg.Server.ScrollDelay),
		ui.WithSanitize(cfg.Render.SanitizeAnnotated),
		ui.WithExportDir(cfg.Export.Dir),
		ui.WithLogger(log),
	)
}
