package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/advait-mulye/medner/internal/input"
	"github.com/advait-mulye/medner/internal/render"
)

var (
	analyzeFile    string
	analyzeJSON    string
	analyzeMD      string
	analyzeExport  string
	analyzeTimeout time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text|-]",
	Short: "Analyze clinical text and print the detected entities",
	Long: `Analyze sends the text to the service once and prints a summary of the
entities it found, grouped by type, followed by each entity and its position.

The text is the first argument, "-" to read standard input, or --file.

Example:
  medner analyze "Patient has diabetes and takes metformin 500mg."
  cat note.txt | medner analyze - --json result.json
  medner analyze --file note.txt --md report.md --export ./exports`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "read the text from a file")
	analyzeCmd.Flags().StringVar(&analyzeJSON, "json", "", `write the service response as JSON ("-" for stdout)`)
	analyzeCmd.Flags().StringVar(&analyzeMD, "md", "", `write a Markdown report ("-" for stdout)`)
	analyzeCmd.Flags().StringVar(&analyzeExport, "export", "", "write the export artifact into this directory")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", time.Minute, "overall analysis timeout")
}

// textSource adapts a plain string to input.Source
type textSource string

func (s textSource) InputText() string { return string(s) }

func readText(args []string, file string, stdin io.Reader) (string, error) {
	switch {
	case file != "" && len(args) > 0:
		return "", errors.New("give the text as an argument or with --file, not both")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(data), nil
	case len(args) == 1 && args[0] == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	case len(args) == 1:
		return args[0], nil
	}
	return "", errors.New(`no text: pass it as an argument, "-" for stdin, or --file`)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	raw, err := readText(args, analyzeFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	text := input.Collect(textSource(raw))
	if err := validatorFor(cfg).Check(text); err != nil {
		var inErr *input.InputError
		if errors.As(err, &inErr) {
			return errors.New(inErr.UserMessage())
		}
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	log.WithField("chars", len([]rune(text))).Debug("analyzing")

	resp, err := newClient(cfg).Analyze(ctx, text)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	at := time.Now()
	res := render.Build(resp, render.Options{Sanitize: cfg.Render.SanitizeAnnotated})
	out := cmd.OutOrStdout()

	if analyzeJSON != "-" && analyzeMD != "-" {
		if err := render.WriteSummary(out, res); err != nil {
			return err
		}
	}

	if analyzeJSON != "" {
		if err := writeOutput(analyzeJSON, out, func(w io.Writer) error { return render.WriteJSON(w, resp) }); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
	}

	if analyzeMD != "" {
		md := render.Markdown(res, at)
		if err := writeOutput(analyzeMD, out, func(w io.Writer) error {
			_, err := io.WriteString(w, md)
			return err
		}); err != nil {
			return fmt.Errorf("write Markdown: %w", err)
		}
	}

	if analyzeExport != "" {
		path, err := render.WriteExport(analyzeExport, resp, at)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Exported %s\n", path)
	}

	return nil
}

// writeOutput runs write against stdout for "-" or the named file
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) (err error) {
	if path == "-" {
		return write(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := write(f); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
	return nil
}
