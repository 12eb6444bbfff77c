package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ventureforge/ventureforge/pkg/market"
	"github.com/ventureforge/ventureforge/pkg/models"
	"github.com/ventureforge/ventureforge/pkg/services"
)

func newReportCmd() *cobra.Command {
	var file, idea, format string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Score market intelligence from a JSON file and render the validation report",
		Long: `Reads market intelligence (the same JSON shape the research step produces:
tam, growth_rate, market_stage, competitors, market_gaps, trends, barriers,
recommendations) and prints the scored validation report. Output is styled
when writing to a terminal, raw markdown otherwise.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			resp, err := buildReport(data, idea)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			case "markdown":
				_, err := io.WriteString(out, resp.Report)
				return err
			case "auto":
				return writeReport(out, resp.Report, isTerminal(out))
			default:
				return fmt.Errorf("unknown --format %q (want auto, markdown or json)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Market intelligence JSON file (- for stdin)")
	cmd.Flags().StringVar(&idea, "idea", "", "Idea title used in the report heading")
	cmd.Flags().StringVar(&format, "format", "auto", "Output format: auto, markdown or json")
	return cmd
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return data, nil
}

// buildReport accepts either raw intelligence JSON or a full
// {"idea": ..., "intelligence": {...}} request body.
func buildReport(data []byte, idea string) (*models.MarketReportResponse, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("invalid market intelligence JSON: %w", err)
	}

	var req models.MarketReportRequest
	if _, wrapped := probe["intelligence"]; wrapped {
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("invalid report request JSON: %w", err)
		}
	} else {
		req.Intelligence = market.Normalize(string(data))
	}
	if idea != "" {
		req.Idea = idea
	}
	return services.BuildMarketReport(req)
}

func writeReport(w io.Writer, report string, styled bool) error {
	if styled {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			if rendered, err := renderer.Render(report); err == nil {
				report = rendered
			}
		}
	}
	_, err := io.WriteString(w, report)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
