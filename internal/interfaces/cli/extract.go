package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/SeaGuard-Intelligence/internal/geospatial/dedup"
	"github.com/turtacn/SeaGuard-Intelligence/internal/geospatial/parser"
	"github.com/turtacn/SeaGuard-Intelligence/internal/geospatial/validator"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

var (
	extractThresholdKm float64
	extractRaw         bool
)

// extractOutput is the extraction pipeline result rendered by the command.
type extractOutput struct {
	Points     []maritime.GeoPoint `json:"points"`
	RawMatches int                 `json:"raw_matches"`
	Rejected   int                 `json:"rejected"`
	Merged     int                 `json:"merged"`
}

// NewExtractCmd creates the extract command. Extraction runs entirely
// locally, so it works without a reachable server.
func NewExtractCmd() *cobra.Command {
	extractCmd := &cobra.Command{
		Use:   "extract [text]",
		Short: "Extract hazard coordinates from bulletin text",
		Long: `Parse navigation-warning text for coordinates in degree-minute,
degree-minute-second, decimal and Chinese notations, validate them against
plausible ocean bounds, and merge near-duplicate points.

Text is taken from the argument, or from stdin when no argument is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args)
		},
	}

	extractCmd.Flags().Float64Var(&extractThresholdKm, "threshold-km", 1.0, "Merge distance for near-duplicate points in kilometers")
	extractCmd.Flags().BoolVar(&extractRaw, "raw", false, "Skip validation and deduplication, print every parsed point")

	return extractCmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	text, err := extractInputText(cmd, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errors.New(errors.CodeInvalidParam, "no text to extract from: pass an argument or pipe text on stdin")
	}
	if extractThresholdKm <= 0 {
		return errors.New(errors.CodeInvalidParam, fmt.Sprintf("threshold-km must be positive, got %g", extractThresholdKm))
	}

	parsed := parser.Parse(text)
	if extractRaw {
		return PrintResult(cmd, extractOutput{Points: parsed, RawMatches: len(parsed)})
	}

	valid := validator.New().Filter(parsed)
	merged := dedup.Cluster(valid, extractThresholdKm)

	return PrintResult(cmd, extractOutput{
		Points:     merged,
		RawMatches: len(parsed),
		Rejected:   len(parsed) - len(valid),
		Merged:     len(valid) - len(merged),
	})
}

func extractInputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInvalidParam, "failed to read text from stdin")
	}
	return string(data), nil
}
