package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/typetune/internal/core/domain"
	"github.com/ewilliams-labs/typetune/internal/core/personality"
)

var axisOrder = []string{domain.AxisEI, domain.AxisSN, domain.AxisTF, domain.AxisJP}

func newInferCommand() *cobra.Command {
	var file string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "infer",
		Short: "Infer a type code from a JSON list of track records",
		Long: "Reads either a bare JSON array of track records or an object with an\n" +
			"\"audio_features\" array, as posted to POST /mbti. Use --file - for stdin.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			features, err := parseFeatures(data)
			if err != nil {
				return err
			}
			if len(features) == 0 {
				return domain.ErrNoFeatures
			}

			result := personality.Infer(features)
			if asJSON {
				return writeJSON(cmd, result)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderResult(result))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Input file, or - for stdin")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// parseFeatures accepts a bare array or an {"audio_features": [...]} object.
func parseFeatures(data []byte) ([]domain.FeatureRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, domain.ErrNoFeatures
	}
	if data[0] == '[' {
		var features []domain.FeatureRecord
		if err := json.Unmarshal(data, &features); err != nil {
			return nil, fmt.Errorf("parse track list: %w", err)
		}
		return features, nil
	}
	var req struct {
		AudioFeatures []domain.FeatureRecord `json:"audio_features"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse request: %w", err)
	}
	return req.AudioFeatures, nil
}

func renderResult(r domain.InferenceResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", r.Summary)

	rows := make([][]string, 0, len(axisOrder))
	for _, axis := range axisOrder {
		v := r.Breakdown.MBTILogic[axis]
		rows = append(rows, []string{axis, v.Direction, strconv.FormatFloat(v.Value, 'f', -1, 64), v.Reason})
	}
	b.WriteString(renderTable(
		[]string{"Axis", "Lean", "Confidence", "Reason"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	))
	b.WriteString("\n\n")

	stats := [][]string{
		{"Avg track popularity", strconv.FormatFloat(r.Breakdown.AvgTrackPopularity, 'f', -1, 64)},
		{"Avg duration (ms)", strconv.FormatFloat(r.Breakdown.AvgDurationMs, 'f', -1, 64)},
		{"Avg artist popularity", strconv.FormatFloat(r.Breakdown.AvgArtistPopularity, 'f', -1, 64)},
		{"Top genres", strings.Join(r.Breakdown.TopGenres, ", ")},
	}
	b.WriteString(renderTable([]string{"Metric", "Value"}, stats, []columnAlignment{alignLeft, alignRight}))
	b.WriteString("\n")
	return b.String()
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
