package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/temperature-prediction/internal/prediction"
)

func newPredictCmd(app *application) *cobra.Command {
	var fv prediction.FeatureVector

	cmd := &cobra.Command{
		Use:     "predict",
		Short:   "Predict the temperature for one observation",
		PreRunE: app.preRun,
		RunE: func(cmd *cobra.Command, _ []string) error {
			temp, err := app.service.Predict(cmd.Context(), fv)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.2f\n", temp)
			return nil
		},
	}

	// Flag names are the feature names; --wind-gust is accepted for --wind_gust.
	flags := cmd.Flags()
	flags.SetNormalizeFunc(underscoreFlags)
	flags.Float64Var(&fv.Precipitation, prediction.Precipitation.String(), 0, "total precipitation")
	flags.Float64Var(&fv.Humidity, prediction.Humidity.String(), 0, "relative humidity at 2 m")
	flags.Float64Var(&fv.WindGust, prediction.WindGust.String(), 0, "wind gust")
	flags.Float64Var(&fv.WindSpeed, prediction.WindSpeed.String(), 0, "wind speed at 100 m")
	flags.Float64Var(&fv.CloudCover, prediction.CloudCover.String(), 0, "total cloud cover")
	flags.Float64Var(&fv.Pressure, prediction.Pressure.String(), 0, "mean sea level pressure")
	for _, f := range prediction.Features {
		_ = cmd.MarkFlagRequired(f.String())
	}
	return cmd
}

func underscoreFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "-", "_"))
}

func newPredictFileCmd(app *application) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "predict-file <path>",
		Short:   "Predict temperatures for every row of a CSV or XLSX file",
		Args:    cobra.ExactArgs(1),
		PreRunE: app.preRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case "table", "json", "yaml":
			default:
				return fmt.Errorf("unknown output format %q", output)
			}

			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := app.service.PredictFile(cmd.Context(), filepath.Base(path), f)
			if err != nil {
				return err
			}
			return writeBatch(cmd.OutOrStdout(), output, result)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func writeBatch(w io.Writer, format string, result prediction.BatchResult) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(result)
	case "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TIMESTAMP\tTEMPERATURE")
		for _, p := range result.Predictions {
			fmt.Fprintf(tw, "%s\t%.2f\n", p.Timestamp, p.Temperature)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
