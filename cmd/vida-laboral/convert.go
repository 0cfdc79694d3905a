package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vida-laboral/internal/convert"
	"github.com/pdiddy/vida-laboral/internal/extract"
	"github.com/pdiddy/vida-laboral/internal/logger"
	"github.com/pdiddy/vida-laboral/pkg/types"
)

// settings is the full configuration resolved from flags, environment and
// config file.
type settings struct {
	types.ConversionConfig `mapstructure:",squash"`

	Log types.LogConfig `mapstructure:"log"`
}

// convertFlags maps viper keys to the flag names that set them.
var convertFlags = map[string]string{
	"backend":       "backend",
	"format":        "format",
	"output":        "output",
	"delimiter":     "delimiter",
	"header_rows":   "header-rows",
	"marker":        "marker",
	"skip_pages":    "skip-pages",
	"join":          "join",
	"strict":        "strict",
	"camelot_image": "camelot-image",
}

func init() {
	d := types.DefaultConversionConfig()
	f := rootCmd.Flags()
	f.String("backend", string(d.Backend), "table extraction backend: tabula or camelot")
	f.String("format", string(d.Format), "output format: csv, json, yaml or sqlite")
	f.StringP("output", "o", "", "output path (default: input path with the format's extension; single input only)")
	f.String("delimiter", d.Delimiter, `CSV field delimiter, a single character or \t`)
	f.Int("header-rows", d.HeaderRows, "rows dropped from the top of each table")
	f.String("marker", d.Marker, "text that must appear in a table's first row")
	f.Int("skip-pages", d.SkipPages, "leading pages never searched for tables")
	f.String("join", d.Join, "separator used when merging wrapped cell text")
	f.Bool("strict", d.Strict, "fail when a table starts with a continuation row instead of dropping it")
	f.String("camelot-image", d.CamelotImage, "container image for the camelot backend")

	for key, name := range convertFlags {
		_ = viper.BindPFlag(key, f.Lookup(name))
	}
}

// loadSettings decodes v into settings and checks the values that can be
// rejected before any file is touched.
func loadSettings(v *viper.Viper) (settings, error) {
	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return settings{}, fmt.Errorf("decoding configuration: %w", err)
	}

	switch s.Format {
	case types.FormatCSV, types.FormatJSON, types.FormatYAML, types.FormatSQLite:
	default:
		return settings{}, fmt.Errorf("unsupported output format %q: use csv, json, yaml or sqlite", s.Format)
	}
	if s.HeaderRows < 0 {
		return settings{}, fmt.Errorf("header-rows must not be negative, got %d", s.HeaderRows)
	}
	if s.SkipPages < 0 {
		return settings{}, fmt.Errorf("skip-pages must not be negative, got %d", s.SkipPages)
	}
	return s, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(viper.GetViper())
	if err != nil {
		return err
	}
	if s.Output != "" && len(args) > 1 {
		return fmt.Errorf("--output can only be used with a single input file, got %d", len(args))
	}

	log := logger.New(os.Stderr, s.Log)
	ctx := cmd.Context()

	ex, err := extract.New(ctx, s.ConversionConfig, log)
	if err != nil {
		return err
	}
	log.Debug().Str("backend", ex.Name()).Msg("extractor ready")

	result := convert.Batch(ctx, ex, args, s.ConversionConfig, log)
	if result.HasFailures() {
		return fmt.Errorf("%d of %d files failed", result.Failed, result.Total())
	}
	return nil
}
