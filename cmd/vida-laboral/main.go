// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the vida-laboral CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd converts the PDFs given as arguments.
var rootCmd = &cobra.Command{
	Use:   "vida-laboral <file.pdf> [more.pdf...]",
	Short: "Convert a Seguridad Social vida laboral PDF into CSV",
	Long: `vida-laboral reads the employment-history tables of an "informe de vida
laboral" PDF and writes one row per contribution period to a CSV file next
to the input (informe.pdf -> informe.csv).

The cover page is skipped, tables whose first row lacks the SITUACIÓN/ES
marker are ignored, and rows that the PDF split across several lines are
merged back using the DÍAS column: a row with an empty DÍAS cell continues
the record above it.

Tables are detected with the built-in tabula backend, or with camelot run
in a docker/podman container (--backend camelot).`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./vida-laboral.yaml or ~/.config/vida-laboral/vida-laboral.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "pretty", "log format: pretty or json")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("vida-laboral")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "vida-laboral"))
		}
	}

	viper.SetEnvPrefix("VIDA_LABORAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
