// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/book-selection/internal/export"
	"github.com/pdiddy/book-selection/internal/manifest"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a selection spreadsheet from a YAML manifest",
	Long: `Export reads a selection manifest (student details, books, and an optional
recommendation) and writes the spreadsheet in the chosen layout. The form
layout needs the student ID and name; both layouts need at least one book.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("manifest", "selection.yaml", "selection manifest to export")
	exportCmd.Flags().String("layout", "", "spreadsheet layout: form or simple (default form)")
	exportCmd.Flags().String("out", "", "output directory (default .)")
	exportCmd.Flags().String("deadline", "", "submission deadline printed in the form layout")
	_ = viper.BindPFlag("export.layout", exportCmd.Flags().Lookup("layout"))
	_ = viper.BindPFlag("export.output_dir", exportCmd.Flags().Lookup("out"))
	_ = viper.BindPFlag("export.deadline", exportCmd.Flags().Lookup("deadline"))

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString("manifest")

	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	layout, err := export.LayoutByName(cfg.Export.Layout)
	if err != nil {
		return err
	}
	layout = layout.WithDeadline(cfg.Export.Deadline)

	list := m.List(uuid.NewString)
	books := list.Books()
	if err := export.Ready(layout, m.Student, books); err != nil {
		return err
	}

	dir := cfg.Export.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	out := filepath.Join(dir, export.Filename(layout, m.Student, time.Now()))

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := export.Write(f, layout, m.Student, books, list.TotalPrice(), m.Recommendation); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", out, err)
	}

	fmt.Fprintf(os.Stdout, "Wrote %s (%d book(s), total %d)\n", out, len(books), list.TotalPrice())
	return nil
}
