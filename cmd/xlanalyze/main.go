// Package main provides the CLI entry point for xlanalyze.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/output"
)

var (
	outputPath    string
	pretty        bool
	verbose       bool
	sheetsDir     string
	includeValues bool
	maxFormulas   int
	skipSheets    []string

	noFormulas           bool
	noNamedRanges        bool
	noConditionalFormats bool
	noDataValidations    bool
	noPivotTables        bool
	noCharts             bool
	noTables             bool
	noAutoFilters        bool
	noComments           bool
	noHyperlinks         bool
	noControls           bool
	noConnections        bool
	noProtection         bool
	noPrintSettings      bool
	noVBA                bool
	noPowerQuery         bool
	noErrorCells         bool
	noExternalRefs       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xlanalyze [input.xlsx]",
		Short: "Extract the analyzable structure of an Excel workbook",
		Long: `xlanalyze extracts sheets, classified formulas, named ranges, feature
records, VBA macros and Power Query definitions from a workbook and
outputs JSON. Damaged features degrade to diagnostics in the output.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	flags.BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log extraction progress to stderr")
	flags.StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-sheet summary files")
	flags.BoolVar(&includeValues, "include-values", false, "Attach cached result values to formulas")
	flags.IntVar(&maxFormulas, "max-formulas", 0, "Limit extracted formulas (0 = unlimited)")
	flags.StringSliceVar(&skipSheets, "skip-sheets", nil, "Sheet names to skip during cell extraction")

	flags.BoolVar(&noFormulas, "no-formulas", false, "Skip formula extraction")
	flags.BoolVar(&noNamedRanges, "no-named-ranges", false, "Skip named ranges")
	flags.BoolVar(&noConditionalFormats, "no-conditional-formats", false, "Skip conditional formatting")
	flags.BoolVar(&noDataValidations, "no-data-validations", false, "Skip data validations")
	flags.BoolVar(&noPivotTables, "no-pivot-tables", false, "Skip pivot tables")
	flags.BoolVar(&noCharts, "no-charts", false, "Skip charts")
	flags.BoolVar(&noTables, "no-tables", false, "Skip structured tables")
	flags.BoolVar(&noAutoFilters, "no-autofilters", false, "Skip autofilters")
	flags.BoolVar(&noComments, "no-comments", false, "Skip comments")
	flags.BoolVar(&noHyperlinks, "no-hyperlinks", false, "Skip hyperlinks")
	flags.BoolVar(&noControls, "no-controls", false, "Skip controls and shapes")
	flags.BoolVar(&noConnections, "no-connections", false, "Skip data connections")
	flags.BoolVar(&noProtection, "no-protection", false, "Skip protection records")
	flags.BoolVar(&noPrintSettings, "no-print-settings", false, "Skip print settings")
	flags.BoolVar(&noVBA, "no-vba", false, "Skip VBA macro extraction")
	flags.BoolVar(&noPowerQuery, "no-power-query", false, "Skip Power Query extraction")
	flags.BoolVar(&noErrorCells, "no-error-cells", false, "Skip error cell scan")
	flags.BoolVar(&noExternalRefs, "no-external-refs", false, "Skip external reference scan")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	opts := buildOptions()
	if verbose {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	analysis, err := xlanalyze.Analyze(args[0], opts)
	if err != nil {
		var aerr *xlanalyze.AnalyzeError
		if errors.As(err, &aerr) && aerr.Partial != nil {
			fmt.Fprintf(os.Stderr, "warning: analysis incomplete: %v\n", aerr.Err)
			analysis = aerr.Partial
		} else {
			return fmt.Errorf("analysis failed: %w", err)
		}
	}

	jsonData, err := output.ToJSON(analysis, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		fmt.Println(string(jsonData))
	}

	if sheetsDir != "" {
		if err := writeSheetFiles(analysis, sheetsDir); err != nil {
			return fmt.Errorf("failed to write sheet files: %w", err)
		}
	}
	return nil
}

func buildOptions() xlanalyze.AnalysisOptions {
	opts := xlanalyze.DefaultOptions()
	opts.IncludeFormulaValues = includeValues
	opts.MaxFormulas = maxFormulas
	opts.SkipSheets = skipSheets

	toggle := func(flag bool, target **bool) {
		if flag {
			*target = xlanalyze.Off()
		}
	}
	toggle(noFormulas, &opts.IncludeFormulas)
	toggle(noNamedRanges, &opts.IncludeNamedRanges)
	toggle(noConditionalFormats, &opts.IncludeConditionalFormats)
	toggle(noDataValidations, &opts.IncludeDataValidations)
	toggle(noPivotTables, &opts.IncludePivotTables)
	toggle(noCharts, &opts.IncludeCharts)
	toggle(noTables, &opts.IncludeTables)
	toggle(noAutoFilters, &opts.IncludeAutoFilters)
	toggle(noComments, &opts.IncludeComments)
	toggle(noHyperlinks, &opts.IncludeHyperlinks)
	toggle(noControls, &opts.IncludeControls)
	toggle(noConnections, &opts.IncludeConnections)
	toggle(noProtection, &opts.IncludeProtection)
	toggle(noPrintSettings, &opts.IncludePrintSettings)
	toggle(noVBA, &opts.IncludeVBA)
	toggle(noPowerQuery, &opts.IncludePowerQuery)
	toggle(noErrorCells, &opts.IncludeErrorCells)
	toggle(noExternalRefs, &opts.IncludeExternalRefs)
	return opts
}

func writeSheetFiles(a *models.WorkbookAnalysis, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for i := range a.Sheets {
		jsonData, err := output.SheetToJSON(&a.Sheets[i], pretty)
		if err != nil {
			return err
		}
		filename := filepath.Join(dir, a.Sheets[i].Name+".json")
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}
	return nil
}
