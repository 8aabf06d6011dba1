// Package main provides the xcdb CLI for converting build logs into JSON
// compilation databases.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"xcdb/internal/compiledb"
	"xcdb/internal/config"
	"xcdb/internal/format"
	"xcdb/internal/logstream"
	"xcdb/internal/model"
	"xcdb/internal/pch"
	"xcdb/internal/scanner"
)

var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:     "xcdb",
	Short:   "Convert build logs into a JSON compilation database",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default: .xcdb.yaml in CWD or $HOME)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")

	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newShowCmd())
}

func main() {
	log.SetReportTimestamp(false)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "xcdb: %v\n", err)
		os.Exit(1)
	}
}

func newConvertCmd() *cobra.Command {
	var (
		output       string
		excludeFiles []string
		excludeDirs  []string
	)

	cmd := &cobra.Command{
		Use:   "convert <build-log>",
		Short: "Convert a build log into compile_commands.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.Output
			}

			excludeDir, err := config.CompileFilter(append(cfg.ExcludeDirs, excludeDirs...))
			if err != nil {
				return err
			}
			excludeFile, err := config.CompileFilter(append(cfg.ExcludeFiles, excludeFiles...))
			if err != nil {
				return err
			}

			input := args[0]
			in, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("open build log: %w", err)
			}
			defer in.Close()

			out, cleanup, err := openOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			table := pch.NewTable()
			scan := scanner.New(logstream.New(in, input), table, scanner.Options{
				ExcludeDir:  excludeDir,
				ExcludeFile: excludeFile,
				Debugf:      log.Debugf,
			})

			writer := compiledb.NewWriter(out)
			runErr := scan.Run(func(record model.Record) error {
				return writer.Write(record)
			})
			if runErr == nil {
				runErr = writer.Close()
			}
			if err := cleanup(runErr); err != nil {
				return err
			}
			if runErr != nil {
				return runErr
			}

			log.Debugf("wrote %d records to %s", writer.Count(), output)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "",
		"output file, or - for stdout (default: compile_commands.json)")
	flags.StringArrayVarP(&excludeFiles, "exclude", "e", nil,
		"exclude source files matching the regular expression (repeatable)")
	flags.StringArrayVar(&excludeDirs, "exclude-dir", nil,
		"exclude build directories matching the regular expression (repeatable)")

	return cmd
}

// openOutput prepares the conversion destination. The returned cleanup
// closes the file and removes it again when the conversion failed, so a
// partial database never survives on disk. "-" streams to stdout.
func openOutput(path string, stdout io.Writer) (io.Writer, func(error) error, error) {
	if path == "-" {
		return stdout, func(error) error { return nil }, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	cleanup := func(runErr error) error {
		closeErr := file.Close()
		if runErr != nil {
			os.Remove(path)
			return nil
		}
		if closeErr != nil {
			return fmt.Errorf("close output file: %w", closeErr)
		}
		return nil
	}
	return file, cleanup, nil
}

func newShowCmd() *cobra.Command {
	var (
		formatFlag string
		noHeader   bool
	)

	cmd := &cobra.Command{
		Use:   "show <compile_commands.json|build-log>",
		Short: "Render a compilation database as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}

			records, err := loadRecords(args[0])
			if err != nil {
				return err
			}

			includeHeader := !noHeader
			return format.WriteRecords(cmd.OutOrStdout(), records, includeHeader, formatFlag)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&formatFlag, "format", "table", "output format: table, plain, or json")
	flags.BoolVar(&noHeader, "no-header", false, "omit the header row")

	return cmd
}

// loadRecords reads an existing compilation database, or converts a build
// log in memory when the input is not one.
func loadRecords(path string) ([]model.Record, error) {
	if records, err := compiledb.ReadFile(path); err == nil {
		return records, nil
	}

	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open build log: %w", err)
	}
	defer in.Close()

	table := pch.NewTable()
	scan := scanner.New(logstream.New(in, path), table, scanner.Options{
		Debugf: log.Debugf,
	})

	var records []model.Record
	if err := scan.Run(func(record model.Record) error {
		records = append(records, record)
		return nil
	}); err != nil {
		return nil, err
	}
	return records, nil
}
