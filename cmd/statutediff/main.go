package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/coolbeans/statutediff/pkg/align"
	"github.com/coolbeans/statutediff/pkg/job"
	"github.com/coolbeans/statutediff/pkg/report"
	"github.com/coolbeans/statutediff/pkg/statute"
	"github.com/coolbeans/statutediff/pkg/watch"
)

var version = "0.1.0"

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "statutediff",
		Short: "Chinese statute parser and version comparator",
		Long: `Statutediff parses plain-text Chinese statutes into a structured
document model and compares two versions of the same statute.

It repairs broken line wrapping, normalizes punctuation, converts
Chinese numerals, and aligns the articles of two versions to report
what was kept, modified, added, or removed:

  statutediff parse law.txt --preview 3
  statutediff compare law_2011.txt law_2021.txt -o report`,
		Version: version,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(compareCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the CLI logger; debug level when --verbose is set.
func newLogger() hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "statutediff",
		Level:  level,
		Output: os.Stderr,
	})
}

func parseCmd() *cobra.Command {
	var (
		outputPath   string
		previewCount int
		force        bool
	)

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a statute text file into structured JSON",
		Long: `Parse a plain-text statute into chapters, sections, and articles.

Example:
  statutediff parse law.txt
  statutediff parse law.txt --preview 3
  statutediff parse law.txt -o law.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading statute file: %w", err)
			}

			parser := statute.NewParser(statute.WithLogger(logger))
			doc := parser.Parse(string(data))

			fmt.Printf("Parsed %s\n", args[0])
			fmt.Printf("  Chapters: %d\n", doc.Stats.TotalChapters)
			fmt.Printf("  Sections: %d\n", doc.Stats.TotalSections)
			fmt.Printf("  Articles: %d\n", doc.Stats.TotalArticles)
			if len(doc.Collisions) > 0 {
				fmt.Printf("  Duplicate article numbers: %v\n", doc.Collisions)
			}

			if previewCount > 0 {
				fmt.Println()
				for i, number := range doc.ArticleNumbers() {
					if i >= previewCount {
						break
					}
					article := doc.Articles[number]
					fmt.Printf("第%d条　%s\n", number, article.Content)
				}
			}

			if outputPath == "" {
				return nil
			}
			if !force {
				if _, err := os.Stat(outputPath); err == nil {
					return fmt.Errorf("%s already exists, use --force to overwrite", outputPath)
				}
			}
			encoded, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding document: %w", err)
			}
			if err := os.WriteFile(outputPath, encoded, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", outputPath, err)
			}
			fmt.Printf("Wrote %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the parsed document as JSON")
	cmd.Flags().IntVar(&previewCount, "preview", 0, "print the first N articles")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing output file")

	return cmd
}

func compareCmd() *cobra.Command {
	var (
		threshold    float64
		manualPath   string
		outputPrefix string
		jobPath      string
		noJSON       bool
		noHTML       bool
		markdown     bool
		watchMode    bool
	)

	cmd := &cobra.Command{
		Use:   "compare <old-file> <new-file>",
		Short: "Compare two versions of a statute",
		Long: `Compare two versions of a statute and report which articles are
unchanged, modified, added, or removed.

Example:
  statutediff compare law_2011.txt law_2021.txt
  statutediff compare law_2011.txt law_2021.txt -t 0.7 -o traffic
  statutediff compare law_2011.txt law_2021.txt -m matches.json
  statutediff compare --job nightly.yaml
  statutediff compare law_2011.txt law_2021.txt --watch`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			var comparisonJob *job.Job
			if jobPath != "" {
				if len(args) > 0 {
					return fmt.Errorf("--job cannot be combined with file arguments")
				}
				loaded, err := job.Load(jobPath)
				if err != nil {
					return err
				}
				comparisonJob = loaded
			} else {
				if len(args) != 2 {
					return fmt.Errorf("compare needs an old and a new file, or --job")
				}
				comparisonJob = &job.Job{
					OldFile:       args[0],
					NewFile:       args[1],
					Threshold:     threshold,
					ManualMatches: manualPath,
					OutputPrefix:  outputPrefix,
					Watch:         watchMode,
				}
				comparisonJob.Formats = requestedFormats(noJSON, noHTML, markdown)
				if err := comparisonJob.Validate(); err != nil {
					return err
				}
			}

			if watchMode {
				comparisonJob.Watch = true
			}

			if err := runComparison(comparisonJob, logger); err != nil {
				return err
			}
			if !comparisonJob.Watch {
				return nil
			}
			return watchComparison(comparisonJob, logger)
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", align.DefaultSimilarityThreshold, "similarity threshold for automatic matching")
	cmd.Flags().StringVarP(&manualPath, "manual-matches", "m", "", "JSON file of forced article pairs")
	cmd.Flags().StringVarP(&outputPrefix, "output-prefix", "o", job.DefaultOutputPrefix, "path prefix for generated reports")
	cmd.Flags().StringVar(&jobPath, "job", "", "YAML job file with comparison settings")
	cmd.Flags().BoolVar(&noJSON, "no-json", false, "skip the JSON report")
	cmd.Flags().BoolVar(&noHTML, "no-html", false, "skip the HTML report")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "also write a Markdown report")
	cmd.Flags().BoolVar(&watchMode, "watch", false, "re-run the comparison when an input file changes")

	return cmd
}

// requestedFormats maps the compare flags onto a job format list.
func requestedFormats(noJSON, noHTML, markdown bool) []job.OutputFormat {
	formats := []job.OutputFormat{}
	if !noJSON {
		formats = append(formats, job.FormatJSON)
	}
	if !noHTML {
		formats = append(formats, job.FormatHTML)
	}
	if markdown {
		formats = append(formats, job.FormatMarkdown)
	}
	return formats
}

// runComparison executes one comparison job and writes its reports.
func runComparison(comparisonJob *job.Job, logger hclog.Logger) error {
	oldData, err := os.ReadFile(comparisonJob.OldFile)
	if err != nil {
		return fmt.Errorf("reading old version: %w", err)
	}
	newData, err := os.ReadFile(comparisonJob.NewFile)
	if err != nil {
		return fmt.Errorf("reading new version: %w", err)
	}

	parser := statute.NewParser(statute.WithLogger(logger))
	oldDoc := parser.Parse(string(oldData))
	newDoc := parser.Parse(string(newData))

	var manual []align.ManualMatch
	if comparisonJob.ManualMatches != "" {
		manual, err = align.LoadManualMatches(comparisonJob.ManualMatches)
		if err != nil {
			return err
		}
	}

	aligner := align.NewAligner(
		align.WithThreshold(comparisonJob.Threshold),
		align.WithLogger(logger),
	)
	comparison := aligner.Compare(oldDoc, newDoc, manual)
	result := report.New(comparison, oldDoc, newDoc, comparisonJob.OldFile, comparisonJob.NewFile)

	stats := comparison.Stats
	fmt.Printf("Compared %s (%d articles) against %s (%d articles)\n",
		comparisonJob.OldFile, stats.TotalArticlesOld,
		comparisonJob.NewFile, stats.TotalArticlesNew)
	fmt.Printf("  Unchanged: %d\n", stats.IdenticalCount)
	fmt.Printf("  Modified:  %d\n", stats.ModifiedCount)
	fmt.Printf("  Added:     %d\n", stats.AddedCount)
	fmt.Printf("  Removed:   %d\n", stats.DeletedCount)
	for _, warning := range comparison.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}

	if comparisonJob.HasFormat(job.FormatJSON) {
		encoded, err := result.ToJSON()
		if err != nil {
			return err
		}
		if err := writeReport(comparisonJob.OutputPath(job.FormatJSON), encoded); err != nil {
			return err
		}
	}
	if comparisonJob.HasFormat(job.FormatHTML) {
		if err := writeReport(comparisonJob.OutputPath(job.FormatHTML), result.ToHTML()); err != nil {
			return err
		}
	}
	if comparisonJob.HasFormat(job.FormatMarkdown) {
		if err := writeReport(comparisonJob.OutputPath(job.FormatMarkdown), result.ToMarkdown()); err != nil {
			return err
		}
	}

	return nil
}

func writeReport(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

// watchComparison blocks, re-running the job whenever an input changes,
// until interrupted.
func watchComparison(comparisonJob *job.Job, logger hclog.Logger) error {
	paths := []string{comparisonJob.OldFile, comparisonJob.NewFile}
	if comparisonJob.ManualMatches != "" {
		paths = append(paths, comparisonJob.ManualMatches)
	}

	watcher, err := watch.New(paths, func(changed string) {
		fmt.Printf("\n%s changed, re-running comparison\n", changed)
		if err := runComparison(comparisonJob, logger); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}, watch.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	fmt.Println("Watching for changes, press Ctrl-C to stop")
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	return nil
}
