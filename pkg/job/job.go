// Package job loads comparison job files: YAML documents that bundle the
// two statute versions to compare with the alignment and output settings,
// so a recurring comparison can be rerun without retyping flags.
package job

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/statutediff/pkg/align"
)

// OutputFormat names a report renderer.
type OutputFormat string

const (
	// FormatJSON writes the structured comparison report.
	FormatJSON OutputFormat = "json"

	// FormatHTML writes the self-contained HTML report.
	FormatHTML OutputFormat = "html"

	// FormatMarkdown writes the GitHub-flavored Markdown report.
	FormatMarkdown OutputFormat = "markdown"
)

// Job holds the configuration for one comparison run.
type Job struct {
	// OldFile is the path to the earlier statute version.
	OldFile string `yaml:"old_file" json:"old_file"`

	// NewFile is the path to the later statute version.
	NewFile string `yaml:"new_file" json:"new_file"`

	// Threshold overrides the similarity threshold (default 0.8).
	Threshold float64 `yaml:"threshold,omitempty" json:"threshold,omitempty"`

	// ManualMatches is an optional path to a manual-match JSON file.
	ManualMatches string `yaml:"manual_matches,omitempty" json:"manual_matches,omitempty"`

	// OutputPrefix is the path prefix for generated reports; the format
	// extension is appended (default "comparison_report").
	OutputPrefix string `yaml:"output_prefix,omitempty" json:"output_prefix,omitempty"`

	// Formats lists the reports to write (default json and html).
	Formats []OutputFormat `yaml:"formats,omitempty" json:"formats,omitempty"`

	// Watch re-runs the comparison whenever an input file changes.
	Watch bool `yaml:"watch,omitempty" json:"watch,omitempty"`
}

// DefaultOutputPrefix is used when a job names no output prefix.
const DefaultOutputPrefix = "comparison_report"

// Load reads a job file, applies defaults, and validates it. Relative
// input and output paths are resolved against the job file's directory.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading job file: %w", err)
	}

	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parsing job file %s: %w", path, err)
	}

	job.applyDefaults()
	job.resolvePaths(filepath.Dir(path))

	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job file %s: %w", path, err)
	}
	return &job, nil
}

// applyDefaults fills in the threshold, output prefix, and format list.
func (j *Job) applyDefaults() {
	if j.Threshold == 0 {
		j.Threshold = align.DefaultSimilarityThreshold
	}
	if j.OutputPrefix == "" {
		j.OutputPrefix = DefaultOutputPrefix
	}
	if len(j.Formats) == 0 {
		j.Formats = []OutputFormat{FormatJSON, FormatHTML}
	}
}

// resolvePaths makes relative paths absolute against the job directory.
func (j *Job) resolvePaths(dir string) {
	resolve := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(dir, path)
	}
	j.OldFile = resolve(j.OldFile)
	j.NewFile = resolve(j.NewFile)
	j.ManualMatches = resolve(j.ManualMatches)
	j.OutputPrefix = resolve(j.OutputPrefix)
}

// Validate collects every configuration problem instead of stopping at the
// first, so a job file can be fixed in one pass.
func (j *Job) Validate() error {
	var result *multierror.Error

	if j.OldFile == "" {
		result = multierror.Append(result, fmt.Errorf("old_file is required"))
	}
	if j.NewFile == "" {
		result = multierror.Append(result, fmt.Errorf("new_file is required"))
	}
	if j.Threshold <= 0 || j.Threshold > 1 {
		result = multierror.Append(result, fmt.Errorf("threshold %v is outside (0, 1]", j.Threshold))
	}
	for _, format := range j.Formats {
		switch format {
		case FormatJSON, FormatHTML, FormatMarkdown:
		default:
			result = multierror.Append(result, fmt.Errorf("unknown output format %q", format))
		}
	}

	return result.ErrorOrNil()
}

// HasFormat reports whether the job requests the given output format.
func (j *Job) HasFormat(format OutputFormat) bool {
	for _, jobFormat := range j.Formats {
		if jobFormat == format {
			return true
		}
	}
	return false
}

// OutputPath returns the report path for a format, e.g. prefix + ".html".
func (j *Job) OutputPath(format OutputFormat) string {
	extension := string(format)
	if format == FormatMarkdown {
		extension = "md"
	}
	return j.OutputPrefix + "." + extension
}
