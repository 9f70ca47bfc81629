package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/oasverify/oasverify/internal/cliutil"
	"github.com/oasverify/oasverify/oaserrors"
	"github.com/oasverify/oasverify/validator"
)

var (
	validateLint        bool
	validateBaseURL     string
	validateLaxURLs     bool
	validateLenientMIME bool
)

var errValidationFailed = errors.New("")

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate an OpenAPI 3.0 document",
	Long: `Validate an OpenAPI 3.0 document for structural conformance and
semantic correctness: reference integrity, keyword interactions,
document-wide uniqueness, path templating, and security scope resolution.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := validator.ValidateWithOptions(
			validator.WithFilePath(args[0]),
			validator.WithLint(validateLint),
			validator.WithBaseURL(validateBaseURL),
			validator.WithLaxURLs(validateLaxURLs),
			validator.WithLenientMediaTypes(validateLenientMIME),
		)
		if jsonOutput {
			return reportJSON(args[0], result, err)
		}
		return reportText(args[0], result, err)
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateLint, "lint", true, "apply the convention lint rules")
	validateCmd.Flags().StringVar(&validateBaseURL, "base-url", "", "base URL for resolving relative external references")
	validateCmd.Flags().BoolVar(&validateLaxURLs, "lax-urls", false, "skip URL well-formedness checks")
	validateCmd.Flags().BoolVar(&validateLenientMIME, "lenient-media-types", false, "skip media type syntax checks on content keys")
	rootCmd.AddCommand(validateCmd)
}

type validateReport struct {
	Valid    bool                 `json:"valid"`
	Source   string               `json:"source"`
	Version  string               `json:"version,omitempty"`
	Error    *validateReportError `json:"error,omitempty"`
	Warnings []string             `json:"warnings,omitempty"`
	Findings []string             `json:"findings,omitempty"`
}

type validateReportError struct {
	Kind       string   `json:"kind"`
	Message    string   `json:"message"`
	Path       string   `json:"path,omitempty"`
	Violations []string `json:"violations,omitempty"`
}

func buildReportError(err error) *validateReportError {
	var verErr *oaserrors.VersionError
	if errors.As(err, &verErr) {
		return &validateReportError{Kind: "version", Message: verErr.Message}
	}
	var structErr *oaserrors.StructuralError
	if errors.As(err, &structErr) {
		violations := make([]string, 0, len(structErr.Violations))
		for _, v := range structErr.Violations {
			violations = append(violations, v.String())
		}
		return &validateReportError{
			Kind:       "structural",
			Message:    fmt.Sprintf("%d structural violation(s)", len(structErr.Violations)),
			Violations: violations,
		}
	}
	var semErr *oaserrors.SemanticError
	if errors.As(err, &semErr) {
		return &validateReportError{Kind: "semantic", Message: semErr.Message, Path: semErr.Path}
	}
	return &validateReportError{Kind: "io", Message: err.Error()}
}

func reportJSON(source string, result *validator.Result, err error) error {
	report := validateReport{Valid: err == nil, Source: source}
	if result != nil {
		report.Version = result.Version
		for _, w := range result.Warnings {
			report.Warnings = append(report.Warnings, w.String())
		}
		for _, f := range result.Findings {
			report.Findings = append(report.Findings, f.String())
		}
	}
	if err != nil {
		report.Error = buildReportError(err)
	}
	data, marshalErr := json.MarshalIndent(report, "", "  ")
	if marshalErr != nil {
		return marshalErr
	}
	cliutil.Writef(os.Stdout, "%s\n", data)
	if err != nil {
		return errValidationFailed
	}
	return nil
}

func reportText(source string, result *validator.Result, err error) error {
	out := os.Stdout

	if err == nil {
		cliutil.Writef(out, "%s %s is a valid OpenAPI %s document\n",
			color.GreenString("✓"), source, result.Version)
		printIssues(result)
		return nil
	}

	reportErr := buildReportError(err)
	switch reportErr.Kind {
	case "structural":
		cliutil.Writef(out, "%s %s failed structural validation (%s)\n",
			color.RedString("✗"), source, reportErr.Message)
		for _, violation := range reportErr.Violations {
			cliutil.Writef(out, "  %s\n", violation)
		}
	case "semantic":
		cliutil.Writef(out, "%s %s failed semantic validation\n", color.RedString("✗"), source)
		cliutil.Writef(out, "  at %s: %s\n", color.CyanString(reportErr.Path), reportErr.Message)
	case "version":
		cliutil.Writef(out, "%s %s: %s\n", color.RedString("✗"), source, reportErr.Message)
	default:
		cliutil.Writef(out, "%s %s: %v\n", color.RedString("✗"), source, err)
	}
	if result != nil {
		printIssues(result)
	}
	return errValidationFailed
}

func printIssues(result *validator.Result) {
	out := os.Stdout
	for _, warning := range result.Warnings {
		cliutil.Writef(out, "  %s %s: %s\n", color.YellowString("⚠"), warning.Path, warning.Message)
	}
	for _, finding := range result.Findings {
		cliutil.Writef(out, "  %s %s: %s\n", color.CyanString("➤"), finding.Path, finding.Message)
	}
}
