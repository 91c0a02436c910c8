package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-press/cmd/lint/internal/bootstrap"
	lintcmd "github.com/goliatone/go-press/internal/commands/lint"
	"github.com/goliatone/go-press/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runLint(os.Args[1:]); err != nil {
		if errors.Is(err, lintcmd.ErrLintIssuesFound) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		log.Fatalf("lint: %v", err)
	}
}

func runLint(args []string) error {
	fs := flag.NewFlagSet("lint", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a press YAML configuration file")
	schemaPath := fs.String("schema", "", "Path to a front matter JSON schema file")
	directory := fs.String("directory", "", "Directory of content files to lint")
	file := fs.String("file", "", "Single content file to lint")
	failOnError := fs.Bool("fail-on-error", true, "Exit non-zero when error severity issues are found")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*directory) == "" && strings.TrimSpace(*file) == "" {
		return fmt.Errorf("either --directory or --file is required")
	}

	module, err := moduleBuilder(bootstrap.Options{
		ConfigPath: *configPath,
		SchemaPath: *schemaPath,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Linter == nil {
		return fmt.Errorf("linter not configured; ensure Features.Lint is enabled")
	}

	ctx := context.Background()
	gates := lintcmd.FeatureGates{
		LintEnabled: func() bool { return true },
	}
	report := func(r *interfaces.LintReport) {
		printReport(os.Stdout, r)
	}

	if trimmed := strings.TrimSpace(*file); trimmed != "" {
		handler := lintcmd.NewLintFileHandler(module.Linter, module.Logger, gates)
		cmd := lintcmd.LintFileCommand{
			Path:           trimmed,
			FailOnError:    *failOnError,
			ReportCallback: report,
		}
		return handler.Execute(ctx, cmd)
	}

	handler := lintcmd.NewLintDirectoryHandler(module.Linter, module.Logger, gates)
	cmd := lintcmd.LintDirectoryCommand{
		Directory:      strings.TrimSpace(*directory),
		FailOnError:    *failOnError,
		ReportCallback: report,
	}
	return handler.Execute(ctx, cmd)
}

func printReport(w *os.File, report *interfaces.LintReport) {
	if report == nil {
		return
	}
	for _, issue := range report.Issues {
		location := issue.Path
		if issue.Line > 0 {
			location = fmt.Sprintf("%s:%d", issue.Path, issue.Line)
		}
		fmt.Fprintf(w, "%s [%s] %s: %s\n", location, issue.Severity, issue.Rule, issue.Message)
	}
	fmt.Fprintf(w, "checked %d file(s), %d issue(s)\n", report.Checked, len(report.Issues))
}
