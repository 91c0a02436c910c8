package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-press/cmd/static/internal/bootstrap"
	staticcmd "github.com/goliatone/go-press/internal/commands/static"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runBuild(os.Args[1:]); err != nil {
		log.Fatalf("static build: %v", err)
	}
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("static-build", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a press YAML configuration file")
	outputDir := fs.String("output-dir", "", "Directory where generated pages are written")
	baseURL := fs.String("base-url", "", "Absolute base URL used for canonical links and feeds")
	templatesDir := fs.String("templates-dir", "", "Directory holding layout templates")
	slugs := fs.String("slugs", "", "Comma separated slugs to rebuild; empty builds the whole site")
	dryRun := fs.Bool("dry-run", false, "Report what would be built without writing artifacts")
	clean := fs.Bool("clean", false, "Remove previously generated artifacts instead of building")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ConfigPath:   *configPath,
		OutputDir:    *outputDir,
		BaseURL:      *baseURL,
		TemplatesDir: *templatesDir,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Service == nil {
		return fmt.Errorf("generator service not configured; ensure Features.Generator is enabled")
	}

	ctx := context.Background()
	if module.Module != nil {
		if err := module.Module.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	gates := staticcmd.FeatureGates{
		GeneratorEnabled: func() bool { return true },
	}

	if *clean {
		handler := staticcmd.NewCleanSiteHandler(module.Service, module.Logger, gates)
		if err := handler.Execute(ctx, staticcmd.CleanSiteCommand{}); err != nil {
			return fmt.Errorf("execute clean command: %w", err)
		}
		fmt.Fprintln(os.Stdout, "static clean command executed successfully")
		return nil
	}

	handler := staticcmd.NewBuildSiteHandler(module.Service, module.Logger, gates)
	cmd := staticcmd.BuildSiteCommand{
		Slugs:  bootstrap.SplitList(*slugs),
		DryRun: *dryRun,
		ResultCallback: func(envelope staticcmd.ResultEnvelope) {
			if envelope.Result == nil {
				return
			}
			fmt.Fprintf(os.Stdout, "built %d post(s), %d listing(s), skipped %d in %s\n",
				envelope.Result.PostsBuilt,
				envelope.Result.ListingsBuilt,
				envelope.Result.PostsSkipped,
				envelope.Result.Duration)
		},
	}
	if err := handler.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute build command: %w", err)
	}

	return nil
}
