package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-press/cmd/markdown/internal/bootstrap"
	markdowncmd "github.com/goliatone/go-press/internal/commands/markdown"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runImport(os.Args[1:]); err != nil {
		log.Fatalf("markdown import: %v", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("markdown-import", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a press YAML configuration file")
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	pattern := fs.String("pattern", "*.{md,mdx}", "Glob pattern applied when discovering markdown files")
	recursive := fs.Bool("recursive", true, "Walk the content root recursively")
	directory := fs.String("directory", ".", "Directory to import, relative to the content root")
	author := fs.String("author", "", "Author recorded on imported posts, overriding front matter")
	publish := fs.Bool("publish", false, "Publish non-draft documents immediately")
	dryRun := fs.Bool("dry-run", false, "Preview changes without persisting posts")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ConfigPath: *configPath,
		ContentDir: *contentDir,
		Pattern:    *pattern,
		Recursive:  *recursive,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Service == nil {
		return fmt.Errorf("markdown service not configured; ensure Features.Markdown is enabled")
	}

	ctx := context.Background()
	if module.Module != nil {
		if err := module.Module.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	handler := markdowncmd.NewImportDirectoryHandler(module.Service, module.Logger, markdowncmd.FeatureGates{
		MarkdownEnabled: func() bool { return true },
	})
	cmd := markdowncmd.ImportDirectoryCommand{
		Directory:          *directory,
		Author:             *author,
		PublishImmediately: *publish,
		DryRun:             *dryRun,
	}
	if err := handler.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute import command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "markdown import command executed successfully")

	return nil
}
