// Package scaffold creates a new nbaetl project directory: configuration from
// an embedded template plus an optional sample batch.
package scaffold

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vvka-141/nbaetl/internal/batchfile"
	"github.com/vvka-141/nbaetl/internal/testing/fixtures"
	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

//go:embed all:templates
var templatesFS embed.FS

// SampleDir is the batch directory created inside a new project.
const SampleDir = "batch"

// Scaffolder creates projects from the embedded templates.
type Scaffolder struct {
	logger nbaetl.Logger
}

// NewScaffolder returns a Scaffolder. Panics if logger is nil.
func NewScaffolder(logger nbaetl.Logger) *Scaffolder {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Scaffolder{logger: logger}
}

// ListTemplates returns the available template names, sorted.
func ListTemplates() ([]string, error) {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// CreateProject renders template into targetPath, which must be empty or
// absent. {{PROJECT_NAME}} is replaced with projectName in every file.
func (s *Scaffolder) CreateProject(projectName, template, targetPath string) error {
	root, err := fs.Sub(templatesFS, path.Join("templates", template))
	if err != nil {
		return fmt.Errorf("template '%s' not found: %w", template, err)
	}
	if _, err := fs.Stat(root, nbaetl.ConfigFileName); err != nil {
		return fmt.Errorf("template '%s' not found: %w", template, err)
	}

	empty, err := isDirectoryEmpty(targetPath)
	if err != nil {
		return fmt.Errorf("failed to check target directory: %w", err)
	}
	if !empty {
		return fmt.Errorf("target directory '%s' is not empty\n\nnbaetl init requires an empty directory to avoid overwriting existing files", targetPath)
	}

	if err := os.MkdirAll(targetPath, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	s.logger.Verbose("Creating project '%s' at %s with template '%s'", projectName, targetPath, template)

	return fs.WalkDir(root, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || p == "." {
			return err
		}
		target := filepath.Join(targetPath, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		content, err := fs.ReadFile(root, p)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", p, err)
		}
		rendered := strings.ReplaceAll(string(content), "{{PROJECT_NAME}}", projectName)

		s.logger.Verbose("Creating file: %s", p)
		if err := os.WriteFile(target, []byte(rendered), 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", target, err)
		}
		return nil
	})
}

// WriteSampleBatch writes a synthetic, well-formed batch of games into
// targetPath/batch.
func (s *Scaffolder) WriteSampleBatch(ctx context.Context, targetPath string, games, events int) error {
	if games <= 0 {
		return nil
	}
	batch := fixtures.NewBatchBuilder().Games(games).PlayByPlayTotal(events).Build()
	dir := filepath.Join(targetPath, SampleDir)

	s.logger.Verbose("Writing sample batch: %d games, %d play-by-play events", len(batch.Games), len(batch.PlayByPlay))
	return batchfile.Write(ctx, dir, batch)
}

// isDirectoryEmpty reports whether path is absent or an empty directory.
func isDirectoryEmpty(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check directory: %w", err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("path exists but is not a directory")
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return false, fmt.Errorf("failed to read directory: %w", err)
	}
	return len(entries) == 0, nil
}

// BuildFileTree renders the directory structure under rootPath as a tree.
func BuildFileTree(rootPath string) (string, error) {
	var sb strings.Builder

	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		absPath = rootPath
	}
	sb.WriteString(absPath + "/\n")

	if err := writeTree(&sb, rootPath, ""); err != nil {
		return "", fmt.Errorf("failed to build file tree: %w", err)
	}
	return sb.String(), nil
}

func writeTree(sb *strings.Builder, dir, indent string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for i, entry := range entries {
		branch, next := "├── ", "│   "
		if i == len(entries)-1 {
			branch, next = "└── ", "    "
		}
		name := entry.Name()
		if entry.IsDir() {
			name += "/"
		}
		sb.WriteString(indent + branch + name + "\n")
		if entry.IsDir() {
			if err := writeTree(sb, filepath.Join(dir, entry.Name()), indent+next); err != nil {
				return err
			}
		}
	}
	return nil
}
