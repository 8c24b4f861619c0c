// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble loads a book project directory and runs it through the
// metadata, identifier and matching stages, writing the resulting plan and
// exported metadata for the layout application to apply.
//
// A project directory holds:
//
//	metadata.md          front matter describing the book
//	content/             content files, one per output unit
//	templates/           layout templates
//	templates/templates.yaml  optional cover/before/after ordering
package assemble

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/imprint/internal/fields"
	"github.com/pdiddy/imprint/internal/match"
	"github.com/pdiddy/imprint/internal/meta"
	"github.com/pdiddy/imprint/pkg/types"
)

const (
	defaultMetadataFile = "metadata.md"
	defaultContentDir   = "content"
	defaultTemplatesDir = "templates"
	defaultOutputDir    = "output"

	// manifestFile is looked up inside the templates directory.
	manifestFile = "templates.yaml"
)

// WithDefaults fills unset fields of cfg.
func WithDefaults(cfg types.ProjectConfig) types.ProjectConfig {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.MetadataFile == "" {
		cfg.MetadataFile = defaultMetadataFile
	}
	if cfg.ContentDir == "" {
		cfg.ContentDir = defaultContentDir
	}
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = defaultTemplatesDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaultOutputDir
	}
	return cfg
}

// Project is a loaded book project.
type Project struct {
	Config types.ProjectConfig

	// Record is the canonical metadata read from the metadata file.
	Record *fields.Record

	// Body is the text following the front matter, if any.
	Body string

	Content   []types.ContentFile
	Templates []types.TemplateDescriptor

	// Manifest is nil when the templates directory has no templates.yaml.
	Manifest *types.LayoutManifest

	Logger *slog.Logger
}

// Load reads the project described by cfg. Relative directories in cfg are
// resolved against cfg.Dir. A missing metadata file yields an empty record;
// a missing content or templates directory is an error.
func Load(cfg types.ProjectConfig, logger *slog.Logger) (*Project, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = WithDefaults(cfg)
	p := &Project{Config: cfg, Logger: logger, Record: fields.NewRecord()}

	if err := p.loadMetadata(); err != nil {
		return nil, err
	}

	contentNames, err := ListFiles(p.path(cfg.ContentDir))
	if err != nil {
		return nil, fmt.Errorf("listing content: %w", err)
	}
	p.Content = match.ContentFiles(contentNames)

	templatesDir := p.path(cfg.TemplatesDir)
	p.Manifest, err = LoadManifest(templatesDir)
	if err != nil {
		return nil, err
	}
	templateNames, err := ListFiles(templatesDir)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	p.Templates = match.DescribeAll(templateNames, p.Manifest)
	p.checkManifest(templateNames)

	logger.Debug("project loaded",
		"dir", cfg.Dir,
		"fields", p.Record.Len(),
		"content", len(p.Content),
		"templates", len(p.Templates),
		"manifest", p.Manifest != nil)
	return p, nil
}

func (p *Project) loadMetadata() error {
	data, err := os.ReadFile(p.path(p.Config.MetadataFile))
	if errors.Is(err, fs.ErrNotExist) {
		p.Logger.Warn("no metadata file", "path", p.path(p.Config.MetadataFile))
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading metadata: %w", err)
	}
	p.Record, p.Body = ParseMetadata(string(data))
	return nil
}

// ParseMetadata parses metadata text, with or without front-matter
// delimiters, into a canonical record and the body that follows it.
func ParseMetadata(text string) (*fields.Record, string) {
	front, body, ok := meta.SplitFrontMatter(text)
	if !ok {
		return fields.ToCanonical(meta.Parse(text)), ""
	}
	return fields.ToCanonical(meta.Parse(front)), body
}

// checkManifest logs manifest entries that name no template.
func (p *Project) checkManifest(templateNames []string) {
	if p.Manifest == nil {
		return
	}
	known := make(map[string]bool, len(templateNames))
	for _, n := range templateNames {
		known[n] = true
	}
	for _, list := range [][]string{p.Manifest.Cover, p.Manifest.Before, p.Manifest.After} {
		for _, n := range list {
			if !known[n] {
				p.Logger.Warn("manifest names a missing template", "template", n)
			}
		}
	}
}

// Plan assigns the project's content files to templates.
func (p *Project) Plan() types.MatchPlan {
	return match.BuildPlan(p.Content, p.Templates, p.Manifest)
}

func (p *Project) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Config.Dir, rel)
}

// LoadManifest reads templates.yaml from dir. It returns nil without error
// when the file does not exist.
func LoadManifest(dir string) (*types.LayoutManifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m types.LayoutManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

// ListFiles returns the names of the regular files in dir, sorted. Hidden
// files and templates.yaml are skipped.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || name == manifestFile {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
