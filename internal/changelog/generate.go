package changelog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Default option values.
const (
	DefaultPath    = "CHANGELOG.md"
	DefaultEndHash = "HEAD"
	DefaultBranch  = "main"
)

// GenerateOptions configures one changelog run.
type GenerateOptions struct {
	Path string
	// LastTag overrides the frontmatter's last-tag.
	LastTag string
	// StartHash overrides the frontmatter's last-hash.
	StartHash    string
	EndHash      string
	Branch       string
	Repo         RepoRef
	TemplatesDir string
	Workers      int
	// DryRun computes the patched document without writing it.
	DryRun   bool
	Progress ProgressFunc
}

func (o GenerateOptions) withDefaults() GenerateOptions {
	if o.Path == "" {
		o.Path = DefaultPath
	}
	if o.EndHash == "" {
		o.EndHash = DefaultEndHash
	}
	if o.Branch == "" {
		o.Branch = DefaultBranch
	}
	return o
}

// Result describes a completed run.
type Result struct {
	Path    string
	Range   *RevisionRange
	View    *View
	Section string
	// Document is the full patched changelog.
	Document string
	// Written is false for dry runs and for runs that changed nothing.
	Written bool
}

// Generator runs the full pipeline: read the changelog, resolve the range,
// aggregate, render, patch, and write the file once.
type Generator struct {
	source Source
	logger *slog.Logger
}

// NewGenerator creates a Generator over source. A nil logger uses slog.Default.
func NewGenerator(source Source, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{source: source, logger: logger}
}

// Generate produces the next release section. Nothing is written unless every
// step succeeds.
func (g *Generator) Generate(ctx context.Context, opts GenerateOptions) (*Result, error) {
	opts = opts.withDefaults()

	content, err := os.ReadFile(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("reading changelog: %w", err)
	}

	doc, err := ParseDocument(string(content))
	if err != nil {
		return nil, withPath(err, opts.Path)
	}

	start := opts.StartHash
	if start == "" {
		start = doc.Frontmatter.LastHash
	}
	if start == "" {
		return nil, &FrontmatterError{Path: opts.Path, Reason: ReasonMissingLastHash}
	}

	lastTag := opts.LastTag
	if lastTag == "" {
		lastTag = doc.Frontmatter.LastTag
	}
	if lastTag == "" {
		lastTag = DefaultTag
	}

	renderer, err := NewRenderer(opts.TemplatesDir)
	if err != nil {
		return nil, err
	}

	rng, err := ResolveRange(ctx, g.source, start, opts.EndHash, opts.Branch)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("resolved revision range",
		slog.String("start", rng.Start),
		slog.String("end", rng.End),
		slog.Int("commits", len(rng.Hashes)),
	)

	aggregator := NewAggregator(g.source,
		WithWorkers(opts.Workers),
		WithLogger(g.logger),
		WithProgress(opts.Progress),
	)
	view, err := aggregator.Aggregate(ctx, rng.Hashes, Options{
		Repo:    opts.Repo,
		Branch:  opts.Branch,
		LastTag: lastTag,
	})
	if err != nil {
		return nil, err
	}

	section, err := renderer.Render(view)
	if err != nil {
		return nil, err
	}

	if err := doc.Patch(doc.Frontmatter.With(rng.End, view.Tag), section); err != nil {
		return nil, withPath(err, opts.Path)
	}
	out := doc.String()

	result := &Result{
		Path:     opts.Path,
		Range:    rng,
		View:     view,
		Section:  section,
		Document: out,
	}

	if opts.DryRun || out == string(content) {
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := writeFileAtomic(opts.Path, []byte(out)); err != nil {
		return nil, err
	}
	result.Written = true

	g.logger.Info("changelog updated",
		slog.String("path", opts.Path),
		slog.String("tag", view.Tag),
		slog.Int("commits", view.CommitCount()),
	)
	return result, nil
}

// writeFileAtomic replaces path through a temp file in the same directory,
// keeping the original file mode.
func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) // Best effort cleanup
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
