// Package generate runs the batch: load the notes folder once, then derive
// each requested output and write it only when its bytes changed.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/threadmap/internal/apperr"
	"github.com/starford/threadmap/internal/canvas"
	"github.com/starford/threadmap/internal/chrono"
	"github.com/starford/threadmap/internal/diagram"
	"github.com/starford/threadmap/internal/index"
	"github.com/starford/threadmap/internal/lineage"
	"github.com/starford/threadmap/internal/models"
	"github.com/starford/threadmap/internal/notes"
	"github.com/starford/threadmap/internal/storage"
	"github.com/starford/threadmap/internal/tagtree"
)

// Target names.
const (
	TargetTags    = "tags"
	TargetChrono  = "chrono"
	TargetCanvas  = "canvas"
	TargetDiagram = "diagram"
	TargetCatalog = "catalog"
)

// Targets lists every target in run order.
var Targets = []string{TargetTags, TargetChrono, TargetCanvas, TargetDiagram, TargetCatalog}

// Result statuses.
const (
	StatusWritten    = "written"
	StatusUnchanged  = "unchanged"
	StatusWouldWrite = "would-write"
	StatusSynced     = "synced"
	StatusDisabled   = "disabled"
)

// Result describes what one target did.
type Result struct {
	Target string
	Path   string
	Status string
	Detail string
}

// IndexOptions configure a Markdown index output. An empty Output disables it.
type IndexOptions struct {
	Output          string
	Header          string
	ExcludePrefixes []string
}

// CanvasOptions configure the lineage canvas. An empty Output disables it.
type CanvasOptions struct {
	Output string
	Layout lineage.Options
}

// DiagramOptions configure the Mermaid diagram. An empty Output disables it.
// RenderCommand, when set, is run after the text changes or when
// RenderOutput is missing.
type DiagramOptions struct {
	Output          string
	Direction       string
	ExcludePrefixes []string
	RenderCommand   []string
	RenderOutput    string
}

// Options configure a Service. Paths are relative to the vault root.
type Options struct {
	NotesDir   string
	Recursive  bool
	InlineTags bool
	DryRun     bool

	Tags    IndexOptions
	Chrono  IndexOptions
	Canvas  CanvasOptions
	Diagram DiagramOptions

	// CatalogPath is only used for reporting; the catalog itself is passed
	// to NewService.
	CatalogPath string
}

// Service regenerates the derived vault files.
type Service struct {
	store   storage.Provider
	catalog index.Catalog
	opts    Options
	logger  *slog.Logger
}

// NewService creates a Service. catalog may be nil, which disables the
// catalog target.
func NewService(store storage.Provider, catalog index.Catalog, opts Options, logger *slog.Logger) *Service {
	return &Service{store: store, catalog: catalog, opts: opts, logger: logger}
}

// Run loads the notes and runs targets in their canonical order. An empty
// targets list runs all of them. A write or catalog failure stops the run.
func (s *Service) Run(ctx context.Context, targets []string) ([]Result, error) {
	want, err := selectTargets(targets)
	if err != nil {
		return nil, err
	}

	all, err := notes.Load(ctx, s.store, notes.Options{
		Dir:        s.opts.NotesDir,
		Recursive:  s.opts.Recursive,
		InlineTags: s.opts.InlineTags,
		Exclude:    s.outputs(),
	}, s.logger)
	if err != nil {
		return nil, fmt.Errorf("generate: load notes: %w", err)
	}
	withMeta := notes.WithFrontmatter(all)

	s.logger.Info("notes loaded",
		slog.String("dir", s.opts.NotesDir),
		slog.Int("notes", len(all)),
		slog.Int("with_frontmatter", len(withMeta)))

	results := make([]Result, 0, len(want))
	for _, target := range want {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		var res Result
		switch target {
		case TargetTags:
			res, err = s.tags(withMeta)
		case TargetChrono:
			res, err = s.chrono(withMeta)
		case TargetCanvas:
			res, err = s.canvas(all)
		case TargetDiagram:
			res, err = s.diagram(ctx, withMeta)
		case TargetCatalog:
			res, err = s.syncCatalog(all)
		}
		if err != nil {
			return results, err
		}

		s.logger.Info("target done",
			slog.String("target", res.Target),
			slog.String("path", res.Path),
			slog.String("status", res.Status))
		results = append(results, res)
	}
	return results, nil
}

func selectTargets(targets []string) ([]string, error) {
	if len(targets) == 0 {
		return Targets, nil
	}
	requested := make(map[string]bool, len(targets))
	for _, t := range targets {
		known := false
		for _, k := range Targets {
			if t == k {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("generate: %w: %q", apperr.ErrUnknownTarget, t)
		}
		requested[t] = true
	}
	out := make([]string, 0, len(requested))
	for _, k := range Targets {
		if requested[k] {
			out = append(out, k)
		}
	}
	return out, nil
}

func (s *Service) outputs() []string {
	var out []string
	for _, p := range []string{s.opts.Tags.Output, s.opts.Chrono.Output, s.opts.Canvas.Output, s.opts.Diagram.Output} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IndexFile joins a header and the outline lines the way the vault's
// breadcrumb plugin expects: header, newline, lines, no trailing newline.
func IndexFile(header string, lines []string) []byte {
	return []byte(header + "\n" + strings.Join(lines, "\n"))
}

func (s *Service) tags(ns []models.Note) (Result, error) {
	o := s.opts.Tags
	if o.Output == "" {
		return Result{Target: TargetTags, Status: StatusDisabled}, nil
	}
	tree := tagtree.Build(ns, o.ExcludePrefixes)
	return s.emit(TargetTags, o.Output, IndexFile(o.Header, tree.Render()))
}

func (s *Service) chrono(ns []models.Note) (Result, error) {
	o := s.opts.Chrono
	if o.Output == "" {
		return Result{Target: TargetChrono, Status: StatusDisabled}, nil
	}
	return s.emit(TargetChrono, o.Output, IndexFile(o.Header, chrono.Render(ns)))
}

func (s *Service) canvas(ns []models.Note) (Result, error) {
	o := s.opts.Canvas
	if o.Output == "" {
		return Result{Target: TargetCanvas, Status: StatusDisabled}, nil
	}

	forest := lineage.Build(ns)
	for _, d := range forest.Dangling {
		msg := "lineage: previous note not found"
		if s.removedFromVault(d.Target) {
			msg = "lineage: previous note was removed"
		}
		s.logger.Warn(msg,
			slog.String("note", forest.Nodes[d.Node].Note.Name),
			slog.String("previous", d.Target))
	}
	for _, c := range forest.Cycles {
		names := make([]string, len(c))
		for i, j := range c {
			names[i] = forest.Nodes[j].Note.Name
		}
		s.logger.Warn("lineage: cycle broken",
			slog.String("root", names[0]),
			slog.String("members", strings.Join(names, " -> ")))
	}
	forest.Layout(o.Layout)

	doc := canvas.Build(forest, canvas.Options{
		CardWidth:  o.Layout.CardWidth,
		CardHeight: o.Layout.CardHeight,
		FileDir:    s.opts.NotesDir,
	})
	data, err := doc.Encode()
	if err != nil {
		return Result{Target: TargetCanvas, Path: o.Output}, fmt.Errorf("generate: canvas: %w", err)
	}

	res, err := s.emit(TargetCanvas, o.Output, data)
	if err == nil && (len(forest.Dangling) > 0 || len(forest.Cycles) > 0) {
		res.Detail = fmt.Sprintf("%d dangling, %d cycles", len(forest.Dangling), len(forest.Cycles))
	}
	return res, err
}

// removedFromVault reports whether the catalog still knows a note that is no
// longer on disk. The catalog target runs after the canvas, so it has not
// been synced yet.
func (s *Service) removedFromVault(name string) bool {
	if s.catalog == nil {
		return false
	}
	cs, err := s.catalog.GetChecksum(name)
	if err != nil {
		s.logger.Debug("catalog lookup failed", slog.String("note", name), slog.String("error", err.Error()))
		return false
	}
	return cs != ""
}

func (s *Service) diagram(ctx context.Context, ns []models.Note) (Result, error) {
	o := s.opts.Diagram
	if o.Output == "" {
		return Result{Target: TargetDiagram, Status: StatusDisabled}, nil
	}
	text := diagram.Render(ns, diagram.Options{Direction: o.Direction, ExcludePrefixes: o.ExcludePrefixes})
	res, err := s.emit(TargetDiagram, o.Output, []byte(text))
	if err != nil || len(o.RenderCommand) == 0 || o.RenderOutput == "" || s.opts.DryRun {
		return res, err
	}

	raster := filepath.Join(s.store.Root(), filepath.FromSlash(o.RenderOutput))
	_, statErr := os.Stat(raster)
	if res.Status == StatusUnchanged && statErr == nil {
		return res, nil
	}

	input := filepath.Join(s.store.Root(), filepath.FromSlash(o.Output))
	if err := diagram.Rasterize(ctx, o.RenderCommand, input, raster); err != nil {
		s.logger.Warn("diagram: render failed",
			slog.String("path", o.RenderOutput),
			slog.String("error", err.Error()))
		res.Detail = "render failed"
		return res, nil
	}
	res.Detail = "rendered " + o.RenderOutput
	return res, nil
}

func (s *Service) syncCatalog(ns []models.Note) (Result, error) {
	res := Result{Target: TargetCatalog, Path: s.opts.CatalogPath}
	if s.catalog == nil {
		res.Status = StatusDisabled
		return res, nil
	}

	var (
		stats index.SyncStats
		err   error
	)
	if s.opts.DryRun {
		stats, err = index.Plan(s.catalog, ns)
	} else {
		stats, err = index.Sync(s.catalog, ns, s.logger)
	}
	if err != nil {
		return res, fmt.Errorf("generate: catalog: %w", err)
	}

	switch {
	case !stats.Changed():
		res.Status = StatusUnchanged
	case s.opts.DryRun:
		res.Status = StatusWouldWrite
	default:
		res.Status = StatusSynced
	}
	res.Detail = fmt.Sprintf("%d upserted, %d deleted, %d unchanged", stats.Upserted, stats.Deleted, stats.Unchanged)
	return res, nil
}

// emit writes content to path unless it is already there. In dry-run mode it
// only compares.
func (s *Service) emit(target, path string, content []byte) (Result, error) {
	res := Result{Target: target, Path: path}

	if s.opts.DryRun {
		changed, err := s.store.Changed(path, content)
		if err != nil {
			return res, fmt.Errorf("generate: %s: %w", target, err)
		}
		res.Status = StatusUnchanged
		if changed {
			res.Status = StatusWouldWrite
		}
		return res, nil
	}

	wrote, err := s.store.WriteIfChanged(path, content)
	if err != nil {
		return res, fmt.Errorf("generate: write %s: %w", path, err)
	}
	res.Status = StatusUnchanged
	if wrote {
		res.Status = StatusWritten
	}
	return res, nil
}
