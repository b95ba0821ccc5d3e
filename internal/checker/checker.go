// SPDX-License-Identifier: MPL-2.0

// Package checker runs project-wide checks: it locates the manifest, walks
// the project tree for model definition files while honoring the configured
// exclusion pattern, compiles every model, and aggregates the problems found
// into a single report.
package checker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"jsonmodel-cli/internal/config"
	"jsonmodel-cli/internal/issue"
	"jsonmodel-cli/pkg/jsonmodel"
	"jsonmodel-cli/pkg/manifest"
)

// Severity grades a finding.
type Severity string

const (
	// SeverityError marks findings that fail the check run.
	SeverityError Severity = "error"
	// SeverityWarning marks findings reported but tolerated.
	SeverityWarning Severity = "warning"
)

type (
	// Finding is one problem discovered during a check run.
	Finding struct {
		// Severity grades the finding.
		Severity Severity
		// Path is the file the finding concerns, relative to the project
		// root ("" for project-wide findings).
		Path string
		// Message describes the problem.
		Message string
	}

	// Report is the outcome of a check run.
	Report struct {
		// Root is the checked project root.
		Root string
		// Manifest is the project manifest, nil when it failed validation.
		Manifest *manifest.Manifest
		// Models holds every model compiled from the project, by name.
		Models map[string]*jsonmodel.Model
		// Findings lists the problems found, in discovery order.
		Findings []Finding
	}

	// Checker walks a project and validates manifest and models.
	Checker struct {
		logger    *log.Logger
		fallback  config.CheckerConfig
		modelDirs []string
	}

	// Option configures a Checker.
	Option func(*Checker)
)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// WithFallback supplies checker settings used when the project manifest has
// no [tool.checker] table. The manifest always wins when present.
func WithFallback(cfg config.CheckerConfig) Option {
	return func(c *Checker) {
		c.fallback = cfg
	}
}

// WithModelDirs adds directories searched for model definition files on top
// of the project tree. Relative paths resolve against the project root.
func WithModelDirs(dirs []string) Option {
	return func(c *Checker) {
		c.modelDirs = dirs
	}
}

// New creates a checker.
func New(opts ...Option) *Checker {
	c := &Checker{
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "checker",
			Level:  log.WarnLevel,
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// String implements fmt.Stringer.
func (f Finding) String() string {
	if f.Path == "" {
		return fmt.Sprintf("%s: %s", f.Severity, f.Message)
	}
	return fmt.Sprintf("%s: %s: %s", f.Severity, f.Path, f.Message)
}

// HasErrors reports whether any finding has error severity.
func (r *Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Counts returns the number of error and warning findings.
func (r *Report) Counts() (errs, warnings int) {
	for _, f := range r.Findings {
		switch f.Severity {
		case SeverityError:
			errs++
		case SeverityWarning:
			warnings++
		}
	}
	return errs, warnings
}

// Run checks the project rooted at (or above) dir. Manifest validation
// problems become findings rather than failing the run, so a single run
// reports everything at once; only a missing manifest or an unreadable tree
// is a hard error.
func (c *Checker) Run(ctx context.Context, dir string) (*Report, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("check canceled: %w", ctx.Err())
	default:
	}

	m, manifestFindings, root, err := c.loadManifest(dir)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Root:     root,
		Manifest: m,
		Models:   make(map[string]*jsonmodel.Model),
		Findings: manifestFindings,
	}

	exclude, err := c.compileExclude(m)
	if err != nil {
		// Validation already reported the broken pattern; fall back so the
		// walk still runs.
		c.logger.Warn("exclude pattern unusable, using default", "err", err)
		exclude = regexp.MustCompile(manifest.DefaultExcludePattern)
	}

	defFiles, err := c.discover(ctx, root, exclude)
	if err != nil {
		return nil, err
	}

	extra, err := c.discoverModelDirs(ctx, root, exclude, report)
	if err != nil {
		return nil, err
	}
	defFiles = dedupe(append(defFiles, extra...))

	c.compileModels(defFiles, report)
	c.checkDependencyModels(report)

	errs, warnings := report.Counts()
	c.logger.Debug("check complete",
		"models", len(report.Models), "errors", errs, "warnings", warnings)

	return report, nil
}

// loadManifest locates and parses the project manifest. Validation issues are
// returned as findings together with a best-effort reparse of the document,
// so later stages still see the declared configuration.
func (c *Checker) loadManifest(dir string) (*manifest.Manifest, []Finding, string, error) {
	m, err := manifest.Find(dir)
	if err == nil {
		return m, nil, filepath.Dir(m.FilePath), nil
	}

	var issues manifest.IssueList
	if !errors.As(err, &issues) {
		return nil, nil, "", err
	}

	findings := make([]Finding, 0, len(issues))
	for _, i := range issues {
		findings = append(findings, Finding{
			Severity: SeverityError,
			Path:     manifest.Name,
			Message:  i.Error(),
		})
	}

	// The document parsed but failed validation; reread it without the
	// validation gate to recover the checker configuration.
	root, m := c.reparseInvalid(dir)
	return m, findings, root, nil
}

// reparseInvalid walks upward from dir to the manifest file and decodes it
// ignoring validation, returning the containing directory and the document
// (nil when even decoding fails).
func (c *Checker) reparseInvalid(dir string) (string, *manifest.Manifest) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir, nil
	}
	for {
		candidate := filepath.Join(abs, manifest.Name)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			m, _ := manifest.ParseBytesLenient(mustRead(candidate), candidate)
			return abs, m
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return dir, nil
		}
		abs = parent
	}
}

func mustRead(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}

// compileExclude builds the path exclusion regex, layering the manifest over
// the fallback configuration.
func (c *Checker) compileExclude(m *manifest.Manifest) (*regexp.Regexp, error) {
	pattern := manifest.DefaultExcludePattern
	switch {
	case m != nil && m.Tool != nil && m.Tool.Checker != nil && m.Tool.Checker.Exclude != "":
		pattern = m.Tool.Checker.Exclude
	case c.fallback.Exclude != "":
		pattern = c.fallback.Exclude
	}
	return regexp.Compile(pattern)
}

// ignoreMissingModels layers the manifest setting over the fallback.
func (c *Checker) ignoreMissingModels(m *manifest.Manifest) bool {
	if m != nil && m.Tool != nil && m.Tool.Checker != nil {
		return m.Tool.Checker.IgnoreMissingModels
	}
	return c.fallback.IgnoreMissingModels
}

// discover walks the project tree and returns the definition files to
// compile, skipping excluded and hidden paths. Exclusion matches the
// slash-separated path relative to the project root, anywhere in the path.
func (c *Checker) discover(ctx context.Context, root string, exclude *regexp.Regexp) ([]string, error) {
	var files []string

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if exclude.MatchString(rel) {
			c.logger.Debug("excluded", "path", rel)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() && jsonmodel.IsDefinitionFile(path) {
			c.logger.Debug("definition file", "path", rel)
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, issue.New().
			Op("walk project tree").
			Resource(root).
			Wrap(walkErr).
			Err()
	}

	return files, nil
}

// discoverModelDirs walks the configured extra model directories. A missing
// directory is a warning, not a hard error: model_dirs is machine-level
// configuration and may point at paths that only exist on some machines. A
// directory nested under the project root is skipped, the main walk already
// covered it.
func (c *Checker) discoverModelDirs(ctx context.Context, root string, exclude *regexp.Regexp, report *Report) ([]string, error) {
	var files []string
	for _, dir := range c.modelDirs {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		if within(root, dir) {
			c.logger.Debug("model dir inside project root, skipping", "dir", dir)
			continue
		}

		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			report.Findings = append(report.Findings, Finding{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("configured model directory %s does not exist", dir),
			})
			continue
		}

		found, err := c.discover(ctx, dir, exclude)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// within reports whether path is root or lies under it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || !strings.HasPrefix(rel, "..")
}

func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// compileModels loads every discovered definition file and registers its
// models, reporting load failures and cross-file name duplicates.
func (c *Checker) compileModels(defFiles []string, report *Report) {
	declaredIn := make(map[string]string)

	for _, path := range defFiles {
		rel := c.relPath(report.Root, path)

		models, err := jsonmodel.LoadDefinitions(path)
		if err != nil {
			report.Findings = append(report.Findings, Finding{
				Severity: SeverityError,
				Path:     rel,
				Message:  err.Error(),
			})
			continue
		}

		for _, model := range models {
			if prev, dup := declaredIn[model.Name()]; dup {
				report.Findings = append(report.Findings, Finding{
					Severity: SeverityError,
					Path:     rel,
					Message:  fmt.Sprintf("model %s already declared in %s", model.Name(), prev),
				})
				continue
			}
			declaredIn[model.Name()] = rel
			report.Models[model.Name()] = model
		}
	}
}

// checkDependencyModels verifies that every runtime dependency has its model
// definitions vendored in the project: a dependency "orders" is expected to
// contribute an orders.model.cue file. Missing definitions are errors unless
// ignore_missing_models downgrades them to warnings. Dev dependencies are
// tooling and carry no models.
func (c *Checker) checkDependencyModels(report *Report) {
	if report.Manifest == nil {
		return
	}

	severity := SeverityError
	if c.ignoreMissingModels(report.Manifest) {
		severity = SeverityWarning
	}

	for name := range report.Manifest.Dependencies {
		if c.hasDefinitionFor(report.Root, name) {
			continue
		}
		report.Findings = append(report.Findings, Finding{
			Severity: severity,
			Path:     manifest.Name,
			Message: fmt.Sprintf(
				"dependency %q has no model definitions in the project (expected %s%s)",
				name, dependencyStem(name), jsonmodel.DefinitionSuffix),
		})
	}
}

// hasDefinitionFor reports whether a definition file for the dependency
// exists anywhere under root, excluded paths included: vendored definitions
// often live in directories the checker otherwise skips.
func (c *Checker) hasDefinitionFor(root, dependency string) bool {
	want := dependencyStem(dependency) + jsonmodel.DefinitionSuffix
	found := false
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found {
			return filepath.SkipAll
		}
		if !d.IsDir() && strings.EqualFold(d.Name(), want) {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

// dependencyStem folds a dependency name to its expected file stem.
func dependencyStem(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", "-"))
}

// relPath renders path relative to root for display. Files from external
// model directories keep their absolute path.
func (c *Checker) relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
