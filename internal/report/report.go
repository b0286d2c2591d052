// Package report maintains the on-disk report tree and the generated
// HTML landing pages linking per-module report files.
package report

import (
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"

	"github.com/embedx/targetman/internal/errors"
	"github.com/embedx/targetman/internal/log"
)

// DefaultRoot is where the report tree lives relative to the working
// directory, matching the layout the report-producing targets write to.
const DefaultRoot = "../../reports"

const (
	ccmDir        = "CCM"
	ccrDir        = "CCR"
	jsonAllDir    = "JSON_ALL"
	htmlOutDir    = "HTML_OUT"
	indexPage     = "index.html"
	missingPage   = "missing_report.html"
	coveragePage  = "project_coverage.html"
	generatorName = "targetman"
)

// Generator writes the report directory structure and landing pages.
type Generator struct {
	// Root of the report tree; DefaultRoot when empty.
	Root string
	// RunID stamps generated pages for correlation with logs.
	RunID  string
	Logger *log.Logger
}

func (g *Generator) root() string {
	if g.Root != "" {
		return g.Root
	}
	return DefaultRoot
}

func (g *Generator) logger() *log.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return log.Global()
}

// MetricsDir returns the directory holding per-module metric pages.
func (g *Generator) MetricsDir() string {
	return filepath.Join(g.root(), ccmDir)
}

// EnsureDirs creates the report tree and one coverage directory per
// module. Existing directories are left alone.
func (g *Generator) EnsureDirs(moduleNames []string) error {
	dirs := []string{
		g.root(),
		filepath.Join(g.root(), ccmDir),
		filepath.Join(g.root(), ccrDir),
		filepath.Join(g.root(), ccrDir, jsonAllDir),
		filepath.Join(g.root(), ccrDir, jsonAllDir, htmlOutDir),
	}
	for _, name := range moduleNames {
		dirs = append(dirs, filepath.Join(g.root(), ccrDir, name))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeReportDirFailed,
				"failed to create report directory: "+dir, err)
		}
	}

	g.logger().Debug("report directory structure ready", "root", g.root())
	return nil
}

type indexData struct {
	Modules []indexEntry
	Footer  footerData
}

type indexEntry struct {
	Name    string
	Href    string
	Missing bool
}

type footerData struct {
	Generator string
	RunID     string
	Config    string
}

// WriteIndex generates the main landing page. Each module links to its
// own report page when one exists in the metrics directory
// (case-insensitive filename match) and to the missing-report fallback
// otherwise.
func (g *Generator) WriteIndex(moduleNames []string, configLabel string) error {
	dir := g.MetricsDir()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed,
			"failed to read report directory: "+dir, err)
	}

	data := indexData{
		Footer: footerData{Generator: generatorName, RunID: g.RunID, Config: configLabel},
	}
	for _, name := range moduleNames {
		want := strings.ToLower(name + ".html")
		entry := indexEntry{Name: name, Href: missingPage, Missing: true}
		for _, f := range entries {
			if strings.ToLower(f.Name()) == want {
				abs, err := filepath.Abs(filepath.Join(dir, f.Name()))
				if err == nil {
					entry.Href = "file://" + abs
					entry.Missing = false
				}
				break
			}
		}
		if entry.Missing {
			g.logger().Debug("missing report for module", "module", name)
		}
		data.Modules = append(data.Modules, entry)
	}

	return g.renderTo(filepath.Join(dir, indexPage), indexTemplate, data)
}

// WriteMissingPage creates the shared fallback page once; an existing
// page is kept.
func (g *Generator) WriteMissingPage(configLabel string) error {
	path := filepath.Join(g.MetricsDir(), missingPage)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return g.renderTo(path, missingTemplate,
		footerData{Generator: generatorName, RunID: g.RunID, Config: configLabel})
}

func (g *Generator) renderTo(path string, tmpl *template.Template, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to write report page: "+path, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to render report page: "+path, err)
	}

	g.logger().Debug("wrote report page", "path", path)
	return nil
}

// ResolvePages maps reports_to_show entries to concrete files: the
// "ccm" and "ccr" aliases point into the report tree, anything else is
// taken as a literal path and dropped with a log line when absent.
func (g *Generator) ResolvePages(reportsToShow []string) []string {
	var pages []string
	for _, entry := range reportsToShow {
		switch strings.ToLower(entry) {
		case "ccm":
			pages = append(pages, filepath.Join(g.root(), ccmDir, indexPage))
		case "ccr":
			pages = append(pages, filepath.Join(g.root(), ccrDir, jsonAllDir, htmlOutDir, coveragePage))
		default:
			if _, err := os.Stat(entry); err == nil {
				pages = append(pages, entry)
			} else {
				g.logger().Debug("report path not found", "path", entry)
			}
		}
	}
	return pages
}

// OpenPages launches each page in the default browser. Failures are
// logged, never fatal; the run already finished.
func (g *Generator) OpenPages(pages []string) {
	for _, page := range pages {
		abs, err := filepath.Abs(page)
		if err != nil {
			abs = page
		}
		if err := browser.OpenURL("file://" + abs); err != nil {
			g.logger().Debug("failed to open report in browser", "path", page, "error", err)
		}
	}
}
