package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/zbysir/gomodul"
	"github.com/zbysir/gomodul/internal/logger"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	okStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	failStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			PaddingLeft(6)

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Margin(1, 0, 0, 0)
)

func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Validate every document under a directory",
		ArgsUsage: "<dir>",
		Action: func(ctx context.Context, c *cli.Command) error {
			dir := c.Args().First()
			if dir == "" {
				dir = "."
			}
			fsys := os.DirFS(dir)
			engine := gomodul.New(gomodul.WithFS(fsys), gomodul.WithLogger(logger.Nop()))

			reports, err := checkFS(ctx, engine, fsys)
			if err != nil {
				return err
			}
			fmt.Println(formatReport(dir, reports))
			if failed(reports) > 0 {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

// Report is the outcome of checking one document.
type Report struct {
	Path string
	// Err is a document-level failure.
	Err error
	// Problems are component errors and code files that failed to load.
	Problems []string
}

func checkFS(ctx context.Context, e *gomodul.Engine, fsys fs.FS) ([]Report, error) {
	var reports []Report
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules" {
				return fs.SkipDir
			}
			return nil
		}
		if !gomodul.IsDocument(p) {
			return nil
		}
		reports = append(reports, checkFile(ctx, e, fsys, p))
		return nil
	})
	return reports, err
}

func checkFile(ctx context.Context, e *gomodul.Engine, fsys fs.FS, p string) Report {
	r := Report{Path: p}
	pg, err := e.RenderFile(ctx, fsys, p)
	if pg == nil {
		r.Err = err
		return r
	}
	for _, ce := range pg.Errors() {
		r.Problems = append(r.Problems, ce.Error())
	}
	for _, w := range pg.Widgets() {
		if w.Asset != nil && w.Asset.Placeholder() {
			r.Problems = append(r.Problems, fmt.Sprintf("%s: could not load %s", w.ID, w.Asset.FilePath))
		}
	}
	return r
}

func failed(rs []Report) int {
	n := 0
	for _, r := range rs {
		if r.Err != nil {
			n++
		}
	}
	return n
}

func formatReport(dir string, rs []Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("gomodul check " + dir))
	b.WriteString("\n")

	warned := 0
	for _, r := range rs {
		switch {
		case r.Err != nil:
			b.WriteString(failStyle.Render("FAIL") + "  " + r.Path + "\n")
			b.WriteString(detailStyle.Render(r.Err.Error()) + "\n")
		case len(r.Problems) != 0:
			warned++
			b.WriteString(warnStyle.Render("WARN") + "  " + r.Path + "\n")
			for _, p := range r.Problems {
				b.WriteString(detailStyle.Render(p) + "\n")
			}
		default:
			b.WriteString(okStyle.Render("OK") + "    " + r.Path + "\n")
		}
	}
	b.WriteString(summaryStyle.Render(fmt.Sprintf("%d documents, %d failed, %d with warnings", len(rs), failed(rs), warned)))
	return b.String()
}
