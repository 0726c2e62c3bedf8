package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/zbysir/gomodul"
	"github.com/zbysir/gomodul/internal/assets"
	"github.com/zbysir/gomodul/internal/logger"
	"github.com/zbysir/gomodul/pkg/page"
	"github.com/zbysir/gomodul/pkg/vdom"
)

func RenderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render a JSON or MDX document to a standalone html file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output file, stdout when empty",
			},
			&cli.StringFlag{
				Name:  "theme",
				Usage: "Value of the html data-theme attribute",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			file := c.Args().First()
			if file == "" {
				return cli.Exit("render: missing <file>", 2)
			}
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			engine, release, err := newEngine(cfg, logger.Nop())
			if err != nil {
				return err
			}
			defer release()

			html, err := renderStandalone(ctx, engine, file, c.String("theme"))
			if err != nil {
				return err
			}
			if out := c.String("out"); out != "" {
				return os.WriteFile(out, []byte(html), 0644)
			}
			_, err = fmt.Fprint(os.Stdout, html)
			return err
		},
	}
}

// renderStandalone renders file into an html document with the runtime inlined.
// A document that fails to load still produces a page showing the error.
func renderStandalone(ctx context.Context, e *gomodul.Engine, file, theme string) (string, error) {
	js, err := assets.Get("runtime.js")
	if err != nil {
		return "", err
	}
	css, err := assets.Get("style.css")
	if err != nil {
		return "", err
	}
	sh := gomodul.Shell{Theme: theme, Inline: true, Script: string(js.Body), Style: string(css.Body)}

	p, err := e.RenderFile(ctx, os.DirFS(filepath.Dir(file)), filepath.Base(file))
	if p == nil {
		sh.Title = page.FailedMessage
		return sh.Document(page.ErrorView(err)), nil
	}
	sh.Title, sh.Description = p.Title, p.Description
	return sh.Document(vdom.Raw(p.HTML())), nil
}
