package component

import (
	"strconv"
	"strings"

	"github.com/zbysir/gomodul/pkg/controller"
	"github.com/zbysir/gomodul/pkg/fetch"
	"github.com/zbysir/gomodul/pkg/vdom"
)

func renderCode(rc *RenderContext, p Payload) *vdom.Node {
	c := p.(*Code)
	tone := rc.Tone(c.Theme)
	asset := rc.Asset(c)
	rc.Widget().Asset = asset
	full := rc.fullscreen()

	tools := vdom.El("div").Class("flex items-center gap-1")
	if c.Downloadable {
		dl := action(rc, "download", icon("download")).Class("btn btn-ghost btn-xs").Set("title", "Download")
		if plan := controller.PlanDownload(c.FilePath, "", c.Language); plan.Native {
			dl.Data("href", plan.Href).Data("fileName", plan.FileName)
		} else {
			dl.Data("fileName", plan.FileName)
		}
		tools.Append(dl)
	}
	fsTitle, fsIcon := "Fullscreen", "expand"
	if full {
		fsTitle, fsIcon = "Exit Fullscreen", "compress"
	}
	tools.Append(
		action(rc, "copy", icon("copy")).Class("btn btn-ghost btn-xs").Set("title", "Copy"),
		action(rc, "toggle-fullscreen", icon(fsIcon)).
			Class("btn btn-ghost btn-xs").
			Set("title", fsTitle).
			Set("aria-pressed", strconv.FormatBool(full)),
	)

	toolbar := vdom.El("div",
		vdom.El("div",
			vdom.El("span", vdom.Text(fetch.FileName(c.FilePath))).Class("kbd kbd-sm"),
			vdom.El("span", vdom.Text(c.Language)).Class("badge badge-ghost badge-sm"),
		).Class("flex items-center gap-2 text-sm opacity-70"),
		tools,
	).Class("border-base-300 flex items-center justify-between border-b px-3 py-2")

	head := vdom.El("div",
		vdom.El("div",
			vdom.El("h3", vdom.Text(c.Label())).Class("card-title"),
			textIf("p", c.Description, "text-sm opacity-70"),
		),
		shareIf(rc, c),
	).Class("flex items-center justify-between")

	body := vdom.Dynamic(func() *vdom.Node {
		return codeBody(c, asset, tone)
	})

	return vdom.El("div",
		vdom.El("div",
			head,
			vdom.El("div", toolbar, body).Class("bg-base-200 rounded-box"),
		).Class("card-body gap-2"),
	).
		Class("card bg-base-100 border-base-300 mb-8 overflow-hidden border shadow").
		ClassIf(full, "fixed inset-0 z-50 overflow-auto")
}

// codeBody renders the loading affordance until the asset is done.
func codeBody(c *Code, a *CodeAsset, tone string) *vdom.Node {
	if a.State() != AssetDone {
		return vdom.El("div",
			vdom.El("span").Class("loading loading-spinner loading-sm text-"+tone),
			vdom.El("span", vdom.Text("Loading code...")).Class("text-sm opacity-70"),
		).Class("code-loading flex items-center gap-2 px-4 py-3")
	}

	marked := make(map[int]bool, len(c.HighlightLines))
	for _, n := range c.HighlightLines {
		marked[n] = true
	}
	code := vdom.El("code").Class("language-"+c.Language, "block p-4")
	code.ClassIf(c.ShowLineNumbers, "line-numbers")
	for i, line := range a.Lines() {
		if i > 0 {
			code.Append(vdom.Text("\n"))
		}
		code.Append(vdom.El("span", vdom.Raw(line)).
			Class("code-line").
			ClassIf(marked[i+1], "highlighted").
			Data("lineNumber", strconv.Itoa(i+1)))
	}

	out := vdom.Fragment(
		vdom.El("div", vdom.El("pre", code).Class("mockup-code !bg-base-200 !p-0")).
			Class("code-body overflow-x-auto").
			ClassIf(a.Placeholder(), "code-error"),
	)
	if c.ShowPreview && strings.EqualFold(c.Language, "html") && !a.Placeholder() {
		out.Append(vdom.El("iframe").
			Class("code-preview rounded-b-box h-64 w-full bg-white").
			Set("title", "Preview").
			Set("sandbox", "").
			Set("srcdoc", a.Content()))
	}
	return out
}

func renderCommand(rc *RenderContext, p Payload) *vdom.Node {
	c := p.(*Command)
	tone := rc.Tone(c.Theme)
	prompt := c.Prompt()

	all := make([]string, 0, len(c.Commands))
	lines := vdom.El("div").Class("p-3")
	for _, cmd := range c.Commands {
		if cmd.Command != "" {
			all = append(all, cmd.Command)
		}
		item := vdom.El("div",
			vdom.El("div",
				vdom.El("span", vdom.Text(prompt)).Class("opacity-50"),
				vdom.El("span", vdom.Text(cmd.Command)),
				action(rc, "copy", icon("copy")).
					Class("btn btn-ghost btn-xs opacity-0 group-hover:opacity-100").
					Data("copy", cmd.Command).
					Set("title", "Copy"),
			).Class("flex items-center gap-2 font-mono text-sm"),
			textIf("pre", cmd.Output, "mt-1 ml-6 text-xs whitespace-pre-wrap opacity-80"),
		).Class("group mb-2")
		if cmd.Comment != "" {
			item.Append(vdom.El("div", vdom.Text("# "+cmd.Comment)).Class("mt-1 ml-6 text-xs opacity-60"))
		}
		lines.Append(item)
	}
	rc.Widget().Copy = strings.Join(all, "\n")

	n := vdom.El("section").Class("mb-8 scroll-mt-20")
	if c.Title != "" {
		n.Append(titleRow(rc, c, "h3", "text-xl font-semibold text-"+tone))
	}
	return n.Append(
		textIf("p", c.Description, "mb-3 opacity-80"),
		vdom.El("div",
			vdom.El("div",
				vdom.El("span", vdom.Text(c.Type)).Class("text-xs uppercase opacity-70"),
				action(rc, "copy", icon("copy")).Class("btn btn-ghost btn-xs").Set("title", "Copy all"),
			).Class("border-base-300 flex items-center justify-between border-b px-3 py-2"),
			vdom.El("div", lines).Class("mockup-code"),
		).Class("card bg-base-100 border-base-300 border shadow"),
	)
}
