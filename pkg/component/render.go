package component

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/zbysir/gomodul/pkg/sanitize"
	"github.com/zbysir/gomodul/pkg/vdom"
)

func icon(name string) *vdom.Node {
	return vdom.El("i").Class("fas fa-"+name).Set("aria-hidden", "true")
}

// action marks a button as triggering a client action on the component.
func action(rc *RenderContext, name string, children ...*vdom.Node) *vdom.Node {
	return vdom.El("button", children...).
		Set("type", "button").
		Data("action", name).
		Data("target", rc.AnchorID)
}

func shareButton(rc *RenderContext, title string) *vdom.Node {
	return action(rc, "share", icon("share-alt")).
		Class("btn btn-ghost btn-sm share-btn").
		Data("title", title).
		Set("aria-label", "Share section")
}

func shareIf(rc *RenderContext, p Payload) *vdom.Node {
	if !p.Shared() {
		return nil
	}
	return shareButton(rc, p.Label())
}

// titleRow is a heading with the share button aligned right.
func titleRow(rc *RenderContext, p Payload, tag, class string) *vdom.Node {
	return vdom.El("div",
		vdom.El(tag, vdom.Text(p.Label())).Class(class),
		shareIf(rc, p),
	).Class("mb-2 flex items-center justify-between")
}

func textIf(tag, s, class string) *vdom.Node {
	if s == "" {
		return nil
	}
	return vdom.El(tag, vdom.Text(s)).Class(class)
}

func link(l *Link, class string) *vdom.Node {
	a := vdom.El("a", vdom.Text(l.Text)).Class(class).Set("href", sanitize.URL(l.URL))
	if l.External {
		a.Set("target", "_blank").Set("rel", "noopener noreferrer").Append(icon("external-link-alt"))
	}
	return a
}

func buttons(rc *RenderContext, bs []Button, tone string) *vdom.Node {
	if len(bs) == 0 {
		return nil
	}
	row := vdom.El("div").Class("flex flex-wrap gap-2")
	for _, b := range bs {
		a := vdom.El("a").Class("btn").Set("href", sanitize.URL(b.URL))
		if b.Primary {
			a.Class("btn-" + tone)
		} else {
			a.Class("btn-outline")
		}
		if b.Icon != "" {
			a.Append(icon(strings.TrimPrefix(b.Icon, "fa-")))
		}
		row.Append(a.Append(vdom.Text(b.Text)))
	}
	return row
}

func renderHero(rc *RenderContext, p Payload) *vdom.Node {
	h := p.(*Hero)
	tone := rc.Tone(h.Theme)
	body := vdom.El("div",
		vdom.El("h1", vdom.Text(h.Title)).Class("text-4xl font-bold md:text-5xl"),
		textIf("p", h.Subtitle, "mt-2 text-xl text-"+tone),
		textIf("p", h.Description, "py-6 opacity-80"),
		buttons(rc, h.Buttons, tone),
		shareIf(rc, h),
	).Class("max-w-3xl")

	n := vdom.El("section", vdom.El("div", body).Class("hero-content text-center")).
		Class("hero bg-base-200 rounded-box mb-8")
	if src := sanitize.ImageURL(h.BackgroundImage); src != "" {
		n.Style("backgroundImage", `url("`+strings.ReplaceAll(src, `"`, "%22")+`")`).Class("bg-cover bg-center")
	}
	return n
}

var (
	textAlign = map[string]string{"left": "text-left", "center": "text-center", "right": "text-right", "justify": "text-justify"}
	textSize  = map[string]string{"sm": "prose-sm", "base": "prose-base", "lg": "prose-lg", "xl": "prose-xl"}
)

func renderText(rc *RenderContext, p Payload) *vdom.Node {
	t := p.(*Text)
	var body *vdom.Node
	if t.IsHTML() {
		body = rc.HTML(t.Content)
	} else {
		body = rc.Markdown(t.Content)
	}
	n := vdom.El("section")
	if t.Title != "" {
		n.Append(titleRow(rc, t, "h3", "text-xl font-semibold text-"+rc.Tone(t.Theme)))
	} else {
		n.Append(shareIf(rc, t))
	}
	return n.Append(vdom.El("div", body).Class("prose max-w-none", textAlign[t.Align], textSize[t.Size])).
		Class("mb-8 scroll-mt-20")
}

// embedPadding maps aspect ratios to the padding-top of the embed box.
var embedPadding = map[string]string{"16:9": "56.25%", "4:3": "75%", "1:1": "100%", "21:9": "42.86%"}

func renderVideo(rc *RenderContext, p Payload) *vdom.Node {
	v := p.(*Video)
	pad, ok := embedPadding[v.AspectRatio]
	if !ok {
		pad = embedPadding["16:9"]
	}
	frame := vdom.El("iframe").
		Class("absolute inset-0 h-full w-full").
		Set("src", "https://www.youtube.com/embed/"+url.PathEscape(v.VideoID)+"?rel=0&modestbranding=1").
		Set("title", v.Label()).
		Set("allow", "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture").
		Set("loading", "lazy").
		Flag("allowfullscreen", true)

	n := vdom.El("section").Class("mb-8 scroll-mt-20")
	if v.Title != "" {
		n.Append(titleRow(rc, v, "h3", "text-xl font-semibold text-"+rc.Tone(v.Theme)))
	} else {
		n.Append(shareIf(rc, v))
	}
	return n.Append(
		textIf("p", v.Description, "mb-3 opacity-80"),
		vdom.El("div", frame).
			Class("rounded-box relative w-full overflow-hidden shadow").
			Style("paddingTop", pad),
	)
}

var (
	imageWidth = map[string]string{"full": "w-full", "half": "w-1/2", "third": "w-1/3"}
	imageAlign = map[string]string{"center": "mx-auto", "right": "ml-auto", "left": "mr-auto"}
)

func renderImage(rc *RenderContext, p Payload) *vdom.Node {
	im := p.(*Image)
	width, ok := imageWidth[im.Width]
	if !ok {
		width = "w-full"
	}
	img := vdom.El("img").
		Class("rounded-box", width, imageAlign[im.Align], "block").
		Set("src", sanitize.ImageURL(im.Src)).
		Set("alt", im.Alt).
		Set("loading", "lazy")
	fig := vdom.El("figure", img).Class("mb-8")
	if im.Caption != "" {
		fig.Append(vdom.El("figcaption", vdom.Text(im.Caption)).Class("mt-2 text-center text-sm opacity-70"))
	}
	if im.Shared() {
		fig.Append(vdom.El("div", shareButton(rc, im.Label())).Class("flex justify-end"))
	}
	return fig
}

func renderList(rc *RenderContext, p Payload) *vdom.Node {
	l := p.(*List)
	tag, class := "ul", "list-disc"
	if l.Ordered() {
		tag, class = "ol", "list-decimal"
	}
	list := vdom.El(tag).Class(class, "space-y-1 pl-6")
	for _, it := range l.Items {
		list.Append(vdom.El("li", rc.HTML(it)))
	}
	n := vdom.El("section").Class("mb-8")
	if l.Title != "" {
		n.Append(titleRow(rc, l, "h3", "text-lg font-semibold"))
	}
	return n.Append(list)
}

func renderTable(rc *RenderContext, p Payload) *vdom.Node {
	t := p.(*Table)
	head := vdom.El("tr")
	for _, h := range t.Headers {
		head.Append(vdom.El("th", vdom.Text(h)))
	}
	body := vdom.El("tbody")
	for _, row := range t.Rows {
		tr := vdom.El("tr")
		for _, c := range row {
			tr.Append(vdom.El("td", rc.HTML(string(c))))
		}
		body.Append(tr)
	}
	table := vdom.El("table", vdom.El("thead", head), body).Class("table table-zebra w-full")

	wrapper := vdom.El("div", table).Class("rounded-box border-base-300 border")
	wrapper.ClassIf(t.Responsive, "overflow-x-auto")

	n := vdom.El("section").Class("mb-8 scroll-mt-20")
	if t.Title != "" {
		n.Append(titleRow(rc, t, "h3", "text-xl font-semibold text-"+rc.Tone(t.Theme)))
	}
	return n.Append(wrapper)
}

var cardColumns = map[int]string{1: "md:grid-cols-1", 2: "md:grid-cols-2", 3: "md:grid-cols-3"}

func renderCard(rc *RenderContext, p Payload) *vdom.Node {
	c := p.(*Card)
	tone := rc.Tone(c.Theme)
	grid := vdom.El("div").Class("grid grid-cols-1 gap-4", cardColumns[c.Columns])
	for _, it := range c.Cards {
		card := vdom.El("div").Class("card bg-base-100 border-base-300 border shadow")
		if src := sanitize.ImageURL(it.Image); src != "" {
			card.Append(vdom.El("figure", vdom.El("img").Set("src", src).Set("alt", it.Title).Set("loading", "lazy")))
		}
		card.Append(vdom.El("div",
			vdom.El("h4", vdom.Text(it.Title)).Class("card-title"),
			textIf("p", it.Description, "opacity-80"),
			wrapActions(buttons(rc, it.Buttons, tone)),
		).Class("card-body"))
		grid.Append(card)
	}
	n := vdom.El("section").Class("mb-8 scroll-mt-20")
	if c.Title != "" {
		n.Append(titleRow(rc, c, "h3", "text-xl font-semibold text-"+tone))
	}
	return n.Append(grid)
}

func wrapActions(n *vdom.Node) *vdom.Node {
	if n == nil {
		return nil
	}
	return vdom.El("div", n).Class("card-actions justify-end")
}

func renderTimeline(rc *RenderContext, p Payload) *vdom.Node {
	t := p.(*Timeline)
	tone := rc.Tone(t.Theme)
	ol := vdom.El("ol").Class("timeline timeline-vertical timeline-compact")
	for i, it := range t.Items {
		box := vdom.El("div",
			vdom.El("h4", vdom.Text(it.Title)).Class("font-semibold"),
			textIf("p", it.Subtitle, "text-sm opacity-70"),
			textIf("p", it.Description, "mt-1"),
		).Class("timeline-end timeline-box")
		if it.Link != nil {
			box.Append(vdom.El("div", link(it.Link, "link link-"+tone)).Class("mt-2"))
		}
		li := vdom.El("li").Data("index", strconv.Itoa(i))
		if i > 0 {
			li.Append(vdom.El("hr"))
		}
		li.Append(
			vdom.El("div", vdom.Text(strconv.Itoa(i+1))).Class("timeline-middle badge badge-"+tone),
			box,
		)
		if i < len(t.Items)-1 {
			li.Append(vdom.El("hr"))
		}
		ol.Append(li)
	}
	n := vdom.El("section").Class("mb-8 scroll-mt-20")
	if t.Title != "" {
		n.Append(titleRow(rc, t, "h3", "text-xl font-semibold text-"+tone))
	}
	return n.Append(ol)
}

func renderDownload(rc *RenderContext, p Payload) *vdom.Node {
	d := p.(*Download)
	list := vdom.El("ul").Class("menu bg-base-200 rounded-box w-full")
	for _, f := range d.Files {
		kind := f.Type
		if kind == "" {
			kind = "code"
		}
		a := vdom.El("a",
			icon("file-"+kind),
			vdom.El("span", vdom.Text(f.Name)).Class("font-medium"),
			textIf("span", f.Size, "badge badge-ghost badge-sm"),
		).
			Set("href", sanitize.URL(f.URL)).
			Set("download", f.Name).
			Data("action", "download")
		li := vdom.El("li", a)
		if f.Description != "" {
			li.Append(vdom.El("p", vdom.Text(f.Description)).Class("px-4 pb-2 text-sm opacity-70"))
		}
		list.Append(li)
	}
	n := vdom.El("section").Class("mb-8 scroll-mt-20")
	if d.Title != "" {
		n.Append(titleRow(rc, d, "h3", "text-xl font-semibold text-"+rc.Tone(d.Theme)))
	}
	return n.Append(textIf("p", d.Description, "mb-3 opacity-80"), list)
}

func renderCompletion(rc *RenderContext, p Payload) *vdom.Node {
	c := p.(*Completion)
	tone := rc.Tone(c.Theme)
	body := vdom.El("div",
		vdom.El("div", icon("check-circle")).Class("text-5xl text-"+tone),
		vdom.El("h2", vdom.Text(c.Title)).Class("card-title text-2xl"),
		textIf("p", c.Message, "opacity-80"),
	).Class("card-body items-center text-center")
	if len(c.Checklist) != 0 {
		ul := vdom.El("ul").Class("space-y-1 text-left")
		for _, it := range c.Checklist {
			ul.Append(vdom.El("li", icon("check").Class("text-success mr-2"), vdom.Text(it)))
		}
		body.Append(ul)
	}
	if c.Next != nil {
		body.Append(vdom.El("div", link(c.Next, "btn btn-"+tone)).Class("card-actions mt-4"))
	}
	body.Append(shareIf(rc, c))
	return vdom.El("section", body).Class("card bg-base-200 mb-8")
}

var headingClass = map[string]string{
	"h1": "text-3xl md:text-4xl font-bold",
	"h2": "text-2xl md:text-3xl font-bold",
	"h3": "text-xl md:text-2xl font-semibold",
	"h4": "text-lg font-semibold",
	"h5": "text-base font-semibold",
	"h6": "text-sm font-semibold",
}

func renderMaterial(rc *RenderContext, p Payload) *vdom.Node {
	m := p.(*Material)
	tone := rc.Tone(m.Theme)
	n := vdom.El("section",
		vdom.El("div",
			vdom.El(m.Level, vdom.Text(m.Title)).Class(headingClass[m.Level], "text-"+tone),
			shareIf(rc, m),
		).Class("mb-3 flex items-center justify-between"),
	).Class("mb-8 scroll-mt-20")
	if m.Content != "" {
		n.Append(vdom.El("div", rc.HTML(m.Content)).Class("prose prose-lg dark:prose-invert max-w-none"))
	}
	return n
}

func renderModuleHeader(rc *RenderContext, p Payload) *vdom.Node {
	h := p.(*ModuleHeader)
	body := vdom.El("div").Class("max-w-3xl")
	if h.ModuleName != "" {
		body.Append(vdom.El("div", vdom.Text(h.ModuleName)).Class("badge badge-lg mb-4", "badge-"+rc.Tone(h.Theme)))
	}
	body.Append(
		vdom.El("h1", vdom.Text(h.Title)).Class("text-4xl font-bold md:text-5xl"),
		textIf("p", h.Description, "mt-4 text-lg opacity-80"),
	)
	return vdom.El("section", vdom.El("div", body).Class("hero-content text-center")).
		Class("hero bg-base-200 rounded-box mb-8")
}
