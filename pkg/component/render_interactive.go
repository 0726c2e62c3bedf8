package component

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zbysir/gomodul/pkg/controller"
	"github.com/zbysir/gomodul/pkg/vdom"
)

var alertIcons = map[string]string{
	"info":    "info-circle",
	"success": "check-circle",
	"warning": "exclamation-triangle",
	"error":   "times-circle",
	"neutral": "bell",
}

func alertClass(t string) string {
	switch t {
	case "info", "success", "warning", "error":
		return "alert alert-" + t
	}
	return "alert"
}

func alertIcon(t, override string) *vdom.Node {
	name := strings.TrimPrefix(override, "fa-")
	if name == "" {
		name = alertIcons[t]
	}
	if name == "" {
		name = alertIcons["info"]
	}
	return icon(name).Class("shrink-0 text-xl")
}

// dismissed renders the placeholder left by a dismissed alert.
func dismissed() *vdom.Node {
	return vdom.El("div").Class("alert-dismissed").Flag("hidden", true)
}

func alertActions(rc *RenderContext, p Payload, dismissible bool) *vdom.Node {
	if !p.Shared() && !dismissible {
		return nil
	}
	n := vdom.El("div", shareIf(rc, p)).Class("flex flex-col gap-1")
	if dismissible {
		n.Append(action(rc, "dismiss-alert", icon("times")).
			Class("btn btn-ghost btn-sm btn-square").
			Set("aria-label", "Dismiss alert").
			Set("title", "Dismiss"))
	}
	return n
}

func renderAlert(rc *RenderContext, p Payload) *vdom.Node {
	a := p.(*Alert)
	rc.Widget().Dismissible = a.Dismissible
	if a.Dismissible && !rc.alertVisible() {
		return dismissed()
	}
	return vdom.El("div",
		alertIcon(a.Type, ""),
		vdom.El("div",
			textIf("h3", a.Title, "font-bold"),
			vdom.El("div", rc.HTML(a.Content)).Class("max-w-none"),
		).Class("flex-1"),
		alertActions(rc, a, a.Dismissible),
	).Set("role", "alert").Class(alertClass(a.Type), "mb-6")
}

func renderInformation(rc *RenderContext, p Payload) *vdom.Node {
	in := p.(*Information)
	rc.Widget().Dismissible = in.Dismissible
	if in.Dismissible && !rc.alertVisible() {
		return dismissed()
	}
	body := vdom.El("div",
		vdom.El("h3", vdom.Text(in.Title)).Class("text-lg font-bold"),
	).Class("flex-1")
	if in.Content != "" {
		body.Append(vdom.El("div", vdom.El("div", rc.HTML(in.Content)).Class("max-w-none")).Class("mt-2"))
	}
	if in.Link != nil {
		body.Append(vdom.El("div", link(in.Link, "link link-primary inline-flex items-center gap-1 font-medium")).Class("mt-2"))
	}
	body.Append(textIf("div", in.Footer, "mt-2 text-sm opacity-75"))

	return vdom.El("div",
		alertIcon(in.Type, in.Icon),
		body,
		alertActions(rc, in, in.Dismissible),
	).Set("role", "alert").Class(alertClass(in.Type), "mb-6")
}

func renderInfo(rc *RenderContext, p Payload) *vdom.Node {
	in := p.(*Info)
	n := vdom.El("div",
		vdom.El("div",
			vdom.El("span", vdom.Text(in.Title)).Class("font-semibold"),
			vdom.El("div", rc.HTML(in.Content)).Class("prose mt-1 max-w-none"),
		),
	).Class("alert alert-"+rc.Tone(in.Type), "mb-6")
	if in.Shared() {
		n.Append(vdom.El("div", shareButton(rc, in.Title)))
	}
	return n
}

// initialOpen mirrors controller.NewAccordion: without allowMultiple only
// the first default-open item opens.
func initialOpen(a *Accordion) map[int]bool {
	open := map[int]bool{}
	for _, i := range a.DefaultOpen() {
		open[i] = true
		if !a.AllowMultiple {
			break
		}
	}
	return open
}

func renderAccordion(rc *RenderContext, p Payload) *vdom.Node {
	a := p.(*Accordion)
	rc.Widget().Accordion = a
	tone := rc.Tone(a.Theme)
	defaults := initialOpen(a)

	group := vdom.El("div").
		Class("accordion-group space-y-2").
		Data("allowMultiple", strconv.FormatBool(a.AllowMultiple))
	for i, it := range a.Items {
		open := rc.expanded(i, defaults[i])
		panelID := fmt.Sprintf("%s-panel-%d", rc.AnchorID, i)
		chevron := "chevron-down"
		if open {
			chevron = "chevron-up"
		}
		group.Append(vdom.El("div",
			action(rc, "toggle-accordion",
				vdom.El("span", vdom.Text(it.Title)),
				icon(chevron),
			).
				Class("collapse-title flex w-full items-center justify-between text-left font-medium").
				Data("index", strconv.Itoa(i)).
				Set("aria-expanded", strconv.FormatBool(open)).
				Set("aria-controls", panelID),
			vdom.El("div",
				vdom.El("div", rc.HTML(it.Content)).Class("prose prose-sm dark:prose-invert max-w-none"),
			).ID(panelID).Class("collapse-content").Flag("hidden", !open),
		).
			Class("accordion-item collapse border-base-300 border").
			ClassIf(open, "collapse-open"))
	}

	n := vdom.El("section").Class("mb-8 scroll-mt-20")
	if a.Title != "" {
		n.Append(titleRow(rc, a, "h2", "text-2xl font-bold text-"+tone))
	}
	return n.Append(group)
}

func renderQuiz(rc *RenderContext, p Payload) *vdom.Node {
	q := p.(*Quiz)
	rc.Widget().Quiz = q
	tone := rc.Tone(q.Theme)
	rate, submitted := rc.quizResult()

	form := vdom.El("div").Class("quiz-questions space-y-4")
	for i, qu := range q.Questions {
		name := fmt.Sprintf("%s-q%d", rc.AnchorID, i)
		answer := rc.quizAnswer(i)
		fs := vdom.El("fieldset",
			vdom.El("legend", vdom.Textf("%d. %s", i+1, qu.Question)).Class("mb-2 font-medium"),
		).
			Class("quiz-question").
			Data("index", strconv.Itoa(i)).
			Data("questionType", string(qu.Type))

		if qu.Type == QuestionChoice {
			for _, opt := range qu.Options {
				in := vdom.El("input").
					Class("radio radio-"+tone).
					Set("type", "radio").
					Set("name", name).
					Set("value", opt).
					Data("action", "answer-quiz").
					Data("target", rc.AnchorID).
					Data("index", strconv.Itoa(i)).
					Flag("checked", answer == opt).
					Flag("disabled", submitted)
				fs.Append(vdom.El("label", in, vdom.El("span", vdom.Text(opt))).
					Class("label cursor-pointer justify-start gap-3"))
			}
		} else {
			fs.Append(vdom.El("textarea", vdom.Text(answer)).
				Class("textarea textarea-bordered w-full").
				Set("name", name).
				Set("placeholder", "Tulis jawaban Anda di sini...").
				Data("action", "answer-quiz").
				Data("target", rc.AnchorID).
				Data("index", strconv.Itoa(i)).
				Flag("disabled", submitted))
		}
		form.Append(fs)
	}

	result := vdom.El("div").Class("quiz-result mt-4").Set("aria-live", "polite")
	if submitted {
		r := controller.QuizResult{CompletionRate: rate}
		result.Append(vdom.El("div", vdom.Text(r.String())).Class("alert alert-success"))
	}

	n := vdom.El("section").Class("mb-8 scroll-mt-20")
	if q.Title != "" {
		n.Append(titleRow(rc, q, "h3", "text-xl font-semibold text-"+tone))
	}
	return n.Append(
		vdom.El("div",
			vdom.El("div",
				form,
				vdom.El("div",
					action(rc, "submit-quiz", vdom.Text("Submit")).
						Class("btn btn-"+tone).
						Flag("disabled", submitted),
				).Class("card-actions mt-4 justify-end"),
				result,
			).Class("card-body"),
		).Class("card bg-base-100 border-base-300 border shadow"),
	)
}
