package page

import (
	"errors"

	"github.com/zbysir/gomodul/pkg/vdom"
)

const FailedMessage = "Failed to load module"

// ErrorView renders the page-level error state in place of the components.
func ErrorView(err error) *vdom.Node {
	reason := err.Error()
	var de *DocumentError
	if errors.As(err, &de) && de.Err != nil {
		reason = de.Err.Error()
	}
	return vdom.El("div",
		vdom.El("div",
			vdom.El("i").Class("fas fa-times-circle").Set("aria-hidden", "true"),
			vdom.El("div",
				vdom.El("h3", vdom.Text(FailedMessage)).Class("font-bold"),
				vdom.El("div", vdom.Text(reason)).Class("text-sm"),
			),
		).Class("alert alert-error").Set("role", "alert"),
	).ID(RootID).Class("module-content")
}
