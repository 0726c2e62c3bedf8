package server

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/zbysir/gomodul"
	"github.com/zbysir/gomodul/internal/assets"
	"github.com/zbysir/gomodul/internal/content"
	"github.com/zbysir/gomodul/pkg/controller"
	"github.com/zbysir/gomodul/pkg/page"
	"github.com/zbysir/gomodul/pkg/vdom"
)

const themeCookie = "theme"

func (s *Server) shell(c *gin.Context, title, description string) gomodul.Shell {
	theme, _ := c.Cookie(themeCookie)
	if title == "" {
		title = s.cfg.Title
	}
	if description == "" {
		description = s.cfg.Description
	}
	return gomodul.Shell{
		Title:       title,
		Description: description,
		Theme:       theme,
		LiveReload:  s.cfg.Server.LiveReload,
	}
}

func (s *Server) html(c *gin.Context, status int, sh gomodul.Shell, body *vdom.Node) {
	c.Data(status, "text/html; charset=utf-8", []byte(sh.Document(body)))
}

func (s *Server) showModule(c *gin.Context) {
	doc, err := s.store.Module(c.Param("id"))
	s.showDocument(c, doc, err)
}

func (s *Server) showPost(c *gin.Context) {
	doc, err := s.store.Post(c.Param("slug"))
	s.showDocument(c, doc, err)
}

// showDocument renders doc into a new session. A document that cannot be
// loaded renders the page-level error state instead.
func (s *Server) showDocument(c *gin.Context, doc *page.Document, err error) {
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, content.ErrNotFound) {
			status = http.StatusNotFound
		}
		s.log.Warn("load document", "path", c.Request.URL.Path, "error", err)
		s.html(c, status, s.shell(c, page.FailedMessage, ""), page.ErrorView(err))
		return
	}

	ctx := c.Request.Context()
	p, err := s.engine.Render(ctx, doc)
	if err != nil {
		// Assets that did not finish render their own error state.
		s.log.Warn("load assets", "path", c.Request.URL.Path, "error", err)
	}
	for _, e := range p.Errors() {
		s.log.Warn("component", "path", c.Request.URL.Path, "error", e)
	}

	sess := s.engine.NewSession(p, c.Request.URL)
	s.sessions.Add(sess.ID, sess)
	p.NavigateToSection(c.Request.URL, timeNow())

	sh := s.shell(c, p.Title, p.Description)
	sh.SessionID = sess.ID
	s.html(c, http.StatusOK, sh, vdom.Raw(p.HTML()))
}

func (s *Server) applyAction(c *gin.Context) {
	sess, ok := s.sessions.Get(c.Param("sid"))
	if !ok {
		RespondError(c, http.StatusNotFound, "session_not_found", errors.New("session not found"))
		return
	}
	var a page.Action
	if err := c.ShouldBindJSON(&a); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_action", err)
		return
	}
	res, err := sess.Apply(c.Request.Context(), a)
	switch {
	case err == nil:
		RespondOK(c, res)
	case errors.Is(err, page.ErrUnknownAction):
		RespondError(c, http.StatusBadRequest, "unknown_action", err)
	case errors.Is(err, controller.ErrNoSuchItem):
		RespondError(c, http.StatusNotFound, "no_such_item", err)
	case errors.Is(err, controller.ErrSubmitted):
		RespondError(c, http.StatusConflict, "quiz_submitted", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}

func (s *Server) listModules(c *gin.Context) {
	es, err := s.store.Modules()
	if err != nil {
		s.html(c, http.StatusInternalServerError, s.shell(c, "", ""), page.ErrorView(err))
		return
	}
	s.html(c, http.StatusOK, s.shell(c, "", ""), entryList(s.cfg.Title, "/modul/", es))
}

func (s *Server) listPosts(c *gin.Context) {
	es, err := s.store.Posts()
	if err != nil {
		s.html(c, http.StatusInternalServerError, s.shell(c, "Blog", ""), page.ErrorView(err))
		return
	}
	s.html(c, http.StatusOK, s.shell(c, "Blog", ""), entryList("Blog", "/blog/", es))
}

func entryList(title, prefix string, es []content.Entry) *vdom.Node {
	list := vdom.El("ul").Class("space-y-4")
	for _, e := range es {
		item := vdom.El("li",
			vdom.El("a", vdom.Text(e.Title)).Set("href", prefix+url.PathEscape(e.ID)).Class("link link-hover text-xl font-semibold"),
		).Class("card bg-base-100 shadow p-4")
		if !e.Date.IsZero() {
			item.Append(vdom.El("time", vdom.Text(e.Date.Format("2 January 2006"))).
				Set("datetime", e.Date.Format("2006-01-02")).Class("text-sm opacity-70 block"))
		}
		if e.Description != "" {
			item.Append(vdom.El("p", vdom.Text(e.Description)).Class("opacity-80"))
		}
		list.Append(item)
	}
	if len(es) == 0 {
		list = vdom.El("p", vdom.Text("Belum ada konten.")).Class("opacity-70")
	}
	return vdom.El("div",
		vdom.El("h1", vdom.Text(title)).Class("text-3xl font-bold mb-6"),
		list,
	).ID(page.RootID).Class("module-content")
}

func (s *Server) asset(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := assets.Get(name)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "asset", err)
			return
		}
		c.Data(http.StatusOK, a.ContentType, a.Body)
	}
}

// setTheme stores the theme cookie and goes back to the referring page.
// "system" clears the preference.
func (s *Server) setTheme(c *gin.Context) {
	theme := c.Param("name")
	if theme == "system" {
		c.SetCookie(themeCookie, "", -1, "/", "", false, false)
	} else {
		c.SetCookie(themeCookie, theme, 365*24*3600, "/", "", false, false)
	}
	back := "/"
	if ref, err := url.Parse(c.Request.Referer()); err == nil && ref.Path != "" && ref.Host == c.Request.Host {
		back = ref.RequestURI()
	}
	c.Redirect(http.StatusFound, back)
}
