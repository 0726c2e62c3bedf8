package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zbysir/gomodul"
	"github.com/zbysir/gomodul/internal/config"
	"github.com/zbysir/gomodul/internal/content"
	"github.com/zbysir/gomodul/pkg/page"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var static = fstest.MapFS{
	"src/Hello.java": {Data: []byte("class Hello {}\n")},
}

func newServer(t *testing.T, live bool) *Server {
	contentFS := fstest.MapFS{
		"modul/1/index.mdx": {Data: []byte(`---
title: Java Dasar
---
<AccordionSection title="FAQ" items={[{title: "Apa?", content: "Itu."}, {title: "Kenapa?", content: "Karena."}]} />

<Code title="Hello" filePath="./src/Hello.java" language="java" />
`)},
		"blog/halo/index.mdx": {Data: []byte("---\ntitle: Halo\ndate: 2024-01-01\n---\nPost.\n")},
	}
	dataFS := fstest.MapFS{
		"modul-2.json": {Data: []byte(`{"title": "Broken"}`)},
	}
	cfg := config.DefaultConfig()
	cfg.Server.LiveReload = live
	s, err := New(Options{
		Config: cfg,
		Engine: gomodul.New(gomodul.WithFS(static)),
		Store:  content.New(contentFS, dataFS, 8),
		Static: static,
	})
	require.NoError(t, err)
	return s
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

var sessionReg = regexp.MustCompile(`data-session="([^"]+)"`)

func TestShowModule(t *testing.T) {
	s := newServer(t, false)

	w := get(s, "/modul/1?section=code-hello")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>Java Dasar</title>")
	assert.Contains(t, body, `id="accordion-faq"`)
	assert.Contains(t, body, "class Hello {}")
	assert.Contains(t, body, "section-highlight")
	assert.True(t, sessionReg.MatchString(body))

	w = get(s, "/modul/404")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), page.FailedMessage)

	w = get(s, "/modul/2")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "components array is required")
}

func TestLists(t *testing.T) {
	s := newServer(t, false)

	w := get(s, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/modul/1"`)

	w = get(s, "/blog")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/blog/halo"`)
	assert.Contains(t, w.Body.String(), `datetime="2024-01-01"`)

	w = get(s, "/blog/halo")
	assert.Equal(t, http.StatusOK, w.Code)
}

func action(s *Server, sid string, a page.Action) *httptest.ResponseRecorder {
	bs, _ := json.Marshal(a)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/sessions/"+sid+"/actions", bytes.NewReader(bs))
	r.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(w, r)
	return w
}

func TestApplyAction(t *testing.T) {
	s := newServer(t, false)
	w := get(s, "/modul/1")
	sid := sessionReg.FindStringSubmatch(w.Body.String())[1]

	w = action(s, sid, page.Action{Type: page.ActionToggleAccordion, Target: "accordion-faq", Index: 1})
	require.Equal(t, http.StatusOK, w.Code)
	var res page.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "accordion-faq", res.Target)
	assert.Contains(t, res.HTML, `aria-expanded="true"`)

	sess, ok := s.Session(sid)
	require.True(t, ok)
	acc, _ := sess.Accordion("accordion-faq")
	assert.Equal(t, []int{1}, acc.Expanded())

	w = action(s, sid, page.Action{Type: "explode", Target: "accordion-faq"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = action(s, sid, page.Action{Type: page.ActionToggleAccordion, Target: "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = action(s, "missing", page.Action{Type: page.ActionShare})
	assert.Equal(t, http.StatusNotFound, w.Code)
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "session_not_found", env.Error.Code)
}

func TestAssetsAndStatic(t *testing.T) {
	s := newServer(t, false)

	w := get(s, "/runtime.js")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/javascript"))

	w = get(s, "/src/Hello.java")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "class Hello {}\n", w.Body.String())

	w = get(s, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTheme(t *testing.T) {
	s := newServer(t, false)

	r := httptest.NewRequest(http.MethodGet, "/modul/1", nil)
	r.AddCookie(&http.Cookie{Name: themeCookie, Value: "dark"})
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	assert.Contains(t, w.Body.String(), `data-theme="dark"`)

	r = httptest.NewRequest(http.MethodGet, "/modul/1", nil)
	r.AddCookie(&http.Cookie{Name: themeCookie, Value: "system"})
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	assert.NotContains(t, w.Body.String(), "data-theme")

	w = get(s, "/theme/light")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "theme=light")
}

func TestLiveReload(t *testing.T) {
	s := newServer(t, true)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return s.hub.Len() == 1 }, time.Second, 10*time.Millisecond)
	s.Reload()

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, reloadMessage, string(msg))
}
