package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.log))

	r.GET("/healthz", func(c *gin.Context) {
		RespondOK(c, gin.H{"status": "ok"})
	})
	r.GET("/", s.listModules)
	r.GET("/modul/:id", s.showModule)
	r.GET("/blog", s.listPosts)
	r.GET("/blog/:slug", s.showPost)
	r.GET("/runtime.js", s.asset("runtime.js"))
	r.GET("/style.css", s.asset("style.css"))
	r.GET("/theme/:name", s.setTheme)

	api := r.Group("/api")
	{
		api.POST("/sessions/:sid/actions", s.applyAction)
	}
	if s.cfg.Server.LiveReload {
		r.GET("/ws", s.hub.Handle)
	}

	if s.static != nil {
		files := http.FileServer(http.FS(s.static))
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				RespondError(c, http.StatusNotFound, "not_found", nil)
				return
			}
			files.ServeHTTP(c.Writer, c.Request)
		})
	}
	return r
}
