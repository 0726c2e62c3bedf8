// Package server serves modules and posts over HTTP with per-view sessions.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/zbysir/gomodul"
	"github.com/zbysir/gomodul/internal/config"
	"github.com/zbysir/gomodul/internal/content"
	"github.com/zbysir/gomodul/internal/logger"
	"github.com/zbysir/gomodul/pkg/page"
)

type Options struct {
	Config *config.Config
	Engine *gomodul.Engine
	Store  *content.Store
	// Static serves code files and other assets referenced by documents.
	Static fs.FS
	Logger *logger.Logger
}

type Server struct {
	cfg      *config.Config
	engine   *gomodul.Engine
	store    *content.Store
	static   fs.FS
	log      *logger.Logger
	sessions *lru.Cache[string, *page.Session]
	hub      *Hub
	router   *gin.Engine
}

func New(o Options) (*Server, error) {
	if o.Config == nil {
		o.Config = config.DefaultConfig()
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	if o.Engine == nil {
		o.Engine = gomodul.New(gomodul.WithLogger(o.Logger))
	}
	if o.Store == nil {
		return nil, errors.New("server: content store is required")
	}
	sessions, err := lru.New[string, *page.Session](o.Config.Server.GetSessionCapacity())
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:      o.Config,
		engine:   o.Engine,
		store:    o.Store,
		static:   o.Static,
		log:      o.Logger,
		sessions: sessions,
		hub:      NewHub(o.Logger),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Session returns a live session by id.
func (s *Server) Session(id string) (*page.Session, bool) {
	return s.sessions.Get(id)
}

// Reload drops cached documents and tells open pages to reload.
func (s *Server) Reload() {
	s.store.Invalidate()
	s.hub.Broadcast()
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.Server.LiveReload {
		w, err := NewWatcher([]string{s.cfg.ContentDir, s.cfg.DataDir, s.cfg.StaticDir}, func(string) {
			s.Reload()
		}, s.log)
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		w.Start()
		defer w.Stop()
	}

	srv := &http.Server{Addr: s.cfg.Server.Addr, Handler: s.router}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Server.Addr, "live_reload", s.cfg.Server.LiveReload)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

var timeNow = time.Now
