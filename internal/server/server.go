// Package server hosts article screens over HTTP. Each article id gets one
// Controller, created on first access and driven through the main loop.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"article-view/internal/article"
	"article-view/internal/mainloop"
	"article-view/internal/model"
	"article-view/internal/notify"
	"article-view/internal/repository"
	"article-view/internal/store"
)

const listLimit = 50

type screen struct {
	ctrl  *article.Controller
	queue *notify.Queue
}

type Server struct {
	store    store.Store
	articles *repository.Articles
	settings *repository.Settings
	loop     *mainloop.Loop
	logger   *zap.Logger
	router   *mux.Router
	server   *http.Server

	// screens is only touched on the main loop.
	screens map[string]*screen
}

func NewServer(st store.Store, articles *repository.Articles, settings *repository.Settings, loop *mainloop.Loop, logger *zap.Logger) *Server {
	s := &Server{
		store:    st,
		articles: articles,
		settings: settings,
		loop:     loop,
		logger:   logger,
		router:   mux.NewRouter(),
		screens:  make(map[string]*screen),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/articles", s.handleList).Methods("GET")
	s.router.HandleFunc("/articles", s.handleAdd).Methods("POST")
	s.router.HandleFunc("/articles/{id}", s.handleState).Methods("GET")
	s.router.HandleFunc("/articles/{id}", s.handleClose).Methods("DELETE")
	s.router.HandleFunc("/articles/{id}/notifications", s.handleNotifications).Methods("GET")
	s.router.HandleFunc("/articles/{id}/notifications/{nid}", s.handleNotificationAction).Methods("POST")
	s.router.HandleFunc("/articles/{id}/{command}", s.handleCommand).Methods("POST")
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start launches the HTTP server
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	s.logger.Info("Web server listening", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Refresh reloads an article from storage and publishes it to its screen.
// Articles without an open screen are skipped. The store is read on the
// calling goroutine.
func (s *Server) Refresh(ctx context.Context, articleID string) error {
	snap, err := s.articles.Load(ctx, articleID)
	if err != nil {
		return err
	}
	return s.loop.Do(ctx, func() error {
		if _, ok := s.screens[articleID]; !ok {
			return nil
		}
		return s.articles.Publish(articleID, snap)
	})
}

// open returns the screen for articleID, creating its controller on first
// use. Must run on the main loop.
func (s *Server) open(articleID string, snap repository.Snapshot) (*screen, error) {
	if sc, ok := s.screens[articleID]; ok {
		return sc, nil
	}
	if err := s.articles.Publish(articleID, snap); err != nil {
		return nil, err
	}

	queue := notify.NewQueue(16)
	ctrl, err := article.New(articleID, article.Deps{
		Articles: s.articles,
		Settings: s.settings,
		Notifier: notify.Tee(queue, notify.LogSink{Logger: s.logger}),
		Logger:   s.logger,
	})
	if err != nil {
		s.articles.Forget(articleID)
		return nil, err
	}
	sc := &screen{ctrl: ctrl, queue: queue}
	s.screens[articleID] = sc
	return sc, nil
}

// withScreen runs fn on the main loop with the article's screen. A screen
// that is not open yet is loaded off the loop first.
func (s *Server) withScreen(ctx context.Context, articleID string, fn func(*screen) error) error {
	err := s.loop.Do(ctx, func() error {
		sc, ok := s.screens[articleID]
		if !ok {
			return errNotOpen
		}
		return fn(sc)
	})
	if !errors.Is(err, errNotOpen) {
		return err
	}

	snap, err := s.articles.Load(ctx, articleID)
	if err != nil {
		return err
	}
	return s.loop.Do(ctx, func() error {
		sc, err := s.open(articleID, snap)
		if err != nil {
			return err
		}
		return fn(sc)
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	articles, err := s.store.List(r.Context(), listLimit)
	if err != nil {
		s.logger.Error("Failed to list articles", zap.Error(err))
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if articles == nil {
		articles = []model.Article{}
	}
	writeJSON(w, http.StatusOK, articles)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	url := r.FormValue("url")
	if url == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}

	a := model.NewArticle(url)
	if err := s.store.Save(r.Context(), &a); err != nil {
		s.logger.Error("Failed to queue article", zap.Error(err))
		http.Error(w, "Failed to save", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var st model.ArticleState
	err := s.withScreen(r.Context(), id, func(sc *screen) error {
		st = sc.ctrl.State()
		return nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	err := s.loop.Do(r.Context(), func() error {
		if sc, ok := s.screens[id]; ok {
			sc.ctrl.Close()
			delete(s.screens, id)
			s.articles.Forget(id)
		}
		return nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	cmd, ok := commands[vars["command"]]
	if !ok {
		http.Error(w, "Unknown command", http.StatusNotFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	form := r.Form

	ctx := r.Context()
	var st model.ArticleState
	err := s.withScreen(ctx, vars["id"], func(sc *screen) error {
		if err := cmd(ctx, sc.ctrl, form); err != nil {
			return err
		}
		st = sc.ctrl.State()
		return nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type notificationView struct {
	ID    string      `json:"id"`
	Kind  notify.Kind `json:"kind"`
	Text  string      `json:"text"`
	Label string      `json:"label,omitempty"`
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	views := []notificationView{}
	err := s.withScreen(r.Context(), mux.Vars(r)["id"], func(sc *screen) error {
		for _, n := range sc.queue.Drain() {
			views = append(views, notificationView{
				ID:    n.NotificationID().String(),
				Kind:  n.Kind(),
				Text:  n.Text(),
				Label: notify.Label(n),
			})
		}
		return nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleNotificationAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var st model.ArticleState
	err := s.withScreen(r.Context(), vars["id"], func(sc *screen) error {
		n, ok := sc.queue.Lookup(parseUUID(vars["nid"]))
		if !ok || !notify.Run(n) {
			return errNoAction
		}
		st = sc.ctrl.State()
		return nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "Article not found", http.StatusNotFound)
	case errors.Is(err, errNoAction):
		http.Error(w, "Notification has no action", http.StatusNotFound)
	case errors.Is(err, errBadRequest), errors.Is(err, repository.ErrInvalidID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error("Request failed", zap.Error(err))
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
