// Package app serves the table over HTTP and WebSocket and funnels every
// adapter through one Controller.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
	"github.com/louisbranch/voidlight/internal/platform/errors/i18n"
	"github.com/louisbranch/voidlight/internal/platform/timeouts"
	"github.com/louisbranch/voidlight/internal/services/table/app/templates"
	"github.com/louisbranch/voidlight/internal/services/table/domain"
)

const (
	tokenCookieName = "vl_view"
	tokenParam      = "t"
	langParam       = "lang"

	maxActionBytes = 1 << 20
	maxImportBytes = 8 << 20
)

// Config defines the HTTP surface of the table.
type Config struct {
	HTTPAddr string
	// ViewSecret signs view links. Without it only the open keeper view
	// is served.
	ViewSecret string
	// OpenKeeper serves the keeper view to requests without a token.
	OpenKeeper        bool
	PublicURL         string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Server hosts the table HTTP/WebSocket process.
type Server struct {
	httpAddr        string
	publicURL       string
	shutdownTimeout time.Duration
	openKeeper      bool
	controller      *Controller
	tokens          *ViewTokens
	hub             *hub
	handler         http.Handler
	httpServer      *http.Server
	unsubscribe     func()
}

// NewServer builds the server around controller.
func NewServer(config Config, controller *Controller) (*Server, error) {
	if controller == nil {
		return nil, errors.New("controller is required")
	}
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if config.ReadHeaderTimeout <= 0 {
		config.ReadHeaderTimeout = timeouts.ReadHeader
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = timeouts.Shutdown
	}

	s := &Server{
		httpAddr:        httpAddr,
		publicURL:       strings.TrimRight(strings.TrimSpace(config.PublicURL), "/"),
		shutdownTimeout: config.ShutdownTimeout,
		openKeeper:      config.OpenKeeper,
		controller:      controller,
	}
	if strings.TrimSpace(config.ViewSecret) != "" {
		tokens, err := NewViewTokens(config.ViewSecret, 0)
		if err != nil {
			return nil, err
		}
		s.tokens = tokens
	} else if !config.OpenKeeper {
		return nil, errors.New("a view secret is required when the keeper view is not open")
	}
	if s.publicURL == "" {
		s.publicURL = "http://" + httpAddr
	}

	s.hub = newHub(controller)
	s.unsubscribe = controller.Subscribe(s.hub.broadcast)
	s.handler = s.routes()
	s.httpServer = &http.Server{
		Addr:              httpAddr,
		Handler:           s.handler,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}
	return s, nil
}

// Handler returns the routes without a listener.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/actions", s.keeperOnly(s.handleAction))
	mux.HandleFunc("GET /api/export", s.keeperOnly(s.handleExport))
	mux.HandleFunc("POST /api/import", s.keeperOnly(s.handleImport))
	mux.HandleFunc("GET /api/links", s.keeperOnly(s.handleLinks))
	mux.Handle("GET /ws", s.hub.handler(s.modeFor))
	return mux
}

// modeFor resolves the view the request may see.
func (s *Server) modeFor(r *http.Request) (domain.Mode, error) {
	token := tokenFromRequest(r)
	if token == "" {
		if s.openKeeper {
			return domain.KeeperView, nil
		}
		return domain.PlayerView, apperrors.New(apperrors.CodeUnauthorized, "view token required")
	}
	if s.tokens == nil {
		return domain.PlayerView, apperrors.New(apperrors.CodeUnauthorized, "view tokens are not configured")
	}
	return s.tokens.Parse(token)
}

func tokenFromRequest(r *http.Request) string {
	if token := strings.TrimSpace(r.URL.Query().Get(tokenParam)); token != "" {
		return token
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if cookie, err := r.Cookie(tokenCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

func (s *Server) keeperOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, err := s.modeFor(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if mode != domain.KeeperView {
			writeError(w, r, apperrors.New(apperrors.CodeUnauthorized, "keeper view required"))
			return
		}
		next(w, r)
	}
}

func requestLocale(r *http.Request) string {
	if lang := strings.TrimSpace(r.URL.Query().Get(langParam)); lang != "" {
		return i18n.Match(lang)
	}
	return i18n.Match(r.Header.Get("Accept-Language"))
}

func model(view domain.View, version uint64, locale string) templates.Model {
	return templates.Model{
		View:    view,
		Version: version,
		Locale:  locale,
		Labels:  i18n.GetCatalog(locale).Label,
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	mode, err := s.modeFor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if token := strings.TrimSpace(r.URL.Query().Get(tokenParam)); token != "" {
		http.SetCookie(w, &http.Cookie{Name: tokenCookieName, Value: token, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	}
	view, version := s.controller.View(mode)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Page(model(view, version, requestLocale(r))).Render(r.Context(), w); err != nil {
		log.Printf("render page: %v", err)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	mode, err := s.modeFor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, version := s.controller.View(mode)
	writeJSON(w, http.StatusOK, struct {
		Version uint64      `json:"version"`
		View    domain.View `json:"view"`
	}{version, view})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var action Action
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxActionBytes)).Decode(&action); err != nil {
		writeError(w, r, apperrors.WrapWithMetadata(apperrors.CodeInvalidAction, "decode action", map[string]string{
			"Reason": "malformed action",
		}, err))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Action)
	defer cancel()
	res, err := s.controller.Dispatch(ctx, action)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	section := r.URL.Query().Get("section")
	if section == "" {
		section = string(domain.SectionAll)
	}
	export, err := s.controller.Export(section)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	_, _ = w.Write(export.Data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, r, apperrors.WrapWithMetadata(apperrors.CodeInvalidDocument, "read upload", map[string]string{
			"Reason": err.Error(),
		}, err))
		return
	}
	confirmed := r.URL.Query().Get("confirm") == "true"
	res, err := s.controller.Import(r.Context(), data, func(string) bool { return confirmed })
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Section  domain.Section `json:"section"`
		Count    int            `json:"count"`
		Campaign bool           `json:"campaign"`
	}{res.Section, res.Count, res.Campaign})
}

// Links are the view URLs the keeper hands out.
type Links struct {
	Keeper string `json:"keeper"`
	Player string `json:"player"`
}

// ViewLinks signs a keeper and a player link.
func (s *Server) ViewLinks() (Links, error) {
	if s.tokens == nil {
		return Links{Keeper: s.publicURL + "/"}, nil
	}
	keeper, err := s.tokens.Issue(domain.KeeperView)
	if err != nil {
		return Links{}, err
	}
	player, err := s.tokens.Issue(domain.PlayerView)
	if err != nil {
		return Links{}, err
	}
	return Links{
		Keeper: s.publicURL + "/?" + tokenParam + "=" + url.QueryEscape(keeper),
		Player: s.publicURL + "/?" + tokenParam + "=" + url.QueryEscape(player),
	}, nil
}

func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request) {
	links, err := s.ViewLinks()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatusOf(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Code:    string(apperrors.CodeOf(err)),
		Message: apperrors.UserMessage(err, requestLocale(r)),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json: %v", err)
	}
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("table server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("table server listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close detaches the server from the controller and drops live peers.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.hub.closeAll()
}
