// Package webui serves a local HTML preview of discovered skills so
// authors can read rendered content in a browser while editing.
package webui

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/bluemouse/aiconfig/pkg/logger"
	"github.com/bluemouse/aiconfig/pkg/presenter"
	"github.com/bluemouse/aiconfig/pkg/skills"
)

const pageShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; }
code, pre { background: #f4f4f4; }
pre { padding: 0.75rem; overflow-x: auto; }
a { color: #0366d6; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`

var pageTemplate = template.Must(template.New("page").Parse(pageShell))

// Server renders discovered skills over HTTP.
type Server struct {
	router    *mux.Router
	discovery *skills.Discovery
	markdown  goldmark.Markdown
	server    *http.Server
	addr      string
}

// NewServer creates a preview server for the given discovery.
func NewServer(discovery *skills.Discovery, addr string) (*Server, error) {
	if addr == "" {
		return nil, errors.New("listen address cannot be empty")
	}

	s := &Server{
		router:    mux.NewRouter(),
		discovery: discovery,
		markdown:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
		addr:      addr,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
	// Pack-installed skills carry an org/repo/ prefix, so the name
	// segment must be allowed to span slashes.
	s.router.HandleFunc("/skills/{name:.+}", s.handleSkill).Methods("GET")
	s.router.Use(s.loggingMiddleware)
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	discovered, err := s.discovery.DiscoverSkills()
	if err != nil {
		logger.G(r.Context()).WithError(err).Error("failed to discover skills")
		http.Error(w, "failed to discover skills", http.StatusInternalServerError)
		return
	}

	names := make([]string, 0, len(discovered))
	for name := range discovered {
		names = append(names, name)
	}
	sort.Strings(names)

	var body bytes.Buffer
	body.WriteString("<h1>Skills</h1>\n")
	if len(names) == 0 {
		body.WriteString("<p>No skills found.</p>\n")
	} else {
		body.WriteString("<ul>\n")
		for _, name := range names {
			skill := discovered[name]
			href := url.URL{Path: "/skills/" + name}
			fmt.Fprintf(&body, `<li><a href="%s">%s</a> — %s</li>`+"\n",
				href.EscapedPath(), template.HTMLEscapeString(name),
				template.HTMLEscapeString(skill.Description))
		}
		body.WriteString("</ul>\n")
	}

	s.renderPage(w, r, "Skills", body.String())
}

func (s *Server) handleSkill(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	skill, err := s.discovery.GetSkill(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var rendered bytes.Buffer
	fmt.Fprintf(&rendered, "<h1>%s</h1>\n<p><em>%s</em></p>\n",
		template.HTMLEscapeString(skill.Name), template.HTMLEscapeString(skill.Description))
	if err := s.markdown.Convert([]byte(skill.Content), &rendered); err != nil {
		logger.G(r.Context()).WithError(err).WithField("skill", name).Error("failed to render skill")
		http.Error(w, "failed to render skill", http.StatusInternalServerError)
		return
	}

	s.renderPage(w, r, skill.Name, rendered.String())
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTemplate.Execute(w, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: template.HTML(body)})
	if err != nil {
		logger.G(r.Context()).WithError(err).Error("failed to render page")
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		logger.G(r.Context()).WithFields(map[string]any{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rw.statusCode,
			"duration": time.Since(start),
		}).Info("HTTP request")
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start runs the server until the context is canceled, then shuts it
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.router,
	}

	presenter.Info(fmt.Sprintf("Serving content preview on http://%s", s.addr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.G(ctx).WithError(err).Error("preview server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
