package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/semaphore"

	"github.com/df07/go-sphere-tracer/pkg/log"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// Server handles web requests for the sphere tracer
type Server struct {
	port      int
	scenesDir string
	router    *mux.Router
	renders   *semaphore.Weighted
	logger    log.Logger
}

// NewServer creates a new web server that runs at most maxConcurrent renders
// at once. YAML scene files in scenesDir are offered next to the built-in scenes.
func NewServer(port int, maxConcurrent int64, scenesDir string) *Server {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	s := &Server{
		port:      port,
		scenesDir: scenesDir,
		renders:   semaphore.NewWeighted(maxConcurrent),
		logger:    log.New("web"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/scenes", s.handleScenes).Methods(http.MethodGet)
	api.HandleFunc("/scenes/{id}", s.handleSceneConfig).Methods(http.MethodGet)
	api.HandleFunc("/render", s.handleRender).Methods(http.MethodGet)
	api.HandleFunc("/render", s.handleRenderScene).Methods(http.MethodPost)
	api.HandleFunc("/inspect", s.handleInspect).Methods(http.MethodGet)

	return r
}

// Handler returns the server's request router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Noticef("Starting web server on http://localhost%s", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files grouped by category
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns a scene as a scene file description.
// format=yaml returns the same document the loader accepts.
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	sceneObj, err := scene.Find(s.scenesDir, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	if r.URL.Query().Get("format") == "yaml" {
		data, err := scene.Marshal(sceneObj)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(data)
		return
	}

	writeJSON(w, http.StatusOK, scene.Describe(sceneObj))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// parseIntParam parses an integer parameter with validation
func parseIntParam(values url.Values, paramName string, defaultValue, minValue, maxValue int) (int, error) {
	str := values.Get(paramName)
	if str == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", paramName)
	}

	if val < minValue || val > maxValue {
		return 0, fmt.Errorf("invalid %s: must be between %d and %d", paramName, minValue, maxValue)
	}

	return val, nil
}

// parseUintParam parses an unsigned 64-bit parameter
func parseUintParam(values url.Values, paramName string, defaultValue uint64) (uint64, error) {
	str := values.Get(paramName)
	if str == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be a non-negative integer", paramName)
	}
	return val, nil
}

// parseBoolParam parses a boolean parameter
func parseBoolParam(values url.Values, paramName string, defaultValue bool) (bool, error) {
	str := values.Get(paramName)
	if str == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(str)
	if err != nil {
		return false, fmt.Errorf("invalid %s: must be true or false", paramName)
	}
	return val, nil
}
