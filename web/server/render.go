package server

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/output"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// maxSceneBytes bounds the size of a posted scene file
const maxSceneBytes = 1 << 20

// Output formats accepted by the render endpoints
const (
	FormatPNG  = "png"
	FormatPPM  = "ppm"
	FormatJSON = "json"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene      string            `json:"scene"`      // Scene ID, ignored for posted scenes
	Width      int               `json:"width"`      // Image width
	Height     int               `json:"height"`     // Image height
	Samples    int               `json:"samples"`    // Samples per pixel
	MaxDepth   int               `json:"maxDepth"`   // Maximum bounce depth
	Seed       uint64            `json:"seed"`       // Base random seed
	SeedMode   renderer.SeedMode `json:"seedMode"`   // per-pixel or per-worker
	Jitter     bool              `json:"jitter"`     // Sub-pixel jitter
	Integrator string            `json:"integrator"` // path or normals
	Format     string            `json:"format"`     // png, ppm or json
}

// RenderResponse is the body returned for format=json
type RenderResponse struct {
	ImageData string           `json:"imageData"` // Base64 encoded PNG
	Stats     Stats            `json:"stats"`
	Console   []ConsoleMessage `json:"console"`
}

// Stats represents render statistics
type Stats struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	TotalPixels     int     `json:"totalPixels"`
	TotalSamples    int     `json:"totalSamples"`
	Workers         int     `json:"workers"`
	RenderTimeMs    int64   `json:"renderTimeMs"`
	MeanLuminance   float64 `json:"meanLuminance"`
	LuminanceStdDev float64 `json:"luminanceStdDev"`
}

// parseRenderRequest parses request parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	defaults := renderer.DefaultOptions()
	req := &RenderRequest{
		Scene:      values.Get("scene"),
		SeedMode:   renderer.SeedMode(values.Get("seedMode")),
		Integrator: values.Get("integrator"),
		Format:     values.Get("format"),
	}
	if req.Scene == "" {
		req.Scene = "default"
	}
	if req.SeedMode == "" {
		req.SeedMode = defaults.SeedMode
	}
	if req.Integrator == "" {
		req.Integrator = integrator.NamePath
	}
	switch req.Format {
	case "":
		req.Format = FormatPNG
	case FormatPNG, FormatPPM, FormatJSON:
	default:
		return nil, fmt.Errorf("invalid format %q: must be png, ppm or json", req.Format)
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", defaults.Width, 1, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", defaults.Height, 1, 2000); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", 10, 1, 10000); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(values, "maxDepth", defaults.MaxDepth, 0, 1000); err != nil {
		return nil, err
	}
	if req.Seed, err = parseUintParam(values, "seed", defaults.Seed); err != nil {
		return nil, err
	}
	if req.Jitter, err = parseBoolParam(values, "jitter", defaults.Jitter); err != nil {
		return nil, err
	}

	return req, nil
}

// options converts the request into render options using every available CPU
func (req *RenderRequest) options() renderer.Options {
	return renderer.Options{
		Width:           req.Width,
		Height:          req.Height,
		SamplesPerPixel: req.Samples,
		MaxDepth:        req.MaxDepth,
		Seed:            req.Seed,
		SeedMode:        req.SeedMode,
		Jitter:          req.Jitter,
		Integrator:      req.Integrator,
	}
}

// handleRender renders a built-in scene or a file from the scenes directory
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sceneObj, err := scene.Find(s.scenesDir, req.Scene)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	s.render(w, r, sceneObj, req)
}

// handleRenderScene renders a scene file posted as the request body
func (s *Server) handleRenderScene(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxSceneBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(data) > maxSceneBytes {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("scene file exceeds %d bytes", maxSceneBytes))
		return
	}

	sceneObj, err := scene.Parse(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req.Scene = sceneObj.Name

	s.render(w, r, sceneObj, req)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, sceneObj *scene.Scene, req *RenderRequest) {
	if !s.renders.TryAcquire(1) {
		writeError(w, http.StatusServiceUnavailable, errors.New("too many renders in progress"))
		return
	}
	defer s.renders.Release(1)

	console := NewConsoleLogger(s.logger)
	raytracer, err := renderer.NewRaytracer(sceneObj, req.options(), console)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// Use request context to stop rendering when the client disconnects
	img, stats, err := raytracer.Render(r.Context())
	if err != nil {
		s.logger.Warningf("render of %q failed: %v", req.Scene, err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.logger.Infof("rendered %q at %dx%d in %v", req.Scene, req.Width, req.Height, stats.RenderTime)

	switch req.Format {
	case FormatPPM:
		w.Header().Set("Content-Type", "image/x-portable-pixmap")
		if err := output.WritePPM(w, img); err != nil {
			s.logger.Warningf("failed to write PPM for %q: %v", req.Scene, err)
		}
	case FormatJSON:
		imageData, err := imageToBase64PNG(img)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to encode image: %w", err))
			return
		}
		writeJSON(w, http.StatusOK, RenderResponse{
			ImageData: imageData,
			Stats:     newStats(stats),
			Console:   console.Messages(),
		})
	default:
		var buf bytes.Buffer
		if err := output.WritePNG(&buf, img); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to encode image: %w", err))
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if _, err := w.Write(buf.Bytes()); err != nil {
			s.logger.Warningf("failed to write PNG for %q: %v", req.Scene, err)
		}
	}
}

func newStats(stats renderer.RenderStats) Stats {
	return Stats{
		Width:           stats.Width,
		Height:          stats.Height,
		TotalPixels:     stats.TotalPixels,
		TotalSamples:    stats.TotalSamples,
		Workers:         len(stats.Workers),
		RenderTimeMs:    stats.RenderTime.Milliseconds(),
		MeanLuminance:   stats.MeanLuminance,
		LuminanceStdDev: stats.LuminanceStdDev,
	}
}

// imageToBase64PNG converts an image to a base64 encoded PNG
func imageToBase64PNG(img *renderer.Image) (string, error) {
	var buf bytes.Buffer
	if err := output.WritePNG(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
