package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

const testScenesDir = "../../scenes"

func newTestServer() *Server {
	return NewServer(0, 2, testScenesDir)
}

func doRequest(t *testing.T, s *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/api/health", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}

func TestHandleScenes(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/api/scenes", nil)

	var body scene.ScenesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	ids := map[string]bool{}
	for _, group := range body.Groups {
		for _, info := range group.Scenes {
			ids[info.ID] = true
		}
	}
	for _, id := range append(scene.Names(), "file:hollow-glass", "file:metal-row") {
		if !ids[id] {
			t.Errorf("Expected scene %q in listing %v", id, ids)
		}
	}
}

func TestHandleSceneConfig(t *testing.T) {
	s := newTestServer()

	t.Run("json", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/scenes/single", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var desc scene.FileDescription
		if err := json.Unmarshal(rec.Body.Bytes(), &desc); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if desc.Name != "single" || len(desc.Spheres) != 2 {
			t.Errorf("Unexpected description: name=%q spheres=%d", desc.Name, len(desc.Spheres))
		}
	})

	t.Run("yaml round trips through the loader", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/scenes/default?format=yaml", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		parsed, err := scene.Parse(rec.Body.Bytes())
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if parsed.GetPrimitiveCount() != scene.NewDefaultScene().GetPrimitiveCount() {
			t.Errorf("Expected %d primitives, got %d", scene.NewDefaultScene().GetPrimitiveCount(), parsed.GetPrimitiveCount())
		}
	})

	t.Run("scene file", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/scenes/file:metal-row", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var desc scene.FileDescription
		if err := json.Unmarshal(rec.Body.Bytes(), &desc); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if desc.Name != "metal-row" || len(desc.Spheres) != 6 {
			t.Errorf("Unexpected description: name=%q spheres=%d", desc.Name, len(desc.Spheres))
		}
	})

	t.Run("unknown scene", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/scenes/nope", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rec.Code)
		}
	})
}

func TestHandleRender_Formats(t *testing.T) {
	s := newTestServer()
	base := "/api/render?scene=single&width=4&height=3&samples=2&maxDepth=3"

	t.Run("png", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, base, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("Expected image/png, got %q", ct)
		}
		img, err := png.Decode(rec.Body)
		if err != nil {
			t.Fatalf("Invalid PNG: %v", err)
		}
		if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
			t.Errorf("Expected 4x3 image, got %dx%d", b.Dx(), b.Dy())
		}
	})

	t.Run("ppm", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, base+"&format=ppm", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		if !strings.HasPrefix(rec.Body.String(), "P3\n4 3\n255\n") {
			t.Errorf("Unexpected PPM header: %q", rec.Body.String()[:min(20, rec.Body.Len())])
		}
	})

	t.Run("json", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, base+"&format=json", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		var resp RenderResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if resp.Stats.TotalPixels != 12 || resp.Stats.TotalSamples != 24 {
			t.Errorf("Unexpected stats: %+v", resp.Stats)
		}
		if len(resp.Console) == 0 {
			t.Error("Expected render log messages in console")
		}
		data, err := base64.StdEncoding.DecodeString(resp.ImageData)
		if err != nil {
			t.Fatalf("Invalid base64: %v", err)
		}
		if _, err := png.Decode(bytes.NewReader(data)); err != nil {
			t.Errorf("Invalid embedded PNG: %v", err)
		}
	})
}

func TestHandleRender_SceneFile(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/api/render?scene=file:hollow-glass&width=5&height=4&samples=1&maxDepth=4&format=ppm", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Body.String(), "P3\n5 4\n255\n") {
		t.Error("Expected a 5x4 PPM")
	}
}

func TestHandleRender_Deterministic(t *testing.T) {
	s := newTestServer()
	target := "/api/render?scene=default&width=6&height=4&samples=3&maxDepth=5&seed=9&format=ppm"

	first := doRequest(t, s, http.MethodGet, target, nil).Body.String()
	second := doRequest(t, s, http.MethodGet, target, nil).Body.String()
	if first != second {
		t.Error("Expected identical output for identical requests")
	}
}

func TestHandleRender_Errors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"zero width", "width=0", http.StatusBadRequest},
		{"non-numeric height", "height=abc", http.StatusBadRequest},
		{"negative seed", "seed=-1", http.StatusBadRequest},
		{"bad jitter", "jitter=maybe", http.StatusBadRequest},
		{"unsupported format", "format=gif", http.StatusBadRequest},
		{"unknown seed mode", "seedMode=bogus", http.StatusBadRequest},
		{"unknown integrator", "integrator=bogus", http.StatusBadRequest},
		{"unknown scene", "scene=nope", http.StatusNotFound},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodGet, "/api/render?samples=1&"+tt.query, nil)
			if rec.Code != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Errorf("Expected JSON error body, got %q", rec.Body.String())
			}
		})
	}
}

func TestHandleRender_MethodNotAllowed(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodPut, "/api/render", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}

func TestHandleRender_Busy(t *testing.T) {
	s := NewServer(0, 1, "")
	if !s.renders.TryAcquire(1) {
		t.Fatal("Expected to acquire the only render slot")
	}
	defer s.renders.Release(1)

	rec := doRequest(t, s, http.MethodGet, "/api/render?scene=single&width=2&height=2&samples=1", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", rec.Code)
	}
}

func TestHandleRenderScene(t *testing.T) {
	data, err := os.ReadFile("../../pkg/scene/testdata/two_spheres.yaml")
	if err != nil {
		t.Fatalf("Failed to read scene file: %v", err)
	}
	s := newTestServer()

	t.Run("posted scene", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/render?width=6&height=3&samples=1&format=json", data)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp RenderResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if resp.Stats.Width != 6 || resp.Stats.Height != 3 {
			t.Errorf("Expected 6x3 stats, got %dx%d", resp.Stats.Width, resp.Stats.Height)
		}
	})

	t.Run("invalid scene", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/render", []byte("spheres: [[[\n"))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("oversized scene", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/render", bytes.Repeat([]byte("#"), maxSceneBytes+1))
		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("Expected 413, got %d", rec.Code)
		}
	})
}

func TestHandleInspect(t *testing.T) {
	s := newTestServer()

	t.Run("center pixel hits the sphere", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/inspect?scene=single&width=3&height=3&x=1&y=1", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp InspectResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if !resp.Hit || resp.Index != 0 {
			t.Fatalf("Expected hit on primitive 0, got %+v", resp)
		}
		if resp.MaterialType != "lambertian" || resp.GeometryType != "sphere" {
			t.Errorf("Unexpected types %q/%q", resp.MaterialType, resp.GeometryType)
		}
		if math.Abs(resp.Distance-0.5) > 1e-9 || math.Abs(resp.Point[2]+0.5) > 1e-9 {
			t.Errorf("Expected hit at z=-0.5 distance 0.5, got point %v distance %f", resp.Point, resp.Distance)
		}
		if math.Abs(resp.Normal[2]-1) > 1e-9 || !resp.FrontFace {
			t.Errorf("Expected front face normal (0,0,1), got %v front=%t", resp.Normal, resp.FrontFace)
		}
		if resp.Properties["radius"] != 0.5 {
			t.Errorf("Expected radius 0.5, got %v", resp.Properties["radius"])
		}
	})

	t.Run("top left pixel sees the sky", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/inspect?scene=single&width=3&height=3&x=0&y=0", nil)
		var resp InspectResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if resp.Hit || resp.Index != -1 {
			t.Errorf("Expected miss, got %+v", resp)
		}
	})

	t.Run("pixel out of range", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/inspect?scene=single&width=3&height=3&x=3", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})
}

// failingWriter accepts headers but rejects every body write
type failingWriter struct {
	*httptest.ResponseRecorder
}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestHandleRender_WriteFailureLogged(t *testing.T) {
	for _, format := range []string{FormatPNG, FormatPPM} {
		t.Run(format, func(t *testing.T) {
			s := newTestServer()
			logger := &recordingLogger{}
			s.logger = logger

			req := httptest.NewRequest(http.MethodGet, "/api/render?scene=single&width=2&height=2&samples=1&format="+format, nil)
			s.Handler().ServeHTTP(failingWriter{httptest.NewRecorder()}, req)

			if len(logger.warnings) != 1 || !strings.Contains(logger.warnings[0], "connection reset") {
				t.Errorf("Expected one write failure warning, got %v", logger.warnings)
			}
		})
	}
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		name  string
		color core.Vec3
		want  string
	}{
		{"black", core.NewVec3(0, 0, 0), "#000000"},
		{"white", core.NewVec3(1, 1, 1), "#ffffff"},
		{"mixed", core.NewVec3(1, 0.5, 0), "#ff7f00"},
		{"over range", core.NewVec3(1.3, 2, 0.5), "#ffff7f"},
		{"negative", core.NewVec3(-0.5, 0, 1), "#0000ff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hexColor(tt.color); got != tt.want {
				t.Errorf("hexColor(%v) = %q, want %q", tt.color, got, tt.want)
			}
		})
	}
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int
		wantErr bool
	}{
		{"missing uses default", "", 7, false},
		{"in range", "12", 12, false},
		{"lower bound", "1", 1, false},
		{"upper bound", "100", 100, false},
		{"below range", "0", 0, true},
		{"above range", "101", 0, true},
		{"not a number", "ten", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			if tt.value != "" {
				values.Set("n", tt.value)
			}
			got, err := parseIntParam(values, "n", 7, 1, 100)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%t, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}
