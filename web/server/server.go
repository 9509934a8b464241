package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

// DefaultScene is rendered when a request names no scene
const DefaultScene = "red-sphere"

// Server handles web requests for the raytracer
type Server struct {
	port int
	mux  *http.ServeMux
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	s := &Server{port: port, mux: http.NewServeMux()}

	// Serve static files
	s.mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)
	return s
}

// Handler returns the request router
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene    string  `json:"scene"`    // Scene ID or scene file path
	Width    int     `json:"width"`    // Image width
	Height   int     `json:"height"`   // Image height
	MaxLevel int     `json:"maxLevel"` // Recursion depth of reflections and refractions
	MinK     float64 `json:"minK"`     // Attenuation below which contributions are dropped
	Threads  int     `json:"threads"`  // Render workers, 0 for one per CPU
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns the default render settings of a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneID := r.URL.Query().Get("scene")
	if sceneID == "" {
		sceneID = DefaultScene
	}

	sceneObj, err := loadScene(sceneID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rc := sceneObj.RenderConfig
	cc := sceneObj.CameraConfig
	response := map[string]interface{}{
		"scene":          sceneID,
		"name":           sceneObj.Name,
		"primitiveCount": sceneObj.PrimitiveCount(),
		"defaults": map[string]interface{}{
			"width":    rc.Width,
			"height":   rc.Height,
			"maxLevel": rc.MaxLevel,
			"minK":     rc.MinK,
		},
		"camera": map[string]interface{}{
			"location":      [3]float64{cc.Location.X, cc.Location.Y, cc.Location.Z},
			"viewPlane":     [2]float64{cc.Width, cc.Height},
			"distance":      cc.Distance,
			"depthOfField":  cc.Aperture > 0,
			"aperture":      cc.Aperture,
			"focalLength":   cc.FocalLength,
			"apertureGrid":  cc.Samples,
			"rotationAngle": cc.Rotation,
		},
		"limits": map[string]interface{}{
			"width":    map[string]int{"min": minSize, "max": maxSize},
			"height":   map[string]int{"min": minSize, "max": maxSize},
			"maxLevel": map[string]int{"min": 1, "max": maxLevelLimit},
			"minK":     map[string]float64{"min": minKLimit, "max": maxKLimit},
			"threads":  map[string]int{"min": 0, "max": maxThreads},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// Request parameter limits
const (
	minSize       = 1
	maxSize       = 2000
	maxLevelLimit = 50
	minKLimit     = 1e-6
	maxKLimit     = 0.5
	maxThreads    = 256
)

// parseSceneParams loads the requested scene and resolves the image size,
// defaulting to the scene's own render settings
func (s *Server) parseSceneParams(r *http.Request, req *RenderRequest) (*scene.Scene, error) {
	query := r.URL.Query()
	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = DefaultScene
	}

	sceneObj, err := loadScene(req.Scene)
	if err != nil {
		return nil, err
	}

	rc := sceneObj.RenderConfig
	if req.Width, err = parseIntParam(query, "width", rc.Width, minSize, maxSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", rc.Height, minSize, maxSize); err != nil {
		return nil, err
	}
	return sceneObj, nil
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, *scene.Scene, error) {
	req := &RenderRequest{}
	sceneObj, err := s.parseSceneParams(r, req)
	if err != nil {
		return nil, nil, err
	}

	query := r.URL.Query()
	rc := sceneObj.RenderConfig
	if req.MaxLevel, err = parseIntParam(query, "maxLevel", rc.MaxLevel, 1, maxLevelLimit); err != nil {
		return nil, nil, err
	}
	if req.MinK, err = parseFloatParam(query, "minK", rc.MinK, minKLimit, maxKLimit); err != nil {
		return nil, nil, err
	}
	if req.Threads, err = parseIntParam(query, "threads", rc.Threads, 0, maxThreads); err != nil {
		return nil, nil, err
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && sceneObj.CameraConfig.Aperture > 0 {
		log.Printf("Render warning: Large image with depth of field may render slowly")
	}

	return req, sceneObj, nil
}

// loadScene resolves a built-in or "yaml:" scene ID. Scene file paths are
// not accepted from clients.
func loadScene(id string) (*scene.Scene, error) {
	if strings.ContainsAny(id, `/\`) || filepath.Ext(id) != "" {
		return nil, fmt.Errorf("invalid scene id: %q", id)
	}
	return scene.Load(id)
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// writeJSON writes a JSON response with CORS enabled
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
