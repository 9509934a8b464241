package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/renderer"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

// progressInterval is how often, in percent of the image, progress is
// reported to the web console
const progressInterval = 10

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "result", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderResult is the finished image with its statistics
type RenderResult struct {
	ImageData        string  `json:"imageData"` // Base64 encoded PNG
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	ElapsedMs        int64   `json:"elapsedMs"`
	Stats            Stats   `json:"stats"`
	PrimitiveCount   int     `json:"primitiveCount"`
	AverageLuminance float64 `json:"averageLuminance"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels int     `json:"totalPixels"`
	TotalRays   int     `json:"totalRays"`
	AverageRays float64 `json:"averageRays"`
	MinRays     int     `json:"minRays"`
	MaxRays     int     `json:"maxRays"`
	Workers     int     `json:"workers"`
}

// RenderingPipeline contains the configured camera and the image it fills
type RenderingPipeline struct {
	Scene  *scene.Scene
	Camera *renderer.Camera
	Image  *renderer.ImageWriter
}

// handleRender renders a scene and streams console output, the final image
// and its statistics via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Create unified SSE event channel for thread-safe writing
	sseEventChan := make(chan SSEEvent, 100)

	// Start single SSE writer goroutine
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	// Parse and validate request
	req, sceneObj, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Setup console logging and streaming
	consoleChan, webLogger := s.setupConsoleLogging()
	consoleCtx, stopConsole := context.WithCancel(ctx)
	var consoleWG sync.WaitGroup
	consoleWG.Add(1)
	go func() {
		defer consoleWG.Done()
		s.streamConsoleMessages(consoleCtx, consoleChan, sseEventChan)
	}()

	pipeline, err := s.setupRenderingPipeline(req, sceneObj, webLogger)
	if err != nil {
		stopConsole()
		consoleWG.Wait()
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	startTime := time.Now()
	stats, err := pipeline.Camera.Render(ctx)

	// Drain what the render logged before the final events
	s.drainConsole(ctx, consoleChan, sseEventChan)
	stopConsole()
	consoleWG.Wait()

	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	s.handleRenderComplete(ctx, sseEventChan, pipeline, stats, time.Since(startTime))

	// Send completion event
	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				// Channel closed
				return
			}

			// Write SSE event
			_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data)
			if err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages forwards console messages until ctx is done
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for {
		select {
		case consoleMsg := <-consoleChan:
			s.forwardConsole(ctx, consoleMsg, sseEventChan)
		case <-ctx.Done():
			return
		}
	}
}

// drainConsole forwards the messages still buffered in consoleChan
func (s *Server) drainConsole(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for {
		select {
		case consoleMsg := <-consoleChan:
			s.forwardConsole(ctx, consoleMsg, sseEventChan)
		default:
			return
		}
	}
}

func (s *Server) forwardConsole(ctx context.Context, consoleMsg ConsoleMessage, sseEventChan chan SSEEvent) {
	data, err := json.Marshal(consoleMsg)
	if err != nil {
		log.Printf("Error marshaling console message: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
	case <-ctx.Done():
	default:
		// Channel full, skip message to avoid blocking
	}
}

// setupRenderingPipeline creates the tracer, image and camera for a request
func (s *Server) setupRenderingPipeline(req *RenderRequest, sceneObj *scene.Scene, logger core.Logger) (*RenderingPipeline, error) {
	tracer, err := renderer.NewRaytracer(sceneObj, renderer.TracerConfig{
		MaxLevel: req.MaxLevel,
		MinK:     req.MinK,
	})
	if err != nil {
		return nil, err
	}

	img, err := renderer.NewImageWriter("", req.Width, req.Height)
	if err != nil {
		return nil, err
	}

	logger.Printf("Scene %q: %d primitives, %d lights\n", sceneObj.Name, sceneObj.PrimitiveCount(), len(sceneObj.Lights))

	camera, err := renderer.NewCameraBuilderFromConfig(sceneObj.CameraConfig).
		WithImageWriter(img).
		WithRayTracer(tracer).
		WithThreads(req.Threads).
		WithDebugPrint(progressInterval).
		WithLogger(logger).
		Build()
	if err != nil {
		return nil, err
	}

	return &RenderingPipeline{
		Scene:  sceneObj,
		Camera: camera,
		Image:  img,
	}, nil
}

// handleRenderComplete encodes the finished image and sends it with the stats
func (s *Server) handleRenderComplete(ctx context.Context, sseEventChan chan SSEEvent, pipeline *RenderingPipeline, stats renderer.RenderStats, elapsed time.Duration) {
	img := pipeline.Image.Image()
	imageData, err := s.imageToBase64PNG(img)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	result := RenderResult{
		ImageData: imageData,
		Width:     pipeline.Image.Nx(),
		Height:    pipeline.Image.Ny(),
		ElapsedMs: elapsed.Milliseconds(),
		Stats: Stats{
			TotalPixels: stats.TotalPixels,
			TotalRays:   stats.TotalRays,
			AverageRays: stats.AverageRays,
			MinRays:     stats.MinRays,
			MaxRays:     stats.MaxRays,
			Workers:     stats.Workers,
		},
		PrimitiveCount:   pipeline.Scene.PrimitiveCount(),
		AverageLuminance: renderer.CalculateAverageLuminance(img),
	}

	data, err := json.Marshal(result)
	if err != nil {
		log.Printf("Error marshaling render result: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "result", Data: string(data)}:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
