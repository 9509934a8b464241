package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-recursive-raytracer/pkg/renderer"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

func main() {
	// Parse command line flags
	sceneType := flag.String("scene", "red-sphere", "Built-in scene, 'yaml:<name>' or path to a scene file")
	width := flag.Int("width", 0, "Image width in pixels (0 uses the scene default)")
	height := flag.Int("height", 0, "Image height in pixels (0 uses the scene default)")
	threads := flag.Int("threads", -1, "Render workers (0 for one per CPU, -1 uses the scene default)")
	maxLevel := flag.Int("max-level", 0, "Reflection and refraction depth (0 uses the scene default)")
	list := flag.Bool("list", false, "List available scenes")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Recursive Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
		return
	}

	if *list {
		if err := listScenes(); err != nil {
			fmt.Printf("Error listing scenes: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("Starting Recursive Raytracer...")

	selectedScene, err := createScene(*sceneType)
	if err != nil {
		fmt.Printf("Error loading scene: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Using %s scene (%d primitives, %d lights)...\n",
		selectedScene.Name, selectedScene.PrimitiveCount(), len(selectedScene.Lights))

	rc := applyOverrides(selectedScene.RenderConfig, *width, *height, *threads, *maxLevel)
	filename := outputFilename(*sceneType, time.Now())

	stats, err := render(selectedScene, rc, filename)
	if err != nil {
		fmt.Printf("Error rendering scene: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Rays per pixel: %.1f (range %d - %d) on %d workers\n",
		stats.AverageRays, stats.MinRays, stats.MaxRays, stats.Workers)
	fmt.Printf("Render saved as %s\n", filename)
}

// createScene resolves a built-in scene ID, a "yaml:" scene ID or a scene file path
func createScene(sceneType string) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, fmt.Errorf("no scene given")
	}
	return scene.Load(sceneType)
}

// applyOverrides replaces the scene's render settings with any flag given
func applyOverrides(rc scene.RenderConfig, width, height, threads, maxLevel int) scene.RenderConfig {
	if width > 0 {
		rc.Width = width
	}
	if height > 0 {
		rc.Height = height
	}
	if threads >= 0 {
		rc.Threads = threads
	}
	if maxLevel > 0 {
		rc.MaxLevel = maxLevel
	}
	return rc
}

// outputName turns a scene ID or path into a directory name
func outputName(sceneType string) string {
	name := strings.TrimPrefix(sceneType, "yaml:")
	name = filepath.Base(name)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// outputFilename returns output/<scene>/render_<timestamp>.png
func outputFilename(sceneType string, t time.Time) string {
	timestamp := t.Format("20060102_150405")
	return filepath.Join("output", outputName(sceneType), fmt.Sprintf("render_%s.png", timestamp))
}

func render(s *scene.Scene, rc scene.RenderConfig, filename string) (renderer.RenderStats, error) {
	tracer, err := renderer.NewRaytracer(s, renderer.TracerConfig{MaxLevel: rc.MaxLevel, MinK: rc.MinK})
	if err != nil {
		return renderer.RenderStats{}, err
	}
	img, err := renderer.NewImageWriter(filename, rc.Width, rc.Height)
	if err != nil {
		return renderer.RenderStats{}, err
	}

	camera, err := renderer.NewCameraBuilderFromConfig(s.CameraConfig).
		WithImageWriter(img).
		WithRayTracer(tracer).
		WithThreads(rc.Threads).
		WithDebugPrint(rc.ProgressInterval).
		WithLogger(renderer.NewDefaultLogger()).
		Build()
	if err != nil {
		return renderer.RenderStats{}, err
	}

	stats, err := camera.Render(context.Background())
	if err != nil {
		return stats, err
	}
	return stats, camera.WriteToImage()
}

func listScenes() error {
	response, err := scene.ListAllScenes()
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Printf("%s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Printf("  %-22s %s\n", info.ID, info.DisplayName)
		}
	}
	return nil
}
