package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"panda-dof", "Panda Dof"},
		{"two_spheres", "Two Spheres"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParseSceneMetadata(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name: "complete_metadata.yaml",
			content: `# Scene: Panda
# Variant: Depth of Field
# Description: Panda in a mirrored room
# Group: Depth of Field

name: Panda`,
			expected: SceneInfo{
				ID:          "yaml:complete_metadata",
				Name:        "Panda",
				DisplayName: "Panda - Depth of Field",
				Description: "Panda in a mirrored room",
				Group:       "Depth of Field",
				Type:        "yaml",
				Variant:     "Depth of Field",
			},
		},
		{
			name: "partial_metadata.yaml",
			content: `# Scene: Mirrors
# Description: Two mirrors

name: Mirrors`,
			expected: SceneInfo{
				ID:          "yaml:partial_metadata",
				Name:        "Mirrors",
				DisplayName: "Mirrors",
				Description: "Two mirrors",
				Group:       "Scene Files", // Default group
				Type:        "yaml",
			},
		},
		{
			name:    "no_metadata.yaml",
			content: `name: Plain`,
			expected: SceneInfo{
				ID:          "yaml:no_metadata",
				Name:        "No Metadata", // From filename
				DisplayName: "No Metadata",
				Group:       "Scene Files",
				Type:        "yaml",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.name)
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatalf("Failed to write temp file: %v", err)
			}

			result, err := ParseSceneMetadata(path)
			if err != nil {
				t.Fatalf("ParseSceneMetadata() error: %v", err)
			}

			tc.expected.FilePath = path
			if result != tc.expected {
				t.Errorf("ParseSceneMetadata() = %+v, want %+v", result, tc.expected)
			}
		})
	}
}

func TestParseSceneMetadata_InvalidFile(t *testing.T) {
	// Should not return error, should use fallback values
	if _, err := ParseSceneMetadata("nonexistent.yaml"); err != nil {
		t.Errorf("ParseSceneMetadata() should handle missing files gracefully")
	}
}

func TestParseSceneMetadata_EdgeCases(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{
			name: "malformed_comments.yaml",
			content: `#Scene: Missing space
#Variant:
# Description:   Extra spaces
#Group:

name: x`,
		},
		{
			name: "mixed_content.yaml",
			content: `# Scene: Test Scene
name: x
# This comment should be ignored
# Variant: Test Variant`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.name)
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatalf("Failed to write temp file: %v", err)
			}

			result, err := ParseSceneMetadata(path)
			if err != nil {
				t.Errorf("ParseSceneMetadata() should handle malformed metadata: %v", err)
			}
			if result.ID == "" || result.DisplayName == "" {
				t.Error("ParseSceneMetadata() should populate basic fields even with malformed metadata")
			}
			if result.Variant != "" {
				t.Errorf("Expected variant after the header to be ignored, got %q", result.Variant)
			}
		})
	}
}

// withScenesDir points discovery at dir for the duration of the test
func withScenesDir(t *testing.T, dir string) {
	t.Helper()
	saved := ScenesDirs
	ScenesDirs = []string{dir}
	t.Cleanup(func() { ScenesDirs = saved })
}

func TestListSceneFiles(t *testing.T) {
	dir := t.TempDir()
	withScenesDir(t, dir)

	files := map[string]string{
		"b-scene.yaml": "# Scene: Beta\nname: b\n",
		"a-scene.yml":  "# Scene: Alpha\nname: a\n",
		"notes.txt":    "not a scene",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	scenes, err := ListSceneFiles()
	if err != nil {
		t.Fatalf("ListSceneFiles() error: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("Expected 2 scene files, got %d", len(scenes))
	}
	if scenes[0].Name != "Alpha" || scenes[1].Name != "Beta" {
		t.Errorf("Expected scenes sorted by display name, got %q then %q", scenes[0].Name, scenes[1].Name)
	}
}

func TestListSceneFiles_MissingDirectory(t *testing.T) {
	withScenesDir(t, filepath.Join(t.TempDir(), "missing"))

	scenes, err := ListSceneFiles()
	if err != nil {
		t.Errorf("ListSceneFiles() error: %v", err)
	}
	if scenes == nil || len(scenes) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", scenes)
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	withScenesDir(t, dir)
	content := "# Scene: Extra\n# Group: Extras\nname: extra\n"
	if err := os.WriteFile(filepath.Join(dir, "extra.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	response, err := ListAllScenes()
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}
	if len(response.Groups) != 2 {
		t.Fatalf("Expected built-in and Extras groups, got %d groups", len(response.Groups))
	}

	builtInGroup := response.Groups[0]
	if builtInGroup.Name != "Built-in Scenes" {
		t.Fatalf("Expected Built-in Scenes first, got %q", builtInGroup.Name)
	}
	if len(builtInGroup.Scenes) != len(Builtins()) {
		t.Errorf("Built-in scenes count = %d, want %d", len(builtInGroup.Scenes), len(Builtins()))
	}

	for _, group := range response.Groups {
		for _, scene := range group.Scenes {
			if scene.ID == "" || scene.DisplayName == "" {
				t.Errorf("Scene missing ID or DisplayName: %+v", scene)
			}
			if scene.Type != "builtin" && scene.Type != "yaml" {
				t.Errorf("Invalid scene type: %s", scene.Type)
			}
			if scene.Type == "yaml" && !strings.HasPrefix(scene.ID, "yaml:") {
				t.Errorf("Scene file ID should start with 'yaml:': %s", scene.ID)
			}
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	withScenesDir(t, dir)
	path := filepath.Join(dir, "front.yaml")
	content := `name: Front
geometries:
  - {type: sphere, center: [0, 0, -50], radius: 25}
camera:
  location: [0, 0, 1000]
  to: [0, 0, -1]
  up: [0, 1, 0]
  width: 150
  height: 150
  distance: 1000
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		id       string
		expected string
	}{
		{"red-sphere", "Red Sphere"},
		{"yaml:front", "Front"},
		{path, "Front"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s, err := Load(tt.id)
			if err != nil {
				t.Fatalf("Load(%q) error: %v", tt.id, err)
			}
			if s.Name != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, s.Name)
			}
		})
	}

	if _, err := Load("yaml:missing"); !errors.Is(err, ErrInvalidScene) {
		t.Errorf("Expected ErrInvalidScene for missing file scene, got %v", err)
	}
}
