package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	builtinGroup     = "Built-in Scenes"
	defaultFileGroup = "Scene Files"
	yamlPrefix       = "yaml:"
)

// ScenesDirs are the directories searched for scene files, in order
var ScenesDirs = []string{"scenes", "../scenes"}

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "yaml"
	FilePath    string `json:"filePath"`    // Path to scene file (yaml type only)
	Variant     string `json:"variant"`     // Variant name (optional)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

func scenesDir() string {
	for _, path := range ScenesDirs {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}

// ListSceneFiles scans the scenes directory and returns discovered YAML scenes
func ListSceneFiles() ([]SceneInfo, error) {
	dir := scenesDir()
	if dir == "" {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %v", err)
		}
		files = append(files, matches...)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneMetadata extracts metadata from scene file header comments
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          yamlPrefix + nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       defaultFileGroup,
		Type:        "yaml",
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		// If we can't read the file, return with fallback values
		return sceneInfo, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}

		content, ok := strings.CutPrefix(line, "# ")
		if !ok {
			continue
		}
		if v, ok := strings.CutPrefix(content, "Scene:"); ok {
			sceneInfo.Name = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(content, "Variant:"); ok {
			sceneInfo.Variant = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(content, "Description:"); ok {
			sceneInfo.Description = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(content, "Group:"); ok {
			sceneInfo.Group = strings.TrimSpace(v)
		}
	}

	if sceneInfo.Variant != "" {
		sceneInfo.DisplayName = fmt.Sprintf("%s - %s", sceneInfo.Name, sceneInfo.Variant)
	} else {
		sceneInfo.DisplayName = sceneInfo.Name
	}

	return sceneInfo, scanner.Err()
}

// ListAllScenes returns both built-in and file scenes, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	var allScenes []SceneInfo
	for _, b := range Builtins() {
		allScenes = append(allScenes, SceneInfo{
			ID:          b.ID,
			Name:        b.Name,
			DisplayName: b.Name,
			Description: b.Description,
			Group:       builtinGroup,
			Type:        "builtin",
		})
	}

	fileScenes, err := ListSceneFiles()
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %v", err)
	}
	allScenes = append(allScenes, fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if builtInGroup, exists := groupMap[builtinGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   builtinGroup,
			Scenes: builtInGroup,
		})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// Load resolves a scene by built-in ID, "yaml:<name>" ID or file path
func Load(id string) (*Scene, error) {
	if ext := filepath.Ext(id); ext == ".yaml" || ext == ".yml" {
		return LoadSceneFile(id)
	}
	if name, ok := strings.CutPrefix(id, yamlPrefix); ok {
		files, err := ListSceneFiles()
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if f.ID == id {
				return LoadSceneFile(f.FilePath)
			}
		}
		return nil, fmt.Errorf("%w: scene file %q not found", ErrInvalidScene, name)
	}
	return NewBuiltin(id)
}

// titleCase converts a filename-style string to title case
// e.g., "two-spheres" -> "Two Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
