package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to the scene file (json type only)
	Spheres     int    `json:"spheres"`     // Number of spheres
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

// FindScenesDir returns the first existing scenes directory, or "scenes"
func FindScenesDir() string {
	for _, path := range []string{"scenes", "../scenes"} {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return "scenes"
}

// ListJSONScenes scans dir for *.json scene files. A missing directory yields an empty list.
func ListJSONScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		info, err := parseSceneMetadata(filePath)
		if err != nil {
			// Skip unreadable files, keep the rest
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// parseSceneMetadata loads a scene file and extracts its listing metadata
func parseSceneMetadata(filePath string) (SceneInfo, error) {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	sc, err := Load(filePath)
	if err != nil {
		return SceneInfo{}, err
	}

	info := SceneInfo{
		ID:          nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		Description: sc.Description,
		Group:       "Scene Files",
		Type:        "json",
		FilePath:    filePath,
		Spheres:     len(sc.Spheres),
	}
	if sc.Name != "" {
		info.Name = sc.Name
	}
	if sc.Group != "" {
		info.Group = sc.Group
	}
	return info, nil
}

// ListAllScenes returns built-in scenes and the scene files in dir, grouped by category.
// Built-in scenes come first, other groups follow alphabetically.
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	var allScenes []SceneInfo
	for _, id := range BuiltInNames() {
		sc := builtIns[id]()
		allScenes = append(allScenes, SceneInfo{
			ID:          id,
			Name:        titleCase(id),
			Description: sc.Description,
			Group:       BuiltInGroup,
			Type:        "builtin",
			Spheres:     len(sc.Spheres),
		})
	}

	fileScenes, err := ListJSONScenes(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}
	allScenes = append(allScenes, fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, info := range allScenes {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	var groupNames []string
	for groupName := range groupMap {
		if groupName != BuiltInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if builtInGroup, exists := groupMap[BuiltInGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   BuiltInGroup,
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

// titleCase converts a filename-style string to title case
// e.g., "red-sphere" -> "Red Sphere"
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
