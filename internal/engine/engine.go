// Package engine locates an Unreal Engine installation and plans the
// script invocations handed to the runner.
package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	// ErrRootNotFound means the configured engine root is absent.
	ErrRootNotFound = errors.New("engine root not found")
	// ErrScriptNotFound means the engine exists but lacks the wanted
	// script. Installed (non-source) engine builds ship without
	// GenerateProjectFiles, for example.
	ErrScriptNotFound = errors.New("engine script not found")
)

// Installation is a validated Unreal Engine root directory.
type Installation struct {
	Root string
}

// Locate checks the engine root and returns it in absolute form.
func Locate(root string) (*Installation, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: engine path is empty", ErrRootNotFound)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve engine path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, abs)
	}
	return &Installation{Root: abs}, nil
}

// Plan is one engine script invocation, ready to hand to a runner. Engine
// batch files assume the engine root as their working directory.
type Plan struct {
	Script string
	Args   []string
	Dir    string
}

// Target selects what a build plan compiles. Empty Platform and
// BuildConfig fall back to the host platform and Development.
type Target struct {
	ProjectFile string
	Platform    string
	BuildConfig string
}

// GenerateProjectFiles plans a project file regeneration.
func (i *Installation) GenerateProjectFiles() (*Plan, error) {
	return i.generatePlan(runtime.GOOS)
}

func (i *Installation) generatePlan(goos string) (*Plan, error) {
	script := generateScript(i.Root, goos)
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrScriptNotFound, script)
	}
	return &Plan{Script: script, Dir: i.Root}, nil
}

// Build plans an editor build of the target project.
func (i *Installation) Build(target Target) (*Plan, error) {
	return i.buildPlan(runtime.GOOS, target)
}

func (i *Installation) buildPlan(goos string, target Target) (*Plan, error) {
	script := buildScript(i.Root, goos)
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrScriptNotFound, script)
	}

	platform := target.Platform
	if platform == "" {
		platform = hostPlatform(goos)
	}
	buildConfig := target.BuildConfig
	if buildConfig == "" {
		buildConfig = "Development"
	}
	project, err := filepath.Abs(target.ProjectFile)
	if err != nil {
		return nil, fmt.Errorf("resolve project file: %w", err)
	}

	return &Plan{
		Script: script,
		Args:   []string{EditorTarget(project), platform, buildConfig, project},
		Dir:    i.Root,
	}, nil
}

// EditorTarget derives the UnrealBuildTool editor target from a project
// file name: Sandbox.uproject builds SandboxEditor.
func EditorTarget(projectFile string) string {
	base := filepath.Base(projectFile)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "Editor"
}

func generateScript(root, goos string) string {
	if goos == "windows" {
		return filepath.Join(root, "GenerateProjectFiles.bat")
	}
	return filepath.Join(root, "GenerateProjectFiles.sh")
}

func buildScript(root, goos string) string {
	batchFiles := filepath.Join(root, "Engine", "Build", "BatchFiles")
	switch goos {
	case "windows":
		return filepath.Join(batchFiles, "Build.bat")
	case "darwin":
		return filepath.Join(batchFiles, "Mac", "Build.sh")
	default:
		return filepath.Join(batchFiles, "Linux", "Build.sh")
	}
}

// hostPlatform maps the OS to UnrealBuildTool's platform argument.
func hostPlatform(goos string) string {
	switch goos {
	case "windows":
		return "Win64"
	case "darwin":
		return "Mac"
	default:
		return "Linux"
	}
}
