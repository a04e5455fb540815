// Package ide discovers and launches JetBrains Rider.
package ide

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrRiderNotFound means no Rider executable could be located.
var ErrRiderNotFound = errors.New("rider not found")

// riderProfilePrefix matches the folder names the standalone Windows
// installer creates, e.g. "JetBrains Rider 2024.1".
const riderProfilePrefix = "JetBrains Rider"

// Discover returns the Rider executable to launch. A configured path
// wins outright; otherwise the platform's usual install locations are
// probed, then PATH.
func Discover(configured string) (string, error) {
	if configured != "" {
		if fileExists(configured) {
			return configured, nil
		}
		return "", fmt.Errorf("%w: configured rider_path does not exist: %s", ErrRiderNotFound, configured)
	}

	home, _ := os.UserHomeDir()
	return discover(runtime.GOOS, os.Getenv, home)
}

func discover(goos string, getenv func(string) string, home string) (string, error) {
	for _, path := range candidatePaths(goos, getenv, home) {
		if fileExists(path) {
			return path, nil
		}
	}
	if path, err := exec.LookPath("rider"); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("%w: set rider_path in the config to pin it", ErrRiderNotFound)
}

// candidatePaths lists the install locations to probe, most specific
// first. The Windows list also scans the user profile for standalone
// "JetBrains Rider <version>" installs.
func candidatePaths(goos string, getenv func(string) string, home string) []string {
	var paths []string

	switch goos {
	case "windows":
		if localAppData := getenv("LOCALAPPDATA"); localAppData != "" {
			paths = append(paths, filepath.Join(localAppData, "Programs", "Rider", "bin", "rider64.exe"))
		}
		if programFiles := getenv("ProgramFiles"); programFiles != "" {
			paths = append(paths, filepath.Join(programFiles, "JetBrains", "Rider", "bin", "rider64.exe"))
		}
		if programFilesX86 := getenv("ProgramFiles(x86)"); programFilesX86 != "" {
			paths = append(paths, filepath.Join(programFilesX86, "JetBrains", "Rider", "bin", "rider64.exe"))
		}
		if profile := getenv("USERPROFILE"); profile != "" {
			paths = append(paths, profileInstalls(profile)...)
		}
	case "darwin":
		paths = append(paths,
			"/Applications/Rider.app/Contents/MacOS/rider",
		)
		if home != "" {
			paths = append(paths, filepath.Join(home, "Applications", "Rider.app", "Contents", "MacOS", "rider"))
		}
	default:
		if home != "" {
			paths = append(paths, filepath.Join(home, ".local", "share", "JetBrains", "Toolbox", "apps", "rider", "bin", "rider.sh"))
		}
		paths = append(paths,
			"/opt/rider/bin/rider.sh",
			"/snap/rider/current/bin/rider.sh",
		)
	}
	return paths
}

// profileInstalls scans a Windows user profile for standalone Rider
// installs. Unreadable directories are simply skipped.
func profileInstalls(profile string) []string {
	entries, err := os.ReadDir(profile)
	if err != nil {
		return nil
	}

	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), riderProfilePrefix) {
			continue
		}
		exe := filepath.Join(profile, entry.Name(), "bin", "rider64.exe")
		if fileExists(exe) {
			paths = append(paths, exe)
		}
	}
	return paths
}

// Launch starts Rider on the project file and detaches; the IDE outlives
// this process.
func Launch(riderPath, projectFile string) error {
	cmd := exec.Command(riderPath, projectFile)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch rider: %w", err)
	}
	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("detach rider: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
