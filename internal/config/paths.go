package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExecutableDir returns the directory holding the running binary, falling
// back to the working directory.
func ExecutableDir() string {
	if exe, err := os.Executable(); err == nil && exe != "" {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// ResolveRuntimePath resolves a relative runtime directory against ExecutableDir.
func ResolveRuntimePath(raw, fallback string) string {
	target := strings.TrimSpace(raw)
	if target == "" {
		target = fallback
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(ExecutableDir(), target)
}
