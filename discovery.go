// FILE: lixenwraith/property/discovery.go
package property

import (
	"os"
	"path/filepath"
	"strings"
)

// RootDiscoveryOptions configures automatic resource root discovery
type RootDiscoveryOptions struct {
	// Application name, used for the XDG directory and the default env var
	Name string

	// File that must exist in a candidate directory (empty accepts any directory)
	Marker string

	// Custom search paths, tried before the defaults
	Paths []string

	// Environment variable naming an explicit root
	EnvVar string

	// CLI flag naming an explicit root (e.g. "--root")
	CLIFlag string

	// Command-line arguments scanned for CLIFlag
	Args []string

	// Whether to search in XDG config directories
	UseXDG bool

	// Whether to search in current directory
	UseCurrentDir bool
}

// DefaultRootDiscoveryOptions returns sensible defaults
func DefaultRootDiscoveryOptions(appName string) RootDiscoveryOptions {
	return RootDiscoveryOptions{
		Name:          appName,
		EnvVar:        strings.ToUpper(strings.ReplaceAll(appName, "-", "_")) + "_PROPERTY_ROOT",
		CLIFlag:       "--root",
		Args:          os.Args[1:],
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// DiscoverRoot finds the resource root directory.
// Explicit CLI and environment settings win without checks; search paths must hold the marker.
func DiscoverRoot(opts RootDiscoveryOptions) (string, bool) {
	if opts.CLIFlag != "" {
		for i, arg := range opts.Args {
			if arg == opts.CLIFlag && i+1 < len(opts.Args) {
				return opts.Args[i+1], true
			}
			if v, ok := strings.CutPrefix(arg, opts.CLIFlag+"="); ok {
				return v, true
			}
		}
	}

	if opts.EnvVar != "" {
		if dir := os.Getenv(opts.EnvVar); dir != "" {
			return dir, true
		}
	}

	var searchPaths []string
	searchPaths = append(searchPaths, opts.Paths...)
	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			searchPaths = append(searchPaths, cwd)
		}
	}
	if opts.UseXDG && opts.Name != "" {
		searchPaths = append(searchPaths, xdgConfigPaths(opts.Name)...)
	}

	for _, dir := range searchPaths {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		if opts.Marker == "" {
			return dir, true
		}
		if _, err := os.Stat(filepath.Join(dir, opts.Marker)); err == nil {
			return dir, true
		}
	}

	// No root found is not an error; callers fall back to the working directory
	return "", false
}

// WithDiscoveredRoot sets the resource root to the discovered directory, if any
func WithDiscoveredRoot(opts RootDiscoveryOptions) Option {
	return func(o *resourceOptions) {
		if dir, ok := DiscoverRoot(opts); ok {
			WithRoot(dir)(o)
		}
	}
}

// xdgConfigPaths returns XDG-compliant config search paths
func xdgConfigPaths(appName string) []string {
	var paths []string

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		paths = append(paths,
			filepath.Join("/etc/xdg", appName),
			filepath.Join("/etc", appName),
		)
	}

	return paths
}
