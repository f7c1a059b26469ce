// Package runtime locates a pre-installed language runtime in the runner's
// tool cache and exposes it to the commands that follow.
//
// The cache layout is the one hosted runners use:
//
//	<root>/<tool>/<version>/<arch>/
//	<root>/<tool>/<version>/<arch>.complete
//
// A version directory only counts once its .complete marker exists.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	goruntime "runtime"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/mod/semver"
)

// ErrNotCached is returned when no cached version matches the request.
var ErrNotCached = errors.New("not found in the tool cache")

// ProvisioningError reports a runtime that could not be provided.
type ProvisioningError struct {
	Tool        string
	VersionSpec string
	Arch        string
	Err         error
}

// Error implements the error interface.
func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("%s version %s with arch %s: %v", e.Tool, e.VersionSpec, e.Arch, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

// Installation is a runtime ready to use.
type Installation struct {
	Tool    string
	Version string
	Arch    string

	// Dir is the installation root. Empty for the system runtime.
	Dir string
}

// System returns an Installation that defers to whatever is on PATH.
func System(tool string) *Installation {
	return &Installation{Tool: tool, Version: "system"}
}

// BinDirs returns the directories holding the runtime's executables.
func (i *Installation) BinDirs() []string {
	if i.Dir == "" {
		return nil
	}
	if goruntime.GOOS == "windows" {
		return []string{i.Dir, filepath.Join(i.Dir, "Scripts")}
	}
	return []string{i.Dir, filepath.Join(i.Dir, "bin")}
}

// Env returns environment entries that put the installation first on PATH.
func (i *Installation) Env() []string {
	dirs := i.BinDirs()
	if len(dirs) == 0 {
		return nil
	}
	path := strings.Join(dirs, string(os.PathListSeparator))
	if current := os.Getenv("PATH"); current != "" {
		path += string(os.PathListSeparator) + current
	}
	return []string{
		"PATH=" + path,
		"pythonLocation=" + i.Dir,
	}
}

// LookPath returns the absolute path of name inside the installation, or
// name unchanged when the installation does not ship it.
func (i *Installation) LookPath(name string) string {
	for _, dir := range i.BinDirs() {
		candidate := filepath.Join(dir, name)
		if goruntime.GOOS == "windows" && filepath.Ext(candidate) == "" {
			candidate += ".exe"
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return name
}

// ToolCache finds runtimes below a cache root.
type ToolCache struct {
	Root string
}

// NewToolCache creates a ToolCache rooted at root.
func NewToolCache(root string) *ToolCache {
	return &ToolCache{Root: root}
}

// Versions returns the completed versions cached for tool and arch,
// highest first.
func (c *ToolCache) Versions(tool, arch string) ([]string, error) {
	toolDir := filepath.Join(c.Root, tool)
	entries, err := os.ReadDir(toolDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read tool cache: %w", err)
	}

	var versions []string
	for _, entry := range entries {
		if !entry.IsDir() || !semver.IsValid("v"+entry.Name()) {
			continue
		}
		marker := filepath.Join(toolDir, entry.Name(), arch+".complete")
		if _, err := os.Stat(marker); err != nil {
			continue
		}
		versions = append(versions, entry.Name())
	}

	sort.Slice(versions, func(a, b int) bool {
		return semver.Compare("v"+versions[a], "v"+versions[b]) > 0
	})
	return versions, nil
}

// Find returns the highest cached version of tool matching versionSpec.
func (c *ToolCache) Find(tool, versionSpec, arch string) (*Installation, error) {
	versions, err := c.Versions(tool, arch)
	if err != nil {
		return nil, &ProvisioningError{Tool: tool, VersionSpec: versionSpec, Arch: arch, Err: err}
	}

	for _, v := range versions {
		if MatchVersion(versionSpec, v) {
			return &Installation{
				Tool:    tool,
				Version: v,
				Arch:    arch,
				Dir:     filepath.Join(c.Root, tool, v, arch),
			}, nil
		}
	}

	return nil, &ProvisioningError{Tool: tool, VersionSpec: versionSpec, Arch: arch, Err: ErrNotCached}
}

// Provision resolves the runtime and logs what was selected.
func (c *ToolCache) Provision(ctx context.Context, tool, versionSpec, arch string) (*Installation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	inst, err := c.Find(tool, versionSpec, arch)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("tool", tool).
		Str("version", inst.Version).
		Str("arch", arch).
		Str("dir", inst.Dir).
		Msg("using cached runtime")

	return inst, nil
}

// MatchVersion reports whether version satisfies spec. A spec is a dotted
// prefix whose parts may be "x" or "*", e.g. "3.8.x", "3.8", "3".
func MatchVersion(spec, version string) bool {
	spec = strings.TrimPrefix(strings.TrimSpace(spec), "v")
	if spec == "" || spec == "x" || spec == "*" {
		return true
	}

	// Prerelease and build suffixes never satisfy a plain spec.
	if strings.ContainsAny(version, "-+") && !strings.ContainsAny(spec, "-+") {
		return false
	}

	specParts := strings.Split(spec, ".")
	versionParts := strings.Split(version, ".")
	if len(specParts) > len(versionParts) {
		return false
	}
	for i, part := range specParts {
		if part == "x" || part == "X" || part == "*" {
			continue
		}
		if part != versionParts[i] {
			return false
		}
	}
	return true
}
