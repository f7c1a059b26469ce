package runtime

import (
	"context"

	"github.com/rs/zerolog/log"
)

// CacheProvisioner provides one pinned runtime from a ToolCache.
type CacheProvisioner struct {
	Cache       *ToolCache
	Tool        string
	VersionSpec string
	Arch        string
}

// NewCacheProvisioner creates a provisioner for tool at versionSpec/arch.
func NewCacheProvisioner(cache *ToolCache, tool, versionSpec, arch string) *CacheProvisioner {
	return &CacheProvisioner{
		Cache:       cache,
		Tool:        tool,
		VersionSpec: versionSpec,
		Arch:        arch,
	}
}

// Provision resolves the pinned runtime.
func (p *CacheProvisioner) Provision(ctx context.Context) (*Installation, error) {
	return p.Cache.Provision(ctx, p.Tool, p.VersionSpec, p.Arch)
}

// SystemProvisioner uses whatever runtime is already on PATH.
type SystemProvisioner struct {
	Tool string
}

// Provision returns the system installation.
func (p *SystemProvisioner) Provision(ctx context.Context) (*Installation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Warn().Str("tool", p.Tool).Msg("runtime provisioning skipped, using PATH")
	return System(p.Tool), nil
}
