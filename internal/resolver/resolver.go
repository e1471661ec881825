// Package resolver implements the Project Resolver: it turns a SearchIntent
// into zero or more ResolvedProjects by querying Modrinth and CurseForge,
// scoring fuzzy candidates, and filtering by Minecraft-version/loader
// compatibility.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/inherent-design/empack/internal/providers"

	"golang.org/x/sync/errgroup"
)

// ErrAllRegistriesUnavailable is returned when both registries fail a Fuzzy
// search. ExactSlug and ExactID lookups return each registry's own error
// instead.
var ErrAllRegistriesUnavailable = errors.New("all registries unavailable")

// Warning is a non-fatal condition surfaced alongside a (possibly partial)
// resolve result, e.g. one registry of several failing.
type Warning struct {
	Message string
}

func (w Warning) Error() string { return w.Message }

// Resolver implements providers.ProjectResolver against live or mock
// registry clients.
type Resolver struct {
	modrinth   *modrinthClient
	curseforge *curseforgeClient
	topN       int
}

var _ providers.ProjectResolver = (*Resolver)(nil)

// New builds a Resolver with base URLs and an API key drawn from AppConfig.
func New(client providers.HttpClient, cfg providers.AppConfig) *Resolver {
	topN := cfg.ResolverTopN
	if topN <= 0 {
		topN = 5
	}
	return &Resolver{
		modrinth:   &modrinthClient{http: client, baseURL: cfg.ModrinthBaseURL},
		curseforge: &curseforgeClient{http: client, baseURL: cfg.CurseForgeBaseURL, apiKey: cfg.CurseForgeAPIKey},
		topN:       topN,
	}
}

// Resolve implements providers.ProjectResolver.
func (r *Resolver) Resolve(ctx context.Context, intent providers.SearchIntent, minecraftVersion string, loaderFamilies []string) ([]providers.ResolvedProject, []error) {
	switch intent.Kind {
	case providers.IntentExactID:
		return r.resolveExactID(ctx, intent, minecraftVersion, loaderFamilies)
	case providers.IntentExactSlug:
		return r.resolveExactSlug(ctx, intent, minecraftVersion, loaderFamilies)
	default:
		return r.resolveFuzzy(ctx, intent, minecraftVersion, loaderFamilies)
	}
}

func (r *Resolver) resolveExactID(ctx context.Context, intent providers.SearchIntent, mcVersion string, loaders []string) ([]providers.ResolvedProject, []error) {
	var cand candidate
	var err error
	switch intent.Source {
	case providers.SourceCurseForge:
		cand, err = r.curseforge.getProject(ctx, intent.ID)
	default:
		cand, err = r.modrinth.getProject(ctx, intent.ID)
	}
	if err != nil {
		return nil, []error{fmt.Errorf("project %s not found: %w", intent.ID, err)}
	}
	cand.confidence = 1.0
	resolved, err := r.materialize(ctx, cand, mcVersion, loaders)
	if err != nil {
		return nil, []error{err}
	}
	if resolved == nil {
		return nil, nil
	}
	return []providers.ResolvedProject{*resolved}, nil
}

func (r *Resolver) resolveExactSlug(ctx context.Context, intent providers.SearchIntent, mcVersion string, loaders []string) ([]providers.ResolvedProject, []error) {
	var errs []error

	if cand, err := r.modrinth.getProjectBySlug(ctx, intent.Slug); err == nil {
		cand.confidence = 1.0
		if resolved, merr := r.materialize(ctx, cand, mcVersion, loaders); merr == nil && resolved != nil {
			return []providers.ResolvedProject{*resolved}, nil
		} else if merr != nil {
			errs = append(errs, merr)
		}
	} else {
		errs = append(errs, err)
	}

	if cand, err := r.curseforge.getProjectBySlug(ctx, intent.Slug); err == nil {
		cand.confidence = 1.0
		if resolved, merr := r.materialize(ctx, cand, mcVersion, loaders); merr == nil && resolved != nil {
			return []providers.ResolvedProject{*resolved}, nil
		} else if merr != nil {
			errs = append(errs, merr)
		}
	} else {
		errs = append(errs, err)
	}

	return nil, errs
}

func (r *Resolver) resolveFuzzy(ctx context.Context, intent providers.SearchIntent, mcVersion string, loaders []string) ([]providers.ResolvedProject, []error) {
	var modrinthHits, curseforgeHits []candidate
	var modrinthErr, curseforgeErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		modrinthHits, modrinthErr = r.modrinth.search(gctx, intent.Query)
		return nil // failures are collected, not propagated, for partial-failure safety
	})
	g.Go(func() error {
		curseforgeHits, curseforgeErr = r.curseforge.search(gctx, intent.Query)
		return nil
	})
	_ = g.Wait()

	var errs []error
	if modrinthErr != nil {
		errs = append(errs, fmt.Errorf("modrinth search failed: %w", modrinthErr))
	}
	if curseforgeErr != nil {
		errs = append(errs, fmt.Errorf("curseforge search failed: %w", curseforgeErr))
	}
	if modrinthErr != nil && curseforgeErr != nil {
		return nil, append(errs, ErrAllRegistriesUnavailable)
	}

	all := append(modrinthHits, curseforgeHits...)
	scored := scoreCandidates(all, intent.Query)

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].confidence != scored[j].confidence {
			return scored[i].confidence > scored[j].confidence
		}
		if scored[i].source != scored[j].source {
			return scored[i].source.String() < scored[j].source.String()
		}
		return scored[i].slug < scored[j].slug
	})

	if len(scored) > r.topN {
		scored = scored[:r.topN]
	}

	var resolved []providers.ResolvedProject
	for _, cand := range scored {
		rp, err := r.materialize(ctx, cand, mcVersion, loaders)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if rp != nil {
			resolved = append(resolved, *rp)
		}
	}

	return resolved, errs
}

// materialize fetches versions for a candidate and keeps the most recent
// one compatible with mcVersion and one of the loader families, dropping
// the candidate entirely if none match.
func (r *Resolver) materialize(ctx context.Context, cand candidate, mcVersion string, loaders []string) (*providers.ResolvedProject, error) {
	var versions []providers.ResolvedVersion
	var err error
	switch cand.source {
	case providers.SourceCurseForge:
		versions, err = r.curseforge.getVersions(ctx, cand.id)
	default:
		versions, err = r.modrinth.getVersions(ctx, cand.id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch versions for %s: %w", cand.slug, err)
	}

	selected, ok := mostRecentCompatible(versions, mcVersion, loaders)
	if !ok {
		return nil, nil
	}

	return &providers.ResolvedProject{
		ProjectID:          cand.id,
		Slug:               cand.slug,
		DisplayName:        cand.name,
		Source:             cand.source,
		CompatibleVersions: versions,
		SelectedVersion:    selected,
		Confidence:         cand.confidence,
	}, nil
}

func mostRecentCompatible(versions []providers.ResolvedVersion, mcVersion string, loaders []string) (providers.ResolvedVersion, bool) {
	for _, v := range versions {
		if !containsString(v.GameVersions, mcVersion) {
			continue
		}
		if !anyLoaderMatches(v.Loaders, loaders) {
			continue
		}
		return v, true
	}
	return providers.ResolvedVersion{}, false
}

func anyLoaderMatches(versionLoaders, families []string) bool {
	for _, vl := range versionLoaders {
		for _, f := range families {
			if strings.EqualFold(vl, f) {
				return true
			}
		}
	}
	return false
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
