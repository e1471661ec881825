package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/inherent-design/empack/internal/providers"
)

// maxAPIResponseBytes guards against a misbehaving registry sending an
// unbounded body; both registries' search/version payloads are small JSON
// documents and should never approach this size.
const maxAPIResponseBytes = 8 << 20 // 8 MiB

// modrinthClient talks to the Modrinth v2 API.
type modrinthClient struct {
	http    providers.HttpClient
	baseURL string
}

type modrinthSearchResponse struct {
	Hits []struct {
		ProjectID string `json:"project_id"`
		Slug      string `json:"slug"`
		Title     string `json:"title"`
		Downloads int64  `json:"downloads"`
	} `json:"hits"`
}

type modrinthProject struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type modrinthVersion struct {
	VersionNumber string   `json:"version_number"`
	GameVersions  []string `json:"game_versions"`
	Loaders       []string `json:"loaders"`
}

func (c *modrinthClient) search(ctx context.Context, query string) ([]candidate, error) {
	url := fmt.Sprintf("%s/search?query=%s", c.baseURL, url.QueryEscape(query))
	status, body, err := c.http.Get(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(status); err != nil {
		return nil, err
	}
	if len(body) > maxAPIResponseBytes {
		return nil, fmt.Errorf("modrinth search response exceeded %d bytes", maxAPIResponseBytes)
	}

	var resp modrinthSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode modrinth search response: %w", err)
	}

	out := make([]candidate, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		out = append(out, candidate{
			id:        h.ProjectID,
			slug:      h.Slug,
			name:      h.Title,
			source:    providers.SourceModrinth,
			downloads: h.Downloads,
		})
	}
	return out, nil
}

func (c *modrinthClient) getProject(ctx context.Context, id string) (candidate, error) {
	return c.fetchProject(ctx, id)
}

func (c *modrinthClient) getProjectBySlug(ctx context.Context, slug string) (candidate, error) {
	return c.fetchProject(ctx, slug)
}

func (c *modrinthClient) fetchProject(ctx context.Context, idOrSlug string) (candidate, error) {
	url := fmt.Sprintf("%s/project/%s", c.baseURL, url.QueryEscape(idOrSlug))
	status, body, err := c.http.Get(ctx, url, nil)
	if err != nil {
		return candidate{}, err
	}
	if err := checkStatus(status); err != nil {
		return candidate{}, err
	}
	var p modrinthProject
	if err := json.Unmarshal(body, &p); err != nil {
		return candidate{}, fmt.Errorf("decode modrinth project: %w", err)
	}
	if !strings.EqualFold(p.Slug, idOrSlug) && p.ID != idOrSlug {
		return candidate{}, fmt.Errorf("modrinth project %q not found", idOrSlug)
	}
	return candidate{id: p.ID, slug: p.Slug, name: p.Title, source: providers.SourceModrinth}, nil
}

func (c *modrinthClient) getVersions(ctx context.Context, id string) ([]providers.ResolvedVersion, error) {
	url := fmt.Sprintf("%s/project/%s/version", c.baseURL, url.QueryEscape(id))
	status, body, err := c.http.Get(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(status); err != nil {
		return nil, err
	}
	var versions []modrinthVersion
	if err := json.Unmarshal(body, &versions); err != nil {
		return nil, fmt.Errorf("decode modrinth versions: %w", err)
	}
	out := make([]providers.ResolvedVersion, 0, len(versions))
	for _, v := range versions {
		out = append(out, providers.ResolvedVersion{
			VersionNumber: v.VersionNumber,
			Loaders:       v.Loaders,
			GameVersions:  v.GameVersions,
		})
	}
	return out, nil
}

// curseforgeClient talks to the CurseForge v1 API.
type curseforgeClient struct {
	http    providers.HttpClient
	baseURL string
	apiKey  string
}

// curseForgeMinecraftGameID is CurseForge's fixed game identifier for
// Minecraft, required on every search request.
const curseForgeMinecraftGameID = "432"

type curseforgeSearchResponse struct {
	Data []struct {
		ID            int64  `json:"id"`
		Slug          string `json:"slug"`
		Name          string `json:"name"`
		DownloadCount int64  `json:"downloadCount"`
	} `json:"data"`
}

type curseforgeModResponse struct {
	Data struct {
		ID   int64  `json:"id"`
		Slug string `json:"slug"`
		Name string `json:"name"`
	} `json:"data"`
}

type curseforgeFilesResponse struct {
	Data []struct {
		DisplayName  string   `json:"displayName"`
		GameVersions []string `json:"gameVersions"`
	} `json:"data"`
}

func (c *curseforgeClient) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{"x-api-key": c.apiKey}
}

func (c *curseforgeClient) search(ctx context.Context, query string) ([]candidate, error) {
	url := fmt.Sprintf("%s/mods/search?gameId=%s&searchFilter=%s", c.baseURL, curseForgeMinecraftGameID, url.QueryEscape(query))
	status, body, err := c.http.Get(ctx, url, c.headers())
	if err != nil {
		return nil, err
	}
	if err := checkStatus(status); err != nil {
		return nil, err
	}
	if len(body) > maxAPIResponseBytes {
		return nil, fmt.Errorf("curseforge search response exceeded %d bytes", maxAPIResponseBytes)
	}

	var resp curseforgeSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode curseforge search response: %w", err)
	}

	out := make([]candidate, 0, len(resp.Data))
	for _, h := range resp.Data {
		out = append(out, candidate{
			id:        fmt.Sprintf("%d", h.ID),
			slug:      h.Slug,
			name:      h.Name,
			source:    providers.SourceCurseForge,
			downloads: h.DownloadCount,
		})
	}
	return out, nil
}

func (c *curseforgeClient) getProject(ctx context.Context, id string) (candidate, error) {
	url := fmt.Sprintf("%s/mods/%s", c.baseURL, url.QueryEscape(id))
	status, body, err := c.http.Get(ctx, url, c.headers())
	if err != nil {
		return candidate{}, err
	}
	if err := checkStatus(status); err != nil {
		return candidate{}, err
	}
	var resp curseforgeModResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return candidate{}, fmt.Errorf("decode curseforge mod: %w", err)
	}
	return candidate{id: fmt.Sprintf("%d", resp.Data.ID), slug: resp.Data.Slug, name: resp.Data.Name, source: providers.SourceCurseForge}, nil
}

func (c *curseforgeClient) getProjectBySlug(ctx context.Context, slug string) (candidate, error) {
	hits, err := c.search(ctx, slug)
	if err != nil {
		return candidate{}, err
	}
	for _, h := range hits {
		if strings.EqualFold(h.slug, slug) {
			return h, nil
		}
	}
	return candidate{}, fmt.Errorf("curseforge project with slug %q not found", slug)
}

func (c *curseforgeClient) getVersions(ctx context.Context, id string) ([]providers.ResolvedVersion, error) {
	url := fmt.Sprintf("%s/mods/%s/files", c.baseURL, url.QueryEscape(id))
	status, body, err := c.http.Get(ctx, url, c.headers())
	if err != nil {
		return nil, err
	}
	if err := checkStatus(status); err != nil {
		return nil, err
	}
	var resp curseforgeFilesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode curseforge files: %w", err)
	}

	out := make([]providers.ResolvedVersion, 0, len(resp.Data))
	for _, f := range resp.Data {
		out = append(out, providers.ResolvedVersion{
			VersionNumber: f.DisplayName,
			GameVersions:  filterTokens(f.GameVersions, isGameVersionToken),
			Loaders:       filterTokens(f.GameVersions, isLoaderToken),
		})
	}
	return out, nil
}

// CurseForge mixes Minecraft versions and loader names into one
// "gameVersions" array per file; these helpers split them back apart.
var knownLoaderTokens = map[string]bool{
	"forge": true, "neoforge": true, "fabric": true, "quilt": true,
}

func isLoaderToken(s string) bool {
	return knownLoaderTokens[strings.ToLower(s)]
}

func isGameVersionToken(s string) bool {
	return !isLoaderToken(s)
}

func filterTokens(tokens []string, keep func(string) bool) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func checkStatus(status int) error {
	if status >= 200 && status < 300 {
		return nil
	}
	if status >= 500 {
		return fmt.Errorf("registry returned server error: %d", status)
	}
	return fmt.Errorf("registry returned status %d", status)
}
