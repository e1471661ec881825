package resolver

import (
	"context"
	"fmt"
	"testing"

	"github.com/inherent-design/empack/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHttpClient routes Get calls to a map of canned responses keyed by the
// exact URL requested, mirroring the teacher's ephemeral-mock-server idiom
// without needing a real listener for unit tests.
type stubHttpClient struct {
	responses map[string]stubResponse
}

type stubResponse struct {
	status int
	body   []byte
	err    error
}

func (s *stubHttpClient) Get(_ context.Context, url string, _ map[string]string) (int, []byte, error) {
	r, ok := s.responses[url]
	if !ok {
		return 0, nil, fmt.Errorf("unexpected request to %s", url)
	}
	return r.status, r.body, r.err
}

func (s *stubHttpClient) Download(_ context.Context, _ string, _ string) error {
	return nil
}

func testConfig() providers.AppConfig {
	cfg := providers.DefaultAppConfig()
	cfg.ModrinthBaseURL = "https://modrinth.test"
	cfg.CurseForgeBaseURL = "https://curseforge.test"
	return cfg
}

func TestResolve_FuzzyPartialFailure_S5(t *testing.T) {
	// Modrinth returns a server error, CurseForge returns exactly one hit
	// for "jei" that is 1.20.1/fabric compatible.
	stub := &stubHttpClient{responses: map[string]stubResponse{
		"https://modrinth.test/search?query=jei": {status: 500, body: []byte(`{}`)},
		"https://curseforge.test/mods/search?gameId=432&searchFilter=jei": {
			status: 200,
			body:   []byte(`{"data":[{"id":394468,"slug":"jei","name":"JEI","downloadCount":1000000}]}`),
		},
		"https://curseforge.test/mods/394468/files": {
			status: 200,
			body:   []byte(`{"data":[{"displayName":"jei-1.20.1-fabric","gameVersions":["1.20.1","fabric"]}]}`),
		},
	}}

	r := New(stub, testConfig())
	results, errs := r.Resolve(context.Background(), providers.FuzzyIntent("jei"), "1.20.1", []string{"fabric"})

	require.Len(t, results, 1)
	assert.Equal(t, "jei", results[0].Slug)
	assert.Equal(t, providers.SourceCurseForge, results[0].Source)
	assert.NotEmpty(t, errs, "expected a warning-worthy error for the failed registry")
}

func TestResolve_Fuzzy_BothRegistriesFail(t *testing.T) {
	stub := &stubHttpClient{responses: map[string]stubResponse{
		"https://modrinth.test/search?query=sodium":                          {status: 500},
		"https://curseforge.test/mods/search?gameId=432&searchFilter=sodium": {status: 500},
	}}

	r := New(stub, testConfig())
	results, errs := r.Resolve(context.Background(), providers.FuzzyIntent("sodium"), "1.20.1", []string{"fabric"})

	assert.Empty(t, results)
	require.NotEmpty(t, errs)
	assert.ErrorIs(t, errs[len(errs)-1], ErrAllRegistriesUnavailable)
}

func TestResolve_ExactID_Modrinth(t *testing.T) {
	stub := &stubHttpClient{responses: map[string]stubResponse{
		"https://modrinth.test/project/AANobbMI": {
			status: 200,
			body:   []byte(`{"id":"AANobbMI","slug":"sodium","title":"Sodium"}`),
		},
		"https://modrinth.test/project/AANobbMI/version": {
			status: 200,
			body:   []byte(`[{"version_number":"mc1.20.1-0.5.3","game_versions":["1.20.1"],"loaders":["fabric"]}]`),
		},
	}}

	r := New(stub, testConfig())
	results, errs := r.Resolve(context.Background(), providers.ExactIDIntent("AANobbMI", providers.SourceModrinth), "1.20.1", []string{"fabric"})

	assert.Empty(t, errs)
	require.Len(t, results, 1)
	assert.Equal(t, "sodium", results[0].Slug)
	assert.Equal(t, "mc1.20.1-0.5.3", results[0].SelectedVersion.VersionNumber)
	assert.Equal(t, 1.0, results[0].Confidence)
}

func TestResolve_DropsIncompatibleCandidate(t *testing.T) {
	stub := &stubHttpClient{responses: map[string]stubResponse{
		"https://modrinth.test/project/AANobbMI": {
			status: 200,
			body:   []byte(`{"id":"AANobbMI","slug":"sodium","title":"Sodium"}`),
		},
		"https://modrinth.test/project/AANobbMI/version": {
			status: 200,
			body:   []byte(`[{"version_number":"mc1.21.1-0.6.0","game_versions":["1.21.1"],"loaders":["fabric"]}]`),
		},
	}}

	r := New(stub, testConfig())
	results, errs := r.Resolve(context.Background(), providers.ExactIDIntent("AANobbMI", providers.SourceModrinth), "1.20.1", []string{"fabric"})

	assert.Empty(t, errs)
	assert.Empty(t, results)
}

func TestScoreCandidates_ExactSubstringBeatsFuzzyMatch(t *testing.T) {
	candidates := []candidate{
		{id: "1", slug: "jei", name: "Just Enough Items", downloads: 100},
		{id: "2", slug: "jeid", name: "JEI Dependencies", downloads: 50},
	}

	scored := scoreCandidates(candidates, "jei")
	assert.Greater(t, scored[0].confidence, 0.0)
}

func TestSlugSimilarity_Identical(t *testing.T) {
	assert.Equal(t, 1.0, slugSimilarity("sodium", "sodium"))
}

func TestSlugSimilarity_Empty(t *testing.T) {
	assert.Equal(t, 0.0, slugSimilarity("", "sodium"))
}
