//go:build basic || database || integration

package integration

import (
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedScorecardPath holds the path to a shared scorecard binary built once for all tests.
	sharedScorecardPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// rankFields are the score columns written to the fixture population.
var rankFields = []string{"Impact", "Targeting", "Product", "Process", "MPI", "Findex", "Outreach", "Research", "Sector"}

// regions assigned round-robin to fixture partners. Every seventh partner has none.
var regions = []string{"South Asia", "Sub-Saharan Africa", "South America", "East Asia and the Pacific"}

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getScorecardBinary returns the path to the scorecard binary, building it once if needed.
func getScorecardBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "scorecard-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		scorecardPath := filepath.Join(tempDir, "scorecard")
		buildCmd := exec.Command("go", "build", "-o", scorecardPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build scorecard: %v", err))
		}

		sharedScorecardPath = scorecardPath
	})

	return sharedScorecardPath
}

// writeFixture writes a population of n partners with random scores, a region
// mapping and a loan theme file into a temp dir. It returns the flags that
// point the CLI at them.
func writeFixture(t *testing.T, n int, seed uint64) []string {
	t.Helper()
	dir := t.TempDir()
	rng := rand.New(rand.NewPCG(seed, seed))

	var pop strings.Builder
	pop.WriteString("Partner ID,Name,Country,volume," + strings.Join(rankFields, ",") + "\n")
	var mapping strings.Builder
	mapping.WriteString("Partner Details Partner ID,Loan Geography IRS Region,Partner Details Field Partner Name\n")
	var themes strings.Builder
	themes.WriteString("Partner ID,Loan Theme Type: Loan Theme Type Name,Loan Theme Name,Reporting Tag: Reporting Tag Name,Research Rating\n")

	for id := 1; id <= n; id++ {
		cells := []string{fmt.Sprint(id), fmt.Sprintf("Partner %03d", id), "Somewhere", fmt.Sprintf("%.2f", rng.Float64()*1e6)}
		for range rankFields {
			// Blank cells exercise missing scores.
			if rng.IntN(20) == 0 {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, fmt.Sprintf("%.1f", rng.Float64()*10))
		}
		pop.WriteString(strings.Join(cells, ",") + "\n")

		if id%7 != 0 {
			fmt.Fprintf(&mapping, "%d,%s,\n", id, regions[id%len(regions)])
		}
		fmt.Fprintf(&themes, "%d,General,Theme %d,#Tag,%c\n", id, id, 'A'+rune(id%3))
	}

	files := map[string]string{
		"population.csv": pop.String(),
		"regions.csv":    mapping.String(),
		"themes.csv":     themes.String(),
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return []string{
		"--data-file", filepath.Join(dir, "population.csv"),
		"--region-file", filepath.Join(dir, "regions.csv"),
		"--loanthemes-file", filepath.Join(dir, "themes.csv"),
	}
}

// runScorecard runs the binary from the project root and returns its stdout.
func runScorecard(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getScorecardBinary(), args...)
	cmd.Dir = "../" // Run from project root
	cmd.Env = append(os.Environ(), env...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}
