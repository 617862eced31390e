package preflight

import (
	"fmt"
	"strings"

	"cinepress/internal/config"
	"cinepress/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config and
// output directory. Checks that depend on optional configuration are only
// run when that configuration is present.
func RunAll(cfg *config.Config, outputDir string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Work directory", cfg.WorkDir))
	if outputDir != "" {
		results = append(results, CheckDirectoryAccess("Output directory", outputDir))
		results = append(results, CheckFreeSpace("Output free space", outputDir, cfg.MinFreeGiB))
	}
	results = append(results, CheckFreeSpace("Work free space", cfg.WorkDir, cfg.MinFreeGiB))

	if cfg.Signing.CertificatePath != "" {
		results = append(results, CheckFileReadable("Signing certificate", cfg.Signing.CertificatePath))
		results = append(results, CheckFileReadable("Signing key", cfg.Signing.KeyPath))
	}

	return results
}

// Err collapses failed results into a single configuration error, or nil
// when everything passed.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "run",
		strings.Join(failed, "; "), nil)
}
