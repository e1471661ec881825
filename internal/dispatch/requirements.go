package dispatch

import (
	"context"
	"strings"

	"github.com/inherent-design/empack/internal/command"
	"github.com/inherent-design/empack/internal/session"
)

// handleRequirements implements spec.md §4.8's Requirements variant: no
// state change, just tool diagnostics. Per the requirements supplemented
// feature, each tool's detected version is carried alongside its
// available/missing status rather than a bare boolean.
func handleRequirements(ctx context.Context, acc session.Accessor) (Result, error) {
	var statuses []RequirementStatus

	packwizOK, packwizDetail := acc.Process().CheckPackwiz(ctx)
	statuses = append(statuses, RequirementStatus{Tool: "packwiz", Available: packwizOK, Detail: packwizDetail})

	mrpackOK, mrpackDetail := detectTool(ctx, acc, "mrpack-install", []string{"--version"})
	statuses = append(statuses, RequirementStatus{Tool: "mrpack-install", Available: mrpackOK, Detail: mrpackDetail})

	javaOK, javaDetail := detectTool(ctx, acc, "java", []string{"-version"})
	statuses = append(statuses, RequirementStatus{Tool: "java", Available: javaOK, Detail: javaDetail})

	result := Result{Requirements: statuses}
	if !packwizOK || !mrpackOK || !javaOK {
		return result, &command.EnvironmentError{Message: "one or more required tools were not detected"}
	}
	return result, nil
}

// detectTool runs program with args and reports whether it launched and
// exited zero, along with a one-line diagnostic: the first line of stdout
// (or of stderr when stdout is empty) on success, the first line of stderr
// on a non-zero exit.
func detectTool(ctx context.Context, acc session.Accessor, program string, args []string) (bool, string) {
	result, err := acc.Process().Execute(ctx, program, args, "", nil)
	if err != nil {
		return false, program + " not found"
	}
	if result.ExitCode != 0 {
		return false, strings.TrimSpace(firstLine(result.Stderr))
	}
	combined := result.Stdout
	if combined == "" {
		combined = result.Stderr
	}
	return true, strings.TrimSpace(firstLine(combined))
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
