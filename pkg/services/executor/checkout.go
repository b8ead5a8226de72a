package executor

import (
	"strings"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
)

type checkoutPaths struct {
	assignment string
	test       string
	solution   string
}

// languages whose build scripts expect the tests in a subdirectory instead of the checkout root
var testsInSubdirectory = map[string]bool{
	"C":         true,
	"VHDL":      true,
	"ASSEMBLER": true,
	"OCAML":     true,
}

// resolveCheckoutPaths returns the directories below testing-dir the repositories are copied to
func resolveCheckoutPaths(buildConfig api.BuildConfig) checkoutPaths {
	language := strings.ToUpper(buildConfig.ProgrammingLanguage)

	paths := checkoutPaths{
		assignment: "assignment",
		solution:   "solution",
	}
	if testsInSubdirectory[language] {
		paths.test = "tests"
	}

	if strings.TrimSpace(buildConfig.AssignmentCheckoutPath) != "" {
		paths.assignment = buildConfig.AssignmentCheckoutPath
	}
	// a custom test path only applies to languages that don't check the tests out at the root
	if paths.test != "" && strings.TrimSpace(buildConfig.TestCheckoutPath) != "" {
		paths.test = buildConfig.TestCheckoutPath
	}
	if strings.TrimSpace(buildConfig.SolutionCheckoutPath) != "" {
		paths.solution = buildConfig.SolutionCheckoutPath
	}

	return paths
}
