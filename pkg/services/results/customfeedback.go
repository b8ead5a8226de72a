package results

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
)

type customFeedback struct {
	Name       string `json:"name"`
	Successful bool   `json:"successful"`
	Message    string `json:"message"`
}

// parseCustomFeedback adds a single json feedback file to the suite as one test case
func parseCustomFeedback(fileName string, content []byte, suite *api.TestSuite) error {
	var feedback customFeedback
	if err := json.Unmarshal(content, &feedback); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTestReport, err)
	}

	if strings.TrimSpace(feedback.Name) == "" {
		return fmt.Errorf("%w: custom feedback in %v has no name", ErrInvalidTestReport, fileName)
	}
	if !feedback.Successful && strings.TrimSpace(feedback.Message) == "" {
		return fmt.Errorf("%w: failed custom feedback %v has no message", ErrInvalidTestReport, feedback.Name)
	}

	testCase := api.TestCase{Name: feedback.Name}
	if feedback.Message != "" {
		testCase.TestMessages = []string{feedback.Message}
	}

	if feedback.Successful {
		suite.SuccessfulTests = append(suite.SuccessfulTests, testCase)
	} else {
		suite.FailedTests = append(suite.FailedTests, testCase)
	}

	return nil
}
