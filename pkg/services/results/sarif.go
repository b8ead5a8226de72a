package results

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
)

type sarifLog struct {
	Runs []struct {
		Results []struct {
			RuleID  string `json:"ruleId"`
			Level   string `json:"level"`
			Message struct {
				Text string `json:"text"`
			} `json:"message"`
			Locations []struct {
				PhysicalLocation struct {
					ArtifactLocation struct {
						URI string `json:"uri"`
					} `json:"artifactLocation"`
					Region struct {
						StartLine   int `json:"startLine"`
						StartColumn int `json:"startColumn"`
						EndLine     int `json:"endLine"`
						EndColumn   int `json:"endColumn"`
					} `json:"region"`
				} `json:"physicalLocation"`
			} `json:"locations"`
		} `json:"results"`
	} `json:"runs"`
}

type sarifTool struct {
	name     string
	category func(ruleID string) string
}

func (t *sarifTool) Name() string {
	return t.name
}

func (t *sarifTool) Parse(content []byte) (issues []api.StaticCodeAnalysisIssue, err error) {
	var sarif sarifLog
	if err = json.Unmarshal(content, &sarif); err != nil {
		return nil, err
	}
	if len(sarif.Runs) == 0 {
		return nil, errors.New("The sarif log has no runs")
	}

	for _, run := range sarif.Runs {
		for _, r := range run.Results {
			level := r.Level
			if level == "" {
				level = "warning"
			}
			issue := api.StaticCodeAnalysisIssue{
				Rule:     r.RuleID,
				Category: t.category(r.RuleID),
				Message:  r.Message.Text,
				Priority: level,
			}
			if len(r.Locations) > 0 {
				location := r.Locations[0].PhysicalLocation
				issue.FilePath = strings.TrimPrefix(location.ArtifactLocation.URI, "file://")
				issue.StartLine = location.Region.StartLine
				issue.EndLine = location.Region.EndLine
				if issue.EndLine == 0 {
					issue.EndLine = issue.StartLine
				}
				issue.StartColumn = location.Region.StartColumn
				issue.EndColumn = location.Region.EndColumn
			}
			issues = append(issues, issue)
		}
	}

	return
}

func ruleIDCategory(ruleID string) string {
	return ruleID
}

// ruffCategory maps rule codes like F401 to their linter prefix
func ruffCategory(ruleID string) string {
	prefix := strings.TrimRightFunc(ruleID, unicode.IsDigit)
	if prefix == "" {
		return ruleID
	}
	return prefix
}

// rubocopCategory maps cops like Style/StringLiterals to their department
func rubocopCategory(ruleID string) string {
	department, _, found := strings.Cut(ruleID, "/")
	if !found {
		return ruleID
	}
	return department
}

func clippyCategory(ruleID string) string {
	return strings.TrimPrefix(ruleID, "clippy::")
}
