package results

import (
	"encoding/xml"
	"strings"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
)

type checkstyleReport struct {
	Files []struct {
		Name   string `xml:"name,attr"`
		Errors []struct {
			Line     int    `xml:"line,attr"`
			Column   int    `xml:"column,attr"`
			Severity string `xml:"severity,attr"`
			Message  string `xml:"message,attr"`
			Source   string `xml:"source,attr"`
		} `xml:"error"`
	} `xml:"file"`
}

type checkstyleTool struct{}

func (t *checkstyleTool) Name() string {
	return "CHECKSTYLE"
}

func (t *checkstyleTool) Parse(content []byte) (issues []api.StaticCodeAnalysisIssue, err error) {
	var report checkstyleReport
	if err = xml.Unmarshal(content, &report); err != nil {
		return nil, err
	}

	for _, f := range report.Files {
		for _, e := range f.Errors {
			rule, category := checkstyleRuleAndCategory(e.Source)
			issues = append(issues, api.StaticCodeAnalysisIssue{
				FilePath:    f.Name,
				StartLine:   e.Line,
				EndLine:     e.Line,
				StartColumn: e.Column,
				EndColumn:   e.Column,
				Rule:        rule,
				Category:    category,
				Message:     e.Message,
				Priority:    e.Severity,
			})
		}
	}

	return
}

// checkstyleRuleAndCategory splits a check class like com.puppycrawl.tools.checkstyle.checks.javadoc.MissingJavadocMethodCheck
func checkstyleRuleAndCategory(source string) (rule, category string) {
	parts := strings.Split(source, ".")
	rule = strings.TrimSuffix(parts[len(parts)-1], "Check")
	category = "miscellaneous"
	if len(parts) > 1 && parts[len(parts)-2] != "checks" {
		category = parts[len(parts)-2]
	}
	return
}
