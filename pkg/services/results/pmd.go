package results

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
)

type pmdReport struct {
	Files []struct {
		Name       string `xml:"name,attr"`
		Violations []struct {
			BeginLine   int    `xml:"beginline,attr"`
			EndLine     int    `xml:"endline,attr"`
			BeginColumn int    `xml:"begincolumn,attr"`
			EndColumn   int    `xml:"endcolumn,attr"`
			Rule        string `xml:"rule,attr"`
			RuleSet     string `xml:"ruleset,attr"`
			Priority    int    `xml:"priority,attr"`
			Message     string `xml:",chardata"`
		} `xml:"violation"`
	} `xml:"file"`
}

type pmdTool struct{}

func (t *pmdTool) Name() string {
	return "PMD"
}

func (t *pmdTool) Parse(content []byte) (issues []api.StaticCodeAnalysisIssue, err error) {
	var report pmdReport
	if err = xml.Unmarshal(content, &report); err != nil {
		return nil, err
	}

	for _, f := range report.Files {
		for _, v := range f.Violations {
			issues = append(issues, api.StaticCodeAnalysisIssue{
				FilePath:    f.Name,
				StartLine:   v.BeginLine,
				EndLine:     v.EndLine,
				StartColumn: v.BeginColumn,
				EndColumn:   v.EndColumn,
				Rule:        v.Rule,
				Category:    v.RuleSet,
				Message:     strings.TrimSpace(v.Message),
				Priority:    strconv.Itoa(v.Priority),
			})
		}
	}

	return
}

type cpdReport struct {
	Duplications []struct {
		Lines int `xml:"lines,attr"`
		Files []struct {
			Path      string `xml:"path,attr"`
			Line      int    `xml:"line,attr"`
			EndLine   int    `xml:"endline,attr"`
			Column    int    `xml:"column,attr"`
			EndColumn int    `xml:"endcolumn,attr"`
		} `xml:"file"`
	} `xml:"duplication"`
}

type cpdTool struct{}

func (t *cpdTool) Name() string {
	return "PMD_CPD"
}

// Parse reports one issue per file taking part in a duplication
func (t *cpdTool) Parse(content []byte) (issues []api.StaticCodeAnalysisIssue, err error) {
	var report cpdReport
	if err = xml.Unmarshal(content, &report); err != nil {
		return nil, err
	}

	for _, d := range report.Duplications {
		locations := make([]string, 0, len(d.Files))
		for _, f := range d.Files {
			endLine := f.EndLine
			if endLine == 0 {
				endLine = f.Line + d.Lines - 1
			}
			locations = append(locations, fmt.Sprintf("%v: %v-%v", f.Path, f.Line, endLine))
		}
		message := fmt.Sprintf("Code duplication of %v lines in the following files:\n%v", d.Lines, strings.Join(locations, "\n"))

		for _, f := range d.Files {
			endLine := f.EndLine
			if endLine == 0 {
				endLine = f.Line + d.Lines - 1
			}
			issues = append(issues, api.StaticCodeAnalysisIssue{
				FilePath:    f.Path,
				StartLine:   f.Line,
				EndLine:     endLine,
				StartColumn: f.Column,
				EndColumn:   f.EndColumn,
				Rule:        "Copy/Paste Detection",
				Category:    "Copy/Paste Detection",
				Message:     message,
			})
		}
	}

	return
}
