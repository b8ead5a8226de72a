package results

import (
	"encoding/xml"
	"path"
	"strings"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
)

type spotbugsSourceLine struct {
	Start      int    `xml:"start,attr"`
	End        int    `xml:"end,attr"`
	SourcePath string `xml:"sourcepath,attr"`
}

type spotbugsReport struct {
	Project struct {
		SrcDirs []string `xml:"SrcDir"`
	} `xml:"Project"`
	BugInstances []struct {
		Type        string               `xml:"type,attr"`
		Priority    string               `xml:"priority,attr"`
		Category    string               `xml:"category,attr"`
		LongMessage string               `xml:"LongMessage"`
		SourceLines []spotbugsSourceLine `xml:"SourceLine"`
	} `xml:"BugInstance"`
}

type spotbugsTool struct{}

func (t *spotbugsTool) Name() string {
	return "SPOTBUGS"
}

func (t *spotbugsTool) Parse(content []byte) (issues []api.StaticCodeAnalysisIssue, err error) {
	var report spotbugsReport
	if err = xml.Unmarshal(content, &report); err != nil {
		return nil, err
	}

	sourceDirectory := ""
	if len(report.Project.SrcDirs) > 0 {
		sourceDirectory = strings.TrimSpace(report.Project.SrcDirs[0])
	}

	for _, bug := range report.BugInstances {
		// only the direct SourceLine child locates the bug itself
		var location spotbugsSourceLine
		if len(bug.SourceLines) > 0 {
			location = bug.SourceLines[0]
		}

		filePath := location.SourcePath
		if sourceDirectory != "" && filePath != "" {
			filePath = path.Join(sourceDirectory, filePath)
		}

		issues = append(issues, api.StaticCodeAnalysisIssue{
			FilePath:  filePath,
			StartLine: location.Start,
			EndLine:   location.End,
			Rule:      bug.Type,
			Category:  bug.Category,
			Message:   strings.TrimSpace(bug.LongMessage),
			Priority:  bug.Priority,
		})
	}

	return
}
