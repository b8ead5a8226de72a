package results

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/rs/zerolog/log"
)

var (
	// ErrUnsupportedTool is returned for static code analysis reports no parser is registered for
	ErrUnsupportedTool = errors.New("The static code analysis tool is not supported")
	// ErrInvalidTestReport is returned when a test report can't be parsed
	ErrInvalidTestReport = errors.New("The test report is invalid")
)

// files that end in .xml or .json but never hold test results
var excludedFileNames = map[string]bool{
	"pom.xml":           true,
	"package.json":      true,
	"package-lock.json": true,
	"composer.json":     true,
}

// ResultMetadata is copied onto the parsed build result
type ResultMetadata struct {
	Branch               string
	AssignmentCommitHash string
	TestsCommitHash      string
	BuildRunDate         time.Time
	BuildLogs            []api.BuildLogEntry
}

// Parser turns the archived result files of a build into a build result
type Parser interface {
	ParseBuildResult(archive io.Reader, meta ResultMetadata, logLine func(line string)) (result *api.BuildResult, err error)
}

// NewParser returns a new results.Parser
func NewParser() Parser {
	return &parser{
		tools: defaultTools(),
	}
}

type parser struct {
	tools map[string]Tool
}

func (p *parser) ParseBuildResult(archive io.Reader, meta ResultMetadata, logLine func(line string)) (result *api.BuildResult, err error) {
	if logLine == nil {
		logLine = func(string) {}
	}

	suite := api.TestSuite{
		FailedTests:     []api.TestCase{},
		SuccessfulTests: []api.TestCase{},
	}
	reports := []api.StaticCodeAnalysisReport{}

	tr := tar.NewReader(archive)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed reading results archive: %w", err)
		}

		fileName := path.Base(header.Name)
		if !p.isCandidateFile(header, fileName) {
			continue
		}

		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("failed reading %v from results archive: %w", header.Name, err)
		}

		if p.isStaticCodeAnalysisFile(fileName) {
			report, err := p.parseStaticCodeAnalysisReport(fileName, content)
			if err != nil {
				msg := fmt.Sprintf("Failed to parse static code analysis report %v, ignoring it", fileName)
				logLine(msg)
				log.Warn().Err(err).Msg(msg)
				continue
			}
			reports = append(reports, *report)
			continue
		}

		// some test runners emit this sequence, it breaks parsing
		testReport := strings.ReplaceAll(string(content), "\n\t", "")
		if strings.TrimSpace(testReport) == "" {
			msg := fmt.Sprintf("The file %v does not contain any testcases", fileName)
			logLine(msg)
			log.Warn().Msg(msg)
			continue
		}

		switch {
		case strings.HasSuffix(fileName, ".xml"):
			err = parseJUnitReport([]byte(testReport), &suite)
		case strings.HasSuffix(fileName, ".json"):
			err = parseCustomFeedback(fileName, []byte(testReport), &suite)
		}
		if err != nil {
			logLine(fmt.Sprintf("Error while parsing test report %v", fileName))
			return nil, fmt.Errorf("failed parsing %v: %w", fileName, err)
		}
	}

	return &api.BuildResult{
		AssignmentRepoBranchName:  meta.Branch,
		AssignmentRepoCommitHash:  meta.AssignmentCommitHash,
		TestsRepoCommitHash:       meta.TestsCommitHash,
		IsBuildSuccessful:         len(suite.FailedTests) == 0,
		BuildRunDate:              meta.BuildRunDate,
		Jobs:                      []api.TestSuite{suite},
		StaticCodeAnalysisReports: reports,
		BuildLogs:                 meta.BuildLogs,
	}, nil
}

func (p *parser) isCandidateFile(header *tar.Header, fileName string) bool {
	if header.Typeflag == tar.TypeDir || excludedFileNames[fileName] {
		return false
	}
	return strings.HasSuffix(fileName, ".xml") || strings.HasSuffix(fileName, ".json") || p.isStaticCodeAnalysisFile(fileName)
}

func (p *parser) parseStaticCodeAnalysisReport(fileName string, content []byte) (*api.StaticCodeAnalysisReport, error) {
	tool, ok := p.tools[fileName]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedTool, fileName)
	}

	issues, err := tool.Parse(content)
	if err != nil {
		return nil, err
	}
	if issues == nil {
		issues = []api.StaticCodeAnalysisIssue{}
	}

	return &api.StaticCodeAnalysisReport{
		Tool:   tool.Name(),
		Issues: issues,
	}, nil
}
