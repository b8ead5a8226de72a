package results

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/stretchr/testify/assert"
)

type archiveFile struct {
	name    string
	content string
}

func makeArchive(t *testing.T, files ...archiveFile) io.Reader {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	_ = tw.WriteHeader(&tar.Header{Name: "results/", Typeflag: tar.TypeDir, Mode: 0755})
	for _, f := range files {
		err := tw.WriteHeader(&tar.Header{Name: f.name, Typeflag: tar.TypeReg, Mode: 0644, Size: int64(len(f.content))})
		if !assert.Nil(t, err) {
			t.FailNow()
		}
		_, _ = tw.Write([]byte(f.content))
	}
	_ = tw.Close()
	return &buf
}

const junitReport = `<?xml version="1.0" encoding="UTF-8"?>
<testsuite name="de.tum.SortingExampleBehaviorTest" tests="3">
  <testcase name="testBubbleSort" classname="de.tum.SortingExampleBehaviorTest"/>
  <testcase name="testMergeSort" classname="de.tum.SortingExampleBehaviorTest"/>
  <testcase name="testUseMergeSortForBigList" classname="de.tum.SortingExampleBehaviorTest">
    <failure message="expected 4 got 5" type="org.opentest4j.AssertionFailedError">stacktrace</failure>
  </testcase>
</testsuite>`

func TestParseBuildResult(t *testing.T) {

	meta := ResultMetadata{
		Branch:               "main",
		AssignmentCommitHash: "a1b2c3",
		TestsCommitHash:      "d4e5f6",
		BuildRunDate:         time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		BuildLogs:            []api.BuildLogEntry{{Log: "BUILD SUCCESSFUL"}},
	}

	t.Run("ReturnsPassedAndFailedTests", func(t *testing.T) {

		p := NewParser()
		archive := makeArchive(t, archiveFile{"results/TEST-de.tum.SortingExampleBehaviorTest.xml", junitReport})

		// act
		result, err := p.ParseBuildResult(archive, meta, nil)

		assert.Nil(t, err)
		if assert.NotNil(t, result) && assert.Equal(t, 1, len(result.Jobs)) {
			assert.Equal(t, 2, len(result.Jobs[0].SuccessfulTests))
			if assert.Equal(t, 1, len(result.Jobs[0].FailedTests)) {
				assert.Equal(t, "testUseMergeSortForBigList", result.Jobs[0].FailedTests[0].Name)
				assert.Equal(t, []string{"expected 4 got 5"}, result.Jobs[0].FailedTests[0].TestMessages)
			}
			assert.False(t, result.IsBuildSuccessful)
			assert.Equal(t, "main", result.AssignmentRepoBranchName)
			assert.Equal(t, "a1b2c3", result.AssignmentRepoCommitHash)
			assert.Equal(t, "d4e5f6", result.TestsRepoCommitHash)
			assert.Equal(t, meta.BuildRunDate, result.BuildRunDate)
			assert.Equal(t, 1, len(result.BuildLogs))
		}
	})

	t.Run("MarksBuildSuccessfulIfNoTestFailed", func(t *testing.T) {

		p := NewParser()
		archive := makeArchive(t, archiveFile{"results/TEST-ok.xml", `<testsuite name="x"><testcase name="a"/></testsuite>`})

		// act
		result, err := p.ParseBuildResult(archive, meta, nil)

		assert.Nil(t, err)
		assert.True(t, result.IsBuildSuccessful)
		assert.NotNil(t, result.StaticCodeAnalysisReports)
	})

	t.Run("IgnoresBuildDescriptorsAndOtherFiles", func(t *testing.T) {

		p := NewParser()
		archive := makeArchive(t,
			archiveFile{"results/pom.xml", "<project></project>"},
			archiveFile{"results/package.json", `{"name": "exercise"}`},
			archiveFile{"results/package-lock.json", `{}`},
			archiveFile{"results/composer.json", `{}`},
			archiveFile{"results/output.txt", "not a report"},
		)

		// act
		result, err := p.ParseBuildResult(archive, meta, nil)

		assert.Nil(t, err)
		assert.Equal(t, 0, len(result.Jobs[0].SuccessfulTests))
		assert.Equal(t, 0, len(result.Jobs[0].FailedTests))
	})

	t.Run("WarnsAboutEmptyTestReport", func(t *testing.T) {

		p := NewParser()
		archive := makeArchive(t, archiveFile{"results/TEST-empty.xml", "  \n"})
		lines := []string{}

		// act
		result, err := p.ParseBuildResult(archive, meta, func(line string) { lines = append(lines, line) })

		assert.Nil(t, err)
		assert.True(t, result.IsBuildSuccessful)
		assert.Equal(t, []string{"The file TEST-empty.xml does not contain any testcases"}, lines)
	})

	t.Run("ParsesCustomFeedback", func(t *testing.T) {

		p := NewParser()
		archive := makeArchive(t,
			archiveFile{"results/customFeedbacks/coverage.json", `{"name": "coverage", "successful": false, "message": "coverage below 80%"}`},
			archiveFile{"results/customFeedbacks/style.json", `{"name": "style", "successful": true}`},
		)

		// act
		result, err := p.ParseBuildResult(archive, meta, nil)

		assert.Nil(t, err)
		if assert.Equal(t, 1, len(result.Jobs[0].FailedTests)) {
			assert.Equal(t, "coverage", result.Jobs[0].FailedTests[0].Name)
			assert.Equal(t, []string{"coverage below 80%"}, result.Jobs[0].FailedTests[0].TestMessages)
		}
		assert.Equal(t, 1, len(result.Jobs[0].SuccessfulTests))
	})

	t.Run("ReturnsErrorForInvalidTestReport", func(t *testing.T) {

		p := NewParser()
		archive := makeArchive(t, archiveFile{"results/customFeedbacks/broken.json", `{"successful": true}`})

		// act
		_, err := p.ParseBuildResult(archive, meta, nil)

		assert.True(t, errors.Is(err, ErrInvalidTestReport))
	})

	t.Run("SkipsBrokenStaticCodeAnalysisReport", func(t *testing.T) {

		p := NewParser()
		archive := makeArchive(t,
			archiveFile{"results/checkstyle-result.xml", "<checkstyle><file"},
			archiveFile{"results/pmd.xml", `<pmd><file name="Main.java"><violation beginline="3" endline="3" rule="UnusedLocalVariable" ruleset="Best Practices" priority="3">Avoid unused local variables</violation></file></pmd>`},
			archiveFile{"results/unknown.sarif", `{"runs": []}`},
		)
		lines := []string{}

		// act
		result, err := p.ParseBuildResult(archive, meta, func(line string) { lines = append(lines, line) })

		assert.Nil(t, err)
		if assert.Equal(t, 1, len(result.StaticCodeAnalysisReports)) {
			assert.Equal(t, "PMD", result.StaticCodeAnalysisReports[0].Tool)
			assert.Equal(t, 1, len(result.StaticCodeAnalysisReports[0].Issues))
		}
		assert.Equal(t, 2, len(lines))
	})
}

func TestParseStaticCodeAnalysisReport(t *testing.T) {

	t.Run("ReturnsErrUnsupportedToolForUnknownSarifFile", func(t *testing.T) {

		p := &parser{tools: defaultTools()}

		// act
		_, err := p.parseStaticCodeAnalysisReport("mypy.sarif", []byte(`{"runs": [{}]}`))

		assert.True(t, errors.Is(err, ErrUnsupportedTool))
	})

	t.Run("ReturnsEmptyIssueListForCleanReport", func(t *testing.T) {

		p := &parser{tools: defaultTools()}

		// act
		report, err := p.parseStaticCodeAnalysisReport("checkstyle-result.xml", []byte(`<checkstyle version="10.0"></checkstyle>`))

		assert.Nil(t, err)
		assert.Equal(t, "CHECKSTYLE", report.Tool)
		assert.NotNil(t, report.Issues)
		assert.Equal(t, 0, len(report.Issues))
	})
}
