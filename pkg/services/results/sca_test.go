package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckstyleTool(t *testing.T) {

	t.Run("DerivesRuleAndCategoryFromSource", func(t *testing.T) {

		report := `<checkstyle version="10.0"><file name="/var/tmp/testing-dir/assignment/src/Main.java">
			<error line="12" column="5" severity="warning" message="Missing a Javadoc comment." source="com.puppycrawl.tools.checkstyle.checks.javadoc.MissingJavadocMethodCheck"/>
		</file></checkstyle>`

		// act
		issues, err := (&checkstyleTool{}).Parse([]byte(report))

		assert.Nil(t, err)
		if assert.Equal(t, 1, len(issues)) {
			assert.Equal(t, "MissingJavadocMethod", issues[0].Rule)
			assert.Equal(t, "javadoc", issues[0].Category)
			assert.Equal(t, 12, issues[0].StartLine)
			assert.Equal(t, "warning", issues[0].Priority)
		}
	})
}

func TestCpdTool(t *testing.T) {

	t.Run("ReportsIssuePerDuplicatedFile", func(t *testing.T) {

		report := `<pmd-cpd><duplication lines="10" tokens="75">
			<file line="3" endline="12" path="src/A.java"/>
			<file line="20" path="src/B.java"/>
			<codefragment>...</codefragment>
		</duplication></pmd-cpd>`

		// act
		issues, err := (&cpdTool{}).Parse([]byte(report))

		assert.Nil(t, err)
		if assert.Equal(t, 2, len(issues)) {
			assert.Equal(t, "src/B.java", issues[1].FilePath)
			assert.Equal(t, 29, issues[1].EndLine)
			assert.Equal(t, "Code duplication of 10 lines in the following files:\nsrc/A.java: 3-12\nsrc/B.java: 20-29", issues[0].Message)
		}
	})
}

func TestSpotbugsTool(t *testing.T) {

	t.Run("JoinsSourceDirectoryAndSourcePath", func(t *testing.T) {

		report := `<BugCollection><Project><SrcDir>/var/tmp/testing-dir/assignment/src</SrcDir></Project>
			<BugInstance type="NP_ALWAYS_NULL" priority="1" category="CORRECTNESS">
				<LongMessage>Null pointer dereference of list</LongMessage>
				<SourceLine start="7" end="9" sourcepath="de/tum/Main.java"/>
			</BugInstance>
		</BugCollection>`

		// act
		issues, err := (&spotbugsTool{}).Parse([]byte(report))

		assert.Nil(t, err)
		if assert.Equal(t, 1, len(issues)) {
			assert.Equal(t, "/var/tmp/testing-dir/assignment/src/de/tum/Main.java", issues[0].FilePath)
			assert.Equal(t, "NP_ALWAYS_NULL", issues[0].Rule)
			assert.Equal(t, "CORRECTNESS", issues[0].Category)
			assert.Equal(t, 9, issues[0].EndLine)
		}
	})
}

func TestSarifTool(t *testing.T) {

	report := `{"version": "2.1.0", "runs": [{"tool": {"driver": {"name": "ruff"}}, "results": [
		{"ruleId": "F401", "level": "error", "message": {"text": "os imported but unused"},
		 "locations": [{"physicalLocation": {"artifactLocation": {"uri": "file://src/main.py"}, "region": {"startLine": 1, "startColumn": 8, "endColumn": 10}}}]}
	]}]}`

	t.Run("MapsResultsToIssues", func(t *testing.T) {

		tool := &sarifTool{name: "RUFF", category: ruffCategory}

		// act
		issues, err := tool.Parse([]byte(report))

		assert.Nil(t, err)
		if assert.Equal(t, 1, len(issues)) {
			assert.Equal(t, "src/main.py", issues[0].FilePath)
			assert.Equal(t, 1, issues[0].StartLine)
			assert.Equal(t, 1, issues[0].EndLine)
			assert.Equal(t, "F401", issues[0].Rule)
			assert.Equal(t, "F", issues[0].Category)
			assert.Equal(t, "error", issues[0].Priority)
		}
	})

	t.Run("DerivesCategoriesPerTool", func(t *testing.T) {

		// act
		rubocop := rubocopCategory("Style/StringLiterals")
		clippy := clippyCategory("clippy::needless_return")
		ruff := ruffCategory("PLR2004")

		assert.Equal(t, "Style", rubocop)
		assert.Equal(t, "needless_return", clippy)
		assert.Equal(t, "PLR", ruff)
	})
}
