package results

import (
	"strings"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
)

// Tool parses the report of one static code analysis tool
type Tool interface {
	Name() string
	Parse(content []byte) ([]api.StaticCodeAnalysisIssue, error)
}

// defaultTools maps report file names to the tool that produced them
func defaultTools() map[string]Tool {
	return map[string]Tool{
		"checkstyle-result.xml": &checkstyleTool{},
		"pmd.xml":               &pmdTool{},
		"cpd.xml":               &cpdTool{},
		"spotbugsXml.xml":       &spotbugsTool{},
		"ruff.sarif":            &sarifTool{name: "RUFF", category: ruffCategory},
		"eslint.sarif":          &sarifTool{name: "ESLINT", category: ruleIDCategory},
		"lintr.sarif":           &sarifTool{name: "LINTR", category: ruleIDCategory},
		"rubocop.sarif":         &sarifTool{name: "RUBOCOP", category: rubocopCategory},
		"clippy.sarif":          &sarifTool{name: "CLIPPY", category: clippyCategory},
	}
}

func (p *parser) isStaticCodeAnalysisFile(fileName string) bool {
	if _, ok := p.tools[fileName]; ok {
		return true
	}
	return strings.HasSuffix(fileName, ".sarif")
}
