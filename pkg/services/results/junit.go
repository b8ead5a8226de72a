package results

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"golang.org/x/text/encoding/htmlindex"
)

type junitTestSuite struct {
	XMLName    xml.Name
	Name       string           `xml:"name,attr"`
	TestSuites []junitTestSuite `xml:"testsuite"`
	TestCases  []junitTestCase  `xml:"testcase"`
}

type junitTestCase struct {
	Name      string         `xml:"name,attr"`
	Classname string         `xml:"classname,attr"`
	Failures  []junitProblem `xml:"failure"`
	Errors    []junitProblem `xml:"error"`
	Skipped   *struct{}      `xml:"skipped"`
}

type junitProblem struct {
	Message *string `xml:"message,attr"`
	Body    string  `xml:",chardata"`
}

func (p junitProblem) text() string {
	if p.Message != nil && *p.Message != "" {
		return *p.Message
	}
	return strings.TrimSpace(p.Body)
}

// parseJUnitReport adds the test cases of a junit xml report to the suite; skipped tests are left out
func parseJUnitReport(content []byte, suite *api.TestSuite) error {
	decoder := xml.NewDecoder(bytes.NewReader(stripInvalidXMLCharacters(content)))
	decoder.CharsetReader = charsetReader

	var root junitTestSuite
	if err := decoder.Decode(&root); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTestReport, err)
	}

	switch root.XMLName.Local {
	case "testsuites":
		collectTestCases(junitTestSuite{TestCases: root.TestCases}, "", suite)
		// a single wrapped suite is treated like a root suite
		if len(root.TestSuites) == 1 {
			collectTestCases(root.TestSuites[0], "", suite)
			break
		}
		for _, child := range root.TestSuites {
			collectTestCases(child, child.Name, suite)
		}
	case "testsuite":
		collectTestCases(root, "", suite)
	default:
		return fmt.Errorf("%w: unexpected root element %v", ErrInvalidTestReport, root.XMLName.Local)
	}

	return nil
}

func collectTestCases(junitSuite junitTestSuite, prefix string, suite *api.TestSuite) {
	for _, tc := range junitSuite.TestCases {
		if tc.Skipped != nil {
			continue
		}

		testCase := api.TestCase{
			Name:      joinSuiteName(prefix, tc.Name),
			Classname: tc.Classname,
		}

		problems := append(append([]junitProblem{}, tc.Failures...), tc.Errors...)
		if len(problems) == 0 {
			suite.SuccessfulTests = append(suite.SuccessfulTests, testCase)
			continue
		}

		for _, p := range problems {
			testCase.TestMessages = append(testCase.TestMessages, p.text())
		}
		suite.FailedTests = append(suite.FailedTests, testCase)
	}

	for _, nested := range junitSuite.TestSuites {
		collectTestCases(nested, joinSuiteName(prefix, nested.Name), suite)
	}
}

func joinSuiteName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	if name == "" {
		return prefix
	}
	return prefix + "." + name
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	encoding, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: unsupported charset %v", ErrInvalidTestReport, label)
	}
	return encoding.NewDecoder().Reader(input), nil
}

// stripInvalidXMLCharacters drops characters that are not allowed in xml 1.0 documents
func stripInvalidXMLCharacters(content []byte) []byte {
	if !utf8.Valid(content) {
		// single byte encodings share the ascii control range
		stripped := make([]byte, 0, len(content))
		for _, b := range content {
			if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
				continue
			}
			stripped = append(stripped, b)
		}
		return stripped
	}

	return bytes.Map(func(r rune) rune {
		switch {
		case r == '\t', r == '\n', r == '\r':
			return r
		case r >= 0x20 && r <= 0xD7FF:
			return r
		case r >= 0xE000 && r <= 0xFFFD:
			return r
		case r >= 0x10000 && r <= 0x10FFFF:
			return r
		}
		return -1
	}, content)
}
