package results

import (
	"errors"
	"testing"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/stretchr/testify/assert"
)

func TestParseJUnitReport(t *testing.T) {

	t.Run("LeavesOutSkippedTests", func(t *testing.T) {

		suite := &api.TestSuite{}
		report := `<testsuite name="x"><testcase name="a"/><testcase name="b"><skipped/></testcase></testsuite>`

		// act
		err := parseJUnitReport([]byte(report), suite)

		assert.Nil(t, err)
		assert.Equal(t, 1, len(suite.SuccessfulTests))
		assert.Equal(t, 0, len(suite.FailedTests))
	})

	t.Run("UsesFailureBodyIfMessageIsMissing", func(t *testing.T) {

		suite := &api.TestSuite{}
		report := `<testsuite><testcase name="a"><error type="java.lang.NullPointerException">
			  NullPointerException at Main.java:3
			</error></testcase></testsuite>`

		// act
		err := parseJUnitReport([]byte(report), suite)

		assert.Nil(t, err)
		if assert.Equal(t, 1, len(suite.FailedTests)) {
			assert.Equal(t, []string{"NullPointerException at Main.java:3"}, suite.FailedTests[0].TestMessages)
		}
	})

	t.Run("IgnoresNameOfSingleWrappedSuite", func(t *testing.T) {

		suite := &api.TestSuite{}
		report := `<testsuites><testsuite name="pytest"><testcase name="test_sort" classname="tests.test_sort"/></testsuite></testsuites>`

		// act
		err := parseJUnitReport([]byte(report), suite)

		assert.Nil(t, err)
		if assert.Equal(t, 1, len(suite.SuccessfulTests)) {
			assert.Equal(t, "test_sort", suite.SuccessfulTests[0].Name)
			assert.Equal(t, "tests.test_sort", suite.SuccessfulTests[0].Classname)
		}
	})

	t.Run("KeepsTestsBesideSingleWrappedSuite", func(t *testing.T) {

		suite := &api.TestSuite{}
		report := `<testsuites>
			<testcase name="compiles"/>
			<testsuite name="pytest"><testcase name="test_sort"><failure message="expected [1, 2]"/></testcase></testsuite>
		</testsuites>`

		// act
		err := parseJUnitReport([]byte(report), suite)

		assert.Nil(t, err)
		if assert.Equal(t, 1, len(suite.SuccessfulTests)) {
			assert.Equal(t, "compiles", suite.SuccessfulTests[0].Name)
		}
		if assert.Equal(t, 1, len(suite.FailedTests)) {
			assert.Equal(t, "test_sort", suite.FailedTests[0].Name)
		}
	})

	t.Run("PrefixesTestsOfNestedSuites", func(t *testing.T) {

		suite := &api.TestSuite{}
		report := `<testsuites>
			<testsuite name="Sorting"><testsuite name="BubbleSort"><testcase name="sortsEmptyList"/></testsuite></testsuite>
			<testsuite name="Search"><testcase name="findsElement"/></testsuite>
		</testsuites>`

		// act
		err := parseJUnitReport([]byte(report), suite)

		assert.Nil(t, err)
		if assert.Equal(t, 2, len(suite.SuccessfulTests)) {
			assert.Equal(t, "Sorting.BubbleSort.sortsEmptyList", suite.SuccessfulTests[0].Name)
			assert.Equal(t, "Search.findsElement", suite.SuccessfulTests[1].Name)
		}
	})

	t.Run("StripsInvalidXmlCharacters", func(t *testing.T) {

		suite := &api.TestSuite{}
		report := "<testsuite><testcase name=\"a\"><failure message=\"expected \x01\x02 got\"/></testcase></testsuite>"

		// act
		err := parseJUnitReport([]byte(report), suite)

		assert.Nil(t, err)
		if assert.Equal(t, 1, len(suite.FailedTests)) {
			assert.Equal(t, []string{"expected  got"}, suite.FailedTests[0].TestMessages)
		}
	})

	t.Run("DecodesLatin1Reports", func(t *testing.T) {

		suite := &api.TestSuite{}
		report := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><testsuite><testcase name="gr`), 0xFC)
		report = append(report, []byte(`n"/></testsuite>`)...)

		// act
		err := parseJUnitReport(report, suite)

		assert.Nil(t, err)
		if assert.Equal(t, 1, len(suite.SuccessfulTests)) {
			assert.Equal(t, "grün", suite.SuccessfulTests[0].Name)
		}
	})

	t.Run("ReturnsErrInvalidTestReportForMalformedXml", func(t *testing.T) {

		suite := &api.TestSuite{}

		// act
		err := parseJUnitReport([]byte(`<testsuite><testcase`), suite)

		assert.True(t, errors.Is(err, ErrInvalidTestReport))
	})
}
