// Package tester runs test cases that pair an Arvo source with the parse result it must produce.
package tester

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/arvo/ast"
	"github.com/nihei9/arvo/driver/parser"
	"github.com/nihei9/arvo/syntax"
	"gopkg.in/yaml.v3"
)

// TestCase is a test case written in YAML:
//
//	caption: a stray semicolon
//	source: |
//	  module m { fn f() {} ; }
//	status: rejected
//	errors:
//	  - "1:22: syntax error"
//	tree: |
//	  Root
//	  └─ Module
//	  ...
//
// An omitted `status` means `accepted`. Omitted `errors` and `tree` are not compared.
type TestCase struct {
	Caption string   `yaml:"caption"`
	Source  string   `yaml:"source"`
	Status  string   `yaml:"status"`
	Errors  []string `yaml:"errors"`
	Tree    string   `yaml:"tree"`
}

func ParseTestCase(src []byte) (*TestCase, error) {
	c := &TestCase{}
	err := yaml.Unmarshal(src, c)
	if err != nil {
		return nil, err
	}
	if c.Status == "" {
		c.Status = parser.StatusAccepted.String()
	}
	switch c.Status {
	case parser.StatusAccepted.String(), parser.StatusRejected.String(), parser.StatusAborted.String():
	default:
		return nil, fmt.Errorf("invalid status: %v", c.Status)
	}
	return c, nil
}

// TreeDiff is a line at which an actual tree differs from an expected one.
type TreeDiff struct {
	Line     int
	Expected string
	Actual   string
}

func (d *TreeDiff) Message() string {
	return fmt.Sprintf("line %v differs", d.Line)
}

type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []*TreeDiff
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			diffLines = append(diffLines, diff.Message())
			diffLines = append(diffLines, fmt.Sprintf("%vexpected: %v", indent1, diff.Expected))
			diffLines = append(diffLines, fmt.Sprintf("%vactual:   %v", indent1, diff.Actual))
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

type TestCaseWithMetadata struct {
	TestCase *TestCase
	FilePath string
	Error    error
}

// ListTestCases reads a test case file, or all `.yaml` files under a directory recursively.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := readTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		if !e.IsDir() && filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func readTestCase(testCasePath string) (*TestCase, error) {
	src, err := os.ReadFile(testCasePath)
	if err != nil {
		return nil, err
	}
	return ParseTestCase(src)
}

type Tester struct {
	Cases []*TestCaseWithMetadata

	// Options are passed to the parser of every test case.
	Options []parser.ParserOption
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, t.runTest(c))
	}
	return rs
}

func (t *Tester) runTest(c *TestCaseWithMetadata) *TestResult {
	res, err := syntax.Parse(strings.NewReader(c.TestCase.Source), t.Options...)
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}

	if res.Status.String() != c.TestCase.Status {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("status mismatch: expected: %v, actual: %v", c.TestCase.Status, res.Status),
		}
	}

	if c.TestCase.Errors != nil {
		if err := diffErrors(c.TestCase.Errors, res.SyntaxErrors); err != nil {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        err,
			}
		}
	}

	if c.TestCase.Tree == "" {
		return &TestResult{
			TestCasePath: c.FilePath,
		}
	}

	if res.Root == nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("a tree was not generated: %v", res.Cause),
		}
	}
	var b bytes.Buffer
	ast.PrintTree(&b, res.Root)
	diffs := DiffTree(c.TestCase.Tree, b.String())
	if len(diffs) > 0 {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("output mismatch"),
			Diffs:        diffs,
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
	}
}

func diffErrors(expected []string, actual []*parser.SyntaxError) error {
	if len(expected) != len(actual) {
		return fmt.Errorf("syntax error count mismatch: expected: %v, actual: %v: %v", len(expected), len(actual), actual)
	}
	for i, e := range expected {
		if actual[i].Error() != e {
			return fmt.Errorf("syntax error mismatch: expected: %v, actual: %v", e, actual[i])
		}
	}
	return nil
}

// DiffTree compares printed trees line by line. Trailing blank lines are ignored.
func DiffTree(expected, actual string) []*TreeDiff {
	eLines := strings.Split(strings.TrimRight(expected, "\n"), "\n")
	aLines := strings.Split(strings.TrimRight(actual, "\n"), "\n")

	var diffs []*TreeDiff
	for i := 0; i < len(eLines) || i < len(aLines); i++ {
		var e, a string
		if i < len(eLines) {
			e = eLines[i]
		}
		if i < len(aLines) {
			a = aLines[i]
		}
		if e != a {
			diffs = append(diffs, &TreeDiff{
				Line:     i + 1,
				Expected: e,
				Actual:   a,
			})
		}
	}
	return diffs
}
