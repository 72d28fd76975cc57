package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nihei9/arvo/driver/parser"
)

func TestTester_Run(t *testing.T) {
	tests := []struct {
		testSrc string
		error   bool
	}{
		{
			testSrc: `
caption: accepted
source: "x: int;"
tree: |
  Root
  └─ Module
     └─ items
        └─ Variable x
           └─ UnresolvedType int
`,
		},
		{
			testSrc: `
caption: a tree is not compared when omitted
source: "x: int;"
`,
		},
		{
			testSrc: `
caption: a broken item
source: "fn f() {} 1; fn g() {}"
status: rejected
errors:
  - "1:11: syntax error"
`,
		},
		{
			testSrc: `
caption: status mismatch
source: "x: int"
`,
			error: true,
		},
		{
			testSrc: `
caption: error count mismatch
source: "fn f() {} 1; fn g() {}"
status: rejected
errors: []
`,
			error: true,
		},
		{
			testSrc: `
caption: error message mismatch
source: "fn f() {} 1; fn g() {}"
status: rejected
errors:
  - "1:1: syntax error"
`,
			error: true,
		},
		{
			testSrc: `
caption: tree mismatch
source: "x: int;"
tree: |
  Root
  └─ Module
     └─ items
        └─ Variable y
           └─ UnresolvedType int
`,
			error: true,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			c, err := ParseTestCase([]byte(tt.testSrc))
			if err != nil {
				t.Fatal(err)
			}
			tester := &Tester{
				Cases: []*TestCaseWithMetadata{
					{
						TestCase: c,
					},
				},
			}
			rs := tester.Run()
			if tt.error {
				errOccurred := false
				for _, r := range rs {
					if r.Error != nil {
						errOccurred = true
					}
				}
				if !errOccurred {
					t.Fatal("this test must fail, but it passed")
				}
			} else {
				for _, r := range rs {
					if r.Error != nil {
						t.Fatalf("unexpected error occurred: %v", r)
					}
				}
			}
		})
	}
}

func TestTester_TestData(t *testing.T) {
	cs := ListTestCases("testdata")
	if len(cs) == 0 {
		t.Fatal("no test case found")
	}
	for _, c := range cs {
		if c.Error != nil {
			t.Fatalf("%v: %v", c.FilePath, c.Error)
		}
	}

	tester := &Tester{
		Cases:   cs,
		Options: []parser.ParserOption{parser.MaxStackDepth(1000)},
	}
	for _, r := range tester.Run() {
		if r.Error != nil {
			t.Error(r)
		}
	}
}

func TestListTestCases(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.yaml":       `source: "x: int;"`,
		"b.txt":        `not a test case`,
		"sub/c.yaml":   `source: ""`,
		"sub/bad.yaml": `status: unknown`,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cs := ListTestCases(dir)
	if len(cs) != 3 {
		t.Fatalf("unexpected test cases: %v", len(cs))
	}
	errCount := 0
	for _, c := range cs {
		if c.Error != nil {
			errCount++
			if !strings.HasSuffix(c.FilePath, "bad.yaml") {
				t.Errorf("unexpected error: %v: %v", c.FilePath, c.Error)
			}
		}
	}
	if errCount != 1 {
		t.Fatalf("an invalid status must be reported")
	}
}

func TestTestResult_String(t *testing.T) {
	r := &TestResult{
		TestCasePath: "a.yaml",
		Error:        fmt.Errorf("output mismatch"),
		Diffs:        DiffTree("Root\n└─ Module\n", "Root\n"),
	}
	expected := `Failed a.yaml:
    output mismatch
        line 2 differs
            expected: └─ Module
            actual:   `
	if r.String() != expected {
		t.Fatalf("unexpected string\nwant: %q\ngot:  %q", expected, r.String())
	}
}
