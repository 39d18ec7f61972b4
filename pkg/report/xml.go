package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/arthur-debert/precheck/pkg/errors"
	"github.com/arthur-debert/precheck/pkg/runner"
)

// stderrTailLines bounds how much tool output ends up in the XML report
const stderrTailLines = 50

// WriteXML writes the results as a JUnit-style testsuite document, one
// testcase per action, so CI systems can ingest the run without parsing
// terminal output.
func WriteXML(w io.Writer, results []runner.Result) error {
	sum := runner.Summarize(results)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	suite := doc.CreateElement("testsuite")
	suite.CreateAttr("name", "precheck")
	suite.CreateAttr("tests", fmt.Sprintf("%d", sum.Total))
	suite.CreateAttr("failures", fmt.Sprintf("%d", sum.Failed))
	suite.CreateAttr("skipped", fmt.Sprintf("%d", sum.Skipped))

	var total time.Duration
	for _, res := range results {
		total += res.Duration
	}
	suite.CreateAttr("time", fmt.Sprintf("%.3f", total.Seconds()))

	for _, res := range results {
		tc := suite.CreateElement("testcase")
		tc.CreateAttr("name", res.Action)
		tc.CreateAttr("classname", "precheck")
		tc.CreateAttr("time", fmt.Sprintf("%.3f", res.Duration.Seconds()))

		switch {
		case res.Skipped:
			tc.CreateElement("skipped")
		case res.Failed():
			failure := tc.CreateElement("failure")
			if res.Err != nil {
				failure.CreateAttr("message", res.Err.Error())
			}
			failure.CreateAttr("type", string(errors.GetErrorCode(res.Err)))
			failure.SetText(tail(res.Stderr, stderrTailLines))
		}

		if len(res.Stdout) > 0 {
			out := tc.CreateElement("system-out")
			out.SetText(tail(res.Stdout, stderrTailLines))
		}
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

// SaveXML writes the XML report to path
func SaveXML(path string, results []runner.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot write report to %s", path)
	}
	if err := WriteXML(f, results); err != nil {
		f.Close()
		return errors.Wrapf(err, errors.ErrInternal, "cannot write report to %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot write report to %s", path)
	}
	return nil
}

// tail returns at most n trailing lines of a byte stream
func tail(b []byte, n int) string {
	text := strings.TrimRight(string(b), "\n")
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
