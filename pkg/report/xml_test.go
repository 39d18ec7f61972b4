package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteXML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, sampleResults()))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))

	suite := doc.SelectElement("testsuite")
	require.NotNil(t, suite)
	assert.Equal(t, "precheck", suite.SelectAttrValue("name", ""))
	assert.Equal(t, "3", suite.SelectAttrValue("tests", ""))
	assert.Equal(t, "1", suite.SelectAttrValue("failures", ""))
	assert.Equal(t, "1", suite.SelectAttrValue("skipped", ""))

	cases := suite.SelectElements("testcase")
	require.Len(t, cases, 3)

	assert.Equal(t, "format", cases[0].SelectAttrValue("name", ""))
	assert.Nil(t, cases[0].SelectElement("failure"))

	failure := cases[1].SelectElement("failure")
	require.NotNil(t, failure)
	assert.Equal(t, "ACTION_EXECUTE", failure.SelectAttrValue("type", ""))
	assert.Contains(t, failure.Text(), "incompatible types")

	assert.NotNil(t, cases[2].SelectElement("skipped"))
}

func TestWriteXMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, nil))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))
	suite := doc.SelectElement("testsuite")
	require.NotNil(t, suite)
	assert.Equal(t, "0", suite.SelectAttrValue("tests", ""))
}

func TestSaveXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xml")
	require.NoError(t, SaveXML(path, sampleResults()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<testsuite")
}
