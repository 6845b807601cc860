package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngenohkevin/storcat-agent/internal/catalog"
)

func fixtureTree() *catalog.Entry {
	return &catalog.Entry{Kind: catalog.KindDirectory, Name: "./backup", Size: 2078, Children: []*catalog.Entry{
		{Kind: catalog.KindDirectory, Name: "./backup/data", Size: 2068, Children: []*catalog.Entry{
			{Kind: catalog.KindFile, Name: "./backup/data/values.csv", Size: 2048},
			{Kind: catalog.KindFile, Name: "./backup/data/zero.bin", Size: 20},
		}},
		{Kind: catalog.KindDirectory, Name: "./backup/empty", Children: []*catalog.Entry{}},
		{Kind: catalog.KindFile, Name: "./backup/r&d <v2>.txt", Size: 10},
	}}
}

func TestHTML_TreeLines(t *testing.T) {
	page, err := HTML(fixtureTree(), "Backup")
	require.NoError(t, err)

	want := "└── [  2K]&nbsp;&nbsp;backup<br>\n" +
		"    ├── [  2K]&nbsp;&nbsp;data<br>\n" +
		"    │   ├── [  2K]&nbsp;&nbsp;values.csv<br>\n" +
		"    │   └── [ 20B]&nbsp;&nbsp;zero.bin<br>\n" +
		"    ├── [   0]&nbsp;&nbsp;empty<br>\n" +
		"    └── [ 10B]&nbsp;&nbsp;r&amp;d &lt;v2&gt;.txt<br>\n"
	assert.Contains(t, string(page), want)
}

func TestHTML_TitleAndFooter(t *testing.T) {
	page, err := HTML(fixtureTree(), `Tom & "Jerry"`)
	require.NoError(t, err)

	s := string(page)
	assert.True(t, strings.HasPrefix(s, "<!DOCTYPE html>\n<html>"))
	assert.Contains(t, s, "<title>Tom &amp; &quot;Jerry&quot;</title>")
	assert.Contains(t, s, "<h1>Tom &amp; &quot;Jerry&quot;</h1>")
	assert.Contains(t, s, "2K used in 3 directories, 3 files")
	assert.True(t, strings.HasSuffix(s, "</html>"))
}

func TestHTML_FileRoot(t *testing.T) {
	root := &catalog.Entry{Kind: catalog.KindFile, Name: "./single.txt", Size: 5}

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, root, "single"))

	assert.Contains(t, buf.String(), "└── [  5B]&nbsp;&nbsp;single.txt<br>\n")
	assert.Contains(t, buf.String(), "5B used in 0 directories, 1 files")
}

func TestHTML_ParentlessRoot(t *testing.T) {
	root := &catalog.Entry{Kind: catalog.KindDirectory, Name: catalog.RootName, Children: []*catalog.Entry{}}

	page, err := HTML(root, "disk")
	require.NoError(t, err)
	assert.Contains(t, string(page), "└── [   0]&nbsp;&nbsp;.<br>\n")
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "a&amp;b&lt;c&gt;&quot;d&quot;'e", EscapeHTML(`a&b<c>"d"'e`))
}

func TestTerminal(t *testing.T) {
	out := Terminal(fixtureTree(), 0)

	assert.True(t, strings.HasPrefix(out, "[  2K] backup\n"))
	assert.Contains(t, out, "data/")
	assert.Contains(t, out, "values.csv")
	assert.Contains(t, out, "empty/")

	shallow := Terminal(fixtureTree(), 1)
	assert.Contains(t, shallow, "data/")
	assert.NotContains(t, shallow, "values.csv")
}
