package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabfilter/internal/version"
	"tabfilter/internal/widget"
)

const people = `<html><body><table id="p">
<thead><tr><th>Name</th><th>Age</th></tr></thead>
<tbody>
<tr><td>John</td><td>49</td></tr>
<tr><td>Anne</td><td>22</td></tr>
<tr><td>Anne</td><td>31</td></tr>
</tbody></table></body></html>`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeDoc(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "people.html")
	require.NoError(t, os.WriteFile(p, []byte(people), 0o644))
	return p
}

func TestExportFileWithSelects(t *testing.T) {
	out, err := execute(t, "", "export", writeDoc(t), "--select", "0=Anne", "--select", "1=31", "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "Name,Age\nAnne,31\n", out)
}

func TestExportFromStdin(t *testing.T) {
	out, err := execute(t, people, "export", "--selector", "#p", "--format", "json")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3)
}

func TestExportHTMLDefault(t *testing.T) {
	out, err := execute(t, "", "export", writeDoc(t), "--select", "0=John")
	require.NoError(t, err)
	assert.Contains(t, out, `<select class="tabfilter" data-column="0">`)
	assert.Contains(t, out, `<option value="John" selected="">John</option>`)
	assert.NotContains(t, out, "<td>Anne</td>")
}

func TestExportToFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "view.txt")
	out, err := execute(t, "", "export", writeDoc(t), "--format", "table", "--out", dest)
	require.NoError(t, err)
	assert.Empty(t, out)
	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Anne")
}

func TestExportClearingSelect(t *testing.T) {
	out, err := execute(t, "", "export", writeDoc(t), "--empty-text", "(any)",
		"--select", "0=Anne", "--select", "0=", "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "Name,Age\nJohn,49\nAnne,22\nAnne,31\n", out)
}

func TestExportColumnsLimit(t *testing.T) {
	_, err := execute(t, "", "export", writeDoc(t), "--columns", "1", "--select", "1=22")
	assert.ErrorIs(t, err, widget.ErrUnknownColumn)
}

func TestExportErrors(t *testing.T) {
	_, err := execute(t, "", "export", writeDoc(t), "--selector", "#missing")
	assert.True(t, widget.IsResolutionError(err))

	_, err = execute(t, "", "export", writeDoc(t), "--select", "0=Zed")
	assert.ErrorIs(t, err, widget.ErrUnknownOption)

	_, err = execute(t, "", "export", writeDoc(t), "--format", "xml")
	assert.Error(t, err)
}

func TestRootRequiresOutForExport(t *testing.T) {
	_, err := execute(t, "", writeDoc(t), "--export", "csv")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "tabfilter "+version.String()+"\n", out)

	out, err = execute(t, "", "version", "--format", "json")
	require.NoError(t, err)
	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version.Version, info.Version)
}

func TestExportWritesMetrics(t *testing.T) {
	prom := filepath.Join(t.TempDir(), "tabfilter.prom")
	_, err := execute(t, "", "export", writeDoc(t), "--select", "0=Anne", "--format", "csv", "--metrics-out", prom)
	require.NoError(t, err)
	b, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(b), `tabfilter_cycles_total{selector="table"} 1`)
	assert.Contains(t, string(b), `tabfilter_visible_rows{selector="table"} 2`)
}
