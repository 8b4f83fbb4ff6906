package snapshot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"tabfilter/internal/dom"
)

func table(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := dom.ParseString(src)
	require.NoError(t, err)
	n, err := dom.Resolve(doc, "table")
	require.NoError(t, err)
	return n
}

func TestHeaderCount(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want int
	}{
		{"thead", `<table><thead><tr><th>a</th><th>b</th><th>c</th></tr></thead><tbody><tr><td>1</td></tr></tbody></table>`, 3},
		{"last thead row", `<table><thead><tr><th colspan=2>g</th></tr><tr><th>a</th><th>b</th></tr></thead></table>`, 2},
		{"body only", `<table><tr><td>1</td><td>2</td></tr></table>`, 2},
		{"empty", `<table></table>`, 0},
		{"filter row skipped", `<table><thead><tr><th>a</th><th>b</th></tr><tr class="tabfilter-row"><th></th></tr></thead></table>`, 2},
		{"only filter row", `<table><thead><tr class="tabfilter-row"><th></th></tr></thead><tr><td>1</td><td>2</td><td>3</td></tr></table>`, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HeaderCount(table(t, tc.src)))
		})
	}
}

func TestHeaderRows(t *testing.T) {
	tb := table(t, `<table><thead><tr><th>g</th></tr><tr class="x tabfilter-row"><th></th></tr><tr><th>a</th></tr></thead></table>`)
	rows := HeaderRows(tb)
	require.Len(t, rows, 2)
	assert.Equal(t, "g", dom.CellText(dom.Cells(rows[0])[0]))
	assert.Equal(t, "a", dom.CellText(dom.Cells(rows[1])[0]))

	assert.Nil(t, HeaderRows(table(t, `<table><tr><td>1</td></tr></table>`)))
}

func TestBuild(t *testing.T) {
	tb := table(t, `<table>
<thead><tr><th>Name</th><th>Age</th><th>Note</th></tr></thead>
<tbody>
<tr><td>John</td><td>49</td><td>x</td></tr>
<tr><td> Anne
  Marie </td><td>22</td><td>y</td></tr>
</tbody>
<tbody><tr><th>Zoe</th><td>31</td><td>z</td></tr></tbody>
</table>`)

	s, err := Build(tb, 2)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	assert.Equal(t, []string{"John", "49"}, s.Rows[0].Cells)
	assert.Equal(t, []string{" Anne Marie ", "22"}, s.Rows[1].Cells)
	assert.Equal(t, []string{"Zoe", "31"}, s.Rows[2].Cells)
	for i, r := range s.Rows {
		assert.Equal(t, i, r.Index)
		assert.True(t, r.Visible)
		assert.Same(t, s.Sections[i], s.Elements[i].Parent)
	}
	assert.NotSame(t, s.Sections[0], s.Sections[2])
}

func TestBuildMalformedRow(t *testing.T) {
	tb := table(t, `<table><tbody>
<tr><td>John</td><td>49</td></tr>
<tr><td>Anne</td></tr>
</tbody></table>`)

	_, err := Build(tb, 2)
	require.Error(t, err)
	var mre *MalformedRowError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, 1, mre.Row)
	assert.Equal(t, 1, mre.Cells)
	assert.Equal(t, 2, mre.Want)
	assert.Contains(t, err.Error(), "row 1")

	// fewer filtered columns tolerates the short row
	s, err := Build(tb, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
}
