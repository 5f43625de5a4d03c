package formatter

import (
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	tests := []struct {
		name     string
		cols     []Column
		rows     [][]string
		expected string
	}{
		{
			name: "basic alignment",
			cols: []Column{{Title: "Header 1"}, {Title: "Header 2"}},
			rows: [][]string{{"val 1", "val 2"}},
			expected: `
| Header 1 | Header 2 |
| -------- | -------- |
| val 1    | val 2    |
`,
		},
		{
			name: "minimum separator width",
			cols: []Column{{Title: "H1"}, {Title: "H2"}},
			rows: [][]string{{"v1", "v2"}},
			expected: `
| H1  | H2  |
| --- | --- |
| v1  | v2  |
`,
		},
		{
			name: "right alignment and trimming",
			cols: []Column{{Title: "Campaign"}, {Title: "Sent", Align: AlignRight}},
			rows: [][]string{{"  Spring  ", "1,000"}, {"Flash", "5"}},
			expected: `
| Campaign |  Sent |
| -------- | ----: |
| Spring   | 1,000 |
| Flash    |     5 |
`,
		},
		{
			name: "mixed CJK and ASCII",
			cols: []Column{{Title: "Date"}, {Title: "Campaign"}},
			rows: [][]string{{"2025-01-01", "春節促銷"}, {"2025-01-02", "Short text"}},
			expected: `
| Date       | Campaign   |
| ---------- | ---------- |
| 2025-01-01 | 春節促銷   |
| 2025-01-02 | Short text |
`,
		},
		{
			name: "short rows padded",
			cols: []Column{{Title: "A"}, {Title: "B"}},
			rows: [][]string{{"x"}},
			expected: `
| A   | B   |
| --- | --- |
| x   |     |
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderTable(tt.cols, tt.rows)
			if strings.TrimSpace(got) != strings.TrimSpace(tt.expected) {
				t.Errorf("RenderTable() = \n%v\nwant \n%v", got, tt.expected)
			}
		})
	}
}

func TestRenderTable_Truncates(t *testing.T) {
	got := RenderTable([]Column{{Title: "Name", MaxWidth: 6}}, [][]string{{"Black Friday Mega Sale"}})

	if !strings.Contains(got, "| Black… |") {
		t.Errorf("long cell not truncated:\n%s", got)
	}
}

func TestRenderTable_NoColumns(t *testing.T) {
	if got := RenderTable(nil, [][]string{{"x"}}); got != "" {
		t.Errorf("RenderTable(nil) = %q", got)
	}
}
