package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Char", "Code", "Accuracy"}
	rows := [][]string{
		{"q", "--.-", "25.00%"},
		{"e", ".", "100.00%"},
	}
	rightAlign := map[int]bool{2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[0] != "Char Code Accuracy" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "---- ---- --------" {
		t.Fatalf("unexpected rule line: %q", lines[1])
	}
	if lines[2] != "q    --.-   25.00%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
	if lines[3] != "e    .     100.00%" {
		t.Fatalf("unexpected row line: %q", lines[3])
	}
}
