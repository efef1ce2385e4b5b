package testutil

import (
	"strconv"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// AssertPages fails t with a unified diff when the extracted pages differ from want.
func AssertPages(t *testing.T, got, want []string) {
	t.Helper()
	if pagesEqual(got, want) {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        pageLines(want),
		B:        pageLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	t.Errorf("pages mismatch:\n%s", diff)
}

func pagesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func pageLines(pages []string) []string {
	lines := make([]string, 0, len(pages))
	for i, p := range pages {
		lines = append(lines, "["+strconv.Itoa(i)+"] "+strings.ReplaceAll(p, "\n", `\n`)+"\n")
	}
	return lines
}
