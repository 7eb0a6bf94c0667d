package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSectionsNumericOrder(t *testing.T) {
	dict := map[string]string{
		"s2t":  "Two",
		"s10t": "Ten",
		"s1t":  "One",
	}
	var got []string
	for _, s := range ParseSections(dict) {
		got = append(got, s.Heading)
	}
	if diff := cmp.Diff([]string{"One", "Two", "Ten"}, got); diff != "" {
		t.Fatalf("章节顺序错误 (-want +got):\n%s", diff)
	}
}

func TestParseSectionsGroupsBody(t *testing.T) {
	dict := map[string]string{
		"s1t":  "H1",
		"s1b":  "A",
		"s1b2": "C",
		"s1b1": "B",
	}
	want := []Section{{Heading: "H1", Body: []string{"A", "B", "C"}}}
	if diff := cmp.Diff(want, ParseSections(dict)); diff != "" {
		t.Fatalf("正文分组错误 (-want +got):\n%s", diff)
	}
}

func TestParseSectionsEdgeCases(t *testing.T) {
	dict := map[string]string{
		"s1t":      "  Intro  ",
		"s1b":      "  first  ",
		"s1b1":     "   ",
		"s1x":      "ignored: wrong suffix",
		"s1b1a":    "ignored: trailing letter",
		"s10b":     "belongs to s10",
		"s10t":     "Ten",
		"s3t":      "Heading only",
		"s4t":      "   ",
		"s4b":      "dropped with its empty heading",
		"title":    "not a section",
		"metaDate": "2025-01-01",
	}
	want := []Section{
		{Heading: "Intro", Body: []string{"first"}},
		{Heading: "Heading only", Body: []string{}},
		{Heading: "Ten", Body: []string{"belongs to s10"}},
	}
	if diff := cmp.Diff(want, ParseSections(dict)); diff != "" {
		t.Fatalf("边界情况处理错误 (-want +got):\n%s", diff)
	}
}

func TestParseSectionsEmptyDictionary(t *testing.T) {
	if got := ParseSections(nil); len(got) != 0 {
		t.Fatalf("空字典应得到空章节列表，实际 %d", len(got))
	}
}

func TestCompareKeys(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"s2t", "s10t", -1},
		{"s10t", "s2t", 1},
		{"s1b", "s1b1", -1},
		{"s1b1", "s1b2", -1},
		{"s1b9", "s1b10", -1},
		{"s1t", "s1t", 0},
		{"a2", "b1", -1},
		{"s01", "s1", 1},
		{"s99999999999999999999999", "s100000000000000000000000", -1},
	}
	for _, tc := range cases {
		if got := CompareKeys(tc.a, tc.b); got != tc.want {
			t.Fatalf("CompareKeys(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
