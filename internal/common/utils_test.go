package common

import "testing"

func TestHasAnyExt(t *testing.T) {
	cases := []struct {
		name string
		exts []string
		want bool
	}{
		{"forecast.csv", []string{".csv"}, true},
		{"FORECAST.XLSX", []string{".csv", ".xlsx"}, true},
		{"notes.txt", []string{".csv", ".xlsx"}, false},
		{"csv", []string{".csv"}, false},
		{"archive.csv.gz", []string{".csv"}, false},
	}
	for _, tc := range cases {
		if got := HasAnyExt(tc.name, tc.exts...); got != tc.want {
			t.Errorf("HasAnyExt(%q, %v) = %v, want %v", tc.name, tc.exts, got, tc.want)
		}
	}
}
