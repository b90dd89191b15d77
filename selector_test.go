package runzip

import "testing"

func TestNewGlobSelector_EmptyMeansAll(t *testing.T) {
	t.Parallel()

	sel, err := NewGlobSelector(nil, nil)
	if err != nil {
		t.Fatalf("NewGlobSelector: %v", err)
	}

	if !sel(IndexEntry{FileName: "anything/at/all.txt"}) {
		t.Fatal("empty selector should include every entry")
	}
}

func TestNewGlobSelector_IncludeExclude(t *testing.T) {
	t.Parallel()

	sel, err := NewGlobSelector([]string{"assets/**"}, []string{"assets/*.tmp"})
	if err != nil {
		t.Fatalf("NewGlobSelector: %v", err)
	}

	cases := map[string]bool{
		"assets/image.png": true,
		"assets/scratch.tmp": false,
		"other/file.txt":     false,
	}

	for name, want := range cases {
		if got := sel(IndexEntry{FileName: name}); got != want {
			t.Errorf("sel(%q)=%v, want %v", name, got, want)
		}
	}
}
