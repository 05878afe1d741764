package router

import (
	"errors"
	"strings"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func TestBuildTableDefaults(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "home.vue")
	writePage(t, root, "detail/_id_.vue")

	table, err := BuildTable(root, nil)
	if err != nil {
		t.Fatalf("BuildTable() returned error: %v", err)
	}

	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}

	home, ok := table.Get("home")
	if !ok {
		t.Fatal("route home not found")
	}
	if home.Path != "/home" {
		t.Errorf("home.Path = %q, want %q", home.Path, "/home")
	}
	if home.LazyLoading {
		t.Error("home.LazyLoading = true without a chunkname")
	}
	if home.Prerender {
		t.Error("home.Prerender = true without an override")
	}
	if home.Matcher == nil {
		t.Fatal("home.Matcher is nil")
	}
	if home.Hash == "" || home.Hash != RouteHash("home") {
		t.Errorf("home.Hash = %q, want %q", home.Hash, RouteHash("home"))
	}
	if home.HTMLPath != "" {
		t.Errorf("home.HTMLPath = %q before any build", home.HTMLPath)
	}

	detail, ok := table.Get("detail-id")
	if !ok {
		t.Fatal("route detail-id not found")
	}
	if detail.Path != "/detail/:id" {
		t.Errorf("detail.Path = %q, want %q", detail.Path, "/detail/:id")
	}
	if !detail.Matcher.Match("/detail/42") || detail.Matcher.Match("/detail") {
		t.Error("detail matcher does not follow its pattern")
	}
}

func TestBuildTableOverrides(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "home.vue")
	writePage(t, root, "detail.vue")

	overrides := []Override{
		{Name: "home", Path: "/", Prerender: boolPtr(true)},
		{
			Name:      "detail",
			Path:      "/detail/:id",
			Prerender: boolPtr(true),
			Skeleton:  "skeletons/detail.vue",
			Chunkname: "detail-chunk",
		},
	}

	table, err := BuildTable(root, overrides)
	if err != nil {
		t.Fatalf("BuildTable() returned error: %v", err)
	}

	home, _ := table.Get("home")
	if home.Path != "/" {
		t.Errorf("override path did not win: home.Path = %q", home.Path)
	}
	if !home.Prerender {
		t.Error("home.Prerender = false, want true from override")
	}
	if !home.Matcher.Match("/") || home.Matcher.Match("/home") {
		t.Error("home matcher should follow the overridden pattern")
	}

	detail, _ := table.Get("detail")
	if detail.Path != "/detail/:id" {
		t.Errorf("detail.Path = %q, want %q", detail.Path, "/detail/:id")
	}
	if detail.Skeleton != "skeletons/detail.vue" {
		t.Errorf("detail.Skeleton = %q", detail.Skeleton)
	}
	if !detail.LazyLoading {
		t.Error("detail.LazyLoading = false, want true from chunkname")
	}
	if !detail.Matcher.Match("/detail/abc/") {
		t.Error("detail matcher should accept /detail/abc/")
	}
}

func TestBuildTableLazyLoading(t *testing.T) {
	tests := []struct {
		name     string
		override *Override
		want     bool
	}{
		{
			name:     "no override",
			override: nil,
			want:     false,
		},
		{
			name:     "chunkname implies lazy",
			override: &Override{Name: "home", Chunkname: "home-chunk"},
			want:     true,
		},
		{
			name:     "explicit false beats chunkname",
			override: &Override{Name: "home", Chunkname: "home-chunk", LazyLoading: boolPtr(false)},
			want:     false,
		},
		{
			name:     "explicit true without chunkname",
			override: &Override{Name: "home", LazyLoading: boolPtr(true)},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writePage(t, root, "home.vue")

			var overrides []Override
			if tt.override != nil {
				overrides = []Override{*tt.override}
			}

			table, err := BuildTable(root, overrides)
			if err != nil {
				t.Fatalf("BuildTable() returned error: %v", err)
			}
			home, _ := table.Get("home")
			if home.LazyLoading != tt.want {
				t.Errorf("LazyLoading = %v, want %v", home.LazyLoading, tt.want)
			}
		})
	}
}

func TestBuildTableDuplicateNames(t *testing.T) {
	root := t.TempDir()
	// Both notations resolve to the same name and pattern.
	writePage(t, root, "detail/[id].vue")
	writePage(t, root, "detail/_id_.vue")

	_, err := BuildTable(root, nil)
	if err == nil {
		t.Fatal("BuildTable() succeeded with duplicate route names")
	}

	var multi *MultiValidationError
	if !errors.As(err, &multi) {
		t.Fatalf("error type = %T, want *MultiValidationError", err)
	}
	if len(multi.Errors) != 1 {
		t.Fatalf("got %d validation errors, want 1: %v", len(multi.Errors), multi)
	}
	ve := multi.Errors[0]
	if ve.Type != ErrorDuplicateName {
		t.Errorf("Type = %q, want %q", ve.Type, ErrorDuplicateName)
	}
	if ve.Route != "detail-id" {
		t.Errorf("Route = %q, want %q", ve.Route, "detail-id")
	}
	if len(ve.Files) != 2 {
		t.Errorf("Files = %v, want both page modules", ve.Files)
	}
}

func TestBuildTableMalformedOverridePattern(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "detail.vue")

	_, err := BuildTable(root, []Override{{Name: "detail", Path: "/detail/:"}})
	if err == nil {
		t.Fatal("BuildTable() succeeded with a malformed pattern")
	}

	var multi *MultiValidationError
	if !errors.As(err, &multi) {
		t.Fatalf("error type = %T, want *MultiValidationError", err)
	}
	if multi.Errors[0].Type != ErrorMalformedPattern {
		t.Errorf("Type = %q, want %q", multi.Errors[0].Type, ErrorMalformedPattern)
	}
}

func TestBuildTableInsertionOrder(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "a.vue")
	writePage(t, root, "b/index.vue")
	writePage(t, root, "c.vue")

	table, err := BuildTable(root, nil)
	if err != nil {
		t.Fatalf("BuildTable() returned error: %v", err)
	}

	want := []string{"a", "b", "c"}
	got := table.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", got, want)
		}
	}
}

func TestBuildTableUnmatchedOverrideWarns(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "home.vue")

	table, err := BuildTable(root, []Override{{Name: "ghost", Path: "/ghost"}})
	if err != nil {
		t.Fatalf("BuildTable() returned error: %v", err)
	}

	warnings := table.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("Warnings() = %v, want one entry", warnings)
	}
	if !strings.Contains(warnings[0], "ghost") {
		t.Errorf("warning %q should name the unmatched override", warnings[0])
	}

	// The unmatched override must not create a route.
	if _, ok := table.Get("ghost"); ok {
		t.Error("unmatched override produced a route")
	}
}

func TestTableFindMatch(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "home.vue")
	writePage(t, root, "detail.vue")

	overrides := []Override{
		{Name: "home", Path: "/"},
		{Name: "detail", Path: "/detail/:id"},
	}
	table, err := BuildTable(root, overrides)
	if err != nil {
		t.Fatalf("BuildTable() returned error: %v", err)
	}

	tests := []struct {
		path     string
		wantName string
		wantOK   bool
	}{
		{"/", "home", true},
		{"/detail/42", "detail", true},
		{"/detail/abc/", "detail", true},
		{"/detail", "", false},
		{"/nowhere", "", false},
	}

	for _, tt := range tests {
		route, ok := table.FindMatch(tt.path)
		if ok != tt.wantOK {
			t.Errorf("FindMatch(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			continue
		}
		if ok && route.Name != tt.wantName {
			t.Errorf("FindMatch(%q) = %q, want %q", tt.path, route.Name, tt.wantName)
		}
	}
}
