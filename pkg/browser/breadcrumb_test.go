package browser

import (
	"testing"
)

func TestBreadcrumbs(t *testing.T) {
	tests := []struct {
		name  string
		stack []string
		want  []Crumb
	}{
		{
			name: "root",
			want: []Crumb{{Label: RootLabel, Path: "", Current: true}},
		},
		{
			name:  "nested",
			stack: []string{"src", "src/main", "src/main/java"},
			want: []Crumb{
				{Label: RootLabel, Path: ""},
				{Label: "src", Path: "src"},
				{Label: "main", Path: "src/main"},
				{Label: "java", Path: "src/main/java", Current: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Breadcrumbs(State{PathStack: tt.stack, open: true})
			if len(got) != len(tt.want) {
				t.Fatalf("Breadcrumbs() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("crumb %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCanGoBack(t *testing.T) {
	tests := []struct {
		name string
		s    State
		want bool
	}{
		{"closed", State{}, false},
		{"root tree", State{open: true}, false},
		{"nested tree", State{open: true, PathStack: []string{"src"}}, true},
		{"root file", State{open: true, Mode: FileView}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanGoBack(tt.s); got != tt.want {
				t.Errorf("CanGoBack() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseNodeType(t *testing.T) {
	if ParseNodeType("tree") != Directory || ParseNodeType("blob") != File || ParseNodeType("commit") != File {
		t.Error("ParseNodeType mapping wrong")
	}
	if Directory.String() != "tree" || File.String() != "blob" {
		t.Error("NodeType.String mapping wrong")
	}
}
