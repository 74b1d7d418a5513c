package git

import "testing"

func TestFileChange_Churn(t *testing.T) {
	tests := []struct {
		name     string
		added    int
		deleted  int
		expected int
	}{
		{name: "Both positive", added: 10, deleted: 5, expected: 15},
		{name: "Only added", added: 10, deleted: 0, expected: 10},
		{name: "Only deleted", added: 0, deleted: 5, expected: 5},
		{name: "Both zero", added: 0, deleted: 0, expected: 0},
		{name: "Large values", added: 1000, deleted: 500, expected: 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := FileChange{LinesAdded: tt.added, LinesDeleted: tt.deleted}
			result := f.Churn()
			if result != tt.expected {
				t.Errorf("Churn() = %d, expected %d", result, tt.expected)
			}
		})
	}
}

func TestChangeKind_String(t *testing.T) {
	tests := []struct {
		name     string
		kind     ChangeKind
		expected string
	}{
		{name: "Added", kind: ChangeKindAdded, expected: "added"},
		{name: "Modified", kind: ChangeKindModified, expected: "modified"},
		{name: "Deleted", kind: ChangeKindDeleted, expected: "deleted"},
		{name: "Renamed", kind: ChangeKindRenamed, expected: "renamed"},
		{name: "Unknown", kind: ChangeKind(99), expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.kind.String()
			if result != tt.expected {
				t.Errorf("String() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

func TestCommitChangeSet_Touches(t *testing.T) {
	cs := CommitChangeSet{
		Commit: CommitInfo{SHA: "abc"},
		Changes: []FileChange{
			{Path: "src/main.go", Kind: ChangeKindModified},
			{Path: "docs/new.md", OldPath: "docs/old.md", Kind: ChangeKindRenamed},
		},
	}

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{name: "Exact path", path: "src/main.go", expected: true},
		{name: "Dot slash prefix", path: "./src/main.go", expected: true},
		{name: "Backslash separators", path: "src\\main.go", expected: true},
		{name: "Rename target", path: "docs/new.md", expected: true},
		{name: "Rename source", path: "docs/old.md", expected: true},
		{name: "Basename only", path: "main.go", expected: false},
		{name: "Prefix only", path: "src", expected: false},
		{name: "Empty", path: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cs.Touches(tt.path); got != tt.expected {
				t.Errorf("Touches(%q) = %v, expected %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestCommitInfo_ShortSHAAndIsMerge(t *testing.T) {
	c := CommitInfo{SHA: "0123456789abcdef", ParentSHAs: []string{"a"}}
	if got := c.ShortSHA(); got != "0123456" {
		t.Errorf("ShortSHA() = %q, expected %q", got, "0123456")
	}
	if c.IsMerge() {
		t.Error("single-parent commit reported as merge")
	}

	c = CommitInfo{SHA: "abc", ParentSHAs: []string{"a", "b"}}
	if got := c.ShortSHA(); got != "abc" {
		t.Errorf("ShortSHA() = %q, expected %q", got, "abc")
	}
	if !c.IsMerge() {
		t.Error("two-parent commit not reported as merge")
	}
}
