package git

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeGit implements Runner for testing. Responses are keyed by the joined args.
type fakeGit struct {
	out   map[string]string
	errs  map[string]error
	calls []string
}

func newFakeGit() *fakeGit {
	return &fakeGit{out: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeGit) RunGit(ctx context.Context, dir string, args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	return f.out[key], nil
}

func TestListStaged(t *testing.T) {
	g := newFakeGit()
	g.out["diff --cached --name-only -z"] = "app.py\x00src/main.go\x00"

	res := NewCollector(g, "").ListStaged(context.Background())
	if res.Status != StatusOK {
		t.Fatalf("status = %v, want ok", res.Status)
	}
	if len(res.Paths) != 2 || res.Paths[0] != "app.py" || res.Paths[1] != "src/main.go" {
		t.Errorf("unexpected paths: %v", res.Paths)
	}
}

func TestListStaged_NotInRepo(t *testing.T) {
	g := newFakeGit()
	g.errs["diff --cached --name-only -z"] = &CmdError{
		Args:   []string{"diff"},
		Stderr: "fatal: not a git repository (or any of the parent directories): .git",
		Err:    errors.New("exit status 128"),
	}

	res := NewCollector(g, "").ListStaged(context.Background())
	if res.Status != StatusNotInRepo {
		t.Errorf("status = %v, want not in repository", res.Status)
	}
	if len(res.Paths) != 0 {
		t.Errorf("expected no paths, got %v", res.Paths)
	}
}

func TestListStaged_ToolFailed(t *testing.T) {
	g := newFakeGit()
	g.errs["diff --cached --name-only -z"] = errors.New("exec: \"git\": executable file not found in $PATH")

	res := NewCollector(g, "").ListStaged(context.Background())
	if res.Status != StatusToolFailed {
		t.Errorf("status = %v, want git failed", res.Status)
	}
	if res.Err == nil {
		t.Error("expected underlying error to be kept")
	}
}

func TestListStaged_UnquotedPaths(t *testing.T) {
	g := newFakeGit()
	g.out["diff --cached --name-only -z"] = "café.go\x00my file.go\x00"

	res := NewCollector(g, "").ListStaged(context.Background())
	if len(res.Paths) != 2 || res.Paths[0] != "café.go" || res.Paths[1] != "my file.go" {
		t.Errorf("unexpected paths: %q", res.Paths)
	}
}

func TestParseNumstat(t *testing.T) {
	out := "10\t2\tapp.py\x00-\t-\tlogo.png\x003\t0\t\x00src/old/util.go\x00src/new/util.go\x000\t5\ttab\there.go\x00"
	stats, err := parseNumstat(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []FileStat{
		{Path: "app.py", Added: 10, Removed: 2},
		{Path: "logo.png", Binary: true},
		{Path: "src/new/util.go", Added: 3},
		{Path: "tab\there.go", Removed: 5},
	}
	if len(stats) != len(want) {
		t.Fatalf("got %d stats, want %d", len(stats), len(want))
	}
	for i := range want {
		if stats[i] != want[i] {
			t.Errorf("stats[%d] = %+v, want %+v", i, stats[i], want[i])
		}
	}
}

func TestParseNumstat_Malformed(t *testing.T) {
	tests := []struct {
		name string
		out  string
	}{
		{"two fields", "10\tapp.py\x00"},
		{"non-numeric added", "x\t2\tapp.py\x00"},
		{"half binary", "-\t2\tapp.py\x00"},
		{"truncated rename", "1\t0\t\x00old.go\x00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseNumstat(tt.out)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
		})
	}
}

func TestDiffStats_SingleInvocation(t *testing.T) {
	g := newFakeGit()
	g.out["diff --cached --numstat -z -- a.go b.go"] = "1\t0\ta.go\x004\t1\tb.go\x00"

	stats, err := NewCollector(g, "").DiffStats(context.Background(), []string{"a.go", "b.go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 stats, got %d", len(stats))
	}
	if len(g.calls) != 1 {
		t.Errorf("expected one git call, got %v", g.calls)
	}
}

func TestDiffText_WithinBudget(t *testing.T) {
	g := newFakeGit()
	g.out["diff --cached -- a.go"] = "+a\n"
	g.out["diff --cached -- b.go"] = "+b\n"

	text, truncated := NewCollector(g, "").DiffText(context.Background(), []string{"a.go", "b.go"}, 100)
	if truncated {
		t.Error("did not expect truncation")
	}
	if text != "+a\n+b\n" {
		t.Errorf("text = %q", text)
	}
	if strings.Contains(text, TruncationMarker) {
		t.Error("marker must not appear when the diff fits")
	}
}

func TestDiffText_ExactlyBudget(t *testing.T) {
	g := newFakeGit()
	g.out["diff --cached -- a.go"] = strings.Repeat("x", 10)

	text, truncated := NewCollector(g, "").DiffText(context.Background(), []string{"a.go"}, 10)
	if truncated || len(text) != 10 {
		t.Errorf("got len %d truncated %v, want 10 false", len(text), truncated)
	}
}

func TestDiffText_StopsAfterBudget(t *testing.T) {
	g := newFakeGit()
	g.out["diff --cached -- big.go"] = strings.Repeat("+", 50)
	g.out["diff --cached -- small.go"] = "+s\n"

	text, truncated := NewCollector(g, "").DiffText(context.Background(), []string{"big.go", "small.go"}, 20)
	if !truncated {
		t.Fatal("expected truncation")
	}
	if !strings.HasSuffix(text, TruncationMarker) {
		t.Errorf("text should end with marker: %q", text)
	}
	if len(text) > 20+len(TruncationMarker) {
		t.Errorf("len %d exceeds budget plus marker", len(text))
	}
	for _, c := range g.calls {
		if c == "diff --cached -- small.go" {
			t.Error("no further per-file diffs should be requested after the budget is exceeded")
		}
	}
}

func TestDiffText_LargeDiff(t *testing.T) {
	g := newFakeGit()
	var paths []string
	for i := 0; i < 5; i++ {
		p := fmt.Sprintf("f%d.go", i)
		paths = append(paths, p)
		g.out["diff --cached -- "+p] = strings.Repeat("y", 10000)
	}

	text, truncated := NewCollector(g, "").DiffText(context.Background(), paths, 12000)
	if !truncated {
		t.Fatal("expected truncation")
	}
	if len(text) > 12000+len(TruncationMarker) {
		t.Errorf("len %d exceeds budget plus marker", len(text))
	}
	if !strings.HasSuffix(text, TruncationMarker) {
		t.Error("blob should end with the truncation marker")
	}
}

func TestDiffText_SkipsFailedFile(t *testing.T) {
	g := newFakeGit()
	g.errs["diff --cached -- broken.go"] = errors.New("boom")
	g.out["diff --cached -- ok.go"] = "+ok\n"

	text, _ := NewCollector(g, "").DiffText(context.Background(), []string{"broken.go", "ok.go"}, 100)
	if text != "+ok\n" {
		t.Errorf("text = %q, want only the readable file", text)
	}
}

func TestCut_RuneBoundary(t *testing.T) {
	s := "aé" // 'é' is two bytes
	if got := cut(s, 2); got != "a" {
		t.Errorf("cut = %q, want %q", got, "a")
	}
}

func TestHooksDir_Relative(t *testing.T) {
	g := newFakeGit()
	g.out["rev-parse --git-path hooks"] = ".git/hooks\n"

	dir, err := NewCollector(g, "/repo").HooksDir(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != "/repo/.git/hooks" {
		t.Errorf("dir = %q", dir)
	}
}
