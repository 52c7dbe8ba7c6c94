package notes

import (
	"errors"
	"testing"
	"time"

	"github.com/starford/zk/internal/apperr"
	"github.com/starford/zk/internal/frontmatter"
	"github.com/starford/zk/internal/storage"
)

func TestSlug(t *testing.T) {
	cases := []struct {
		title, want string
	}{
		{"another note", "another-note"},
		{"my note", "my-note"},
		{"Keep Case", "Keep-Case"},
		{"tabs\tand  runs", "tabs-and-runs"},
		{"punct, stays!", "punct,-stays!"},
		{"single", "single"},
		{"a\u00a0b", "a-b"},
		{"a\vb", "a-b"},
		{"a\u2003b", "a-b"},
		{"a\u3000b", "a-b"},
		{"a \u00a0\tb", "a-b"},
		{" edges ", "-edges-"},
	}
	for _, c := range cases {
		if got := Slug(c.title); got != c.want {
			t.Errorf("Slug(%q) = %q, want %q", c.title, got, c.want)
		}
	}
}

func TestFileName(t *testing.T) {
	date := time.Date(2022, 1, 2, 23, 59, 0, 0, time.Local)
	if got := FileName(date, "my note"); got != "2022-01-02-my-note.md" {
		t.Errorf("FileName = %q", got)
	}
}

func TestRender(t *testing.T) {
	got := string(Render("8918f638-aaaa", "my note"))
	want := "---\nuuid: \"8918f638-aaaa\"\ntitle: \"my note\"\n---\n\n"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderRoundTripsThroughParser(t *testing.T) {
	title := `quotes "and" back\slash`
	fm, err := frontmatter.Parse(Render("id-1", title))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if fm.UUID != "id-1" || fm.Title != title {
		t.Errorf("got %+v", fm)
	}
}

func testWriter(t *testing.T) (*Writer, storage.Provider) {
	t.Helper()
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return NewWriter(fs), fs
}

func TestCreate(t *testing.T) {
	w, fs := testWriter(t)
	now := time.Date(2022, 1, 2, 10, 0, 0, 0, time.Local)

	name, err := w.Create("my note", now, "8918f638")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if name != "2022-01-02-my-note.md" {
		t.Errorf("name = %q", name)
	}
	data, err := fs.Read(name)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	fm, err := frontmatter.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if fm.UUID != "8918f638" || fm.Title != "my note" {
		t.Errorf("frontmatter = %+v", fm)
	}
}

func TestCreateDefaultTitle(t *testing.T) {
	w, _ := testWriter(t)
	name, err := w.Create("", time.Date(2022, 1, 2, 0, 0, 0, 0, time.Local), "x")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if name != "2022-01-02-my-note.md" {
		t.Errorf("name = %q", name)
	}
}

func TestCreateCollision(t *testing.T) {
	w, fs := testWriter(t)
	now := time.Date(2022, 1, 2, 0, 0, 0, 0, time.Local)
	if _, err := w.Create("dup", now, "first"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := w.Create("dup", now, "second")
	if !errors.Is(err, apperr.ErrNoteAlreadyExists) {
		t.Fatalf("err = %v, want ErrNoteAlreadyExists", err)
	}
	data, _ := fs.Read("2022-01-02-dup.md")
	fm, _ := frontmatter.Parse(data)
	if fm.UUID != "first" {
		t.Errorf("existing note overwritten: uuid = %q", fm.UUID)
	}
}

func TestCreateRejectsSeparatorInTitle(t *testing.T) {
	w, _ := testWriter(t)
	if _, err := w.Create("a/b", time.Now(), "x"); err == nil {
		t.Error("expected error for title with path separator")
	}
}
