package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryLoader_Files(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, dir, "b.json", `{}`)
	a := writeFile(t, dir, "nested/deeper/a.yaml", `{}`)
	c := writeFile(t, dir, "nested/c.yml", `{}`)
	readme := writeFile(t, dir, "README.md", "docs")

	matched, ignored, err := NewDirectoryLoader(dir).Files()
	require.NoError(t, err)
	assert.Equal(t, []string{b, c, a}, matched)
	assert.Equal(t, []string{readme}, ignored)
}

func TestDirectoryLoader_Pattern(t *testing.T) {
	dir := t.TempDir()
	users := writeFile(t, dir, "api/users.json", `{}`)
	writeFile(t, dir, "other/cities.json", `{}`)
	writeFile(t, dir, "api/users.yaml", `{}`)

	loader := &DirectoryLoader{Path: dir, Pattern: "api/*.json"}
	matched, ignored, err := loader.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{users}, matched)
	assert.Len(t, ignored, 2)
}

func TestDirectoryLoader_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "users.json", `{}`)

	matched, ignored, err := NewDirectoryLoader(path).Files()
	require.NoError(t, err)
	assert.Equal(t, []string{path}, matched)
	assert.Empty(t, ignored)

	txt := writeFile(t, dir, "users.txt", `{}`)
	matched, ignored, err = NewDirectoryLoader(txt).Files()
	require.NoError(t, err)
	assert.Empty(t, matched)
	assert.Equal(t, []string{txt}, ignored)
}

func TestDirectoryLoader_Errors(t *testing.T) {
	_, _, err := NewDirectoryLoader(filepath.Join(t.TempDir(), "missing")).Files()
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, _, err = (&DirectoryLoader{Path: t.TempDir(), Pattern: "[a-"}).Files()
	assert.Error(t, err)
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	users := writeFile(t, dir, "users.json", `{}`)

	w := NewWatcher(NewDirectoryLoader(dir), nil)
	w.Delay = 50 * time.Millisecond
	events, err := w.Start()
	require.NoError(t, err)
	t.Cleanup(w.Stop)

	next := func() WatchEvent {
		t.Helper()
		select {
		case ev := <-events:
			return ev
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for watch event")
		}
		return WatchEvent{}
	}

	writeFile(t, dir, "users.json", `{"rows": []}`)
	writeFile(t, dir, "notes.txt", "ignored")
	ev := next()
	assert.Equal(t, users, ev.Path)
	assert.Equal(t, EventModified, ev.Type)
	require.NoError(t, ev.Error)

	cities := writeFile(t, dir, "sub/cities.yaml", `{}`)
	ev = next()
	assert.Equal(t, cities, ev.Path)
	assert.Equal(t, EventModified, ev.Type)

	require.NoError(t, os.Remove(users))
	ev = next()
	assert.Equal(t, users, ev.Path)
	assert.Equal(t, EventRemoved, ev.Type)
}

func TestWatcher_SingleFileUncleanPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.json", `{}`)

	loader := NewDirectoryLoader(dir + "/./users.json")
	matched, _, err := loader.Files()
	require.NoError(t, err)
	require.Len(t, matched, 1)

	w := NewWatcher(loader, nil)
	w.Delay = 50 * time.Millisecond
	events, err := w.Start()
	require.NoError(t, err)
	t.Cleanup(w.Stop)

	writeFile(t, dir, "users.json", `{"rows": []}`)
	select {
	case ev := <-events:
		assert.Equal(t, matched[0], ev.Path)
		assert.Equal(t, EventModified, ev.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
	}

	unclean := &DirectoryLoader{Path: dir + "/./users.json", Pattern: DefaultPattern}
	got, _, err := unclean.Files()
	require.NoError(t, err)
	assert.Equal(t, matched, got)
}
