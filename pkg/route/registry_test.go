package route

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/restmock/pkg/config"
	"github.com/getmockd/restmock/pkg/stateful"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRegistry_LoadAndGet(t *testing.T) {
	dir := t.TempDir()
	users := writeFile(t, dir, "users.json", `{"restful": "/api/users", "rows": [{"id": 1}]}`)

	reg := NewRegistry(nil)
	entry, err := reg.Load(users)
	require.NoError(t, err)
	assert.Len(t, entry.Routes, 6)
	assert.Empty(t, entry.Rejected)
	require.NotNil(t, entry.Resource)
	assert.Equal(t, 1, entry.Resource.Len())

	got, ok := reg.Get(users)
	require.True(t, ok)
	assert.Same(t, entry, got)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_APIsOnlyHasNoResource(t *testing.T) {
	reg := NewRegistry(nil)
	entry := reg.Add(&config.File{Path: "apis.json", APIs: []config.API{{Method: "GET", Path: "/ping"}}})
	assert.Nil(t, entry.Resource)
	assert.Len(t, entry.Routes, 1)
}

func TestRegistry_DuplicateRestful(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Add(&config.File{Path: "a.json", Restful: "/api/users"})
	b := reg.Add(&config.File{
		Path:    "b.json",
		Restful: "/api/users",
		APIs:    []config.API{{Method: "GET", Path: "/b"}},
	})

	assert.Equal(t, []Route{{Method: "GET", Path: "/b"}}, b.Routes)
	require.Len(t, b.Rejected, 6)
	for _, cerr := range b.Rejected {
		assert.Equal(t, DuplicateRestful, cerr.Kind)
		assert.Equal(t, "a.json", cerr.Owner)
	}
	assert.Contains(t, b.Rejected[0].Error(), "restful=/api/users")
}

func TestRegistry_DuplicateRoute(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Add(&config.File{Path: "a.json", APIs: []config.API{{Method: "GET", Path: "/x"}}})
	b := reg.Add(&config.File{Path: "b.json", APIs: []config.API{
		{Method: "get", Path: "/x"},
		{Method: "POST", Path: "/x"},
		{Method: "POST", Path: "/x"},
	}})

	assert.Equal(t, []Route{{Method: "POST", Path: "/x"}}, b.Routes)
	require.Len(t, b.Rejected, 2)
	assert.Equal(t, &ConflictError{Kind: DuplicateRoute, Method: "GET", Path: "/x", Owner: "a.json"}, b.Rejected[0])
	assert.Equal(t, "b.json", b.Rejected[1].Owner)
	assert.Len(t, reg.Rejected(), 2)
}

func TestRegistry_ActionCollidesWithOtherResource(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Add(&config.File{Path: "a.json", Restful: "/api/users"})
	b := reg.Add(&config.File{Path: "b.json", APIs: []config.API{{Method: "DELETE", Path: `/api/users/{pk:[\w-]+}`}}})
	assert.Empty(t, b.Routes)
	require.Len(t, b.Rejected, 1)
	assert.Equal(t, DuplicateRoute, b.Rejected[0].Kind)
}

func TestRegistry_ReloadReplacesEntry(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "users.json", `{"restful": "/api/users"}`)

	reg := NewRegistry(nil)
	_, err := reg.Load(path)
	require.NoError(t, err)

	// Reloading the same file does not collide with itself.
	writeFile(t, dir, "users.json", `{"restful": "/api/users", "rows": [{"id": 1}, {"id": 2}]}`)
	entry, err := reg.Load(path)
	require.NoError(t, err)
	assert.Empty(t, entry.Rejected)
	assert.Equal(t, 2, entry.Resource.Len())
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_ReloadThroughUncleanPath(t *testing.T) {
	dir := t.TempDir()
	users := writeFile(t, dir, "users.json", `{"restful": "/api/users", "rows": [{"id": 1}]}`)

	reg := NewRegistry(nil)
	_, err := reg.Load(dir + "/./users.json")
	require.NoError(t, err)

	writeFile(t, dir, "users.json", `{"restful": "/api/users", "rows": [{"id": 1}, {"id": 2}]}`)
	entry, err := reg.Load(users)
	require.NoError(t, err)

	assert.Equal(t, 1, reg.Len())
	assert.Empty(t, entry.Rejected)
	assert.Equal(t, 2, entry.Resource.Len())
	got, ok := reg.Get(dir + "/./users.json")
	require.True(t, ok)
	assert.Same(t, entry, got)

	assert.True(t, reg.Unload(dir+"/./users.json"))
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_FailedReloadDropsEntry(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "users.json", `{"restful": "/api/users"}`)

	reg := NewRegistry(nil)
	changes := 0
	reg.OnChange(func() { changes++ })

	_, err := reg.Load(path)
	require.NoError(t, err)

	writeFile(t, dir, "users.json", `{ broken`)
	_, err = reg.Load(path)
	assert.ErrorIs(t, err, config.ErrInvalidJSON)
	_, ok := reg.Get(path)
	assert.False(t, ok)
	assert.Equal(t, 2, changes)
}

func TestRegistry_Unload(t *testing.T) {
	reg := NewRegistry(nil)
	sub := filepath.Join("fixtures", "sub")
	reg.Add(&config.File{Path: filepath.Join("fixtures", "a.json")})
	reg.Add(&config.File{Path: filepath.Join(sub, "b.json")})
	reg.Add(&config.File{Path: filepath.Join(sub, "c.json")})
	reg.Add(&config.File{Path: filepath.Join("fixtures", "subway.json")})

	assert.True(t, reg.Unload(sub))
	paths := []string{}
	for _, e := range reg.Entries() {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{filepath.Join("fixtures", "a.json"), filepath.Join("fixtures", "subway.json")}, paths)

	assert.True(t, reg.Unload(filepath.Join("fixtures", "a.json")))
	assert.False(t, reg.Unload("missing.json"))
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_LoadAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"restful": "/a"}`)
	writeFile(t, dir, "nested/b.yaml", "restful: /b\n")
	writeFile(t, dir, "bad.json", `{"page_size": 0}`)
	writeFile(t, dir, "notes.md", "ignored")

	reg := NewRegistry(nil)
	err := reg.LoadAll(config.NewDirectoryLoader(dir))
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrSchema))
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_SetObserver(t *testing.T) {
	reg := NewRegistry(nil)
	obs := &stateful.CountingObserver{}
	a := reg.Add(&config.File{Path: "a.json", Restful: "/a", PKField: "id"})
	reg.SetObserver(obs)
	b := reg.Add(&config.File{Path: "b.json", Restful: "/b", PKField: "id"})

	a.Resource.List(nil)
	b.Resource.List(nil)
	ops, _, _ := obs.Snapshot()
	assert.Equal(t, int64(2), ops)
}
