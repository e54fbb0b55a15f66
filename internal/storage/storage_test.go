package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// newTestStorage returns an empty storage for backend whose document lives in
// a fresh temp directory.
func newTestStorage(t *testing.T, backend string) *FileStorage {
	t.Helper()
	s, err := NewFileStorage(types.Config{
		Backend:  backend,
		DataDir:  t.TempDir(),
		FileName: "objects",
	}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Reload())
	return s
}

func newEntity(t *testing.T, kind types.Kind) *types.Entity {
	t.Helper()
	e, err := types.NewEntity(kind)
	require.NoError(t, err)
	return e
}

func TestNewFileStorageRejectsBadConfig(t *testing.T) {
	_, err := NewFileStorage(types.Config{Backend: "postgres"}, nil)
	assert.ErrorIs(t, err, types.ErrBackendUnknown)

	_, err = NewFileStorage(types.Config{}, nil)
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}

func TestRegister(t *testing.T) {
	s := newTestStorage(t, types.BackendJSON)
	e := newEntity(t, types.KindUser)

	require.NoError(t, s.Register(e))

	got, ok := s.All()[e.Key()]
	require.True(t, ok)
	assert.Same(t, e, got)
}

func TestRegisterDoesNotPersist(t *testing.T) {
	s := newTestStorage(t, types.BackendJSON)
	require.NoError(t, s.Register(newEntity(t, types.KindCity)))

	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err), "Register must not write the document")
}

func TestRegisterRejectsNonEntities(t *testing.T) {
	type bad struct{ Name string }
	var nilEntity *types.Entity

	tests := []struct {
		name    string
		obj     any
		wantErr error
	}{
		{name: "nil", obj: nil, wantErr: types.ErrBadInstance},
		{name: "nil entity pointer", obj: nilEntity, wantErr: types.ErrBadInstance},
		{name: "empty map", obj: map[string]any{}, wantErr: types.ErrBadInstance},
		{name: "empty struct", obj: struct{}{}, wantErr: types.ErrBadInstance},
		{name: "empty slice", obj: []string{}, wantErr: types.ErrBadInstance},
		{name: "empty string", obj: "", wantErr: types.ErrBadInstance},
		{name: "entity without id", obj: &types.Entity{Kind: types.KindUser}, wantErr: types.ErrBadInstance},
		{name: "string", obj: "a bad string", wantErr: types.ErrNotEntity},
		{name: "other struct", obj: bad{Name: "x"}, wantErr: types.ErrNotEntity},
		{name: "entity by value", obj: types.Entity{ID: "x", Kind: types.KindUser}, wantErr: types.ErrNotEntity},
		{name: "populated map", obj: map[string]any{"id": "x"}, wantErr: types.ErrNotEntity},
		{name: "int", obj: 42, wantErr: types.ErrNotEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStorage(t, types.BackendJSON)
			err := s.Register(tt.obj)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, s.All())
		})
	}
}

func TestAllIsLiveView(t *testing.T) {
	s := newTestStorage(t, types.BackendJSON)
	e := newEntity(t, types.KindBaseModel)
	require.NoError(t, s.Register(e))

	view := s.All()
	delete(view, e.Key())

	assert.Empty(t, s.All())

	require.NoError(t, s.Save())
	require.NoError(t, s.Reload())
	assert.Empty(t, s.All())
}

func TestSaveReloadRoundTrip(t *testing.T) {
	for _, backend := range []string{types.BackendJSON, types.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			s := newTestStorage(t, backend)

			want := make(map[string]map[string]any)
			for _, kind := range types.Kinds() {
				e := newEntity(t, kind)
				require.NoError(t, e.SetField("name", types.StringValue("new")))
				require.NoError(t, e.SetField("number", types.IntValue(99)))
				require.NoError(t, e.SetField("ratio", types.FloatValue(2)))
				require.NoError(t, e.SetField("price", types.FloatValue(10.25)))
				e.Touch()
				require.NoError(t, s.Register(e))
				want[e.Key()] = e.ToRecord()
			}
			require.NoError(t, s.Save())

			reloaded, err := NewFileStorage(types.Config{Backend: backend, FileName: s.Path()}, nil)
			require.NoError(t, err)
			require.NoError(t, reloaded.Reload())

			got := make(map[string]map[string]any)
			for key, e := range reloaded.All() {
				assert.Equal(t, key, e.Key())
				got[key] = e.ToRecord()
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("records differ after reload (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReloadKeepsFieldOrder(t *testing.T) {
	for _, backend := range []string{types.BackendJSON, types.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			s := newTestStorage(t, backend)
			e := newEntity(t, types.KindPlace)
			require.NoError(t, e.SetField("zeta", types.StringValue("last letter")))
			require.NoError(t, e.SetField("alpha", types.IntValue(1)))
			require.NoError(t, e.SetField("name", types.FloatValue(2)))
			require.NoError(t, s.Register(e))
			require.NoError(t, s.Save())

			reloaded, err := NewFileStorage(types.Config{Backend: backend, FileName: s.Path()}, nil)
			require.NoError(t, err)
			require.NoError(t, reloaded.Reload())

			got, ok := reloaded.All()[e.Key()]
			require.True(t, ok)
			assert.Equal(t, []string{"zeta", "alpha", "name"}, got.FieldNames())
			assert.Equal(t, e.String(), got.String())
		})
	}
}

func TestReloadedEntitiesSaveIdentically(t *testing.T) {
	s := newTestStorage(t, types.BackendJSON)
	e := newEntity(t, types.KindPlace)
	require.NoError(t, e.SetField("max_guest", types.IntValue(4)))
	require.NoError(t, s.Register(e))
	require.NoError(t, s.Save())

	first, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	require.NoError(t, s.Reload())
	require.NoError(t, s.Save())

	second, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestReloadMissingDocument(t *testing.T) {
	for _, backend := range []string{types.BackendJSON, types.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			s := newTestStorage(t, backend)
			require.NoError(t, s.Register(newEntity(t, types.KindState)))
			require.NoError(t, s.Save())

			require.NoError(t, os.Remove(s.Path()))
			require.NoError(t, s.Reload())

			assert.Empty(t, s.All())
			_, err := os.Stat(s.Path())
			assert.True(t, os.IsNotExist(err), "Reload must not create the document")
		})
	}
}

func TestReloadKeepsLiveView(t *testing.T) {
	s := newTestStorage(t, types.BackendJSON)
	view := s.All()

	e := newEntity(t, types.KindAmenity)
	require.NoError(t, s.Register(e))
	require.NoError(t, s.Save())
	require.NoError(t, s.Reload())

	assert.Contains(t, view, e.Key())
}

func TestReloadMalformedDocument(t *testing.T) {
	s := newTestStorage(t, types.BackendJSON)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	err := s.Reload()
	assert.Error(t, err)
}

func TestReloadEmptyDocument(t *testing.T) {
	s := newTestStorage(t, types.BackendJSON)
	require.NoError(t, os.WriteFile(s.Path(), nil, 0o644))

	require.NoError(t, s.Reload())
	assert.Empty(t, s.All())
}

func TestReloadSkipsBadRecords(t *testing.T) {
	s := newTestStorage(t, types.BackendJSON)
	doc := `{
		"User.good": {"__class__": "User", "id": "good", "created_at": "2017-09-28T21:05:54.119427", "updated_at": "2017-09-28T21:05:54.119434", "email": "a@b.c"},
		"Boat.bad": {"__class__": "Boat", "id": "bad", "created_at": "2017-09-28T21:05:54.119427", "updated_at": "2017-09-28T21:05:54.119434"},
		"User.nots": {"__class__": "User", "id": "nots", "created_at": 12, "updated_at": "2017-09-28T21:05:54.119434"},
		"User.list": "not a record"
	}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(doc), 0o644))

	require.NoError(t, s.Reload())

	require.Len(t, s.All(), 1)
	e := s.All()["User.good"]
	require.NotNil(t, e)
	v, ok := e.Field("email")
	require.True(t, ok)
	assert.Equal(t, types.StringValue("a@b.c"), v)
}

func TestReloadRekeysByEntity(t *testing.T) {
	s := newTestStorage(t, types.BackendJSON)
	doc := `{"BaseModel.wrong": {"__class__": "City", "id": "c1", "created_at": "2017-09-28T21:05:54", "updated_at": "2017-09-28T21:05:54"}}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(doc), 0o644))

	require.NoError(t, s.Reload())

	assert.Contains(t, s.All(), "City.c1")
	assert.NotContains(t, s.All(), "BaseModel.wrong")
}

func TestSetPath(t *testing.T) {
	s := newTestStorage(t, types.BackendJSON)
	e := newEntity(t, types.KindReview)
	require.NoError(t, s.Register(e))

	other := filepath.Join(t.TempDir(), "nested", "other.json")
	s.SetPath(other)
	assert.Equal(t, other, s.Path())
	require.NoError(t, s.Save())

	data, err := os.ReadFile(other)
	require.NoError(t, err)
	assert.Contains(t, string(data), e.Key())
}
