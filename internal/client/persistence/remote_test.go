package persistence

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/ordo/internal/client/client"
	"github.com/dmitrijs2005/ordo/internal/client/models"
	"github.com/dmitrijs2005/ordo/internal/common"
	"github.com/dmitrijs2005/ordo/internal/cryptox"
	"github.com/dmitrijs2005/ordo/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient is an in-memory client.Client keyed by email.
type fakeClient struct {
	salts     map[string][]byte
	verifiers map[string][]byte
	spaces    []models.SavedSpace

	registerErr error
	deleteErr   error
	loggedOut   bool
	closed      bool
	lastPatch   models.SettingsPatch
	profile     *models.Session
	profileErr  error
}

var _ client.Client = (*fakeClient)(nil)

func newFakeClient() *fakeClient {
	return &fakeClient{salts: map[string][]byte{}, verifiers: map[string][]byte{}}
}

func (f *fakeClient) Close() error { f.closed = true; return nil }

func (f *fakeClient) Register(_ context.Context, email, name string, salt, verifier []byte) (string, error) {
	if f.registerErr != nil {
		return "", f.registerErr
	}
	if _, ok := f.salts[email]; ok {
		return "", common.ErrorAlreadyExists
	}
	f.salts[email] = salt
	f.verifiers[email] = verifier
	return "u-" + email, nil
}

func (f *fakeClient) GetSalt(_ context.Context, email string) ([]byte, error) {
	salt, ok := f.salts[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return salt, nil
}

func (f *fakeClient) Login(_ context.Context, email string, verifier []byte) (*models.Session, error) {
	if !cryptox.CheckVerifier(f.verifiers[email], verifier) {
		return nil, client.ErrUnauthorized
	}
	return &models.Session{UserID: "u-" + email, Email: email, DisplayName: "User", Settings: models.DefaultSettings()}, nil
}

func (f *fakeClient) Logout(context.Context) error { f.loggedOut = true; return nil }

func (f *fakeClient) Profile(context.Context) (*models.Session, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	s := *f.profile
	return &s, nil
}

func (f *fakeClient) UpdateSettings(_ context.Context, p models.SettingsPatch) (*models.Session, error) {
	f.lastPatch = p
	return &models.Session{Settings: models.DefaultSettings().Apply(p)}, nil
}

func (f *fakeClient) DeleteAccount(context.Context) error { return f.deleteErr }

func (f *fakeClient) ListSpaces(context.Context) ([]models.SavedSpace, error) {
	return append([]models.SavedSpace(nil), f.spaces...), nil
}

func (f *fakeClient) CreateSpace(_ context.Context, s models.SavedSpace) error {
	f.spaces = append(f.spaces, s)
	return nil
}

func (f *fakeClient) UpdateSpace(_ context.Context, id string, p models.SpacePatch) error {
	for i := range f.spaces {
		if f.spaces[i].ID == id {
			f.spaces[i] = f.spaces[i].Apply(p)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeClient) DeleteSpace(_ context.Context, id string) error {
	for i := range f.spaces {
		if f.spaces[i].ID == id {
			f.spaces = append(f.spaces[:i], f.spaces[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeClient) Ping(context.Context) error { return nil }

func TestRemote_SignUpSignsIn(t *testing.T) {
	fc := newFakeClient()
	b := NewRemoteBackend(fc, logging.Discard())
	ctx := context.Background()

	sess, err := b.SignUp(ctx, "Ada@Example.com", "Ada", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "u-ada@example.com", sess.UserID)

	_, err = b.SignUp(ctx, "ada@example.com", "Ada", []byte("pw"))
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRemote_SignInErrors(t *testing.T) {
	fc := newFakeClient()
	b := NewRemoteBackend(fc, logging.Discard())
	ctx := context.Background()

	_, err := b.SignIn(ctx, "ghost@example.com", []byte("pw"))
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = b.SignUp(ctx, "ada@example.com", "Ada", []byte("pw"))
	require.NoError(t, err)

	_, err = b.SignIn(ctx, "ada@example.com", []byte("nope"))
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRemote_SignUpTransportError(t *testing.T) {
	fc := newFakeClient()
	fc.registerErr = client.ErrUnavailable
	b := NewRemoteBackend(fc, logging.Discard())

	_, err := b.SignUp(context.Background(), "ada@example.com", "Ada", []byte("pw"))
	require.ErrorIs(t, err, client.ErrUnavailable)
}

func TestRemote_UpdateSettingsValidatesFirst(t *testing.T) {
	fc := newFakeClient()
	b := NewRemoteBackend(fc, logging.Discard())
	ctx := context.Background()

	bad := models.OrganizingStyle("Chaotic")
	_, err := b.UpdateSettings(ctx, "u1", models.SettingsPatch{DefaultStyle: &bad})
	require.ErrorIs(t, err, models.ErrInvalidSettings)
	require.Nil(t, fc.lastPatch.DefaultStyle)

	style := models.StyleAesthetic
	got, err := b.UpdateSettings(ctx, "u1", models.SettingsPatch{DefaultStyle: &style})
	require.NoError(t, err)
	require.Equal(t, models.StyleAesthetic, got.DefaultStyle)
}

func TestRemote_Spaces(t *testing.T) {
	fc := newFakeClient()
	b := NewRemoteBackend(fc, logging.Discard())
	ctx := context.Background()

	require.NoError(t, b.CreateSpace(ctx, newSpace("u1", "1")))

	list, err := b.ListSpaces(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "u1", list[0].OwnerID)

	name := "Den"
	require.NoError(t, b.UpdateSpace(ctx, "u1", "1", models.SpacePatch{Name: &name}))
	assert.Equal(t, "Den", fc.spaces[0].Name)

	require.NoError(t, b.DeleteSpace(ctx, "u1", "1"))
	require.NoError(t, b.DeleteSpace(ctx, "u1", "1"))

	require.Zero(t, b.Capacity())
}

func TestRemote_Restore(t *testing.T) {
	ctx := context.Background()
	cached := &models.Session{UserID: "u1", DisplayName: "Old", Settings: models.DefaultSettings()}

	tests := []struct {
		name    string
		profile *models.Session
		err     error
		wantErr error
	}{
		{name: "profile wins", profile: &models.Session{UserID: "u1", DisplayName: "Ada", Settings: models.DefaultSettings()}},
		{name: "rejected token", err: client.ErrUnauthorized, wantErr: ErrSessionRevoked},
		{name: "deleted account", err: common.ErrorNotFound, wantErr: ErrSessionRevoked},
		{name: "other user", profile: &models.Session{UserID: "u2"}, wantErr: ErrSessionRevoked},
		{name: "offline", err: client.ErrUnavailable, wantErr: client.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := newFakeClient()
			fc.profile, fc.profileErr = tt.profile, tt.err
			b := NewRemoteBackend(fc, logging.Discard())

			got, err := b.Restore(ctx, cached)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Ada", got.DisplayName)
		})
	}
}

func TestRemote_SignOutDeleteClose(t *testing.T) {
	fc := newFakeClient()
	b := NewRemoteBackend(fc, logging.Discard())
	ctx := context.Background()

	require.NoError(t, b.SignOut(ctx))
	require.True(t, fc.loggedOut)

	fc.deleteErr = client.ErrUnauthorized
	require.ErrorIs(t, b.DeleteAccount(ctx, "u1"), client.ErrUnauthorized)

	require.NoError(t, b.Close())
	require.True(t, fc.closed)
}
