package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/soiltwin/soiltwin-cli/internal/domain"
	portmocks "github.com/soiltwin/soiltwin-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStoreGetUsesPrimaryWhenItSucceeds(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockKeyValueStore(t)
	fallback := portmocks.NewMockKeyValueStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, domain.TokenKey).Return("from-pass", nil).Once()

	value, err := store.Get(context.Background(), domain.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "from-pass", value)
}

func TestStoreGetFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockKeyValueStore(t)
	fallback := portmocks.NewMockKeyValueStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, domain.TokenKey).Return("", errors.New("pass unavailable")).Once()
	fallback.EXPECT().Get(mock.Anything, domain.TokenKey).Return("from-toml", nil).Once()

	value, err := store.Get(context.Background(), domain.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "from-toml", value)
}

func TestStoreGetKeepsNotFoundWhenBothBackendsMiss(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockKeyValueStore(t)
	fallback := portmocks.NewMockKeyValueStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, domain.IdentityKey).Return("", domain.ErrKeyNotFound).Once()
	fallback.EXPECT().Get(mock.Anything, domain.IdentityKey).Return("", domain.ErrKeyNotFound).Once()

	_, err := store.Get(context.Background(), domain.IdentityKey)
	require.ErrorIs(t, err, domain.ErrKeyNotFound)
	assert.ErrorContains(t, err, "primary backend")
	assert.ErrorContains(t, err, "fallback backend")
}

func TestStoreSkipsFallbackOnContextErrors(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockKeyValueStore(t)
	fallback := portmocks.NewMockKeyValueStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Put(mock.Anything, domain.TokenKey, "tok").Return(context.Canceled).Once()

	err := store.Put(context.Background(), domain.TokenKey, "tok")
	require.ErrorIs(t, err, context.Canceled)
}

func TestStoreDeleteClearsBothBackends(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockKeyValueStore(t)
	fallback := portmocks.NewMockKeyValueStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Delete(mock.Anything, domain.TokenKey).Return(nil).Once()
	fallback.EXPECT().Delete(mock.Anything, domain.TokenKey).Return(nil).Once()

	require.NoError(t, store.Delete(context.Background(), domain.TokenKey))
}

func TestStoreDeleteToleratesUnavailablePrimary(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockKeyValueStore(t)
	fallback := portmocks.NewMockKeyValueStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Delete(mock.Anything, domain.TokenKey).Return(errors.New("pass unavailable")).Once()
	fallback.EXPECT().Delete(mock.Anything, domain.TokenKey).Return(nil).Once()

	require.NoError(t, store.Delete(context.Background(), domain.TokenKey))
}

func TestNewStoreCheckedRejectsNilBackends(t *testing.T) {
	t.Parallel()

	_, err := NewStoreChecked(nil, portmocks.NewMockKeyValueStore(t))
	require.ErrorIs(t, err, errNilPrimaryStore)

	_, err = NewStoreChecked(portmocks.NewMockKeyValueStore(t), nil)
	require.ErrorIs(t, err, errNilFallbackStore)
}
