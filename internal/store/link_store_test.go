package store_test

import (
	"context"
	"testing"

	"shorturl-accounts/internal/model"
	"shorturl-accounts/internal/store"
	"shorturl-accounts/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestLinkStore_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	s := store.NewLinkStore(storetest.NewDB(t))

	exists, err := s.Exists(ctx, "abc123")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Insert(ctx, &model.ShortLink{ShortCode: "abc123", LongURL: "https://example.com"}))

	exists, err = s.Exists(ctx, "abc123")
	require.NoError(t, err)
	assert.True(t, exists)

	link, err := s.FindByCode(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", link.LongURL)
	assert.Nil(t, link.Owner)
	assert.NotZero(t, link.ID)
}

func TestLinkStore_InsertDuplicateCode(t *testing.T) {
	ctx := context.Background()
	s := store.NewLinkStore(storetest.NewDB(t))

	require.NoError(t, s.Insert(ctx, &model.ShortLink{ShortCode: "mysite", LongURL: "https://a.example", Owner: ptr("alice")}))
	err := s.Insert(ctx, &model.ShortLink{ShortCode: "mysite", LongURL: "https://b.example", Owner: ptr("bob")})
	assert.ErrorIs(t, err, store.ErrDuplicateCode)

	link, err := s.FindByCode(ctx, "mysite")
	require.NoError(t, err)
	assert.Equal(t, "https://a.example", link.LongURL, "失败的写入不应改变已有记录")
}

func TestLinkStore_FindByCodeMissing(t *testing.T) {
	s := store.NewLinkStore(storetest.NewDB(t))

	_, err := s.FindByCode(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLinkStore_FindByOwner(t *testing.T) {
	ctx := context.Background()
	s := store.NewLinkStore(storetest.NewDB(t))

	require.NoError(t, s.Insert(ctx, &model.ShortLink{ShortCode: "a1", LongURL: "https://a1.example", Owner: ptr("alice")}))
	require.NoError(t, s.Insert(ctx, &model.ShortLink{ShortCode: "b1", LongURL: "https://b1.example", Owner: ptr("bob")}))
	require.NoError(t, s.Insert(ctx, &model.ShortLink{ShortCode: "n1", LongURL: "https://n1.example"}))
	require.NoError(t, s.Insert(ctx, &model.ShortLink{ShortCode: "a2", LongURL: "https://a2.example", Owner: ptr("alice")}))

	links, err := s.FindByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, links, 2)
	codes := []string{links[0].ShortCode, links[1].ShortCode}
	assert.ElementsMatch(t, []string{"a1", "a2"}, codes)
	for _, l := range links {
		assert.True(t, l.OwnedBy("alice"))
	}

	links, err = s.FindByOwner(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestLinkStore_FindOwned(t *testing.T) {
	ctx := context.Background()
	s := store.NewLinkStore(storetest.NewDB(t))

	require.NoError(t, s.Insert(ctx, &model.ShortLink{ShortCode: "mine", LongURL: "https://a.example", Owner: ptr("alice")}))
	require.NoError(t, s.Insert(ctx, &model.ShortLink{ShortCode: "anon", LongURL: "https://n.example"}))

	link, err := s.FindOwned(ctx, "mine", "alice")
	require.NoError(t, err)
	assert.Equal(t, "mine", link.ShortCode)

	_, err = s.FindOwned(ctx, "mine", "bob")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.FindOwned(ctx, "anon", "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.FindOwned(ctx, "missing", "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLinkStore_DeleteByID(t *testing.T) {
	ctx := context.Background()
	s := store.NewLinkStore(storetest.NewDB(t))

	link := &model.ShortLink{ShortCode: "gone", LongURL: "https://a.example", Owner: ptr("alice")}
	require.NoError(t, s.Insert(ctx, link))

	require.NoError(t, s.DeleteByID(ctx, link.ID))
	_, err := s.FindByCode(ctx, "gone")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.DeleteByID(ctx, link.ID), store.ErrNotFound)

	// 删除后短码可以被重新使用
	require.NoError(t, s.Insert(ctx, &model.ShortLink{ShortCode: "gone", LongURL: "https://b.example"}))
}

func TestLinkStore_CodesAreCaseSensitive(t *testing.T) {
	ctx := context.Background()
	s := store.NewLinkStore(storetest.NewDB(t))

	require.NoError(t, s.Insert(ctx, &model.ShortLink{ShortCode: "MySite", LongURL: "https://upper.example", Owner: ptr("alice")}))

	exists, err := s.Exists(ctx, "mysite")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Insert(ctx, &model.ShortLink{ShortCode: "mysite", LongURL: "https://lower.example", Owner: ptr("bob")}))

	link, err := s.FindByCode(ctx, "mysite")
	require.NoError(t, err)
	assert.Equal(t, "https://lower.example", link.LongURL)

	_, err = s.FindOwned(ctx, "mysite", "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
