package shortcode

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shorturl-accounts/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockChecker struct {
	mock.Mock
}

func (m *mockChecker) Exists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func newTestAllocator(t *testing.T) (*Allocator, *mockChecker) {
	checker := &mockChecker{}
	t.Cleanup(func() { checker.AssertExpectations(t) })
	return NewAllocator(checker, zap.NewNop().Sugar()), checker
}

var alice = &model.Identity{UserID: 1, Username: "alice"}

func TestAllocate_GeneratedCode(t *testing.T) {
	a, checker := newTestAllocator(t)
	checker.On("Exists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()

	code, err := a.Allocate(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Len(t, code, CodeLength)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(Charset, r), "非法字符 %q", r)
	}
}

func TestAllocate_RetriesOnCollision(t *testing.T) {
	a, checker := newTestAllocator(t)
	checker.On("Exists", mock.Anything, mock.Anything).Return(true, nil).Times(3)
	checker.On("Exists", mock.Anything, mock.Anything).Return(false, nil).Once()

	code, err := a.Allocate(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Len(t, code, CodeLength)
	checker.AssertNumberOfCalls(t, "Exists", 4)
}

func TestAllocate_Exhausted(t *testing.T) {
	a, checker := newTestAllocator(t)
	checker.On("Exists", mock.Anything, mock.Anything).Return(true, nil).Times(MaxAttempts)

	_, err := a.Allocate(context.Background(), "", alice)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestAllocate_CheckerErrorIsNotTreatedAsFree(t *testing.T) {
	a, checker := newTestAllocator(t)
	dbErr := errors.New("connection refused")
	checker.On("Exists", mock.Anything, mock.Anything).Return(false, dbErr).Once()

	_, err := a.Allocate(context.Background(), "", nil)
	assert.ErrorIs(t, err, dbErr)
}

func TestAllocate_AliasRequiresIdentity(t *testing.T) {
	a, _ := newTestAllocator(t)

	for _, alias := range []string{"mysite", "x", "has space", strings.Repeat("a", 100)} {
		_, err := a.Allocate(context.Background(), alias, nil)
		assert.ErrorIs(t, err, ErrSignInRequired, "alias=%q", alias)
	}
}

func TestAllocate_AliasAccepted(t *testing.T) {
	a, checker := newTestAllocator(t)
	checker.On("Exists", mock.Anything, "mysite").Return(false, nil).Once()

	code, err := a.Allocate(context.Background(), "mysite", alice)
	require.NoError(t, err)
	assert.Equal(t, "mysite", code)
}

func TestAllocate_AliasTaken(t *testing.T) {
	a, checker := newTestAllocator(t)
	checker.On("Exists", mock.Anything, "mysite").Return(true, nil).Once()

	_, err := a.Allocate(context.Background(), "mysite", alice)
	assert.ErrorIs(t, err, ErrAliasTaken)
}

func TestAllocate_InvalidAliasSkipsLookup(t *testing.T) {
	a, _ := newTestAllocator(t)

	_, err := a.Allocate(context.Background(), "../etc", alice)
	assert.ErrorIs(t, err, ErrInvalidAlias)
}

func TestValidateAlias(t *testing.T) {
	valid := []string{"a", "mysite", "My-Site_2", strings.Repeat("z", MaxAliasLength)}
	for _, alias := range valid {
		assert.NoError(t, ValidateAlias(alias), alias)
	}

	invalid := []string{"", "has space", "slash/inside", "percent%20", "ümlaut", "api", "Login", strings.Repeat("z", MaxAliasLength+1)}
	for _, alias := range invalid {
		assert.ErrorIs(t, ValidateAlias(alias), ErrInvalidAlias, alias)
	}
}

func TestGenerateRandomString_Distribution(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s, err := generateRandomString(CodeLength)
		require.NoError(t, err)
		seen[s] = true
	}
	// 62^6 空间下 1000 次抽样几乎不可能重复
	assert.Greater(t, len(seen), 995)
}
