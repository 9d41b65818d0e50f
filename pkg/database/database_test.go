package database

import (
	"shorturl-accounts/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectorFor(t *testing.T) {
	tests := []struct {
		name   string
		opts   Options
		want   string
		hasErr bool
	}{
		{name: "默认 mysql", opts: Options{Host: "db", Port: 3306, User: "u", Password: "p", Name: "links"}, want: "mysql"},
		{name: "postgres", opts: Options{Driver: "postgres", Host: "db", Port: 5432}, want: "postgres"},
		{name: "sqlite", opts: Options{Driver: "sqlite", DSN: "file::memory:"}, want: "sqlite"},
		{name: "未知驱动", opts: Options{Driver: "mongo"}, hasErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := dialectorFor(tt.opts)
			if tt.hasErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestOpen_SQLiteMigrates(t *testing.T) {
	db, err := Open(Options{Driver: "sqlite", DSN: "file:database_open_test?mode=memory&cache=shared"})
	require.NoError(t, err)
	defer Close(db)

	assert.True(t, db.Migrator().HasTable("users"))
	assert.True(t, db.Migrator().HasTable("short_links"))
	assert.True(t, db.Migrator().HasIndex(&model.ShortLink{}, "ShortCode"))
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, Close(nil))
}

func TestCaseSensitiveCodeDDL(t *testing.T) {
	assert.Contains(t, caseSensitiveCodeDDL("mysql"), "COLLATE utf8mb4_bin")
	assert.Contains(t, caseSensitiveCodeDDL("mysql"), "short_code VARCHAR(32)")
	assert.Empty(t, caseSensitiveCodeDDL("postgres"))
	assert.Empty(t, caseSensitiveCodeDDL("sqlite"))
}
