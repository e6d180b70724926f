package database

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"user-api/internal/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewGorm(Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "users.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	require.NoError(t, Migrate(db))
	return db
}

func TestMigrate_Schema(t *testing.T) {
	db := openTestDB(t)

	var ddl string
	require.NoError(t, db.Raw(`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'users'`).Scan(&ddl).Error)
	upper := strings.ToUpper(ddl)
	assert.Contains(t, upper, "PRIMARY KEY AUTOINCREMENT")
	assert.Contains(t, upper, "`NAME` TEXT NOT NULL")
	assert.Contains(t, upper, "`EMAIL` TEXT NOT NULL")
	assert.Contains(t, upper, "`PASSWORD` TEXT NOT NULL")

	assert.True(t, db.Migrator().HasIndex(&domain.User{}, "name_index"))
}

func TestMigrate_NameIsUnique(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Create(&domain.User{Name: "Hans Huber", Email: "a@b.com", Password: "x"}).Error)
	err := db.Create(&domain.User{Name: "Hans Huber", Email: "c@d.com", Password: "y"}).Error
	assert.Error(t, err)
}

func TestReset_DropsRows(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&domain.User{Name: "a", Email: "a@b.com", Password: "x"}).Error)

	require.NoError(t, Reset(db))

	var n int64
	require.NoError(t, db.Model(&domain.User{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle", DSN: "x"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNormalizeMySQLDSN(t *testing.T) {
	cases := []struct {
		name       string
		in         string
		user, pass string
		want       string
	}{
		{
			name: "native dsn untouched",
			in:   "root:pw@tcp(127.0.0.1:3306)/users?parseTime=true",
			want: "root:pw@tcp(127.0.0.1:3306)/users?parseTime=true",
		},
		{
			name: "jdbc url",
			in:   "jdbc:mysql://root:pw@127.0.0.1:3306/users?characterEncoding=utf8&useSSL=false",
			want: "root:pw@tcp(127.0.0.1:3306)/users?charset=utf8&parseTime=true&tls=false",
		},
		{
			name: "overrides win",
			in:   "mysql://127.0.0.1:3306/users?user=a&password=b&serverTimezone=UTC",
			user: "admin", pass: "secret",
			want: "admin:secret@tcp(127.0.0.1:3306)/users?charset=utf8mb4&loc=UTC&parseTime=true",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeMySQLDSN(tc.in, tc.user, tc.pass))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "root:****@tcp(h)/db", maskDSN("root:pw@tcp(h)/db"))
	assert.Equal(t, "users.db", maskDSN("users.db"))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "users.db?_busy_timeout=5000", sqliteDSN("users.db"))
	assert.Equal(t, "file:users.db?cache=shared&_busy_timeout=5000", sqliteDSN("file:users.db?cache=shared"))
	assert.Equal(t, "users.db?_busy_timeout=100", sqliteDSN("users.db?_busy_timeout=100"))
	assert.Equal(t, ":memory:", sqliteDSN(":memory:"))
}
