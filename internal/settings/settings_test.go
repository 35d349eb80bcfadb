package settings

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectSetting = "SELECT value FROM settings WHERE key = $1"

func setupRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewRepository(sqlx.NewDb(conn, "sqlmock")), mock
}

func TestRepository_Get(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectSetting)).
		WithArgs(KeyCurrencyCode).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("eur"))

	v, err := repo.Get(context.Background(), KeyCurrencyCode)
	require.NoError(t, err)
	assert.Equal(t, "eur", v)
}

func TestRepository_Get_MissingKey(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectSetting)).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	v, err := repo.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestRepository_Set(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value")).
		WithArgs(KeySiteLogo, "logo.png").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Set(context.Background(), KeySiteLogo, "logo.png"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedStore_Hit(t *testing.T) {
	repo, sqlMock := setupRepo(t)
	rdb, redisMock := redismock.NewClientMock()

	redisMock.ExpectGet("settings:currency_code").SetVal("usd")

	store := NewCachedStore(repo, rdb, time.Minute)
	v, err := store.Get(context.Background(), KeyCurrencyCode)

	require.NoError(t, err)
	assert.Equal(t, "usd", v)
	assert.NoError(t, redisMock.ExpectationsWereMet())
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCachedStore_MissReadsThrough(t *testing.T) {
	repo, sqlMock := setupRepo(t)
	rdb, redisMock := redismock.NewClientMock()

	redisMock.ExpectGet("settings:currency_symbol").RedisNil()
	sqlMock.ExpectQuery(regexp.QuoteMeta(selectSetting)).
		WithArgs(KeyCurrencySymbol).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("€"))
	redisMock.ExpectSet("settings:currency_symbol", "€", time.Minute).SetVal("OK")

	store := NewCachedStore(repo, rdb, time.Minute)
	v, err := store.Get(context.Background(), KeyCurrencySymbol)

	require.NoError(t, err)
	assert.Equal(t, "€", v)
	assert.NoError(t, redisMock.ExpectationsWereMet())
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCachedStore_RedisDownFallsBackToDatabase(t *testing.T) {
	repo, sqlMock := setupRepo(t)
	rdb, redisMock := redismock.NewClientMock()

	redisMock.ExpectGet("settings:site_logo").SetErr(errors.New("connection refused"))
	sqlMock.ExpectQuery(regexp.QuoteMeta(selectSetting)).
		WithArgs(KeySiteLogo).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("logo.svg"))
	redisMock.ExpectSet("settings:site_logo", "logo.svg", time.Minute).SetErr(errors.New("connection refused"))

	store := NewCachedStore(repo, rdb, time.Minute)
	v, err := store.Get(context.Background(), KeySiteLogo)

	require.NoError(t, err)
	assert.Equal(t, "logo.svg", v)
}

func TestCachedStore_DatabaseError(t *testing.T) {
	repo, sqlMock := setupRepo(t)
	rdb, redisMock := redismock.NewClientMock()

	redisMock.ExpectGet("settings:google_id").RedisNil()
	sqlMock.ExpectQuery(regexp.QuoteMeta(selectSetting)).
		WithArgs(KeyGoogleID).
		WillReturnError(errors.New("db down"))

	store := NewCachedStore(repo, rdb, time.Minute)
	_, err := store.Get(context.Background(), KeyGoogleID)

	assert.EqualError(t, err, "db down")
}

func TestCachedStore_NoRedis(t *testing.T) {
	repo, sqlMock := setupRepo(t)

	sqlMock.ExpectQuery(regexp.QuoteMeta(selectSetting)).
		WithArgs(KeyIonicIcons).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("outline"))

	store := NewCachedStore(repo, nil, time.Minute)
	v, err := store.Get(context.Background(), KeyIonicIcons)

	require.NoError(t, err)
	assert.Equal(t, "outline", v)
}

func TestCachedStore_Invalidate(t *testing.T) {
	repo, _ := setupRepo(t)
	rdb, redisMock := redismock.NewClientMock()

	redisMock.ExpectDel("settings:currency_code", "settings:currency_symbol").SetVal(2)

	store := NewCachedStore(repo, rdb, time.Minute)
	require.NoError(t, store.Invalidate(context.Background(), KeyCurrencyCode, KeyCurrencySymbol))
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestStatic(t *testing.T) {
	s := Static{KeyCurrencyCode: "jpy"}

	v, _ := s.Get(context.Background(), KeyCurrencyCode)
	assert.Equal(t, "jpy", v)

	v, _ = s.Get(context.Background(), KeyCurrencySymbol)
	assert.Empty(t, v)
}

func TestCachedStore_Set(t *testing.T) {
	repo, sqlMock := setupRepo(t)
	rdb, redisMock := redismock.NewClientMock()

	sqlMock.ExpectExec("INSERT INTO settings").
		WithArgs(KeyCurrencyCode, "gbp").
		WillReturnResult(sqlmock.NewResult(0, 1))
	redisMock.ExpectDel("settings:currency_code").SetVal(1)

	store := NewCachedStore(repo, rdb, time.Minute)
	require.NoError(t, store.Set(context.Background(), KeyCurrencyCode, "gbp"))
	assert.NoError(t, redisMock.ExpectationsWereMet())
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCachedStore_Set_CacheDownStillSucceeds(t *testing.T) {
	repo, sqlMock := setupRepo(t)
	rdb, redisMock := redismock.NewClientMock()

	sqlMock.ExpectExec("INSERT INTO settings").
		WithArgs(KeyCurrencyCode, "gbp").
		WillReturnResult(sqlmock.NewResult(0, 1))
	redisMock.ExpectDel("settings:currency_code").SetErr(errors.New("connection refused"))

	store := NewCachedStore(repo, rdb, time.Minute)

	assert.NoError(t, store.Set(context.Background(), KeyCurrencyCode, "gbp"),
		"the committed write is reported as saved")
	assert.NoError(t, redisMock.ExpectationsWereMet())
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
