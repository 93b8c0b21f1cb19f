package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/repairtrack/backend/internal/models"
	"github.com/repairtrack/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newBanTestRouter(banRepo repository.BanRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", IPBanGate(banRepo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func newBanTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.IPBan{}))
	return db
}

func loginFrom(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = ip + ":51234"
	r.ServeHTTP(w, req)
	return w
}

func TestIPBanGate_ActiveBanBlocks(t *testing.T) {
	db := newBanTestDB(t)
	until := time.Now().Add(time.Hour)
	require.NoError(t, db.Create(&models.IPBan{IP: "192.0.2.1", BannedUntil: &until}).Error)

	r := newBanTestRouter(repository.NewBanRepository(db))
	w := loginFrom(r, "192.0.2.1")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "temporarily banned")
}

func TestIPBanGate_ExpiredBanAllows(t *testing.T) {
	db := newBanTestDB(t)
	until := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&models.IPBan{IP: "192.0.2.1", BannedUntil: &until}).Error)

	r := newBanTestRouter(repository.NewBanRepository(db))
	w := loginFrom(r, "192.0.2.1")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIPBanGate_NoBanAllows(t *testing.T) {
	db := newBanTestDB(t)

	r := newBanTestRouter(repository.NewBanRepository(db))
	w := loginFrom(r, "192.0.2.1")

	assert.Equal(t, http.StatusOK, w.Code)
}

// A failing ban lookup must not make login unavailable: the gate fails
// open. The store error is simulated with sqlmock since a live test DB
// cannot be made to fail on demand.
func TestIPBanGate_FailsOpenOnStoreError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM "ip_bans"`).
		WillReturnError(errors.New("connection refused"))

	r := newBanTestRouter(repository.NewBanRepository(db))
	w := loginFrom(r, "192.0.2.1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
