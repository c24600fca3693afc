package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveness(t *testing.T) {
	checker := NewHealthChecker(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	checker.Liveness(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), StatusHealthy)
}

func TestCheckHealthyDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	mock.ExpectQuery("SELECT 1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	checker := NewHealthChecker(db, nil)
	status := checker.Check(context.Background())

	assert.Equal(t, StatusHealthy, status.Status)
	assert.Equal(t, StatusHealthy, status.Dependencies["database"].Status)
}

func TestCheckUnhealthyDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(assert.AnError)

	checker := NewHealthChecker(db, nil)
	status := checker.Check(context.Background())

	assert.Equal(t, StatusUnhealthy, status.Status)
	assert.Equal(t, StatusUnhealthy, status.Dependencies["database"].Status)
}

func TestCheckRedisDownIsDegraded(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	mock.ExpectQuery("SELECT 1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	checker := NewHealthChecker(db, client)
	status := checker.Check(context.Background())

	assert.Equal(t, StatusDegraded, status.Status)
	assert.Equal(t, StatusUnhealthy, status.Dependencies["redis"].Status)
}

func TestReadinessReturns503WhenUnhealthy(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(assert.AnError)

	checker := NewHealthChecker(db, nil)
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	checker.Readiness(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
