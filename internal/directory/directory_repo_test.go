package directory_test

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"go-staffing/internal/directory"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDirectoryRepo(t *testing.T) (directory.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	return directory.NewRepository(gormDB), mock
}

func TestDirectoryRepository_Exists(t *testing.T) {
	countEmployees := regexp.QuoteMeta(`SELECT count(*) FROM "employees"`)
	countClients := regexp.QuoteMeta(`SELECT count(*) FROM "clients"`)

	t.Run("employee count maps to bool", func(t *testing.T) {
		repo, mock := setupDirectoryRepo(t)
		id := uuid.New().String()

		mock.ExpectQuery(countEmployees).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.EmployeeExists(context.Background(), id)
		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inactive client does not exist", func(t *testing.T) {
		repo, mock := setupDirectoryRepo(t)
		id := uuid.New().String()

		mock.ExpectQuery(countClients).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ClientExists(context.Background(), id)
		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent lookups for one employee share a single query", func(t *testing.T) {
		repo, mock := setupDirectoryRepo(t)
		id := uuid.New().String()

		// Exactly one expectation: a second query would not match and fail
		// its caller. The delay keeps all goroutines in flight together.
		mock.ExpectQuery(countEmployees).
			WithArgs(id).
			WillDelayFor(100 * time.Millisecond).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				exists, err := repo.EmployeeExists(context.Background(), id)
				assert.NoError(t, err)
				assert.True(t, exists)
			}()
		}
		wg.Wait()

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
