package repositories

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// dryRunMySQL builds statements with the MySQL dialect without a server and
// records every SELECT it would send.
func dryRunMySQL(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "memberhub:memberhub@tcp(127.0.0.1:3306)/memberhub?parseTime=True&loc=UTC",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	var statements []string
	err = db.Callback().Query().After("gorm:query").Register("test:capture", func(tx *gorm.DB) {
		statements = append(statements, tx.Statement.SQL.String())
	})
	require.NoError(t, err)
	return db, &statements
}

func lastSelect(t *testing.T, statements *[]string) string {
	t.Helper()
	require.NotEmpty(t, *statements)
	return (*statements)[len(*statements)-1]
}

func TestMemberRepository_GetByIDForUpdateLocksRow(t *testing.T) {
	db, statements := dryRunMySQL(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	_, _ = repo.GetByIDForUpdate(ctx, "507f1f77bcf86cd799439011")
	locked := lastSelect(t, statements)
	assert.True(t, strings.HasSuffix(locked, "FOR UPDATE"), locked)
	assert.Contains(t, locked, "members.is_active = ?")
	assert.Contains(t, locked, "members.id = ?")

	_, _ = repo.GetAnyByID(ctx, "507f1f77bcf86cd799439011")
	assert.NotContains(t, lastSelect(t, statements), "FOR UPDATE")
}

func TestEventRepository_GetByIDForUpdateLocksRow(t *testing.T) {
	db, statements := dryRunMySQL(t)
	repo := NewEventRepository(db)

	_, _ = repo.GetByIDForUpdate(context.Background(), "507f1f77bcf86cd799439011")
	locked := lastSelect(t, statements)
	assert.True(t, strings.HasSuffix(locked, "FOR UPDATE"), locked)
	assert.Contains(t, locked, "is_active = ?")
}
