package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recipeapi/internal/database"
	"recipeapi/internal/repositories"
	"recipeapi/internal/services"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCmd()

	names := make([]string, 0)
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "createsuperuser"})
}

func TestCreateSuperuserCommand(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "test.db")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", dsn)
	t.Setenv("MEDIA_ROOT", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"createsuperuser", "--email", "admin@EXAMPLE.com", "--password", "test123"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Superuser admin@example.com created.")

	db, err := database.Open("sqlite", dsn, zap.NewNop())
	require.NoError(t, err)
	defer database.Close(db)

	user, err := repositories.NewGORMStore(db).Users().GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsSuperuser)
	assert.True(t, user.IsStaff)
	assert.True(t, services.CheckPassword(user.Password, "test123"))
}

func TestCreateSuperuserCommand_RequiresFlags(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"createsuperuser", "--email", "admin@example.com"})
	assert.Error(t, root.Execute())
}

func TestMigrateCommand(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "migrate.db")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", dsn)
	t.Setenv("LOG_LEVEL", "error")

	root := newRootCmd()
	root.SetArgs([]string{"migrate"})
	require.NoError(t, root.Execute())

	db, err := database.Open("sqlite", dsn, zap.NewNop())
	require.NoError(t, err)
	defer database.Close(db)
	assert.True(t, db.Migrator().HasTable("recipe_tags"))
	assert.True(t, db.Migrator().HasTable("recipe_ingredients"))
}
