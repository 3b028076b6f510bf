// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package store

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/qanda/pkg/errutil"
)

// fakeMigrate implements migrateIface with canned results.
type fakeMigrate struct {
	upErr, downErr, stepsErr, forceErr error
	version                            uint
	dirty                              bool
	versionErr                         error
	closeSourceErr, closeDBErr         error

	forced *int
}

func (f *fakeMigrate) Up() error                    { return f.upErr }
func (f *fakeMigrate) Down() error                  { return f.downErr }
func (f *fakeMigrate) Steps(int) error              { return f.stepsErr }
func (f *fakeMigrate) Version() (uint, bool, error) { return f.version, f.dirty, f.versionErr }
func (f *fakeMigrate) Force(v int) error {
	f.forced = &v
	return f.forceErr
}
func (f *fakeMigrate) Close() (error, error) { return f.closeSourceErr, f.closeDBErr }

func TestMigrateURL(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@db:5432/qanda":   "pgx5://u:p@db:5432/qanda",
		"postgresql://u:p@db:5432/qanda": "pgx5://u:p@db:5432/qanda",
		"pgx5://u:p@db:5432/qanda":       "pgx5://u:p@db:5432/qanda",
	}
	for in, want := range tests {
		assert.Equal(t, want, migrateURL(in), in)
	}
}

func TestNewMigrator_InvalidURL(t *testing.T) {
	_, err := NewMigrator("badscheme://localhost:5432/qanda")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MIGRATION_INIT_FAILED")
}

func TestMigrator_Operations(t *testing.T) {
	boom := errors.New("database locked")

	tests := []struct {
		name     string
		fake     *fakeMigrate
		run      func(*Migrator) error
		wantCode string
	}{
		{name: "up", fake: &fakeMigrate{}, run: (*Migrator).Up},
		{name: "up with no change", fake: &fakeMigrate{upErr: migrate.ErrNoChange}, run: (*Migrator).Up},
		{name: "up failure", fake: &fakeMigrate{upErr: boom}, run: (*Migrator).Up, wantCode: "MIGRATION_UP_FAILED"},
		{name: "down", fake: &fakeMigrate{}, run: (*Migrator).Down},
		{name: "down with no change", fake: &fakeMigrate{downErr: migrate.ErrNoChange}, run: (*Migrator).Down},
		{name: "down failure", fake: &fakeMigrate{downErr: boom}, run: (*Migrator).Down, wantCode: "MIGRATION_DOWN_FAILED"},
		{
			name: "steps with no change",
			fake: &fakeMigrate{stepsErr: migrate.ErrNoChange},
			run:  func(m *Migrator) error { return m.Steps(0) },
		},
		{
			name:     "steps failure",
			fake:     &fakeMigrate{stepsErr: boom},
			run:      func(m *Migrator) error { return m.Steps(-1) },
			wantCode: "MIGRATION_STEPS_FAILED",
		},
		{
			name:     "force failure",
			fake:     &fakeMigrate{forceErr: boom},
			run:      func(m *Migrator) error { return m.Force(2) },
			wantCode: "MIGRATION_FORCE_FAILED",
		},
		{
			name:     "negative force",
			fake:     &fakeMigrate{},
			run:      func(m *Migrator) error { return m.Force(-1) },
			wantCode: "MIGRATION_INVALID_VERSION",
		},
		{name: "close", fake: &fakeMigrate{}, run: (*Migrator).Close},
		{
			name:     "close with both errors",
			fake:     &fakeMigrate{closeSourceErr: errors.New("src"), closeDBErr: errors.New("db")},
			run:      (*Migrator).Close,
			wantCode: "MIGRATION_CLOSE_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(&Migrator{m: tt.fake})
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, tt.wantCode)
		})
	}
}

func TestMigrator_ForcePassesVersion(t *testing.T) {
	fake := &fakeMigrate{}
	require.NoError(t, (&Migrator{m: fake}).Force(2))
	require.NotNil(t, fake.forced)
	assert.Equal(t, 2, *fake.forced)

	fake = &fakeMigrate{}
	err := (&Migrator{m: fake}).Force(-3)
	require.Error(t, err)
	assert.Nil(t, fake.forced, "negative version must not reach the driver")
}

func TestMigrator_Version(t *testing.T) {
	t.Run("empty database", func(t *testing.T) {
		version, dirty, err := (&Migrator{m: &fakeMigrate{versionErr: migrate.ErrNilVersion}}).Version()
		require.NoError(t, err)
		assert.Zero(t, version)
		assert.False(t, dirty)
	})

	t.Run("dirty", func(t *testing.T) {
		version, dirty, err := (&Migrator{m: &fakeMigrate{version: 2, dirty: true}}).Version()
		require.NoError(t, err)
		assert.Equal(t, uint(2), version)
		assert.True(t, dirty)
	})

	t.Run("failure", func(t *testing.T) {
		_, _, err := (&Migrator{m: &fakeMigrate{versionErr: errors.New("connection lost")}}).Version()
		errutil.AssertErrorCode(t, err, "MIGRATION_VERSION_FAILED")
	})
}

func TestMigrator_Status(t *testing.T) {
	t.Run("fresh database", func(t *testing.T) {
		status, err := (&Migrator{m: &fakeMigrate{versionErr: migrate.ErrNilVersion}}).Status()
		require.NoError(t, err)
		assert.Zero(t, status.Version)
		assert.Empty(t, status.Name)
		assert.Equal(t, []uint{1, 2, 3}, status.Pending)
	})

	t.Run("partially migrated", func(t *testing.T) {
		status, err := (&Migrator{m: &fakeMigrate{version: 2}}).Status()
		require.NoError(t, err)
		assert.Equal(t, "000002_create_questions", status.Name)
		assert.Equal(t, []uint{3}, status.Pending)
	})

	t.Run("version lookup fails", func(t *testing.T) {
		_, err := (&Migrator{m: &fakeMigrate{versionErr: errors.New("connection lost")}}).Status()
		errutil.AssertErrorCode(t, err, "MIGRATION_VERSION_FAILED")
	})
}
