package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/test.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "migrations", cfg.Database.MigrationsDir)
	assert.Equal(t, 256, cfg.Notification.QueueSize)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.False(t, cfg.NotificationsEnabled())
}

func TestLoad_RecipientLists(t *testing.T) {
	path := writeConfig(t, `
notification:
  hr_recipients:
    - gh@x.com
    - gh2@x.com
  payroll_recipients:
    - nomina@x.com
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"gh@x.com", "gh2@x.com"}, cfg.Notification.HRRecipients)
	assert.Equal(t, []string{"nomina@x.com"}, cfg.Notification.PayrollRecipients)
	assert.Empty(t, cfg.Notification.VPRecipients)
}

func TestLoad_SMTPRequiresFrom(t *testing.T) {
	path := writeConfig(t, `
smtp:
  host: smtp.example.com
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidPort(t *testing.T) {
	path := writeConfig(t, `
server:
  port: -1
`)

	_, err := Load(path)
	assert.Error(t, err)
}
