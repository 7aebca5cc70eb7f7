package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sample = `
app:
  env: dev
  timezone: Asia/Manila
storage:
  driver: json
  data_dir: ./var
admin:
  id: admin
  password: admin123
auth:
  secret: change-me
lab:
  auto_logout_after: 90m
semesters:
  - name: First Semester
    start: "08-01"
    end: "12-31"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HTTP.Addr != ":3000" {
		t.Errorf("HTTP.Addr = %q, want default :3000", c.HTTP.Addr)
	}
	if c.Lab.AutoLogoutAfter != 90*time.Minute {
		t.Errorf("AutoLogoutAfter = %v, want 90m", c.Lab.AutoLogoutAfter)
	}
	if c.Lab.ComputingQuota != 30 || c.Lab.DefaultQuota != 15 {
		t.Errorf("quotas = %d/%d, want 30/15", c.Lab.ComputingQuota, c.Lab.DefaultQuota)
	}
	if len(c.Semesters) != 1 || c.Semesters[0].Start != "08-01" {
		t.Errorf("Semesters = %+v", c.Semesters)
	}
	if c.Auth.SessionTTL != 24*time.Hour || c.Auth.CookieName != "sitin_session" {
		t.Errorf("auth defaults = %v %q", c.Auth.SessionTTL, c.Auth.CookieName)
	}
	if c.Location().String() != "Asia/Manila" {
		t.Errorf("Location = %s", c.Location())
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("APP_AUTH_SECRET", "from-env")
	t.Setenv("APP_HTTP_ADDR", ":8080")
	c, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatal(err)
	}
	if c.Auth.Secret != "from-env" {
		t.Errorf("Auth.Secret = %q, want from-env", c.Auth.Secret)
	}
	if c.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q, want :8080", c.HTTP.Addr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
		wantErr string
	}{
		{"postgres without dsn", [2]string{"driver: json", "driver: postgres"}, "postgres.dsn"},
		{"unknown driver", [2]string{"driver: json", "driver: sqlite"}, "unknown storage driver"},
		{"no secret", [2]string{"secret: change-me", "secret: \"\""}, "auth.secret"},
		{"no admin password", [2]string{"password: admin123", "password: \"\""}, "admin.id"},
	}
	for _, tt := range tests {
		body := strings.Replace(sample, tt.replace[0], tt.replace[1], 1)
		_, err := Load(writeConfig(t, body))
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: err = %v, want mention of %q", tt.name, err, tt.wantErr)
		}
	}
}

func TestLocationFallback(t *testing.T) {
	var c Config
	c.App.Timezone = "Mars/Olympus"
	if c.Location().String() != "UTC" {
		t.Errorf("Location = %s, want UTC", c.Location())
	}
}
