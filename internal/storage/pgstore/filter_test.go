package pgstore

import (
	"testing"

	"github.com/Spok95/sitin-tracker/internal/domain/records"
)

func TestFilterSQL(t *testing.T) {
	walk := false
	tests := []struct {
		name  string
		f     records.Filter
		where string
		args  int
	}{
		{"empty", records.Filter{}, "", 0},
		{"student", records.Filter{IDNumber: "2021-0001"}, " WHERE id_number = $1", 1},
		{
			"everything",
			records.Filter{IDNumber: "x", Status: records.StatusActive, WalkIn: &walk, From: "2025-01-01", To: "2025-05-31"},
			" WHERE id_number = $1 AND status = $2 AND is_walk_in = $3 AND date >= $4 AND date <= $5",
			5,
		},
		{"range only", records.Filter{From: "2025-01-01"}, " WHERE date >= $1", 1},
	}
	for _, tt := range tests {
		where, args := filterSQL(tt.f)
		if where != tt.where {
			t.Errorf("%s: where = %q, want %q", tt.name, where, tt.where)
		}
		if len(args) != tt.args {
			t.Errorf("%s: %d args, want %d", tt.name, len(args), tt.args)
		}
	}
}
