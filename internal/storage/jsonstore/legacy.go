package jsonstore

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Spok95/sitin-tracker/internal/domain/records"
)

// legacySitIn is the shape of entries in the old walk-in file, which predates
// reservations.json holding both kinds.
type legacySitIn struct {
	ID                  legacyID   `json:"id"`
	IDNumber            string     `json:"idNumber"`
	StudentName         string     `json:"studentName"`
	Purpose             string     `json:"purpose"`
	LabRoom             string     `json:"labRoom"`
	ProgrammingLanguage string     `json:"programmingLanguage"`
	Status              string     `json:"status"`
	Date                string     `json:"date"`
	Time                string     `json:"time"`
	TimeIn              *time.Time `json:"timeIn"`
	TimeOut             *time.Time `json:"timeOut"`
}

// legacyID holds ids written either as strings or as millisecond numbers.
type legacyID string

func (id *legacyID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = legacyID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("sit-in id %s: %w", b, err)
	}
	*id = legacyID(n.String())
	return nil
}

func (l legacySitIn) toRecord(loc *time.Location) (records.Record, bool) {
	in := l.TimeIn
	if in == nil {
		t, err := time.ParseInLocation(records.DateLayout+" "+records.TimeLayout, l.Date+" "+l.Time, loc)
		if err != nil {
			return records.Record{}, false
		}
		in = &t
	}
	date, clock := l.Date, l.Time
	if date == "" {
		date = in.Format(records.DateLayout)
	}
	if clock == "" {
		clock = in.Format(records.TimeLayout)
	}

	rec := records.Record{
		ID:                  string(l.ID),
		IDNumber:            l.IDNumber,
		StudentName:         l.StudentName,
		Status:              records.StatusActive,
		Date:                date,
		Time:                clock,
		IsWalkIn:            true,
		Purpose:             l.Purpose,
		LabRoom:             l.LabRoom,
		ProgrammingLanguage: l.ProgrammingLanguage,
		TimeIn:              in,
		CreatedAt:           *in,
		UpdatedAt:           *in,
	}

	st := records.Status(l.Status)
	if l.TimeOut != nil || st.Finished() {
		if !st.Finished() {
			st = records.StatusCompleted
		}
		out := l.TimeOut
		if out == nil {
			out = in
		}
		rec.Status = st
		rec.CompletedAt = out
		rec.TimeOut = out
		rec.UpdatedAt = *out
	}
	return rec, rec.Validate() == nil
}

// importLegacy copies walk-ins from sit-ins.json into reservations.json.
// Entries already present (by id) are skipped, so running it on every start
// is harmless. The legacy file itself is left untouched.
func (s *Store) importLegacy() error {
	legacy, err := readJSON[legacySitIn](filepath.Join(s.dir, LegacySitInsFile))
	if err != nil {
		return err
	}
	if len(legacy) == 0 {
		return nil
	}

	t := s.newTx()
	if err := t.records.load(); err != nil {
		return err
	}
	have := make(map[string]bool, len(t.records.items))
	for _, r := range t.records.items {
		have[r.ID] = true
	}

	imported, skipped := 0, 0
	for _, l := range legacy {
		if l.ID == "" || have[string(l.ID)] {
			continue
		}
		rec, ok := l.toRecord(s.loc)
		if !ok {
			skipped++
			s.log.Warn("legacy sit-in skipped", "id", l.ID, "idNumber", l.IDNumber)
			continue
		}
		t.records.items = append(t.records.items, rec)
		have[rec.ID] = true
		imported++
	}
	if imported == 0 {
		return nil
	}
	t.records.dirty = true
	if err := t.flush(); err != nil {
		return err
	}
	s.log.Info("legacy sit-ins imported", "imported", imported, "skipped", skipped)
	return nil
}
