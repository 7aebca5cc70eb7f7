package service

import (
	"context"

	"github.com/Spok95/sitin-tracker/internal/domain/announcements"
	"github.com/Spok95/sitin-tracker/internal/domain/feedback"
	"github.com/Spok95/sitin-tracker/internal/storage"
)

func (s *Service) PostAnnouncement(ctx context.Context, adminID, title, content string) (*announcements.Announcement, error) {
	a, err := announcements.New(title, content, adminID, s.now())
	if err != nil {
		return nil, err
	}
	err = s.store.InTx(ctx, func(tx storage.Tx) error {
		return tx.Announcements().Create(ctx, &a)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("announcement posted", "op", "announce", "id", a.ID, "adminId", adminID)
	return &a, nil
}

func (s *Service) Announcements(ctx context.Context) ([]announcements.Announcement, error) {
	var out []announcements.Announcement
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.Announcements().List(ctx)
		return err
	})
	return out, err
}

func (s *Service) DeleteAnnouncement(ctx context.Context, id string) error {
	return s.store.InTx(ctx, func(tx storage.Tx) error {
		return tx.Announcements().Delete(ctx, id)
	})
}

// SubmitFeedback lets a student rate one of their own finished sessions,
// once per session.
func (s *Service) SubmitFeedback(ctx context.Context, idNumber, recordID string, rating int, comment string) (*feedback.Feedback, error) {
	var fb feedback.Feedback
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		rec, err := tx.Records().Get(ctx, recordID)
		if err != nil {
			return err
		}
		if rec.IDNumber != idNumber {
			return ErrForbidden
		}
		if !rec.Status.Finished() {
			return feedback.ErrNotFinished
		}
		exists, err := tx.Feedback().ExistsForRecord(ctx, recordID)
		if err != nil {
			return err
		}
		if exists {
			return feedback.ErrAlreadyGiven
		}
		fb, err = feedback.New(recordID, idNumber, rec.LabRoom, rating, comment, s.now())
		if err != nil {
			return err
		}
		return tx.Feedback().Create(ctx, &fb)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("feedback submitted", "op", "feedback", "idNumber", idNumber, "recordId", recordID, "rating", rating)
	return &fb, nil
}

func (s *Service) Feedback(ctx context.Context) ([]feedback.Feedback, error) {
	var out []feedback.Feedback
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.Feedback().List(ctx)
		return err
	})
	return out, err
}
