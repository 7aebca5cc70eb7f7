package announcements

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmpty = errors.New("announcements: title and content are required")

type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AdminID   string    `json:"adminId"`
	CreatedAt time.Time `json:"createdAt"`
}

func New(title, content, adminID string, now time.Time) (Announcement, error) {
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if title == "" || content == "" {
		return Announcement{}, ErrEmpty
	}
	return Announcement{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		AdminID:   adminID,
		CreatedAt: now,
	}, nil
}
