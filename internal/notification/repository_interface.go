package notification

import "context"

type Repository interface {
	Create(ctx context.Context, userID int, title, message string) (*Notification, error)
	ListByUser(ctx context.Context, userID int) ([]Notification, error)
	// MarkRead only touches notifications owned by userID.
	MarkRead(ctx context.Context, userID, id int) error
}
