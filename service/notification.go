package service

import (
	"context"
	"unicode/utf8"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/ariebrainware/docflow-schedule/scope"
	"gorm.io/gorm"
)

type NotificationInput struct {
	Title   string
	Message string
	Type    model.NotificationType
}

type NotificationQuery struct {
	Read *bool
	Type model.NotificationType
	scope.PageRequest
}

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Create stores a notification owned by doctorID.
func (s *NotificationService) Create(ctx context.Context, doctorID string, in NotificationInput) (*model.Notification, error) {
	if utf8.RuneCountInString(in.Title) > model.MaxNotificationTitleLength {
		return nil, validationf("title must be at most %d characters", model.MaxNotificationTitleLength)
	}
	n := model.Notification{
		Title:    in.Title,
		Message:  in.Message,
		Type:     in.Type,
		DoctorID: &doctorID,
	}
	if n.Type == "" {
		n.Type = model.NotificationInfo
	}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// List returns a page of the doctor's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, doctorID string, q NotificationQuery) (scope.Page[model.Notification], error) {
	base := scope.Apply(scope.Tenant(s.db, scope.Notifications, doctorID),
		scope.When(q.Read != nil, "notifications.is_read = ?", q.Read != nil && *q.Read),
		scope.When(q.Type != "", "notifications.type = ?", q.Type),
	)
	return scope.Paginate[model.Notification](ctx, base, q.PageRequest, "notifications.created_at DESC")
}

func (s *NotificationService) Get(ctx context.Context, doctorID, id string) (*model.Notification, error) {
	return scope.Find[model.Notification](ctx, s.db, scope.Notifications, id, doctorID)
}

// MarkRead sets the read flag. Marking an already read notification
// succeeds and changes nothing.
func (s *NotificationService) MarkRead(ctx context.Context, doctorID, id string) (*model.Notification, error) {
	n, err := s.Get(ctx, doctorID, id)
	if err != nil {
		return nil, err
	}
	if n.Read {
		return n, nil
	}
	err = scope.Tenant(s.db.WithContext(ctx).Model(&model.Notification{}), scope.Notifications, doctorID).
		Where("notifications.id = ?", id).
		Update("is_read", true).Error
	if err != nil {
		return nil, err
	}
	n.Read = true
	return n, nil
}

// MarkAllRead marks every unread notification of the doctor as read and
// returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, doctorID string) (int64, error) {
	res := scope.Tenant(s.db.WithContext(ctx).Model(&model.Notification{}), scope.Notifications, doctorID).
		Where("notifications.is_read = ?", false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (s *NotificationService) Delete(ctx context.Context, doctorID, id string) error {
	if err := scope.Verify(ctx, s.db, scope.Notifications, id, doctorID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Where("id = ? AND doctor_id = ?", id, doctorID).Delete(&model.Notification{}).Error
}
