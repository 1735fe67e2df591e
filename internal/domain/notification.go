package domain

import "time"

type NotificationID string

type Category string

const (
	CategoryInfo    Category = "info"
	CategorySuccess Category = "success"
	CategoryWarning Category = "warning"
	CategoryEvent   Category = "event"
	CategoryError   Category = "error"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryInfo, CategorySuccess, CategoryWarning, CategoryEvent, CategoryError:
		return true
	default:
		return false
	}
}

const NotificationStampLayout = "15:04:05"

type Notification struct {
	ID        NotificationID
	Message   string
	Category  Category
	CreatedAt time.Time
	// Stamp is CreatedAt formatted for display at insertion time.
	Stamp     string
}
