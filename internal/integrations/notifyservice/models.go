package notifyservice

// NotificationKind тип уведомления, маршрутизацию по каналам выполняет NotifyService
type NotificationKind string

const (
	KindBookingCreated   NotificationKind = "booking_created"
	KindBookingRequested NotificationKind = "booking_requested"
	KindBookingApproved  NotificationKind = "booking_approved"
	KindBookingRejected  NotificationKind = "booking_rejected"
	KindBookingCancelled NotificationKind = "booking_cancelled"
	KindEventCancelled   NotificationKind = "event_cancelled"
	KindSessionStarted   NotificationKind = "session_started"
)

// Notification запрос на отправку уведомления
type Notification struct {
	Kind        NotificationKind  `json:"kind"`
	RecipientID int64             `json:"recipient_id"`
	ActorID     int64             `json:"actor_id"`
	Payload     map[string]string `json:"payload,omitempty"`
}
