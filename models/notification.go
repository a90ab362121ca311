package models

// NotificationTarget selects the recipient kind for a push payload.
type NotificationTarget string

const (
	TargetCustomer NotificationTarget = "customer"
	TargetShop     NotificationTarget = "shop"
)

// PushPayload is the asynq task body for an outbound push notification.
type PushPayload struct {
	Target NotificationTarget `json:"target"`
	ID     string             `json:"id"` // customer or shop id
	Title  string             `json:"title"`
	Body   string             `json:"body"`
	Data   map[string]string  `json:"data,omitempty"`
}
