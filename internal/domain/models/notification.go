package models

// NotificationType identifies the template a downstream mailer should render.
type NotificationType string

const (
	NotificationPasswordResetOTP  NotificationType = "otp.password_reset"
	NotificationPasswordChangeOTP NotificationType = "otp.password_change"
	NotificationEmailVerifyOTP    NotificationType = "otp.email_verification"
	NotificationPasswordResetLink NotificationType = "password_reset.link"
)

// NotificationJob is the unit of work handed to the notification dispatcher.
// Delivery is at-least-once; JobKey is stable per issuance so duplicate
// deliveries collapse downstream. The payload carries the secret (OTP code or
// signed link token) and must never be logged.
type NotificationJob struct {
	JobKey         string            `json:"job_key"`
	Type           NotificationType  `json:"type"`
	RecipientEmail string            `json:"recipient_email"`
	RecipientName  string            `json:"recipient_name"`
	Payload        map[string]string `json:"payload"`
}
