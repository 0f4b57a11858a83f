package mq

// EmailJob 邮件任务, consumed by the mail worker.
type EmailJob struct {
	Template  string            `json:"template"` // reset_password
	To        string            `json:"to"`
	Data      map[string]string `json:"data"`
	Timestamp int64             `json:"timestamp"`
	JobID     string            `json:"job_id"`
}

const (
	TemplateResetPassword = "reset_password"

	EmailExchange     = "email_jobs"
	DefaultEmailQueue = "email_job_queue"
)
