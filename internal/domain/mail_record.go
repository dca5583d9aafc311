package domain

import "time"

const (
	MailTemplateUser  = "user"
	MailTemplateAdmin = "admin"

	MailStatusSent   = "sent"
	MailStatusFailed = "failed"
)

// MailRecord registra cada envío de correo saliente.
type MailRecord struct {
	ID        string    `json:"id" bson:"_id"`
	To        string    `json:"to" bson:"to"`
	Template  string    `json:"template" bson:"template"`
	Subject   string    `json:"subject" bson:"subject"`
	Status    string    `json:"status" bson:"status"`
	Error     string    `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
