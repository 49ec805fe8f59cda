package mail

import "time"

type ApplicationEmailData struct {
	ID        string
	FullName  string
	BirthDate string
	Phone     string
	Telegram  string
	Source    string
	Referrer  string
	CreatedAt string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string

	dialer   dialer
	location *time.Location
}
