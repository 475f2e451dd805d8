package utils

import (
	"gopkg.in/gomail.v2"
)

func SendEmail(host string, port int, user, password, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", user)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(host, port, user, password)

	return d.DialAndSend(m)
}
