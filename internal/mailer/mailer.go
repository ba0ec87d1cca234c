// Package mailer sends the two emails BottleFlow needs: manager login
// credentials and the daily report. Delivery is plain SMTP configured
// through .env; when SMTP_HOST is unset the mailer logs and does nothing,
// so a local install works without a mail server.
package mailer

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/smtp"
	"os"
	"strings"
)

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"

// GeneratePassword returns a random password for provisioned accounts.
func GeneratePassword(length int) string {
	var b strings.Builder
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(err)
		}
		b.WriteByte(passwordAlphabet[n.Int64()])
	}
	return b.String()
}

func send(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("SMTP not configured, skipping email to", to)
		return nil
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := user
	if from == "" {
		from = "bottleflow@localhost"
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", from, to, subject, body)

	var a smtp.Auth
	if user != "" {
		a = smtp.PlainAuth("", user, pass, host)
	}
	return smtp.SendMail(host+":"+port, a, from, []string{to}, []byte(msg))
}

// SendManagerCredentials mails a newly provisioned manager their login.
func SendManagerCredentials(name, email, username, password string) error {
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	subject := fmt.Sprintf("BottleFlow Manager Account Created - Welcome %s!", name)
	body := fmt.Sprintf(`Hello %s,

Welcome to BottleFlow! Your manager account has been created.

Your login credentials are:
Username: %s
Password: %s

Please keep these credentials secure and change your password after first login.

You can access the system at: %s
`, name, username, password, frontendURL)

	return send(email, subject, body)
}

// SendDailyReport mails the generated daily report text to the configured
// recipient.
func SendDailyReport(report string) error {
	recipient := os.Getenv("REPORT_RECIPIENT")
	if recipient == "" {
		log.Println("REPORT_RECIPIENT not configured, skipping daily report email")
		return nil
	}
	return send(recipient, "BottleFlow Daily Report", report)
}
