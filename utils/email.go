package utils

import (
	"fmt"
	"net/smtp"
	"os"
)

// SMTPMailer šalje email preko SMTP servera koristeći net/smtp biblioteku
type SMTPMailer struct {
	Host     string
	Port     string
	From     string
	Password string
}

func NewSMTPMailerFromEnv() *SMTPMailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return &SMTPMailer{
		Host:     host,
		Port:     port,
		From:     os.Getenv("EMAIL_FROM"),
		Password: os.Getenv("EMAIL_PASSWORD"),
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.Password == "" {
		return fmt.Errorf("EMAIL_PASSWORD nije postavljena")
	}

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + m.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)

	err := smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}

func frontendURL() string {
	url := os.Getenv("FRONTEND_URL")
	if url == "" {
		url = "http://localhost:3000"
	}
	return url
}

// Email šabloni za HireHelper obaveštenja

func RequestReceivedEmail(taskTitle, requesterName string) (string, string) {
	subject := fmt.Sprintf("New Help Request for %q", taskTitle)
	body := fmt.Sprintf(
		"<p><strong>%s</strong> has requested to help with your task <strong>%s</strong>.</p>"+
			"<p>Log in to your HireHelper account to view the request and respond.</p>"+
			"<p><a href=\"%s/requests\">View Request</a></p>"+
			"<p>Best regards,<br>HireHelper Team</p>",
		requesterName, taskTitle, frontendURL())
	return subject, body
}

func RequestAcceptedEmail(taskTitle, ownerName string) (string, string) {
	subject := "Your Request was Accepted!"
	body := fmt.Sprintf(
		"<p><strong>%s</strong> has accepted your request to help with <strong>%s</strong>.</p>"+
			"<p>You can now coordinate with the task owner to complete the task.</p>"+
			"<p><a href=\"%s/my-requests\">View Task Details</a></p>"+
			"<p>Best regards,<br>HireHelper Team</p>",
		ownerName, taskTitle, frontendURL())
	return subject, body
}

func RequestRejectedEmail(taskTitle string) (string, string) {
	subject := "Update on Your Help Request"
	body := fmt.Sprintf(
		"<p>Unfortunately, your request to help with <strong>%s</strong> was not accepted this time.</p>"+
			"<p>There are many other tasks available that might be a better fit.</p>"+
			"<p><a href=\"%s/feed\">Browse More Tasks</a></p>"+
			"<p>Best regards,<br>HireHelper Team</p>",
		taskTitle, frontendURL())
	return subject, body
}

func TaskCompletedEmail(taskTitle, ownerName string) (string, string) {
	subject := fmt.Sprintf("Task Completed: %s", taskTitle)
	body := fmt.Sprintf(
		"<p>The task <strong>%s</strong> has been marked as completed by <strong>%s</strong>.</p>"+
			"<p>Please take a moment to rate your experience and leave a review.</p>"+
			"<p><a href=\"%s/my-tasks\">Rate &amp; Review</a></p>"+
			"<p>Best regards,<br>HireHelper Team</p>",
		taskTitle, ownerName, frontendURL())
	return subject, body
}
