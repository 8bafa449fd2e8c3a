package utils

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

const mailQueueSize = 100

// AppointmentNotice carries what a patient needs to know about a booking.
type AppointmentNotice struct {
	To            string
	PatientName   string
	DoctorName    string
	Date          string
	Day           string
	Token         int
	ReportingTime string
}

// MailConfig holds SMTP settings. An empty Host disables sending.
type MailConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Mailer sends appointment notices in the background. Enqueueing never blocks
// the request; when the queue is full the notice is dropped and logged.
type Mailer struct {
	from  string
	send  func(m *gomail.Message) error
	queue chan *gomail.Message
	wg    sync.WaitGroup

	// mu guards closed so no send races the close of queue.
	mu     sync.RWMutex
	closed bool
}

// NewMailer returns nil when cfg.Host is empty. A nil *Mailer accepts and
// discards notices.
func NewMailer(cfg MailConfig) *Mailer {
	if cfg.Host == "" {
		return nil
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	return newMailer(cfg.From, func(m *gomail.Message) error { return d.DialAndSend(m) })
}

func newMailer(from string, send func(m *gomail.Message) error) *Mailer {
	return &Mailer{
		from:  from,
		send:  send,
		queue: make(chan *gomail.Message, mailQueueSize),
	}
}

// Start runs the delivery worker until ctx is done or Close is called.
func (m *Mailer) Start(ctx context.Context) {
	if m == nil {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-m.queue:
				if !ok {
					return
				}
				if err := m.send(msg); err != nil {
					log.Error().Err(err).Strs("to", msg.GetHeader("To")).Msg("failed to send email")
				}
			}
		}
	}()
}

// Close stops accepting notices and waits for queued ones to be delivered.
func (m *Mailer) Close() {
	if m == nil {
		return
	}
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.queue)
	}
	m.mu.Unlock()
	m.wg.Wait()
}

func (m *Mailer) AppointmentBooked(n AppointmentNotice) {
	m.enqueue(n, "Appointment confirmed", "Your appointment is confirmed.")
}

func (m *Mailer) AppointmentCancelled(n AppointmentNotice) {
	m.enqueue(n, "Appointment cancelled", "Your appointment has been cancelled.")
}

func (m *Mailer) enqueue(n AppointmentNotice, subject, headline string) {
	if m == nil || n.To == "" {
		return
	}

	msg, err := m.compose(n, subject, headline)
	if err != nil {
		log.Error().Err(err).Str("to", n.To).Msg("failed to compose email")
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		log.Warn().Str("to", n.To).Msg("mailer closed, notice dropped")
		return
	}
	select {
	case m.queue <- msg:
	default:
		log.Warn().Str("to", n.To).Str("subject", subject).Msg("mail queue full, notice dropped")
	}
}

var noticeTemplate = template.Must(template.New("notice").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
	<h2>{{.Headline}}</h2>
	<p>Hello {{.PatientName}},</p>
	<table>
		<tr><td>Doctor</td><td>{{.DoctorName}}</td></tr>
		<tr><td>Date</td><td>{{.Date}} ({{.Day}})</td></tr>
		<tr><td>Token</td><td>{{.Token}}</td></tr>
		<tr><td>Reporting time</td><td>{{.ReportingTime}}</td></tr>
	</table>
</body>
</html>`))

func (m *Mailer) compose(n AppointmentNotice, subject, headline string) (*gomail.Message, error) {
	var html bytes.Buffer
	err := noticeTemplate.Execute(&html, struct {
		AppointmentNotice
		Headline string
	}{n, headline})
	if err != nil {
		return nil, err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", n.To)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", fmt.Sprintf(
		"%s\nDoctor: %s\nDate: %s (%s)\nToken: %d\nReporting time: %s\n",
		headline, n.DoctorName, n.Date, n.Day, n.Token, n.ReportingTime,
	))
	msg.AddAlternative("text/html", html.String())
	return msg, nil
}
