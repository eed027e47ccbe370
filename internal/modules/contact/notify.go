package contact

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/leadforge/site/internal/models"
	"github.com/leadforge/site/internal/pkg/mail"
	"go.uber.org/zap"
)

// Notifier is told about every stored lead at or above the configured tier.
type Notifier interface {
	NotifyLead(ctx context.Context, sub *models.ContactSubmissionModel) error
}

var tierRank = map[string]int{TierCold: 0, TierWarm: 1, TierHot: 2}

// WithNotifier makes Submit alert n about leads at minTier or better. Alerts
// are sent in the background and failures are only logged.
func (s *Service) WithNotifier(n Notifier, minTier string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s.notifier = n
	s.minTier = minTier
	s.logger = logger.Named("contact")
	return s
}

func (s *Service) shouldNotify(tier string) bool {
	if s.notifier == nil {
		return false
	}
	return tierRank[tier] >= tierRank[s.minTier]
}

func (s *Service) notify(ctx context.Context, sub *models.ContactSubmissionModel) {
	if !s.shouldNotify(sub.LeadTier) {
		return
	}
	go func() {
		if err := s.notifier.NotifyLead(context.WithoutCancel(ctx), sub); err != nil {
			s.logger.Warn("lead notification failed", zap.String("lead", sub.ID), zap.Error(err))
		}
	}()
}

// LeadMailer mails lead alerts to the sales inbox.
type LeadMailer struct {
	sender   *mail.Sender
	to       []string
	siteName string
	adminURL string
}

func NewLeadMailer(sender *mail.Sender, to []string, siteName, siteURL string) *LeadMailer {
	return &LeadMailer{sender: sender, to: to, siteName: siteName, adminURL: siteURL + "/admin/contacts"}
}

var leadAlertTpl = template.Must(template.New("lead").Parse(`<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#111">New {{.Sub.LeadTier}} lead: {{.Sub.Name}}</h2>
  <p style="color:#555">Score {{.Sub.LeadScore}} / 100</p>
  <table style="font-size:14px;color:#333" cellpadding="4">
    <tr><td>Email</td><td>{{.Sub.Email}}</td></tr>
    {{if .Sub.Company}}<tr><td>Company</td><td>{{.Sub.Company}}</td></tr>{{end}}
    {{if .Sub.JobTitle}}<tr><td>Role</td><td>{{.Sub.JobTitle}}</td></tr>{{end}}
    {{if .Sub.CompanySize}}<tr><td>Company size</td><td>{{.Sub.CompanySize}}</td></tr>{{end}}
    {{if .Sub.MonthlyVolume}}<tr><td>Monthly volume</td><td>{{.Sub.MonthlyVolume}}</td></tr>{{end}}
    {{if .Sub.Timeline}}<tr><td>Timeline</td><td>{{.Sub.Timeline}}</td></tr>{{end}}
  </table>
  {{if .Sub.Message}}<p style="background:#f3f4f6;border-radius:6px;padding:12px;white-space:pre-wrap">{{.Sub.Message}}</p>{{end}}
  <p style="margin-top:24px">
    <a href="{{.InboxURL}}" style="background:#4f46e5;color:#fff;padding:8px 16px;text-decoration:none;border-radius:4px">Open inbox</a>
  </p>
  <p style="color:#999;font-size:12px">Sent by {{.SiteName}}.</p>
</div>
</body>
</html>`))

func (m *LeadMailer) render(sub *models.ContactSubmissionModel) (string, error) {
	var buf bytes.Buffer
	err := leadAlertTpl.Execute(&buf, struct {
		Sub      *models.ContactSubmissionModel
		InboxURL string
		SiteName string
	}{sub, m.adminURL, m.siteName})
	return buf.String(), err
}

func (m *LeadMailer) NotifyLead(_ context.Context, sub *models.ContactSubmissionModel) error {
	html, err := m.render(sub)
	if err != nil {
		return err
	}
	return m.sender.Send(mail.Message{
		To:      m.to,
		Subject: fmt.Sprintf("[%s] %s lead: %s", m.siteName, sub.LeadTier, sub.Name),
		HTML:    html,
		ReplyTo: sub.Email,
	})
}
