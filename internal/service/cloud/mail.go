package cloud

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qiniu/x/xlog"
	"gopkg.in/gomail.v2"

	"github.com/Bleu24/ojt-crm-sub000/internal/common/utils"
	errors2 "github.com/Bleu24/ojt-crm-sub000/internal/protodef/errors"
	"github.com/Bleu24/ojt-crm-sub000/internal/protodef/model"
)

const MailProviderTest = "test"

// DeliveryReceipt 一次邮件投递的结果。
type DeliveryReceipt struct {
	MessageID string
	Accepted  []string
	Rejected  []string
}

// MailSender 邮件发送器。test模式下用mock实现，只记录日志不真正发送。
type MailSender interface {
	SendMail(xl *xlog.Logger, to string, subject string, htmlBody string, textBody string) error
}

// MailService 面向业务的邮件服务，渲染内容后交给底层发送器。
type MailService struct {
	conf   utils.MailConfig
	sender MailSender
	xl     *xlog.Logger
}

func NewMailService(conf utils.Config, xl *xlog.Logger) *MailService {
	if xl == nil {
		xl = xlog.New("ojt-crm-mail")
	}
	var sender MailSender
	if conf.Mail.Provider == MailProviderTest {
		sender = &mockMailSender{}
	} else {
		sender = &smtpMailSender{conf: *conf.Mail}
	}
	return &MailService{conf: *conf.Mail, sender: sender, xl: xl}
}

// SendInterviewInvitation 给候选人发送面试邀请邮件。
// 发送失败只返回错误由调用方上报，不影响已落库的状态。
func (s *MailService) SendInterviewInvitation(xl *xlog.Logger, recipient string, recipientName string, meeting *model.MeetingRecord, senderName string, phaseLabel string) (*DeliveryReceipt, error) {
	if xl == nil {
		xl = s.xl
	}
	if !s.conf.Enabled {
		xl.Infof("mail disabled, skip invitation to %s", recipient)
		return nil, &errors2.ServerError{Code: errors2.ServerErrorMailSendFail, Summary: "mail disabled"}
	}
	if senderName == "" {
		senderName = s.conf.FromName
	}
	if senderName == "" {
		senderName = "Recruitment Team"
	}
	subject, htmlBody, textBody := RenderInvitation(recipientName, meeting, senderName, phaseLabel)
	err := s.sender.SendMail(xl, recipient, subject, htmlBody, textBody)
	if err != nil {
		xl.Errorf("error send invitation to %s err:%v", recipient, err)
		return &DeliveryReceipt{Rejected: []string{recipient}}, &errors2.ServerError{Code: errors2.ServerErrorMailSendFail, Summary: err.Error()}
	}
	receipt := &DeliveryReceipt{
		MessageID: fmt.Sprintf("<%s@ojt-crm>", uuid.NewString()),
		Accepted:  []string{recipient},
	}
	xl.Infof("sent %s invitation to %s message %s", phaseLabel, recipient, receipt.MessageID)
	return receipt, nil
}

// RenderInvitation 渲染邀请邮件的主题和正文，时间按会议所在时区展示。
func RenderInvitation(recipientName string, meeting *model.MeetingRecord, senderName string, phaseLabel string) (subject string, htmlBody string, textBody string) {
	if recipientName == "" {
		recipientName = "Candidate"
	}
	when := "to be announced"
	if meeting != nil && !meeting.StartsAt.IsZero() {
		loc, err := time.LoadLocation(meeting.Timezone)
		if err != nil {
			loc = time.UTC
		}
		when = meeting.StartsAt.In(loc).Format("Monday, 02 January 2006 at 15:04 (MST)")
	}
	subject = fmt.Sprintf("%s Invitation", phaseLabel)

	var lines []string
	lines = append(lines, fmt.Sprintf("Dear %s,", recipientName))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("You are invited to a %s scheduled on %s.", strings.ToLower(phaseLabel), when))
	if meeting != nil {
		if meeting.Topic != "" {
			lines = append(lines, "")
			lines = append(lines, "Topic: "+meeting.Topic)
		}
		if meeting.DurationMinute > 0 {
			lines = append(lines, fmt.Sprintf("Duration: %d minutes", meeting.DurationMinute))
		}
		if meeting.ID != "" {
			lines = append(lines, "Meeting ID: "+meeting.ID)
		}
		if meeting.JoinURL != "" {
			lines = append(lines, "")
			lines = append(lines, "Join link: "+meeting.JoinURL)
			if meeting.Passcode != "" {
				lines = append(lines, "Passcode: "+meeting.Passcode)
			}
		}
	}
	lines = append(lines, "")
	lines = append(lines, "Best regards,")
	lines = append(lines, senderName)
	textBody = strings.Join(lines, "\n")

	var html strings.Builder
	html.WriteString(fmt.Sprintf("<p>Dear %s,</p>", recipientName))
	html.WriteString(fmt.Sprintf("<p>You are invited to a %s scheduled on <b>%s</b>.</p>", strings.ToLower(phaseLabel), when))
	if meeting != nil {
		var details []string
		if meeting.Topic != "" {
			details = append(details, "Topic: "+meeting.Topic)
		}
		if meeting.DurationMinute > 0 {
			details = append(details, fmt.Sprintf("Duration: %d minutes", meeting.DurationMinute))
		}
		if meeting.ID != "" {
			details = append(details, "Meeting ID: "+meeting.ID)
		}
		if len(details) > 0 {
			html.WriteString("<p>" + strings.Join(details, "<br>") + "</p>")
		}
		if meeting.JoinURL != "" {
			html.WriteString(fmt.Sprintf("<p>Join link: <a href=%q>%s</a>", meeting.JoinURL, meeting.JoinURL))
			if meeting.Passcode != "" {
				html.WriteString(fmt.Sprintf("<br>Passcode: <code>%s</code>", meeting.Passcode))
			}
			html.WriteString("</p>")
		}
	}
	html.WriteString(fmt.Sprintf("<p>Best regards,<br>%s</p>", senderName))
	htmlBody = html.String()
	return subject, htmlBody, textBody
}

// smtpMailSender 走SMTP真正发送。
type smtpMailSender struct {
	conf utils.MailConfig
}

func (s *smtpMailSender) SendMail(xl *xlog.Logger, to string, subject string, htmlBody string, textBody string) error {
	message := gomail.NewMessage()
	message.SetAddressHeader("From", s.conf.From, s.conf.FromName)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	if s.conf.ReplyTo != "" {
		message.SetHeader("Reply-To", s.conf.ReplyTo)
	}
	message.SetBody("text/plain", textBody)
	message.AddAlternative("text/html", htmlBody)
	dialer := gomail.NewDialer(s.conf.SMTPHost, s.conf.SMTPPort, s.conf.Username, s.conf.Password)
	return dialer.DialAndSend(message)
}

// mockMailSender 测试环境使用，只打日志。
type mockMailSender struct{}

func (s *mockMailSender) SendMail(xl *xlog.Logger, to string, subject string, htmlBody string, textBody string) error {
	xl.Infof("mock mail to %s subject %s", to, subject)
	return nil
}
