package cloud

import (
	"strings"
	"testing"
	"time"

	"github.com/qiniu/x/xlog"

	"github.com/Bleu24/ojt-crm-sub000/internal/common/utils"
	errors2 "github.com/Bleu24/ojt-crm-sub000/internal/protodef/errors"
	"github.com/Bleu24/ojt-crm-sub000/internal/protodef/model"
)

type captureMailSender struct {
	to      string
	subject string
	html    string
	text    string
	err     error
}

func (s *captureMailSender) SendMail(xl *xlog.Logger, to string, subject string, htmlBody string, textBody string) error {
	s.to = to
	s.subject = subject
	s.html = htmlBody
	s.text = textBody
	return s.err
}

func newTestMailService(sender MailSender) *MailService {
	conf := utils.Config{
		Mail: &utils.MailConfig{
			Enabled:  true,
			From:     "noreply@crm.example.com",
			FromName: "People Ops",
			Provider: MailProviderTest,
		},
	}
	service := NewMailService(conf, xlog.New("test-mail"))
	if sender != nil {
		service.sender = sender
	}
	return service
}

func testMeetingRecord() *model.MeetingRecord {
	return &model.MeetingRecord{
		ID:             "8123456789",
		Topic:          "Initial Interview - Dela Cruz",
		StartsAt:       time.Date(2026, 9, 10, 7, 0, 0, 0, time.UTC),
		Timezone:       "Asia/Manila",
		DurationMinute: 45,
		JoinURL:        "https://zoom.example.com/j/8123456789",
		Passcode:       "k7mn2p",
	}
}

func TestRenderInvitation(t *testing.T) {
	subject, htmlBody, textBody := RenderInvitation("Juan Dela Cruz", testMeetingRecord(), "Maria Santos", "Initial Interview")
	if subject != "Initial Interview Invitation" {
		t.Errorf("unexpected subject %q", subject)
	}
	// UTC 07:00 按会议时区 Asia/Manila 展示为 15:00。
	// 正文必须带会议主题、时长和会议号。
	for _, want := range []string{
		"Dear Juan Dela Cruz",
		"10 September 2026 at 15:00",
		"Topic: Initial Interview - Dela Cruz",
		"Duration: 45 minutes",
		"Meeting ID: 8123456789",
		"https://zoom.example.com/j/8123456789",
		"k7mn2p",
		"Maria Santos",
	} {
		if !strings.Contains(textBody, want) {
			t.Errorf("text body missing %q:\n%s", want, textBody)
		}
		if !strings.Contains(htmlBody, want) {
			t.Errorf("html body missing %q:\n%s", want, htmlBody)
		}
	}
}

func TestRenderInvitationDefaults(t *testing.T) {
	meeting := testMeetingRecord()
	meeting.StartsAt = time.Time{}
	meeting.Passcode = ""
	_, _, textBody := RenderInvitation("", meeting, "People Ops", "Final Interview")
	if !strings.Contains(textBody, "Dear Candidate") {
		t.Errorf("expect default recipient name, got:\n%s", textBody)
	}
	if !strings.Contains(textBody, "to be announced") {
		t.Errorf("expect placeholder time, got:\n%s", textBody)
	}
	if strings.Contains(textBody, "Passcode") {
		t.Errorf("expect no passcode line, got:\n%s", textBody)
	}
}

func TestSendInterviewInvitation(t *testing.T) {
	sender := &captureMailSender{}
	service := newTestMailService(sender)
	receipt, err := service.SendInterviewInvitation(nil, "juan@example.com", "Juan Dela Cruz", testMeetingRecord(), "", "Initial Interview")
	if err != nil {
		t.Fatalf("send invitation failed: %v", err)
	}
	if sender.to != "juan@example.com" {
		t.Errorf("unexpected recipient %s", sender.to)
	}
	// 没给发件人名字时用配置里的。
	if !strings.Contains(sender.text, "People Ops") {
		t.Errorf("expect configured sender name, got:\n%s", sender.text)
	}
	if len(receipt.Accepted) != 1 || receipt.Accepted[0] != "juan@example.com" {
		t.Errorf("unexpected accepted list %v", receipt.Accepted)
	}
	if !strings.HasPrefix(receipt.MessageID, "<") || !strings.HasSuffix(receipt.MessageID, "@ojt-crm>") {
		t.Errorf("unexpected message id %s", receipt.MessageID)
	}
}

func TestSendInterviewInvitationFailure(t *testing.T) {
	sender := &captureMailSender{err: &errors2.ServerError{Code: errors2.ServerErrorMailSendFail, Summary: "smtp refused"}}
	service := newTestMailService(sender)
	receipt, err := service.SendInterviewInvitation(nil, "juan@example.com", "Juan", testMeetingRecord(), "Maria", "Initial Interview")
	if !errors2.Is(err, errors2.ServerErrorMailSendFail) {
		t.Fatalf("expect send fail error, got %v", err)
	}
	if receipt == nil || len(receipt.Rejected) != 1 {
		t.Errorf("expect rejected receipt, got %+v", receipt)
	}
}

func TestSendInterviewInvitationDisabled(t *testing.T) {
	conf := utils.Config{
		Mail: &utils.MailConfig{Enabled: false, Provider: MailProviderTest},
	}
	service := NewMailService(conf, xlog.New("test-mail"))
	_, err := service.SendInterviewInvitation(nil, "juan@example.com", "Juan", testMeetingRecord(), "Maria", "Initial Interview")
	if !errors2.Is(err, errors2.ServerErrorMailSendFail) {
		t.Errorf("expect error when mail disabled, got %v", err)
	}
}
