package cloud

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/qiniu/x/xlog"
	"github.com/tidwall/gjson"

	"github.com/Bleu24/ojt-crm-sub000/internal/common/utils"
	errors2 "github.com/Bleu24/ojt-crm-sub000/internal/protodef/errors"
	"github.com/Bleu24/ojt-crm-sub000/internal/protodef/model"
)

type staticTokenProvider struct {
	token string
	err   error
}

func (p *staticTokenProvider) ValidAccessToken(xl *xlog.Logger, operatorID string) (string, error) {
	return p.token, p.err
}

func newTestMeetingService(apiBaseURL string, provider AccessTokenProvider) *MeetingService {
	conf := utils.Config{
		Zoom: &utils.ZoomConfig{APIBaseURL: apiBaseURL},
	}
	return NewMeetingService(conf, provider, xlog.New("test-meeting"))
}

func TestCreateMeetingNormalizesLocalTime(t *testing.T) {
	var gotBody []byte
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/users/me/meetings" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = ioutil.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":8123456789,"topic":"Initial Interview - Dela Cruz","start_time":"2026-09-10T07:00:00Z","timezone":"Asia/Manila","duration":45,"join_url":"https://zoom.example.com/j/8123456789","start_url":"https://zoom.example.com/s/8123456789","password":"k7mn2p","status":"waiting"}`)
	}))
	defer server.Close()

	service := newTestMeetingService(server.URL, &staticTokenProvider{token: "at-1"})
	record, err := service.CreateMeeting(nil, "user-1", model.MeetingSpec{
		Topic:          "Initial Interview - Dela Cruz",
		Date:           "2026-09-10",
		Time:           "15:00",
		Timezone:       "Asia/Manila",
		DurationMinute: 45,
		Passcode:       "k7mn2p",
	})
	if err != nil {
		t.Fatalf("create meeting failed: %v", err)
	}
	if gotAuth != "Bearer at-1" {
		t.Errorf("unexpected authorization header %s", gotAuth)
	}
	body := gjson.ParseBytes(gotBody)
	// 本地时间原样下发，时区走单独字段，不做UTC换算。
	if got := body.Get("start_time").String(); got != "2026-09-10T15:00:00" {
		t.Errorf("expect local start_time 2026-09-10T15:00:00, got %s", got)
	}
	if got := body.Get("timezone").String(); got != "Asia/Manila" {
		t.Errorf("expect timezone Asia/Manila, got %s", got)
	}
	if got := body.Get("type").Int(); got != MeetingTypeScheduled {
		t.Errorf("expect scheduled meeting type, got %d", got)
	}
	if record.ID != "8123456789" {
		t.Errorf("unexpected meeting id %s", record.ID)
	}
	if record.JoinURL == "" || record.StartURL == "" {
		t.Error("expect join and start urls parsed")
	}
	if !record.StartsAt.Equal(time.Date(2026, 9, 10, 7, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected starts at %v", record.StartsAt)
	}
}

func TestCreateMeetingAbsoluteInstant(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = ioutil.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":1,"topic":"t"}`)
	}))
	defer server.Close()

	service := newTestMeetingService(server.URL, &staticTokenProvider{token: "at-1"})
	// UTC 07:00 在马尼拉是 15:00。
	startAt := time.Date(2026, 9, 10, 7, 0, 0, 0, time.UTC)
	_, err := service.CreateMeeting(nil, "user-1", model.MeetingSpec{
		Topic:    "t",
		StartAt:  &startAt,
		Timezone: "Asia/Manila",
	})
	if err != nil {
		t.Fatalf("create meeting failed: %v", err)
	}
	body := gjson.ParseBytes(gotBody)
	if got := body.Get("start_time").String(); got != "2026-09-10T15:00:00" {
		t.Errorf("expect converted local time, got %s", got)
	}
	if got := body.Get("timezone").String(); got != "Asia/Manila" {
		t.Errorf("expect timezone Asia/Manila, got %s", got)
	}
}

func TestCreateMeetingDefaults(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = ioutil.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":1,"topic":"t"}`)
	}))
	defer server.Close()

	service := newTestMeetingService(server.URL, &staticTokenProvider{token: "at-1"})
	record, err := service.CreateMeeting(nil, "user-1", model.MeetingSpec{
		Topic: "t",
		Date:  "2026-09-10",
		Time:  "15:00",
	})
	if err != nil {
		t.Fatalf("create meeting failed: %v", err)
	}
	body := gjson.ParseBytes(gotBody)
	if got := body.Get("duration").Int(); got != DefaultMeetingDurationMinute {
		t.Errorf("expect default duration, got %d", got)
	}
	passcode := body.Get("password").String()
	if len(passcode) != utils.DefaultPasscodeLength {
		t.Errorf("expect generated passcode, got %q", passcode)
	}
	if strings.ContainsAny(passcode, "0O1Il") {
		t.Errorf("passcode contains confusable chars: %q", passcode)
	}
	// 服务商响应没带密码时回填本地生成的。
	if record.Passcode != passcode {
		t.Errorf("expect passcode backfilled, got %q", record.Passcode)
	}
	if got := body.Get("settings.waiting_room").Bool(); !got {
		t.Error("expect default waiting room enabled")
	}
	if got := body.Get("settings.join_before_host").Bool(); got {
		t.Error("expect join before host disabled by default")
	}
}

func TestCreateMeetingBadTimezone(t *testing.T) {
	service := newTestMeetingService("http://127.0.0.1:1", &staticTokenProvider{token: "at-1"})
	_, err := service.CreateMeeting(nil, "user-1", model.MeetingSpec{
		Topic:    "t",
		Date:     "2026-09-10",
		Time:     "15:00",
		Timezone: "Mars/Olympus",
	})
	if !errors2.Is(err, errors2.ServerErrorValidation) {
		t.Errorf("expect validation error, got %v", err)
	}
}

func TestMeetingAPIErrorMapping(t *testing.T) {
	cases := []struct {
		status   int
		wantCode int
	}{
		{http.StatusUnauthorized, errors2.ServerErrorZoomAuthExpired},
		{http.StatusBadRequest, errors2.ServerErrorZoomBadRequest},
		{http.StatusNotFound, errors2.ServerErrorZoomNotFound},
		{http.StatusTooManyRequests, errors2.ServerErrorZoomUpstream},
		{http.StatusInternalServerError, errors2.ServerErrorZoomUpstream},
	}
	for _, c := range cases {
		status := c.status
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"code":300,"message":"upstream says no"}`)
		}))
		service := newTestMeetingService(server.URL, &staticTokenProvider{token: "at-1"})
		_, err := service.GetMeeting(nil, "user-1", "42")
		if !errors2.Is(err, c.wantCode) {
			t.Errorf("status %d: expect code %d, got %v", c.status, c.wantCode, err)
		}
		serverErr, ok := err.(*errors2.ServerError)
		if ok && !strings.Contains(serverErr.Summary, "upstream says no") {
			t.Errorf("status %d: provider message not preserved: %s", c.status, serverErr.Summary)
		}
		server.Close()
	}
}

func TestDeleteMeetingAlreadyGone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"code":3001,"message":"Meeting does not exist"}`)
	}))
	defer server.Close()

	service := newTestMeetingService(server.URL, &staticTokenProvider{token: "at-1"})
	if err := service.DeleteMeeting(nil, "user-1", "42"); err != nil {
		t.Errorf("delete of missing meeting should succeed, got %v", err)
	}
}

func TestMeetingTokenProviderError(t *testing.T) {
	providerErr := &errors2.ServerError{Code: errors2.ServerErrorZoomNotConnected, Summary: "operator not connected"}
	service := newTestMeetingService("http://127.0.0.1:1", &staticTokenProvider{err: providerErr})
	_, err := service.CreateMeeting(nil, "user-1", model.MeetingSpec{Topic: "t", Date: "2026-09-10", Time: "15:00"})
	if !errors2.Is(err, errors2.ServerErrorZoomNotConnected) {
		t.Errorf("expect token provider error passthrough, got %v", err)
	}
}

func TestListMeetings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me/meetings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"total_records":2,"meetings":[{"id":1,"topic":"a"},{"id":2,"topic":"b"}]}`)
	}))
	defer server.Close()

	service := newTestMeetingService(server.URL, &staticTokenProvider{token: "at-1"})
	records, err := service.ListMeetings(nil, "user-1")
	if err != nil {
		t.Fatalf("list meetings failed: %v", err)
	}
	if len(records) != 2 || records[0].Topic != "a" || records[1].Topic != "b" {
		t.Errorf("unexpected list result %+v", records)
	}
}
