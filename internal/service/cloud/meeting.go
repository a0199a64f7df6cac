package cloud

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/qiniu/x/xlog"
	"github.com/tidwall/gjson"

	"github.com/Bleu24/ojt-crm-sub000/internal/common/utils"
	errors2 "github.com/Bleu24/ojt-crm-sub000/internal/protodef/errors"
	"github.com/Bleu24/ojt-crm-sub000/internal/protodef/model"
)

const (
	// MeetingTypeScheduled 服务商侧的预约会议类型。
	MeetingTypeScheduled = 2
	// MeetingTimeLayout 服务商要求的本地时间格式，时区单独用timezone字段传。
	MeetingTimeLayout = "2006-01-02T15:04:05"
	// DefaultMeetingDurationMinute 未指定时长时的默认会议时长。
	DefaultMeetingDurationMinute = 60
)

// AccessTokenProvider 提供某操作者当前有效的access token。
type AccessTokenProvider interface {
	ValidAccessToken(xl *xlog.Logger, operatorID string) (string, error)
}

// MeetingService 会议资源的增删改查，所有调用都以操作者身份访问服务商API。
type MeetingService struct {
	conf   utils.ZoomConfig
	tokens AccessTokenProvider
	client *http.Client
	xl     *xlog.Logger
}

func NewMeetingService(conf utils.Config, tokens AccessTokenProvider, xl *xlog.Logger) *MeetingService {
	if xl == nil {
		xl = xlog.New("ojt-crm-zoom-meeting")
	}
	timeout := DefaultZoomRequestTimeout
	if conf.Zoom.RequestTimeoutSecond > 0 {
		timeout = time.Duration(conf.Zoom.RequestTimeoutSecond) * time.Second
	}
	return &MeetingService{
		conf:   *conf.Zoom,
		tokens: tokens,
		client: &http.Client{Timeout: timeout},
		xl:     xl,
	}
}

// CreateMeeting 在操作者账号下创建预约会议。
func (s *MeetingService) CreateMeeting(xl *xlog.Logger, operatorID string, spec model.MeetingSpec) (*model.MeetingRecord, error) {
	if xl == nil {
		xl = s.xl
	}
	startLocal, loc, err := normalizeStart(spec)
	if err != nil {
		xl.Infof("bad meeting start time err:%v", err)
		return nil, &errors2.ServerError{Code: errors2.ServerErrorValidation, Summary: err.Error()}
	}
	passcode := spec.Passcode
	if passcode == "" {
		passcode = utils.GeneratePasscode()
	}
	duration := spec.DurationMinute
	if duration <= 0 {
		duration = DefaultMeetingDurationMinute
	}
	settings := spec.Settings
	if settings == nil {
		defaults := model.DefaultMeetingSettings()
		settings = &defaults
	}
	payload := map[string]interface{}{
		"topic":      spec.Topic,
		"type":       MeetingTypeScheduled,
		"start_time": startLocal.Format(MeetingTimeLayout),
		"timezone":   loc.String(),
		"duration":   duration,
		"password":   passcode,
		"agenda":     spec.Agenda,
		"settings": map[string]interface{}{
			"host_video":        settings.HostVideo,
			"participant_video": settings.ParticipantVideo,
			"mute_upon_entry":   settings.MuteOnEntry,
			"waiting_room":      settings.WaitingRoom,
			"join_before_host":  settings.JoinBeforeHost,
			"auto_recording":    settings.AutoRecording,
		},
	}
	body, err := s.do(xl, operatorID, "POST", "/users/me/meetings", payload, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	record := parseMeeting(body)
	if record.Passcode == "" {
		record.Passcode = passcode
	}
	xl.Infof("created meeting %s for operator %s", record.ID, operatorID)
	return record, nil
}

// GetMeeting 拉取单个会议详情。
func (s *MeetingService) GetMeeting(xl *xlog.Logger, operatorID string, meetingID string) (*model.MeetingRecord, error) {
	if xl == nil {
		xl = s.xl
	}
	body, err := s.do(xl, operatorID, "GET", "/meetings/"+meetingID, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return parseMeeting(body), nil
}

// UpdateMeeting 部分更新已有会议，只下发非零字段。
func (s *MeetingService) UpdateMeeting(xl *xlog.Logger, operatorID string, meetingID string, spec model.MeetingSpec) error {
	if xl == nil {
		xl = s.xl
	}
	payload := map[string]interface{}{}
	if spec.Topic != "" {
		payload["topic"] = spec.Topic
	}
	if spec.Agenda != "" {
		payload["agenda"] = spec.Agenda
	}
	if spec.Date != "" || spec.StartAt != nil {
		startLocal, loc, err := normalizeStart(spec)
		if err != nil {
			xl.Infof("bad meeting start time err:%v", err)
			return &errors2.ServerError{Code: errors2.ServerErrorValidation, Summary: err.Error()}
		}
		payload["start_time"] = startLocal.Format(MeetingTimeLayout)
		payload["timezone"] = loc.String()
	}
	if spec.DurationMinute > 0 {
		payload["duration"] = spec.DurationMinute
	}
	if spec.Passcode != "" {
		payload["password"] = spec.Passcode
	}
	if spec.Settings != nil {
		payload["settings"] = map[string]interface{}{
			"host_video":        spec.Settings.HostVideo,
			"participant_video": spec.Settings.ParticipantVideo,
			"mute_upon_entry":   spec.Settings.MuteOnEntry,
			"waiting_room":      spec.Settings.WaitingRoom,
			"join_before_host":  spec.Settings.JoinBeforeHost,
			"auto_recording":    spec.Settings.AutoRecording,
		}
	}
	_, err := s.do(xl, operatorID, "PATCH", "/meetings/"+meetingID, payload, http.StatusNoContent)
	return err
}

// DeleteMeeting 删除会议，服务商侧已不存在时视为成功。
func (s *MeetingService) DeleteMeeting(xl *xlog.Logger, operatorID string, meetingID string) error {
	if xl == nil {
		xl = s.xl
	}
	_, err := s.do(xl, operatorID, "DELETE", "/meetings/"+meetingID, nil, http.StatusNoContent)
	if err != nil && errors2.Is(err, errors2.ServerErrorZoomNotFound) {
		xl.Infof("meeting %s already gone on provider side", meetingID)
		return nil
	}
	return err
}

// ListMeetings 列出操作者账号下的预约会议。
func (s *MeetingService) ListMeetings(xl *xlog.Logger, operatorID string) ([]*model.MeetingRecord, error) {
	if xl == nil {
		xl = s.xl
	}
	body, err := s.do(xl, operatorID, "GET", "/users/me/meetings?type=upcoming", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	records := make([]*model.MeetingRecord, 0)
	gjson.ParseBytes(body).Get("meetings").ForEach(func(_, item gjson.Result) bool {
		records = append(records, meetingFromResult(item))
		return true
	})
	return records, nil
}

// do 以操作者身份发起一次服务商API调用，状态码不符合预期时映射为业务错误。
func (s *MeetingService) do(xl *xlog.Logger, operatorID string, method string, path string, payload interface{}, wantStatus int) ([]byte, error) {
	accessToken, err := s.tokens.ValidAccessToken(xl, operatorID)
	if err != nil {
		return nil, err
	}
	var reqBody *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, s.conf.APIBaseURL+path, reqBody)
	if err != nil {
		xl.Errorf("error making meeting request err:%v", err)
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			xl.Errorf("meeting api timeout method:%s path:%s err:%v", method, path, err)
			return nil, &errors2.ServerError{Code: errors2.ServerErrorZoomTimeout, Summary: "meeting api timeout"}
		}
		xl.Errorf("error invoke meeting api method:%s path:%s err:%v", method, path, err)
		return nil, &errors2.ServerError{Code: errors2.ServerErrorZoomUpstream, Summary: err.Error()}
	}
	defer resp.Body.Close()
	body := readBody(resp)
	if resp.StatusCode != wantStatus {
		return nil, meetingAPIError(xl, resp.StatusCode, body)
	}
	return body, nil
}

// meetingAPIError 把服务商的HTTP状态码映射为业务错误，保留服务商返回的message。
func meetingAPIError(xl *xlog.Logger, status int, body []byte) *errors2.ServerError {
	message := gjson.ParseBytes(body).Get("message").String()
	xl.Errorf("meeting api status %d message %s", status, message)
	switch status {
	case http.StatusUnauthorized:
		return &errors2.ServerError{Code: errors2.ServerErrorZoomAuthExpired, Summary: message}
	case http.StatusBadRequest:
		return &errors2.ServerError{Code: errors2.ServerErrorZoomBadRequest, Summary: message}
	case http.StatusNotFound:
		return &errors2.ServerError{Code: errors2.ServerErrorZoomNotFound, Summary: message}
	default:
		return &errors2.ServerError{Code: errors2.ServerErrorZoomUpstream, Summary: fmt.Sprintf("status %d: %s", status, message)}
	}
}

// normalizeStart 把spec里的开始时间统一成带时区的本地时间。
// 给了StartAt绝对时刻就换算到Timezone展示；否则按Timezone解析Date+Time。
func normalizeStart(spec model.MeetingSpec) (time.Time, *time.Location, error) {
	tz := spec.Timezone
	if tz == "" {
		tz = "Asia/Manila"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("unknown timezone %q", tz)
	}
	if spec.StartAt != nil {
		return spec.StartAt.In(loc), loc, nil
	}
	startLocal, err := time.ParseInLocation("2006-01-02 15:04", spec.Date+" "+spec.Time, loc)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("bad date/time %q %q", spec.Date, spec.Time)
	}
	return startLocal, loc, nil
}

func parseMeeting(body []byte) *model.MeetingRecord {
	return meetingFromResult(gjson.ParseBytes(body))
}

func meetingFromResult(result gjson.Result) *model.MeetingRecord {
	record := &model.MeetingRecord{
		ID:             result.Get("id").String(),
		Topic:          result.Get("topic").String(),
		Timezone:       result.Get("timezone").String(),
		DurationMinute: int(result.Get("duration").Int()),
		JoinURL:        result.Get("join_url").String(),
		StartURL:       result.Get("start_url").String(),
		Passcode:       result.Get("password").String(),
		Status:         result.Get("status").String(),
	}
	if raw := result.Get("start_time").String(); raw != "" {
		if startsAt, err := time.Parse(time.RFC3339, raw); err == nil {
			record.StartsAt = startsAt
		}
	}
	return record
}

func readBody(resp *http.Response) []byte {
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	return body
}
