package model

import "time"

// MeetingSettings 创建会议时的显式配置项，不再接受任意键值透传。
type MeetingSettings struct {
	HostVideo        bool   `json:"hostVideo"`
	ParticipantVideo bool   `json:"participantVideo"`
	MuteOnEntry      bool   `json:"muteOnEntry"`
	WaitingRoom      bool   `json:"waitingRoom"`
	JoinBeforeHost   bool   `json:"joinBeforeHost"`
	AutoRecording    string `json:"autoRecording"`
}

// DefaultMeetingSettings 面试会议的默认配置。
func DefaultMeetingSettings() MeetingSettings {
	return MeetingSettings{
		HostVideo:        true,
		ParticipantVideo: true,
		MuteOnEntry:      false,
		WaitingRoom:      true,
		JoinBeforeHost:   false,
		AutoRecording:    "none",
	}
}

// MeetingSpec 创建/更新会议的参数。开始时间二选一：
// 要么给 Date+Time+Timezone（墙上时间），要么给 StartAt（绝对时刻）。
type MeetingSpec struct {
	Topic string `json:"topic"`
	// Date 会议日期，2006-01-02。
	Date string `json:"date,omitempty"`
	// Time 会议时间，15:04。
	Time string `json:"time,omitempty"`
	// Timezone IANA时区名，如 Asia/Manila。
	Timezone string `json:"timezone,omitempty"`
	// StartAt 绝对开始时刻，与 Date/Time 互斥。
	StartAt *time.Time `json:"startAt,omitempty"`
	// DurationMinute 会议时长，分钟。
	DurationMinute int              `json:"duration"`
	Passcode       string           `json:"passcode,omitempty"`
	Agenda         string           `json:"agenda,omitempty"`
	Settings       *MeetingSettings `json:"settings,omitempty"`
}

// MeetingRecord 服务商返回的会议资源。
type MeetingRecord struct {
	ID       string    `json:"id"`
	Topic    string    `json:"topic"`
	StartsAt time.Time `json:"startsAt"`
	// Timezone 会议的时区，邀请邮件按该时区渲染时间。
	Timezone       string `json:"timezone"`
	DurationMinute int    `json:"duration"`
	JoinURL        string `json:"joinUrl"`
	StartURL       string `json:"startUrl"`
	Passcode       string `json:"passcode"`
	Status         string `json:"status"`
}

// Ref 提取需要落到面试槽位上的字段。
func (m MeetingRecord) Ref() *MeetingRefDo {
	return &MeetingRefDo{
		MeetingID: m.ID,
		JoinURL:   m.JoinURL,
		StartURL:  m.StartURL,
		Passcode:  m.Passcode,
	}
}
