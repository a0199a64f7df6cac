package form

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/Bleu24/ojt-crm-sub000/internal/protodef/model"
)

const (
	ErrDateMsg     = "日期格式应为2006-01-02"
	ErrTimeMsg     = "时间格式应为15:04"
	ErrNameLongMsg = "姓名过长"
)

var (
	// ErrFinalAssigneeRequired 初面通过时必须指定终面负责人。
	ErrFinalAssigneeRequired = fmt.Errorf("初面通过时必须指定终面负责的单位主管")
)

type RecruitCreateForm struct {
	Name      string `json:"name" form:"name"`
	Email     string `json:"email" form:"email"`
	Phone     string `json:"phone" form:"phone"`
	Address   string `json:"address" form:"address"`
	Education string `json:"education" form:"education"`
}

func (i *RecruitCreateForm) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.Name, validation.Required, validation.Length(0, 100).Error(ErrNameLongMsg)),
		validation.Field(&i.Email, validation.Required, is.Email.Error(ErrEmailFormatMsg)),
	)
	return err
}

// ScheduleInterviewForm 安排初面/终面的参数。
type ScheduleInterviewForm struct {
	// InterviewDate 面试日期，2006-01-02。
	InterviewDate string `json:"interviewDate" form:"interviewDate"`
	// InterviewTime 面试时间，15:04。
	InterviewTime string `json:"interviewTime" form:"interviewTime"`
	// Timezone 面试时间所在的IANA时区，缺省使用Asia/Manila。
	Timezone       string `json:"timezone" form:"timezone"`
	InterviewerID  string `json:"interviewerId" form:"interviewerId"`
	InterviewNotes string `json:"interviewNotes" form:"interviewNotes"`
	// CreateMeeting 是否同时创建线上会议。
	CreateMeeting bool `json:"createMeeting" form:"createMeeting"`
}

func (i *ScheduleInterviewForm) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.InterviewDate, validation.Required, validation.Date("2006-01-02").Error(ErrDateMsg)),
		validation.Field(&i.InterviewTime, validation.Required, validation.Date("15:04").Error(ErrTimeMsg)),
		validation.Field(&i.InterviewerID, validation.Required),
	)
	return err
}

// FillDefault 填充缺省时区。
func (i *ScheduleInterviewForm) FillDefault() {
	if i.Timezone == "" {
		i.Timezone = "Asia/Manila"
	}
}

// CompleteInitialForm 完成初面的参数。
type CompleteInitialForm struct {
	Notes  string `json:"notes" form:"notes"`
	Passed bool   `json:"passed" form:"passed"`
	// FinalInterviewAssignedTo 初面通过时指定的终面负责人，必须是单位主管角色。
	FinalInterviewAssignedTo string `json:"finalInterviewAssignedTo" form:"finalInterviewAssignedTo"`
}

func (i *CompleteInitialForm) Validate() error {
	if i.Passed && i.FinalInterviewAssignedTo == "" {
		return ErrFinalAssigneeRequired
	}
	return nil
}

// CompleteFinalForm 完成终面的参数，decision二选一。
type CompleteFinalForm struct {
	Notes    string `json:"notes" form:"notes"`
	Decision string `json:"decision" form:"decision"`
}

func (i *CompleteFinalForm) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.Decision, validation.Required, validation.In(
			string(model.OutcomeHired),
			string(model.OutcomeRejected),
		)),
	)
	return err
}

// AssignForm 转移应聘者归属。
type AssignForm struct {
	AssignedTo string `json:"assignedTo" form:"assignedTo"`
}

func (i *AssignForm) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.AssignedTo, validation.Required),
	)
}

// MeetingUpdateForm 直接更新某个会议的参数。
type MeetingUpdateForm struct {
	Topic          string `json:"topic" form:"topic"`
	Date           string `json:"date" form:"date"`
	Time           string `json:"time" form:"time"`
	Timezone       string `json:"timezone" form:"timezone"`
	DurationMinute int    `json:"duration" form:"duration"`
	Agenda         string `json:"agenda" form:"agenda"`
}

func (i *MeetingUpdateForm) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.Date, validation.Date("2006-01-02").Error(ErrDateMsg)),
		validation.Field(&i.Time, validation.Date("15:04").Error(ErrTimeMsg)),
		validation.Field(&i.DurationMinute, validation.Min(0)),
	)
	return err
}
