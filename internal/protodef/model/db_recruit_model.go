package model

import "time"

// RecruitStage 招聘流程对外展示的阶段，由两个面试槽位的状态推导得出。
type RecruitStage string

const (
	StageApplied               RecruitStage = "applied"
	StagePending               RecruitStage = "pending"
	StagePendingFinalInterview RecruitStage = "pendingFinalInterview"
	StageHired                 RecruitStage = "hired"
	StageRejected              RecruitStage = "rejected"
)

// InterviewPhase 面试阶段名。
type InterviewPhase string

const (
	PhaseInitial InterviewPhase = "initial"
	PhaseFinal   InterviewPhase = "final"
)

// InterviewSlotStatus 单个面试槽位的状态。
type InterviewSlotStatus string

const (
	SlotNotStarted InterviewSlotStatus = "notStarted"
	SlotScheduled  InterviewSlotStatus = "scheduled"
	SlotCompleted  InterviewSlotStatus = "completed"
)

// InterviewOutcome 面试结论。初面为 passed/failed，终面为 hired/rejected。
type InterviewOutcome string

const (
	OutcomePassed   InterviewOutcome = "passed"
	OutcomeFailed   InterviewOutcome = "failed"
	OutcomeHired    InterviewOutcome = "hired"
	OutcomeRejected InterviewOutcome = "rejected"
)

// MeetingRefDo 面试槽位上保存的会议标识信息，来源于服务商返回的会议资源。
type MeetingRefDo struct {
	MeetingID string `json:"meetingId" bson:"meetingId"`
	JoinURL   string `json:"joinUrl" bson:"joinUrl"`
	StartURL  string `json:"startUrl,omitempty" bson:"startUrl,omitempty"`
	Passcode  string `json:"passcode,omitempty" bson:"passcode,omitempty"`
}

// InterviewSlotDo 一个面试槽位（初面或终面）。
// 状态是带标签的变体：notStarted 时其余字段为空；scheduled 之后时间与面试官有值；
// completed 之后 Outcome 必定有值。
type InterviewSlotDo struct {
	Status  InterviewSlotStatus `json:"status" bson:"status"`
	Outcome InterviewOutcome    `json:"outcome,omitempty" bson:"outcome,omitempty"`
	// Date 面试日期，2006-01-02。
	Date string `json:"date,omitempty" bson:"date,omitempty"`
	// Time 面试时间，15:04。
	Time string `json:"time,omitempty" bson:"time,omitempty"`
	// Timezone 面试时间所在时区（IANA名称）。
	Timezone    string `json:"timezone,omitempty" bson:"timezone,omitempty"`
	Interviewer string `json:"interviewer,omitempty" bson:"interviewer,omitempty"`
	Notes       string `json:"notes,omitempty" bson:"notes,omitempty"`
	// Meeting 若安排时创建了线上会议，记录会议信息；取消会议后清空。
	Meeting *MeetingRefDo `json:"meeting,omitempty" bson:"meeting,omitempty"`
}

func (s InterviewSlotDo) Scheduled() bool {
	return s.Status == SlotScheduled || s.Status == SlotCompleted
}

func (s InterviewSlotDo) Completed() bool {
	return s.Status == SlotCompleted
}

// RecruitDo 应聘者记录。
type RecruitDo struct {
	ID string `json:"id" bson:"_id"`
	// 基本信息。
	Name      string `json:"name" bson:"name"`
	Email     string `json:"email" bson:"email"`
	Phone     string `json:"phone,omitempty" bson:"phone,omitempty"`
	Address   string `json:"address,omitempty" bson:"address,omitempty"`
	Education string `json:"education,omitempty" bson:"education,omitempty"`
	// AssignedTo 当前归属的操作者。
	AssignedTo string `json:"assignedTo" bson:"assignedTo"`
	// FinalInterviewAssignedTo 被指定负责终面的单位主管，初面通过时设置。
	FinalInterviewAssignedTo string `json:"finalInterviewAssignedTo,omitempty" bson:"finalInterviewAssignedTo,omitempty"`

	InitialInterview InterviewSlotDo `json:"initialInterview" bson:"initialInterview"`
	FinalInterview   InterviewSlotDo `json:"finalInterview" bson:"finalInterview"`

	CreateTime time.Time `json:"createTime" bson:"createTime"`
	UpdateTime time.Time `json:"updateTime" bson:"updateTime"`
	Creator    string    `json:"creator" bson:"creator"`
	Updator    string    `json:"updator" bson:"updator"`
}

// Stage 按两个槽位的状态推导当前阶段。终面未完成时不可能出现 hired。
func (r RecruitDo) Stage() RecruitStage {
	if r.FinalInterview.Completed() {
		if r.FinalInterview.Outcome == OutcomeHired {
			return StageHired
		}
		return StageRejected
	}
	if r.InitialInterview.Completed() {
		if r.InitialInterview.Outcome == OutcomeFailed {
			return StageRejected
		}
		return StagePendingFinalInterview
	}
	if r.InitialInterview.Scheduled() {
		return StagePending
	}
	return StageApplied
}

// Slot 返回指定阶段的槽位。
func (r *RecruitDo) Slot(phase InterviewPhase) *InterviewSlotDo {
	if phase == PhaseFinal {
		return &r.FinalInterview
	}
	return &r.InitialInterview
}
