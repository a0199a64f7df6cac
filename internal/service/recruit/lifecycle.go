package recruit

import (
	"fmt"

	"github.com/qiniu/x/xlog"

	errors2 "github.com/Bleu24/ojt-crm-sub000/internal/protodef/errors"
	"github.com/Bleu24/ojt-crm-sub000/internal/protodef/form"
	"github.com/Bleu24/ojt-crm-sub000/internal/protodef/model"
	"github.com/Bleu24/ojt-crm-sub000/internal/service/cloud"
)

// RecruitStore 应聘者记录的读写。
type RecruitStore interface {
	GetRecruitByID(xl *xlog.Logger, recruitID string) (*model.RecruitDo, error)
	UpdateRecruit(xl *xlog.Logger, recruit *model.RecruitDo) error
}

// AccountStore 操作者账号的读取。
type AccountStore interface {
	GetAccountByID(xl *xlog.Logger, accountID string) (*model.AccountDo, error)
}

// MeetingProvider 会议服务商操作，由cloud.MeetingService实现。
type MeetingProvider interface {
	CreateMeeting(xl *xlog.Logger, operatorID string, spec model.MeetingSpec) (*model.MeetingRecord, error)
	UpdateMeeting(xl *xlog.Logger, operatorID string, meetingID string, spec model.MeetingSpec) error
	DeleteMeeting(xl *xlog.Logger, operatorID string, meetingID string) error
	GetMeeting(xl *xlog.Logger, operatorID string, meetingID string) (*model.MeetingRecord, error)
}

// InvitationSender 面试邀请邮件发送，由cloud.MailService实现。
type InvitationSender interface {
	SendInterviewInvitation(xl *xlog.Logger, recipient string, recipientName string, meeting *model.MeetingRecord, senderName string, phaseLabel string) (*cloud.DeliveryReceipt, error)
}

// Lifecycle 招聘流程状态机。负责鉴权、前置校验、阶段流转，
// 并在安排面试时按需编排会议创建与邀请邮件。
//
// 失败语义：鉴权与校验失败发生在任何写入之前，整个操作失败；
// 一旦进入阶段流转，会议创建失败不回滚流转本身，只在返回体里上报；
// 邮件失败同样只上报，不回滚会议和流转。
type Lifecycle struct {
	recruits RecruitStore
	accounts AccountStore
	meetings MeetingProvider
	mail     InvitationSender
	gate     *AuthorizationGate
	xl       *xlog.Logger
}

func NewLifecycle(recruits RecruitStore, accounts AccountStore, meetings MeetingProvider, mail InvitationSender, xl *xlog.Logger) *Lifecycle {
	if xl == nil {
		xl = xlog.New("ojt-crm-recruit-lifecycle")
	}
	return &Lifecycle{
		recruits: recruits,
		accounts: accounts,
		meetings: meetings,
		mail:     mail,
		gate:     NewAuthorizationGate(),
		xl:       xl,
	}
}

// ScheduleInitial 安排初面。初面已完成后不允许再安排。
func (l *Lifecycle) ScheduleInitial(xl *xlog.Logger, operator *model.AccountDo, recruitID string, scheduleForm *form.ScheduleInterviewForm) (*model.ScheduleInterviewResponse, error) {
	if xl == nil {
		xl = l.xl
	}
	recruit, err := l.recruits.GetRecruitByID(xl, recruitID)
	if err != nil {
		return nil, err
	}
	if err := l.gate.Check(operator, TransitionScheduleInitial, recruit); err != nil {
		return nil, err
	}
	if recruit.InitialInterview.Completed() {
		return nil, &errors2.ServerError{Code: errors2.ServerErrorValidation, Summary: "initial interview already completed"}
	}
	return l.scheduleSlot(xl, operator, recruit, model.PhaseInitial, scheduleForm)
}

// ScheduleFinal 安排终面。要求初面已通过且终面未完成，只有被指定的单位主管可以操作。
func (l *Lifecycle) ScheduleFinal(xl *xlog.Logger, operator *model.AccountDo, recruitID string, scheduleForm *form.ScheduleInterviewForm) (*model.ScheduleInterviewResponse, error) {
	if xl == nil {
		xl = l.xl
	}
	recruit, err := l.recruits.GetRecruitByID(xl, recruitID)
	if err != nil {
		return nil, err
	}
	if err := l.gate.Check(operator, TransitionScheduleFinal, recruit); err != nil {
		return nil, err
	}
	if recruit.Stage() != model.StagePendingFinalInterview {
		return nil, &errors2.ServerError{
			Code:    errors2.ServerErrorValidation,
			Summary: fmt.Sprintf("recruit at stage %s, final interview may only be scheduled at stage %s", recruit.Stage(), model.StagePendingFinalInterview),
		}
	}
	return l.scheduleSlot(xl, operator, recruit, model.PhaseFinal, scheduleForm)
}

// scheduleSlot 落槽位字段并按需创建/更新/取消会议。槽位字段先行确定，
// 会议与邮件的结果只影响返回体，不影响落库。
func (l *Lifecycle) scheduleSlot(xl *xlog.Logger, operator *model.AccountDo, recruit *model.RecruitDo, phase model.InterviewPhase, scheduleForm *form.ScheduleInterviewForm) (*model.ScheduleInterviewResponse, error) {
	slot := recruit.Slot(phase)
	slot.Status = model.SlotScheduled
	slot.Date = scheduleForm.InterviewDate
	slot.Time = scheduleForm.InterviewTime
	slot.Timezone = scheduleForm.Timezone
	slot.Interviewer = scheduleForm.InterviewerID
	slot.Notes = scheduleForm.InterviewNotes

	meetingOutcome := model.MeetingOutcomeResponse{Requested: scheduleForm.CreateMeeting}
	emailOutcome := model.EmailOutcomeResponse{}
	var createdMeeting *model.MeetingRecord

	if scheduleForm.CreateMeeting {
		createdMeeting = l.ensureMeeting(xl, operator, recruit, slot, phase, scheduleForm, &meetingOutcome)
	} else if slot.Meeting != nil {
		// 不再需要线上会议时取消服务商侧的会议并清掉槽位上的引用。
		if err := l.meetings.DeleteMeeting(xl, operator.ID, slot.Meeting.MeetingID); err != nil {
			xl.Errorf("error cancel meeting %s err:%v", slot.Meeting.MeetingID, err)
		}
		slot.Meeting = nil
	}

	recruit.Updator = operator.ID
	if err := l.recruits.UpdateRecruit(xl, recruit); err != nil {
		return nil, err
	}
	xl.Infof("scheduled %s interview for recruit %s on %s %s", phase, recruit.ID, slot.Date, slot.Time)

	if createdMeeting != nil && recruit.Email != "" {
		receipt, err := l.mail.SendInterviewInvitation(xl, recruit.Email, recruit.Name, createdMeeting, operator.Nickname, phaseLabel(phase))
		if err != nil {
			emailOutcome.Error = errorSummary(err)
			xl.Errorf("invitation email failed for recruit %s err:%v", recruit.ID, err)
		} else {
			emailOutcome.Sent = true
			emailOutcome.MessageID = receipt.MessageID
		}
	}

	return &model.ScheduleInterviewResponse{
		Recruit: model.MakeRecruitResponse(recruit),
		Meeting: meetingOutcome,
		Email:   emailOutcome,
	}, nil
}

// ensureMeeting 槽位上已有会议则改期，否则新建。失败只写入outcome。
func (l *Lifecycle) ensureMeeting(xl *xlog.Logger, operator *model.AccountDo, recruit *model.RecruitDo, slot *model.InterviewSlotDo, phase model.InterviewPhase, scheduleForm *form.ScheduleInterviewForm, outcome *model.MeetingOutcomeResponse) *model.MeetingRecord {
	spec := model.MeetingSpec{
		Topic:    fmt.Sprintf("%s - %s", phaseLabel(phase), recruit.Name),
		Date:     scheduleForm.InterviewDate,
		Time:     scheduleForm.InterviewTime,
		Timezone: scheduleForm.Timezone,
		Agenda:   scheduleForm.InterviewNotes,
	}
	if slot.Meeting != nil {
		if err := l.meetings.UpdateMeeting(xl, operator.ID, slot.Meeting.MeetingID, spec); err != nil {
			outcome.Error = errorSummary(err)
			outcome.RequiresReauthorization = requiresReauthorization(err)
			xl.Errorf("error reschedule meeting %s err:%v", slot.Meeting.MeetingID, err)
			return nil
		}
		record, err := l.meetings.GetMeeting(xl, operator.ID, slot.Meeting.MeetingID)
		if err != nil {
			outcome.Error = errorSummary(err)
			outcome.RequiresReauthorization = requiresReauthorization(err)
			return nil
		}
		outcome.Created = true
		outcome.Meeting = record
		slot.Meeting = record.Ref()
		return record
	}
	record, err := l.meetings.CreateMeeting(xl, operator.ID, spec)
	if err != nil {
		outcome.Error = errorSummary(err)
		outcome.RequiresReauthorization = requiresReauthorization(err)
		xl.Errorf("error create meeting for recruit %s err:%v", recruit.ID, err)
		return nil
	}
	outcome.Created = true
	outcome.Meeting = record
	slot.Meeting = record.Ref()
	return record
}

// CancelMeeting 取消某个阶段槽位上的线上会议，面试安排本身保留。
// 取消权限与安排该阶段面试的权限相同。
func (l *Lifecycle) CancelMeeting(xl *xlog.Logger, operator *model.AccountDo, recruitID string, phase model.InterviewPhase) (*model.RecruitResponse, error) {
	if xl == nil {
		xl = l.xl
	}
	recruit, err := l.recruits.GetRecruitByID(xl, recruitID)
	if err != nil {
		return nil, err
	}
	transition := TransitionScheduleInitial
	if phase == model.PhaseFinal {
		transition = TransitionScheduleFinal
	}
	if err := l.gate.Check(operator, transition, recruit); err != nil {
		return nil, err
	}
	slot := recruit.Slot(phase)
	if slot.Meeting == nil {
		return nil, &errors2.ServerError{Code: errors2.ServerErrorValidation, Summary: fmt.Sprintf("no meeting on the %s interview", phase)}
	}
	if err := l.meetings.DeleteMeeting(xl, operator.ID, slot.Meeting.MeetingID); err != nil {
		return nil, err
	}
	slot.Meeting = nil
	recruit.Updator = operator.ID
	if err := l.recruits.UpdateRecruit(xl, recruit); err != nil {
		return nil, err
	}
	xl.Infof("meeting on %s interview of recruit %s cancelled", phase, recruit.ID)
	response := model.MakeRecruitResponse(recruit)
	return &response, nil
}

// CompleteInitial 完成初面。通过时必须指定持有单位主管角色的终面负责人，
// 指定的人不合格时整个操作失败，不写任何状态。
func (l *Lifecycle) CompleteInitial(xl *xlog.Logger, operator *model.AccountDo, recruitID string, completeForm *form.CompleteInitialForm) (*model.RecruitResponse, error) {
	if xl == nil {
		xl = l.xl
	}
	recruit, err := l.recruits.GetRecruitByID(xl, recruitID)
	if err != nil {
		return nil, err
	}
	if err := l.gate.Check(operator, TransitionCompleteInitial, recruit); err != nil {
		return nil, err
	}
	if recruit.InitialInterview.Status != model.SlotScheduled {
		return nil, &errors2.ServerError{Code: errors2.ServerErrorValidation, Summary: "initial interview not scheduled or already completed"}
	}

	if completeForm.Passed {
		assignee, err := l.accounts.GetAccountByID(xl, completeForm.FinalInterviewAssignedTo)
		if err != nil {
			return nil, &errors2.ServerError{
				Code:    errors2.ServerErrorValidation,
				Summary: fmt.Sprintf("final interview assignee %s not found", completeForm.FinalInterviewAssignedTo),
			}
		}
		if assignee.Role != model.RoleUnitManager {
			return nil, &errors2.ServerError{
				Code:    errors2.ServerErrorValidation,
				Summary: fmt.Sprintf("final interview assignee %s holds role %s, unit manager required", assignee.ID, assignee.Role),
			}
		}
		recruit.FinalInterviewAssignedTo = assignee.ID
		recruit.InitialInterview.Outcome = model.OutcomePassed
	} else {
		recruit.InitialInterview.Outcome = model.OutcomeFailed
	}
	recruit.InitialInterview.Status = model.SlotCompleted
	if completeForm.Notes != "" {
		recruit.InitialInterview.Notes = completeForm.Notes
	}
	recruit.Updator = operator.ID
	if err := l.recruits.UpdateRecruit(xl, recruit); err != nil {
		return nil, err
	}
	xl.Infof("initial interview of recruit %s completed, outcome %s", recruit.ID, recruit.InitialInterview.Outcome)
	response := model.MakeRecruitResponse(recruit)
	return &response, nil
}

// CompleteFinal 完成终面，结论为hired或rejected，此后流程终止。
func (l *Lifecycle) CompleteFinal(xl *xlog.Logger, operator *model.AccountDo, recruitID string, completeForm *form.CompleteFinalForm) (*model.RecruitResponse, error) {
	if xl == nil {
		xl = l.xl
	}
	recruit, err := l.recruits.GetRecruitByID(xl, recruitID)
	if err != nil {
		return nil, err
	}
	if err := l.gate.Check(operator, TransitionCompleteFinal, recruit); err != nil {
		return nil, err
	}
	if recruit.FinalInterview.Status != model.SlotScheduled {
		return nil, &errors2.ServerError{Code: errors2.ServerErrorValidation, Summary: "final interview not scheduled or already completed"}
	}
	recruit.FinalInterview.Status = model.SlotCompleted
	recruit.FinalInterview.Outcome = model.InterviewOutcome(completeForm.Decision)
	if completeForm.Notes != "" {
		recruit.FinalInterview.Notes = completeForm.Notes
	}
	recruit.Updator = operator.ID
	if err := l.recruits.UpdateRecruit(xl, recruit); err != nil {
		return nil, err
	}
	xl.Infof("final interview of recruit %s completed, stage %s", recruit.ID, recruit.Stage())
	response := model.MakeRecruitResponse(recruit)
	return &response, nil
}

// Assign 转移应聘者归属，不受面试阶段限制。
func (l *Lifecycle) Assign(xl *xlog.Logger, operator *model.AccountDo, recruitID string, newOwnerID string) (*model.RecruitResponse, error) {
	if xl == nil {
		xl = l.xl
	}
	recruit, err := l.recruits.GetRecruitByID(xl, recruitID)
	if err != nil {
		return nil, err
	}
	if err := l.gate.Check(operator, TransitionAssign, recruit); err != nil {
		return nil, err
	}
	newOwner, err := l.accounts.GetAccountByID(xl, newOwnerID)
	if err != nil {
		return nil, &errors2.ServerError{
			Code:    errors2.ServerErrorValidation,
			Summary: fmt.Sprintf("new owner %s not found", newOwnerID),
		}
	}
	recruit.AssignedTo = newOwner.ID
	recruit.Updator = operator.ID
	if err := l.recruits.UpdateRecruit(xl, recruit); err != nil {
		return nil, err
	}
	xl.Infof("recruit %s assigned to %s", recruit.ID, newOwner.ID)
	response := model.MakeRecruitResponse(recruit)
	return &response, nil
}

func phaseLabel(phase model.InterviewPhase) string {
	if phase == model.PhaseFinal {
		return "Final Interview"
	}
	return "Initial Interview"
}

// requiresReauthorization 操作者需要重新完成会议授权才可能成功的错误。
func requiresReauthorization(err error) bool {
	return errors2.Is(err, errors2.ServerErrorZoomNotConnected) || errors2.Is(err, errors2.ServerErrorZoomAuthExpired)
}

func errorSummary(err error) string {
	if serverErr, ok := err.(*errors2.ServerError); ok && serverErr.Summary != "" {
		return serverErr.Summary
	}
	return err.Error()
}
