package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"

	"github.com/Bleu24/ojt-crm-sub000/internal/common/utils"
	"github.com/Bleu24/ojt-crm-sub000/internal/protodef/form"
	model "github.com/Bleu24/ojt-crm-sub000/internal/protodef/model"
	"github.com/Bleu24/ojt-crm-sub000/internal/service/cloud"
)

// MeetingApiHandler 会议资源的直接管理入口，全部以当前操作者身份访问服务商。
type MeetingApiHandler struct {
	Meeting *cloud.MeetingService
}

func NewMeetingApiHandler(conf utils.Config, oauthService *cloud.ZoomOAuthService) *MeetingApiHandler {
	return &MeetingApiHandler{
		Meeting: cloud.NewMeetingService(conf, oauthService, nil),
	}
}

// ListMeetings 列出当前操作者的预约会议。
func (h *MeetingApiHandler) ListMeetings(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	userID := c.GetString(model.UserIDContextKey)
	meetings, err := h.Meeting.ListMeetings(xl, userID)
	if err != nil {
		sendServerError(c, requestID, err)
		return
	}
	model.NewSuccessResponse(meetings).WithRequestID(requestID).Send(c)
}

// GetMeeting 会议详情。
func (h *MeetingApiHandler) GetMeeting(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	userID := c.GetString(model.UserIDContextKey)
	meeting, err := h.Meeting.GetMeeting(xl, userID, c.Param("meetingId"))
	if err != nil {
		sendServerError(c, requestID, err)
		return
	}
	model.NewSuccessResponse(meeting).WithRequestID(requestID).Send(c)
}

// UpdateMeeting 更新会议的时间、主题等字段。
func (h *MeetingApiHandler) UpdateMeeting(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	userID := c.GetString(model.UserIDContextKey)
	meetingID := c.Param("meetingId")
	args := &form.MeetingUpdateForm{}
	err := c.Bind(args)
	if err != nil {
		xl.Infof("invalid args in body, error %v", err)
		responseErr := model.NewResponseErrorBadRequest()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		return
	}
	if err := args.Validate(); err != nil {
		xl.Infof("form validation error: %v", err)
		responseErr := model.NewResponseErrorValidation(err)
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}
	spec := model.MeetingSpec{
		Topic:          args.Topic,
		Date:           args.Date,
		Time:           args.Time,
		Timezone:       args.Timezone,
		DurationMinute: args.DurationMinute,
		Agenda:         args.Agenda,
	}
	if err := h.Meeting.UpdateMeeting(xl, userID, meetingID, spec); err != nil {
		sendServerError(c, requestID, err)
		return
	}
	meeting, err := h.Meeting.GetMeeting(xl, userID, meetingID)
	if err != nil {
		sendServerError(c, requestID, err)
		return
	}
	model.NewSuccessResponse(meeting).WithRequestID(requestID).Send(c)
}

// DeleteMeeting 取消会议。
func (h *MeetingApiHandler) DeleteMeeting(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	userID := c.GetString(model.UserIDContextKey)
	if err := h.Meeting.DeleteMeeting(xl, userID, c.Param("meetingId")); err != nil {
		sendServerError(c, requestID, err)
		return
	}
	model.NewSuccessResponse(nil).WithRequestID(requestID).Send(c)
}
