package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"

	"github.com/Bleu24/ojt-crm-sub000/internal/common/utils"
	"github.com/Bleu24/ojt-crm-sub000/internal/protodef/form"
	model "github.com/Bleu24/ojt-crm-sub000/internal/protodef/model"
	"github.com/Bleu24/ojt-crm-sub000/internal/service/cloud"
	"github.com/Bleu24/ojt-crm-sub000/internal/service/db"
	"github.com/Bleu24/ojt-crm-sub000/internal/service/recruit"
)

// RecruitInterface 应聘者记录的存储操作。
type RecruitInterface interface {
	CreateRecruit(xl *xlog.Logger, recruit *model.RecruitDo) (*model.RecruitDo, error)

	GetRecruitByID(xl *xlog.Logger, recruitID string) (*model.RecruitDo, error)

	UpdateRecruit(xl *xlog.Logger, recruit *model.RecruitDo) error

	ListRecruitsByPage(xl *xlog.Logger, userID string, pageNum int, pageSize int) ([]model.RecruitDo, int, error)
}

type RecruitApiHandler struct {
	Recruit   RecruitInterface
	Lifecycle *recruit.Lifecycle
}

func NewRecruitApiHandler(conf utils.Config, oauthService *cloud.ZoomOAuthService) *RecruitApiHandler {
	recruitService, err := db.NewRecruitService(*conf.Mongo, nil)
	if err != nil {
		panic(err)
	}
	accountService, err := db.NewAccountService(conf, nil)
	if err != nil {
		panic(err)
	}
	meetingService := cloud.NewMeetingService(conf, oauthService, nil)
	mailService := cloud.NewMailService(conf, nil)
	lifecycle := recruit.NewLifecycle(recruitService, accountService, meetingService, mailService, nil)
	return &RecruitApiHandler{
		Recruit:   recruitService,
		Lifecycle: lifecycle,
	}
}

// CreateRecruit 录入一位应聘者，初始归属于录入者。
func (h *RecruitApiHandler) CreateRecruit(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	userID := c.GetString(model.UserIDContextKey)
	args := &form.RecruitCreateForm{}
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
	recruitDo := &model.RecruitDo{
		ID:         utils.GenerateID(),
		Name:       args.Name,
		Email:      args.Email,
		Phone:      args.Phone,
		Address:    args.Address,
		Education:  args.Education,
		AssignedTo: userID,
		Creator:    userID,
		Updator:    userID,
	}
	created, err := h.Recruit.CreateRecruit(xl, recruitDo)
	if err != nil {
		sendServerError(c, requestID, err)
		return
	}
	model.NewSuccessResponse(model.UpsertRecruitResponse{ID: created.ID}).WithRequestID(requestID).Send(c)
}

// GetRecruit 应聘者详情。
func (h *RecruitApiHandler) GetRecruit(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	recruitID := c.Param("recruitId")
	recruitDo, err := h.Recruit.GetRecruitByID(xl, recruitID)
	if err != nil {
		xl.Infof("recruit %s not found, error %v", recruitID, err)
		sendServerError(c, requestID, err)
		return
	}
	model.NewSuccessResponse(model.MakeRecruitResponse(recruitDo)).WithRequestID(requestID).Send(c)
}

// ListRecruits 分页列出与当前操作者相关的应聘者。
func (h *RecruitApiHandler) ListRecruits(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	userID := c.GetString(model.UserIDContextKey)
	pageNum := c.GetInt(model.PageNumContextKey)
	pageSize := c.GetInt(model.PageSizeContextKey)

	recruits, total, err := h.Recruit.ListRecruitsByPage(xl, userID, pageNum, pageSize)
	if err != nil {
		xl.Errorf("failed to list recruits of user %s, error %v", userID, err)
		sendServerError(c, requestID, err)
		return
	}
	list := make([]model.RecruitResponse, 0, len(recruits))
	for i := range recruits {
		list = append(list, model.MakeRecruitResponse(&recruits[i]))
	}
	endPage := pageNum*pageSize >= total
	nextPageNum := pageNum + 1
	if endPage {
		nextPageNum = pageNum
	}
	resp := model.RecruitListResponse{
		Total:          total,
		Cnt:            len(list),
		CurrentPageNum: pageNum,
		NextPageNum:    nextPageNum,
		PageSize:       pageSize,
		EndPage:        endPage,
		List:           list,
	}
	model.NewSuccessResponse(resp).WithRequestID(requestID).Send(c)
}

// operator 从gin context里取当前操作者。
func operator(c *gin.Context) *model.AccountDo {
	val, ok := c.Get(model.UserContextKey)
	if !ok {
		return nil
	}
	user, ok := val.(model.AccountDo)
	if !ok {
		return nil
	}
	return &user
}

// bindScheduleForm 解析并校验安排面试的参数。
func bindScheduleForm(c *gin.Context, xl *xlog.Logger, requestID string) *form.ScheduleInterviewForm {
	args := &form.ScheduleInterviewForm{}
	err := c.Bind(args)
	if err != nil {
		xl.Infof("invalid args in body, error %v", err)
		responseErr := model.NewResponseErrorBadRequest()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		return nil
	}
	args.FillDefault()
	if err := args.Validate(); err != nil {
		xl.Infof("form validation error: %v", err)
		responseErr := model.NewResponseErrorValidation(err)
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return nil
	}
	return args
}

// ScheduleInitialInterview 安排初面。
func (h *RecruitApiHandler) ScheduleInitialInterview(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	args := bindScheduleForm(c, xl, requestID)
	if args == nil {
		return
	}
	resp, err := h.Lifecycle.ScheduleInitial(xl, operator(c), c.Param("recruitId"), args)
	if err != nil {
		sendServerError(c, requestID, err)
		return
	}
	model.NewSuccessResponse(resp).WithRequestID(requestID).Send(c)
}

// ScheduleFinalInterview 安排终面。
func (h *RecruitApiHandler) ScheduleFinalInterview(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	args := bindScheduleForm(c, xl, requestID)
	if args == nil {
		return
	}
	resp, err := h.Lifecycle.ScheduleFinal(xl, operator(c), c.Param("recruitId"), args)
	if err != nil {
		sendServerError(c, requestID, err)
		return
	}
	model.NewSuccessResponse(resp).WithRequestID(requestID).Send(c)
}

// CompleteInitialInterview 录入初面结论。
func (h *RecruitApiHandler) CompleteInitialInterview(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	args := &form.CompleteInitialForm{}
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
	resp, err := h.Lifecycle.CompleteInitial(xl, operator(c), c.Param("recruitId"), args)
	if err != nil {
		sendServerError(c, requestID, err)
		return
	}
	model.NewSuccessResponse(resp).WithRequestID(requestID).Send(c)
}

// CompleteFinalInterview 录入终面结论，hired或rejected。
func (h *RecruitApiHandler) CompleteFinalInterview(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	args := &form.CompleteFinalForm{}
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
	resp, err := h.Lifecycle.CompleteFinal(xl, operator(c), c.Param("recruitId"), args)
	if err != nil {
		sendServerError(c, requestID, err)
		return
	}
	model.NewSuccessResponse(resp).WithRequestID(requestID).Send(c)
}

// CancelInterviewMeeting 取消某阶段的线上会议，阶段须为initial或final。
func (h *RecruitApiHandler) CancelInterviewMeeting(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	phase := model.InterviewPhase(c.Param("phase"))
	if phase != model.PhaseInitial && phase != model.PhaseFinal {
		xl.Infof("bad interview phase %s", phase)
		responseErr := model.NewResponseErrorBadRequest()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}
	resp, err := h.Lifecycle.CancelMeeting(xl, operator(c), c.Param("recruitId"), phase)
	if err != nil {
		sendServerError(c, requestID, err)
		return
	}
	model.NewSuccessResponse(resp).WithRequestID(requestID).Send(c)
}

// AssignRecruit 转移应聘者归属。
func (h *RecruitApiHandler) AssignRecruit(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	args := &form.AssignForm{}
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
	resp, err := h.Lifecycle.Assign(xl, operator(c), c.Param("recruitId"), args.AssignedTo)
	if err != nil {
		sendServerError(c, requestID, err)
		return
	}
	model.NewSuccessResponse(resp).WithRequestID(requestID).Send(c)
}
