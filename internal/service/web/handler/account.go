package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"

	"github.com/Bleu24/ojt-crm-sub000/internal/common/utils"
	"github.com/Bleu24/ojt-crm-sub000/internal/protodef/form"
	model "github.com/Bleu24/ojt-crm-sub000/internal/protodef/model"
	"github.com/Bleu24/ojt-crm-sub000/internal/service/db"
)

// AccountInterface 账号相关的存储操作。
type AccountInterface interface {
	GetAccountByEmail(xl *xlog.Logger, email string) (*model.AccountDo, error)

	GetAccountByID(xl *xlog.Logger, id string) (*model.AccountDo, error)

	CreateAccount(xl *xlog.Logger, account *model.AccountDo) error

	LoginByPassword(xl *xlog.Logger, email string, password string) (*model.AccountTokenDo, error)

	AccountLogout(xl *xlog.Logger, id string) error
}

type AccountApiHandler struct {
	Account AccountInterface
}

func NewAccountApiHandler(conf utils.Config) *AccountApiHandler {
	accountService, err := db.NewAccountService(conf, nil)
	if err != nil {
		panic(err)
	}
	return &AccountApiHandler{Account: accountService}
}

// SignUp 注册操作者账号。
func (h *AccountApiHandler) SignUp(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	args := &form.AccountCreateForm{}
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
	account := &model.AccountDo{
		ID:       utils.GenerateID(),
		Email:    args.Email,
		Password: args.Password,
		Nickname: args.Nickname,
		Role:     model.AccountRole(args.Role),
	}
	if err := h.Account.CreateAccount(xl, account); err != nil {
		xl.Infof("failed to create account for %s, error %v", args.Email, err)
		sendServerError(c, requestID, err)
		return
	}
	// 注册完成直接登录。
	tokenRecord, err := h.Account.LoginByPassword(xl, args.Email, args.Password)
	if err != nil {
		xl.Errorf("login after signup failed for %s, error %v", args.Email, err)
		sendServerError(c, requestID, err)
		return
	}
	resp := map[string]interface{}{
		"account": model.NewAccountInfoResponse(account),
		"token":   tokenRecord.Token,
	}
	model.NewSuccessResponse(resp).WithRequestID(requestID).Send(c)
}

// SignIn 邮箱密码登录。
func (h *AccountApiHandler) SignIn(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	args := &form.AccountLoginForm{}
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
	tokenRecord, err := h.Account.LoginByPassword(xl, args.Email, args.Password)
	if err != nil {
		xl.Infof("login failed for %s, error %v", args.Email, err)
		sendServerError(c, requestID, err)
		return
	}
	account, err := h.Account.GetAccountByID(xl, tokenRecord.AccountId)
	if err != nil {
		sendServerError(c, requestID, err)
		return
	}
	resp := map[string]interface{}{
		"account": model.NewAccountInfoResponse(account),
		"token":   tokenRecord.Token,
	}
	model.NewSuccessResponse(resp).WithRequestID(requestID).Send(c)
}

// SignOut 退出登录。
func (h *AccountApiHandler) SignOut(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	userID := c.GetString(model.UserIDContextKey)
	if err := h.Account.AccountLogout(xl, userID); err != nil {
		xl.Errorf("sign out of user %s failed, error %v", userID, err)
		sendServerError(c, requestID, err)
		return
	}
	model.NewSuccessResponse(nil).WithRequestID(requestID).Send(c)
}

// GetAccountInfo 获取当前账号或指定账号的信息。
func (h *AccountApiHandler) GetAccountInfo(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	accountID := c.Param("accountId")
	if accountID == "" {
		accountID = c.GetString(model.UserIDContextKey)
	}
	account, err := h.Account.GetAccountByID(xl, accountID)
	if err != nil {
		xl.Infof("account %s not found, error %v", accountID, err)
		sendServerError(c, requestID, err)
		return
	}
	model.NewSuccessResponse(model.NewAccountInfoResponse(account)).WithRequestID(requestID).Send(c)
}
