package handler

import (
	"github.com/gin-gonic/gin"
	"gopkg.in/mgo.v2"

	errors2 "github.com/Bleu24/ojt-crm-sub000/internal/protodef/errors"
	model "github.com/Bleu24/ojt-crm-sub000/internal/protodef/model"
)

// sendServerError 把服务层错误映射为对外的错误码并发送。
// 会议授权相关的错误单独映射，客户端据此引导操作者重新授权而不是盲目重试。
func sendServerError(c *gin.Context, requestID string, err error) {
	responseErr := mapServerError(err)
	model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
}

func mapServerError(err error) *model.ResponseError {
	if err == mgo.ErrNotFound {
		return model.NewResponseErrorNoSuchUser()
	}
	serverErr, ok := err.(*errors2.ServerError)
	if !ok {
		return model.NewResponseErrorInternal()
	}
	switch serverErr.Code {
	case errors2.ServerErrorUserNoPermission:
		return model.NewResponseErrorNoPermission(serverErr.Summary)
	case errors2.ServerErrorValidation:
		return model.NewResponseError(model.ResponseErrorValidation, serverErr.Summary)
	case errors2.ServerErrorRecruitNotFound:
		return model.NewResponseErrorNoSuchRecruit()
	case errors2.ServerErrorUserNotfound:
		return model.NewResponseErrorNoSuchUser()
	case errors2.ServerErrorUserNotLoggedin:
		return model.NewResponseErrorNotLoggedIn()
	case errors2.ServerErrorZoomNotConnected, errors2.ServerErrorZoomAuthExpired:
		return model.NewResponseErrorZoomAuthRequired()
	case errors2.ServerErrorZoomBadRequest:
		return model.NewResponseError(model.ResponseErrorValidation, serverErr.Summary)
	case errors2.ServerErrorZoomNotFound:
		return model.NewResponseErrorNoSuchMeeting()
	case errors2.ServerErrorZoomBadState:
		return model.NewResponseError(model.ResponseErrorBadRequest, serverErr.Summary)
	case errors2.ServerErrorZoomTimeout:
		return model.NewResponseErrorUpstreamTimeout()
	case errors2.ServerErrorZoomUpstream, errors2.ServerErrorMailSendFail:
		return model.NewResponseErrorExternalService(serverErr.Summary)
	default:
		return model.NewResponseErrorInternal()
	}
}
