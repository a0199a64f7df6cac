package task

import (
	"time"

	"github.com/qiniu/x/xlog"

	"github.com/Bleu24/ojt-crm-sub000/internal/common/utils"
	"github.com/Bleu24/ojt-crm-sub000/internal/service/cloud"
	"github.com/Bleu24/ojt-crm-sub000/internal/service/db"
)

// LoginTokenMaxAge 登录记录的最长保留时间，超过后由定时任务清除。
const LoginTokenMaxAge = 30 * 24 * time.Hour

// JanitorTask 周期性清理：过期的授权state、长期不活动的登录记录。
type JanitorTask struct {
	oauthService   *cloud.ZoomOAuthService
	accountService *db.AccountService
	xl             *xlog.Logger
}

func NewJanitorTask(conf utils.Config, oauthService *cloud.ZoomOAuthService) (*JanitorTask, error) {
	xl := xlog.New("ojt-crm-janitor")
	accountService, err := db.NewAccountService(conf, xl)
	if err != nil {
		return nil, err
	}
	return &JanitorTask{
		oauthService:   oauthService,
		accountService: accountService,
		xl:             xl,
	}, nil
}

// Start 执行一轮清理，由gocron周期调用。
func (t *JanitorTask) Start() {
	purged := t.oauthService.PurgeExpiredStates(t.xl)
	removed, err := t.accountService.RemoveStaleTokens(t.xl, LoginTokenMaxAge)
	if err != nil {
		t.xl.Errorf("failed to remove stale login tokens, error %v", err)
		return
	}
	if purged > 0 || removed > 0 {
		t.xl.Infof("janitor round done, purged %d oauth states, removed %d stale tokens", purged, removed)
	}
}
