package recruit

import (
	"fmt"

	errors2 "github.com/Bleu24/ojt-crm-sub000/internal/protodef/errors"
	"github.com/Bleu24/ojt-crm-sub000/internal/protodef/model"
)

// Transition 招聘流程里一次需要鉴权的操作。
type Transition string

const (
	TransitionScheduleInitial Transition = "scheduleInitialInterview"
	TransitionCompleteInitial Transition = "completeInitialInterview"
	TransitionScheduleFinal   Transition = "scheduleFinalInterview"
	TransitionCompleteFinal   Transition = "completeFinalInterview"
	TransitionAssign          Transition = "assignRecruit"
)

// AuthorizationGate 静态的角色/操作准入表。所有流程操作在改任何数据、
// 调任何外部接口之前都先过这里。
type AuthorizationGate struct{}

func NewAuthorizationGate() *AuthorizationGate {
	return &AuthorizationGate{}
}

// Check 判断操作者能否对该应聘者执行指定操作，拒绝时返回带原因的权限错误。
// 终面相关操作只允许被指定的那一位单位主管执行，其他单位主管也不行。
func (g *AuthorizationGate) Check(operator *model.AccountDo, transition Transition, recruit *model.RecruitDo) error {
	switch transition {
	case TransitionScheduleInitial, TransitionCompleteInitial:
		if !operator.Role.CanScreen() {
			return g.deny(fmt.Sprintf("role %s may not %s, screener role required", operator.Role, transition))
		}
	case TransitionScheduleFinal, TransitionCompleteFinal:
		if recruit.FinalInterviewAssignedTo == "" {
			return g.deny("no unit manager assigned for the final interview yet")
		}
		if operator.ID != recruit.FinalInterviewAssignedTo {
			return g.deny(fmt.Sprintf("only the assigned unit manager may %s", transition))
		}
	case TransitionAssign:
		if operator.Role == model.RoleScreener {
			return g.deny(fmt.Sprintf("role %s may not %s", operator.Role, transition))
		}
	default:
		return g.deny(fmt.Sprintf("unknown transition %s", transition))
	}
	return nil
}

func (g *AuthorizationGate) deny(reason string) error {
	return &errors2.ServerError{Code: errors2.ServerErrorUserNoPermission, Summary: reason}
}
