package form

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/Bleu24/ojt-crm-sub000/internal/protodef/model"
)

const (
	ErrEmailFormatMsg  = "邮箱格式校验失败"
	ErrNicknameLongMsg = "昵称过长"
	ErrRoleMsg         = "未知角色"
)

type AccountCreateForm struct {
	// 邮箱，要求全局唯一，登录用。
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	// 用户昵称
	Nickname string `json:"nickname" form:"nickname"`
	// Role 角色。
	Role string `json:"role" form:"role"`
}

func (i *AccountCreateForm) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.Email, validation.Required, is.Email.Error(ErrEmailFormatMsg)),
		validation.Field(&i.Password, validation.Required, validation.Length(6, 64)),
		validation.Field(&i.Nickname, validation.Required, validation.Length(0, 100).Error(ErrNicknameLongMsg)),
		validation.Field(&i.Role, validation.Required, validation.In(
			string(model.RoleScreener),
			string(model.RoleSeniorScreener),
			string(model.RoleUnitManager),
			string(model.RoleAdmin),
		).Error(ErrRoleMsg)),
	)
	return err
}

type AccountLoginForm struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (i *AccountLoginForm) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.Email, validation.Required, is.Email.Error(ErrEmailFormatMsg)),
		validation.Field(&i.Password, validation.Required),
	)
	return err
}
