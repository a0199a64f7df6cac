package model

import (
	"encoding/json"
	"time"
)

// AccountRole 内部操作者的角色。角色决定了其可以触发哪些招聘流程操作。
type AccountRole string

const (
	// RoleScreener 初级筛选员，可安排并完成初面。
	RoleScreener AccountRole = "screener"
	// RoleSeniorScreener 高级筛选员，权限同初级筛选员。
	RoleSeniorScreener AccountRole = "seniorScreener"
	// RoleUnitManager 单位主管，负责终面。
	RoleUnitManager AccountRole = "unitManager"
	// RoleAdmin 管理员。
	RoleAdmin AccountRole = "admin"
)

// CanScreen 是否具备初面角色。只认两级筛选员，管理员不参与面试流转。
func (r AccountRole) CanScreen() bool {
	return r == RoleScreener || r == RoleSeniorScreener
}

// AccountDo 操作者账号信息。
type AccountDo struct {
	// 用户ID，作为数据库唯一标识。
	ID string `json:"id" bson:"_id"`
	// 邮箱，要求全局唯一，登录用。
	Email    string `json:"email" bson:"email"`
	Password string `json:"-" bson:"password"`
	// 用户昵称
	Nickname string `json:"nickname" bson:"nickname"`
	// Role 角色。
	Role AccountRole `json:"role" bson:"role"`
	// RegisterTime 用户注册（首次登录）时间。
	RegisterTime time.Time `json:"registerTime" bson:"registerTime"`
	// LastLoginTime 上次登录时间。
	LastLoginTime time.Time `json:"lastLoginTime" bson:"lastLoginTime"`
}

func (a AccountDo) Map() FlattenMap {
	val, _ := json.Marshal(&a)
	res := make(map[string]interface{})
	_ = json.Unmarshal(val, &res)
	return res
}

// AccountTokenDo 已登录用户的信息。
type AccountTokenDo struct {
	ID        string `json:"id" bson:"_id"`
	AccountId string `json:"accountId" bson:"accountId"`
	// Token 本次登录使用的token。
	Token          string    `json:"token" bson:"token"`
	LastModifyTime time.Time `json:"lastModifyTime" bson:"lastModifyTime"`
}
