package dao

const (
	// CollectionAccount 存储账号信息的表。
	CollectionAccount = "accounts"
	// CollectionAccountToken 存储已登录用户的表。
	CollectionAccountToken = "account_token"

	// CollectionRecruit 存储应聘者记录的表。
	CollectionRecruit = "recruits"

	// ActionCollection 全局日志流水
	ActionCollection = "actions"
)
