package model

// RecruitResponse 应聘者详情返回体。
type RecruitResponse struct {
	ID                       string          `json:"id"`
	Name                     string          `json:"name"`
	Email                    string          `json:"email"`
	Phone                    string          `json:"phone,omitempty"`
	Address                  string          `json:"address,omitempty"`
	Education                string          `json:"education,omitempty"`
	AssignedTo               string          `json:"assignedTo"`
	FinalInterviewAssignedTo string          `json:"finalInterviewAssignedTo,omitempty"`
	Stage                    RecruitStage    `json:"stage"`
	InitialInterview         InterviewSlotDo `json:"initialInterview"`
	FinalInterview           InterviewSlotDo `json:"finalInterview"`
	CreateTime               int64           `json:"createTime"`
	UpdateTime               int64           `json:"updateTime"`
}

func MakeRecruitResponse(recruit *RecruitDo) RecruitResponse {
	return RecruitResponse{
		ID:                       recruit.ID,
		Name:                     recruit.Name,
		Email:                    recruit.Email,
		Phone:                    recruit.Phone,
		Address:                  recruit.Address,
		Education:                recruit.Education,
		AssignedTo:               recruit.AssignedTo,
		FinalInterviewAssignedTo: recruit.FinalInterviewAssignedTo,
		Stage:                    recruit.Stage(),
		InitialInterview:         recruit.InitialInterview,
		FinalInterview:           recruit.FinalInterview,
		CreateTime:               recruit.CreateTime.Unix(),
		UpdateTime:               recruit.UpdateTime.Unix(),
	}
}

type RecruitListResponse struct {
	Total          int               `json:"total"`
	Cnt            int               `json:"cnt"`
	CurrentPageNum int               `json:"currentPageNum"`
	NextPageNum    int               `json:"nextPageNum"`
	PageSize       int               `json:"pageSize"`
	EndPage        bool              `json:"endPage"`
	List           []RecruitResponse `json:"list"`
}

type UpsertRecruitResponse struct {
	ID string `json:"id"`
}

// MeetingOutcomeResponse 安排面试时创建会议这一步的结果。
// 会议创建失败不会回滚面试安排本身，调用方依据该结构决定是否重试会议创建。
type MeetingOutcomeResponse struct {
	Requested bool           `json:"requested"`
	Created   bool           `json:"created"`
	Meeting   *MeetingRecord `json:"meeting,omitempty"`
	Error     string         `json:"error,omitempty"`
	// RequiresReauthorization 为true时表示操作者需要重新完成会议账号授权后再重试。
	RequiresReauthorization bool `json:"requiresReauthorization,omitempty"`
}

// EmailOutcomeResponse 邀请邮件发送结果，仅作为旁路信息返回。
type EmailOutcomeResponse struct {
	Sent      bool   `json:"sent"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ScheduleInterviewResponse 安排面试接口的返回体。
type ScheduleInterviewResponse struct {
	Recruit RecruitResponse        `json:"recruit"`
	Meeting MeetingOutcomeResponse `json:"meeting"`
	Email   EmailOutcomeResponse   `json:"email"`
}

// ZoomAuthorizeResponse 发起授权接口的返回体。
type ZoomAuthorizeResponse struct {
	AuthUrl string `json:"authUrl"`
	State   string `json:"state"`
}
