package model

type Dashboard struct {
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	PendingTasks   int     `json:"pending_tasks"`
	OverdueTasks   int     `json:"overdue_tasks"`
	CompletionRate float64 `json:"completion_rate"`
	Upcoming       []Task  `json:"upcoming"`
	MemberCount    int     `json:"member_count"`
	TotalPoints    int     `json:"total_points"`
	TopMember      *Member `json:"top_member"`
	RewardCount    int     `json:"reward_count"`
}
