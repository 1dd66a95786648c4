package dto

import (
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/services"
)

// TeamMemberDTO represents one user's task statistics on the dashboard
type TeamMemberDTO struct {
	User           UserDTO `json:"user"`
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	CompletionRate int     `json:"completion_rate"`
	AvgProgress    int     `json:"avg_progress"`
}

// DashboardDTO represents the admin dashboard payload
type DashboardDTO struct {
	TotalTasks int                         `json:"total_tasks"`
	ByPriority map[models.TaskPriority]int `json:"by_priority"`
	ByStatus   map[models.TaskStatus]int   `json:"by_status"`
	Team       []TeamMemberDTO             `json:"team"`
	Upcoming   []TaskDTO                   `json:"upcoming"`
}

// ToDashboardDTO converts dashboard stats to the response payload
func ToDashboardDTO(stats *services.DashboardStats) DashboardDTO {
	team := make([]TeamMemberDTO, len(stats.Team))
	for i, entry := range stats.Team {
		team[i] = TeamMemberDTO{
			User:           ToUserDTO(entry.User),
			Total:          entry.Total,
			Completed:      entry.Completed,
			CompletionRate: entry.CompletionRate,
			AvgProgress:    entry.AvgProgress,
		}
	}

	return DashboardDTO{
		TotalTasks: stats.TotalTasks,
		ByPriority: stats.ByPriority,
		ByStatus:   stats.ByStatus,
		Team:       team,
		Upcoming:   ToTaskDTOs(stats.Upcoming),
	}
}
