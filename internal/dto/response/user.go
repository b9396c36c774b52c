package response

import (
	"time"

	"coach-booking/internal/data/entity"
)

type UserResponse struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	RealName  string          `json:"real_name"`
	Phone     string          `json:"phone"`
	Email     string          `json:"email"`
	Role      entity.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`

	Coach   *CoachProfileResponse   `json:"coach,omitempty"`
	Student *StudentProfileResponse `json:"student,omitempty"`
}

type CoachProfileResponse struct {
	Level           entity.CoachLevel `json:"level"`
	HourlyRate      string            `json:"hourly_rate"`
	Awards          string            `json:"awards,omitempty"`
	MaxStudents     int               `json:"max_students"`
	CurrentStudents int               `json:"current_students"`
}

type StudentProfileResponse struct {
	Balance     string `json:"balance"`
	CancelCount int    `json:"cancel_count"`
}

func UserToResponse(user *entity.User) UserResponse {
	resp := UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		RealName:  user.RealName,
		Phone:     user.Phone,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}

	if user.Coach != nil {
		resp.Coach = &CoachProfileResponse{
			Level:           user.Coach.Level,
			HourlyRate:      user.Coach.HourlyRate.StringFixed(2),
			Awards:          user.Coach.Awards,
			MaxStudents:     user.Coach.MaxStudents,
			CurrentStudents: user.Coach.CurrentStudents,
		}
	}
	if user.Student != nil {
		resp.Student = &StudentProfileResponse{
			Balance:     user.Student.Balance.StringFixed(2),
			CancelCount: user.Student.CancelCount,
		}
	}

	return resp
}
