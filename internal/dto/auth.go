package dto

import "github.com/yukikurage/agiliza-api/internal/services"

// AuthResponse is returned by register and login
type AuthResponse struct {
	AccessToken string  `json:"access_token"`
	User        UserDTO `json:"user"`
}

// ToAuthResponse converts a service session to AuthResponse
func ToAuthResponse(session *services.Session) AuthResponse {
	return AuthResponse{
		AccessToken: session.AccessToken,
		User:        ToUserDTO(*session.User),
	}
}

// SuggestedTaskDTO is a task proposed by the AI service. It is not persisted.
type SuggestedTaskDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Type        string `json:"task_type"`
}

// ToSuggestedTaskDTOs converts AI suggestions
func ToSuggestedTaskDTOs(tasks []services.SuggestedTask) []SuggestedTaskDTO {
	out := make([]SuggestedTaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = SuggestedTaskDTO{
			Title:       t.Title,
			Description: t.Description,
			Priority:    string(t.Priority),
			Type:        string(t.Type),
		}
	}
	return out
}
