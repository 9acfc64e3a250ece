package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/agiliza-api/internal/models"
)

type AIService struct {
	client *openai.Client
}

// SuggestedTask is a task proposed by the AI service
type SuggestedTask struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	Type        models.TaskType     `json:"task_type"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

const suggestPrompt = `You are a task extraction assistant for a Kanban board. Extract concrete tasks from the text below.

Text:
%s

Reply with a JSON array only, no prose:
[
  {
    "title": "short task title",
    "description": "what has to be done",
    "priority": "low | medium | high",
    "task_type": "task | bug | story"
  }
]

Return [] when the text contains no tasks.`

// SuggestTasks analyzes text and extracts tasks using OpenAI GPT
func (s *AIService) SuggestTasks(ctx context.Context, text string) ([]SuggestedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf(suggestPrompt, text),
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseSuggestions(resp.Choices[0].Message.Content)
}

// parseSuggestions decodes the model reply, tolerating a fenced code block.
func parseSuggestions(content string) ([]SuggestedTask, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var tasks []SuggestedTask
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}
	return tasks, nil
}
