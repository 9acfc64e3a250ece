package services

import (
	"fmt"
	"strings"

	"github.com/yukikurage/agiliza-api/internal/constants"
	"github.com/yukikurage/agiliza-api/internal/models"
	"github.com/yukikurage/agiliza-api/internal/repository"
)

// TaskKeyPrefix is the upper-cased first three characters of the department
// name, or the whole name when it is shorter.
func TaskKeyPrefix(departmentName string) string {
	runes := []rune(departmentName)
	if len(runes) > constants.TaskKeyPrefixLength {
		runes = runes[:constants.TaskKeyPrefixLength]
	}
	return strings.ToUpper(string(runes))
}

// FormatTaskKey renders a key such as "TEC-12".
func FormatTaskKey(prefix string, number uint64) string {
	return fmt.Sprintf("%s-%d", prefix, number)
}

// GenerateTaskKey reserves the next key for a new task in dept.
// tasks must be bound to the transaction that inserts the task.
func GenerateTaskKey(tasks repository.TaskRepository, dept *models.Department) (string, error) {
	prefix := TaskKeyPrefix(dept.Name)
	n, err := tasks.NextKeyNumber(prefix)
	if err != nil {
		return "", fmt.Errorf("failed to reserve task number: %w", err)
	}
	return FormatTaskKey(prefix, n), nil
}
