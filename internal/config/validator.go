package config

import (
	"fmt"
	"strings"

	"alchemist.dev/internal/task"
)

// Validate checks resolved task definitions. problems carries issues already
// found while decoding so that everything is reported in one error.
// References between tasks are not checked here: an unknown sub-task only
// fails the group that tries to run it.
func Validate(tasks map[string]task.Task, problems []string) error {
	for _, name := range sortedKeys(tasks) {
		if err := validateTask(name, tasks[name]); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		return configError("", "%s", joinProblems(problems))
	}
	return nil
}

func validateTask(name string, t task.Task) error {
	var errors []string

	if strings.TrimSpace(name) == "" {
		errors = append(errors, "task names cannot be empty")
	}

	switch t := t.(type) {
	case task.CommandTask:
		if strings.TrimSpace(t.Command) == "" {
			errors = append(errors, fmt.Sprintf("task '%s': command cannot be empty", name))
		}
	case task.SerialGroup:
		errors = append(errors, validateSubtasks(name, t.Tasks)...)
	case task.ParallelGroup:
		errors = append(errors, validateSubtasks(name, t.Tasks)...)
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}

func validateSubtasks(name string, subtasks []string) []string {
	var errors []string
	for i, sub := range subtasks {
		if sub == "" {
			errors = append(errors, fmt.Sprintf("task '%s': subtask at index %d cannot be empty", name, i))
		}
	}
	return errors
}
