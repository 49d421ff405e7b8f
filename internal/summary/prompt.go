package summary

import (
	"fmt"
	"strings"

	"todoSummary/internal/models/todo"
)

const systemPrompt = "You are a highly organized productivity assistant that creates clear, actionable summaries of todo lists. Your summaries help people prioritize and plan their work effectively."

const promptTemplate = `Please analyze and summarize the following pending todo items. Provide a well-organized, professional summary that includes:

1. **Overview**: Brief summary of the total number of tasks and their general nature
2. **Priority Assessment**: Identify which tasks seem most urgent or important
3. **Categories**: Group similar tasks together if applicable
4. **Action Plan**: Suggest a logical order or approach for tackling these tasks
5. **Time Estimate**: Provide rough time estimates if possible

**Pending Todo Items:**
%s

Please format your response in a clear, actionable manner that would be helpful for planning and prioritization.`

const createdDateLayout = "2006-01-02"

// FormatTodos renders one numbered line per todo, keeping the given order.
func FormatTodos(todos []*todo.Todo) string {
	lines := make([]string, len(todos))
	for i, t := range todos {
		lines[i] = formatLine(i+1, t)
	}
	return strings.Join(lines, "\n")
}

func formatLine(n int, t *todo.Todo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s", n, t.Title)
	if t.Description != "" {
		b.WriteString(": ")
		b.WriteString(t.Description)
	}
	fmt.Fprintf(&b, " (Created: %s)", t.CreatedAt.Format(createdDateLayout))
	return b.String()
}

func BuildPrompt(todos []*todo.Todo) string {
	return fmt.Sprintf(promptTemplate, FormatTodos(todos))
}

// BuildMessages is the chat payload for one summary request.
func BuildMessages(todos []*todo.Todo) []Message {
	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: BuildPrompt(todos)},
	}
}
