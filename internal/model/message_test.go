package model_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/appdraft/appdraft/internal/model"
)

func TestSummaryTitle(t *testing.T) {
	tests := map[string]struct {
		prompt   string
		expTitle string
	}{
		"Short prompt is kept as is": {
			prompt:   "Build a todo app",
			expTitle: "Build a todo app",
		},
		"Prompt of exactly thirty characters is kept as is": {
			prompt:   strings.Repeat("a", 30),
			expTitle: strings.Repeat("a", 30),
		},
		"Long prompt is truncated with an ellipsis": {
			prompt:   "Build a project management platform with kanban boards",
			expTitle: "Build a project management pla...",
		},
		"Multibyte prompts truncate on runes, not bytes": {
			prompt:   strings.Repeat("ñ", 40),
			expTitle: strings.Repeat("ñ", 30) + "...",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expTitle, model.SummaryTitle(tt.prompt))
		})
	}
}

func TestNewMessage(t *testing.T) {
	m1 := model.NewMessage(model.MessageRoleUser, model.MessageTypeUserInput, "hello")
	m2 := model.NewMessage(model.MessageRoleUser, model.MessageTypeUserInput, "hello")

	assert.NotEmpty(t, m1.ID)
	assert.NotEqual(t, m1.ID, m2.ID)
	assert.Equal(t, model.MessageRoleUser, m1.Role)
	assert.Equal(t, model.MessageTypeUserInput, m1.Type)
	assert.Equal(t, "hello", m1.Content)
	assert.False(t, m1.CreatedAt.IsZero())
}

func TestProjectAppendMessage(t *testing.T) {
	p := model.Project{Name: "test"}

	assert.Nil(t, p.LastMessage())

	p.AppendMessage(model.NewMessage(model.MessageRoleUser, model.MessageTypeUserInput, "first"))
	p.AppendMessage(model.NewMessage(model.MessageRoleAssistant, model.MessageTypeAssistantResponse, "second"))

	assert.Len(t, p.Messages, 2)
	assert.Equal(t, "second", p.LastMessage().Content)
}
