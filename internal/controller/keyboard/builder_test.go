package keyboard

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
)

func TestGrid(t *testing.T) {
	buttons := []models.InlineKeyboardButton{
		Button("1", "a"), Button("2", "b"), Button("3", "c"), Button("4", "d"), Button("5", "e"),
	}

	kb := NewBuilder().Grid(buttons, 2).Row(Button("x", "cancel")).Row().Build()

	assert.Len(t, kb.InlineKeyboard, 4)
	assert.Len(t, kb.InlineKeyboard[0], 2)
	assert.Len(t, kb.InlineKeyboard[2], 1)
	assert.Equal(t, "e", kb.InlineKeyboard[2][0].CallbackData)
	assert.Equal(t, "cancel", kb.InlineKeyboard[3][0].CallbackData)
}
