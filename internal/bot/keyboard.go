package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	callbackEstimate = "estimate"
	callbackAbout    = "about"
	callbackSupport  = "support"

	choicesPerRow = 2
)

func mainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("💰 Оценить квартиру", callbackEstimate)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ О нас", callbackAbout),
			tgbotapi.NewInlineKeyboardButtonData("❤️ Поддержать проект", callbackSupport),
		),
	)
}

// choicesKeyboard lays labels out two per row. The label itself is the
// callback data, so it comes back unchanged as a choice.
func choicesKeyboard(labels []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(labels); i += choicesPerRow {
		end := min(i+choicesPerRow, len(labels))
		row := make([]tgbotapi.InlineKeyboardButton, 0, choicesPerRow)
		for _, label := range labels[i:end] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, label))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
