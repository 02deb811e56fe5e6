package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/xaenox/flatprice-bot/internal/dialog"
	"github.com/xaenox/flatprice-bot/internal/models"
)

const historyLimit = 5

// messenger is the part of the Telegram client the bot talks through.
type messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	api           messenger
	client        *tgbotapi.BotAPI
	conversations *dialog.Conversations
	logger        *zap.Logger
}

func New(token string, debug bool, conversations *dialog.Conversations, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = debug

	b := newBot(api, conversations, logger)
	b.client = api
	logger.Info("Authorized on account", zap.String("username", api.Self.UserName))
	return b, nil
}

func newBot(api messenger, conversations *dialog.Conversations, logger *zap.Logger) *Bot {
	return &Bot{
		api:           api,
		conversations: conversations,
		logger:        logger,
	}
}

// Start receives updates by long polling until ctx is done.
func (b *Bot) Start(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.client.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.client.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// SetWebhook registers url with Telegram so updates arrive over HTTP.
func (b *Bot) SetWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("failed to build webhook: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	b.logger.Info("Webhook registered", zap.String("url", url))
	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	if message.Text == "" {
		b.sendMessage(message.Chat.ID, textOnlyText)
		return
	}

	chatID := message.Chat.ID
	if state, err := b.conversations.State(ctx, chatID); err == nil && state == models.StateAwaitingTotalFloors {
		b.sendTyping(chatID)
	}
	b.dispatch(ctx, chatID, message.From.ID, dialog.Text(message.Text))
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID, userID := message.Chat.ID, message.From.ID

	switch message.Command() {
	case "start":
		b.handleStart(ctx, chatID)
	case "estimate":
		b.dispatch(ctx, chatID, userID, dialog.Begin())
	case "cancel":
		b.dispatch(ctx, chatID, userID, dialog.Cancel())
	case "help":
		b.sendMessage(chatID, textHelp)
	case "history":
		b.handleHistory(ctx, chatID, userID)
	default:
		b.sendMessage(chatID, textUnknownCommand)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Warn("Failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", cb.ID))
	}
	if cb.Message == nil || cb.From == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	switch cb.Data {
	case callbackEstimate:
		b.dispatch(ctx, chatID, cb.From.ID, dialog.Begin())
	case callbackAbout:
		b.sendMenu(chatID, textAbout)
	case callbackSupport:
		b.sendMenu(chatID, textSupport)
	default:
		b.dispatch(ctx, chatID, cb.From.ID, dialog.Choice(cb.Data))
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	if err := b.conversations.Restart(ctx, chatID); err != nil {
		b.logger.Error("Failed to reset session",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
	b.sendMenu(chatID, textWelcome)
}

func (b *Bot) handleHistory(ctx context.Context, chatID, userID int64) {
	estimates, err := b.conversations.History(ctx, userID, historyLimit)
	if err != nil {
		b.logger.Error("Failed to get user estimates",
			zap.Error(err),
			zap.Int64("user_id", userID))
		b.sendErrorMessage(chatID, "Не удалось загрузить историю оценок.")
		return
	}

	if len(estimates) == 0 {
		b.sendMessage(chatID, textNoHistory)
		return
	}
	b.sendMarkdown(chatID, formatHistory(estimates), nil)
}

// dispatch feeds one action to the dialogue and renders the reply.
func (b *Bot) dispatch(ctx context.Context, chatID, userID int64, action dialog.Action) {
	reply, err := b.conversations.Handle(ctx, chatID, userID, action)
	if err != nil {
		b.logger.Error("Failed to handle action",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.Int64("user_id", userID))
		if reply.Text == "" {
			b.sendErrorMessage(chatID, "Что-то пошло не так. Попробуйте ещё раз.")
			return
		}
	}
	b.sendReply(chatID, reply)
}

func (b *Bot) sendReply(chatID int64, reply dialog.Reply) {
	var markup *tgbotapi.InlineKeyboardMarkup
	switch {
	case len(reply.Choices) > 0:
		kb := choicesKeyboard(reply.Choices)
		markup = &kb
	case reply.Menu:
		kb := mainMenu()
		markup = &kb
	}
	b.sendMarkdown(chatID, reply.Text, markup)
}

func (b *Bot) sendMenu(chatID int64, text string) {
	kb := mainMenu()
	b.sendMarkdown(chatID, text, &kb)
}

func (b *Bot) sendMarkdown(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "⚠️ "+text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendTyping(chatID int64) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.logger.Debug("Failed to send chat action",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
