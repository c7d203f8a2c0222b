package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"apod-bot/internal/models"
	"apod-bot/internal/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const adminUsersLimit = 50

// BotAPI is the part of the Telegram client the bot talks through
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Navigator turns navigation tokens into renders
type Navigator interface {
	Start(ctx context.Context, user models.User) services.Render
	Handle(ctx context.Context, user models.User, token string) services.Render
}

// AdminService backs the administrator commands
type AdminService interface {
	IsAdmin(userID int64) bool
	ListUsers(ctx context.Context, limit int) ([]*models.User, error)
	GenerateAdminToken(userID int64) (string, error)
}

// TelegramHandler dispatches Telegram updates and renders the results
type TelegramHandler struct {
	bot       BotAPI
	navigator Navigator
	admin     AdminService
	timeout   time.Duration
}

// NewTelegramHandler creates a new Telegram handler. Each update is
// processed under a context bounded by timeout.
func NewTelegramHandler(bot BotAPI, navigator Navigator, admin AdminService, timeout time.Duration) *TelegramHandler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TelegramHandler{
		bot:       bot,
		navigator: navigator,
		admin:     admin,
		timeout:   timeout,
	}
}

// Run handles updates one at a time until ctx is cancelled or the
// channel is closed
func (h *TelegramHandler) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			h.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate processes a single update to completion
func (h *TelegramHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	var from *tgbotapi.User
	switch {
	case update.CallbackQuery != nil:
		from = update.CallbackQuery.From
	case update.Message != nil:
		from = update.Message.From
	}
	if from == nil {
		return
	}

	logger := log.With().
		Str("request_id", uuid.NewString()).
		Int64("user_id", from.ID).
		Logger()
	ctx = logger.WithContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if update.CallbackQuery != nil {
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}
	h.handleMessage(ctx, update.Message)
}

func (h *TelegramHandler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	logger := zerolog.Ctx(ctx)
	user := userFrom(msg.From)
	chatID := msg.Chat.ID

	if !msg.IsCommand() {
		logger.Info().Str("text", msg.Text).Msg("Message from user")
		return
	}

	switch msg.Command() {
	case "start":
		h.present(ctx, chatID, h.navigator.Start(ctx, user))
	case "users":
		h.listUsers(ctx, chatID, user.ID)
	case "token":
		h.issueToken(ctx, chatID, user.ID)
	default:
		logger.Debug().Str("command", msg.Command()).Msg("Ignoring unknown command")
	}
}

func (h *TelegramHandler) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("data", q.Data).Msg("Callback query")

	render := h.navigator.Handle(ctx, userFrom(q.From), q.Data)

	switch render.Kind {
	case services.RenderNone:
		h.request(ctx, tgbotapi.NewCallback(q.ID, ""))
		return
	case services.RenderNotice:
		h.request(ctx, tgbotapi.NewCallbackWithAlert(q.ID, render.Text))
		return
	}

	h.request(ctx, tgbotapi.NewCallback(q.ID, ""))

	if q.Message == nil || q.Message.Chat == nil {
		logger.Warn().Msg("Callback without a message, cannot render")
		return
	}
	chatID := q.Message.Chat.ID

	if render.Kind == services.RenderPicture && len(q.Message.Photo) > 0 {
		media := tgbotapi.NewInputMediaPhoto(tgbotapi.FileURL(render.ImageURL))
		media.Caption = render.Text
		h.request(ctx, tgbotapi.EditMessageMediaConfig{
			BaseEdit: tgbotapi.BaseEdit{
				ChatID:      chatID,
				MessageID:   q.Message.MessageID,
				ReplyMarkup: keyboard(render.Actions),
			},
			Media: media,
		})
		return
	}

	h.request(ctx, tgbotapi.NewDeleteMessage(chatID, q.Message.MessageID))
	h.present(ctx, chatID, render)
}

// present sends render as a new message
func (h *TelegramHandler) present(ctx context.Context, chatID int64, render services.Render) {
	kb := keyboard(render.Actions)

	switch render.Kind {
	case services.RenderPicture:
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(render.ImageURL))
		photo.Caption = render.Text
		if kb != nil {
			photo.ReplyMarkup = kb
		}
		h.send(ctx, photo)
	case services.RenderText, services.RenderNotice:
		msg := tgbotapi.NewMessage(chatID, render.Text)
		if kb != nil {
			msg.ReplyMarkup = kb
		}
		h.send(ctx, msg)
	}
}

func (h *TelegramHandler) listUsers(ctx context.Context, chatID, userID int64) {
	logger := zerolog.Ctx(ctx)
	if !h.admin.IsAdmin(userID) {
		logger.Warn().Msg("Non-admin asked for the user list")
		return
	}

	users, err := h.admin.ListUsers(ctx, adminUsersLimit)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list users")
		h.send(ctx, tgbotapi.NewMessage(chatID, "Sorry, the user list is unavailable right now."))
		return
	}

	h.send(ctx, tgbotapi.NewMessage(chatID, formatUsers(users)))
}

func (h *TelegramHandler) issueToken(ctx context.Context, chatID, userID int64) {
	logger := zerolog.Ctx(ctx)
	if !h.admin.IsAdmin(userID) {
		logger.Warn().Msg("Non-admin asked for an admin token")
		return
	}

	token, err := h.admin.GenerateAdminToken(userID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to issue admin token")
		return
	}
	logger.Info().Msg("Admin token issued")
	h.send(ctx, tgbotapi.NewMessage(chatID, token))
}

func (h *TelegramHandler) send(ctx context.Context, c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to send message")
	}
}

func (h *TelegramHandler) request(ctx context.Context, c tgbotapi.Chattable) {
	if _, err := h.bot.Request(c); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Telegram request failed")
	}
}

func formatUsers(users []*models.User) string {
	if len(users) == 0 {
		return "No users yet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Users (%d):\n", len(users))
	for _, u := range users {
		fmt.Fprintf(&b, "%d %s", u.ID, strings.TrimSpace(u.FirstName+" "+u.LastName))
		if u.Username != "" {
			fmt.Fprintf(&b, " @%s", u.Username)
		}
		if u.IsAdmin {
			b.WriteString(" (admin)")
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func keyboard(rows []services.ActionRow) *tgbotapi.InlineKeyboardMarkup {
	var out [][]tgbotapi.InlineKeyboardButton
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, a := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(a.Label, a.Token))
		}
		if len(buttons) > 0 {
			out = append(out, tgbotapi.NewInlineKeyboardRow(buttons...))
		}
	}
	if len(out) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(out...)
	return &kb
}

func userFrom(u *tgbotapi.User) models.User {
	return models.User{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.UserName,
		IsBot:     u.IsBot,
	}
}

var (
	_ Navigator    = (*services.Navigator)(nil)
	_ AdminService = (*services.UserService)(nil)
	_ BotAPI       = (*tgbotapi.BotAPI)(nil)
)
