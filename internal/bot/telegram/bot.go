package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/snapmeal/snapmeal-backend/internal/bot/keyboards"
	"github.com/snapmeal/snapmeal-backend/internal/bot/texts"
	"github.com/snapmeal/snapmeal-backend/internal/bot/workflow"
	"github.com/snapmeal/snapmeal-backend/internal/logger"
)

// Bot drives long polling and turns workflow outcomes into sent messages.
//
// Updates are dispatched to one mailbox goroutine per user, so handlers for a
// single user run strictly in order while different users proceed
// concurrently.
type Bot struct {
	log     *logger.Logger
	api     *tgbotapi.BotAPI
	wf      *workflow.Workflow
	catalog *texts.Catalog
	kb      *keyboards.Builder

	mu        sync.Mutex
	mailboxes map[int64]chan tgbotapi.Update
	wg        sync.WaitGroup
}

func NewBot(
	baseLog *logger.Logger,
	api *tgbotapi.BotAPI,
	wf *workflow.Workflow,
	catalog *texts.Catalog,
	kb *keyboards.Builder,
) *Bot {
	return &Bot{
		log:       baseLog.With("service", "TelegramBot"),
		api:       api,
		wf:        wf,
		catalog:   catalog,
		kb:        kb,
		mailboxes: make(map[int64]chan tgbotapi.Update),
	}
}

// Run polls for updates until the context is canceled, then drains the
// per-user mailboxes before returning.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	b.log.Info("Bot polling started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.closeMailboxes()
			b.wg.Wait()
			b.log.Info("Bot polling stopped")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				b.closeMailboxes()
				b.wg.Wait()
				return nil
			}
			from := update.SentFrom()
			if from == nil {
				continue
			}
			b.mailbox(ctx, from.ID) <- update
		}
	}
}

func (b *Bot) mailbox(ctx context.Context, userID int64) chan tgbotapi.Update {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.mailboxes[userID]
	if !ok {
		ch = make(chan tgbotapi.Update, 16)
		b.mailboxes[userID] = ch
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			for update := range ch {
				b.handle(ctx, update)
			}
		}()
	}
	return ch
}

func (b *Bot) closeMailboxes() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.mailboxes {
		close(ch)
		delete(b.mailboxes, id)
	}
}

func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) {
	if cq := update.CallbackQuery; cq != nil {
		if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			b.log.Debug("Callback ack failed", "error", err)
		}
		chatID := cq.From.ID
		if cq.Message != nil && cq.Message.Chat != nil {
			chatID = cq.Message.Chat.ID
		}
		b.send(chatID, b.wf.HandleCallback(ctx, cq.From.ID, cq.Data))
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	switch {
	case len(msg.Photo) > 0:
		// Highest resolution size is last.
		fileRef := msg.Photo[len(msg.Photo)-1].FileID
		b.send(chatID, b.wf.HandlePhoto(ctx, userID, fileRef))
	case msg.IsCommand():
		b.send(chatID, b.handleCommand(ctx, userID, msg.Command()))
	case msg.Text != "":
		b.send(chatID, b.wf.HandleText(ctx, userID, msg.Text))
	}
}

func (b *Bot) handleCommand(ctx context.Context, userID int64, command string) workflow.Outcome {
	switch command {
	case "start":
		return b.wf.HandleStart(ctx, userID)
	case "help":
		return b.wf.HandleHelp(ctx, userID)
	case "stats":
		return b.wf.HandleStats(ctx, userID)
	}
	return b.wf.HandleText(ctx, userID, "/"+command)
}

func (b *Bot) send(chatID int64, out workflow.Outcome) {
	for _, r := range out.Replies {
		msg := tgbotapi.NewMessage(chatID, b.renderText(r))
		if markup := b.markup(r); markup != nil {
			msg.ReplyMarkup = markup
		}
		if _, err := b.api.Send(msg); err != nil {
			b.log.Warn("Send failed", "chat_id", chatID, "error", err)
		}
	}
}

func removeKeyboard() tgbotapi.ReplyKeyboardRemove {
	return tgbotapi.NewRemoveKeyboard(false)
}
