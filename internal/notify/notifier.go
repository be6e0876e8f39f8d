package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fx_dashboard/internal/models"
)

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// SummaryProvider — сводка по счёту для команды /summary.
// Реализует торговый движок; сюда только узкий интерфейс,
// чтобы не тянуть цикл зависимостей.
type SummaryProvider interface {
	AccountSummary(ctx context.Context, userID string) (*models.Summary, error)
}

// Telegram — пассивный нотифайер + одна команда /summary.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64

	summary SummaryProvider
	// в личном чате userID = chatID
	summaryUser string
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{
		bot:    b,
		chatID: chatID,
	}, nil
}

// AttachSummary подключает источник сводки после старта,
// сеттером — иначе цикл в графе зависимостей.
func (t *Telegram) AttachSummary(sp SummaryProvider, userID string) {
	if t == nil {
		return
	}
	t.summary = sp
	t.summaryUser = userID
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	_, _ = t.bot.Send(tgbot.NewMessage(t.chatID, msg))
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// /summary — сводка по счёту
func (t *Telegram) handleSummary(ctx context.Context) {
	if t.summary == nil {
		t.Send("❗️ Сводка недоступна")
		return
	}
	sum, err := t.summary.AccountSummary(ctx, t.summaryUser)
	if err != nil {
		t.Sendf("❗️ Ошибка сводки: %v", err)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Сделки: %d (W %d / L %d, win rate %.2f%%)\n",
		sum.Total, sum.Wins, sum.Losses, sum.WinRate)
	fmt.Fprintf(&b, "💰 Профит по закрытым: %.2f\n", sum.TotalProfit)
	fmt.Fprintf(&b, "📂 Открытых: %d\n", sum.ActiveCount)
	for _, p := range sum.Open {
		fmt.Fprintf(&b, "- %s %s @ %.5f lot=%.2f P/L=%.2f\n",
			p.Pair, p.Side, p.EntryPrice, p.LotSize, p.ProfitLoss)
	}
	t.Send(b.String())
}

// Start: long-polling только для команд.
func (t *Telegram) Start(ctx context.Context) error {
	if t == nil || t.bot == nil {
		return nil
	}

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd := <-updates:
				if upd.Message != nil && upd.Message.Chat != nil &&
					upd.Message.Chat.ID == t.chatID && upd.Message.IsCommand() {

					switch upd.Message.Command() {
					case "summary":
						go t.handleSummary(ctx)
					}
				}
			}
		}
	}()
	return nil
}

func (t *Telegram) Stop() {}

// Stdout — заглушка, всё в лог.
type Stdout struct{}

func NewStdout() *Stdout                           { return &Stdout{} }
func (s *Stdout) Send(msg string)                  { log.Println(msg) }
func (s *Stdout) Sendf(format string, args ...any) { log.Printf(format, args...) }
