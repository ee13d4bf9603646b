package bot

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"
	tele "gopkg.in/telebot.v4"

	"curtail/internal/service"
)

const qrSize = 256

type TelegramBot struct {
	tgBot     *tele.Bot
	baseURL   string
	shortener *service.Shortener
}

// reply is what the bot answers to one message. QR is nil when no link was
// created.
type reply struct {
	Text string
	QR   []byte
}

func NewTelegramBot(tgToken, baseURL string, shortener *service.Shortener) (*TelegramBot, error) {
	pref := tele.Settings{
		Token:  tgToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	bot, err := tele.NewBot(pref)
	if err != nil {
		slog.Error("failed to initialize telegram bot", "error", err)
		return nil, err
	}

	return &TelegramBot{
		tgBot:     bot,
		baseURL:   baseURL,
		shortener: shortener,
	}, nil
}

func (b *TelegramBot) Start(ctx context.Context) error {
	slog.Info("Telegram bot started", "bot_username", b.tgBot.Me.Username)

	b.tgBot.Handle("/start", b.handleStart)
	b.tgBot.Handle(tele.OnText, b.handleMessage)

	go func() {
		<-ctx.Done()
		slog.Info("Telegram bot shutting down")
		b.tgBot.Stop()
	}()

	b.tgBot.Start()
	return nil
}

func (b *TelegramBot) handleStart(c tele.Context) error {
	slog.Debug("command /start received", "user_id", c.Sender().ID)
	return c.Send("Hi! Send me a long http:// or https:// link and I will shorten it.")
}

func (b *TelegramBot) handleMessage(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r := b.shorten(ctx, c.Text())
	if r.QR == nil {
		return c.Send(r.Text)
	}

	return c.Send(&tele.Photo{
		File:    tele.FromReader(bytes.NewReader(r.QR)),
		Caption: r.Text,
	})
}

func (b *TelegramBot) shorten(ctx context.Context, text string) reply {
	link, err := b.shortener.Create(ctx, strings.TrimSpace(text))
	if err != nil {
		_, clientErr, description := service.ClientStatusAndError(err)
		if clientErr == service.ClientInvalidParams {
			slog.Debug("rejected link from telegram", "error", err)
			return reply{Text: "Cannot shorten that link: " + description + "."}
		}
		slog.Error("failed to create short link", "error", err)
		return reply{Text: "Could not create the link, please try again later."}
	}

	shortURL := service.ShortURL(b.baseURL, link.ShortCode)

	png, err := qrcode.Encode(shortURL, qrcode.Medium, qrSize)
	if err != nil {
		slog.Warn("failed to render qr code", "short_code", link.ShortCode, "error", err)
		return reply{Text: "Here is your short link:\n" + shortURL}
	}

	return reply{Text: "Here is your short link:\n" + shortURL, QR: png}
}

