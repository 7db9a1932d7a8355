package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/suiso11/kaikeisinsei/internal/expense"
)

// Bot watches a Telegram chat for receipt photos. A photo is taken in,
// OCR'd and answered with the extracted suggestion plus confirm/cancel
// buttons; confirming records the suggested values to the ledger.
type Bot struct {
	api     *tgbotapi.BotAPI
	service *expense.Service
	client  *http.Client
}

// New creates a Bot for the given token
func New(token string, service *expense.Service) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &Bot{
		api:     api,
		service: service,
		client:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Run polls for updates until the context is cancelled
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	slog.Info("Telegram bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case upd := <-updates:
			b.handleUpdate(upd)
		}
	}
}

func (b *Bot) handleUpdate(upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		b.handleCallback(upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}

	msg := upd.Message
	switch {
	case msg.IsCommand():
		b.handleCommand(msg)
	case len(msg.Photo) > 0:
		b.handlePhoto(msg)
	case msg.Document != nil && isReceiptDocument(msg.Document.MimeType):
		b.handleDocument(msg)
	}
}

func isReceiptDocument(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") || mimeType == "application/pdf"
}

// Callback button payloads are "<action>:<submission id>".
const (
	actionConfirm = "confirm"
	actionCancel  = "cancel"
)

func callbackData(action, id string) string {
	return action + ":" + id
}

func parseCallbackData(data string) (action, id string, ok bool) {
	return strings.Cut(data, ":")
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		b.send(msg.Chat.ID, helpText)
	default:
		b.send(msg.Chat.ID, "不明なコマンドです。/help で使い方を表示します。")
	}
}

const helpText = `会計申請ボットの使い方:

レシートの写真をこのチャットに送ると、自動でOCR解析して日付・金額・用途を読み取ります。
解析結果のメッセージで「記帳する」を押すと、そのままスプレッドシートの出納帳に記帳されます。
読み取り結果が違う場合は「キャンセル」を押して、もう一度鮮明な写真を送ってください。

PDFや画像ファイルの添付にも対応しています。`

// handlePhoto downloads the largest rendition and runs it through intake
func (b *Bot) handlePhoto(msg *tgbotapi.Message) {
	photo := msg.Photo[len(msg.Photo)-1]
	b.processReceipt(msg, photo.FileID, "photo.jpg", "image/jpeg")
}

func (b *Bot) handleDocument(msg *tgbotapi.Message) {
	doc := msg.Document
	b.processReceipt(msg, doc.FileID, doc.FileName, doc.MimeType)
}

func (b *Bot) processReceipt(msg *tgbotapi.Message, fileID, filename, contentType string) {
	chatID := msg.Chat.ID
	b.send(chatID, "レシートを検出しました。解析中...")

	data, err := b.downloadFile(fileID)
	if err != nil {
		slog.Error("Failed to download receipt", "chat_id", chatID, "error", err)
		b.send(chatID, "画像のダウンロードに失敗しました。もう一度お試しください。")
		return
	}

	sub, err := b.service.Intake(filename, data, contentType)
	if err != nil {
		slog.Error("Failed to process receipt", "chat_id", chatID, "error", err)
		b.send(chatID, "レシートの解析に失敗しました。もう一度お試しください。")
		return
	}

	reply := tgbotapi.NewMessage(chatID, formatSuggestion(sub))
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("記帳する", callbackData(actionConfirm, sub.ID)),
			tgbotapi.NewInlineKeyboardButtonData("キャンセル", callbackData(actionCancel, sub.ID)),
		),
	)
	if _, err := b.api.Send(reply); err != nil {
		slog.Error("Failed to send suggestion", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	// Answer first so the button stops spinning
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		slog.Warn("Failed to answer callback", "error", err)
	}

	action, id, ok := parseCallbackData(cb.Data)
	if !ok || cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	switch action {
	case actionConfirm:
		b.confirmSubmission(chatID, id, cb.From)
	case actionCancel:
		if err := b.service.DeleteSubmission(id); err != nil {
			slog.Warn("Failed to delete submission", "id", id, "error", err)
		}
		b.send(chatID, "申請がキャンセルされました。")
	}
}

func (b *Bot) confirmSubmission(chatID int64, id string, from *tgbotapi.User) {
	sub, err := b.service.GetSubmission(id)
	if err != nil {
		b.send(chatID, "申請が見つかりません。もう一度レシートを送信してください。")
		return
	}

	recordedBy := ""
	if from != nil {
		recordedBy = from.UserName
		if recordedBy == "" {
			recordedBy = from.FirstName
		}
	}

	form := expense.ConfirmForm{
		PaymentDate: sub.Suggested.Date,
		Category:    "未分類",
		Payer:       recordedBy,
		Purpose:     sub.Suggested.Purpose,
		Amount:      sub.Suggested.Amount,
		RecordedBy:  recordedBy,
	}

	recorded, err := b.service.Confirm(id, form)
	if err != nil {
		slog.Error("Failed to confirm submission", "id", id, "error", err)
		b.send(chatID, fmt.Sprintf("記帳に失敗しました: %v\n金額や日付が読み取れていない場合は、鮮明な写真でもう一度お試しください。", err))
		return
	}

	b.send(chatID, formatRecorded(recorded))
}

// downloadFile fetches file bytes through the bot file endpoint
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("resolving file: %w", err)
	}

	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", b.api.Token, file.FilePath)
	resp, err := b.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("downloading file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading file: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		slog.Error("Failed to send message", "chat_id", chatID, "error", err)
	}
}
