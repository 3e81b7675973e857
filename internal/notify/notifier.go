package notify

import (
	"fmt"
	"log"
	"sync"

	"github.com/TanakaMizukii/photoproject/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// PostEvent 新投稿通知内容
type PostEvent struct {
	PostID    uint
	Title     string
	Category  string
	Username  string
	ImagePath string // 本地绝对路径，为空时只发文字
}

type Notifier interface {
	PostCreated(event PostEvent)
	// Close 等待已发出的通知完成
	Close()
}

type NopNotifier struct{}

func (NopNotifier) PostCreated(PostEvent) {}
func (NopNotifier) Close()                {}

// sender 由 *tgbotapi.BotAPI 实现
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramNotifier struct {
	bot    sender
	chatID int64
	wg     sync.WaitGroup
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// PostCreated 异步发送，失败只记录日志
func (n *TelegramNotifier) PostCreated(event PostEvent) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if _, err := n.bot.Send(n.buildMessage(event)); err != nil {
			log.Printf("⚠️ Telegram 通知发送失败 (post=%d): %v", event.PostID, err)
		}
	}()
}

func (n *TelegramNotifier) Close() {
	n.wg.Wait()
}

func (n *TelegramNotifier) buildMessage(event PostEvent) tgbotapi.Chattable {
	text := formatCaption(event)
	if event.ImagePath == "" {
		return tgbotapi.NewMessage(n.chatID, text)
	}
	photo := tgbotapi.NewPhoto(n.chatID, tgbotapi.FilePath(event.ImagePath))
	photo.Caption = text
	return photo
}

func formatCaption(event PostEvent) string {
	return fmt.Sprintf("📷 新投稿：%s\n分类：%s\n投稿者：%s\n/photo/%d/",
		event.Title, event.Category, event.Username, event.PostID)
}

// FromConfig 按配置创建通知器，未启用或初始化失败时退化为 NopNotifier
func FromConfig() Notifier {
	cfg := config.Get().Telegram
	if !cfg.Enabled {
		return NopNotifier{}
	}
	if cfg.Token == "" || cfg.ChatID == 0 {
		log.Println("⚠️ Telegram 通知已启用但缺少 token 或 chat_id，已禁用")
		return NopNotifier{}
	}
	n, err := NewTelegramNotifier(cfg.Token, cfg.ChatID)
	if err != nil {
		log.Printf("⚠️ Telegram Bot 初始化失败，已禁用通知: %v", err)
		return NopNotifier{}
	}
	log.Printf("✅ Telegram 通知已启用 (chat=%d)", cfg.ChatID)
	return n
}
