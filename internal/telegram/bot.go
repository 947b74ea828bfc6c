package telegram

import (
	"context"
	"fmt"

	"vacancyradar/internal/scheduler"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const welcomeMessage = "Привет! Я бот для поиска вакансий.\n\n" +
	"Доступные команды:\n" +
	"/search - запустить поиск свежих вакансий\n" +
	"/help - справка по командам"

const helpMessage = "Команды:\n" +
	"/start - начать работу с ботом\n" +
	"/search - запустить поиск свежих вакансий на HeadHunter\n" +
	"/help - показать эту справку"

// Bot exposes the search run over telegram commands. It only triggers the
// runner and reports its stats; all processing happens downstream.
type Bot struct {
	api    *tgbotapi.BotAPI
	runner *scheduler.Runner
	logger *zap.Logger
}

func New(token string, runner *scheduler.Runner, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}

	return &Bot{
		api:    api,
		runner: runner,
		logger: logger,
	}, nil
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("telegram bot started", zap.String("username", b.api.Self.UserName))

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(ctx, update.Message)
		}
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.reply(message.Chat.ID, welcomeMessage)
	case "help":
		b.reply(message.Chat.ID, helpMessage)
	case "search":
		b.handleSearch(ctx, message.Chat.ID)
	default:
		b.reply(message.Chat.ID, "Неизвестная команда. Попробуйте /help.")
	}
}

func (b *Bot) handleSearch(ctx context.Context, chatID int64) {
	b.reply(chatID, "Начинаю поиск вакансий, это может занять некоторое время...")

	stats, err := b.runner.RunOnce(ctx)
	if err != nil {
		b.logger.Error("search command failed", zap.Error(err))
		b.reply(chatID, "Произошла ошибка при поиске вакансий, попробуйте позже.")
		return
	}

	if stats.VacanciesPublished == 0 {
		b.reply(chatID, "Поиск завершен, новых вакансий не найдено.")
		return
	}

	b.reply(chatID, fmt.Sprintf(
		"Поиск завершен!\n\nОбработано регионов: %d\nПолучено вакансий: %d\nОтправлено в обработку: %d",
		stats.AreasSearched, stats.VacanciesFetched, stats.VacanciesPublished))

	b.logger.Info("search command completed",
		zap.Int64("chat_id", chatID),
		zap.Int32("published", stats.VacanciesPublished))
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send telegram message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}
