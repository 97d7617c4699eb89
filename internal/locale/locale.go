// Package locale renders user-facing responses from an x/text catalog.
// Responses about a bot are prefixed "<bot> ", the rest "<App> ".
package locale

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/keshon/botinvoker/pkg/cmd"
)

// Host message keys. The dispatcher's own keys live in package cmd.
const (
	MsgDone           = "done"
	MsgStatusOnline   = "status_online"
	MsgStatusOffline  = "status_offline"
	MsgAlreadyRunning = "already_running"
	MsgAlreadyPaused  = "already_paused"
	MsgGranted        = "granted"
	MsgRevoked        = "revoked"
	MsgGrantsEmpty    = "grants_empty"
	MsgGrantsHeader   = "grants_header"
	MsgGrantLine      = "grant_line"
	MsgHistoryEmpty   = "history_empty"
	MsgHistoryHeader  = "history_header"
	MsgHistoryLine    = "history_line"
	MsgVersion        = "version"
	MsgHelpHeader     = "help_header"
	MsgRolled         = "rolled"
	MsgSaid           = "said"
	MsgFailed         = "failed"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		cmd.MsgNotReady:        "This bot instance is not connected!",
		cmd.MsgInvalidArgument: "%s is invalid!",
		cmd.MsgTargetsNotFound: "Could not find any bot named %s!",
		MsgDone:                "Done!",
		MsgStatusOnline:        "Bot is running.",
		MsgStatusOffline:       "Bot is paused.",
		MsgAlreadyRunning:      "Bot is already running!",
		MsgAlreadyPaused:       "Bot is already paused!",
		MsgGranted:             "Granted %s access to %s.",
		MsgRevoked:             "Revoked access of %s.",
		MsgGrantsEmpty:         "No access granted.",
		MsgGrantsHeader:        "Granted access:",
		MsgGrantLine:           "%s: %s",
		MsgHistoryEmpty:        "No commands recorded.",
		MsgHistoryHeader:       "Recent commands:",
		MsgHistoryLine:         "%s %s: %s",
		MsgVersion:             "%s version %s",
		MsgHelpHeader:          "Available commands:",
		MsgRolled:              "rolled %s: %d",
		MsgSaid:                "%s",
		MsgFailed:              "Failed: %s",
	},
	language.Russian: {
		cmd.MsgNotReady:        "Этот бот не подключен!",
		cmd.MsgInvalidArgument: "%s: неверное значение!",
		cmd.MsgTargetsNotFound: "Не найдено ни одного бота по запросу %s!",
		MsgDone:                "Готово!",
		MsgStatusOnline:        "Бот работает.",
		MsgStatusOffline:       "Бот приостановлен.",
		MsgAlreadyRunning:      "Бот уже работает!",
		MsgAlreadyPaused:       "Бот уже приостановлен!",
		MsgGranted:             "Выдан доступ %s пользователю %s.",
		MsgRevoked:             "Доступ пользователя %s отозван.",
		MsgGrantsEmpty:         "Доступ никому не выдан.",
		MsgGrantsHeader:        "Выданный доступ:",
		MsgGrantLine:           "%s: %s",
		MsgHistoryEmpty:        "Команд пока не было.",
		MsgHistoryHeader:       "Последние команды:",
		MsgHistoryLine:         "%s %s: %s",
		MsgVersion:             "%s версии %s",
		MsgHelpHeader:          "Доступные команды:",
		MsgRolled:              "выпало %s: %d",
		MsgSaid:                "%s",
		MsgFailed:              "Ошибка: %s",
	},
}

// Supported lists the catalog languages, default first.
var Supported = []language.Tag{language.English, language.Russian}

// Formatter implements cmd.Formatter.
type Formatter struct {
	app     string
	printer *message.Printer
}

// New picks the best supported language for lang, e.g. "ru-RU" or "en".
// The catalog is static, so a message it rejects panics.
func New(lang, app string) *Formatter {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, text := range msgs {
			if err := b.SetString(tag, key, text); err != nil {
				panic(fmt.Sprintf("locale: bad %s message %q: %v", tag, key, err))
			}
		}
	}

	_, i := language.MatchStrings(language.NewMatcher(Supported), lang)
	return &Formatter{
		app:     app,
		printer: message.NewPrinter(Supported[i], message.Catalog(b)),
	}
}

func (f *Formatter) FormatForTarget(t cmd.Target, key string, args ...any) string {
	if t == nil {
		return f.FormatStatic(key, args...)
	}
	return "<" + t.Name() + "> " + f.printer.Sprintf(key, args...)
}

func (f *Formatter) FormatStatic(key string, args ...any) string {
	return "<" + f.app + "> " + f.printer.Sprintf(key, args...)
}

// Text renders key without a prefix.
func (f *Formatter) Text(key string, args ...any) string {
	return f.printer.Sprintf(key, args...)
}
