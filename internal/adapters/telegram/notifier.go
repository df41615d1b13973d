package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Guilhem-Bonnet/showwatch/internal/ports"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const DefaultAPIURL = "https://api.telegram.org"

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Notifier poste sur l'API Bot Telegram (sendMessage). Sans token, il se
// contente de logger le message (utile en local).
type Notifier struct {
	logger zerolog.Logger
	client *resty.Client
	apiURL string
	token  string
	chatID string
}

func NewNotifier(logger zerolog.Logger, client *resty.Client, apiURL, token, chatID string) *Notifier {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Notifier{
		logger: logger,
		client: client,
		apiURL: strings.TrimRight(apiURL, "/"),
		token:  token,
		chatID: chatID,
	}
}

func (n *Notifier) DryRun() bool { return n.token == "" }

func (n *Notifier) Send(ctx context.Context, text string) error {
	if n.DryRun() {
		n.logger.Info().Str("text", text).Msg("telegram not configured, message not sent")
		return nil
	}

	res, err := n.client.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(sendMessageRequest{ChatID: n.chatID, Text: text}).
		Post(n.apiURL + "/bot" + n.token + "/sendMessage")
	if err != nil {
		// L'URL contient le token: on le masque avant de remonter l'erreur.
		return &ports.CodedError{Code: "network_error", Message: "telegram sendMessage", Err: errors.New(n.redact(err.Error()))}
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		return &ports.CodedError{Code: "http_status", Message: fmt.Sprintf("telegram sendMessage: %s: %s", res.Status(), n.redact(strings.TrimSpace(res.String())))}
	}
	n.logger.Info().Int("chars", len(text)).Msg("telegram notification sent")
	return nil
}

func (n *Notifier) redact(s string) string {
	if n.token == "" {
		return s
	}
	return strings.ReplaceAll(s, n.token, "***")
}
