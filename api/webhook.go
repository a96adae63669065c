package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// turnBudget bounds a whole turn including the model deadline and reply
// delivery.
const turnBudget = 30 * time.Second

// apologyReply is sent when delivering the real reply fails.
const apologyReply = "I'm experiencing a brief technical issue. Please try again soon — your story is important to us."

// Webhook receives platform events. ParseRequest verifies the signature;
// anything else that goes wrong is logged and acked with 200, because the
// platform retries non-2xx deliveries.
// POST /webhook
func (h *Handler) Webhook(c echo.Context) error {
	cb, err := webhook.ParseRequest(h.channelSecret, c.Request())
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			log.Printf("WARN: webhook delivery with invalid signature")
			return c.String(http.StatusBadRequest, "invalid signature")
		}
		log.Printf("ERROR: failed to parse webhook: %v", err)
		return c.String(http.StatusOK, "OK")
	}

	for _, event := range cb.Events {
		e, ok := event.(webhook.MessageEvent)
		if !ok {
			continue
		}
		msg, ok := e.Message.(webhook.TextMessageContent)
		if !ok {
			continue
		}
		src, ok := e.Source.(webhook.UserSource)
		if !ok {
			continue
		}
		// Each turn runs independently of the webhook ack.
		go h.processTurn(src.UserId, msg.Text, e.ReplyToken)
	}

	return c.String(http.StatusOK, "OK")
}

func (h *Handler) processTurn(userID, text, replyToken string) {
	ctx, cancel := context.WithTimeout(context.Background(), turnBudget)
	defer cancel()

	reply := h.turns.HandleMessage(ctx, userID, text)

	if err := h.replier.Reply(replyToken, reply); err != nil {
		log.Printf("ERROR: failed to send reply to %s: %v", userID, err)
		if err := h.replier.Reply(replyToken, apologyReply); err != nil {
			log.Printf("ERROR: failed to send fallback reply to %s: %v", userID, err)
		}
	}
}
