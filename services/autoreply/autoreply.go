package autoreply

import (
	"time"

	"servicebid/models"
	"servicebid/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fallbackDelay applies when a pro enabled auto-reply but left the delay at
// zero: immediate delivery would beat the pro's own typing, so the bot waits a
// short grace period instead.
const fallbackDelay = 20 * time.Second

var templateTexts = map[models.AutoReplyTemplate]string{
	models.AutoReplyTemplateOnMyWay:   "Thanks for your message! I'm currently on the road, I'll get back to you as soon as I can.",
	models.AutoReplyTemplateBusy:      "I'm with another client right now. I'll reply as soon as I'm free.",
	models.AutoReplyTemplateCallLater: "I can't chat at the moment. I'll call you back later today.",
}

// replyText resolves the configured template, falling back to BUSY when a
// custom template has no text.
func replyText(cfg models.AutoReplyConfig) string {
	if cfg.Template == models.AutoReplyTemplateCustom && cfg.CustomText != "" {
		return cfg.CustomText
	}
	if text, ok := templateTexts[cfg.Template]; ok {
		return text
	}
	return templateTexts[models.AutoReplyTemplateBusy]
}

func (s *DefaultService) NotifyClientMessage(threadID string, clientMsg models.ChatMessage) error {
	prop, err := s.Repo.GetProposal(threadID)
	if err != nil {
		return err
	}
	pro, err := s.Repo.GetUser(prop.ProID)
	if err != nil {
		return err
	}
	if pro.AutoReply == nil || !pro.AutoReply.Enabled {
		return nil
	}

	status, err := s.Engine.Status(threadID)
	if err != nil {
		return err
	}
	if status.Terminal() {
		return nil
	}

	delay := time.Duration(pro.AutoReply.DelayMinutes) * time.Minute
	if delay <= 0 {
		delay = fallbackDelay
	}

	payload := TaskPayload{
		ThreadID:        threadID,
		ProID:           pro.ID,
		ClientMessageID: clientMsg.ID,
	}
	if err := s.Scheduler.Schedule(payload, delay); err != nil {
		return err
	}
	utils.GetLogger().Info("auto-reply scheduled",
		zap.String("threadId", threadID),
		zap.String("proId", pro.ID),
		zap.Duration("delay", delay))
	return nil
}

// Deliver re-validates the thread at fire time and appends the reply. Every
// skip condition returns nil: a stale task is not an error.
func (s *DefaultService) Deliver(payload TaskPayload) error {
	pro, err := s.Repo.GetUser(payload.ProID)
	if err != nil {
		return err
	}
	if pro.AutoReply == nil || !pro.AutoReply.Enabled {
		return nil
	}

	status, err := s.Engine.Status(payload.ThreadID)
	if err != nil {
		return err
	}
	if status.Terminal() {
		return nil
	}

	if s.proAnsweredSince(payload) {
		utils.GetLogger().Debug("auto-reply suppressed, pro already answered",
			zap.String("threadId", payload.ThreadID))
		return nil
	}

	msg := models.ChatMessage{
		ID:        uuid.New().String(),
		SenderID:  payload.ProID,
		Type:      models.MessageText,
		Text:      replyText(*pro.AutoReply),
		Automated: true,
		Timestamp: time.Now(),
	}
	if err := s.Repo.AppendMessage(payload.ThreadID, msg); err != nil {
		return err
	}
	utils.GetLogger().Info("auto-reply delivered", zap.String("threadId", payload.ThreadID))
	return nil
}

// proAnsweredSince reports whether the pro sent anything (including a prior
// auto-reply) after the triggering client message. This is both the manual
// silencing rule and the idempotency guard for redelivered tasks.
func (s *DefaultService) proAnsweredSince(payload TaskPayload) bool {
	msgs := s.Repo.Thread(payload.ThreadID)
	seen := false
	for _, m := range msgs {
		if m.ID == payload.ClientMessageID {
			seen = true
			continue
		}
		if seen && m.SenderID == payload.ProID {
			return true
		}
	}
	// Triggering message vanished (thread rewritten): deliver rather than
	// drop, the suppression rule has nothing to anchor on.
	return false
}
