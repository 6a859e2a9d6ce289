package dispatch

import (
	"casewatch/internal/matching"
	"casewatch/internal/subscription/models"
	id "casewatch/pkg/domain"
)

// Router fans matched email content out to individual recipients. Every
// (content, active subscriber) pair becomes one command with a fresh
// notification id; inactive subscribers are skipped.
type Router struct{}

func NewRouter() *Router {
	return &Router{}
}

// Route expands each EmailInfo across its subscription's active roster. The
// subscriptions slice is the same snapshot the matching engine evaluated, so
// roster membership is consistent with the match decision.
func (r *Router) Route(infos []matching.EmailInfo, subs []models.Subscription) []SendEmailCommand {
	rosters := make(map[id.SubscriptionID]models.Roster, len(subs))
	for _, sub := range subs {
		rosters[sub.ID] = sub.Subscribers
	}

	var commands []SendEmailCommand
	for _, info := range infos {
		for _, member := range rosters[info.SubscriptionID].ActiveMembers() {
			commands = append(commands, SendEmailCommand{
				NotificationID:   id.NewNotificationID(),
				Recipient:        member.Email,
				Subject:          info.Subject,
				Title:            info.Title,
				Body:             info.Body,
				CaseLink:         info.CaseLink,
				MaterialID:       info.MaterialID,
				TemplateID:       info.TemplateID,
				SubscriptionID:   info.SubscriptionID,
				SubscriptionName: info.SubscriptionName,
			})
		}
	}
	return commands
}
