package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casewatch/internal/matching"
	"casewatch/internal/subscription/models"
	id "casewatch/pkg/domain"
)

func TestRouteFansOutToActiveSubscribersOnly(t *testing.T) {
	subID := id.NewSubscriptionID()
	sub := models.Subscription{
		ID:     subID,
		Name:   "Crown Court watchers",
		Active: true,
		Subscribers: models.NewRoster(
			models.Subscriber{ID: id.NewSubscriberID(), Email: "awake@example.gov.uk", Active: true},
			models.Subscriber{ID: id.NewSubscriberID(), Email: "asleep@example.gov.uk", Active: false},
		),
	}
	info := matching.EmailInfo{
		SubscriptionID:   subID,
		SubscriptionName: sub.Name,
		Subject:          "Case 01AB123456: Hearing resulted",
		Body:             "body",
		TemplateID:       "hearing-resulted-v1",
	}

	commands := NewRouter().Route([]matching.EmailInfo{info}, []models.Subscription{sub})

	require.Len(t, commands, 1)
	assert.Equal(t, "awake@example.gov.uk", commands[0].Recipient)
	assert.Equal(t, subID, commands[0].SubscriptionID)
	assert.False(t, commands[0].NotificationID.IsZero())
}

func TestRouteMintsDistinctNotificationIDs(t *testing.T) {
	subID := id.NewSubscriptionID()
	sub := models.Subscription{
		ID:     subID,
		Active: true,
		Subscribers: models.NewRoster(
			models.Subscriber{ID: id.NewSubscriberID(), Email: "a@example.gov.uk", Active: true},
			models.Subscriber{ID: id.NewSubscriberID(), Email: "b@example.gov.uk", Active: true},
		),
	}
	infos := []matching.EmailInfo{
		{SubscriptionID: subID, Subject: "one"},
		{SubscriptionID: subID, Subject: "two"},
	}

	commands := NewRouter().Route(infos, []models.Subscription{sub})

	require.Len(t, commands, 4)
	seen := make(map[id.NotificationID]bool)
	for _, cmd := range commands {
		assert.False(t, seen[cmd.NotificationID])
		seen[cmd.NotificationID] = true
	}
	// Commands for one EmailInfo stay adjacent and in roster order.
	assert.Equal(t, "one", commands[0].Subject)
	assert.Equal(t, "one", commands[1].Subject)
	assert.Equal(t, "two", commands[2].Subject)
	assert.Equal(t, "a@example.gov.uk", commands[0].Recipient)
	assert.Equal(t, "b@example.gov.uk", commands[1].Recipient)
}

func TestRouteUnknownSubscriptionProducesNothing(t *testing.T) {
	info := matching.EmailInfo{SubscriptionID: id.NewSubscriptionID(), Subject: "orphan"}
	commands := NewRouter().Route([]matching.EmailInfo{info}, nil)
	assert.Empty(t, commands)
}

func TestRouteCarriesDocumentMaterialID(t *testing.T) {
	subID := id.NewSubscriptionID()
	sub := models.Subscription{
		ID:     subID,
		Active: true,
		Subscribers: models.NewRoster(
			models.Subscriber{ID: id.NewSubscriberID(), Email: "clerk@example.gov.uk", Active: true},
		),
	}
	info := matching.EmailInfo{
		SubscriptionID: subID,
		Subject:        "Document available",
		MaterialID:     "MAT-42",
		TemplateID:     "nowedt-document-v1",
	}

	commands := NewRouter().Route([]matching.EmailInfo{info}, []models.Subscription{sub})

	require.Len(t, commands, 1)
	assert.Equal(t, "MAT-42", commands[0].MaterialID)
	assert.Empty(t, commands[0].CaseLink)
}
