package analytics

import (
	"context"
	"strconv"
	"time"

	"github.com/dukex/mixpanel"
	"github.com/savaki/amplitude-go"
)

type Tracker interface {
	CustomerCreated(userID uint)
	SubscriptionStarted(userID uint, tierName string)
}

type amplitudeMixpanelTracker struct{}

func (t amplitudeMixpanelTracker) CustomerCreated(userID uint) {
	t.track(userID, "billing customer created", map[string]interface{}{}, map[string]interface{}{
		"billingCustomerCreatedAt": time.Now(),
	})
}

func (t amplitudeMixpanelTracker) SubscriptionStarted(userID uint, tierName string) {
	t.track(userID, "subscription started", map[string]interface{}{
		"tier": tierName,
	}, map[string]interface{}{
		"subscribedAt": time.Now(),
	})
}

func (t amplitudeMixpanelTracker) track(userID uint, eventName string,
	eventProps, userProps map[string]interface{}) {

	userIDString := strconv.Itoa(int(userID))

	ac := getAmplitudeClient()
	if ac != nil {
		ac.Publish(amplitude.Event{
			UserId:          userIDString,
			EventType:       eventName,
			EventProperties: eventProps,
			UserProperties:  userProps,
		})
	}

	mp := getMixpanelClient()
	if mp != nil {
		const ip = "0" // don't auto-detect
		mp.Track(userIDString, eventName, &mixpanel.Event{
			IP:         ip,
			Properties: eventProps,
		})
		if userProps != nil {
			mp.Update(userIDString, &mixpanel.Update{
				IP:         ip,
				Operation:  "$set_once",
				Properties: userProps,
			})
		}
	}
}

func GetTracker(_ context.Context) Tracker {
	return amplitudeMixpanelTracker{}
}
