package providers

import (
	"github.com/hacksoc/calendar-api/pkg/calendar"
	"github.com/hacksoc/calendar-api/pkg/calendar/google"
	"github.com/hacksoc/calendar-api/pkg/calendar/ical"
	"github.com/hacksoc/calendar-api/pkg/retry"
)

// InitializeBuiltinProviders registers all built-in calendar providers with the factory.
// retryer may be nil, in which case each provider fetches once.
func InitializeBuiltinProviders(factory *calendar.DefaultProviderFactory, retryer *retry.Retryer) {
	// Google Calendar events list (API key or service account)
	factory.RegisterProvider("google", func() calendar.Provider {
		provider := google.NewProvider()
		provider.SetRetryer(retryer)
		return provider
	})

	// Published iCal feeds, optionally behind basic auth
	factory.RegisterProvider("ical", func() calendar.Provider {
		provider := ical.NewProvider()
		provider.SetRetryer(retryer)
		return provider
	})
}
