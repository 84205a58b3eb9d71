package google

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	googleOAuth "golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

// OAuth2 scope required for read-only calendar access
const calendarReadOnlyScope = calendar.CalendarReadonlyScope

// serviceAccountClient returns an HTTP client that signs requests with the
// service account key in credentialsPath
func serviceAccountClient(credentialsPath string, timeout time.Duration) (*http.Client, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	jwtConfig, err := googleOAuth.JWTConfigFromJSON(data, calendarReadOnlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	// Token exchanges share the request timeout
	base := &http.Client{Timeout: timeout}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	client := jwtConfig.Client(ctx)
	client.Timeout = timeout
	return client, nil
}
