package gcp

import (
	"strings"

	"google.golang.org/api/option"

	"github.com/yungbote/learnhub-backend/internal/platform/envutil"
)

// credentialOptions turns one credentials setting into client options. A
// value that looks like a JSON object is used inline, anything else is a
// key file path, and blank falls back to application default credentials.
func credentialOptions(raw string) []option.ClientOption {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return nil
	case strings.HasPrefix(raw, "{"):
		return []option.ClientOption{option.WithCredentialsJSON([]byte(raw))}
	default:
		return []option.ClientOption{option.WithCredentialsFile(raw)}
	}
}

func credentialsFromEnv() []option.ClientOption {
	return credentialOptions(envutil.String("GOOGLE_APPLICATION_CREDENTIALS_JSON",
		envutil.String("GOOGLE_APPLICATION_CREDENTIALS", "")))
}
