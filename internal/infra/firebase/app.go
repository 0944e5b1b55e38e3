package firebase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// Credentials select how the Admin SDK authenticates. With neither field set
// Application Default Credentials are used.
type Credentials struct {
	ProjectID  string
	File       string
	JSONBase64 string
}

// NewApp initializes the Firebase Admin app shared by the record store and the push gateway.
func NewApp(ctx context.Context, creds Credentials) (*firebase.App, error) {
	if creds.ProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID must be set")
	}

	opts, err := clientOptions(creds)
	if err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: creds.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}
	return app, nil
}

func clientOptions(creds Credentials) ([]option.ClientOption, error) {
	switch {
	case creds.File != "":
		return []option.ClientOption{option.WithCredentialsFile(creds.File)}, nil
	case creds.JSONBase64 != "":
		jsonKey, err := base64.StdEncoding.DecodeString(creds.JSONBase64)
		if err != nil {
			return nil, errors.New("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is not a valid base64 string")
		}
		return []option.ClientOption{option.WithCredentialsJSON(jsonKey)}, nil
	default:
		return nil, nil
	}
}
