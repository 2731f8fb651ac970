package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/deppfellow/platform-api/internal/config"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// serviceAccount is the subset of a Google service account key file the
// Firestore client needs.
type serviceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// CredentialsJSON renders the configured service account as a key file.
func CredentialsJSON(cfg config.FirestoreConfig) ([]byte, error) {
	return json.Marshal(serviceAccount{
		Type:        "service_account",
		ProjectID:   cfg.ProjectID,
		ClientEmail: cfg.ClientEmail,
		PrivateKey:  cfg.PrivateKey,
		TokenURI:    "https://oauth2.googleapis.com/token",
	})
}

// NewFirestore creates the Firestore client shared by every request.
//
// With an emulator host configured no credentials are sent; the client
// library picks the emulator up from FIRESTORE_EMULATOR_HOST.
func NewFirestore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*firestore.Client, error) {
	var opts []option.ClientOption

	if cfg.Firestore.EmulatorHost != "" {
		if err := os.Setenv("FIRESTORE_EMULATOR_HOST", cfg.Firestore.EmulatorHost); err != nil {
			return nil, fmt.Errorf("failed to point firestore at the emulator: %w", err)
		}
	} else {
		credentials, err := CredentialsJSON(cfg.Firestore)
		if err != nil {
			return nil, fmt.Errorf("failed to encode firestore credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(credentials))
	}

	client, err := firestore.NewClient(ctx, cfg.Firestore.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	logger.Info().
		Str("project_id", cfg.Firestore.ProjectID).
		Bool("emulator", cfg.Firestore.EmulatorHost != "").
		Msg("connected to firestore")

	return client, nil
}
