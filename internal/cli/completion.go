package cli

import (
	"os"

	"github.com/posener/complete"

	"github.com/semmy-space/credbroker/internal/broker"
	"github.com/semmy-space/credbroker/internal/config"
	"github.com/semmy-space/credbroker/internal/secrets"
)

// KeyPredictor completes credential keys from the configured keystore.
// Completion must never prompt or fail loudly, so any error yields no suggestions.
func KeyPredictor() complete.Predictor {
	return complete.PredictFunc(func(complete.Args) []string {
		return storedKeys()
	})
}

func storedKeys() []string {
	cfg, err := config.Load()
	if err != nil {
		return nil
	}

	backend := os.Getenv("CREDBROKER_BACKEND")
	if backend == "" {
		backend = cfg.Backend
	}

	// Completion output is parsed by the shell; keep fallback warnings off it
	_ = os.Setenv("CREDBROKER_QUIET", "1")

	store, _, err := secrets.NewStore(secrets.Options{
		Backend:  backend,
		FileDir:  cfg.FileDir,
		Password: os.Getenv("CREDBROKER_STORE_PASSWORD"),
	})
	if err != nil {
		return nil
	}

	keys, err := broker.New(secrets.ServiceName, store).Keys()
	if err != nil {
		return nil
	}
	return keys
}
