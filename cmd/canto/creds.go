package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// The credentials cache may be shared with other instances, reads and
// writes go through an advisory file lock.

type storedCredentials struct {
	Username string `json:"username"`
	Data     []byte `json:"data"`
}

func readStoredCredentials(path string) (*storedCredentials, error) {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("failed locking credentials file: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var creds storedCredentials
	if err := json.Unmarshal(content, &creds); err != nil {
		return nil, fmt.Errorf("failed unmarshalling credentials: %w", err)
	}

	return &creds, nil
}

func writeStoredCredentials(path string, creds *storedCredentials) error {
	content, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed marshalling credentials: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed locking credentials file: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed writing credentials file: %w", err)
	}

	return nil
}
