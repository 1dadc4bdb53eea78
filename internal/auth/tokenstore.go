package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pro4tech/assistant/internal/apierr"
	"github.com/pro4tech/assistant/internal/security"
)

// TokenStore persists the opaque bearer token, encrypted at rest when a
// passphrase is configured. This file is the only local state the client
// keeps.
type TokenStore struct {
	path       string
	passphrase string
}

// NewTokenStore creates a store backed by the given file path. An empty
// passphrase stores the token in the clear (file mode 0600 either way).
func NewTokenStore(path, passphrase string) *TokenStore {
	return &TokenStore{path: path, passphrase: passphrase}
}

type tokenFile struct {
	Salt  string `json:"salt,omitempty"`
	Token string `json:"token"`
}

// Save writes the token to disk
func (s *TokenStore) Save(token string) error {
	var tf tokenFile

	if s.passphrase != "" {
		salt, err := security.GenerateSalt()
		if err != nil {
			return err
		}
		enc, err := security.NewEncryptorFromPassphrase(s.passphrase, salt)
		if err != nil {
			return err
		}
		ciphertext, err := enc.EncryptString(token)
		if err != nil {
			return fmt.Errorf("failed to encrypt token: %w", err)
		}
		tf.Salt = base64.StdEncoding.EncodeToString(salt)
		tf.Token = ciphertext
	} else {
		tf.Token = token
	}

	data, err := json.Marshal(tf)
	if err != nil {
		return fmt.Errorf("failed to marshal token file: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Load reads the token back. A missing file reports ErrUnauthenticated.
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apierr.ErrUnauthenticated
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return "", fmt.Errorf("failed to parse token file: %w", err)
	}
	if tf.Token == "" {
		return "", apierr.ErrUnauthenticated
	}

	if tf.Salt == "" {
		return tf.Token, nil
	}

	if s.passphrase == "" {
		return "", errors.New("token file is encrypted but no passphrase is configured")
	}
	salt, err := base64.StdEncoding.DecodeString(tf.Salt)
	if err != nil {
		return "", fmt.Errorf("failed to decode salt: %w", err)
	}
	enc, err := security.NewEncryptorFromPassphrase(s.passphrase, salt)
	if err != nil {
		return "", err
	}
	token, err := enc.DecryptString(tf.Token)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt token: %w", err)
	}
	return token, nil
}

// Clear removes the stored token. Clearing an absent file is not an error.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
