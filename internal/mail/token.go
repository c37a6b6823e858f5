package mail

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
)

// expiryDelta mirrors the early-expiry margin oauth2 applies to access tokens
const expiryDelta = 10 * time.Second

// loadToken reads a token persisted by saveToken. A missing file yields
// (nil, nil).
func loadToken(path string) (*oauth2.Token, error) {
	b, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// saveToken writes tok to path, creating parent directories as needed
func saveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	b, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// expired reports whether tok carries an expiry that has passed
func expired(tok *oauth2.Token) bool {
	if tok.Expiry.IsZero() {
		return false
	}
	return time.Now().Add(expiryDelta).After(tok.Expiry)
}
