package session

import (
	"os"
	"path/filepath"
	"time"

	"github.com/reconsole/reconsole/pkg/jsonutil"
)

// tokenFile is the on-disk session state. The bearer token is the only
// client state that survives a restart; everything else is rebuilt from
// server queries.
type tokenFile struct {
	AccessToken string    `json:"access_token"`
	SavedAt     time.Time `json:"saved_at"`
}

// loadToken reads the persisted token. A missing file is not an error;
// it just means no session.
func loadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	var tf tokenFile
	if err := jsonutil.Unmarshal(data, &tf); err != nil {
		return "", err
	}
	return tf.AccessToken, nil
}

// saveToken persists the token with an atomic write-temp-then-rename so
// a crash mid-write never leaves a corrupt session file. Mode 0600: the
// token grants full account access.
func saveToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := jsonutil.MarshalIndent(tokenFile{
		AccessToken: token,
		SavedAt:     time.Now(),
	}, "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// removeToken deletes the session file. Missing file is fine.
func removeToken(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
