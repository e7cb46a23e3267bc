package tokenstore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"

	"github.com/HammerMeetNail/suggestly/internal/models"
)

const (
	fileMagic = "SGS1"
	saltSize  = 16
	nonceSize = 24
	keySize   = 32
)

var ErrCorruptSession = errors.New("session file is corrupt or was written with another secret")

// scrypt cost; lowered in tests.
var scryptN = 1 << 15

// FileStore keeps the pair in a single secretbox-sealed file readable only
// by the owner. The key is derived from the configured secret with scrypt
// and a per-file salt; a 64-character hex secret is used as the raw key.
type FileStore struct {
	path   string
	secret []byte
}

func NewFileStore(path, secret string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("token file path is empty")
	}
	if secret == "" {
		secret = fallbackSecret()
	}
	return &FileStore{path: path, secret: []byte(secret)}, nil
}

// fallbackSecret binds an unconfigured store to the local account so the
// file is not plaintext at rest.
func fallbackSecret() string {
	host, _ := os.Hostname()
	home, _ := os.UserHomeDir()
	return "suggestly:" + host + ":" + home
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (models.TokenPair, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.TokenPair{}, ErrNoTokens
	}
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("reading session file: %w", err)
	}

	header := len(fileMagic) + saltSize + nonceSize
	if len(data) < header+secretbox.Overhead || string(data[:len(fileMagic)]) != fileMagic {
		return models.TokenPair{}, ErrCorruptSession
	}
	salt := data[len(fileMagic) : len(fileMagic)+saltSize]
	var nonce [nonceSize]byte
	copy(nonce[:], data[len(fileMagic)+saltSize:header])

	key, err := s.deriveKey(salt)
	if err != nil {
		return models.TokenPair{}, err
	}
	plain, ok := secretbox.Open(nil, data[header:], &nonce, key)
	if !ok {
		return models.TokenPair{}, ErrCorruptSession
	}

	var pair models.TokenPair
	if err := json.Unmarshal(plain, &pair); err != nil {
		return models.TokenPair{}, ErrCorruptSession
	}
	if pair.AccessToken == "" {
		return models.TokenPair{}, ErrNoTokens
	}
	return pair, nil
}

func (s *FileStore) Save(ctx context.Context, pair models.TokenPair) error {
	plain, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("generating salt: %w", err)
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("generating nonce: %w", err)
	}
	key, err := s.deriveKey(salt)
	if err != nil {
		return err
	}

	out := make([]byte, 0, len(fileMagic)+saltSize+nonceSize+len(plain)+secretbox.Overhead)
	out = append(out, fileMagic...)
	out = append(out, salt...)
	out = append(out, nonce[:]...)
	out = secretbox.Seal(out, plain, &nonce, key)

	return writeFileAtomic(s.path, out)
}

func (s *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

func (s *FileStore) deriveKey(salt []byte) (*[keySize]byte, error) {
	var key [keySize]byte
	if raw, err := hex.DecodeString(string(s.secret)); err == nil && len(raw) == keySize {
		copy(key[:], raw)
		return &key, nil
	}
	derived, err := scrypt.Key(s.secret, salt, scryptN, 8, 1, keySize)
	if err != nil {
		return nil, fmt.Errorf("deriving session key: %w", err)
	}
	copy(key[:], derived)
	return &key, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("creating temp session file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("securing session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing session file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}
