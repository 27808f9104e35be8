package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/99designs/keyring"
)

const (
	// ServiceName is the keyring service the token is stored under
	ServiceName = "plughub"
	// EnvHubToken takes precedence over the keyring
	EnvHubToken = "PLUGHUB_HUB_TOKEN"

	hubTokenKey = "hub-token"
)

// ErrNoToken is returned when no token is configured
var ErrNoToken = errors.New("no hub token configured")

// Source names where a token came from
type Source string

const (
	SourceNone    Source = "none"
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
)

// Store reads and writes the hub token
type Store struct {
	ring keyring.Keyring

	open    func() (keyring.Keyring, error)
	once    sync.Once
	openErr error
}

func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: ServiceName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return ring, nil
}

// Open opens the platform keyring
func Open() (*Store, error) {
	ring, err := openKeyring()
	if err != nil {
		return nil, err
	}
	return &Store{ring: ring}, nil
}

// OpenLazy returns a Store that opens the platform keyring on first use
func OpenLazy() *Store {
	return NewLazyStore(openKeyring)
}

// NewStore wraps an existing keyring
func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// NewLazyStore defers open until a keyring lookup is needed. A token from the
// environment never opens it.
func NewLazyStore(open func() (keyring.Keyring, error)) *Store {
	return &Store{open: open}
}

// ringFor returns the keyring, opening it on first call
func (s *Store) ringFor() (keyring.Keyring, error) {
	if s.open != nil {
		s.once.Do(func() {
			s.ring, s.openErr = s.open()
		})
	}
	return s.ring, s.openErr
}

func (s *Store) writableRing() (keyring.Keyring, error) {
	ring, err := s.ringFor()
	if err != nil {
		return nil, err
	}
	if ring == nil {
		return nil, errors.New("no keyring available")
	}
	return ring, nil
}

// Token returns the hub token, checking the environment before the keyring.
// An unavailable keyring reads as ErrNoToken.
func (s *Store) Token() (string, Source, error) {
	if tok := strings.TrimSpace(os.Getenv(EnvHubToken)); tok != "" {
		return tok, SourceEnv, nil
	}
	if s == nil {
		return "", SourceNone, ErrNoToken
	}
	ring, err := s.ringFor()
	if err != nil {
		return "", SourceNone, fmt.Errorf("%w: %w", ErrNoToken, err)
	}
	if ring == nil {
		return "", SourceNone, ErrNoToken
	}

	item, err := ring.Get(hubTokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", SourceNone, ErrNoToken
		}
		return "", SourceNone, fmt.Errorf("failed to read token from keyring: %w", err)
	}
	return string(item.Data), SourceKeyring, nil
}

// SetToken stores the hub token
func (s *Store) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token must not be empty")
	}
	ring, err := s.writableRing()
	if err != nil {
		return err
	}
	err = ring.Set(keyring.Item{
		Key:         hubTokenKey,
		Data:        []byte(token),
		Label:       "plughub hub token",
		Description: "Access token for the plugin hub",
	})
	if err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// DeleteToken removes the hub token. Removing a missing token is not an error.
func (s *Store) DeleteToken() error {
	ring, err := s.writableRing()
	if err != nil {
		return err
	}
	if err := ring.Remove(hubTokenKey); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove token from keyring: %w", err)
	}
	return nil
}
