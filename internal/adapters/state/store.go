// Package state persists the extension's shared key/value state in two TOML
// partitions: synced (session, shortcut) and local (rate-limit window).
// Writes are atomic replacements, so a concurrent reader in another context
// sees either the previous or the new snapshot, never a torn one. Writes are
// last-write-wins; callers must treat every read as a point-in-time snapshot.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName     = "config"
	configType     = "toml"
	syncedPathKey  = "state.synced_path"
	localPathKey   = "state.local_path"
	stateFileMode  = 0o600
	stateDirMode   = 0o700
	stateConfigDir = ".config/quizpilot"
	syncedFileName = "synced.toml"
	localFileName  = "local.toml"
	tempPattern    = ".state-*.toml.tmp"
)

type Store struct {
	syncedPath string
	localPath  string
	syncedMu   *sync.RWMutex
	localMu    *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, filepath.FromSlash(stateConfigDir))

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(configDir)
	cfg.SetDefault(syncedPathKey, filepath.Join(configDir, syncedFileName))
	cfg.SetDefault(localPathKey, filepath.Join(configDir, localFileName))

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	syncedPath, err := normalizeStatePath(cfg.GetString(syncedPathKey))
	if err != nil {
		return nil, err
	}
	localPath, err := normalizeStatePath(cfg.GetString(localPathKey))
	if err != nil {
		return nil, err
	}
	if syncedPath == localPath {
		return nil, errors.New("synced and local state paths must differ")
	}

	return &Store{
		syncedPath: syncedPath,
		localPath:  localPath,
		syncedMu:   lockForPath(syncedPath),
		localMu:    lockForPath(localPath),
	}, nil
}

func normalizeStatePath(path string) (string, error) {
	if path == "" {
		return "", errors.New("state path is empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve state path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (s *Store) readSynced() (syncedSchema, error) {
	data, err := os.ReadFile(s.syncedPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return syncedSchema{}, nil
		}
		return syncedSchema{}, fmt.Errorf("read synced state file: %w", err)
	}

	var file syncedSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return syncedSchema{}, fmt.Errorf("decode synced state file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return syncedSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (s *Store) writeSynced(file syncedSchema) error {
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode synced state file: %w", err)
	}

	return writeAtomic(s.syncedPath, data)
}

func (s *Store) readLocal() (localSchema, error) {
	data, err := os.ReadFile(s.localPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return localSchema{}, nil
		}
		return localSchema{}, fmt.Errorf("read local state file: %w", err)
	}

	var file localSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return localSchema{}, fmt.Errorf("decode local state file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return localSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (s *Store) writeLocal(file localSchema) error {
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode local state file: %w", err)
	}

	return writeAtomic(s.localPath, data)
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), stateDirMode); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), tempPattern)
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}

	if err := tempFile.Chmod(stateFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp state file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(path, stateFileMode); err != nil {
		return fmt.Errorf("chmod state file: %w", err)
	}

	return nil
}
