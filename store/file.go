// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/danielhkuo/livepoll/models"
)

const (
	userFile = "user.json"
	pollsDir = "polls"
)

// FileStore keeps everything as JSON documents on the local filesystem:
//
//	<dataDir>/<owner>/user.json
//	<dataDir>/<owner>/polls/<id>.json
//	<resultsDir>/<owner>/<name>
type FileStore struct {
	dataDir    string
	resultsDir string
}

// NewFileStore creates both root directories if needed.
func NewFileStore(dataDir, resultsDir string) (*FileStore, error) {
	data, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	results, err := filepath.Abs(resultsDir)
	if err != nil {
		return nil, fmt.Errorf("resolve results dir: %w", err)
	}
	for _, dir := range []string{data, results} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return &FileStore{dataDir: data, resultsDir: results}, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) ownerDir(owner string) (string, error) {
	if err := ValidateOwner(owner); err != nil {
		return "", err
	}
	return within(s.dataDir, owner)
}

func (s *FileStore) userPath(owner string) (string, error) {
	if err := ValidateOwner(owner); err != nil {
		return "", err
	}
	return within(s.dataDir, owner, userFile)
}

func (s *FileStore) pollPath(owner, id string) (string, error) {
	if err := ValidateOwner(owner); err != nil {
		return "", err
	}
	if err := ValidatePollID(id); err != nil {
		return "", err
	}
	return within(s.dataDir, owner, pollsDir, id+".json")
}

func (s *FileStore) resultOwnerDir(owner string) (string, error) {
	if err := ValidateOwner(owner); err != nil {
		return "", err
	}
	return within(s.resultsDir, owner)
}

func (s *FileStore) resultPath(owner, name string) (string, error) {
	if err := ValidateOwner(owner); err != nil {
		return "", err
	}
	if err := ValidateResultName(name); err != nil {
		return "", err
	}
	return within(s.resultsDir, owner, name)
}

// writeFileAtomic replaces path so readers see either the old or the new
// contents, never a partial write.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// createFileExclusive writes path only if nothing exists there yet. The data
// is fully written before the name becomes visible.
func createFileExclusive(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Link(tmpName, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return models.ErrConflict
		}
		return err
	}
	return nil
}

func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Credentials

func (s *FileStore) UserExists(ctx context.Context, username string) (bool, error) {
	path, err := s.userPath(username)
	if err != nil {
		return false, err
	}
	ok, err := exists(path)
	if err != nil {
		return false, &models.StorageError{Op: "stat user", Owner: username, Err: err}
	}
	return ok, nil
}

func (s *FileStore) GetUser(ctx context.Context, username string) (models.User, error) {
	path, err := s.userPath(username)
	if err != nil {
		return models.User{}, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.User{}, fmt.Errorf("user %s: %w", username, models.ErrNotFound)
	}
	if err != nil {
		return models.User{}, &models.StorageError{Op: "read user", Owner: username, Err: err}
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return models.User{}, &models.StorageError{Op: "decode user", Owner: username, Err: err}
	}
	return user, nil
}

func (s *FileStore) CreateUser(ctx context.Context, user models.User) error {
	path, err := s.userPath(user.Username)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := createFileExclusive(path, data); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return fmt.Errorf("user %s: %w", user.Username, models.ErrConflict)
		}
		return &models.StorageError{Op: "create user", Owner: user.Username, Err: err}
	}
	return nil
}

func (s *FileStore) UpdateUser(ctx context.Context, user models.User) error {
	path, err := s.userPath(user.Username)
	if err != nil {
		return err
	}
	ok, err := exists(path)
	if err != nil {
		return &models.StorageError{Op: "stat user", Owner: user.Username, Err: err}
	}
	if !ok {
		return fmt.Errorf("user %s: %w", user.Username, models.ErrNotFound)
	}
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return &models.StorageError{Op: "write user", Owner: user.Username, Err: err}
	}
	return nil
}

// RenameOwner moves the owner's data directory and then its results
// directory. If the second move fails the first one is undone.
func (s *FileStore) RenameOwner(ctx context.Context, oldOwner, newOwner string) error {
	oldDir, err := s.ownerDir(oldOwner)
	if err != nil {
		return err
	}
	newDir, err := s.ownerDir(newOwner)
	if err != nil {
		return err
	}
	oldResults, err := s.resultOwnerDir(oldOwner)
	if err != nil {
		return err
	}
	newResults, err := s.resultOwnerDir(newOwner)
	if err != nil {
		return err
	}

	if ok, err := exists(oldDir); err != nil {
		return &models.StorageError{Op: "stat owner", Owner: oldOwner, Err: err}
	} else if !ok {
		return fmt.Errorf("user %s: %w", oldOwner, models.ErrNotFound)
	}
	for _, dst := range []string{newDir, newResults} {
		if ok, err := exists(dst); err != nil {
			return &models.StorageError{Op: "stat owner", Owner: newOwner, Err: err}
		} else if ok {
			return fmt.Errorf("user %s: %w", newOwner, models.ErrConflict)
		}
	}

	if err := os.Rename(oldDir, newDir); err != nil {
		return &models.StorageError{Op: "rename data", Owner: oldOwner, Err: err}
	}

	hasResults, err := exists(oldResults)
	if err == nil && hasResults {
		err = os.Rename(oldResults, newResults)
	}
	if err != nil {
		if rbErr := os.Rename(newDir, oldDir); rbErr != nil {
			log.Error().Err(rbErr).
				Str("from", oldOwner).
				Str("to", newOwner).
				Msg("Failed to roll back data directory rename")
		}
		return &models.StorageError{Op: "rename results", Owner: oldOwner, Err: err}
	}
	return nil
}

// Polls

func (s *FileStore) ListPolls(ctx context.Context, owner string) ([]models.Poll, error) {
	dir, err := s.ownerDir(owner)
	if err != nil {
		return nil, err
	}
	dir = filepath.Join(dir, pollsDir)

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Poll{}, nil
	}
	if err != nil {
		return nil, &models.StorageError{Op: "list polls", Owner: owner, Err: err}
	}

	polls := make([]models.Poll, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		if ValidatePollID(id) != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn().Err(err).Str("owner", owner).Str("file", name).Msg("Skipping unreadable poll")
			continue
		}
		var poll models.Poll
		if err := json.Unmarshal(data, &poll); err != nil || poll.ID != id {
			log.Warn().Err(err).Str("owner", owner).Str("file", name).Msg("Skipping malformed poll")
			continue
		}
		polls = append(polls, poll)
	}

	SortByTitle(polls)
	return polls, nil
}

func (s *FileStore) GetPoll(ctx context.Context, owner, id string) (models.Poll, error) {
	path, err := s.pollPath(owner, id)
	if err != nil {
		return models.Poll{}, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.Poll{}, fmt.Errorf("poll %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Poll{}, &models.StorageError{Op: "read poll", Owner: owner, PollID: id, Err: err}
	}
	var poll models.Poll
	if err := json.Unmarshal(data, &poll); err != nil {
		return models.Poll{}, &models.StorageError{Op: "decode poll", Owner: owner, PollID: id, Err: err}
	}
	return poll, nil
}

func (s *FileStore) SavePoll(ctx context.Context, poll models.Poll) error {
	path, err := s.pollPath(poll.Owner, poll.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(poll, "", "  ")
	if err != nil {
		return fmt.Errorf("encode poll: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return &models.StorageError{Op: "write poll", Owner: poll.Owner, PollID: poll.ID, Err: err}
	}
	return nil
}

func (s *FileStore) DeletePoll(ctx context.Context, owner, id string) error {
	path, err := s.pollPath(owner, id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("poll %s: %w", id, models.ErrNotFound)
		}
		return &models.StorageError{Op: "delete poll", Owner: owner, PollID: id, Err: err}
	}
	return nil
}

// Results

func (s *FileStore) CreateResult(ctx context.Context, owner, name string, body []byte) error {
	path, err := s.resultPath(owner, name)
	if err != nil {
		return err
	}
	if err := createFileExclusive(path, body); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return fmt.Errorf("result %s: %w", name, models.ErrConflict)
		}
		return &models.StorageError{Op: "create result", Owner: owner, Err: err}
	}
	return nil
}

func (s *FileStore) GetResult(ctx context.Context, owner, name string) ([]byte, error) {
	path, err := s.resultPath(owner, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("result %s: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return nil, &models.StorageError{Op: "read result", Owner: owner, Err: err}
	}
	return data, nil
}

func (s *FileStore) ListResults(ctx context.Context, owner string) ([]ResultEntry, error) {
	dir, err := s.resultOwnerDir(owner)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []ResultEntry{}, nil
	}
	if err != nil {
		return nil, &models.StorageError{Op: "list results", Owner: owner, Err: err}
	}

	results := make([]ResultEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || ValidateResultName(entry.Name()) != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		results = append(results, ResultEntry{Name: entry.Name(), Size: info.Size()})
	}
	slices.SortFunc(results, func(a, b ResultEntry) int { return strings.Compare(b.Name, a.Name) })
	return results, nil
}

func (s *FileStore) DeleteResult(ctx context.Context, owner, name string) error {
	path, err := s.resultPath(owner, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("result %s: %w", name, models.ErrNotFound)
		}
		return &models.StorageError{Op: "delete result", Owner: owner, Err: err}
	}
	return nil
}
