package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/babysteps/internal/client/api"
	"github.com/dmitrijs2005/babysteps/internal/client/local"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/cryptox"
	"github.com/dmitrijs2005/babysteps/internal/logging"
	"github.com/dmitrijs2005/babysteps/internal/netx"
)

// SnapshotVersion is the only snapshot layout Import accepts.
const SnapshotVersion = 1

// Snapshot is a portable copy of the local data. Keys are stored without
// the namespace prefix so a snapshot can be restored into another one.
// Session state and signing keys are never included.
type Snapshot struct {
	Version   int                        `json:"version"`
	CreatedAt time.Time                  `json:"created_at"`
	Data      map[string]json.RawMessage `json:"data"`
}

// snapshotKeys are the namespaced entries a snapshot carries.
var snapshotKeys = []string{
	local.KeyUsers,
	local.KeyBabies,
	local.KeyActivities,
	local.KeySettings,
	local.KeyReminders,
}

type BackupService struct {
	lc       *local.Context
	client   api.Client
	http     *http.Client
	queueKey string
	logger   logging.Logger
}

func NewBackupService(lc *local.Context, client api.Client, logger logging.Logger) *BackupService {
	return &BackupService{
		lc:       lc,
		client:   client,
		queueKey: common.OfflineQueueKey,
		logger:   logger.With("module", "backup"),
	}
}

// Export copies every entity map and the offline queue.
func (s *BackupService) Export(ctx context.Context) (*Snapshot, error) {
	s.lc.Lock()
	defer s.lc.Unlock()

	snap := &Snapshot{
		Version:   SnapshotVersion,
		CreatedAt: s.lc.Now(),
		Data:      map[string]json.RawMessage{},
	}
	for name, key := range s.keys() {
		var raw json.RawMessage
		found, err := s.lc.Store.Load(ctx, key, &raw)
		if err != nil {
			return nil, err
		}
		if found {
			snap.Data[name] = raw
		}
	}
	return snap, nil
}

// Import replaces the local data with snap in one write. Entries missing
// from snap are removed and the current session ends.
func (s *BackupService) Import(ctx context.Context, snap *Snapshot) error {
	if snap == nil || snap.Version != SnapshotVersion {
		return fmt.Errorf("%w: unsupported snapshot version", common.ErrValidation)
	}

	keys := s.keys()
	for name := range snap.Data {
		if _, ok := keys[name]; !ok {
			return fmt.Errorf("%w: unknown snapshot entry %q", common.ErrValidation, name)
		}
	}

	values := map[string]any{}
	remove := []string{s.lc.Key(local.KeyCurrentUser)}
	for name, key := range keys {
		if raw, ok := snap.Data[name]; ok {
			values[key] = raw
		} else {
			remove = append(remove, key)
		}
	}

	s.lc.Lock()
	defer s.lc.Unlock()

	if !s.lc.Store.SetMany(ctx, values, remove...) {
		return common.ErrStorage
	}
	s.logger.Info(ctx, "snapshot imported", "entries", len(values), "created_at", snap.CreatedAt)
	return nil
}

// Upload seals a fresh snapshot with passphrase and stores it through a
// presigned URL. It returns the object key needed by Download.
func (s *BackupService) Upload(ctx context.Context, passphrase []byte) (string, error) {
	snap, err := s.Export(ctx)
	if err != nil {
		return "", err
	}

	sealed, err := cryptox.SealWithPassphrase(snap, passphrase)
	if err != nil {
		return "", fmt.Errorf("seal snapshot: %w", err)
	}
	data, err := json.Marshal(sealed)
	if err != nil {
		return "", err
	}

	key, url, err := s.client.BackupUploadURL(ctx)
	if err != nil {
		return "", fmt.Errorf("get upload url: %w", err)
	}
	if err := netx.UploadToPresignedURL(ctx, s.http, url, data); err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	s.logger.Info(ctx, "backup uploaded", "key", key, "bytes", len(data))
	return key, nil
}

// Download fetches the backup stored under key, opens it with passphrase and
// imports it.
func (s *BackupService) Download(ctx context.Context, key string, passphrase []byte) (*Snapshot, error) {
	url, err := s.client.BackupDownloadURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get download url: %w", err)
	}
	data, err := netx.DownloadFromPresignedURL(ctx, s.http, url)
	if err != nil {
		return nil, fmt.Errorf("download snapshot: %w", err)
	}

	var sealed cryptox.Sealed
	if err := json.Unmarshal(data, &sealed); err != nil {
		return nil, fmt.Errorf("%w: backup is not a sealed snapshot", common.ErrValidation)
	}
	var snap Snapshot
	if err := cryptox.OpenWithPassphrase(&sealed, passphrase, &snap); err != nil {
		return nil, err
	}

	if err := s.Import(ctx, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// keys maps snapshot entry names to store keys.
func (s *BackupService) keys() map[string]string {
	m := map[string]string{s.queueKey: s.queueKey}
	for _, name := range snapshotKeys {
		m[name] = s.lc.Key(name)
	}
	return m
}
