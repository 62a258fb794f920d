package attachment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/google/uuid"

	"github.com/mpavlovs/attachd/internal/common"
	"github.com/mpavlovs/attachd/internal/filex"
	"github.com/mpavlovs/attachd/internal/storage"
)

// Config is the explicit per-model configuration handed to the manager at
// construction. There is no ambient class-level state.
type Config struct {
	Constraints Constraints

	// PathPrefix namespaces all storage keys written by this manager.
	PathPrefix string

	// StagingDir is where temp files are created. "" means os.TempDir().
	StagingDir string

	// Thumbnails maps variant names to "WxH" geometries. Variants are
	// rendered for image attachments only and stored next to the parent.
	Thumbnails map[string]string
}

// Manager drives attachments through the lifecycle
// unmodified → staged → validated → persisted → deleted. The owning code
// invokes Assign, Save and Destroy at well-defined points; there are no
// implicit callbacks.
type Manager struct {
	cfg     Config
	backend storage.Backend
}

func NewManager(cfg Config, backend storage.Backend) (*Manager, error) {
	if backend == nil {
		return nil, errors.New("storage backend is required")
	}

	if cfg.StagingDir != "" {
		dir, err := filex.EnsureDir(cfg.StagingDir)
		if err != nil {
			return nil, err
		}
		cfg.StagingDir = dir
	}

	for name, geom := range cfg.Thumbnails {
		if _, err := parseGeometry(geom); err != nil {
			return nil, fmt.Errorf("thumbnail %q: %w", name, err)
		}
	}

	return &Manager{cfg: cfg, backend: backend}, nil
}

// Assign stages an upload as the new current version of the attachment.
// Zero-length input is a no-op: the record keeps its previous filename,
// content type and size, and nothing is staged.
func (m *Manager) Assign(a *Attachment, up Upload) error {
	if a.state == StateDeleted {
		return common.ErrInvalidTransition
	}

	if closer, ok := up.Body.(io.Closer); ok {
		defer closer.Close()
	}

	if up.Size <= 0 || up.Body == nil {
		return nil
	}

	tmp, err := os.CreateTemp(m.cfg.StagingDir, "attachd-*")
	if err != nil {
		return &common.AttachmentError{Op: "stage", Err: err}
	}
	tmpPath := tmp.Name()

	// Keep the leading bytes for signature-based detection while streaming
	// the rest straight to the temp file.
	head := &headBuffer{limit: sniffLen}
	written, err := io.Copy(tmp, io.TeeReader(up.Body, head))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return &common.AttachmentError{Op: "stage", Err: err}
	}

	// The declared size lied and the payload was actually empty.
	if written == 0 {
		_ = os.Remove(tmpPath)
		return nil
	}

	name := SanitizeFilename(up.Filename)
	if name == "" {
		name = "unnamed"
	}

	a.Filename = name
	a.ContentType = ResolveContentType(up.ContentType, name, head.buf)
	a.Size = written
	a.stage(tmpPath)
	a.state = StateStaged

	return nil
}

// Validate checks the staged record against the constraint set. On success
// a staged record advances to validated.
func (m *Manager) Validate(a *Attachment) ValidationErrors {
	errs := m.cfg.Constraints.Validate(a)
	if len(errs) == 0 && a.state == StateStaged {
		a.state = StateValidated
	}
	return errs
}

// Save persists the current staged version to the backend. With nothing
// staged it is a no-op, so repeated saves write at most once per staged
// generation. Validation failures block the write (the returned error is a
// ValidationErrors value). On success the staged list is cleared and the
// record is persisted.
func (m *Manager) Save(ctx context.Context, a *Attachment) error {
	if a.state == StateDeleted {
		return common.ErrInvalidTransition
	}

	if !a.HasStagedData() {
		return nil
	}

	if errs := m.Validate(a); len(errs) > 0 {
		return errs
	}

	if a.keyID == "" {
		a.keyID = uuid.New().String()
	}
	key := path.Join(m.cfg.PathPrefix, a.keyID, a.Filename)

	src, err := os.Open(a.StagedPath())
	if err != nil {
		return &common.AttachmentError{Op: "open staged data", Err: err}
	}

	_, err = m.backend.Store(ctx, key, src)
	_ = src.Close()
	if err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}

	if err := m.storeThumbnails(ctx, a, key); err != nil {
		return err
	}

	// A rename changed the key: drop the previously stored object.
	if a.StorageKey != "" && a.StorageKey != key {
		if err := m.deleteStored(ctx, a.StorageKey); err != nil {
			return err
		}
	}

	a.StorageKey = key
	a.state = StatePersisted
	return a.clearStaged()
}

// Destroy removes the stored object (and its thumbnails) and retires the
// record. Staged temp files are always released.
func (m *Manager) Destroy(ctx context.Context, a *Attachment) error {
	if err := a.clearStaged(); err != nil {
		return err
	}

	if a.StorageKey != "" {
		if err := m.deleteStored(ctx, a.StorageKey); err != nil {
			return err
		}
	}

	a.state = StateDeleted
	return nil
}

// Retrieve opens the persisted bytes of the record.
func (m *Manager) Retrieve(ctx context.Context, a *Attachment) (io.ReadCloser, error) {
	if a.StorageKey == "" {
		return nil, storage.ErrNotExist
	}
	return m.backend.Retrieve(ctx, a.StorageKey)
}

func (m *Manager) deleteStored(ctx context.Context, key string) error {
	if err := m.backend.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	for name := range m.cfg.Thumbnails {
		tk := thumbnailKey(key, name)
		if err := m.backend.Delete(ctx, tk); err != nil && !errors.Is(err, storage.ErrNotExist) {
			return fmt.Errorf("delete %s: %w", tk, err)
		}
	}
	return nil
}

func (m *Manager) storeThumbnails(ctx context.Context, a *Attachment, key string) error {
	if len(m.cfg.Thumbnails) == 0 || !isImage(a.ContentType) {
		return nil
	}

	for name, geom := range m.cfg.Thumbnails {
		g, err := parseGeometry(geom)
		if err != nil {
			return &common.ThumbnailError{Name: name, Err: err}
		}

		src, err := os.Open(a.StagedPath())
		if err != nil {
			return &common.ThumbnailError{Name: name, Err: err}
		}
		data, err := renderThumbnail(src, g)
		_ = src.Close()
		if err != nil {
			return &common.ThumbnailError{Name: name, Err: err}
		}

		if _, err := m.backend.Store(ctx, thumbnailKey(key, name), bytes.NewReader(data)); err != nil {
			return fmt.Errorf("store thumbnail %s: %w", name, err)
		}
	}
	return nil
}

// headBuffer captures up to limit leading bytes from a tee'd stream.
type headBuffer struct {
	buf   []byte
	limit int
}

func (h *headBuffer) Write(p []byte) (int, error) {
	if remaining := h.limit - len(h.buf); remaining > 0 {
		if len(p) > remaining {
			h.buf = append(h.buf, p[:remaining]...)
		} else {
			h.buf = append(h.buf, p...)
		}
	}
	return len(p), nil
}
