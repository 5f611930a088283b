package persist

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Store errors
var (
	// ErrNotFound indicates that no block is stored under the requested name.
	ErrNotFound = errors.New("persist: block not found")

	// ErrNoStore indicates Options that name neither a path nor a backend.
	ErrNoStore = errors.New("persist: no store configured")
)

// Store keeps encoded sequences as named blocks grouped in folders.
type Store interface {
	// Set stores data for a block within a folder, replacing any previous data.
	Set(folder, block string, data []byte) error

	// Get retrieves data for a block within a folder.
	Get(folder, block string) ([]byte, error)

	// Delete removes a block from a folder.
	Delete(folder, block string) error
}

// Options configures Open.
type Options struct {
	// Path is a directory for a FileStore.
	// Either this or Backend must be provided.
	Path string

	// Backend is a custom store implementation. It takes precedence over Path.
	Backend Store

	// Logger receives save and load events. Nil means no logging.
	Logger *slog.Logger
}

// Catalog saves and loads sequences through a Store.
type Catalog struct {
	store Store
	log   *slog.Logger
}

// Open returns a Catalog over the store described by options.
func Open(options Options) (*Catalog, error) {
	c := &Catalog{store: options.Backend, log: options.Logger}
	if c.log == nil {
		c.log = slog.New(slog.DiscardHandler)
	}
	if c.store == nil {
		if options.Path == "" {
			return nil, ErrNoStore
		}
		c.store = NewFileStore(options.Path)
	}
	return c, nil
}

// Store returns the underlying store.
func (c *Catalog) Store() Store {
	return c.store
}

// Save encodes src and stores it as folder/block. Nothing is stored if the
// source changes while it is encoded.
func Save[T any](c *Catalog, folder, block string, src Source[T]) error {
	var buf bytes.Buffer
	if err := Encode(&buf, src); err != nil {
		return err
	}
	if err := c.store.Set(folder, block, buf.Bytes()); err != nil {
		return fmt.Errorf("persist: save %s/%s: %w", folder, block, err)
	}
	c.log.Debug("saved sequence",
		slog.String("folder", folder),
		slog.String("block", block),
		slog.Int("count", src.Size()),
		slog.Int("bytes", buf.Len()))
	return nil
}

// Load reads folder/block and replaces the contents of dst with it.
func Load[T any](c *Catalog, folder, block string, dst Sink[T]) error {
	data, err := c.store.Get(folder, block)
	if err != nil {
		return fmt.Errorf("persist: load %s/%s: %w", folder, block, err)
	}
	if err := Decode(bytes.NewReader(data), dst); err != nil {
		return err
	}
	c.log.Debug("loaded sequence",
		slog.String("folder", folder),
		slog.String("block", block),
		slog.Int("bytes", len(data)))
	return nil
}

// Delete removes folder/block from the store.
func (c *Catalog) Delete(folder, block string) error {
	return c.store.Delete(folder, block)
}

// fileSystem is the slice of file operations a FileStore needs.
type fileSystem interface {
	WriteFile(name string, data []byte) error
	ReadFile(name string) ([]byte, error)
	MkdirAll(path string) error
	Remove(name string) error
	Rmdir(path string) error
}

// localFileSystem implements fileSystem on the local disk.
type localFileSystem struct{}

func (localFileSystem) WriteFile(name string, data []byte) error {
	return os.WriteFile(name, data, 0644)
}

func (localFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (localFileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func (localFileSystem) Remove(name string) error {
	return os.Remove(name)
}

func (localFileSystem) Rmdir(path string) error {
	// os.Remove only removes empty directories when given a directory path
	return os.Remove(path)
}

// FileStore is a Store that keeps each block in its own file under
// basePath/folder.
type FileStore struct {
	fs       fileSystem
	basePath string
}

// NewFileStore returns a FileStore rooted at basePath.
func NewFileStore(basePath string) *FileStore {
	return &FileStore{fs: localFileSystem{}, basePath: basePath}
}

func (s *FileStore) Set(folder, block string, data []byte) error {
	dir := filepath.Join(s.basePath, folder)
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	return s.fs.WriteFile(filepath.Join(dir, block), data)
}

func (s *FileStore) Get(folder, block string) ([]byte, error) {
	data, err := s.fs.ReadFile(filepath.Join(s.basePath, folder, block))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *FileStore) Delete(folder, block string) error {
	err := s.fs.Remove(filepath.Join(s.basePath, folder, block))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

// DeleteFolder removes an empty folder.
func (s *FileStore) DeleteFolder(folder string) error {
	return s.fs.Rmdir(filepath.Join(s.basePath, folder))
}

// MemoryStore is a Store held in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	blocks map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blocks: make(map[string][]byte)}
}

func memoryKey(folder, block string) string {
	return folder + "/" + block
}

func (s *MemoryStore) Set(folder, block string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[memoryKey(folder, block)] = bytes.Clone(data)
	return nil
}

func (s *MemoryStore) Get(folder, block string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blocks[memoryKey(folder, block)]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(data), nil
}

func (s *MemoryStore) Delete(folder, block string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := memoryKey(folder, block)
	if _, ok := s.blocks[key]; !ok {
		return ErrNotFound
	}
	delete(s.blocks, key)
	return nil
}
