package persistence

import (
	"fmt"
	"sync"

	"github.com/pdh8788/club/domain"
	"gorm.io/gorm"
)

// DialectorOpener is an alias for a function that returns a gorm.Dialector for a given DSN.
type DialectorOpener = func(string) gorm.Dialector

var (
	registryMu sync.RWMutex
	openers    = make(map[string]DialectorOpener)
)

// Register adds a database driver to the registry under the given name.
func Register(name string, opener DialectorOpener) {
	registryMu.Lock()
	defer registryMu.Unlock()
	openers[name] = opener
}

// NewStorage opens the named database and returns a migrated Repository.
func NewStorage(name string, dsn string, cfg *gorm.Config) (domain.Storage, error) {
	registryMu.RLock()
	opener, ok := openers[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("persistence: unknown storage provider %q", name)
	}

	if cfg == nil {
		cfg = &gorm.Config{}
	}

	db, err := gorm.Open(opener(dsn), cfg)
	if err != nil {
		return nil, err
	}

	repo := NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		return nil, err
	}

	return repo, nil
}
