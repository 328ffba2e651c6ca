package sqlite

import (
	"fmt"
	"log/slog"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kanban/internal/repository"
)

const (
	defaultBusyTimeout   = 5 * time.Second
	defaultSlowThreshold = 200 * time.Millisecond
)

// Repository implements repository.Store using GORM over SQLite
type Repository struct {
	db  *gorm.DB
	now func() time.Time
	log *slog.Logger

	busyTimeout   time.Duration
	slowThreshold time.Duration
	logQueries    bool
}

// Option configures a Repository
type Option func(*Repository)

// WithClock sets the time source used for work item timestamps
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the logger that receives database diagnostics
func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.log = l
		}
	}
}

// WithBusyTimeout sets how long SQLite waits on a locked database
func WithBusyTimeout(d time.Duration) Option {
	return func(r *Repository) {
		if d > 0 {
			r.busyTimeout = d
		}
	}
}

// WithSlowThreshold sets the duration above which queries are logged as slow.
// Zero disables slow query logging.
func WithSlowThreshold(d time.Duration) Option {
	return func(r *Repository) {
		r.slowThreshold = d
	}
}

// WithQueryLogging logs every statement at debug level
func WithQueryLogging(on bool) Option {
	return func(r *Repository) {
		r.logQueries = on
	}
}

// New opens (creating if needed) the SQLite database at dbPath and migrates the schema
func New(dbPath string, opts ...Option) (*Repository, error) {
	repo := &Repository{
		now:           time.Now,
		log:           slog.Default(),
		busyTimeout:   defaultBusyTimeout,
		slowThreshold: defaultSlowThreshold,
	}
	for _, opt := range opts {
		opt(repo)
	}

	level := logger.Warn
	if repo.logQueries {
		level = logger.Info
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_foreign_keys=on",
		dbPath, repo.busyTimeout.Milliseconds())

	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{
		Logger:  newGormLogger(repo.log, repo.slowThreshold).LogMode(level),
		NowFunc: repo.clock,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database handle: %w", err)
	}
	// SQLite serializes writers; one connection keeps :memory: databases coherent too
	sqlDB.SetMaxOpenConns(1)

	repo.db = db
	if err := repo.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	return r.db.AutoMigrate(&userModel{}, &tagModel{}, &workItemModel{})
}

// clock returns the current time in UTC
func (r *Repository) clock() time.Time {
	return r.now().UTC()
}

// Users returns the user repository
func (r *Repository) Users() repository.UserRepository {
	return &userStore{db: r.db}
}

// Tags returns the tag repository
func (r *Repository) Tags() repository.TagRepository {
	return &tagStore{db: r.db}
}

// WorkItems returns the work item repository
func (r *Repository) WorkItems() repository.WorkItemRepository {
	return &workItemStore{db: r.db, now: r.clock}
}

// Close closes the database connection
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ repository.Store = (*Repository)(nil)
