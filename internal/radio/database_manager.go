package radio

import (
	"log/slog"
	"sync"

	"github.com/dabradio/dabradio/internal/database"
)

const (
	cooldownMax          = 10
	forceUpdateThreshold = 50
)

// DatabaseManager owns the stable, publishable snapshot of the ensemble
// database, deciding when the live (constantly-mutating) database is quiet
// enough to publish. Grounded on Basic_Database_Manager's force-update /
// cooldown policy: a burst of more than 50 updates publishes immediately;
// otherwise it waits for 10 consecutive quiet frames before publishing.
type DatabaseManager struct {
	mu sync.RWMutex

	stable    database.Database
	liveStats database.Statistics
	stableStats database.Statistics

	awaitingUpdate bool
	cooldown       int
}

// NewDatabaseManager creates an empty database manager.
func NewDatabaseManager() *DatabaseManager {
	return &DatabaseManager{stable: *database.New()}
}

// OnDatabaseUpdate is called once per processed frame with the live
// database and its updater. It returns true when a new stable snapshot was
// published.
func (m *DatabaseManager) OnDatabaseUpdate(db *database.Database, updater *database.Updater) bool {
	currStats := updater.Stats()
	changed := currStats != m.liveStats
	m.liveStats = currStats

	delta := m.liveStats.Updates - m.stableStats.Updates
	if delta > forceUpdateThreshold {
		slog.Debug("force updating ensemble database", "delta", delta)
		m.publish(db)
		return true
	}

	if changed {
		m.awaitingUpdate = true
		m.cooldown = 0
		return false
	}

	if m.awaitingUpdate {
		m.cooldown++
		slog.Debug("database cooldown", "cooldown", m.cooldown, "max", cooldownMax)
	}

	if m.cooldown != cooldownMax {
		return false
	}

	slog.Debug("slow updating ensemble database")
	m.publish(db)
	return true
}

func (m *DatabaseManager) publish(db *database.Database) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stable = db.Snapshot()
	m.stableStats = m.liveStats
	m.awaitingUpdate = false
	m.cooldown = 0
}

// Snapshot returns the last-published stable database.
func (m *DatabaseManager) Snapshot() database.Database {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stable
}

// Stats returns the last-published stable statistics.
func (m *DatabaseManager) Stats() database.Statistics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stableStats
}
