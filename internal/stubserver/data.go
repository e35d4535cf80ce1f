// Package stubserver implements an in-memory reference backend for the
// waste-management HTTP contract. It backs cmd/stubserver for local
// development and the end-to-end tests.
package stubserver

import (
	"sync"

	"github.com/google/uuid"

	"github.com/osanchezp/ecotrack/internal/models"
)

// Data is the mutable in-memory state behind the stub backend.
type Data struct {
	mu sync.Mutex

	// users maps email to password.
	users map[string]string
	// tokens maps issued token to the owning email.
	tokens map[string]string

	nextID    int64
	dumpsters []models.Dumpster
	plants    []models.RecyclingPlant
	// usage maps dumpster ID to its history.
	usage map[int64][]models.UsageRecord
	// capacities maps plant name, then date string, to available capacity.
	capacities map[string]map[string]int
}

// NewData returns an empty dataset.
func NewData() *Data {
	return &Data{
		users:      make(map[string]string),
		tokens:     make(map[string]string),
		nextID:     1,
		usage:      make(map[int64][]models.UsageRecord),
		capacities: make(map[string]map[string]int),
	}
}

// AddUser registers a login credential pair.
func (d *Data) AddUser(email, password string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[email] = password
}

// AddPlant registers a recycling plant.
func (d *Data) AddPlant(p models.RecyclingPlant) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.plants = append(d.plants, p)
}

// AddDumpster registers a dumpster, assigning it an ID, and returns it.
func (d *Data) AddDumpster(dumpster models.Dumpster) models.Dumpster {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addDumpsterLocked(dumpster)
}

func (d *Data) addDumpsterLocked(dumpster models.Dumpster) models.Dumpster {
	id := d.nextID
	d.nextID++
	dumpster.ID = &id
	d.dumpsters = append(d.dumpsters, dumpster)
	return dumpster
}

// AddUsage appends a usage record for a dumpster.
func (d *Data) AddUsage(record models.UsageRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.usage[record.DumpsterID] = append(d.usage[record.DumpsterID], record)
}

// SetCapacity records a plant's available capacity for a date.
func (d *Data) SetCapacity(plantName string, date models.Date, capacity int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	byDate := d.capacities[plantName]
	if byDate == nil {
		byDate = make(map[string]int)
		d.capacities[plantName] = byDate
	}
	byDate[date.String()] = capacity
}

// login issues a token when the credentials match.
func (d *Data) login(email, password string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	stored, ok := d.users[email]
	if !ok || stored != password {
		return "", false
	}
	token := uuid.NewString()
	d.tokens[token] = email
	return token, true
}

// logout revokes a token.
func (d *Data) logout(token string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.tokens[token]; !ok {
		return false
	}
	delete(d.tokens, token)
	return true
}

// validToken reports whether a token is currently issued.
func (d *Data) validToken(token string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.tokens[token]
	return ok
}
