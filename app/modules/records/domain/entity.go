package recordsdomain

// Entity is implemented by every named reference record.
type Entity interface {
	EntityID() int
	EntityName() string
}

// Record constrains a pointer to an entity type so generic collections can assign ids
// and hand out copies.
type Record[T any] interface {
	*T
	Entity
	SetEntityID(id int)
	Clone() T
}

// Activatable is implemented by records carrying an isActive flag.
type Activatable interface {
	Active() bool
	SetActive(active bool)
}

// Archivable is implemented by records carrying an isArchived flag.
type Archivable interface {
	Archived() bool
	SetArchived(archived bool)
}

// isActive treats a missing flag as active.
func isActive(flag *bool) bool { return flag == nil || *flag }

func boolPtr(v bool) *bool { return &v }

func (m Map) EntityID() int       { return m.ID }
func (m Map) EntityName() string  { return m.Name }
func (m *Map) SetEntityID(id int) { m.ID = id }
func (m Map) Archived() bool      { return m.IsArchived }
func (m *Map) SetArchived(v bool) { m.IsArchived = v }

func (g Ghost) EntityID() int       { return g.ID }
func (g Ghost) EntityName() string  { return g.Name }
func (g *Ghost) SetEntityID(id int) { g.ID = id }

func (e Evidence) EntityID() int       { return e.ID }
func (e Evidence) EntityName() string  { return e.Name }
func (e *Evidence) SetEntityID(id int) { e.ID = id }
func (e Evidence) Active() bool        { return isActive(e.IsActive) }
func (e *Evidence) SetActive(v bool)   { e.IsActive = boolPtr(v) }

func (c CursedPossession) EntityID() int       { return c.ID }
func (c CursedPossession) EntityName() string  { return c.Name }
func (c *CursedPossession) SetEntityID(id int) { c.ID = id }
func (c CursedPossession) Active() bool        { return isActive(c.IsActive) }
func (c *CursedPossession) SetActive(v bool)   { c.IsActive = boolPtr(v) }

func (g GameMode) EntityID() int       { return g.ID }
func (g GameMode) EntityName() string  { return g.Name }
func (g *GameMode) SetEntityID(id int) { g.ID = id }
func (g GameMode) Active() bool        { return isActive(g.IsActive) }
func (g *GameMode) SetActive(v bool)   { g.IsActive = boolPtr(v) }

func (p Player) EntityID() int       { return p.ID }
func (p Player) EntityName() string  { return p.Name }
func (p *Player) SetEntityID(id int) { p.ID = id }
func (p Player) Active() bool        { return isActive(p.IsActive) }

// SetActive flips the flag. An inactive player cannot stay a default player.
func (p *Player) SetActive(v bool) {
	p.IsActive = boolPtr(v)
	if !v {
		p.IsDefault = false
	}
}

func (c MapCollection) EntityID() int       { return c.ID }
func (c MapCollection) EntityName() string  { return c.Name }
func (c *MapCollection) SetEntityID(id int) { c.ID = id }
func (c MapCollection) Active() bool        { return isActive(c.IsActive) }
func (c *MapCollection) SetActive(v bool)   { c.IsActive = boolPtr(v) }

func (c ChallengeMode) EntityID() int       { return c.ID }
func (c ChallengeMode) EntityName() string  { return c.Name }
func (c *ChallengeMode) SetEntityID(id int) { c.ID = id }
func (c ChallengeMode) Archived() bool      { return c.IsArchived }
func (c *ChallengeMode) SetArchived(v bool) { c.IsArchived = v }

// NextID returns max(existing ids)+1, or 1 for an empty collection.
func NextID[T any, P Record[T]](items []T) int {
	maxID := 0
	for i := range items {
		if id := P(&items[i]).EntityID(); id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// NextRunID is NextID for runs, which have no name.
func NextRunID(runs []Run) int {
	maxID := 0
	for _, r := range runs {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	return maxID + 1
}
