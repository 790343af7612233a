package skills

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrDuplicateCategory = errors.New("duplicate skill category")
	ErrDuplicateSkill    = errors.New("duplicate skill")
	ErrUnknownCategory   = errors.New("unknown skill category")
	ErrInvalidStage      = errors.New("invalid skill stage")
)

// Builder collects categories and skills before the database is frozen.
// Categories must be registered before the skills that use them.
type Builder struct {
	categories    map[CategoryID]Category
	skills        map[SkillID]Skill
	skillCategory map[SkillID]CategoryID
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		categories:    make(map[CategoryID]Category),
		skills:        make(map[SkillID]Skill),
		skillCategory: make(map[SkillID]CategoryID),
	}
}

// RegisterCategory adds a category.
func (b *Builder) RegisterCategory(c Category) error {
	if _, ok := b.categories[c.ID]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateCategory, c.ID)
	}
	b.categories[c.ID] = c
	return nil
}

// RegisterSkill adds a skill to an existing category.
func (b *Builder) RegisterSkill(category CategoryID, s Skill) error {
	if _, ok := b.skills[s.ID]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateSkill, s.ID)
	}
	if _, ok := b.categories[category]; !ok {
		return fmt.Errorf("%w: %d (skill %d)", ErrUnknownCategory, category, s.ID)
	}
	for i, st := range s.Stages {
		if st.Action.Kind != StageImpact {
			continue
		}
		for _, idx := range st.Action.Impact {
			if idx < 0 || idx >= len(s.Actions) {
				return fmt.Errorf("%w: skill %d stage %d references action %d of %d",
					ErrInvalidStage, s.ID, i, idx, len(s.Actions))
			}
		}
	}
	s.Category = category
	b.skills[s.ID] = s
	b.skillCategory[s.ID] = category
	return nil
}

// Build freezes the registered skills into a database.
func (b *Builder) Build() *DB {
	db := &DB{
		categories: make(map[CategoryID]Category, len(b.categories)),
		skills:     make(map[SkillID]Skill, len(b.skills)),
	}
	for id, c := range b.categories {
		db.categories[id] = c
	}
	for id, s := range b.skills {
		db.skills[id] = s.Clone()
	}
	return db
}

// DB is the immutable skill database.
type DB struct {
	categories map[CategoryID]Category
	skills     map[SkillID]Skill
}

// Skill returns a copy of a registered skill. Skill ids only ever come from
// the database itself, so an unknown id panics.
func (db *DB) Skill(id SkillID) Skill {
	s, ok := db.skills[id]
	if !ok {
		panic(fmt.Sprintf("skills: unknown skill id %d", id))
	}
	return s.Clone()
}

// Category returns a registered category, panicking on an unknown id.
func (db *DB) Category(id CategoryID) Category {
	c, ok := db.categories[id]
	if !ok {
		panic(fmt.Sprintf("skills: unknown category id %d", id))
	}
	return c
}

// Lookup returns a skill if it is registered.
func (db *DB) Lookup(id SkillID) (Skill, bool) {
	s, ok := db.skills[id]
	if !ok {
		return Skill{}, false
	}
	return s.Clone(), true
}

// CategoryOf returns the category a skill was registered under.
func (db *DB) CategoryOf(id SkillID) CategoryID {
	s, ok := db.skills[id]
	if !ok {
		panic(fmt.Sprintf("skills: unknown skill id %d", id))
	}
	return s.Category
}

// SkillsIn returns the ids of every skill in a category, ascending.
func (db *DB) SkillsIn(category CategoryID) []SkillID {
	var ids []SkillID
	for id, s := range db.skills {
		if s.Category == category {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of registered skills.
func (db *DB) Len() int {
	return len(db.skills)
}
