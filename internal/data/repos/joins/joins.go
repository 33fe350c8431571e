// Package joins stores ordered reference lists as (owner, ref, position)
// rows. Insertion is set-add: a ref already linked to an owner stays where it is.
package joins

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Table struct {
	Name     string
	OwnerCol string
	RefCol   string
}

var (
	CourseLessons         = Table{Name: "course_lesson", OwnerCol: "course_id", RefCol: "lesson_id"}
	CourseExercises       = Table{Name: "course_exercise", OwnerCol: "course_id", RefCol: "exercise_id"}
	CourseCategories      = Table{Name: "course_category", OwnerCol: "course_id", RefCol: "category_id"}
	CourseRecommendations = Table{Name: "course_recommendation", OwnerCol: "course_id", RefCol: "recommended_id"}
	LessonContents        = Table{Name: "lesson_content_link", OwnerCol: "lesson_id", RefCol: "content_id"}
	LessonExercises       = Table{Name: "lesson_exercise", OwnerCol: "lesson_id", RefCol: "exercise_id"}
)

type link struct {
	OwnerID  uuid.UUID `gorm:"column:owner_id"`
	RefID    uuid.UUID `gorm:"column:ref_id"`
	Position int       `gorm:"column:position"`
}

func (tbl Table) links(t *gorm.DB) *gorm.DB {
	return t.Table(tbl.Name).Select(fmt.Sprintf("%s AS owner_id, %s AS ref_id, position", tbl.OwnerCol, tbl.RefCol))
}

// Refs returns the refs of owner in position order.
func Refs(t *gorm.DB, tbl Table, owner uuid.UUID) ([]uuid.UUID, error) {
	var rows []link
	if err := tbl.links(t).
		Where(tbl.OwnerCol+" = ?", owner).
		Order("position ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.RefID)
	}
	return out, nil
}

// RefsByOwners batches Refs. Every requested owner is present in the result.
func RefsByOwners(t *gorm.DB, tbl Table, owners []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	out := make(map[uuid.UUID][]uuid.UUID, len(owners))
	for _, o := range owners {
		out[o] = []uuid.UUID{}
	}
	if len(owners) == 0 {
		return out, nil
	}
	var rows []link
	if err := tbl.links(t).
		Where(tbl.OwnerCol+" IN ?", owners).
		Order(tbl.OwnerCol + " ASC, position ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.OwnerID] = append(out[r.OwnerID], r.RefID)
	}
	return out, nil
}

// Owners returns every owner that lists ref.
func Owners(t *gorm.DB, tbl Table, ref uuid.UUID) ([]uuid.UUID, error) {
	var rows []link
	if err := tbl.links(t).Where(tbl.RefCol+" = ?", ref).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.OwnerID)
	}
	return out, nil
}

func Has(t *gorm.DB, tbl Table, owner, ref uuid.UUID) (bool, error) {
	var n int64
	if err := t.Table(tbl.Name).
		Where(tbl.OwnerCol+" = ? AND "+tbl.RefCol+" = ?", owner, ref).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func Count(t *gorm.DB, tbl Table, owner uuid.UUID) (int64, error) {
	var n int64
	err := t.Table(tbl.Name).Where(tbl.OwnerCol+" = ?", owner).Count(&n).Error
	return n, err
}

// Append set-adds refs after the current last position.
func Append(t *gorm.DB, tbl Table, owner uuid.UUID, refs []uuid.UUID) error {
	refs = dedupe(refs)
	if owner == uuid.Nil || len(refs) == 0 {
		return nil
	}
	var top struct {
		Max *int `gorm:"column:max_pos"`
	}
	if err := t.Table(tbl.Name).
		Select("MAX(position) AS max_pos").
		Where(tbl.OwnerCol+" = ?", owner).
		Scan(&top).Error; err != nil {
		return err
	}
	next := 0
	if top.Max != nil {
		next = *top.Max + 1
	}
	rows := make([]map[string]any, 0, len(refs))
	for i, ref := range refs {
		rows = append(rows, map[string]any{
			tbl.OwnerCol: owner,
			tbl.RefCol:   ref,
			"position":   next + i,
		})
	}
	return t.Table(tbl.Name).Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error
}

// InsertAt places ref at index and shifts later refs. A ref already present
// is left in place.
func InsertAt(t *gorm.DB, tbl Table, owner, ref uuid.UUID, index int) error {
	current, err := Refs(t, tbl, owner)
	if err != nil {
		return err
	}
	for _, r := range current {
		if r == ref {
			return nil
		}
	}
	if index < 0 || index > len(current) {
		return fmt.Errorf("index %d out of range [0,%d]", index, len(current))
	}
	next := make([]uuid.UUID, 0, len(current)+1)
	next = append(next, current[:index]...)
	next = append(next, ref)
	next = append(next, current[index:]...)
	return Replace(t, tbl, owner, next)
}

// Replace rewrites the whole ordered list of owner.
func Replace(t *gorm.DB, tbl Table, owner uuid.UUID, refs []uuid.UUID) error {
	if err := RemoveOwner(t, tbl, owner); err != nil {
		return err
	}
	return Append(t, tbl, owner, refs)
}

func Remove(t *gorm.DB, tbl Table, owner, ref uuid.UUID) error {
	return t.Exec(
		fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND %s = ?", tbl.Name, tbl.OwnerCol, tbl.RefCol),
		owner, ref,
	).Error
}

// RemoveRef pulls refs from every owner that lists them.
func RemoveRef(t *gorm.DB, tbl Table, refs ...uuid.UUID) (int64, error) {
	if len(refs) == 0 {
		return 0, nil
	}
	res := t.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s IN ?", tbl.Name, tbl.RefCol), refs)
	return res.RowsAffected, res.Error
}

func RemoveOwner(t *gorm.DB, tbl Table, owners ...uuid.UUID) error {
	if len(owners) == 0 {
		return nil
	}
	return t.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s IN ?", tbl.Name, tbl.OwnerCol), owners).Error
}

func dedupe(in []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(in))
	out := make([]uuid.UUID, 0, len(in))
	for _, id := range in {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
