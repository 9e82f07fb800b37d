package dataset

import (
	"fmt"
	"strings"
)

// Role names a lifestyle metric that may or may not be present in a dataset.
type Role string

const (
	RoleStudyHours  Role = "study_hours"
	RoleSleepHours  Role = "sleep_hours"
	RolePhoneUsage  Role = "phone_usage"
	RoleSocialMedia Role = "social_media"
	RoleGaming      Role = "gaming"
	RoleExercise    Role = "exercise"
)

var (
	// productivityCandidates are matched case-insensitively, in priority order.
	productivityCandidates = []string{"productivity_score", "productivity"}
	// socialMediaCandidates are matched exactly, in priority order.
	socialMediaCandidates = []string{"social_media_hours", "social_media_usage"}
)

// lifestyleRoles lists each role with its exact-match column candidates, in display order.
var lifestyleRoles = []struct {
	role  Role
	names []string
}{
	{RoleStudyHours, []string{"study_hours_per_day"}},
	{RoleSleepHours, []string{"sleep_hours"}},
	{RolePhoneUsage, []string{"phone_usage_hours"}},
	{RoleSocialMedia, socialMediaCandidates},
	{RoleGaming, []string{"gaming_hours"}},
	{RoleExercise, []string{"exercise_minutes"}},
}

// ResolveOptions controls column role resolution.
type ResolveOptions struct {
	// Strict fails instead of falling back to the last column when no
	// productivity candidate matches.
	Strict bool
}

// RoleColumn binds a lifestyle role to the column that carries it.
type RoleColumn struct {
	Role   Role
	Column string
}

// ColumnRoles is the resolved mapping of semantic roles to column names.
// Productivity is always set; lifestyle roles are nil when absent.
type ColumnRoles struct {
	Productivity string
	// Fallback is true when Productivity was taken from the last column.
	Fallback bool

	StudyHours  *string
	SleepHours  *string
	PhoneUsage  *string
	SocialMedia *string
	Gaming      *string
	Exercise    *string

	// Notes lists roles that matched a column but were excluded.
	Notes []string
}

// Lifestyle returns the present lifestyle roles in display order.
func (r *ColumnRoles) Lifestyle() []RoleColumn {
	var out []RoleColumn
	for _, lr := range lifestyleRoles {
		if col := r.get(lr.role); col != nil {
			out = append(out, RoleColumn{Role: lr.role, Column: *col})
		}
	}
	return out
}

func (r *ColumnRoles) get(role Role) *string {
	switch role {
	case RoleStudyHours:
		return r.StudyHours
	case RoleSleepHours:
		return r.SleepHours
	case RolePhoneUsage:
		return r.PhoneUsage
	case RoleSocialMedia:
		return r.SocialMedia
	case RoleGaming:
		return r.Gaming
	case RoleExercise:
		return r.Exercise
	}
	return nil
}

func (r *ColumnRoles) set(role Role, col string) {
	switch role {
	case RoleStudyHours:
		r.StudyHours = &col
	case RoleSleepHours:
		r.SleepHours = &col
	case RolePhoneUsage:
		r.PhoneUsage = &col
	case RoleSocialMedia:
		r.SocialMedia = &col
	case RoleGaming:
		r.Gaming = &col
	case RoleExercise:
		r.Exercise = &col
	}
}

// ResolveRoles maps semantic roles onto the table's columns. Only the
// productivity role can fail: it must resolve to a numeric column.
func ResolveRoles(t *Table, opt ResolveOptions) (*ColumnRoles, error) {
	if t == nil || len(t.Columns) == 0 {
		return nil, &SchemaError{Reason: "table has no columns"}
	}
	if t.Len() == 0 {
		return nil, &SchemaError{Reason: ReasonNoCompleteRows}
	}
	roles := &ColumnRoles{}

	prod, ok := matchFold(t, productivityCandidates)
	if !ok {
		if opt.Strict {
			return nil, &SchemaError{Reason: fmt.Sprintf("no productivity column (looked for %s)", strings.Join(productivityCandidates, ", "))}
		}
		prod = t.Columns[len(t.Columns)-1].Name
		roles.Fallback = true
	}
	if c, _ := t.Column(prod); !c.IsNumeric() {
		return nil, &SchemaError{Reason: fmt.Sprintf("productivity column %q is not numeric", prod)}
	}
	roles.Productivity = prod

	for _, lr := range lifestyleRoles {
		for _, name := range lr.names {
			c, ok := t.Column(name)
			if !ok {
				continue
			}
			if !c.IsNumeric() {
				roles.Notes = append(roles.Notes, fmt.Sprintf("%s is not numeric; excluded from group means", name))
				continue
			}
			roles.set(lr.role, name)
			break
		}
	}
	return roles, nil
}

// matchFold returns the first column matching the highest-priority candidate,
// comparing names case-insensitively.
func matchFold(t *Table, candidates []string) (string, bool) {
	for _, cand := range candidates {
		for _, c := range t.Columns {
			if strings.EqualFold(c.Name, cand) {
				return c.Name, true
			}
		}
	}
	return "", false
}
