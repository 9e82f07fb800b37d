package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// numericTable builds a one-row table whose columns are all numeric except
// names listed in categorical.
func numericTable(cols []string, categorical ...string) *Table {
	cat := map[string]bool{}
	for _, c := range categorical {
		cat[c] = true
	}
	t := &Table{}
	for _, name := range cols {
		c := &Column{Name: name, Kind: KindNumeric, Values: []string{"1"}, Nums: []float64{1}}
		if cat[name] {
			c.Kind, c.Values, c.Nums = KindCategorical, []string{"x"}, nil
		}
		t.Columns = append(t.Columns, c)
	}
	return t
}

func TestResolveProductivityPriority(t *testing.T) {
	tbl := numericTable([]string{"productivity", "sleep_hours", "Productivity_Score", "other"})
	roles, err := ResolveRoles(tbl, ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Productivity_Score", roles.Productivity)
	assert.False(t, roles.Fallback)
}

func TestResolveProductivityCaseInsensitive(t *testing.T) {
	roles, err := ResolveRoles(numericTable([]string{"a", "PRODUCTIVITY", "b"}), ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "PRODUCTIVITY", roles.Productivity)
}

func TestResolveProductivityFallsBackToLastColumn(t *testing.T) {
	roles, err := ResolveRoles(numericTable([]string{"study_hours_per_day", "output_rating", "focus"}), ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "focus", roles.Productivity)
	assert.True(t, roles.Fallback)
}

func TestResolveStrictRejectsFallback(t *testing.T) {
	_, err := ResolveRoles(numericTable([]string{"a", "b"}), ResolveOptions{Strict: true})
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Reason, "no productivity column")
}

func TestResolveNonNumericProductivity(t *testing.T) {
	_, err := ResolveRoles(numericTable([]string{"a", "label"}, "label"), ResolveOptions{})
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Reason, `"label" is not numeric`)
}

func TestResolveEmptyTable(t *testing.T) {
	_, err := ResolveRoles(&Table{}, ResolveOptions{})
	var se *SchemaError
	require.ErrorAs(t, err, &se)
}

func TestResolveSocialMediaPriority(t *testing.T) {
	roles, err := ResolveRoles(numericTable([]string{"social_media_usage", "social_media_hours", "productivity_score"}), ResolveOptions{})
	require.NoError(t, err)
	require.NotNil(t, roles.SocialMedia)
	assert.Equal(t, "social_media_hours", *roles.SocialMedia)

	roles, err = ResolveRoles(numericTable([]string{"social_media_usage", "productivity_score"}), ResolveOptions{})
	require.NoError(t, err)
	require.NotNil(t, roles.SocialMedia)
	assert.Equal(t, "social_media_usage", *roles.SocialMedia)
}

func TestResolveSocialMediaSkipsNonNumericCandidate(t *testing.T) {
	tbl := numericTable([]string{"social_media_hours", "social_media_usage", "productivity_score"}, "social_media_hours")
	roles, err := ResolveRoles(tbl, ResolveOptions{})
	require.NoError(t, err)
	require.NotNil(t, roles.SocialMedia)
	assert.Equal(t, "social_media_usage", *roles.SocialMedia)
	require.Len(t, roles.Notes, 1)
	assert.Contains(t, roles.Notes[0], "social_media_hours is not numeric")
}

func TestResolveLifestyleRolesDropSilently(t *testing.T) {
	tbl := numericTable([]string{"exercise_minutes", "sleep_hours", "gaming_hours", "productivity_score"}, "gaming_hours")
	roles, err := ResolveRoles(tbl, ResolveOptions{})
	require.NoError(t, err)

	assert.Nil(t, roles.StudyHours)
	assert.Nil(t, roles.PhoneUsage)
	assert.Nil(t, roles.SocialMedia)
	assert.Nil(t, roles.Gaming)
	assert.Equal(t, []RoleColumn{
		{Role: RoleSleepHours, Column: "sleep_hours"},
		{Role: RoleExercise, Column: "exercise_minutes"},
	}, roles.Lifestyle())
	require.Len(t, roles.Notes, 1)
	assert.Contains(t, roles.Notes[0], "gaming_hours")
}

func TestResolveFullSchema(t *testing.T) {
	tbl := numericTable([]string{
		"study_hours_per_day", "sleep_hours", "phone_usage_hours", "social_media_hours",
		"gaming_hours", "exercise_minutes", "productivity_score",
	})
	roles, err := ResolveRoles(tbl, ResolveOptions{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, "productivity_score", roles.Productivity)
	var got []Role
	for _, rc := range roles.Lifestyle() {
		got = append(got, rc.Role)
	}
	assert.Equal(t, []Role{RoleStudyHours, RoleSleepHours, RolePhoneUsage, RoleSocialMedia, RoleGaming, RoleExercise}, got)
}
