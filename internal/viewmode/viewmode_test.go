package viewmode

import (
	"net/url"
	"testing"

	"rooming-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_Cycles(t *testing.T) {
	assert.Equal(t, OneRow, Expanded.Next())
	assert.Equal(t, Collapsed, OneRow.Next())
	assert.Equal(t, Expanded, Collapsed.Next())
	assert.Equal(t, Expanded, Mode("bogus").Next())
}

func TestParse(t *testing.T) {
	m, err := Parse("ONEROW")
	require.NoError(t, err)
	assert.Equal(t, OneRow, m)

	_, err = Parse("hidden")
	assert.Error(t, err)
}

func TestModes_ThreeTogglesReturnToExpanded(t *testing.T) {
	m := New()
	m.Observe("E1")
	assert.Equal(t, Expanded, m.Get("E1"))

	assert.Equal(t, OneRow, m.Toggle("E1"))
	assert.Equal(t, Collapsed, m.Toggle("E1"))
	assert.Equal(t, Expanded, m.Toggle("E1"))
}

func TestModes_ObserveKeepsExisting(t *testing.T) {
	m := New()
	m.Set("E1", Collapsed)
	m.Observe("E1", "E2")

	assert.Equal(t, Collapsed, m.Get("E1"))
	assert.Equal(t, Expanded, m.Get("E2"))
	assert.Equal(t, Expanded, m.Get("never-seen"))
}

func TestModes_SetAllOverwrites(t *testing.T) {
	m := New()
	m.Set("E1", OneRow)
	m.Set("gone", OneRow)
	m.SetAll(Collapsed, "E1", "E2")

	assert.Equal(t, Collapsed, m.Get("E1"))
	assert.Equal(t, Collapsed, m.Get("E2"))
	assert.Equal(t, Expanded, m.Get("gone"))
}

func TestURLRoundTrip(t *testing.T) {
	v, err := url.ParseQuery("view=E1:collapsed&view=urn:evt:7:oneRow&view=bad&view=E9:nope&search=x")
	require.NoError(t, err)

	m := FromValues(v)
	assert.Equal(t, Collapsed, m.Get("E1"))
	assert.Equal(t, OneRow, m.Get(domain.ID("urn:evt:7")))
	assert.Equal(t, Expanded, m.Get("E9"))

	m.Set("E2", Expanded)
	out := url.Values{"search": {"x"}}
	m.Apply(out)
	assert.Equal(t, []string{"E1:collapsed", "urn:evt:7:oneRow"}, out["view"])
	assert.Equal(t, "x", out.Get("search"))
}

func TestClone_IsIndependent(t *testing.T) {
	m := New()
	m.Set("E1", OneRow)
	c := m.Clone()
	c.Toggle("E1")

	assert.Equal(t, OneRow, m.Get("E1"))
	assert.Equal(t, Collapsed, c.Get("E1"))
}

func TestModes_InvalidModeIgnored(t *testing.T) {
	m := New()
	m.Set("E1", Collapsed)
	m.Set("E1", Mode("sideways"))
	assert.Equal(t, Collapsed, m.Get("E1"))

	m.SetAll(Mode(""), "E1", "E2")
	assert.Equal(t, Collapsed, m.Get("E1"))
	assert.False(t, Mode("ONEROW").Valid())
	assert.True(t, OneRow.Valid())
}
