//go:build test_unit

package player_test

import (
	"testing"

	"github.com/adaleix/go-canto/metadata"
	"github.com/adaleix/go-canto/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestEmptyAllowedListRestrictsEverywhere(t *testing.T) {
	rules := []*metadata.Restriction{{CountriesAllowed: str("")}}

	assert.True(t, player.IsRestricted(rules, "US"))
	assert.True(t, player.IsRestricted(rules, "DE"))

	// even a country on the forbidden list is blocked by the sentinel
	rules = []*metadata.Restriction{{CountriesAllowed: str(""), CountriesForbidden: str("US")}}
	assert.True(t, player.IsRestricted(rules, "US"))
	assert.True(t, player.IsRestricted(rules, "SE"))
}

func TestAllowedListHitWinsOverForbidden(t *testing.T) {
	rules := []*metadata.Restriction{{CountriesAllowed: str("USGB"), CountriesForbidden: str("US")}}

	assert.False(t, player.IsRestricted(rules, "US"))
	assert.False(t, player.IsRestricted(rules, "GB"))
}

func TestAllowedListMissFallsThroughToForbidden(t *testing.T) {
	rules := []*metadata.Restriction{{CountriesAllowed: str("USGB"), CountriesForbidden: str("DE")}}

	assert.True(t, player.IsRestricted(rules, "DE"))
	assert.False(t, player.IsRestricted(rules, "FR"))

	// a miss in a non-empty allowed list alone does not restrict
	rules = []*metadata.Restriction{{CountriesAllowed: str("USGB")}}
	assert.False(t, player.IsRestricted(rules, "DE"))
}

func TestForbiddenListOnly(t *testing.T) {
	rules := []*metadata.Restriction{{CountriesForbidden: str("DEFR")}}

	assert.True(t, player.IsRestricted(rules, "DE"))
	assert.True(t, player.IsRestricted(rules, "FR"))
	assert.False(t, player.IsRestricted(rules, "US"))
}

func TestAnyRuleRestricts(t *testing.T) {
	rules := []*metadata.Restriction{
		{CountriesForbidden: str("SE")},
		{CountriesForbidden: str("DE")},
	}

	assert.True(t, player.IsRestricted(rules, "DE"))
	assert.True(t, player.IsRestricted(rules, "SE"))
	assert.False(t, player.IsRestricted(rules, "US"))
}

func TestMalformedListNeverMatches(t *testing.T) {
	// trailing odd byte is ignored
	rules := []*metadata.Restriction{{CountriesForbidden: str("DEF")}}
	assert.True(t, player.IsRestricted(rules, "DE"))
	assert.False(t, player.IsRestricted(rules, "EF"))

	rules = []*metadata.Restriction{{CountriesForbidden: str("X")}}
	assert.False(t, player.IsRestricted(rules, "XX"))
}

func TestNoRules(t *testing.T) {
	assert.False(t, player.IsRestricted(nil, "US"))
}

func TestFindAllowedAlternative(t *testing.T) {
	track := &metadata.Track{
		Restrictions: []*metadata.Restriction{{CountriesAllowed: str("")}},
		Alternatives: []*metadata.Track{
			{Gid: []byte{1}, Restrictions: []*metadata.Restriction{{CountriesForbidden: str("US")}}},
			{Gid: []byte{2}, Restrictions: []*metadata.Restriction{{CountriesForbidden: str("DE")}}},
			{Gid: []byte{3}},
		},
	}

	// first allowed alternative wins, in listed order
	id, ok := player.FindAllowedAlternative(track, "US")
	require.True(t, ok)
	assert.Equal(t, "02", id.Hex())

	id, ok = player.FindAllowedAlternative(track, "DE")
	require.True(t, ok)
	assert.Equal(t, "01", id.Hex())
}

func TestFindAllowedAlternativeAbsent(t *testing.T) {
	// no alternatives at all
	_, ok := player.FindAllowedAlternative(&metadata.Track{}, "US")
	assert.False(t, ok)

	// all alternatives restricted
	track := &metadata.Track{
		Alternatives: []*metadata.Track{
			{Gid: []byte{1}, Restrictions: []*metadata.Restriction{{CountriesAllowed: str("")}}},
		},
	}
	_, ok = player.FindAllowedAlternative(track, "US")
	assert.False(t, ok)

	// the qualifying alternative has no gid
	track = &metadata.Track{
		Alternatives: []*metadata.Track{
			{Restrictions: []*metadata.Restriction{{CountriesForbidden: str("DE")}}},
		},
	}
	_, ok = player.FindAllowedAlternative(track, "US")
	assert.False(t, ok)
}
