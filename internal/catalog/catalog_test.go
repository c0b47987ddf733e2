package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeedLoads(t *testing.T) {
	c := Default()

	require.NotEmpty(t, c.Services)
	require.NotEmpty(t, c.Technicians)
	require.NotEmpty(t, c.Addresses)

	tech, ok := c.TechnicianByEmail("tech@example.com")
	require.True(t, ok)
	assert.Equal(t, "tech-1", tech.ID)
}

func TestParseRejectsUnknownSpecialty(t *testing.T) {
	raw := []byte(`
services:
  - id: a
technicians:
  - id: t
    specialties: [b]
`)
	_, err := Parse(raw)
	assert.Error(t, err)
}

func TestParseRejectsJobForUnknownTechnician(t *testing.T) {
	raw := []byte(`
services:
  - id: a
technicians:
  - id: t
    specialties: [a]
jobs:
  - {id: j, technician_id: ghost, service_id: a}
`)
	_, err := Parse(raw)
	assert.Error(t, err)
}

func TestTechniciansForSortsByRating(t *testing.T) {
	techs := Default().TechniciansFor("svc-plumbing")
	require.NotEmpty(t, techs)

	for i := 1; i < len(techs); i++ {
		assert.GreaterOrEqual(t, techs[i-1].Rating, techs[i].Rating)
	}
	for _, tech := range techs {
		assert.True(t, tech.Offers("svc-plumbing"))
	}
}

func TestFindServices(t *testing.T) {
	c := Default()
	max := 90.0

	got := c.FindServices(ServiceQuery{MaxPrice: &max, Sort: "price_asc"})
	require.NotEmpty(t, got)
	for i, s := range got {
		assert.LessOrEqual(t, s.Price, max)
		if i > 0 {
			assert.LessOrEqual(t, got[i-1].Price, s.Price)
		}
	}

	got = c.FindServices(ServiceQuery{Category: "PLUMBING"})
	require.Len(t, got, 1)
	assert.Equal(t, "svc-plumbing", got[0].ID)

	got = c.FindServices(ServiceQuery{Search: "drain"})
	require.Len(t, got, 1)
}

func TestFindUsers(t *testing.T) {
	c := Default()

	techs := c.FindUsers(UserQuery{Role: "technician"})
	require.NotEmpty(t, techs)
	for _, u := range techs {
		assert.Equal(t, "technician", u.Role)
	}

	all := c.FindUsers(UserQuery{Role: "all"})
	assert.Len(t, all, len(c.Users))

	got := c.FindUsers(UserQuery{Search: "KAREN"})
	require.Len(t, got, 1)
	assert.Equal(t, "karen.lee@example.com", got[0].Email)
}

func TestFindJobs(t *testing.T) {
	c := Default()

	pending := c.FindJobs(JobQuery{Status: "pending"})
	for _, j := range pending {
		assert.Equal(t, "pending", j.Status)
	}

	byService := c.FindJobs(JobQuery{Search: "handyman"})
	require.NotEmpty(t, byService)
	for _, j := range byService {
		assert.Equal(t, "svc-handyman", j.ServiceID)
	}

	sorted := c.FindJobs(JobQuery{})
	for i := 1; i < len(sorted); i++ {
		assert.GreaterOrEqual(t, sorted[i-1].Date, sorted[i].Date)
	}
}

func TestFindJobs_ScopedToTechnician(t *testing.T) {
	c := Default()

	mine := c.FindJobs(JobQuery{TechnicianID: "tech-2"})
	require.Len(t, mine, 2)
	for _, j := range mine {
		assert.Equal(t, "tech-2", j.TechnicianID)
	}

	all := c.FindJobs(JobQuery{})
	assert.Len(t, all, len(c.Jobs))
	assert.Greater(t, len(all), len(mine))
}
