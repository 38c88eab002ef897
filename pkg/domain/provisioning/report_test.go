package provisioning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/laborhours/api/pkg/domain/shared"
)

func TestCreateReport_SummaryAccountsForEveryRow(t *testing.T) {
	r := NewCreateReport()
	r.AddCreated("a@example.com", shared.NewID(), "pw")
	r.AddCreated("b@example.com", shared.NewID(), "pw")
	r.AddDuplicate("c@example.com", "email already exists")
	r.AddError("d@example.com", "database unavailable")
	r.Finalize()

	assert.True(t, r.Success)
	assert.Equal(t, 4, r.Summary.Total)
	assert.Equal(t, 2, r.Summary.Created)
	assert.Equal(t, 1, r.Summary.Duplicates)
	assert.Equal(t, 1, r.Summary.Errors)
	assert.Equal(t, r.Summary.Total, r.Summary.Created+r.Summary.Duplicates+r.Summary.Errors)
}

func TestCreateReport_EmptyBatch(t *testing.T) {
	r := NewCreateReport()
	r.Finalize()

	assert.True(t, r.Success)
	assert.Equal(t, 0, r.Summary.Total)
	assert.NotNil(t, r.Results.Created)
	assert.NotNil(t, r.Results.Duplicates)
	assert.NotNil(t, r.Results.Errors)
}

func TestDeleteReport_Blocked(t *testing.T) {
	admins := []shared.ID{shared.NewID(), shared.NewID()}
	r := NewDeleteReport(3)
	r.Block(admins)

	assert.False(t, r.Success)
	assert.Equal(t, 3, r.Summary.Total)
	assert.Equal(t, 2, r.Summary.Blocked)
	assert.Empty(t, r.Results.Deleted)
	assert.Empty(t, r.Results.Failed)
	assert.Equal(t, admins, r.Results.BlockedAdmins)
}

func TestDeleteReport_Finalize(t *testing.T) {
	r := NewDeleteReport(3)
	r.AddDeleted(shared.NewID())
	r.AddDeleted(shared.NewID())
	r.AddFailed(shared.NewID(), "row locked")
	r.Finalize()

	assert.True(t, r.Success)
	assert.Equal(t, 3, r.Summary.Total)
	assert.Equal(t, 2, r.Summary.Deleted)
	assert.Equal(t, 1, r.Summary.Failed)
	assert.Equal(t, 0, r.Summary.Blocked)
}
