//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateProjectRequest_Validation(t *testing.T) {
	valid := CreateProjectRequest{UserID: 1, Title: "Landing page", Budget: 500}
	assert.NoError(t, valid.Validate())

	withStatus := valid
	withStatus.Status = ProjectCompleted
	assert.NoError(t, withStatus.Validate())

	badStatus := valid
	badStatus.Status = "paused"
	assert.Error(t, badStatus.Validate())

	noTitle := valid
	noTitle.Title = ""
	assert.Error(t, noTitle.Validate())

	negative := valid
	negative.Budget = -10
	assert.Error(t, negative.Validate())
}

func TestCreateTimeLogRequest_Validation(t *testing.T) {
	valid := CreateTimeLogRequest{UserID: 1, ProjectID: 2, Hours: 3.5, DateLogged: "2024-06-01"}
	assert.NoError(t, valid.Validate())

	tooMany := valid
	tooMany.Hours = 25
	assert.Error(t, tooMany.Validate())

	zero := valid
	zero.Hours = 0
	assert.Error(t, zero.Validate())

	badDate := valid
	badDate.DateLogged = "06/01/2024"
	assert.Error(t, badDate.Validate())

	noProject := valid
	noProject.ProjectID = 0
	assert.Error(t, noProject.Validate())
}

func TestGenerateProposalRequest_Validation(t *testing.T) {
	assert.NoError(t, (&GenerateProposalRequest{UserID: 1, JobID: 9}).Validate())
	assert.Error(t, (&GenerateProposalRequest{UserID: 1}).Validate())
	assert.Error(t, (&GenerateProposalRequest{JobID: 9}).Validate())
}

func TestCommunicationRequest_Validation(t *testing.T) {
	valid := CommunicationRequest{UserID: 1, MessageType: "negotiation", ClientMessage: "Can you do it for less?"}
	assert.NoError(t, valid.Validate())

	unknownType := valid
	unknownType.MessageType = "spam"
	assert.Error(t, unknownType.Validate())

	empty := valid
	empty.ClientMessage = ""
	assert.Error(t, empty.Validate())
}

func TestCommunicationResponse_Text(t *testing.T) {
	assert.Equal(t, "Sure!", (&CommunicationResponse{Suggestion: "Sure!"}).Text())
	assert.Equal(t, "Maybe", (&CommunicationResponse{Communication: &ClientCommunication{AISuggestion: "Maybe"}}).Text())
	assert.Equal(t, "", (&CommunicationResponse{}).Text())

	var nilResp *CommunicationResponse
	assert.Equal(t, "", nilResp.Text())
}
