package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avoronov/tinyapp/internal/models"
	"github.com/avoronov/tinyapp/internal/user"
)

func TestAuthorize(t *testing.T) {
	owner := &user.User{ID: "userRandomID", Email: "user@example.com"}
	stranger := &user.User{ID: "user2RandomID", Email: "user2@example.com"}
	record := &models.URLRecord{LongURL: "http://www.lighthouselabs.ca", OwnerID: owner.ID}

	testCases := []struct {
		name      string
		requester *user.User
		record    *models.URLRecord
		expected  error
	}{
		{
			name:      "absent record beats anonymous requester",
			requester: nil,
			record:    nil,
			expected:  models.ErrNotFound,
		},
		{
			name:      "absent record beats owner",
			requester: owner,
			record:    nil,
			expected:  models.ErrNotFound,
		},
		{
			name:      "anonymous requester on an existing record",
			requester: nil,
			record:    record,
			expected:  models.ErrUnauthenticated,
		},
		{
			name:      "authenticated non-owner",
			requester: stranger,
			record:    record,
			expected:  models.ErrForbidden,
		},
		{
			name:      "owner is allowed",
			requester: owner,
			record:    record,
			expected:  nil,
		},
	}

	for _, action := range []Action{ActionView, ActionEdit, ActionDelete} {
		for _, testCase := range testCases {
			t.Run(string(action)+" "+testCase.name, func(t *testing.T) {
				err := Authorize(action, testCase.requester, testCase.record)
				if testCase.expected == nil {
					assert.NoError(t, err)
					return
				}
				assert.ErrorIs(t, err, testCase.expected)
			})
		}
	}
}
