package dashboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceSettle_Ordering(t *testing.T) {
	failure := errors.New("backend unavailable")

	tests := []struct {
		name       string
		apply      func(r *Resource[[]string]) // dispatches 1 and 2, then settles
		wantData   []string
		wantLoaded bool
		wantStatus ResourceStatus
		wantErr    error
	}{
		{
			name: "newer success wins over older success",
			apply: func(r *Resource[[]string]) {
				r.settle(2, []string{"new"}, nil)
				r.settle(1, []string{"old"}, nil)
			},
			wantData: []string{"new"}, wantLoaded: true, wantStatus: ResourceReady,
		},
		{
			name: "older success after newer failure is kept",
			apply: func(r *Resource[[]string]) {
				r.settle(2, nil, failure)
				r.settle(1, []string{"old"}, nil)
			},
			wantData: []string{"old"}, wantLoaded: true, wantStatus: ResourceFailed, wantErr: failure,
		},
		{
			name: "older failure after newer success is ignored",
			apply: func(r *Resource[[]string]) {
				r.settle(2, []string{"new"}, nil)
				r.settle(1, nil, failure)
			},
			wantData: []string{"new"}, wantLoaded: true, wantStatus: ResourceReady,
		},
		{
			name: "newer success clears older failure",
			apply: func(r *Resource[[]string]) {
				r.settle(1, nil, failure)
				r.settle(2, []string{"new"}, nil)
			},
			wantData: []string{"new"}, wantLoaded: true, wantStatus: ResourceReady,
		},
		{
			name: "both fail",
			apply: func(r *Resource[[]string]) {
				r.settle(1, nil, failure)
				r.settle(2, nil, failure)
			},
			wantStatus: ResourceFailed, wantErr: failure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Resource[[]string]
			r.dispatch(1)
			r.dispatch(2)
			tt.apply(&r)

			assert.Equal(t, tt.wantLoaded, r.Loaded)
			assert.Equal(t, tt.wantData, r.Data)
			assert.Equal(t, tt.wantStatus, r.Status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, r.Err, tt.wantErr)
			} else {
				assert.NoError(t, r.Err)
			}
		})
	}
}

func TestResourceSettle_StalePendingStatus(t *testing.T) {
	var r Resource[[]string]
	r.dispatch(1)
	r.dispatch(2)

	require.True(t, r.settle(1, []string{"old"}, nil))
	assert.True(t, r.Loaded)
	assert.Equal(t, ResourcePending, r.Status, "the newer fetch is still in flight")

	assert.False(t, r.settle(1, []string{"again"}, nil))
}
