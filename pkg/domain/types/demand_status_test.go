package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/opsdesk/demandflow/pkg/domain/types"
)

func TestDemandStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status types.DemandStatus
		want   bool
	}{
		{
			name:   "valid backlog",
			status: types.DemandStatusBacklog,
			want:   true,
		},
		{
			name:   "valid completed",
			status: types.DemandStatusCompleted,
			want:   true,
		},
		{
			name:   "invalid status",
			status: types.DemandStatus("invalid"),
			want:   false,
		},
		{
			name:   "empty status",
			status: types.DemandStatus(""),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.B(t, tt.status.IsValid()).True()
			} else {
				gt.B(t, tt.status.IsValid()).False()
			}
		})
	}
}

func TestDemandStatus_IsTerminal(t *testing.T) {
	for _, s := range types.AllDemandStatuses() {
		terminal := s == types.DemandStatusCompleted || s == types.DemandStatusArchived
		gt.Value(t, s.IsTerminal()).Equal(terminal)
	}
}

func TestDemandStatus_Normalize(t *testing.T) {
	gt.Value(t, types.DemandStatus("").Normalize()).Equal(types.DemandStatusBacklog)
	gt.Value(t, types.DemandStatusBlocked.Normalize()).Equal(types.DemandStatusBlocked)
}

func TestParseDemandStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.DemandStatus
		wantErr bool
	}{
		{
			name:    "valid in progress",
			input:   "IN_PROGRESS",
			want:    types.DemandStatusInProgress,
			wantErr: false,
		},
		{
			name:    "valid archived",
			input:   "ARCHIVED",
			want:    types.DemandStatusArchived,
			wantErr: false,
		},
		{
			name:    "lowercase rejected",
			input:   "backlog",
			wantErr: true,
		},
		{
			name:    "empty rejected",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseDemandStatus(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestAllDemandStatuses(t *testing.T) {
	all := types.AllDemandStatuses()
	gt.Number(t, len(all)).Equal(12)
	for _, s := range all {
		gt.B(t, s.IsValid()).True()
	}
}
