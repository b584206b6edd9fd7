package gpuselect

import (
	"reflect"
	"testing"
)

func TestBuildPlan(t *testing.T) {
	tests := []struct {
		name   string
		report CapabilityReport
		want   []QueueRequest
	}{
		{
			name:   "shared family",
			report: CapabilityReport{GraphicsFamily: intPtr(2), PresentationRequested: true, PresentationFamily: intPtr(2)},
			want: []QueueRequest{
				{FamilyIndex: 2, QueueCount: 1, Priorities: []float32{1.0}, Roles: []Role{RoleGraphics, RolePresentation}},
			},
		},
		{
			name:   "distinct families",
			report: CapabilityReport{GraphicsFamily: intPtr(0), PresentationRequested: true, PresentationFamily: intPtr(3)},
			want: []QueueRequest{
				{FamilyIndex: 0, QueueCount: 1, Priorities: []float32{1.0}, Roles: []Role{RoleGraphics}},
				{FamilyIndex: 3, QueueCount: 1, Priorities: []float32{1.0}, Roles: []Role{RolePresentation}},
			},
		},
		{
			name:   "ascending order",
			report: CapabilityReport{GraphicsFamily: intPtr(4), PresentationRequested: true, PresentationFamily: intPtr(1)},
			want: []QueueRequest{
				{FamilyIndex: 1, QueueCount: 1, Priorities: []float32{1.0}, Roles: []Role{RolePresentation}},
				{FamilyIndex: 4, QueueCount: 1, Priorities: []float32{1.0}, Roles: []Role{RoleGraphics}},
			},
		},
		{
			name:   "headless",
			report: CapabilityReport{GraphicsFamily: intPtr(1)},
			want: []QueueRequest{
				{FamilyIndex: 1, QueueCount: 1, Priorities: []float32{1.0}, Roles: []Role{RoleGraphics}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPlan(&tt.report)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildPlan() = %+v, want %+v", got, tt.want)
			}
			if again := BuildPlan(&tt.report); !reflect.DeepEqual(got, again) {
				t.Errorf("BuildPlan() not deterministic: %+v then %+v", got, again)
			}
		})
	}
}

func TestRole_String(t *testing.T) {
	if RoleGraphics.String() != "graphics" || RolePresentation.String() != "presentation" {
		t.Errorf("unexpected role names %s, %s", RoleGraphics, RolePresentation)
	}
	if Role(9).String() != "unknown" {
		t.Errorf("Role(9) = %s", Role(9))
	}
}
