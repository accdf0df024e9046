package planner

import (
	"testing"

	"github.com/danieljhkim/tweakrestore/internal/catalog"
	"github.com/danieljhkim/tweakrestore/internal/value"
)

func TestNewPlan(t *testing.T) {
	plan := NewPlan()

	if plan.PatchSets == nil {
		t.Error("expected PatchSets to be initialized")
	}
	if plan.ServicesToDisable == nil {
		t.Error("expected ServicesToDisable to be initialized")
	}
	if !plan.IsEmpty() {
		t.Error("expected new plan to be empty")
	}
	if plan.StageCount() != 0 {
		t.Errorf("expected 0 stages, got %d", plan.StageCount())
	}
}

func TestPlan_StageCount(t *testing.T) {
	tests := []struct {
		name     string
		sets     map[catalog.StoreKind]value.PatchSet
		services []string
		want     int
	}{
		{
			name: "no changes",
			want: 0,
		},
		{
			name: "one store",
			sets: map[catalog.StoreKind]value.PatchSet{
				catalog.StoreSystemUI: {"SBHideDock": value.Bool(true)},
			},
			want: 1,
		},
		{
			name: "empty store is not a stage",
			sets: map[catalog.StoreKind]value.PatchSet{
				catalog.StoreSystemUI:  {"SBHideDock": value.Bool(true)},
				catalog.StoreStatusBar: {},
			},
			want: 1,
		},
		{
			name: "stores and services",
			sets: map[catalog.StoreKind]value.PatchSet{
				catalog.StoreDeviceCapabilities: {"k": value.Bool(true)},
				catalog.StoreSystemUI:           {"k": value.Bool(true)},
				catalog.StoreStatusBar:          {"k": value.String("x")},
			},
			services: []string{"com.vendor.a", "com.vendor.b"},
			want:     5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := NewPlan()
			for store, set := range tt.sets {
				plan.PatchSets[store] = set
			}
			plan.ServicesToDisable = tt.services

			if got := plan.StageCount(); got != tt.want {
				t.Errorf("StageCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPlan_PatchSetEmptyIsNil(t *testing.T) {
	plan := NewPlan()
	plan.PatchSets[catalog.StoreStatusBar] = value.PatchSet{}

	if plan.PatchSet(catalog.StoreStatusBar) != nil {
		t.Error("expected nil patch set for empty store")
	}
	if plan.Has(catalog.StoreStatusBar) {
		t.Error("expected Has to be false for empty store")
	}
}
