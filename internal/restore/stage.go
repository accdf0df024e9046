package restore

import (
	"fmt"

	"github.com/danieljhkim/tweakrestore/internal/catalog"
	"github.com/danieljhkim/tweakrestore/internal/device"
	"github.com/danieljhkim/tweakrestore/internal/planner"
	"github.com/danieljhkim/tweakrestore/internal/plistdoc"
)

// Fixed progress checkpoints reported during tunnel bring-up. Stages share
// what is left of the range.
const (
	TunnelStartWeight = 0.05
	TunnelReadyWeight = 0.10

	// StageBudget is the progress range shared by all stages.
	StageBudget = 1.0 - TunnelStartWeight - TunnelReadyWeight
)

// Stage is one unit of orchestrated work.
type Stage struct {
	Weight float64
	Label  string
	Action func() error
}

// Document is a file a stage writes to the device.
type Document struct {
	Store   catalog.StoreKind
	Label   string
	Domain  string
	Path    string
	Service string
	Data    []byte
}

// target describes what one stage produces and where it goes. Stages and dry
// runs are both built from the same target list.
type target struct {
	store   catalog.StoreKind
	label   string
	domain  string
	path    string
	service string
	render  func() ([]byte, error)
	write   func(w device.Writer, udid string, data []byte) int
}

// targets lists the work for plan in stage order. Empty stores produce no
// target.
func targets(plan *planner.Plan, snapshot []byte) []target {
	var out []target

	if patch := plan.PatchSet(catalog.StoreDeviceCapabilities); patch != nil {
		out = append(out, target{
			store:  catalog.StoreDeviceCapabilities,
			label:  "Patching " + catalog.StoreDeviceCapabilities.Label(),
			domain: device.CapabilitiesDomain,
			path:   device.CapabilitiesPath,
			render: func() ([]byte, error) { return plistdoc.PatchNestedOrRoot(snapshot, patch) },
			write: func(w device.Writer, udid string, data []byte) int {
				return w.WriteCapabilities(udid, data)
			},
		})
	}
	if patch := plan.PatchSet(catalog.StoreSystemUI); patch != nil {
		out = append(out, target{
			store:  catalog.StoreSystemUI,
			label:  "Writing " + catalog.StoreSystemUI.Label(),
			domain: device.HomeDomain,
			path:   device.UIPreferencesPath,
			render: func() ([]byte, error) { return plistdoc.BuildFromScratch(patch) },
			write: func(w device.Writer, udid string, data []byte) int {
				return w.WriteUIPreferences(udid, data)
			},
		})
	}
	if patch := plan.PatchSet(catalog.StoreStatusBar); patch != nil {
		out = append(out, target{
			store:  catalog.StoreStatusBar,
			label:  "Writing " + catalog.StoreStatusBar.Label(),
			domain: device.HomeDomain,
			path:   device.StatusBarPath,
			render: func() ([]byte, error) { return plistdoc.BuildFromScratch(patch) },
			write: func(w device.Writer, udid string, data []byte) int {
				return w.WriteFile(udid, device.HomeDomain, device.StatusBarPath, data)
			},
		})
	}
	for _, service := range plan.ServicesToDisable {
		out = append(out, target{
			store:   catalog.StoreServiceControl,
			label:   "Disabling " + service,
			domain:  device.LaunchdDomain,
			path:    device.ServiceOverridePath(service),
			service: service,
			render:  plistdoc.DisabledOverride,
			write: func(w device.Writer, udid string, _ []byte) int {
				return w.DisableService(udid, service)
			},
		})
	}
	return out
}

// Weights splits StageBudget across n stages. The last weight absorbs
// floating point remainder so the weights always add up to the budget.
func Weights(n int) []float64 {
	if n <= 0 {
		return nil
	}
	weights := make([]float64, n)
	each := StageBudget / float64(n)
	sum := 0.0
	for i := 0; i < n-1; i++ {
		weights[i] = each
		sum += each
	}
	weights[n-1] = StageBudget - sum
	return weights
}

// buildStages turns targets into weighted stages that render, write and
// check the device status. written is called with each document the device
// accepted.
func buildStages(ts []target, w device.Writer, udid string, written func(Document)) []Stage {
	weights := Weights(len(ts))
	stages := make([]Stage, len(ts))
	for i, t := range ts {
		stages[i] = Stage{
			Weight: weights[i],
			Label:  t.label,
			Action: func() error {
				data, err := t.render()
				if err != nil {
					return err
				}
				if status := t.write(w, udid, data); status != device.StatusOK {
					return statusError(status, describeTarget(t), lastMessage(w))
				}
				if written != nil {
					written(documentFor(t, data))
				}
				return nil
			},
		}
	}
	return stages
}

func describeTarget(t target) string {
	if t.service != "" {
		return fmt.Sprintf("disable %s", t.service)
	}
	return fmt.Sprintf("write %s", t.store.Label())
}

func lastMessage(w device.Writer) string {
	if r, ok := w.(device.ErrorReporter); ok {
		return r.LastErrorMessage()
	}
	return ""
}
