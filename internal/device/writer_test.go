package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/tweakrestore/internal/plistdoc"
)

type restoreCall struct {
	udid    string
	domain  string
	relPath string
	data    []byte
}

type fakeRestorer struct {
	calls   []restoreCall
	status  int
	message string
}

func (f *fakeRestorer) RestoreFile(udid, domain, relPath string, data []byte) int {
	f.calls = append(f.calls, restoreCall{udid: udid, domain: domain, relPath: relPath, data: data})
	return f.status
}

func (f *fakeRestorer) LastErrorMessage() string {
	return f.message
}

func TestSparseWriter_Targets(t *testing.T) {
	r := &fakeRestorer{}
	w := NewSparseWriter(r)

	assert.Equal(t, StatusOK, w.WriteCapabilities("dev-1", []byte("caps")))
	assert.Equal(t, StatusOK, w.WriteUIPreferences("dev-1", []byte("ui")))
	assert.Equal(t, StatusOK, w.WriteFile("", HomeDomain, StatusBarPath, []byte("bar")))

	require.Len(t, r.calls, 3)
	assert.Equal(t, restoreCall{"dev-1", CapabilitiesDomain, CapabilitiesPath, []byte("caps")}, r.calls[0])
	assert.Equal(t, restoreCall{"dev-1", HomeDomain, UIPreferencesPath, []byte("ui")}, r.calls[1])
	assert.Equal(t, restoreCall{"", HomeDomain, StatusBarPath, []byte("bar")}, r.calls[2])
}

func TestSparseWriter_DisableService(t *testing.T) {
	r := &fakeRestorer{}
	w := NewSparseWriter(r)

	require.Equal(t, StatusOK, w.DisableService("", "com.apple.tipsd"))
	require.Len(t, r.calls, 1)

	call := r.calls[0]
	assert.Equal(t, LaunchdDomain, call.domain)
	assert.Equal(t, "Library/LaunchDaemons/com.apple.tipsd.plist", call.relPath)

	doc, err := plistdoc.Decode(call.data)
	require.NoError(t, err)
	assert.Equal(t, true, doc["Disabled"])
}

func TestSparseWriter_DisableServiceRejectsTraversal(t *testing.T) {
	r := &fakeRestorer{}
	w := NewSparseWriter(r)

	for _, svc := range []string{"", ".", "..", "../evil", "a/b", `a\b`, "com..x"} {
		assert.Equal(t, StatusInvalidArgument, w.DisableService("", svc), "service %q", svc)
	}
	assert.Empty(t, r.calls)
}

func TestSparseWriter_ForwardsStatusAndMessage(t *testing.T) {
	r := &fakeRestorer{status: StatusNoDevice, message: "no device attached"}
	w := NewSparseWriter(r)

	assert.Equal(t, StatusNoDevice, w.WriteCapabilities("", nil))
	assert.Equal(t, "no device attached", w.LastErrorMessage())
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "ok", StatusText(StatusOK))
	assert.Equal(t, "lockdown failed", StatusText(StatusLockdownFailed))
	assert.Equal(t, "status 99", StatusText(99))
}
