package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionStrings(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.NotEmpty(t, Revision)

	assert.Contains(t, Short(), Version)
	assert.Contains(t, Short(), Revision)
	assert.True(t, strings.HasPrefix(ShortWithApp(), AppName+" "))

	detailed := Detailed()
	assert.Contains(t, detailed, Version)
	assert.Contains(t, detailed, "/")
}

func TestFillFromBuildInfo(t *testing.T) {
	origVersion, origRevision, origBuildDate := Version, Revision, BuildDate
	t.Cleanup(func() {
		Version, Revision, BuildDate = origVersion, origRevision, origBuildDate
	})

	Version = devVersion
	Revision = "HEAD"
	BuildDate = ""

	fillFromBuildInfo("v1.2.3", map[string]string{
		"vcs.revision": "abcdef1234567890",
		"vcs.modified": "true",
		"vcs.time":     "2025-12-12T01:00:00Z",
	})

	assert.Equal(t, "1.2.3", Version)
	assert.Equal(t, "abcdef123456-dirty", Revision)
	assert.Equal(t, "2025-12-12T01:00:00Z", BuildDate)
}

func TestFillFromBuildInfo_KeepsLdflagsValues(t *testing.T) {
	origVersion, origRevision, origBuildDate := Version, Revision, BuildDate
	t.Cleanup(func() {
		Version, Revision, BuildDate = origVersion, origRevision, origBuildDate
	})

	Version = "2.0.0"
	Revision = "cafe01"
	BuildDate = "yesterday"

	fillFromBuildInfo("(devel)", map[string]string{"vcs.revision": "ffff"})

	assert.Equal(t, "2.0.0", Version)
	assert.Equal(t, "cafe01", Revision)
	assert.Equal(t, "yesterday", BuildDate)
}
