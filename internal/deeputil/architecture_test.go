package deeputil

import (
	"testing"

	"github.com/onyxcorp/model/testutil"
)

// The copy/compare primitives sit beneath everything else and must stay on
// the standard library alone.
func TestDeeputilStaysDependencyFree(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.ThirdPartyImportForbidden,
		"internal/deeputil is a leaf package")
}
