package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/finscore/finscore/core/library"
	"github.com/finscore/finscore/core/policy"
	"github.com/finscore/finscore/schema"
)

const (
	acmeBundlePath        = "testdata/acme.json"
	balanceOnlyBundlePath = "testdata/balance_only.yaml"
)

func defaultLibrary(t testing.TB) *library.Library {
	t.Helper()
	lib, err := library.Default()
	require.NoError(t, err)
	return lib
}

func defaultRules(t testing.TB) []schema.ScoreRule {
	t.Helper()
	rules, err := policy.LoadProfile(t.TempDir(), policy.DefaultProfile)
	require.NoError(t, err)
	return rules
}

func readBundle(t testing.TB, path string) *schema.StatementBundle {
	t.Helper()
	bundle, err := schema.ReadBundleFile(path)
	require.NoError(t, err)
	return &bundle
}

func fy(year int) time.Time {
	return time.Date(year, time.September, 30, 0, 0, 0, 0, time.UTC)
}
