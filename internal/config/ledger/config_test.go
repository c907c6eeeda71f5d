package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weisyn/rwaledger/pkg/types"
)

const (
	testAdmin  = "2xTaAjapBQGCKVbzoggRh9FNHUG7"
	testOracle = "32yxGwtjz6nKZmXUNXvz4k1dxriS"
)

func strPtr(s string) *string { return &s }

func TestNew_Defaults(t *testing.T) {
	opts := New(nil).GetOptions()
	assert.Equal(t, uint64(144), opts.PriceMaxAge)
	assert.Empty(t, opts.Oracles)
	assert.Error(t, opts.Validate(), "empty admin must be rejected")
}

func TestNew_UserOverrides(t *testing.T) {
	age := uint64(20)
	opts := New(&UserLedgerConfig{
		Admin:       strPtr(testAdmin),
		Oracles:     []string{testOracle},
		PriceMaxAge: &age,
	}).GetOptions()

	require.NoError(t, opts.Validate())
	assert.Equal(t, types.Address(testAdmin), opts.Admin)
	assert.Equal(t, opts.Admin, opts.ComplianceAuthority, "authority falls back to admin")
	assert.Equal(t, uint64(20), opts.PriceMaxAge)
	assert.True(t, opts.IsOracle(testOracle))
	assert.False(t, opts.IsOracle(testAdmin))
}

func TestValidate_RejectsBadAddresses(t *testing.T) {
	opts := New(&UserLedgerConfig{Admin: strPtr("not-base58-0OIl")}).GetOptions()
	assert.ErrorContains(t, opts.Validate(), "ledger.admin")

	opts = New(&UserLedgerConfig{Admin: strPtr(testAdmin), Oracles: []string{"9KWLWsCiDdVBxBCu9Pcq34h3W6"}}).GetOptions()
	assert.ErrorContains(t, opts.Validate(), "ledger.oracles[0]")
}
