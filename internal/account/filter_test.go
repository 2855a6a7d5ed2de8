package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/healthmon/internal/model"
)

func sampleAccounts() []model.Account {
	return []model.Account{
		{ID: "1", Client: "Acme Corp", Email: "support@acme.com"},
		{ID: "2", Client: "Jane Smith", Email: "jane@webcorp.com", Error: "SMTP Error: 535"},
		{ID: "3", Client: "ACME Labs", Email: "ops@labs.dev", Error: "IMAP Connection Failed"},
		{ID: "4", Client: "Kyle", Email: "kyle@acme.org"},
		{ID: "5", Client: "Blank", Email: "blank@example.com", Error: "   "},
	}
}

func ids(accounts []model.Account) []string {
	out := make([]string, len(accounts))
	for i, a := range accounts {
		out[i] = a.ID
	}
	return out
}

func TestFilterIdentity(t *testing.T) {
	accounts := sampleAccounts()
	got := Filter(accounts, Query{})
	assert.Equal(t, accounts, got)
}

func TestFilterSearchIsCaseInsensitiveSubstring(t *testing.T) {
	got := Filter(sampleAccounts(), Query{Search: "acme"})
	assert.Equal(t, []string{"1", "3", "4"}, ids(got))

	got = Filter(sampleAccounts(), Query{Search: "WEBCORP"})
	assert.Equal(t, []string{"2"}, ids(got))

	got = Filter(sampleAccounts(), Query{Search: "nomatch"})
	assert.Empty(t, got)
}

func TestFilterErrorsOnlyIsSubset(t *testing.T) {
	accounts := sampleAccounts()
	full := Filter(accounts, Query{Search: "a"})
	errs := Filter(accounts, Query{Search: "a", ErrorsOnly: true})

	require.NotEmpty(t, errs)
	for _, a := range errs {
		assert.Contains(t, full, a)
		assert.True(t, a.HasError())
	}
	assert.Equal(t, []string{"2", "3"}, ids(Filter(accounts, Query{ErrorsOnly: true})))
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	accounts := sampleAccounts()
	before := append([]model.Account(nil), accounts...)

	_ = Filter(accounts, Query{ErrorsOnly: true, Search: "acme"})
	assert.Equal(t, before, accounts)
}

func TestCountErrors(t *testing.T) {
	assert.Equal(t, 2, CountErrors(sampleAccounts()))
	assert.Equal(t, 0, CountErrors(nil))
}
