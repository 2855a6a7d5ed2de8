package account

import (
	"strconv"
	"strings"

	"github.com/nhle/healthmon/internal/model"
	"github.com/nhle/healthmon/internal/record"
)

// Normalize maps every record to an Account, preserving fetch order.
// Missing or mistyped fields fall back to defaults, so every record
// yields a fully populated Account.
func Normalize(records []record.Record) []model.Account {
	accounts := make([]model.Account, len(records))
	for i, r := range records {
		accounts[i] = NormalizeOne(r, i)
	}
	return accounts
}

// NormalizeOne maps a single record. index is used as the ID when the
// record has none.
func NormalizeOne(r record.Record, index int) model.Account {
	id, ok := r.Text("id")
	if !ok {
		id = strconv.Itoa(index)
	}

	client, ok := r.FirstNonEmpty("client_name", "owner_name", "from_name")
	if !ok {
		client = model.DefaultClient
	}

	protocol := model.ProtocolSMTP
	if p, ok := r.FirstNonEmpty("provider_type", "type"); ok {
		protocol = strings.ToUpper(p)
	}

	email, ok := r.FirstNonEmpty("email", "from_email", "email_address")
	if !ok {
		email = model.DefaultEmail
	}

	return model.Account{
		ID:       id,
		Client:   client,
		Protocol: protocol,
		Email:    email,
		Error:    ExtractError(r),
	}
}
