package smartlead

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/nhle/healthmon/internal/record"
	"github.com/nhle/healthmon/internal/source"
)

var _ source.AccountSource = (*Client)(nil)

// FetchAll pages through /email-accounts until a page shorter than the
// page size arrives. Pages are requested strictly in order because the
// API is offset based and reports no total.
func (c *Client) FetchAll(
	ctx context.Context,
	progress source.ProgressFunc,
) ([]record.Record, error) {
	var all []record.Record
	offset := 0

	for {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(c.pageSize))
		params.Set("offset", strconv.Itoa(offset))

		body, err := c.get(ctx, "/email-accounts", params, pageErrorMessage)
		if err != nil {
			return nil, err
		}

		page, err := decodePage(body)
		if err != nil {
			return nil, fmt.Errorf("decoding page at offset %d: %w", offset, err)
		}

		if len(page) > 0 {
			all = append(all, page...)
			offset += len(page)
			if progress != nil {
				progress(len(all))
			}
		}

		if len(page) < c.pageSize {
			break
		}
	}

	if all == nil {
		all = []record.Record{}
	}
	return all, nil
}

// FetchAccount retrieves a single account by ID.
func (c *Client) FetchAccount(
	ctx context.Context,
	id string,
) (*source.AccountDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrMissingID
	}

	body, err := c.get(ctx, "/email-accounts/"+url.PathEscape(id), nil, accountErrorMessage)
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decoding account %s: %w", id, err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		return nil, fmt.Errorf("formatting account %s: %w", id, err)
	}

	detail := &source.AccountDetail{
		Record: record.Record{},
		JSON:   pretty.String(),
	}
	if obj, ok := decoded.(map[string]any); ok {
		detail.Record = record.Record(obj)
	}
	return detail, nil
}
