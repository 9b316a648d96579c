package fdc

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/joseph-ayodele/menu-builder/constants"
	"github.com/joseph-ayodele/menu-builder/internal/entity"
)

// Result is the outcome of a full search → fetch → extract lookup.
// Status distinguishes "no data" (LookupNotFound) from "could not check" (LookupFailed);
// Nutrients is never nil.
type Result struct {
	Status      constants.LookupStatus
	Nutrients   entity.Nutrients
	FdcID       int64
	Description string
	DataType    string
	Err         error
}

type attempt struct {
	bucket   int
	dataType DataType
}

// priority flattens the buckets into the ordered list of single-data-type searches.
func (c *Client) priority() []attempt {
	var out []attempt
	for i, bucket := range c.cfg.Buckets {
		for _, dt := range bucket {
			out = append(out, attempt{bucket: i, dataType: dt})
		}
	}
	return out
}

// Search walks the data-type priority list and returns the first hit of the first
// non-empty search. Faulted attempts are logged and skipped; no error aborts the walk.
func (c *Client) Search(ctx context.Context, query string) (SearchHit, constants.LookupStatus, error) {
	if !c.HasKey() {
		c.warnMissingKey()
		return SearchHit{}, constants.LookupFailed, ErrMissingAPIKey
	}

	var faults []error
	for _, a := range c.priority() {
		if err := ctx.Err(); err != nil {
			faults = append(faults, err)
			break
		}
		params := url.Values{}
		params.Set("query", query)
		params.Set("pageSize", strconv.Itoa(c.cfg.PageSize))
		params.Set("dataType", string(a.dataType))

		var resp searchResponse
		err := c.getJSON(ctx, "/foods/search", params, &resp)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && se.ServerFault() {
				c.logger.Warn("fdc.search.server_error",
					"query", query, "data_type", a.dataType, "bucket", a.bucket, "status", se.StatusCode)
			} else {
				c.logger.Warn("fdc.search.failed",
					"query", query, "data_type", a.dataType, "bucket", a.bucket, "error", err)
			}
			faults = append(faults, fmt.Errorf("%s: %w", a.dataType, err))
			continue
		}
		if len(resp.Foods) > 0 {
			hit := resp.Foods[0]
			c.logger.Debug("fdc.search.hit",
				"query", query, "data_type", a.dataType, "fdc_id", hit.FdcID, "description", hit.Description)
			return hit, constants.LookupFound, nil
		}
	}

	if len(faults) > 0 {
		return SearchHit{}, constants.LookupFailed, errors.Join(faults...)
	}
	return SearchHit{}, constants.LookupNotFound, nil
}

// FetchDetails loads the full record for an FDC id. A 404 is "not found"; any other
// failure is "could not check".
func (c *Client) FetchDetails(ctx context.Context, fdcID int64) (Food, constants.LookupStatus, error) {
	if !c.HasKey() {
		c.warnMissingKey()
		return Food{}, constants.LookupFailed, ErrMissingAPIKey
	}

	var food Food
	err := c.getJSON(ctx, "/food/"+strconv.FormatInt(fdcID, 10), nil, &food)
	if err != nil {
		if IsNotFound(err) {
			c.logger.Warn("fdc.food.not_found", "fdc_id", fdcID)
			return Food{}, constants.LookupNotFound, err
		}
		c.logger.Warn("fdc.food.failed", "fdc_id", fdcID, "error", err)
		return Food{}, constants.LookupFailed, err
	}
	return food, constants.LookupFound, nil
}

// Lookup resolves a free-text food name to a nutrient record.
func (c *Client) Lookup(ctx context.Context, name string) Result {
	start := time.Now()

	hit, status, err := c.Search(ctx, name)
	if status != constants.LookupFound {
		c.logger.Info("fdc.lookup.miss", "query", name, "status", status,
			"elapsed_ms", time.Since(start).Milliseconds())
		return Result{Status: status, Nutrients: entity.NewNutrients(), Err: err}
	}

	food, status, err := c.FetchDetails(ctx, hit.FdcID)
	if status != constants.LookupFound {
		c.logger.Info("fdc.lookup.miss", "query", name, "fdc_id", hit.FdcID, "status", status,
			"elapsed_ms", time.Since(start).Milliseconds())
		return Result{Status: status, Nutrients: entity.NewNutrients(), FdcID: hit.FdcID, Err: err}
	}

	n := ExtractFields(food)
	c.logger.Info("fdc.lookup.ok",
		"query", name,
		"fdc_id", hit.FdcID,
		"description", hit.Description,
		"data_type", hit.DataType,
		"fields", n.Known(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Result{
		Status:      constants.LookupFound,
		Nutrients:   n,
		FdcID:       hit.FdcID,
		Description: hit.Description,
		DataType:    hit.DataType,
	}
}

func (c *Client) warnMissingKey() {
	if c.warnedNoKey {
		return
	}
	c.warnedNoKey = true
	c.logger.Warn("fdc.missing_api_key", "hint", "set USDA_API_KEY; nutrient lookups will return unknown values")
}
