// Package nodeclient submits solutions to a node and reads contract state
// back over its HTTP JSON API.
package nodeclient

import (
	"context"
	"encoding/hex"
	"net/http"
	"net/url"
	"time"

	"trade-builder/lib/logger"
	"trade-builder/lib/words"
	"trade-builder/modules/solution"
	"trade-builder/modules/token"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	pkgerrors "github.com/pkg/errors"
)

const defaultTimeout = 30 * time.Second

// CheckOutcome is the result of checking a solution without submitting it.
type CheckOutcome struct {
	Utility float64 `json:"utility" validate:"gte=0"`
	Gas     uint64  `json:"gas"`
}

// SolutionOutcome records one inclusion attempt of a submitted solution.
type SolutionOutcome struct {
	BlockNumber   uint64 `json:"block_number" validate:"required"`
	FailureReason string `json:"failure_reason,omitempty"`
}

func (o SolutionOutcome) Failed() bool {
	return o.FailureReason != ""
}

type Client struct {
	base     *url.URL
	http     *http.Client
	validate *validator.Validate
	log      logger.Logger
}

var _ token.StateQuerier = &Client{}

func New(address string, log logger.Logger) (*Client, error) {
	base, err := url.Parse(address)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "invalid node address [%s]", address)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, pkgerrors.Errorf("invalid node address [%s]", address)
	}
	return &Client{
		base:     base,
		http:     &http.Client{Timeout: defaultTimeout},
		validate: validator.New(),
		log:      log,
	}, nil
}

// SubmitSolution validates the solution locally, submits it and returns its
// content address as reported by the node.
func (c *Client) SubmitSolution(ctx context.Context, sol solution.Solution) (solution.ContentAddress, error) {
	if err := sol.Validate(); err != nil {
		return solution.ContentAddress{}, err
	}
	req, err := makeRequest(ctx, http.MethodPost, makeUrl(c.base, "submit-solution"), sol)
	if err != nil {
		return solution.ContentAddress{}, err
	}
	ca, err := sendRequest[solution.ContentAddress](c.http, req)
	if err != nil {
		return solution.ContentAddress{}, pkgerrors.Wrap(err, "submit solution")
	}
	c.log.Debug("submitted solution", "address", ca.String(), "entries", len(sol.Data))
	return *ca, nil
}

func (c *Client) CheckSolution(ctx context.Context, sol solution.Solution) (CheckOutcome, error) {
	if err := sol.Validate(); err != nil {
		return CheckOutcome{}, err
	}
	req, err := makeRequest(ctx, http.MethodPost, makeUrl(c.base, "check-solution"), sol)
	if err != nil {
		return CheckOutcome{}, err
	}
	out, err := sendRequest(c.http, req, structValidator[CheckOutcome](c.validate))
	if err != nil {
		return CheckOutcome{}, pkgerrors.Wrap(err, "check solution")
	}
	return *out, nil
}

// QueryState reads the value stored under key in a contract. A key that was
// never written comes back as None.
func (c *Client) QueryState(ctx context.Context, contract solution.ContentAddress, key []words.Word) (token.Query, error) {
	u := makeUrl(c.base, "query-state", contract.String(), hex.EncodeToString(words.ToBytes(key)))
	req, err := makeRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	value, err := sendRequest[*[]words.Word](c.http, req)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "query state")
	}
	if *value == nil {
		return optional.None[[]words.Word](), nil
	}
	return optional.Some(**value), nil
}

func (c *Client) SolutionOutcome(ctx context.Context, ca solution.ContentAddress) ([]SolutionOutcome, error) {
	req, err := makeRequest(ctx, http.MethodGet, makeUrl(c.base, "solution-outcome", ca.String()), nil)
	if err != nil {
		return nil, err
	}
	outcomes, err := sendRequest(c.http, req, func(o *[]SolutionOutcome) error {
		for _, outcome := range *o {
			if err := c.validate.Struct(outcome); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "solution outcome")
	}
	return *outcomes, nil
}
