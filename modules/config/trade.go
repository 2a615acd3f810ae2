package config

import (
	"trade-builder/modules/solution"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"
)

// Names of the deployed predicates a trade needs.
const (
	SwapPredicate       = "swap"
	SignedSwapPredicate = "signed_swap"
	AuthIntentPredicate = "transfer_with"
	AuthTransfer        = "signed_transfer"
	AuthMint            = "signed_mint"
	AuthBurn            = "signed_burn"
)

// Token lists the predicates of one deployed token contract.
type Token struct {
	Transfer solution.PredicateAddress `json:"transfer"`
	Mint     solution.PredicateAddress `json:"mint"`
	Burn     solution.PredicateAddress `json:"burn"`
}

type TradeConfig struct {
	NodeURL   string                               `json:"node_url" validate:"required,url"`
	WalletDir string                               `json:"wallet_dir" validate:"required"`
	Addresses map[string]solution.PredicateAddress `json:"addresses"`
	Tokens    map[string]Token                     `json:"tokens"`
}

func DefaultTradeConfig() TradeConfig {
	return TradeConfig{
		NodeURL:   "http://localhost:3553",
		WalletDir: "wallet",
		Addresses: map[string]solution.PredicateAddress{},
		Tokens:    map[string]Token{},
	}
}

var validate = validator.New()

func (c TradeConfig) Validate() error {
	return validate.Struct(c)
}

// Address looks up a named predicate, failing if it was never configured.
func (c TradeConfig) Address(name string) (solution.PredicateAddress, error) {
	addr, ok := c.Addresses[name]
	if !ok {
		return solution.PredicateAddress{}, pkgerrors.Errorf("no address configured for [%s]", name)
	}
	return addr, nil
}

func (c TradeConfig) Token(name string) (Token, error) {
	t, ok := c.Tokens[name]
	if !ok {
		return Token{}, pkgerrors.Errorf("unknown token [%s]", name)
	}
	return t, nil
}
