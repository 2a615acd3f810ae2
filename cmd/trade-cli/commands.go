package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"trade-builder/lib/signer"
	"trade-builder/lib/words"
	"trade-builder/modules/config"
	"trade-builder/modules/defi"
	"trade-builder/modules/solution"
	"trade-builder/modules/token"
	"trade-builder/modules/wallet"
)

type command struct {
	name   string
	params []string
	usage  string
	run    func(ctx context.Context, e env, params []string) error
}

var commands = []command{
	{"accounts", nil, "list wallet accounts", listAccounts},
	{"new-account", []string{"name"}, "<name>: generate a secp256k1 account", newAccount},
	{"balance", []string{"token", "account"}, "<token> <account>: print balance and nonce", balance},
	{"mint", []string{"token", "account", "amount", "decimals", "name", "symbol"}, "<token> <account> <amount> <decimals> <name> <symbol>", mint},
	{"burn", []string{"token", "account", "amount"}, "<token> <account> <amount>", burn},
	{"transfer", []string{"token", "from", "to", "amount"}, "<token> <from> <to> <amount>", transfer},
	{"trade", []string{"tokenA", "accountA", "amountA", "tokenB", "accountB", "amountB"}, "<tokenA> <accountA> <amountA> <tokenB> <accountB> <amountB>: swap amountA of tokenA for amountB of tokenB", trade},
	{"outcome", []string{"address"}, "<address>: print the outcome of a submitted solution", outcome},
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func parseAmount(s string) (words.Word, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid amount %q: %w", s, token.ErrInvalidAmount)
	}
	return v, nil
}

func listAccounts(ctx context.Context, e env, _ []string) error {
	accounts, err := e.wallet.Accounts(ctx)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		key, err := wallet.HashedKey(ctx, e.wallet, a)
		if err != nil {
			fmt.Printf("%s\t(%v)\n", a, err)
			continue
		}
		fmt.Printf("%s\t%x\n", a, key.Bytes())
	}
	return nil
}

func newAccount(ctx context.Context, e env, params []string) error {
	if err := e.wallet.NewKeyPair(ctx, params[0], signer.Secp256k1); err != nil {
		return err
	}
	fmt.Println("created account", params[0])
	return nil
}

func tokenClient(e env, t config.Token) *token.Client {
	return token.NewClient(e.node, t.Transfer.Contract)
}

func balance(ctx context.Context, e env, params []string) error {
	t, err := e.conf.Token(params[0])
	if err != nil {
		return err
	}
	key, err := wallet.HashedKey(ctx, e.wallet, params[1])
	if err != nil {
		return err
	}
	c := tokenClient(e, t)
	bal, err := c.Balance(ctx, key)
	if err != nil {
		return err
	}
	nonce, err := c.Nonce(ctx, key)
	if err != nil {
		return err
	}
	fmt.Printf("balance: %d\nnonce: %d\n", bal, nonce)
	return nil
}

// submit sends the solution to the node, or only checks it on a dry run.
func submit(ctx context.Context, e env, sol solution.Solution) error {
	if e.dryRun {
		out, err := e.node.CheckSolution(ctx, sol)
		if err != nil {
			return err
		}
		fmt.Printf("%s\nutility: %g\ngas: %d\n", sol.Address(), out.Utility, out.Gas)
		return nil
	}
	ca, err := e.node.SubmitSolution(ctx, sol)
	if err != nil {
		return err
	}
	fmt.Println(ca)
	return nil
}

func mint(ctx context.Context, e env, params []string) error {
	t, err := e.conf.Token(params[0])
	if err != nil {
		return err
	}
	auth, err := e.conf.Address(config.AuthMint)
	if err != nil {
		return err
	}
	amount, err := parseAmount(params[2])
	if err != nil {
		return err
	}
	decimals, err := parseAmount(params[3])
	if err != nil {
		return err
	}
	key, err := wallet.HashedKey(ctx, e.wallet, params[1])
	if err != nil {
		return err
	}
	nonce, err := tokenClient(e, t).NextNonce(ctx, key)
	if err != nil {
		return err
	}

	sol, err := token.SignedMint{
		AuthAddress: auth,
		MintAddress: t.Mint,
		Account:     params[1],
		NewNonce:    nonce,
		Amount:      amount,
		Decimals:    decimals,
		Name:        token.HashString(params[4]),
		Symbol:      token.HashString(strings.ToUpper(params[5])),
	}.Build(ctx, e.wallet)
	if err != nil {
		return err
	}
	return submit(ctx, e, sol)
}

func burn(ctx context.Context, e env, params []string) error {
	t, err := e.conf.Token(params[0])
	if err != nil {
		return err
	}
	auth, err := e.conf.Address(config.AuthBurn)
	if err != nil {
		return err
	}
	amount, err := parseAmount(params[2])
	if err != nil {
		return err
	}
	key, err := wallet.HashedKey(ctx, e.wallet, params[1])
	if err != nil {
		return err
	}
	nonce, newBalance, err := tokenClient(e, t).PrepareBurn(ctx, key, amount)
	if err != nil {
		return err
	}

	sol, err := token.SignedBurn{
		AuthAddress:    auth,
		BurnAddress:    t.Burn,
		Account:        params[1],
		NewNonce:       nonce,
		Amount:         amount,
		NewFromBalance: newBalance,
	}.Build(ctx, e.wallet)
	if err != nil {
		return err
	}
	return submit(ctx, e, sol)
}

func transfer(ctx context.Context, e env, params []string) error {
	t, err := e.conf.Token(params[0])
	if err != nil {
		return err
	}
	auth, err := e.conf.Address(config.AuthTransfer)
	if err != nil {
		return err
	}
	amount, err := parseAmount(params[3])
	if err != nil {
		return err
	}
	from, err := wallet.HashedKey(ctx, e.wallet, params[1])
	if err != nil {
		return err
	}
	to, err := wallet.HashedKey(ctx, e.wallet, params[2])
	if err != nil {
		return err
	}
	leg, err := tokenClient(e, t).PrepareTransfer(ctx, from, to, amount)
	if err != nil {
		return err
	}
	e.log.Debug("prepared transfer", "nonce", leg.ToSign.NewNonce, "from", leg.NewFromBalance, "to", leg.NewToBalance)

	sol, err := leg.Signed(auth, t.Transfer, params[1]).Build(ctx, e.wallet)
	if err != nil {
		return err
	}
	return submit(ctx, e, sol)
}

type party struct {
	account string
	key     words.B256
	token   config.Token
	amount  words.Word
}

func trade(ctx context.Context, e env, params []string) error {
	parties := make([]party, 2)
	for i := range parties {
		p := params[i*3 : i*3+3]
		t, err := e.conf.Token(p[0])
		if err != nil {
			return err
		}
		key, err := wallet.HashedKey(ctx, e.wallet, p[1])
		if err != nil {
			return err
		}
		amount, err := parseAmount(p[2])
		if err != nil {
			return err
		}
		parties[i] = party{p[1], key, t, amount}
	}

	swapAddr, err := e.conf.Address(config.SwapPredicate)
	if err != nil {
		return err
	}
	signedSwapAddr, err := e.conf.Address(config.SignedSwapPredicate)
	if err != nil {
		return err
	}
	authIntent, err := e.conf.Address(config.AuthIntentPredicate)
	if err != nil {
		return err
	}

	legs := make([]defi.Transfer, 2)
	for i, from := range parties {
		to := parties[1-i]
		leg, err := tradeLeg(ctx, tokenClient(e, from.token), from, to)
		if err != nil {
			return fmt.Errorf("leg of %s: %w", from.account, err)
		}
		legs[i] = leg
	}

	swapArgs := func(i int) defi.SignedSwapArgs {
		self, other := parties[i], parties[1-i]
		return defi.SignedSwapArgs{
			AccountName: self.account,
			Swap: defi.SwapArgs{
				Key:        self.key,
				AccountB:   other.key,
				TokenA:     self.token.Transfer.Contract.B256(),
				TokenB:     other.token.Transfer.Contract.B256(),
				AmountAMax: words.Int(self.amount),
				AmountBMin: words.Int(other.amount),
			},
			Nonce:          legs[i].Nonce,
			TokenAddr:      self.token.Transfer,
			SignedSwapAddr: signedSwapAddr,
		}
	}

	swapA, swapB, err := defi.GatherSwaps(ctx, e.wallet, swapArgs(0), swapArgs(1))
	if err != nil {
		return err
	}

	sol, err := defi.Trade{
		SwapA:          swapA,
		SwapB:          swapB,
		SwapAddr:       swapAddr,
		SignedSwapAddr: signedSwapAddr,
		AuthIntent:     authIntent,
		TransferA:      legs[0],
		TransferB:      legs[1],
	}.Build()
	if err != nil {
		return err
	}
	e.log.Debug("built trade", "entries", len(sol.Data), "address", sol.Address().String())
	return submit(ctx, e, sol)
}

func outcome(ctx context.Context, e env, params []string) error {
	ca, err := solution.ParseContentAddress(params[0])
	if err != nil {
		return err
	}
	outcomes, err := e.node.SolutionOutcome(ctx, ca)
	if err != nil {
		return err
	}
	if len(outcomes) == 0 {
		fmt.Println("pending")
	}
	for _, o := range outcomes {
		if o.Failed() {
			fmt.Printf("block %d: failed: %s\n", o.BlockNumber, o.FailureReason)
			continue
		}
		fmt.Printf("block %d: included\n", o.BlockNumber)
	}
	return nil
}

func tradeLeg(ctx context.Context, c *token.Client, from, to party) (defi.Transfer, error) {
	nonce, err := c.Nonce(ctx, from.key)
	if err != nil {
		return defi.Transfer{}, err
	}
	fromBalance, err := c.Balance(ctx, from.key)
	if err != nil {
		return defi.Transfer{}, err
	}
	toBalance, err := c.Balance(ctx, to.key)
	if err != nil {
		return defi.Transfer{}, err
	}
	return defi.NewLeg(from.key, to.key, from.amount, fromBalance, toBalance, nonce, from.token.Transfer)
}
