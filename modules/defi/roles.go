package defi

import (
	"fmt"

	"trade-builder/lib/words"
)

// Role is the fixed position of an entry in a trade solution.
type Role uint8

const (
	TokenATransfer Role = iota
	SignedSwapA
	TokenBTransfer
	SignedSwapB
	AuthA
	AuthB
	SwapA
	SwapB

	roleCount
)

var roleNames = [roleCount]string{
	TokenATransfer: "token-a-transfer",
	SignedSwapA:    "signed-swap-a",
	TokenBTransfer: "token-b-transfer",
	SignedSwapB:    "signed-swap-b",
	AuthA:          "auth-a",
	AuthB:          "auth-b",
	SwapA:          "swap-a",
	SwapB:          "swap-b",
}

// Roles lists every role in path order.
func Roles() []Role {
	out := make([]Role, roleCount)
	for i := range out {
		out[i] = Role(i)
	}
	return out
}

// Path is the entry index other entries use to reference this role.
func (r Role) Path() words.Word {
	if r >= roleCount {
		panic(fmt.Sprintf("unknown role %d", r))
	}
	return words.Word(r)
}

func (r Role) String() string {
	if r >= roleCount {
		return fmt.Sprintf("role(%d)", r)
	}
	return roleNames[r]
}

// legRoles groups the four roles owned by one party.
type legRoles struct {
	transfer   Role
	signedSwap Role
	auth       Role
	swap       Role
}

var (
	legA = legRoles{transfer: TokenATransfer, signedSwap: SignedSwapA, auth: AuthA, swap: SwapA}
	legB = legRoles{transfer: TokenBTransfer, signedSwap: SignedSwapB, auth: AuthB, swap: SwapB}
)
