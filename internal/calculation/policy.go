package calculation

import (
	"fmt"
	"strings"
)

// UnknownMethodPolicy decides what happens to a loan whose repayment method
// is unset or unrecognized.
type UnknownMethodPolicy string

const (
	// UnknownMethodSkip schedules no required interest or principal for the
	// loan. It is treated as managed outside the plan, though the extra
	// repayment pool can still pay it down.
	UnknownMethodSkip UnknownMethodPolicy = "skip"
	// UnknownMethodReject refuses to project the profile.
	UnknownMethodReject UnknownMethodPolicy = "reject"
)

// NetWorthPolicy decides whether outstanding loans reduce total assets.
type NetWorthPolicy string

const (
	// NetWorthNet reports savings + real estate − remaining liabilities.
	NetWorthNet NetWorthPolicy = "net"
	// NetWorthGross reports savings + real estate.
	NetWorthGross NetWorthPolicy = "gross"
)

// ParseUnknownMethodPolicy resolves a policy name; empty means skip.
func ParseUnknownMethodPolicy(s string) (UnknownMethodPolicy, error) {
	switch p := UnknownMethodPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return UnknownMethodSkip, nil
	case UnknownMethodSkip, UnknownMethodReject:
		return p, nil
	default:
		return "", fmt.Errorf("unknown repayment method policy %q (want skip or reject)", s)
	}
}

// ParseNetWorthPolicy resolves a policy name; empty means net.
func ParseNetWorthPolicy(s string) (NetWorthPolicy, error) {
	switch p := NetWorthPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return NetWorthNet, nil
	case NetWorthNet, NetWorthGross:
		return p, nil
	default:
		return "", fmt.Errorf("unknown net worth policy %q (want net or gross)", s)
	}
}
