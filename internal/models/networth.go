package models

import (
	"encoding/json"
	"fmt"
)

// Asset is something the user owns, valued at Value.
type Asset struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Category string  `json:"category,omitempty"`
}

func (a *Asset) EntityID() string      { return a.ID }
func (a *Asset) SetEntityID(id string) { a.ID = id }

// Liability is something the user owes, outstanding at Amount.
type Liability struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category,omitempty"`
}

func (l *Liability) EntityID() string      { return l.ID }
func (l *Liability) SetEntityID(id string) { l.ID = id }

// NetWorthKind discriminates a NetWorthItem.
type NetWorthKind string

const (
	NetWorthKindAsset     NetWorthKind = "asset"
	NetWorthKindLiability NetWorthKind = "liability"
)

// NetWorthItem is either an Asset or a Liability. Exactly one of the payload
// fields is set, as named by Kind.
type NetWorthItem struct {
	Kind      NetWorthKind `json:"kind"`
	Asset     *Asset       `json:"asset,omitempty"`
	Liability *Liability   `json:"liability,omitempty"`
}

// NetWorthAsset wraps an asset.
func NetWorthAsset(a Asset) NetWorthItem {
	return NetWorthItem{Kind: NetWorthKindAsset, Asset: &a}
}

// NetWorthLiability wraps a liability.
func NetWorthLiability(l Liability) NetWorthItem {
	return NetWorthItem{Kind: NetWorthKindLiability, Liability: &l}
}

// ID returns the wrapped record's ID.
func (n NetWorthItem) ID() string {
	switch n.Kind {
	case NetWorthKindAsset:
		return n.Asset.ID
	case NetWorthKindLiability:
		return n.Liability.ID
	}
	return ""
}

// Name returns the wrapped record's name.
func (n NetWorthItem) Name() string {
	switch n.Kind {
	case NetWorthKindAsset:
		return n.Asset.Name
	case NetWorthKindLiability:
		return n.Liability.Name
	}
	return ""
}

// SignedValue is the asset value, or the negated liability amount.
func (n NetWorthItem) SignedValue() float64 {
	switch n.Kind {
	case NetWorthKindAsset:
		return n.Asset.Value
	case NetWorthKindLiability:
		return -n.Liability.Amount
	}
	return 0
}

// Validate checks that Kind matches the populated payload.
func (n NetWorthItem) Validate() error {
	switch n.Kind {
	case NetWorthKindAsset:
		if n.Asset == nil || n.Liability != nil {
			return fmt.Errorf("net worth item of kind %q must carry only an asset", n.Kind)
		}
	case NetWorthKindLiability:
		if n.Liability == nil || n.Asset != nil {
			return fmt.Errorf("net worth item of kind %q must carry only a liability", n.Kind)
		}
	default:
		return fmt.Errorf("unknown net worth kind %q", n.Kind)
	}
	return nil
}

// UnmarshalJSON decodes and validates the variant.
func (n *NetWorthItem) UnmarshalJSON(data []byte) error {
	type plain NetWorthItem
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	item := NetWorthItem(v)
	if err := item.Validate(); err != nil {
		return err
	}
	*n = item
	return nil
}
