package application

import (
	"github.com/zerobond-network/zerobond-daemon/internal/core/domain"
	"github.com/zerobond-network/zerobond-daemon/pkg/bondmath"
)

// Notification topics published on the pubsub service for every ledger
// state transition.
const (
	MarketCreatedTopic = "market_created"
	BondMintedTopic    = "bond_minted"
	BondRepaidTopic    = "bond_repaid"
	BondRedeemedTopic  = "bond_redeemed"
)

// Topics returns all the notification topics of the ledger.
func Topics() []string {
	return []string{
		MarketCreatedTopic, BondMintedTopic, BondRepaidTopic,
		BondRedeemedTopic,
	}
}

// MarketInfo is the read-only projection of a market returned by the query
// operations. Amounts are rendered as base-10 strings.
type MarketInfo struct {
	Underlying   string `json:"underlying"`
	Maturity     int64  `json:"maturity"`
	Name         string `json:"name"`
	Symbol       string `json:"symbol"`
	Decimals     uint   `json:"decimals"`
	BondHandle   string `json:"bond_handle"`
	MaxDebt      string `json:"max_debt"`
	Price        string `json:"price"`
	HumanPrice   string `json:"human_price"`
	MintedDebt   string `json:"minted_debt"`
	RepaidDebt   string `json:"repaid_debt"`
	RedeemedDebt string `json:"redeemed_debt"`
}

func marketInfoFromDomain(m *domain.Market) MarketInfo {
	return MarketInfo{
		Underlying:   m.Underlying,
		Maturity:     m.Maturity,
		Name:         m.Name,
		Symbol:       m.Symbol,
		Decimals:     m.Decimals,
		BondHandle:   m.BondHandle,
		MaxDebt:      m.MaxDebt.String(),
		Price:        m.Price.String(),
		HumanPrice:   bondmath.PriceToDecimal(m.Price).String(),
		MintedDebt:   m.MintedDebt.String(),
		RepaidDebt:   m.RepaidDebt.String(),
		RedeemedDebt: m.RedeemedDebt.String(),
	}
}
