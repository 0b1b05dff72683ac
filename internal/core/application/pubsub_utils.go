package application

import (
	"encoding/json"
	"math/big"

	log "github.com/sirupsen/logrus"
	"github.com/zerobond-network/zerobond-daemon/internal/core/domain"
	"github.com/zerobond-network/zerobond-daemon/internal/core/ports"
)

// Notifications are best effort: a delivery failure is logged and never
// aborts the operation that triggered it.

func publishMarketCreatedTopic(
	pubsub ports.SecurePubSub, market *domain.Market,
) {
	payload := map[string]interface{}{
		"underlying":  market.Underlying,
		"maturity":    market.Maturity,
		"bond_handle": market.BondHandle,
		"max_debt":    market.MaxDebt.String(),
		"name":        market.Name,
	}
	publishTopic(pubsub, MarketCreatedTopic, payload)
}

func publishBondMintedTopic(
	pubsub ports.SecurePubSub, market *domain.Market,
	amount, newMintedDebt *big.Int,
) {
	payload := map[string]interface{}{
		"underlying":  market.Underlying,
		"maturity":    market.Maturity,
		"bond_handle": market.BondHandle,
		"amount":      amount.String(),
		"minted_debt": newMintedDebt.String(),
	}
	publishTopic(pubsub, BondMintedTopic, payload)
}

func publishBondRepaidTopic(
	pubsub ports.SecurePubSub, market *domain.Market,
	amount, newRepaidDebt *big.Int,
) {
	payload := map[string]interface{}{
		"underlying":  market.Underlying,
		"maturity":    market.Maturity,
		"bond_handle": market.BondHandle,
		"amount":      amount.String(),
		"repaid_debt": newRepaidDebt.String(),
	}
	publishTopic(pubsub, BondRepaidTopic, payload)
}

func publishBondRedeemedTopic(
	pubsub ports.SecurePubSub, market *domain.Market,
	amount, newRedeemedDebt *big.Int,
) {
	payload := map[string]interface{}{
		"underlying":    market.Underlying,
		"maturity":      market.Maturity,
		"bond_handle":   market.BondHandle,
		"amount":        amount.String(),
		"redeemed_debt": newRedeemedDebt.String(),
	}
	publishTopic(pubsub, BondRedeemedTopic, payload)
}

func publishTopic(
	pubsub ports.SecurePubSub, topic string, payload map[string]interface{},
) {
	if pubsub == nil {
		return
	}

	message, _ := json.Marshal(payload)
	if err := pubsub.Publish(topic, string(message)); err != nil {
		log.WithError(err).Warnf(
			"an error occured while publishing message for topic %s", topic,
		)
	}
}
