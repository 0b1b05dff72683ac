package main

import (
	"net/http"

	"github.com/urfave/cli/v2"
)

var amountFlag = cli.StringFlag{
	Name:     "amount",
	Usage:    "the amount of the operation in base units",
	Required: true,
}

var mint = cli.Command{
	Name:   "mint",
	Usage:  "deposit underlying into the market in use and mint bonds",
	Action: mintAction,
	Flags:  []cli.Flag{&amountFlag},
}

func mintAction(ctx *cli.Context) error {
	return marketOperationAction(ctx, "/v1/market/mint")
}

var repay = cli.Command{
	Name:   "repay",
	Usage:  "repay debt of the market in use",
	Action: repayAction,
	Flags:  []cli.Flag{&amountFlag},
}

func repayAction(ctx *cli.Context) error {
	return marketOperationAction(ctx, "/v1/market/repay")
}

var redeem = cli.Command{
	Name:   "redeem",
	Usage:  "redeem matured bonds of the market in use for underlying",
	Action: redeemAction,
	Flags:  []cli.Flag{&amountFlag},
}

func redeemAction(ctx *cli.Context) error {
	return marketOperationAction(ctx, "/v1/market/redeem")
}

func marketOperationAction(ctx *cli.Context, path string) error {
	underlying, maturity, err := getMarketFromState()
	if err != nil {
		return err
	}

	resp, err := request(http.MethodPost, path, map[string]interface{}{
		"underlying": underlying,
		"maturity":   maturity,
		"amount":     ctx.String("amount"),
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)

	return nil
}
