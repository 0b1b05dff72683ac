package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var createmarket = cli.Command{
	Name:   "createmarket",
	Usage:  "create a new market for an underlying asset and a maturity date",
	Action: createMarketAction,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "underlying",
			Usage:    "the underlying asset of the market",
			Required: true,
		},
		&cli.Int64Flag{
			Name:     "maturity",
			Usage:    "the maturity date of the market as unix timestamp",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "max_debt",
			Usage:    "the maximum mintable debt in base units",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "price",
			Usage:    "the bond price scaled by 1e18",
			Required: true,
		},
		&cli.UintFlag{
			Name:  "decimals",
			Usage: "the decimals of the bond token",
			Value: 18,
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "the name of the bond token",
		},
		&cli.StringFlag{
			Name:  "symbol",
			Usage: "the symbol of the bond token",
		},
	},
}

func createMarketAction(ctx *cli.Context) error {
	resp, err := request(http.MethodPost, "/v1/markets", map[string]interface{}{
		"underlying": ctx.String("underlying"),
		"maturity":   ctx.Int64("maturity"),
		"max_debt":   ctx.String("max_debt"),
		"price":      ctx.String("price"),
		"decimals":   ctx.Uint("decimals"),
		"name":       ctx.String("name"),
		"symbol":     ctx.String("symbol"),
	})
	if err != nil {
		return err
	}

	if err := setMarketIntoState(
		ctx.String("underlying"), ctx.Int64("maturity"),
	); err != nil {
		return err
	}

	printRespJSON(resp)

	return nil
}

var listmarkets = cli.Command{
	Name:   "listmarkets",
	Usage:  "list all created markets",
	Action: listMarketsAction,
}

func listMarketsAction(ctx *cli.Context) error {
	resp, err := request(http.MethodGet, "/v1/markets", nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)

	return nil
}

var market = cli.Command{
	Name:   "market",
	Usage:  "print the state of the market in use",
	Action: marketAction,
	Subcommands: []*cli.Command{
		{
			Name:   "use",
			Usage:  "select the market to use for the next operations",
			Action: marketUseAction,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "underlying",
					Required: true,
				},
				&cli.Int64Flag{
					Name:     "maturity",
					Required: true,
				},
			},
		},
	},
}

func marketAction(ctx *cli.Context) error {
	underlying, maturity, err := getMarketFromState()
	if err != nil {
		return err
	}

	resp, err := request(http.MethodGet, fmt.Sprintf(
		"/v1/market?underlying=%s&maturity=%d", underlying, maturity,
	), nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)

	return nil
}

func marketUseAction(ctx *cli.Context) error {
	return setMarketIntoState(ctx.String("underlying"), ctx.Int64("maturity"))
}
